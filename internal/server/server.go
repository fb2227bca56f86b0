package server

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var queryDecoder = form.NewDecoder()

type Service struct {
	logger *logrus.Logger
	config *types.Config
	cookie *securecookie.SecureCookie

	auth       *service.AuthService
	criteria   *service.CriteriaService
	templates  *service.TemplateService
	properties *service.PropertyService
	access     *service.AccessService
	profile    *service.ProfileService
	settings   *service.SettingsService
	userAdmin  *service.UserAdminService

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	auth *service.AuthService,
	criteria *service.CriteriaService,
	templates *service.TemplateService,
	properties *service.PropertyService,
	access *service.AccessService,
	profile *service.ProfileService,
	settings *service.SettingsService,
	userAdmin *service.UserAdminService,
) (*Service, error) {
	mux := flow.New()

	hashKey, _ := base64.StdEncoding.DecodeString(config.CookieHashKey)
	blockKey, _ := base64.StdEncoding.DecodeString(config.CookieBlockKey)

	s := &Service{
		logger: logger,
		config: config,
		cookie: securecookie.New(hashKey, blockKey),

		auth:       auth,
		criteria:   criteria,
		templates:  templates,
		properties: properties,
		access:     access,
		profile:    profile,
		settings:   settings,
		userAdmin:  userAdmin,

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.MetricsMiddleware)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)
	r.Handle("/metrics", promhttp.Handler(), http.MethodGet)

	r.HandleFunc("/auth/session", s.handleLogin, http.MethodPost)
	r.HandleFunc("/auth/session", s.handleLogout, http.MethodDelete)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireAuth)

		// Inspection criteria
		r.HandleFunc("/inspection-criteria", s.handleCreateCriteria, http.MethodPost)
		r.HandleFunc("/inspection-criteria", s.handleListCriteria, http.MethodGet)
		r.HandleFunc("/inspection-criteria/:criteriaID", s.handleGetCriteria, http.MethodGet)
		r.HandleFunc("/inspection-criteria/:criteriaID", s.handleUpdateCriteria, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID", s.handleDeleteCriteria, http.MethodDelete)

		r.HandleFunc("/inspection-criteria/:criteriaID/header-fields", s.handleAddHeaderField, http.MethodPost)
		r.HandleFunc("/inspection-criteria/:criteriaID/header-fields/:key", s.handleUpdateHeaderField, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID/header-fields/:key", s.handleRemoveHeaderField, http.MethodDelete)

		r.HandleFunc("/inspection-criteria/:criteriaID/scoring-categories", s.handleAddScoringCategory, http.MethodPost)
		r.HandleFunc("/inspection-criteria/:criteriaID/scoring-categories/:key", s.handleUpdateScoringCategory, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID/scoring-categories/:key", s.handleRemoveScoringCategory, http.MethodDelete)

		r.HandleFunc("/inspection-criteria/:criteriaID/media-fields", s.handleAddMediaField, http.MethodPost)
		r.HandleFunc("/inspection-criteria/:criteriaID/media-fields/:key", s.handleUpdateMediaField, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID/media-fields/:key", s.handleRemoveMediaField, http.MethodDelete)

		r.HandleFunc("/inspection-criteria/:criteriaID/additional-notes-config", s.handleUpdateNotesConfig, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID/repair-planning-config", s.handleUpdateRepairConfig, http.MethodPatch)
		r.HandleFunc("/inspection-criteria/:criteriaID/health-threshold-config", s.handleUpdateThresholdConfig, http.MethodPatch)

		// Dashboard templates
		r.HandleFunc("/dashboard-templates", s.handleCreateTemplate, http.MethodPost)
		r.HandleFunc("/dashboard-templates", s.handleListTemplates, http.MethodGet)
		r.HandleFunc("/dashboard-templates/:templateID", s.handleGetTemplate, http.MethodGet)
		r.HandleFunc("/dashboard-templates/:templateID", s.handleUpdateTemplate, http.MethodPatch)
		r.HandleFunc("/dashboard-templates/:templateID", s.handleDeleteTemplate, http.MethodDelete)
		r.HandleFunc("/dashboard-templates/:templateID/archive", s.handleArchiveTemplate, http.MethodPost)
		r.HandleFunc("/dashboard-templates/:templateID/duplicate", s.handleDuplicateTemplate, http.MethodPost)
		r.HandleFunc("/dashboard-templates/:templateID/sections/text-field", s.handleAddTextField, http.MethodPost)
		r.HandleFunc("/dashboard-templates/:templateID/sections/media-field", s.handleAddMediaSection, http.MethodPost)
		r.HandleFunc("/dashboard-templates/:templateID/sections/style", s.handleUpdateSectionStyle, http.MethodPatch)
		r.HandleFunc("/dashboard-templates/:templateID/sections/reorder", s.handleReorderSections, http.MethodPatch)
		r.HandleFunc("/dashboard-templates/:templateID/sections/:order", s.handleRemoveSection, http.MethodDelete)

		// Properties and access control
		r.HandleFunc("/properties", s.handleCreateProperty, http.MethodPost)
		r.HandleFunc("/properties", s.handleListProperties, http.MethodGet)
		r.HandleFunc("/properties/:propertyID", s.handleGetProperty, http.MethodGet)
		r.HandleFunc("/properties/:propertyID", s.handleUpdateProperty, http.MethodPatch)
		r.HandleFunc("/properties/:propertyID", s.handleDeleteProperty, http.MethodDelete)
		r.HandleFunc("/properties/:propertyID/manager", s.handleAssignManager, http.MethodPatch)
		r.HandleFunc("/properties/:propertyID/dashboard-template", s.handleAssignTemplate, http.MethodPatch)
		r.HandleFunc("/properties/:propertyID/audit", s.handlePropertyAudit, http.MethodGet)

		r.HandleFunc("/properties/:propertyID/access", s.handleListAccess, http.MethodGet)
		r.HandleFunc("/properties/:propertyID/access/check", s.handleCheckAccess, http.MethodGet)
		r.HandleFunc("/properties/:propertyID/access/share", s.handleShareAccess, http.MethodPost)
		r.HandleFunc("/properties/:propertyID/access/requests", s.handleRequestAccess, http.MethodPost)
		r.HandleFunc("/properties/:propertyID/access/requests", s.handleListAccessRequests, http.MethodGet)
		r.HandleFunc("/properties/:propertyID/access/requests/:requestID", s.handleReviewAccessRequest, http.MethodPatch)
		r.HandleFunc("/properties/:propertyID/access/:userID", s.handleRevokeAccess, http.MethodDelete)

		// Self-service profile
		r.HandleFunc("/profile", s.handleGetProfile, http.MethodGet)
		r.HandleFunc("/profile", s.handleUpdateProfile, http.MethodPatch)
		r.HandleFunc("/profile/password", s.handleChangePassword, http.MethodPatch)
		r.HandleFunc("/profile/notifications", s.handleGetNotifications, http.MethodGet)
		r.HandleFunc("/profile/notifications", s.handleUpdateNotifications, http.MethodPatch)

		// Admin surfaces
		r.Group(func(r *flow.Mux) {
			r.Use(s.RequireAdmin)

			r.HandleFunc("/admin/settings/branding", s.handleGetBranding, http.MethodGet)
			r.HandleFunc("/admin/settings/branding", s.handleUpdateBranding, http.MethodPatch)
			r.HandleFunc("/admin/settings/role-defaults", s.handleGetRoleDefaults, http.MethodGet)
			r.HandleFunc("/admin/settings/role-defaults", s.handleUpdateRoleDefaults, http.MethodPatch)
			r.HandleFunc("/admin/settings/notifications", s.handleGetNotifications, http.MethodGet)
			r.HandleFunc("/admin/settings/notifications", s.handleUpdateNotifications, http.MethodPatch)

			r.HandleFunc("/admin/users", s.handleListUsers, http.MethodGet)
			r.HandleFunc("/admin/users", s.handleCreateUser, http.MethodPost)
			r.HandleFunc("/admin/users/:userID", s.handleGetUser, http.MethodGet)
			r.HandleFunc("/admin/users/:userID", s.handleUpdateUser, http.MethodPatch)
			r.HandleFunc("/admin/users/:userID", s.handleDeleteUser, http.MethodDelete)
		})
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, "ok", nil)
}
