package server

import (
	"net/http"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"
)

func (s *Service) handleGetBranding(w http.ResponseWriter, r *http.Request) {
	branding, err := s.settings.Branding(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "branding fetched", branding)
}

func (s *Service) handleUpdateBranding(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateBrandingInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	branding, err := s.settings.UpdateBranding(r.Context(), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "branding updated", branding)
}

func (s *Service) handleGetRoleDefaults(w http.ResponseWriter, r *http.Request) {
	defaults, err := s.settings.RoleDefaults(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "role notification defaults fetched", defaults)
}

func (s *Service) handleUpdateRoleDefaults(w http.ResponseWriter, r *http.Request) {
	var patch map[types.Role]types.NotificationPrefs
	if err := s.decodeJSON(w, r, &patch); err != nil {
		s.respondError(w, r, err)
		return
	}

	defaults, err := s.settings.UpdateRoleDefaults(r.Context(), patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "role notification defaults updated", defaults)
}
