package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubUserRepo struct {
	users map[string]*types.User
}

func (s *stubUserRepo) User(_ context.Context, userID string) (*types.User, error) {
	if u, ok := s.users[userID]; ok {
		return u, nil
	}
	return nil, types.ErrUserNotFound
}

func (s *stubUserRepo) UserByEmail(context.Context, string) (*types.User, error) {
	return nil, types.ErrUserNotFound
}

func (s *stubUserRepo) Users(context.Context, types.PageParams) ([]*types.User, int, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) Create(context.Context, *types.User) error         { return nil }
func (s *stubUserRepo) Update(context.Context, string, *types.User) error { return nil }
func (s *stubUserRepo) Delete(context.Context, string) error              { return nil }

type stubCriteriaRepo struct {
	items map[string]*types.InspectionCriteria
}

func (s *stubCriteriaRepo) Criteria(_ context.Context, criteriaID string) (*types.InspectionCriteria, error) {
	if c, ok := s.items[criteriaID]; ok {
		return c, nil
	}
	return nil, types.ErrCriteriaNotFound
}

func (s *stubCriteriaRepo) CriteriaByName(context.Context, string) (*types.InspectionCriteria, error) {
	return nil, nil
}

func (s *stubCriteriaRepo) ListCriteria(context.Context, types.PageParams, bool) ([]*types.InspectionCriteria, int, error) {
	return nil, 0, nil
}

func (s *stubCriteriaRepo) Create(context.Context, *types.InspectionCriteria) error { return nil }
func (s *stubCriteriaRepo) Update(context.Context, string, *types.InspectionCriteria) error {
	return nil
}
func (s *stubCriteriaRepo) Delete(context.Context, string) error { return nil }

func newTestServer(t *testing.T, users map[string]*types.User, criteria map[string]*types.InspectionCriteria) *Service {
	t.Helper()

	config := &types.Config{
		Environment:     "development",
		ServerPort:      8080,
		ReadTimeoutSec:  1,
		WriteTimeoutSec: 1,
		CookieName:      "pp_session",
		CookieHashKey:   base64.StdEncoding.EncodeToString(make([]byte, 32)),
		CookieBlockKey:  base64.StdEncoding.EncodeToString(make([]byte, 32)),
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	svc, err := New(
		config,
		logger,
		nil,
		service.NewCriteriaService(&stubCriteriaRepo{items: criteria}, nil),
		nil,
		nil,
		nil,
		service.NewProfileService(&stubUserRepo{users: users}, nil),
		nil,
		nil,
	)
	require.NoError(t, err)

	return svc
}

func sessionCookie(t *testing.T, s *Service, userID string) *http.Cookie {
	t.Helper()

	encoded, err := s.cookie.Encode(s.config.CookieName, userID)
	require.NoError(t, err)

	return &http.Cookie{Name: s.config.CookieName, Value: encoded}
}

func TestRouteParams(t *testing.T) {
	admin := &types.User{ID: "admin-1", Email: "admin@example.com", Role: types.RoleAdmin, IsActive: true}
	criteria := &types.InspectionCriteria{ID: "crit-1", Name: "Standard Property Inspection"}

	s := newTestServer(t,
		map[string]*types.User{admin.ID: admin},
		map[string]*types.InspectionCriteria{criteria.ID: criteria},
	)

	t.Run("path value reaches the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/inspection-criteria/crit-1", nil)
		req.AddCookie(sessionCookie(t, s, admin.ID))
		rec := httptest.NewRecorder()

		s.server.Handler.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var body struct {
			Success bool                     `json:"success"`
			Data    types.InspectionCriteria `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, "crit-1", body.Data.ID)
	})

	t.Run("unknown id maps to not found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/inspection-criteria/missing", nil)
		req.AddCookie(sessionCookie(t, s, admin.ID))
		rec := httptest.NewRecorder()

		s.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("missing session is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/inspection-criteria/crit-1", nil)
		rec := httptest.NewRecorder()

		s.server.Handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
