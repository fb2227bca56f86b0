package server

import (
	"net/http"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"
)

func (s *Service) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "profile fetched", actor)
}

func (s *Service) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.UpdateProfileInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.profile.UpdateProfile(r.Context(), actor.ID, input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "profile updated", user)
}

func (s *Service) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.ChangePasswordInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.profile.ChangePassword(r.Context(), actor.ID, input); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "password changed", nil)
}

func (s *Service) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	settings, err := s.profile.Notifications(r.Context(), actor)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "notification settings fetched", settings)
}

func (s *Service) handleUpdateNotifications(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var prefs types.NotificationPrefs
	if err := s.decodeJSON(w, r, &prefs); err != nil {
		s.respondError(w, r, err)
		return
	}

	settings, err := s.profile.UpdateNotifications(r.Context(), actor, prefs)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "notification settings updated", settings)
}
