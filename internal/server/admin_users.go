package server

import (
	"net/http"

	"propertypulse/internal/service"
)

func (s *Service) handleListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	params := s.pageParams(r)

	users, total, err := s.userAdmin.ListUsers(r.Context(), actor, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondMeta(w, http.StatusOK, "users listed", users, pageMeta(params, total))
}

func (s *Service) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.CreateUserInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userAdmin.CreateUser(r.Context(), actor, input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "user created", user)
}

func (s *Service) handleGetUser(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userAdmin.User(r.Context(), actor, r.PathValue("userID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "user fetched", user)
}

func (s *Service) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.UpdateUserInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	user, err := s.userAdmin.UpdateUser(r.Context(), actor, r.PathValue("userID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "user updated", user)
}

func (s *Service) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.userAdmin.DeleteUser(r.Context(), actor, r.PathValue("userID")); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "user deleted", nil)
}
