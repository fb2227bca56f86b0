package server

import (
	"net/http"

	"propertypulse/internal/service"
)

type requestAccessInput struct {
	Message *string `json:"message"`
}

func (s *Service) handleRequestAccess(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input requestAccessInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.access.RequestAccess(r.Context(), actor, r.PathValue("propertyID"), input.Message)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "access requested", request)
}

func (s *Service) handleListAccessRequests(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.access.ListRequests(r.Context(), actor, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "access requests listed", requests)
}

func (s *Service) handleReviewAccessRequest(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.ReviewRequestInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.access.ReviewRequest(r.Context(), actor, r.PathValue("requestID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "access request reviewed", request)
}

func (s *Service) handleShareAccess(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.ShareAccessInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	access, err := s.access.ShareAccess(r.Context(), actor, r.PathValue("propertyID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "access shared", access)
}

func (s *Service) handleRevokeAccess(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	err = s.access.RevokeAccess(ctx, actor, r.PathValue("propertyID"), r.PathValue("userID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "access revoked", nil)
}

func (s *Service) handleListAccess(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	grants, err := s.access.ListAccess(r.Context(), actor, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "access grants listed", grants)
}

func (s *Service) handleCheckAccess(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	result, err := s.access.CheckDashboardAccess(r.Context(), actor, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "access checked", result)
}
