package server

import (
	"net/http"

	"propertypulse/internal/service"
)

func (s *Service) handleCreateProperty(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.CreatePropertyInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	property, err := s.properties.CreateProperty(r.Context(), actor, input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "property created", property)
}

func (s *Service) handleListProperties(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	params := s.pageParams(r)

	list, total, err := s.properties.ListProperties(r.Context(), actor, params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondMeta(w, http.StatusOK, "properties listed", list, pageMeta(params, total))
}

func (s *Service) handleGetProperty(w http.ResponseWriter, r *http.Request) {
	property, err := s.properties.Property(r.Context(), r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "property fetched", property)
}

func (s *Service) handleUpdateProperty(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input service.UpdatePropertyInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	property, err := s.properties.UpdateProperty(r.Context(), actor, r.PathValue("propertyID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "property updated", property)
}

func (s *Service) handleDeleteProperty(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	if err := s.properties.DeleteProperty(r.Context(), actor, r.PathValue("propertyID")); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "property deleted", nil)
}

type assignManagerInput struct {
	ManagerID *string `json:"managerId"`
}

func (s *Service) handleAssignManager(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input assignManagerInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	property, err := s.properties.AssignManager(r.Context(), actor, r.PathValue("propertyID"), input.ManagerID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "manager assigned", property)
}

type assignTemplateInput struct {
	TemplateID string `json:"templateId"`
}

func (s *Service) handleAssignTemplate(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var input assignTemplateInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	property, err := s.properties.AssignTemplate(r.Context(), actor, r.PathValue("propertyID"), input.TemplateID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "dashboard template assigned", property)
}

func (s *Service) handlePropertyAudit(w http.ResponseWriter, r *http.Request) {
	actor, err := s.userFromContext(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	events, err := s.access.AuditTrail(r.Context(), actor, r.PathValue("propertyID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "audit trail fetched", events)
}
