package server

import (
	"net/http"
	"strconv"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"
)

func (s *Service) handleCreateTemplate(w http.ResponseWriter, r *http.Request) {
	var input service.CreateTemplateInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.CreateTemplate(r.Context(), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "template created", template)
}

func (s *Service) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	params := s.pageParams(r)

	list, total, err := s.templates.ListTemplates(r.Context(), params)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondMeta(w, http.StatusOK, "templates listed", list, pageMeta(params, total))
}

func (s *Service) handleGetTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.templates.Template(r.Context(), r.PathValue("templateID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "template fetched", template)
}

func (s *Service) handleUpdateTemplate(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateTemplateInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.UpdateTemplate(r.Context(), r.PathValue("templateID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "template updated", template)
}

func (s *Service) handleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.templates.DeleteTemplate(r.Context(), r.PathValue("templateID")); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "template deleted", nil)
}

func (s *Service) handleArchiveTemplate(w http.ResponseWriter, r *http.Request) {
	template, err := s.templates.Archive(r.Context(), r.PathValue("templateID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "template archived", template)
}

type duplicateTemplateInput struct {
	Name string `json:"name"`
}

func (s *Service) handleDuplicateTemplate(w http.ResponseWriter, r *http.Request) {
	var input duplicateTemplateInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.Duplicate(r.Context(), r.PathValue("templateID"), input.Name)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "template duplicated", template)
}

func (s *Service) handleAddTextField(w http.ResponseWriter, r *http.Request) {
	var input service.AddSectionInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.AddTextField(r.Context(), r.PathValue("templateID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "text field section added", template)
}

func (s *Service) handleAddMediaSection(w http.ResponseWriter, r *http.Request) {
	var input service.AddSectionInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.AddMediaField(r.Context(), r.PathValue("templateID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "media field section added", template)
}

func (s *Service) handleRemoveSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	order, err := strconv.Atoi(r.PathValue("order"))
	if err != nil {
		s.respondError(w, r, types.NewBadRequest("section order must be a number"))
		return
	}

	template, err := s.templates.RemoveDynamicSection(ctx, r.PathValue("templateID"), order)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "section removed", template)
}

func (s *Service) handleUpdateSectionStyle(w http.ResponseWriter, r *http.Request) {
	var input service.SectionStyleInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.UpdateSectionStyle(r.Context(), r.PathValue("templateID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "section style updated", template)
}

type reorderSectionsInput struct {
	Types []string `json:"types"`
}

func (s *Service) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	var input reorderSectionsInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	template, err := s.templates.ReorderSections(r.Context(), r.PathValue("templateID"), input.Types)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "sections reordered", template)
}
