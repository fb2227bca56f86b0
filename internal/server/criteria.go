package server

import (
	"net/http"

	"propertypulse/internal/service"
	"propertypulse/pkg/types"
)

func (s *Service) handleCreateCriteria(w http.ResponseWriter, r *http.Request) {
	var input service.CreateCriteriaInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.CreateCriteria(r.Context(), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "criteria created", criteria)
}

func (s *Service) handleListCriteria(w http.ResponseWriter, r *http.Request) {
	params := s.pageParams(r)
	activeOnly := r.URL.Query().Get("isActive") == "true"

	list, total, err := s.criteria.ListCriteria(r.Context(), params, activeOnly)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondMeta(w, http.StatusOK, "criteria listed", list, pageMeta(params, total))
}

func (s *Service) handleGetCriteria(w http.ResponseWriter, r *http.Request) {
	criteria, err := s.criteria.Criteria(r.Context(), r.PathValue("criteriaID"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "criteria fetched", criteria)
}

func (s *Service) handleUpdateCriteria(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateCriteriaInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.UpdateCriteria(r.Context(), r.PathValue("criteriaID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "criteria updated", criteria)
}

func (s *Service) handleDeleteCriteria(w http.ResponseWriter, r *http.Request) {
	if err := s.criteria.DeleteCriteria(r.Context(), r.PathValue("criteriaID")); err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "criteria deleted", nil)
}

func (s *Service) handleAddHeaderField(w http.ResponseWriter, r *http.Request) {
	var input service.HeaderFieldInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.AddHeaderField(r.Context(), r.PathValue("criteriaID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "header field added", criteria)
}

func (s *Service) handleUpdateHeaderField(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateHeaderFieldInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	criteria, err := s.criteria.UpdateHeaderField(ctx, r.PathValue("criteriaID"), r.PathValue("key"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "header field updated", criteria)
}

func (s *Service) handleRemoveHeaderField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	criteria, err := s.criteria.RemoveHeaderField(ctx, r.PathValue("criteriaID"), r.PathValue("key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "header field removed", criteria)
}

func (s *Service) handleAddScoringCategory(w http.ResponseWriter, r *http.Request) {
	var input service.ScoringCategoryInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.AddScoringCategory(r.Context(), r.PathValue("criteriaID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "scoring category added", criteria)
}

func (s *Service) handleUpdateScoringCategory(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateScoringCategoryInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	criteria, err := s.criteria.UpdateScoringCategory(ctx, r.PathValue("criteriaID"), r.PathValue("key"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "scoring category updated", criteria)
}

func (s *Service) handleRemoveScoringCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	criteria, err := s.criteria.RemoveScoringCategory(ctx, r.PathValue("criteriaID"), r.PathValue("key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "scoring category removed", criteria)
}

func (s *Service) handleAddMediaField(w http.ResponseWriter, r *http.Request) {
	var input service.MediaFieldInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.AddMediaField(r.Context(), r.PathValue("criteriaID"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusCreated, "media field added", criteria)
}

func (s *Service) handleUpdateMediaField(w http.ResponseWriter, r *http.Request) {
	var input service.UpdateMediaFieldInput
	if err := s.decodeJSON(w, r, &input); err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	criteria, err := s.criteria.UpdateMediaField(ctx, r.PathValue("criteriaID"), r.PathValue("key"), input)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "media field updated", criteria)
}

func (s *Service) handleRemoveMediaField(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	criteria, err := s.criteria.RemoveMediaField(ctx, r.PathValue("criteriaID"), r.PathValue("key"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "media field removed", criteria)
}

func (s *Service) handleUpdateNotesConfig(w http.ResponseWriter, r *http.Request) {
	var config types.AdditionalNotesConfig
	if err := s.decodeJSON(w, r, &config); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.UpdateAdditionalNotesConfig(r.Context(), r.PathValue("criteriaID"), config)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "additional notes config updated", criteria)
}

func (s *Service) handleUpdateRepairConfig(w http.ResponseWriter, r *http.Request) {
	var config types.RepairPlanningConfig
	if err := s.decodeJSON(w, r, &config); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.UpdateRepairPlanningConfig(r.Context(), r.PathValue("criteriaID"), config)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "repair planning config updated", criteria)
}

func (s *Service) handleUpdateThresholdConfig(w http.ResponseWriter, r *http.Request) {
	var config types.HealthThresholdConfig
	if err := s.decodeJSON(w, r, &config); err != nil {
		s.respondError(w, r, err)
		return
	}

	criteria, err := s.criteria.UpdateHealthThresholdConfig(r.Context(), r.PathValue("criteriaID"), config)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respond(w, http.StatusOK, "health threshold config updated", criteria)
}
