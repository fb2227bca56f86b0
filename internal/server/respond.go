package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"propertypulse/pkg/types"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    any             `json:"data,omitempty"`
	Meta    *types.PageMeta `json:"meta,omitempty"`
}

func (s *Service) respond(w http.ResponseWriter, status int, message string, data any) {
	s.respondMeta(w, status, message, data, nil)
}

func (s *Service) respondMeta(w http.ResponseWriter, status int, message string, data any, meta *types.PageMeta) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(envelope{
		Success: status < http.StatusBadRequest,
		Message: message,
		Data:    data,
		Meta:    meta,
	})
	if err != nil {
		s.logger.WithError(err).Error("failed to encode response")
	}
}

// respondError maps the service error taxonomy onto HTTP statuses.
// Anything outside the taxonomy is logged and surfaced as a generic 500.
func (s *Service) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *types.Error
	if errors.As(err, &appErr) {
		s.respond(w, statusForKind(appErr.Kind), appErr.Message, nil)
		return
	}

	s.logger.WithError(err).
		WithField("path", r.URL.Path).
		Error("request failed")
	s.respond(w, http.StatusInternalServerError, "internal server error", nil)
}

func statusForKind(kind types.ErrorKind) int {
	switch kind {
	case types.ErrKindNotFound:
		return http.StatusNotFound
	case types.ErrKindBadRequest:
		return http.StatusBadRequest
	case types.ErrKindForbidden:
		return http.StatusForbidden
	case types.ErrKindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

const maxBodyBytes = 1 << 20

func (s *Service) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return types.NewBadRequest("invalid request body: %s", err.Error())
	}

	return nil
}

func (s *Service) pageParams(r *http.Request) types.PageParams {
	var params types.PageParams
	// Decode errors fall back to defaults rather than failing the request.
	if err := queryDecoder.Decode(&params, r.URL.Query()); err != nil {
		s.logger.WithError(err).Debug("failed to decode page params")
	}
	return params.Normalize()
}

func pageMeta(params types.PageParams, total int) *types.PageMeta {
	return &types.PageMeta{Page: params.Page, Limit: params.Limit, Total: total}
}
