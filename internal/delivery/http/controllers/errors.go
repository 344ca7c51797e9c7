package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "activitycheckin/internal/delivery/http/helpers"
	"activitycheckin/internal/domain"
)

// writeServiceError maps domain sentinel errors to status codes. Anything unrecognised is
// logged and reported as 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, inputMessage(err))
	case errors.Is(err, domain.ErrUnauthorized):
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, err.Error())
	case errors.Is(err, domain.ErrDuplicate):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, domain.ErrDuplicate.Error())
	case errors.Is(err, domain.ErrAlreadyCheckedIn):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, domain.ErrAlreadyCheckedIn.Error())
	case errors.Is(err, domain.ErrCapacityReached):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, domain.ErrCapacityReached.Error())
	case errors.Is(err, domain.ErrBusy):
		h.WriteJSONError(w, http.StatusConflict, h.ErrCodeBusy, domain.ErrBusy.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
	}
}

// inputMessage drops everything up to "invalid input: " so the client sees only the field rule.
func inputMessage(err error) string {
	if _, rule, ok := strings.Cut(err.Error(), domain.ErrInvalidInput.Error()+": "); ok {
		return rule
	}
	return err.Error()
}
