package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/Saifff-551/foodhelp/internal/domain"
)

type errorResponse struct {
	Error  string       `json:"error"`
	Fields []fieldError `json:"fields,omitempty"`
}

type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
}

const maxBodyBytes = 1 << 20

// handleError maps a service error to an HTTP response. Unknown errors are
// logged and reported as 500.
func handleError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		resp := errorResponse{Error: "validation failed", Fields: make([]fieldError, 0, len(ve.Errors))}
		for _, fe := range ve.Errors {
			resp.Fields = append(resp.Fields, fieldError{Field: fe.Field, Message: fe.Message})
		}
		writeJSON(w, http.StatusBadRequest, resp)
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, "validation failed")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotAuthorized):
		writeError(w, http.StatusForbidden, "you are not authorized to perform this action")
	case errors.Is(err, domain.ErrNotVerified):
		writeError(w, http.StatusForbidden, "organization is not verified yet")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrAlreadyClaimed):
		writeError(w, http.StatusConflict, "already claimed by someone else")
	case errors.Is(err, domain.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid status transition, refresh and retry")
	case errors.Is(err, domain.ErrRoleAlreadyAssigned):
		writeError(w, http.StatusConflict, "role already assigned")
	case errors.Is(err, domain.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "already exists")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, domain.ErrStoreUnavailable):
		log.WarnContext(r.Context(), "store unavailable", slog.String("error", err.Error()))
		writeError(w, http.StatusServiceUnavailable, "service temporarily unavailable")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
