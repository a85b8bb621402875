package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yourorg/roombook/internal/domain"
)

// ErrorResponse represents an error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		json.NewEncoder(w).Encode(body)
	}
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusForError(err), ErrorResponse{Error: publicMessage(err)})
}

// statusForError maps domain errors onto HTTP status codes. Unknown errors
// surface as 500 so internals never leak into responses.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrSlotTaken), errors.Is(err, domain.ErrAlreadyMember):
		return http.StatusConflict
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInterval):
		return "end must be after start"
	case errors.Is(err, domain.ErrForbidden):
		return "forbidden"
	case errors.Is(err, domain.ErrUserNotFound):
		return "no user with that email"
	case errors.Is(err, domain.ErrNotFound):
		return "not found"
	case errors.Is(err, domain.ErrSlotTaken):
		return "time slot already booked"
	case errors.Is(err, domain.ErrAlreadyMember):
		return "user is already a member"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "service temporarily unavailable"
	default:
		return "internal error"
	}
}
