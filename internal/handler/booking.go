package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/yourorg/roombook/internal/domain"
	"github.com/yourorg/roombook/internal/security/middleware"
	"github.com/yourorg/roombook/internal/service"
)

// BookingHandler handles booking endpoints
type BookingHandler struct {
	bookingService *service.BookingService
	logger         *slog.Logger
}

// NewBookingHandler creates a new booking handler
func NewBookingHandler(bookingService *service.BookingService, logger *slog.Logger) *BookingHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
	}
}

// BookingRequest represents a booking create or update request. Timestamps
// are RFC 3339; the interval is half-open, so end may equal another
// booking's start.
type BookingRequest struct {
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
}

// BookingResponse represents a booking in API responses
type BookingResponse struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	UserID      string    `json:"userId"`
	Description string    `json:"description,omitempty"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	CreatedAt   time.Time `json:"createdAt"`
}

func toBookingResponse(b *domain.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		RoomID:      b.RoomID,
		UserID:      b.UserID,
		Description: b.Description,
		Start:       b.Start,
		End:         b.End,
		CreatedAt:   b.CreatedAt,
	}
}

func decodeBookingRequest(w http.ResponseWriter, r *http.Request) (BookingRequest, bool) {
	var req BookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return req, false
	}
	if req.Start.IsZero() || req.End.IsZero() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "start and end are required"})
		return req, false
	}
	return req, true
}

// List handles GET /api/rooms/{id}/bookings
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	bookings, err := h.bookingService.ListByRoom(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, toBookingResponse(b))
	}
	writeJSON(w, http.StatusOK, out)
}

// Create handles POST /api/rooms/{id}/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	req, ok := decodeBookingRequest(w, r)
	if !ok {
		return
	}

	booking, err := h.bookingService.Create(r.Context(), r.PathValue("id"), claims.UserID, service.BookingInput{
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toBookingResponse(booking))
}

// Update handles PUT /api/rooms/{id}/bookings/{bookingId}
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	req, ok := decodeBookingRequest(w, r)
	if !ok {
		return
	}

	err := h.bookingService.Update(r.Context(), r.PathValue("bookingId"), r.PathValue("id"), claims.UserID, service.BookingInput{
		Description: req.Description,
		Start:       req.Start,
		End:         req.End,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /api/rooms/{id}/bookings/{bookingId}
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	err := h.bookingService.Delete(r.Context(), r.PathValue("bookingId"), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
