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

// MemberHandler handles room membership endpoints
type MemberHandler struct {
	roomService *service.RoomService
	logger      *slog.Logger
}

// NewMemberHandler creates a new member handler
func NewMemberHandler(roomService *service.RoomService, logger *slog.Logger) *MemberHandler {
	if logger == nil {
		logger = slog.Default()
	}

	return &MemberHandler{
		roomService: roomService,
		logger:      logger,
	}
}

// AddMemberRequest represents a membership grant request
type AddMemberRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

// MemberResponse represents a membership in API responses
type MemberResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMemberResponse(m *domain.RoomMember) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Email:     m.Email,
		Role:      string(m.Role),
		CreatedAt: m.CreatedAt,
	}
}

// List handles GET /api/rooms/{id}/members
func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	members, err := h.roomService.ListMembers(r.Context(), r.PathValue("id"), claims.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]MemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, toMemberResponse(m))
	}
	writeJSON(w, http.StatusOK, out)
}

// Add handles POST /api/rooms/{id}/members
func (h *MemberHandler) Add(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	var req AddMemberRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
		return
	}
	if req.Email == "" {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "email is required"})
		return
	}

	role := domain.Role(req.Role)
	if !role.Assignable() {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "role must be admin or user"})
		return
	}

	member, err := h.roomService.AddMember(r.Context(), r.PathValue("id"), claims.UserID, req.Email, role)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(member))
}

// Remove handles DELETE /api/rooms/{id}/members/{memberId}
func (h *MemberHandler) Remove(w http.ResponseWriter, r *http.Request) {
	claims := middleware.GetClaimsFromContext(r.Context())
	if claims == nil {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return
	}

	err := h.roomService.RemoveMember(r.Context(), r.PathValue("id"), claims.UserID, r.PathValue("memberId"))
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
