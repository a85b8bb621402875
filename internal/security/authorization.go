package security

import (
	"log/slog"

	"github.com/yourorg/roombook/internal/domain"
)

// AuthorizationService derives a user's effective role for a room and gates
// privileged operations. It is a pure predicate over already-fetched data:
// ownership comes from Room.CreatedBy, everything else from the membership
// list. Both services consult it before any mutation, so role logic lives
// here and nowhere else.
type AuthorizationService struct {
	logger *slog.Logger
}

// NewAuthorizationService creates a new authorization service.
func NewAuthorizationService(logger *slog.Logger) *AuthorizationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthorizationService{logger: logger}
}

// EffectiveRole computes the user's role for the room: RoleOwner if the user
// created the room, otherwise the role on the matching membership record.
// The second return value is false when the user has no access at all.
func (as *AuthorizationService) EffectiveRole(userID string, room *domain.Room, members []*domain.RoomMember) (domain.Role, bool) {
	if userID == room.CreatedBy {
		return domain.RoleOwner, true
	}
	for _, m := range members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsOwner reports whether the user created the room.
func (as *AuthorizationService) IsOwner(userID string, room *domain.Room) bool {
	return userID == room.CreatedBy
}

// IsAdmin reports whether the user is the room's owner or holds the admin
// role in its membership list. Owner always implies admin.
func (as *AuthorizationService) IsAdmin(userID string, room *domain.Room, members []*domain.RoomMember) bool {
	if as.IsOwner(userID, room) {
		return true
	}
	for _, m := range members {
		if m.UserID == userID && m.Role == domain.RoleAdmin {
			return true
		}
	}
	return false
}

// RequireOwner returns ErrForbidden unless the user owns the room.
func (as *AuthorizationService) RequireOwner(userID string, room *domain.Room) error {
	if !as.IsOwner(userID, room) {
		as.logger.Warn("owner permission denied",
			slog.String("user_id", userID),
			slog.String("room_id", room.ID),
		)
		return domain.ErrForbidden
	}
	return nil
}

// RequireAdmin returns ErrForbidden unless the user is admin-or-owner.
func (as *AuthorizationService) RequireAdmin(userID string, room *domain.Room, members []*domain.RoomMember) error {
	if !as.IsAdmin(userID, room, members) {
		as.logger.Warn("admin permission denied",
			slog.String("user_id", userID),
			slog.String("room_id", room.ID),
		)
		return domain.ErrForbidden
	}
	return nil
}

// IsMember reports whether the user owns the room or appears in its
// membership list with any role. Used only when room reads are restricted
// to members via the members_only_reads flag.
func (as *AuthorizationService) IsMember(userID string, room *domain.Room, members []*domain.RoomMember) bool {
	_, ok := as.EffectiveRole(userID, room, members)
	return ok
}
