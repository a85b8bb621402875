package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/yourorg/roombook/internal/domain"
	"github.com/yourorg/roombook/internal/featureflags"
	"github.com/yourorg/roombook/internal/observability/metrics"
	"github.com/yourorg/roombook/internal/security"
)

// RoomService orchestrates room and membership mutations. Room creation is
// open to any authenticated user, who becomes the room's owner through
// created_by; ownership is never duplicated into a membership row. Detail
// edits and deletion are owner-only; member add/remove is admin-or-owner.
type RoomService struct {
	rooms   domain.RoomRepository
	members domain.MemberRepository
	users   domain.UserDirectory
	locks   domain.RoomLocker
	authz   *security.AuthorizationService
	logger  *slog.Logger
}

// RoomUpdate carries a partial room edit; nil fields are left unchanged.
type RoomUpdate struct {
	Name        *string
	Description *string
}

// NewRoomService creates a new room service
func NewRoomService(
	rooms domain.RoomRepository,
	members domain.MemberRepository,
	users domain.UserDirectory,
	locks domain.RoomLocker,
	authz *security.AuthorizationService,
	logger *slog.Logger,
) *RoomService {
	if logger == nil {
		logger = slog.Default()
	}
	return &RoomService{
		rooms:   rooms,
		members: members,
		users:   users,
		locks:   locks,
		authz:   authz,
		logger:  logger,
	}
}

// CreateRoom creates a room owned by the acting user.
func (s *RoomService) CreateRoom(ctx context.Context, actingUserID, name, description string) (*domain.Room, error) {
	room := &domain.Room{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedBy:   actingUserID,
	}
	if err := s.rooms.Create(ctx, room); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		slog.String("room_id", room.ID),
		slog.String("owner_id", actingUserID),
	)
	return room, nil
}

// GetRoom returns a room's details. Any authenticated user may read any
// room unless the members_only_reads flag restricts access to the owner and
// members.
func (s *RoomService) GetRoom(ctx context.Context, roomID, actingUserID string) (*domain.Room, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReadAccess(ctx, room, actingUserID); err != nil {
		return nil, err
	}
	return room, nil
}

// ListRooms returns all rooms.
func (s *RoomService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	return s.rooms.List(ctx)
}

// ListRoomsForUser returns rooms the user owns or is a member of.
func (s *RoomService) ListRoomsForUser(ctx context.Context, userID string) ([]*domain.Room, error) {
	return s.rooms.ListForUser(ctx, userID)
}

// UpdateRoom applies a partial edit to the room's name and description.
// Owner-only; created_by is immutable.
func (s *RoomService) UpdateRoom(ctx context.Context, roomID, actingUserID string, update RoomUpdate) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireOwner(actingUserID, room); err != nil {
		return err
	}

	if update.Name != nil {
		room.Name = *update.Name
	}
	if update.Description != nil {
		room.Description = *update.Description
	}

	if err := s.rooms.Update(ctx, room); err != nil {
		return err
	}

	s.logger.Info("room updated",
		slog.String("room_id", roomID),
		slog.String("user_id", actingUserID),
	)
	return nil
}

// DeleteRoom removes the room and its dependent members and bookings.
// Owner-only.
func (s *RoomService) DeleteRoom(ctx context.Context, roomID, actingUserID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireOwner(actingUserID, room); err != nil {
		return err
	}

	if err := s.rooms.Delete(ctx, roomID); err != nil {
		return err
	}

	s.logger.Info("room deleted",
		slog.String("room_id", roomID),
		slog.String("user_id", actingUserID),
	)
	return nil
}

// ListMembers returns the room's membership records.
func (s *RoomService) ListMembers(ctx context.Context, roomID, actingUserID string) ([]*domain.RoomMember, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.checkReadAccess(ctx, room, actingUserID); err != nil {
		return nil, err
	}
	return s.members.ListByRoom(ctx, roomID)
}

// AddMember grants a role in the room to the user registered under
// targetEmail. Requires admin-or-owner. Fails with ErrUserNotFound when no
// account has that email and ErrAlreadyMember when a membership for the
// user already exists. The duplicate scan and the insert run under the room
// lock so concurrent adds for the same user cannot both pass.
func (s *RoomService) AddMember(ctx context.Context, roomID, actingUserID, targetEmail string, role domain.Role) (*domain.RoomMember, error) {
	if !role.Assignable() {
		return nil, fmt.Errorf("role %q is not assignable", role)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}

	release, err := s.locks.Acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer release()

	roomMembers, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(actingUserID, room, roomMembers); err != nil {
		metrics.ObserveMembership("add", "forbidden")
		return nil, err
	}

	target, err := s.users.FindByEmail(ctx, targetEmail)
	if err != nil {
		metrics.ObserveMembership("add", "user_not_found")
		return nil, err
	}

	for _, m := range roomMembers {
		if m.UserID == target.ID {
			metrics.ObserveMembership("add", "duplicate")
			return nil, fmt.Errorf("user %s in room %s: %w", target.ID, roomID, domain.ErrAlreadyMember)
		}
	}

	member := &domain.RoomMember{
		ID:     uuid.NewString(),
		RoomID: roomID,
		UserID: target.ID,
		Email:  target.Email,
		Role:   role,
	}
	if err := s.members.Add(ctx, member); err != nil {
		metrics.ObserveMembership("add", "error")
		return nil, err
	}

	metrics.ObserveMembership("add", "added")
	s.logger.Info("member added",
		slog.String("room_id", roomID),
		slog.String("member_id", member.ID),
		slog.String("user_id", target.ID),
		slog.String("role", string(role)),
	)
	return member, nil
}

// RemoveMember deletes a membership record. Requires admin-or-owner.
// Self-removal is permitted here; suppressing it is a UI concern.
func (s *RoomService) RemoveMember(ctx context.Context, roomID, actingUserID, memberID string) error {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	roomMembers, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(actingUserID, room, roomMembers); err != nil {
		metrics.ObserveMembership("remove", "forbidden")
		return err
	}

	if err := s.members.Remove(ctx, roomID, memberID); err != nil {
		metrics.ObserveMembership("remove", "error")
		return err
	}

	metrics.ObserveMembership("remove", "removed")
	s.logger.Info("member removed",
		slog.String("room_id", roomID),
		slog.String("member_id", memberID),
		slog.String("user_id", actingUserID),
	)
	return nil
}

func (s *RoomService) checkReadAccess(ctx context.Context, room *domain.Room, actingUserID string) error {
	if !featureflags.Enabled(featureflags.MembersOnlyReads) {
		return nil
	}
	roomMembers, err := s.members.ListByRoom(ctx, room.ID)
	if err != nil {
		return err
	}
	if !s.authz.IsMember(actingUserID, room, roomMembers) {
		return domain.ErrForbidden
	}
	return nil
}
