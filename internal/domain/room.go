package domain

import (
	"context"
	"time"
)

// Role is a user's role within a room. Ownership is represented solely by
// Room.CreatedBy; membership rows only ever hold RoleAdmin or RoleUser.
// RoleOwner exists as a derived, effective role and is never persisted.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Assignable reports whether the role may be stored on a membership record.
func (r Role) Assignable() bool {
	return r == RoleAdmin || r == RoleUser
}

// Room is a bookable shared resource. CreatedBy never changes after creation.
type Room struct {
	ID          string
	Name        string
	Description string
	CreatedBy   string // user id of the owner
	CreatedAt   time.Time
}

// RoomMember grants a user a role within a room. At most one membership
// exists per (RoomID, UserID) pair, enforced at write time under the
// per-room lock rather than by a storage constraint.
type RoomMember struct {
	ID        string
	RoomID    string
	UserID    string
	Email     string
	Role      Role
	CreatedAt time.Time
}

// RoomRepository defines data access for rooms.
type RoomRepository interface {
	Create(ctx context.Context, room *Room) error
	GetByID(ctx context.Context, id string) (*Room, error)
	List(ctx context.Context) ([]*Room, error)
	// ListForUser returns rooms the user owns or is a member of.
	ListForUser(ctx context.Context, userID string) ([]*Room, error)
	// Update persists name and description only; CreatedBy is immutable.
	Update(ctx context.Context, room *Room) error
	// Delete removes the room together with its members and bookings in a
	// single transaction.
	Delete(ctx context.Context, id string) error
}

// MemberRepository defines data access for room memberships.
type MemberRepository interface {
	Add(ctx context.Context, member *RoomMember) error
	GetByID(ctx context.Context, roomID, memberID string) (*RoomMember, error)
	Remove(ctx context.Context, roomID, memberID string) error
	ListByRoom(ctx context.Context, roomID string) ([]*RoomMember, error)
}

// RoomLocker serializes read-check-write sequences against a single room so
// that concurrent booking creates and member adds cannot both pass their
// checks on the same stale snapshot. Acquire blocks until the lock is held
// or ctx is done; the returned release function must always be called.
type RoomLocker interface {
	Acquire(ctx context.Context, roomID string) (release func(), err error)
}
