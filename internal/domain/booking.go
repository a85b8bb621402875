package domain

import (
	"context"
	"time"
)

// Booking is a reserved time interval within a room. Intervals are half-open
// [Start, End): a booking ending exactly when another starts does not
// overlap it. End > Start always holds for persisted bookings.
type Booking struct {
	ID          string
	RoomID      string
	UserID      string // user who created the booking
	Description string
	Start       time.Time
	End         time.Time
	CreatedAt   time.Time
}

// BookingRepository defines data access for bookings.
type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	// ListByRoom returns the room's bookings ordered by Start ascending.
	ListByRoom(ctx context.Context, roomID string) ([]*Booking, error)
	Update(ctx context.Context, booking *Booking) error
	Delete(ctx context.Context, id string) error
}
