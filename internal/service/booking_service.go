package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/yourorg/roombook/internal/domain"
	"github.com/yourorg/roombook/internal/featureflags"
	"github.com/yourorg/roombook/internal/observability/metrics"
	"github.com/yourorg/roombook/internal/schedule"
	"github.com/yourorg/roombook/internal/security"
)

// BookingService orchestrates booking mutations. Every mutation follows the
// same sequence: authorization first, then interval validation, then the
// conflict check against the room's current bookings, then a single write.
// The conflict check re-reads persisted state under the room lock on every
// call; nothing is cached between requests.
type BookingService struct {
	rooms    domain.RoomRepository
	members  domain.MemberRepository
	bookings domain.BookingRepository
	locks    domain.RoomLocker
	authz    *security.AuthorizationService
	logger   *slog.Logger
}

// BookingInput carries the caller-supplied fields of a create or update.
type BookingInput struct {
	Description string
	Start       time.Time
	End         time.Time
}

// NewBookingService creates a new booking service
func NewBookingService(
	rooms domain.RoomRepository,
	members domain.MemberRepository,
	bookings domain.BookingRepository,
	locks domain.RoomLocker,
	authz *security.AuthorizationService,
	logger *slog.Logger,
) *BookingService {
	if logger == nil {
		logger = slog.Default()
	}
	return &BookingService{
		rooms:    rooms,
		members:  members,
		bookings: bookings,
		locks:    locks,
		authz:    authz,
		logger:   logger,
	}
}

// ListByRoom returns the room's bookings ordered by start time ascending.
// Readable by any authenticated user unless the members_only_reads flag
// restricts reads to the owner and members.
func (s *BookingService) ListByRoom(ctx context.Context, roomID, actingUserID string) ([]*domain.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if featureflags.Enabled(featureflags.MembersOnlyReads) {
		roomMembers, err := s.members.ListByRoom(ctx, roomID)
		if err != nil {
			return nil, err
		}
		if !s.authz.IsMember(actingUserID, room, roomMembers) {
			return nil, domain.ErrForbidden
		}
	}
	return s.bookings.ListByRoom(ctx, roomID)
}

// Create reserves an interval in the room for the acting user. It fails
// with ErrForbidden unless the user is admin-or-owner, ErrInvalidInterval
// when end <= start, and ErrSlotTaken when the interval overlaps an
// existing booking.
func (s *BookingService) Create(ctx context.Context, roomID, actingUserID string, input BookingInput) (*domain.Booking, error) {
	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	roomMembers, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := s.authz.RequireAdmin(actingUserID, room, roomMembers); err != nil {
		metrics.ObserveBooking("create", "forbidden")
		return nil, err
	}

	if !input.End.After(input.Start) {
		metrics.ObserveBooking("create", "invalid_interval")
		return nil, fmt.Errorf("interval [%s, %s): %w",
			input.Start.Format(time.RFC3339), input.End.Format(time.RFC3339), domain.ErrInvalidInterval)
	}

	lockStart := time.Now()
	release, err := s.locks.Acquire(ctx, roomID)
	if err != nil {
		return nil, err
	}
	defer release()
	metrics.ObserveLockWait(time.Since(lockStart))

	existing, err := s.bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if schedule.HasConflict(input.Start, input.End, existing, "") {
		metrics.ObserveBooking("create", "conflict")
		return nil, fmt.Errorf("room %s: %w", roomID, domain.ErrSlotTaken)
	}

	booking := &domain.Booking{
		ID:          uuid.NewString(),
		RoomID:      roomID,
		UserID:      actingUserID,
		Description: input.Description,
		Start:       input.Start,
		End:         input.End,
	}
	if err := s.bookings.Create(ctx, booking); err != nil {
		metrics.ObserveBooking("create", "error")
		return nil, err
	}

	metrics.ObserveBooking("create", "created")
	s.logger.Info("booking created",
		slog.String("booking_id", booking.ID),
		slog.String("room_id", roomID),
		slog.String("user_id", actingUserID),
		slog.Time("start", booking.Start),
		slog.Time("end", booking.End),
	)
	return booking, nil
}

// Update rewrites a booking's interval and description with the same checks
// as Create, except the booking itself is excluded from the conflict scan.
func (s *BookingService) Update(ctx context.Context, bookingID, roomID, actingUserID string, input BookingInput) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.RoomID != roomID {
		return fmt.Errorf("booking %s in room %s: %w", bookingID, roomID, domain.ErrNotFound)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return err
	}
	roomMembers, err := s.members.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(actingUserID, room, roomMembers); err != nil {
		metrics.ObserveBooking("update", "forbidden")
		return err
	}

	if !input.End.After(input.Start) {
		metrics.ObserveBooking("update", "invalid_interval")
		return fmt.Errorf("interval [%s, %s): %w",
			input.Start.Format(time.RFC3339), input.End.Format(time.RFC3339), domain.ErrInvalidInterval)
	}

	lockStart := time.Now()
	release, err := s.locks.Acquire(ctx, roomID)
	if err != nil {
		return err
	}
	defer release()
	metrics.ObserveLockWait(time.Since(lockStart))

	existing, err := s.bookings.ListByRoom(ctx, roomID)
	if err != nil {
		return err
	}
	if schedule.HasConflict(input.Start, input.End, existing, bookingID) {
		metrics.ObserveBooking("update", "conflict")
		return fmt.Errorf("room %s: %w", roomID, domain.ErrSlotTaken)
	}

	booking.Description = input.Description
	booking.Start = input.Start
	booking.End = input.End
	if err := s.bookings.Update(ctx, booking); err != nil {
		metrics.ObserveBooking("update", "error")
		return err
	}

	metrics.ObserveBooking("update", "updated")
	s.logger.Info("booking updated",
		slog.String("booking_id", bookingID),
		slog.String("room_id", roomID),
		slog.String("user_id", actingUserID),
	)
	return nil
}

// Delete removes a booking. Authorization is evaluated against the room the
// booking belongs to; no conflict check is needed.
func (s *BookingService) Delete(ctx context.Context, bookingID, roomID, actingUserID string) error {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return err
	}
	if booking.RoomID != roomID {
		return fmt.Errorf("booking %s in room %s: %w", bookingID, roomID, domain.ErrNotFound)
	}

	room, err := s.rooms.GetByID(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	roomMembers, err := s.members.ListByRoom(ctx, booking.RoomID)
	if err != nil {
		return err
	}
	if err := s.authz.RequireAdmin(actingUserID, room, roomMembers); err != nil {
		metrics.ObserveBooking("delete", "forbidden")
		return err
	}

	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		metrics.ObserveBooking("delete", "error")
		return err
	}

	metrics.ObserveBooking("delete", "deleted")
	s.logger.Info("booking deleted",
		slog.String("booking_id", bookingID),
		slog.String("room_id", booking.RoomID),
		slog.String("user_id", actingUserID),
	)
	return nil
}
