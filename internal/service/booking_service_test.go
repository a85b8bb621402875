package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourorg/roombook/internal/domain"
	"github.com/yourorg/roombook/internal/security"
)

type bookingFixture struct {
	svc      *BookingService
	rooms    *memRoomRepo
	members  *memMemberRepo
	bookings *memBookingRepo
	room     *domain.Room
}

func newBookingFixture(t *testing.T) *bookingFixture {
	t.Helper()
	members := newMemMemberRepo()
	bookings := newMemBookingRepo()
	rooms := newMemRoomRepo(members, bookings)

	room := &domain.Room{ID: "room-1", Name: "Board Room", CreatedBy: "owner-1"}
	if err := rooms.Create(context.Background(), room); err != nil {
		t.Fatalf("seed room: %v", err)
	}

	svc := NewBookingService(rooms, members, bookings, nopLocker{}, security.NewAuthorizationService(nil), nil)
	return &bookingFixture{svc: svc, rooms: rooms, members: members, bookings: bookings, room: room}
}

func (f *bookingFixture) addMember(t *testing.T, userID string, role domain.Role) {
	t.Helper()
	err := f.members.Add(context.Background(), &domain.RoomMember{
		ID: "m-" + userID, RoomID: f.room.ID, UserID: userID, Role: role,
	})
	if err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func hhmm(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func TestCreateBookingHappyPath(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{
		Description: "standup",
		Start:       hhmm(10, 0),
		End:         hhmm(11, 0),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if b.ID == "" || b.RoomID != f.room.ID || b.UserID != "owner-1" {
		t.Errorf("unexpected booking: %+v", b)
	}

	got, err := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(got))
	}
}

func TestCreateBookingTouchingSlotSucceeds(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(10, 0), End: hhmm(11, 0)}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	// [11:00,12:00) touches [10:00,11:00) and must not conflict.
	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(11, 0), End: hhmm(12, 0)}); err != nil {
		t.Fatalf("touching create failed: %v", err)
	}
}

func TestCreateBookingConflict(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(10, 0), End: hhmm(11, 0)}); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	_, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(10, 30), End: hhmm(10, 45)})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken, got %v", err)
	}

	got, _ := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if len(got) != 1 {
		t.Errorf("conflicting booking must not be persisted, have %d", len(got))
	}
}

func TestCreateBookingInvalidIntervalBeforeConflictCheck(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(11, 0), End: hhmm(10, 0)})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	_, err = f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(10, 0), End: hhmm(10, 0)})
	if !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for zero-length, got %v", err)
	}

	got, _ := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if len(got) != 0 {
		t.Errorf("invalid booking must not be persisted, have %d", len(got))
	}
}

func TestCreateBookingForbiddenForPlainUser(t *testing.T) {
	f := newBookingFixture(t)
	f.addMember(t, "bob", domain.RoleUser)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.room.ID, "bob", BookingInput{Start: hhmm(10, 0), End: hhmm(11, 0)})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	got, _ := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if len(got) != 0 {
		t.Errorf("forbidden booking must not be persisted, have %d", len(got))
	}
}

func TestCreateBookingAllowedForAdminMember(t *testing.T) {
	f := newBookingFixture(t)
	f.addMember(t, "alice", domain.RoleAdmin)

	if _, err := f.svc.Create(context.Background(), f.room.ID, "alice", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)}); err != nil {
		t.Fatalf("admin create failed: %v", err)
	}
}

func TestCreateBookingForbiddenBeforeIntervalCheck(t *testing.T) {
	f := newBookingFixture(t)
	f.addMember(t, "bob", domain.RoleUser)

	// An invalid interval from an unauthorized user still reports Forbidden:
	// authorization is evaluated first.
	_, err := f.svc.Create(context.Background(), f.room.ID, "bob", BookingInput{Start: hhmm(11, 0), End: hhmm(10, 0)})
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUpdateBookingSelfExclusion(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Shifting the booking onto its own previous slot must succeed.
	err = f.svc.Update(ctx, b.ID, f.room.ID, "owner-1", BookingInput{
		Description: "moved",
		Start:       hhmm(9, 30),
		End:         hhmm(10, 30),
	})
	if err != nil {
		t.Fatalf("self-overlapping update failed: %v", err)
	}

	got, _ := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if len(got) != 1 || !got[0].Start.Equal(hhmm(9, 30)) || got[0].Description != "moved" {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestUpdateBookingConflictsWithOthers(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b1, _ := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)})
	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(10, 0), End: hhmm(11, 0)}); err != nil {
		t.Fatalf("second create failed: %v", err)
	}

	err := f.svc.Update(ctx, b1.ID, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 30), End: hhmm(10, 30)})
	if !errors.Is(err, domain.ErrSlotTaken) {
		t.Fatalf("expected ErrSlotTaken against other booking, got %v", err)
	}
}

func TestUpdateBookingWrongRoom(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	b, _ := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)})

	err := f.svc.Update(ctx, b.ID, "other-room", "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for mismatched room, got %v", err)
	}
}

func TestDeleteBookingAuthorization(t *testing.T) {
	f := newBookingFixture(t)
	f.addMember(t, "bob", domain.RoleUser)
	ctx := context.Background()

	b, _ := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)})

	if err := f.svc.Delete(ctx, b.ID, f.room.ID, "bob"); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for plain user delete, got %v", err)
	}
	if err := f.svc.Delete(ctx, b.ID, "other-room", "owner-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for mismatched room, got %v", err)
	}
	if err := f.svc.Delete(ctx, b.ID, f.room.ID, "owner-1"); err != nil {
		t.Fatalf("owner delete failed: %v", err)
	}
	if err := f.svc.Delete(ctx, b.ID, f.room.ID, "owner-1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestListByRoomOrdersByStart(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(13, 0), End: hhmm(14, 0)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if _, err := f.svc.Create(ctx, f.room.ID, "owner-1", BookingInput{Start: hhmm(9, 0), End: hhmm(10, 0)}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := f.svc.ListByRoom(ctx, f.room.ID, "owner-1")
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 2 || !got[0].Start.Before(got[1].Start) {
		t.Errorf("bookings not ordered by start: %+v", got)
	}
}

func TestListByRoomUnknownRoom(t *testing.T) {
	f := newBookingFixture(t)

	_, err := f.svc.ListByRoom(context.Background(), "nope", "owner-1")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
