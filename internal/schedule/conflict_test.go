package schedule

import (
	"testing"
	"time"

	"github.com/yourorg/roombook/internal/domain"
)

func at(hour, min int) time.Time {
	return time.Date(2025, time.March, 10, hour, min, 0, 0, time.UTC)
}

func booking(id string, start, end time.Time) *domain.Booking {
	return &domain.Booking{ID: id, RoomID: "room-1", Start: start, End: end}
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name                           string
		aStart, aEnd, bStart, bEnd     time.Time
		want                           bool
	}{
		{"disjoint before", at(8, 0), at(9, 0), at(10, 0), at(11, 0), false},
		{"disjoint after", at(12, 0), at(13, 0), at(10, 0), at(11, 0), false},
		{"touching end-to-start", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching start-to-end", at(11, 0), at(12, 0), at(10, 0), at(11, 0), false},
		{"partial overlap front", at(9, 30), at(10, 30), at(10, 0), at(11, 0), true},
		{"partial overlap back", at(10, 30), at(11, 30), at(10, 0), at(11, 0), true},
		{"contained", at(10, 15), at(10, 45), at(10, 0), at(11, 0), true},
		{"containing", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"identical", at(10, 0), at(11, 0), at(10, 0), at(11, 0), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlaps(tt.aStart, tt.aEnd, tt.bStart, tt.bEnd); got != tt.want {
				t.Errorf("Overlaps() = %v, want %v", got, tt.want)
			}
			// Overlap is symmetric.
			if got := Overlaps(tt.bStart, tt.bEnd, tt.aStart, tt.aEnd); got != tt.want {
				t.Errorf("Overlaps() reversed = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHasConflictTouchingSlotIsFree(t *testing.T) {
	existing := []*domain.Booking{booking("b1", at(10, 0), at(11, 0))}

	if HasConflict(at(11, 0), at(12, 0), existing, "") {
		t.Error("booking starting exactly when another ends must not conflict")
	}
	if HasConflict(at(9, 0), at(10, 0), existing, "") {
		t.Error("booking ending exactly when another starts must not conflict")
	}
}

func TestHasConflictOverlapDetected(t *testing.T) {
	existing := []*domain.Booking{booking("b1", at(10, 0), at(11, 0))}

	if !HasConflict(at(10, 30), at(10, 45), existing, "") {
		t.Error("interval inside an existing booking must conflict")
	}
	if !HasConflict(at(9, 30), at(10, 30), existing, "") {
		t.Error("interval overlapping the start must conflict")
	}
}

func TestHasConflictSelfExclusion(t *testing.T) {
	existing := []*domain.Booking{booking("b1", at(9, 0), at(10, 0))}

	// Moving b1 to an interval overlapping its own old slot is fine when
	// b1 itself is excluded from the scan.
	if HasConflict(at(9, 30), at(10, 30), existing, "b1") {
		t.Error("update must not conflict with the booking being updated")
	}
	if !HasConflict(at(9, 30), at(10, 30), existing, "") {
		t.Error("same interval without exclusion must conflict")
	}
	if !HasConflict(at(9, 30), at(10, 30), existing, "other-id") {
		t.Error("excluding an unrelated id must not suppress the conflict")
	}
}

func TestHasConflictEmptySet(t *testing.T) {
	if HasConflict(at(10, 0), at(11, 0), nil, "") {
		t.Error("empty booking set can never conflict")
	}
}

func TestHasConflictScansAllBookings(t *testing.T) {
	existing := []*domain.Booking{
		booking("b1", at(8, 0), at(9, 0)),
		booking("b2", at(10, 0), at(11, 0)),
		booking("b3", at(13, 0), at(14, 0)),
	}

	if !HasConflict(at(10, 30), at(12, 0), existing, "") {
		t.Error("conflict in the middle of the set must be detected")
	}
	if HasConflict(at(9, 0), at(10, 0), existing, "") {
		t.Error("gap between bookings must be free")
	}
	if HasConflict(at(10, 30), at(12, 0), existing, "b2") {
		t.Error("excluding the only overlapping booking must clear the conflict")
	}
}
