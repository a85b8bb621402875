// Package schedule holds the interval-overlap logic that decides whether a
// proposed booking collides with a room's existing bookings.
package schedule

import (
	"time"

	"github.com/yourorg/roombook/internal/domain"
)

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) overlap. Touching intervals do not overlap: an interval
// ending exactly when another starts leaves both slots usable.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

// HasConflict reports whether the candidate interval [start, end) overlaps
// any booking in existing. A booking whose id equals excludeID is skipped,
// which lets an update be checked against every booking other than itself.
// Pass an empty excludeID for creates.
//
// The scan is linear; a room's booking count is small and bounded by manual
// scheduling use.
func HasConflict(start, end time.Time, existing []*domain.Booking, excludeID string) bool {
	for _, b := range existing {
		if excludeID != "" && b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, b.Start, b.End) {
			return true
		}
	}
	return false
}
