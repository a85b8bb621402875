package domain

import "errors"

// Sentinel errors forming the domain's failure taxonomy. Services and
// repositories wrap these with context via fmt.Errorf("...: %w", ...);
// handlers map them to HTTP statuses with errors.Is.
var (
	// ErrInvalidInterval reports a booking interval with end <= start.
	ErrInvalidInterval = errors.New("end must be after start")

	// ErrSlotTaken reports a booking interval overlapping an existing
	// booking in the same room.
	ErrSlotTaken = errors.New("time slot already booked")

	// ErrForbidden reports an operation the acting user's role does not
	// permit.
	ErrForbidden = errors.New("forbidden")

	// ErrUserNotFound reports an email lookup that matched no account.
	ErrUserNotFound = errors.New("user not found")

	// ErrAlreadyMember reports a membership grant for a user who already
	// has one in the room.
	ErrAlreadyMember = errors.New("already a member")

	// ErrNotFound reports a missing entity (room, booking, membership).
	ErrNotFound = errors.New("not found")

	// ErrStoreUnavailable reports a storage failure that is not a missing
	// row. It is never masked as a domain outcome: a failed read aborts the
	// operation rather than deciding it.
	ErrStoreUnavailable = errors.New("store unavailable")
)
