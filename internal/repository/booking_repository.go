package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/yourorg/roombook/internal/domain"
)

// PostgresBookingRepository implements domain.BookingRepository using
// PostgreSQL.
type PostgresBookingRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresBookingRepository creates a new booking repository
func NewPostgresBookingRepository(db *sql.DB, logger *slog.Logger) *PostgresBookingRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresBookingRepository{db: db, logger: logger}
}

// Create stores a booking
func (r *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, room_id, user_id, description, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		booking.ID,
		booking.RoomID,
		booking.UserID,
		booking.Description,
		booking.Start,
		booking.End,
	).Scan(&booking.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create booking",
			slog.String("room_id", booking.RoomID),
			slog.String("error", err.Error()),
		)
		return storeErr("failed to create booking", err)
	}

	return nil
}

// GetByID retrieves a booking by ID
func (r *PostgresBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	booking := &domain.Booking{}

	query := `
		SELECT id, room_id, user_id, description, start_time, end_time, created_at
		FROM bookings
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&booking.ID,
		&booking.RoomID,
		&booking.UserID,
		&booking.Description,
		&booking.Start,
		&booking.End,
		&booking.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("booking", id)
		}
		return nil, storeErr("failed to get booking", err)
	}

	return booking, nil
}

// ListByRoom returns the room's bookings ordered by start time ascending
func (r *PostgresBookingRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.Booking, error) {
	query := `
		SELECT id, room_id, user_id, description, start_time, end_time, created_at
		FROM bookings
		WHERE room_id = $1
		ORDER BY start_time ASC
	`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, storeErr("failed to list bookings", err)
	}
	defer rows.Close()

	var out []*domain.Booking
	for rows.Next() {
		booking := &domain.Booking{}
		if err := rows.Scan(
			&booking.ID,
			&booking.RoomID,
			&booking.UserID,
			&booking.Description,
			&booking.Start,
			&booking.End,
			&booking.CreatedAt,
		); err != nil {
			return nil, storeErr("failed to scan booking", err)
		}
		out = append(out, booking)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate bookings", err)
	}
	return out, nil
}

// Update rewrites a booking's description and interval
func (r *PostgresBookingRepository) Update(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET description = $1, start_time = $2, end_time = $3
		WHERE id = $4
	`

	result, err := r.db.ExecContext(ctx, query,
		booking.Description,
		booking.Start,
		booking.End,
		booking.ID,
	)
	if err != nil {
		return storeErr("failed to update booking", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFoundErr("booking", booking.ID)
	}

	return nil
}

// Delete removes a booking
func (r *PostgresBookingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	if err != nil {
		return storeErr("failed to delete booking", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFoundErr("booking", id)
	}

	return nil
}
