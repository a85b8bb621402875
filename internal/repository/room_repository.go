package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/yourorg/roombook/internal/domain"
)

// PostgresRoomRepository implements domain.RoomRepository using PostgreSQL
type PostgresRoomRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRoomRepository creates a new room repository
func NewPostgresRoomRepository(db *sql.DB, logger *slog.Logger) *PostgresRoomRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRoomRepository{db: db, logger: logger}
}

// Create creates a new room
func (r *PostgresRoomRepository) Create(ctx context.Context, room *domain.Room) error {
	query := `
		INSERT INTO rooms (id, name, description, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		room.ID,
		room.Name,
		room.Description,
		room.CreatedBy,
	).Scan(&room.CreatedAt)

	if err != nil {
		r.logger.Error("failed to create room",
			slog.String("name", room.Name),
			slog.String("error", err.Error()),
		)
		return storeErr("failed to create room", err)
	}

	return nil
}

// GetByID retrieves a room by ID
func (r *PostgresRoomRepository) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	room := &domain.Room{}

	query := `
		SELECT id, name, description, created_by, created_at
		FROM rooms
		WHERE id = $1
	`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&room.ID,
		&room.Name,
		&room.Description,
		&room.CreatedBy,
		&room.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("room", id)
		}
		return nil, storeErr("failed to get room", err)
	}

	return room, nil
}

// List returns all rooms, newest first
func (r *PostgresRoomRepository) List(ctx context.Context) ([]*domain.Room, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM rooms
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, storeErr("failed to list rooms", err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// ListForUser returns rooms the user owns or is a member of
func (r *PostgresRoomRepository) ListForUser(ctx context.Context, userID string) ([]*domain.Room, error) {
	query := `
		SELECT id, name, description, created_by, created_at
		FROM rooms r
		WHERE r.created_by = $1
		   OR EXISTS (
			SELECT 1 FROM room_members m
			WHERE m.room_id = r.id AND m.user_id = $1
		   )
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, storeErr("failed to list rooms for user", err)
	}
	defer rows.Close()

	return scanRooms(rows)
}

// Update persists name and description. created_by is never written after
// creation.
func (r *PostgresRoomRepository) Update(ctx context.Context, room *domain.Room) error {
	query := `
		UPDATE rooms
		SET name = $1, description = $2
		WHERE id = $3
	`

	result, err := r.db.ExecContext(ctx, query, room.Name, room.Description, room.ID)
	if err != nil {
		return storeErr("failed to update room", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFoundErr("room", room.ID)
	}

	return nil
}

// Delete removes the room and, in the same transaction, its memberships and
// bookings, so a deleted room never leaves orphaned records behind.
func (r *PostgresRoomRepository) Delete(ctx context.Context, id string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("failed to begin room delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM bookings WHERE room_id = $1`, id); err != nil {
		return storeErr("failed to delete room bookings", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM room_members WHERE room_id = $1`, id); err != nil {
		return storeErr("failed to delete room members", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM rooms WHERE id = $1`, id)
	if err != nil {
		return storeErr("failed to delete room", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFoundErr("room", id)
	}

	if err := tx.Commit(); err != nil {
		return storeErr("failed to commit room delete", err)
	}

	r.logger.Debug("room deleted with dependents", slog.String("room_id", id))
	return nil
}

func scanRooms(rows *sql.Rows) ([]*domain.Room, error) {
	var out []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Description,
			&room.CreatedBy,
			&room.CreatedAt,
		); err != nil {
			return nil, storeErr("failed to scan room", err)
		}
		out = append(out, room)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate rooms", err)
	}
	return out, nil
}
