package repository

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/yourorg/roombook/internal/domain"
)

// PostgresMemberRepository implements domain.MemberRepository using
// PostgreSQL. Duplicate (room, user) pairs are not rejected here; the
// service checks under the room lock before calling Add.
type PostgresMemberRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresMemberRepository creates a new membership repository
func NewPostgresMemberRepository(db *sql.DB, logger *slog.Logger) *PostgresMemberRepository {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresMemberRepository{db: db, logger: logger}
}

// Add stores a membership record
func (r *PostgresMemberRepository) Add(ctx context.Context, member *domain.RoomMember) error {
	query := `
		INSERT INTO room_members (id, room_id, user_id, email, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		member.ID,
		member.RoomID,
		member.UserID,
		member.Email,
		string(member.Role),
	).Scan(&member.CreatedAt)

	if err != nil {
		r.logger.Error("failed to add member",
			slog.String("room_id", member.RoomID),
			slog.String("user_id", member.UserID),
			slog.String("error", err.Error()),
		)
		return storeErr("failed to add member", err)
	}

	return nil
}

// GetByID retrieves a membership by room and member id
func (r *PostgresMemberRepository) GetByID(ctx context.Context, roomID, memberID string) (*domain.RoomMember, error) {
	member := &domain.RoomMember{}
	var role string

	query := `
		SELECT id, room_id, user_id, email, role, created_at
		FROM room_members
		WHERE id = $1 AND room_id = $2
	`

	err := r.db.QueryRowContext(ctx, query, memberID, roomID).Scan(
		&member.ID,
		&member.RoomID,
		&member.UserID,
		&member.Email,
		&role,
		&member.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr("member", memberID)
		}
		return nil, storeErr("failed to get member", err)
	}

	member.Role = domain.Role(role)
	return member, nil
}

// Remove deletes a membership record
func (r *PostgresMemberRepository) Remove(ctx context.Context, roomID, memberID string) error {
	query := `DELETE FROM room_members WHERE id = $1 AND room_id = $2`

	result, err := r.db.ExecContext(ctx, query, memberID, roomID)
	if err != nil {
		return storeErr("failed to remove member", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return storeErr("failed to check rows affected", err)
	}
	if rows == 0 {
		return notFoundErr("member", memberID)
	}

	return nil
}

// ListByRoom returns all memberships of a room
func (r *PostgresMemberRepository) ListByRoom(ctx context.Context, roomID string) ([]*domain.RoomMember, error) {
	query := `
		SELECT id, room_id, user_id, email, role, created_at
		FROM room_members
		WHERE room_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, roomID)
	if err != nil {
		return nil, storeErr("failed to list members", err)
	}
	defer rows.Close()

	var out []*domain.RoomMember
	for rows.Next() {
		member := &domain.RoomMember{}
		var role string
		if err := rows.Scan(
			&member.ID,
			&member.RoomID,
			&member.UserID,
			&member.Email,
			&role,
			&member.CreatedAt,
		); err != nil {
			return nil, storeErr("failed to scan member", err)
		}
		member.Role = domain.Role(role)
		out = append(out, member)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("failed to iterate members", err)
	}
	return out, nil
}
