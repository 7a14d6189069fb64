package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// RoomRepo provides read access to physical rooms plus the single
// mutation the approval flow performs on them: setting the
// back-reference to the occupying reservation.
type RoomRepo struct {
	db *sql.DB
}

// NewRoomRepo returns a RoomRepo bound to the given database.
func NewRoomRepo(db *sql.DB) *RoomRepo { return &RoomRepo{db: db} }

const roomColumns = `id, label, building, floor, capacity, is_active, occupied_by, created_at, updated_at`

// GetByID returns a single room or ErrRoomNotFound.
func (r *RoomRepo) GetByID(ctx context.Context, id uint64) (*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE id = ?`
	var room model.Room
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&room.ID, &room.Label, &room.Building, &room.Floor, &room.Capacity,
		&room.IsActive, &room.OccupiedBy, &room.CreatedAt, &room.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

// SetOccupant records which reservation currently occupies the room.
func (r *RoomRepo) SetOccupant(ctx context.Context, roomID, reservationID uint64) error {
	const q = `UPDATE rooms SET occupied_by = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, reservationID, roomID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRoomNotFound
	}
	return nil
}

// List returns the active rooms ordered by building and label.
func (r *RoomRepo) List(ctx context.Context) ([]*model.Room, error) {
	const q = `SELECT ` + roomColumns + ` FROM rooms WHERE is_active = 1
	           ORDER BY building, label`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Room, 0)
	for rows.Next() {
		var room model.Room
		if err := rows.Scan(
			&room.ID, &room.Label, &room.Building, &room.Floor, &room.Capacity,
			&room.IsActive, &room.OccupiedBy, &room.CreatedAt, &room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &room)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
