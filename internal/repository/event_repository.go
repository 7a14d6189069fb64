package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// EventRepo persists calendar events derived from approved
// reservations.  Events are created exactly once per approval; the
// only later mutation this flow performs is the wholesale location
// overwrite when a room is bound.
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo returns an EventRepo bound to the given database.
func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{db: db} }

// Create inserts a new event and populates the generated ID on the
// provided record.
func (r *EventRepo) Create(ctx context.Context, ev *model.Event) error {
	const q = `INSERT INTO events
	           (name, description, location, event_on, starts_at, ends_at, capacity,
	            organization_id, room_id, status, reservation_id)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		ev.Name, ev.Description, ev.Location, ev.Date, ev.StartsAt, ev.EndsAt,
		ev.Capacity, ev.OrganizationID, ev.RoomID, ev.Status, ev.ReservationID,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	ev.ID = uint64(id)
	return nil
}

// GetByID returns a single event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	const q = `SELECT id, name, description, location, event_on, starts_at, ends_at,
	                  capacity, organization_id, room_id, status, reservation_id, created_at
	           FROM events WHERE id = ?`
	var ev model.Event
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&ev.ID, &ev.Name, &ev.Description, &ev.Location, &ev.Date, &ev.StartsAt,
		&ev.EndsAt, &ev.Capacity, &ev.OrganizationID, &ev.RoomID, &ev.Status,
		&ev.ReservationID, &ev.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return &ev, nil
}

// ApplyRoom overwrites the event's location fields from a bound
// room's attributes in a single write.  Location, capacity and room
// reference always change together so the event never carries a
// mixed state of old and new room data.
func (r *EventRepo) ApplyRoom(ctx context.Context, eventID uint64, location string, capacity uint32, roomID uint64) error {
	const q = `UPDATE events SET location = ?, capacity = ?, room_id = ? WHERE id = ?`
	result, err := r.db.ExecContext(ctx, q, location, capacity, roomID, eventID)
	if err != nil {
		return err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// ListByOrganization returns an organization's events, soonest first,
// for calendar screens.
func (r *EventRepo) ListByOrganization(ctx context.Context, orgID uint64) ([]*model.Event, error) {
	const q = `SELECT id, name, description, location, event_on, starts_at, ends_at,
	                  capacity, organization_id, room_id, status, reservation_id, created_at
	           FROM events WHERE organization_id = ? ORDER BY starts_at ASC`
	rows, err := r.db.QueryContext(ctx, q, orgID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Event, 0)
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(
			&ev.ID, &ev.Name, &ev.Description, &ev.Location, &ev.Date, &ev.StartsAt,
			&ev.EndsAt, &ev.Capacity, &ev.OrganizationID, &ev.RoomID, &ev.Status,
			&ev.ReservationID, &ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, &ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
