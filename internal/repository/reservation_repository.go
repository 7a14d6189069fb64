package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// ReservationRepo provides persistence for reservations.  All
// timestamp columns are DATETIME stored in UTC; the connection is
// opened with parseTime=true so they scan directly into time.Time.
// Status transitions are expressed as conditional updates so the
// database enforces the "only move off the expected status" rule
// even under concurrent reviewers.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

// reservationColumns is the column list shared by every SELECT in
// this repository so scans stay in one place.
const reservationColumns = `id, organization_id, kind, reserved_on, starts_at, ends_at,
       attendee_count, requester_name, requester_phone, profile_id, motive, details,
       room_id, event_id, status, reviewer_id, reviewer_name, decision_comment,
       decided_at, cancel_reason, created_at, updated_at`

// scanReservation reads one row into a model.Reservation, folding the
// nullable decision columns into a Decision value only when all of
// them are present.
func scanReservation(row interface{ Scan(...interface{}) error }) (*model.Reservation, error) {
	var (
		res          model.Reservation
		details      sql.NullString
		reviewerID   sql.NullInt64
		reviewerName sql.NullString
		comment      sql.NullString
		decidedAt    sql.NullTime
		cancelReason sql.NullString
	)
	err := row.Scan(
		&res.ID, &res.OrganizationID, &res.Kind, &res.Date, &res.StartsAt, &res.EndsAt,
		&res.AttendeeCount, &res.RequesterName, &res.RequesterPhone, &res.ProfileID,
		&res.Motive, &details, &res.RoomID, &res.EventID, &res.Status,
		&reviewerID, &reviewerName, &comment, &decidedAt, &cancelReason,
		&res.CreatedAt, &res.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if details.Valid {
		d := details.String
		res.Details = &d
	}
	if cancelReason.Valid {
		cr := cancelReason.String
		res.CancelReason = &cr
	}
	if reviewerID.Valid && decidedAt.Valid {
		res.Decision = &model.Decision{
			ReviewerID:   uint64(reviewerID.Int64),
			ReviewerName: reviewerName.String,
			Comment:      comment.String,
			DecidedAt:    decidedAt.Time.UTC(),
		}
	}
	return &res, nil
}

// Create inserts a new PENDING reservation and populates the
// generated ID and timestamps on the provided record.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations
	           (organization_id, kind, reserved_on, starts_at, ends_at, attendee_count,
	            requester_name, requester_phone, profile_id, motive, details, status)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q,
		res.OrganizationID, res.Kind, res.Date, res.StartsAt, res.EndsAt, res.AttendeeCount,
		res.RequesterName, res.RequesterPhone, res.ProfileID, res.Motive, res.Details,
		model.StatusPending,
	)
	if err != nil {
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	// Query back the full row to populate timestamps and defaults.
	created, err := r.GetByID(ctx, res.ID)
	if err != nil {
		return err
	}
	*res = *created
	return nil
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations WHERE id = ?`
	res, err := scanReservation(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return res, nil
}

// Transition moves a reservation to the target status with the given
// decision metadata, but only when its current status is one of
// `from`.  It reports whether a row actually changed; false means the
// reservation was concurrently decided (or never was in an allowed
// state) and the caller must treat the transition as invalid.
func (r *ReservationRepo) Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, d *model.Decision) (bool, error) {
	placeholders := make([]string, len(from))
	args := make([]interface{}, 0, len(from)+6)
	args = append(args, to, d.ReviewerID, d.ReviewerName, d.Comment, d.DecidedAt, id)
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, s)
	}
	query := `UPDATE reservations
	          SET status = ?, reviewer_id = ?, reviewer_name = ?, decision_comment = ?, decided_at = ?
	          WHERE id = ? AND status IN (` + strings.Join(placeholders, ",") + `)`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// TransitionCancelled moves a reservation to CANCELLED with a reason,
// only from one of the given statuses.  Decision metadata written by
// an earlier approval is kept as history.
func (r *ReservationRepo) TransitionCancelled(ctx context.Context, id uint64, from []model.ReservationStatus, reason string) (bool, error) {
	placeholders := make([]string, len(from))
	args := make([]interface{}, 0, len(from)+3)
	args = append(args, model.StatusCancelled, reason, id)
	for i, s := range from {
		placeholders[i] = "?"
		args = append(args, s)
	}
	query := `UPDATE reservations SET status = ?, cancel_reason = ?
	          WHERE id = ? AND status IN (` + strings.Join(placeholders, ",") + `)`
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// ClearDecision is the compensating write used when event creation
// fails after an approval was already recorded: the reservation goes
// back to PENDING and all decision metadata is nulled out, as if the
// approval never happened.
func (r *ReservationRepo) ClearDecision(ctx context.Context, id uint64) error {
	const q = `UPDATE reservations
	           SET status = ?, reviewer_id = NULL, reviewer_name = NULL,
	               decision_comment = NULL, decided_at = NULL
	           WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, model.StatusPending, id)
	return err
}

// SetEventRef writes the derived event id back onto the reservation.
func (r *ReservationRepo) SetEventRef(ctx context.Context, id, eventID uint64) error {
	const q = `UPDATE reservations SET event_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, eventID, id)
	return err
}

// SetRoomRef records the room bound to the reservation at approval time.
func (r *ReservationRepo) SetRoomRef(ctx context.Context, id, roomID uint64) error {
	const q = `UPDATE reservations SET room_id = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, q, roomID, id)
	return err
}

// ListByProfile returns the reservations submitted by a signed-in
// requester, newest first.
func (r *ReservationRepo) ListByProfile(ctx context.Context, profileID uint64) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE profile_id = ? ORDER BY created_at DESC`
	return r.list(ctx, q, profileID)
}

// ListByStatus returns reservations in the given status for review
// screens, oldest first so the queue is worked in submission order.
func (r *ReservationRepo) ListByStatus(ctx context.Context, status model.ReservationStatus) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE status = ? ORDER BY created_at ASC`
	return r.list(ctx, q, status)
}

func (r *ReservationRepo) list(ctx context.Context, query string, args ...interface{}) ([]*model.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]*model.Reservation, 0)
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdatedSince is used by dashboard polling; it returns reservations
// touched after the given instant, newest first.
func (r *ReservationRepo) UpdatedSince(ctx context.Context, since time.Time) ([]*model.Reservation, error) {
	const q = `SELECT ` + reservationColumns + ` FROM reservations
	           WHERE updated_at > ? ORDER BY updated_at DESC`
	return r.list(ctx, q, since)
}
