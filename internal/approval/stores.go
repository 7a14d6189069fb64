package approval

import (
	"context"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// CallerContext identifies the actor invoking an orchestrator
// operation.  It is always passed explicitly; the orchestrator never
// reads identity from ambient state.  Privilege checks (only a
// reviewer may approve or reject) happen at the transport layer
// before the orchestrator is reached.
type CallerContext struct {
	ID   uint64
	Name string
	Role string
}

// ReservationStore is the slice of reservation persistence the
// workflow needs.  The conditional Transition methods report whether
// a row changed so a concurrent decision by another reviewer is
// detected at the store, not just by the earlier read.
type ReservationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	Transition(ctx context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, d *model.Decision) (bool, error)
	TransitionCancelled(ctx context.Context, id uint64, from []model.ReservationStatus, reason string) (bool, error)
	ClearDecision(ctx context.Context, id uint64) error
	SetEventRef(ctx context.Context, id, eventID uint64) error
	SetRoomRef(ctx context.Context, id, roomID uint64) error
}

// EventStore creates derived events and applies room attributes onto
// them as a single overwrite.
type EventStore interface {
	Create(ctx context.Context, ev *model.Event) error
	ApplyRoom(ctx context.Context, eventID uint64, location string, capacity uint32, roomID uint64) error
}

// RoomStore reads rooms and records their occupying reservation.
type RoomStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Room, error)
	SetOccupant(ctx context.Context, roomID, reservationID uint64) error
}

// OrganizationStore resolves organization names for synthesized
// event titles.
type OrganizationStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Organization, error)
}

// ProfileStore looks up the email of a linked requester profile.
type ProfileStore interface {
	EmailByID(ctx context.Context, id uint64) (string, error)
}

// Notification is the status-change message handed to the dispatcher.
type Notification struct {
	Recipient     string
	Kind          model.ReservationKind
	Status        model.ReservationStatus
	ReservationID uint64
	Comment       string
}

// Dispatcher delivers status-change notifications.  Implementations
// must never panic past this boundary: any internal failure is
// reported as false, and the workflow treats both outcomes as
// non-fatal.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification) bool
}
