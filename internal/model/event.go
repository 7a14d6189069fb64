package model

import "time"

// Event is the calendar entry derived from an approved reservation.
// Exactly one event is created per successful approval, and the
// orchestrator is its only writer in this flow.  When a room is bound
// later the location fields are overwritten wholesale from the room's
// attributes, never merged field by field.
//
// Fields:
//  ID             – primary key identifier.
//  Name           – display name; synthesized from the organization
//                   and reservation kind when the form left it blank.
//  Description    – longer text shown on calendar screens.
//  Location       – free-text location label; starts as a
//                   kind-specific placeholder and is replaced by the
//                   room label once a room is bound.
//  Date           – calendar day of the event.
//  StartsAt       – start of the slot.
//  EndsAt         – end of the slot.
//  Capacity       – expected attendance; replaced by the room
//                   capacity once a room is bound.
//  OrganizationID – owning organization.
//  RoomID         – bound physical room (nullable).
//  Status         – approval status mirror, always APPROVED here.
//  ReservationID  – originating reservation.
//  CreatedAt      – creation timestamp.
type Event struct {
	ID             uint64            // events.id
	Name           string            // events.name
	Description    string            // events.description
	Location       string            // events.location
	Date           time.Time         // events.event_on
	StartsAt       time.Time         // events.starts_at
	EndsAt         time.Time         // events.ends_at
	Capacity       uint32            // events.capacity
	OrganizationID uint64            // events.organization_id
	RoomID         *uint64           // events.room_id (nullable)
	Status         ReservationStatus // events.status
	ReservationID  uint64            // events.reservation_id
	CreatedAt      time.Time         // events.created_at
}
