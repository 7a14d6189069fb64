package model

import (
	"fmt"
	"time"
)

// Room is a physical space that can be bound to a reservation at
// approval time.  The approval flow reads rooms and writes exactly
// one field: the back-reference to the reservation currently
// occupying the room.  Everything else is managed elsewhere.
//
// Fields:
//  ID            – primary key identifier.
//  Label         – short room label (e.g. "B-204").
//  Building      – building name.
//  Floor         – floor label within the building.
//  Capacity      – seating capacity.
//  IsActive      – whether the room is bookable at all.
//  OccupiedBy    – reservation currently bound to the room (nullable).
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Room struct {
	ID         uint64    // rooms.id
	Label      string    // rooms.label
	Building   string    // rooms.building
	Floor      string    // rooms.floor
	Capacity   uint32    // rooms.capacity
	IsActive   bool      // rooms.is_active
	OccupiedBy *uint64   // rooms.occupied_by (nullable, reservations.id)
	CreatedAt  time.Time // rooms.created_at
	UpdatedAt  time.Time // rooms.updated_at
}

// LocationLabel renders the room as the single-line location string
// copied onto derived events: "{label} - {building} ({floor})".
func (r *Room) LocationLabel() string {
	return fmt.Sprintf("%s - %s (%s)", r.Label, r.Building, r.Floor)
}
