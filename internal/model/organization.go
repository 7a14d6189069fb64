package model

import "time"

// Organization is a student organization on whose behalf
// reservations are submitted.  Its name feeds the synthesized event
// names when the intake form leaves the event title blank.
//
// Fields:
//  ID        – primary key identifier.
//  Name      – unique organization name.
//  IsActive  – whether the organization may submit reservations.
//  CreatedAt – timestamp when the organization was registered.
//  UpdatedAt – timestamp of last update.
type Organization struct {
	ID        uint64    // organizations.id
	Name      string    // organizations.name
	IsActive  bool      // organizations.is_active
	CreatedAt time.Time // organizations.created_at
	UpdatedAt time.Time // organizations.updated_at
}
