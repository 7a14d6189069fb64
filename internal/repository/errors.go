// Package repository defines error types that are reused across
// multiple repositories.  These sentinel values allow higher layers
// such as the approval orchestrator and handlers to distinguish
// failure scenarios without inspecting SQL driver errors.
package repository

import "errors"

// ErrReservationNotFound is returned when a reservation id does not
// resolve to a row.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrEventNotFound is returned when an event id does not resolve.
var ErrEventNotFound = errors.New("event not found")

// ErrRoomNotFound is returned when a room id does not resolve or the
// room has been deactivated.
var ErrRoomNotFound = errors.New("room not found")

// ErrOrganizationNotFound is returned when an organization id does
// not resolve.
var ErrOrganizationNotFound = errors.New("organization not found")
