package model

// ReservationStatus enumerates the lifecycle states of a reservation.
// A reservation is created PENDING by the intake endpoint and is only
// ever mutated by the approval orchestrator afterwards.
type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusApproved  ReservationStatus = "APPROVED"
	StatusRejected  ReservationStatus = "REJECTED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

// ReservationKind distinguishes the two bookable space categories.
type ReservationKind string

const (
	KindRoom       ReservationKind = "ROOM"
	KindAuditorium ReservationKind = "AUDITORIUM"
)

// validNext encodes the reservation state machine.  REJECTED and
// CANCELLED are terminal; APPROVED may still be cancelled.  The
// machine is not re-entrant: a decided reservation never returns to
// PENDING through a transition (only the orchestrator's compensation
// write does that, and it bypasses this table).
var validNext = map[ReservationStatus]map[ReservationStatus]bool{
	StatusPending:   {StatusApproved: true, StatusRejected: true, StatusCancelled: true},
	StatusApproved:  {StatusCancelled: true},
	StatusRejected:  {},
	StatusCancelled: {},
}

// CanTransition reports whether moving a reservation from one status
// to another is a legal state machine step.
func CanTransition(from, to ReservationStatus) bool {
	return validNext[from][to]
}

// ValidStatus reports whether s is one of the known reservation statuses.
func ValidStatus(s ReservationStatus) bool {
	_, ok := validNext[s]
	return ok
}

// ValidKind reports whether k names a bookable space category.
func ValidKind(k ReservationKind) bool {
	return k == KindRoom || k == KindAuditorium
}
