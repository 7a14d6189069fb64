package model

import "time"

// Reservation records a student organization's request to use a room
// or auditorium.  It is created in PENDING state by the intake
// endpoint and afterwards mutated only by the approval orchestrator.
// Reservations are never physically deleted; cancellation is a status
// change.
//
// Fields:
//  ID              – primary key identifier.
//  OrganizationID  – organization the request is made on behalf of.
//  Kind            – ROOM or AUDITORIUM.
//  Date            – requested calendar day.
//  StartsAt        – requested start of the slot.
//  EndsAt          – requested end of the slot (after StartsAt).
//  AttendeeCount   – expected number of attendees.
//  RequesterName   – display name captured on the form.
//  RequesterPhone  – contact phone captured on the form.
//  ProfileID       – linked user profile when the requester was
//                    signed in (nullable).
//  Motive          – free-text purpose of the reservation.
//  Details         – opaque extra fields (speaker, equipment,
//                    catering) copied through from the form (nullable).
//  RoomID          – physical room bound at approval time (nullable).
//  EventID         – derived calendar event once created (nullable).
//  Status          – state of the reservation (see status.go).
//  Decision        – reviewer decision metadata; nil until the
//                    reservation is approved or rejected.
//  CancelReason    – reason recorded when the reservation is
//                    cancelled (nullable).
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Reservation struct {
	ID             uint64            // reservations.id
	OrganizationID uint64            // reservations.organization_id
	Kind           ReservationKind   // reservations.kind
	Date           time.Time         // reservations.reserved_on
	StartsAt       time.Time         // reservations.starts_at
	EndsAt         time.Time         // reservations.ends_at
	AttendeeCount  uint32            // reservations.attendee_count
	RequesterName  string            // reservations.requester_name
	RequesterPhone string            // reservations.requester_phone
	ProfileID      *uint64           // reservations.profile_id (nullable)
	Motive         string            // reservations.motive
	Details        *string           // reservations.details (nullable)
	RoomID         *uint64           // reservations.room_id (nullable)
	EventID        *uint64           // reservations.event_id (nullable)
	Status         ReservationStatus // reservations.status
	Decision       *Decision         // reviewer metadata, nil until decided
	CancelReason   *string           // reservations.cancel_reason (nullable)
	CreatedAt      time.Time         // reservations.created_at
	UpdatedAt      time.Time         // reservations.updated_at
}

// Decision carries the reviewer metadata written alongside an approve
// or reject transition.  The fields are always set together: a
// reservation either has a full decision or none at all.
//
// Fields:
//  ReviewerID   – user ID of the deciding reviewer.
//  ReviewerName – display name of the reviewer at decision time.
//  Comment      – decision comment shown to the requester.
//  DecidedAt    – when the decision was made (UTC).
type Decision struct {
	ReviewerID   uint64    // reservations.reviewer_id
	ReviewerName string    // reservations.reviewer_name
	Comment      string    // reservations.decision_comment
	DecidedAt    time.Time // reservations.decided_at
}
