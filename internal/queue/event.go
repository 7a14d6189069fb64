// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationNotice is published whenever a reservation decision
// should be communicated to its requester.  It carries the rendered
// message so downstream consumers can deliver or log it without
// querying the primary database.
type ReservationNotice struct {
	MessageID     string `json:"message_id"`
	Recipient     string `json:"recipient"`
	ReservationID uint64 `json:"reservation_id"`
	Kind          string `json:"kind"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	SentAt        string `json:"sent_at"`
}
