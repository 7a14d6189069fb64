// Package notify turns approval decisions into status-change
// messages for requesters.  Delivery is a broker hand-off; the
// dispatcher only decides what to send and to whom, and tolerates
// every failure past that point.
package notify

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/campus-space-booking/internal/approval"
	"github.com/iliyamo/campus-space-booking/internal/model"
	"github.com/iliyamo/campus-space-booking/internal/queue"
	queue_publisher "github.com/iliyamo/campus-space-booking/internal/service"
)

// publishTimeout bounds a single dispatch attempt so a slow broker
// can never stall the approval operation behind it.
const publishTimeout = 3 * time.Second

// dedupeTTL keeps the sent-guard key around long enough to cover any
// realistic retry of the same transition.
const dedupeTTL = 24 * time.Hour

// Message renders the fixed notification template for a
// (kind, status) pair.  The comment, when present, is appended as-is.
func Message(kind model.ReservationKind, status model.ReservationStatus, comment string) string {
	kindLabel := "room"
	if kind == model.KindAuditorium {
		kindLabel = "auditorium"
	}
	var verdict string
	switch status {
	case model.StatusApproved:
		verdict = "approved"
	case model.StatusRejected:
		verdict = "rejected"
	default:
		verdict = "updated"
	}
	msg := fmt.Sprintf("Your %s reservation was %s.", kindLabel, verdict)
	if comment != "" {
		msg += " " + comment
	}
	return msg
}

// QueueDispatcher delivers notifications through the RabbitMQ
// reservation.status queue.  A redis key per (reservation, status)
// makes dispatch at-most-once per transition; when redis is
// unavailable the guard is skipped and the single attempt proceeds.
// Dispatch never lets an error or panic escape; any failure is
// reported as false.
type QueueDispatcher struct {
	rdb *redis.Client // may be nil; dedupe is then disabled
}

// NewQueueDispatcher returns a dispatcher.  The redis client is
// optional.
func NewQueueDispatcher(rdb *redis.Client) *QueueDispatcher {
	return &QueueDispatcher{rdb: rdb}
}

// Dispatch publishes the status-change notice and reports whether it
// was handed to the broker.  Returning false is the only failure
// mode; the caller treats both outcomes as non-fatal.
func (d *QueueDispatcher) Dispatch(ctx context.Context, n approval.Notification) (sent bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("notify: dispatch panicked for reservation %d: %v", n.ReservationID, r)
			sent = false
		}
	}()

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if d.rdb != nil {
		key := fmt.Sprintf("notify:reservation:%d:%s", n.ReservationID, n.Status)
		ok, err := d.rdb.SetNX(ctx, key, 1, dedupeTTL).Result()
		if err != nil {
			log.Printf("notify: dedupe check failed for reservation %d, sending anyway: %v", n.ReservationID, err)
		} else if !ok {
			// Already dispatched for this transition.
			return true
		}
	}

	notice := queue.ReservationNotice{
		MessageID:     uuid.NewString(),
		Recipient:     n.Recipient,
		ReservationID: n.ReservationID,
		Kind:          string(n.Kind),
		Status:        string(n.Status),
		Message:       Message(n.Kind, n.Status, n.Comment),
		SentAt:        time.Now().UTC().Format(time.RFC3339),
	}
	if err := queue_publisher.PublishReservationNotice(ctx, notice); err != nil {
		return false
	}
	return true
}
