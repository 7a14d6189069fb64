package approval

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// Fixed fallback strings used when optional decision inputs are omitted.
const (
	defaultApproveComment = "Reservation approved"
	defaultCancelReason   = "Cancelled by requester"
)

// Placeholder location labels used on a derived event until a room
// is bound.
const (
	placeholderRoom       = "Room (pending assignment)"
	placeholderAuditorium = "Auditorium (pending assignment)"
)

// Orchestrator drives a submitted reservation through the review
// workflow.  Approving produces two dependent records, the approved
// reservation and its derived calendar event, optionally bound to a
// physical room, without a cross-entity transaction: consistency
// comes from the ordered writes and the compensating reset in
// Approve.  Notification delivery is best-effort throughout and never
// affects the outcome of an operation.
type Orchestrator struct {
	reservations ReservationStore
	events       EventStore
	orgs         OrganizationStore
	binder       *RoomBinder
	resolver     *RecipientResolver
	dispatcher   Dispatcher
}

// NewOrchestrator wires the workflow with its collaborators.  All
// dependencies must be non-nil.
func NewOrchestrator(
	reservations ReservationStore,
	events EventStore,
	orgs OrganizationStore,
	binder *RoomBinder,
	resolver *RecipientResolver,
	dispatcher Dispatcher,
) *Orchestrator {
	if reservations == nil || events == nil || orgs == nil || binder == nil || resolver == nil || dispatcher == nil {
		panic("nil dependency passed to NewOrchestrator")
	}
	return &Orchestrator{
		reservations: reservations,
		events:       events,
		orgs:         orgs,
		binder:       binder,
		resolver:     resolver,
		dispatcher:   dispatcher,
	}
}

// ApproveOptions carries the optional parameters of an approval.
// RoomID, when set, selects the physical room to bind; it takes
// precedence over a room pre-selected on the reservation itself.
type ApproveOptions struct {
	Comment string
	RoomID  *uint64
}

// Approve moves a PENDING reservation to APPROVED, creates its
// derived calendar event and, when a room was chosen, binds the room
// and copies its attributes onto the event.
//
// The write order matters.  The status flips first so a concurrent
// reviewer is fenced out by the conditional update; event creation
// follows, and if it fails the status write is compensated: the
// reservation returns to PENDING with its decision metadata cleared
// and the caller sees the original event-creation error.  Everything
// after the event exists (back-reference, notification, room
// binding) is non-critical: failures are logged and the approval
// stands.
func (o *Orchestrator) Approve(ctx context.Context, caller CallerContext, id uint64, opts ApproveOptions) (*model.Reservation, error) {
	res, err := o.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(res.Status, model.StatusApproved) {
		return nil, invalidTransition("approve", res.Status)
	}

	comment := strings.TrimSpace(opts.Comment)
	if comment == "" {
		comment = defaultApproveComment
	}
	decision := &model.Decision{
		ReviewerID:   caller.ID,
		ReviewerName: caller.Name,
		Comment:      comment,
		DecidedAt:    time.Now().UTC(),
	}
	ok, err := o.reservations.Transition(ctx, id,
		[]model.ReservationStatus{model.StatusPending}, model.StatusApproved, decision)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Another reviewer decided it between our read and the write.
		return nil, o.lostRace(ctx, "approve", id, res.Status)
	}

	// Re-read so the event is derived from the canonical stored row,
	// not from the pre-approval snapshot.
	res, err = o.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, o.compensate(ctx, id, fmt.Errorf("read back approved reservation: %w", err))
	}

	ev := o.buildEvent(ctx, res)
	if err := o.events.Create(ctx, ev); err != nil {
		return nil, o.compensate(ctx, id, err)
	}

	// The event and reservation both already carry correct primary
	// data at this point; a stale back-reference is tolerable.
	if err := o.reservations.SetEventRef(ctx, id, ev.ID); err != nil {
		log.Printf("approval: reservation %d: event back-reference write failed (event %d kept): %v", id, ev.ID, err)
	}
	res.EventID = &ev.ID

	o.notify(ctx, res, comment)

	roomID := opts.RoomID
	if roomID == nil {
		roomID = res.RoomID // pre-selected on the intake form
	}
	if roomID != nil {
		o.bindRoom(ctx, res, ev, *roomID)
	}
	return res, nil
}

// Reject moves a PENDING reservation to REJECTED.  The comment is
// mandatory: a rejection must always tell the requester why.
func (o *Orchestrator) Reject(ctx context.Context, caller CallerContext, id uint64, comment string) (*model.Reservation, error) {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil, ErrCommentRequired
	}
	res, err := o.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(res.Status, model.StatusRejected) {
		return nil, invalidTransition("reject", res.Status)
	}
	decision := &model.Decision{
		ReviewerID:   caller.ID,
		ReviewerName: caller.Name,
		Comment:      comment,
		DecidedAt:    time.Now().UTC(),
	}
	ok, err := o.reservations.Transition(ctx, id,
		[]model.ReservationStatus{model.StatusPending}, model.StatusRejected, decision)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, o.lostRace(ctx, "reject", id, res.Status)
	}
	res.Status = model.StatusRejected
	res.Decision = decision

	o.notify(ctx, res, comment)
	return res, nil
}

// Cancel moves a PENDING or APPROVED reservation to CANCELLED.  The
// requester or a reviewer may cancel; entitlement is established by
// the caller before this point.  No notification is sent for
// cancellations.
func (o *Orchestrator) Cancel(ctx context.Context, caller CallerContext, id uint64, reason string) (*model.Reservation, error) {
	res, err := o.reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !model.CanTransition(res.Status, model.StatusCancelled) {
		return nil, invalidTransition("cancel", res.Status)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = defaultCancelReason
	}
	ok, err := o.reservations.TransitionCancelled(ctx, id,
		[]model.ReservationStatus{model.StatusPending, model.StatusApproved}, reason)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, o.lostRace(ctx, "cancel", id, res.Status)
	}
	res.Status = model.StatusCancelled
	res.CancelReason = &reason
	return res, nil
}

// lostRace builds the invalid-transition error for a conditional
// write that matched zero rows.  The row was re-decided between our
// read and the write, so the error reports the current stored status
// rather than the stale snapshot; the snapshot is the fallback when
// the re-read itself fails.
func (o *Orchestrator) lostRace(ctx context.Context, op string, id uint64, seen model.ReservationStatus) error {
	if cur, err := o.reservations.GetByID(ctx, id); err == nil {
		return invalidTransition(op, cur.Status)
	}
	return invalidTransition(op, seen)
}

// compensate resets a reservation to PENDING after the dependent
// event write failed.  The reset itself is best-effort: if it also
// fails we log it, but the caller always sees the original cause.
func (o *Orchestrator) compensate(ctx context.Context, id uint64, cause error) error {
	if err := o.reservations.ClearDecision(ctx, id); err != nil {
		log.Printf("approval: reservation %d: compensating reset failed, row left approved without event: %v", id, err)
	}
	return &DependentWriteError{Err: cause}
}

// buildEvent derives the calendar event from an approved reservation.
// Name and description fall back to strings synthesized from the
// organization and kind when the form left them blank; the location
// starts as a kind placeholder until a room is bound.
func (o *Orchestrator) buildEvent(ctx context.Context, res *model.Reservation) *model.Event {
	kindLabel := "room"
	location := placeholderRoom
	if res.Kind == model.KindAuditorium {
		kindLabel = "auditorium"
		location = placeholderAuditorium
	}

	orgName := "Student organization"
	if org, err := o.orgs.GetByID(ctx, res.OrganizationID); err == nil {
		orgName = org.Name
	} else {
		log.Printf("approval: reservation %d: organization %d lookup failed, using generic event name: %v", res.ID, res.OrganizationID, err)
	}

	name := strings.TrimSpace(res.Motive)
	if name == "" {
		name = fmt.Sprintf("%s %s booking", orgName, kindLabel)
	}
	description := ""
	if res.Details != nil {
		description = strings.TrimSpace(*res.Details)
	}
	if description == "" {
		description = fmt.Sprintf("Reserved %s for %s", kindLabel, orgName)
	}

	return &model.Event{
		Name:           name,
		Description:    description,
		Location:       location,
		Date:           res.Date,
		StartsAt:       res.StartsAt,
		EndsAt:         res.EndsAt,
		Capacity:       res.AttendeeCount,
		OrganizationID: res.OrganizationID,
		Status:         model.StatusApproved,
		ReservationID:  res.ID,
	}
}

// notify resolves the recipient and dispatches the status-change
// message.  A missing recipient or a dispatch failure never affects
// the operation that triggered it.
func (o *Orchestrator) notify(ctx context.Context, res *model.Reservation, comment string) {
	recipient := o.resolver.Resolve(ctx, res)
	if recipient == "" {
		log.Printf("approval: reservation %d: no reachable recipient, skipping notification", res.ID)
		return
	}
	sent := o.dispatcher.Dispatch(ctx, Notification{
		Recipient:     recipient,
		Kind:          res.Kind,
		Status:        res.Status,
		ReservationID: res.ID,
		Comment:       comment,
	})
	if !sent {
		log.Printf("approval: reservation %d: notification dispatch to %q failed", res.ID, recipient)
	}
}

// bindRoom binds the chosen room and copies its attributes onto the
// event as one overwrite.  Any failure here is a warning: the
// reservation stays approved.
func (o *Orchestrator) bindRoom(ctx context.Context, res *model.Reservation, ev *model.Event, roomID uint64) {
	room, err := o.binder.Bind(ctx, roomID, res.ID)
	if err != nil {
		log.Printf("approval: reservation %d: binding room %d failed, approval stands: %v", res.ID, roomID, err)
		return
	}
	if err := o.events.ApplyRoom(ctx, ev.ID, room.LocationLabel(), room.Capacity, room.ID); err != nil {
		log.Printf("approval: reservation %d: applying room %d to event %d failed: %v", res.ID, room.ID, ev.ID, err)
		return
	}
	ev.Location = room.LocationLabel()
	ev.Capacity = room.Capacity
	ev.RoomID = &room.ID
	if err := o.reservations.SetRoomRef(ctx, res.ID, room.ID); err != nil {
		log.Printf("approval: reservation %d: room reference write failed: %v", res.ID, err)
		return
	}
	res.RoomID = &room.ID
}
