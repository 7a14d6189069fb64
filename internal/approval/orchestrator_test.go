package approval

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

type testRig struct {
	reservations *fakeReservations
	events       *fakeEvents
	rooms        *fakeRooms
	orgs         *fakeOrgs
	profiles     *fakeProfiles
	dispatcher   *fakeDispatcher
	flow         *Orchestrator
}

func newTestRig(rows ...*model.Reservation) *testRig {
	rig := &testRig{
		reservations: newFakeReservations(rows...),
		events:       newFakeEvents(),
		rooms: newFakeRooms(&model.Room{
			ID: 7, Label: "B-204", Building: "Main Building", Floor: "2", Capacity: 40, IsActive: true,
		}),
		orgs:       newFakeOrgs(&model.Organization{ID: 3, Name: "Chess Club", IsActive: true}),
		profiles:   &fakeProfiles{emails: map[uint64]string{10: "requester@example.edu"}},
		dispatcher: &fakeDispatcher{result: true},
	}
	rig.flow = NewOrchestrator(
		rig.reservations,
		rig.events,
		rig.orgs,
		NewRoomBinder(rig.rooms),
		NewRecipientResolver(rig.profiles),
		rig.dispatcher,
	)
	return rig
}

func pendingReservation(id uint64) *model.Reservation {
	profileID := uint64(10)
	return &model.Reservation{
		ID:             id,
		OrganizationID: 3,
		Kind:           model.KindRoom,
		Date:           time.Date(2026, 9, 14, 0, 0, 0, 0, time.UTC),
		StartsAt:       time.Date(2026, 9, 14, 18, 0, 0, 0, time.UTC),
		EndsAt:         time.Date(2026, 9, 14, 20, 0, 0, 0, time.UTC),
		AttendeeCount:  25,
		RequesterName:  "Dana Ionescu",
		ProfileID:      &profileID,
		Motive:         "Weekly tournament",
		Status:         model.StatusPending,
	}
}

func reviewer() CallerContext {
	return CallerContext{ID: 99, Name: "Prof. Adam", Role: model.RoleReviewer}
}

func TestApprove_CreatesEventAndNotifies(t *testing.T) {
	rig := newTestRig(pendingReservation(1))

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("Expected status APPROVED, got %s", res.Status)
	}
	if res.Decision == nil || res.Decision.ReviewerID != 99 || res.Decision.ReviewerName != "Prof. Adam" {
		t.Errorf("Expected reviewer decision metadata, got %+v", res.Decision)
	}
	if res.Decision.Comment != "Reservation approved" {
		t.Errorf("Expected default approval comment, got %q", res.Decision.Comment)
	}
	if res.EventID == nil {
		t.Fatal("Expected event back-reference on reservation")
	}
	ev := rig.events.rows[*res.EventID]
	if ev == nil {
		t.Fatal("Expected event row to exist")
	}
	if ev.ReservationID != 1 {
		t.Errorf("Expected event to reference reservation 1, got %d", ev.ReservationID)
	}
	if ev.Name != "Weekly tournament" {
		t.Errorf("Expected event name from motive, got %q", ev.Name)
	}
	if ev.Location != "Room (pending assignment)" {
		t.Errorf("Expected placeholder location before room binding, got %q", ev.Location)
	}
	if ev.Capacity != 25 {
		t.Errorf("Expected capacity from attendee count, got %d", ev.Capacity)
	}

	if len(rig.dispatcher.sent) != 1 {
		t.Fatalf("Expected one notification, got %d", len(rig.dispatcher.sent))
	}
	n := rig.dispatcher.sent[0]
	if n.Recipient != "requester@example.edu" {
		t.Errorf("Expected profile email recipient, got %q", n.Recipient)
	}
	if n.Status != model.StatusApproved || n.ReservationID != 1 {
		t.Errorf("Unexpected notification contents: %+v", n)
	}
}

func TestApprove_BindsRoomAndOverwritesEventLocation(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	roomID := uint64(7)

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{RoomID: &roomID})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.RoomID == nil || *res.RoomID != 7 {
		t.Fatalf("Expected reservation bound to room 7, got %v", res.RoomID)
	}

	ev := rig.events.rows[*res.EventID]
	if ev.Location != "B-204 - Main Building (2)" {
		t.Errorf("Expected room location label on event, got %q", ev.Location)
	}
	if ev.Capacity != 40 {
		t.Errorf("Expected room capacity to overwrite attendee count, got %d", ev.Capacity)
	}
	if ev.RoomID == nil || *ev.RoomID != 7 {
		t.Errorf("Expected event room reference 7, got %v", ev.RoomID)
	}

	room := rig.rooms.rows[7]
	if room.OccupiedBy == nil || *room.OccupiedBy != 1 {
		t.Errorf("Expected room occupied by reservation 1, got %v", room.OccupiedBy)
	}
}

func TestApprove_UsesPreSelectedRoomFromIntake(t *testing.T) {
	res := pendingReservation(1)
	preferred := uint64(7)
	res.RoomID = &preferred
	rig := newTestRig(res)

	out, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	ev := rig.events.rows[*out.EventID]
	if ev.Location != "B-204 - Main Building (2)" {
		t.Errorf("Expected pre-selected room to be bound, got location %q", ev.Location)
	}
}

func TestApprove_NonPendingIsRejected(t *testing.T) {
	res := pendingReservation(1)
	res.Status = model.StatusRejected
	rig := newTestRig(res)

	_, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got %v", err)
	}
	if len(rig.dispatcher.sent) != 0 {
		t.Error("Expected no notification for a refused approval")
	}
}

func TestApprove_EventFailureCompensates(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.events.failCreate = true

	_, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	var dep *DependentWriteError
	if !errors.As(err, &dep) {
		t.Fatalf("Expected DependentWriteError, got %v", err)
	}

	row := rig.reservations.rows[1]
	if row.Status != model.StatusPending {
		t.Errorf("Expected compensation to restore PENDING, got %s", row.Status)
	}
	if row.Decision != nil {
		t.Errorf("Expected decision metadata cleared, got %+v", row.Decision)
	}
	if rig.reservations.clearCalls != 1 {
		t.Errorf("Expected exactly one compensating reset, got %d", rig.reservations.clearCalls)
	}
	if len(rig.dispatcher.sent) != 0 {
		t.Error("Expected no notification for a rolled-back approval")
	}
}

func TestApprove_NotificationFailureDoesNotAffectOutcome(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.dispatcher.result = false

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("Expected APPROVED despite failed dispatch, got %s", res.Status)
	}
	if rig.reservations.rows[1].Status != model.StatusApproved {
		t.Errorf("Expected stored row APPROVED, got %s", rig.reservations.rows[1].Status)
	}
}

func TestApprove_RoomBindFailureLeavesApprovalStanding(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.rooms.failOccupant = true
	roomID := uint64(7)

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{RoomID: &roomID})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("Expected APPROVED despite binding failure, got %s", res.Status)
	}
	if res.RoomID != nil {
		t.Errorf("Expected no room reference after failed binding, got %v", res.RoomID)
	}
	ev := rig.events.rows[*res.EventID]
	if ev.Location != "Room (pending assignment)" {
		t.Errorf("Expected event location untouched after failed binding, got %q", ev.Location)
	}
}

func TestApprove_SynthesizesEventNameWhenMotiveBlank(t *testing.T) {
	res := pendingReservation(1)
	res.Motive = "   "
	res.Kind = model.KindAuditorium
	rig := newTestRig(res)

	out, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	ev := rig.events.rows[*out.EventID]
	if ev.Name != "Chess Club auditorium booking" {
		t.Errorf("Expected synthesized event name, got %q", ev.Name)
	}
	if ev.Location != "Auditorium (pending assignment)" {
		t.Errorf("Expected auditorium placeholder, got %q", ev.Location)
	}
	if ev.Description != "Reserved auditorium for Chess Club" {
		t.Errorf("Expected synthesized description, got %q", ev.Description)
	}
}

func TestReject_RequiresComment(t *testing.T) {
	rig := newTestRig(pendingReservation(1))

	_, err := rig.flow.Reject(context.Background(), reviewer(), 1, "   ")
	if !errors.Is(err, ErrCommentRequired) {
		t.Fatalf("Expected ErrCommentRequired, got %v", err)
	}
	if rig.reservations.rows[1].Status != model.StatusPending {
		t.Error("Expected reservation untouched after refused reject")
	}
}

func TestReject_RecordsDecisionAndNotifies(t *testing.T) {
	rig := newTestRig(pendingReservation(1))

	res, err := rig.flow.Reject(context.Background(), reviewer(), 1, "no budget")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if res.Status != model.StatusRejected {
		t.Errorf("Expected REJECTED, got %s", res.Status)
	}
	if res.Decision == nil || res.Decision.Comment != "no budget" {
		t.Errorf("Expected rejection comment recorded, got %+v", res.Decision)
	}
	if len(rig.events.rows) != 0 {
		t.Error("Expected no event for a rejection")
	}
	if len(rig.dispatcher.sent) != 1 || rig.dispatcher.sent[0].Status != model.StatusRejected {
		t.Errorf("Expected one rejection notification, got %+v", rig.dispatcher.sent)
	}
}

func TestCancel_FromPendingUsesDefaultReason(t *testing.T) {
	rig := newTestRig(pendingReservation(1))

	res, err := rig.flow.Cancel(context.Background(), reviewer(), 1, "")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if res.Status != model.StatusCancelled {
		t.Errorf("Expected CANCELLED, got %s", res.Status)
	}
	if res.CancelReason == nil || *res.CancelReason != "Cancelled by requester" {
		t.Errorf("Expected default cancel reason, got %v", res.CancelReason)
	}
	if len(rig.dispatcher.sent) != 0 {
		t.Error("Expected no notification for a cancellation")
	}
}

func TestCancel_FromApprovedKeepsDecisionHistory(t *testing.T) {
	res := pendingReservation(1)
	res.Status = model.StatusApproved
	res.Decision = &model.Decision{ReviewerID: 99, ReviewerName: "Prof. Adam", Comment: "ok", DecidedAt: time.Now()}
	rig := newTestRig(res)

	out, err := rig.flow.Cancel(context.Background(), reviewer(), 1, "room flooded")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if out.Status != model.StatusCancelled {
		t.Errorf("Expected CANCELLED, got %s", out.Status)
	}
	row := rig.reservations.rows[1]
	if row.Decision == nil {
		t.Error("Expected prior approval metadata preserved as history")
	}
	if row.CancelReason == nil || *row.CancelReason != "room flooded" {
		t.Errorf("Expected cancel reason recorded, got %v", row.CancelReason)
	}
}

func TestCancel_TwiceFails(t *testing.T) {
	rig := newTestRig(pendingReservation(1))

	if _, err := rig.flow.Cancel(context.Background(), reviewer(), 1, ""); err != nil {
		t.Fatalf("First cancel failed: %v", err)
	}
	_, err := rig.flow.Cancel(context.Background(), reviewer(), 1, "")
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition on second cancel, got %v", err)
	}
}

func TestApprove_ConcurrentDecisionLosesRace(t *testing.T) {
	// Simulate a second reviewer whose read raced the first decision:
	// the row still looked PENDING at read time, but it is REJECTED
	// by the time the conditional write runs, so zero rows match and
	// the caller gets an invalid-transition error naming the current
	// status, not the stale snapshot.
	rig := newTestRig(pendingReservation(1))
	rig.reservations.flipOnRead = model.StatusRejected

	_, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("Expected ErrInvalidTransition, got %v", err)
	}
	if !strings.Contains(err.Error(), string(model.StatusRejected)) {
		t.Errorf("Expected error to report the current status, got %q", err.Error())
	}
	if len(rig.events.rows) != 0 {
		t.Error("Expected no event from the losing approval")
	}
	if rig.reservations.rows[1].Status != model.StatusRejected {
		t.Errorf("Expected the winning decision untouched, got %s", rig.reservations.rows[1].Status)
	}
}

func TestApprove_TransitionWriteErrorSurfaces(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.reservations.failTransition = true

	_, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err == nil {
		t.Fatal("Expected error from failed status write")
	}
	var dep *DependentWriteError
	if errors.As(err, &dep) {
		t.Error("Expected a plain store error, not a dependent-write wrapper")
	}
	if len(rig.events.rows) != 0 {
		t.Error("Expected no event after failed status write")
	}
	if rig.reservations.rows[1].Status != model.StatusPending {
		t.Errorf("Expected row untouched, got %s", rig.reservations.rows[1].Status)
	}
}

func TestApprove_BackRefFailureKeepsApproval(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.reservations.failEventRef = true

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("Expected APPROVED despite failed back-reference, got %s", res.Status)
	}
	if len(rig.events.rows) != 1 {
		t.Fatalf("Expected the event kept, got %d events", len(rig.events.rows))
	}
	if rig.reservations.rows[1].EventID != nil {
		t.Error("Expected stored row without event reference after failed write")
	}
	if len(rig.dispatcher.sent) != 1 {
		t.Errorf("Expected notification to still go out, got %d", len(rig.dispatcher.sent))
	}
}

func TestApprove_ApplyRoomFailureKeepsApproval(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.events.failApplyRoom = true
	roomID := uint64(7)

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{RoomID: &roomID})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	if res.Status != model.StatusApproved {
		t.Errorf("Expected APPROVED despite failed room overwrite, got %s", res.Status)
	}
	if res.RoomID != nil {
		t.Errorf("Expected no room reference after failed overwrite, got %v", res.RoomID)
	}
	ev := rig.events.rows[*res.EventID]
	if ev.Location != "Room (pending assignment)" {
		t.Errorf("Expected event location untouched, got %q", ev.Location)
	}
}

func TestApprove_RoomRefFailureKeepsEventBinding(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.reservations.failRoomRef = true
	roomID := uint64(7)

	res, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{RoomID: &roomID})
	if err != nil {
		t.Fatalf("Approve failed: %v", err)
	}
	// The event already carries the room; only the reservation-side
	// reference write failed.
	ev := rig.events.rows[*res.EventID]
	if ev.Location != "B-204 - Main Building (2)" {
		t.Errorf("Expected room applied to event, got %q", ev.Location)
	}
	if res.RoomID != nil {
		t.Errorf("Expected no reservation room reference, got %v", res.RoomID)
	}
}

func TestApprove_CompensationFailureStillReportsCause(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.events.failCreate = true
	rig.reservations.failClear = true

	_, err := rig.flow.Approve(context.Background(), reviewer(), 1, ApproveOptions{})
	var dep *DependentWriteError
	if !errors.As(err, &dep) {
		t.Fatalf("Expected DependentWriteError, got %v", err)
	}
	if dep.Err == nil || !strings.Contains(dep.Err.Error(), "event insert failed") {
		t.Errorf("Expected the original event-creation cause, got %v", dep.Err)
	}
	if rig.reservations.clearCalls != 1 {
		t.Errorf("Expected one compensating attempt, got %d", rig.reservations.clearCalls)
	}
	// The reset itself failed, so the row is left decided without an
	// event; the log line is the operator's signal.
	if rig.reservations.rows[1].Status != model.StatusApproved {
		t.Errorf("Expected row left APPROVED after failed reset, got %s", rig.reservations.rows[1].Status)
	}
}

func TestReject_NotificationFailureDoesNotAffectOutcome(t *testing.T) {
	rig := newTestRig(pendingReservation(1))
	rig.dispatcher.result = false

	res, err := rig.flow.Reject(context.Background(), reviewer(), 1, "no budget")
	if err != nil {
		t.Fatalf("Reject failed: %v", err)
	}
	if res.Status != model.StatusRejected {
		t.Errorf("Expected REJECTED despite failed dispatch, got %s", res.Status)
	}
	if rig.reservations.rows[1].Status != model.StatusRejected {
		t.Errorf("Expected stored row REJECTED, got %s", rig.reservations.rows[1].Status)
	}
}
