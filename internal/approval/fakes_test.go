package approval

import (
	"context"
	"errors"

	"github.com/iliyamo/campus-space-booking/internal/model"
	"github.com/iliyamo/campus-space-booking/internal/repository"
)

// In-memory store implementations used across the workflow tests.
// Each fake mirrors the SQL store's observable behavior: conditional
// transitions report rows-affected, missing rows surface the
// repository sentinels.

type fakeReservations struct {
	rows map[uint64]*model.Reservation

	failTransition bool
	failClear      bool
	failEventRef   bool
	failRoomRef    bool

	// flipOnRead moves the row to this status right after the next
	// GetByID, simulating a concurrent reviewer deciding between the
	// caller's read and its conditional write.
	flipOnRead model.ReservationStatus

	clearCalls int
}

func newFakeReservations(rows ...*model.Reservation) *fakeReservations {
	f := &fakeReservations{rows: map[uint64]*model.Reservation{}}
	for _, r := range rows {
		cp := *r
		f.rows[r.ID] = &cp
	}
	return f
}

func (f *fakeReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := *r
	if f.flipOnRead != "" {
		r.Status = f.flipOnRead
		f.flipOnRead = ""
	}
	return &cp, nil
}

func (f *fakeReservations) Transition(_ context.Context, id uint64, from []model.ReservationStatus, to model.ReservationStatus, d *model.Decision) (bool, error) {
	if f.failTransition {
		return false, errors.New("transition write failed")
	}
	r, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if !statusIn(r.Status, from) {
		return false, nil
	}
	r.Status = to
	r.Decision = d
	return true, nil
}

func (f *fakeReservations) TransitionCancelled(_ context.Context, id uint64, from []model.ReservationStatus, reason string) (bool, error) {
	r, ok := f.rows[id]
	if !ok {
		return false, nil
	}
	if !statusIn(r.Status, from) {
		return false, nil
	}
	r.Status = model.StatusCancelled
	r.CancelReason = &reason
	return true, nil
}

func (f *fakeReservations) ClearDecision(_ context.Context, id uint64) error {
	f.clearCalls++
	if f.failClear {
		return errors.New("clear decision failed")
	}
	if r, ok := f.rows[id]; ok {
		r.Status = model.StatusPending
		r.Decision = nil
	}
	return nil
}

func (f *fakeReservations) SetEventRef(_ context.Context, id, eventID uint64) error {
	if f.failEventRef {
		return errors.New("event ref write failed")
	}
	if r, ok := f.rows[id]; ok {
		eid := eventID
		r.EventID = &eid
	}
	return nil
}

func (f *fakeReservations) SetRoomRef(_ context.Context, id, roomID uint64) error {
	if f.failRoomRef {
		return errors.New("room ref write failed")
	}
	if r, ok := f.rows[id]; ok {
		rid := roomID
		r.RoomID = &rid
	}
	return nil
}

func statusIn(s model.ReservationStatus, set []model.ReservationStatus) bool {
	for _, candidate := range set {
		if s == candidate {
			return true
		}
	}
	return false
}

type fakeEvents struct {
	nextID uint64
	rows   map[uint64]*model.Event

	failCreate    bool
	failApplyRoom bool
}

func newFakeEvents() *fakeEvents {
	return &fakeEvents{rows: map[uint64]*model.Event{}}
}

func (f *fakeEvents) Create(_ context.Context, ev *model.Event) error {
	if f.failCreate {
		return errors.New("event insert failed")
	}
	f.nextID++
	ev.ID = f.nextID
	cp := *ev
	f.rows[ev.ID] = &cp
	return nil
}

func (f *fakeEvents) ApplyRoom(_ context.Context, eventID uint64, location string, capacity uint32, roomID uint64) error {
	if f.failApplyRoom {
		return errors.New("apply room failed")
	}
	ev, ok := f.rows[eventID]
	if !ok {
		return repository.ErrEventNotFound
	}
	rid := roomID
	ev.Location = location
	ev.Capacity = capacity
	ev.RoomID = &rid
	return nil
}

type fakeRooms struct {
	rows map[uint64]*model.Room

	failOccupant bool
}

func newFakeRooms(rooms ...*model.Room) *fakeRooms {
	f := &fakeRooms{rows: map[uint64]*model.Room{}}
	for _, r := range rooms {
		cp := *r
		f.rows[r.ID] = &cp
	}
	return f
}

func (f *fakeRooms) GetByID(_ context.Context, id uint64) (*model.Room, error) {
	r, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrRoomNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeRooms) SetOccupant(_ context.Context, roomID, reservationID uint64) error {
	if f.failOccupant {
		return errors.New("occupant write failed")
	}
	r, ok := f.rows[roomID]
	if !ok {
		return repository.ErrRoomNotFound
	}
	rid := reservationID
	r.OccupiedBy = &rid
	return nil
}

type fakeOrgs struct {
	rows map[uint64]*model.Organization
}

func newFakeOrgs(orgs ...*model.Organization) *fakeOrgs {
	f := &fakeOrgs{rows: map[uint64]*model.Organization{}}
	for _, o := range orgs {
		cp := *o
		f.rows[o.ID] = &cp
	}
	return f
}

func (f *fakeOrgs) GetByID(_ context.Context, id uint64) (*model.Organization, error) {
	o, ok := f.rows[id]
	if !ok {
		return nil, repository.ErrOrganizationNotFound
	}
	cp := *o
	return &cp, nil
}

type fakeProfiles struct {
	emails map[uint64]string
	err    error
}

func (f *fakeProfiles) EmailByID(_ context.Context, id uint64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	email, ok := f.emails[id]
	if !ok {
		return "", errors.New("no such profile")
	}
	return email, nil
}

type fakeDispatcher struct {
	sent   []Notification
	result bool
}

func (f *fakeDispatcher) Dispatch(_ context.Context, n Notification) bool {
	f.sent = append(f.sent, n)
	return f.result
}
