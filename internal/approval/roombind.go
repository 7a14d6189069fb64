package approval

import (
	"context"
	"fmt"

	"github.com/iliyamo/campus-space-booking/internal/model"
)

// RoomBinder resolves a chosen room and records which reservation
// occupies it.  The orchestrator then copies the returned attributes
// onto the derived event in one overwrite.  Room conflict detection
// is resolved upstream before a room id reaches the approval flow.
type RoomBinder struct {
	rooms RoomStore
}

// NewRoomBinder returns a binder backed by the given room store.
func NewRoomBinder(rooms RoomStore) *RoomBinder {
	if rooms == nil {
		panic("nil room store passed to NewRoomBinder")
	}
	return &RoomBinder{rooms: rooms}
}

// Bind looks up the room, sets its occupying-reservation
// back-reference and returns the room so the caller can copy its
// descriptive attributes.
func (b *RoomBinder) Bind(ctx context.Context, roomID, reservationID uint64) (*model.Room, error) {
	room, err := b.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if err := b.rooms.SetOccupant(ctx, roomID, reservationID); err != nil {
		return nil, fmt.Errorf("set room %d occupant: %w", roomID, err)
	}
	room.OccupiedBy = &reservationID
	return room, nil
}
