package core

import (
	"sync"

	"github.com/google/uuid"
)

// Member is one (connection, display name) pair inside a room.
type Member struct {
	ConnectionID string
	DisplayName  string
}

// RoomTable owns room membership. Room ids are unguessable uuid v4
// strings; membership order is join order; a room is deleted the moment
// its last member leaves. Callers never see the underlying map.
type RoomTable struct {
	mu    sync.RWMutex
	limit int // max members per room, 0 means unlimited
	rooms map[string][]Member
}

// NewRoomTable constructs an empty room table. limit caps members per
// room; 0 disables the cap.
func NewRoomTable(limit int) *RoomTable {
	return &RoomTable{
		limit: limit,
		rooms: make(map[string][]Member),
	}
}

// Create allocates a room containing only the creator and returns its
// fresh room id. Creation never fails.
func (t *RoomTable) Create(first Member) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	roomID := uuid.NewString()
	t.rooms[roomID] = []Member{first}
	return roomID
}

// Join appends the member to the room's membership sequence. Returns
// ErrRoomNotFound for an unknown room, ErrRoomFull when a configured cap
// is exceeded, and ErrAlreadyMember if the connection is already present.
// On error the table is left untouched.
func (t *RoomTable) Join(roomID string, m Member) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return ErrRoomNotFound
	}
	for _, existing := range members {
		if existing.ConnectionID == m.ConnectionID {
			return ErrAlreadyMember
		}
	}
	if t.limit > 0 && len(members) >= t.limit {
		return ErrRoomFull
	}
	t.rooms[roomID] = append(members, m)
	return nil
}

// Leave removes the connection from the room and returns the remaining
// members. If the room is emptied it is deleted in the same step.
// existed reports whether the connection was actually a member.
func (t *RoomTable) Leave(roomID, connID string) (remaining []Member, existed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	for i, m := range members {
		if m.ConnectionID != connID {
			continue
		}
		members = append(members[:i], members[i+1:]...)
		if len(members) == 0 {
			delete(t.rooms, roomID)
			return nil, true
		}
		t.rooms[roomID] = members
		return append([]Member(nil), members...), true
	}
	return nil, false
}

// Members returns a copy of the room's membership in join order.
func (t *RoomTable) Members(roomID string) ([]Member, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	members, ok := t.rooms[roomID]
	if !ok {
		return nil, false
	}
	return append([]Member(nil), members...), true
}

// Len returns the number of live rooms.
func (t *RoomTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	return len(t.rooms)
}
