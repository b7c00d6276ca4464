package chat

import "sync"

// SendFunc delivers one payload to one connection. It is supplied by the
// transport layer; a non-nil error means that single delivery failed.
type SendFunc func(id ConnID, payload []byte) error

// Rooms tracks which connections belong to which named room and performs
// broadcast fan-out. Rooms are created implicitly on first join and pruned
// when their last member leaves. Safe for concurrent use.
type Rooms struct {
	mu      sync.RWMutex
	members map[string]map[ConnID]struct{}
}

// NewRooms creates an empty room membership table.
func NewRooms() *Rooms {
	return &Rooms{members: make(map[string]map[ConnID]struct{})}
}

// Join adds a connection to a room, creating the room on first use.
// Joining a room twice is a no-op.
func (r *Rooms) Join(id ConnID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.members[room]
	if !ok {
		set = make(map[ConnID]struct{})
		r.members[room] = set
	}
	set[id] = struct{}{}
}

// Leave removes a connection from one room, deleting the room if it is
// left empty. Unknown rooms and non-members are no-ops.
func (r *Rooms) Leave(id ConnID, room string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.leaveLocked(id, room)
}

// LeaveAll removes a connection from every room it belongs to. Used at
// disconnect so that no membership set ever holds a stale identifier.
func (r *Rooms) LeaveAll(id ConnID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for room := range r.members {
		r.leaveLocked(id, room)
	}
}

func (r *Rooms) leaveLocked(id ConnID, room string) {
	set, ok := r.members[room]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(r.members, room)
	}
}

// Members returns a snapshot of a room's membership. A concurrent join or
// leave is either fully reflected or fully absent, never partial.
func (r *Rooms) Members(room string) []ConnID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	set, ok := r.members[room]
	if !ok {
		return nil
	}
	ids := make([]ConnID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	return ids
}

// Broadcast delivers payload to every current member of room through send.
// Delivery is best effort: a failed send to one member is skipped and the
// fan-out continues; nothing is retried. The membership snapshot is taken
// once, so members joining mid-broadcast are not included.
func (r *Rooms) Broadcast(room string, payload []byte, send SendFunc) {
	for _, id := range r.Members(room) {
		// Ignored on purpose: a member that disconnected between the
		// snapshot and the send must not abort delivery to the rest.
		_ = send(id, payload)
	}
}
