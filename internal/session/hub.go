package session

import "sync"

// Hub is the process-wide registry of active note rooms. It is owned by the
// handler set and torn down with the server; never package-global.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]*Room
}

func NewHub() *Hub { return &Hub{rooms: make(map[string]*Room)} }

// GetOrCreate returns the room for a note, creating it seeded with the
// note's persisted body on first join.
func (h *Hub) GetOrCreate(noteID, seedBody string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()
	if r, ok := h.rooms[noteID]; ok {
		return r
	}
	r := NewRoom(noteID, seedBody)
	h.rooms[noteID] = r
	return r
}

func (h *Hub) Get(noteID string) (*Room, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	r, ok := h.rooms[noteID]
	return r, ok
}

func (h *Hub) Delete(noteID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.rooms, noteID)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// LastBody returns the room's current body, if the room exists.
func (h *Hub) LastBody(noteID string) (string, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[noteID]
	if !ok {
		return "", false
	}
	return room.LastBody(), true
}
