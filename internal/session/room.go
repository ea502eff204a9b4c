package session

import (
	"sync"

	"notes/collab/internal/models"
)

// Room holds the connected participants and the latest known body for one
// note. lastBody bootstraps late joiners and is replaced wholesale on every
// accepted update (last-write-wins).
type Room struct {
	NoteID string

	mu           sync.Mutex
	participants map[*Client]models.ParticipantInfo
	lastBody     string
}

func NewRoom(noteID, seedBody string) *Room {
	return &Room{
		NoteID:       noteID,
		participants: make(map[*Client]models.ParticipantInfo),
		lastBody:     seedBody,
	}
}

// Join registers the connection and returns the state snapshot the new
// participant should receive.
func (r *Room) Join(c *Client) models.NoteState {
	info := models.ParticipantInfo{
		ID:    c.Principal.ID,
		Name:  c.Principal.DisplayName,
		Color: ColorForUser(c.Principal.ID),
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.participants[c] = info
	return models.NoteState{Body: r.lastBody, Users: r.participantList()}
}

// Leave removes the connection. It returns the removed participant's info,
// whether the connection was actually a participant, and how many remain.
func (r *Room) Leave(c *Client) (models.ParticipantInfo, bool, int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.participants[c]
	if ok {
		delete(r.participants, c)
	}
	return info, ok, len(r.participants)
}

func (r *Room) ParticipantCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.participants)
}

func (r *Room) Participants() []models.ParticipantInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.participantList()
}

// participantList must be called with r.mu held.
func (r *Room) participantList() []models.ParticipantInfo {
	out := make([]models.ParticipantInfo, 0, len(r.participants))
	for _, info := range r.participants {
		out = append(out, info)
	}
	return out
}

func (r *Room) Info(c *Client) (models.ParticipantInfo, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.participants[c]
	return info, ok
}

func (r *Room) LastBody() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastBody
}

func (r *Room) SetLastBody(body string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastBody = body
}

// Broadcast sends a frame to every participant except the sender.
func (r *Room) Broadcast(sender *Client, frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.participants {
		if c == sender {
			continue
		}
		c.Send(frame)
	}
}

func (r *Room) BroadcastAll(frame models.WSFrame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.participants {
		c.Send(frame)
	}
}
