package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"notes/collab/internal/models"
)

// updateInterval caps accepted note:update events per connection. Excess
// updates are dropped, never queued; the next accepted update carries the
// full body so nothing is lost beyond intermediate frames.
const updateInterval = 100 * time.Millisecond

// Client is one live WebSocket connection with its bound principal.
type Client struct {
	ID        string
	Conn      *websocket.Conn
	Principal models.Principal

	mu      sync.Mutex
	hook    func(models.WSFrame)
	rooms   map[string]struct{}
	limiter *rate.Limiter
}

func NewClient(conn *websocket.Conn, principal models.Principal) *Client {
	return &Client{
		ID:        uuid.NewString(),
		Conn:      conn,
		Principal: principal,
		rooms:     make(map[string]struct{}),
		limiter:   rate.NewLimiter(rate.Every(updateInterval), 1),
	}
}

// SetSendHook replaces the default WebSocket sender (used in tests).
func (c *Client) SetSendHook(fn func(models.WSFrame)) {
	c.mu.Lock()
	c.hook = fn
	c.mu.Unlock()
}

func (c *Client) Send(frame models.WSFrame) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hook != nil {
		c.hook(frame)
		return
	}
	if c.Conn == nil {
		return
	}
	_ = c.Conn.WriteJSON(frame)
}

// AllowUpdate reports whether an update from this connection fits inside
// the throttle window.
func (c *Client) AllowUpdate() bool {
	return c.limiter.Allow()
}

// TrackRoom records that this connection joined the given note's room so
// disconnect cleanup can find it.
func (c *Client) TrackRoom(noteID string) {
	c.mu.Lock()
	c.rooms[noteID] = struct{}{}
	c.mu.Unlock()
}

func (c *Client) UntrackRoom(noteID string) {
	c.mu.Lock()
	delete(c.rooms, noteID)
	c.mu.Unlock()
}

// Rooms returns a snapshot of the note ids this connection has joined.
func (c *Client) Rooms() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.rooms))
	for id := range c.rooms {
		out = append(out, id)
	}
	return out
}
