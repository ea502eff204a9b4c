// Package agent is the client-side counterpart of the collaboration
// socket: it mirrors the web editor's join/typing/update/save lifecycle so
// Go programs (and the service's own tests) can participate in a room.
package agent

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"notes/collab/internal/models"
)

const defaultDebounce = 200 * time.Millisecond

// Editor abstracts the text field being synchronized. Remote patches are
// applied only when the editor is not focused, so an in-progress keystroke
// is never clobbered.
type Editor interface {
	Value() string
	SetValue(string)
	HasFocus() bool
}

type Config struct {
	URL    string // ws:// or wss:// endpoint
	NoteID string
	Editor Editor

	// CollabEnabled false produces a disabled agent that never connects.
	CollabEnabled bool

	// Token, when set, is passed as a query parameter for the token
	// identity provider. Cookie-based sessions use Header instead.
	Token  string
	Header http.Header

	Debounce time.Duration

	OnPresence func([]models.ParticipantInfo)
	OnTyping   func(userID string, typing bool)
	OnSaved    func()
	OnSavedBy  func(userID string)
	OnError    func(msg string)
	OnAuthErr  func(msg string)
}

type Agent struct {
	cfg  Config
	conn *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	users    map[string]models.ParticipantInfo
	timer    *time.Timer
	closed   bool
	disabled bool

	done chan struct{}
}

// Dial connects, joins the note's room, and starts consuming server
// frames. A disabled config returns an inert agent and no connection.
func Dial(ctx context.Context, cfg Config) (*Agent, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = defaultDebounce
	}
	if !cfg.CollabEnabled {
		return &Agent{cfg: cfg, disabled: true, done: make(chan struct{})}, nil
	}
	if cfg.Editor == nil {
		return nil, errors.New("agent: editor is required")
	}
	if cfg.NoteID == "" {
		return nil, errors.New("agent: noteId is required")
	}

	url := cfg.URL
	if cfg.Token != "" {
		url += "?token=" + cfg.Token
	}
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, cfg.Header)
	if err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:   cfg,
		conn:  conn,
		users: make(map[string]models.ParticipantInfo),
		done:  make(chan struct{}),
	}
	if err := a.send("note:join", models.JoinRequest{NoteID: cfg.NoteID}); err != nil {
		_ = conn.Close()
		return nil, err
	}
	go a.readLoop()
	return a, nil
}

// Disabled reports whether the agent was created without a connection.
func (a *Agent) Disabled() bool { return a.disabled }

// Done is closed when the server connection ends.
func (a *Agent) Done() <-chan struct{} { return a.done }

// Users returns the current presence snapshot.
func (a *Agent) Users() []models.ParticipantInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]models.ParticipantInfo, 0, len(a.users))
	for _, u := range a.users {
		out = append(out, u)
	}
	return out
}

// NotifyInput is called on every local edit. Typing is signalled at once;
// the full-body update is debounced so rapid keystrokes coalesce into one
// frame carrying the final text.
func (a *Agent) NotifyInput() {
	if a.disabled {
		return
	}
	_ = a.send("note:typing", models.TypingRequest{NoteID: a.cfg.NoteID, Typing: true})

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(a.cfg.Debounce, a.flushUpdate)
}

func (a *Agent) flushUpdate() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.mu.Unlock()

	body := a.cfg.Editor.Value()
	_ = a.send("note:update", models.UpdateRequest{NoteID: a.cfg.NoteID, Body: &body})
	_ = a.send("note:typing", models.TypingRequest{NoteID: a.cfg.NoteID, Typing: false})
}

// Save pushes the current editor body (and optional title) through the
// persistence bridge. Best effort: the ack arrives as OnSaved.
func (a *Agent) Save(title string) error {
	if a.disabled {
		return nil
	}
	body := a.cfg.Editor.Value()
	return a.send("note:save", models.SaveRequest{NoteID: a.cfg.NoteID, Body: &body, Title: title})
}

// Leave exits the room without closing the connection.
func (a *Agent) Leave() {
	if a.disabled {
		return
	}
	_ = a.send("note:leave", models.LeaveRequest{NoteID: a.cfg.NoteID})
}

func (a *Agent) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	if a.timer != nil {
		a.timer.Stop()
	}
	a.mu.Unlock()

	if a.disabled {
		close(a.done)
		return nil
	}
	a.Leave()
	return a.conn.Close()
}

func (a *Agent) send(eventType string, data any) error {
	a.writeMu.Lock()
	defer a.writeMu.Unlock()
	return a.conn.WriteJSON(models.WSFrame{Type: eventType, Data: data})
}

func (a *Agent) readLoop() {
	defer func() {
		a.mu.Lock()
		if !a.closed {
			a.closed = true
			if a.timer != nil {
				a.timer.Stop()
			}
		}
		a.mu.Unlock()
		close(a.done)
	}()

	for {
		var frame models.WSFrame
		if err := a.conn.ReadJSON(&frame); err != nil {
			return
		}
		a.dispatch(frame)
	}
}

func (a *Agent) dispatch(frame models.WSFrame) {
	switch frame.Type {
	case "note:state":
		var state models.NoteState
		decode(frame.Data, &state)
		if a.cfg.Editor.Value() != state.Body {
			a.cfg.Editor.SetValue(state.Body)
		}
		a.mu.Lock()
		a.users = make(map[string]models.ParticipantInfo, len(state.Users))
		for _, u := range state.Users {
			a.users[u.ID] = u
		}
		a.mu.Unlock()
		a.notifyPresence()

	case "presence:join":
		var u models.ParticipantInfo
		decode(frame.Data, &u)
		a.mu.Lock()
		a.users[u.ID] = u
		a.mu.Unlock()
		a.notifyPresence()

	case "presence:leave":
		var u models.ParticipantInfo
		decode(frame.Data, &u)
		a.mu.Lock()
		delete(a.users, u.ID)
		a.mu.Unlock()
		a.notifyPresence()

	case "presence:typing":
		var ev models.TypingEvent
		decode(frame.Data, &ev)
		if a.cfg.OnTyping != nil {
			a.cfg.OnTyping(ev.UserID, ev.Typing)
		}

	case "note:patch":
		var patch models.PatchEvent
		decode(frame.Data, &patch)
		// Never clobber an in-progress local edit.
		if a.cfg.Editor.HasFocus() {
			return
		}
		if a.cfg.Editor.Value() != patch.Body {
			a.cfg.Editor.SetValue(patch.Body)
		}

	case "note:saved":
		if a.cfg.OnSaved != nil {
			a.cfg.OnSaved()
		}

	case "note:saved:by":
		var by models.SavedBy
		decode(frame.Data, &by)
		if a.cfg.OnSavedBy != nil {
			a.cfg.OnSavedBy(by.UserID)
		}

	case "note:error":
		if a.cfg.OnError != nil {
			a.cfg.OnError(asString(frame.Data))
		}

	case "auth:error":
		if a.cfg.OnAuthErr != nil {
			a.cfg.OnAuthErr(asString(frame.Data))
		}
	}
}

func (a *Agent) notifyPresence() {
	if a.cfg.OnPresence != nil {
		a.cfg.OnPresence(a.Users())
	}
}
