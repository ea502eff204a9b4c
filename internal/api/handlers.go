package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"notes/collab/internal/access"
	"notes/collab/internal/identity"
	"notes/collab/internal/metrics"
	"notes/collab/internal/models"
	"notes/collab/internal/session"
	"notes/collab/internal/store"
	"notes/collab/internal/utils"
)

const saveTimeout = 5 * time.Second

type Handlers struct {
	log   *utils.Logger
	hub   *session.Hub
	guard *access.Guard
	store store.NoteStore
	idp   identity.Provider
	m     *metrics.Metrics
}

func NewHandlers(log *utils.Logger, st store.NoteStore, idp identity.Provider, m *metrics.Metrics) *Handlers {
	return NewHandlersWithDeps(log, st, idp, session.NewHub(), m)
}

func NewHandlersWithDeps(log *utils.Logger, st store.NoteStore, idp identity.Provider, hub *session.Hub, m *metrics.Metrics) *Handlers {
	return &Handlers{
		log:   log,
		hub:   hub,
		guard: access.NewGuard(st),
		store: st,
		idp:   idp,
		m:     m,
	}
}

func (h *Handlers) Health(w http.ResponseWriter, _ *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// CollabWS is the realtime endpoint. One connection may join any number of
// note rooms; every room operation re-validates access against the store.
func (h *Handlers) CollabWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	principal, err := h.idp.Resolve(r)
	if err != nil {
		_ = conn.WriteJSON(models.WSFrame{Type: "auth:error", Data: "Unauthenticated"})
		return
	}

	client := session.NewClient(conn, *principal)
	h.log.Info("client connected", "connId", client.ID, "userId", client.Principal.ID)
	h.m.ActiveConnections.Inc()
	defer func() {
		h.cleanupClient(client)
		h.m.ActiveConnections.Dec()
		h.log.Info("client disconnected", "connId", client.ID, "userId", client.Principal.ID)
	}()

	ctx := r.Context()
	for {
		var frame models.WSFrame
		if err := conn.ReadJSON(&frame); err != nil {
			return
		}

		switch frame.Type {
		case "note:join":
			h.handleJoin(ctx, client, frame.Data)
		case "note:leave":
			h.handleLeave(client, frame.Data)
		case "note:typing":
			h.handleTyping(client, frame.Data)
		case "note:update":
			h.handleUpdate(ctx, client, frame.Data)
		case "note:save":
			h.handleSave(ctx, client, frame.Data)
		default:
			client.Send(errFrame("unknown_type"))
		}
	}
}

func (h *Handlers) handleJoin(ctx context.Context, client *session.Client, data any) {
	var req models.JoinRequest
	marshal(data, &req)
	if req.NoteID == "" {
		return
	}

	decision, info := h.guard.CheckWithInfo(ctx, req.NoteID, client.Principal.ID)
	if !decision.Allowed {
		client.Send(errFrame(denyMessage(info, client.Principal.ID)))
		return
	}

	room := h.hub.GetOrCreate(req.NoteID, info.Body)
	state := room.Join(client)
	client.TrackRoom(req.NoteID)
	h.log.Info("joined note room", "noteId", req.NoteID, "connId", client.ID, "userId", client.Principal.ID)
	h.m.ActiveRooms.Set(float64(h.hub.Len()))

	client.Send(models.WSFrame{Type: "note:state", Data: state})

	if joined, ok := room.Info(client); ok {
		room.Broadcast(client, models.WSFrame{Type: "presence:join", Data: joined})
		h.m.BroadcastsTotal.Inc()
	}
}

// denyMessage mirrors the web app's two join errors: a collaborator hitting
// a note whose owner turned collaboration off gets the explicit message.
func denyMessage(info *store.AccessInfo, userID string) string {
	if info != nil && !info.IsCollabEnabled {
		for _, id := range info.CollaboratorIDs {
			if id == userID {
				return "Collaboration is disabled by owner"
			}
		}
	}
	return "Note not found or access denied"
}

func (h *Handlers) handleLeave(client *session.Client, data any) {
	var req models.LeaveRequest
	marshal(data, &req)
	if req.NoteID == "" {
		return
	}
	h.leaveRoom(client, req.NoteID)
}

func (h *Handlers) leaveRoom(client *session.Client, noteID string) {
	client.UntrackRoom(noteID)
	room, ok := h.hub.Get(noteID)
	if !ok {
		return
	}
	info, wasMember, left := room.Leave(client)
	if !wasMember {
		return
	}
	room.Broadcast(client, models.WSFrame{Type: "presence:leave", Data: info})
	h.m.BroadcastsTotal.Inc()
	if left == 0 {
		h.hub.Delete(noteID)
	}
	h.m.ActiveRooms.Set(float64(h.hub.Len()))
}

// handleTyping relays an ephemeral signal; nothing is retained server-side
// and delivery is at-most-once.
func (h *Handlers) handleTyping(client *session.Client, data any) {
	var req models.TypingRequest
	marshal(data, &req)
	if req.NoteID == "" {
		return
	}
	room, ok := h.hub.Get(req.NoteID)
	if !ok {
		return
	}
	room.Broadcast(client, models.WSFrame{
		Type: "presence:typing",
		Data: models.TypingEvent{UserID: client.Principal.ID, Typing: req.Typing},
	})
	h.m.BroadcastsTotal.Inc()
}

// handleUpdate applies last-write-wins: the accepted body replaces the room
// state wholesale and is relayed to everyone except the sender. Denied or
// throttled updates are dropped silently.
func (h *Handlers) handleUpdate(ctx context.Context, client *session.Client, data any) {
	var req models.UpdateRequest
	marshal(data, &req)
	if req.NoteID == "" || req.Body == nil {
		h.m.DroppedUpdates.WithLabelValues("invalid").Inc()
		return
	}

	room, ok := h.hub.Get(req.NoteID)
	if !ok {
		h.m.DroppedUpdates.WithLabelValues("no_room").Inc()
		return
	}

	if !client.AllowUpdate() {
		h.m.DroppedUpdates.WithLabelValues("throttled").Inc()
		return
	}

	if decision := h.guard.Check(ctx, req.NoteID, client.Principal.ID); !decision.Allowed {
		h.m.DroppedUpdates.WithLabelValues("denied").Inc()
		return
	}

	room.SetLastBody(*req.Body)
	room.Broadcast(client, models.WSFrame{
		Type: "note:patch",
		Data: models.PatchEvent{Body: *req.Body, UserID: client.Principal.ID},
	})
	h.m.BroadcastsTotal.Inc()
}

// handleSave writes through to the note store. Access failures skip the
// write silently; store failures surface to the saver only.
func (h *Handlers) handleSave(ctx context.Context, client *session.Client, data any) {
	var req models.SaveRequest
	marshal(data, &req)
	if req.NoteID == "" || req.Body == nil {
		return
	}

	decision, info := h.guard.CheckWithInfo(ctx, req.NoteID, client.Principal.ID)
	if !decision.Allowed {
		return
	}

	wctx, cancel := context.WithTimeout(ctx, saveTimeout)
	defer cancel()
	err := h.store.WriteNote(wctx, req.NoteID, info.OwnerID, store.NoteUpdate{
		Body:  *req.Body,
		Title: req.Title,
	})
	if err != nil {
		h.log.Error("save failed", "noteId", req.NoteID, "userId", client.Principal.ID, "error", err.Error())
		h.m.SaveFailures.Inc()
		client.Send(errFrame("Failed to save"))
		return
	}

	client.Send(models.WSFrame{Type: "note:saved"})
	if room, ok := h.hub.Get(req.NoteID); ok {
		room.Broadcast(client, models.WSFrame{
			Type: "note:saved:by",
			Data: models.SavedBy{UserID: client.Principal.ID},
		})
		h.m.BroadcastsTotal.Inc()
	}
}

// cleanupClient runs on disconnect: the connection may have joined several
// rooms, each needs a presence:leave and possibly eviction.
func (h *Handlers) cleanupClient(client *session.Client) {
	for _, noteID := range client.Rooms() {
		h.leaveRoom(client, noteID)
	}
}

func marshal(in any, out any) { b, _ := json.Marshal(in); _ = json.Unmarshal(b, out) }

func errFrame(msg string) models.WSFrame { return models.WSFrame{Type: "note:error", Data: msg} }
