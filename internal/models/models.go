package models

// Principal is the authenticated identity bound to a connection. It is
// resolved from the web session handshake; this service never creates one.
type Principal struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
}

// ParticipantInfo is one live connection's presence entry within a room.
// Color is derived deterministically from the user id.
type ParticipantInfo struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type WSFrame struct {
	Type string      `json:"type"` // "note:join","note:state","note:update","note:patch","note:save","note:saved","note:saved:by","note:leave","note:typing","presence:join","presence:leave","presence:typing","note:error","auth:error"
	Data interface{} `json:"data"`
}

type JoinRequest struct {
	NoteID string `json:"noteId"`
}

// NoteState is the full room snapshot replied to a successful join.
type NoteState struct {
	Body  string            `json:"body"`
	Users []ParticipantInfo `json:"users"`
}

type LeaveRequest struct {
	NoteID string `json:"noteId"`
}

type TypingRequest struct {
	NoteID string `json:"noteId"`
	Typing bool   `json:"typing"`
}

type TypingEvent struct {
	UserID string `json:"userId"`
	Typing bool   `json:"typing"`
}

type UpdateRequest struct {
	NoteID string  `json:"noteId"`
	Body   *string `json:"body"` // pointer so a missing or non-string body is detectable
}

// PatchEvent is a relayed full-body edit; never echoed back to the editor
// that produced it.
type PatchEvent struct {
	Body   string `json:"body"`
	UserID string `json:"userId"`
}

type SaveRequest struct {
	NoteID string  `json:"noteId"`
	Body   *string `json:"body"`
	Title  string  `json:"title,omitempty"`
}

type SavedBy struct {
	UserID string `json:"userId"`
}
