// Package store defines the note persistence surface the collaboration
// layer depends on. The notes themselves are owned by the main web app;
// this service only reads access metadata and writes body/title through.
package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the note does not exist (or was deleted
// mid-session). Callers treat it the same as access denied.
var ErrNotFound = errors.New("note not found")

// AccessInfo is everything the access guard and room bootstrap need.
type AccessInfo struct {
	OwnerID         string
	CollaboratorIDs []string
	IsCollabEnabled bool
	Body            string
}

// NoteUpdate carries a write-through from an explicit save. Title is only
// persisted when non-empty after trimming.
type NoteUpdate struct {
	Body  string
	Title string
}

type NoteStore interface {
	GetAccessInfo(ctx context.Context, noteID string) (*AccessInfo, error)
	// WriteNote persists the update scoped to the owner's record: the
	// filter matches both note id and owner so a revoked collaborator can
	// never write through a stale connection.
	WriteNote(ctx context.Context, noteID, ownerID string, upd NoteUpdate) error
}
