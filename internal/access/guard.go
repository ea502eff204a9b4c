// Package access decides whether a user may collaborate on a note.
package access

import (
	"context"

	"notes/collab/internal/store"
)

type Decision struct {
	Allowed bool
	IsOwner bool
}

// Guard re-checks note access against the store on every operation; a
// collaborator removed mid-session loses access on their next event.
type Guard struct {
	store store.NoteStore
}

func NewGuard(s store.NoteStore) *Guard { return &Guard{store: s} }

// Check fails closed: a missing note or any store error denies access.
// The user is allowed when they own the note, or when collaboration is
// enabled and they are on the collaborator list.
func (g *Guard) Check(ctx context.Context, noteID, userID string) Decision {
	info, err := g.store.GetAccessInfo(ctx, noteID)
	if err != nil {
		return Decision{}
	}
	return Decide(info, userID)
}

// CheckWithInfo is Check but also returns the fetched access info so join
// can seed the room body without a second store round trip.
func (g *Guard) CheckWithInfo(ctx context.Context, noteID, userID string) (Decision, *store.AccessInfo) {
	info, err := g.store.GetAccessInfo(ctx, noteID)
	if err != nil {
		return Decision{}, nil
	}
	return Decide(info, userID), info
}

func Decide(info *store.AccessInfo, userID string) Decision {
	if info == nil {
		return Decision{}
	}
	if userID == info.OwnerID {
		return Decision{Allowed: true, IsOwner: true}
	}
	if !info.IsCollabEnabled {
		return Decision{}
	}
	for _, id := range info.CollaboratorIDs {
		if id == userID {
			return Decision{Allowed: true}
		}
	}
	return Decision{}
}
