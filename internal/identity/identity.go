// Package identity resolves the authenticated principal for an incoming
// realtime connection. Identity is owned by the web app; this package only
// reads what the session handshake carries.
package identity

import (
	"errors"
	"net/http"

	"notes/collab/internal/models"
)

// ErrUnauthenticated means no principal could be resolved from the request.
// The connection must be rejected and re-established after the user signs
// in again through the web session.
var ErrUnauthenticated = errors.New("unauthenticated")

type Provider interface {
	Resolve(r *http.Request) (*models.Principal, error)
}

// Chain tries each provider in order and returns the first principal found.
type Chain []Provider

func (c Chain) Resolve(r *http.Request) (*models.Principal, error) {
	for _, p := range c {
		principal, err := p.Resolve(r)
		if err == nil {
			return principal, nil
		}
		if !errors.Is(err, ErrUnauthenticated) {
			return nil, err
		}
	}
	return nil, ErrUnauthenticated
}
