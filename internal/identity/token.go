package identity

import (
	"net/http"

	"notes/collab/internal/models"
	"notes/collab/internal/utils"
)

// TokenProvider resolves a signed session token, passed either as a Bearer
// header or a ?token= query parameter (browsers cannot set headers on
// WebSocket upgrades).
type TokenProvider struct{}

func (TokenProvider) Resolve(r *http.Request) (*models.Principal, error) {
	tokenStr, err := utils.ExtractTokenFromHeader(r.Header.Get("Authorization"))
	if err != nil {
		tokenStr = r.URL.Query().Get("token")
	}
	if tokenStr == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := utils.ValidateSessionToken(tokenStr)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	name := claims.DisplayName
	if name == "" {
		name = "User"
	}
	return &models.Principal{ID: claims.UserID, DisplayName: name}, nil
}
