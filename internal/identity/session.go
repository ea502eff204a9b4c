package identity

import (
	"encoding/json"
	"net/http"

	"github.com/redis/go-redis/v9"

	"notes/collab/internal/models"
)

const DefaultSessionCookie = "sid"

// sessionRecord is what the web app stores per signed-in session.
type sessionRecord struct {
	User struct {
		ID        string `json:"id"`
		FirstName string `json:"firstName"`
	} `json:"user"`
}

// SessionProvider resolves the browser session cookie against the shared
// redis session store, the same store the web app writes on login.
type SessionProvider struct {
	rdb    *redis.Client
	cookie string
}

func NewSessionProvider(rdb *redis.Client, cookieName string) *SessionProvider {
	if cookieName == "" {
		cookieName = DefaultSessionCookie
	}
	return &SessionProvider{rdb: rdb, cookie: cookieName}
}

func (p *SessionProvider) Resolve(r *http.Request) (*models.Principal, error) {
	cookie, err := r.Cookie(p.cookie)
	if err != nil || cookie.Value == "" {
		return nil, ErrUnauthenticated
	}

	raw, err := p.rdb.Get(r.Context(), "session:"+cookie.Value).Result()
	if err == redis.Nil {
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}

	var rec sessionRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return nil, ErrUnauthenticated
	}
	if rec.User.ID == "" {
		return nil, ErrUnauthenticated
	}

	name := rec.User.FirstName
	if name == "" {
		name = "User"
	}
	return &models.Principal{ID: rec.User.ID, DisplayName: name}, nil
}
