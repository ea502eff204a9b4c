package routers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"notes/collab/internal/api"
	"notes/collab/internal/identity"
	"notes/collab/internal/metrics"
	"notes/collab/internal/models"
	"notes/collab/internal/store"
	"notes/collab/internal/utils"
)

type emptyStore struct{}

func (emptyStore) GetAccessInfo(context.Context, string) (*store.AccessInfo, error) {
	return nil, store.ErrNotFound
}

func (emptyStore) WriteNote(context.Context, string, string, store.NoteUpdate) error {
	return nil
}

type noIDP struct{}

func (noIDP) Resolve(*http.Request) (*models.Principal, error) {
	return nil, identity.ErrUnauthenticated
}

func newTestRouter() http.Handler {
	reg := prometheus.NewRegistry()
	h := api.NewHandlers(utils.NewNopLogger(), emptyStore{}, noIDP{}, metrics.New(reg))
	return New(h, reg)
}

func TestHealthzRoute(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/healthz", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("unexpected healthz response: %d %q", rec.Code, rec.Body.String())
	}
}

func TestMetricsRoute(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected metrics status: %d", rec.Code)
	}
}

func TestWSRouteRejectsPlainGET(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ws", nil))
	// Not a websocket handshake; the upgrader refuses it.
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-upgrade request, got %d", rec.Code)
	}
}
