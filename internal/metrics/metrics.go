// Package metrics exposes Prometheus collectors for the collaboration
// layer. All counters are best-effort observability; nothing here is on a
// correctness path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	ActiveRooms       prometheus.Gauge
	ActiveConnections prometheus.Gauge
	BroadcastsTotal   prometheus.Counter
	DroppedUpdates    *prometheus.CounterVec
	SaveFailures      prometheus.Counter
}

// New registers the collectors on the given registerer. Pass a fresh
// prometheus.NewRegistry() in tests to avoid double registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ActiveRooms: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "collab_active_rooms",
			Help: "Number of note rooms currently held in memory.",
		}),
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "collab_active_connections",
			Help: "Number of live collaboration WebSocket connections.",
		}),
		BroadcastsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collab_broadcasts_total",
			Help: "Frames fanned out to room members.",
		}),
		DroppedUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "collab_updates_dropped_total",
			Help: "note:update events dropped before broadcast.",
		}, []string{"reason"}), // "throttled", "denied", "no_room", "invalid"
		SaveFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "collab_save_failures_total",
			Help: "Explicit save requests that failed to persist.",
		}),
	}
	reg.MustRegister(m.ActiveRooms, m.ActiveConnections, m.BroadcastsTotal, m.DroppedUpdates, m.SaveFailures)
	return m
}
