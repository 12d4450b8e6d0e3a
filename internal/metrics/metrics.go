// Package metrics holds the relay's Prometheus instruments.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "roomcast"

// Metrics bundles every instrument the relay updates.
type Metrics struct {
	ConnectionsOpen prometheus.Gauge
	RoomsOpen       prometheus.Gauge
	SignalsRelayed  prometheus.Counter
	SignalsDropped  prometheus.Counter
	EventsDropped   prometheus.Counter
	Broadcasts      *prometheus.CounterVec
}

// New builds the instrument set and registers it with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ConnectionsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "connections_open",
			Help:      "Number of live websocket connections.",
		}),
		RoomsOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rooms_open",
			Help:      "Number of live rooms.",
		}),
		SignalsRelayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_relayed_total",
			Help:      "Signaling payloads forwarded to their target.",
		}),
		SignalsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "signals_dropped_total",
			Help:      "Signaling payloads dropped because the target was gone.",
		}),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Outbound events dropped on a full client buffer.",
		}),
		Broadcasts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "broadcasts_total",
			Help:      "Room broadcasts by kind.",
		}, []string{"kind"}),
	}

	reg.MustRegister(
		m.ConnectionsOpen,
		m.RoomsOpen,
		m.SignalsRelayed,
		m.SignalsDropped,
		m.EventsDropped,
		m.Broadcasts,
	)
	return m
}
