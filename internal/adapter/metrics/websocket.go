package metrics

import "github.com/prometheus/client_golang/prometheus"

// StatusStreamMetrics holds Prometheus metrics for the live client-list websocket.
type StatusStreamMetrics struct {
	ActiveConnections prometheus.Gauge
	SnapshotsPushed   prometheus.Counter
}

// NewStatusStreamMetrics creates and registers status stream metrics on the given registry.
func NewStatusStreamMetrics(reg prometheus.Registerer) *StatusStreamMetrics {
	m := &StatusStreamMetrics{
		ActiveConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "status_stream",
			Name:      "active_connections",
			Help:      "Number of open client-list websocket connections.",
		}),
		SnapshotsPushed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "status_stream",
			Name:      "snapshots_pushed_total",
			Help:      "Total number of client-list snapshots written to websockets.",
		}),
	}

	reg.MustRegister(m.ActiveConnections, m.SnapshotsPushed)
	return m
}
