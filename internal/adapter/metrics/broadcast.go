package metrics

import "github.com/prometheus/client_golang/prometheus"

// BroadcastMetrics holds Prometheus metrics for the command broadcaster.
type BroadcastMetrics struct {
	Cycles        prometheus.Counter
	CycleDuration prometheus.Histogram
	Sends         prometheus.Counter
	SendErrors    prometheus.Counter
	Pruned        prometheus.Counter
	Panics        prometheus.Counter
}

// NewBroadcastMetrics creates and registers broadcaster metrics on the given registry.
func NewBroadcastMetrics(reg prometheus.Registerer) *BroadcastMetrics {
	m := &BroadcastMetrics{
		Cycles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "cycles_total",
			Help:      "Total number of prune-and-send cycles run.",
		}),
		CycleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "cycle_duration_seconds",
			Help:      "Duration of a prune-and-send cycle in seconds.",
			Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		}),
		Sends: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "sends_total",
			Help:      "Total number of command datagrams written.",
		}),
		SendErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "send_errors_total",
			Help:      "Total number of command datagrams that failed to send.",
		}),
		Pruned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "pruned_clients_total",
			Help:      "Total number of stale clients removed by broadcast cycles.",
		}),
		Panics: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "broadcast",
			Name:      "panics_total",
			Help:      "Total number of recovered panics inside a broadcast cycle.",
		}),
	}

	reg.MustRegister(m.Cycles, m.CycleDuration, m.Sends, m.SendErrors, m.Pruned, m.Panics)
	return m
}
