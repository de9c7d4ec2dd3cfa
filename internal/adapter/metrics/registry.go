package metrics

import "github.com/prometheus/client_golang/prometheus"

// RegistryMetrics tracks client membership.
type RegistryMetrics struct {
	Clients  prometheus.Gauge
	Pairings prometheus.Counter
	Renewals prometheus.Counter
	Removals prometheus.Counter
}

// NewRegistryMetrics creates and registers membership metrics on the given registry.
func NewRegistryMetrics(reg prometheus.Registerer) *RegistryMetrics {
	m := &RegistryMetrics{
		Clients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "clients",
			Help:      "Number of currently registered clients.",
		}),
		Pairings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "pairings_total",
			Help:      "Total number of clients added to the registry.",
		}),
		Renewals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "renewals_total",
			Help:      "Total number of registry entries replaced by a newer announcement.",
		}),
		Removals: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "registry",
			Name:      "removals_total",
			Help:      "Total number of clients removed from the registry.",
		}),
	}

	reg.MustRegister(m.Clients, m.Pairings, m.Renewals, m.Removals)
	return m
}
