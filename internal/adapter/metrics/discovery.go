package metrics

import "github.com/prometheus/client_golang/prometheus"

// Discovery datagram results.
const (
	ResultAccepted  = "accepted"
	ResultMalformed = "malformed"
	ResultFirmware  = "firmware"
	ResultAction    = "action"
	ResultAddress   = "address"
)

// DiscoveryMetrics holds Prometheus metrics for the discovery listener.
type DiscoveryMetrics struct {
	Datagrams  *prometheus.CounterVec
	ReadErrors prometheus.Counter
}

// NewDiscoveryMetrics creates and registers discovery metrics on the given registry.
func NewDiscoveryMetrics(reg prometheus.Registerer) *DiscoveryMetrics {
	m := &DiscoveryMetrics{
		Datagrams: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "datagrams_total",
			Help:      "Total number of discovery datagrams received, by result.",
		}, []string{"result"}),
		ReadErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "discovery",
			Name:      "read_errors_total",
			Help:      "Total number of failed reads on the discovery socket.",
		}),
	}

	reg.MustRegister(m.Datagrams, m.ReadErrors)
	return m
}
