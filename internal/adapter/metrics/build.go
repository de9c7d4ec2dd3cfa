package metrics

import (
	"github.com/BitFracture/squirrel-lighting-control/internal/platform/version"
	"github.com/prometheus/client_golang/prometheus"
)

// RegisterBuildInfo exposes a constant build_info gauge labelled with the
// running version and the instance id of this process.
func RegisterBuildInfo(reg prometheus.Registerer, info version.Info) {
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "build_info",
		Help:      "Build information of the running controller.",
	}, []string{"version", "commit", "go_version", "instance_id"})
	g.WithLabelValues(info.Version, info.Commit, info.GoVersion, info.InstanceID).Set(1)
	reg.MustRegister(g)
}
