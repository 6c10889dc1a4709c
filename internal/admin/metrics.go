package admin

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/pombredanne/prefix-match-server/internal/server"
)

// registerMetrics wires m's counters into reg as GaugeFuncs, so
// /metrics reflects live values without the serving core needing to
// import Prometheus itself. Each Server gets its own registry rather
// than the global default, so constructing more than one Server (as
// the tests do) never panics on double registration.
func registerMetrics(reg *prometheus.Registry, m *server.Metrics) {
	reg.MustRegister(
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "prefixmatch",
			Name:      "connections_open",
			Help:      "Number of currently open client connections.",
		}, func() float64 { return float64(m.Connections()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "prefixmatch",
			Name:      "queries_served_total",
			Help:      "Cumulative number of GET queries served.",
		}, func() float64 { return float64(m.QueriesServed()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "prefixmatch",
			Name:      "reloads_total",
			Help:      "Cumulative number of successful index reloads via the admin endpoint, the mtime watcher or NATS (SIGUSR1 reloads are not counted).",
		}, func() float64 { return float64(m.ReloadCount()) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "prefixmatch",
			Name:      "buffer_growths_total",
			Help:      "Cumulative number of connection read-buffer doublings.",
		}, func() float64 { return float64(m.BufferGrowths()) }),
	)
}
