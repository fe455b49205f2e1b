/*
Package metrics implements an optional Prometheus listener. It is
entirely ambient observability, distinct from any protocol-level
`stats` command: nothing here is reachable from the wire protocol, and
the server runs identically with this package's listener disabled.
*/
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Registry bundles the counters and gauges linecache exposes on
// /metrics, plus the HTTP server that serves them.
type Registry struct {
	Hits              prometheus.Counter
	Misses            prometheus.Counter
	Evictions         prometheus.Counter
	ResidentEntries   prometheus.Gauge
	ConnectionsActive prometheus.Gauge
	CommandsTotal     *prometheus.CounterVec

	srv *http.Server
}

// New registers a fresh set of collectors against their own registry,
// so multiple Registry instances (e.g. in tests) never collide on
// prometheus's global default registerer.
func New() *Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	r := &Registry{
		Hits: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linecache",
			Name:      "cache_hits_total",
			Help:      "Number of keys looked up by get requests that matched a resident entry.",
		}),
		Misses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linecache",
			Name:      "cache_misses_total",
			Help:      "Number of keys looked up by get requests that were not found in the store.",
		}),
		Evictions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linecache",
			Name:      "cache_evictions_total",
			Help:      "Number of entries evicted to make room under capacity pressure.",
		}),
		ResidentEntries: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "linecache",
			Name:      "cache_resident_entries",
			Help:      "Current number of entries held in the store.",
		}),
		ConnectionsActive: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "linecache",
			Name:      "connections_active",
			Help:      "Number of currently open client connections.",
		}),
		CommandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linecache",
			Name:      "commands_total",
			Help:      "Number of set requests and get key lookups processed, by command and outcome.",
		}, []string{"command", "outcome"}),
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.srv = &http.Server{Handler: mux}
	return r
}

// ListenAndServe blocks serving /metrics on addr until the server is
// shut down or it fails to bind.
func (r *Registry) ListenAndServe(addr string, logger *zap.Logger) error {
	r.srv.Addr = addr
	logger.Info("metrics listener starting", zap.String("addr", addr))
	err := r.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the metrics HTTP server.
func (r *Registry) Shutdown(ctx context.Context) error {
	return r.srv.Shutdown(ctx)
}

// ObserveCommand records one outcome: a processed set request, or one
// key of a get request (a multi-key get records one outcome per key).
func (r *Registry) ObserveCommand(command, outcome string) {
	r.CommandsTotal.WithLabelValues(command, outcome).Inc()
}
