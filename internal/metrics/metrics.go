// Package metrics exposes Prometheus counters and histograms for the
// routing engine's query path.
package metrics

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds every metric the engine reports.
type Collector struct {
	reg *prometheus.Registry

	QueriesTotal    *prometheus.CounterVec // outcome label: ok|NoAccess|NoEgress|NoPath|Timeout|error
	QueryDuration    prometheus.Histogram
	RaptorRounds     prometheus.Histogram
	ItinerariesFound prometheus.Histogram
	AccessCandidates prometheus.Histogram
	WalkCacheHits    prometheus.Counter
	WalkCacheMisses  prometheus.Counter
	AuditDropped     prometheus.Counter
}

// NewCollector builds and registers every metric against a fresh
// registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		QueriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "raptor_queries_total",
			Help: "Total routing queries, by outcome.",
		}, []string{"outcome"}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_query_duration_seconds",
			Help:    "Wall-clock duration of a complete routing query.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
		}),
		RaptorRounds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_rounds_run",
			Help:    "Number of Raptor rounds actually executed per query.",
			Buckets: prometheus.LinearBuckets(0, 1, 8),
		}),
		ItinerariesFound: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_itineraries_found",
			Help:    "Number of itineraries returned per query.",
			Buckets: prometheus.LinearBuckets(0, 1, 10),
		}),
		AccessCandidates: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "raptor_access_candidates",
			Help:    "Number of access or egress stop candidates resolved per endpoint.",
			Buckets: prometheus.LinearBuckets(0, 2, 16),
		}),
		WalkCacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raptor_walk_cache_hits_total",
			Help: "Total node-pair walking cache hits.",
		}),
		WalkCacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raptor_walk_cache_misses_total",
			Help: "Total node-pair walking cache misses.",
		}),
		AuditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "raptor_audit_records_dropped_total",
			Help: "Total audit records dropped because the buffer was full.",
		}),
	}

	reg.MustRegister(
		c.QueriesTotal, c.QueryDuration, c.RaptorRounds, c.ItinerariesFound,
		c.AccessCandidates, c.WalkCacheHits, c.WalkCacheMisses, c.AuditDropped,
	)
	return c
}

// Handler returns the HTTP handler serving this collector's registry in
// the Prometheus exposition format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{})
}

// Serve starts a background HTTP server exposing /metrics on addr.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
