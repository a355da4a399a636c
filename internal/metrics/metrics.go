// Package metrics exposes resolver activity as Prometheus collectors:
// query counts and latency labeled by upstream server, cache lookups and
// hits, and query errors labeled by error kind. Nothing here is wired to an HTTP
// endpoint; callers register the collectors on their own registry and
// serve /metrics however fits their process.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/corvidns/resolver/internal/dnserr"
)

// Collector implements resolver.Recorder, converting each query outcome
// into Prometheus observations.
type Collector struct {
	queries    *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	cacheHits  prometheus.Counter
	cacheTotal prometheus.Counter
	errors     *prometheus.CounterVec
}

// New creates a Collector and registers its collectors under namespace on
// reg. Passing prometheus.NewRegistry() keeps the collectors private to the
// caller; passing prometheus.DefaultRegisterer publishes them globally.
func New(reg prometheus.Registerer, namespace string) *Collector {
	c := &Collector{
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "DNS queries sent, labeled by upstream server.",
		}, []string{"server"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Round-trip latency of resolved queries.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"server"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Queries answered directly from cache.",
		}),
		cacheTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_lookups_total",
			Help:      "Total cache lookups performed.",
		}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "query_errors_total",
			Help:      "Query failures, labeled by error kind.",
		}, []string{"kind"}),
	}
	reg.MustRegister(c.queries, c.latency, c.cacheHits, c.cacheTotal, c.errors)
	return c
}

// ObserveQuery records one query outcome. It satisfies resolver.Recorder.
func (c *Collector) ObserveQuery(server string, rtt time.Duration, cacheHit bool, errKind dnserr.Kind) {
	c.cacheTotal.Inc()
	if cacheHit {
		c.cacheHits.Inc()
		return
	}
	c.queries.WithLabelValues(server).Inc()
	c.latency.WithLabelValues(server).Observe(rtt.Seconds())
	if errKind != dnserr.KindUnspecified {
		c.errors.WithLabelValues(errKind.String()).Inc()
	}
}
