// Package metrics holds the Prometheus instrumentation shared across the
// core's components, grounded on the teacher's
// internal/staging/stage/metrics.go convention: package-level
// promauto-registered vectors, a shared LatencyBuckets histogram bucket
// set, and label names kept in one place so every component's metric
// names line up.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// LatencyBuckets is the histogram bucket set used by every latency metric
// in this module, in seconds.
var LatencyBuckets = []float64{
	.001, .002, .005, .01, .02, .05, .1, .2, .5, 1, 2, 5, 10,
}

var (
	// TranslatorPassTotal counts how many times each named rewrite pass
	// actually modified a statement, so which dialect features the host
	// really emits is observable in production.
	TranslatorPassTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "translator_pass_total",
		Help: "the number of times a translator pass rewrote a statement",
	}, []string{"pass"})

	// PoolAcquireTotal counts lease acquisitions by outcome.
	PoolAcquireTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pool_acquire_total",
		Help: "the number of pool lease acquisition attempts",
	}, []string{"outcome"})

	// PoolAcquireDuration tracks how long Acquire takes, including the
	// slow-path slot scan and any reconnect.
	PoolAcquireDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pool_acquire_duration_seconds",
		Help:    "the length of time it took to acquire a pool lease",
		Buckets: LatencyBuckets,
	}, []string{"outcome"})

	// StmtCacheTotal counts prepared-statement cache hits and misses.
	StmtCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "stmtcache_total",
		Help: "prepared statement cache lookups by outcome",
	}, []string{"outcome"})

	// ResultCacheTotal counts CachedResult hits and misses.
	ResultCacheTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resultcache_total",
		Help: "short-TTL result cache lookups by outcome",
	}, []string{"outcome"})

	// StepDuration tracks execution-engine step() latency against
	// Engine-R, separated by whether the call triggered execution.
	StepDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "engine_step_duration_seconds",
		Help:    "the length of time a step() call took",
		Buckets: LatencyBuckets,
	}, []string{"phase"})
)
