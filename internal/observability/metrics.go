package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	httpRequestsTotal  *prometheus.CounterVec
	httpLatencySeconds *prometheus.HistogramVec
	leaderboardLookups *prometheus.CounterVec
	leaderboardResets  *prometheus.CounterVec
	scoringTotal       *prometheus.CounterVec
	xpEventsTotal      *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used across the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		leaderboardLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_lookups_total",
			Help: "Leaderboard reads partitioned by scope and cache outcome.",
		}, []string{"scope", "outcome"})

		leaderboardResets = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "leaderboard_resets_total",
			Help: "Audited leaderboard resets per scope.",
		}, []string{"scope"})

		scoringTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "exam_scoring_total",
			Help: "Exam scoring attempts partitioned by outcome.",
		}, []string{"outcome"})

		xpEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "xp_events_emitted_total",
			Help: "XP ledger events emitted per kind.",
		}, []string{"kind"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, leaderboardLookups, leaderboardResets, scoringTotal, xpEventsTotal)
	})
}

// HTTPRequests exposes the counter for served requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// LeaderboardRequests exposes the cache hit/miss counter for leaderboard reads.
func LeaderboardRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return leaderboardLookups
}

// LeaderboardResets exposes the reset counter.
func LeaderboardResets() *prometheus.CounterVec {
	RegisterMetrics()
	return leaderboardResets
}

// ScoringRequests exposes the scoring outcome counter.
func ScoringRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return scoringTotal
}

// XpEventsEmitted exposes the ledger emission counter.
func XpEventsEmitted() *prometheus.CounterVec {
	RegisterMetrics()
	return xpEventsTotal
}
