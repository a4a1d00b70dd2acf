// Package metrics exposes Prometheus instrumentation for the engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "powforge7000",
		Subsystem: "miner",
		Name:      "search_total",
		Help:      "Count of finished proof-of-work searches by outcome.",
	}, []string{"algorithm", "outcome"})

	searchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "powforge7000",
		Subsystem: "miner",
		Name:      "search_duration_seconds",
		Help:      "Wall-clock duration of finished searches.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 4, 12),
	}, []string{"algorithm", "outcome"})

	searchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "powforge7000",
		Subsystem: "miner",
		Name:      "search_attempts_total",
		Help:      "Count of hash attempts across all searches.",
	}, []string{"algorithm"})

	searchHashRate = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "powforge7000",
		Subsystem: "miner",
		Name:      "search_hash_rate",
		Help:      "Most recently reported hashes per second.",
	}, []string{"algorithm"})

	kdfDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "powforge7000",
		Subsystem: "miner",
		Name:      "kdf_duration_seconds",
		Help:      "Duration of memory-hard key derivations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"status"})
)

// Miner records search activity for one algorithm label.
type Miner struct {
	algorithm string
}

// NewMiner builds a recorder. An empty algorithm is labeled "unknown".
func NewMiner(algorithm string) *Miner {
	if algorithm == "" {
		algorithm = "unknown"
	}
	return &Miner{algorithm: algorithm}
}

// ObserveSearch records a finished search with its outcome and duration.
func (m *Miner) ObserveSearch(outcome string, started time.Time) {
	searchTotal.WithLabelValues(m.algorithm, outcome).Inc()
	searchDuration.WithLabelValues(m.algorithm, outcome).
		Observe(time.Since(started).Seconds())
}

// ObserveAttempts adds a batch of hash attempts to the running counter.
func (m *Miner) ObserveAttempts(attempts int) {
	searchAttempts.WithLabelValues(m.algorithm).Add(float64(attempts))
}

// ObserveHashRate publishes the latest hashes-per-second reading.
func (m *Miner) ObserveHashRate(rate float64) {
	searchHashRate.WithLabelValues(m.algorithm).Set(rate)
}

// ObserveKDF records one memory-hard derivation.
func ObserveKDF(err error, started time.Time) {
	status := "success"
	if err != nil {
		status = "error"
	}
	kdfDuration.WithLabelValues(status).Observe(time.Since(started).Seconds())
}
