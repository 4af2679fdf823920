// File: internal/infra/metrics/metrics.go
package metrics

import (
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	claimsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "claims_total",
			Help: "Claim requests by outcome (success/invalid_input/not_found/already_used/conflict/mint_failed/error).",
		},
		[]string{"outcome"},
	)

	codesCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "codes_created_total",
			Help: "Total redemption codes created via the admin API.",
		},
	)

	mintLatencyMs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mint_latency_ms",
			Help:    "Mint submission latency distribution in milliseconds.",
			Buckets: []float64{50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
		},
		[]string{"backend", "success"},
	)
)

// MustRegister registers collectors with the default registry (idempotent).
func MustRegister() {
	once.Do(func() {
		prometheus.MustRegister(
			claimsTotal, codesCreatedTotal, mintLatencyMs,
		)
	})
}

func IncClaim(outcome string) {
	claimsTotal.WithLabelValues(outcome).Inc()
}

func AddCodesCreated(n int) {
	codesCreatedTotal.Add(float64(n))
}

func ObserveMint(backend string, success bool, ms float64) {
	mintLatencyMs.WithLabelValues(backend, strconv.FormatBool(success)).Observe(ms)
}
