package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PurchasesTotal tracks purchase outcomes by token
	PurchasesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_purchases_total",
			Help: "The total number of purchase requests by outcome",
		},
		[]string{"token", "outcome"}, // committed, rejected, failed, indeterminate, replayed
	)

	// ClaimsTotal tracks claim outcomes
	ClaimsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_claims_total",
			Help: "The total number of claim requests by outcome",
		},
		[]string{"outcome"},
	)

	// TokensSold tracks committed token quantity per offering
	TokensSold = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_tokens_sold_total",
			Help: "Token quantity committed by purchases",
		},
		[]string{"token"},
	)

	// OracleCallSeconds tracks settlement oracle round-trip latency
	OracleCallSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presale_oracle_call_seconds",
			Help:    "Time taken by settlement oracle calls",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 12), // 50ms to ~100s
		},
		[]string{"operation", "status"},
	)

	// RateLimitRejections tracks requests rejected by the wallet rate limiter
	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presale_ratelimit_rejections_total",
		Help: "The total number of requests rejected by the rate limiter",
	})

	// ReconcilerActions tracks reconciler decisions
	ReconcilerActions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "presale_reconciler_actions_total",
			Help: "The total number of reconciler actions by kind",
		},
		[]string{"action"}, // committed, failed, manual_review, claim_completed, claim_released, pending
	)

	// HTTPRequestSeconds tracks API latency
	HTTPRequestSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "presale_http_request_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordPurchase records a purchase outcome for a token
func RecordPurchase(token, outcome string) {
	PurchasesTotal.WithLabelValues(token, outcome).Inc()
}

// RecordTokensSold adds a committed token quantity
func RecordTokensSold(token string, qty float64) {
	TokensSold.WithLabelValues(token).Add(qty)
}

// RecordClaim records a claim outcome
func RecordClaim(outcome string) {
	ClaimsTotal.WithLabelValues(outcome).Inc()
}

// RecordOracleCall records the duration of an oracle call
func RecordOracleCall(operation, status string, seconds float64) {
	OracleCallSeconds.WithLabelValues(operation, status).Observe(seconds)
}

// RecordRateLimitRejection counts a rate-limited request
func RecordRateLimitRejection() {
	RateLimitRejections.Inc()
}

// RecordReconcilerAction counts a reconciler decision
func RecordReconcilerAction(action string) {
	ReconcilerActions.WithLabelValues(action).Inc()
}

// RecordHTTPRequest records the latency of an API request
func RecordHTTPRequest(method, route, status string, seconds float64) {
	HTTPRequestSeconds.WithLabelValues(method, route, status).Observe(seconds)
}
