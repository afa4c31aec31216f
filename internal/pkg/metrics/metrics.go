package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WalletRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletgate_wallet_requests_total",
		Help: "Wallet JSON-RPC calls by method and outcome",
	}, []string{"method", "outcome"})

	WalletLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walletgate_wallet_request_seconds",
		Help:    "Wallet call latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})

	LatencyBucket = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "walletgate_http_latency_seconds",
		Help:    "Gateway request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	GuardRejects = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletgate_guard_rejects_total",
		Help: "Commands rejected by the gateway guard",
	}, []string{"reason"})

	TransactionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "walletgate_transactions_total",
		Help: "Transactions accepted by the wallet, by command variant",
	}, []string{"command"})
)

// Outcome is the label recorded for a finished wallet call: "ok" or the
// error type.
func Outcome(errType string) string {
	if errType == "" {
		return "ok"
	}
	return errType
}
