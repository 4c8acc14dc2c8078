package ledger

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for monitoring cluster traffic:
var (
	transactionsSubmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_transactions_submitted_total",
			Help: "Number of transactions submitted to the cluster, by outcome.",
		},
		[]string{"outcome"},
	)

	accountFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gateway_account_fetches_total",
			Help: "Number of account reads issued to the cluster, by outcome.",
		},
		[]string{"outcome"},
	)
)

const (
	outcomeOK       = "ok"
	outcomeRejected = "rejected"
	outcomeNetwork  = "network_error"
	outcomeNotFound = "not_found"
	outcomeTimeout  = "timeout"
)
