package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	// Transaction metrics
	TransactionsProcessed       *prometheus.CounterVec
	TransactionDuration         prometheus.Histogram
	TransactionAmount           prometheus.Histogram
	InsufficientFundsRejections prometheus.Counter

	// Account metrics
	AccountsCreated prometheus.Counter
	AccountsClosed  prometheus.Counter
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		TransactionsProcessed: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bankledger_transactions_total",
				Help: "Total number of transactions by kind and status",
			},
			[]string{"kind", "status"},
		),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_transaction_duration_seconds",
			Help:    "Duration of transaction operations",
			Buckets: prometheus.DefBuckets,
		}),
		TransactionAmount: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankledger_transaction_amount",
			Help:    "Transaction amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		InsufficientFundsRejections: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_insufficient_funds_rejections_total",
			Help: "Total number of operations rejected by the balance check",
		}),
		AccountsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_created_total",
			Help: "Total number of accounts created",
		}),
		AccountsClosed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "bankledger_accounts_closed_total",
			Help: "Total number of accounts closed",
		}),
	}
}
