package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinksCreated counts payment links created since process start
	LinksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "payment_links_created_total",
		Help: "Number of payment links created",
	})

	// PaymentsCompleted counts completed payments, labeled by token name
	PaymentsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "payments_completed_total",
		Help: "Number of payments recorded against links",
	}, []string{"token"})

	// FeeQuotes counts served fee quotes, labeled by direction
	FeeQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fee_quotes_total",
		Help: "Number of fee quotes served",
	}, []string{"direction"})

	// LinksByStatus is refreshed periodically from the store
	LinksByStatus = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "payment_links_by_status",
		Help: "Current number of payment links per lifecycle state",
	}, []string{"status"})
)
