package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reason labels for SalesRejected.
const (
	ReasonValidation        = "validation"
	ReasonNotFound          = "product_not_found"
	ReasonInsufficientStock = "insufficient_stock"
	ReasonDuplicate         = "duplicate_request"
	ReasonInfrastructure    = "infrastructure"
)

var (
	// SalesCommitted counts successfully committed sale transactions.
	SalesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopdesk",
		Name:      "sales_committed_total",
		Help:      "Sale transactions committed.",
	})

	// SalesRejected counts rejected sale attempts by reason.
	SalesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "shopdesk",
		Name:      "sales_rejected_total",
		Help:      "Sale attempts rejected, by reason.",
	}, []string{"reason"})

	// SaleDuration observes the end-to-end sale transaction latency.
	SaleDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "shopdesk",
		Name:      "sale_duration_seconds",
		Help:      "Latency of RecordSale including retries.",
		Buckets:   prometheus.DefBuckets,
	})

	// OutboxPending tracks undispatched outbox events seen on the last poll.
	OutboxPending = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "shopdesk",
		Name:      "outbox_pending_events",
		Help:      "Outbox events awaiting dispatch at the last poll.",
	})

	// NotificationsDispatched counts outbox events turned into notifications.
	NotificationsDispatched = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "shopdesk",
		Name:      "notifications_dispatched_total",
		Help:      "Outbox events successfully dispatched.",
	})
)
