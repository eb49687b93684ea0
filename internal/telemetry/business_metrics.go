package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// BusinessMetrics holds Prometheus metrics for business-level observability.
type BusinessMetrics struct {
	// Product engagement
	ProductViews       *prometheus.CounterVec
	ResolutionRequests *prometheus.CounterVec

	// Cart
	CartLinesAdded   prometheus.Counter
	CartLinesRemoved prometheus.Counter
	VariantChanges   prometheus.Counter
	SelectionToggles *prometheus.CounterVec

	// Vouchers
	VoucherChosen     *prometheus.CounterVec
	VoucherIneligible *prometheus.CounterVec

	// Checkout
	CheckoutTotals   prometheus.Counter
	PaymentAttempts  prometheus.Counter
	PaymentSucceeded prometheus.Counter
	PaymentFailed    prometheus.Counter
	OrderValue       prometheus.Histogram
	DiscountValue    prometheus.Histogram
}

// NewBusinessMetrics creates and registers all business metrics
func NewBusinessMetrics(namespace string) *BusinessMetrics {
	if namespace == "" {
		namespace = "embla"
	}

	subsystem := "business"

	return &BusinessMetrics{
		ProductViews: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "product_views_total",
				Help:      "Total product detail fetches",
			},
			[]string{"brand_id"},
		),
		ResolutionRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "resolution_requests_total",
				Help:      "Total classification resolution requests by resulting state",
			},
			[]string{"state"}, // incomplete, complete_unmatched, complete_matched
		),

		CartLinesAdded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_lines_added_total",
				Help:      "Total cart line additions",
			},
		),
		CartLinesRemoved: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "cart_lines_removed_total",
				Help:      "Total cart line removals",
			},
		),
		VariantChanges: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "variant_changes_total",
				Help:      "Total committed variant changes on cart lines",
			},
		),
		SelectionToggles: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "selection_toggles_total",
				Help:      "Total checkout selection toggles",
			},
			[]string{"scope"}, // line, brand
		),

		VoucherChosen: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "voucher_chosen_total",
				Help:      "Total voucher choices applied",
			},
			[]string{"scope"}, // brand, platform
		),
		VoucherIneligible: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "voucher_ineligible_total",
				Help:      "Total voucher evaluations rejected, by reason",
			},
			[]string{"reason"},
		),

		CheckoutTotals: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "checkout_totals_total",
				Help:      "Total order total calculations",
			},
		),
		PaymentAttempts: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_attempts_total",
				Help:      "Total payment intent creations attempted",
			},
		),
		PaymentSucceeded: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_succeeded_total",
				Help:      "Total payment intents created",
			},
		),
		PaymentFailed: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "payment_failed_total",
				Help:      "Total payment intent creation failures",
			},
		),
		OrderValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "order_value",
				Help:      "Order totals at checkout, in base currency units",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
		DiscountValue: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "discount_value",
				Help:      "Voucher discounts applied at checkout, in base currency units",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			},
		),
	}
}
