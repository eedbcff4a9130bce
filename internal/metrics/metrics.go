// Package metrics holds the Prometheus instrumentation for the shop.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OrdersPlaced counts successfully recorded orders.
	OrdersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_orders_placed_total",
		Help: "Number of orders successfully placed.",
	})

	// InvoiceArtifactFailures counts invoice copies that could not be
	// written durably. The request itself still succeeds; this counter
	// is how those losses surface.
	InvoiceArtifactFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shop_invoice_artifact_failures_total",
		Help: "Number of invoice artifact writes that failed.",
	})
)
