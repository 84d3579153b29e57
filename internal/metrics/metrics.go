// Package metrics provides Prometheus metrics for the estimator front ends.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/akbarifar/mro-estimator/internal/catalog"
	"github.com/akbarifar/mro-estimator/internal/pricing"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mro_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mro_http_request_duration_seconds",
			Help:    "Time taken to serve HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// Quote metrics
	QuotesBuiltTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mro_quotes_built_total",
			Help: "Total number of quotes computed",
		},
		[]string{"frontend"},
	)

	QuoteLineItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mro_quote_line_items",
			Help:    "Number of line items per computed quote",
			Buckets: []float64{1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"frontend"},
	)

	QuoteGrandTotalUSD = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mro_quote_grand_total_usd",
			Help:    "Grand total of computed quotes in USD",
			Buckets: []float64{100, 1000, 5000, 10000, 50000, 100000, 500000, 1000000},
		},
		[]string{"frontend"},
	)

	QuoteErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mro_quote_errors_total",
			Help: "Total number of rejected quote requests",
		},
		[]string{"frontend", "reason"},
	)

	// Export metrics
	DocumentExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mro_document_exports_total",
			Help: "Total number of exported quote documents",
		},
		[]string{"format"},
	)

	// Catalog metrics
	CatalogRows = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "mro_catalog_rows",
			Help: "Number of rows per loaded reference table",
		},
		[]string{"table"},
	)
)

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveQuote records a successfully computed quote.
func ObserveQuote(frontend string, q pricing.Quote) {
	QuotesBuiltTotal.WithLabelValues(frontend).Inc()
	QuoteLineItems.WithLabelValues(frontend).Observe(float64(len(q.LineItems)))
	QuoteGrandTotalUSD.WithLabelValues(frontend).Observe(q.GrandTotal.InexactFloat64())
}

// ObserveQuoteError records a rejected quote request, classified by cause.
func ObserveQuoteError(frontend string, err error) {
	QuoteErrorsTotal.WithLabelValues(frontend, ErrorReason(err)).Inc()
}

// ErrorReason maps an error to a low-cardinality label value.
func ErrorReason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, pricing.ErrNotFound):
		return "unknown_procedure"
	case errors.Is(err, pricing.ErrInvalidQuantity):
		return "invalid_quantity"
	case errors.Is(err, catalog.ErrNoResults):
		return "no_results"
	default:
		return "invalid_input"
	}
}

// ObserveExport records an exported document.
func ObserveExport(format string) {
	DocumentExportsTotal.WithLabelValues(format).Inc()
}

// ObserveCatalog publishes the size of each reference table.
func ObserveCatalog(tables catalog.Tables) {
	CatalogRows.WithLabelValues("engine_models").Set(float64(len(tables.EngineModels)))
	CatalogRows.WithLabelValues("assemblies").Set(float64(len(tables.Assemblies)))
	CatalogRows.WithLabelValues("parts").Set(float64(len(tables.Parts)))
	CatalogRows.WithLabelValues("procedures").Set(float64(len(tables.Procedures)))
	CatalogRows.WithLabelValues("cost_multipliers").Set(float64(len(tables.Multipliers)))
}
