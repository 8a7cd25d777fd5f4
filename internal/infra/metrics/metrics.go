// Package metrics держит Prometheus-метрики приложения. Все метрики
// регистрируются в DefaultRegisterer и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LedgerReplacements считает замены набора ингредиентов рецепта по результату (ok|invalid|error).
	LedgerReplacements = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_ledger_replacements_total",
			Help: "Recipe ingredient set replacements by result",
		},
		[]string{"result"},
	)

	// LedgerValidationErrors считает отказы валидации по коду ошибки.
	LedgerValidationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_ledger_validation_errors_total",
			Help: "Rejected recipe ingredient sets by validation code",
		},
		[]string{"code"},
	)

	ShoppingReports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_shopping_reports_total",
			Help: "Rendered shopping lists by format",
		},
		[]string{"format"},
	)

	ShoppingReportDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "foodgram_shopping_report_duration_seconds",
			Help:    "Time spent building a shopping list report",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "foodgram_http_requests_total",
			Help: "HTTP requests by method, route pattern and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "foodgram_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
