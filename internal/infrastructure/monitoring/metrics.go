package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type HTTPMetrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type BusinessMetrics struct {
	DecisionsTotal      *prometheus.CounterVec
	CreditScore         prometheus.Histogram
	CustomersRegistered prometheus.Counter
	ThresholdDecisions  *prometheus.CounterVec
	ImportedRowsTotal   *prometheus.CounterVec
}

var (
	HTTP = HTTPMetrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_eligibility_http_requests_total",
				Help: "Total number of HTTP requests received.",
			},
			[]string{"method", "path", "code"},
		),
		RequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_eligibility_http_request_duration_seconds",
				Help:    "Histogram of HTTP request latencies.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "code"},
		),
	}

	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "loan_eligibility_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Business = BusinessMetrics{
		DecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_eligibility_decisions_total",
				Help: "Eligibility decisions by entry point, outcome and rate tier.",
			},
			[]string{"entrypoint", "outcome", "tier"},
		),
		CreditScore: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "loan_eligibility_credit_score",
				Help:    "Distribution of computed credit scores.",
				Buckets: prometheus.LinearBuckets(0, 10, 11),
			},
		),
		CustomersRegistered: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "loan_eligibility_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
		ThresholdDecisions: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_eligibility_threshold_decisions_total",
				Help: "Loan records decided by the fixed amount threshold, by status.",
			},
			[]string{"status"},
		),
		ImportedRowsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "loan_eligibility_imported_rows_total",
				Help: "Spreadsheet rows processed by the importer.",
			},
			[]string{"sheet", "result"},
		),
	}
)

func RecordHTTPRequest(method, path, code string, duration time.Duration) {
	HTTP.RequestsTotal.WithLabelValues(method, path, code).Inc()
	HTTP.RequestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
}

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

func RecordDecision(entrypoint string, approved bool, tier string, score int) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	Business.DecisionsTotal.WithLabelValues(entrypoint, outcome, tier).Inc()
	Business.CreditScore.Observe(float64(score))
}

func RecordCustomerRegistered() {
	Business.CustomersRegistered.Inc()
}

func RecordThresholdDecision(status string) {
	Business.ThresholdDecisions.WithLabelValues(status).Inc()
}

func RecordImportedRow(sheet, result string) {
	Business.ImportedRowsTotal.WithLabelValues(sheet, result).Inc()
}
