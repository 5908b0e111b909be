package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce          sync.Once
	httpRequestsTotal     *prometheus.CounterVec
	httpLatencySeconds    *prometheus.HistogramVec
	httpErrorsTotal       *prometheus.CounterVec
	decisionsTotal        *prometheus.CounterVec
	feePaymentsTotal      *prometheus.CounterVec
	lettersGeneratedTotal prometheus.Counter
	emailsTotal           *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the
// admissions API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "admissions_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_http_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		decisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_decisions_total",
			Help: "Admission decisions recorded, labelled by outcome.",
		}, []string{"outcome"})

		feePaymentsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_fee_payments_total",
			Help: "Fee payment recording attempts, labelled by result.",
		}, []string{"result"})

		lettersGeneratedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "admissions_letters_generated_total",
			Help: "Admission letters rendered successfully.",
		})

		emailsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "admissions_emails_total",
			Help: "Outbound notification attempts, labelled by kind and result.",
		}, []string{"kind", "result"})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			decisionsTotal,
			feePaymentsTotal,
			lettersGeneratedTotal,
			emailsTotal,
		)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the counter for API error responses.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// Decisions exposes the admission decision counter.
func Decisions() *prometheus.CounterVec {
	RegisterMetrics()
	return decisionsTotal
}

// FeePayments exposes the fee payment counter.
func FeePayments() *prometheus.CounterVec {
	RegisterMetrics()
	return feePaymentsTotal
}

// LettersGenerated exposes the letter counter.
func LettersGenerated() prometheus.Counter {
	RegisterMetrics()
	return lettersGeneratedTotal
}

// Emails exposes the outbound email counter.
func Emails() *prometheus.CounterVec {
	RegisterMetrics()
	return emailsTotal
}
