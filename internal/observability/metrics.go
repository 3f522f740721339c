package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce        sync.Once
	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	httpErrorsTotal     *prometheus.CounterVec
	interviewsStarted   prometheus.Counter
	interviewsConcluded *prometheus.CounterVec
	answersScoredTotal  prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "interview",
			Subsystem: "http",
			Name:      "latency_seconds",
			Help:      "Latency distribution for API requests.",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}, []string{"method", "route"})

		httpErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Subsystem: "http",
			Name:      "errors_total",
			Help:      "Total number of error responses.",
		}, []string{"method", "route", "status"})

		interviewsStarted = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "sessions_started_total",
			Help:      "Number of interview sessions started.",
		})

		interviewsConcluded = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "sessions_concluded_total",
			Help:      "Number of interview sessions concluded, by rating.",
		}, []string{"rating"})

		answersScoredTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "interview",
			Name:      "answers_scored_total",
			Help:      "Number of answers evaluated.",
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			httpErrorsTotal,
			interviewsStarted,
			interviewsConcluded,
			answersScoredTotal,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// HTTPErrors exposes the error counter.
func HTTPErrors() *prometheus.CounterVec {
	RegisterMetrics()
	return httpErrorsTotal
}

// InterviewsStarted exposes the session start counter.
func InterviewsStarted() prometheus.Counter {
	RegisterMetrics()
	return interviewsStarted
}

// InterviewsConcluded exposes the session conclusion counter.
func InterviewsConcluded() *prometheus.CounterVec {
	RegisterMetrics()
	return interviewsConcluded
}

// AnswersScored exposes the evaluated answer counter.
func AnswersScored() prometheus.Counter {
	RegisterMetrics()
	return answersScoredTotal
}
