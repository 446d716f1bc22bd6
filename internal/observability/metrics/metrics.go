package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

type Outcome string

const (
	Success Outcome = "success"
	Error   Outcome = "error"
)

func (O Outcome) String() string {
	return string(O)
}

var (
	once                          sync.Once
	metricsRouter                 *chi.Mux
	httpRequestDurationHistogram  *prometheus.HistogramVec
	chainRequestDurationHistogram *prometheus.HistogramVec
	cycleDurationHistogram        *prometheus.HistogramVec
	batchPlannedItemsHistogram    prometheus.Histogram
	statusTransitionCounter       *prometheus.CounterVec
	eventPublishCounter           *prometheus.CounterVec
)

// Init initializes the metrics package.
func Init(metricsPort int) {
	once.Do(func() {
		initMetricsRouter(metricsPort)
		registerMetrics()
	})
}

// initMetricsRouter initializes the metrics router.
func initMetricsRouter(metricsPort int) {
	metricsRouter = chi.NewRouter()
	metricsRouter.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	go func() {
		metricsAddr := fmt.Sprintf(":%d", metricsPort)
		err := http.ListenAndServe(metricsAddr, metricsRouter)
		if err != nil {
			log.Fatal().Err(err).Msgf("error starting metrics server on %s", metricsAddr)
		}
	}()
}

// registerMetrics initializes and register the Prometheus metrics.
func registerMetrics() {
	defaultHistogramBucketsSeconds := []float64{0.1, 0.5, 1, 2.5, 5, 10, 30}

	httpRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of http request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"endpoint", "status"},
	)

	chainRequestDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "chain_request_duration_seconds",
			Help:    "Histogram of program gateway request durations in seconds.",
			Buckets: defaultHistogramBucketsSeconds,
		},
		[]string{"method", "outcome"},
	)

	cycleDurationHistogram = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "withdraw_cycle_duration_seconds",
			Help:    "Histogram of withdraw reconciliation cycle durations in seconds.",
			Buckets: []float64{0.5, 1, 5, 15, 30, 60, 120},
		},
		[]string{"outcome"},
	)

	batchPlannedItemsHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "withdraw_batch_planned_items",
			Help:    "Histogram of queue items admitted per planned batch.",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	statusTransitionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdraw_status_transitions_total",
			Help: "Count of withdraw request status transitions by target status.",
		},
		[]string{"status"},
	)

	eventPublishCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "withdraw_settlement_events_published_total",
			Help: "Count of settlement events published to the queue by outcome.",
		},
		[]string{"outcome"},
	)

	prometheus.MustRegister(
		httpRequestDurationHistogram,
		chainRequestDurationHistogram,
		cycleDurationHistogram,
		batchPlannedItemsHistogram,
		statusTransitionCounter,
		eventPublishCounter,
	)
}

// StartHttpRequestDurationTimer starts a timer to measure http request handling duration.
func StartHttpRequestDurationTimer(endpoint string) func(statusCode int) {
	startTime := time.Now()
	return func(statusCode int) {
		duration := time.Since(startTime).Seconds()
		httpRequestDurationHistogram.WithLabelValues(endpoint, fmt.Sprintf("%d", statusCode)).Observe(duration)
	}
}

// StartChainRequestDurationTimer starts a timer to measure one program
// gateway round trip.
func StartChainRequestDurationTimer(method string) func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		if chainRequestDurationHistogram == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		chainRequestDurationHistogram.WithLabelValues(method, outcome.String()).Observe(duration)
	}
}

// StartCycleDurationTimer starts a timer to measure one reconciliation cycle.
func StartCycleDurationTimer() func(outcome Outcome) {
	startTime := time.Now()
	return func(outcome Outcome) {
		if cycleDurationHistogram == nil {
			return
		}
		duration := time.Since(startTime).Seconds()
		cycleDurationHistogram.WithLabelValues(outcome.String()).Observe(duration)
	}
}

func RecordBatchPlannedItems(count int) {
	if batchPlannedItemsHistogram == nil {
		return
	}
	batchPlannedItemsHistogram.Observe(float64(count))
}

func RecordStatusTransition(status string) {
	if statusTransitionCounter == nil {
		return
	}
	statusTransitionCounter.WithLabelValues(status).Inc()
}

func RecordEventPublish(outcome Outcome) {
	if eventPublishCounter == nil {
		return
	}
	eventPublishCounter.WithLabelValues(outcome.String()).Inc()
}
