package metrics

// prometheus.go: métricas del bot en un registry propio (sin métricas de Go por defecto).

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "bingobot"

// Recorder implementa ports.Metrics sobre Prometheus.
type Recorder struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	itemsPriced     prometheus.Gauge
	itemsTracked    prometheus.Gauge
	lastRefresh     prometheus.Gauge
	sessions        prometheus.Gauge
}

// NewRecorder crea un Recorder con su propio registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	auto := promauto.With(reg)

	return &Recorder{
		registry: reg,
		requests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "coflnet",
			Name:      "requests_total",
			Help:      "Auction API calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		requestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "coflnet",
			Name:      "request_duration_seconds",
			Help:      "Auction API call latency, retries included",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}, []string{"endpoint"}),
		refreshes: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "cycles_total",
			Help:      "Price refresh cycles by result",
		}, []string{"result"}),
		refreshDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "duration_seconds",
			Help:      "Full fetch + evaluate cycle duration",
			Buckets:   prometheus.DefBuckets,
		}),
		itemsPriced: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_priced",
			Help:      "Tracked items with market data in the last cycle",
		}),
		itemsTracked: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "items_tracked",
			Help:      "Items queried in the last cycle",
		}),
		lastRefresh: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "refresh",
			Name:      "last_success_unixtime",
			Help:      "Unix time of the last successful refresh",
		}),
		sessions: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sort_sessions",
			Help:      "Live re-sort sessions",
		}),
	}
}

// ObserveRequest implementa ports.Metrics.
func (r *Recorder) ObserveRequest(endpoint, outcome string, d time.Duration) {
	r.requests.WithLabelValues(endpoint, outcome).Inc()
	r.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveRefresh implementa ports.Metrics.
func (r *Recorder) ObserveRefresh(priced, tracked int, d time.Duration, err error) {
	r.refreshDuration.Observe(d.Seconds())
	r.itemsPriced.Set(float64(priced))
	r.itemsTracked.Set(float64(tracked))
	if err != nil {
		r.refreshes.WithLabelValues("error").Inc()
		return
	}
	r.refreshes.WithLabelValues("ok").Inc()
	r.lastRefresh.Set(float64(time.Now().Unix()))
}

// SetSessions implementa ports.Metrics.
func (r *Recorder) SetSessions(n int) {
	r.sessions.Set(float64(n))
}

// Handler devuelve el handler HTTP de /metrics para este registry.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
