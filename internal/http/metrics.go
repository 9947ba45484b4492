package httpx

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var histogramBuckets = []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10}

func (r *Router) initMetrics() {
	r.metricsOnce.Do(func() {
		r.requestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slipway",
			Subsystem: "api",
			Name:      "http_requests_total",
			Help:      "Count of processed HTTP requests",
		}, []string{"method", "route", "status"})

		r.requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "slipway",
			Subsystem: "api",
			Name:      "http_request_duration_seconds",
			Help:      "Latency distribution of HTTP handlers",
			Buckets:   histogramBuckets,
		}, []string{"method", "route", "status"})

		r.rateLimitHits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slipway",
			Subsystem: "api",
			Name:      "rate_limit_hits_total",
			Help:      "Number of rate-limited responses",
		}, []string{"route"})

		r.deployOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "slipway",
			Subsystem: "api",
			Name:      "deploy_outcomes_total",
			Help:      "Number of deployment creation outcomes",
		}, []string{"outcome"})

		collectors := []prometheus.Collector{r.requestTotal, r.requestLatency, r.rateLimitHits, r.deployOutcomes}
		for _, collector := range collectors {
			if err := prometheus.Register(collector); err != nil {
				if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
					switch existing := already.ExistingCollector.(type) {
					case *prometheus.CounterVec:
						switch collector {
						case r.requestTotal:
							r.requestTotal = existing
						case r.rateLimitHits:
							r.rateLimitHits = existing
						case r.deployOutcomes:
							r.deployOutcomes = existing
						}
					case *prometheus.HistogramVec:
						r.requestLatency = existing
					}
				}
			}
		}
	})
}

func (r *Router) recordRequest(method, route string, status int, duration time.Duration) {
	if r.requestTotal == nil || r.requestLatency == nil {
		return
	}
	code := strconv.Itoa(status)
	r.requestTotal.WithLabelValues(method, route, code).Inc()
	r.requestLatency.WithLabelValues(method, route, code).Observe(duration.Seconds())
}

func (r *Router) recordRateLimitHit(route string) {
	if r.rateLimitHits == nil {
		return
	}
	if route == "" {
		route = "unknown"
	}
	r.rateLimitHits.WithLabelValues(route).Inc()
}

func (r *Router) recordDeployOutcome(outcome string) {
	if r.deployOutcomes == nil {
		return
	}
	r.deployOutcomes.WithLabelValues(outcome).Inc()
}
