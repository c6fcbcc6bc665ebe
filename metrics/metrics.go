package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry = prometheus.NewRegistry()

	renders = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicepro_renders_total",
		Help: "Rendered documents by kind.",
	}, []string{"kind"})
	renderDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicepro_render_duration_seconds",
		Help:    "Time spent laying out and writing one PDF.",
		Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1},
	}, []string{"kind"})
	assetFallbacks = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicepro_asset_fallbacks_total",
		Help: "Logo or QR code replaced by a placeholder.",
	}, []string{"asset"})
	exports = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicepro_exports_total",
		Help: "Download and share attempts by kind and outcome.",
	}, []string{"kind", "action", "outcome"})
	numberingFallbacks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "invoicepro_numbering_fallbacks_total",
		Help: "Number refreshes that fell back to 1 because the drive listing failed.",
	})
	requests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "invoicepro_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	requestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "invoicepro_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
)

func init() {
	registry.MustRegister(renders, renderDuration, assetFallbacks, exports, numberingFallbacks, requests, requestDuration)
}

func ObserveRender(kind string, d time.Duration) {
	renders.WithLabelValues(kind).Inc()
	renderDuration.WithLabelValues(kind).Observe(d.Seconds())
}

func AssetFallback(asset string) {
	assetFallbacks.WithLabelValues(asset).Inc()
}

// Export records one download or share attempt. outcome is success, invalid,
// cancelled or failed.
func Export(kind, action, outcome string) {
	exports.WithLabelValues(kind, action, outcome).Inc()
}

func NumberingFallback() {
	numberingFallbacks.Inc()
}

// Handler serves the registry for scraping.
func Handler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&rec, r)
		route := routePattern(r)
		requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if pattern := rc.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
