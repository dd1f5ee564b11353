package observability

import (
	"context"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records every hook event as Prometheus metrics.
type PrometheusHooks struct {
	parsesTotal   *prometheus.CounterVec
	parseDuration *prometheus.HistogramVec
	entities      prometheus.Histogram

	rendersTotal   *prometheus.CounterVec
	renderDuration *prometheus.HistogramVec
	renderBytes    *prometheus.HistogramVec

	cacheEvents *prometheus.CounterVec
	cacheBytes  *prometheus.CounterVec

	requestsInFlight prometheus.Gauge
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestErrors    *prometheus.CounterVec
}

// NewPrometheusHooks registers the dxfsvg metrics with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		parsesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_parses_total",
			Help: "Documents parsed, by input format and status",
		}, []string{"format", "status"}),
		parseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dxfsvg_parse_duration_seconds",
			Help:    "Time taken to parse a document",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		entities: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "dxfsvg_document_entities",
			Help:    "Top-level entity count of parsed documents",
			Buckets: prometheus.ExponentialBuckets(10, 4, 8),
		}),
		rendersTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_renders_total",
			Help: "Artifacts rendered, by output format and status",
		}, []string{"format", "status"}),
		renderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dxfsvg_render_duration_seconds",
			Help:    "Time taken to render one artifact",
			Buckets: prometheus.DefBuckets,
		}, []string{"format"}),
		renderBytes: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dxfsvg_render_bytes",
			Help:    "Size of rendered artifacts",
			Buckets: prometheus.ExponentialBuckets(1024, 4, 8),
		}, []string{"format"}),
		cacheEvents: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_cache_events_total",
			Help: "Cache lookups and writes, by key type and event",
		}, []string{"key_type", "event"}),
		cacheBytes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_cache_written_bytes_total",
			Help: "Bytes written to the cache",
		}, []string{"key_type"}),
		requestsInFlight: f.NewGauge(prometheus.GaugeOpts{
			Name: "dxfsvg_http_requests_in_flight",
			Help: "HTTP requests currently being served",
		}),
		requestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_http_requests_total",
			Help: "HTTP requests served, by route and status code",
		}, []string{"method", "route", "code"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dxfsvg_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		requestErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "dxfsvg_http_request_errors_total",
			Help: "HTTP requests that failed with an error",
		}, []string{"method", "route"}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// OnParseStart does nothing; parse metrics are recorded on completion.
func (h *PrometheusHooks) OnParseStart(context.Context, string, int) {}

// OnParseComplete records a parse.
func (h *PrometheusHooks) OnParseComplete(_ context.Context, format string, entityCount int, d time.Duration, err error) {
	h.parsesTotal.WithLabelValues(format, status(err)).Inc()
	h.parseDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		h.entities.Observe(float64(entityCount))
	}
}

// OnRenderStart does nothing; render metrics are recorded on completion.
func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

// OnRenderComplete records one rendered artifact.
func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.rendersTotal.WithLabelValues(format, status(err)).Inc()
	h.renderDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		h.renderBytes.WithLabelValues(format).Observe(float64(size))
	}
}

// OnCacheHit records a cache hit.
func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "hit").Inc()
}

// OnCacheMiss records a cache miss.
func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheEvents.WithLabelValues(keyType, "miss").Inc()
}

// OnCacheSet records a cache write.
func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.cacheEvents.WithLabelValues(keyType, "set").Inc()
	h.cacheBytes.WithLabelValues(keyType).Add(float64(size))
}

// OnRequest records the start of a request.
func (h *PrometheusHooks) OnRequest(context.Context, string, string) {
	h.requestsInFlight.Inc()
}

// OnResponse records a finished request.
func (h *PrometheusHooks) OnResponse(_ context.Context, method, route string, code int, d time.Duration) {
	h.requestsInFlight.Dec()
	h.requestsTotal.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
	h.requestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// OnError records a request that failed with an error.
func (h *PrometheusHooks) OnError(_ context.Context, method, route string, _ error) {
	h.requestErrors.WithLabelValues(method, route).Inc()
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
	_ HTTPHooks     = (*PrometheusHooks)(nil)
)
