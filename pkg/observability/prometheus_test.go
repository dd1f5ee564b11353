package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPrometheusHooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewPrometheusHooks(reg)
	ctx := context.Background()

	h.OnParseComplete(ctx, "dxf", 12, time.Millisecond, nil)
	h.OnParseComplete(ctx, "dxf", 0, time.Millisecond, errors.New("bad group code"))
	h.OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)
	h.OnCacheMiss(ctx, "artifact")
	h.OnCacheSet(ctx, "artifact", 2048)
	h.OnCacheHit(ctx, "artifact")
	h.OnRequest(ctx, "POST", "/v1/render")
	h.OnResponse(ctx, "POST", "/v1/render", 200, time.Millisecond)
	h.OnError(ctx, "POST", "/v1/render", errors.New("boom"))

	tests := []struct {
		name string
		c    prometheus.Collector
		want float64
	}{
		{"parse ok", h.parsesTotal.WithLabelValues("dxf", "ok"), 1},
		{"parse error", h.parsesTotal.WithLabelValues("dxf", "error"), 1},
		{"render ok", h.rendersTotal.WithLabelValues("svg", "ok"), 1},
		{"cache hit", h.cacheEvents.WithLabelValues("artifact", "hit"), 1},
		{"cache miss", h.cacheEvents.WithLabelValues("artifact", "miss"), 1},
		{"cache bytes", h.cacheBytes.WithLabelValues("artifact"), 2048},
		{"requests", h.requestsTotal.WithLabelValues("POST", "/v1/render", "200"), 1},
		{"in flight", h.requestsInFlight, 0},
		{"errors", h.requestErrors.WithLabelValues("POST", "/v1/render"), 1},
	}
	for _, tt := range tests {
		if got := testutil.ToFloat64(tt.c); got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestPrometheusHooksRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewPrometheusHooks(reg)

	defer func() {
		if recover() == nil {
			t.Error("registering twice on one registry should panic")
		}
	}()
	NewPrometheusHooks(reg)
}
