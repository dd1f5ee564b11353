package observability

import (
	"context"
	"reflect"
	"testing"
	"time"
)

// recorder implements every hook interface and records event names.
type recorder struct {
	NoopPipelineHooks
	NoopHTTPHooks
	events []string
}

func (r *recorder) OnParseStart(_ context.Context, format string, _ int) {
	r.events = append(r.events, "parse:"+format)
}

func (r *recorder) OnRenderStart(_ context.Context, format string) {
	r.events = append(r.events, "render:"+format)
}

func (r *recorder) OnCacheHit(_ context.Context, kind string)        { r.events = append(r.events, "hit:"+kind) }
func (r *recorder) OnCacheMiss(_ context.Context, kind string)       { r.events = append(r.events, "miss:"+kind) }
func (r *recorder) OnCacheSet(_ context.Context, kind string, _ int) { r.events = append(r.events, "set:"+kind) }
func (r *recorder) OnRequest(_ context.Context, method, path string) { r.events = append(r.events, method+" "+path) }

func TestInstalledHooksReceiveEvents(t *testing.T) {
	t.Cleanup(Reset)
	ctx := context.Background()

	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)

	HTTP().OnRequest(ctx, "POST", "/v1/render")
	Cache().OnCacheMiss(ctx, "artifact")
	Pipeline().OnParseStart(ctx, "dxf", 512)
	Pipeline().OnRenderStart(ctx, "svg")
	Cache().OnCacheSet(ctx, "artifact", 2048)
	Pipeline().OnRenderComplete(ctx, "svg", 2048, time.Millisecond, nil)

	want := []string{"POST /v1/render", "miss:artifact", "parse:dxf", "render:svg", "set:artifact"}
	if !reflect.DeepEqual(rec.events, want) {
		t.Errorf("events = %v, want %v", rec.events, want)
	}
}

func TestSetNilKeepsCurrentHooks(t *testing.T) {
	t.Cleanup(Reset)

	rec := &recorder{}
	SetCacheHooks(rec)
	SetCacheHooks(nil)
	if Cache() != CacheHooks(rec) {
		t.Errorf("Cache() = %T after SetCacheHooks(nil), want *recorder", Cache())
	}
}

func TestResetRestoresNoop(t *testing.T) {
	rec := &recorder{}
	SetPipelineHooks(rec)
	SetCacheHooks(rec)
	SetHTTPHooks(rec)
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Errorf("Pipeline() = %T, want NoopPipelineHooks", Pipeline())
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Errorf("Cache() = %T, want NoopCacheHooks", Cache())
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Errorf("HTTP() = %T, want NoopHTTPHooks", HTTP())
	}

	ctx := context.Background()
	HTTP().OnError(ctx, "GET", "/healthz", nil)
	Pipeline().OnParseComplete(ctx, "dxf", 0, 0, nil)
	if len(rec.events) != 0 {
		t.Errorf("reset hooks still reached recorder: %v", rec.events)
	}
}
