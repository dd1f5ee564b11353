package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dxfsvg/pkg/cache"
	"github.com/matzehuels/dxfsvg/pkg/dxf"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/observability"
)

// Cache key types reported to observability hooks.
const (
	keyTypeDocument = "document"
	keyTypeArtifact = "artifact"
)

// Runner executes the pipeline with caching.
//
// The Runner holds no per-run state, so multiple goroutines can share one
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// ArtifactTTL overrides [TTLArtifact] when positive.
	ArtifactTTL time.Duration
}

// NewRunner creates a runner. A nil keyer uses [cache.DefaultKeyer]; a nil
// cache disables caching.
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs parse → render for input.
func (r *Runner) Execute(ctx context.Context, input []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{InputHash: cache.Hash(input)}
	result.Stats.InputBytes = len(input)

	parseStart := time.Now()
	doc, parseHit, err := r.ParseWithCacheInfo(ctx, input, result.InputHash, opts)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	result.Document = doc
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.EntityCount = len(doc.Entities)
	result.Stats.BlockCount = len(doc.Blocks)
	result.CacheInfo.ParseHit = parseHit

	r.Logger.Debug("parsed document",
		"entities", result.Stats.EntityCount,
		"blocks", result.Stats.BlockCount,
		"cached", parseHit,
		"duration", result.Stats.ParseTime)

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, doc, result.InputHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Debug("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ParseWithCacheInfo parses input, reusing a cached document when one
// exists. Documents are cached as msgpack.
func (r *Runner) ParseWithCacheInfo(ctx context.Context, input []byte, inputHash string, opts Options) (*dxf.Document, bool, error) {
	key := r.Keyer.DocumentKey(inputHash, opts.DocumentKeyOpts())

	if doc, ok := r.lookup(ctx, key, keyTypeDocument, opts.Refresh); ok {
		if cached, err := dxfio.ReadMsgpack(bytes.NewReader(doc)); err == nil {
			return cached, true, nil
		}
	}

	doc, err := Parse(ctx, input, opts)
	if err != nil {
		return nil, false, err
	}

	var buf bytes.Buffer
	if err := dxfio.WriteMsgpack(doc, &buf); err == nil {
		r.store(ctx, key, keyTypeDocument, buf.Bytes(), TTLDocument)
	}
	return doc, false, nil
}

// RenderWithCacheInfo renders every requested format. Cached artifacts are
// used only when all formats hit; otherwise everything is rendered fresh.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *dxf.Document, inputHash string, opts Options) (map[string][]byte, bool, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		data, ok := r.lookup(ctx, key, keyTypeArtifact, opts.Refresh)
		if !ok {
			break
		}
		artifacts[format] = data
	}
	if len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, doc, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(inputHash, opts.ArtifactKeyOpts(format))
		r.store(ctx, key, keyTypeArtifact, data, r.artifactTTL())
	}
	return rendered, false, nil
}

// lookup reads key from the cache. Backend errors are logged and treated as
// misses.
func (r *Runner) lookup(ctx context.Context, key, keyType string, refresh bool) ([]byte, bool) {
	if refresh {
		return nil, false
	}
	hooks := observability.Cache()
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key_type", keyType, "err", err)
	}
	if err != nil || !hit {
		hooks.OnCacheMiss(ctx, keyType)
		return nil, false
	}
	hooks.OnCacheHit(ctx, keyType)
	return data, true
}

// store writes key, retrying transient backend failures. A failed write is
// logged; the pipeline result is still returned.
func (r *Runner) store(ctx context.Context, key, keyType string, data []byte, ttl time.Duration) {
	err := cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "key_type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) artifactTTL() time.Duration {
	if r.ArtifactTTL > 0 {
		return r.ArtifactTTL
	}
	return TTLArtifact
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
