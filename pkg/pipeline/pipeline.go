// Package pipeline runs the parse → render pipeline shared by the CLI and
// the HTTP service.
//
// Centralising the stages here keeps both entry points consistent: the same
// defaults, the same cache keys and the same observability events.
//
// # Stages
//
//  1. Parse: decode the input bytes (DXF, JSON or msgpack) into a document
//  2. Render: produce each requested artifact (svg, pdf, png, json)
//
// # Usage
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	result, err := runner.Execute(ctx, input, pipeline.Options{
//	    Formats: []string{"svg", "png"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dxfsvg/pkg/cache"
	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/render"
	"github.com/matzehuels/dxfsvg/pkg/render/svg"
)

const (
	// DefaultMaxBlockDepth bounds nested INSERT expansion.
	DefaultMaxBlockDepth = svg.DefaultMaxBlockDepth

	// DefaultPNGScale is the PNG zoom factor.
	DefaultPNGScale = render.DefaultPNGScale

	// DefaultMaxInputBytes caps the size of an input document.
	DefaultMaxInputBytes = 64 << 20

	// TTLDocument is how long a parsed document stays cached.
	TTLDocument = 24 * time.Hour

	// TTLArtifact is how long a rendered artifact stays cached.
	TTLArtifact = 7 * 24 * time.Hour
)

// Output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// Options configures one pipeline run. It supports JSON serialization for
// API requests.
type Options struct {
	// Parse options
	InputFormat   string `json:"input_format,omitempty"` // dxf, json, msgpack; empty sniffs
	Codepage      string `json:"codepage,omitempty"`     // overrides $DWGCODEPAGE
	MaxInputBytes int64  `json:"max_input_bytes,omitempty"`

	// Render options
	Formats       []string `json:"formats,omitempty"`
	FontFamily    string   `json:"font_family,omitempty"` // replaces every drawing font
	MaxBlockDepth int      `json:"max_block_depth,omitempty"`
	PNGScale      float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the parsed drawing.
	Document *dxf.Document

	// InputHash is the content hash of the input bytes.
	InputHash string

	// Artifacts holds rendered outputs keyed by format.
	Artifacts map[string][]byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	InputBytes  int
	EntityCount int
	BlockCount  int
	ParseTime   time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ParseHit  bool // parsed document came from cache
	RenderHit bool // every artifact came from cache
}

// ValidateAndSetDefaults checks every option and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.InputFormat != "" {
		f, err := dxfio.ParseFormat(o.InputFormat)
		if err != nil {
			return err
		}
		o.InputFormat = string(f)
	}
	if err := errors.ValidateCodepage(o.Codepage); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	formats := make([]string, len(o.Formats))
	for i, f := range o.Formats {
		formats[i] = strings.ToLower(strings.TrimSpace(f))
	}
	o.Formats = formats
	if err := errors.ValidateFormats(o.Formats); err != nil {
		return err
	}

	if o.MaxBlockDepth < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "max block depth must not be negative")
	}
	if o.MaxBlockDepth == 0 {
		o.MaxBlockDepth = DefaultMaxBlockDepth
	}
	if o.PNGScale < 0 || o.PNGScale > 16 {
		return errors.New(errors.ErrCodeInvalidInput, "png scale %g out of range (0, 16]", o.PNGScale)
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.MaxInputBytes == 0 {
		o.MaxInputBytes = DefaultMaxInputBytes
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DocumentKeyOpts returns cache key options for the parsed document.
func (o *Options) DocumentKeyOpts() cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Format:   o.InputFormat,
		Codepage: o.Codepage,
	}
}

// ArtifactKeyOpts returns cache key options for one artifact. Options that
// do not affect format are left out so they do not split the cache.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{
		Format:   format,
		Codepage: o.Codepage,
	}
	if format != FormatJSON {
		k.FontFamily = o.FontFamily
		k.MaxBlockDepth = o.MaxBlockDepth
	}
	if format == FormatPNG {
		k.PNGScale = o.PNGScale
	}
	return k
}
