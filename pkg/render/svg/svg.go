package svg

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/fonts"
	"github.com/matzehuels/dxfsvg/pkg/palette"
)

// DefaultMaxBlockDepth bounds nested INSERT expansion.
const DefaultMaxBlockDepth = 64

// Option configures a single RenderSVG call.
type Option func(*config)

type config struct {
	logger            *log.Logger
	resolveFont       func(string) string
	decoder           func(string) string
	resolveColorIndex func(int) string
	maxBlockDepth     int
}

// WithLogger sets the logger that receives per-entity diagnostics.
// By default diagnostics are discarded.
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithFontResolver overrides how drawing font names become font-family
// values. The default is [fonts.Resolve].
func WithFontResolver(fn func(family string) string) Option {
	return func(c *config) { c.resolveFont = fn }
}

// WithDecoder sets the decoder applied to text content of legacy drawings.
func WithDecoder(fn func(string) string) Option {
	return func(c *config) { c.decoder = fn }
}

// WithColorIndexResolver overrides the color index to paint mapping. The
// default is [palette.Paint].
func WithColorIndexResolver(fn func(index int) string) Option {
	return func(c *config) { c.resolveColorIndex = fn }
}

// WithMaxBlockDepth bounds nested block expansion. Values below 1 keep the
// default.
func WithMaxBlockDepth(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxBlockDepth = n
		}
	}
}

type renderer struct {
	config
	doc    *dxf.Document
	styles *StyleIndex

	// blocks holds the names of blocks currently being expanded.
	blocks []string
	err    error
}

func newRenderer(doc *dxf.Document, opts ...Option) *renderer {
	c := config{
		logger:            log.New(io.Discard),
		resolveFont:       fonts.Resolve,
		resolveColorIndex: palette.Paint,
		maxBlockDepth:     DefaultMaxBlockDepth,
	}
	for _, opt := range opts {
		opt(&c)
	}
	return &renderer{
		config: c,
		doc:    doc,
		styles: NewStyleIndex(doc, c.resolveColorIndex),
	}
}

// RenderSVG converts a drawing into a standalone SVG document.
//
// Entities that are malformed or of an unsupported type are skipped with a
// diagnostic. The only error is a block reference chain that is cyclic or
// deeper than the configured limit. A nil document renders as an empty
// image.
func RenderSVG(doc *dxf.Document, opts ...Option) ([]byte, error) {
	r := newRenderer(doc, opts...)

	var entities []dxf.Record
	if doc != nil {
		entities = doc.Entities
	}

	var buf bytes.Buffer
	buf.WriteString(`<svg xmlns="http://www.w3.org/2000/svg"`)
	if vb, ok := ComputeBounds(entities).ViewBox(); ok {
		fmt.Fprintf(&buf, ` viewBox="%s"`, vb)
	}
	buf.WriteString(` stroke="currentColor" fill="none">`)
	buf.WriteString(r.styles.CSS())
	buf.WriteString(r.renderEntities(entities))
	buf.WriteString("</svg>")

	if r.err != nil {
		return nil, r.err
	}
	return buf.Bytes(), nil
}

// fail records the first fatal error of the render.
func (r *renderer) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

// renderEntities renders a list of entities in order. VERTEX records that
// follow an entity are collected and passed to its renderer.
func (r *renderer) renderEntities(entities []dxf.Record) string {
	var buf bytes.Buffer
	for i := 0; i < len(entities) && r.err == nil; i++ {
		e := entities[i]
		if e.Type() == "" {
			continue
		}
		var vertices []dxf.Record
		for i+1 < len(entities) && entities[i+1].Type() == "VERTEX" {
			i++
			vertices = append(vertices, entities[i])
		}
		buf.WriteString(r.renderEntity(e, vertices))
	}
	return buf.String()
}

// ignored entity types carry no geometry of their own.
var ignored = map[string]bool{
	"SEQEND":   true,
	"VIEWPORT": true,
	"ATTDEF":   true,
}

func (r *renderer) renderEntity(e dxf.Record, vertices []dxf.Record) string {
	typ := e.Type()
	fn, ok := entityRenderers[typ]
	if !ok {
		if !ignored[typ] {
			r.logger.Debug("unsupported entity", "entity", typ, "handle", e.Get(5))
		}
		return ""
	}
	s := fn(r, e, vertices)
	if s == "" || typ == "LEADER" {
		return s
	}
	if z, ok := num(e, 230); ok && z < 0 {
		return `<g transform="scale(-1,1)">` + s + `</g>`
	}
	return s
}

// attrs returns the attributes shared by every entity element: source layer
// and handle, color override, and for stroked shapes the linetype.
func (r *renderer) attrs(e dxf.Record, stroked bool) string {
	var b bytes.Buffer
	if layer, ok := e.Value(8); ok {
		fmt.Fprintf(&b, ` data-8="%s"`, escapeXML(layer))
	}
	if handle, ok := e.Value(5); ok {
		fmt.Fprintf(&b, ` data-5="%s"`, escapeXML(handle))
	}
	b.WriteString(r.colorStyle(e))
	if stroked {
		b.WriteString(` vector-effect="non-scaling-stroke"`)
		if d := r.dashArray(e); d != "" {
			fmt.Fprintf(&b, ` stroke-dasharray="%s"`, d)
		}
	}
	return b.String()
}

// dashArray resolves the entity's linetype, following BYLAYER to the layer.
func (r *renderer) dashArray(e dxf.Record) string {
	lt := trim(e.Get(6))
	switch {
	case lt == "" || strings.EqualFold(lt, "BYLAYER"):
		l, ok := r.styles.Layer(e.Get(8))
		if !ok {
			return ""
		}
		lt = l.Linetype
	case strings.EqualFold(lt, "BYBLOCK"):
		return ""
	}
	return r.styles.DashArray(lt)
}
