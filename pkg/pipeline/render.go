package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/dxf/codepage"
	"github.com/matzehuels/dxfsvg/pkg/fonts"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/observability"
	"github.com/matzehuels/dxfsvg/pkg/render"
	"github.com/matzehuels/dxfsvg/pkg/render/svg"
)

// Render produces every format in opts.Formats. The SVG is rendered at most
// once and shared by the pdf and png conversions.
func Render(ctx context.Context, doc *dxf.Document, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	var svgOut []byte

	vector := func() ([]byte, error) {
		if svgOut != nil {
			return svgOut, nil
		}
		out, err := svg.RenderSVG(doc, SVGOptions(doc, opts)...)
		if err != nil {
			return nil, err
		}
		svgOut = out
		return out, nil
	}

	for _, format := range opts.Formats {
		data, err := renderOne(ctx, format, doc, opts, vector)
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

func renderOne(ctx context.Context, format string, doc *dxf.Document, opts Options, vector func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, format)
	start := time.Now()

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatSVG:
		data, err = vector()
	case FormatPDF:
		if data, err = vector(); err == nil {
			data, err = render.ToPDF(ctx, data)
		}
	case FormatPNG:
		if data, err = vector(); err == nil {
			data, err = render.ToPNG(ctx, data, opts.PNGScale)
		}
	case FormatJSON:
		var buf bytes.Buffer
		err = dxfio.WriteJSON(doc, &buf)
		data = buf.Bytes()
	default:
		err = fmt.Errorf("unsupported format %q", format)
	}

	hooks.OnRenderComplete(ctx, format, len(data), time.Since(start), err)
	return data, err
}

// SVGOptions maps pipeline options onto engine options. Strings that are not
// valid UTF-8 are decoded with the override codepage, else the drawing's
// $DWGCODEPAGE.
func SVGOptions(doc *dxf.Document, opts Options) []svg.Option {
	cp := opts.Codepage
	if cp == "" {
		cp, _ = doc.HeaderValue("$DWGCODEPAGE", 3)
	}
	svgOpts := []svg.Option{
		svg.WithFontResolver(fonts.Resolver(opts.FontFamily)),
		svg.WithDecoder(codepage.Decoder(cp)),
	}
	if opts.MaxBlockDepth > 0 {
		svgOpts = append(svgOpts, svg.WithMaxBlockDepth(opts.MaxBlockDepth))
	}
	if opts.Logger != nil {
		svgOpts = append(svgOpts, svg.WithLogger(opts.Logger))
	}
	return svgOpts
}
