package pipeline

import (
	"bytes"
	"context"
	"time"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	dxfio "github.com/matzehuels/dxfsvg/pkg/io"
	"github.com/matzehuels/dxfsvg/pkg/observability"
)

// Parse decodes input into a document.
func Parse(ctx context.Context, input []byte, opts Options) (*dxf.Document, error) {
	format := dxfio.Format(opts.InputFormat)
	if format == "" {
		format = dxfio.SniffFormat(input)
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, string(format), len(input))
	start := time.Now()

	doc, err := dxfio.ReadDocument(bytes.NewReader(input), format,
		dxfio.WithCodepage(opts.Codepage),
		dxfio.WithMaxSize(opts.MaxInputBytes),
	)

	entities := 0
	if doc != nil {
		entities = len(doc.Entities)
	}
	hooks.OnParseComplete(ctx, string(format), entities, time.Since(start), err)
	return doc, err
}
