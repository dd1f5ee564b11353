// Package pkg provides the core libraries for dxfsvg.
//
// # Overview
//
// dxfsvg converts ASCII DXF drawings into standalone SVG documents. The pkg
// directory is organized into three areas:
//
//  1. Domain - the drawing model and the rendering engine
//  2. Infrastructure - document encodings, caching, observability
//  3. Orchestration - the [pipeline] shared by the CLI and the HTTP service
//
// # Architecture
//
// The typical data flow:
//
//	DXF / JSON / MessagePack bytes
//	         ↓
//	    [io] package (tokenize, decode legacy codepages, build sections)
//	         ↓
//	    [dxf] package (Document: header, tables, blocks, entities)
//	         ↓
//	    [render/svg] package (entities → SVG elements, viewBox)
//	         ↓
//	    [render] package (optional PDF/PNG conversion)
//
// # Quick Start
//
//	import (
//	    "os"
//	    dxfio "github.com/matzehuels/dxfsvg/pkg/io"
//	    "github.com/matzehuels/dxfsvg/pkg/render/svg"
//	)
//
//	doc, _ := dxfio.ImportDocument("plan.dxf")
//	out, _ := svg.RenderSVG(doc)
//	os.WriteFile("plan.svg", out, 0o644)
//
// # Main Packages
//
// ## Domain
//
// [dxf] - Group-code pairs, records and the sectioned Document.
// [dxf/codepage] maps $DWGCODEPAGE names to decoders; [dxf/text] tokenizes
// the TEXT and MTEXT formatting codes.
//
// [render/svg] - The drawing-to-SVG engine: layers, line types, colors,
// block instancing with a recursion guard, text, hatches and dimensions.
//
// [palette] - The 256-entry AutoCAD color index and its mapping to SVG
// colors.
//
// [fonts] - Maps drawing font names (SHX and TrueType) to SVG font stacks.
//
// ## Infrastructure
//
// [io] - Reads and writes documents as DXF, JSON and MessagePack.
//
// [cache] - Key-value caching for parsed documents and rendered artifacts,
// with file, Redis and null backends.
//
// [observability] - Hooks for parse, render, cache and HTTP events, with a
// Prometheus implementation.
//
// [errors] - Coded errors shared by the CLI exit status and HTTP responses.
//
// [buildinfo] - Version information from the Go build.
//
// ## Orchestration
//
// [pipeline] - parse → render with caching, used by the CLI and the server.
//
// # Testing
//
//	go test ./...                           # All tests
//	DXFSVG_TEST_REDIS_URL=redis://localhost:6379/0 go test ./pkg/cache
//
// PDF and PNG tests are skipped when rsvg-convert is not installed.
//
// [dxf]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/dxf
// [dxf/codepage]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/dxf/codepage
// [dxf/text]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/dxf/text
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/render/svg
// [render]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/render
// [palette]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/palette
// [fonts]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/fonts
// [io]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/io
// [cache]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/buildinfo
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/dxfsvg/pkg/pipeline
package pkg
