// Package render turns drawings into output files.
//
// The [svg] subpackage holds the drawing-to-SVG engine. This package adds
// raster and print formats on top of it:
//
//	out, err := svg.RenderSVG(doc)
//	pdf, err := render.ToPDF(ctx, out)
//	png, err := render.ToPNG(ctx, out, 2.0) // 2x scale
//
// PDF and PNG conversion shells out to rsvg-convert from librsvg. Use
// [Available] to check for it before offering those formats.
//
// [svg]: github.com/matzehuels/dxfsvg/pkg/render/svg
package render
