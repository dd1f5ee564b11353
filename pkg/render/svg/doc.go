// Package svg renders a parsed drawing ([dxf.Document]) as a standalone SVG
// image.
//
// Rendering is a pure function of the document and the options: the same
// input always produces byte-identical markup, and each call builds its own
// [StyleIndex], so concurrent calls need no coordination.
//
// # Coordinates
//
// Drawings use a y-up coordinate system while SVG is y-down. Every y
// ordinate read from the drawing is negated exactly once; values copied from
// the drawing keep their original text, values computed by the renderer are
// rounded to ten decimals.
//
// # Colors and linetypes
//
// The root element strokes with currentColor. A generated <style> element
// sets the color of each layer through a [data-8] attribute selector, so
// entities that inherit their layer's color carry no color of their own.
// Explicit color indices are emitted as an inline style, and by-block
// entities inherit the color of the enclosing INSERT group.
//
// # Supported entities
//
// LINE, CIRCLE, ARC, LWPOLYLINE, POLYLINE (with trailing VERTEX records),
// ELLIPSE (full ellipses only), LEADER, HATCH (boundary only), SOLID, TEXT,
// ATTRIB, MTEXT, INSERT and DIMENSION (linear and aligned). Other entities
// are skipped with a debug diagnostic.
//
// # Errors
//
// Malformed entities never fail a render; they are skipped. [RenderSVG]
// returns an error only for block references that are cyclic or nested
// deeper than [WithMaxBlockDepth] allows.
package svg
