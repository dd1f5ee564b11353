package svg

import (
	"fmt"
	"slices"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// blockBody strips the BLOCK and ENDBLK markers around a block's entities
// and returns the base point stored on the BLOCK marker.
func blockBody(entities []dxf.Record) (body []dxf.Record, baseX, baseY float64) {
	body = entities
	if len(body) > 0 && body[0].Type() == "BLOCK" {
		baseX = numOr(body[0], 10, 0)
		baseY = numOr(body[0], 20, 0)
		body = body[1:]
	}
	if n := len(body); n > 0 && body[n-1].Type() == "ENDBLK" {
		body = body[:n-1]
	}
	return body, baseX, baseY
}

// insertTransform composes translate, scale and rotate, in that order,
// skipping identity steps. The block base point is moved to the origin
// last.
func insertTransform(x, y, sx, sy, rotation, baseX, baseY float64) string {
	var parts []string
	if fmtNum(x) != "0" || fmtNum(y) != "0" {
		parts = append(parts, fmt.Sprintf("translate(%s,%s)", fmtNum(x), fmtNum(-y)))
	}
	if sx != 1 || sy != 1 {
		parts = append(parts, fmt.Sprintf("scale(%s,%s)", fmtNum(sx), fmtNum(sy)))
	}
	if fmtNum(rotation) != "0" {
		parts = append(parts, fmt.Sprintf("rotate(%s)", fmtNum(-rotation)))
	}
	if baseX != 0 || baseY != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s,%s)", fmtNum(-baseX), fmtNum(baseY)))
	}
	return strings.Join(parts, " ")
}

// renderInsert expands a block reference into a group holding the block's
// entities under the insertion transform. Cyclic or overly deep references
// abort the render with a BLOCK_RECURSION error.
func renderInsert(r *renderer, e dxf.Record, _ []dxf.Record) string {
	name := e.Get(2)
	entities, ok := r.doc.Block(name)
	if !ok {
		r.logger.Debug("block not found", "block", name, "handle", e.Get(5))
		return ""
	}
	if slices.Contains(r.blocks, name) {
		r.fail(errors.New(errors.ErrCodeBlockRecursion, "block %q references itself via %s", name, strings.Join(r.blocks, " -> ")))
		return ""
	}
	if len(r.blocks) >= r.maxBlockDepth {
		r.fail(errors.New(errors.ErrCodeBlockRecursion, "block %q exceeds maximum nesting depth %d", name, r.maxBlockDepth))
		return ""
	}

	x, y, _ := pointf(e, 10, 20)
	body, baseX, baseY := blockBody(entities)
	transform := insertTransform(x, y, numOr(e, 41, 1), numOr(e, 42, 1), numOr(e, 50, 0), baseX, baseY)

	r.blocks = append(r.blocks, name)
	inner := r.renderEntities(body)
	r.blocks = r.blocks[:len(r.blocks)-1]
	if r.err != nil {
		return ""
	}

	if transform != "" {
		transform = ` transform="` + transform + `"`
	}
	return fmt.Sprintf(`<g%s%s>%s</g>`, r.attrs(e, false), transform, inner)
}
