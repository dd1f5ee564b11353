package svg

import (
	"strconv"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// resolveIndex maps a color index token to paint without consulting any
// layer: by-block, by-layer and malformed tokens yield currentColor.
func resolveIndex(index string, resolveColorIndex func(int) string) string {
	switch index {
	case "", colorByBlock, colorByLayer:
		return currentColor
	}
	n, err := strconv.Atoi(index)
	if err != nil || n < 0 {
		return currentColor
	}
	return resolveColorIndex(n)
}

// resolveColor returns the paint for an entity. An explicit index wins,
// by-block inherits the current color, and by-layer (or no index) takes the
// color of the entity's layer.
func (r *renderer) resolveColor(e dxf.Record) string {
	index := trim(e.Get(62))
	switch index {
	case colorByBlock:
		return currentColor
	case "", colorByLayer:
		if l, ok := r.styles.Layer(e.Get(8)); ok {
			return l.Color
		}
		return currentColor
	}
	return resolveIndex(index, r.resolveColorIndex)
}

// colorStyle returns an inline style attribute for entities whose color does
// not come from their layer's style rule. Inline style outranks the layer
// rule, so by-block entities inherit from the enclosing insert instead.
func (r *renderer) colorStyle(e dxf.Record) string {
	switch trim(e.Get(62)) {
	case "", colorByLayer:
		return ""
	case colorByBlock:
		return ` style="color:inherit"`
	}
	return ` style="color:` + r.resolveColor(e) + `"`
}
