package svg

import (
	"fmt"
	"math"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// Bounds is an axis-aligned rectangle in output (y-down) coordinates.
type Bounds struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyBounds() Bounds {
	return Bounds{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

func (b *Bounds) add(x, y float64) {
	b.MinX = math.Min(b.MinX, x)
	b.MaxX = math.Max(b.MaxX, x)
	b.MinY = math.Min(b.MinY, y)
	b.MaxY = math.Max(b.MaxY, y)
}

// ViewBox formats the bounds as an SVG viewBox value.
func (b Bounds) ViewBox() (string, bool) {
	if b.Empty() {
		return "", false
	}
	return fmt.Sprintf("%s %s %s %s", fmtNum(b.MinX), fmtNum(b.MinY), fmtNum(b.MaxX-b.MinX), fmtNum(b.MaxY-b.MinY)), true
}

var relativeSecondary = map[string]bool{"ELLIPSE": true, "MTEXT": true}

// coordinate code pairs scanned for the viewport.
var boundsCodes = [][2]int{{10, 20}, {11, 21}, {12, 22}}

// ComputeBounds scans the primary coordinate codes of top-level entities.
// Every occurrence of a code counts, so polyline vertices are covered.
// Circles and arcs are widened by their radius. ELLIPSE and MTEXT store a
// direction vector in 11/21, so only their insertion point is used. HATCH
// contributes only its boundary paths. Entities drawn mirrored because of a
// negative extrusion (230) are mirrored here too.
func ComputeBounds(entities []dxf.Record) Bounds {
	b := emptyBounds()
	for _, e := range entities {
		typ := e.Type()
		geom := e
		if typ == "HATCH" {
			geom = hatchBoundary(e)
		}
		mirror := 1.0
		if z, ok := num(e, 230); ok && z < 0 && typ != "LEADER" {
			mirror = -1
		}
		for _, codes := range boundsCodes {
			if relativeSecondary[typ] && codes[0] != 10 {
				continue
			}
			xs, ys := geom.Values(codes[0]), geom.Values(codes[1])
			for i := 0; i < len(xs) && i < len(ys); i++ {
				x, okx := parseFloat(xs[i])
				y, oky := parseFloat(ys[i])
				if !okx || !oky {
					continue
				}
				x *= mirror
				if typ == "CIRCLE" || typ == "ARC" {
					if r, ok := num(e, 40); ok {
						b.add(x-r, -y-r)
						b.add(x+r, -y+r)
						continue
					}
				}
				b.add(x, -y)
			}
		}
	}
	return b
}
