package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// entityRenderer renders one entity, plus any VERTEX records that followed
// it, into a markup fragment. An empty result means nothing is drawn.
type entityRenderer func(r *renderer, e dxf.Record, vertices []dxf.Record) string

// entityRenderers is keyed by entity type tag. It is filled in init because
// INSERT recurses back into renderEntities.
var entityRenderers map[string]entityRenderer

func init() {
	entityRenderers = map[string]entityRenderer{
		"LINE":       renderLine,
		"CIRCLE":     renderCircle,
		"ARC":        renderArc,
		"LWPOLYLINE": renderLWPolyline,
		"POLYLINE":   renderPolyline,
		"ELLIPSE":    renderEllipse,
		"LEADER":     renderLeader,
		"HATCH":      renderHatch,
		"SOLID":      renderSolid,
		"TEXT":       renderText,
		"ATTRIB":     renderAttrib,
		"MTEXT":      renderMText,
		"INSERT":     renderInsert,
		"DIMENSION":  renderDimension,
	}
}

// fullTurnTolerance is the slack allowed when testing ellipse parameters
// for a full turn.
const fullTurnTolerance = 1e-6

func (r *renderer) missing(e dxf.Record, what string) string {
	r.logger.Debug("skipping entity", "entity", e.Type(), "handle", e.Get(5), "reason", what)
	return ""
}

func renderLine(r *renderer, e dxf.Record, _ []dxf.Record) string {
	x1, y1, ok1 := point(e, 10, 20)
	x2, y2, ok2 := point(e, 11, 21)
	if !ok1 || !ok2 {
		return r.missing(e, "endpoints")
	}
	return fmt.Sprintf(`<line%s x1="%s" y1="%s" x2="%s" y2="%s"/>`, r.attrs(e, true), x1, y1, x2, y2)
}

func renderCircle(r *renderer, e dxf.Record, _ []dxf.Record) string {
	cx, cy, ok := point(e, 10, 20)
	radius := trim(e.Get(40))
	if !ok || !isNumber(radius) {
		return r.missing(e, "center or radius")
	}
	return fmt.Sprintf(`<circle%s cx="%s" cy="%s" r="%s"/>`, r.attrs(e, true), cx, cy, radius)
}

// renderArc draws a counter-clockwise arc from start angle 50 to end angle
// 51, both in degrees.
func renderArc(r *renderer, e dxf.Record, _ []dxf.Record) string {
	cx, cy, ok := pointf(e, 10, 20)
	radius := trim(e.Get(40))
	if !ok || !isNumber(radius) {
		return r.missing(e, "center or radius")
	}
	rad, _ := parseFloat(radius)
	start := numOr(e, 50, 0)
	end := numOr(e, 51, 0)

	x1, y1 := polar(cx, cy, rad, start)
	x2, y2 := polar(cx, cy, rad, end)
	d := fmt.Sprintf("M %s %s A %s %s 0 %s 0 %s %s",
		fmtNum(x1), fmtNum(-y1), radius, radius, largeArc(end-start), fmtNum(x2), fmtNum(-y2))
	return fmt.Sprintf(`<path%s d="%s"/>`, r.attrs(e, true), d)
}

// polar returns the point at angle degrees on a circle in source
// orientation.
func polar(cx, cy, radius, degrees float64) (float64, float64) {
	a := degrees * math.Pi / 180
	return cx + radius*math.Cos(a), cy + radius*math.Sin(a)
}

// largeArc returns the large-arc flag for a counter-clockwise sweep.
func largeArc(sweep float64) string {
	sweep = math.Mod(sweep, 360)
	if sweep < 0 {
		sweep += 360
	}
	if sweep > 180 {
		return "1"
	}
	return "0"
}

type vertex struct {
	x, y, bulge float64
}

// polylinePath builds path data through vertices. A non-zero bulge turns
// the segment leaving that vertex into an arc.
func polylinePath(vs []vertex, closed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "M %s %s", fmtNum(vs[0].x), fmtNum(-vs[0].y))
	n := len(vs)
	segments := n - 1
	if closed {
		segments = n
	}
	for i := 0; i < segments; i++ {
		from, to := vs[i], vs[(i+1)%n]
		if from.bulge != 0 {
			b.WriteString(bulgeArc(from, to))
			continue
		}
		if i == n-1 {
			break
		}
		fmt.Fprintf(&b, " L %s %s", fmtNum(to.x), fmtNum(-to.y))
	}
	if closed {
		b.WriteString(" Z")
	}
	return b.String()
}

// bulgeArc returns an arc command from one vertex to the next. The bulge is
// the tangent of a quarter of the included angle; positive bulges turn
// counter-clockwise.
func bulgeArc(from, to vertex) string {
	chord := math.Hypot(to.x-from.x, to.y-from.y)
	if chord == 0 {
		return ""
	}
	theta := 4 * math.Atan(math.Abs(from.bulge))
	radius := chord / (2 * math.Sin(theta/2))
	large, sweep := "0", "0"
	if math.Abs(from.bulge) > 1 {
		large = "1"
	}
	if from.bulge < 0 {
		sweep = "1"
	}
	return fmt.Sprintf(" A %s %s 0 %s %s %s %s", fmtNum(radius), fmtNum(radius), large, sweep, fmtNum(to.x), fmtNum(-to.y))
}

// lwVertices reads the inline vertex list of an LWPOLYLINE. Each code 10
// starts a vertex; 20 and 42 apply to the latest one.
func lwVertices(e dxf.Record) ([]vertex, bool) {
	var vs []vertex
	seenY := 0
	for _, p := range e {
		switch p.Code {
		case 10:
			x, ok := parseFloat(p.Value)
			if !ok {
				return nil, false
			}
			vs = append(vs, vertex{x: x})
		case 20:
			y, ok := parseFloat(p.Value)
			if !ok || len(vs) == 0 {
				return nil, false
			}
			vs[len(vs)-1].y = y
			seenY++
		case 42:
			if b, ok := parseFloat(p.Value); ok && len(vs) > 0 {
				vs[len(vs)-1].bulge = b
			}
		}
	}
	return vs, seenY == len(vs)
}

func renderLWPolyline(r *renderer, e dxf.Record, _ []dxf.Record) string {
	vs, ok := lwVertices(e)
	if !ok || len(vs) < 2 {
		return r.missing(e, "vertices")
	}
	closed := intOr(e, 70, 0)&1 == 1
	return fmt.Sprintf(`<path%s d="%s"/>`, r.attrs(e, true), polylinePath(vs, closed))
}

func renderPolyline(r *renderer, e dxf.Record, vertices []dxf.Record) string {
	vs := make([]vertex, 0, len(vertices))
	for _, v := range vertices {
		x, y, ok := pointf(v, 10, 20)
		if !ok {
			return r.missing(e, "vertex coordinates")
		}
		vs = append(vs, vertex{x: x, y: y, bulge: numOr(v, 42, 0)})
	}
	if len(vs) < 2 {
		return r.missing(e, "vertices")
	}
	closed := intOr(e, 70, 0)&1 == 1
	return fmt.Sprintf(`<path%s d="%s"/>`, r.attrs(e, true), polylinePath(vs, closed))
}

// renderEllipse draws full ellipses only. 11/21 is the major axis endpoint
// relative to the center and 40 the minor to major ratio.
func renderEllipse(r *renderer, e dxf.Record, _ []dxf.Record) string {
	cx, cy, ok := point(e, 10, 20)
	mx, my, okAxis := pointf(e, 11, 21)
	ratio, okRatio := num(e, 40)
	if !ok || !okAxis || !okRatio {
		return r.missing(e, "center, axis or ratio")
	}
	start := numOr(e, 41, 0)
	end := numOr(e, 42, 2*math.Pi)
	if math.Abs(start) > fullTurnTolerance || math.Abs(end-2*math.Pi) > fullTurnTolerance {
		r.logger.Warn("elliptical arcs are not supported", "handle", e.Get(5), "start", start, "end", end)
		return ""
	}

	rx := math.Hypot(mx, my)
	ry := rx * ratio
	var transform string
	if deg := math.Atan2(my, mx) * 180 / math.Pi; fmtNum(deg) != "0" {
		transform = fmt.Sprintf(` transform="rotate(%s %s %s)"`, fmtNum(-deg), cx, cy)
	}
	return fmt.Sprintf(`<ellipse%s cx="%s" cy="%s" rx="%s" ry="%s"%s/>`,
		r.attrs(e, true), cx, cy, fmtNum(rx), fmtNum(ry), transform)
}

func renderLeader(r *renderer, e dxf.Record, _ []dxf.Record) string {
	xs, ys := e.Values(10), e.Values(20)
	if len(xs) < 2 || len(xs) != len(ys) {
		return r.missing(e, "vertices")
	}
	var d strings.Builder
	for i := range xs {
		x, y := trim(xs[i]), negate(trim(ys[i]))
		if !isNumbers(x, y) {
			return r.missing(e, "vertex coordinates")
		}
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		if i > 0 {
			d.WriteByte(' ')
		}
		fmt.Fprintf(&d, "%s %s %s", cmd, x, y)
	}
	return fmt.Sprintf(`<path%s d="%s"/>`, r.attrs(e, true), d.String())
}

// renderSolid draws a filled quadrilateral. Corners are stored in zig-zag
// order, so the outline visits 1, 2, 4, 3. Coincident third and fourth
// corners make a triangle.
func renderSolid(r *renderer, e dxf.Record, _ []dxf.Record) string {
	x1, y1, ok1 := point(e, 10, 20)
	x2, y2, ok2 := point(e, 11, 21)
	x3, y3, ok3 := point(e, 12, 22)
	if !ok1 || !ok2 || !ok3 {
		return r.missing(e, "corners")
	}
	points := []string{x1 + "," + y1, x2 + "," + y2}
	x4, y4, ok4 := point(e, 13, 23)
	if ok4 && (x4 != x3 || y4 != y3) {
		points = append(points, x4+","+y4)
	}
	points = append(points, x3+","+y3)
	return fmt.Sprintf(`<polygon%s points="%s" fill="currentColor"/>`, r.attrs(e, false), strings.Join(points, " "))
}
