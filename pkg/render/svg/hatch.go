package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// Hatch boundary edge types (code 72 inside an edge-defined path).
const (
	edgeLine    = 1
	edgeArc     = 2
	edgeEllipse = 3
	edgeSpline  = 4
)

// hatchBoundary returns the pairs that describe boundary paths: everything
// from the path count (91) up to the hatch style (75) or seed count (98).
func hatchBoundary(e dxf.Record) dxf.Record {
	start := -1
	for i, p := range e {
		if p.Code == 91 {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}
	for i := start; i < len(e); i++ {
		if e[i].Code == 75 || e[i].Code == 98 {
			return e[start:i]
		}
	}
	return e[start:]
}

// hatchEdge accumulates the fields of one boundary edge.
type hatchEdge struct {
	kind           int
	x1, y1, x2, y2 float64
	radius         float64
	start, end     float64
	ccw            bool
}

// hatchPath converts the boundary pairs into path data. Edges that start
// where the previous edge ended continue the current subpath; otherwise a
// new subpath is started.
type hatchPath struct {
	r      *renderer
	handle string
	d      strings.Builder

	// polyline path state
	polyline bool
	closed   bool
	vertices []vertex

	// edge path state
	edge     *hatchEdge
	lastX    float64
	lastY    float64
	drawing  bool
	complete bool
}

func (h *hatchPath) moveOrLine(x, y float64) {
	if h.drawing && x == h.lastX && y == h.lastY {
		return
	}
	if h.d.Len() > 0 {
		h.d.WriteByte(' ')
	}
	fmt.Fprintf(&h.d, "M %s %s", fmtNum(x), fmtNum(-y))
	h.drawing = true
}

func (h *hatchPath) lineTo(x, y float64) {
	fmt.Fprintf(&h.d, " L %s %s", fmtNum(x), fmtNum(-y))
	h.lastX, h.lastY = x, y
}

func (h *hatchPath) flushEdge() {
	e := h.edge
	h.edge = nil
	if e == nil {
		return
	}
	switch e.kind {
	case edgeLine:
		h.moveOrLine(e.x1, e.y1)
		h.lineTo(e.x2, e.y2)
	case edgeArc:
		start, end, sweep := e.start, e.end, "0"
		if !e.ccw {
			start, end, sweep = -start, -end, "1"
		}
		x1, y1 := polar(e.x1, e.y1, e.radius, start)
		x2, y2 := polar(e.x1, e.y1, e.radius, end)
		extent := e.end - e.start
		h.moveOrLine(x1, y1)
		if math.Abs(math.Mod(extent, 360)) < fullTurnTolerance && extent != 0 {
			// Full circle: split into two halves so the arc is drawable.
			mx, my := polar(e.x1, e.y1, e.radius, start+180)
			fmt.Fprintf(&h.d, " A %s %s 0 0 %s %s %s", fmtNum(e.radius), fmtNum(e.radius), sweep, fmtNum(mx), fmtNum(-my))
		}
		fmt.Fprintf(&h.d, " A %s %s 0 %s %s %s %s", fmtNum(e.radius), fmtNum(e.radius), largeArc(extent), sweep, fmtNum(x2), fmtNum(-y2))
		h.lastX, h.lastY = x2, y2
	default:
		h.r.logger.Debug("unsupported hatch edge", "handle", h.handle, "edge", e.kind)
		h.drawing = false
		h.complete = false
	}
}

func (h *hatchPath) flushPath() {
	if h.polyline {
		if len(h.vertices) >= 2 {
			if h.d.Len() > 0 {
				h.d.WriteByte(' ')
			}
			h.d.WriteString(polylinePath(h.vertices, true))
		}
		h.vertices = nil
		h.polyline = false
		return
	}
	h.flushEdge()
	if h.drawing && h.complete {
		h.d.WriteString(" Z")
	}
	h.drawing = false
}

func (h *hatchPath) scan(boundary dxf.Record) {
	inPath := false
	for _, p := range boundary {
		v, ok := parseFloat(p.Value)
		if p.Code == 92 {
			if inPath {
				h.flushPath()
			}
			inPath = true
			flags := int(v)
			h.polyline = flags&2 != 0
			h.complete = true
			continue
		}
		if !inPath || !ok {
			continue
		}
		if h.polyline {
			switch p.Code {
			case 10:
				h.vertices = append(h.vertices, vertex{x: v})
			case 20:
				if n := len(h.vertices); n > 0 {
					h.vertices[n-1].y = v
				}
			case 42:
				if n := len(h.vertices); n > 0 {
					h.vertices[n-1].bulge = v
				}
			}
			continue
		}
		if p.Code == 72 {
			h.flushEdge()
			h.edge = &hatchEdge{kind: int(v), ccw: true}
			continue
		}
		if h.edge == nil {
			continue
		}
		switch p.Code {
		case 10:
			h.edge.x1 = v
		case 20:
			h.edge.y1 = v
		case 11:
			h.edge.x2 = v
		case 21:
			h.edge.y2 = v
		case 40:
			h.edge.radius = v
		case 50:
			h.edge.start = v
		case 51:
			h.edge.end = v
		case 73:
			h.edge.ccw = v != 0
		}
	}
	if inPath {
		h.flushPath()
	}
}

// renderHatch draws the hatch boundary as a translucent filled path. Fill
// patterns are not reproduced.
func renderHatch(r *renderer, e dxf.Record, _ []dxf.Record) string {
	boundary := hatchBoundary(e)
	if len(boundary) == 0 {
		return r.missing(e, "boundary paths")
	}
	h := &hatchPath{r: r, handle: e.Get(5)}
	h.scan(boundary)
	if h.d.Len() == 0 {
		return r.missing(e, "drawable boundary")
	}
	return fmt.Sprintf(`<path%s d="%s" fill="currentColor" fill-opacity="0.3" stroke="none"/>`, r.attrs(e, false), h.d.String())
}
