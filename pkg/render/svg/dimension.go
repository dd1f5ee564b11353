package svg

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// Dimension defaults used when neither the style nor the header sets them.
const (
	defaultDimDecimals   = 4
	defaultDimScale      = 1.0
	defaultDimTextHeight = 0.18
)

// Dimension types (low three bits of code 70).
const (
	dimRotated = 0
	dimAligned = 1
)

// dimensionStyle returns the DIMSTYLE row named by code 3.
func (r *renderer) dimensionStyle(e dxf.Record) dxf.Record {
	name := e.Get(3)
	if name == "" {
		name = "STANDARD"
	}
	row, _ := r.doc.FindTableRow(dxf.TableDimStyle, dxf.TableDimStyle, name)
	return row
}

// dimVar reads a dimension variable from the style, then the header, then
// falls back to def.
func (r *renderer) dimVar(style dxf.Record, styleCode int, header string, headerCode int, def float64) float64 {
	if v, ok := num(style, styleCode); ok {
		return v
	}
	if s, ok := r.doc.HeaderValue(header, headerCode); ok {
		if v, ok := parseFloat(s); ok {
			return v
		}
	}
	return def
}

// dimensionLine is the computed geometry of a linear dimension, in source
// orientation.
type dimensionLine struct {
	d           string
	measurement float64
	midX, midY  float64
	angle       float64
}

// linearDimension projects the two definition points 13/23 and 14/24 onto
// the dimension line through 10/20. Rotated dimensions run along angle 50.
// Without an angle they are vertical when 13/23 shares its x coordinate with
// 10/20 or with 14/24, and horizontal otherwise. Aligned dimensions run
// parallel to the definition points.
func linearDimension(e dxf.Record, kind int) (dimensionLine, bool) {
	ax, ay, okA := pointf(e, 13, 23)
	bx, by, okB := pointf(e, 10, 20)
	cx, cy, okC := pointf(e, 14, 24)
	if !okA || !okB || !okC {
		return dimensionLine{}, false
	}

	var angle float64
	switch {
	case kind == dimAligned:
		if ax == cx && ay == cy {
			return dimensionLine{}, false
		}
		angle = math.Atan2(cy-ay, cx-ax) * 180 / math.Pi
	case e.Has(50):
		angle = numOr(e, 50, 0)
	case ax == bx || ax == cx:
		angle = 90
	}

	ux, uy := math.Cos(angle*math.Pi/180), math.Sin(angle*math.Pi/180)
	project := func(px, py float64) (float64, float64) {
		t := (px-bx)*ux + (py-by)*uy
		return bx + ux*t, by + uy*t
	}
	p1x, p1y := project(ax, ay)
	p2x, p2y := project(cx, cy)

	return dimensionLine{
		d: fmt.Sprintf("M %s %s L %s %s L %s %s L %s %s",
			fmtNum(ax), fmtNum(-ay), fmtNum(p1x), fmtNum(-p1y),
			fmtNum(p2x), fmtNum(-p2y), fmtNum(cx), fmtNum(-cy)),
		measurement: math.Abs((cx-ax)*ux + (cy-ay)*uy),
		midX:        (p1x + p2x) / 2,
		midY:        (p1y + p2y) / 2,
		angle:       angle,
	}, true
}

// readableAngle folds an angle into (-90, 90] so text is never upside down.
func readableAngle(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg > 180 {
		deg -= 360
	} else if deg <= -180 {
		deg += 360
	}
	switch {
	case deg > 90:
		deg -= 180
	case deg <= -90:
		deg += 180
	}
	return deg
}

// formatMeasurement rounds v to places decimals without trailing zeros.
func formatMeasurement(v float64, places int) string {
	v = roundTo(v, places)
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// renderDimension draws linear dimensions (rotated, horizontal, vertical,
// aligned) with their extension and dimension lines. Other dimension types
// only get their text.
func renderDimension(r *renderer, e dxf.Record, _ []dxf.Record) string {
	style := r.dimensionStyle(e)
	kind := intOr(e, 70, 0) & 7

	value, hasValue := num(e, 42)
	hasValue = hasValue && value != 0

	var (
		line    dimensionLine
		hasLine bool
	)
	switch kind {
	case dimRotated, dimAligned:
		line, hasLine = linearDimension(e, kind)
		if !hasLine {
			r.missing(e, "definition points")
		} else if !hasValue {
			value = line.measurement * r.dimVar(style, 144, "$DIMLFAC", 40, defaultDimScale)
			hasValue = true
		}
	default:
		r.logger.Debug("unsupported dimension type", "handle", e.Get(5), "type", kind)
	}

	var b strings.Builder
	if hasLine {
		fmt.Fprintf(&b, `<path d="%s"/>`, line.d)
	}
	b.WriteString(r.dimensionText(e, style, line, hasLine, value, hasValue))
	if b.Len() == 0 {
		return ""
	}
	return fmt.Sprintf(`<g%s>%s</g>`, r.attrs(e, true), b.String())
}

// dimensionText renders the label. The measurement replaces "<>" in the
// override text (1); an empty override shows the measurement alone.
func (r *renderer) dimensionText(e dxf.Record, style dxf.Record, line dimensionLine, hasLine bool, value float64, hasValue bool) string {
	label := r.decode(e.Get(1))
	if label == "" {
		label = "<>"
	}
	var measured string
	if hasValue {
		places := int(r.dimVar(style, 271, "$DIMDEC", 70, defaultDimDecimals))
		measured = formatMeasurement(value, places)
	}
	label = strings.ReplaceAll(label, "<>", measured)
	if strings.TrimSpace(label) == "" {
		return ""
	}

	x, y, ok := pointf(e, 11, 21)
	if !ok {
		if !hasLine {
			return ""
		}
		x, y = line.midX, line.midY
	}
	angle := readableAngle(line.angle)
	if v, ok := num(e, 53); ok {
		angle = v
	}
	height := r.dimVar(style, 140, "$DIMTXT", 40, defaultDimTextHeight)

	var b strings.Builder
	fmt.Fprintf(&b, `<text x="%s" y="%s" font-size="%s" text-anchor="middle" dominant-baseline="text-after-edge"`,
		fmtNum(x), fmtNum(-y), fmtNum(height))
	if fmtNum(angle) != "0" {
		fmt.Fprintf(&b, ` transform="rotate(%s %s %s)"`, fmtNum(-angle), fmtNum(x), fmtNum(-y))
	}
	b.WriteString(">" + r.renderRuns(r.parseMText(label, e.Get(5))) + "</text>")
	return b.String()
}
