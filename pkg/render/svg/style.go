package svg

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// Color index sentinels.
const (
	colorByBlock = "0"
	colorByLayer = "256"

	currentColor = "currentColor"
)

// Layer is the resolved style of one LAYER table row.
type Layer struct {
	Name     string
	Color    string
	Linetype string
	// Off is set when the layer's color index is negative.
	Off bool
}

// StyleIndex maps layer names to their resolved style and linetype names to
// dash patterns. It is built once per render and never modified afterwards.
type StyleIndex struct {
	layers    map[string]Layer
	order     []string
	linetypes map[string][]float64
}

// NewStyleIndex builds the index from the LAYER and LTYPE tables of doc.
// Rows missing a name are skipped. A nil document yields an empty index.
func NewStyleIndex(doc *dxf.Document, resolveColorIndex func(int) string) *StyleIndex {
	idx := &StyleIndex{
		layers:    make(map[string]Layer),
		linetypes: make(map[string][]float64),
	}

	for _, row := range doc.Table(dxf.TableLayer) {
		if row.Type() != dxf.TableLayer {
			continue
		}
		name, ok := row.Value(2)
		if !ok {
			continue
		}
		l := Layer{Name: name, Linetype: trim(row.Get(6)), Color: currentColor}
		if s := trim(row.Get(62)); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				if n < 0 {
					l.Off = true
					n = -n
				}
				l.Color = resolveIndex(strconv.Itoa(n), resolveColorIndex)
			}
		}
		if _, dup := idx.layers[name]; !dup {
			idx.order = append(idx.order, name)
		}
		idx.layers[name] = l
	}

	for _, row := range doc.Table(dxf.TableLinetype) {
		if row.Type() != dxf.TableLinetype {
			continue
		}
		name, ok := row.Value(2)
		if !ok {
			continue
		}
		idx.linetypes[strings.ToUpper(name)] = dashPattern(row.Values(49))
	}
	return idx
}

// dashPattern strips the sign from each dash length and pads an odd count
// with a zero-length segment. Patterns of all zeros are continuous (nil).
func dashPattern(lengths []string) []float64 {
	var pattern []float64
	visible := false
	for _, s := range lengths {
		v, err := strconv.ParseFloat(trim(s), 64)
		if err != nil {
			continue
		}
		if v < 0 {
			v = -v
		}
		if v > 0 {
			visible = true
		}
		pattern = append(pattern, v)
	}
	if !visible {
		return nil
	}
	if len(pattern)%2 == 1 {
		pattern = append(pattern, 0)
	}
	return pattern
}

// Layer returns the style of a named layer.
func (idx *StyleIndex) Layer(name string) (Layer, bool) {
	l, ok := idx.layers[name]
	return l, ok
}

// DashArray returns the stroke-dasharray value for a linetype name, or ""
// for continuous lines and unknown names.
func (idx *StyleIndex) DashArray(linetype string) string {
	pattern := idx.linetypes[strings.ToUpper(trim(linetype))]
	if len(pattern) == 0 {
		return ""
	}
	parts := make([]string, len(pattern))
	for i, v := range pattern {
		parts[i] = fmtNum(v)
	}
	return strings.Join(parts, ",")
}

// CSS returns the <style> element: text paints with the current color, each
// layer sets the color of its members and off layers are hidden.
func (idx *StyleIndex) CSS() string {
	var buf bytes.Buffer
	buf.WriteString("<style>text{stroke:none;fill:currentColor}")
	for _, name := range idx.order {
		l := idx.layers[name]
		if l.Color != currentColor {
			fmt.Fprintf(&buf, `[data-8="%s"]{color:%s}`, escapeCSS(name), l.Color)
		}
	}
	for _, name := range idx.order {
		if idx.layers[name].Off {
			fmt.Fprintf(&buf, `[data-8="%s"]{display:none}`, escapeCSS(name))
		}
	}
	buf.WriteString("</style>")
	return buf.String()
}
