// Package palette provides the AutoCAD Color Index (ACI) palette as
// hue/saturation/lightness triples and the paint strings derived from them.
//
// The table is computed once on first use and is read-only afterwards, so it
// is safe to share between concurrent renders.
package palette

import (
	"fmt"
	"math"
	"sync"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// HSL is a palette entry. H is in degrees [0, 360), S and L are percentages.
type HSL struct {
	H, S, L float64
}

// Entries in the 10..249 range step through 24 hues, each with five value
// levels at full and half saturation.
var (
	levels = [5]float64{1, 0.65, 0.5, 0.3, 0.15}
	grays  = [6]float64{0.2, 0.36, 0.52, 0.68, 0.84, 1}
)

// Fallback is used for indices with no palette entry.
var Fallback = HSL{H: 0, S: 0, L: 50}

var (
	tableOnce sync.Once
	table     [256]*HSL
)

func build() {
	fixed := []colorful.Color{
		1: colorful.Hsv(0, 1, 1),
		2: colorful.Hsv(60, 1, 1),
		3: colorful.Hsv(120, 1, 1),
		4: colorful.Hsv(180, 1, 1),
		5: colorful.Hsv(240, 1, 1),
		6: colorful.Hsv(300, 1, 1),
		7: colorful.Hsv(0, 0, 1),
		8: colorful.Hsv(0, 0, 0.5),
		9: colorful.Hsv(0, 0, 0.75),
	}
	for i := 1; i <= 9; i++ {
		table[i] = fromColor(fixed[i])
	}
	for i := 10; i <= 249; i++ {
		hue := float64(i/10-1) * 15
		k := i % 10
		sat := 1.0
		if k%2 == 1 {
			sat = 0.5
		}
		table[i] = fromColor(colorful.Hsv(hue, sat, levels[k/2]))
	}
	for i, v := range grays {
		table[250+i] = fromColor(colorful.Hsv(0, 0, v))
	}
}

func fromColor(c colorful.Color) *HSL {
	h, s, l := c.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return &HSL{H: math.Round(h), S: math.Round(s * 100), L: math.Round(l * 100)}
}

// Lookup returns the palette entry for an ACI index. Index 0 (by block),
// 256 (by layer) and anything outside 1..255 have no entry.
func Lookup(index int) (HSL, bool) {
	tableOnce.Do(build)
	if index < 1 || index > 255 {
		return HSL{}, false
	}
	return *table[index], true
}

// Paint returns the CSS paint value for an ACI index. Lightness is damped and
// lifted so that dark entries stay legible on a dark background. Indices with
// no entry paint as [Fallback].
func Paint(index int) string {
	c, ok := Lookup(index)
	if !ok {
		c = Fallback
	}
	return c.Paint()
}

// Paint formats the entry as a damped hsl() value.
func (c HSL) Paint() string {
	return fmt.Sprintf("hsl(%g,%g%%,%g%%)", c.H, c.S, math.Round(c.L*0.8+20))
}
