package svg

import (
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
)

// computedPrecision is the number of decimals kept for coordinates the
// renderer derives itself (arc endpoints, transforms). Values copied from
// the drawing keep their original text.
const computedPrecision = 10

func trim(s string) string {
	return strings.TrimSpace(s)
}

// negate flips the sign of a numeric string without reformatting it.
// Zero is returned unchanged so that "-0" never appears in output.
func negate(s string) string {
	s = strings.TrimPrefix(s, "+")
	switch {
	case s == "":
		return s
	case s[0] == '-':
		return s[1:]
	}
	if v, err := strconv.ParseFloat(s, 64); err == nil && v == 0 {
		return s
	}
	return "-" + s
}

// isNumber reports whether s is a finite decimal number. Hex floats, NaN
// and infinities are rejected since SVG attributes cannot carry them.
func isNumber(s string) bool {
	if s == "" || strings.IndexFunc(s, notDecimal) >= 0 {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func notDecimal(r rune) bool {
	return !strings.ContainsRune("0123456789+-.eE", r)
}

func isNumbers(ss ...string) bool {
	for _, s := range ss {
		if !isNumber(s) {
			return false
		}
	}
	return true
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// fmtNum formats a computed value with no trailing zeros.
func fmtNum(v float64) string {
	v = roundTo(v, computedPrecision)
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// num returns the first value of code parsed as a float.
func num(e dxf.Record, code int) (float64, bool) {
	s, ok := e.Value(code)
	if !ok {
		return 0, false
	}
	v, err := strconv.ParseFloat(trim(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// numOr returns the value of code, or def when absent or malformed.
func numOr(e dxf.Record, code int, def float64) float64 {
	if v, ok := num(e, code); ok {
		return v
	}
	return def
}

// intOr returns the value of code truncated to an integer.
func intOr(e dxf.Record, code int, def int) int {
	if v, ok := num(e, code); ok {
		return int(v)
	}
	return def
}

// point returns the trimmed x and negated y strings of a coordinate pair.
func point(e dxf.Record, xcode, ycode int) (x, y string, ok bool) {
	x = trim(e.Get(xcode))
	y = negate(trim(e.Get(ycode)))
	return x, y, isNumbers(x, y)
}

// pointf returns a coordinate pair as floats in source orientation.
func pointf(e dxf.Record, xcode, ycode int) (x, y float64, ok bool) {
	x, okx := num(e, xcode)
	y, oky := num(e, ycode)
	return x, y, okx && oky
}

func parseFloat(s string) (float64, bool) {
	s = trim(s)
	if !isNumber(s) {
		return 0, false
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v, true
}
