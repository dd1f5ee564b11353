// Package fonts resolves drawing font names to CSS font-family lists.
//
// Drawings name fonts by file ("romans.shx", "arial.ttf") or by family. SHX
// stroke fonts have no browser equivalent, so they map to a generic family;
// TrueType names are kept and given a fallback chain.
package fonts

import (
	"path"
	"strings"
)

// FallbackFontFamily is appended to every resolved family.
const FallbackFontFamily = `sans-serif`

// DefaultFamily is used when a drawing names no font.
const DefaultFamily = "Arial"

// shx maps common AutoCAD stroke fonts to the closest generic family.
var shx = map[string]string{
	"txt":      "monospace",
	"monotxt":  "monospace",
	"simplex":  "sans-serif",
	"romans":   "sans-serif",
	"romand":   "sans-serif",
	"isocp":    "sans-serif",
	"iso":      "sans-serif",
	"complex":  "serif",
	"romanc":   "serif",
	"romant":   "serif",
	"italic":   "serif",
	"italicc":  "serif",
	"scripts":  "cursive",
	"scriptc":  "cursive",
	"gothice":  "fantasy",
	"greeks":   "sans-serif",
	"bigfont":  "sans-serif",
	"extfont":  "sans-serif",
	"gbcbig":   "sans-serif",
	"chineset": "sans-serif",
}

// Family converts a STYLE table font name into a bare family name.
// Empty input yields "".
func Family(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	ext := strings.ToLower(path.Ext(name))
	base := strings.TrimSuffix(path.Base(strings.ReplaceAll(name, `\`, "/")), path.Ext(name))
	if ext == ".shx" || ext == "" {
		if generic, ok := shx[strings.ToLower(base)]; ok {
			return generic
		}
	}
	if ext == ".shx" {
		return "sans-serif"
	}
	return base
}

// Resolve returns a CSS font-family list for a drawing font name, quoting
// names that contain spaces and appending [FallbackFontFamily].
func Resolve(name string) string {
	family := Family(name)
	switch family {
	case "":
		family = DefaultFamily
	case FallbackFontFamily:
		return family
	case "serif", "monospace", "cursive", "fantasy":
		return family + "," + FallbackFontFamily
	}
	if strings.ContainsAny(family, " ,") {
		family = "'" + strings.ReplaceAll(family, "'", "") + "'"
	}
	return family + "," + FallbackFontFamily
}

// Resolver returns a resolver that prefers override for every font. An empty
// override yields [Resolve].
func Resolver(override string) func(string) string {
	if override == "" {
		return Resolve
	}
	return func(string) string { return Resolve(override) }
}
