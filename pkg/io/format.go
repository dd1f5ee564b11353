package io

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// Format names a document encoding.
type Format string

const (
	FormatDXF     Format = "dxf"
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
)

// binarySentinel opens every binary DXF file.
var binarySentinel = []byte("AutoCAD Binary DXF")

// ParseFormat converts a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "dxf":
		return FormatDXF, nil
	case "json":
		return FormatJSON, nil
	case "msgpack", "mpk", "mp":
		return FormatMsgpack, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q (valid: dxf, json, msgpack)", s)
}

// DetectFormat infers the format from a file extension. Unknown extensions
// are treated as DXF.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".msgpack", ".mpk", ".mp":
		return FormatMsgpack
	}
	return FormatDXF
}

// SniffFormat guesses the format from the first bytes of a document.
func SniffFormat(data []byte) Format {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	if len(trimmed) == 0 {
		return FormatDXF
	}
	switch c := trimmed[0]; {
	case c == '{':
		return FormatJSON
	case c >= 0x80 && c <= 0x8f, c == 0xde, c == 0xdf:
		// MessagePack fixmap, map16 and map32 prefixes.
		return FormatMsgpack
	}
	return FormatDXF
}

// Extension returns the canonical file extension for f, with the dot.
func (f Format) Extension() string {
	if f == FormatMsgpack {
		return ".msgpack"
	}
	return "." + string(f)
}
