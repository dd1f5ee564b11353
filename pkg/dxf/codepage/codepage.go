// Package codepage decodes legacy drawing text according to the
// $DWGCODEPAGE header variable.
//
// Drawings written before AutoCAD 2007 store text in the code page of the
// machine that produced them ("ANSI_1252", "ANSI_932", ...). Newer files are
// UTF-8 and need no decoding.
package codepage

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// Default is assumed when a legacy file carries no $DWGCODEPAGE.
const Default = "ANSI_1252"

var encodings = map[string]encoding.Encoding{
	"ANSI_874":  charmap.Windows874,
	"ANSI_932":  japanese.ShiftJIS,
	"ANSI_936":  simplifiedchinese.GBK,
	"ANSI_949":  korean.EUCKR,
	"ANSI_950":  traditionalchinese.Big5,
	"ANSI_1250": charmap.Windows1250,
	"ANSI_1251": charmap.Windows1251,
	"ANSI_1252": charmap.Windows1252,
	"ANSI_1253": charmap.Windows1253,
	"ANSI_1254": charmap.Windows1254,
	"ANSI_1255": charmap.Windows1255,
	"ANSI_1256": charmap.Windows1256,
	"ANSI_1257": charmap.Windows1257,
	"ANSI_1258": charmap.Windows1258,
	"DOS437":    charmap.CodePage437,
	"DOS850":    charmap.CodePage850,
	"DOS852":    charmap.CodePage852,
	"DOS866":    charmap.CodePage866,
	"ISO8859-1": charmap.ISO8859_1,
	"UTF-8":     unicode.UTF8,
	"UTF8":      unicode.UTF8,
}

// Lookup returns the encoding for a codepage name. Names are matched
// case-insensitively.
func Lookup(name string) (encoding.Encoding, bool) {
	enc, ok := encodings[strings.ToUpper(strings.TrimSpace(name))]
	return enc, ok
}

// Known reports whether name is a supported codepage.
func Known(name string) bool {
	_, ok := Lookup(name)
	return ok
}

// Decode converts data from the named codepage to UTF-8. Unknown names fall
// back to [Default].
func Decode(name string, data []byte) ([]byte, error) {
	enc, ok := Lookup(name)
	if !ok {
		enc = encodings[Default]
	}
	return enc.NewDecoder().Bytes(data)
}

// DecodeString decodes s from the named codepage when s is not valid UTF-8.
// Valid UTF-8 is returned unchanged, as is anything the decoder rejects.
func DecodeString(name, s string) string {
	if utf8.ValidString(s) {
		return s
	}
	out, err := Decode(name, []byte(s))
	if err != nil {
		return s
	}
	return string(out)
}

// Decoder returns a string decoder bound to a codepage, suitable for
// svg.WithDecoder.
func Decoder(name string) func(string) string {
	return func(s string) string { return DecodeString(name, s) }
}
