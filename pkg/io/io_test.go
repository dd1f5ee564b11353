package io

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// dxfText lays out alternating codes and values as an ASCII file.
func dxfText(pairs ...any) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(&b, "%3d\n%s\n", pairs[i].(int), pairs[i+1].(string))
	}
	return b.String()
}

var sample = dxfText(
	0, "SECTION", 2, "HEADER",
	9, "$ACADVER", 1, "AC1015",
	9, "$INSUNITS", 70, "4",
	0, "ENDSEC",
	0, "SECTION", 2, "TABLES",
	0, "TABLE", 2, "LAYER", 70, "1",
	0, "LAYER", 2, "Walls", 62, "1",
	0, "ENDTAB",
	0, "ENDSEC",
	0, "SECTION", 2, "BLOCKS",
	0, "BLOCK", 2, "DOOR", 10, "0.0", 20, "0.0",
	0, "LINE", 10, "0", 20, "0", 11, "1", 21, "1",
	0, "ENDBLK",
	0, "ENDSEC",
	0, "SECTION", 2, "ENTITIES",
	0, "LINE", 8, "Walls", 10, "0", 20, "0", 11, "10", 21, " 5",
	0, "TEXT", 1, "  padded text ",
	0, "ENDSEC",
	0, "EOF",
)

func TestReadDXF(t *testing.T) {
	doc, err := ReadDXF(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}

	if v, _ := doc.HeaderValue("$ACADVER", 1); v != "AC1015" {
		t.Errorf("$ACADVER = %q, want AC1015", v)
	}
	if v, _ := doc.HeaderValue("$INSUNITS", 70); v != "4" {
		t.Errorf("$INSUNITS = %q, want 4", v)
	}

	layers := doc.Table(dxf.TableLayer)
	if len(layers) != 1 {
		t.Fatalf("LAYER rows = %d, want 1", len(layers))
	}
	if got := layers[0].Get(2); got != "Walls" {
		t.Errorf("layer name = %q, want Walls", got)
	}

	block, ok := doc.Block("DOOR")
	if !ok {
		t.Fatal("block DOOR missing")
	}
	var types []string
	for _, rec := range block {
		types = append(types, rec.Type())
	}
	if want := []string{"BLOCK", "LINE", "ENDBLK"}; !reflect.DeepEqual(types, want) {
		t.Errorf("block records = %v, want %v", types, want)
	}

	if len(doc.Entities) != 2 {
		t.Fatalf("entities = %d, want 2", len(doc.Entities))
	}
	if got := doc.Entities[0].Get(21); got != " 5" {
		t.Errorf("raw value = %q, want %q", got, " 5")
	}
	if got := doc.Entities[1].Get(1); got != "  padded text " {
		t.Errorf("text value = %q, want surrounding spaces kept", got)
	}
}

func TestReadDXFLineEndings(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"crlf", strings.ReplaceAll(sample, "\n", "\r\n")},
		{"bom", "\ufeff" + sample},
		{"trailing blank lines", sample + "\n\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := ReadDXF(strings.NewReader(tt.in))
			if err != nil {
				t.Fatalf("ReadDXF: %v", err)
			}
			if got := doc.Entities[0].Get(8); got != "Walls" {
				t.Errorf("layer = %q, want Walls", got)
			}
		})
	}
}

func TestReadDXFErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"binary", "AutoCAD Binary DXF\r\n\x1a\x00", errors.ErrCodeInvalidFormat},
		{"bad code", "  0\nSECTION\nabc\nHEADER\n", errors.ErrCodeInvalidDocument},
		{"dangling code", "  0\nSECTION\n  2\n", errors.ErrCodeInvalidDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDXF(strings.NewReader(tt.in))
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestReadDXFCodepage(t *testing.T) {
	legacy := dxfText(
		0, "SECTION", 2, "HEADER",
		9, "$DWGCODEPAGE", 3, "ANSI_1251",
		0, "ENDSEC",
		0, "SECTION", 2, "ENTITIES",
		0, "TEXT", 1, "\xc4\xe0",
		0, "ENDSEC",
		0, "EOF",
	)

	doc, err := ReadDXF(strings.NewReader(legacy))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}
	if got := doc.Entities[0].Get(1); got != "Да" {
		t.Errorf("text = %q, want %q", got, "Да")
	}

	doc, err = ReadDXF(strings.NewReader(legacy), WithCodepage("ANSI_1252"))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}
	if got := doc.Entities[0].Get(1); got != "Äà" {
		t.Errorf("text = %q, want %q", got, "Äà")
	}
}

func TestRoundTrip(t *testing.T) {
	doc, err := ReadDXF(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("ReadDXF: %v", err)
	}

	for _, f := range []Format{FormatDXF, FormatJSON, FormatMsgpack} {
		t.Run(string(f), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteDocument(doc, f, &buf); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := ReadDocument(&buf, f)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			if !reflect.DeepEqual(got, doc) {
				t.Errorf("round trip mismatch\n got: %+v\nwant: %+v", got, doc)
			}
		})
	}
}

func TestWriteDXFDeterministic(t *testing.T) {
	doc := &dxf.Document{
		Header: map[string]dxf.Record{
			"$B": {dxf.P(1, "b")},
			"$A": {dxf.P(1, "a")},
			"$C": {dxf.P(1, "c")},
		},
	}
	var first bytes.Buffer
	if err := WriteDXF(doc, &first); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		var buf bytes.Buffer
		if err := WriteDXF(doc, &buf); err != nil {
			t.Fatal(err)
		}
		if buf.String() != first.String() {
			t.Fatal("WriteDXF output not deterministic")
		}
	}
	out := first.String()
	if a, b := strings.Index(out, "$A"), strings.Index(out, "$B"); a > b {
		t.Errorf("header variables not sorted: $A at %d, $B at %d", a, b)
	}
}

func TestReadJSON(t *testing.T) {
	in := `{"ENTITIES": [[[0, "LINE"], [10, "1"], [20, "2"]]]}`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	want := []dxf.Record{{dxf.P(0, "LINE"), dxf.P(10, "1"), dxf.P(20, "2")}}
	if !reflect.DeepEqual(doc.Entities, want) {
		t.Errorf("Entities = %v, want %v", doc.Entities, want)
	}

	_, err = ReadJSON(strings.NewReader(`{"ENTITIES": [[[0]]]}`))
	if got := errors.GetCode(err); got != errors.ErrCodeInvalidDocument {
		t.Errorf("malformed pair: code = %q, want %q", got, errors.ErrCodeInvalidDocument)
	}
}

func TestReadDocumentSniff(t *testing.T) {
	doc, err := ReadDocument(strings.NewReader(`{"ENTITIES": [[[0, "LINE"]]]}`), "")
	if err != nil {
		t.Fatalf("ReadDocument: %v", err)
	}
	if len(doc.Entities) != 1 {
		t.Errorf("entities = %d, want 1", len(doc.Entities))
	}
}

func TestReadDocumentMaxSize(t *testing.T) {
	_, err := ReadDocument(strings.NewReader(sample), FormatDXF, WithMaxSize(16))
	if got := errors.GetCode(err); got != errors.ErrCodeTooLarge {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeTooLarge)
	}
}

func TestImportExport(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "plan.dxf")
	if err := os.WriteFile(src, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := ImportDocument(src)
	if err != nil {
		t.Fatalf("ImportDocument: %v", err)
	}

	for _, name := range []string{"plan.json", "plan.msgpack", "copy.dxf"} {
		dst := filepath.Join(dir, name)
		if err := ExportDocument(doc, dst); err != nil {
			t.Fatalf("ExportDocument(%s): %v", name, err)
		}
		back, err := ImportDocument(dst)
		if err != nil {
			t.Fatalf("ImportDocument(%s): %v", name, err)
		}
		if !reflect.DeepEqual(back, doc) {
			t.Errorf("%s does not round trip", name)
		}
	}

	_, err = ImportDocument(filepath.Join(dir, "missing.dxf"))
	if got := errors.GetCode(err); got != errors.ErrCodeFileNotFound {
		t.Errorf("missing file code = %q, want %q", got, errors.ErrCodeFileNotFound)
	}
}

func TestFormats(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"a.dxf", FormatDXF},
		{"a.DXF", FormatDXF},
		{"a.json", FormatJSON},
		{"a.msgpack", FormatMsgpack},
		{"a", FormatDXF},
	}
	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.want {
			t.Errorf("DetectFormat(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}

	if got := SniffFormat([]byte{0x83, 0xa1}); got != FormatMsgpack {
		t.Errorf("SniffFormat(fixmap) = %q, want msgpack", got)
	}
	if got := SniffFormat([]byte("  0\nSECTION\n")); got != FormatDXF {
		t.Errorf("SniffFormat(ascii) = %q, want dxf", got)
	}
	if _, err := ParseFormat("dwg"); errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("ParseFormat(dwg) code = %q", errors.GetCode(err))
	}
}
