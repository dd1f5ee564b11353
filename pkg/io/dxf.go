package io

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/dxf/codepage"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// ReadDXF parses an ASCII drawing exchange file.
//
// Input that is not valid UTF-8 is decoded first, using the codepage from
// [WithCodepage] or else the file's $DWGCODEPAGE (default ANSI_1252).
func ReadDXF(r io.Reader, opts ...ReadOption) (*dxf.Document, error) {
	o := newReadOptions(opts)

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if bytes.HasPrefix(data, binarySentinel) {
		return nil, errors.New(errors.ErrCodeInvalidFormat, "binary DXF is not supported; save the drawing as ASCII DXF")
	}
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	if !utf8.Valid(data) {
		cp := o.codepage
		if cp == "" {
			cp = sniffCodepage(data)
		}
		decoded, err := codepage.Decode(cp, data)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode %s text", cp)
		}
		data = decoded
	}

	pairs, err := readPairs(data)
	if err != nil {
		return nil, err
	}
	return buildDocument(pairs), nil
}

// sniffCodepage finds $DWGCODEPAGE without decoding the file; the variable
// name and codepage names are plain ASCII.
func sniffCodepage(data []byte) string {
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	found := false
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "$DWGCODEPAGE":
			found = true
		case found && line == "3":
			if sc.Scan() {
				return strings.TrimSpace(sc.Text())
			}
		case line == "ENDSEC" && found:
			return codepage.Default
		}
	}
	return codepage.Default
}

// readPairs splits the file into (code, value) pairs. Codes sit alone on
// their line; values keep everything but the line ending.
func readPairs(data []byte) ([]dxf.Pair, error) {
	var pairs []dxf.Pair
	sc := bufio.NewScanner(bytes.NewReader(data))
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		codeText := strings.TrimSpace(sc.Text())
		if codeText == "" {
			continue
		}
		code, err := strconv.Atoi(codeText)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: invalid group code %q", line, codeText)
		}
		if !sc.Scan() {
			return nil, errors.New(errors.ErrCodeInvalidDocument, "line %d: group code %d has no value", line, code)
		}
		line++
		value := strings.TrimRight(sc.Text(), "\r")
		if code == 0 || code == 2 || code == 9 {
			value = strings.TrimSpace(value)
		}
		pairs = append(pairs, dxf.P(code, value))
		if code == 0 && value == "EOF" {
			break
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "line %d", line)
	}
	return pairs, nil
}

// splitRecords cuts a pair stream into records, each starting at code 0.
// Pairs before the first code 0 are dropped.
func splitRecords(pairs []dxf.Pair) []dxf.Record {
	var records []dxf.Record
	for _, p := range pairs {
		if p.Code == 0 {
			records = append(records, dxf.Record{p})
			continue
		}
		if n := len(records); n > 0 {
			records[n-1] = append(records[n-1], p)
		}
	}
	return records
}

// sections groups pairs by section name, dropping the SECTION/ENDSEC
// markers themselves.
func sections(pairs []dxf.Pair) map[string][]dxf.Pair {
	out := make(map[string][]dxf.Pair)
	var (
		name string
		in   bool
	)
	for i := 0; i < len(pairs); i++ {
		p := pairs[i]
		switch {
		case p.Code == 0 && p.Value == "SECTION":
			name, in = "", true
			if i+1 < len(pairs) && pairs[i+1].Code == 2 {
				name = pairs[i+1].Value
				i++
			}
		case p.Code == 0 && (p.Value == "ENDSEC" || p.Value == "EOF"):
			in = false
		case in && name != "":
			out[name] = append(out[name], p)
		}
	}
	return out
}

func buildDocument(pairs []dxf.Pair) *dxf.Document {
	doc := &dxf.Document{}
	for name, body := range sections(pairs) {
		switch name {
		case dxf.SectionHeader:
			doc.Header = buildHeader(body)
		case dxf.SectionClasses:
			doc.Classes = splitRecords(body)
		case dxf.SectionTables:
			doc.Tables = buildTables(splitRecords(body))
		case dxf.SectionBlocks:
			doc.Blocks = buildBlocks(splitRecords(body))
		case dxf.SectionEntities:
			doc.Entities = splitRecords(body)
		case dxf.SectionObjects:
			doc.Objects = splitRecords(body)
		case dxf.SectionACDSData:
			doc.ACDSData = splitRecords(body)
		}
	}
	return doc
}

// buildHeader keys each variable (code 9) to the pairs that follow it.
func buildHeader(pairs []dxf.Pair) map[string]dxf.Record {
	header := make(map[string]dxf.Record)
	var name string
	for _, p := range pairs {
		if p.Code == 9 {
			name = p.Value
			if _, ok := header[name]; !ok {
				header[name] = dxf.Record{}
			}
			continue
		}
		if name != "" {
			header[name] = append(header[name], p)
		}
	}
	return header
}

// buildTables groups table rows under their TABLE name. The TABLE record
// itself, which only carries table metadata, is not kept.
func buildTables(records []dxf.Record) map[string][]dxf.Record {
	tables := make(map[string][]dxf.Record)
	var name string
	for _, rec := range records {
		switch rec.Type() {
		case "TABLE":
			name = rec.Get(2)
			if _, ok := tables[name]; !ok && name != "" {
				tables[name] = nil
			}
		case "ENDTAB":
			name = ""
		default:
			if name != "" {
				tables[name] = append(tables[name], rec)
			}
		}
	}
	return tables
}

// buildBlocks groups block definitions by name, keeping the BLOCK and
// ENDBLK markers around each entity list.
func buildBlocks(records []dxf.Record) map[string][]dxf.Record {
	blocks := make(map[string][]dxf.Record)
	var (
		name string
		open bool
	)
	for _, rec := range records {
		switch rec.Type() {
		case "BLOCK":
			name, open = rec.Get(2), true
			blocks[name] = []dxf.Record{rec}
		case "ENDBLK":
			if open {
				blocks[name] = append(blocks[name], rec)
			}
			open = false
		default:
			if open {
				blocks[name] = append(blocks[name], rec)
			}
		}
	}
	return blocks
}

// WriteDXF encodes doc as an ASCII drawing exchange file. Header variables,
// tables and blocks are written in name order so output is deterministic.
func WriteDXF(doc *dxf.Document, w io.Writer) error {
	bw := bufio.NewWriter(w)
	pair := func(code int, value string) {
		fmt.Fprintf(bw, "%3d\n%s\n", code, value)
	}
	records := func(recs []dxf.Record) {
		for _, rec := range recs {
			for _, p := range rec {
				pair(p.Code, p.Value)
			}
		}
	}
	section := func(name string, body func()) {
		pair(0, "SECTION")
		pair(2, name)
		body()
		pair(0, "ENDSEC")
	}

	if len(doc.Header) > 0 {
		section(dxf.SectionHeader, func() {
			for _, name := range sortedKeys(doc.Header) {
				pair(9, name)
				records([]dxf.Record{doc.Header[name]})
			}
		})
	}
	if len(doc.Classes) > 0 {
		section(dxf.SectionClasses, func() { records(doc.Classes) })
	}
	if len(doc.Tables) > 0 {
		section(dxf.SectionTables, func() {
			for _, name := range sortedKeys(doc.Tables) {
				pair(0, "TABLE")
				pair(2, name)
				records(doc.Tables[name])
				pair(0, "ENDTAB")
			}
		})
	}
	if len(doc.Blocks) > 0 {
		section(dxf.SectionBlocks, func() {
			for _, name := range sortedKeys(doc.Blocks) {
				records(doc.Blocks[name])
			}
		})
	}
	if doc.Entities != nil {
		section(dxf.SectionEntities, func() { records(doc.Entities) })
	}
	if len(doc.Objects) > 0 {
		section(dxf.SectionObjects, func() { records(doc.Objects) })
	}
	if len(doc.ACDSData) > 0 {
		section(dxf.SectionACDSData, func() { records(doc.ACDSData) })
	}
	pair(0, "EOF")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
