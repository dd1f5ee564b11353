package dxf

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Section names as they appear after "0 SECTION / 2 <name>".
const (
	SectionHeader   = "HEADER"
	SectionClasses  = "CLASSES"
	SectionTables   = "TABLES"
	SectionBlocks   = "BLOCKS"
	SectionEntities = "ENTITIES"
	SectionObjects  = "OBJECTS"
	SectionACDSData = "ACDSDATA"
)

// Table names used by the renderer.
const (
	TableLayer    = "LAYER"
	TableLinetype = "LTYPE"
	TableDimStyle = "DIMSTYLE"
	TableStyle    = "STYLE"
)

// Pair is a single group code and its raw string value.
type Pair struct {
	_msgpack struct{} `msgpack:",as_array"`

	Code  int
	Value string
}

// P is shorthand for constructing a Pair.
func P(code int, value string) Pair {
	return Pair{Code: code, Value: value}
}

// MarshalJSON encodes the pair as a two-element array: [code, "value"].
func (p Pair) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Code, p.Value})
}

// UnmarshalJSON decodes a [code, "value"] array.
func (p *Pair) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw) != 2 {
		return fmt.Errorf("group code pair: want 2 elements, got %d", len(raw))
	}
	if err := json.Unmarshal(raw[0], &p.Code); err != nil {
		return fmt.Errorf("group code: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Value); err != nil {
		return fmt.Errorf("group value for code %d: %w", p.Code, err)
	}
	return nil
}

// Record is an ordered list of group code pairs. Codes may repeat.
type Record []Pair

// Type returns the value of the leading code 0, the entity or table-row tag.
func (r Record) Type() string {
	return r.Get(0)
}

// Value returns the first value stored under code.
func (r Record) Value(code int) (string, bool) {
	for _, p := range r {
		if p.Code == code {
			return p.Value, true
		}
	}
	return "", false
}

// Get returns the first value stored under code, or "" when absent.
func (r Record) Get(code int) string {
	v, _ := r.Value(code)
	return v
}

// Has reports whether code occurs at least once.
func (r Record) Has(code int) bool {
	_, ok := r.Value(code)
	return ok
}

// Values returns every value stored under code in document order.
func (r Record) Values(code int) []string {
	var out []string
	for _, p := range r {
		if p.Code == code {
			out = append(out, p.Value)
		}
	}
	return out
}

// Document is a parsed drawing. Every section is optional.
type Document struct {
	// Header maps variable names ("$ACADVER") to their group code pairs.
	Header   map[string]Record   `json:"HEADER,omitempty" msgpack:"HEADER,omitempty"`
	Classes  []Record            `json:"CLASSES,omitempty" msgpack:"CLASSES,omitempty"`
	Tables   map[string][]Record `json:"TABLES,omitempty" msgpack:"TABLES,omitempty"`
	Blocks   map[string][]Record `json:"BLOCKS,omitempty" msgpack:"BLOCKS,omitempty"`
	Entities []Record            `json:"ENTITIES,omitempty" msgpack:"ENTITIES,omitempty"`
	Objects  []Record            `json:"OBJECTS,omitempty" msgpack:"OBJECTS,omitempty"`
	ACDSData []Record            `json:"ACDSDATA,omitempty" msgpack:"ACDSDATA,omitempty"`
}

// HeaderValue returns the first value of code within header variable name.
func (d *Document) HeaderValue(name string, code int) (string, bool) {
	if d == nil || d.Header == nil {
		return "", false
	}
	rec, ok := d.Header[name]
	if !ok {
		return "", false
	}
	return rec.Value(code)
}

// Table returns the rows of the named table, or nil.
func (d *Document) Table(name string) []Record {
	if d == nil || d.Tables == nil {
		return nil
	}
	return d.Tables[name]
}

// Block returns the entity list of the named block, markers included.
func (d *Document) Block(name string) ([]Record, bool) {
	if d == nil || d.Blocks == nil {
		return nil, false
	}
	b, ok := d.Blocks[name]
	return b, ok
}

// FindTableRow returns the first row of table whose type tag is tag and whose
// name (code 2) matches name. Names compare case-insensitively, as symbol
// table names do.
func (d *Document) FindTableRow(table, tag, name string) (Record, bool) {
	for _, row := range d.Table(table) {
		if row.Type() == tag && strings.EqualFold(row.Get(2), name) {
			return row, true
		}
	}
	return nil, false
}
