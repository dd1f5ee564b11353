package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// WriteDocument encodes doc in format f and writes it to w.
func WriteDocument(doc *dxf.Document, f Format, w io.Writer) error {
	switch f {
	case FormatDXF:
		return WriteDXF(doc, w)
	case FormatJSON:
		return WriteJSON(doc, w)
	case FormatMsgpack:
		return WriteMsgpack(doc, w)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
}

// WriteJSON encodes doc as indented JSON. The output can be re-imported with
// [ReadJSON].
func WriteJSON(doc *dxf.Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteMsgpack encodes doc as MessagePack with map keys sorted.
func WriteMsgpack(doc *dxf.Document, w io.Writer) error {
	enc := msgpack.NewEncoder(w)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportDocument writes doc to path, choosing the format from its extension.
func ExportDocument(doc *dxf.Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteDocument(doc, DetectFormat(path), f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
