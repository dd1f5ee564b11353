package io

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

// ReadOption configures document reading.
type ReadOption func(*readOptions)

type readOptions struct {
	codepage string
	maxSize  int64
}

func newReadOptions(opts []ReadOption) readOptions {
	var o readOptions
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithCodepage forces the codepage used to decode legacy (non UTF-8) DXF
// text, overriding the file's $DWGCODEPAGE.
func WithCodepage(name string) ReadOption {
	return func(o *readOptions) { o.codepage = name }
}

// WithMaxSize rejects input larger than n bytes. Zero means no limit.
func WithMaxSize(n int64) ReadOption {
	return func(o *readOptions) { o.maxSize = n }
}

// ReadDocument decodes a document in format f from r. An empty format is
// sniffed from the content.
//
// ReadDocument does not close r.
func ReadDocument(r io.Reader, f Format, opts ...ReadOption) (*dxf.Document, error) {
	o := newReadOptions(opts)
	data, err := readLimited(r, o.maxSize)
	if err != nil {
		return nil, err
	}
	if f == "" {
		f = SniffFormat(data)
	}
	switch f {
	case FormatDXF:
		return ReadDXF(bytes.NewReader(data), opts...)
	case FormatJSON:
		return ReadJSON(bytes.NewReader(data))
	case FormatMsgpack:
		return ReadMsgpack(bytes.NewReader(data))
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown document format %q", f)
}

func readLimited(r io.Reader, limit int64) ([]byte, error) {
	if limit <= 0 {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("read: %w", err)
		}
		return data, nil
	}
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, &errors.LimitError{Limit: limit, What: "document"}
	}
	return data, nil
}

// ReadJSON decodes the JSON document shape described in the package docs.
func ReadJSON(r io.Reader) (*dxf.Document, error) {
	var doc dxf.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode json")
	}
	return &doc, nil
}

// ReadMsgpack decodes a MessagePack document written by [WriteMsgpack].
func ReadMsgpack(r io.Reader) (*dxf.Document, error) {
	var doc dxf.Document
	if err := msgpack.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decode msgpack")
	}
	return &doc, nil
}

// ImportDocument reads the file at path, choosing the format from its
// extension.
func ImportDocument(path string, opts ...ReadOption) (*dxf.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	doc, err := ReadDocument(f, DetectFormat(path), opts...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}
