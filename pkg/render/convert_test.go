package render

import (
	"bytes"
	"context"
	"testing"

	"github.com/matzehuels/dxfsvg/pkg/errors"
)

const square = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect width="10" height="10"/></svg>`

func TestConvertMissingTool(t *testing.T) {
	old := converter
	converter = "dxfsvg-no-such-converter"
	defer func() { converter = old }()

	if Available() {
		t.Fatal("Available() = true for missing tool")
	}
	_, err := ToPDF(context.Background(), []byte(square))
	if got := errors.GetCode(err); got != errors.ErrCodeUnsupported {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeUnsupported)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	png, err := ToPNG(context.Background(), []byte(square), 1)
	if err != nil {
		t.Fatalf("ToPNG: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("ToPNG output is not a PNG: % x", png[:min(8, len(png))])
	}
}

func TestToPDF(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	pdf, err := ToPDF(context.Background(), []byte(square))
	if err != nil {
		t.Fatalf("ToPDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Error("ToPDF output is not a PDF")
	}
}

func TestToPDFInvalidSVG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	_, err := ToPDF(context.Background(), []byte("not svg"))
	if got := errors.GetCode(err); got != errors.ErrCodeConversion {
		t.Errorf("code = %q, want %q", got, errors.ErrCodeConversion)
	}
}
