package cache

import "fmt"

// Keyer builds cache keys.
type Keyer interface {
	// DocumentKey names a parsed document, keyed by the hash of its input bytes.
	DocumentKey(inputHash string, opts DocumentKeyOpts) string

	// ArtifactKey names one rendered output of a document.
	ArtifactKey(inputHash string, opts ArtifactKeyOpts) string
}

// DocumentKeyOpts holds the parse options that change a parsed document.
type DocumentKeyOpts struct {
	Format   string `json:"format,omitempty"`
	Codepage string `json:"codepage,omitempty"`
}

// ArtifactKeyOpts holds the render options that change an artifact.
type ArtifactKeyOpts struct {
	Format        string  `json:"format"`
	Codepage      string  `json:"codepage,omitempty"`
	FontFamily    string  `json:"font_family,omitempty"`
	MaxBlockDepth int     `json:"max_block_depth,omitempty"`
	PNGScale      float64 `json:"png_scale,omitempty"`
}

// DefaultKeyer hashes options into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DocumentKey returns "doc:<hash>".
func (DefaultKeyer) DocumentKey(inputHash string, opts DocumentKeyOpts) string {
	return hashKey("doc", inputHash, opts)
}

// ArtifactKey returns "artifact:<format>:<hash>".
func (DefaultKeyer) ArtifactKey(inputHash string, opts ArtifactKeyOpts) string {
	return hashKey(fmt.Sprintf("artifact:%s", opts.Format), inputHash, opts)
}
