package text

// Kind identifies the variant held by a [Run].
type Kind int

const (
	// KindText is literal text.
	KindText Kind = iota
	// KindGroup holds nested runs whose formatting does not leak outward.
	KindGroup
	// KindDecoration replaces the decoration state for the rest of the group.
	KindDecoration
	// KindStack is a stacked fraction or tolerance.
	KindStack
	// KindFont replaces the font for the rest of the group.
	KindFont
	// KindOblique replaces the oblique angle for the rest of the group.
	KindOblique
	// KindBreak is a paragraph break.
	KindBreak
)

// Decoration is the set of line decorations in effect.
type Decoration struct {
	Underline     bool
	Overline      bool
	Strikethrough bool
}

// Any reports whether at least one decoration is set.
func (d Decoration) Any() bool {
	return d.Underline || d.Overline || d.Strikethrough
}

// Stack is a stacked fraction. Sep is '/', '#' or '^'.
type Stack struct {
	Upper string
	Lower string
	Sep   byte
}

// Font is a font override.
type Font struct {
	Family string
	Bold   bool
	Italic bool
}

// Run is one element of tokenized text content. Only the fields relevant
// to Kind are set.
type Run struct {
	Kind       Kind
	Text       string
	Runs       []Run
	Decoration Decoration
	Stack      Stack
	Font       Font
	Oblique    float64
}

// appendText adds s to runs, merging with a trailing text run.
func appendText(runs []Run, s string, deco Decoration) []Run {
	if s == "" {
		return runs
	}
	if n := len(runs); n > 0 && runs[n-1].Kind == KindText && runs[n-1].Decoration == deco {
		runs[n-1].Text += s
		return runs
	}
	return append(runs, Run{Kind: KindText, Text: s, Decoration: deco})
}

// special maps the letter after %% to its replacement character.
var special = map[byte]string{
	'd': "°",
	'p': "±",
	'c': "⌀",
	'%': "%",
}
