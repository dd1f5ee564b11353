package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// Rules are tried in order; the first match wins.
	mtextLexer = lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Stack", Pattern: `\\S[^;]*;`},
		{Name: "Font", Pattern: `\\[fF][^;]*;`},
		{Name: "Oblique", Pattern: `\\Q[^;]*;`},
		{Name: "Param", Pattern: `\\[HhCcTtWwAap][^;]*;`},
		{Name: "Toggle", Pattern: `\\[LlOoKk]`},
		{Name: "Break", Pattern: `\\[PNX]`},
		{Name: "Unicode", Pattern: `\\U\+[0-9A-Fa-f]{4}`},
		{Name: "NBSP", Pattern: `\\~`},
		{Name: "Escaped", Pattern: `\\[\\{}]`},
		// Multibyte (\M+) and unassigned single-letter codes are dropped.
		{Name: "Unknown", Pattern: `\\M\+[0-9A-Fa-f]{5}|\\[BDEGIJMRVYZbdegijmnqrsuvxyz]`},
		{Name: "Special", Pattern: `%%(?:[dDpPcC%]|[0-9]{3})`},
		{Name: "Percent", Pattern: `%`},
		{Name: "LBrace", Pattern: `{`},
		{Name: "RBrace", Pattern: `}`},
		{Name: "Text", Pattern: `[^\\{}%]+`},
	})

	mtextParser = participle.MustBuild[mtextAST](
		participle.Lexer(mtextLexer),
	)
)

type mtextAST struct {
	Items []*mtextItem `parser:"@@*"`
}

type mtextItem struct {
	Open    bool         `parser:"  @'{'"`
	Items   []*mtextItem `parser:"    @@* '}'"`
	Stack   *string      `parser:"| @Stack"`
	Font    *string      `parser:"| @Font"`
	Oblique *string      `parser:"| @Oblique"`
	Param   *string      `parser:"| @Param"`
	Toggle  *string      `parser:"| @Toggle"`
	Break   *string      `parser:"| @Break"`
	Unicode *string      `parser:"| @Unicode"`
	NBSP    *string      `parser:"| @NBSP"`
	Escaped *string      `parser:"| @Escaped"`
	Special *string      `parser:"| @Special"`
	Unknown *string      `parser:"| @Unknown"`
	Text    *string      `parser:"| @( Text | Percent )"`
}

// ParseMText tokenizes the full content of an MTEXT entity (continuation
// chunks already concatenated).
func ParseMText(s string) ([]Run, error) {
	if s == "" {
		return nil, nil
	}
	ast, err := mtextParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("mtext: %w", err)
	}
	return buildRuns(ast.Items, Decoration{})
}

func buildRuns(items []*mtextItem, deco Decoration) ([]Run, error) {
	var runs []Run
	for _, it := range items {
		switch {
		case it.Open:
			children, err := buildRuns(it.Items, deco)
			if err != nil {
				return nil, err
			}
			runs = append(runs, Run{Kind: KindGroup, Runs: children})
		case it.Stack != nil:
			runs = append(runs, Run{Kind: KindStack, Stack: parseStack(argument(*it.Stack))})
		case it.Font != nil:
			runs = append(runs, Run{Kind: KindFont, Font: parseFont(argument(*it.Font))})
		case it.Oblique != nil:
			angle, err := strconv.ParseFloat(strings.TrimSpace(argument(*it.Oblique)), 64)
			if err != nil {
				return nil, fmt.Errorf("mtext: oblique angle %q: %w", *it.Oblique, err)
			}
			runs = append(runs, Run{Kind: KindOblique, Oblique: angle})
		case it.Toggle != nil:
			deco = toggle(deco, (*it.Toggle)[1])
			runs = append(runs, Run{Kind: KindDecoration, Decoration: deco})
		case it.Break != nil:
			runs = append(runs, Run{Kind: KindBreak})
		case it.Unicode != nil:
			n, err := strconv.ParseUint((*it.Unicode)[3:], 16, 32)
			if err != nil {
				return nil, fmt.Errorf("mtext: unicode escape %q: %w", *it.Unicode, err)
			}
			runs = appendText(runs, string(rune(n)), deco)
		case it.NBSP != nil:
			runs = appendText(runs, "\u00a0", deco)
		case it.Escaped != nil:
			runs = appendText(runs, (*it.Escaped)[1:], deco)
		case it.Special != nil:
			runs = appendText(runs, expandSpecial(*it.Special), deco)
		case it.Text != nil:
			runs = appendText(runs, *it.Text, deco)
		}
	}
	return runs, nil
}

// argument strips the two-character code prefix and the terminating ';'.
func argument(tok string) string {
	return strings.TrimSuffix(tok[2:], ";")
}

func toggle(d Decoration, c byte) Decoration {
	switch c {
	case 'L':
		d.Underline = true
	case 'l':
		d.Underline = false
	case 'O':
		d.Overline = true
	case 'o':
		d.Overline = false
	case 'K':
		d.Strikethrough = true
	case 'k':
		d.Strikethrough = false
	}
	return d
}

func parseStack(s string) Stack {
	i := strings.IndexAny(s, "^/#")
	if i < 0 {
		return Stack{Upper: s}
	}
	return Stack{Upper: s[:i], Lower: s[i+1:], Sep: s[i]}
}

func parseFont(s string) Font {
	parts := strings.Split(s, "|")
	f := Font{Family: parts[0]}
	for _, p := range parts[1:] {
		switch {
		case p == "b1":
			f.Bold = true
		case p == "i1":
			f.Italic = true
		}
	}
	return f
}

func expandSpecial(tok string) string {
	code := tok[2:]
	if len(code) == 3 {
		n, _ := strconv.Atoi(code)
		return string(rune(n))
	}
	return special[lower(code[0])]
}
