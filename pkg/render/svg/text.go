package svg

import (
	"fmt"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf/text"
)

// textDecoration returns the text-decoration value for d, or "".
func textDecoration(d text.Decoration) string {
	var parts []string
	if d.Underline {
		parts = append(parts, "underline")
	}
	if d.Overline {
		parts = append(parts, "overline")
	}
	if d.Strikethrough {
		parts = append(parts, "line-through")
	}
	return strings.Join(parts, " ")
}

func decorationAttr(d text.Decoration) string {
	if v := textDecoration(d); v != "" {
		return ` text-decoration="` + v + `"`
	}
	return ""
}

// renderRuns turns tokenized text content into character data and nested
// <tspan> elements. Font and oblique overrides stay open until the end of
// the enclosing group.
func (r *renderer) renderRuns(runs []text.Run) string {
	var b strings.Builder
	open := 0
	for _, run := range runs {
		switch run.Kind {
		case text.KindText:
			b.WriteString(r.textSpan(run))
		case text.KindGroup:
			b.WriteString(r.renderRuns(run.Runs))
		case text.KindStack:
			b.WriteString(r.stackSpan(run.Stack))
		case text.KindFont:
			b.WriteString("<tspan" + r.fontAttrs(run.Font) + ">")
			open++
		case text.KindOblique:
			fmt.Fprintf(&b, `<tspan font-style="oblique %sdeg">`, fmtNum(run.Oblique))
			open++
		case text.KindDecoration, text.KindBreak:
			// Text runs carry their decoration; breaks are split out by splitLines.
		}
	}
	b.WriteString(strings.Repeat("</tspan>", open))
	return b.String()
}

func (r *renderer) textSpan(run text.Run) string {
	s := escapeXML(run.Text)
	if !run.Decoration.Any() {
		return s
	}
	return "<tspan" + decorationAttr(run.Decoration) + ">" + s + "</tspan>"
}

// stackSpan renders a stacked fraction as raised and lowered halves.
func (r *renderer) stackSpan(s text.Stack) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<tspan baseline-shift="super" font-size="70%%">%s</tspan>`, escapeXML(s.Upper))
	if s.Sep == '/' || s.Sep == '#' {
		b.WriteString("/")
	}
	if s.Lower != "" {
		fmt.Fprintf(&b, `<tspan baseline-shift="sub" font-size="70%%">%s</tspan>`, escapeXML(s.Lower))
	}
	return b.String()
}

func (r *renderer) fontAttrs(f text.Font) string {
	var b strings.Builder
	if f.Family != "" {
		fmt.Fprintf(&b, ` font-family="%s"`, escapeXML(r.resolveFont(f.Family)))
	}
	if f.Bold {
		b.WriteString(` font-weight="bold"`)
	}
	if f.Italic {
		b.WriteString(` font-style="italic"`)
	}
	return b.String()
}

// splitLines splits runs at paragraph breaks, including breaks nested in
// groups. Font and oblique overrides in effect at a break are repeated at
// the start of the next line.
func splitLines(runs []text.Run) [][]text.Run {
	lines := [][]text.Run{nil}
	var carry []text.Run
	add := func(run text.Run) {
		lines[len(lines)-1] = append(lines[len(lines)-1], run)
	}
	newLine := func() {
		lines = append(lines, append([]text.Run(nil), carry...))
	}

	for _, run := range runs {
		switch run.Kind {
		case text.KindBreak:
			newLine()
		case text.KindGroup:
			for i, sub := range splitLines(run.Runs) {
				if i > 0 {
					newLine()
				}
				add(text.Run{Kind: text.KindGroup, Runs: sub})
			}
		case text.KindFont, text.KindOblique:
			carry = setOverride(carry, run)
			add(run)
		default:
			add(run)
		}
	}
	return lines
}

func setOverride(carry []text.Run, run text.Run) []text.Run {
	for i := range carry {
		if carry[i].Kind == run.Kind {
			carry[i] = run
			return carry
		}
	}
	return append(carry, run)
}

// decode applies the legacy-string decoder, if any.
func (r *renderer) decode(s string) string {
	if r.decoder == nil {
		return s
	}
	return r.decoder(s)
}

// parseMText tokenizes MTEXT content, falling back to the raw string when
// the formatting codes are malformed.
func (r *renderer) parseMText(content string, handle string) []text.Run {
	runs, err := text.ParseMText(content)
	if err != nil {
		r.logger.Warn("malformed text formatting, rendering raw text", "handle", handle, "err", err)
		return []text.Run{{Kind: text.KindText, Text: content}}
	}
	return runs
}
