package svg

import (
	"fmt"
	"math"
	"strings"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/dxf/text"
)

// TEXT horizontal (72) and vertical (73) justification.
var (
	textAnchors   = []string{"", "middle", "end", "", "middle", ""}
	textBaselines = []string{"", "text-after-edge", "central", "text-before-edge"}
)

// mtextAttachment is one entry of the MTEXT attachment point table (71).
type mtextAttachment struct {
	baseline string
	anchor   string
	// shift is the share of the extra lines that sits above the anchor.
	shift float64
}

var mtextAttachments = []mtextAttachment{
	{},
	{"text-before-edge", "", 0},
	{"text-before-edge", "middle", 0},
	{"text-before-edge", "end", 0},
	{"central", "", 0.5},
	{"central", "middle", 0.5},
	{"central", "end", 0.5},
	{"text-after-edge", "", 1},
	{"text-after-edge", "middle", 1},
	{"text-after-edge", "end", 1},
}

// lineSpacing is the default MTEXT line pitch in multiples of the font size.
const lineSpacing = 5.0 / 3

func lookup(table []string, i int) string {
	if i < 0 || i >= len(table) {
		return ""
	}
	return table[i]
}

// styleFont returns the font-family for an entity's text style (code 7).
func (r *renderer) styleFont(e dxf.Record) string {
	name := e.Get(7)
	if name == "" {
		name = "STANDARD"
	}
	row, _ := r.doc.FindTableRow(dxf.TableStyle, dxf.TableStyle, name)
	return r.resolveFont(trim(row.Get(3)))
}

// textAttrs writes the placement attributes shared by TEXT and MTEXT.
func (r *renderer) textAttrs(b *strings.Builder, e dxf.Record, x, y, height, anchor, baseline string, rotation float64) {
	fmt.Fprintf(b, `<text%s x="%s" y="%s" font-size="%s"`, r.attrs(e, false), x, y, height)
	if anchor != "" {
		fmt.Fprintf(b, ` text-anchor="%s"`, anchor)
	}
	if baseline != "" {
		fmt.Fprintf(b, ` dominant-baseline="%s"`, baseline)
	}
	if family := r.styleFont(e); family != "" {
		fmt.Fprintf(b, ` font-family="%s"`, escapeXML(family))
	}
	if fmtNum(rotation) != "0" {
		fmt.Fprintf(b, ` transform="rotate(%s %s %s)"`, fmtNum(-rotation), x, y)
	}
}

// renderText draws single-line text.
func renderText(r *renderer, e dxf.Record, _ []dxf.Record) string {
	return r.singleLineText(e, 73)
}

// singleLineText draws TEXT and ATTRIB, which keep their vertical
// justification in different codes. When either justification code is set
// the alignment point 11/21 is used instead of the insertion point.
func (r *renderer) singleLineText(e dxf.Record, valignCode int) string {
	halign, valign := intOr(e, 72, 0), intOr(e, valignCode, 0)
	xc, yc := 10, 20
	if (halign != 0 || valign != 0) && e.Has(11) {
		xc, yc = 11, 21
	}
	x, y, ok := point(e, xc, yc)
	height := trim(e.Get(40))
	if !ok || !isNumber(height) {
		return r.missing(e, "position or height")
	}
	runs := text.ParseText(r.decode(e.Get(1)))
	if len(runs) == 0 {
		return ""
	}

	var b strings.Builder
	r.textAttrs(&b, e, x, y, height, lookup(textAnchors, halign), lookup(textBaselines, valign), numOr(e, 50, 0))
	if len(runs) == 1 {
		b.WriteString(decorationAttr(runs[0].Decoration))
		b.WriteString(">" + escapeXML(runs[0].Text))
	} else {
		b.WriteString(">")
		for _, run := range runs {
			fmt.Fprintf(&b, "<tspan%s>%s</tspan>", decorationAttr(run.Decoration), escapeXML(run.Text))
		}
	}
	b.WriteString("</text>")
	return b.String()
}

// renderAttrib draws a block attribute value unless it is flagged
// invisible. Its vertical justification is code 74; 73 is the field length.
func renderAttrib(r *renderer, e dxf.Record, _ []dxf.Record) string {
	if intOr(e, 70, 0)&1 == 1 {
		return ""
	}
	return r.singleLineText(e, 74)
}

// renderMText draws multi-line rich text. Content is the continuation
// chunks (3) followed by the final chunk (1).
func renderMText(r *renderer, e dxf.Record, _ []dxf.Record) string {
	x, y, ok := point(e, 10, 20)
	height := trim(e.Get(40))
	if !ok || !isNumber(height) {
		return r.missing(e, "position or height")
	}
	content := strings.Join(e.Values(3), "") + e.Get(1)
	if content == "" {
		return ""
	}

	var att mtextAttachment
	if i := intOr(e, 71, 0); i >= 0 && i < len(mtextAttachments) {
		att = mtextAttachments[i]
	}
	rotation, ok := num(e, 50)
	if !ok {
		if dx, dy, ok := pointf(e, 11, 21); ok && (dx != 0 || dy != 0) {
			rotation = math.Atan2(dy, dx) * 180 / math.Pi
		}
	}

	lines := splitLines(r.parseMText(r.decode(content), e.Get(5)))
	pitch := lineSpacing * numOr(e, 44, 1)

	var b strings.Builder
	r.textAttrs(&b, e, x, y, height, att.anchor, att.baseline, rotation)
	b.WriteString(">")
	if len(lines) == 1 {
		b.WriteString(r.renderRuns(lines[0]))
	} else {
		for i, line := range lines {
			dy := pitch
			if i == 0 {
				dy = -float64(len(lines)-1) * pitch * att.shift
			}
			fmt.Fprintf(&b, `<tspan x="%s"`, x)
			if s := fmtNum(roundTo(dy, 4)); s != "0" {
				fmt.Fprintf(&b, ` dy="%sem"`, s)
			}
			b.WriteString(">" + r.renderRuns(line) + "</tspan>")
		}
	}
	b.WriteString("</text>")
	return b.String()
}
