package svg

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/matzehuels/dxfsvg/pkg/dxf"
	"github.com/matzehuels/dxfsvg/pkg/errors"
)

func rec(pairs ...any) dxf.Record {
	r := make(dxf.Record, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		r = append(r, dxf.P(pairs[i].(int), pairs[i+1].(string)))
	}
	return r
}

func aci(i int) string { return fmt.Sprintf("aci%d", i) }

func TestRenderLine(t *testing.T) {
	r := newRenderer(nil)
	e := rec(0, "LINE", 8, "0", 10, "0", 20, "0", 11, "10", 21, "5")

	got := renderLine(r, e, nil)
	want := `<line data-8="0" vector-effect="non-scaling-stroke" x1="0" y1="0" x2="10" y2="-5"/>`
	if got != want {
		t.Errorf("renderLine = %s, want %s", got, want)
	}

	if got := renderLine(r, rec(0, "LINE", 10, "a", 20, "0", 11, "1", 21, "1"), nil); got != "" {
		t.Errorf("renderLine(non-numeric) = %q, want empty", got)
	}
}

func TestRenderArcLargeArcFlag(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name  string
		end   string
		wantD string
	}{
		{"quarter", "90", "M 5 0 A 5 5 0 0 0 0 -5"},
		{"three quarters", "270", "M 5 0 A 5 5 0 1 0 0 5"},
		{"half", "180", "M 5 0 A 5 5 0 0 0 -5 0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := rec(0, "ARC", 10, "0", 20, "0", 40, "5", 50, "0", 51, tt.end)
			got := renderArc(r, e, nil)
			if !strings.Contains(got, `d="`+tt.wantD+`"`) {
				t.Errorf("renderArc = %s, want d=%q", got, tt.wantD)
			}
		})
	}
}

func TestRenderLWPolyline(t *testing.T) {
	r := newRenderer(nil)
	vertices := []any{10, "0", 20, "0", 10, "10", 20, "0", 10, "10", 20, "10"}

	closed := rec(append([]any{0, "LWPOLYLINE", 90, "3", 70, "1"}, vertices...)...)
	if got := renderLWPolyline(r, closed, nil); !strings.Contains(got, `d="M 0 0 L 10 0 L 10 -10 Z"`) {
		t.Errorf("closed polyline = %s", got)
	}

	open := rec(append([]any{0, "LWPOLYLINE", 90, "3", 70, "0"}, vertices...)...)
	got := renderLWPolyline(r, open, nil)
	if !strings.Contains(got, `d="M 0 0 L 10 0 L 10 -10"`) {
		t.Errorf("open polyline = %s", got)
	}
	if strings.Contains(got, "Z") {
		t.Errorf("open polyline %s contains close-path", got)
	}
}

func TestRenderPolylineBulge(t *testing.T) {
	r := newRenderer(nil)
	e := rec(0, "POLYLINE", 70, "0")
	vertices := []dxf.Record{
		rec(0, "VERTEX", 10, "0", 20, "0", 42, "1"),
		rec(0, "VERTEX", 10, "10", 20, "0"),
	}

	got := renderPolyline(r, e, vertices)
	// A bulge of 1 is a counter-clockwise half circle over the chord.
	if !strings.Contains(got, `d="M 0 0 A 5 5 0 0 0 10 0"`) {
		t.Errorf("renderPolyline = %s", got)
	}
}

func TestRenderEntitiesCollectsVertices(t *testing.T) {
	r := newRenderer(nil)
	entities := []dxf.Record{
		rec(0, "POLYLINE", 70, "1"),
		rec(0, "VERTEX", 10, "0", 20, "0"),
		rec(0, "VERTEX", 10, "1", 20, "0"),
		rec(0, "VERTEX", 10, "1", 20, "1"),
		rec(0, "SEQEND"),
		rec(0, "LINE", 10, "0", 20, "0", 11, "1", 21, "1"),
	}

	got := r.renderEntities(entities)
	if !strings.Contains(got, `d="M 0 0 L 1 0 L 1 -1 Z"`) {
		t.Errorf("renderEntities = %s, want polyline through vertices", got)
	}
	if !strings.Contains(got, "<line") {
		t.Errorf("renderEntities = %s, want trailing line", got)
	}
}

func TestRenderEllipse(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name string
		e    dxf.Record
		want string
	}{
		{
			name: "axis aligned",
			e:    rec(0, "ELLIPSE", 10, "0", 20, "0", 11, "2", 21, "0", 40, "0.5"),
			want: `<ellipse vector-effect="non-scaling-stroke" cx="0" cy="0" rx="2" ry="1"/>`,
		},
		{
			name: "rotated",
			e:    rec(0, "ELLIPSE", 10, "1", 20, "1", 11, "0", 21, "2", 40, "0.5", 41, "0", 42, "6.283185307179586"),
			want: `<ellipse vector-effect="non-scaling-stroke" cx="1" cy="-1" rx="2" ry="1" transform="rotate(-90 1 -1)"/>`,
		},
		{
			name: "partial arc",
			e:    rec(0, "ELLIPSE", 10, "0", 20, "0", 11, "2", 21, "0", 40, "0.5", 41, "0", 42, "3.14159"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderEllipse(r, tt.e, nil); got != tt.want {
				t.Errorf("renderEllipse = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRenderSolid(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name   string
		e      dxf.Record
		points string
	}{
		{
			name:   "quadrilateral",
			e:      rec(0, "SOLID", 10, "0", 20, "0", 11, "1", 21, "0", 12, "0", 22, "1", 13, "1", 23, "1"),
			points: "0,0 1,0 1,-1 0,-1",
		},
		{
			name:   "triangle",
			e:      rec(0, "SOLID", 10, "0", 20, "0", 11, "1", 21, "0", 12, "0", 22, "1", 13, "0", 23, "1"),
			points: "0,0 1,0 0,-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderSolid(r, tt.e, nil)
			if !strings.Contains(got, `points="`+tt.points+`"`) || !strings.Contains(got, `fill="currentColor"`) {
				t.Errorf("renderSolid = %s, want points %q", got, tt.points)
			}
		})
	}
}

func TestRenderLeaderIgnoresExtrusion(t *testing.T) {
	r := newRenderer(nil)
	leader := rec(0, "LEADER", 10, "0", 20, "0", 10, "5", 20, "5", 230, "-1")
	got := r.renderEntity(leader, nil)
	if strings.Contains(got, "scale(-1,1)") {
		t.Errorf("leader mirrored: %s", got)
	}
	if !strings.Contains(got, `d="M 0 0 L 5 -5"`) {
		t.Errorf("leader = %s", got)
	}

	line := rec(0, "LINE", 10, "0", 20, "0", 11, "1", 21, "1", 230, "-1")
	if got := r.renderEntity(line, nil); !strings.HasPrefix(got, `<g transform="scale(-1,1)"><line`) {
		t.Errorf("mirrored line = %s", got)
	}
}

func TestRenderHatch(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name string
		e    dxf.Record
		want string
	}{
		{
			name: "polyline boundary",
			e: rec(0, "HATCH", 10, "0", 20, "0", 2, "SOLID", 70, "1", 91, "1",
				92, "2", 72, "0", 73, "1", 93, "3",
				10, "0", 20, "0", 10, "10", 20, "0", 10, "10", 20, "10",
				97, "0", 75, "0", 76, "1", 98, "1", 10, "1", 20, "1"),
			want: "M 0 0 L 10 0 L 10 -10 Z",
		},
		{
			name: "chained line edges",
			e: rec(0, "HATCH", 91, "1", 92, "1", 93, "2",
				72, "1", 10, "0", 20, "0", 11, "10", 21, "0",
				72, "1", 10, "10", 20, "0", 11, "10", 21, "10",
				97, "0", 75, "0"),
			want: "M 0 0 L 10 0 L 10 -10 Z",
		},
		{
			name: "disjoint line edges",
			e: rec(0, "HATCH", 91, "1", 92, "1", 93, "2",
				72, "1", 10, "0", 20, "0", 11, "1", 21, "0",
				72, "1", 10, "5", 20, "5", 11, "6", 21, "5",
				97, "0", 75, "0"),
			want: "M 0 0 L 1 0 M 5 -5 L 6 -5 Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := renderHatch(r, tt.e, nil)
			if !strings.Contains(got, `d="`+tt.want+`"`) {
				t.Errorf("renderHatch = %s, want d=%q", got, tt.want)
			}
			if !strings.Contains(got, `fill="currentColor" fill-opacity="0.3"`) {
				t.Errorf("renderHatch = %s, want translucent fill", got)
			}
		})
	}
}

func TestRenderText(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name string
		e    dxf.Record
		want string
	}{
		{
			name: "plain",
			e:    rec(0, "TEXT", 10, "1", 20, "2", 40, "2.5", 1, "A<B"),
			want: `<text x="1" y="-2" font-size="2.5" font-family="Arial,sans-serif">A&lt;B</text>`,
		},
		{
			name: "single decorated run",
			e:    rec(0, "TEXT", 10, "0", 20, "0", 40, "1", 1, "%%uAB"),
			want: `<text x="0" y="0" font-size="1" font-family="Arial,sans-serif" text-decoration="underline">AB</text>`,
		},
		{
			name: "several runs",
			e:    rec(0, "TEXT", 10, "0", 20, "0", 40, "1", 1, "%%uAB%%u C"),
			want: `<text x="0" y="0" font-size="1" font-family="Arial,sans-serif"><tspan text-decoration="underline">AB</tspan><tspan> C</tspan></text>`,
		},
		{
			name: "aligned and rotated",
			e:    rec(0, "TEXT", 10, "0", 20, "0", 11, "5", 21, "5", 40, "1", 50, "30", 72, "1", 73, "2", 1, "x"),
			want: `<text x="5" y="-5" font-size="1" text-anchor="middle" dominant-baseline="central" font-family="Arial,sans-serif" transform="rotate(-30 5 -5)">x</text>`,
		},
		{
			name: "missing height",
			e:    rec(0, "TEXT", 10, "0", 20, "0", 1, "x"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderText(r, tt.e, nil); got != tt.want {
				t.Errorf("renderText =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderTextStyleFont(t *testing.T) {
	doc := &dxf.Document{Tables: map[string][]dxf.Record{
		dxf.TableStyle: {rec(0, "STYLE", 2, "NOTES", 3, "times.ttf")},
	}}
	r := newRenderer(doc, WithFontResolver(func(f string) string { return "[" + f + "]" }))
	got := renderText(r, rec(0, "TEXT", 10, "0", 20, "0", 40, "1", 7, "notes", 1, "x"), nil)
	if !strings.Contains(got, `font-family="[times.ttf]"`) {
		t.Errorf("renderText = %s, want resolved style font", got)
	}
}

func TestRenderAttribInvisible(t *testing.T) {
	r := newRenderer(nil)
	if got := renderAttrib(r, rec(0, "ATTRIB", 10, "0", 20, "0", 40, "1", 1, "x", 70, "1"), nil); got != "" {
		t.Errorf("invisible attrib = %s, want empty", got)
	}
	if got := renderAttrib(r, rec(0, "ATTRIB", 10, "0", 20, "0", 40, "1", 1, "x", 70, "0"), nil); got == "" {
		t.Error("visible attrib rendered empty")
	}
}

func TestRenderAttribJustification(t *testing.T) {
	r := newRenderer(nil)
	e := rec(0, "ATTRIB", 10, "0", 20, "0", 11, "4", 21, "5", 40, "1", 1, "x", 70, "0", 73, "12", 74, "2")
	got := renderAttrib(r, e, nil)
	want := `dominant-baseline="` + lookup(textBaselines, 2) + `"`
	if !strings.Contains(got, want) {
		t.Errorf("renderAttrib = %s, want %s", got, want)
	}
	if !strings.Contains(got, `x="4" y="-5"`) {
		t.Errorf("renderAttrib = %s, want alignment point 4,-5", got)
	}
}

func TestRenderMText(t *testing.T) {
	r := newRenderer(nil)
	tests := []struct {
		name string
		e    dxf.Record
		want string
	}{
		{
			name: "paragraphs",
			e:    rec(0, "MTEXT", 10, "1", 20, "2", 40, "2.5", 71, "1", 1, `{\LHello\l} \Pworld`),
			want: `<text x="1" y="-2" font-size="2.5" dominant-baseline="text-before-edge" font-family="Arial,sans-serif">` +
				`<tspan x="1"><tspan text-decoration="underline">Hello</tspan> </tspan>` +
				`<tspan x="1" dy="1.6667em">world</tspan></text>`,
		},
		{
			name: "continuation chunks",
			e:    rec(0, "MTEXT", 10, "0", 20, "0", 40, "1", 71, "5", 3, "ab", 3, "cd", 1, "ef"),
			want: `<text x="0" y="0" font-size="1" text-anchor="middle" dominant-baseline="central" font-family="Arial,sans-serif">abcdef</text>`,
		},
		{
			name: "bottom attachment shifts first line",
			e:    rec(0, "MTEXT", 10, "0", 20, "0", 40, "1", 71, "7", 1, `a\Pb\Pc`),
			want: `<text x="0" y="0" font-size="1" dominant-baseline="text-after-edge" font-family="Arial,sans-serif">` +
				`<tspan x="0" dy="-3.3333em">a</tspan><tspan x="0" dy="1.6667em">b</tspan><tspan x="0" dy="1.6667em">c</tspan></text>`,
		},
		{
			name: "stacked fraction",
			e:    rec(0, "MTEXT", 10, "0", 20, "0", 40, "1", 1, `1\S1/2;`),
			want: `<text x="0" y="0" font-size="1" font-family="Arial,sans-serif">1` +
				`<tspan baseline-shift="super" font-size="70%">1</tspan>/<tspan baseline-shift="sub" font-size="70%">2</tspan></text>`,
		},
		{
			name: "font and oblique overrides",
			e:    rec(0, "MTEXT", 10, "0", 20, "0", 40, "1", 1, `{\fArial|b1|i0;B\Q15;o}n`),
			want: `<text x="0" y="0" font-size="1" font-family="Arial,sans-serif">` +
				`<tspan font-family="Arial,sans-serif" font-weight="bold">B<tspan font-style="oblique 15deg">o</tspan></tspan>n</text>`,
		},
		{
			name: "malformed falls back to raw text",
			e:    rec(0, "MTEXT", 10, "0", 20, "0", 40, "1", 1, `{unclosed`),
			want: `<text x="0" y="0" font-size="1" font-family="Arial,sans-serif">{unclosed</text>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := renderMText(r, tt.e, nil); got != tt.want {
				t.Errorf("renderMText =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestRenderInsert(t *testing.T) {
	doc := &dxf.Document{
		Blocks: map[string][]dxf.Record{
			"B": {
				rec(0, "BLOCK", 2, "B", 10, "0", 20, "0"),
				rec(0, "LINE", 10, "0", 20, "0", 11, "1", 21, "1"),
				rec(0, "ENDBLK"),
			},
		},
		Entities: []dxf.Record{
			rec(0, "INSERT", 2, "B", 10, "5", 20, "5", 41, "2", 42, "2"),
		},
	}
	r := newRenderer(doc)

	got := r.renderEntities(doc.Entities)
	// translate(5,-5) scale(2,2) maps (0,0) to (5,-5) and (1,-1) to (7,-7),
	// the same as scaling and translating the source endpoints directly.
	want := `<g transform="translate(5,-5) scale(2,2)"><line vector-effect="non-scaling-stroke" x1="0" y1="0" x2="1" y2="-1"/></g>`
	if got != want {
		t.Errorf("insert =\n%s\nwant\n%s", got, want)
	}
}

func TestInsertTransform(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"identity", insertTransform(0, 0, 1, 1, 0, 0, 0), ""},
		{"translate only", insertTransform(1, 2, 1, 1, 0, 0, 0), "translate(1,-2)"},
		{"full", insertTransform(1, 2, 2, 3, 90, 0, 0), "translate(1,-2) scale(2,3) rotate(-90)"},
		{"base point", insertTransform(0, 0, 1, 1, 0, 4, 5), "translate(-4,5)"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: insertTransform = %q, want %q", tt.name, tt.got, tt.want)
		}
	}
}

func TestRenderInsertRecursion(t *testing.T) {
	cyclic := &dxf.Document{
		Blocks: map[string][]dxf.Record{
			"A": {rec(0, "INSERT", 2, "B")},
			"B": {rec(0, "INSERT", 2, "A")},
		},
		Entities: []dxf.Record{rec(0, "INSERT", 2, "A")},
	}
	if _, err := RenderSVG(cyclic); !errors.Is(err, errors.ErrCodeBlockRecursion) {
		t.Errorf("RenderSVG(cyclic) error = %v, want %s", err, errors.ErrCodeBlockRecursion)
	}

	deep := &dxf.Document{
		Blocks: map[string][]dxf.Record{
			"A": {rec(0, "INSERT", 2, "B")},
			"B": {rec(0, "INSERT", 2, "C")},
			"C": {rec(0, "LINE", 10, "0", 20, "0", 11, "1", 21, "1")},
		},
		Entities: []dxf.Record{rec(0, "INSERT", 2, "A")},
	}
	if _, err := RenderSVG(deep, WithMaxBlockDepth(2)); !errors.Is(err, errors.ErrCodeBlockRecursion) {
		t.Errorf("RenderSVG(deep) error = %v, want %s", err, errors.ErrCodeBlockRecursion)
	}
	if _, err := RenderSVG(deep); err != nil {
		t.Errorf("RenderSVG(deep, default depth) error = %v", err)
	}
}

func TestResolveColor(t *testing.T) {
	doc := &dxf.Document{Tables: map[string][]dxf.Record{
		dxf.TableLayer: {rec(0, "LAYER", 2, "WALLS", 62, "3")},
	}}
	r := newRenderer(doc, WithColorIndexResolver(aci))

	tests := []struct {
		name string
		e    dxf.Record
		want string
	}{
		{"by layer", rec(0, "LINE", 8, "WALLS", 62, "256"), "aci3"},
		{"absent index", rec(0, "LINE", 8, "WALLS"), "aci3"},
		{"by block", rec(0, "LINE", 8, "WALLS", 62, "0"), "currentColor"},
		{"explicit", rec(0, "LINE", 8, "WALLS", 62, "1"), "aci1"},
		{"unknown layer", rec(0, "LINE", 8, "NOPE"), "currentColor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.resolveColor(tt.e); got != tt.want {
				t.Errorf("resolveColor = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestColorStyle(t *testing.T) {
	r := newRenderer(nil, WithColorIndexResolver(aci))
	tests := []struct {
		index string
		want  string
	}{
		{"", ""},
		{"256", ""},
		{"0", ` style="color:inherit"`},
		{"5", ` style="color:aci5"`},
	}

	for _, tt := range tests {
		e := rec(0, "LINE")
		if tt.index != "" {
			e = append(e, dxf.P(62, tt.index))
		}
		if got := r.colorStyle(e); got != tt.want {
			t.Errorf("colorStyle(%q) = %q, want %q", tt.index, got, tt.want)
		}
	}
}

func TestUnknownEntity(t *testing.T) {
	r := newRenderer(nil)
	if got := r.renderEntity(rec(0, "WIDGET", 10, "0", 20, "0"), nil); got != "" {
		t.Errorf("renderEntity(WIDGET) = %q, want empty", got)
	}
}

func TestRenderDimension(t *testing.T) {
	tests := []struct {
		name string
		doc  *dxf.Document
		e    dxf.Record
		want string
	}{
		{
			name: "horizontal",
			e:    rec(0, "DIMENSION", 70, "32", 10, "10", 20, "5", 13, "0", 23, "0", 14, "10", 24, "0"),
			want: `<g vector-effect="non-scaling-stroke"><path d="M 0 0 L 0 -5 L 10 -5 L 10 0"/>` +
				`<text x="5" y="-5" font-size="0.18" text-anchor="middle" dominant-baseline="text-after-edge">10</text></g>`,
		},
		{
			name: "vertical",
			e:    rec(0, "DIMENSION", 70, "0", 10, "5", 20, "10", 13, "0", 23, "0", 14, "0", 24, "10"),
			want: `<g vector-effect="non-scaling-stroke"><path d="M 0 0 L 5 0 L 5 -10 L 0 -10"/>` +
				`<text x="5" y="-5" font-size="0.18" text-anchor="middle" dominant-baseline="text-after-edge" transform="rotate(-90 5 -5)">10</text></g>`,
		},
		{
			name: "vertical when dimension line shares first point x",
			e:    rec(0, "DIMENSION", 70, "0", 10, "0", 20, "10", 13, "0", 23, "0", 14, "3", 24, "10"),
			want: `<g vector-effect="non-scaling-stroke"><path d="M 0 0 L 0 0 L 0 -10 L 3 -10"/>` +
				`<text x="0" y="-5" font-size="0.18" text-anchor="middle" dominant-baseline="text-after-edge" transform="rotate(-90 0 -5)">10</text></g>`,
		},
		{
			name: "style decimals and scale",
			doc: &dxf.Document{Tables: map[string][]dxf.Record{
				dxf.TableDimStyle: {rec(0, "DIMSTYLE", 2, "ISO", 271, "2", 144, "2", 140, "2.5")},
			}},
			e: rec(0, "DIMENSION", 3, "ISO", 70, "0", 1, "<> mm", 10, "3.14159", 20, "1", 11, "1", 21, "2",
				13, "0", 23, "0", 14, "3.14159", 24, "0"),
			want: `<g vector-effect="non-scaling-stroke"><path d="M 0 0 L 0 -1 L 3.14159 -1 L 3.14159 0"/>` +
				`<text x="1" y="-2" font-size="2.5" text-anchor="middle" dominant-baseline="text-after-edge">6.28 mm</text></g>`,
		},
		{
			name: "header decimals",
			doc: &dxf.Document{Header: map[string]dxf.Record{
				"$DIMDEC": rec(70, "1"),
			}},
			e: rec(0, "DIMENSION", 70, "0", 42, "3.3333", 10, "2", 20, "1", 13, "0", 23, "0", 14, "3", 24, "0"),
			want: `<g vector-effect="non-scaling-stroke"><path d="M 0 0 L 0 -1 L 3 -1 L 3 0"/>` +
				`<text x="1.5" y="-1" font-size="0.18" text-anchor="middle" dominant-baseline="text-after-edge">3.3</text></g>`,
		},
		{
			name: "angular has text only",
			e:    rec(0, "DIMENSION", 70, "2", 1, "30°", 11, "1", 21, "2", 10, "0", 20, "0", 13, "1", 23, "0", 14, "0", 24, "1"),
			want: `<g vector-effect="non-scaling-stroke">` +
				`<text x="1" y="-2" font-size="0.18" text-anchor="middle" dominant-baseline="text-after-edge">30°</text></g>`,
		},
		{
			name: "angular without text",
			e:    rec(0, "DIMENSION", 70, "2", 10, "0", 20, "0"),
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRenderer(tt.doc)
			if got := renderDimension(r, tt.e, nil); got != tt.want {
				t.Errorf("renderDimension =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}

func TestComputeBounds(t *testing.T) {
	entities := []dxf.Record{
		rec(0, "POINT", 10, "-3", 20, "4"),
		rec(0, "POINT", 10, "10", 20, "-2"),
	}
	got, ok := ComputeBounds(entities).ViewBox()
	if !ok || got != "-3 -4 13 6" {
		t.Errorf("ViewBox = %q, %v, want %q", got, ok, "-3 -4 13 6")
	}

	if _, ok := ComputeBounds(nil).ViewBox(); ok {
		t.Error("ViewBox of no entities ok = true, want false")
	}

	circle := []dxf.Record{rec(0, "CIRCLE", 10, "0", 20, "0", 40, "2")}
	if got, _ := ComputeBounds(circle).ViewBox(); got != "-2 -2 4 4" {
		t.Errorf("circle ViewBox = %q, want %q", got, "-2 -2 4 4")
	}
}

func TestComputeBoundsEntityGeometry(t *testing.T) {
	tests := []struct {
		name     string
		entities []dxf.Record
		want     string
	}{
		{
			name: "mirrored by extrusion",
			entities: []dxf.Record{
				rec(0, "CIRCLE", 10, "100", 20, "0", 40, "1", 230, "-1"),
				rec(0, "LINE", 10, "90", 20, "0", 11, "110", 21, "0"),
			},
			want: "-101 -1 211 2",
		},
		{
			name:     "leader ignores extrusion",
			entities: []dxf.Record{rec(0, "LEADER", 10, "5", 20, "0", 10, "6", 20, "1", 230, "-1")},
			want:     "5 -1 1 1",
		},
		{
			name: "hatch uses boundary only",
			entities: []dxf.Record{rec(0, "HATCH", 10, "0", 20, "0", 30, "0", 2, "SOLID", 70, "1", 91, "1",
				92, "2", 72, "0", 73, "1", 93, "3",
				10, "100", 20, "100", 10, "110", 20, "100", 10, "110", 20, "110",
				97, "0", 75, "0", 76, "1", 98, "1", 10, "0", 20, "0")},
			want: "100 -110 10 10",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := ComputeBounds(tt.entities).ViewBox(); got != tt.want {
				t.Errorf("ViewBox = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStyleIndex(t *testing.T) {
	doc := &dxf.Document{Tables: map[string][]dxf.Record{
		dxf.TableLayer: {
			rec(0, "LAYER", 2, "A", 62, "1", 6, "DASHED"),
			rec(0, "LAYER", 2, "HIDDEN", 62, "-2"),
			rec(0, "LAYER", 62, "3"),
		},
		dxf.TableLinetype: {
			rec(0, "LTYPE", 2, "DASHED", 73, "2", 49, "0.5", 49, "-0.25"),
			rec(0, "LTYPE", 2, "ODD", 73, "3", 49, "1", 49, "-0.5", 49, "0.5"),
			rec(0, "LTYPE", 2, "CONTINUOUS", 73, "0"),
		},
	}}
	idx := NewStyleIndex(doc, aci)

	if l, ok := idx.Layer("A"); !ok || l.Color != "aci1" || l.Linetype != "DASHED" {
		t.Errorf("Layer(A) = %+v, %v", l, ok)
	}
	if l, _ := idx.Layer("HIDDEN"); !l.Off || l.Color != "aci2" {
		t.Errorf("Layer(HIDDEN) = %+v, want off with aci2", l)
	}

	dashes := []struct {
		name, want string
	}{
		{"DASHED", "0.5,0.25"},
		{"dashed", "0.5,0.25"},
		{"ODD", "1,0.5,0.5,0"},
		{"CONTINUOUS", ""},
		{"MISSING", ""},
	}
	for _, tt := range dashes {
		if got := idx.DashArray(tt.name); got != tt.want {
			t.Errorf("DashArray(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	wantCSS := `<style>text{stroke:none;fill:currentColor}[data-8="A"]{color:aci1}[data-8="HIDDEN"]{color:aci2}[data-8="HIDDEN"]{display:none}</style>`
	if got := idx.CSS(); got != wantCSS {
		t.Errorf("CSS =\n%s\nwant\n%s", got, wantCSS)
	}
}

func TestLinetypeByLayer(t *testing.T) {
	doc := &dxf.Document{Tables: map[string][]dxf.Record{
		dxf.TableLayer:    {rec(0, "LAYER", 2, "A", 62, "7", 6, "DASHED")},
		dxf.TableLinetype: {rec(0, "LTYPE", 2, "DASHED", 49, "2", 49, "-1")},
	}}
	r := newRenderer(doc)

	line := rec(0, "LINE", 8, "A", 10, "0", 20, "0", 11, "1", 21, "0")
	if got := renderLine(r, line, nil); !strings.Contains(got, `stroke-dasharray="2,1"`) {
		t.Errorf("by-layer linetype missing: %s", got)
	}
	byBlock := append(line[:len(line):len(line)], dxf.P(6, "BYBLOCK"))
	if got := renderLine(r, byBlock, nil); strings.Contains(got, "stroke-dasharray") {
		t.Errorf("by-block linetype emitted dashes: %s", got)
	}
}

func TestRenderSVGDeterministic(t *testing.T) {
	doc := &dxf.Document{
		Tables: map[string][]dxf.Record{
			dxf.TableLayer: {rec(0, "LAYER", 2, "A", 62, "1"), rec(0, "LAYER", 2, "B", 62, "2")},
		},
		Entities: []dxf.Record{
			rec(0, "LINE", 8, "A", 10, "0", 20, "0", 11, "10", 21, "5"),
			rec(0, "CIRCLE", 8, "B", 10, "3", 20, "3", 40, "1"),
			rec(0, "TEXT", 8, "A", 10, "1", 20, "1", 40, "1", 1, "%%c10"),
		},
	}

	first, err := RenderSVG(doc)
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	for i := 0; i < 5; i++ {
		again, err := RenderSVG(doc)
		if err != nil {
			t.Fatalf("RenderSVG: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("RenderSVG not deterministic:\n%s\n%s", first, again)
		}
	}
}

func TestRenderSVGEmptyDocument(t *testing.T) {
	got, err := RenderSVG(nil)
	if err != nil {
		t.Fatalf("RenderSVG(nil): %v", err)
	}
	want := `<svg xmlns="http://www.w3.org/2000/svg" stroke="currentColor" fill="none"><style>text{stroke:none;fill:currentColor}</style></svg>`
	if string(got) != want {
		t.Errorf("RenderSVG(nil) = %s, want %s", got, want)
	}
}

func TestRenderSVGDecoder(t *testing.T) {
	doc := &dxf.Document{Entities: []dxf.Record{
		rec(0, "TEXT", 10, "0", 20, "0", 40, "1", 1, "raw"),
	}}
	got, err := RenderSVG(doc, WithDecoder(strings.ToUpper))
	if err != nil {
		t.Fatalf("RenderSVG: %v", err)
	}
	if !strings.Contains(string(got), ">RAW</text>") {
		t.Errorf("decoder not applied: %s", got)
	}
}

func ExampleRenderSVG() {
	doc := &dxf.Document{
		Tables: map[string][]dxf.Record{
			dxf.TableLayer: {{dxf.P(0, "LAYER"), dxf.P(2, "WALLS"), dxf.P(62, "1")}},
		},
		Entities: []dxf.Record{
			{dxf.P(0, "LINE"), dxf.P(8, "WALLS"), dxf.P(10, "0"), dxf.P(20, "0"), dxf.P(11, "10"), dxf.P(21, "5")},
		},
	}

	out, err := RenderSVG(doc)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(out))
	// Output:
	// <svg xmlns="http://www.w3.org/2000/svg" viewBox="0 -5 10 5" stroke="currentColor" fill="none"><style>text{stroke:none;fill:currentColor}[data-8="WALLS"]{color:hsl(0,100%,60%)}</style><line data-8="WALLS" vector-effect="non-scaling-stroke" x1="0" y1="0" x2="10" y2="-5"/></svg>
}
