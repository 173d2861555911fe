package render

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
)

// testScene is a rectangle with a centre node, connected as the resolver
// connects it: four sides and four spokes.
type testScene struct {
	w, h   float64
	pts    []geom.Vec
	edges  map[[2]int]bool
	levels []int
	// dist overrides the distance of a pair when set.
	dist map[[2]int]float64
}

func newTestScene() *testScene {
	s := &testScene{
		w:      4,
		h:      3,
		pts:    []geom.Vec{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}, {X: 2, Y: 1.5}},
		edges:  map[[2]int]bool{},
		levels: []int{0, 64, 128, 192, 255},
	}
	for _, e := range [][2]int{{0, 1}, {1, 2}, {2, 3}, {0, 3}, {0, 4}, {1, 4}, {2, 4}, {3, 4}} {
		s.edges[e] = true
	}
	return s
}

func (s *testScene) Len() int                  { return len(s.pts) }
func (s *testScene) Bounds() (float64, float64) { return s.w, s.h }
func (s *testScene) Position(i int) geom.Vec    { return s.pts[i] }
func (s *testScene) Brightness(i int) int       { return s.levels[i] }
func (s *testScene) Distance(i, j int) float64 {
	if d, ok := s.dist[[2]int{min(i, j), max(i, j)}]; ok {
		return d
	}
	return geom.Dist(s.pts[i], s.pts[j])
}

func (s *testScene) Connected(i, j int) bool {
	if i > j {
		i, j = j, i
	}
	return s.edges[[2]int{i, j}]
}

func TestGridFramed(t *testing.T) {
	g := NewGrid(3, 2)
	g.Plot(0, 0, 'a')
	g.Line(0, 1, 2, 1, '-')
	g.Plot(5, 5, 'x') // outside, ignored

	want := "+---+\n|a  |\n|---|\n+---+\n"
	if got := g.Framed(); got != want {
		t.Errorf("Framed() =\n%s\nwant\n%s", got, want)
	}
	if g.String() != want {
		t.Error("String() differs from Framed()")
	}
}

func TestGridLineWalk(t *testing.T) {
	g := NewGrid(5, 3)
	g.Line(0, 0, 4, 2, '*')

	want := map[[2]int]bool{{0, 0}: true, {1, 1}: true, {2, 1}: true, {3, 2}: true, {4, 2}: true}
	for row := range 3 {
		for col := range 5 {
			got := g.At(col, row) == '*'
			if got != want[[2]int{col, row}] {
				t.Errorf("cell (%d,%d) plotted=%v", col, row, got)
			}
		}
	}
}

func TestGridLineReversedSameCells(t *testing.T) {
	a, b := NewGrid(10, 10), NewGrid(10, 10)
	a.Line(1, 2, 8, 5, '#')
	b.Line(8, 5, 1, 2, '#')
	if a.Framed() != b.Framed() {
		t.Errorf("line walk depends on direction:\n%s\n%s", a.Framed(), b.Framed())
	}
}

func TestGridMinimumSize(t *testing.T) {
	cols, rows := NewGrid(0, -3).Size()
	if cols != 1 || rows != 1 {
		t.Errorf("Size() = %d,%d, want 1,1", cols, rows)
	}
	if NewGrid(1, 1).At(2, 0) != 0 {
		t.Error("At outside grid should be 0")
	}
}

func TestDrawDisplay(t *testing.T) {
	g := DrawDisplay(newTestScene(), GridOptions{Cols: 9, Rows: 7})
	checks := []struct {
		col, row int
		want     rune
	}{
		{0, 0, '.'}, // level 0
		{8, 0, 'o'}, // level 64
		{8, 6, 'O'}, // level 128
		{0, 6, '@'}, // level 192
		{4, 3, '@'}, // level 255
		{4, 0, ' '},
	}
	for _, c := range checks {
		if got := g.At(c.col, c.row); got != c.want {
			t.Errorf("At(%d,%d) = %q, want %q", c.col, c.row, got, c.want)
		}
	}
}

func TestNodeGlyph(t *testing.T) {
	tests := []struct {
		level int
		want  rune
	}{
		{0, '.'}, {63, '.'}, {64, 'o'}, {128, 'O'}, {191, 'O'}, {192, '@'}, {255, '@'}, {999, '@'}, {-5, '.'},
	}
	for _, tt := range tests {
		if got := NodeGlyph(tt.level); got != tt.want {
			t.Errorf("NodeGlyph(%d) = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestWriteConnect(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteConnect(&buf, newTestScene(), GridOptions{Cols: 9, Rows: 7}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 10 {
		t.Fatalf("got %d lines, want 10:\n%s", len(lines), out)
	}
	if lines[1] != "|o-------o|" {
		t.Errorf("top row = %q", lines[1])
	}
	if lines[9] != "edges: 8" {
		t.Errorf("last line = %q", lines[9])
	}
	if lines[4][5] != 'o' {
		t.Errorf("centre row = %q", lines[4])
	}
}

func TestGridDefaultsToBounds(t *testing.T) {
	g := DrawConnect(newTestScene(), GridOptions{})
	cols, rows := g.Size()
	if cols != 4 || rows != 3 {
		t.Errorf("Size() = %d,%d, want 4,3", cols, rows)
	}
}

func TestWriteData(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteData(&buf, newTestScene()); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"nodes: 5",
		"bounds: 4 x 3",
		"   4     2.000     1.500  255",
		"  0.000   4.000   5.000   3.000   2.500",
		"0 1 0 1 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteDataUsesStoredDistances(t *testing.T) {
	s := newTestScene()
	s.dist = map[[2]int]float64{{0, 1}: 9.5}

	var buf bytes.Buffer
	if err := WriteData(&buf, s); err != nil {
		t.Fatal(err)
	}
	if want := "  0.000   9.500   5.000   3.000   2.500"; !strings.Contains(buf.String(), want) {
		t.Errorf("first distance row should come from the scene, want %q:\n%s", want, buf.String())
	}
	if want := "  9.500   0.000"; !strings.Contains(buf.String(), want) {
		t.Errorf("second row should mirror the stored distance:\n%s", buf.String())
	}
}

func TestSVG(t *testing.T) {
	out := string(SVG(newTestScene(), SVGOptions{Labels: true}))
	if !strings.HasPrefix(out, "<?xml") {
		t.Errorf("missing XML header: %.40s", out)
	}
	if got := strings.Count(out, "<circle"); got != 5 {
		t.Errorf("circles = %d, want 5", got)
	}
	if got := strings.Count(out, "<line"); got != 8 {
		t.Errorf("lines = %d, want 8", got)
	}
	if !strings.Contains(out, `width="144"`) {
		t.Errorf("unexpected width in %s", out[:200])
	}
}

func TestDOT(t *testing.T) {
	dot := DOT(newTestScene(), DOTOptions{Scale: 10})
	for _, want := range []string{
		"graph G {",
		`n4 [label="4", pos="20.00,15.00!", fillcolor="#ffffff"];`,
		`n0 [label="0", pos="0.00,30.00!", fillcolor="#000000"];`,
		"n0 -- n4;",
		"n2 -- n3;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "n0 -- n2;") {
		t.Error("DOT contains an unconnected pair")
	}
}

func TestGraphvizSVG(t *testing.T) {
	svg, err := GraphvizSVG(context.Background(), DOT(newTestScene(), DOTOptions{}))
	if err != nil {
		t.Fatalf("GraphvizSVG: %v", err)
	}
	if !bytes.Contains(svg, []byte(`viewBox="0 0 `)) {
		t.Errorf("viewBox not normalized: %.200s", svg)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 10.00 20.00" xmlns="x"><g/></svg>`)
	out := string(normalizeViewBox(in))
	want := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10.00 20.00" width="10" height="20"><g/></svg>`
	if out != want {
		t.Errorf("normalizeViewBox() =\n%s\nwant\n%s", out, want)
	}
	if got := normalizeViewBox([]byte("<svg>")); string(got) != "<svg>" {
		t.Errorf("without viewBox = %s", got)
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()
	s := newTestScene()

	for _, f := range []Format{FormatData, FormatDisplay, FormatASCII, FormatSVG, FormatDOT} {
		t.Run(string(f), func(t *testing.T) {
			out, err := Render(ctx, s, f, Options{})
			if err != nil {
				t.Fatalf("Render(%s): %v", f, err)
			}
			if len(out) == 0 {
				t.Error("empty output")
			}
		})
	}

	_, err := Render(ctx, s, FormatJSON, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("json without exporter: err = %v", err)
	}

	_, err = Render(ctx, s, Format("bmp"), Options{})
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("unknown format: err = %v", err)
	}
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat(" SVG ")
	if err != nil || f != FormatSVG {
		t.Errorf("ParseFormat(SVG) = %q, %v", f, err)
	}
	if _, err := ParseFormat("gif"); err == nil {
		t.Error("ParseFormat(gif) should fail")
	}
}

func TestFormatProperties(t *testing.T) {
	tests := []struct {
		f           Format
		ext         string
		contentType string
		text        bool
	}{
		{FormatData, ".txt", "text/plain; charset=utf-8", true},
		{FormatASCII, ".txt", "text/plain; charset=utf-8", true},
		{FormatSVG, ".svg", "image/svg+xml", false},
		{FormatGraphviz, ".svg", "image/svg+xml", false},
		{FormatPNG, ".png", "image/png", false},
		{FormatJSON, ".json", "application/json", true},
	}
	for _, tt := range tests {
		if got := tt.f.Ext(); got != tt.ext {
			t.Errorf("%s.Ext() = %q, want %q", tt.f, got, tt.ext)
		}
		if got := tt.f.ContentType(); got != tt.contentType {
			t.Errorf("%s.ContentType() = %q, want %q", tt.f, got, tt.contentType)
		}
		if got := tt.f.IsText(); got != tt.text {
			t.Errorf("%s.IsText() = %v, want %v", tt.f, got, tt.text)
		}
	}
}

func TestConvertMissingBinary(t *testing.T) {
	old := converterBin
	defer func() { converterBin = old }()
	converterBin = "auradisp-no-such-converter"

	if HasConverter() {
		t.Fatal("HasConverter() = true for a missing binary")
	}
	_, err := Render(context.Background(), newTestScene(), FormatPNG, Options{})
	if !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Fatalf("Render(png) error = %v, want UNSUPPORTED", err)
	}
	if _, err := ToPDF(context.Background(), []byte("<svg/>")); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("ToPDF() error = %v, want UNSUPPORTED", err)
	}
}
