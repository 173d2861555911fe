package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// DOTOptions configures Graphviz output.
type DOTOptions struct {
	// Scale is points per layout unit in the pinned node positions.
	Scale float64
}

// DOT converts the scene to an undirected Graphviz graph. Node positions are
// pinned (pos="x,y!") so the neato engine reproduces the layout instead of
// computing its own. Brightness maps to the node fill's grey level.
func DOT(s Scene, opts DOTOptions) string {
	scale := opts.Scale
	if scale <= 0 {
		scale = DefaultSVGScale
	}
	_, h := s.Bounds()

	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=circle, style=filled, fixedsize=true, width=0.3, fontsize=9];\n")
	buf.WriteString("  edge [color=\"#5b6478\"];\n")
	buf.WriteString("\n")

	n := s.Len()
	for i := range n {
		p := s.Position(i)
		// Graphviz puts y=0 at the bottom.
		fmt.Fprintf(&buf, "  n%d [label=\"%d\", pos=\"%.2f,%.2f!\", fillcolor=\"%s\"];\n",
			i, i, p.X*scale, (h-p.Y)*scale, greyHex(s.Brightness(i)))
	}

	buf.WriteString("\n")
	for i := range n {
		for j := i + 1; j < n; j++ {
			if s.Connected(i, j) {
				fmt.Fprintf(&buf, "  n%d -- n%d;\n", i, j)
			}
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func greyHex(level int) string {
	v := clamp(level, 0, 255)
	return fmt.Sprintf("#%02x%02x%02x", v, v, v)
}

// GraphvizSVG renders a DOT graph to SVG using the neato engine.
// Returns the SVG bytes ready for display or further conversion with [ToPDF]
// or [ToPNG].
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	gv.SetLayout(graphviz.NEATO)

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's <svg> tag with one whose viewBox
// starts at the origin and whose width and height match it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
