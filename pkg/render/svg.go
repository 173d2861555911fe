package render

import (
	"bytes"
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/auradisp/pkg/brightness"
)

// SVG defaults.
const (
	DefaultSVGScale  = 24.0
	DefaultSVGMargin = 24
	DefaultNodeSize  = 6
)

// SVGOptions configures native SVG output.
type SVGOptions struct {
	// Scale is pixels per layout unit.
	Scale float64
	// Margin is the blank border in pixels.
	Margin int
	// NodeRadius is the node circle radius in pixels.
	NodeRadius int
	// Labels draws each node's index next to it.
	Labels bool
}

func (o SVGOptions) withDefaults() SVGOptions {
	if o.Scale <= 0 {
		o.Scale = DefaultSVGScale
	}
	if o.Margin <= 0 {
		o.Margin = DefaultSVGMargin
	}
	if o.NodeRadius <= 0 {
		o.NodeRadius = DefaultNodeSize
	}
	return o
}

const (
	svgBackground = "fill:#11131a"
	svgEdgeStyle  = "stroke:#5b6478;stroke-width:2;stroke-linecap:round"
	svgLabelStyle = "fill:#c9d1e0;font-size:10px;font-family:system-ui,sans-serif"
)

// SVG renders the scene as a standalone SVG document and returns its bytes.
func SVG(s Scene, opts SVGOptions) []byte {
	var buf bytes.Buffer
	WriteSVG(&buf, s, opts)
	return buf.Bytes()
}

// WriteSVG renders the scene as SVG to w. Write errors surface on the
// underlying writer; svgo does not report them.
func WriteSVG(w io.Writer, s Scene, opts SVGOptions) {
	opts = opts.withDefaults()
	bw, bh := s.Bounds()
	width := int(math.Ceil(bw*opts.Scale)) + 2*opts.Margin
	height := int(math.Ceil(bh*opts.Scale)) + 2*opts.Margin

	px := func(i int) (int, int) {
		p := s.Position(i)
		return opts.Margin + int(math.Round(p.X*opts.Scale)), opts.Margin + int(math.Round(p.Y*opts.Scale))
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, svgBackground)

	canvas.Gid("edges")
	n := s.Len()
	for i := range n {
		x1, y1 := px(i)
		for j := i + 1; j < n; j++ {
			if !s.Connected(i, j) {
				continue
			}
			x2, y2 := px(j)
			canvas.Line(x1, y1, x2, y2, svgEdgeStyle)
		}
	}
	canvas.Gend()

	canvas.Gid("nodes")
	for i := range n {
		x, y := px(i)
		canvas.Circle(x, y, opts.NodeRadius, nodeStyle(s.Brightness(i)))
		if opts.Labels {
			canvas.Text(x+opts.NodeRadius+2, y-opts.NodeRadius, fmt.Sprint(i), svgLabelStyle)
		}
	}
	canvas.Gend()
	canvas.End()
}

// nodeStyle shades a node from dark (off) to warm white (full PWM).
func nodeStyle(level int) string {
	f := float64(clamp(level, 0, brightness.PWMMax)) / brightness.PWMMax
	lerp := func(a, b float64) int { return int(math.Round(a + (b-a)*f)) }
	return fmt.Sprintf("fill:rgb(%d,%d,%d);stroke:#ffd27a;stroke-width:1",
		lerp(40, 255), lerp(40, 236), lerp(48, 190))
}
