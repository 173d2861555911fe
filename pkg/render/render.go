package render

import (
	"bytes"
	"context"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/graph"
)

// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
const DefaultPNGScale = 2.0

// Options bundles the per-format options used by [Render].
type Options struct {
	Grid     GridOptions
	SVG      SVGOptions
	DOT      DOTOptions
	PNGScale float64
}

// Exporter is implemented by scenes that can produce a layout snapshot.
type Exporter interface {
	Export() graph.Layout
}

// Render produces the bytes of s in format f.
func Render(ctx context.Context, s Scene, f Format, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	switch f {
	case FormatData:
		if err := WriteData(&buf, s); err != nil {
			return nil, err
		}
	case FormatDisplay:
		if err := WriteDisplay(&buf, s, opts.Grid); err != nil {
			return nil, err
		}
	case FormatASCII:
		if err := WriteConnect(&buf, s, opts.Grid); err != nil {
			return nil, err
		}
	case FormatSVG:
		WriteSVG(&buf, s, opts.SVG)
	case FormatDOT:
		buf.WriteString(DOT(s, opts.DOT))
	case FormatGraphviz:
		return GraphvizSVG(ctx, DOT(s, opts.DOT))
	case FormatPNG:
		return ToPNG(ctx, SVG(s, opts.SVG), opts.PNGScale)
	case FormatPDF:
		return ToPDF(ctx, SVG(s, opts.SVG))
	case FormatJSON:
		e, ok := s.(Exporter)
		if !ok {
			return nil, errors.New(errors.ErrCodeUnsupported, "scene cannot be exported as a layout snapshot")
		}
		data, err := graph.MarshalLayout(e.Export())
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		_, err := ParseFormat(string(f))
		return nil, err
	}
	return buf.Bytes(), nil
}
