package render

import (
	"strings"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
)

// Scene is the read-only view renderers draw from.
type Scene interface {
	Len() int
	Bounds() (width, height float64)
	Position(i int) geom.Vec
	// Distance is the stored distance the edges were resolved from.
	Distance(i, j int) float64
	Connected(i, j int) bool
	Brightness(i int) int
}

// Format names an output format.
type Format string

const (
	FormatData     Format = "txt"      // positions, distances and connections
	FormatDisplay  Format = "display"  // brightness grid
	FormatASCII    Format = "ascii"    // connection grid
	FormatSVG      Format = "svg"      // native SVG
	FormatDOT      Format = "dot"      // Graphviz source
	FormatGraphviz Format = "graphviz" // SVG laid out by Graphviz
	FormatPNG      Format = "png"      // native SVG converted by rsvg-convert
	FormatPDF      Format = "pdf"      // native SVG converted by rsvg-convert
	FormatJSON     Format = "json"     // layout snapshot
)

// Formats lists every supported output format.
var Formats = []Format{
	FormatData, FormatDisplay, FormatASCII,
	FormatSVG, FormatDOT, FormatGraphviz,
	FormatPNG, FormatPDF, FormatJSON,
}

// FormatNames returns the supported format names.
func FormatNames() []string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return names
}

// IsText reports whether the format produces human-readable text that can
// go to a terminal.
func (f Format) IsText() bool {
	switch f {
	case FormatData, FormatDisplay, FormatASCII, FormatDOT, FormatJSON:
		return true
	}
	return false
}

// Ext returns the conventional file extension for the format.
func (f Format) Ext() string {
	switch f {
	case FormatData, FormatDisplay, FormatASCII:
		return ".txt"
	case FormatGraphviz:
		return ".svg"
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type of the format's output.
func (f Format) ContentType() string {
	switch f {
	case FormatSVG, FormatGraphviz:
		return "image/svg+xml"
	case FormatPNG:
		return "image/png"
	case FormatPDF:
		return "application/pdf"
	case FormatJSON:
		return "application/json"
	case FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

// ParseFormat converts a name into a Format.
func ParseFormat(s string) (Format, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if err := errors.ValidateFormat(s, FormatNames()); err != nil {
		return "", err
	}
	return Format(s), nil
}
