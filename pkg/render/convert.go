package render

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/auradisp/pkg/errors"
)

// converterBin rasterizes SVG. It is a variable so tests can point it at a
// missing binary.
var converterBin = "rsvg-convert"

const installHint = `install librsvg:
  macOS:  brew install librsvg
  Linux:  apt install librsvg2-bin`

// ToPDF converts an SVG document to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return convertSVG(ctx, svg, FormatPDF)
}

// ToPNG converts an SVG document to PNG at scale times its natural size.
// A non-positive scale uses [DefaultPNGScale].
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = DefaultPNGScale
	}
	return convertSVG(ctx, svg, FormatPNG, "--zoom", strconv.FormatFloat(scale, 'f', 2, 64))
}

// HasConverter reports whether PNG and PDF output is available.
func HasConverter() bool {
	_, err := exec.LookPath(converterBin)
	return err == nil
}

func convertSVG(ctx context.Context, svg []byte, to Format, args ...string) ([]byte, error) {
	bin, err := exec.LookPath(converterBin)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeUnsupported, err, "%s output needs %s; %s", to, converterBin, installHint)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, append([]string{"--format", string(to)}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s %s: %w: %s", converterBin, to, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
