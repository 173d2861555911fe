package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/render"
)

// artifactWriteParams describes where rendered artifacts go.
type artifactWriteParams struct {
	artifacts map[string][]byte
	formats   []string
	output    string // file (single format) or base path (multiple)
	base      string // base path used when output is empty
}

// writeArtifacts prints a single text artifact to the terminal when no
// output was given, and writes files otherwise. It returns the paths written.
func (c *CLI) writeArtifacts(p artifactWriteParams) ([]string, error) {
	if len(p.formats) == 1 && p.output == "" {
		if f, err := render.ParseFormat(p.formats[0]); err == nil && f.IsText() {
			_, err := c.out.Write(p.artifacts[p.formats[0]])
			return nil, err
		}
	}

	if p.output != "" {
		if err := errors.ValidatePath(p.output); err != nil {
			return nil, err
		}
	}

	if len(p.formats) == 1 && p.output != "" {
		if err := writeFile(p.output, p.artifacts[p.formats[0]]); err != nil {
			return nil, err
		}
		return []string{p.output}, nil
	}

	base := basePath(p.output, p.base)
	paths := make([]string, 0, len(p.formats))
	for _, name := range p.formats {
		f, err := render.ParseFormat(name)
		if err != nil {
			return paths, err
		}
		path := artifactPath(base, f)
		if err := writeFile(path, p.artifacts[name]); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// basePath derives the base output path. If output is empty, fallback is
// used. A known format extension on output is stripped.
func basePath(output, fallback string) string {
	if output == "" {
		return fallback
	}
	ext := filepath.Ext(output)
	if _, err := render.ParseFormat(strings.TrimPrefix(ext, ".")); err == nil {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// artifactPath names the file of one format. Formats sharing an extension
// with another format carry their name in the file name (layout.ascii.txt).
func artifactPath(base string, f render.Format) string {
	ext := f.Ext()
	if strings.TrimPrefix(ext, ".") == string(f) {
		return base + ext
	}
	return base + "." + string(f) + ext
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output %s: %w", path, err)
	}
	return nil
}
