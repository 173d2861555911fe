package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/auradisp/pkg/errors"
)

// FormatVersion is the current snapshot format version.
const FormatVersion = 1

// =============================================================================
// Layout - Snapshot Format
// =============================================================================

// Layout is a serialized resolved node set.
type Layout struct {
	Version int `json:"version"`

	// Bounding box
	Width  float64 `json:"width"`
	Height float64 `json:"height"`

	// Construction parameters
	Seed           uint64  `json:"seed"`
	Policy         string  `json:"policy,omitempty"`
	Epsilon        float64 `json:"epsilon,omitempty"`
	BrightnessMode string  `json:"brightness_mode,omitempty"`

	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one positioned node.
type Node struct {
	ID         int     `json:"id"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Brightness int     `json:"brightness"`
}

// Edge is an undirected connection between two node ids.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Validate checks structural consistency: positive bounds, dense node ids in
// slice order, and edges that reference existing nodes once each.
func (l *Layout) Validate() error {
	if err := errors.ValidateBounds(l.Width, l.Height); err != nil {
		return err
	}
	for i, n := range l.Nodes {
		if n.ID != i {
			return errors.New(errors.ErrCodeInvalidInput, "node %d has id %d, want dense ids in order", i, n.ID)
		}
	}
	seen := make(map[Edge]bool, len(l.Edges))
	for _, e := range l.Edges {
		if e.From < 0 || e.To >= len(l.Nodes) || e.From >= e.To {
			return errors.New(errors.ErrCodeInvalidInput, "invalid edge %d-%d for %d nodes", e.From, e.To, len(l.Nodes))
		}
		if seen[e] {
			return errors.New(errors.ErrCodeInvalidInput, "duplicate edge %d-%d", e.From, e.To)
		}
		seen[e] = true
	}
	return nil
}

// =============================================================================
// Layout Serialization API
// =============================================================================

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a validated Layout.
// A missing version is read as the current one.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "unmarshal layout")
	}
	if l.Version == 0 {
		l.Version = FormatVersion
	}
	if l.Version != FormatVersion {
		return Layout{}, errors.New(errors.ErrCodeUnsupported, "layout version %d (want %d)", l.Version, FormatVersion)
	}
	if err := l.Validate(); err != nil {
		return Layout{}, err
	}
	return l, nil
}

// WriteLayout writes a Layout as JSON to an io.Writer.
func WriteLayout(l Layout, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadLayout decodes and validates a Layout from an io.Reader.
func ReadLayout(r io.Reader) (Layout, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout: %w", err)
	}
	return UnmarshalLayout(data)
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
