// Package pipeline runs the layout → resolve → brightness → render sequence
// shared by the CLI and the HTTP server.
//
// Centralizing the sequence here keeps defaults, validation and caching
// identical across every entry point.
//
// # Stages
//
//  1. Build: generate node positions, measure distances and resolve planar
//     edges into a [nodeset.Set]. Cached by construction parameters.
//  2. Light: assign per-node brightness. Cheap, never cached on its own.
//  3. Render: produce artifacts in the requested formats. Cached by the
//     content hash of the lit layout plus the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Nodes:   64,
//	    Seed:    7,
//	    Formats: []string{"svg"},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// [Runner.Batch] builds many seeds concurrently and audits each result.
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/cache"
	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/geom"
	"github.com/matzehuels/auradisp/pkg/graph"
	"github.com/matzehuels/auradisp/pkg/layout"
	"github.com/matzehuels/auradisp/pkg/nodeset"
	"github.com/matzehuels/auradisp/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultNodes is the default node count.
	DefaultNodes = nodeset.DefaultNodes

	// DefaultWidth is the default frame width in layout units.
	DefaultWidth = nodeset.DefaultWidth

	// DefaultHeight is the default frame height in layout units.
	DefaultHeight = nodeset.DefaultHeight

	// DefaultSeed is the default random seed for reproducibility.
	DefaultSeed = uint64(42)

	// DefaultEpsilon is the default parallel/collinear tolerance.
	DefaultEpsilon = geom.DefaultEpsilon
)

// DefaultPolicy is the default placement policy.
const DefaultPolicy = layout.Uniform

// DefaultBrightness is the default brightness mode.
const DefaultBrightness = brightness.AllOn

// DefaultFormat is the default output format.
const DefaultFormat = render.FormatASCII

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for a pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options
	Nodes   int     `json:"nodes,omitempty"`
	Width   float64 `json:"width,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Seed    uint64  `json:"seed,omitempty"`
	Policy  string  `json:"policy,omitempty"`
	Epsilon float64 `json:"epsilon,omitempty"`
	Refresh bool    `json:"refresh,omitempty"`

	// Brightness options
	Brightness     string  `json:"brightness,omitempty"`
	BrightnessSeed uint64  `json:"brightness_seed,omitempty"`
	Phase          float64 `json:"phase,omitempty"`
	NoiseScale     float64 `json:"noise_scale,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Cols     int      `json:"cols,omitempty"`
	Rows     int      `json:"rows,omitempty"`
	Scale    float64  `json:"scale,omitempty"`
	PNGScale float64  `json:"png_scale,omitempty"`
	Labels   bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Workers int         `json:"-"`
	Logger  *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has succeeded.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// RunID uniquely identifies this run in logs and API responses.
	RunID string

	// Set is the resolved, lit node set.
	Set *nodeset.Set

	// Layout is the snapshot of Set.
	Layout graph.Layout

	// LayoutHash is the content hash of Layout.
	LayoutHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount     int
	EdgeCount     int
	ExpectedEdges int
	Conflicts     int
	Components    int
	MaxDegree     int
	Span          float64
	LayoutTime    time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether the resolved layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormats checks that all formats are supported.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if _, err := render.ParseFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults applies defaults and checks every field.
// It is idempotent once it has succeeded.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetLayoutDefaults sets default values for layout construction.
func (o *Options) SetLayoutDefaults() {
	if o.Nodes == 0 {
		o.Nodes = DefaultNodes
	}
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Policy == "" {
		o.Policy = string(DefaultPolicy)
	}
	if o.Epsilon == 0 {
		o.Epsilon = DefaultEpsilon
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout construction.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	return o.NodesetConfig().Validate()
}

// SetRenderDefaults sets default values for brightness and rendering.
func (o *Options) SetRenderDefaults() {
	if o.Brightness == "" {
		o.Brightness = string(DefaultBrightness)
	}
	if o.BrightnessSeed == 0 {
		o.BrightnessSeed = o.Seed
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{string(DefaultFormat)}
	}
	if o.PNGScale == 0 {
		o.PNGScale = render.DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for brightness and rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if _, err := brightness.ParseMode(o.Brightness); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Cols < 0 || o.Rows < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "grid size must not be negative (got %dx%d)", o.Cols, o.Rows)
	}
	if o.Scale < 0 || o.PNGScale < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "scale must not be negative")
	}
	return nil
}

// NodesetConfig returns the construction parameters of the layout.
func (o *Options) NodesetConfig() nodeset.Config {
	return nodeset.Config{
		N:       o.Nodes,
		Width:   o.Width,
		Height:  o.Height,
		Seed:    o.Seed,
		Policy:  layout.Policy(o.Policy),
		Epsilon: o.Epsilon,
		Workers: o.Workers,
	}
}

// BrightnessParams returns the brightness mode parameters.
func (o *Options) BrightnessParams() brightness.Params {
	return brightness.Params{
		Seed:  o.BrightnessSeed,
		Phase: o.Phase,
		Scale: o.NoiseScale,
	}
}

// RenderOptions returns the per-format renderer options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Grid:     render.GridOptions{Cols: o.Cols, Rows: o.Rows},
		SVG:      render.SVGOptions{Scale: o.Scale, Labels: o.Labels},
		DOT:      render.DOTOptions{Scale: o.Scale},
		PNGScale: o.PNGScale,
	}
}

// LayoutKeyOpts returns cache key options for layout construction.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		N:       o.Nodes,
		Width:   o.Width,
		Height:  o.Height,
		Seed:    o.Seed,
		Policy:  o.Policy,
		Epsilon: o.Epsilon,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:     format,
		Brightness: o.Brightness,
		Phase:      o.Phase,
		Cols:       o.Cols,
		Rows:       o.Rows,
		Scale:      o.Scale,
		PNGScale:   o.PNGScale,
		Labels:     o.Labels,
	}
}
