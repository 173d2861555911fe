package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/layout"
	"github.com/matzehuels/auradisp/pkg/pipeline"
	"github.com/matzehuels/auradisp/pkg/render"
)

// optionFlags binds pipeline options to command flags. Flag defaults are the
// pipeline defaults; only flags the user actually set override the config
// file (see resolve).
type optionFlags struct {
	opts    pipeline.Options
	formats string
}

func newOptionFlags() *optionFlags {
	f := &optionFlags{}
	f.opts.SetLayoutDefaults()
	f.opts.SetRenderDefaults()
	f.opts.Formats = nil
	return f
}

// bindLayout registers construction flags.
func (f *optionFlags) bindLayout(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.IntVarP(&f.opts.Nodes, "nodes", "n", f.opts.Nodes, "number of nodes")
	fl.Float64Var(&f.opts.Width, "width", f.opts.Width, "frame width")
	fl.Float64Var(&f.opts.Height, "height", f.opts.Height, "frame height")
	fl.Uint64VarP(&f.opts.Seed, "seed", "s", f.opts.Seed, "random seed")
	fl.StringVarP(&f.opts.Policy, "policy", "p", f.opts.Policy, "placement policy: "+policyNames())
	fl.Float64Var(&f.opts.Epsilon, "epsilon", f.opts.Epsilon, "parallel/collinear tolerance (0 selects the default, 5e-324 compares exactly)")
	fl.IntVarP(&f.opts.Workers, "workers", "w", 0, "goroutines per crossing scan (0: sequential)")
}

// bindBrightness registers brightness flags.
func (f *optionFlags) bindBrightness(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.opts.Brightness, "brightness", "b", f.opts.Brightness, "brightness mode: "+modeNames())
	fl.Uint64Var(&f.opts.BrightnessSeed, "brightness-seed", 0, "brightness seed (default: layout seed)")
	fl.Float64Var(&f.opts.Phase, "phase", 0, "noise phase (computed mode)")
	fl.Float64Var(&f.opts.NoiseScale, "noise-scale", brightness.DefaultNoiseScale, "noise spatial frequency (computed mode)")
}

// bindRender registers output flags.
func (f *optionFlags) bindRender(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.formats, "format", "f", "", "output format(s): "+strings.Join(render.FormatNames(), ", ")+" (comma-separated, default: "+string(pipeline.DefaultFormat)+")")
	fl.IntVar(&f.opts.Cols, "cols", 0, "text grid columns (default: frame width)")
	fl.IntVar(&f.opts.Rows, "rows", 0, "text grid rows (default: frame height)")
	fl.Float64Var(&f.opts.Scale, "scale", 0, "pixels per layout unit (svg, dot)")
	fl.Float64Var(&f.opts.PNGScale, "png-scale", f.opts.PNGScale, "PNG zoom factor")
	fl.BoolVar(&f.opts.Labels, "labels", false, "label nodes with their index (svg)")
}

// resolve overlays the flags the user set on base.
func (f *optionFlags) resolve(cmd *cobra.Command, base pipeline.Options) pipeline.Options {
	opts := base
	changed := cmd.Flags().Changed
	src := f.opts

	if changed("nodes") {
		opts.Nodes = src.Nodes
	}
	if changed("width") {
		opts.Width = src.Width
	}
	if changed("height") {
		opts.Height = src.Height
	}
	if changed("seed") {
		opts.Seed = src.Seed
	}
	if changed("policy") {
		opts.Policy = src.Policy
	}
	if changed("epsilon") {
		opts.Epsilon = src.Epsilon
	}
	if changed("workers") {
		opts.Workers = src.Workers
	}
	if changed("brightness") {
		opts.Brightness = src.Brightness
	}
	if changed("brightness-seed") {
		opts.BrightnessSeed = src.BrightnessSeed
	}
	if changed("phase") {
		opts.Phase = src.Phase
	}
	if changed("noise-scale") {
		opts.NoiseScale = src.NoiseScale
	}
	if changed("format") {
		opts.Formats = parseFormats(f.formats)
	}
	if changed("cols") {
		opts.Cols = src.Cols
	}
	if changed("rows") {
		opts.Rows = src.Rows
	}
	if changed("scale") {
		opts.Scale = src.Scale
	}
	if changed("png-scale") {
		opts.PNGScale = src.PNGScale
	}
	if changed("labels") {
		opts.Labels = src.Labels
	}
	return opts
}

func policyNames() string {
	names := make([]string, len(layout.Policies))
	for i, p := range layout.Policies {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func modeNames() string {
	names := make([]string, len(brightness.Modes))
	for i, m := range brightness.Modes {
		names[i] = string(m)
	}
	return strings.Join(names, ", ")
}
