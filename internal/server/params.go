package server

import (
	"net/url"
	"strconv"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// parseOptions overlays query parameters on defaults and refuses node
// counts above maxNodes.
func parseOptions(q url.Values, defaults pipeline.Options, maxNodes int) (pipeline.Options, error) {
	opts := defaults
	opts.Formats = nil
	p := queryParser{q: q}

	p.intVar("nodes", &opts.Nodes)
	p.floatVar("width", &opts.Width)
	p.floatVar("height", &opts.Height)
	p.uintVar("seed", &opts.Seed)
	p.stringVar("policy", &opts.Policy)
	p.floatVar("epsilon", &opts.Epsilon)
	p.boolVar("refresh", &opts.Refresh)

	p.stringVar("brightness", &opts.Brightness)
	p.uintVar("brightness_seed", &opts.BrightnessSeed)
	p.floatVar("phase", &opts.Phase)
	p.floatVar("noise_scale", &opts.NoiseScale)

	p.intVar("cols", &opts.Cols)
	p.intVar("rows", &opts.Rows)
	p.floatVar("scale", &opts.Scale)
	p.floatVar("png_scale", &opts.PNGScale)
	p.boolVar("labels", &opts.Labels)

	if p.err != nil {
		return pipeline.Options{}, p.err
	}
	if opts.Nodes > maxNodes {
		return pipeline.Options{}, errors.New(errors.ErrCodeInvalidNodeCount,
			"node count too large for this server (max %d), got %d", maxNodes, opts.Nodes)
	}
	return opts, nil
}

// queryParser records the first malformed parameter.
type queryParser struct {
	q   url.Values
	err error
}

func (p *queryParser) raw(name string) (string, bool) {
	if p.err != nil || !p.q.Has(name) {
		return "", false
	}
	return p.q.Get(name), true
}

func (p *queryParser) fail(name, v string, err error) {
	p.err = errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid %s %q", name, v)
}

func (p *queryParser) stringVar(name string, dst *string) {
	if v, ok := p.raw(name); ok {
		*dst = v
	}
}

func (p *queryParser) intVar(name string, dst *int) {
	if v, ok := p.raw(name); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (p *queryParser) uintVar(name string, dst *uint64) {
	if v, ok := p.raw(name); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = n
	}
}

func (p *queryParser) floatVar(name string, dst *float64) {
	if v, ok := p.raw(name); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = f
	}
}

func (p *queryParser) boolVar(name string, dst *bool) {
	if v, ok := p.raw(name); ok {
		if v == "" {
			*dst = true
			return
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			p.fail(name, v, err)
			return
		}
		*dst = b
	}
}
