package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/graph"
	"github.com/matzehuels/auradisp/pkg/nodeset"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// renderCommand creates the render command for redrawing a saved snapshot.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a saved layout snapshot",
		Long: `Render a saved layout snapshot.

The render command takes a layout.json file (produced by 'generate -f json')
and renders it without recomputing positions or wires. Stored brightness is
kept unless --brightness is given.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.baseOptions())
			relight := cmd.Flags().Changed("brightness")
			return c.runRender(cmd.Context(), args[0], opts, output, noCache, relight)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindBrightness(cmd)
	flags.bindRender(cmd)

	return cmd
}

// runRender loads the snapshot and renders it.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache, relight bool) error {
	if err := errors.ValidatePath(input); err != nil {
		return err
	}
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}
	set, err := nodeset.FromLayout(l)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Render options come from flags; construction parameters from the file.
	opts.Seed = l.Seed
	if !relight {
		opts.Brightness = l.BrightnessMode
	}
	if err := opts.ValidateForRender(); err != nil {
		return err
	}
	if relight {
		if err := runner.Light(set, opts); err != nil {
			return fmt.Errorf("brightness: %w", err)
		}
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d nodes...", set.Len()))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, set, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	paths, err := c.writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      strings.TrimSuffix(input, filepath.Ext(input)),
	})
	if err != nil || len(paths) == 0 {
		return err
	}

	printSuccess("Render complete")
	for _, p := range paths {
		printFile(p)
	}
	printStats(pipeline.Stats{
		NodeCount:  set.Len(),
		EdgeCount:  len(set.Edges()),
		Components: len(set.Components()),
	}, cacheHit)
	return nil
}
