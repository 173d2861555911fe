package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// generateCommand creates the generate command: build, light and render a
// node set in one step.
func (c *CLI) generateCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a node layout and render it",
		Long: `Generate a node layout and render it.

Nodes are placed inside the frame by the chosen policy, every pair is
considered as a wire from shortest to longest, and a wire is kept only if it
crosses no shorter kept wire. Brightness is then assigned and the result is
rendered in the requested formats.

A single text format is printed to the terminal unless -o is given. Use
-f json to save a snapshot that 'render' can redraw without recomputing.

Layouts and artifacts are cached locally for faster subsequent runs.`,
		Example: `  auradisp generate
  auradisp generate -n 64 -s 7 -b computed -f display
  auradisp generate -p circle -n 24 -f svg,json -o ring`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.baseOptions())
			opts.Refresh = refresh
			return c.runGenerate(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "rebuild the layout even if cached")
	flags.bindLayout(cmd)
	flags.bindBrightness(cmd)
	flags.bindRender(cmd)

	return cmd
}

// runGenerate executes the pipeline and writes its artifacts.
func (c *CLI) runGenerate(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %d nodes...", opts.Nodes))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return fmt.Errorf("generate: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	paths, err := c.writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		output:    output,
		base:      fmt.Sprintf("%s-%d", appName, opts.Seed),
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		// Printed to the terminal; keep stdout clean.
		c.Logger.Debug("generated", "run", result.RunID, "edges", result.Stats.EdgeCount)
		return nil
	}

	printSuccess("Generated %s", result.RunID[:8])
	for _, p := range paths {
		printFile(p)
	}
	printStats(result.Stats, result.CacheInfo.LayoutHit)
	if result.Stats.EdgeCount != result.Stats.ExpectedEdges {
		printWarning("%d edges, triangulation would have %d", result.Stats.EdgeCount, result.Stats.ExpectedEdges)
	}
	for _, p := range paths {
		if strings.HasSuffix(p, ".json") {
			printNewline()
			printNextStep("Redraw", appName+" render "+p+" -f svg")
			break
		}
	}
	return nil
}
