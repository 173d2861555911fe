package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// sweepCommand creates the sweep command: build many seeds and audit each.
func (c *CLI) sweepCommand() *cobra.Command {
	var (
		start       uint64
		count       int
		concurrency int
		asJSON      bool
		noCache     bool
	)
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Build layouts over a range of seeds and audit them",
		Long: `Build layouts over a range of seeds and audit them.

Each layout is checked for crossing wires and compared with the edge count of
a full triangulation of its points (3n-3-h for n nodes with h on the convex
hull). Builds run concurrently; the table is ordered by seed.`,
		Example: `  auradisp sweep --count 50
  auradisp sweep -n 128 --start 1000 --count 20 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.baseOptions())
			if cmd.Flags().Changed("seed") && !cmd.Flags().Changed("start") {
				start = opts.Seed
			}
			return c.runSweep(cmd.Context(), opts, pipeline.SeedRange(start, count), concurrency, asJSON, noCache)
		},
	}

	cmd.Flags().Uint64Var(&start, "start", 1, "first seed")
	cmd.Flags().IntVarP(&count, "count", "c", 10, "number of seeds")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "j", 0, "concurrent builds (default: GOMAXPROCS)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print reports as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)

	return cmd
}

// runSweep runs the batch and prints the reports.
func (c *CLI) runSweep(ctx context.Context, opts pipeline.Options, seeds []uint64, concurrency int, asJSON, noCache bool) error {
	if len(seeds) == 0 {
		return fmt.Errorf("count must be positive")
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	reports, err := runner.Batch(ctx, opts, seeds, concurrency)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	prog.done(fmt.Sprintf("Built %d layouts", len(reports)))

	if asJSON {
		enc := json.NewEncoder(c.out)
		enc.SetIndent("", "  ")
		return enc.Encode(reports)
	}

	fmt.Fprintln(c.out, renderSweepTable(reports))
	s := pipeline.Summarize(reports)
	fmt.Fprintln(c.out, formatSummary(s))
	if s.Crossings > 0 {
		return fmt.Errorf("%d crossing wire pairs found", s.Crossings)
	}
	return nil
}

// renderSweepTable formats reports as a bordered table.
func renderSweepTable(reports []pipeline.SeedReport) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	rows := make([][]string, len(reports))
	for i, r := range reports {
		cached := ""
		if r.Cached {
			cached = iconCached
		}
		rows[i] = []string{
			strconv.FormatUint(r.Seed, 10),
			strconv.Itoa(r.Edges),
			strconv.Itoa(r.Expected),
			strconv.Itoa(r.Conflicts),
			strconv.Itoa(r.Crossings),
			strconv.Itoa(r.Components),
			cached,
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Seed", "Edges", "Expected", "Conflicts", "Crossings", "Parts", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			r := reports[row]
			switch {
			case r.Crossings > 0 && col == 4:
				return cellStyle.Foreground(colorRed).Bold(true)
			case !r.Triangulated() && col == 1:
				return cellStyle.Foreground(colorYellow)
			case col == 6:
				return cellStyle.Foreground(colorGreen)
			}
			return cellStyle
		})
	return t.Render()
}
