package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/brightness"
	"github.com/matzehuels/auradisp/pkg/nodeset"
	"github.com/matzehuels/auradisp/pkg/pipeline"
	"github.com/matzehuels/auradisp/pkg/render"
)

// exploreCommand creates the interactive explorer.
func (c *CLI) exploreCommand() *cobra.Command {
	var noCache bool
	flags := newOptionFlags()

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Browse layouts interactively in the terminal",
		Long: `Browse layouts interactively in the terminal.

Keys:
  ←/→ h/l   previous / next seed
  ↑/↓ k/j   more / fewer nodes
  b         cycle brightness mode
  tab       switch between wire and brightness view
  c         toggle the circle policy
  q         quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.baseOptions())
			return c.runExplore(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	flags.bindLayout(cmd)
	flags.bindBrightness(cmd)

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, opts pipeline.Options, noCache bool) error {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	// Logging would tear the alternate screen.
	level := c.Logger.GetLevel()
	c.Logger.SetLevel(log.FatalLevel)
	defer c.Logger.SetLevel(level)

	m := newExploreModel(ctx, runner, opts)
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}

// =============================================================================
// exploreModel - Interactive layout browser
// =============================================================================

var (
	exploreGridStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	exploreStatusStyle = lipgloss.NewStyle().Foreground(colorGray)
	exploreErrorStyle  = lipgloss.NewStyle().Foreground(colorRed)
)

// exploreModel is the bubbletea model of the explorer.
type exploreModel struct {
	ctx     context.Context
	runner  *pipeline.Runner
	opts    pipeline.Options
	set     *nodeset.Set
	cached  bool
	display bool
	err     error
	width   int
	height  int
}

// layoutMsg carries a finished build.
type layoutMsg struct {
	set    *nodeset.Set
	cached bool
	err    error
}

func newExploreModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) exploreModel {
	return exploreModel{ctx: ctx, runner: runner, opts: opts}
}

func (m exploreModel) Init() tea.Cmd {
	return m.build()
}

// build resolves the current options off the UI goroutine.
func (m exploreModel) build() tea.Cmd {
	opts := m.opts
	return func() tea.Msg {
		set, cached, err := m.runner.BuildWithCacheInfo(m.ctx, opts)
		if err == nil {
			err = m.runner.Light(set, opts)
		}
		return layoutMsg{set: set, cached: cached, err: err}
	}
}

func (m exploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case layoutMsg:
		m.err = msg.err
		if msg.err == nil {
			m.set = msg.set
			m.cached = msg.cached
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.opts.Seed++
			m.opts.BrightnessSeed = m.opts.Seed
		case "left", "h":
			if m.opts.Seed > 1 {
				m.opts.Seed--
				m.opts.BrightnessSeed = m.opts.Seed
			}
		case "up", "k":
			m.opts.Nodes = min(m.opts.Nodes+1, 512)
		case "down", "j":
			m.opts.Nodes = max(m.opts.Nodes-1, 1)
		case "b":
			m.opts.Brightness = string(nextMode(brightness.Mode(m.opts.Brightness)))
		case "c":
			if m.opts.Policy == "circle" {
				m.opts.Policy = "uniform"
			} else {
				m.opts.Policy = "circle"
			}
		case "tab":
			m.display = !m.display
			return m, nil
		default:
			return m, nil
		}
		return m, m.build()
	}
	return m, nil
}

func (m exploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(appName + " explore"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ seed  ↑/↓ nodes  b brightness  c circle  tab view  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(exploreErrorStyle.Render(m.err.Error()))
		b.WriteString("\n")
	}
	if m.set == nil {
		b.WriteString(StyleDim.Render("resolving..."))
		return b.String()
	}

	grid := m.gridOptions()
	var g *render.Grid
	if m.display {
		g = render.DrawDisplay(m.set, grid)
	} else {
		g = render.DrawConnect(m.set, grid)
	}
	b.WriteString(exploreGridStyle.Render(g.Framed()))
	b.WriteString("\n")

	stats := m.set.Stats()
	view := "wires"
	if m.display {
		view = "brightness"
	}
	cached := iconFresh
	if m.cached {
		cached = iconCached
	}
	b.WriteString(exploreStatusStyle.Render(fmt.Sprintf(
		"seed %d · %d nodes · %s · %d edges (expected %d) · %d parts · %s · %s · %s",
		m.opts.Seed, m.set.Len(), m.opts.Policy, stats.Accepted, m.set.ExpectedEdges(),
		len(m.set.Components()), m.opts.Brightness, view, cached)))
	return b.String()
}

// gridOptions fits the grid to the terminal when it is smaller than the
// frame.
func (m exploreModel) gridOptions() render.GridOptions {
	var o render.GridOptions
	if m.width > 4 && m.height > 8 {
		w, h := m.set.Bounds()
		o.Cols = min(int(w)+1, m.width-2)
		o.Rows = min(int(h)+1, m.height-7)
	}
	return o
}

func nextMode(m brightness.Mode) brightness.Mode {
	for i, mode := range brightness.Modes {
		if mode == m {
			return brightness.Modes[(i+1)%len(brightness.Modes)]
		}
	}
	return brightness.Modes[0]
}
