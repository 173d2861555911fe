package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // primary
	colorGreen  = lipgloss.Color("35")  // success, cached
	colorYellow = lipgloss.Color("220") // warnings, lit nodes
	colorRed    = lipgloss.Color("167") // errors, crossings
	colorBlue   = lipgloss.Color("75")  // commands
	colorWhite  = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // muted
)

// StyleTitle renders headings; StyleDim renders secondary text.
var (
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
)

var (
	styleValue       = lipgloss.NewStyle().Foreground(colorWhite)
	styleWarning     = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// statusOut receives status lines. Artifacts printed to the terminal go to
// CLI.out instead, so piping "generate -f txt" stays clean.
var statusOut io.Writer = os.Stdout

func statusf(icon string, format string, args ...any) {
	fmt.Fprintln(statusOut, icon+" "+fmt.Sprintf(format, args...))
}

// =============================================================================
// Status lines
// =============================================================================

func printSuccess(format string, args ...any) {
	statusf(styleIconSuccess.Render(iconSuccess), format, args...)
}

func printError(format string, args ...any) {
	statusf(styleIconError.Render(iconError), format, args...)
}

func printWarning(format string, args ...any) {
	statusf(styleWarning.Render(iconWarning), "%s", styleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	statusf(styleIconInfo.Render(iconInfo), format, args...)
}

// printDetail prints an indented, dimmed line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(statusOut, "  "+StyleDim.Render(iconArrow)+" "+styleValue.Render(path))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(statusOut, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Fprintln(statusOut)
}

// =============================================================================
// Layout summaries
// =============================================================================

// joinDim joins parts with a dimmed separator.
func joinDim(parts []string) string {
	rendered := make([]string, len(parts))
	for i, p := range parts {
		rendered[i] = StyleDim.Render(p)
	}
	return strings.Join(rendered, StyleDim.Render(" · "))
}

// printStats prints a one-line layout summary:
//
//	32 nodes · 78 edges · 3 components · cached
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d nodes", stats.NodeCount),
		fmt.Sprintf("%d edges", stats.EdgeCount),
	}
	if stats.Conflicts > 0 {
		parts = append(parts, fmt.Sprintf("%d conflicts", stats.Conflicts))
	}
	if stats.Components > 1 {
		parts = append(parts, fmt.Sprintf("%d components", stats.Components))
	}

	status := styleComputed.Render(iconFresh)
	if cached {
		status = styleCached.Render(iconCached)
	}
	fmt.Fprintln(statusOut, "  "+joinDim(parts)+StyleDim.Render(" · ")+status)
}

// formatSummary renders the closing line of a sweep.
func formatSummary(s pipeline.BatchSummary) string {
	parts := []string{
		fmt.Sprintf("edges %d..%d (mean %.1f)", s.MinEdges, s.MaxEdges, s.MeanEdges),
		fmt.Sprintf("%d/%d triangulated", s.Triangulated, s.Runs),
		fmt.Sprintf("%d crossings", s.Crossings),
		fmt.Sprintf("%d disconnected", s.Disconnected),
	}
	return StyleDim.Render("summary:") + " " + joinDim(parts)
}
