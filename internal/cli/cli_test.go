package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/pipeline"
	"github.com/matzehuels/auradisp/pkg/render"
)

// newTestCLI isolates config and cache directories and captures output.
func newTestCLI(t *testing.T) (*CLI, *bytes.Buffer) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	prev := statusOut
	statusOut = io.Discard
	t.Cleanup(func() { statusOut = prev })

	var out bytes.Buffer
	c := New(io.Discard, LogInfo)
	c.SetOutput(&out)
	return c, &out
}

func execute(t *testing.T, c *CLI, args ...string) error {
	t.Helper()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(context.Background())
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"ascii"}},
		{"svg", []string{"svg"}},
		{"svg,json", []string{"svg", "json"}},
		{" svg , dot ,", []string{"svg", "dot"}},
	}
	for _, tt := range tests {
		got := parseFormats(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOptionFlagsResolve(t *testing.T) {
	flags := newOptionFlags()
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	flags.bindLayout(cmd)
	flags.bindBrightness(cmd)
	flags.bindRender(cmd)

	if err := cmd.ParseFlags([]string{"-n", "64", "--brightness", "computed", "-f", "svg,json"}); err != nil {
		t.Fatalf("ParseFlags: %v", err)
	}

	base := pipeline.Options{Nodes: 10, Seed: 9, Policy: "circle", Width: 50}
	got := flags.resolve(cmd, base)

	if got.Nodes != 64 {
		t.Errorf("Nodes = %d, want 64 from flag", got.Nodes)
	}
	if got.Brightness != "computed" {
		t.Errorf("Brightness = %q, want computed", got.Brightness)
	}
	if strings.Join(got.Formats, ",") != "svg,json" {
		t.Errorf("Formats = %v", got.Formats)
	}
	// Unset flags keep the base values, not the flag defaults.
	if got.Seed != 9 || got.Policy != "circle" || got.Width != 50 {
		t.Errorf("base values overwritten: seed=%d policy=%q width=%g", got.Seed, got.Policy, got.Width)
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "auradisp-42", "auradisp-42"},
		{"out/ring.svg", "x", "out/ring"},
		{"ring.json", "x", "ring"},
		{"ring.v2", "x", "ring.v2"},
		{"ring", "x", "ring"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestArtifactPath(t *testing.T) {
	tests := []struct {
		format render.Format
		want   string
	}{
		{render.FormatSVG, "base.svg"},
		{render.FormatJSON, "base.json"},
		{render.FormatData, "base.txt"},
		{render.FormatASCII, "base.ascii.txt"},
		{render.FormatDisplay, "base.display.txt"},
		{render.FormatGraphviz, "base.graphviz.svg"},
	}
	for _, tt := range tests {
		if got := artifactPath("base", tt.format); got != tt.want {
			t.Errorf("artifactPath(%s) = %q, want %q", tt.format, got, tt.want)
		}
	}
}

func TestWriteArtifacts(t *testing.T) {
	c, out := newTestCLI(t)
	artifacts := map[string][]byte{
		"ascii": []byte("grid\n"),
		"svg":   []byte("<svg/>"),
	}

	t.Run("single text format prints", func(t *testing.T) {
		out.Reset()
		paths, err := c.writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"ascii"}, base: "x"})
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) != 0 || out.String() != "grid\n" {
			t.Errorf("paths=%v out=%q", paths, out.String())
		}
	})

	t.Run("single binary format writes file", func(t *testing.T) {
		base := filepath.Join(t.TempDir(), "run")
		paths, err := c.writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg"}, base: base})
		if err != nil {
			t.Fatal(err)
		}
		if len(paths) != 1 || paths[0] != base+".svg" {
			t.Fatalf("paths = %v", paths)
		}
	})

	t.Run("explicit output", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "grid.txt")
		paths, err := c.writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"ascii"}, output: path})
		if err != nil {
			t.Fatal(err)
		}
		data, err := os.ReadFile(path)
		if err != nil || string(data) != "grid\n" || len(paths) != 1 {
			t.Errorf("data=%q err=%v paths=%v", data, err, paths)
		}
	})

	t.Run("multiple formats", func(t *testing.T) {
		output := filepath.Join(t.TempDir(), "ring.svg")
		paths, err := c.writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"ascii", "svg"}, output: output})
		if err != nil {
			t.Fatal(err)
		}
		dir := filepath.Dir(output)
		want := []string{filepath.Join(dir, "ring.ascii.txt"), filepath.Join(dir, "ring.svg")}
		if strings.Join(paths, "|") != strings.Join(want, "|") {
			t.Errorf("paths = %v, want %v", paths, want)
		}
	})
}

func TestWriteArtifactsRejectsBadPath(t *testing.T) {
	c, _ := newTestCLI(t)
	artifacts := map[string][]byte{"svg": []byte("<svg/>")}

	for _, output := range []string{filepath.Join(t.TempDir(), "frames") + "/", "ring\x00.svg"} {
		_, err := c.writeArtifacts(artifactWriteParams{artifacts: artifacts, formats: []string{"svg"}, output: output})
		if !errors.Is(err, errors.ErrCodeInvalidPath) {
			t.Errorf("output %q: err = %v, want INVALID_PATH", output, err)
		}
	}
}

func TestRenderRejectsBadSnapshotPath(t *testing.T) {
	c, _ := newTestCLI(t)
	err := execute(t, c, "render", "", "-f", "ascii")
	if !errors.Is(err, errors.ErrCodeInvalidPath) {
		t.Errorf("render \"\": err = %v, want INVALID_PATH", err)
	}
}

func TestGenerateCommandPrintsText(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "generate", "-n", "8", "-s", "3", "-f", "txt", "--no-cache"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	got := out.String()
	for _, want := range []string{"nodes: 8", "distances:", "connections:"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestGenerateThenRender(t *testing.T) {
	c, out := newTestCLI(t)
	snapshot := filepath.Join(t.TempDir(), "layout.json")

	if err := execute(t, c, "generate", "-n", "12", "-f", "json", "-o", snapshot); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := os.Stat(snapshot); err != nil {
		t.Fatalf("snapshot not written: %v", err)
	}

	out.Reset()
	if err := execute(t, c, "render", snapshot, "-f", "ascii"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(out.String(), "edges: ") {
		t.Errorf("render output missing edge count:\n%s", out.String())
	}
}

func TestGenerateInvalidOptions(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(t, c, "generate", "-p", "spiral"); err == nil {
		t.Error("expected error for unknown policy")
	}
	if err := execute(t, c, "generate", "-f", "bmp"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestConfigFileApplies(t *testing.T) {
	c, out := newTestCLI(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[layout]\nnodes = 5\n\n[cache]\nbackend = \"none\"\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := execute(t, c, "--config", path, "generate", "-f", "txt"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out.String(), "nodes: 5") {
		t.Errorf("config node count not applied:\n%s", out.String())
	}

	out.Reset()
	if err := execute(t, c, "--config", path, "generate", "-f", "txt", "-n", "7"); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(out.String(), "nodes: 7") {
		t.Errorf("flag should override config:\n%s", out.String())
	}
}

func TestSweepCommandJSON(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "sweep", "-n", "10", "--count", "3", "--json", "--no-cache"); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	got := out.String()
	for _, seed := range []string{`"seed": 1`, `"seed": 2`, `"seed": 3`} {
		if !strings.Contains(got, seed) {
			t.Errorf("output missing %s:\n%s", seed, got)
		}
	}
}

func TestRenderSweepTable(t *testing.T) {
	reports := []pipeline.SeedReport{
		{Seed: 1, Edges: 21, Expected: 21, Components: 1, Cached: true},
		{Seed: 2, Edges: 20, Expected: 21, Components: 1},
	}
	got := renderSweepTable(reports)
	for _, want := range []string{"Seed", "Expected", "21", "20", iconCached} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
}

func TestCachePathCommand(t *testing.T) {
	c, out := newTestCLI(t)
	if err := execute(t, c, "cache", "path"); err != nil {
		t.Fatalf("cache path: %v", err)
	}
	got := strings.TrimSpace(out.String())
	if filepath.Base(got) != appName {
		t.Errorf("cache path = %q, want directory named %q", got, appName)
	}
}

func TestCacheClearCommand(t *testing.T) {
	c, _ := newTestCLI(t)
	if err := execute(t, c, "generate", "-n", "6", "-f", "svg", "-o", filepath.Join(t.TempDir(), "a.svg")); err != nil {
		t.Fatalf("generate: %v", err)
	}
	dir, err := c.cacheLocation()
	if err != nil {
		t.Fatal(err)
	}
	if entries, _ := os.ReadDir(dir); len(entries) == 0 {
		t.Fatal("expected cache entries after generate")
	}

	if err := execute(t, c, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	var files int
	filepath.WalkDir(dir, func(_ string, d os.DirEntry, _ error) error {
		if d != nil && !d.IsDir() {
			files++
		}
		return nil
	})
	if files != 0 {
		t.Errorf("%d files left after clear", files)
	}
}

func TestExploreModel(t *testing.T) {
	ctx := context.Background()
	runner := pipeline.NewRunner(nil, nil, nil)
	opts := pipeline.Options{Nodes: 10, Seed: 4}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	m := newExploreModel(ctx, runner, opts)

	if !strings.Contains(m.View(), "resolving") {
		t.Error("View before first build should show progress")
	}

	msg := m.build()()
	updated, _ := m.Update(msg)
	m = updated.(exploreModel)
	if m.set == nil || m.err != nil {
		t.Fatalf("build failed: set=%v err=%v", m.set, m.err)
	}
	if view := m.View(); !strings.Contains(view, "seed 4") || !strings.Contains(view, "10 nodes") {
		t.Errorf("View missing status line:\n%s", view)
	}

	keys := []struct {
		key   tea.KeyMsg
		check func(exploreModel) bool
	}{
		{tea.KeyMsg{Type: tea.KeyRight}, func(m exploreModel) bool { return m.opts.Seed == 5 }},
		{tea.KeyMsg{Type: tea.KeyUp}, func(m exploreModel) bool { return m.opts.Nodes == 11 }},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}}, func(m exploreModel) bool { return m.opts.Policy == "circle" }},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'b'}}, func(m exploreModel) bool { return m.opts.Brightness != opts.Brightness }},
	}
	for _, k := range keys {
		updated, cmd := m.Update(k.key)
		m = updated.(exploreModel)
		if cmd == nil {
			t.Errorf("key %s should trigger a rebuild", k.key)
		}
		if !k.check(m) {
			t.Errorf("key %s did not update options: %+v", k.key, m.opts)
		}
	}

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = updated.(exploreModel)
	if !m.display || cmd != nil {
		t.Errorf("tab should toggle the view without rebuilding")
	}
}

func TestPrintStats(t *testing.T) {
	var buf bytes.Buffer
	prev := statusOut
	statusOut = &buf
	defer func() { statusOut = prev }()

	printStats(pipeline.Stats{NodeCount: 32, EdgeCount: 78, Components: 2}, true)
	got := buf.String()
	for _, want := range []string{"32 nodes", "78 edges", "2 components", iconCached} {
		if !strings.Contains(got, want) {
			t.Errorf("printStats output missing %q: %q", want, got)
		}
	}
	if strings.Contains(got, "conflicts") {
		t.Errorf("zero conflicts should be omitted: %q", got)
	}
}

func TestFormatSummary(t *testing.T) {
	got := formatSummary(pipeline.BatchSummary{Runs: 4, MinEdges: 20, MaxEdges: 22, MeanEdges: 21, Triangulated: 3})
	for _, want := range []string{"20..22", "mean 21.0", "3/4 triangulated", "0 crossings"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q: %q", want, got)
		}
	}
}

func TestCompletionCommand(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		t.Run(shell, func(t *testing.T) {
			c, out := newTestCLI(t)
			if err := execute(t, c, "completion", shell); err != nil {
				t.Fatalf("completion %s: %v", shell, err)
			}
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s script does not mention %s", shell, appName)
			}
		})
	}

	c, _ := newTestCLI(t)
	if err := execute(t, c, "completion", "tcsh"); err == nil {
		t.Error("expected error for unsupported shell")
	}
}
