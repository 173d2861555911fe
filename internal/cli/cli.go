package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/auradisp/pkg/buildinfo"
	"github.com/matzehuels/auradisp/pkg/cache"
	"github.com/matzehuels/auradisp/pkg/config"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = config.AppName
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is the loaded configuration file, or the defaults.
	Config *config.File

	configPath  string
	out         io.Writer
	levelPinned bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
		out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level. A level set here wins over the
// config file.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	c.levelPinned = true
}

// SetOutput redirects command output (artifacts printed to the terminal).
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Auradisp lays out LED nodes and wires them without crossings",
		Long: `Auradisp scatters LED nodes over a rectangular frame, connects them with
the shortest set of non-crossing straight wires, assigns each node a brightness
and renders the result as text, SVG, Graphviz, PNG, PDF or a JSON snapshot.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+defaultConfigHint()+")")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.sweepCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads --config, or the per-user file when it exists.
func (c *CLI) loadConfig(cmd *cobra.Command, args []string) error {
	var (
		f   *config.File
		err error
	)
	if c.configPath != "" {
		f, err = config.Load(c.configPath)
	} else {
		f, err = config.LoadDefault()
	}
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	c.Config = f
	if !c.levelPinned {
		level, err := configLevel(f.Log.Level)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		c.Logger.SetLevel(level)
	}
	c.Logger.Debug("loaded config", "path", c.configPath, "cache", f.Cache.Backend)
	return nil
}

func defaultConfigHint() string {
	if path, err := config.DefaultPath(); err == nil {
		return path
	}
	return "~/.config/" + appName + "/config.toml"
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cache, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, c.newKeyer(), c.Logger), nil
}

// newKeyer scopes file cache keys by the configured prefix so several
// configurations can share one directory. Redis applies the prefix itself.
func (c *CLI) newKeyer() cache.Keyer {
	cfg := c.Config.Cache
	if cfg.Prefix == "" || cfg.Backend == config.BackendRedis {
		return nil
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Prefix)
}

// newCache opens the configured cache backend. A file cache that cannot be
// located degrades to no caching.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendMemory:
		return cache.NewMemoryCache(), nil
	case config.BackendRedis:
		prefix := cfg.Prefix
		if prefix == "" {
			prefix = cache.DefaultRedisPrefix
		}
		rc, err := cache.NewRedisCache(ctx, cfg.RedisURL, prefix)
		if err != nil {
			return nil, fmt.Errorf("connect redis cache: %w", err)
		}
		return rc, nil
	}
	dir, err := c.cacheLocation()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheLocation returns the configured cache directory, or the XDG default.
func (c *CLI) cacheLocation() (string, error) {
	if c.Config != nil && c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

// cacheDir returns the cache directory using XDG standard (~/.cache/auradisp/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// baseOptions returns pipeline options from the config file. Values the
// file leaves unset stay zero so pipeline defaults apply later.
func (c *CLI) baseOptions() pipeline.Options {
	opts := c.Config.Options()
	opts.Logger = c.Logger
	return opts
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{string(pipeline.DefaultFormat)}
	}
	parts := strings.Split(s, ",")
	formats := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			formats = append(formats, p)
		}
	}
	return formats
}
