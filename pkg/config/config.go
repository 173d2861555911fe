// Package config loads the optional TOML configuration file.
//
// Every key is optional. Values present in the file replace pipeline
// defaults, and command-line flags replace file values:
//
//	[layout]
//	nodes   = 64
//	width   = 40.0
//	height  = 12.0
//	seed    = 7
//	policy  = "circle"
//	epsilon = 0.001
//	workers = 4
//
//	[brightness]
//	mode  = "computed"
//	phase = 0.5
//
//	[render]
//	formats = ["ascii", "svg"]
//	labels  = true
//
//	[cache]
//	backend   = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr      = ":8080"
//	max_nodes = 256
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/auradisp/pkg/errors"
	"github.com/matzehuels/auradisp/pkg/pipeline"
)

// AppName names the per-user configuration directory.
const AppName = "auradisp"

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
	BackendMemory = "memory"
)

// Server defaults.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
)

// File mirrors the configuration file.
type File struct {
	Layout     Layout     `toml:"layout"`
	Brightness Brightness `toml:"brightness"`
	Render     Render     `toml:"render"`
	Cache      Cache      `toml:"cache"`
	Server     Server     `toml:"server"`
	Log        Log        `toml:"log"`
}

// Layout holds construction parameters.
type Layout struct {
	Nodes   int     `toml:"nodes"`
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Seed    uint64  `toml:"seed"`
	Policy  string  `toml:"policy"`
	Epsilon float64 `toml:"epsilon"`
	Workers int     `toml:"workers"`
}

// Brightness holds brightness mode parameters.
type Brightness struct {
	Mode  string  `toml:"mode"`
	Seed  uint64  `toml:"seed"`
	Phase float64 `toml:"phase"`
	Scale float64 `toml:"scale"`
}

// Render holds output options.
type Render struct {
	Formats  []string `toml:"formats"`
	Cols     int      `toml:"cols"`
	Rows     int      `toml:"rows"`
	Scale    float64  `toml:"scale"`
	PNGScale float64  `toml:"png_scale"`
	Labels   bool     `toml:"labels"`
}

// Cache selects the cache backend.
type Cache struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// Server configures the HTTP server.
type Server struct {
	Addr            string        `toml:"addr"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
	// MaxNodes caps the node count per request; zero keeps the server default.
	MaxNodes int `toml:"max_nodes"`
}

// Log configures logging.
type Log struct {
	Level string `toml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() *File {
	return &File{
		Cache:  Cache{Backend: BackendFile},
		Server: Server{Addr: DefaultAddr, ShutdownTimeout: DefaultShutdownTimeout},
		Log:    Log{Level: "info"},
	}
}

// Load reads the file at path over the defaults. Unknown keys are an error
// so that a misspelled key does not pass silently.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeNotFound, err, "config file %s not found", path)
		}
		return nil, err
	}
	return Parse(data)
}

// Parse decodes TOML data over the defaults.
func Parse(data []byte) (*File, error) {
	f := Default()
	md, err := toml.Decode(string(data), f)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown config keys: %s", strings.Join(keys, ", "))
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadDefault reads DefaultPath if it exists and returns the defaults
// otherwise.
func LoadDefault() (*File, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// DefaultPath returns the per-user configuration path following the XDG
// convention (~/.config/auradisp/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, AppName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", AppName, "config.toml"), nil
}

// Validate checks values that no downstream package validates.
func (f *File) Validate() error {
	switch f.Cache.Backend {
	case "", BackendFile, BackendNone, BackendMemory:
	case BackendRedis:
		if f.Cache.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidInput, "cache backend %q requires redis_url", BackendRedis)
		}
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q (want one of: file, redis, memory, none)", f.Cache.Backend)
	}
	switch f.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown log level %q", f.Log.Level)
	}
	if f.Server.ShutdownTimeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "shutdown_timeout must not be negative")
	}
	if f.Server.MaxNodes < 0 || f.Server.MaxNodes > errors.MaxNodeCount {
		return errors.New(errors.ErrCodeInvalidInput, "server max_nodes must be in [0, %d], got %d", errors.MaxNodeCount, f.Server.MaxNodes)
	}
	return nil
}

// Options converts the file into pipeline options. Zero values stay zero
// so pipeline defaults still apply.
func (f *File) Options() pipeline.Options {
	var opts pipeline.Options
	f.Apply(&opts)
	return opts
}

// Apply copies every value set in the file into opts.
func (f *File) Apply(opts *pipeline.Options) {
	l := f.Layout
	setIf(&opts.Nodes, l.Nodes)
	setIf(&opts.Width, l.Width)
	setIf(&opts.Height, l.Height)
	setIf(&opts.Seed, l.Seed)
	setIf(&opts.Policy, l.Policy)
	setIf(&opts.Epsilon, l.Epsilon)
	setIf(&opts.Workers, l.Workers)

	b := f.Brightness
	setIf(&opts.Brightness, b.Mode)
	setIf(&opts.BrightnessSeed, b.Seed)
	setIf(&opts.Phase, b.Phase)
	setIf(&opts.NoiseScale, b.Scale)

	r := f.Render
	if len(r.Formats) > 0 {
		opts.Formats = append([]string(nil), r.Formats...)
	}
	setIf(&opts.Cols, r.Cols)
	setIf(&opts.Rows, r.Rows)
	setIf(&opts.Scale, r.Scale)
	setIf(&opts.PNGScale, r.PNGScale)
	opts.Labels = opts.Labels || r.Labels
}

func setIf[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}
