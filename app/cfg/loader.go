package cfg

import (
	"cmp"
	"fmt"
	"log/slog"
	"os"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Preview cache configuration
	CachePath string `long:"cache" env:"MDFEED_CACHE" description:"Path to the SQLite preview cache (empty disables caching)"`

	// Serve mode configuration
	Port     string `long:"port" env:"PORT" default:"8080" description:"HTTP port for serve mode"`
	ServeDir string `long:"serve-dir" env:"MDFEED_SERVE_DIR" default:"." description:"Directory containing generated feed files for serve mode"`

	// Preview tuning
	MinBodyChars int `long:"min-body-chars" env:"MDFEED_MIN_BODY_CHARS" default:"80" description:"Minimum chapter body length (in characters) before it is preferred over the frontmatter description"`

	Debug bool `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

// Load parses process configuration from command-line flags and environment
// variables. Positional arguments (the mdBook "supports" hook or the "serve"
// subcommand) are returned untouched for the caller to dispatch on.
func Load() (*Cfg, []string, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	rest, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil, nil
			}
		}
		return nil, nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		CachePath:    raw.CachePath,
		Port:         raw.Port,
		ServeDir:     raw.ServeDir,
		MinBodyChars: raw.MinBodyChars,
		Debug:        raw.Debug,
		Version:      GetVersion(),
	}

	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	// Stdout carries the book echo back to mdBook, so all logging goes to stderr.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	globalCfg = cfg

	return cfg, rest, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
