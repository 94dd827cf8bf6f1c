package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/stresslayout/pkg/buildinfo"
	"github.com/matzehuels/stresslayout/pkg/cache"
	"github.com/matzehuels/stresslayout/pkg/config"
	"github.com/matzehuels/stresslayout/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "stresslayout"

	// defaultJobs is how many graphs the layout command lays out at once.
	defaultJobs = 4
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

	// Config is loaded before any subcommand runs.
	Config *config.File

	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: &config.File{},
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Stresslayout computes constrained graph layouts",
		Long: `Stresslayout positions the nodes of a graph so that their geometric distances
match their graph-theoretic distances, subject to separation, alignment and
non-overlap constraints.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.loadConfig,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/stresslayout/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.pathsCommand())
	root.AddCommand(c.overlapsCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, c.Logger), nil
}

func (c *CLI) newCache(noCache bool) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disabled {
		return cache.NewNullCache(), nil
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, falling back to the XDG
// standard location (~/.cache/stresslayout/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return cacheDir()
}

func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return cache.DefaultDir()
	}
	return filepath.Join(home, ".cache", appName), nil
}
