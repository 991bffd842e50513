// Package cli implements the polyorder command-line interface.
//
// # Commands
//
//   - sort: order the polygons of one or more detection files
//   - convert: turn a predictions JSON file into normalized coordinate text
//   - serve: expose sorting over HTTP
//
// # Configuration
//
// Settings come from defaults, an optional TOML file (--config or
// $POLYORDER_CONFIG), POLYORDER_* environment variables and finally flags.
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tsawler/polyorder/internal/config"
)

// =============================================================================
// Constants
// =============================================================================

const appName = "polyorder"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

var (
	version = "dev" // semantic version (e.g., "v1.2.3")
	commit  string  // git commit SHA
	date    string  // build timestamp
)

// SetVersion sets the version information displayed by --version.
// It is typically called from main with values injected via ldflags.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// out receives command results; logs go to the logger
	out io.Writer

	configPath string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance logging to w at level. Results are
// written to stdout.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		out:    os.Stdout,
	}
}

// SetOutput redirects command results.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "polyorder puts detected polygons into reading order",
		Long:         `polyorder groups detected polygons (glyphs, characters, words) into rows by vertical proximity and orders each row right to left or left to right, producing a reading sequence.`,
		Version:      version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\ncommit: %s\nbuilt: %s\n", appName, commit, date))
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a TOML config file")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.sortCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())

	return root
}

// loadConfig reads the layered configuration and applies its log level
// unless --verbose was given.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.cfg = cfg

	if c.verbose {
		c.SetLogLevel(LogDebug)
	} else {
		c.SetLogLevel(cfg.Level())
	}
	c.Logger.Debug("configuration loaded", "direction", cfg.Direction, "threshold_ratio", cfg.ThresholdRatio, "jobs", cfg.Jobs)
	return nil
}

// settings returns the loaded configuration, or defaults when commands run
// without the root pre-run hook.
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		cfg := config.Default()
		c.cfg = &cfg
	}
	return c.cfg
}
