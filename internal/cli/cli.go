// Package cli implements the cardforge command-line interface.
//
// This package provides commands for composing business-card designs on a
// remote card service: submitting a logo, background and logo placement,
// improving background prompts, previewing placements locally and managing
// configuration and the prompt cache. The CLI is built using cobra and logs
// through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - generate: Compose a card from the command line
//   - wizard: Design a card interactively in the terminal
//   - improve: Rewrite a background prompt for better results
//   - preview: Render a local approximation of a placement
//   - probe: Check an image file and report its dimensions
//   - config, cache: Manage settings and cached prompts
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The wizard
// owns the terminal, so it logs to --log-file or nowhere.
package cli

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/cardforge/pkg/buildinfo"
	"github.com/matzehuels/cardforge/pkg/cardapi"
	"github.com/matzehuels/cardforge/pkg/config"
	apperr "github.com/matzehuels/cardforge/pkg/errors"
	"github.com/matzehuels/cardforge/pkg/httputil"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for display.
	appName = "cardforge"

	// defaultOutput is the file a generated card is saved to.
	defaultOutput = "card-design.png"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// output receives all user-facing command output.
var output io.Writer = os.Stdout

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	serverURL  string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Cardforge designs business cards with your logo",
		Long:          `Cardforge places a company logo on a generated or uploaded background and has a card service compose the final business card.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/cardforge/config.toml)")
	root.PersistentFlags().StringVar(&c.serverURL, "server", "", "card service base URL (overrides server.url)")

	// Register all subcommands
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.improveCommand())
	root.AddCommand(c.wizardCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.probeCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration and applies flag overrides.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.Server.URL = c.serverURL
	}
	c.Config = cfg
	if cfg.File != "" {
		c.Logger.Debug("Loaded config", "file", cfg.File)
	}
	return nil
}

// =============================================================================
// Client Factory
// =============================================================================

// newClient creates a card service client from the loaded configuration.
func (c *CLI) newClient(noCache bool) (*cardapi.Client, error) {
	opts := []cardapi.Option{
		cardapi.WithLogger(c.Logger),
		cardapi.WithTimeout(c.Config.Server.Timeout),
	}
	if !noCache && c.Config.Cache.Enabled {
		cache, err := c.newCache()
		if err != nil {
			c.Logger.Warn("Prompt cache unavailable", "err", err)
		} else {
			opts = append(opts, cardapi.WithCache(cache))
		}
	}
	return cardapi.NewClient(c.Config.Server.URL, opts...)
}

// newCache opens the prompt cache configured by cache.dir and cache.ttl.
func (c *CLI) newCache() (*httputil.Cache, error) {
	return httputil.NewCache(c.Config.Cache.Dir, c.Config.Cache.TTL)
}

// cacheDir returns the configured cache directory, defaulting to the XDG
// location (~/.cache/cardforge/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return httputil.DefaultDir()
}

// cardSize returns the configured card dimensions as floats.
func (c *CLI) cardSize() (float64, float64) {
	return float64(c.Config.Card.Width), float64(c.Config.Card.Height)
}

// elapsed formats a duration for status lines.
func elapsed(d time.Duration) string {
	return d.Round(10 * time.Millisecond).String()
}

// errorMessage returns the single user-facing message for err.
func errorMessage(err error) string {
	return apperr.UserMessage(err)
}
