// Package cli implements the fatwa command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/buildinfo"
	"github.com/matzehuels/fatwa/pkg/cache"
	"github.com/matzehuels/fatwa/pkg/chat"
	"github.com/matzehuels/fatwa/pkg/termview"
	"github.com/matzehuels/fatwa/pkg/typewriter"
)

const (
	// appName is the application name used for directories and display.
	appName = "fatwa"

	// retryDelay is the first backoff between request attempts.
	retryDelay = 500 * time.Millisecond
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

	// Config is loaded in the root command's PersistentPreRunE.
	Config *Config

	configFile string
	noCache    bool
	refresh    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: DefaultConfig(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
// Running it without a subcommand starts the chat.
func (c *CLI) RootCommand() *cobra.Command {
	chatCmd := c.chatCommand()
	root := &cobra.Command{
		Use:           appName,
		Short:         "Fatwa asks Islamic rulings from the terminal",
		Long:          `Fatwa is a bilingual (English/Arabic) terminal client for the fatwa question-answering service. Answers are typed out as they render, followed by their sources.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig(cmd)
		},
		RunE: chatCmd.RunE,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default $XDG_CONFIG_HOME/fatwa/config.yml)")
	pf.StringP("server", "s", backend.DefaultServer, "backend URL")
	pf.StringP("lang", "l", "", "language: en or ar (default from $LANG)")
	pf.StringP("provider", "p", "", "fatwa provider ID (default: first for the language)")
	pf.String("cache", cache.BackendFile, "cache backend: file, redis or none")
	pf.BoolVar(&c.noCache, "no-cache", false, "disable the translations/sources cache")
	pf.BoolVar(&c.refresh, "refresh", false, "ignore cached translations and sources")
	pf.Duration("timeout", c.Config.Timeout, "request timeout")
	pf.Int("retries", c.Config.Retries, "attempts per request (1 disables retries)")
	pf.String("theme", c.Config.Theme, "color theme: auto, light or dark")
	pf.Int("width", 0, "wrap width (default: terminal width)")
	pf.String("osc8", c.Config.OSC8, "clickable links: auto, on or off")
	pf.Duration("char-delay", c.Config.CharDelay, "typewriter delay per character")
	pf.Bool("flat-lists", false, "number nested lists as one list")

	root.Flags().AddFlagSet(chatCmd.Flags())

	root.AddCommand(chatCmd)
	root.AddCommand(c.askCommand())
	root.AddCommand(c.sourcesCommand())
	root.AddCommand(c.translationsCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig merges file, environment and flags into c.Config and routes
// library events to the logger.
func (c *CLI) loadConfig(cmd *cobra.Command) error {
	path, explicit := c.configFile, c.configFile != ""
	if path == "" {
		if p, err := configPath(); err == nil {
			path = p
		}
	}
	cfg, err := loadConfig(path, explicit)
	if err != nil {
		return err
	}
	if err := applyFlags(cfg, cmd.Flags()); err != nil {
		return err
	}
	if c.noCache {
		cfg.Cache.Backend = cache.BackendNone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	c.Config = cfg

	installHooks(c.Logger)
	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	c.Logger.Debug("config loaded", "file", path, "server", cfg.Server, "lang", cfg.Language, "cache", cfg.Cache.Backend)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newCache opens the configured cache, falling back to no cache when the
// backend is unavailable.
func (c *CLI) newCache(ctx context.Context) cache.Cache {
	cc := c.Config.Cache
	dir := cc.Dir
	if dir == "" && (cc.Backend == "" || cc.Backend == cache.BackendFile) {
		d, err := cacheDir()
		if err != nil {
			c.Logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache()
		}
		dir = d
	}
	ch, err := cache.Open(ctx, cache.Config{
		Backend:       cc.Backend,
		Dir:           dir,
		RedisAddr:     cc.RedisAddr,
		RedisPassword: cc.RedisPassword,
		RedisDB:       cc.RedisDB,
	})
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", cc.Backend, "err", err)
		return cache.NewNullCache()
	}
	return ch
}

// newClient builds a backend client from the configuration.
func (c *CLI) newClient(ctx context.Context) (*backend.Client, error) {
	cfg := c.Config
	return backend.New(cfg.Server,
		backend.WithTimeout(cfg.Timeout),
		backend.WithRetries(cfg.Retries, retryDelay),
		backend.WithCache(c.newCache(ctx), cfg.Cache.TTL),
		backend.WithRefresh(c.refresh),
	)
}

// newRenderer builds a typewriter renderer. With animate false answers
// appear at once.
func (c *CLI) newRenderer(animate bool) *typewriter.Renderer {
	if !animate {
		r := typewriter.NewRenderer(typewriter.Instant)
		r.FlatLists = c.Config.FlatLists
		return r
	}
	r := typewriter.NewRenderer(typewriter.RealScheduler{FrameInterval: c.Config.FrameDelay})
	r.CharDelay = c.Config.CharDelay
	r.FlatLists = c.Config.FlatLists
	return r
}

// newSession wires a chat session to the backend.
func (c *CLI) newSession(client chat.Backend, animate bool, onChange func()) *chat.Session {
	return chat.New(chat.Config{
		Backend:  client,
		Renderer: c.newRenderer(animate),
		Lang:     c.Config.Lang(),
		Provider: c.Config.Provider,
		OnChange: onChange,
	})
}

// viewOptions returns the termview options for the configured theme.
func (c *CLI) viewOptions(width int) termview.Options {
	theme, err := termview.ThemeByName(c.Config.Theme)
	if err != nil {
		theme = termview.Dark()
	}
	return termview.Options{
		Width:      width,
		Theme:      theme,
		Hyperlinks: termview.HyperlinksEnabled(c.Config.OSC8),
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/fatwa/).
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
