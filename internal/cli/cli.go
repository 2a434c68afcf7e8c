// Package cli implements the repometa command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/repometa/pkg/buildinfo"
	"github.com/matzehuels/repometa/pkg/cache"
	"github.com/matzehuels/repometa/pkg/config"
	"github.com/matzehuels/repometa/pkg/integrations/github"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = "repometa"

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

	configPath   string
	cacheDir     string
	cacheBackend string
	redisURL     string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Repometa collects project metadata from GitHub organizations",
		Long:         `Repometa scans every repository of one or more GitHub organizations, extracts metadata from their documentation files and writes CSV, JSON and markdown reports.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVarP(&c.configPath, "config", "c", "", "config file (default "+config.DefaultFile+" if present)")
	pf.StringVar(&c.cacheDir, "cache-dir", "", "cache directory for the file backend")
	pf.StringVar(&c.cacheBackend, "cache-backend", "", "cache backend: file, redis, memory or none")
	pf.StringVar(&c.redisURL, "redis-url", "", "redis URL for the redis backend")

	root.AddCommand(c.scanCommand())
	root.AddCommand(c.reposCommand())
	root.AddCommand(c.extractCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())
	registerFlagCompletions(root)

	return root
}

// =============================================================================
// Config & Factories
// =============================================================================

// loadConfig reads the configuration, applies the persistent flags that were
// set on the command line, then the command's own overrides, and validates
// the result.
func (c *CLI) loadConfig(cmd *cobra.Command, overrides ...func(*config.Config)) (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	flags := cmd.Flags()
	if flags.Changed("cache-dir") {
		cfg.CacheDir = c.cacheDir
	}
	if flags.Changed("cache-backend") {
		cfg.CacheBackend = c.cacheBackend
	}
	if flags.Changed("redis-url") {
		cfg.RedisURL = c.redisURL
	}
	for _, override := range overrides {
		override(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newStore opens the cache backend selected by cfg.
func newStore(ctx context.Context, cfg *config.Config, noCache bool) (cache.Store, error) {
	ttl := cache.WithTTL(cfg.CacheTTL)
	if noCache {
		return cache.NewNullStore(), nil
	}
	switch cfg.CacheBackend {
	case config.BackendRedis:
		return cache.NewRedisStore(ctx, cfg.RedisURL, ttl)
	case config.BackendMemory:
		return cache.NewMemoryStore(cache.DefaultMemoryEntries, ttl)
	case config.BackendNone:
		return cache.NewNullStore(), nil
	default:
		return cache.NewFileStore(cfg.CacheDir, ttl), nil
	}
}

// newClient creates the GitHub client described by cfg.
func newClient(cfg *config.Config, logger *log.Logger) (*github.Client, error) {
	return github.NewClient(github.Options{
		Token:      cfg.Token,
		APIBaseURL: cfg.APIBaseURL,
		RawBaseURL: cfg.RawBaseURL,
		Branches:   cfg.Branches,
		Timeout:    cfg.HTTPTimeout,
		Logger:     logger,
	})
}
