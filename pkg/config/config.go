// Package config assembles the run configuration for repometa.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or repometa.toml in the working directory)
//  3. a .env file in the working directory, loaded into the environment
//  4. environment variables (GITHUB_TOKEN, REPOMETA_CACHE_DIR, ...)
//  5. command-line flags, applied by the CLI after [Load]
//
// A Config is built once per run and passed into the components that need
// it; nothing in this package holds process-wide state.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/repometa/pkg/errors"
	"github.com/matzehuels/repometa/pkg/model"
)

// DefaultFile is read when no config path is given and the file exists.
const DefaultFile = "repometa.toml"

// Cache backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)

// Environment variables consulted by [Load].
const (
	EnvToken    = "GITHUB_TOKEN"
	EnvCacheDir = "REPOMETA_CACHE_DIR"
	EnvRedisURL = "REPOMETA_REDIS_URL"
	EnvXDGCache = "XDG_CACHE_HOME"
)

// Config holds every setting of a run.
type Config struct {
	Orgs         []string
	Branches     []string
	Files        []string // first is the front-matter document, the rest are sidebars
	Workers      int
	CacheTTL     time.Duration
	CacheDir     string
	CacheBackend string
	RedisURL     string
	OutputDir    string
	APIBaseURL   string
	RawBaseURL   string
	HTTPTimeout  time.Duration
	Token        string
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Orgs:         []string{"OWASP"},
		Branches:     []string{"main", "master"},
		Files:        []string{model.IndexFile, model.InfoFile, model.LeadersFile},
		Workers:      20,
		CacheTTL:     24 * time.Hour,
		CacheDir:     ".cache",
		CacheBackend: BackendFile,
		OutputDir:    "data",
		HTTPTimeout:  10 * time.Second,
	}
}

// fileConfig mirrors the TOML layout. Nil fields were not set in the file.
type fileConfig struct {
	Orgs         []string `toml:"orgs"`
	Branches     []string `toml:"branches"`
	Files        []string `toml:"files"`
	Workers      *int     `toml:"workers"`
	CacheTTL     *string  `toml:"cache_ttl"`
	CacheDir     *string  `toml:"cache_dir"`
	CacheBackend *string  `toml:"cache_backend"`
	RedisURL     *string  `toml:"redis_url"`
	OutputDir    *string  `toml:"output_dir"`
	APIBaseURL   *string  `toml:"api_base_url"`
	RawBaseURL   *string  `toml:"raw_base_url"`
	HTTPTimeout  *string  `toml:"http_timeout"`
}

// Load builds a Config from defaults, the TOML file at path, .env and the
// environment. An empty path reads [DefaultFile] if it exists; an explicit
// path that cannot be read is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	cacheDirSet := false
	file := path
	if file == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			file = DefaultFile
		}
	}
	if file != "" {
		fc, err := readFile(file)
		if err != nil {
			return nil, err
		}
		if err := fc.apply(cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "config %s", file)
		}
		cacheDirSet = fc.CacheDir != nil
	}

	// Missing .env is normal.
	_ = godotenv.Load()

	applyEnv(cfg, cacheDirSet)
	return cfg, nil
}

func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}
	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	return &fc, nil
}

func (fc *fileConfig) apply(cfg *Config) error {
	if fc.Orgs != nil {
		cfg.Orgs = fc.Orgs
	}
	if fc.Branches != nil {
		cfg.Branches = fc.Branches
	}
	if fc.Files != nil {
		cfg.Files = fc.Files
	}
	if fc.Workers != nil {
		cfg.Workers = *fc.Workers
	}
	setString(&cfg.CacheDir, fc.CacheDir)
	setString(&cfg.CacheBackend, fc.CacheBackend)
	setString(&cfg.RedisURL, fc.RedisURL)
	setString(&cfg.OutputDir, fc.OutputDir)
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.RawBaseURL, fc.RawBaseURL)
	if err := setDuration(&cfg.CacheTTL, fc.CacheTTL, "cache_ttl"); err != nil {
		return err
	}
	return setDuration(&cfg.HTTPTimeout, fc.HTTPTimeout, "http_timeout")
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, field string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s", field)
	}
	*dst = d
	return nil
}

func applyEnv(cfg *Config, cacheDirSet bool) {
	if v := strings.TrimSpace(os.Getenv(EnvToken)); v != "" {
		cfg.Token = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvRedisURL)); v != "" {
		cfg.RedisURL = v
	}
	switch {
	case os.Getenv(EnvCacheDir) != "":
		cfg.CacheDir = os.Getenv(EnvCacheDir)
	case !cacheDirSet && os.Getenv(EnvXDGCache) != "":
		cfg.CacheDir = filepath.Join(os.Getenv(EnvXDGCache), "repometa")
	}
}

// IndexFile is the document parsed for front matter.
func (c *Config) IndexFile() string {
	if len(c.Files) == 0 {
		return model.IndexFile
	}
	return c.Files[0]
}

// SidebarFiles are the documents parsed for sidebar heuristics, in merge order.
func (c *Config) SidebarFiles() []string {
	if len(c.Files) < 2 {
		return nil
	}
	return c.Files[1:]
}

// Validate reports the first invalid setting. It runs before any network
// call so that configuration mistakes fail fast.
func (c *Config) Validate() error {
	if len(c.Orgs) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one organization is required")
	}
	for _, org := range c.Orgs {
		if err := errors.ValidateOwner(org); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "organization")
		}
	}
	if len(c.Branches) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one branch is required")
	}
	if len(c.Files) == 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "at least one document is required")
	}
	for _, f := range c.Files {
		if err := errors.ValidateDocumentName(f); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "document %q", f)
		}
	}
	if c.Workers <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "workers must be positive, got %d", c.Workers)
	}
	if c.CacheTTL <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "cache ttl must be positive, got %s", c.CacheTTL)
	}
	if c.HTTPTimeout <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "http timeout must be positive, got %s", c.HTTPTimeout)
	}
	switch c.CacheBackend {
	case BackendFile:
		if c.CacheDir == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "cache directory is required for the file backend")
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New(errors.ErrCodeInvalidConfig, "redis url is required for the redis backend (set %s)", EnvRedisURL)
		}
	case BackendMemory, BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q (use file, redis, memory or none)", c.CacheBackend)
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output directory is required")
	}
	for _, u := range []string{c.APIBaseURL, c.RawBaseURL} {
		if u == "" {
			continue
		}
		if err := errors.ValidateURL(u); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "base url %q", u)
		}
	}
	return nil
}
