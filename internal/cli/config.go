package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/matzehuels/fatwa/pkg/backend"
	"github.com/matzehuels/fatwa/pkg/cache"
	"github.com/matzehuels/fatwa/pkg/errors"
	"github.com/matzehuels/fatwa/pkg/locale"
	"github.com/matzehuels/fatwa/pkg/termview"
	"github.com/matzehuels/fatwa/pkg/typewriter"
)

// envPrefix prefixes environment overrides. A double underscore descends
// into a section: FATWA_CACHE__BACKEND sets cache.backend.
const envPrefix = "FATWA_"

// Config is the merged client configuration.
type Config struct {
	Server     string        `koanf:"server"`
	Language   string        `koanf:"language"`
	Provider   string        `koanf:"provider"`
	Theme      string        `koanf:"theme"`
	CharDelay  time.Duration `koanf:"char_delay"`
	FrameDelay time.Duration `koanf:"frame_delay"`
	FlatLists  bool          `koanf:"flat_lists"`
	Timeout    time.Duration `koanf:"timeout"`
	Retries    int           `koanf:"retries"`
	OSC8       string        `koanf:"osc8"`
	Width      int           `koanf:"width"`
	Cache      CacheConfig   `koanf:"cache"`
}

// CacheConfig configures the translations/sources cache.
type CacheConfig struct {
	Backend       string        `koanf:"backend"`
	TTL           time.Duration `koanf:"ttl"`
	Dir           string        `koanf:"dir"`
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Server:     backend.DefaultServer,
		Theme:      termview.ThemeAuto,
		CharDelay:  typewriter.DefaultCharDelay,
		FrameDelay: typewriter.DefaultFrameInterval,
		Timeout:    30 * time.Second,
		Retries:    1,
		OSC8:       termview.HyperlinksAuto,
		Cache: CacheConfig{
			Backend: cache.BackendFile,
			TTL:     backend.DefaultCacheTTL,
		},
	}
}

// loadConfig layers the YAML file at path (skipped when missing), then
// FATWA_* environment variables, on top of the defaults. An explicit path
// that does not exist is an error.
func loadConfig(path string, explicit bool) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if explicit || !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// configPath returns the default config file path
// ($XDG_CONFIG_HOME/fatwa/config.yml).
func configPath() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName, "config.yml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.yml"), nil
}

// applyFlags overrides cfg with the flags the user set explicitly.
func applyFlags(cfg *Config, flags *pflag.FlagSet) error {
	var err error
	set := func(name string, fn func() error) {
		if err == nil && flags.Lookup(name) != nil && flags.Changed(name) {
			err = fn()
		}
	}
	str := func(name string, dst *string) {
		set(name, func() (e error) { *dst, e = flags.GetString(name); return })
	}
	str("server", &cfg.Server)
	str("lang", &cfg.Language)
	str("provider", &cfg.Provider)
	str("theme", &cfg.Theme)
	str("osc8", &cfg.OSC8)
	str("cache", &cfg.Cache.Backend)
	set("width", func() (e error) { cfg.Width, e = flags.GetInt("width"); return })
	set("retries", func() (e error) { cfg.Retries, e = flags.GetInt("retries"); return })
	set("timeout", func() (e error) { cfg.Timeout, e = flags.GetDuration("timeout"); return })
	set("char-delay", func() (e error) { cfg.CharDelay, e = flags.GetDuration("char-delay"); return })
	set("flat-lists", func() (e error) { cfg.FlatLists, e = flags.GetBool("flat-lists"); return })
	return err
}

// Validate checks option values and normalizes the language.
func (c *Config) Validate() error {
	if err := errors.ValidateServerURL(c.Server); err != nil {
		return err
	}
	if c.Language == "" {
		c.Language = locale.FromEnv().String()
	} else {
		lang, err := locale.Parse(c.Language)
		if err != nil {
			return err
		}
		c.Language = lang.String()
	}
	if _, err := termview.ThemeByName(c.Theme); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid theme")
	}
	switch c.OSC8 {
	case termview.HyperlinksAuto, termview.HyperlinksOn, termview.HyperlinksOff:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid osc8 mode %q (want auto, on or off)", c.OSC8)
	}
	switch c.Cache.Backend {
	case cache.BackendFile, cache.BackendRedis, cache.BackendNone:
	default:
		return errors.New(errors.ErrCodeInvalidInput, "invalid cache backend %q (want file, redis or none)", c.Cache.Backend)
	}
	if c.Retries < 1 {
		return errors.New(errors.ErrCodeInvalidInput, "retries must be at least 1, got %d", c.Retries)
	}
	if c.CharDelay < 0 || c.FrameDelay < 0 || c.Timeout < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "delays and timeout must not be negative")
	}
	if c.Width < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "width must not be negative")
	}
	return nil
}

// Lang returns the configured language. Call Validate first.
func (c *Config) Lang() locale.Lang {
	if l := locale.Lang(c.Language); l.Valid() {
		return l
	}
	return locale.English
}
