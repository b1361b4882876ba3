package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Prefs    PrefsConfig    `mapstructure:"prefs"`
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	UI       UIConfig       `mapstructure:"ui"`
}

// SourceConfig selects where users and orders come from.
type SourceConfig struct {
	// Backend is "memory" or "sqlite".
	Backend       string        `mapstructure:"backend"`
	Fixture       string        `mapstructure:"fixture"`
	ReadLatency   time.Duration `mapstructure:"read_latency"`
	WriteLatency  time.Duration `mapstructure:"write_latency"`
	DetailLatency time.Duration `mapstructure:"detail_latency"`
}

// PrefsConfig selects where the selected user is persisted.
type PrefsConfig struct {
	// Backend is "file", "sqlite" or "memory".
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// DatabaseConfig holds sqlite settings.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds logger settings. The TUI owns stdout, so logs go to File;
// "stderr" is accepted for headless commands.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	File   string `mapstructure:"file"`
	Format string `mapstructure:"format"`
}

// UIConfig holds presentation settings.
type UIConfig struct {
	CurrencySymbol string `mapstructure:"currency_symbol"`
}

// Path returns the config file location: ORDERVIEW_CONFIG if set, else
// ~/.config/orderview/config.toml.
func Path() string {
	if p := os.Getenv("ORDERVIEW_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "orderview", "config.toml")
}

func newViper(path string) *viper.Viper {
	v := viper.New()

	home := os.Getenv("HOME")
	v.SetDefault("source.backend", "memory")
	v.SetDefault("source.fixture", "")
	v.SetDefault("source.read_latency", "500ms")
	v.SetDefault("source.write_latency", "300ms")
	v.SetDefault("source.detail_latency", "800ms")
	v.SetDefault("prefs.backend", "file")
	v.SetDefault("prefs.path", filepath.Join(home, ".config", "orderview", "prefs.json"))
	v.SetDefault("database.path", filepath.Join(home, ".local", "share", "orderview", "orderview.db"))
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", filepath.Join(home, ".local", "state", "orderview", "orderview.log"))
	v.SetDefault("log.format", "json")
	v.SetDefault("ui.currency_symbol", "$")

	v.SetConfigType("toml")
	if path == "" {
		path = Path()
	}
	v.SetConfigFile(path)

	v.SetEnvPrefix("ORDERVIEW")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// Load reads configuration from path (or Path() when empty) and env. Env
// var overrides use prefix ORDERVIEW_, e.g. ORDERVIEW_SOURCE_BACKEND. A
// missing file is not an error.
func Load(path string) (Config, error) {
	c, _, err := load(path)
	return c, err
}

func load(path string) (Config, *viper.Viper, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, nil, fmt.Errorf("read config: %w", err)
		}
	}
	c, err := decode(v)
	if err != nil {
		return Config{}, nil, err
	}
	return c, v, nil
}

func decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate rejects unknown backends and negative latencies.
func (c Config) Validate() error {
	switch c.Source.Backend {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("config: unknown source backend %q", c.Source.Backend)
	}
	switch c.Prefs.Backend {
	case "file", "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown prefs backend %q", c.Prefs.Backend)
	}
	if c.Source.ReadLatency < 0 || c.Source.WriteLatency < 0 || c.Source.DetailLatency < 0 {
		return fmt.Errorf("config: latencies must not be negative")
	}
	return nil
}

// Watch loads like Load and then calls onChange with the re-decoded config
// each time the file changes. Changes that fail to decode are passed to
// onErr and otherwise ignored. Nothing is watched if the file does not exist.
func Watch(path string, onChange func(Config), onErr func(error)) (Config, error) {
	c, v, err := load(path)
	if err != nil {
		return Config{}, err
	}
	if v.ConfigFileUsed() == "" {
		return c, nil
	}
	if _, err := os.Stat(v.ConfigFileUsed()); err != nil {
		return c, nil
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		next, err := decode(v)
		if err != nil {
			if onErr != nil {
				onErr(err)
			}
			return
		}
		onChange(next)
	})
	v.WatchConfig()
	return c, nil
}

// Save writes the provided config to path (or Path() when empty), creating
// the config directory if needed.
func Save(path string, cfg Config) error {
	if path == "" {
		path = Path()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("source.backend", cfg.Source.Backend)
	v.Set("source.fixture", cfg.Source.Fixture)
	v.Set("source.read_latency", cfg.Source.ReadLatency.String())
	v.Set("source.write_latency", cfg.Source.WriteLatency.String())
	v.Set("source.detail_latency", cfg.Source.DetailLatency.String())
	v.Set("prefs.backend", cfg.Prefs.Backend)
	v.Set("prefs.path", cfg.Prefs.Path)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("log.file", cfg.Log.File)
	v.Set("log.format", cfg.Log.Format)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
