package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/msto63/plankton/foundation/codec"
	fconfig "github.com/msto63/plankton/foundation/core/config"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	mdwlog "github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// EnvPrefix prefixes environment overrides, e.g. PLANKTON_SERVER_PORT
const EnvPrefix = "PLANKTON"

// Config holds the complete application configuration
type Config struct {
	General GeneralConfig `toml:"general" yaml:"general"`
	Server  ServerConfig  `toml:"server" yaml:"server"`
	Store   StoreConfig   `toml:"store" yaml:"store"`

	source *fconfig.Config
}

// GeneralConfig holds general application settings
type GeneralConfig struct {
	Name        string `toml:"name" yaml:"name"`
	Environment string `toml:"environment" yaml:"environment"`
	DataDir     string `toml:"data_dir" yaml:"data_dir"`
	LogLevel    string `toml:"log_level" yaml:"log_level"`
	LogFormat   string `toml:"log_format" yaml:"log_format"`
}

// ServerConfig holds the gRPC object service settings
type ServerConfig struct {
	Host             string   `toml:"host" yaml:"host"`
	Port             int      `toml:"port" yaml:"port"`
	EnableReflection bool     `toml:"enable_reflection" yaml:"enable_reflection"`
	ShutdownTimeout  Duration `toml:"shutdown_timeout" yaml:"shutdown_timeout"`
	WatchInterval    Duration `toml:"watch_interval" yaml:"watch_interval"`
}

// StoreConfig holds snapshot store settings
type StoreConfig struct {
	Path string `toml:"path" yaml:"path"`
}

// Duration wraps time.Duration for text encoding
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string
func (d *Duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText formats the duration as a string
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns the default values as a property map, in the layout of
// the configuration file
func Defaults() *objx.Object {
	return objx.NewObject().
		Set("general", objx.NewObject().
			Set("name", "plankton").
			Set("environment", "development").
			Set("data_dir", "./data").
			Set("log_level", "info").
			Set("log_format", "text")).
		Set("server", objx.NewObject().
			Set("host", "0.0.0.0").
			Set("port", 9400).
			Set("enable_reflection", true).
			Set("shutdown_timeout", "10s").
			Set("watch_interval", "2s")).
		Set("store", objx.NewObject().
			Set("path", ""))
}

// Load loads configuration from a TOML or YAML file. Missing values fall
// back to Defaults and PLANKTON_* variables override both.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	source, err := fconfig.LoadWithOptions(path, loadOptions())
	if err != nil {
		return nil, err
	}
	return fromSource(source), nil
}

// LoadFromEnv loads the file named by PLANKTON_CONFIG, or the first file
// found in the default locations. Without any file the defaults are used.
func LoadFromEnv() (*Config, error) {
	if path := os.Getenv("PLANKTON_CONFIG"); path != "" {
		return Load(path)
	}

	defaultPaths := []string{
		"./configs/config.toml",
		"./config.toml",
		"./config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config/plankton/config.toml"),
	}
	for _, p := range defaultPaths {
		if _, err := os.Stat(p); err == nil {
			return Load(p)
		}
	}

	return Default()
}

// Default returns the defaults with environment overrides applied
func Default() (*Config, error) {
	source, err := fconfig.LoadFromString("", codec.FormatTOML, loadOptions())
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to build default configuration").
			WithCode(mdwerror.CodeConfigError)
	}
	return fromSource(source), nil
}

func loadOptions() fconfig.LoadOptions {
	return fconfig.LoadOptions{
		EnvPrefix: EnvPrefix,
		Defaults:  Defaults(),
		Logger:    mdwlog.GetDefault(),
	}
}

func fromSource(source *fconfig.Config) *Config {
	c := &Config{
		General: GeneralConfig{
			Name:        source.GetString("general.name"),
			Environment: source.GetString("general.environment"),
			DataDir:     os.ExpandEnv(source.GetString("general.data_dir")),
			LogLevel:    source.GetString("general.log_level"),
			LogFormat:   source.GetString("general.log_format"),
		},
		Server: ServerConfig{
			Host:             source.GetString("server.host"),
			Port:             source.GetInt("server.port"),
			EnableReflection: source.GetBool("server.enable_reflection"),
			ShutdownTimeout:  Duration{source.GetDuration("server.shutdown_timeout")},
			WatchInterval:    Duration{source.GetDuration("server.watch_interval")},
		},
		Store: StoreConfig{
			Path: os.ExpandEnv(source.GetString("store.path")),
		},
		source: source,
	}
	if c.Store.Path == "" {
		c.Store.Path = filepath.Join(c.General.DataDir, "plankton.db")
	}
	return c
}

// Validate checks value ranges
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return mdwerror.Newf("server.port %d out of range", c.Server.Port).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	if _, err := mdwlog.ParseLevel(c.General.LogLevel); err != nil {
		return mdwerror.Wrap(err, "invalid general.log_level").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	if _, err := mdwlog.ParseFormat(c.General.LogFormat); err != nil {
		return mdwerror.Wrap(err, "invalid general.log_format").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.Validate")
	}
	return nil
}

// FilePath returns the file the configuration was loaded from, if any
func (c *Config) FilePath() string {
	if c.source == nil {
		return ""
	}
	return c.source.FilePath()
}

// Source returns the raw configuration as a property map
func (c *Config) Source() *objx.Object {
	if c.source == nil {
		return objx.NewObject()
	}
	return c.source.All()
}

// ServerAddress returns host:port of the object service
func (c *Config) ServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Watch reloads the file on change and passes each new configuration to
// onChange. It blocks until ctx is done.
func (c *Config) Watch(ctx context.Context, onChange func(*Config)) error {
	if c.source == nil || c.source.FilePath() == "" {
		<-ctx.Done()
		return ctx.Err()
	}

	c.source.OnChange(func(_, newSource *fconfig.Config) {
		onChange(fromSource(newSource))
	})
	return c.source.Watch(ctx, c.Server.WatchInterval.Duration)
}
