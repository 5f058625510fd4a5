// File: config.go
// Title: Core Configuration Management Implementation
// Description: Implements the Config type for loading TOML and YAML files into
//              ordered property maps, layering defaults underneath and reading
//              values by dotted key with environment variable overrides.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Ordered storage on objx, codec based parsing, dropped caches

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/msto63/plankton/foundation/codec"
	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// Config represents a configuration instance with thread-safe access
type Config struct {
	mu           sync.RWMutex
	data         *objx.Object
	defaults     *objx.Object
	filePath     string
	format       codec.Format
	envPrefix    string
	watchers     []ChangeHandler
	lastModified time.Time
	logger       *log.Logger
}

// ChangeHandler is called after a reload with snapshots of both states
type ChangeHandler func(oldConfig, newConfig *Config)

// LoadOptions defines options for loading configuration
type LoadOptions struct {
	// EnvPrefix enables overrides: PREFIX_SERVER_PORT overrides server.port
	EnvPrefix string

	// Defaults sit underneath the file values
	Defaults *objx.Object

	Logger *log.Logger
}

// Load loads configuration from a file with default options
func Load(filePath string) (*Config, error) {
	return LoadWithOptions(filePath, LoadOptions{})
}

// LoadWithOptions loads configuration from a file. The format follows the
// file extension; anything other than .yaml or .yml is read as TOML.
func LoadWithOptions(filePath string, options LoadOptions) (*Config, error) {
	const op = "config.LoadWithOptions"

	if strings.TrimSpace(filePath) == "" {
		return nil, mdwerror.New("config file path cannot be empty").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation(op)
	}

	info, err := os.Stat(filePath)
	if err != nil {
		return nil, mdwerror.Wrap(err, "config file not found").
			WithCode(mdwerror.CodeMissingConfig).
			WithOperation(op).
			WithDetail("filePath", filePath)
	}

	format := detectFormat(filePath)
	data, err := readFile(filePath, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to load config file").
			WithOperation(op).
			WithDetail("filePath", filePath)
	}

	cfg := newConfig(data, format, options)
	cfg.filePath = filePath
	cfg.lastModified = info.ModTime()

	cfg.logger.Debug("configuration loaded", log.Fields{
		"path":   filePath,
		"format": format.String(),
		"keys":   objx.Count(cfg.data),
	})
	return cfg, nil
}

// LoadFromString loads configuration from a string with the given format
func LoadFromString(content string, format codec.Format, options LoadOptions) (*Config, error) {
	data, err := codec.Decode([]byte(content), format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config content").
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("config.LoadFromString").
			WithDetail("format", format.String())
	}
	return newConfig(data, format, options), nil
}

func newConfig(data *objx.Object, format codec.Format, options LoadOptions) *Config {
	logger := options.Logger
	if logger == nil {
		logger = log.GetDefault()
	}
	return &Config{
		data:      mergeDefaults(options.Defaults, data),
		defaults:  options.Defaults,
		format:    format,
		envPrefix: options.EnvPrefix,
		logger:    logger.WithName("config"),
	}
}

func detectFormat(filePath string) codec.Format {
	if f := codec.FormatFromPath(filePath); f == codec.FormatYAML {
		return f
	}
	return codec.FormatTOML
}

func readFile(filePath string, format codec.Format) (*objx.Object, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to read config file").
			WithCode(mdwerror.CodeConfigError)
	}
	data, err := codec.Decode(content, format)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to parse config file").
			WithCode(mdwerror.CodeInvalidConfig).
			WithDetail("format", format.String())
	}
	return data, nil
}

// mergeDefaults layers data over defaults. Tables present on both sides are
// merged recursively; any other value from data replaces the default.
func mergeDefaults(defaults, data *objx.Object) *objx.Object {
	merged := objx.Merge(defaults, data)
	objx.ForEachPair(data, func(key string, value any) objx.Step {
		fileTable, ok := value.(*objx.Object)
		if !ok {
			return objx.Continue
		}
		if dv, ok := defaults.GetOwn(key); ok {
			if defaultTable, ok := dv.(*objx.Object); ok {
				merged.Set(key, mergeDefaults(defaultTable, fileTable))
			}
		}
		return objx.Continue
	})
	return merged
}

// GetString returns a string configuration value with optional default
func (c *Config) GetString(key string, defaultValue ...string) string {
	if envValue, ok := c.getEnvValue(key); ok {
		return envValue
	}

	value, ok := c.getValue(key)
	if !ok || value == nil {
		return first(defaultValue, "")
	}

	switch v := value.(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// GetInt returns an integer configuration value with optional default
func (c *Config) GetInt(key string, defaultValue ...int) int {
	if envValue, ok := c.getEnvValue(key); ok {
		if intVal, err := strconv.Atoi(envValue); err == nil {
			return intVal
		}
	}

	value, _ := c.getValue(key)
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case string:
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return first(defaultValue, 0)
}

// GetBool returns a boolean configuration value with optional default
func (c *Config) GetBool(key string, defaultValue ...bool) bool {
	if envValue, ok := c.getEnvValue(key); ok {
		if boolVal, err := strconv.ParseBool(envValue); err == nil {
			return boolVal
		}
	}

	value, _ := c.getValue(key)
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if boolVal, err := strconv.ParseBool(v); err == nil {
			return boolVal
		}
	}
	return first(defaultValue, false)
}

// GetDuration returns a time.Duration configuration value with optional
// default. Strings are parsed with time.ParseDuration, numbers are seconds.
func (c *Config) GetDuration(key string, defaultValue ...time.Duration) time.Duration {
	if envValue, ok := c.getEnvValue(key); ok {
		if duration, err := time.ParseDuration(envValue); err == nil {
			return duration
		}
	}

	value, _ := c.getValue(key)
	switch v := value.(type) {
	case string:
		if duration, err := time.ParseDuration(v); err == nil {
			return duration
		}
	case time.Duration:
		return v
	case int:
		return time.Duration(v) * time.Second
	case float64:
		return time.Duration(v * float64(time.Second))
	}
	return first(defaultValue, 0)
}

// GetStringSlice returns a string slice configuration value with optional default
func (c *Config) GetStringSlice(key string, defaultValue ...[]string) []string {
	value, _ := c.getValue(key)
	switch v := value.(type) {
	case []any:
		result := make([]string, len(v))
		for i, item := range v {
			result[i] = fmt.Sprintf("%v", item)
		}
		return result
	case string:
		return []string{v}
	}
	return first(defaultValue, nil)
}

// Has checks if a configuration key exists in the file or the defaults
func (c *Config) Has(key string) bool {
	_, ok := c.getValue(key)
	return ok
}

// Set sets a configuration value at runtime, creating tables along the path
func (c *Config) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	segments := strings.Split(key, ".")
	node := c.data
	for _, seg := range segments[:len(segments)-1] {
		next, _ := node.GetOwn(seg)
		child, ok := next.(*objx.Object)
		if ok {
			// Tables may be shared with the defaults
			child = objx.Copy(child)
		} else {
			child = objx.NewObject()
		}
		node.Set(seg, child)
		node = child
	}
	node.Set(segments[len(segments)-1], value)
}

// Sub returns a copy of the table at key, or nil when key is not a table
func (c *Config) Sub(key string) *objx.Object {
	value, _ := c.getValue(key)
	if table, ok := value.(*objx.Object); ok {
		c.mu.RLock()
		defer c.mu.RUnlock()
		return objx.Copy(table)
	}
	return nil
}

// All returns a copy of the merged configuration without environment
// overrides
func (c *Config) All() *objx.Object {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return objx.Copy(c.data)
}

// Keys returns the top-level keys in document order, defaults first
func (c *Config) Keys() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return objx.Keys(c.data)
}

// FilePath returns the path of the loaded configuration file
func (c *Config) FilePath() string {
	return c.filePath
}

// Format returns the configuration file format
func (c *Config) Format() codec.Format {
	return c.format
}

// String renders the top-level configuration in key order
func (c *Config) String() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.data.String()
}

func (c *Config) getValue(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var current any = c.data
	for _, seg := range strings.Split(key, ".") {
		node, ok := current.(*objx.Object)
		if !ok {
			return nil, false
		}
		if current, ok = node.GetOwn(seg); !ok {
			return nil, false
		}
	}
	return current, true
}

func (c *Config) getEnvValue(key string) (string, bool) {
	if c.envPrefix == "" {
		return "", false
	}
	value, ok := os.LookupEnv(c.formatEnvKey(key))
	return value, ok && value != ""
}

// formatEnvKey converts server.max-conns to PREFIX_SERVER_MAX_CONNS
func (c *Config) formatEnvKey(key string) string {
	key = strings.NewReplacer(".", "_", "-", "_").Replace(key)
	return strings.ToUpper(c.envPrefix + "_" + key)
}

func first[T any](values []T, fallback T) T {
	if len(values) > 0 {
		return values[0]
	}
	return fallback
}
