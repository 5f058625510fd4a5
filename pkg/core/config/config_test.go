package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
)

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestDuration_UnmarshalText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Duration
		wantErr  bool
	}{
		{"seconds", "30s", 30 * time.Second, false},
		{"minutes", "5m", 5 * time.Minute, false},
		{"complex", "1h30m", 90 * time.Minute, false},
		{"milliseconds", "100ms", 100 * time.Millisecond, false},
		{"invalid", "invalid", 0, true},
		{"empty", "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalText([]byte(tt.input))

			if (err != nil) != tt.wantErr {
				t.Errorf("UnmarshalText() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr && d.Duration != tt.expected {
				t.Errorf("UnmarshalText() = %v, want %v", d.Duration, tt.expected)
			}
		})
	}
}

func TestDuration_MarshalText(t *testing.T) {
	got, err := Duration{5 * time.Minute}.MarshalText()
	if err != nil || string(got) != "5m0s" {
		t.Errorf("MarshalText() = %q, %v", got, err)
	}
}

func TestLoad_TOML(t *testing.T) {
	path := writeConfig(t, "config.toml", `
[general]
log_level = "debug"
data_dir = "/var/lib/plankton"

[server]
port = 9500
shutdown_timeout = "30s"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.General.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.General.LogLevel)
	}
	if cfg.Server.Port != 9500 {
		t.Errorf("Port = %d, want 9500", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout.Duration != 30*time.Second {
		t.Errorf("ShutdownTimeout = %v, want 30s", cfg.Server.ShutdownTimeout)
	}
	// Defaults
	if cfg.General.Name != "plankton" {
		t.Errorf("Name = %q, want plankton", cfg.General.Name)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if !cfg.Server.EnableReflection {
		t.Error("EnableReflection should default to true")
	}
	if cfg.Store.Path != filepath.Join("/var/lib/plankton", "plankton.db") {
		t.Errorf("Store.Path = %q, want derived from data_dir", cfg.Store.Path)
	}
	if cfg.FilePath() != path {
		t.Errorf("FilePath() = %q, want %q", cfg.FilePath(), path)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, "config.yaml", "server:\n  port: 9600\nstore:\n  path: /tmp/p.db\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9600 {
		t.Errorf("Port = %d, want 9600", cfg.Server.Port)
	}
	if cfg.Store.Path != "/tmp/p.db" {
		t.Errorf("Store.Path = %q", cfg.Store.Path)
	}
	if cfg.ServerAddress() != "0.0.0.0:9600" {
		t.Errorf("ServerAddress() = %q", cfg.ServerAddress())
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if !mdwerror.HasCode(err, mdwerror.CodeMissingConfig) {
		t.Errorf("Load() error = %v, want MISSING_CONFIG", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	path := writeConfig(t, "env.toml", "[server]\nport = 9700\n")
	t.Setenv("PLANKTON_CONFIG", path)
	t.Setenv("PLANKTON_GENERAL_LOG_LEVEL", "warn")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv() error = %v", err)
	}
	if cfg.Server.Port != 9700 {
		t.Errorf("Port = %d, want 9700", cfg.Server.Port)
	}
	if cfg.General.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want env override warn", cfg.General.LogLevel)
	}
}

func TestDefault(t *testing.T) {
	t.Setenv("PLANKTON_SERVER_PORT", "9123")

	cfg, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if cfg.Server.Port != 9123 {
		t.Errorf("Port = %d, want 9123", cfg.Server.Port)
	}
	if cfg.General.LogFormat != "text" {
		t.Errorf("LogFormat = %q, want text", cfg.General.LogFormat)
	}
	if cfg.FilePath() != "" {
		t.Errorf("FilePath() = %q, want empty", cfg.FilePath())
	}
	if got := cfg.Source(); !got.Has("server") {
		t.Errorf("Source() = %v, want server table", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"level", func(c *Config) { c.General.LogLevel = "loud" }},
		{"format", func(c *Config) { c.General.LogFormat = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			if err != nil {
				t.Fatal(err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); !mdwerror.HasCode(err, mdwerror.CodeInvalidConfig) {
				t.Errorf("Validate() error = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestWatch(t *testing.T) {
	path := writeConfig(t, "watch.toml", "[general]\nlog_level = \"info\"\n[server]\nwatch_interval = \"20ms\"\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	changed := make(chan *Config, 1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cfg.Watch(ctx, func(c *Config) {
		select {
		case changed <- c:
		default:
		}
	})

	future := time.Now().Add(time.Minute)
	if err := os.WriteFile(path, []byte("[general]\nlog_level = \"debug\"\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(path, future, future); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changed:
		if c.General.LogLevel != "debug" {
			t.Errorf("LogLevel after reload = %q, want debug", c.General.LogLevel)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Watch() did not report the change")
	}
}
