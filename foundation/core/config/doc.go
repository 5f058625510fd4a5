// File: doc.go
// Title: Configuration Management Package Documentation
// Description: Package config loads TOML and YAML configuration into ordered
//              property maps with defaults, environment overrides and reload.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial implementation with TOML/YAML support
// - 2026-10-19 v0.2.0: Ordered storage, removed discovery and rule validation

/*
Package config loads configuration files into ordered property maps.

Key Features:
  - TOML and YAML, selected by file extension
  - Defaults layered underneath file values, tables merged recursively
  - Dotted key access: GetString("server.host")
  - Environment overrides: with EnvPrefix "PLANKTON", PLANKTON_SERVER_PORT
    wins over server.port
  - Polling reload with change handlers

Basic Usage:

	defaults := objx.NewObject().
		Set("server", objx.NewObject().Set("port", 9400))

	cfg, err := config.LoadWithOptions("plankton.toml", config.LoadOptions{
		EnvPrefix: "PLANKTON",
		Defaults:  defaults,
	})
	if err != nil {
		return err
	}

	port := cfg.GetInt("server.port")
	timeout := cfg.GetDuration("server.shutdown_timeout", 10*time.Second)

Reloading:

	cfg.OnChange(func(old, new *config.Config) {
		logger.Info("log level now " + new.GetString("general.log_level"))
	})
	go cfg.Watch(ctx, 2*time.Second)

Values are read under a read lock and Set writes under the write lock, so a
Config may be shared between goroutines.
*/
package config
