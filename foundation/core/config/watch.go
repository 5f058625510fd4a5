// File: watch.go
// Title: Configuration File Watching
// Description: Polling based reload of the configuration file with change
//              notification.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-25
// Modified: 2026-10-19
//
// Change History:
// - 2025-01-25 v0.1.0: Initial polling watcher
// - 2026-10-19 v0.2.0: Context controlled loop, synchronous handlers

package config

import (
	"context"
	"os"
	"time"

	mdwerror "github.com/msto63/plankton/foundation/core/error"
	"github.com/msto63/plankton/foundation/core/log"
	"github.com/msto63/plankton/foundation/utils/objx"
)

// OnChange registers a handler that runs after every successful reload
func (c *Config) OnChange(handler ChangeHandler) {
	if handler == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.watchers = append(c.watchers, handler)
}

// Watch polls the file every interval and reloads it when the modification
// time advances. It blocks until ctx is done and returns ctx.Err().
func (c *Config) Watch(ctx context.Context, interval time.Duration) error {
	if c.filePath == "" {
		return mdwerror.New("file path required for watching").
			WithCode(mdwerror.CodeValidationFailed).
			WithOperation("config.Watch")
	}
	if interval <= 0 {
		interval = time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			info, err := os.Stat(c.filePath)
			if err != nil {
				continue
			}

			c.mu.RLock()
			changed := info.ModTime().After(c.lastModified)
			c.mu.RUnlock()

			if changed {
				if err := c.Reload(); err != nil {
					c.logger.WarnWithErr("configuration reload failed", err, log.Fields{"path": c.filePath})
				}
			}
		}
	}
}

// Reload re-reads the file and notifies the change handlers. On failure the
// current values stay in place.
func (c *Config) Reload() error {
	newData, err := readFile(c.filePath, c.format)
	if err != nil {
		return mdwerror.Wrap(err, "failed to reload config file").
			WithOperation("config.Reload").
			WithDetail("filePath", c.filePath)
	}
	info, statErr := os.Stat(c.filePath)

	c.mu.Lock()
	oldConfig := c.snapshot()
	c.data = mergeDefaults(c.defaults, newData)
	if statErr == nil {
		c.lastModified = info.ModTime()
	}
	newConfig := c.snapshot()
	watchers := make([]ChangeHandler, len(c.watchers))
	copy(watchers, c.watchers)
	c.mu.Unlock()

	c.logger.Info("configuration reloaded", log.Fields{"path": c.filePath})

	for _, handler := range watchers {
		handler(oldConfig, newConfig)
	}
	return nil
}

// snapshot returns a detached copy for handlers. Caller holds mu.
func (c *Config) snapshot() *Config {
	return &Config{
		data:      objx.Copy(c.data),
		defaults:  c.defaults,
		filePath:  c.filePath,
		format:    c.format,
		envPrefix: c.envPrefix,
		logger:    c.logger,
	}
}
