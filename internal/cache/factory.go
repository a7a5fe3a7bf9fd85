// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"time"
)

// Config selects and tunes the cache backend.
type Config struct {
	// RedisURL selects Redis when set; otherwise the cache is in memory.
	RedisURL string

	// Prefix namespaces Redis keys.
	Prefix string

	DefaultTTL time.Duration

	// CleanupInterval is how often the memory cache sweeps expired entries.
	CleanupInterval time.Duration
}

// DefaultConfig returns an in-memory cache configuration.
func DefaultConfig() Config {
	return Config{
		Prefix:          "greenpad:",
		DefaultTTL:      5 * time.Minute,
		CleanupInterval: time.Minute,
	}
}

// New creates the cache described by cfg.
func New(ctx context.Context, cfg Config) (Cacher, error) {
	if cfg.RedisURL != "" {
		return NewRedisCache(ctx, cfg.RedisURL, cfg.Prefix, cfg.DefaultTTL)
	}
	return NewMemoryCache(cfg.DefaultTTL, cfg.CleanupInterval), nil
}
