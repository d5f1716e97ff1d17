// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

package recommend

import "fmt"

// Config controls score fusion and result sizing.
type Config struct {
	// ContentWeight is the content-match coefficient in the hybrid score.
	ContentWeight float64 `json:"content_weight" koanf:"content_weight"`

	// CollabWeight is the collaborative coefficient in the hybrid score.
	CollabWeight float64 `json:"collab_weight" koanf:"collab_weight"`

	// DefaultLimit is the result length when the request leaves Limit zero.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the requested result length. Zero means uncapped.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
}

// DefaultConfig returns the standard hybrid weighting: 60% content,
// 40% collaborative, 15 results.
func DefaultConfig() *Config {
	return &Config{
		ContentWeight: 0.6,
		CollabWeight:  0.4,
		DefaultLimit:  15,
		MaxLimit:      100,
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.ContentWeight < 0 || c.CollabWeight < 0 {
		return fmt.Errorf("score weights must be non-negative")
	}
	if c.ContentWeight+c.CollabWeight == 0 {
		return fmt.Errorf("at least one score weight must be positive")
	}
	if c.DefaultLimit <= 0 {
		return fmt.Errorf("default limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < 0 {
		return fmt.Errorf("max limit must be non-negative, got %d", c.MaxLimit)
	}
	return nil
}
