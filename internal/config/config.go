// NestScout - Housing Listing Recommendations
// Copyright 2026 NestScout contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/nestscout/nestscout

// Package config loads layered application configuration: struct
// defaults, then an optional YAML file, then environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/nestscout/nestscout/internal/logging"
	"github.com/nestscout/nestscout/internal/mlpipeline"
	"github.com/nestscout/nestscout/internal/recommend"
	"github.com/nestscout/nestscout/internal/store"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig      `json:"server" koanf:"server"`
	Logging   logging.Config    `json:"logging" koanf:"logging"`
	Security  SecurityConfig    `json:"security" koanf:"security"`
	Store     store.Config      `json:"store" koanf:"store"`
	Recommend recommend.Config  `json:"recommend" koanf:"recommend"`
	Training  mlpipeline.Config `json:"training" koanf:"training"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string        `json:"host" koanf:"host"`
	Port            int           `json:"port" koanf:"port"`
	ReadTimeout     time.Duration `json:"read_timeout" koanf:"read_timeout"`
	WriteTimeout    time.Duration `json:"write_timeout" koanf:"write_timeout"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// SecurityConfig contains authentication and rate limiting settings.
type SecurityConfig struct {
	// JWTSecret signs API bearer tokens. Required unless AuthDisabled.
	JWTSecret string `json:"-" koanf:"jwt_secret"`

	// AuthDisabled turns off bearer authentication entirely. Intended
	// for local development only.
	AuthDisabled bool `json:"auth_disabled" koanf:"auth_disabled"`

	// RateLimitReqs is the number of requests allowed per window per client.
	RateLimitReqs int `json:"rate_limit_reqs" koanf:"rate_limit_reqs"`

	// RateLimitWindow is the rate limiting window.
	RateLimitWindow time.Duration `json:"rate_limit_window" koanf:"rate_limit_window"`

	// CORSOrigins lists allowed cross-origin request origins.
	CORSOrigins []string `json:"cors_origins" koanf:"cors_origins"`

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `json:"token_ttl" koanf:"token_ttl"`
}

// Default returns a Config with all default values applied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Logging: logging.DefaultConfig(),
		Security: SecurityConfig{
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
			TokenTTL:        24 * time.Hour,
		},
		Store:     store.DefaultConfig(),
		Recommend: *recommend.DefaultConfig(),
		Training:  mlpipeline.DefaultConfig(),
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if !c.Security.AuthDisabled && c.Security.JWTSecret == "" {
		return fmt.Errorf("security.jwt_secret is required unless auth is disabled")
	}
	if c.Security.RateLimitReqs < 1 {
		return fmt.Errorf("rate_limit_reqs must be positive, got %d", c.Security.RateLimitReqs)
	}
	if err := c.Recommend.Validate(); err != nil {
		return err
	}
	if err := c.Training.Validate(); err != nil {
		return err
	}
	return nil
}
