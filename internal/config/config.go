// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

// Package config defines the Fablehouse configuration and its layered
// loading: struct defaults, an optional YAML file, then environment
// variables, with later layers overriding earlier ones.
package config

import (
	"fmt"
	"net/url"
	"time"
)

// Config is the root configuration for the Fablehouse server.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"database"`
	Context   ContextConfig   `koanf:"context"`
	Safety    SafetyConfig    `koanf:"safety"`
	Generator GeneratorConfig `koanf:"generator"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	IdleTimeout     time.Duration `koanf:"idle_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the host:port listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig holds the SQLite content catalogue settings.
type DatabaseConfig struct {
	// Path to the SQLite database file. ":memory:" is accepted for tests.
	Path string `koanf:"path"`

	// BusyTimeout is applied via PRAGMA busy_timeout on open.
	BusyTimeout time.Duration `koanf:"busy_timeout"`

	// OptimizeInterval is how often the search-index maintenance service
	// compacts the full-text index. Zero disables the service.
	OptimizeInterval time.Duration `koanf:"optimize_interval"`
}

// ContextConfig holds conversation context store settings.
type ContextConfig struct {
	// TTL is the sliding expiry for a user's conversation context.
	TTL time.Duration `koanf:"ttl"`

	// SweepInterval is how often expired contexts are swept in the
	// background. Expiry is enforced on read regardless.
	SweepInterval time.Duration `koanf:"sweep_interval"`
}

// SafetyConfig holds child-safety filtering settings.
type SafetyConfig struct {
	// DefaultChildAge is assumed when a child's age is unknown.
	DefaultChildAge int `koanf:"default_child_age"`

	// MaxResultsPerType caps how many items of each content type a single
	// answer may carry.
	MaxResultsPerType int `koanf:"max_results_per_type"`
}

// GeneratorConfig holds settings for the conversational fallback generator
// (an OpenAI-compatible chat-completions endpoint).
type GeneratorConfig struct {
	Enabled     bool          `koanf:"enabled"`
	BaseURL     string        `koanf:"base_url"`
	APIKey      string        `koanf:"api_key"`
	Model       string        `koanf:"model"`
	Timeout     time.Duration `koanf:"timeout"`
	MaxTokens   int           `koanf:"max_tokens"`
	Temperature float64       `koanf:"temperature"`

	// HistoryLimit is how many recent chat turns are included in the prompt.
	HistoryLimit int `koanf:"history_limit"`

	// Readability enables age-targeted simplification of generated answers.
	Readability bool `koanf:"readability"`
}

// SecurityConfig holds request limiting and CORS settings.
type SecurityConfig struct {
	CORSOrigins      []string      `koanf:"cors_origins"`
	RateLimitReqs    int           `koanf:"rate_limit_reqs"`
	RateLimitWindow  time.Duration `koanf:"rate_limit_window"`
	RateLimitEnabled bool          `koanf:"rate_limit_enabled"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks the configuration for values that would prevent the
// server from operating.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.Context.TTL <= 0 {
		return fmt.Errorf("context.ttl must be positive, got %s", c.Context.TTL)
	}
	if c.Context.SweepInterval <= 0 {
		return fmt.Errorf("context.sweep_interval must be positive, got %s", c.Context.SweepInterval)
	}
	if c.Safety.DefaultChildAge < 1 || c.Safety.DefaultChildAge > 17 {
		return fmt.Errorf("safety.default_child_age must be between 1 and 17, got %d", c.Safety.DefaultChildAge)
	}
	if c.Safety.MaxResultsPerType < 1 {
		return fmt.Errorf("safety.max_results_per_type must be at least 1, got %d", c.Safety.MaxResultsPerType)
	}
	if c.Generator.Enabled {
		if c.Generator.BaseURL == "" {
			return fmt.Errorf("generator.base_url is required when the generator is enabled")
		}
		if _, err := url.ParseRequestURI(c.Generator.BaseURL); err != nil {
			return fmt.Errorf("generator.base_url is not a valid URL: %w", err)
		}
		if c.Generator.Model == "" {
			return fmt.Errorf("generator.model is required when the generator is enabled")
		}
	}
	if c.Security.RateLimitEnabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("security.rate_limit_reqs must be at least 1, got %d", c.Security.RateLimitReqs)
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("security.rate_limit_window must be positive, got %s", c.Security.RateLimitWindow)
		}
	}
	return nil
}
