// Fablehouse - Children's Content Recommendation Chatbot
// Copyright 2026 Fablehouse Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/fablehouse/fablehouse

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/fablehouse/config.yaml",
	"/etc/fablehouse/config.yml",
}

// ConfigPathEnvVar overrides the config file search when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults load
// first, then the config file and environment variables override them.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Path:             "/data/fablehouse.db",
			BusyTimeout:      5 * time.Second,
			OptimizeInterval: time.Hour,
		},
		Context: ContextConfig{
			TTL:           10 * time.Minute,
			SweepInterval: time.Minute,
		},
		Safety: SafetyConfig{
			DefaultChildAge:   10,
			MaxResultsPerType: 5,
		},
		Generator: GeneratorConfig{
			Enabled:      true,
			BaseURL:      "https://api.groq.com/openai/v1",
			Model:        "llama-3.3-70b-versatile",
			Timeout:      30 * time.Second,
			MaxTokens:    512,
			Temperature:  0.6,
			HistoryLimit: 4,
			Readability:  true,
		},
		Security: SecurityConfig{
			CORSOrigins:      []string{"*"},
			RateLimitReqs:    60,
			RateLimitWindow:  time.Minute,
			RateLimitEnabled: true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. Environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first config file that exists, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// they arrive via environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars come in as strings; YAML values pass through.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - DATABASE_PATH -> database.path
//   - GENERATOR_API_KEY -> generator.api_key
func envTransformFunc(key string) string {
	envMappings := map[string]string{
		"http_host":        "server.host",
		"http_port":        "server.port",
		"server_host":      "server.host",
		"server_port":      "server.port",
		"shutdown_timeout": "server.shutdown_timeout",

		"database_path":     "database.path",
		"db_busy_timeout":   "database.busy_timeout",
		"db_optimize_every": "database.optimize_interval",

		"context_ttl":            "context.ttl",
		"context_sweep_interval": "context.sweep_interval",

		"default_child_age":    "safety.default_child_age",
		"max_results_per_type": "safety.max_results_per_type",

		"generator_enabled":       "generator.enabled",
		"generator_base_url":      "generator.base_url",
		"generator_api_key":       "generator.api_key",
		"groq_api_key":            "generator.api_key",
		"generator_model":         "generator.model",
		"generator_timeout":       "generator.timeout",
		"generator_max_tokens":    "generator.max_tokens",
		"generator_temperature":   "generator.temperature",
		"generator_history_limit": "generator.history_limit",
		"generator_readability":   "generator.readability",

		"cors_origins":       "security.cors_origins",
		"rate_limit_reqs":    "security.rate_limit_reqs",
		"rate_limit_window":  "security.rate_limit_window",
		"rate_limit_enabled": "security.rate_limit_enabled",

		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped keys are skipped so stray environment variables cannot
	// pollute the configuration.
	return ""
}
