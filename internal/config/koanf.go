// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

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

// DefaultConfigPaths are searched in order; the first existing file wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/urbanwaste/config.yaml",
	"/etc/urbanwaste/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: 30 * time.Second,
			Burst:   5,
			CircuitBreaker: CircuitBreakerConfig{
				Enabled:      true,
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Mapping: MappingConfig{
			EmailDomain:      "wastemanagement.com",
			PlaceholderPhone: 1000000000,
		},
		Planner: PlannerConfig{
			Threshold:   92,
			BucketSize:  9,
			MaxVehicles: 4,
			MinBucket:   2,
			KmPerPoint:  4.1,
			BaseKm:      9,
			StartTimes:  []string{"06:15", "06:45", "07:15", "13:30"},
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              3900,
			CORSOrigins:       []string{},
			RateLimitRequests: 100,
			RateLimitWindow:   time.Minute,
			ShutdownTimeout:   10 * time.Second,
		},
		Security: SecurityConfig{
			SessionTimeout: 24 * time.Hour,
		},
		Session: SessionConfig{
			Path: "/data/session",
		},
		Events: EventsConfig{
			Backend:  "channel",
			NATSPort: 4222,
			Topic:    "waste.changes",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load builds the configuration: defaults, then the YAML file (if any),
// then environment variables. The result is validated.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
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

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths arrive from the environment as comma-separated strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
	"planner.start_times",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		s, ok := k.Get(path).(string)
		if !ok || s == "" {
			continue
		}
		parts := strings.Split(s, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
// Anything not listed is ignored.
var envMappings = map[string]string{
	"waste_api_url":             "api.base_url",
	"waste_api_timeout":         "api.timeout",
	"waste_api_token":           "api.auth_token",
	"waste_api_rps":             "api.requests_per_second",
	"waste_api_burst":           "api.burst",
	"circuit_breaker_enabled":   "api.circuit_breaker.enabled",
	"circuit_breaker_timeout":   "api.circuit_breaker.timeout",
	"mapping_email_domain":      "mapping.email_domain",
	"mapping_placeholder_phone": "mapping.placeholder_phone",
	"planner_threshold":         "planner.threshold",
	"planner_bucket_size":       "planner.bucket_size",
	"planner_max_vehicles":      "planner.max_vehicles",
	"planner_start_times":       "planner.start_times",
	"http_host":                 "server.host",
	"http_port":                 "server.port",
	"cors_origins":              "server.cors_origins",
	"rate_limit_requests":       "server.rate_limit_requests",
	"rate_limit_window":         "server.rate_limit_window",
	"disable_rate_limit":        "server.rate_limit_disabled",
	"auth_enabled":              "security.auth_enabled",
	"jwt_secret":                "security.jwt_secret",
	"session_timeout":           "security.session_timeout",
	"authz_policy_path":         "security.policy_path",
	"session_path":              "session.path",
	"session_in_memory":         "session.in_memory",
	"events_backend":            "events.backend",
	"nats_url":                  "events.nats_url",
	"nats_embedded":             "events.embedded_nats",
	"nats_port":                 "events.nats_port",
	"events_topic":              "events.topic",
	"log_level":                 "logging.level",
	"log_format":                "logging.format",
	"log_caller":                "logging.caller",
}

func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

// WatchConfigFile calls fn whenever the file at path changes. The caller
// guards its own copy of the configuration during reload.
func WatchConfigFile(path string, fn func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		fn()
	})
}
