// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

// Package config loads UrbanWaste configuration from defaults, an optional
// YAML file and environment variables (in that order of precedence, lowest
// first) using koanf.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config is the root configuration.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Mapping  MappingConfig  `koanf:"mapping"`
	Planner  PlannerConfig  `koanf:"planner"`
	Server   ServerConfig   `koanf:"server"`
	Security SecurityConfig `koanf:"security"`
	Session  SessionConfig  `koanf:"session"`
	Events   EventsConfig   `koanf:"events"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// APIConfig describes the remote waste-management backend.
type APIConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Timeout   time.Duration `koanf:"timeout"`
	AuthToken string        `koanf:"auth_token"`

	// RequestsPerSecond throttles outgoing calls. 0 disables the limiter.
	RequestsPerSecond float64 `koanf:"requests_per_second"`
	Burst             int     `koanf:"burst"`

	CircuitBreaker CircuitBreakerConfig `koanf:"circuit_breaker"`
}

// CircuitBreakerConfig mirrors the gobreaker settings used for the backend.
type CircuitBreakerConfig struct {
	Enabled      bool          `koanf:"enabled"`
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// MappingConfig holds the placeholders used when outbound DTOs miss data.
type MappingConfig struct {
	EmailDomain      string `koanf:"email_domain"`
	PlaceholderPhone int64  `koanf:"placeholder_phone"`
}

// PlannerConfig tunes the route bucketing heuristic.
type PlannerConfig struct {
	Threshold   int      `koanf:"threshold"`
	BucketSize  int      `koanf:"bucket_size"`
	MaxVehicles int      `koanf:"max_vehicles"`
	MinBucket   int      `koanf:"min_bucket"`
	KmPerPoint  float64  `koanf:"km_per_point"`
	BaseKm      float64  `koanf:"base_km"`
	StartTimes  []string `koanf:"start_times"`
}

// ServerConfig is the gateway HTTP listener.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// SecurityConfig controls gateway tokens and role checks.
type SecurityConfig struct {
	AuthEnabled    bool          `koanf:"auth_enabled"`
	JWTSecret      string        `koanf:"jwt_secret"`
	SessionTimeout time.Duration `koanf:"session_timeout"`
	PolicyPath     string        `koanf:"policy_path"`
}

// SessionConfig locates the persisted login session.
type SessionConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// EventsConfig selects the change-event transport.
type EventsConfig struct {
	// Backend is "channel" (in-process) or "nats".
	Backend      string `koanf:"backend"`
	NATSURL      string `koanf:"nats_url"`
	EmbeddedNATS bool   `koanf:"embedded_nats"`
	NATSPort     int    `koanf:"nats_port"`
	Topic        string `koanf:"topic"`
}

type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Addr returns host:port for the gateway listener.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}
