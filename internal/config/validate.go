// UrbanWaste - Municipal Waste Collection Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/urbanwaste

package config

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/tomtom215/urbanwaste/internal/logging"
)

var hhmm = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// Validate checks every section and returns the first problem found.
func (c *Config) Validate() error {
	if err := c.validateAPI(); err != nil {
		return err
	}
	if err := c.validateMapping(); err != nil {
		return err
	}
	if err := c.validatePlanner(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateEvents(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAPI() error {
	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("WASTE_API_URL must be an absolute URL, got %q", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("WASTE_API_URL must use http or https, got %q", u.Scheme)
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("WASTE_API_TIMEOUT must be positive")
	}
	if c.API.RequestsPerSecond < 0 {
		return fmt.Errorf("WASTE_API_RPS must not be negative")
	}
	cb := c.API.CircuitBreaker
	if cb.Enabled && (cb.FailureRatio <= 0 || cb.FailureRatio > 1) {
		return fmt.Errorf("circuit breaker failure ratio must be in (0,1], got %v", cb.FailureRatio)
	}
	return nil
}

func (c *Config) validateMapping() error {
	if c.Mapping.EmailDomain == "" {
		return fmt.Errorf("MAPPING_EMAIL_DOMAIN is required")
	}
	if c.Mapping.PlaceholderPhone <= 0 {
		return fmt.Errorf("MAPPING_PLACEHOLDER_PHONE must be positive")
	}
	return nil
}

func (c *Config) validatePlanner() error {
	p := c.Planner
	if p.Threshold < 0 || p.Threshold > 100 {
		return fmt.Errorf("PLANNER_THRESHOLD must be between 0 and 100, got %d", p.Threshold)
	}
	if p.BucketSize < 1 {
		return fmt.Errorf("PLANNER_BUCKET_SIZE must be at least 1")
	}
	if p.MaxVehicles < 1 {
		return fmt.Errorf("PLANNER_MAX_VEHICLES must be at least 1")
	}
	if p.MinBucket < 1 || p.MinBucket > p.BucketSize {
		return fmt.Errorf("planner min_bucket must be between 1 and bucket_size")
	}
	for _, t := range p.StartTimes {
		if !hhmm.MatchString(t) {
			return fmt.Errorf("invalid planner start time %q (want HH:MM)", t)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if !c.Server.RateLimitDisabled && c.Server.RateLimitRequests < 1 {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be at least 1")
	}
	return nil
}

func (c *Config) validateSecurity() error {
	if !c.Security.AuthEnabled {
		return nil
	}
	if len(c.Security.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_ENABLED=true")
	}
	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	return nil
}

func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "channel":
	case "nats":
		if c.Events.NATSURL == "" && !c.Events.EmbeddedNATS {
			return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats without NATS_EMBEDDED")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be channel or nats, got %q", c.Events.Backend)
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required")
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("invalid LOG_LEVEL %q", c.Logging.Level)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
