package app

import (
	"errors"
	"time"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	DescriptorPaths []string // hcl files or directories
	OutPath         string   // empty writes to the app's output writer
	Overrides       []string // "element.param=value"

	// Watch is the reload interval. Zero compiles once and returns.
	Watch time.Duration

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	PublishURL   string
	PublishEvent string
}

func NewConfig(cfg Config) (*Config, error) {
	if len(cfg.DescriptorPaths) == 0 {
		return nil, errors.New("at least one descriptor path is required")
	}
	if cfg.Watch < 0 {
		return nil, errors.New("watch interval cannot be negative")
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		return nil, errors.New("healthcheck port must be between 0 and 65535")
	}
	return &cfg, nil
}
