package config

import (
	"strings"
	"time"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
)

// Validate checks the invariants the orchestrator relies on.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PreviewRepository.Owner) == "" || strings.TrimSpace(c.PreviewRepository.Name) == "" {
		return errors.ConfigError("previewRepository requires owner and name").Build()
	}
	for _, name := range c.MonitoredRepositories {
		if strings.TrimSpace(name) == "" {
			return errors.ConfigError("monitoredRepositories contains an empty name").Build()
		}
	}
	if c.Build.CommandTimeout != "" {
		if d, err := time.ParseDuration(c.Build.CommandTimeout); err != nil || d < 0 {
			return errors.ConfigError("build.commandTimeout must be a non-negative duration").
				WithCause(err).
				WithContext("value", c.Build.CommandTimeout).
				Build()
		}
	}
	for field, raw := range map[string]string{"clone.initialDelay": c.Clone.InitialDelay, "clone.maxDelay": c.Clone.MaxDelay} {
		if _, err := time.ParseDuration(raw); err != nil {
			return errors.ConfigError("invalid duration").WithCause(err).WithContext("field", field).Build()
		}
	}
	if c.Clone.MaxRetries < 0 {
		return errors.ConfigError("clone.maxRetries cannot be negative").Build()
	}
	if NormalizeRetryBackoff(string(c.Clone.Backoff)) == "" {
		return errors.ConfigError("unknown clone.backoff mode").WithContext("value", string(c.Clone.Backoff)).Build()
	}
	return nil
}

// CommandTimeout returns the per-command build timeout; zero means none.
func (c *Config) CommandTimeout() time.Duration {
	d, _ := time.ParseDuration(c.Build.CommandTimeout)
	return d
}
