package config

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/prpreview/internal/foundation/errors"
	"git.home.luguber.info/inful/prpreview/internal/util/sets"
)

// Config is the process-wide, read-only configuration for one invocation.
type Config struct {
	MonitoredRepositories []string          `json:"monitoredRepositories" yaml:"monitoredRepositories"`
	PreviewRepository     PreviewRepository `json:"previewRepository" yaml:"previewRepository"`
	// SourceURLTemplate builds the clone URL of the source repository.
	// Placeholders: {full_name}, {owner}, {name}.
	SourceURLTemplate string        `json:"sourceURLTemplate,omitempty" yaml:"sourceURLTemplate,omitempty"`
	Committer         Committer     `json:"committer" yaml:"committer"`
	Build             BuildConfig   `json:"build" yaml:"build"`
	Clone             CloneConfig   `json:"clone" yaml:"clone"`
	Notify            NotifyConfig  `json:"notify" yaml:"notify"`
	Metrics           MetricsConfig `json:"metrics" yaml:"metrics"`

	monitored sets.Set[string]
}

// PreviewRepository addresses the repository that hosts published previews.
type PreviewRepository struct {
	Owner  string `json:"owner" yaml:"owner"`
	Name   string `json:"name" yaml:"name"`
	Branch string `json:"branch,omitempty" yaml:"branch,omitempty"`
	// URL overrides the clone URL derived from owner/name (e.g. a self-hosted forge or a local path).
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// FullName returns owner/name.
func (p PreviewRepository) FullName() string { return p.Owner + "/" + p.Name }

// Committer is the identity recorded on preview commits.
type Committer struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email" yaml:"email"`
}

// BuildConfig overrides the built-in build and artifact candidate lists.
// Empty lists keep the defaults.
type BuildConfig struct {
	Scripts        []string `json:"scripts,omitempty" yaml:"scripts,omitempty"`
	Commands       []string `json:"commands,omitempty" yaml:"commands,omitempty"`
	OutputDirs     []string `json:"outputDirs,omitempty" yaml:"outputDirs,omitempty"`
	IncludeAssets  bool     `json:"includeAssets,omitempty" yaml:"includeAssets,omitempty"`
	CommandTimeout string   `json:"commandTimeout,omitempty" yaml:"commandTimeout,omitempty"`
}

// CloneConfig controls retries of the source clone on transient network failures.
type CloneConfig struct {
	MaxRetries   int              `json:"maxRetries" yaml:"maxRetries"`
	Backoff      RetryBackoffMode `json:"backoff,omitempty" yaml:"backoff,omitempty"`
	InitialDelay string           `json:"initialDelay,omitempty" yaml:"initialDelay,omitempty"`
	MaxDelay     string           `json:"maxDelay,omitempty" yaml:"maxDelay,omitempty"`
}

// NotifyConfig enables the pull request comment pointing at the published preview.
type NotifyConfig struct {
	Enabled bool `json:"enabled" yaml:"enabled"`
	// URLTemplate builds the public preview URL. Placeholders: {owner}, {name}, {path}.
	URLTemplate string `json:"urlTemplate,omitempty" yaml:"urlTemplate,omitempty"`
	APIBaseURL  string `json:"apiBaseURL,omitempty" yaml:"apiBaseURL,omitempty"`
}

// MetricsConfig configures the Pushgateway that receives run metrics.
type MetricsConfig struct {
	PushgatewayURL string `json:"pushgatewayURL,omitempty" yaml:"pushgatewayURL,omitempty"`
	Job            string `json:"job,omitempty" yaml:"job,omitempty"`
}

// Load reads, defaults and validates the configuration file at path.
// JSON files may contain comments and trailing commas; .yaml/.yml files are parsed as YAML.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError("failed to read configuration file").
			WithCause(err).
			WithContext("path", path).
			Build()
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		if ce, ok := errors.AsClassified(err); ok {
			return nil, ce.WithContext("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes raw configuration bytes; ext selects the format (".yaml", ".yml", anything else is JSON).
func Parse(data []byte, ext string) (*Config, error) {
	var cfg Config
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, errors.ConfigError("invalid YAML configuration").WithCause(err).Build()
		}
	default:
		dec := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&cfg); err != nil {
			return nil, errors.ConfigError("invalid JSON configuration").WithCause(err).Build()
		}
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// IsMonitored reports whether repoName is on the allow-list. Matching is exact.
func (c *Config) IsMonitored(repoName string) bool {
	if c.monitored == nil {
		c.monitored = sets.New(c.MonitoredRepositories...)
	}
	return c.monitored.Has(repoName)
}

// Monitored returns the allow-list as a set.
func (c *Config) Monitored() sets.Set[string] {
	if c.monitored == nil {
		c.monitored = sets.New(c.MonitoredRepositories...)
	}
	return c.monitored
}

// PreviewCloneURL returns the clone URL of the preview repository.
func (c *Config) PreviewCloneURL() string {
	if c.PreviewRepository.URL != "" {
		return c.PreviewRepository.URL
	}
	return "https://github.com/" + c.PreviewRepository.FullName() + ".git"
}

// SourceCloneURL expands SourceURLTemplate for a repository.
func (c *Config) SourceCloneURL(owner, name, fullName string) string {
	return strings.NewReplacer(
		"{full_name}", fullName,
		"{owner}", owner,
		"{name}", name,
	).Replace(c.SourceURLTemplate)
}

// PreviewURL expands the notify URL template for a preview path.
func (c *Config) PreviewURL(previewPath string) string {
	return strings.NewReplacer(
		"{owner}", c.PreviewRepository.Owner,
		"{name}", c.PreviewRepository.Name,
		"{path}", previewPath,
	).Replace(c.Notify.URLTemplate)
}
