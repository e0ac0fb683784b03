package config

const (
	DefaultPreviewBranch     = "main"
	DefaultSourceURLTemplate = "https://github.com/{full_name}.git"
	DefaultCommitterName     = "prpreview[bot]"
	DefaultCommitterEmail    = "prpreview@users.noreply.github.com"
	DefaultPreviewURL        = "https://{owner}.github.io/{name}/{path}/"
	DefaultMetricsJob        = "prpreview"
	DefaultCloneInitialDelay = "1s"
	DefaultCloneMaxDelay     = "10s"
)

// ApplyDefaults fills unset optional fields.
func (c *Config) ApplyDefaults() {
	if c.PreviewRepository.Branch == "" {
		c.PreviewRepository.Branch = DefaultPreviewBranch
	}
	if c.SourceURLTemplate == "" {
		c.SourceURLTemplate = DefaultSourceURLTemplate
	}
	if c.Committer.Name == "" {
		c.Committer.Name = DefaultCommitterName
	}
	if c.Committer.Email == "" {
		c.Committer.Email = DefaultCommitterEmail
	}
	if c.Clone.Backoff == "" {
		c.Clone.Backoff = RetryBackoffExponential
	}
	if c.Clone.InitialDelay == "" {
		c.Clone.InitialDelay = DefaultCloneInitialDelay
	}
	if c.Clone.MaxDelay == "" {
		c.Clone.MaxDelay = DefaultCloneMaxDelay
	}
	if c.Notify.URLTemplate == "" {
		c.Notify.URLTemplate = DefaultPreviewURL
	}
	if c.Metrics.Job == "" {
		c.Metrics.Job = DefaultMetricsJob
	}
	c.monitored = nil
}
