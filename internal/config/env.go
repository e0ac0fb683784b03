package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Environment variables carrying the invocation input and credentials.
const (
	EnvPreviewToken = "PREVIEW_TOKEN"
	EnvGitHubToken  = "GITHUB_TOKEN"
	EnvEvent        = "PREVIEW_EVENT"
	EnvLogLevel     = "PRPREVIEW_LOG_LEVEL"
)

// LoadEnvFiles loads .env and .env.local when present. Variables already set in the
// process environment are never overwritten.
func LoadEnvFiles() {
	for _, name := range []string{".env", ".env.local"} {
		if _, err := os.Stat(name); err != nil {
			continue
		}
		if err := godotenv.Load(name); err != nil {
			slog.Warn("Failed to load env file", slog.String("file", name), slog.String("error", err.Error()))
			continue
		}
		slog.Debug("Loaded environment file", slog.String("file", name))
	}
}

// ResolveToken returns the preview write token, preferring PREVIEW_TOKEN over GITHUB_TOKEN.
func ResolveToken(getenv func(string) string) string {
	if getenv == nil {
		getenv = os.Getenv
	}
	if tok := getenv(EnvPreviewToken); tok != "" {
		return tok
	}
	return getenv(EnvGitHubToken)
}
