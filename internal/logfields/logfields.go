package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyRepo       = "repository"
	KeyFullName   = "full_name"
	KeyPR         = "pr"
	KeySHA        = "sha"
	KeyAction     = "action"
	KeyStep       = "step"
	KeyStrategy   = "strategy"
	KeyPath       = "path"
	KeyPreview    = "preview_path"
	KeyURL        = "url"
	KeyName       = "name"
	KeyCount      = "count"
	KeyOutcome    = "outcome"
	KeyDurationMS = "duration_ms"
	KeyError      = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Repository(r string) slog.Attr   { return slog.String(KeyRepo, r) }
func FullName(n string) slog.Attr     { return slog.String(KeyFullName, n) }
func PR(n int) slog.Attr              { return slog.Int(KeyPR, n) }
func SHA(s string) slog.Attr          { return slog.String(KeySHA, s) }
func Action(a string) slog.Attr       { return slog.String(KeyAction, a) }
func Step(name string) slog.Attr      { return slog.String(KeyStep, name) }
func Strategy(s string) slog.Attr     { return slog.String(KeyStrategy, s) }
func Path(p string) slog.Attr         { return slog.String(KeyPath, p) }
func PreviewPath(p string) slog.Attr  { return slog.String(KeyPreview, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Name(n string) slog.Attr         { return slog.String(KeyName, n) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func Outcome(o string) slog.Attr      { return slog.String(KeyOutcome, o) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
