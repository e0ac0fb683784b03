package workspace

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/prpreview/internal/logfields"
)

// DefaultPrefix names scratch directories created by the preview bot.
const DefaultPrefix = "prpreview"

// Manager creates ephemeral scratch directories and removes them on Cleanup.
type Manager struct {
	baseDir string
	prefix  string
	newID   func() string
	now     func() time.Time
	dirs    []string
}

// NewManager creates a manager rooted at baseDir (os.TempDir when empty).
func NewManager(baseDir string) *Manager {
	if baseDir == "" {
		baseDir = os.TempDir()
	}
	return &Manager{
		baseDir: baseDir,
		prefix:  DefaultPrefix,
		newID:   func() string { return uuid.NewString()[:8] },
		now:     time.Now,
	}
}

// WithIDGenerator replaces the random suffix generator (fluent helper).
func (m *Manager) WithIDGenerator(gen func() string) *Manager { m.newID = gen; return m }

// WithPrefix replaces the directory name prefix (fluent helper).
func (m *Manager) WithPrefix(prefix string) *Manager { m.prefix = prefix; return m }

// Create makes a new directory named {prefix}-{purpose}-{timestamp}-{id}.
func (m *Manager) Create(purpose string) (string, error) {
	name := fmt.Sprintf("%s-%s-%s-%s", m.prefix, purpose, m.now().Format("20060102-150405"), m.newID())
	dir := filepath.Join(m.baseDir, name)
	if err := os.Mkdir(dir, 0o750); err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("workspace directory already exists: %s", dir)
		}
		return "", fmt.Errorf("failed to create workspace directory: %w", err)
	}
	m.dirs = append(m.dirs, dir)
	slog.Debug("Created workspace", logfields.Path(dir))
	return dir, nil
}

// Paths returns the directories created so far that have not been cleaned up.
func (m *Manager) Paths() []string {
	return append([]string(nil), m.dirs...)
}

// Cleanup removes every created directory. All removals are attempted; the
// failures are joined into the returned error.
func (m *Manager) Cleanup() error {
	var errs []error
	for _, dir := range m.dirs {
		if err := os.RemoveAll(dir); err != nil {
			errs = append(errs, fmt.Errorf("failed to cleanup workspace %s: %w", dir, err))
			continue
		}
		slog.Debug("Cleaned up workspace", logfields.Path(dir))
	}
	m.dirs = nil
	return stderrors.Join(errs...)
}
