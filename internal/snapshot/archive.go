// File: internal/snapshot/archive.go
package snapshot

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Archive writes captured page markup to a diagnostics directory. Every
// operation is best-effort: failures are logged and swallowed so archiving
// can never disturb a capture.
type Archive struct {
	dir    string
	logger *zap.Logger
	now    func() time.Time
}

// NewArchive returns an archive rooted at dir, or nil when dir is empty
// (archiving disabled).
func NewArchive(dir string, logger *zap.Logger) *Archive {
	if dir == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archive{
		dir:    dir,
		logger: logger.Named("snapshot.archive"),
		now:    time.Now,
	}
}

// Store persists one captured document, named after the page host and the
// capture time.
func (a *Archive) Store(pageURL, html string) {
	if a == nil {
		return
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		a.logger.Debug("Cannot create archive directory.", zap.String("dir", a.dir), zap.Error(err))
		return
	}

	name := fmt.Sprintf("%s-%s.html", hostLabel(pageURL), a.now().UTC().Format("20060102T150405.000"))
	path := filepath.Join(a.dir, name)
	if err := os.WriteFile(path, []byte(html), 0o644); err != nil {
		a.logger.Debug("Cannot write archived snapshot.", zap.String("path", path), zap.Error(err))
		return
	}
	a.logger.Debug("Archived snapshot.", zap.String("path", path))
}

func hostLabel(pageURL string) string {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Host == "" {
		return "page"
	}
	return strings.ReplaceAll(parsed.Host, ":", "_")
}
