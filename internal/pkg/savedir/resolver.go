// Package savedir decides where saved media lands on disk:
// <base>/<user>/<date> for direct messages and
// <base>/<user>/<source>/<date> for forwarded media.
package savedir

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

var pathSanitizer = strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_")

type Resolver struct {
	base string
}

func New(base string) *Resolver {
	return &Resolver{base: base}
}

// Resolve returns the directory for the given user/source/date,
// creating it if needed.
func (r *Resolver) Resolve(userName string, source domain.SourceMeta, when time.Time) (string, error) {
	parts := []string{r.base, sanitize(userName)}
	if source.Name != "" {
		parts = append(parts, sanitize(source.Name))
	}
	parts = append(parts, when.Format("2006-01-02"))

	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create save directory: %w", err)
	}
	return dir, nil
}

func sanitize(name string) string {
	name = pathSanitizer.Replace(name)
	if name == "" || name == "." || name == ".." {
		return "unknown"
	}
	return name
}
