// Package metadata records a row per saved media file, so the on-disk
// tree can be cross-referenced later.
package metadata

import (
	"time"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

type Row struct {
	ChatID       int64
	UserName     string
	FileID       string
	FileUniqueID string
	FileName     string
	GroupID      string
	Kind         domain.MediaKind
	Source       domain.SourceMeta
	SavedAt      time.Time
}

type Writer interface {
	Record(row *Row) error
}

// NopWriter is used when no database is configured.
type NopWriter struct{}

func (NopWriter) Record(*Row) error { return nil }
