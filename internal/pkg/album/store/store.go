// Package store persists the media-group collection state as a single
// JSON document. Writes go to a sibling temp file and are moved into
// place atomically, so a reader never observes a half-written document.
// Unreadable documents are quarantined instead of aborting startup.
//
// The store has no internal locking: callers serialize access with the
// aggregation lock.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/iisyw/TeleGrabber/internal/logging"
	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Path() string { return s.path }

// Load reads the collection document. A missing file yields an empty
// map; corrupt content is renamed to <path>.bak.<unixtime> and an empty
// map is returned. Load never fails.
func (s *Store) Load() map[domain.GroupKey]*domain.GroupRecord {
	groups := make(map[domain.GroupKey]*domain.GroupRecord)

	b, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			logging.Logger().Warn().Err(err).Str("path", s.path).Msg("cannot read collection state")
		}
		return groups
	}

	raw := make(map[string]*domain.GroupRecord)
	if err := json.Unmarshal(b, &raw); err != nil {
		s.quarantine(err)
		return groups
	}

	for k, rec := range raw {
		key, err := domain.ParseGroupKey(k)
		if err != nil || rec == nil {
			logging.Logger().Warn().Str("key", k).Msg("skipping malformed collection entry")
			continue
		}
		groups[key] = rec
	}
	return groups
}

// Save writes the full collection document atomically.
func (s *Store) Save(groups map[domain.GroupKey]*domain.GroupRecord) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw := make(map[string]*domain.GroupRecord, len(groups))
	for key, rec := range groups {
		raw[key.String()] = rec
	}
	b, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal collection state: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write collection state: %w", err)
	}
	return os.Rename(tmp, s.path)
}

func (s *Store) quarantine(cause error) {
	backup := fmt.Sprintf("%s.bak.%d", s.path, time.Now().Unix())
	if err := os.Rename(s.path, backup); err != nil {
		logging.Logger().Error().Err(err).Str("path", s.path).Msg("cannot quarantine corrupt collection state")
		return
	}
	logging.Logger().Warn().Err(cause).Str("backup", backup).
		Msg("collection state corrupt, quarantined and starting empty")
}
