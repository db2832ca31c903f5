package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

func statePath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "media_groups_collection.json")
}

func TestLoadMissingFile(t *testing.T) {
	st := New(statePath(t))
	assert.Empty(t, st.Load())
}

func TestLoadCorruptQuarantines(t *testing.T) {
	path := statePath(t)
	require.NoError(t, os.WriteFile(path, []byte("{definitely not json"), 0o644))

	st := New(path)
	assert.Empty(t, st.Load())

	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err), "corrupt file should have been moved away")

	backups, err := filepath.Glob(path + ".bak.*")
	require.NoError(t, err)
	assert.Len(t, backups, 1)

	// a second load starts clean
	assert.Empty(t, st.Load())
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := statePath(t)
	st := New(path)

	key := domain.GroupKey{ChatID: 7, GroupID: "100"}
	rec := &domain.GroupRecord{
		ChatID:   7,
		UserID:   42,
		UserName: "alice",
		GroupID:  "100",
		Items: []domain.MediaItem{
			{FileID: "f1", FileUniqueID: "u1", Kind: domain.KindPhoto},
			{FileID: "f2", FileUniqueID: "u2", Kind: domain.KindVideo},
		},
		FirstSeenAt:     time.Now().UTC().Truncate(time.Second),
		StatusMessageID: 9,
		SourceMeta:      domain.SourceMeta{Name: "some channel", ID: -100123, Kind: "channel"},
	}
	require.NoError(t, st.Save(map[domain.GroupKey]*domain.GroupRecord{key: rec}))

	loaded := New(path).Load()
	require.Len(t, loaded, 1)
	assert.Equal(t, rec, loaded[key])

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temp file should not linger after save")
}

func TestLoadSkipsMalformedKeys(t *testing.T) {
	path := statePath(t)
	doc := `{"oops": {"chat_id": 1}, "7_100": {"chat_id": 7, "media_group_id": "100"}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	loaded := New(path).Load()
	require.Len(t, loaded, 1)
	assert.Contains(t, loaded, domain.GroupKey{ChatID: 7, GroupID: "100"})
}

func TestSaveCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "state.json")
	st := New(path)
	require.NoError(t, st.Save(map[domain.GroupKey]*domain.GroupRecord{}))
	assert.Empty(t, st.Load())
}
