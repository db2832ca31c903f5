package album

import (
	"fmt"
	"time"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
	"github.com/iisyw/TeleGrabber/internal/pkg/metadata"
	"github.com/iisyw/TeleGrabber/internal/pkg/notice"
)

const (
	textCollecting = "⏳ 正在收集媒体组，请稍候..."
	textProgress   = "⏳ 正在保存媒体组：%d/%d"
	textDone       = "✅ 媒体组保存完成！（%d/%d 个文件，用时 %.1f 秒）"
	textEmpty      = "❌ 未能处理任何文件"
)

// drain processes one finalized group and removes its record. It never
// lets a fault escape to the worker: on an unexpected panic the record
// is still removed so a poisoned group cannot be re-enqueued forever.
func (c *Collector) drain(key domain.GroupKey) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Error().Interface("panic", r).Stringer("group", key).
				Msg("drain failed unexpectedly, dropping group record")
			c.remove(key)
		}
	}()
	c.process(key)
}

func (c *Collector) process(key domain.GroupKey) {
	c.mu.Lock()
	groups := c.store.Load()
	rec, ok := groups[key]
	if !ok {
		c.mu.Unlock()
		c.log.Info().Stringer("group", key).Msg("group already drained or unknown, skipping")
		return
	}
	snapshot := *rec
	items := append([]domain.MediaItem(nil), rec.Items...)
	c.mu.Unlock()

	prog := notice.NewProgress(c.sender, snapshot.ChatID, snapshot.StatusMessageID)
	total := len(items)

	if total == 0 {
		prog.Set(textEmpty)
		c.remove(key)
		return
	}

	dir, err := c.resolver.Resolve(snapshot.UserName, snapshot.SourceMeta, time.Now())
	if err != nil {
		c.log.Error().Err(err).Stringer("group", key).Msg("cannot resolve save directory")
		prog.Set(fmt.Sprintf(textDone, 0, total, 0.0))
		c.remove(key)
		return
	}

	prog.Set(fmt.Sprintf(textProgress, 0, total))

	started := time.Now()
	processed := 0
	for i, item := range items {
		name, err := c.fetcher.Fetch(item, dir)
		if err != nil {
			c.log.Warn().Err(err).Stringer("group", key).Str("file_unique_id", item.FileUniqueID).
				Msg("saving media item failed, skipping")
			continue
		}
		processed++

		if err := c.meta.Record(&metadata.Row{
			ChatID:       snapshot.ChatID,
			UserName:     snapshot.UserName,
			FileID:       item.FileID,
			FileUniqueID: item.FileUniqueID,
			FileName:     name,
			GroupID:      snapshot.GroupID,
			Kind:         item.Kind,
			Source:       snapshot.SourceMeta,
			SavedAt:      time.Now(),
		}); err != nil {
			c.log.Warn().Err(err).Str("file", name).Msg("recording metadata row failed")
		}

		prog.Set(fmt.Sprintf(textProgress, i+1, total))
		c.log.Info().Stringer("group", key).Str("file", name).
			Msgf("saved media group item (%d/%d)", i+1, total)
	}

	elapsed := time.Since(started).Seconds()
	prog.Set(fmt.Sprintf(textDone, processed, total, elapsed))
	c.log.Info().Stringer("group", key).Int("processed", processed).Int("total", total).
		Msg("media group drained")

	c.remove(key)
}

// remove deletes the group record, if still present, and persists.
func (c *Collector) remove(key domain.GroupKey) {
	c.mu.Lock()
	defer c.mu.Unlock()

	groups := c.store.Load()
	if _, ok := groups[key]; !ok {
		return
	}
	delete(groups, key)
	if err := c.store.Save(groups); err != nil {
		c.log.Error().Err(err).Stringer("group", key).Msg("persisting record removal failed")
	}
}
