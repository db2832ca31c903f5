package bot

import (
	"fmt"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
	"github.com/iisyw/TeleGrabber/internal/pkg/metadata"
)

// handleMediaMessage routes a media message: album members go through
// the collector, everything else is saved immediately.
func (b *Bot) handleMediaMessage(msg *tgbotapi.Message) {
	item, ok := extractMediaItem(msg)
	if !ok {
		return
	}
	source := extractSource(msg)

	if msg.MediaGroupID == "" {
		b.saveSingle(msg, item, source)
		return
	}

	key := domain.GroupKey{ChatID: msg.Chat.ID, GroupID: msg.MediaGroupID}
	count, first := b.collector.Add(key, item, msg.From.ID, displayName(msg.From), source)
	b.log.Debug().Stringer("group", key).Int("count", count).Bool("first", first).
		Msg("media group item collected")

	if first {
		b.collector.ScheduleFinalize(key)
	}
}

// saveSingle downloads a standalone media message and confirms in chat.
func (b *Bot) saveSingle(msg *tgbotapi.Message, item domain.MediaItem, source domain.SourceMeta) {
	dir, err := b.resolver.Resolve(displayName(msg.From), source, time.Now())
	if err != nil {
		b.log.Error().Err(err).Msg("cannot resolve save directory")
		b.reply(msg, "❌ 文件保存失败")
		return
	}

	name, err := b.fetcher.Fetch(item, dir)
	if err != nil {
		b.log.Error().Err(err).Str("file_unique_id", item.FileUniqueID).Msg("saving media failed")
		b.reply(msg, "❌ 文件保存失败")
		return
	}

	if err := b.meta.Record(&metadata.Row{
		ChatID:       msg.Chat.ID,
		UserName:     displayName(msg.From),
		FileID:       item.FileID,
		FileUniqueID: item.FileUniqueID,
		FileName:     name,
		Kind:         item.Kind,
		Source:       source,
		SavedAt:      time.Now(),
	}); err != nil {
		b.log.Warn().Err(err).Str("file", name).Msg("recording metadata row failed")
	}

	b.log.Info().Str("file", name).Str("user", displayName(msg.From)).Msg("saved media")
	b.reply(msg, "✅ 文件已保存")
}

// extractMediaItem picks the media reference out of a message. For
// photos the largest size wins; documents count only when they carry an
// image payload.
func extractMediaItem(msg *tgbotapi.Message) (domain.MediaItem, bool) {
	switch {
	case len(msg.Photo) > 0:
		photo := msg.Photo[len(msg.Photo)-1]
		return domain.MediaItem{FileID: photo.FileID, FileUniqueID: photo.FileUniqueID, Kind: domain.KindPhoto}, true
	case msg.Video != nil:
		return domain.MediaItem{FileID: msg.Video.FileID, FileUniqueID: msg.Video.FileUniqueID, Kind: domain.KindVideo}, true
	case msg.Animation != nil:
		return domain.MediaItem{FileID: msg.Animation.FileID, FileUniqueID: msg.Animation.FileUniqueID, Kind: domain.KindAnimation}, true
	case msg.Document != nil && strings.HasPrefix(msg.Document.MimeType, "image/"):
		return domain.MediaItem{FileID: msg.Document.FileID, FileUniqueID: msg.Document.FileUniqueID, Kind: domain.KindDocumentImage}, true
	}
	return domain.MediaItem{}, false
}

// extractSource pulls forward-origin metadata, when present. Public
// channels get a t.me deep link to the original message.
func extractSource(msg *tgbotapi.Message) domain.SourceMeta {
	if chat := msg.ForwardFromChat; chat != nil {
		kind := "group"
		if chat.IsChannel() {
			kind = "channel"
		}
		meta := domain.SourceMeta{Name: chat.Title, ID: chat.ID, Kind: kind}
		if chat.UserName != "" && msg.ForwardFromMessageID != 0 {
			meta.Link = fmt.Sprintf("https://t.me/%s/%d", chat.UserName, msg.ForwardFromMessageID)
		}
		return meta
	}
	if user := msg.ForwardFrom; user != nil {
		return domain.SourceMeta{Name: displayName(user), ID: user.ID, Kind: "user"}
	}
	return domain.SourceMeta{}
}

func displayName(user *tgbotapi.User) string {
	if user.UserName != "" {
		return user.UserName
	}
	return user.FirstName
}
