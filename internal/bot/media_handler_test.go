package bot

import (
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iisyw/TeleGrabber/internal/pkg/album/domain"
)

func TestExtractMediaItemPicksLargestPhoto(t *testing.T) {
	msg := &tgbotapi.Message{
		Photo: []tgbotapi.PhotoSize{
			{FileID: "small", FileUniqueID: "us", Width: 90},
			{FileID: "large", FileUniqueID: "ul", Width: 1280},
		},
	}

	item, ok := extractMediaItem(msg)
	require.True(t, ok)
	assert.Equal(t, "large", item.FileID)
	assert.Equal(t, domain.KindPhoto, item.Kind)
}

func TestExtractMediaItemVariants(t *testing.T) {
	tests := []struct {
		name string
		msg  *tgbotapi.Message
		kind domain.MediaKind
		ok   bool
	}{
		{"video", &tgbotapi.Message{Video: &tgbotapi.Video{FileID: "v", FileUniqueID: "uv"}}, domain.KindVideo, true},
		{"animation", &tgbotapi.Message{Animation: &tgbotapi.Animation{FileID: "a", FileUniqueID: "ua"}}, domain.KindAnimation, true},
		{"image document", &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d", FileUniqueID: "ud", MimeType: "image/png"}}, domain.KindDocumentImage, true},
		{"pdf document", &tgbotapi.Message{Document: &tgbotapi.Document{FileID: "d", FileUniqueID: "ud", MimeType: "application/pdf"}}, "", false},
		{"text only", &tgbotapi.Message{Text: "hello"}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item, ok := extractMediaItem(tt.msg)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.kind, item.Kind)
			}
		})
	}
}

func TestExtractSourcePublicChannel(t *testing.T) {
	msg := &tgbotapi.Message{
		ForwardFromChat: &tgbotapi.Chat{
			ID:       -100123,
			Type:     "channel",
			Title:    "News Channel",
			UserName: "newschan",
		},
		ForwardFromMessageID: 77,
	}

	source := extractSource(msg)
	assert.Equal(t, "channel", source.Kind)
	assert.Equal(t, "News Channel", source.Name)
	assert.Equal(t, int64(-100123), source.ID)
	assert.Equal(t, "https://t.me/newschan/77", source.Link)
}

func TestExtractSourcePrivateGroup(t *testing.T) {
	msg := &tgbotapi.Message{
		ForwardFromChat: &tgbotapi.Chat{ID: -200456, Type: "supergroup", Title: "Friends"},
	}

	source := extractSource(msg)
	assert.Equal(t, "group", source.Kind)
	assert.Empty(t, source.Link)
}

func TestExtractSourceUser(t *testing.T) {
	msg := &tgbotapi.Message{
		ForwardFrom: &tgbotapi.User{ID: 42, FirstName: "Bob"},
	}

	source := extractSource(msg)
	assert.Equal(t, "user", source.Kind)
	assert.Equal(t, "Bob", source.Name)
}

func TestExtractSourceDirectMessage(t *testing.T) {
	source := extractSource(&tgbotapi.Message{})
	assert.Equal(t, domain.SourceMeta{}, source)
}
