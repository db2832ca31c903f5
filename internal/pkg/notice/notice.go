// Package notice wraps the single chat status message that accompanies
// a media group: posted once while collecting, then edited in place as
// items are saved. All delivery is best-effort.
package notice

import (
	"github.com/rs/zerolog"

	"github.com/iisyw/TeleGrabber/internal/logging"
)

// Sender posts and edits chat messages. Notify returns the message ID
// of the posted message.
type Sender interface {
	Notify(chatID int64, text string) (int, error)
	Edit(chatID int64, messageID int, text string) error
}

// Progress is the editable status notice for one media group. When an
// edit fails, or no message was ever posted, it falls back to posting a
// fresh message and keeps using that one. After a failed post, further
// updates are no-ops.
type Progress struct {
	sender     Sender
	chatID     int64
	messageID  int
	postFailed bool
	log        zerolog.Logger
}

func NewProgress(sender Sender, chatID int64, messageID int) *Progress {
	return &Progress{
		sender:    sender,
		chatID:    chatID,
		messageID: messageID,
		log:       logging.Logger().With().Int64("chat_id", chatID).Logger(),
	}
}

// Set updates the notice text, creating the message if necessary.
func (p *Progress) Set(text string) {
	if p.messageID != 0 {
		err := p.sender.Edit(p.chatID, p.messageID, text)
		if err == nil {
			return
		}
		p.log.Warn().Err(err).Int("message_id", p.messageID).Msg("status edit failed, posting a new notice")
		p.messageID = 0
	}

	if p.postFailed {
		return
	}
	id, err := p.sender.Notify(p.chatID, text)
	if err != nil {
		p.postFailed = true
		p.log.Warn().Err(err).Msg("status notice post failed, progress updates disabled")
		return
	}
	p.messageID = id
}
