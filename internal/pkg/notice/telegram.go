package notice

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers notices through the bot API.
type TelegramSender struct {
	api *tgbotapi.BotAPI
}

func NewTelegramSender(api *tgbotapi.BotAPI) *TelegramSender {
	return &TelegramSender{api: api}
}

func (s *TelegramSender) Notify(chatID int64, text string) (int, error) {
	msg, err := s.api.Send(tgbotapi.NewMessage(chatID, text))
	if err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

func (s *TelegramSender) Edit(chatID int64, messageID int, text string) error {
	_, err := s.api.Send(tgbotapi.NewEditMessageText(chatID, messageID, text))
	return err
}
