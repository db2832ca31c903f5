package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"github.com/iisyw/TeleGrabber/internal/config"
	"github.com/iisyw/TeleGrabber/internal/logging"
	"github.com/iisyw/TeleGrabber/internal/pkg/album"
	"github.com/iisyw/TeleGrabber/internal/pkg/metadata"
	"github.com/iisyw/TeleGrabber/internal/pkg/savedir"
)

type Bot struct {
	Api       *tgbotapi.BotAPI
	cfg       *config.Config
	collector *album.Collector
	fetcher   album.Fetcher
	resolver  *savedir.Resolver
	meta      metadata.Writer
	log       zerolog.Logger
}

func New(api *tgbotapi.BotAPI, cfg *config.Config, collector *album.Collector, fetcher album.Fetcher, resolver *savedir.Resolver, meta metadata.Writer) *Bot {
	return &Bot{
		Api:       api,
		cfg:       cfg,
		collector: collector,
		fetcher:   fetcher,
		resolver:  resolver,
		meta:      meta,
		log:       logging.Logger().With().Str("component", "bot").Logger(),
	}
}

func (b *Bot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.Api.GetUpdatesChan(u)

	b.log.Info().Str("account", b.Api.Self.UserName).Msg("bot started, listening for updates")

	for update := range updates {
		if update.Message == nil {
			continue
		}
		go b.handleMessage(update.Message)
	}
}

func (b *Bot) handleMessage(msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}
	if !b.cfg.IsAllowed(msg.From.UserName, msg.From.ID) {
		b.log.Debug().Int64("user_id", msg.From.ID).Msg("ignoring message from non-allowed user")
		return
	}

	if msg.IsCommand() {
		b.handleCommand(msg)
		return
	}
	b.handleMediaMessage(msg)
}

func (b *Bot) reply(msg *tgbotapi.Message, text string) {
	reply := tgbotapi.NewMessage(msg.Chat.ID, text)
	reply.ReplyToMessageID = msg.MessageID
	if _, err := b.Api.Send(reply); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("sending reply failed")
	}
}
