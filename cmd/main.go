package main

import (
	"database/sql"
	"path/filepath"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"

	"github.com/iisyw/TeleGrabber/internal/bot"
	"github.com/iisyw/TeleGrabber/internal/config"
	"github.com/iisyw/TeleGrabber/internal/logging"
	"github.com/iisyw/TeleGrabber/internal/pkg/album"
	"github.com/iisyw/TeleGrabber/internal/pkg/album/store"
	"github.com/iisyw/TeleGrabber/internal/pkg/media"
	"github.com/iisyw/TeleGrabber/internal/pkg/metadata"
	"github.com/iisyw/TeleGrabber/internal/pkg/notice"
	"github.com/iisyw/TeleGrabber/internal/pkg/savedir"
)

const (
	maxConnectAttempts = 5
	connectBaseDelay   = 5 * time.Second
	connectMaxDelay    = 60 * time.Second
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Logger().Fatal().Err(err).Msg("invalid configuration")
	}
	logging.SetLevel(cfg.LogLevel)
	log := logging.Logger()

	client, err := cfg.HTTPClient()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid proxy configuration")
	}

	var api *tgbotapi.BotAPI
	delay := connectBaseDelay
	for attempt := 1; attempt <= maxConnectAttempts; attempt++ {
		api, err = tgbotapi.NewBotAPIWithClient(cfg.Token, tgbotapi.APIEndpoint, client)
		if err == nil {
			break
		}
		if attempt == maxConnectAttempts {
			log.Fatal().Err(err).Msg("cannot reach the Telegram API, check network or PROXY_URL")
		}
		log.Error().Err(err).Int("attempt", attempt).Dur("retry_in", delay).
			Msg("connecting to Telegram failed, retrying")
		time.Sleep(delay)
		if delay *= 2; delay > connectMaxDelay {
			delay = connectMaxDelay
		}
	}

	var meta metadata.Writer = metadata.NopWriter{}
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Fatal().Err(err).Msg("cannot open database")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("cannot reach database")
		}
		meta = metadata.NewPostgresWriter(db)
	} else {
		log.Info().Msg("DATABASE_URL not set, media metadata will not be recorded")
	}

	st := store.New(filepath.Join(cfg.SaveDir, "media_groups_collection.json"))
	sender := notice.NewTelegramSender(api)
	fetcher := media.NewTelegramFetcher(api, client)
	resolver := savedir.New(cfg.SaveDir)

	collector := album.New(st, album.Config{
		CollectDelay:    cfg.CollectDelay,
		Cooldown:        cfg.DispatchCooldown,
		RollingDebounce: cfg.RollingDebounce,
	}, sender, fetcher, resolver, meta)

	if pending := collector.Pending(); pending > 0 {
		log.Info().Int("groups", pending).Msg("recovered pending media groups from previous run")
	}

	bot.New(api, cfg, collector, fetcher, resolver, meta).Start()
}
