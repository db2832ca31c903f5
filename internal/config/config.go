package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all environment-driven settings. Values come from the
// process environment, usually populated from a .env file.
type Config struct {
	Token       string
	SaveDir     string
	ProxyURL    string
	Timeout     time.Duration
	DatabaseURL string
	LogLevel    string

	// AllowedUsers is a list of usernames or numeric user IDs. Empty
	// means no restriction.
	AllowedUsers []string

	CollectDelay     time.Duration
	DispatchCooldown time.Duration
	RollingDebounce  bool
}

func Load() (*Config, error) {
	token := os.Getenv("TELEGRAM_BOT_TOKEN")
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is not set")
	}

	cfg := &Config{
		Token:            token,
		SaveDir:          getenv("SAVE_DIR", "downloads"),
		ProxyURL:         os.Getenv("PROXY_URL"),
		Timeout:          secondsEnv("CONNECTION_TIMEOUT", 30*time.Second),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		LogLevel:         getenv("LOG_LEVEL", "info"),
		CollectDelay:     secondsEnv("COLLECT_DELAY", 2*time.Second),
		DispatchCooldown: secondsEnv("DISPATCH_COOLDOWN", 500*time.Millisecond),
		RollingDebounce:  boolEnv("ROLLING_DEBOUNCE"),
	}

	for _, u := range strings.Split(os.Getenv("ALLOWED_USERS"), ",") {
		if u = strings.TrimSpace(u); u != "" {
			cfg.AllowedUsers = append(cfg.AllowedUsers, u)
		}
	}

	return cfg, nil
}

// IsAllowed reports whether a user may use the bot. With an empty
// allow-list every user is accepted.
func (c *Config) IsAllowed(userName string, userID int64) bool {
	if len(c.AllowedUsers) == 0 {
		return true
	}
	id := strconv.FormatInt(userID, 10)
	for _, u := range c.AllowedUsers {
		if u == userName || u == id {
			return true
		}
	}
	return false
}

// HTTPClient builds the client used for Telegram API calls and file
// downloads, honoring PROXY_URL and CONNECTION_TIMEOUT.
func (c *Config) HTTPClient() (*http.Client, error) {
	client := &http.Client{Timeout: c.Timeout}
	if c.ProxyURL != "" {
		proxy, err := url.Parse(c.ProxyURL)
		if err != nil {
			return nil, fmt.Errorf("parse PROXY_URL: %w", err)
		}
		client.Transport = &http.Transport{Proxy: http.ProxyURL(proxy)}
	}
	return client, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func secondsEnv(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	secs, err := strconv.ParseFloat(v, 64)
	if err != nil || secs <= 0 {
		return fallback
	}
	return time.Duration(secs * float64(time.Second))
}

func boolEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
