package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("SAVE_DIR", "")
	t.Setenv("ALLOWED_USERS", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "downloads", cfg.SaveDir)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2*time.Second, cfg.CollectDelay)
	assert.Equal(t, 500*time.Millisecond, cfg.DispatchCooldown)
	assert.False(t, cfg.RollingDebounce)
	assert.Empty(t, cfg.AllowedUsers)
}

func TestLoadRequiresToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
	t.Setenv("COLLECT_DELAY", "3.5")
	t.Setenv("DISPATCH_COOLDOWN", "1")
	t.Setenv("ROLLING_DEBOUNCE", "true")
	t.Setenv("ALLOWED_USERS", "alice, 42 ,")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3500*time.Millisecond, cfg.CollectDelay)
	assert.Equal(t, time.Second, cfg.DispatchCooldown)
	assert.True(t, cfg.RollingDebounce)
	assert.Equal(t, []string{"alice", "42"}, cfg.AllowedUsers)
}

func TestIsAllowed(t *testing.T) {
	cfg := &Config{}
	assert.True(t, cfg.IsAllowed("anyone", 1), "empty allow-list admits everyone")

	cfg.AllowedUsers = []string{"alice", "42"}
	assert.True(t, cfg.IsAllowed("alice", 7))
	assert.True(t, cfg.IsAllowed("bob", 42))
	assert.False(t, cfg.IsAllowed("bob", 7))
}

func TestHTTPClientRejectsBadProxy(t *testing.T) {
	cfg := &Config{ProxyURL: "://bad"}
	_, err := cfg.HTTPClient()
	assert.Error(t, err)
}
