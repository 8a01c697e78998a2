package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: hotelbot-test
telegram:
  bot_token: "123:abc"
hotel_api:
  base_url: "http://127.0.0.1:8000/api/v1/"
storage:
  path: "data/hotelbot.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:8000/api/v1", cfg.HotelAPI.BaseURL, "trailing slash trimmed")
	assert.Equal(t, 15, cfg.HotelAPI.TimeoutSeconds)
	assert.Equal(t, 6, cfg.Bot.PaginationSize)
	assert.Equal(t, 5, cfg.Bot.BookingsPaginationSize)
	assert.Equal(t, 365, cfg.Bot.MaxAdvanceDays)
	assert.Equal(t, 20, cfg.Bot.RateLimitMessages)
	assert.Equal(t, "exports", cfg.Exports.Path)
}

func TestLoadExpandsEnv(t *testing.T) {
	t.Setenv("TEST_BOT_TOKEN", "777:secret")
	path := writeConfig(t, `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
hotel_api:
  base_url: "http://localhost:8000/api/v1"
storage:
  path: "data/hotelbot.db"
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "777:secret", cfg.Telegram.BotToken)
}

func TestValidateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no token",
			yaml: `
hotel_api:
  base_url: "http://localhost:8000/api/v1"
storage:
  path: "data/db"
`,
		},
		{
			name: "no base url",
			yaml: `
telegram:
  bot_token: "123:abc"
storage:
  path: "data/db"
`,
		},
		{
			name: "no storage path",
			yaml: `
telegram:
  bot_token: "123:abc"
hotel_api:
  base_url: "http://localhost:8000/api/v1"
`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestIsAllowed(t *testing.T) {
	open := TelegramConfig{}
	assert.True(t, open.IsAllowed(42))

	personal := TelegramConfig{AllowedIDs: []int64{1, 2}}
	assert.True(t, personal.IsAllowed(2))
	assert.False(t, personal.IsAllowed(42))
}
