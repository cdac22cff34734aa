package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WEBEX_ACCESS_TOKEN", "")
	t.Setenv("WEBEX_MEETING_DESTINATION", "")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "https://webexapis.com/v1", cfg.APIBaseURL)
	assert.Equal(t, "Test Room", cfg.RoomTitle)
	assert.Equal(t, 10*time.Second, cfg.UITimeout)
	assert.Equal(t, 30*time.Second, cfg.NavTimeout)
	assert.Equal(t, 2*time.Minute, cfg.SetupTimeout)
	assert.Equal(t, 5.0, cfg.RequestsPerSecond)
	assert.True(t, cfg.Headless)
	assert.True(t, cfg.NeedsUser())
	assert.True(t, cfg.NeedsRoom())
	assert.True(t, cfg.UsesLocalSamples())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WEBEX_ACCESS_TOKEN", "token-123")
	t.Setenv("WEBEX_MEETING_DESTINATION", "room-456")
	t.Setenv("WIDGET_SAMPLES_URL", "http://localhost:9000")
	t.Setenv("E2E_UI_TIMEOUT", "3s")

	cfg, err := LoadFile("")
	require.NoError(t, err)

	assert.Equal(t, "token-123", cfg.AccessToken)
	assert.Equal(t, "room-456", cfg.MeetingDestination)
	assert.Equal(t, 3*time.Second, cfg.UITimeout)
	assert.False(t, cfg.NeedsUser())
	assert.False(t, cfg.NeedsRoom())
	assert.False(t, cfg.UsesLocalSamples())
}

func TestLoadDotenvDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "WEBEX_ROOM_TITLE=From File\nWEBEX_ACCESS_TOKEN=file-token\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("WEBEX_ACCESS_TOKEN", "env-token")
	// godotenv sets variables that are unset; make sure the test leaves no trace.
	t.Setenv("WEBEX_ROOM_TITLE", "")
	require.NoError(t, os.Unsetenv("WEBEX_ROOM_TITLE"))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-token", cfg.AccessToken)
	assert.Equal(t, "From File", cfg.RoomTitle)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Setenv("WIDGET_SAMPLES_URL", "not a url")

	_, err := LoadFile("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SamplesURL")
}

func TestLoadRejectsUnknownLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")

	_, err := LoadFile("")
	require.Error(t, err)
}

func TestWithLocalPlatform(t *testing.T) {
	cfg := Config{ClientID: "mine"}.WithLocalPlatform("http://127.0.0.1:4000")

	assert.Equal(t, "http://127.0.0.1:4000/v1", cfg.APIBaseURL)
	assert.Equal(t, "http://127.0.0.1:4000/v1", cfg.TestUsersURL)
	assert.Equal(t, "http://127.0.0.1:4000/v1/access_token", cfg.TokenURL)
	assert.Equal(t, "mine", cfg.ClientID)
	assert.Equal(t, "local-secret", cfg.ClientSecret)
}
