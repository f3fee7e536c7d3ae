package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scorepush")
	t.Setenv("LEAGUES", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.APIPort)
	assert.Equal(t, "https://site.api.espn.com", cfg.FeedBaseURL)
	assert.Equal(t, 60, cfg.FeedRateLimit)
	assert.Equal(t, "$", cfg.CopyPrefix)
	assert.Equal(t, "prev", cfg.StateKey)
	assert.Zero(t, cfg.PollInterval, "worker disabled unless POLL_INTERVAL_SECONDS set")
	assert.Equal(t, DefaultLeagues, cfg.Leagues)
	assert.False(t, cfg.PushConfigured())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scorepush")
	t.Setenv("API_PORT", "9100")
	t.Setenv("POLL_INTERVAL_SECONDS", "45")
	t.Setenv("COPY_PREFIX", "!")
	t.Setenv("VAPID_PUBLIC_KEY", "pub")
	t.Setenv("VAPID_PRIVATE_KEY", "priv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.APIPort)
	assert.Equal(t, "45s", cfg.PollInterval.String())
	assert.Equal(t, "!", cfg.CopyPrefix)
	assert.True(t, cfg.PushConfigured())
}

func TestParseLeagues(t *testing.T) {
	leagues, err := parseLeagues("eng.1:Premier League, ned.1:Eredivisie")
	require.NoError(t, err)
	require.Len(t, leagues, 2)
	assert.Equal(t, League{Key: "eng.1", Name: "Premier League"}, leagues[0])
	assert.Equal(t, League{Key: "ned.1", Name: "Eredivisie"}, leagues[1])
}

func TestParseLeaguesEmptyUsesDefaults(t *testing.T) {
	for _, raw := range []string{"", "   ", ","} {
		leagues, err := parseLeagues(raw)
		require.NoError(t, err)
		assert.Equal(t, DefaultLeagues, leagues)
	}
}

func TestParseLeaguesRejectsMalformedEntries(t *testing.T) {
	for _, raw := range []string{"eng.1", "eng.1:", ":Premier League"} {
		_, err := parseLeagues(raw)
		assert.Error(t, err, "input %q", raw)
	}
}
