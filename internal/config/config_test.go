package config

import (
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
)

// TestLoadConfig_Defaults tests loading configuration with default values
func TestLoadConfig_Defaults(t *testing.T) {
	// Load config without a file (should use defaults)
	config, err := LoadConfig("")

	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify server defaults
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, 30*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, config.Server.WriteTimeout)

	// Verify odds API defaults
	assert.Equal(t, "", config.OddsAPI.APIKey)
	assert.Equal(t, "https://api.the-odds-api.com", config.OddsAPI.BaseURL)
	assert.Equal(t, "us", config.OddsAPI.Regions)
	assert.Equal(t, []string{"fanduel"}, config.OddsAPI.Bookmakers)
	assert.Equal(t, 30*time.Second, config.OddsAPI.Timeout)
	assert.Equal(t, 5.0, config.OddsAPI.RequestsPerSecond)
	assert.Equal(t, 5, config.OddsAPI.Burst)

	// Verify scan defaults
	assert.Equal(t, []string{"basketball_nba"}, config.Scan.Sports)
	assert.Contains(t, config.Scan.Markets, "player_points")
	assert.Equal(t, 30*time.Minute, config.Scan.Interval)
	assert.Equal(t, 48*time.Hour, config.Scan.EventWindow)
	assert.Equal(t, "fanduel", config.Scan.SharpBook)
	assert.Equal(t, 2.0, config.Scan.MinEVPercent)
	assert.Equal(t, 24*time.Hour, config.Scan.DedupWindow)
	assert.Equal(t, 0.5, config.Scan.Tolerance)
	assert.Equal(t, 2, config.Scan.MaxEditDistance)

	// Verify slip table defaults to the built-in table
	assert.Empty(t, config.Slips.Types)
	assert.Equal(t, "2025.1", config.Slips.ToSlipTable().Version)

	// Verify Discord defaults
	assert.Equal(t, "", config.Discord.WebhookURL)
	assert.Equal(t, 10*time.Second, config.Discord.Timeout)
	assert.Equal(t, 15, config.Discord.MaxPlays)

	// Verify Kafka defaults
	assert.Empty(t, config.Kafka.Brokers)
	assert.Equal(t, "scan_results", config.Kafka.Topic)

	// Verify Redis defaults
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
	assert.Equal(t, "", config.Redis.Password)
	assert.Equal(t, 0, config.Redis.DB)
	assert.Equal(t, 5*time.Minute, config.Redis.LockTTL)

	// Verify logging defaults
	assert.Equal(t, "info", config.Logging.Level)
	assert.Equal(t, "json", config.Logging.Format)
}

// TestLoadConfig_WithFile tests loading configuration from file
func TestLoadConfig_WithFile(t *testing.T) {
	// Create temporary config file
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	configContent := `
server:
  port: 9090
  read_timeout: 45s
  write_timeout: 45s

odds_api:
  api_key: file-key
  regions: us,uk
  bookmakers:
    - fanduel
    - draftkings
  requests_per_second: 2

scan:
  sports:
    - basketball_nba
    - americanfootball_nfl
  interval: 15m
  event_window: 24h
  sharp_book: draftkings
  min_ev_percent: 5.0
  dedup_window: 12h
  tolerance: 1.0

slips:
  version: "2026.test"
  types:
    - name: "2 Power"
      break_even: 0.51
      category: normal
      payout: 2.0
      min_units: 0.25
      max_units: 0.5

discord:
  webhook_url: https://discord.com/api/webhooks/123/abc
  max_plays: 10

kafka:
  brokers:
    - broker1:9092
    - broker2:9092
  topic: test_scans

redis:
  addr: redis:6379
  password: test_password
  db: 1
  lock_ttl: 10m

logging:
  level: debug
  format: console
`

	_, err = tmpFile.WriteString(configContent)
	require.NoError(t, err)
	tmpFile.Close()

	// Load config from file
	config, err := LoadConfig(tmpFile.Name())

	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify server config
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, 45*time.Second, config.Server.ReadTimeout)
	assert.Equal(t, 45*time.Second, config.Server.WriteTimeout)

	// Verify odds API config
	assert.Equal(t, "file-key", config.OddsAPI.APIKey)
	assert.Equal(t, "us,uk", config.OddsAPI.Regions)
	assert.Equal(t, []string{"fanduel", "draftkings"}, config.OddsAPI.Bookmakers)
	assert.Equal(t, 2.0, config.OddsAPI.RequestsPerSecond)

	// Verify scan config
	assert.Equal(t, []string{"basketball_nba", "americanfootball_nfl"}, config.Scan.Sports)
	assert.Equal(t, 15*time.Minute, config.Scan.Interval)
	assert.Equal(t, 24*time.Hour, config.Scan.EventWindow)
	assert.Equal(t, "draftkings", config.Scan.SharpBook)
	assert.Equal(t, 5.0, config.Scan.MinEVPercent)
	assert.Equal(t, 12*time.Hour, config.Scan.DedupWindow)
	assert.Equal(t, 1.0, config.Scan.Tolerance)

	// Verify slips config
	require.Len(t, config.Slips.Types, 1)
	assert.Equal(t, "2 Power", config.Slips.Types[0].Name)
	assert.Equal(t, 0.51, config.Slips.Types[0].BreakEven)

	// Verify Discord config
	assert.Equal(t, "https://discord.com/api/webhooks/123/abc", config.Discord.WebhookURL)
	assert.Equal(t, 10, config.Discord.MaxPlays)

	// Verify Kafka config
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, config.Kafka.Brokers)
	assert.Equal(t, "test_scans", config.Kafka.Topic)

	// Verify Redis config
	assert.Equal(t, "redis:6379", config.Redis.Addr)
	assert.Equal(t, "test_password", config.Redis.Password)
	assert.Equal(t, 1, config.Redis.DB)
	assert.Equal(t, 10*time.Minute, config.Redis.LockTTL)

	// Verify logging config
	assert.Equal(t, "debug", config.Logging.Level)
	assert.Equal(t, "console", config.Logging.Format)
}

// TestLoadConfig_InvalidFile tests loading with non-existent file
func TestLoadConfig_InvalidFile(t *testing.T) {
	config, err := LoadConfig("/nonexistent/config.yaml")

	assert.Error(t, err)
	assert.Nil(t, config)
}

// TestLoadConfig_MalformedFile tests loading with values of the wrong type
func TestLoadConfig_MalformedFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	malformedContent := `
server:
  port: not_a_port
  read_timeout: not_a_duration
`

	_, err = tmpFile.WriteString(malformedContent)
	require.NoError(t, err)
	tmpFile.Close()

	config, err := LoadConfig(tmpFile.Name())

	// Should error on unmarshal
	assert.Error(t, err)
	assert.Nil(t, config)
}

// TestLoadConfig_PartialFile tests loading with partial configuration
func TestLoadConfig_PartialFile(t *testing.T) {
	tmpFile, err := os.CreateTemp("", "config-*.yaml")
	require.NoError(t, err)
	defer os.Remove(tmpFile.Name())

	partialContent := `
scan:
  min_ev_percent: 8.0

discord:
  webhook_url: https://discord.com/api/webhooks/456/def

# Other configs will use defaults
`

	_, err = tmpFile.WriteString(partialContent)
	require.NoError(t, err)
	tmpFile.Close()

	config, err := LoadConfig(tmpFile.Name())

	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify overridden values
	assert.Equal(t, 8.0, config.Scan.MinEVPercent)
	assert.Equal(t, "https://discord.com/api/webhooks/456/def", config.Discord.WebhookURL)

	// Verify defaults are still used for non-specified values
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "fanduel", config.Scan.SharpBook)
	assert.Equal(t, 24*time.Hour, config.Scan.DedupWindow)
	assert.Equal(t, "localhost:6379", config.Redis.Addr)
}

// TestLoadConfig_EnvironmentVariables tests environment variable overrides
func TestLoadConfig_EnvironmentVariables(t *testing.T) {
	// Set environment variables
	os.Setenv("PPEV_SERVER_PORT", "7777")
	os.Setenv("PPEV_REDIS_ADDR", "env-redis:6379")
	os.Setenv("PPEV_SCAN_SHARP_BOOK", "draftkings")
	defer func() {
		os.Unsetenv("PPEV_SERVER_PORT")
		os.Unsetenv("PPEV_REDIS_ADDR")
		os.Unsetenv("PPEV_SCAN_SHARP_BOOK")
	}()

	// Load config (env vars should override defaults)
	config, err := LoadConfig("")

	require.NoError(t, err)
	require.NotNil(t, config)

	// Verify environment variables were used
	assert.Equal(t, 7777, config.Server.Port)
	assert.Equal(t, "env-redis:6379", config.Redis.Addr)
	assert.Equal(t, "draftkings", config.Scan.SharpBook)
}

// TestLoadConfig_UnprefixedCredentials tests the conventional unprefixed
// credential variables
func TestLoadConfig_UnprefixedCredentials(t *testing.T) {
	os.Setenv("ODDS_API_KEY", "bare-key-123")
	os.Setenv("DISCORD_WEBHOOK_URL", "https://discord.com/api/webhooks/789/ghi")
	defer func() {
		os.Unsetenv("ODDS_API_KEY")
		os.Unsetenv("DISCORD_WEBHOOK_URL")
	}()

	config, err := LoadConfig("")

	require.NoError(t, err)
	assert.Equal(t, "bare-key-123", config.OddsAPI.APIKey)
	assert.Equal(t, "https://discord.com/api/webhooks/789/ghi", config.Discord.WebhookURL)
}

// TestToSlipTable_Default tests fallback to the built-in break-even table
func TestToSlipTable_Default(t *testing.T) {
	slipsConfig := SlipsConfig{}

	table := slipsConfig.ToSlipTable()

	assert.Equal(t, models.DefaultSlipTable().Version, table.Version)
	assert.Len(t, table.Types, 7)
}

// TestToSlipTable_Custom tests conversion of configured slip types
func TestToSlipTable_Custom(t *testing.T) {
	slipsConfig := SlipsConfig{
		Version: "2026.test",
		Types: []SlipTypeConfig{
			{
				Name:      "2 Power",
				BreakEven: 0.51,
				Category:  "normal",
				Payout:    2.0,
				MinUnits:  0.25,
				MaxUnits:  0.5,
			},
			{
				Name:      "5 Flex",
				BreakEven: 0.5434,
				Category:  "preferred",
				Payout:    5.0,
				MinUnits:  0.25,
				MaxUnits:  0.5,
			},
		},
	}

	table := slipsConfig.ToSlipTable()

	assert.Equal(t, "2026.test", table.Version)
	require.Len(t, table.Types, 2)
	assert.Equal(t, "2 Power", table.Types[0].Name)
	assert.Equal(t, 0.51, table.Types[0].BreakEven)
	assert.Equal(t, models.CategoryNormal, table.Types[0].Category)
	assert.True(t, decimal.NewFromFloat(2.0).Equal(table.Types[0].Payout))
	assert.Equal(t, models.CategoryPreferred, table.Types[1].Category)
	assert.True(t, decimal.NewFromFloat(0.25).Equal(table.Types[1].MinUnits))
}

// TestToSlipTable_UnversionedCustom tests the version fallback for custom
// tables
func TestToSlipTable_UnversionedCustom(t *testing.T) {
	slipsConfig := SlipsConfig{
		Types: []SlipTypeConfig{
			{Name: "2 Power", BreakEven: 0.5774, Category: "normal", Payout: 2.0},
		},
	}

	table := slipsConfig.ToSlipTable()

	assert.Equal(t, "custom", table.Version)
}

// TestToEngineConfig tests conversion to engine configuration
func TestToEngineConfig(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)

	config.Scan.Tolerance = 1.0
	config.Scan.SharpBook = "draftkings"
	config.Scan.MaxEditDistance = 3
	config.Scan.Aliases = map[string]string{"Herb Jones": "Herbert Jones"}

	engineConfig := config.ToEngineConfig()

	assert.Equal(t, 1.0, engineConfig.Matcher.Tolerance)
	assert.Equal(t, "draftkings", engineConfig.Matcher.PriorityBookmaker)
	assert.Equal(t, 3, engineConfig.Matcher.MaxEditDistance)
	assert.Equal(t, "Herbert Jones", engineConfig.Matcher.Aliases["Herb Jones"])
	assert.Equal(t, "2025.1", engineConfig.Table.Version)
}

// TestToFilterConfig tests conversion to filter configuration
func TestToFilterConfig(t *testing.T) {
	scanConfig := ScanConfig{
		MinEVPercent: 5.0,
		DedupWindow:  12 * time.Hour,
	}

	filterConfig := scanConfig.ToFilterConfig()

	assert.Equal(t, 5.0, filterConfig.MinEVPercent)
	assert.Equal(t, 12*time.Hour, filterConfig.DedupWindow)
}

// TestScanConfig tests scan configuration shapes
func TestScanConfig(t *testing.T) {
	tests := []struct {
		name   string
		config ScanConfig
	}{
		{
			name: "NBA points only",
			config: ScanConfig{
				Sports:       []string{"basketball_nba"},
				Markets:      []string{"player_points"},
				Interval:     30 * time.Minute,
				EventWindow:  48 * time.Hour,
				SharpBook:    "fanduel",
				MinEVPercent: 2.0,
				DedupWindow:  24 * time.Hour,
			},
		},
		{
			name: "Multi-sport aggressive cutoff",
			config: ScanConfig{
				Sports:       []string{"basketball_nba", "americanfootball_nfl", "icehockey_nhl"},
				Markets:      []string{"player_points", "player_rebounds"},
				Interval:     10 * time.Minute,
				EventWindow:  24 * time.Hour,
				SharpBook:    "draftkings",
				MinEVPercent: 8.0,
				DedupWindow:  6 * time.Hour,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.config.Sports)
			assert.NotEmpty(t, tt.config.Markets)
			assert.NotEmpty(t, tt.config.SharpBook)
			assert.Greater(t, tt.config.Interval, time.Duration(0))
			assert.Greater(t, tt.config.EventWindow, time.Duration(0))
			assert.Greater(t, tt.config.MinEVPercent, 0.0)
			assert.Greater(t, tt.config.DedupWindow, time.Duration(0))
		})
	}
}

// TestRedisConfig tests Redis configuration shapes
func TestRedisConfig(t *testing.T) {
	tests := []struct {
		name   string
		config RedisConfig
	}{
		{
			name: "Local Redis",
			config: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
				LockTTL:  5 * time.Minute,
			},
		},
		{
			name: "Authenticated Redis",
			config: RedisConfig{
				Addr:     "redis.example.com:6379",
				Password: "secret",
				DB:       1,
				LockTTL:  10 * time.Minute,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.config.Addr)
			assert.GreaterOrEqual(t, tt.config.DB, 0)
			assert.Greater(t, tt.config.LockTTL, time.Duration(0))
		})
	}
}

// TestLoggingConfig tests logging configuration shapes
func TestLoggingConfig(t *testing.T) {
	tests := []struct {
		name   string
		config LoggingConfig
	}{
		{
			name: "JSON production logging",
			config: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
		},
		{
			name: "Console development logging",
			config: LoggingConfig{
				Level:  "debug",
				Format: "console",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validLevels := []string{"debug", "info", "warn", "error"}
			assert.Contains(t, validLevels, tt.config.Level)

			validFormats := []string{"json", "console"}
			assert.Contains(t, validFormats, tt.config.Format)
		})
	}
}

// TestConfig_AllFields tests that all config fields are properly set
func TestConfig_AllFields(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	require.NotNil(t, config)

	// Server
	assert.NotZero(t, config.Server.Port)
	assert.NotZero(t, config.Server.ReadTimeout)
	assert.NotZero(t, config.Server.WriteTimeout)

	// Odds API
	assert.NotEmpty(t, config.OddsAPI.BaseURL)
	assert.NotEmpty(t, config.OddsAPI.Regions)
	assert.NotEmpty(t, config.OddsAPI.Bookmakers)
	assert.NotZero(t, config.OddsAPI.Timeout)

	// Scan
	assert.NotEmpty(t, config.Scan.Sports)
	assert.NotEmpty(t, config.Scan.Markets)
	assert.NotZero(t, config.Scan.Interval)
	assert.NotZero(t, config.Scan.EventWindow)
	assert.NotEmpty(t, config.Scan.SharpBook)
	assert.NotZero(t, config.Scan.MinEVPercent)
	assert.NotZero(t, config.Scan.DedupWindow)

	// Discord
	assert.NotZero(t, config.Discord.Timeout)
	assert.NotZero(t, config.Discord.MaxPlays)

	// Kafka
	assert.NotEmpty(t, config.Kafka.Topic)

	// Redis
	assert.NotEmpty(t, config.Redis.Addr)
	assert.GreaterOrEqual(t, config.Redis.DB, 0)
	assert.NotZero(t, config.Redis.LockTTL)

	// Logging
	assert.NotEmpty(t, config.Logging.Level)
	assert.NotEmpty(t, config.Logging.Format)
}
