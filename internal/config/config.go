package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/chiptrainer/prizepicks-ev-finder/internal/models"
	"github.com/chiptrainer/prizepicks-ev-finder/pkg/ev"
)

// Config holds all configuration for prizepicks-ev-finder
type Config struct {
	Server  ServerConfig
	OddsAPI OddsAPIConfig `mapstructure:"odds_api"`
	Scan    ScanConfig
	Slips   SlipsConfig
	Discord DiscordConfig
	Kafka   KafkaConfig
	Redis   RedisConfig
	Logging LoggingConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port         int
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// OddsAPIConfig holds sportsbook odds provider configuration
type OddsAPIConfig struct {
	APIKey            string        `mapstructure:"api_key"`
	BaseURL           string        `mapstructure:"base_url"`
	Regions           string        // e.g., "us"
	Bookmakers        []string      // e.g., ["fanduel"]
	Timeout           time.Duration
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int
}

// ScanConfig holds scan scope and evaluation parameters
type ScanConfig struct {
	Sports          []string          // e.g., ["basketball_nba"]
	Markets         []string          // e.g., ["player_points"]
	Interval        time.Duration     // serve-mode scan period
	EventWindow     time.Duration     `mapstructure:"event_window"`
	SharpBook       string            `mapstructure:"sharp_book"`
	MinEVPercent    float64           `mapstructure:"min_ev_percent"`
	DedupWindow     time.Duration     `mapstructure:"dedup_window"`
	Tolerance       float64           // max |book line - board line|
	MaxEditDistance int               `mapstructure:"max_edit_distance"`
	Aliases         map[string]string // extra short-name -> full-name entries
	PropsFile       string            `mapstructure:"props_file"`
}

// SlipsConfig holds the break-even table override. Empty types fall back to
// the built-in versioned table.
type SlipsConfig struct {
	Version string
	Types   []SlipTypeConfig
}

// SlipTypeConfig is one configured slip variant
type SlipTypeConfig struct {
	Name      string
	BreakEven float64 `mapstructure:"break_even"`
	Category  string  // preferred, normal, discouraged
	Payout    float64
	MinUnits  float64 `mapstructure:"min_units"`
	MaxUnits  float64 `mapstructure:"max_units"`
}

// DiscordConfig holds webhook alert configuration
type DiscordConfig struct {
	WebhookURL string        `mapstructure:"webhook_url"`
	Timeout    time.Duration
	MaxPlays   int           `mapstructure:"max_plays"`
}

// KafkaConfig holds scan result publishing configuration. Publishing is
// disabled when no brokers are configured.
type KafkaConfig struct {
	Brokers []string
	Topic   string
}

// RedisConfig holds alert store configuration
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration `mapstructure:"lock_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
}

// LoadConfig loads configuration from file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("odds_api.api_key", "")
	v.SetDefault("odds_api.base_url", "https://api.the-odds-api.com")
	v.SetDefault("odds_api.regions", "us")
	v.SetDefault("odds_api.bookmakers", []string{"fanduel"})
	v.SetDefault("odds_api.timeout", 30*time.Second)
	v.SetDefault("odds_api.requests_per_second", 5.0)
	v.SetDefault("odds_api.burst", 5)

	v.SetDefault("scan.sports", []string{"basketball_nba"})
	v.SetDefault("scan.markets", []string{
		"player_points", "player_rebounds", "player_assists", "player_threes",
	})
	v.SetDefault("scan.interval", 30*time.Minute)
	v.SetDefault("scan.event_window", 48*time.Hour)
	v.SetDefault("scan.sharp_book", "fanduel")
	v.SetDefault("scan.min_ev_percent", 2.0)
	v.SetDefault("scan.dedup_window", 24*time.Hour)
	v.SetDefault("scan.tolerance", 0.5)
	v.SetDefault("scan.max_edit_distance", 2)
	v.SetDefault("scan.aliases", map[string]string{})
	v.SetDefault("scan.props_file", "")

	v.SetDefault("slips.version", "")
	v.SetDefault("slips.types", []SlipTypeConfig{})

	v.SetDefault("discord.webhook_url", "")
	v.SetDefault("discord.timeout", 10*time.Second)
	v.SetDefault("discord.max_plays", 15)

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "scan_results")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.lock_ttl", 5*time.Minute)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	// Read config file if provided
	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Override with environment variables
	v.SetEnvPrefix("PPEV")
	v.AutomaticEnv()
	// Replace . with _ for environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Provider credentials are conventionally set without the prefix
	_ = v.BindEnv("odds_api.api_key", "PPEV_ODDS_API_API_KEY", "ODDS_API_KEY")
	_ = v.BindEnv("discord.webhook_url", "PPEV_DISCORD_WEBHOOK_URL", "DISCORD_WEBHOOK_URL")

	// Unmarshal to struct
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// ToEngineConfig converts scan and slip settings to engine configuration
func (c *Config) ToEngineConfig() ev.EngineConfig {
	return ev.EngineConfig{
		Matcher: ev.MatcherConfig{
			Tolerance:         c.Scan.Tolerance,
			PriorityBookmaker: c.Scan.SharpBook,
			MaxEditDistance:   c.Scan.MaxEditDistance,
			Aliases:           c.Scan.Aliases,
		},
		Table: c.Slips.ToSlipTable(),
	}
}

// ToFilterConfig converts scan settings to filter configuration
func (c *ScanConfig) ToFilterConfig() ev.FilterConfig {
	return ev.FilterConfig{
		MinEVPercent: c.MinEVPercent,
		DedupWindow:  c.DedupWindow,
	}
}

// ToSlipTable converts configured slip types to the versioned break-even
// table, falling back to the built-in table when none are configured
func (c *SlipsConfig) ToSlipTable() models.SlipTable {
	if len(c.Types) == 0 {
		return models.DefaultSlipTable()
	}

	types := make([]models.SlipType, 0, len(c.Types))
	for _, t := range c.Types {
		types = append(types, models.SlipType{
			Name:      t.Name,
			BreakEven: t.BreakEven,
			Category:  models.SlipCategory(t.Category),
			Payout:    decimal.NewFromFloat(t.Payout),
			MinUnits:  decimal.NewFromFloat(t.MinUnits),
			MaxUnits:  decimal.NewFromFloat(t.MaxUnits),
		})
	}

	version := c.Version
	if version == "" {
		version = "custom"
	}
	return models.SlipTable{Version: version, Types: types}
}
