package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Discord       DiscordConfig       `yaml:"discord"`
	HTTP          HTTPConfig          `yaml:"http"`
	JWT           JWTConfig           `yaml:"jwt"`
	OAuth         OAuthConfig         `yaml:"oauth"`
	Leveling      LevelingConfig      `yaml:"leveling"`
	ReactionRoles ReactionRolesConfig `yaml:"reaction_roles"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL selects the in-process
// bus, which suits local runs and tests.
type NATSConfig struct {
	URL          string `yaml:"url"`
	StreamPrefix string `yaml:"stream_prefix"`
	ConsumerName string `yaml:"consumer_name"`
	// NKeySeed enables nkey authentication.
	NKeySeed string `yaml:"nkey_seed"`
}

// DiscordConfig holds Discord configuration.
type DiscordConfig struct {
	Token             string  `yaml:"token"`
	AppID             string  `yaml:"app_id"`
	GuildID           string  `yaml:"guild_id"`
	RegisterCommands  bool    `yaml:"register_commands"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// HTTPConfig holds the dashboard API server settings.
type HTTPConfig struct {
	Addr           string          `yaml:"addr"`
	AllowedOrigins []string        `yaml:"allowed_origins"`
	AuthRateLimit  RateLimitConfig `yaml:"auth_rate_limit"`
	APIRateLimit   RateLimitConfig `yaml:"api_rate_limit"`
}

// RateLimitConfig is a per-client token bucket.
type RateLimitConfig struct {
	PerSecond float64 `yaml:"per_second"`
	Burst     int     `yaml:"burst"`
}

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	Secret     string        `yaml:"secret"`
	DefaultTTL time.Duration `yaml:"default_ttl"`
}

// OAuthConfig holds the Discord OAuth2 application used for dashboard login.
type OAuthConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RedirectURL  string `yaml:"redirect_url"`
	// DashboardURL is where the browser lands after login.
	DashboardURL string `yaml:"dashboard_url"`
}

// LevelingConfig tunes XP awards.
type LevelingConfig struct {
	Cooldown time.Duration `yaml:"cooldown"`
	MinAward int           `yaml:"min_award"`
	MaxAward int           `yaml:"max_award"`
}

// ReactionRolesConfig tunes the interactive setup.
type ReactionRolesConfig struct {
	ReplyTimeout time.Duration `yaml:"reply_timeout"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	ServiceName    string `yaml:"service_name"`
	Version        string `yaml:"version"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

// applyEnv overrides file values with environment variables that are set.
func applyEnv(cfg *Config) error {
	str := map[string]*string{
		"DATABASE_URL":        &cfg.Postgres.DSN,
		"NATS_URL":            &cfg.NATS.URL,
		"NATS_STREAM_PREFIX":  &cfg.NATS.StreamPrefix,
		"NATS_CONSUMER_NAME":  &cfg.NATS.ConsumerName,
		"NATS_NKEY_SEED":      &cfg.NATS.NKeySeed,
		"DISCORD_TOKEN":       &cfg.Discord.Token,
		"DISCORD_APP_ID":      &cfg.Discord.AppID,
		"DISCORD_GUILD_ID":    &cfg.Discord.GuildID,
		"HTTP_ADDR":           &cfg.HTTP.Addr,
		"JWT_SECRET":          &cfg.JWT.Secret,
		"OAUTH_CLIENT_ID":     &cfg.OAuth.ClientID,
		"OAUTH_CLIENT_SECRET": &cfg.OAuth.ClientSecret,
		"OAUTH_REDIRECT_URL":  &cfg.OAuth.RedirectURL,
		"DASHBOARD_URL":       &cfg.OAuth.DashboardURL,
		"LOG_LEVEL":           &cfg.Observability.LogLevel,
		"LOG_FORMAT":          &cfg.Observability.LogFormat,
		"METRICS_ADDRESS":     &cfg.Observability.MetricsAddress,
		"ENV":                 &cfg.Observability.Environment,
		"SERVICE_VERSION":     &cfg.Observability.Version,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("DISCORD_REGISTER_COMMANDS"); v != "" {
		cfg.Discord.RegisterCommands = v == "true"
	}
	floats := map[string]*float64{
		"DISCORD_REQUESTS_PER_SECOND": &cfg.Discord.RequestsPerSecond,
		"HTTP_AUTH_RATE_LIMIT":        &cfg.HTTP.AuthRateLimit.PerSecond,
		"HTTP_API_RATE_LIMIT":         &cfg.HTTP.APIRateLimit.PerSecond,
	}
	for key, dst := range floats {
		if v := os.Getenv(key); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return fmt.Errorf("invalid %s value: %v", key, err)
			}
			*dst = f
		}
	}

	durations := map[string]*time.Duration{
		"JWT_DEFAULT_TTL":              &cfg.JWT.DefaultTTL,
		"LEVELING_COOLDOWN":            &cfg.Leveling.Cooldown,
		"REACTION_ROLES_REPLY_TIMEOUT": &cfg.ReactionRoles.ReplyTimeout,
	}
	for key, dst := range durations {
		if v := os.Getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("invalid %s value: %v", key, err)
			}
			*dst = d
		}
	}

	ints := map[string]*int{
		"LEVELING_MIN_AWARD": &cfg.Leveling.MinAward,
		"LEVELING_MAX_AWARD": &cfg.Leveling.MaxAward,
		"DISCORD_BURST":      &cfg.Discord.Burst,
		"HTTP_AUTH_BURST":    &cfg.HTTP.AuthRateLimit.Burst,
		"HTTP_API_BURST":     &cfg.HTTP.APIRateLimit.Burst,
	}
	for key, dst := range ints {
		if v := os.Getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s value: %v", key, err)
			}
			*dst = n
		}
	}
	return nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if cfg.Discord.Token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN environment variable not set")
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NATS.StreamPrefix == "" {
		c.NATS.StreamPrefix = "SENSHI"
	}
	if c.NATS.ConsumerName == "" {
		c.NATS.ConsumerName = "senshi-bot"
	}
	if c.HTTP.Addr == "" {
		c.HTTP.Addr = ":8080"
	}
	if c.HTTP.AuthRateLimit.PerSecond == 0 {
		c.HTTP.AuthRateLimit.PerSecond = 1
	}
	if c.HTTP.AuthRateLimit.Burst == 0 {
		c.HTTP.AuthRateLimit.Burst = 5
	}
	if c.HTTP.APIRateLimit.PerSecond == 0 {
		c.HTTP.APIRateLimit.PerSecond = 5
	}
	if c.HTTP.APIRateLimit.Burst == 0 {
		c.HTTP.APIRateLimit.Burst = 20
	}
	if c.JWT.DefaultTTL == 0 {
		c.JWT.DefaultTTL = 24 * time.Hour
	}
	if c.Leveling.Cooldown == 0 {
		c.Leveling.Cooldown = time.Minute
	}
	if c.Leveling.MinAward == 0 {
		c.Leveling.MinAward = 5
	}
	if c.Leveling.MaxAward == 0 {
		c.Leveling.MaxAward = 9
	}
	if c.ReactionRoles.ReplyTimeout == 0 {
		c.ReactionRoles.ReplyTimeout = 60 * time.Second
	}
	if c.Observability.LogLevel == "" {
		c.Observability.LogLevel = "info"
	}
	if c.Observability.LogFormat == "" {
		c.Observability.LogFormat = "json"
	}
	if c.Observability.ServiceName == "" {
		c.Observability.ServiceName = "senshi-bot"
	}
	if c.Observability.Environment == "" {
		c.Observability.Environment = "development"
	}
}

// Validate reports settings that would prevent a start.
func (c *Config) Validate() error {
	var missing []string
	if c.Postgres.DSN == "" {
		missing = append(missing, "postgres.dsn")
	}
	if c.Discord.Token == "" {
		missing = append(missing, "discord.token")
	}
	if c.Leveling.MinAward > c.Leveling.MaxAward {
		return fmt.Errorf("leveling.min_award %d exceeds max_award %d", c.Leveling.MinAward, c.Leveling.MaxAward)
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required config: %s", strings.Join(missing, ", "))
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
