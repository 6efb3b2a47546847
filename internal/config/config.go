package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nationbuilder/nationbuilder/internal/utils"
)

type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Database    DatabaseConfig    `yaml:"database"`
	Auth        AuthConfig        `yaml:"auth"`
	Redis       RedisConfig       `yaml:"redis"`
	Kafka       KafkaConfig       `yaml:"kafka"`
	Leaderboard LeaderboardConfig `yaml:"leaderboard"`
	Nations     NationsConfig     `yaml:"nations"`
	Log         LogConfig         `yaml:"log"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins"`
	Commit          string        `yaml:"-"`
	BuildTime       string        `yaml:"-"`
}

type DatabaseConfig struct {
	// Driver is one of sqlite3 (cgo), sqlite (pure Go), postgres or memory.
	Driver          string        `yaml:"driver"`
	DSN             string        `yaml:"dsn"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

// RedisConfig enables the leaderboard cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// KafkaConfig enables lifecycle events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type LeaderboardConfig struct {
	// CacheTTL of zero disables caching even when Redis is configured.
	CacheTTL        time.Duration `yaml:"cache_ttl"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	BreakerFailures int           `yaml:"breaker_failures"`
}

type NationsConfig struct {
	TempTTL       time.Duration `yaml:"temp_ttl"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
	// TrustedProxies lists CIDRs or IPs whose X-Forwarded-For is believed.
	TrustedProxies []string `yaml:"trusted_proxies"`
}

// Default returns the zero-config settings: local SQLite, no cache, no broker.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"*"},
		},
		Database: DatabaseConfig{
			Driver:          "sqlite3",
			DSN:             "file:nationbuilder.db?_foreign_keys=on",
			MaxOpenConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
		},
		Auth:        AuthConfig{TokenTTL: 30 * 24 * time.Hour},
		Kafka:       KafkaConfig{Topic: "nation-events"},
		Leaderboard: LeaderboardConfig{FetchTimeout: 5 * time.Second, BreakerFailures: 3},
		Nations:     NationsConfig{TempTTL: 24 * time.Hour, PurgeInterval: time.Hour},
		Log:         LogConfig{Level: "info", Format: "console"},
		RateLimit:   RateLimitConfig{RPS: 5, Burst: 20},
	}
}

// Load reads path (when non-empty) over the defaults and then applies NB_*
// environment overrides.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(c *Config) {
	c.Server.Addr = utils.SafeEnv("NB_ADDR", c.Server.Addr)
	if origins := utils.EnvList("NB_CORS_ORIGINS"); origins != nil {
		c.Server.CORSOrigins = origins
	}
	c.Server.Commit = utils.SafeEnv("NB_COMMIT", c.Server.Commit)
	c.Server.BuildTime = utils.SafeEnv("NB_BUILD_TIME", c.Server.BuildTime)

	c.Database.Driver = utils.SafeEnv("NB_DB_DRIVER", c.Database.Driver)
	c.Database.DSN = utils.SafeEnv("NB_DB_DSN", c.Database.DSN)

	c.Auth.JWTSecret = utils.SafeEnv("NB_JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = utils.EnvDuration("NB_TOKEN_TTL", c.Auth.TokenTTL)

	c.Redis.Addr = utils.SafeEnv("NB_REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = utils.SafeEnv("NB_REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = utils.EnvInt("NB_REDIS_DB", c.Redis.DB)

	if brokers := utils.EnvList("NB_KAFKA_BROKERS"); brokers != nil {
		c.Kafka.Brokers = brokers
	}
	c.Kafka.Topic = utils.SafeEnv("NB_KAFKA_TOPIC", c.Kafka.Topic)

	c.Leaderboard.CacheTTL = utils.EnvDuration("NB_LEADERBOARD_CACHE_TTL", c.Leaderboard.CacheTTL)
	c.Nations.TempTTL = utils.EnvDuration("NB_TEMP_TTL", c.Nations.TempTTL)

	if proxies := utils.EnvList("NB_TRUSTED_PROXIES"); proxies != nil {
		c.RateLimit.TrustedProxies = proxies
	}

	c.Log.Level = utils.SafeEnv("NB_LOG_LEVEL", c.Log.Level)
	c.Log.Format = utils.SafeEnv("NB_LOG_FORMAT", c.Log.Format)
}

var knownDrivers = map[string]bool{"sqlite3": true, "sqlite": true, "postgres": true, "memory": true}

func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Server.Addr) == "" {
		errs = append(errs, errors.New("server.addr is required"))
	}
	if !knownDrivers[c.Database.Driver] {
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", c.Database.Driver))
	}
	if c.Database.Driver != "memory" && strings.TrimSpace(c.Database.DSN) == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}
	if c.Nations.TempTTL <= 0 {
		errs = append(errs, errors.New("nations.temp_ttl must be positive"))
	}
	if c.Leaderboard.CacheTTL < 0 {
		errs = append(errs, errors.New("leaderboard.cache_ttl must not be negative"))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}
	return errors.Join(errs...)
}

// CacheEnabled reports whether the Redis leaderboard cache should be wired.
func (c *Config) CacheEnabled() bool {
	return c.Redis.Addr != "" && c.Leaderboard.CacheTTL > 0
}

// EventsEnabled reports whether Kafka lifecycle events should be wired.
func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0 && c.Kafka.Topic != ""
}
