package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/asqwklop12/sparta/pkg/config"
	"github.com/asqwklop12/sparta/pkg/database"
)

const defaultJWTSecret = "change-this-to-a-secure-secret"

// Config holds all configuration for the wish-list service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"myselectshop"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"myselectshop_secret"`
	PostgresDB   string `env:"POSTGRES_DB" envDefault:"myselectshop"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Kafka
	KafkaBrokers       []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	KafkaLookupTopic   string   `env:"KAFKA_LOOKUP_TOPIC" envDefault:"myselectshop.lookup.completed"`
	KafkaConsumerGroup string   `env:"KAFKA_CONSUMER_GROUP" envDefault:"myselectshop-lookup"`

	// Redis backs the consumer's idempotency store. Empty host falls back to memory.
	RedisHost     string `env:"REDIS_HOST"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// JWT
	JWTSecret       string        `env:"JWT_SECRET"`
	JWTAccessExpiry time.Duration `env:"JWT_ACCESS_TOKEN_EXPIRY" envDefault:"60m"`
	AdminToken      string        `env:"ADMIN_TOKEN"`

	// Shopping search API
	LookupBaseURL      string        `env:"LOOKUP_BASE_URL" envDefault:"https://openapi.naver.com"`
	LookupClientID     string        `env:"LOOKUP_CLIENT_ID"`
	LookupClientSecret string        `env:"LOOKUP_CLIENT_SECRET"`
	LookupRatePerSec   float64       `env:"LOOKUP_RATE_PER_SEC" envDefault:"5"`
	LookupTimeout      time.Duration `env:"LOOKUP_TIMEOUT" envDefault:"5s"`

	// Price sync scheduler. Zero disables it.
	SyncInterval time.Duration `env:"SYNC_INTERVAL" envDefault:"0s"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Preset fields keep their value when the variable is unset.
	cfg := &Config{JWTSecret: defaultJWTSecret}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load myselectshop config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.PostgresHost == "" {
		return fmt.Errorf("POSTGRES_HOST is required")
	}
	if c.PostgresUser == "" {
		return fmt.Errorf("POSTGRES_USER is required")
	}
	if c.DBMinConns < 0 || c.DBMaxConns < 1 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("invalid pool size: min %d, max %d", c.DBMinConns, c.DBMaxConns)
	}
	if len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	if c.JWTAccessExpiry <= 0 {
		return fmt.Errorf("JWT_ACCESS_TOKEN_EXPIRY must be positive, got %s", c.JWTAccessExpiry)
	}
	if c.SyncInterval < 0 {
		return fmt.Errorf("SYNC_INTERVAL must not be negative, got %s", c.SyncInterval)
	}
	if c.LookupRatePerSec < 0 {
		return fmt.Errorf("LOOKUP_RATE_PER_SEC must not be negative, got %f", c.LookupRatePerSec)
	}

	// Outside development, require an explicitly set, strong JWT secret.
	if c.Environment != "development" {
		if c.JWTSecret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be explicitly set via environment variable in %q mode", c.Environment)
		}
		if len(c.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters long, got %d", len(c.JWTSecret))
		}
	}
	return nil
}

// Postgres returns the pool settings.
func (c *Config) Postgres() database.PostgresConfig {
	return database.PostgresConfig{
		Host:            c.PostgresHost,
		Port:            c.PostgresPort,
		User:            c.PostgresUser,
		Password:        c.PostgresPass,
		DBName:          c.PostgresDB,
		SSLMode:         c.PostgresSSL,
		MaxConns:        c.DBMaxConns,
		MinConns:        c.DBMinConns,
		MaxConnLifetime: time.Duration(c.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(c.DBMaxConnIdleTimeMins) * time.Minute,
	}
}

// Redis returns the Redis settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
