package config

import (
	"fmt"

	"github.com/owltechengineer/ecoceo-sub006/pkg/config"
	"github.com/owltechengineer/ecoceo-sub006/pkg/database"
)

// Config holds all runtime configuration, populated from the environment.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8080"`

	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"ecoceo"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:"ecoceo"`
	PostgresDB       string `env:"POSTGRES_DB" envDefault:"ecoceo"`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	RunMigrations    bool   `env:"RUN_MIGRATIONS" envDefault:"true"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// CartTTLHours is how long an idle cart survives before Redis expires it.
	CartTTLHours int `env:"CART_TTL_HOURS" envDefault:"168"`

	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092"`

	CMSBaseURL  string `env:"CMS_BASE_URL" envDefault:"http://localhost:3333"`
	CMSAPIToken string `env:"CMS_API_TOKEN"`

	TracingEnabled     bool     `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint       string   `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate  float64  `env:"TRACING_SAMPLE_RATE" envDefault:"0.1"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP_PORT: %d", cfg.HTTPPort)
	}
	if cfg.CartTTLHours < 1 {
		return nil, fmt.Errorf("CART_TTL_HOURS must be positive, got %d", cfg.CartTTLHours)
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS must not be empty")
	}

	return &cfg, nil
}

// Postgres returns the database connection config, pool sizing defaults
// included.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.PostgresDB
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// Redis returns the Redis connection config.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{
		Host:     c.RedisHost,
		Port:     c.RedisPort,
		Password: c.RedisPassword,
		DB:       c.RedisDB,
	}
}
