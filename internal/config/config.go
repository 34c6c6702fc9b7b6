package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	ServerPort string `envconfig:"PORT" default:"8080"`

	DatabaseType   string `envconfig:"DB_TYPE" default:"sqlite"`
	DatabasePath   string `envconfig:"DB_PATH" default:"./kidsmoney.db"`
	DatabaseURL    string `envconfig:"DATABASE_URL"`
	MigrationsPath string `envconfig:"MIGRATIONS_PATH"`

	JWTSecret string        `envconfig:"JWT_SECRET"`
	TokenTTL  time.Duration `envconfig:"TOKEN_TTL" default:"168h"`

	CORSOrigins []string `envconfig:"CORS_ORIGINS" default:"*"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogPretty bool   `envconfig:"LOG_PRETTY"`

	LoginRateLimit  int           `envconfig:"LOGIN_RATE_LIMIT" default:"10"`
	LoginRateWindow time.Duration `envconfig:"LOGIN_RATE_WINDOW" default:"1m"`

	GoogleClientID     string `envconfig:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `envconfig:"GOOGLE_CLIENT_SECRET"`
	OAuthRedirectURL   string `envconfig:"OAUTH_REDIRECT_URL"`

	AWSRegion    string `envconfig:"AWS_REGION" default:"us-east-1"`
	SESFromEmail string `envconfig:"SES_FROM_EMAIL"`
	SESFromName  string `envconfig:"SES_FROM_NAME" default:"KidsMoney"`
	AppBaseURL   string `envconfig:"APP_BASE_URL" default:"http://localhost:3000"`
	EmailDebug   bool   `envconfig:"EMAIL_DEBUG"`

	ElasticsearchURL      string `envconfig:"ELASTICSEARCH_URL"`
	ElasticsearchUsername string `envconfig:"ELASTICSEARCH_USERNAME"`
	ElasticsearchPassword string `envconfig:"ELASTICSEARCH_PASSWORD"`
	ElasticsearchIndex    string `envconfig:"ELASTICSEARCH_INDEX" default:"kidsmoney-transactions"`
}

// Load reads a .env file when one exists, then populates Config from the environment
func Load() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDatabase is Load for offline tools that only need the database settings
func LoadDatabase() (*Config, error) {
	cfg, err := process()
	if err != nil {
		return nil, err
	}
	if err := cfg.validateDatabase(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func process() (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET must be set")
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if c.LoginRateLimit <= 0 {
		return errors.New("LOGIN_RATE_LIMIT must be positive")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	switch strings.ToLower(c.DatabaseType) {
	case "sqlite", "sqlite3", "":
	case "postgres", "postgresql", "mysql":
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for DB_TYPE=%s", c.DatabaseType)
		}
	default:
		return fmt.Errorf("unsupported DB_TYPE: %s", c.DatabaseType)
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in has been configured
func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleClientSecret != ""
}

// ElasticsearchEnabled reports whether transactions should be mirrored to Elasticsearch
func (c *Config) ElasticsearchEnabled() bool {
	return c.ElasticsearchURL != ""
}
