package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"

	ImageStoreLocal = "local"
	ImageStoreS3    = "s3"
)

type Config struct {
	// Server
	Port        string `env:"PORT" envDefault:"8000"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`
	BodyLimitMB int    `env:"BODY_LIMIT_MB" envDefault:"4"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`
	SentryDSN   string `env:"SENTRY_DSN"`

	RateLimitPerMin     int `env:"RATE_LIMIT_PER_MIN" envDefault:"60"`
	AuthRateLimitPerMin int `env:"AUTH_RATE_LIMIT_PER_MIN" envDefault:"10"`

	// Storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DBHost        string `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string `env:"DB_PORT" envDefault:"5432"`
	DBUser        string `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string `env:"DB_PASSWORD"`
	DBName        string `env:"DB_NAME" envDefault:"travel_story"`
	DBSSLMode     string `env:"DB_SSLMODE" envDefault:"disable"`

	// Access tokens
	AccessTokenSecret string        `env:"ACCESS_TOKEN_SECRET"`
	AccessTokenTTL    time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"72h"`

	// Images
	ImageStore          string `env:"IMAGE_STORE" envDefault:"local"`
	PlaceholderImageURL string `env:"PLACEHOLDER_IMAGE_URL" envDefault:"http://localhost:8000/assets/placeholder.png"`
	PublicBaseURL       string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8000"`
	UploadDir           string `env:"UPLOAD_DIR" envDefault:"uploads"`
	AssetsDir           string `env:"ASSETS_DIR" envDefault:"assets"`
	ImageReleaseRetries int    `env:"IMAGE_RELEASE_RETRIES" envDefault:"3"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" envDefault:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	// Logging
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
}

// Load reads the configuration from the environment and rejects
// combinations the server cannot start with.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.AccessTokenSecret == "" {
		return errors.New("ACCESS_TOKEN_SECRET environment variable is required")
	}
	if c.AccessTokenTTL <= 0 {
		return errors.New("ACCESS_TOKEN_TTL must be positive")
	}

	switch c.StorageDriver {
	case DriverPostgres:
		if c.DBPassword == "" {
			return errors.New("DB_PASSWORD environment variable is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}

	switch c.ImageStore {
	case ImageStoreLocal:
	case ImageStoreS3:
		if c.S3Bucket == "" {
			return errors.New("S3_BUCKET environment variable is required for the s3 image store")
		}
	default:
		return fmt.Errorf("unknown IMAGE_STORE %q", c.ImageStore)
	}

	if c.ImageReleaseRetries < 1 {
		c.ImageReleaseRetries = 1
	}
	return nil
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}
