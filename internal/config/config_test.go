package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "s3cret")
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.AccessTokenTTL)
	assert.Equal(t, ImageStoreLocal, cfg.ImageStore)
	assert.Equal(t, "http://localhost:8000/assets/placeholder.png", cfg.PlaceholderImageURL)
	assert.Equal(t, 3, cfg.ImageReleaseRetries)
	assert.Equal(t, 60, cfg.RateLimitPerMin)
	assert.Equal(t, 10, cfg.AuthRateLimitPerMin)
}

func TestLoad_MissingSecret(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("STORAGE_DRIVER", "memory")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ACCESS_TOKEN_SECRET")
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{
			AccessTokenSecret:   "k",
			AccessTokenTTL:      time.Hour,
			StorageDriver:       DriverMemory,
			ImageStore:          ImageStoreLocal,
			ImageReleaseRetries: 2,
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.StorageDriver = "mongo" }, wantErr: "unknown STORAGE_DRIVER"},
		{name: "postgres without password", mutate: func(c *Config) { c.StorageDriver = DriverPostgres }, wantErr: "DB_PASSWORD"},
		{name: "s3 without bucket", mutate: func(c *Config) { c.ImageStore = ImageStoreS3 }, wantErr: "S3_BUCKET"},
		{name: "unknown image store", mutate: func(c *Config) { c.ImageStore = "cloudinary" }, wantErr: "unknown IMAGE_STORE"},
		{name: "non-positive ttl", mutate: func(c *Config) { c.AccessTokenTTL = 0 }, wantErr: "ACCESS_TOKEN_TTL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_ClampsRetries(t *testing.T) {
	cfg := Config{
		AccessTokenSecret: "k",
		AccessTokenTTL:    time.Hour,
		StorageDriver:     DriverMemory,
		ImageStore:        ImageStoreLocal,
	}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 1, cfg.ImageReleaseRetries)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBUser: "u", DBPassword: "p", DBName: "n", DBPort: "5433", DBSSLMode: "require"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5433 sslmode=require TimeZone=UTC", cfg.DSN())
}
