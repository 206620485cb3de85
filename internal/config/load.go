package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the service reads,
// e.g. PLACES_AUTH_JWT_SECRET for auth.jwt_secret.
const EnvPrefix = "PLACES"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// A .env file in the working directory, if present, is loaded into the
// process environment first without overriding variables that are already set.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.shutdown_timeout_seconds", 10)
	v.SetDefault("server.cors_allowed_origin", "*")
	v.SetDefault("server.trust_proxy", false)

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime_minutes", 5)

	v.SetDefault("auth.token_lifetime_minutes", 60)
	v.SetDefault("auth.bcrypt_cost", 12)
	v.SetDefault("auth.hash_workers", 4)

	v.SetDefault("transaction.max_retries", 3)
	v.SetDefault("transaction.base_backoff_ms", 25)
	v.SetDefault("transaction.timeout_seconds", 30)

	v.SetDefault("geocoding.provider", "google")
	v.SetDefault("geocoding.base_url", "https://maps.googleapis.com/maps/api/geocode/json")
	v.SetDefault("geocoding.timeout_seconds", 5)

	v.SetDefault("cache.ttl_minutes", 1440)

	v.SetDefault("storage.driver", "local")
	v.SetDefault("storage.local_dir", "uploads/images")
	v.SetDefault("storage.public_base_url", "/uploads/images")
	v.SetDefault("storage.max_upload_bytes", 500*1024)

	v.SetDefault("rate_limit.requests_per_second", 2)
	v.SetDefault("rate_limit.burst", 10)
}

// bindEnvVars makes keys without defaults visible to Unmarshal.
// AutomaticEnv only resolves keys viper already knows about.
func bindEnvVars(v *viper.Viper) {
	keys := []string{
		"database.url",
		"auth.jwt_secret",
		"geocoding.api_key",
		"geocoding.static_lat",
		"geocoding.static_lng",
		"cache.redis_url",
		"storage.s3_bucket",
		"storage.s3_region",
		"storage.s3_endpoint",
		"storage.s3_access_key",
		"storage.s3_secret_key",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
