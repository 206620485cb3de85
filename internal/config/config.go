package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server      ServerConfig      `mapstructure:"server"      validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"    validate:"required"`
	Auth        AuthConfig        `mapstructure:"auth"        validate:"required"`
	Transaction TransactionConfig `mapstructure:"transaction" validate:"required"`
	Geocoding   GeocodingConfig   `mapstructure:"geocoding"   validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Storage     StorageConfig     `mapstructure:"storage"     validate:"required"`
	RateLimit   RateLimitConfig   `mapstructure:"rate_limit"  validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int    `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
	CORSAllowedOrigin      string `mapstructure:"cors_allowed_origin"      validate:"required"`
	// TrustProxy takes the client address from X-Forwarded-For/X-Real-IP.
	// Enable only behind a proxy that overwrites those headers.
	TrustProxy bool `mapstructure:"trust_proxy"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gt=0"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	// JWTSecret signs bearer tokens. It has no default and must come from the environment.
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0,lte=1440"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=10,lte=14"`
	// HashWorkers bounds how many bcrypt operations run at once.
	HashWorkers int `mapstructure:"hash_workers" validate:"gt=0,lte=64"`
}

// TransactionConfig controls retries of the cross-entity write transactions.
type TransactionConfig struct {
	MaxRetries    int `mapstructure:"max_retries"     validate:"gte=0,lte=10"`
	BaseBackoffMS int `mapstructure:"base_backoff_ms" validate:"gt=0"`
	// TimeoutSeconds bounds a transaction once begun. Client disconnects do not end it.
	TimeoutSeconds int `mapstructure:"timeout_seconds" validate:"gt=0"`
}

// GeocodingConfig selects and configures the address lookup collaborator.
type GeocodingConfig struct {
	Provider       string  `mapstructure:"provider"        validate:"required,oneof=google static"`
	APIKey         string  `mapstructure:"api_key"         validate:"required_if=Provider google"`
	BaseURL        string  `mapstructure:"base_url"        validate:"required,url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"gt=0"`
	StaticLat      float64 `mapstructure:"static_lat"      validate:"gte=-90,lte=90"`
	StaticLng      float64 `mapstructure:"static_lng"      validate:"gte=-180,lte=180"`
}

// CacheConfig configures the optional Redis cache in front of the geocoder.
// An empty RedisURL disables caching.
type CacheConfig struct {
	RedisURL   string `mapstructure:"redis_url"   validate:"omitempty,url"`
	TTLMinutes int    `mapstructure:"ttl_minutes" validate:"gte=0"`
}

// StorageConfig configures where uploaded images are kept.
type StorageConfig struct {
	Driver         string `mapstructure:"driver"           validate:"required,oneof=local s3"`
	LocalDir       string `mapstructure:"local_dir"        validate:"required_if=Driver local"`
	PublicBaseURL  string `mapstructure:"public_base_url"  validate:"required"`
	MaxUploadBytes int64  `mapstructure:"max_upload_bytes" validate:"gt=0"`
	S3Bucket       string `mapstructure:"s3_bucket"        validate:"required_if=Driver s3"`
	S3Region       string `mapstructure:"s3_region"        validate:"required_if=Driver s3"`
	S3Endpoint     string `mapstructure:"s3_endpoint"      validate:"omitempty,url"`
	S3AccessKey    string `mapstructure:"s3_access_key"`
	S3SecretKey    string `mapstructure:"s3_secret_key"`
}

// RateLimitConfig throttles the unauthenticated credential endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second" validate:"gt=0"`
	Burst             int     `mapstructure:"burst"               validate:"gt=0"`
}
