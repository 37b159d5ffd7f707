package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string   `env:"PORT,      default=8080"`
	Env       string   `env:"ENV,       default=development"`
	JWTSecret string   `env:"JWT_SECRET"`
	LogLevel  string   `env:"LOG_LEVEL, default=info"`
	CORS      []string `env:"CORS_ALLOWED_ORIGINS, default=*"`

	Mongo   MongoConfig
	Redis   RedisConfig
	Gateway GatewayConfig
}

type MongoConfig struct {
	// URI is the elevated connection used by the application's own
	// repositories.
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=devlink_bookings"`
	// ProfilesURI is the restricted, acts-as-user connection used by the
	// authorization fallback. Deliberately no default: when unset, the
	// fallback path fails with a server-misconfigured error instead of
	// silently reusing elevated credentials.
	ProfilesURI string `env:"MONGO_PROFILES_URI"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type GatewayConfig struct {
	BaseURL     string `env:"GATEWAY_BASE_URL, default=https://api.paystack.co"`
	SecretKey   string `env:"GATEWAY_SECRET_KEY"`
	CallbackURL string `env:"PAYMENT_CALLBACK_URL"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every required key is set and reports all missing
// keys at once, so a bad deployment fails fast with the complete list.
func (c *Config) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Gateway.SecretKey == "" {
		missing = append(missing, "GATEWAY_SECRET_KEY")
	}
	if c.Mongo.URI == "" {
		missing = append(missing, "MONGO_URI")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing required environment variables: %s", strings.Join(missing, ", "))
	}
	return nil
}
