package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string `env:"SERVER_PORT, default=8080"`
	Env        string `env:"ENV, default=development"`

	MySQLDSN string `env:"MYSQL_DSN, default=user:password@tcp(localhost:3306)/usersvc?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR, default=localhost:6379"`
	RedisDB   int    `env:"REDIS_DB, default=0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret      string `env:"JWT_SECRET, default=change-me"`
	AccessTokenTTL int    `env:"ACCESS_TOKEN_TTL_MINUTES, default=30"`

	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	// HardDelete switches user deletion from GORM soft deletes (default)
	// to real row removal.
	HardDelete bool `env:"HARD_DELETE, default=false"`

	AdminUsername string `env:"ADMIN_USERNAME, default=admin"`
	AdminEmail    string `env:"ADMIN_EMAIL, default=admin@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD, default=admin"`
	AdminFullName string `env:"ADMIN_FULL_NAME, default=Admin"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from the environment. A .env file in the working
// directory is merged in first when present.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return &cfg, nil
}

// TokenTTL returns the configured access token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.AccessTokenTTL) * time.Minute
}
