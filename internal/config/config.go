// Package config loads the service configuration from the environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every setting the service reads at start-up.
type Config struct {
	AppPort     string
	DBDriver    string
	DatabaseDSN string
	JWTSecret   string
	JWTExpires  time.Duration
	HostAPI     string
	StaticDir   string
	RabbitMQURL string
	LogMode     string
	LogFile     string
}

// SetDefaults registers the default of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":3000")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=teslo port=5432 sslmode=disable")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_EXPIRES", "2h")
	v.SetDefault("HOST_API", "http://localhost:3000/api")
	v.SetDefault("STATIC_DIR", "./static/products")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_FILE", "")
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config out of v and checks it.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		AppPort:     v.GetString("APP_PORT"),
		DBDriver:    v.GetString("DB_DRIVER"),
		DatabaseDSN: v.GetString("DATABASE_DSN"),
		JWTSecret:   v.GetString("JWT_SECRET"),
		JWTExpires:  v.GetDuration("JWT_EXPIRES"),
		HostAPI:     v.GetString("HOST_API"),
		StaticDir:   v.GetString("STATIC_DIR"),
		RabbitMQURL: v.GetString("RABBITMQ_URL"),
		LogMode:     v.GetString("LOG_MODE"),
		LogFile:     v.GetString("LOG_FILE"),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.JWTExpires <= 0 {
		return nil, fmt.Errorf("JWT_EXPIRES must be a positive duration, got %q", v.GetString("JWT_EXPIRES"))
	}
	switch cfg.DBDriver {
	case "postgres", "sqlite":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	return cfg, nil
}
