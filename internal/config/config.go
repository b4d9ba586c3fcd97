// Package config loads process configuration from the environment and an optional .env file.
package config

import (
	"errors"
	"log"
	"time"

	"checkout/pkg/gateway"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the resolved process configuration.
type Config struct {
	AppPort        string
	DatabaseDriver string
	DatabaseDSN    string
	JWTSecret      string
	RabbitMQURL    string
	RedisURL       string
	OrderLockTTL   time.Duration
	Gateway        gateway.Config
}

// Load reads .env (if present) and the environment. Only JWT_SECRET is mandatory here;
// a missing gateway secret is reported by gateway.NewClient.
func Load(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil {
		log.Println("No .env file found, using process environment")
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=checkout port=5432 sslmode=disable")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("ORDER_LOCK_TTL", "30s")
	v.SetDefault("PAYMENT_GATEWAY_URL", "https://api.tosspayments.com/v1")
	v.SetDefault("PAYMENT_GATEWAY_SECRET_KEY", "")
	v.SetDefault("PAYMENT_GATEWAY_TIMEOUT", "10s")
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:        v.GetString("APP_PORT"),
		DatabaseDriver: v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:    v.GetString("DATABASE_DSN"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		RabbitMQURL:    v.GetString("RABBITMQ_URL"),
		RedisURL:       v.GetString("REDIS_URL"),
		OrderLockTTL:   v.GetDuration("ORDER_LOCK_TTL"),
		Gateway: gateway.Config{
			BaseURL:   v.GetString("PAYMENT_GATEWAY_URL"),
			SecretKey: v.GetString("PAYMENT_GATEWAY_SECRET_KEY"),
			Timeout:   v.GetDuration("PAYMENT_GATEWAY_TIMEOUT"),
		},
	}

	if cfg.JWTSecret == "" {
		return nil, errors.New("JWT_SECRET must be set")
	}
	if cfg.DatabaseDriver != "postgres" && cfg.DatabaseDriver != "sqlite" {
		return nil, errors.New("DATABASE_DRIVER must be postgres or sqlite")
	}
	if cfg.OrderLockTTL <= 0 {
		cfg.OrderLockTTL = 30 * time.Second
	}
	return cfg, nil
}
