// config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	DB struct {
		Host         string
		Port         string
		User         string
		Password     string
		DBName       string
		SSLMode      string
		MaxOpenConns int
		MaxIdleConns int
		ConnLifetime time.Duration
	}
	MercadoPago struct {
		PublicKey     string
		AccessToken   string
		WebhookSecret string
	}
	Server struct {
		Port      string
		OriginURL string
	}
	ShutdownTimeout time.Duration
}

// Load reads config.{yaml,json} with environment overrides. A missing config
// file falls back to environment variables entirely.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetDefault("ShutdownTimeout", 10*time.Second)
	v.SetDefault("Server.Port", "8080")
	v.SetDefault("Server.OriginURL", "http://localhost:8080")
	v.SetDefault("DB.MaxOpenConns", 20)
	v.SetDefault("DB.MaxIdleConns", 10)
	v.SetDefault("DB.ConnLifetime", 5*time.Minute)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		cfg := &Config{}
		cfg.DB.Host = getEnvOr("DB_HOST", "localhost")
		cfg.DB.Port = getEnvOr("DB_PORT", "5432")
		cfg.DB.User = getEnvOr("DB_USER", "postgres")
		cfg.DB.Password = getEnvOr("DB_PASSWORD", "postgres")
		cfg.DB.DBName = getEnvOr("DB_NAME", "fitness_nutri")
		cfg.DB.SSLMode = getEnvOr("DB_SSL_MODE", "disable")
		cfg.DB.MaxOpenConns = 20
		cfg.DB.MaxIdleConns = 10
		cfg.DB.ConnLifetime = 5 * time.Minute
		cfg.MercadoPago.PublicKey = os.Getenv("MERCADOPAGO_PUBLIC_KEY")
		cfg.MercadoPago.AccessToken = os.Getenv("MERCADOPAGO_ACCESS_TOKEN")
		cfg.MercadoPago.WebhookSecret = os.Getenv("MERCADOPAGO_WEBHOOK_SECRET")
		cfg.Server.Port = getEnvOr("SERVER_PORT", "8080")
		cfg.Server.OriginURL = getEnvOr("ORIGIN_URL", "http://localhost:8080")
		cfg.ShutdownTimeout = 10 * time.Second
		return cfg, nil
	}

	// resolve ${ENV_VAR} placeholders in config values
	for _, key := range v.AllKeys() {
		value := v.GetString(key)
		if strings.HasPrefix(value, "${") && strings.HasSuffix(value, "}") {
			envVar := strings.TrimPrefix(strings.TrimSuffix(value, "}"), "${")
			if envValue := os.Getenv(envVar); envValue != "" {
				v.Set(key, envValue)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate reports the missing required values. Absence of any of them is a
// fatal startup condition, not a per-request error.
func (c *Config) Validate() error {
	var missing []string
	if c.MercadoPago.PublicKey == "" {
		missing = append(missing, "MERCADOPAGO_PUBLIC_KEY")
	}
	if c.MercadoPago.AccessToken == "" {
		missing = append(missing, "MERCADOPAGO_ACCESS_TOKEN")
	}
	if c.MercadoPago.WebhookSecret == "" {
		missing = append(missing, "MERCADOPAGO_WEBHOOK_SECRET")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnvOr(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
