package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"inventory/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the process configuration handed to the server at startup.
type Config struct {
	AppPort            string
	DatabaseDriver     string
	DatabaseDSN        string
	CORSAllowedOrigins []string
	SeedOnStartup      bool
	SeedProducts       []models.ProductPayload
	RabbitMQURL        string
	RabbitMQQueue      string
}

// Load reads configuration from an optional .env file, an optional config.yaml
// in configPath, and the environment, in increasing order of precedence.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	v := viper.New()
	v.SetDefault("APP_PORT", ":8000")
	v.SetDefault("DATABASE_DRIVER", "sqlite")
	v.SetDefault("DATABASE_DSN", "products.db")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://127.0.0.1:3000")
	v.SetDefault("SEED_ON_STARTUP", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_QUEUE", "product_events")
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configPath)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		AppPort:            v.GetString("APP_PORT"),
		DatabaseDriver:     strings.ToLower(v.GetString("DATABASE_DRIVER")),
		DatabaseDSN:        v.GetString("DATABASE_DSN"),
		CORSAllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		SeedOnStartup:      v.GetBool("SEED_ON_STARTUP"),
		SeedProducts:       models.DefaultSeedProducts(),
		RabbitMQURL:        v.GetString("RABBITMQ_URL"),
		RabbitMQQueue:      v.GetString("RABBITMQ_QUEUE"),
	}

	for _, origin := range cfg.CORSAllowedOrigins {
		if origin == "*" {
			return nil, errors.New("CORS_ALLOWED_ORIGINS cannot contain \"*\" because credentials are allowed; list the origins explicitly")
		}
	}

	if v.IsSet("seed_products") {
		var seeds []models.ProductPayload
		if err := v.UnmarshalKey("seed_products", &seeds); err != nil {
			return nil, fmt.Errorf("invalid seed_products: %w", err)
		}
		cfg.SeedProducts = seeds
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
