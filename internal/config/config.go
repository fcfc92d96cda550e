/**
 * @description
 * Configuration for the exchange service. Values come from the environment,
 * optionally seeded by a .env file in the working directory, and are bound
 * onto Config through viper.
 */
package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds every setting the exchange binary reads.
type Config struct {
	ServerPort             string `mapstructure:"SERVER_PORT"`
	DatabaseURL            string `mapstructure:"DATABASE_URL"`
	RedisURL               string `mapstructure:"REDIS_URL"`
	RedisKeyPrefix         string `mapstructure:"REDIS_KEY_PREFIX"`
	RabbitMQURL            string `mapstructure:"RABBITMQ_URL"`
	EventQueue             string `mapstructure:"EVENT_QUEUE"`
	InternalAPIKey         string `mapstructure:"INTERNAL_API_KEY"`
	JWTSecret              string `mapstructure:"JWT_SECRET"`
	AdminAlertWebhookURL   string `mapstructure:"ADMIN_ALERT_WEBHOOK_URL"`
	WalletAddressesJSON    string `mapstructure:"WALLET_ADDRESSES_JSON"`
	CoingeckoAPIURL        string `mapstructure:"COINGECKO_API_URL"`
	CoingeckoAPIKey        string `mapstructure:"COINGECKO_API_KEY"`
	PriceRefreshSchedule   string `mapstructure:"PRICE_REFRESH_SCHEDULE"`
	PriceCacheTTLSeconds   int    `mapstructure:"PRICE_CACHE_TTL_SECONDS"`
	FlashDefaultDurationMS int    `mapstructure:"FLASH_DEFAULT_DURATION_MS"`
	CORSAllowedOrigins     string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{
	"SERVER_PORT",
	"DATABASE_URL",
	"REDIS_URL",
	"REDIS_KEY_PREFIX",
	"RABBITMQ_URL",
	"EVENT_QUEUE",
	"INTERNAL_API_KEY",
	"JWT_SECRET",
	"ADMIN_ALERT_WEBHOOK_URL",
	"WALLET_ADDRESSES_JSON",
	"COINGECKO_API_URL",
	"COINGECKO_API_KEY",
	"PRICE_REFRESH_SCHEDULE",
	"PRICE_CACHE_TTL_SECONDS",
	"FLASH_DEFAULT_DURATION_MS",
	"CORS_ALLOWED_ORIGINS",
	"LOG_LEVEL",
}

// LoadConfig reads configuration from the environment and an optional .env
// file under path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("REDIS_KEY_PREFIX", "exchange")
	viper.SetDefault("EVENT_QUEUE", "exchange_service.domain_events")
	viper.SetDefault("COINGECKO_API_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("PRICE_REFRESH_SCHEDULE", "*/1 * * * *") // Every minute.
	viper.SetDefault("PRICE_CACHE_TTL_SECONDS", 120)
	viper.SetDefault("FLASH_DEFAULT_DURATION_MS", 5000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("LOG_LEVEL", "info")

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}

	if err = viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			slog.Warn("failed to read config file; using environment values", "component", "config", "error", err)
		}
	}

	if err = viper.Unmarshal(&config); err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisKeyPrefix = strings.Trim(strings.TrimSpace(config.RedisKeyPrefix), ":")
	if config.RedisKeyPrefix == "" {
		config.RedisKeyPrefix = "exchange"
	}
	config.InternalAPIKey = strings.TrimSpace(config.InternalAPIKey)
	config.CoingeckoAPIURL = strings.TrimRight(strings.TrimSpace(config.CoingeckoAPIURL), "/")
	if config.PriceCacheTTLSeconds <= 0 {
		slog.Warn("non-positive price cache ttl; using default", "component", "config", "ttl_seconds", config.PriceCacheTTLSeconds)
		config.PriceCacheTTLSeconds = 120
	}
	if config.FlashDefaultDurationMS < 0 {
		config.FlashDefaultDurationMS = 0
	}

	return config, nil
}

// PriceCacheTTL is the lifetime of cached market prices.
func (c Config) PriceCacheTTL() time.Duration {
	return time.Duration(c.PriceCacheTTLSeconds) * time.Second
}

// FlashDefaultDuration is the expiry applied to flash messages pushed without
// an explicit duration. FLASH_DEFAULT_DURATION_MS=0 turns auto-expiry off,
// which the flash store reads from a negative default.
func (c Config) FlashDefaultDuration() time.Duration {
	if c.FlashDefaultDurationMS <= 0 {
		return -1
	}
	return time.Duration(c.FlashDefaultDurationMS) * time.Millisecond
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS on commas.
func (c Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.CORSAllowedOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SlogLevel maps LOG_LEVEL onto a slog level, defaulting to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
