package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetViper(t *testing.T) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)
}

func TestLoadConfig_Defaults(t *testing.T) {
	resetViper(t)
	t.Setenv("PORT", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("REDIS_KEY_PREFIX", "")
	t.Setenv("PRICE_CACHE_TTL_SECONDS", "")
	t.Setenv("FLASH_DEFAULT_DURATION_MS", "")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "exchange", cfg.RedisKeyPrefix)
	assert.Equal(t, 2*time.Minute, cfg.PriceCacheTTL())
	assert.Equal(t, 5*time.Second, cfg.FlashDefaultDuration())
}

func TestLoadConfig_PortOverridesServerPort(t *testing.T) {
	resetViper(t)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("PORT", "10000")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "10000", cfg.ServerPort)
}

func TestLoadConfig_ReadsWalletSourceAndNormalises(t *testing.T) {
	resetViper(t)
	t.Setenv("PORT", "")
	t.Setenv("WALLET_ADDRESSES_JSON", `[{"method_code":1000}]`)
	t.Setenv("REDIS_KEY_PREFIX", " tradex: ")
	t.Setenv("COINGECKO_API_URL", "https://pro-api.coingecko.com/api/v3/")
	t.Setenv("PRICE_CACHE_TTL_SECONDS", "-5")
	t.Setenv("FLASH_DEFAULT_DURATION_MS", "2500")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, `[{"method_code":1000}]`, cfg.WalletAddressesJSON)
	assert.Equal(t, "tradex", cfg.RedisKeyPrefix)
	assert.Equal(t, "https://pro-api.coingecko.com/api/v3", cfg.CoingeckoAPIURL)
	assert.Equal(t, 120, cfg.PriceCacheTTLSeconds)
	assert.Equal(t, 2500*time.Millisecond, cfg.FlashDefaultDuration())
}

func TestLoadConfig_ZeroFlashDurationDisablesExpiry(t *testing.T) {
	resetViper(t)
	t.Setenv("PORT", "")
	t.Setenv("FLASH_DEFAULT_DURATION_MS", "0")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.FlashDefaultDurationMS)
	assert.Negative(t, cfg.FlashDefaultDuration())
}

func TestConfig_AllowedOrigins(t *testing.T) {
	assert.Equal(t, []string{"*"}, Config{}.AllowedOrigins())
	assert.Equal(t,
		[]string{"https://app.tradex.io", "http://localhost:3000"},
		Config{CORSAllowedOrigins: " https://app.tradex.io, ,http://localhost:3000"}.AllowedOrigins(),
	)
}

func TestConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Config{LogLevel: "DEBUG"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, Config{LogLevel: "warning"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, Config{LogLevel: "verbose"}.SlogLevel())
}
