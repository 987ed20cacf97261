package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads a TOML configuration file at path, merges it on top of the
// built-in defaults, applies STOCKMARKET_* environment variable overrides, and
// returns the final Config. The returned Config has NOT been validated; the
// caller should invoke Config.Validate() after Load.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}

	// Load .env file if present (silently ignore if missing).
	_ = godotenv.Load()

	applyEnvOverrides(&cfg)

	return &cfg, nil
}

// applyEnvOverrides reads well-known STOCKMARKET_* environment variables and
// overwrites the corresponding Config fields when a variable is set (i.e. not
// empty). This lets operators inject secrets at deploy time without touching
// the TOML file.
func applyEnvOverrides(cfg *Config) {
	// ── Server ──
	setInt(&cfg.Server.Port, "STOCKMARKET_SERVER_PORT")
	setStringSlice(&cfg.Server.CORSOrigins, "STOCKMARKET_SERVER_CORS_ORIGINS")
	setDuration(&cfg.Server.ReadTimeout, "STOCKMARKET_SERVER_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "STOCKMARKET_SERVER_WRITE_TIMEOUT")
	setDuration(&cfg.Server.ShutdownTimeout, "STOCKMARKET_SERVER_SHUTDOWN_TIMEOUT")
	setInt(&cfg.Server.RateLimit, "STOCKMARKET_SERVER_RATE_LIMIT")
	setDuration(&cfg.Server.RateWindow, "STOCKMARKET_SERVER_RATE_WINDOW")

	// ── Postgres ──
	setStr(&cfg.Postgres.DSN, "STOCKMARKET_POSTGRES_DSN")
	setStr(&cfg.Postgres.DSN, "DATABASE_URL") // compatibility alias
	setStr(&cfg.Postgres.Host, "STOCKMARKET_POSTGRES_HOST")
	setInt(&cfg.Postgres.Port, "STOCKMARKET_POSTGRES_PORT")
	setStr(&cfg.Postgres.Database, "STOCKMARKET_POSTGRES_DATABASE")
	setStr(&cfg.Postgres.User, "STOCKMARKET_POSTGRES_USER")
	setStr(&cfg.Postgres.Password, "STOCKMARKET_POSTGRES_PASSWORD")
	setStr(&cfg.Postgres.SSLMode, "STOCKMARKET_POSTGRES_SSL_MODE")
	setInt(&cfg.Postgres.PoolMaxConns, "STOCKMARKET_POSTGRES_POOL_MAX_CONNS")
	setInt(&cfg.Postgres.PoolMinConns, "STOCKMARKET_POSTGRES_POOL_MIN_CONNS")
	setBool(&cfg.Postgres.RunMigrations, "STOCKMARKET_POSTGRES_RUN_MIGRATIONS")

	// ── Redis ──
	setStr(&cfg.Redis.Addr, "STOCKMARKET_REDIS_ADDR")
	setStr(&cfg.Redis.Password, "STOCKMARKET_REDIS_PASSWORD")
	setInt(&cfg.Redis.DB, "STOCKMARKET_REDIS_DB")
	setInt(&cfg.Redis.PoolSize, "STOCKMARKET_REDIS_POOL_SIZE")
	setInt(&cfg.Redis.MaxRetries, "STOCKMARKET_REDIS_MAX_RETRIES")
	setBool(&cfg.Redis.TLSEnabled, "STOCKMARKET_REDIS_TLS_ENABLED")

	// ── Finnhub ──
	setStr(&cfg.Finnhub.BaseURL, "STOCKMARKET_FINNHUB_BASE_URL")
	setStr(&cfg.Finnhub.APIKey, "STOCKMARKET_FINNHUB_API_KEY")
	setStr(&cfg.Finnhub.APIKey, "FINNHUB_API_KEY") // compatibility alias
	setDuration(&cfg.Finnhub.Timeout, "STOCKMARKET_FINNHUB_TIMEOUT")
	setDuration(&cfg.Finnhub.QuoteTTL, "STOCKMARKET_FINNHUB_QUOTE_TTL")
	setInt(&cfg.Finnhub.MaxInFlight, "STOCKMARKET_FINNHUB_MAX_IN_FLIGHT")

	// ── S3 ──
	setBool(&cfg.S3.Enabled, "STOCKMARKET_S3_ENABLED")
	setStr(&cfg.S3.Endpoint, "STOCKMARKET_S3_ENDPOINT")
	setStr(&cfg.S3.Region, "STOCKMARKET_S3_REGION")
	setStr(&cfg.S3.Bucket, "STOCKMARKET_S3_BUCKET")
	setStr(&cfg.S3.AccessKey, "STOCKMARKET_S3_ACCESS_KEY")
	setStr(&cfg.S3.SecretKey, "STOCKMARKET_S3_SECRET_KEY")
	setBool(&cfg.S3.UseSSL, "STOCKMARKET_S3_USE_SSL")
	setBool(&cfg.S3.ForcePathStyle, "STOCKMARKET_S3_FORCE_PATH_STYLE")

	// ── Auth ──
	setStr(&cfg.Auth.JWTSecret, "STOCKMARKET_AUTH_JWT_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "STOCKMARKET_AUTH_TOKEN_TTL")

	// ── Digest ──
	setBool(&cfg.Digest.Enabled, "STOCKMARKET_DIGEST_ENABLED")
	setDuration(&cfg.Digest.Interval, "STOCKMARKET_DIGEST_INTERVAL")

	// ── Notify ──
	setStr(&cfg.Notify.TelegramToken, "STOCKMARKET_NOTIFY_TELEGRAM_TOKEN")
	setStr(&cfg.Notify.TelegramChatID, "STOCKMARKET_NOTIFY_TELEGRAM_CHAT_ID")
	setStr(&cfg.Notify.DiscordWebhookURL, "STOCKMARKET_NOTIFY_DISCORD_WEBHOOK_URL")
	setStringSlice(&cfg.Notify.Events, "STOCKMARKET_NOTIFY_EVENTS")

	// ── Top-level ──
	setStr(&cfg.Mode, "STOCKMARKET_MODE")
	setStr(&cfg.LogLevel, "STOCKMARKET_LOG_LEVEL")
}

// ---------------------------------------------------------------------------
// Typed env-var helpers. Each only mutates the target when the environment
// variable is present and non-empty.
// ---------------------------------------------------------------------------

func setStr(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			dst.Duration = d
		}
	}
}

func setStringSlice(dst *[]string, key string) {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		cleaned := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				cleaned = append(cleaned, p)
			}
		}
		if len(cleaned) > 0 {
			*dst = cleaned
		}
	}
}
