package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type Config struct {
	APIBaseURL  string
	DBPath      string
	ListenPort  string
	LogLevel    string
	LockfileDir string
	CacheTTL    time.Duration
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		APIBaseURL:  getEnv("NEXUS_API_URL", "https://nexus-gg.kro.kr"),
		DBPath:      getEnv("DB_PATH", "companion.db"),
		ListenPort:  getEnv("LISTEN_PORT", "44450"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LockfileDir: getEnv("LOL_LOCKFILE_DIR", ""),
		CacheTTL:    getDurationEnv("CACHE_TTL", 5*time.Minute),
	}

	logger.Info().
		Str("api_base_url", cfg.APIBaseURL).
		Str("db_path", cfg.DBPath).
		Str("listen_port", cfg.ListenPort).
		Str("log_level", cfg.LogLevel).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

var Module = fx.Provide(Load)
