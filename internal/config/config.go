package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	DataDir    string
	LogLevel   string
	LogFile    string

	PageSize   int
	CacheTTL   time.Duration
	WriteDelay time.Duration

	RateLimitRPS   int
	RateLimitBurst int

	// AuthSecret enables bearer-token enforcement when set.
	AuthSecret string

	// PlacesAPIURL switches persistence to the remote places service when
	// set; PlacesAPIToken is attached to its requests when present.
	PlacesAPIURL   string
	PlacesAPIToken string
}

func Load() *Config {
	// A missing .env is fine; env vars win either way.
	_ = godotenv.Load()

	return &Config{
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DataDir:        getEnv("DATA_DIR", "/data/satwatch"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFile:        getEnv("LOG_FILE", ""),
		PageSize:       getInt("PAGE_SIZE", 5),
		CacheTTL:       getDuration("CACHE_TTL", 30*time.Second),
		WriteDelay:     getDuration("WRITE_DELAY", 0),
		RateLimitRPS:   getInt("RATE_LIMIT_RPS", 50),
		RateLimitBurst: getInt("RATE_LIMIT_BURST", 100),
		AuthSecret:     getEnv("AUTH_SECRET", ""),
		PlacesAPIURL:   getEnv("PLACES_API_URL", ""),
		PlacesAPIToken: getEnv("PLACES_API_TOKEN", ""),
	}
}

func getEnv(key, defaultVal string) string {
	if val, exists := os.LookupEnv(key); exists {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val, exists := os.LookupEnv(key); exists {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
