package config

import (
	"os"
	"strconv"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr    string
	DevMode bool

	Maps    MapsConfig
	Redis   RedisConfig
	Details DetailsConfig
}

// MapsConfig holds map-provider settings. APIKey may be empty; the provider
// loader reports that as a failed load state rather than crashing the process.
type MapsConfig struct {
	APIKey      string
	LoadTimeout time.Duration
}

// RedisConfig holds optional Redis settings for the details cache.
// An empty URL means Redis is not configured and the cache is skipped.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DetailsConfig bounds the business-details fetch path.
type DetailsConfig struct {
	FetchTimeout time.Duration
	CacheTTL     time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("PERMITMAP_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	return Server{
		Addr:    addr,
		DevMode: os.Getenv("PERMITMAP_DEV_MODE") == "true",
		Maps: MapsConfig{
			APIKey:      os.Getenv("MAPS_API_KEY"),
			LoadTimeout: durationEnv("MAPS_LOAD_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     intEnv("REDIS_POOL_SIZE", 10),
			MinIdleConns: intEnv("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  durationEnv("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  durationEnv("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: durationEnv("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Details: DetailsConfig{
			FetchTimeout: durationEnv("DETAILS_FETCH_TIMEOUT", 10*time.Second),
			CacheTTL:     durationEnv("DETAILS_CACHE_TTL", 5*time.Minute),
		},
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
