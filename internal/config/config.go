package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPAddr       string
	UsersPath      string
	DemoDataPath   string
	CacheDSN       string
	SessionIdle    time.Duration
	MaxUploadBytes int64
	LoginRate      int
	LoginBurst     int
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func Load() Config {
	cfg := Config{
		HTTPAddr:       getenv("SALESCOPE_HTTP_ADDR", ":8080"),
		UsersPath:      getenv("SALESCOPE_USERS_PATH", "config/users.yaml"),
		DemoDataPath:   getenv("SALESCOPE_DEMO_DATA_PATH", "data/demo_sales.csv"),
		CacheDSN:       getenv("SALESCOPE_CACHE_DSN", "file:salescope.db?_busy_timeout=5000"),
		MaxUploadBytes: int64(getenvInt("SALESCOPE_MAX_UPLOAD_BYTES", 16<<20)),
		LoginRate:      getenvInt("SALESCOPE_LOGIN_RATE", 5),
		LoginBurst:     getenvInt("SALESCOPE_LOGIN_BURST", 10),
	}
	// A zero idle timeout disables session expiry entirely.
	idleSeconds := getenvInt("SALESCOPE_SESSION_IDLE_SECONDS", 1800)
	cfg.SessionIdle = time.Duration(idleSeconds) * time.Second
	return cfg
}
