package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port  string
	Env   string
	LLM   LLMConfig
	Cache CacheConfig
}

type LLMConfig struct {
	APIKey string
	Model  string
	// Fake forces the scripted offline client; implied when no API key is set.
	Fake bool
}

type CacheConfig struct {
	TTL        time.Duration
	MaxEntries int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port := flag.String("port", ":8000", "server port")
	flag.Parse()

	if envPort := os.Getenv("PORT"); envPort != "" {
		if strings.HasPrefix(envPort, ":") {
			*port = envPort
		} else {
			*port = ":" + envPort
		}
	}

	env := strings.TrimSpace(os.Getenv("APP_ENV"))
	if env == "" {
		env = "local"
	}

	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	fake := apiKey == ""
	if v := strings.TrimSpace(os.Getenv("LLM_FAKE")); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			fake = b
		}
	}

	return &Config{
		Port: *port,
		Env:  env,
		LLM: LLMConfig{
			APIKey: apiKey,
			Model:  firstNonEmpty(strings.TrimSpace(os.Getenv("GEMINI_MODEL")), "gemini-2.0-flash-lite"),
			Fake:   fake,
		},
		Cache: CacheConfig{
			TTL:        envDuration("CACHE_TTL", time.Hour),
			MaxEntries: envInt("CACHE_MAX_ENTRIES", 128),
		},
	}, nil
}

func envDuration(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	// Accept either a Go duration or bare seconds.
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func envInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
