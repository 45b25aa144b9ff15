package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress   string
	ShutdownTimeout time.Duration

	// Session store
	StoreBackend string // "sqlite" or "memory"
	DBPath       string
	SessionTTL   time.Duration // 0 keeps sessions forever

	// Gemini generation
	GoogleAPIKey     string // empty runs the server in degraded fallback mode
	GeminiModel      string
	FeedbackLanguage string
}

func Load() *Config {
	// Load .env file if it exists
	_ = godotenv.Load()
	return &Config{
		ServerAddress:    mustGetenv("SERVER_ADDRESS"),
		ShutdownTimeout:  mustGetDuration("SHUTDOWN_TIMEOUT"),
		StoreBackend:     getenvDefault("STORE_BACKEND", "sqlite"),
		DBPath:           getenvDefault("DB_PATH", "interviews.db"),
		SessionTTL:       getDurationDefault("SESSION_TTL", 0),
		GoogleAPIKey:     os.Getenv("GOOGLE_API_KEY"),
		GeminiModel:      getenvDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		FeedbackLanguage: getenvDefault("FEEDBACK_LANGUAGE", "English"),
	}
}

func mustGetenv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	return v
}

func mustGetDuration(k string) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		log.Fatalf("config: required environment variable %s is not set", k)
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}

func getenvDefault(k, fallback string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return fallback
}

func getDurationDefault(k string, fallback time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Fatalf("config: %s=%q is not a valid duration: %v", k, v, err)
	}
	return d
}
