package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Chat input limits.
const (
	DefaultMaxInputLength = 10000
	DefaultDomainKey      = "COMMON"
)

type Config struct {
	DatabaseURL    string
	Port           string
	LLMProvider    string // "groq" or "gemini"
	GroqAPIKey     string
	GroqBaseURL    string
	GroqModel      string
	GeminiAPIKey   string
	GeminiModel    string
	AdminJWTSecret string // empty disables the admin guard
	AllowedOrigins []string
	MaxInputLength int
	DefaultDomain  string
	WorkerPoolSize int
}

// LoadConfig loads the environment variables and returns the config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		Port:           getEnv("PORT", "5001"),
		LLMProvider:    getEnv("LLM_PROVIDER", "groq"),
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GroqBaseURL:    getEnv("GROQ_BASE_URL", "https://api.groq.com/openai/v1"),
		GroqModel:      getEnv("GROQ_MODEL_NAME", "meta-llama/llama-4-scout-17b-16e-instruct"),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEN_MODEL", "gemini-1.5-flash"),
		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "*")),
		MaxInputLength: getEnvInt("MAX_INPUT_LENGTH", DefaultMaxInputLength),
		DefaultDomain:  getEnv("DEFAULT_DOMAIN", DefaultDomainKey),
		WorkerPoolSize: getEnvInt("WORKER_POOL_SIZE", 4),
	}

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("WARN: %s=%q not an int, using default %d", key, v, def)
		return def
	}
	return n
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
