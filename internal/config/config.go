package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Load reads the .env file specified by GYM_ENV (or .env by default),
// then loads the corresponding .secret file if it exists.
// All config is flat env vars read via os.Getenv after loading.
func Load() error {
	envFile := os.Getenv("GYM_ENV")
	if envFile == "" {
		envFile = ".env"
	}

	// Load main env file (ignore error if file doesn't exist)
	_ = godotenv.Load(envFile)

	// Load secret sidecar if it exists
	_ = godotenv.Load(envFile + ".secret")

	return nil
}

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

func ServerPort() int {
	port, err := strconv.Atoi(os.Getenv("SERVER_PORT"))
	if err != nil {
		return 8080
	}
	return port
}

func ServerAddr() string {
	return fmt.Sprintf(":%d", ServerPort())
}

// StoreDriver returns "sqlite" (default) or "postgres".
func StoreDriver() string {
	switch strings.ToLower(os.Getenv("STORE_DRIVER")) {
	case StorePostgres, "postgresql", "pg":
		return StorePostgres
	default:
		return StoreSQLite
	}
}

func DatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}

func SQLitePath() string {
	return stringOr("SQLITE_PATH", "gym-handler.db")
}

func OllamaURL() string {
	return stringOr("OLLAMA_URL", "http://127.0.0.1:11434")
}

func OllamaModel() string {
	return stringOr("OLLAMA_MODEL", "qwen2.5:3b")
}

// PrimaryTimeout bounds one primary backend request. Defaults to 60s.
func PrimaryTimeout() time.Duration {
	return durationOr("PRIMARY_TIMEOUT", 60*time.Second)
}

// SecondaryEnabled reports whether the local model tiers are used.
// Defaults to true.
func SecondaryEnabled() bool {
	v, err := strconv.ParseBool(os.Getenv("SECONDARY_ENABLED"))
	if err != nil {
		return true
	}
	return v
}

func SecondaryBaseURL() string {
	return stringOr("SECONDARY_BASE_URL", "http://127.0.0.1:8081/v1")
}

func SecondaryAPIKey() string {
	return os.Getenv("SECONDARY_API_KEY")
}

func SecondaryPreferredModel() string {
	return stringOr("SECONDARY_PREFERRED_MODEL", "Qwen2.5-1.5B-Instruct")
}

func SecondaryFallbackModel() string {
	return stringOr("SECONDARY_FALLBACK_MODEL", "TinyLlama-1.1B-Chat-v1.0")
}

// SecondaryTimeout bounds model loading and generation on the local
// runtime. CPU inference is slow, so the default is generous.
func SecondaryTimeout() time.Duration {
	return durationOr("SECONDARY_TIMEOUT", 5*time.Minute)
}

// AssistantUser is recorded in conversation logs when a request names no
// user. Defaults to "manager".
func AssistantUser() string {
	return stringOr("ASSISTANT_USER", "manager")
}

// SessionMaxTurns caps each session transcript. Defaults to 40.
func SessionMaxTurns() int {
	n, err := strconv.Atoi(os.Getenv("SESSION_MAX_TURNS"))
	if err != nil || n < 0 {
		return 40
	}
	return n
}

// SessionIdleTTL is how long an unused session survives. Defaults to 12h.
func SessionIdleTTL() time.Duration {
	return durationOr("SESSION_IDLE_TTL", 12*time.Hour)
}

// SeedFile is an optional YAML file of taught records imported at startup.
func SeedFile() string {
	return os.Getenv("SEED_FILE")
}

// RateLimitRPS returns requests per second limit.
// Defaults to 100 if not set.
func RateLimitRPS() float64 {
	rps, err := strconv.ParseFloat(os.Getenv("RATE_LIMIT_RPS"), 64)
	if err != nil || rps <= 0 {
		return 100
	}
	return rps
}

// RateLimitBurst returns the burst size for rate limiting.
// Defaults to 20 if not set.
func RateLimitBurst() int {
	burst, err := strconv.Atoi(os.Getenv("RATE_LIMIT_BURST"))
	if err != nil || burst <= 0 {
		return 20
	}
	return burst
}

// LogLevel returns the log level (debug, info, warn, error).
// Defaults to "info" if not set.
func LogLevel() string {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		return "info"
	}
	return level
}

// LogFile, when set, sends logs to a rotated file instead of stderr.
func LogFile() string {
	return os.Getenv("LOG_FILE")
}

func stringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationOr(key string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(os.Getenv(key))
	if err != nil || d <= 0 {
		return def
	}
	return d
}
