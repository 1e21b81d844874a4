package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DBPath      string
	Environment string
	AppURL      string
	// Deadline engine
	RollForwardLandingDays bool   // roll CALENDAR_DAYS results landing on non-business days
	SweepSchedule          string // cron spec for the deadline reminder sweep
	DueSoonFallbackDays    int    // DUE_SOON window when a deadline has no reminder offsets
	// Other
	AllowedOrigins []string
	SeedOnStartup  bool // seed reference data at boot (development convenience)
}

func Load() *Config {
	// Load .env file (ignore error if not present - use system env vars)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		ServerPort:             getEnv("SERVER_PORT", "8080"),
		DBPath:                 getEnv("DB_PATH", "db/app.db"),
		Environment:            getEnv("ENVIRONMENT", "development"),
		AppURL:                 getEnv("APP_URL", "http://localhost:8080"),
		RollForwardLandingDays: getEnvBool("ROLL_FORWARD_LANDING_DAYS", true),
		SweepSchedule:          getEnv("SWEEP_SCHEDULE", "0 * * * *"),
		DueSoonFallbackDays:    getEnvInt("DUE_SOON_FALLBACK_DAYS", 3),
		AllowedOrigins:         strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
		SeedOnStartup:          getEnvBool("SEED_ON_STARTUP", true),
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Printf("Using default value for %s: %s", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept common boolean representations
	switch strings.ToLower(value) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s, using default %d", key, defaultValue)
		return defaultValue
	}
	return n
}
