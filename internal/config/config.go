// Package config loads process configuration for the cropline binaries.
// Values come from the environment (CROPLINE_* keys), optionally topped up
// from a .env file in the working directory.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultAddr        = ":8080"
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultTickMS      = 100
)

type Config struct {
	// Addr is the listen address of the HTTP server.
	Addr string
	// DBDSN is the postgres DSN. Empty selects the in-memory store and a
	// seeded demo farmer, so the server runs without infrastructure.
	DBDSN string
	// MigrationsDir holds the SQL migration files applied at startup.
	MigrationsDir string

	// GeminiAPIKey enables the AI transcript classifier. Empty falls back
	// to the keyword classifier for every call.
	GeminiAPIKey string
	GeminiModel  string

	// TickInterval is the cadence of the session manager's owner loop.
	TickInterval time.Duration
	// SimTuningPath points at an optional YAML tuning file for the farm
	// simulation. Empty uses the built-in defaults.
	SimTuningPath string

	// ServerURL is the head-office instance the terminal client talks to.
	ServerURL string
	// OperatorID and OperatorKey authenticate operator-only endpoints,
	// such as the farmer directory the terminal client's picker lists.
	OperatorID  string
	OperatorKey string
}

// Load reads the .env file if one exists, then the environment. A missing
// .env is not an error; explicit environment variables always win because
// godotenv does not overwrite set keys.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		Addr:          strEnv("CROPLINE_ADDR", DefaultAddr),
		DBDSN:         strEnv("CROPLINE_DB_DSN", ""),
		MigrationsDir: strEnv("CROPLINE_MIGRATIONS_DIR", "./migrations"),
		GeminiAPIKey:  strEnv("GEMINI_API_KEY", ""),
		GeminiModel:   strEnv("CROPLINE_GEMINI_MODEL", DefaultGeminiModel),
		TickInterval:  time.Duration(intEnv("CROPLINE_TICK_MS", DefaultTickMS)) * time.Millisecond,
		SimTuningPath: strEnv("CROPLINE_SIM_TUNING", ""),
		ServerURL:     strEnv("CROPLINE_SERVER_URL", ""),
		OperatorID:    strEnv("CROPLINE_OPERATOR_ID", ""),
		OperatorKey:   strEnv("CROPLINE_OPERATOR_KEY", ""),
	}
}

func strEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func intEnv(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
