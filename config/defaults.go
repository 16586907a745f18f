// Package config provides centralized default values for the Brainrot Buster engine
package config

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

var envLoaded sync.Once

// loadEnvFile loads environment variables from .env file
func loadEnvFile() {
	envLoaded.Do(func() {
		loadEnvFileOnce()
	})
}

func loadEnvFileOnce() {
	file, err := os.Open(".env")
	if err != nil {
		// .env file is optional, don't error if it doesn't exist
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Split on first = sign
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		// Only set if not already set in environment
		if os.Getenv(key) == "" {
			os.Setenv(key, value)
		}
	}
}

func init() {
	// Ensure .env is loaded before any config access
	loadEnvFile()
}

// getEnvInt reads environment variable with fallback to default
func getEnvInt(key string, defaultValue int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvString reads environment variable with string fallback
func getEnvString(key string, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultValue
}

// getEnvFloat reads environment variable as float with fallback
func getEnvFloat(key string, defaultValue float64) float64 {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseFloat(val, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvDuration reads environment variable as duration with fallback
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
		// Try as integer seconds
		if seconds, err := strconv.Atoi(val); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultValue
}

// Server Configuration
var (
	Port = getEnvString("PORT", "8080")
)

// Intervention Trigger Tuning
//
// The probabilities are product-feel knobs, not correctness constants, so they
// stay overridable via environment.
var (
	MinSessionMinutes       = getEnvFloat("MIN_SESSION_MINUTES", 10)
	MinBrainrotPercent      = getEnvInt("MIN_BRAINROT_PERCENT", 70)
	TriggerProbability      = getEnvFloat("TRIGGER_PROBABILITY", 0.30)
	StreakProbability       = getEnvFloat("STREAK_PROBABILITY", 0.30)
	SnoozeRerollProbability = getEnvFloat("SNOOZE_REROLL_PROBABILITY", 0.50)
	SnoozeDelay             = getEnvDuration("SNOOZE_DELAY", 10*time.Minute)
	EvaluationInterval      = getEnvDuration("EVALUATION_INTERVAL", time.Minute)
)

// Engagement Points
var (
	PointsLow    = getEnvInt("POINTS_LOW", 25)
	PointsMedium = getEnvInt("POINTS_MEDIUM", 50)
	PointsHigh   = getEnvInt("POINTS_HIGH", 100)
)

// Morning Gate Defaults (persisted settings override these per user)
var (
	DefaultIdleThresholdHours = getEnvInt("IDLE_THRESHOLD_HOURS", 4)
	DefaultMorningStart       = getEnvString("MORNING_START", "06:00")
	DefaultMorningEnd         = getEnvString("MORNING_END", "09:00")
	DefaultMessageStyle       = getEnvString("MORNING_MESSAGE_STYLE", "sassy")
)

// MonitoredSites is the canonical host allow-list for session tracking
var MonitoredSites = parseSiteList(getEnvString("MONITORED_SITES",
	"twitter.com,x.com,instagram.com,tiktok.com,reddit.com,youtube.com,linkedin.com"))

func parseSiteList(raw string) []string {
	var sites []string
	for _, site := range strings.Split(raw, ",") {
		site = strings.TrimSpace(site)
		if site != "" {
			sites = append(sites, site)
		}
	}
	return sites
}

// Storage Configuration
var (
	SQLitePath    = getEnvString("BUSTER_DB_PATH", "./data/buster.db")
	TursoDatabase = getEnvString("TURSO_DATABASE_URL", "")
	TursoToken    = getEnvString("TURSO_AUTH_TOKEN", "")
)

// Auth Configuration
var (
	JWTSecret     = getEnvString("JWT_SECRET", "buster-dev-secret")
	AdminPassword = getEnvString("ADMIN_PASSWORD", "")
	AESKey        = getEnvString("AES_KEY", "")
)
