package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// SyncPolicy holds the reconciliation tunables. The date-delta slops and the
// name-match threshold are policy values, deliberately configuration rather
// than constants.
type SyncPolicy struct {
	ProviderBaseURL    string
	ProviderAPIKey     string
	ProviderTimeout    time.Duration
	NameMatchThreshold float64
	IDBoundSlop        time.Duration
	NameMatchSlop      time.Duration
}

// SchedulerPolicy holds the kickoff worker tunables.
type SchedulerPolicy struct {
	LockName      string
	GracePeriod   time.Duration
	SafetyWakeup  time.Duration
	NotifyURL     string
	NotifyTimeout time.Duration
}

// Config holds all application configuration.
type Config struct {
	DatabaseURL string
	ServerPort  int
	Sync        SyncPolicy
	Scheduler   SchedulerPolicy
}

// Load reads configuration from environment variables, optionally picking up
// a .env file first (useful for local development).
func Load() (*Config, error) {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	port, err := intEnv("SERVER_PORT", 8080)
	if err != nil {
		return nil, err
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	providerTimeout, err := durationEnv("SYNC_PROVIDER_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}

	threshold, err := floatEnv("SYNC_NAME_MATCH_THRESHOLD", 0.5)
	if err != nil {
		return nil, err
	}
	if threshold <= 0 || threshold > 1 {
		return nil, fmt.Errorf("SYNC_NAME_MATCH_THRESHOLD must be in (0, 1], got %v", threshold)
	}

	idBoundSlopDays, err := intEnv("SYNC_ID_BOUND_SLOP_DAYS", 3)
	if err != nil {
		return nil, err
	}
	nameMatchSlopDays, err := intEnv("SYNC_NAME_MATCH_SLOP_DAYS", 21)
	if err != nil {
		return nil, err
	}

	grace, err := durationEnv("SCHEDULER_GRACE_PERIOD", 90*time.Second)
	if err != nil {
		return nil, err
	}
	safetyWakeup, err := durationEnv("SCHEDULER_SAFETY_WAKEUP", 60*time.Second)
	if err != nil {
		return nil, err
	}
	notifyTimeout, err := durationEnv("SCHEDULER_NOTIFY_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}

	lockName := os.Getenv("SCHEDULER_LOCK_NAME")
	if lockName == "" {
		lockName = "kickoff-scheduler"
	}

	cfg := &Config{
		DatabaseURL: dbURL,
		ServerPort:  port,
		Sync: SyncPolicy{
			ProviderBaseURL:    os.Getenv("SYNC_PROVIDER_BASE_URL"),
			ProviderAPIKey:     os.Getenv("SYNC_PROVIDER_API_KEY"),
			ProviderTimeout:    providerTimeout,
			NameMatchThreshold: threshold,
			IDBoundSlop:        time.Duration(idBoundSlopDays) * 24 * time.Hour,
			NameMatchSlop:      time.Duration(nameMatchSlopDays) * 24 * time.Hour,
		},
		Scheduler: SchedulerPolicy{
			LockName:      lockName,
			GracePeriod:   grace,
			SafetyWakeup:  safetyWakeup,
			NotifyURL:     os.Getenv("SCHEDULER_NOTIFY_URL"),
			NotifyTimeout: notifyTimeout,
		},
	}

	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func floatEnv(key string, fallback float64) (float64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	return v, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %v", key, v)
	}
	return v, nil
}
