package config

import (
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so a developer's .env exports
// cannot leak into the assertions. t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"DATABASE_URL",
		"SERVER_PORT",
		"SYNC_PROVIDER_BASE_URL",
		"SYNC_PROVIDER_API_KEY",
		"SYNC_PROVIDER_TIMEOUT",
		"SYNC_NAME_MATCH_THRESHOLD",
		"SYNC_ID_BOUND_SLOP_DAYS",
		"SYNC_NAME_MATCH_SLOP_DAYS",
		"SCHEDULER_LOCK_NAME",
		"SCHEDULER_GRACE_PERIOD",
		"SCHEDULER_SAFETY_WAKEUP",
		"SCHEDULER_NOTIFY_URL",
		"SCHEDULER_NOTIFY_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatal("Load must fail without DATABASE_URL")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/predictions?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Sync.ProviderTimeout != 15*time.Second {
		t.Errorf("ProviderTimeout = %v, want 15s", cfg.Sync.ProviderTimeout)
	}
	if cfg.Sync.NameMatchThreshold != 0.5 {
		t.Errorf("NameMatchThreshold = %v, want 0.5", cfg.Sync.NameMatchThreshold)
	}
	if cfg.Sync.IDBoundSlop != 3*24*time.Hour {
		t.Errorf("IDBoundSlop = %v, want 72h", cfg.Sync.IDBoundSlop)
	}
	if cfg.Sync.NameMatchSlop != 21*24*time.Hour {
		t.Errorf("NameMatchSlop = %v, want 504h", cfg.Sync.NameMatchSlop)
	}
	if cfg.Scheduler.GracePeriod != 90*time.Second {
		t.Errorf("GracePeriod = %v, want 90s", cfg.Scheduler.GracePeriod)
	}
	if cfg.Scheduler.SafetyWakeup != 60*time.Second {
		t.Errorf("SafetyWakeup = %v, want 60s", cfg.Scheduler.SafetyWakeup)
	}
	if cfg.Scheduler.LockName != "kickoff-scheduler" {
		t.Errorf("LockName = %q, want kickoff-scheduler", cfg.Scheduler.LockName)
	}
	if cfg.Scheduler.NotifyTimeout != 5*time.Second {
		t.Errorf("NotifyTimeout = %v, want 5s", cfg.Scheduler.NotifyTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DATABASE_URL", "postgres://localhost/predictions")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SYNC_NAME_MATCH_THRESHOLD", "0.75")
	t.Setenv("SYNC_ID_BOUND_SLOP_DAYS", "5")
	t.Setenv("SCHEDULER_GRACE_PERIOD", "2m")
	t.Setenv("SCHEDULER_LOCK_NAME", "staging-scheduler")
	t.Setenv("SCHEDULER_NOTIFY_URL", "http://api:8080/sync/notify")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.ServerPort != 9090 {
		t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
	}
	if cfg.Sync.NameMatchThreshold != 0.75 {
		t.Errorf("NameMatchThreshold = %v, want 0.75", cfg.Sync.NameMatchThreshold)
	}
	if cfg.Sync.IDBoundSlop != 5*24*time.Hour {
		t.Errorf("IDBoundSlop = %v, want 120h", cfg.Sync.IDBoundSlop)
	}
	if cfg.Scheduler.GracePeriod != 2*time.Minute {
		t.Errorf("GracePeriod = %v, want 2m", cfg.Scheduler.GracePeriod)
	}
	if cfg.Scheduler.LockName != "staging-scheduler" {
		t.Errorf("LockName = %q, want staging-scheduler", cfg.Scheduler.LockName)
	}
	if cfg.Scheduler.NotifyURL != "http://api:8080/sync/notify" {
		t.Errorf("NotifyURL = %q", cfg.Scheduler.NotifyURL)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"non-numeric port", "SERVER_PORT", "eighty"},
		{"port out of range", "SERVER_PORT", "70000"},
		{"threshold above one", "SYNC_NAME_MATCH_THRESHOLD", "1.5"},
		{"zero threshold", "SYNC_NAME_MATCH_THRESHOLD", "0"},
		{"unparseable duration", "SCHEDULER_GRACE_PERIOD", "soon"},
		{"negative duration", "SCHEDULER_SAFETY_WAKEUP", "-10s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("DATABASE_URL", "postgres://localhost/predictions")
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("Load accepted %s=%q", tt.key, tt.value)
			}
		})
	}
}
