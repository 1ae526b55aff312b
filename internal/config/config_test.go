package config

import (
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "internmatch")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("JWT_ACCESS_SECRET", "access-secret")
	t.Setenv("JWT_REFRESH_SECRET", "refresh-secret")
}

func TestLoad_MissingRequired(t *testing.T) {
	t.Setenv("APP_NAME", "")
	t.Setenv("APP_ENV", "")
	t.Setenv("HTTP_PORT", "")
	t.Setenv("JWT_ACCESS_SECRET", "")
	t.Setenv("JWT_REFRESH_SECRET", "")

	_, err := Load()
	if err == nil {
		t.Fatalf("expected error for missing env")
	}
	if !strings.Contains(err.Error(), "APP_NAME") {
		t.Fatalf("expected APP_NAME in error, got %v", err)
	}
}

func TestLoad_ProvisionDefaults(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVISION_PROFILE_INSERT_ATTEMPTS", "")
	t.Setenv("PROVISION_RETRY_DELAY", "")
	t.Setenv("PROVISION_SETTLE_DELAY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Provision.ProfileInsertAttempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", cfg.Provision.ProfileInsertAttempts)
	}
	if cfg.Provision.RetryDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms retry delay, got %s", cfg.Provision.RetryDelay)
	}
	if cfg.Provision.SettleDelay != time.Second {
		t.Fatalf("expected 1s settle delay, got %s", cfg.Provision.SettleDelay)
	}
}

func TestLoad_ProvisionOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PROVISION_PROFILE_INSERT_ATTEMPTS", "5")
	t.Setenv("PROVISION_RETRY_DELAY", "250ms")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.Provision.ProfileInsertAttempts != 5 {
		t.Fatalf("expected 5 attempts, got %d", cfg.Provision.ProfileInsertAttempts)
	}
	if cfg.Provision.RetryDelay != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %s", cfg.Provision.RetryDelay)
	}
}

func TestLoad_InvalidDurationFallsBack(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("JWT_ACCESS_EXPIRES_IN", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if cfg.JWT.AccessExpiresIn != 15*time.Minute {
		t.Fatalf("expected default 15m, got %s", cfg.JWT.AccessExpiresIn)
	}
}
