package config

import (
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "JWT_SECRET", "TOKEN_TTL", "RATE_LIMIT", "RATE_BURST"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	if cfg.Port != "8080" || cfg.DBDriver != "mysql" {
		t.Errorf("port/driver = %s/%s", cfg.Port, cfg.DBDriver)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if !cfg.UsingDefaultSecret() {
		t.Error("expected default secret")
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TOKEN_TTL", "30m")
	t.Setenv("RATE_LIMIT", "2.5")
	t.Setenv("RATE_BURST", "not-a-number")

	cfg := LoadConfig()
	if cfg.DBDriver != "sqlite" || cfg.JWTSecret != "s3cret" {
		t.Errorf("driver/secret = %s/%s", cfg.DBDriver, cfg.JWTSecret)
	}
	if cfg.TokenTTL != 30*time.Minute {
		t.Errorf("TokenTTL = %s", cfg.TokenTTL)
	}
	if cfg.RateLimit != 2.5 {
		t.Errorf("RateLimit = %v", cfg.RateLimit)
	}
	if cfg.RateBurst != 20 {
		t.Errorf("RateBurst = %d, want fallback 20", cfg.RateBurst)
	}
	if cfg.UsingDefaultSecret() {
		t.Error("secret from env reported as default")
	}
}
