package server

import (
	"testing"
	"time"
)

// TestNewConfigDefaults verifies that the default configuration carries the
// documented fallback values.
func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()

	if cfg.Port != ":8080" {
		t.Errorf("expected default port :8080, got %q", cfg.Port)
	}
	if cfg.MaxMessageSize != 512 {
		t.Errorf("expected default max message size 512, got %d", cfg.MaxMessageSize)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("expected default burst 5, got %d", cfg.RateLimit.Burst)
	}
	if cfg.RateLimit.RefillInterval != time.Second {
		t.Errorf("expected default refill interval 1s, got %s", cfg.RateLimit.RefillInterval)
	}
}

// TestNewConfigFromEnvOverrides verifies that environment variables replace
// the defaults.
func TestNewConfigFromEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9999")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("MAX_MESSAGE_SIZE", "1024")
	t.Setenv("RATE_LIMIT_BURST", "10")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2")
	t.Setenv("LOG_FILE", "/tmp/salachat.log")
	t.Setenv("STATIC_DIR", "public")
	t.Setenv("AUTH_SECRET", "sekret")

	cfg := NewConfigFromEnv()

	if cfg.Port != ":9999" {
		t.Errorf("expected port :9999, got %q", cfg.Port)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[0] != "https://a.example" || cfg.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("unexpected origins %v", cfg.AllowedOrigins)
	}
	if cfg.MaxMessageSize != 1024 {
		t.Errorf("expected max message size 1024, got %d", cfg.MaxMessageSize)
	}
	if cfg.RateLimit.Burst != 10 {
		t.Errorf("expected burst 10, got %d", cfg.RateLimit.Burst)
	}
	if cfg.RateLimit.RefillInterval != 2*time.Second {
		t.Errorf("expected refill interval 2s, got %s", cfg.RateLimit.RefillInterval)
	}
	if cfg.LogFile != "/tmp/salachat.log" {
		t.Errorf("unexpected log file %q", cfg.LogFile)
	}
	if cfg.StaticDir != "public" {
		t.Errorf("unexpected static dir %q", cfg.StaticDir)
	}
	if cfg.AuthSecret != "sekret" {
		t.Errorf("unexpected auth secret %q", cfg.AuthSecret)
	}
}

// TestNewConfigFromEnvInvalidValuesFallBack verifies that malformed numeric
// settings keep their defaults instead of breaking startup.
func TestNewConfigFromEnvInvalidValuesFallBack(t *testing.T) {
	t.Setenv("MAX_MESSAGE_SIZE", "not-a-number")
	t.Setenv("RATE_LIMIT_BURST", "-3")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "zero")

	cfg := NewConfigFromEnv()

	if cfg.MaxMessageSize != 512 {
		t.Errorf("expected fallback max message size 512, got %d", cfg.MaxMessageSize)
	}
	if cfg.RateLimit.Burst != 5 {
		t.Errorf("expected fallback burst 5, got %d", cfg.RateLimit.Burst)
	}
	if cfg.RateLimit.RefillInterval != time.Second {
		t.Errorf("expected fallback refill interval 1s, got %s", cfg.RateLimit.RefillInterval)
	}
}

// TestSanitizeConfigRepairsZeroValues verifies that a zero-value Config is
// filled with usable defaults.
func TestSanitizeConfigRepairsZeroValues(t *testing.T) {
	cfg := sanitizeConfig(Config{})

	if cfg.Port == "" || cfg.MaxMessageSize <= 0 || cfg.RateLimit.Burst <= 0 || cfg.RateLimit.RefillInterval <= 0 {
		t.Errorf("sanitizeConfig left unusable values: %+v", cfg)
	}
}
