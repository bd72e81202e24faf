package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("WRESTLEBOT_API_TOKEN", "test-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Store.APIURL != defaultAPIURL {
		t.Errorf("expected default API URL %q, got %q", defaultAPIURL, cfg.Store.APIURL)
	}
	if cfg.Bot.PollInterval != 15*time.Second {
		t.Errorf("expected 15s poll interval, got %v", cfg.Bot.PollInterval)
	}
	if cfg.Breaker.FailureThreshold != 5 {
		t.Errorf("expected failure threshold 5, got %d", cfg.Breaker.FailureThreshold)
	}
	if cfg.Breaker.Timeout != 300*time.Second {
		t.Errorf("expected breaker timeout 300s, got %v", cfg.Breaker.Timeout)
	}
	if cfg.Sources.WikipediaDelay != time.Second {
		t.Errorf("expected 1s wikipedia delay, got %v", cfg.Sources.WikipediaDelay)
	}
}

func TestValidateStoreRequiresCredentials(t *testing.T) {
	t.Setenv("WRESTLEBOT_API_TOKEN", "")
	t.Setenv("WRESTLEBOT_JWT_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.ValidateStore(); err == nil {
		t.Error("expected error when no credentials are configured")
	}

	cfg.Store.JWTSecret = "secret"
	if err := cfg.ValidateStore(); err != nil {
		t.Errorf("unexpected error with a signing secret: %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("WRESTLEBOT_API_TOKEN", "test-token")
	t.Setenv("WRESTLEBOT_POLL_INTERVAL_SECONDS", "60")
	t.Setenv("WIKIPEDIA_DELAY_MS", "500")
	t.Setenv("LOG_FORMAT", "text")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Bot.PollInterval != time.Minute {
		t.Errorf("expected 60s poll interval, got %v", cfg.Bot.PollInterval)
	}
	if cfg.Sources.WikipediaDelay != 500*time.Millisecond {
		t.Errorf("expected 500ms wikipedia delay, got %v", cfg.Sources.WikipediaDelay)
	}
	if cfg.Logging.Format != "text" {
		t.Errorf("expected text log format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"negative poll interval", "WRESTLEBOT_POLL_INTERVAL_SECONDS", "-5"},
		{"non-numeric delay", "WIKIPEDIA_DELAY_MS", "fast"},
		{"zero discovery limit", "WRESTLEBOT_DISCOVERY_LIMIT", "0"},
		{"bad log format", "LOG_FORMAT", "xml"},
		{"bad log level", "LOG_LEVEL", "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WRESTLEBOT_API_TOKEN", "test-token")
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
