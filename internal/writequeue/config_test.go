package writequeue

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	// Environment untouched: everything stays zero until New applies defaults.
	if cfg.Shards != 0 || cfg.QueueSize != 0 {
		t.Fatalf("expected zero config, got %+v", cfg)
	}
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("WQ_SHARDS", "8")
	t.Setenv("WQ_QUEUE_SIZE", "256")
	t.Setenv("WQ_ENQUEUE_TIMEOUT", "250ms")
	t.Setenv("WQ_MAX_ATTEMPTS", "6")
	t.Setenv("WQ_BASE_BACKOFF", "50ms")
	t.Setenv("WQ_MAX_INTERVAL", "5s")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Shards != 8 {
		t.Errorf("Shards = %d, want 8", cfg.Shards)
	}
	if cfg.QueueSize != 256 {
		t.Errorf("QueueSize = %d, want 256", cfg.QueueSize)
	}
	if cfg.EnqueueTimeout != 250*time.Millisecond {
		t.Errorf("EnqueueTimeout = %v, want 250ms", cfg.EnqueueTimeout)
	}
	if cfg.MaxAttempts != 6 {
		t.Errorf("MaxAttempts = %d, want 6", cfg.MaxAttempts)
	}
	if cfg.BaseBackoff != 50*time.Millisecond {
		t.Errorf("BaseBackoff = %v, want 50ms", cfg.BaseBackoff)
	}
	if cfg.MaxInterval != 5*time.Second {
		t.Errorf("MaxInterval = %v, want 5s", cfg.MaxInterval)
	}
}

func TestLoadConfig_InvalidValue(t *testing.T) {
	t.Setenv("WQ_SHARDS", "not-a-number")
	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error for malformed WQ_SHARDS")
	}
}
