package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr=%q want=:8080", cfg.ListenAddr)
	}
	if cfg.StoreDriver != "memory" {
		t.Errorf("StoreDriver=%q want=memory", cfg.StoreDriver)
	}
	if cfg.ReadTimeout != 10*time.Second || cfg.WriteTimeout != 10*time.Second {
		t.Errorf("timeouts=%v/%v want 10s/10s", cfg.ReadTimeout, cfg.WriteTimeout)
	}
	if cfg.ConflictRetries != 0 {
		t.Errorf("ConflictRetries=%d want=0", cfg.ConflictRetries)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("READ_TIMEOUT", "3s")
	t.Setenv("MAX_REQUEST_BYTES", "1024")
	t.Setenv("TXN_CONFLICT_RETRIES", "2")
	t.Setenv("KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ListenAddr != ":9999" {
		t.Errorf("ListenAddr=%q", cfg.ListenAddr)
	}
	if cfg.ReadTimeout != 3*time.Second {
		t.Errorf("ReadTimeout=%v", cfg.ReadTimeout)
	}
	if cfg.MaxRequestBytes != 1024 {
		t.Errorf("MaxRequestBytes=%d", cfg.MaxRequestBytes)
	}
	if cfg.ConflictRetries != 2 {
		t.Errorf("ConflictRetries=%d", cfg.ConflictRetries)
	}
	if len(cfg.KafkaBrokers) != 2 {
		t.Errorf("KafkaBrokers=%v", cfg.KafkaBrokers)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("STORE_DRIVER", "cassandra")
	if _, err := Load(); err == nil {
		t.Fatal("want error for unknown store driver")
	}

	t.Setenv("STORE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")
	if _, err := Load(); err == nil {
		t.Fatal("want error for postgres without DATABASE_URL")
	}
}
