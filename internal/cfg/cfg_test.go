package cfg

import (
	"errors"
	"testing"
	"time"

	"github.com/DRSN-tech/bakery-orders/pkg/e"
	"github.com/DRSN-tech/bakery-orders/pkg/logger"
)

func setRequired(t *testing.T) {
	t.Setenv("POSTGRES_USER", "bakery")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "orders")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load(logger.NewNopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if c.Http.Port != "8080" {
		t.Errorf("http port = %q, want 8080", c.Http.Port)
	}
	if c.Http.SyncSecret != "" {
		t.Errorf("sync secret must be empty by default, got %q", c.Http.SyncSecret)
	}
	if c.Redis.CatalogTTL != 3*time.Minute {
		t.Errorf("catalog ttl = %v, want 3m", c.Redis.CatalogTTL)
	}
	if len(c.Kafka.Brokers) != 2 || c.Kafka.Brokers[1] != "kafka-2:9092" {
		t.Errorf("brokers = %v", c.Kafka.Brokers)
	}
	if c.Reminder.Lead != 48*time.Hour {
		t.Errorf("reminder lead = %v, want 48h", c.Reminder.Lead)
	}
	if c.Reminder.Enabled() {
		t.Error("reminders must be disabled without telegram credentials")
	}
	if c.Draft.Dir != "data/draft" {
		t.Errorf("draft dir = %q", c.Draft.Dir)
	}
	if c.Db.DSN() != "host=localhost port=5432 user=bakery password=secret dbname=orders sslmode=disable" {
		t.Errorf("dsn = %q", c.Db.DSN())
	}
}

func TestLoadMissingPostgresUser(t *testing.T) {
	setRequired(t)
	t.Setenv("POSTGRES_USER", "")

	if _, err := Load(logger.NewNopLogger()); err == nil {
		t.Fatal("expected error for missing POSTGRES_USER")
	}
}

func TestParseIntEnv(t *testing.T) {
	t.Setenv("OUTBOX_BATCH_SIZE", "abc")

	v, err := parseIntEnv("OUTBOX_BATCH_SIZE", 10)
	if !errors.Is(err, e.ErrIncorrectEnvVariable) {
		t.Fatalf("expected ErrIncorrectEnvVariable, got %v", err)
	}
	if v != 10 {
		t.Fatalf("expected default on error, got %d", v)
	}
}

func TestLoadSyncSecret(t *testing.T) {
	setRequired(t)
	t.Setenv("SYNC_WEBHOOK_SECRET", "s3cret")

	c, err := Load(logger.NewNopLogger())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Http.SyncSecret != "s3cret" {
		t.Errorf("sync secret = %q", c.Http.SyncSecret)
	}
}
