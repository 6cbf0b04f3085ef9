package config_test

import (
	"testing"
	"time"

	cfg "github.com/Gunvolt24/resto-orders/config"
)

// TestLoadWithPrefix_Defaults — проверка значений по умолчанию.
func TestLoadWithPrefix_Defaults(t *testing.T) {
	t.Parallel()

	c, err := cfg.LoadWithPrefix("ORDERS_TEST_DEFAULTS")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	// HTTP
	if c.HTTP.Addr != ":8080" {
		t.Fatalf("HTTP.Addr: want :8080, got %q", c.HTTP.Addr)
	}
	if c.HTTP.GinMode != "debug" {
		t.Fatalf("HTTP.GinMode: want debug, got %q", c.HTTP.GinMode)
	}
	if c.HTTP.ReadTimeout != 10*time.Second || c.HTTP.WriteTimeout != 10*time.Second {
		t.Fatalf("HTTP timeouts wrong: %+v", c.HTTP)
	}
	if c.HTTP.HandlerTimeout != 3*time.Second || c.HTTP.GracefulTimeout != 5*time.Second {
		t.Fatalf("HTTP handler/graceful timeouts wrong: %+v", c.HTTP)
	}

	// Postgres
	if c.Postgres.DSN == "" {
		t.Fatalf("Postgres.DSN should have default, got empty")
	}
	if c.Postgres.MaxConns != 10 {
		t.Fatalf("Postgres.MaxConns: want 10, got %d", c.Postgres.MaxConns)
	}

	// Redis / Cache
	if c.Redis.Addr != "redis:6379" {
		t.Fatalf("Redis.Addr: want redis:6379, got %q", c.Redis.Addr)
	}
	if c.Redis.OpTimeout != 300*time.Millisecond {
		t.Fatalf("Redis.OpTimeout: want 300ms, got %v", c.Redis.OpTimeout)
	}
	if c.Cache.Key != "orders:active" {
		t.Fatalf("Cache.Key: want orders:active, got %q", c.Cache.Key)
	}
	if c.Cache.TTL != 30*time.Second {
		t.Fatalf("Cache.TTL: want 30s, got %v", c.Cache.TTL)
	}

	// Retention
	if c.Retention.Interval != 24*time.Hour {
		t.Fatalf("Retention.Interval: want 24h, got %v", c.Retention.Interval)
	}
	if c.Retention.AgeDays != 30 {
		t.Fatalf("Retention.AgeDays: want 30, got %d", c.Retention.AgeDays)
	}

	// Kafka
	if c.Kafka.Topic != "orders.create" || c.Kafka.GroupID != "resto-orders" {
		t.Fatalf("Kafka defaults wrong: %+v", c.Kafka)
	}
	if c.Kafka.StartOffset != "last" {
		t.Fatalf("Kafka.StartOffset: want last, got %q", c.Kafka.StartOffset)
	}

	// Tracing
	if c.Tracing.Enabled {
		t.Fatalf("Tracing.Enabled: want false by default")
	}
	if c.Tracing.ServiceName != "resto-orders" || c.Tracing.SampleRatio != 1 {
		t.Fatalf("Tracing defaults wrong: %+v", c.Tracing)
	}
}

// TestLoadWithPrefix_Overrides — переменные окружения перекрывают дефолты.
func TestLoadWithPrefix_Overrides(t *testing.T) {
	t.Setenv("ORDERS_TEST_OVR_HTTP_ADDR", ":9090")
	t.Setenv("ORDERS_TEST_OVR_CACHE_TTL", "45s")
	t.Setenv("ORDERS_TEST_OVR_RETENTION_AGE_DAYS", "7")
	t.Setenv("ORDERS_TEST_OVR_REDIS_ADDR", "localhost:6380")

	c, err := cfg.LoadWithPrefix("ORDERS_TEST_OVR")
	if err != nil {
		t.Fatalf("LoadWithPrefix error: %v", err)
	}

	if c.HTTP.Addr != ":9090" {
		t.Fatalf("HTTP.Addr: want :9090, got %q", c.HTTP.Addr)
	}
	if c.Cache.TTL != 45*time.Second {
		t.Fatalf("Cache.TTL: want 45s, got %v", c.Cache.TTL)
	}
	if c.Retention.AgeDays != 7 {
		t.Fatalf("Retention.AgeDays: want 7, got %d", c.Retention.AgeDays)
	}
	if c.Redis.Addr != "localhost:6380" {
		t.Fatalf("Redis.Addr: want localhost:6380, got %q", c.Redis.Addr)
	}
}
