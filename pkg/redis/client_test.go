package redis

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Adithya-Monish-Kumar-K/keyword-search/pkg/config"
)

func TestIsNilError(t *testing.T) {
	if !IsNilError(redis.Nil) {
		t.Error("redis.Nil should be a nil error")
	}
	if !IsNilError(fmt.Errorf("get: %w", redis.Nil)) {
		t.Error("wrapped redis.Nil should be a nil error")
	}
	if IsNilError(fmt.Errorf("connection refused")) {
		t.Error("other errors are not nil errors")
	}
}

func TestClientRoundTrip(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set, skipping redis test")
	}
	client, err := NewClient(config.RedisConfig{Addr: addr, PoolSize: 2})
	if err != nil {
		t.Skipf("redis unavailable: %v", err)
	}
	defer client.Close()

	ctx := context.Background()
	prefix := fmt.Sprintf("lse:test:%d:", time.Now().UnixNano())
	for i := 0; i < 3; i++ {
		if err := client.Set(ctx, fmt.Sprintf("%s%d", prefix, i), "v", time.Minute); err != nil {
			t.Fatal(err)
		}
	}
	v, err := client.Get(ctx, prefix+"0")
	if err != nil || v != "v" {
		t.Fatalf("Get = %q, %v", v, err)
	}
	n, err := client.FlushByPattern(ctx, prefix+"*")
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("deleted %d keys, want 3", n)
	}
	if _, err := client.Get(ctx, prefix+"1"); !IsNilError(err) {
		t.Errorf("expected nil error after flush, got %v", err)
	}
}
