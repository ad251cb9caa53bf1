package redis

import (
	"testing"

	"permitmap/internal/platform/config"
)

func TestNew(t *testing.T) {
	t.Run("empty URL means cache disabled", func(t *testing.T) {
		client, err := New(config.RedisConfig{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if client != nil {
			t.Fatal("expected nil client when no URL is configured")
		}
	})

	t.Run("malformed URL is an error", func(t *testing.T) {
		_, err := New(config.RedisConfig{URL: "not-a-redis-url"})
		if err == nil {
			t.Fatal("expected an error for a malformed URL")
		}
	})
}
