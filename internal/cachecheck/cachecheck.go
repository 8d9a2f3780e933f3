// Package cachecheck probes the Redis cache service: a ping followed by
// a set/get/del roundtrip on a throwaway key.
package cachecheck

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const probeKey = "n8nctl:healthcheck"

// Run checks connectivity to the Redis instance at addr. It returns the
// steps that succeeded, in order, and the first error encountered.
func Run(ctx context.Context, addr string) ([]string, error) {
	client := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	})
	defer client.Close()

	var steps []string

	if err := client.Ping(ctx).Err(); err != nil {
		return steps, fmt.Errorf("redis connection failed: %w", err)
	}
	steps = append(steps, "connection successful (PING)")

	if err := client.Set(ctx, probeKey, "test_value", time.Minute).Err(); err != nil {
		return steps, fmt.Errorf("redis SET failed: %w", err)
	}
	value, err := client.Get(ctx, probeKey).Result()
	if err != nil {
		return steps, fmt.Errorf("redis GET failed: %w", err)
	}
	if value != "test_value" {
		return steps, fmt.Errorf("redis roundtrip returned %q, want %q", value, "test_value")
	}
	steps = append(steps, "read/write test successful")

	if err := client.Del(ctx, probeKey).Err(); err != nil {
		return steps, fmt.Errorf("redis DEL failed: %w", err)
	}
	steps = append(steps, "cleanup successful (DEL)")

	return steps, nil
}
