package cachecheck

import (
	"context"
	"testing"
	"time"
)

func TestRun_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Port 1 is never a Redis instance; the dial fails immediately.
	steps, err := Run(ctx, "127.0.0.1:1")
	if err == nil {
		t.Fatal("expected connection error")
	}
	if len(steps) != 0 {
		t.Errorf("steps = %v, want none before the first failure", steps)
	}
}
