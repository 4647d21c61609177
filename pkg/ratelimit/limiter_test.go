package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestTokenBucketBurst(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tb := NewTokenBucket(60, 3)
	tb.now = func() time.Time { return clock }
	tb.lastRefill = clock

	for i := 0; i < 3; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}
	if tb.Allow() {
		t.Error("Expected bucket to be exhausted after burst")
	}

	// 60 rpm refills one token per second
	clock = clock.Add(time.Second)
	if !tb.Allow() {
		t.Error("Expected one token after a second")
	}
	if tb.Allow() {
		t.Error("Expected only one token to be refilled")
	}

	clock = clock.Add(time.Hour)
	tb.refill()
	if tb.tokens != tb.capacity {
		t.Errorf("Expected refill to cap at capacity, got %v", tb.tokens)
	}

	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}

func TestTokenBucketWait(t *testing.T) {
	tb := NewTokenBucket(6000, 1)

	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait should not block: %v", err)
	}

	start := time.Now()
	if err := tb.Wait(context.Background()); err != nil {
		t.Fatalf("Wait returned error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Error("Wait took far longer than one refill period")
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, 1)
	tb.Allow()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err != context.DeadlineExceeded {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
