package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestFixedInterval(t *testing.T) {
	fi := NewFixedInterval(200 * time.Millisecond)

	// First request always allowed
	if !fi.Allow() {
		t.Error("Expected first request to be allowed")
	}

	// Immediate second request denied
	if fi.Allow() {
		t.Error("Expected second request to be denied within the interval")
	}

	// Allowed again after the interval passes
	time.Sleep(250 * time.Millisecond)
	if !fi.Allow() {
		t.Error("Expected request to be allowed after the interval")
	}

	// Reset clears pacing state
	fi.Reset()
	if !fi.Allow() {
		t.Error("Expected request to be allowed after reset")
	}
}

func TestFixedIntervalWait(t *testing.T) {
	fi := NewFixedInterval(100 * time.Millisecond)

	// The first wait pauses like every other: the pause guards the gap
	// before the next request, not the time since a previous one.
	for i := 0; i < 2; i++ {
		start := time.Now()
		if err := fi.Wait(context.Background()); err != nil {
			t.Fatalf("Wait %d failed: %v", i, err)
		}
		if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
			t.Errorf("Expected wait %d of about 100ms, waited %v", i, elapsed)
		}
	}
}

func TestFixedIntervalWaitCancelled(t *testing.T) {
	fi := NewFixedInterval(5 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := fi.Wait(ctx)
	if err == nil {
		t.Fatal("Expected wait to fail when context expires")
	}
	if time.Since(start) > time.Second {
		t.Error("Expected wait to return promptly on cancellation")
	}
}

func TestFixedIntervalZero(t *testing.T) {
	fi := NewFixedInterval(0)

	for i := 0; i < 3; i++ {
		if err := fi.Wait(context.Background()); err != nil {
			t.Fatalf("Zero interval wait %d failed: %v", i, err)
		}
	}
}

func TestTokenBucket(t *testing.T) {
	tb := NewTokenBucket(5, time.Second)

	// Test initial capacity
	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Errorf("Expected token %d to be available", i+1)
		}
	}

	// Test exhaustion
	if tb.Allow() {
		t.Error("Expected no more tokens to be available")
	}

	// Test refill after waiting
	time.Sleep(time.Second + 100*time.Millisecond)
	if !tb.Allow() {
		t.Error("Expected tokens to be refilled after waiting")
	}

	// Test reset
	tb.tokens = 0
	tb.Reset()
	if tb.tokens != tb.capacity {
		t.Error("Expected tokens to be reset to capacity")
	}
}

func TestTokenBucketWaitCancelled(t *testing.T) {
	tb := NewTokenBucket(1, time.Hour)
	if !tb.Allow() {
		t.Fatal("Expected first token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := tb.Wait(ctx); err == nil {
		t.Error("Expected wait to fail when context expires before refill")
	}
}
