package timeutil

import (
	"testing"
	"time"
)

func TestRealClock_Now(t *testing.T) {
	clock := RealClock{}
	before := time.Now()
	now := clock.Now()
	after := time.Now()

	if now.Before(before) || now.After(after) {
		t.Errorf("Now() = %v, expected between %v and %v", now, before, after)
	}
}

func TestRealClock_Since(t *testing.T) {
	clock := RealClock{}
	past := time.Now().Add(-time.Second)
	d := clock.Since(past)

	if d < time.Second {
		t.Errorf("Since() returned %v, expected >= 1s", d)
	}
}

func TestMockClock_Now(t *testing.T) {
	fixedTime := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)
	clock := NewMockClock(fixedTime)

	if now := clock.Now(); !now.Equal(fixedTime) {
		t.Errorf("got %v, want %v", now, fixedTime)
	}
	if now := clock.Now(); !now.Equal(fixedTime) {
		t.Errorf("clock moved without auto-advance: got %v", now)
	}
	if clock.Reads() != 2 {
		t.Errorf("Reads() = %d, want 2", clock.Reads())
	}
}

func TestMockClock_SetAndAdvance(t *testing.T) {
	clock := NewMockClock(time.Time{})
	start := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	clock.Set(start)
	clock.Advance(90 * time.Second)

	if got := clock.Since(start); got != 90*time.Second {
		t.Errorf("Since() = %v, want 90s", got)
	}
}

func TestMockClock_AutoAdvance(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := NewMockClock(start)
	clock.SetAutoAdvance(10 * time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	if !first.Equal(start) {
		t.Errorf("first read = %v, want %v", first, start)
	}
	if d := second.Sub(first); d != 10*time.Millisecond {
		t.Errorf("step = %v, want 10ms", d)
	}
	// Since does not advance.
	if d := clock.Since(start); d != 20*time.Millisecond {
		t.Errorf("Since() = %v, want 20ms", d)
	}
	if d := clock.Since(start); d != 20*time.Millisecond {
		t.Errorf("Since() advanced the clock: %v", d)
	}
}
