package app

import (
	"testing"
	"time"
)

func TestLoginThrottle(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	throttle := newLoginThrottle(15 * time.Second)
	throttle.now = func() time.Time { return clock }

	if got := throttle.Remaining("maria"); got != 0 {
		t.Fatalf("fresh username: remaining = %v, want 0", got)
	}

	throttle.RecordFailure("maria")
	if got := throttle.Remaining("maria"); got != 15*time.Second {
		t.Fatalf("right after failure: remaining = %v, want 15s", got)
	}

	clock = clock.Add(10 * time.Second)
	if got := throttle.Remaining("maria"); got != 5*time.Second {
		t.Fatalf("10s later: remaining = %v, want 5s", got)
	}

	// Other usernames are unaffected.
	if got := throttle.Remaining("jorge"); got != 0 {
		t.Fatalf("other username: remaining = %v, want 0", got)
	}

	clock = clock.Add(5 * time.Second)
	if got := throttle.Remaining("maria"); got != 0 {
		t.Fatalf("after cooldown: remaining = %v, want 0", got)
	}
}

func TestLoginThrottleClear(t *testing.T) {
	throttle := newLoginThrottle(15 * time.Second)
	throttle.RecordFailure("maria")
	throttle.Clear("maria")
	if got := throttle.Remaining("maria"); got != 0 {
		t.Fatalf("after clear: remaining = %v, want 0", got)
	}
}

func TestLoginThrottleRestartsOnRepeatFailure(t *testing.T) {
	clock := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	throttle := newLoginThrottle(15 * time.Second)
	throttle.now = func() time.Time { return clock }

	throttle.RecordFailure("maria")
	clock = clock.Add(14 * time.Second)
	throttle.RecordFailure("maria")
	clock = clock.Add(10 * time.Second)
	if got := throttle.Remaining("maria"); got != 5*time.Second {
		t.Fatalf("cooldown should restart on repeat failure: remaining = %v, want 5s", got)
	}
}
