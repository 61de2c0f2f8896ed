package app

import (
	"sync"
	"time"
)

// loginCooldown is how long a username is locked out after a failed
// credential check.
const loginCooldown = 15 * time.Second

// loginThrottle tracks the last failed login per username. Stale entries
// are pruned on access, so no background sweeper is needed.
type loginThrottle struct {
	mu       sync.Mutex
	cooldown time.Duration
	failures map[string]time.Time
	now      func() time.Time
}

func newLoginThrottle(cooldown time.Duration) *loginThrottle {
	if cooldown <= 0 {
		cooldown = loginCooldown
	}
	return &loginThrottle{
		cooldown: cooldown,
		failures: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Remaining returns how long the username must still wait, or zero when
// an attempt is allowed.
func (t *loginThrottle) Remaining(username string) time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()

	last, ok := t.failures[username]
	if !ok {
		return 0
	}
	elapsed := t.now().Sub(last)
	if elapsed >= t.cooldown {
		delete(t.failures, username)
		return 0
	}
	return t.cooldown - elapsed
}

// RecordFailure starts (or restarts) the cooldown for the username.
func (t *loginThrottle) RecordFailure(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.failures[username] = now
	for name, last := range t.failures {
		if now.Sub(last) >= t.cooldown {
			delete(t.failures, name)
		}
	}
}

// Clear removes any cooldown for the username.
func (t *loginThrottle) Clear(username string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.failures, username)
}
