package auth

import (
	"sync"
	"time"
)

// LoginLimiter tracks failed logins per username and locks a name out after
// too many failures inside the attempt window. State is in-memory only; a
// restart clears it, which is acceptable for a brute-force brake.
type LoginLimiter struct {
	mu      sync.Mutex
	state   map[string]*attemptState
	max     int
	window  time.Duration
	lockout time.Duration
	now     func() time.Time // test seam
}

type attemptState struct {
	failures    int
	lastAttempt time.Time
	lockedUntil time.Time
}

func NewLoginLimiter(max int, window, lockout time.Duration) *LoginLimiter {
	return &LoginLimiter{
		state:   make(map[string]*attemptState),
		max:     max,
		window:  window,
		lockout: lockout,
		now:     time.Now,
	}
}

// Allow reports whether username may attempt a login right now and, when
// locked, how long remains.
func (l *LoginLimiter) Allow(username string) (bool, time.Duration) {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[username]
	if !ok {
		return true, 0
	}

	if now.Before(st.lockedUntil) {
		return false, st.lockedUntil.Sub(now)
	}

	// lockout elapsed, or attempt window expired: start fresh
	if !st.lockedUntil.IsZero() && !now.Before(st.lockedUntil) {
		st.failures = 0
		st.lockedUntil = time.Time{}
	}
	if !st.lastAttempt.IsZero() && now.Sub(st.lastAttempt) > l.window {
		st.failures = 0
	}

	return true, 0
}

// RecordAttempt registers the outcome of a login attempt. It returns true
// when this failure triggered a lockout.
func (l *LoginLimiter) RecordAttempt(username string, success bool) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[username]
	if !ok {
		st = &attemptState{}
		l.state[username] = st
	}

	if success {
		st.failures = 0
		st.lockedUntil = time.Time{}
		st.lastAttempt = now
		return false
	}

	st.failures++
	st.lastAttempt = now
	if st.failures >= l.max {
		st.lockedUntil = now.Add(l.lockout)
		return true
	}
	return false
}

// Remaining returns how many failures are left before lockout.
func (l *LoginLimiter) Remaining(username string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.state[username]
	if !ok {
		return l.max
	}
	rem := l.max - st.failures
	if rem < 0 {
		return 0
	}
	return rem
}
