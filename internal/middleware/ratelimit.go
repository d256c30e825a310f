// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"sync"
	"time"
)

// limiterEntry tracks recent events for a single client.
type limiterEntry struct {
	mu         sync.Mutex
	timestamps []time.Time
}

// RateLimiter counts events per client IP in a sliding window. The auth
// gate records failed logins with it and refuses a client once the limit
// is reached.
type RateLimiter struct {
	mu      sync.RWMutex
	clients map[string]*limiterEntry
	limit   int           // max events per window
	window  time.Duration // sliding window duration
	stopCh  chan struct{}
	once    sync.Once
}

// NewRateLimiter creates a rate limiter that tolerates limit events per
// window. It starts a background goroutine to clean up expired entries.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*limiterEntry),
		limit:   limit,
		window:  window,
		stopCh:  make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.cleanup()
			case <-rl.stopCh:
				return
			}
		}
	}()

	return rl
}

// Stop terminates the background cleanup goroutine. Safe to call twice.
func (rl *RateLimiter) Stop() {
	rl.once.Do(func() { close(rl.stopCh) })
}

// Blocked reports whether key has reached the limit within the window.
func (rl *RateLimiter) Blocked(key string) bool {
	rl.mu.RLock()
	entry, exists := rl.clients[key]
	rl.mu.RUnlock()
	if !exists {
		return false
	}

	cutoff := time.Now().Add(-rl.window)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.timestamps = prune(entry.timestamps, cutoff)
	return len(entry.timestamps) >= rl.limit
}

// Record adds one event for key.
func (rl *RateLimiter) Record(key string) {
	rl.mu.RLock()
	entry, exists := rl.clients[key]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		// Double-check after acquiring write lock.
		entry, exists = rl.clients[key]
		if !exists {
			entry = &limiterEntry{}
			rl.clients[key] = entry
		}
		rl.mu.Unlock()
	}

	now := time.Now()

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.timestamps = append(prune(entry.timestamps, now.Add(-rl.window)), now)
}

// Reset forgets all events for key.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.clients, key)
}

// cleanup removes entries with no recent activity.
func (rl *RateLimiter) cleanup() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, entry := range rl.clients {
		entry.mu.Lock()
		entry.timestamps = prune(entry.timestamps, cutoff)
		empty := len(entry.timestamps) == 0
		entry.mu.Unlock()

		if empty {
			delete(rl.clients, key)
		}
	}
}

// prune drops timestamps at or before cutoff, reusing the backing array.
func prune(timestamps []time.Time, cutoff time.Time) []time.Time {
	valid := timestamps[:0]
	for _, ts := range timestamps {
		if ts.After(cutoff) {
			valid = append(valid, ts)
		}
	}
	return valid
}
