// Package cache holds explicit, caller-owned expiring values.
package cache

import "time"

// Entry is a value with an absolute expiry. The zero Entry is expired.
type Entry[T any] struct {
	Value     T
	ExpiresAt time.Time
}

// NewEntry stores v until now+ttl.
func NewEntry[T any](v T, ttl time.Duration, now time.Time) Entry[T] {
	return Entry[T]{Value: v, ExpiresAt: now.Add(ttl)}
}

// Valid reports whether the entry holds a value that has not expired at now.
func (e Entry[T]) Valid(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && now.Before(e.ExpiresAt)
}

// Remaining returns the time left before expiry, or zero when expired.
func (e Entry[T]) Remaining(now time.Time) time.Duration {
	if !e.Valid(now) {
		return 0
	}
	return e.ExpiresAt.Sub(now)
}
