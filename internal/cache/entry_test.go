package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEntry(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	var zero Entry[string]
	assert.False(t, zero.Valid(now))
	assert.Zero(t, zero.Remaining(now))

	e := NewEntry("token", 5*time.Minute, now)
	assert.True(t, e.Valid(now))
	assert.True(t, e.Valid(now.Add(4*time.Minute)))
	assert.Equal(t, time.Minute, e.Remaining(now.Add(4*time.Minute)))
	assert.False(t, e.Valid(now.Add(5*time.Minute)))
	assert.False(t, e.Valid(now.Add(time.Hour)))
	assert.Equal(t, "token", e.Value)
}
