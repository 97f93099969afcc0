package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew_ReturnsUTC(t *testing.T) {
	now := New().Now()
	assert.Equal(t, time.UTC, now.Location())
}

func TestFixed_SetAndAdvance(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	c := NewFixed(start)
	assert.Equal(t, start, c.Now())

	c.Advance(25 * time.Hour)
	assert.Equal(t, start.Add(25*time.Hour), c.Now())

	later := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	c.Set(later)
	assert.Equal(t, later, c.Now())
}
