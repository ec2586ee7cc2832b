package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFixedClockAt(t *testing.T) {
	c := NewFixedClockAt("2024-03-01")
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.Now())
	assert.Equal(t, c.Now(), c.Now(), "Now does not move on its own")
}

func TestFixedClockAdvance(t *testing.T) {
	c := NewFixedClockAt("2024-03-01")
	c.Advance(24 * time.Hour)
	assert.Equal(t, "2024-03-02", c.Now().Format("2006-01-02"))

	c.Set(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, 2025, c.Now().Year())
}

func TestFixedClockInvalidDatePanics(t *testing.T) {
	assert.Panics(t, func() { NewFixedClockAt("not-a-date") })
}

func TestFixedClockConcurrentAdvance(t *testing.T) {
	c := NewFixedClockAt("2024-01-01")
	start := c.Now()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Advance(time.Minute)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50*time.Minute, c.Now().Sub(start))
}
