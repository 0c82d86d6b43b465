package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSampleClockBacklogGrowsWithElapsedTime(t *testing.T) {
	c := NewSampleClock(49716)
	c.Start()

	time.Sleep(5 * time.Millisecond)
	backlog := c.Backlog()
	assert.Greater(t, backlog, uint64(0))
}

func TestSampleClockAdvanceDrainsBacklog(t *testing.T) {
	c := NewSampleClock(49716)
	c.Start()

	time.Sleep(5 * time.Millisecond)
	due := c.Due()
	c.Advance(due)

	assert.Equal(t, due, c.Produced())
	assert.Equal(t, uint64(0), c.Backlog())
}

func TestSampleClockResetZeroesProduced(t *testing.T) {
	c := NewSampleClock(49716)
	c.Start()
	c.Advance(1000)
	assert.Equal(t, uint64(1000), c.Produced())

	c.Reset()
	assert.Equal(t, uint64(0), c.Produced())
}
