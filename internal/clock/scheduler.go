// Package clock paces real-time playback of a synchronous sample stream
// against the wall clock, the way a live audio driver loop must: the
// chip's Tick advances exactly one sample with no internal notion of
// wall-clock time, so something above it has to decide when to call it.
package clock

import (
	"time"
)

// SampleClock paces a producer that generates samples faster than
// real time (or needs governing against a fixed-rate callback) down
// to the wall-clock rate implied by SampleRate.
//
// It tracks a running sample counter against the wall-clock time the
// clock was started, and reports how many samples are "due" on each
// check — mirroring the donor's cycle-counter scheduling style
// (component run whenever Cycle has passed its NextCycle mark) but
// collapsed to the single producer this module drives: the OPL3 tick
// loop.
type SampleClock struct {
	SampleRate uint32

	start    time.Time
	produced uint64
}

// NewSampleClock creates a clock paced to sampleRate samples/sec.
func NewSampleClock(sampleRate uint32) *SampleClock {
	return &SampleClock{SampleRate: sampleRate}
}

// Start (re)anchors the clock's wall-clock origin to now.
func (c *SampleClock) Start() {
	c.start = time.Now()
	c.produced = 0
}

// Due returns how many samples should have been produced by now,
// given SampleRate and the elapsed wall-clock time since Start.
func (c *SampleClock) Due() uint64 {
	elapsed := time.Since(c.start)
	return uint64(elapsed.Seconds() * float64(c.SampleRate))
}

// Advance records that n more samples were produced.
func (c *SampleClock) Advance(n uint64) {
	c.produced += n
}

// Produced returns the total sample count advanced so far.
func (c *SampleClock) Produced() uint64 {
	return c.produced
}

// Backlog returns how many samples are due but not yet produced. A
// live-playback loop calls Tick this many times before sleeping
// again; a render-to-file loop ignores this and just drains as fast
// as possible.
func (c *SampleClock) Backlog() uint64 {
	due := c.Due()
	if due <= c.produced {
		return 0
	}
	return due - c.produced
}

// SleepUntilDue blocks until at least one more sample is due,
// returning the size of the resulting backlog. Used by a live
// playback loop to avoid busy-spinning ahead of the audio device.
func (c *SampleClock) SleepUntilDue() uint64 {
	backlog := c.Backlog()
	for backlog == 0 {
		time.Sleep(time.Millisecond)
		backlog = c.Backlog()
	}
	return backlog
}

// Reset rewinds the clock to a fresh start, as if newly constructed.
func (c *SampleClock) Reset() {
	c.Start()
}
