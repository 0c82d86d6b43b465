package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoiseLFSRStepFormula(t *testing.T) {
	c := &Chip{ngNoise: 1}
	ngUpdate(c, 1)

	want := uint32((1 >> 1) | ((((1 >> 14) ^ 1) & 1) << 22))
	assert.Equal(t, want, c.ngNoise)
}

func TestNoiseLFSRPeriodIsTwoToTwentyThreeMinusOne(t *testing.T) {
	c := &Chip{ngNoise: 1}
	const period = (1 << 23) - 1

	seen := c.ngNoise
	for i := 0; i < period; i++ {
		ngUpdate(c, 1)
		require.NotEqual(t, uint32(0), c.ngNoise, "LFSR must never reach the all-zero lockup state")
	}
	assert.Equal(t, seen, c.ngNoise, "after exactly 2^23-1 steps the LFSR must return to its starting state")
}

func TestNoiseLFSRStaysWithin23Bits(t *testing.T) {
	c := &Chip{ngNoise: 1}
	for i := 0; i < 10000; i++ {
		ngUpdate(c, 1)
		assert.Zero(t, c.ngNoise&^uint32(0x7FFFFF), "noise state must fit in 23 bits")
	}
}
