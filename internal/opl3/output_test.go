package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClamp16SaturatesBothDirections(t *testing.T) {
	assert.Equal(t, int16(32767), clamp16(40000))
	assert.Equal(t, int16(-32768), clamp16(-40000))
	assert.Equal(t, int16(1234), clamp16(1234))
}

func TestOgClearZeroesAllAccumulators(t *testing.T) {
	c := &Chip{ogAccA: 1, ogAccB: 2, ogAccC: 3, ogAccD: 4}
	ogClear(c)
	assert.Zero(t, c.ogAccA)
	assert.Zero(t, c.ogAccB)
	assert.Zero(t, c.ogAccC)
	assert.Zero(t, c.ogAccD)
}

func TestOgUpdateDelaysBAndDByOneTick(t *testing.T) {
	c := &Chip{}
	c.ogAccA, c.ogAccB, c.ogAccC, c.ogAccD = 100, 200, 300, 400
	ogUpdate(c)

	// First tick: A/C land immediately, B/D still show the zeroed
	// pre-tick delay register.
	assert.Equal(t, int16(100), c.ogOutA)
	assert.Equal(t, int16(300), c.ogOutC)
	assert.Equal(t, int16(0), c.ogOutB)
	assert.Equal(t, int16(0), c.ogOutD)

	ogClear(c)
	c.ogAccB, c.ogAccD = 200, 400
	ogUpdate(c)

	assert.Equal(t, int16(200), c.ogOutB)
	assert.Equal(t, int16(400), c.ogOutD)
}

func TestOgAccumulatorsZeroAtStartAndAfterTickOnSilentChip(t *testing.T) {
	c := NewChip(nil)
	assert.Zero(t, c.ogAccA)
	assert.Zero(t, c.ogAccB)
	assert.Zero(t, c.ogAccC)
	assert.Zero(t, c.ogAccD)

	c.Tick()
	assert.Zero(t, c.ogAccA)
	assert.Zero(t, c.ogAccB)
	assert.Zero(t, c.ogAccC)
	assert.Zero(t, c.ogAccD)
}

func TestOutputStereoSumsAPlusCAndBPlusD(t *testing.T) {
	c := &Chip{ogOutA: 100, ogOutB: 50, ogOutC: 200, ogOutD: -20}
	l, r := c.OutputStereo()
	assert.Equal(t, int16(300), l)
	assert.Equal(t, int16(30), r)
}

func TestHorizontalSumOfLaneFixture(t *testing.T) {
	lanes := []int32{1, 2, 4, 8, 16, 32, 64, 128, 256, 512, 1024, 2048, 4096, 8192, 16384, -32768}
	var sum int32
	for _, v := range lanes {
		sum += v
	}
	assert.Equal(t, int32(-1), sum)
}
