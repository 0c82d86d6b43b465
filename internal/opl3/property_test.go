package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

// TestPropertyEgRoutStaysInRange is invariant 1: the envelope output
// register never leaves its 9-bit range, for any sequence of register
// writes and ticks.
func TestPropertyEgRoutStaysInRange(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := NewChip(nil)
		writes := rapid.SliceOfN(rapid.Custom(func(rt *rapid.T) struct {
			addr uint16
			val  uint8
		} {
			return struct {
				addr uint16
				val  uint8
			}{
				addr: uint16(rapid.IntRange(0, 0x1FF).Draw(rt, "addr")),
				val:  uint8(rapid.IntRange(0, 0xFF).Draw(rt, "val")),
			}
		}), 0, 64).Draw(rt, "writes")

		for _, w := range writes {
			c.Write(w.addr, w.val)
		}
		ticks := rapid.IntRange(0, 2000).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			c.Tick()
			for slot := 0; slot < slotNumMax; slot++ {
				rout := c.slotAt(slot).egRout
				assert.GreaterOrEqual(rt, rout, int32(0))
				assert.LessOrEqual(rt, rout, int32(0x1FF))
			}
		}
	})
}

// TestPropertyPhaseOutDerivesFromPhaseAccumulator is invariant 2.
func TestPropertyPhaseOutDerivesFromPhaseAccumulator(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := NewChip(nil)
		c.Write(0x20, uint8(rapid.IntRange(0, 0xFF).Draw(rt, "op1_20h")))
		c.Write(0xA0, uint8(rapid.IntRange(0, 0xFF).Draw(rt, "fnumLo")))
		c.Write(0xB0, uint8(rapid.IntRange(0, 0x3F).Draw(rt, "b0h")))

		ticks := rapid.IntRange(1, 500).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			c.Tick()
		}
		s := c.slotAt(int(slotToWord[0]))
		want := uint16((s.pgPhase >> 9) & 0xFFFF)
		assert.Equal(rt, want, s.pgPhaseOut)
	})
}

// TestPropertyNoiseLFSRFullPeriod is invariant 3, re-derived as a
// property over the step formula itself rather than a fixed unrolled
// loop.
func TestPropertyNoiseLFSRFullPeriod(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := &Chip{ngNoise: 1}
		steps := rapid.IntRange(1, (1<<23)-2).Draw(rt, "steps")
		for i := 0; i < steps; i++ {
			ngUpdate(c, 1)
		}
		assert.NotEqual(rt, uint32(1), c.ngNoise, "the LFSR must not return to its seed before a full period elapses")
		assert.NotZero(rt, c.ngNoise)
	})
}

// TestPropertyAccumulatorsZeroAfterClearAndAfterTick is invariant 4.
func TestPropertyAccumulatorsZeroAfterClearAndAfterTick(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := NewChip(nil)
		prior := rapid.IntRange(0, 10).Draw(rt, "prior_ticks")
		for i := 0; i < prior; i++ {
			c.Tick()
		}
		ogClear(c)
		assert.Zero(rt, c.ogAccA)
		assert.Zero(rt, c.ogAccB)
		assert.Zero(rt, c.ogAccC)
		assert.Zero(rt, c.ogAccD)

		c.Tick()
		assert.Zero(rt, c.ogAccA)
		assert.Zero(rt, c.ogAccB)
		assert.Zero(rt, c.ogAccC)
		assert.Zero(rt, c.ogAccD)
	})
}

// TestPropertyQueueRoundTripMatchesDirectWrite is invariant 5.
func TestPropertyQueueRoundTripMatchesDirectWrite(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		addr := uint16(rapid.IntRange(0, 0x1FF).Draw(rt, "addr"))
		val := uint8(rapid.IntRange(0, 0xFF).Draw(rt, "val"))

		direct := NewChip(nil)
		direct.Write(addr, val)

		queued := NewChip(nil)
		if !queued.EnqueueWrite(addr, val) {
			rt.Fatalf("enqueue of a single write into an empty queue must always succeed")
		}
		for i := 0; i < regQueueLatency+1; i++ {
			queued.Tick()
			direct.Tick()
		}

		for slot := 0; slot < slotNumMax; slot++ {
			assert.Equal(rt, direct.slotAt(slot).mult, queued.slotAt(slot).mult)
			assert.Equal(rt, direct.slotAt(slot).tl, queued.slotAt(slot).tl)
		}
	})
}

// TestPropertySilentChipStaysSilentForever is invariant 6: with no
// channel ever keyed on, output stays at zero regardless of how many
// ticks elapse or what non-kon registers are poked.
func TestPropertySilentChipStaysSilentForever(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := NewChip(nil)
		pokes := rapid.IntRange(0, 32).Draw(rt, "pokes")
		for i := 0; i < pokes; i++ {
			addr := uint16(rapid.IntRange(0, 0x1FF).Draw(rt, "addr"))
			if addr&0xF0 == 0xB0 {
				continue // keep kon=0 throughout
			}
			val := uint8(rapid.IntRange(0, 0xFF).Draw(rt, "val"))
			c.Write(addr, val)
		}

		ticks := rapid.IntRange(0, 1000).Draw(rt, "ticks")
		for i := 0; i < ticks; i++ {
			c.Tick()
			a, b, cc, d := c.Output()
			assert.Zero(rt, a)
			assert.Zero(rt, b)
			assert.Zero(rt, cc)
			assert.Zero(rt, d)
		}
	})
}

// TestPropertyHorizontalSumMatchesScalarAddition checks the stereo
// downmix for any four output samples: the left channel is A+C and the
// right channel is B+D, each summed in 32 bits and saturated to 16.
func TestPropertyHorizontalSumMatchesScalarAddition(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := int16(rapid.IntRange(-32768, 32767).Draw(rt, "a"))
		b := int16(rapid.IntRange(-32768, 32767).Draw(rt, "b"))
		c := int16(rapid.IntRange(-32768, 32767).Draw(rt, "c"))
		d := int16(rapid.IntRange(-32768, 32767).Draw(rt, "d"))

		chip := &Chip{ogOutA: a, ogOutB: b, ogOutC: c, ogOutD: d}
		left, right := chip.OutputStereo()
		assert.Equal(rt, clamp16(int32(a)+int32(c)), left)
		assert.Equal(rt, clamp16(int32(b)+int32(d)), right)
	})
}
