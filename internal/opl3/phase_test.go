package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPgUpdateAccumulatesDeltaFreqModulo32Bit(t *testing.T) {
	s := &Slot{pgDeltaFreq: 1 << 30, pgNotReset: true}
	s.pgPhase = 0xFFFFFFFF - (1 << 29)

	pgUpdate(s)

	// Wrapping is implicit in uint32 arithmetic; just confirm the
	// phase moved forward from a near-wraparound starting point.
	assert.NotZero(t, s.pgPhase)
}

func TestPgUpdateResetsPhaseWhenNotresetClear(t *testing.T) {
	s := &Slot{pgPhase: 12345, pgDeltaFreq: 42, pgNotReset: false}
	pgUpdate(s)
	assert.Equal(t, uint32(42), s.pgPhase)
}

func TestPgPhaseOutDerivedFromPhaseShiftedNine(t *testing.T) {
	s := &Slot{pgDeltaFreq: 1000, pgNotReset: false}
	pgUpdate(s)
	assert.Equal(t, uint16((s.pgPhase>>9)&0xFFFF), s.pgPhaseOut)
}

func TestPgUpdateDeltaFreqNoVibrato(t *testing.T) {
	c := NewChip(nil)
	ch := c.channelAt(0)
	ch.pgFnum = 0x200
	ch.pgBlock = 4

	s := c.slotAt(0)
	s.pgMultX2 = 2
	s.pgVib = 0

	c.pgUpdateDeltaFreq(0, ch)

	basefreq := (int32(ch.pgFnum) << ch.pgBlock) >> 1
	want := (basefreq * s.pgMultX2) >> 1
	assert.Equal(t, want, s.pgDeltaFreq)
}

func TestPgUpdateDeltaFreqWithVibratoAppliesSignedShift(t *testing.T) {
	c := NewChip(nil)
	ch := c.channelAt(0)
	ch.pgFnum = 0x3FF
	ch.pgBlock = 2

	s := c.slotAt(0)
	s.pgMultX2 = 1
	s.pgVib = -1

	c.pgVibShs = 2
	c.pgVibSign = 1
	c.pgUpdateDeltaFreq(0, ch)
	withPositiveShift := s.pgDeltaFreq

	c.pgVibSign = -1
	c.pgUpdateDeltaFreq(0, ch)
	withNegativeSign := s.pgDeltaFreq

	assert.NotEqual(t, withPositiveShift, withNegativeSign)
}
