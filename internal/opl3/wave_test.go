package opl3

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWgUpdateSineWaveformProducesBoundedOutput(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	wave := waveTable[0]
	s.wgPhaseShl = wave.phaseShl
	s.wgPhaseZero = wave.phaseZero
	s.wgPhaseNeg = wave.phaseNeg
	s.wgPhaseFlip = wave.phaseFlip
	s.wgPhaseMask = wave.phaseMask
	s.wgSineGate = wave.sineGate
	s.egOut = 0 // maximum volume

	for phase := 0; phase < 1024; phase += 17 {
		s.pgPhaseOut = uint16(phase)
		wgUpdate(c, 0)
		assert.GreaterOrEqual(t, s.wgOut, int32(-0x2000))
		assert.LessOrEqual(t, s.wgOut, int32(0x2000))
	}
}

func TestWgUpdateMaxAttenuationGivesZeroOutput(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	wave := waveTable[0]
	s.wgPhaseShl = wave.phaseShl
	s.wgPhaseZero = wave.phaseZero
	s.wgPhaseNeg = wave.phaseNeg
	s.wgPhaseFlip = wave.phaseFlip
	s.wgPhaseMask = wave.phaseMask
	s.wgSineGate = wave.sineGate
	s.egOut = 0x1FF // max attenuation for a non-silent phase still clamps the exp input high

	s.pgPhaseOut = 64 // a non-zero-crossing phase
	wgUpdate(c, 0)
	assert.InDelta(t, 0, s.wgOut, 1)
}

func TestWgUpdateSquareWaveformBypassesLogsin(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	wave := waveTable[6] // square
	s.wgPhaseShl = wave.phaseShl
	s.wgPhaseZero = wave.phaseZero
	s.wgPhaseNeg = wave.phaseNeg
	s.wgPhaseFlip = wave.phaseFlip
	s.wgPhaseMask = wave.phaseMask
	s.wgSineGate = wave.sineGate
	s.egOut = 0

	s.pgPhaseOut = 0
	wgUpdate(c, 0)
	assert.NotZero(t, s.wgOut)
}

func TestWgFeedbackShiftSixteenZeroesFeedbackSum(t *testing.T) {
	c := NewChip(nil)
	s := c.slotAt(0)
	s.wgFbShr = 16 // feedback disabled (fb == 0)
	s.wgOut = 100
	s.wgProut = 50

	fbsum := (s.wgOut + s.wgProut) << 1
	var fbsumSh int32
	if s.wgFbShr < 32 {
		fbsumSh = fbsum >> s.wgFbShr
	}
	assert.Zero(t, fbsumSh)
}

func TestWgUpdateModulationCarriesChipWideModToNextWord(t *testing.T) {
	c := NewChip(nil)
	c.wgMod = 999

	s := c.slotAt(5)
	s.wgPrmodGate = true
	wave := waveTable[0]
	s.wgPhaseShl = wave.phaseShl
	s.wgPhaseZero = wave.phaseZero
	s.wgPhaseNeg = wave.phaseNeg
	s.wgPhaseFlip = wave.phaseFlip
	s.wgPhaseMask = wave.phaseMask
	s.wgSineGate = wave.sineGate

	wgUpdate(c, 5)
	// c.wgMod is overwritten with this slot's own output after the call.
	assert.Equal(t, s.wgOut, c.wgMod)
}
