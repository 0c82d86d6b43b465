package opl3

// wgUpdate advances one slot's wave generator by a tick: it forms the
// phase-modulation input from self-feedback and the chip-wide
// modulation carry left by the previously processed word, folds that
// into the slot's own phase, looks up the logsin/exp pair (or bypasses
// it for the square waveforms 6 and 7), and finally accumulates the
// resulting sample into whichever of the four output buses the slot's
// channel is gated onto.
//
// Words are ticked group by group in groupProcessOrder (see Tick):
// the chip's wg_mod carry is how one word's output reaches the phase
// input of the word processed right after it within the same sample.
func wgUpdate(c *Chip, word int) {
	s := c.slotAt(word)

	fbsum := (s.wgOut + s.wgProut) << 1
	var fbsumSh int32
	if s.wgFbShr < 32 {
		fbsumSh = fbsum >> s.wgFbShr
	}
	s.wgProut = s.wgOut

	var prmod, fbmod int32
	if s.wgPrmodGate {
		prmod = c.wgMod
	}
	if s.wgFbmodGate {
		fbmod = fbsumSh
	}

	modsum := fbmod + prmod
	phase := int32(s.pgPhaseOut) + modsum

	phaseSped := phase << s.wgPhaseShl
	phaseU := uint16(phaseSped)

	phaseGate := phaseU&s.wgPhaseZero == 0
	phaseFlip := phaseU&s.wgPhaseFlip != 0

	var phaseXor uint16
	if phaseFlip {
		phaseXor = s.wgPhaseMask
	}
	phaseIdx := phaseU ^ phaseXor

	var phaseOut uint16
	if phaseGate {
		phaseOut = s.wgPhaseMask & phaseIdx
	}

	var logsinVal int32
	if phaseGate {
		logsinVal = int32(logsinTable[phaseOut&0xFF])
	} else {
		logsinVal = 0x1000
	}

	var expIn int32
	if s.wgSineGate {
		expIn = logsinVal
	} else {
		expIn = int32(phaseOut)
	}

	expLevel := expIn + (s.egOut << 3)
	if expLevel > 0x1FFF {
		expLevel = 0x1FFF
	}
	expValue := int32(exp2xTable[expLevel&0xFF])
	expOut := expValue >> uint(expLevel>>8)

	waveNeg := phaseGate && phaseU&s.wgPhaseNeg != 0

	waveOut := expOut
	if waveNeg {
		waveOut = ^waveOut
	}

	s.wgOut = waveOut
	c.wgMod = waveOut

	ogOutAC := waveOut
	if wordUsesPriorAC(word) {
		ogOutAC = s.ogProut
	}
	ogOutBD := waveOut
	if wordUsesPriorBD(word) {
		ogOutBD = s.ogProut
	}
	s.ogProut = waveOut

	if s.ogOutChGateA {
		c.ogAccA += ogOutAC
	}
	if s.ogOutChGateC {
		c.ogAccC += ogOutAC
	}
	if s.ogOutChGateB {
		c.ogAccB += ogOutBD
	}
	if s.ogOutChGateD {
		c.ogAccD += ogOutBD
	}
}
