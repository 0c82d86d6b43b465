package opl3

// pgUpdateDeltaFreq recomputes a slot's phase increment from its
// channel's cached fnum/block, the operator's multiplier, and (when
// this operator has vibrato enabled) the chip-wide vibrato phase. It
// must be re-run whenever any of those inputs change: a 0xA0/0xB0
// fnum/block write, a 0x20 mult or vib-enable write, or the chip-wide
// vibrato tick.
func (c *Chip) pgUpdateDeltaFreq(word int, ch *Channel2x) {
	s := c.slotAt(word)

	fnum := int32(ch.pgFnum)
	if s.pgVib != 0 {
		vibPart := fnum & (7 << 7)
		shs := c.pgVibShs
		if shs >= 0 {
			vibPart >>= uint(shs)
		} else {
			vibPart <<= uint(-shs)
		}
		fnum += vibPart * c.pgVibSign
	}

	basefreq := (fnum << ch.pgBlock) >> 1
	s.pgDeltaFreq = (basefreq * s.pgMultX2) >> 1
}

// pgUpdate advances a slot's phase accumulator by one tick and
// extracts the 16-bit phase-generator output the wave generator reads.
func pgUpdate(s *Slot) {
	if s.pgNotReset {
		s.pgPhase += uint32(s.pgDeltaFreq)
	} else {
		s.pgPhase = uint32(s.pgDeltaFreq)
	}
	s.pgPhaseOut = uint16((s.pgPhase >> 9) & 0xFFFF)
}
