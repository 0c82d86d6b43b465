package opl3

// rhythm word indices: bass drum occupies both operators of channel 6,
// hi-hat and snare share channel 7 (op0/op1), tom-tom and top cymbal
// share channel 8 (op0/op1).
const (
	rmWordBD0 = 8
	rmWordBD1 = 24
	rmWordHH  = 9
	rmWordSD  = 25
	rmWordTOM = 10
	rmWordTC  = 26
)

func rmAddDoubled(c *Chip, word int) {
	s := c.slotAt(word)
	if s.ogOutChGateA {
		c.ogAccA += s.wgOut
	}
	if s.ogOutChGateB {
		c.ogAccB += s.wgOut
	}
	if s.ogOutChGateC {
		c.ogAccC += s.wgOut
	}
	if s.ogOutChGateD {
		c.ogAccD += s.wgOut
	}
}

// rmUpdateSg1 runs immediately after the slot group holding the bass
// drum's first operator, hi-hat and tom-tom has finished its
// pg/eg/wg pass for this tick: while rhythm mode is active it doubles
// those three operators' contribution to the output mix (the chip
// drives percussion voices louder than melodic ones), then samples
// the hi-hat operator's phase bits and, if rhythm mode is active,
// rewrites that phase with the noise-driven value the next tick's
// wave generator will read.
func rmUpdateSg1(c *Chip) {
	if c.ryt {
		rmAddDoubled(c, rmWordBD0)
		rmAddDoubled(c, rmWordHH)
		rmAddDoubled(c, rmWordTOM)
	}

	phase := c.slotAt(rmWordHH).pgPhaseOut
	c.rmHHBit2 = int32(phase>>2) & 1
	c.rmHHBit3 = int32(phase>>3) & 1
	c.rmHHBit7 = int32(phase>>7) & 1
	c.rmHHBit8 = int32(phase>>8) & 1

	if c.ryt {
		rmXor := (c.rmHHBit2 ^ c.rmHHBit7) | (c.rmHHBit3 ^ c.rmTCBit5) | (c.rmTCBit3 ^ c.rmTCBit5)
		noise := c.ngNoise

		newPhase := uint16(rmXor) << 9
		if (rmXor ^ int32(noise&1)) != 0 {
			newPhase |= 0xD0
		} else {
			newPhase |= 0x34
		}
		c.slotAt(rmWordHH).pgPhaseOut = newPhase
	}
}

// rmUpdateSg3 is rmUpdateSg1's counterpart for the slot group holding
// bass drum's second operator, snare drum and top cymbal: it doubles
// their output the same way, then rewrites the snare and top-cymbal
// phases from the noise LFSR and the hi-hat bits captured a moment
// ago by rmUpdateSg1.
func rmUpdateSg3(c *Chip) {
	if !c.ryt {
		return
	}

	rmAddDoubled(c, rmWordBD1)
	rmAddDoubled(c, rmWordSD)
	rmAddDoubled(c, rmWordTC)

	rmXor := (c.rmHHBit2 ^ c.rmHHBit7) | (c.rmHHBit3 ^ c.rmTCBit5) | (c.rmTCBit3 ^ c.rmTCBit5)

	noise := c.ngNoise
	sdPhase := (uint16(c.rmHHBit8) << 9) | (uint16(c.rmHHBit8)^uint16(noise&1))<<8
	c.slotAt(rmWordSD).pgPhaseOut = sdPhase

	tcPhase := c.slotAt(rmWordTC).pgPhaseOut
	c.rmTCBit3 = int32(tcPhase>>3) & 1
	c.rmTCBit5 = int32(tcPhase>>5) & 1
	c.slotAt(rmWordTC).pgPhaseOut = (uint16(rmXor) << 9) | 0x80
}
