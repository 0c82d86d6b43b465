package opl3

// ngUpdate advances the chip-wide 23-bit noise LFSR by the given
// number of steps. The tick driver splits one tick's worth of steps
// around the two rhythm-mixer updates (hi-hat, then snare/cymbal) so
// each percussion voice samples the LFSR at the exact point the
// reference chip does.
func ngUpdate(c *Chip, times int) {
	noise := c.ngNoise
	for ; times > 0; times-- {
		nBit := ((noise >> 14) ^ noise) & 1
		noise = (noise >> 1) | (nBit << 22)
	}
	c.ngNoise = noise
}
