package opl3

import "opl3dx/internal/debug"

// Write applies a single immediate register write. Addresses above
// 0x1FF are a silent no-op, matching the chip's two 256-entry banks
// selected by address bit 8 (bank 1 occupies 0x100-0x1FF).
func (c *Chip) Write(address uint16, value uint8) {
	if address > 0x1FF {
		return
	}
	if c.log != nil {
		c.log.LogRW(debug.LogLevelTrace, "register write", map[string]interface{}{"address": address, "value": value})
	}
	switch address & 0xF0 {
	case 0x00:
		c.write00h(address, value)
	case 0x20, 0x30:
		c.write20h(address, value)
	case 0x40, 0x50:
		c.write40h(address, value)
	case 0x60, 0x70:
		c.write60h(address, value)
	case 0x80, 0x90:
		c.write80h(address, value)
	case 0xE0, 0xF0:
		c.writeE0h(address, value)
	case 0xA0:
		c.writeA0h(address, value)
	case 0xB0:
		c.writeB0h(address, value)
	case 0xC0:
		c.writeC0h(address, value)
	case 0xD0:
		c.writeD0h(address, value)
	}
}

func (c *Chip) write00h(address uint16, value uint8) {
	switch address {
	case 0x01:
		c.testReg = value
	case 0x02:
		c.timer1 = value
	case 0x03:
		c.timer2 = value
	case 0x04:
		c.timerCtrl = value
	case 0x104:
		prevConn := c.conn
		c.conn = value & 0x3F
		c.rewireConn(prevConn)
	case 0x105:
		c.newm = value&0x01 != 0
		c.stereoExt = value&0x02 != 0
	case 0x08:
		prevNts := c.nts
		c.nts = (value >> 6) & 1
		c.csm = (value>>7)&1 != 0
		if c.nts != prevNts {
			c.updateNTS()
		}
	}
}

func (c *Chip) write20h(address uint16, value uint8) {
	slot := addrToSlot(address)
	if slot < 0 {
		return
	}
	word := int(slotToWord[slot])
	s := c.slotAt(word)
	ch := c.channelAt(int(wordToCh2x[word]))

	prevMult, prevKsr, prevEgt, prevVib, prevAm := s.mult, s.ksr, s.egt, s.vib, s.am
	s.mult = value & 0x0F
	s.ksr = (value >> 4) & 1
	s.egt = (value >> 5) & 1
	s.vib = (value >> 6) & 1
	s.am = (value >> 7) & 1

	updateDeltafreq := false

	if s.mult != prevMult {
		s.pgMultX2 = int32(pgMultX2Table[s.mult])
		updateDeltafreq = true
	}
	if s.ksr != prevKsr {
		s.egKs = ch.egKsv >> uint((s.ksr^1)<<1)
	}
	if s.egt != prevEgt {
		if s.egt != 0 {
			s.egRates[egGenSustain] = 0
		} else {
			s.egRates[egGenSustain] = s.egRates[egGenRelease]
		}
	}
	if s.vib != prevVib {
		if s.vib != 0 {
			s.pgVib = -1
		} else {
			s.pgVib = 0
		}
		updateDeltafreq = true
	}
	if s.am != prevAm {
		if s.am != 0 {
			s.egAm = -1
		} else {
			s.egAm = 0
		}
		s.egTremoloAm = c.currentTremolo() & s.egAm
	}

	if updateDeltafreq {
		c.refreshAllDeltaFreq()
	}
}

func (c *Chip) write40h(address uint16, value uint8) {
	slot := addrToSlot(address)
	if slot < 0 {
		return
	}
	word := int(slotToWord[slot])
	s := c.slotAt(word)
	prevTl, prevKsl := s.tl, s.ksl
	s.tl = value & 0x3F
	s.ksl = (value >> 6) & 3
	if s.tl != prevTl {
		s.egTlX4 = int32(s.tl) << 2
	}
	if s.ksl != prevKsl {
		c.egUpdateKsl(word)
	}
}

func (c *Chip) write60h(address uint16, value uint8) {
	slot := addrToSlot(address)
	if slot < 0 {
		return
	}
	word := int(slotToWord[slot])
	s := c.slotAt(word)
	prevDr, prevAr := s.dr, s.ar
	s.dr = value & 0x0F
	s.ar = (value >> 4) & 0x0F
	if s.dr != prevDr || s.ar != prevAr {
		s.egRates[egGenDecay] = s.dr
		s.egRates[egGenAttack] = s.ar
	}
}

func (c *Chip) write80h(address uint16, value uint8) {
	slot := addrToSlot(address)
	if slot < 0 {
		return
	}
	word := int(slotToWord[slot])
	s := c.slotAt(word)
	prevRr, prevSl := s.rr, s.sl
	s.rr = value & 0x0F
	s.sl = (value >> 4) & 0x0F
	if s.rr != prevRr || s.sl != prevSl {
		if s.egt != 0 {
			s.egRates[egGenSustain] = 0
		} else {
			s.egRates[egGenSustain] = s.rr
		}
		s.egRates[egGenRelease] = s.rr
		egSl := int32(s.sl)
		if egSl == 0x0F {
			egSl = 0x1F
		}
		s.egSl = egSl
	}
}

func (c *Chip) writeE0h(address uint16, value uint8) {
	slot := addrToSlot(address)
	if slot < 0 {
		return
	}
	word := int(slotToWord[slot])
	s := c.slotAt(word)
	ws := value & 0x07
	if !c.newm {
		ws &= 3
	}
	prevWs := s.ws
	s.ws = ws
	if s.ws != prevWs {
		wave := waveTable[s.ws]
		s.wgPhaseShl = wave.phaseShl
		s.wgPhaseZero = wave.phaseZero
		s.wgPhaseNeg = wave.phaseNeg
		s.wgPhaseFlip = wave.phaseFlip
		s.wgPhaseMask = wave.phaseMask
		s.wgSineGate = wave.sineGate
	}
}

func (c *Chip) writeA0h(address uint16, value uint8) {
	ch2x := int(addrToCh2x(address))
	if ch2x < 0 {
		return
	}
	isPairing := c.og2xPairing[ch2x]
	ch2p := int(ch2xPaired[ch2x])
	isSecondary := ch2p >= 0 && ch2p < ch2x
	if c.newm && isPairing && isSecondary {
		return
	}
	if !isPairing || isSecondary {
		ch2p = -1
	}

	ch := c.channelAt(ch2x)
	prev := ch.fnumLo
	ch.fnumLo = value
	if ch.fnumLo != prev {
		c.ch2xUpdateFnum(ch2x, ch2p)
	}
}

func (c *Chip) writeB0h(address uint16, value uint8) {
	if address == 0xBD || address == 0x1BD {
		c.writeBDh(value)
		return
	}

	ch2x := int(addrToCh2x(address))
	if ch2x < 0 {
		return
	}
	isPairing := c.og2xPairing[ch2x]
	ch2p := int(ch2xPaired[ch2x])
	isSecondary := ch2p >= 0 && ch2p < ch2x
	if c.newm && isPairing && isSecondary {
		return
	}
	if !isPairing || isSecondary {
		ch2p = -1
	}

	ch := c.channelAt(ch2x)
	prevHi, prevBlock, prevKon := ch.fnumHi, ch.block, ch.kon
	ch.fnumHi = value & 0x03
	ch.block = (value >> 2) & 0x07
	ch.kon = (value>>5)&1 != 0

	if ch.fnumHi != prevHi || ch.block != prevBlock {
		c.ch2xUpdateFnum(ch2x, ch2p)
	}
	if ch.kon != prevKon {
		if ch.kon {
			c.ch2xKeyOn(ch2x)
		} else {
			c.ch2xKeyOff(ch2x)
		}
	}
}

func (c *Chip) writeBDh(value uint8) {
	prevRyt := c.ryt
	prevHH, prevTC, prevTOM, prevSD, prevBD := c.hh, c.tc, c.tom, c.sd, c.bd

	c.hh = value&0x01 != 0
	c.tc = (value>>1)&1 != 0
	c.tom = (value>>2)&1 != 0
	c.sd = (value>>3)&1 != 0
	c.bd = (value>>4)&1 != 0
	c.ryt = (value>>5)&1 != 0
	c.dvb = (value>>6)&1 != 0
	c.dam = (value>>7)&1 != 0

	if c.dam {
		c.egTremoloshift = 2
	} else {
		c.egTremoloshift = 4
	}
	if c.dvb {
		c.egVibshift = 0
	} else {
		c.egVibshift = 1
	}

	c.rewireRhythm(prevRyt, prevHH, prevTC, prevTOM, prevSD, prevBD)
}

func (c *Chip) writeC0h(address uint16, value uint8) {
	ch2x := int(addrToCh2x(address))
	if ch2x < 0 {
		return
	}
	if !c.newm {
		value = (value | 0x30) & 0x3F
	}
	ch := c.channelAt(ch2x)
	prevCha, prevChb, prevChc, prevChd := ch.cha, ch.chb, ch.chc, ch.chd
	prevFb := ch.fb
	prevCnt := ch.cnt

	ch.cnt = value & 0x01
	ch.fb = (value >> 1) & 0x07
	ch.cha = value&0x10 != 0
	ch.chb = value&0x20 != 0
	ch.chc = value&0x40 != 0
	ch.chd = value&0x80 != 0

	w0 := int(ch2xToWord[ch2x][0])
	w1 := int(ch2xToWord[ch2x][1])
	s0, s1 := c.slotAt(w0), c.slotAt(w1)

	if ch.cha != prevCha {
		ch.ogChGateA = ch.cha
		c.refreshOutGates(s0, ch)
		c.refreshOutGates(s1, ch)
	}
	if ch.chb != prevChb {
		ch.ogChGateB = ch.chb
		c.refreshOutGates(s0, ch)
		c.refreshOutGates(s1, ch)
	}
	if ch.chc != prevChc {
		ch.ogChGateC = ch.chc
		c.refreshOutGates(s0, ch)
		c.refreshOutGates(s1, ch)
	}
	if ch.chd != prevChd {
		ch.ogChGateD = ch.chd
		c.refreshOutGates(s0, ch)
		c.refreshOutGates(s1, ch)
	}

	if ch.fb != prevFb {
		var shr uint8
		if ch.fb != 0 {
			shr = 9 - ch.fb
		} else {
			shr = 16
		}
		s0.wgFbShr = shr
		s1.wgFbShr = shr
	}

	// Stereo extension bits (register D0h companions) are reserved in
	// this port: stored on the channel but not wired to any output
	// path, matching spec.md's "(Stereo extensions; reserved behavior)".

	if ch.cnt != prevCnt {
		c.rewireCh2x(ch2x)
	}
}

func (c *Chip) writeD0h(address uint16, value uint8) {
	ch2x := int(addrToCh2x(address))
	if ch2x < 0 {
		return
	}
	c.regD0[ch2x] = value
}

// currentTremolo recomputes the triangular tremolo LFO value from the
// chip's current tremolo position, for slots whose AM enable changes
// mid-cycle (the periodic update in the tick driver only recomputes
// it for all slots every 64 ticks).
func (c *Chip) currentTremolo() int32 {
	pos := uint16(c.egTremolopos)
	if pos >= 105 {
		pos = 210 - pos
	}
	return int32(pos) >> c.egTremoloshift
}

func (c *Chip) refreshAllDeltaFreq() {
	for word := 0; word < slotNumMax; word++ {
		ch := c.channelAt(int(wordToCh2x[word]))
		c.pgUpdateDeltaFreq(word, ch)
	}
}

func (c *Chip) refreshOutGates(s *Slot, ch *Channel2x) {
	s.ogOutChGateA = s.ogOutGate && ch.ogChGateA
	s.ogOutChGateB = s.ogOutGate && ch.ogChGateB
	s.ogOutChGateC = s.ogOutGate && ch.ogChGateC
	s.ogOutChGateD = s.ogOutGate && ch.ogChGateD
}

// egUpdateKsl recomputes a slot's key-scale-level attenuation shift
// from its channel's cached pitch and its own KSL register field.
func (c *Chip) egUpdateKsl(word int) {
	s := c.slotAt(word)
	ch := c.channelAt(int(wordToCh2x[word]))

	fnumHn := int32(ch.pgFnum>>6) & 15
	ksl := int32(egKslTable[fnumHn])
	ksl = (ksl << 2) - ((8 - int32(ch.pgBlock)) << 5)
	if ksl < 0 {
		ksl = 0
	}
	kslsh := int32(egKslshTable[s.ksl])
	s.egKslSh = ksl >> uint(kslsh)
}

// updateNTS recomputes every slot's key-scale value and rate after a
// note-select (register 0x08 bit 6) change, since NTS shifts which
// fnum bit feeds the key-scale calculation chip-wide.
func (c *Chip) updateNTS() {
	for word := 0; word < slotNumMax; word++ {
		ch2x := int(wordToCh2x[word])
		ch := c.channelAt(ch2x)
		fnum := int32(ch.fnumLo) | (int32(ch.fnumHi) << 8)
		ksv := (int32(ch.block) << 1) | ((fnum >> uint(9-c.nts)) & 1)
		ch.egKsv = ksv

		s := c.slotAt(word)
		s.egKs = ksv >> uint((s.ksr^1)<<1)
	}
}

// pgUpdateFnum applies a freshly decoded fnum/block/ksv triple to one
// 2-op channel's cached pitch state and refreshes both its slots' KSL
// shift, key-scale rate, and phase delta-frequency.
func (c *Chip) pgUpdateFnum(ch2x int, fnum, block, ksv int32) {
	ch := c.channelAt(ch2x)
	ch.pgBlock = uint8(block)
	ch.pgFnum = uint16(fnum)
	ch.egKsv = ksv

	for _, word := range ch2xToWord[ch2x] {
		w := int(word)
		s := c.slotAt(w)
		s.egKs = ksv >> uint((s.ksr^1)<<1)
		c.egUpdateKsl(w)
		c.pgUpdateDeltaFreq(w, ch)
	}
}

// ch2xUpdateFnum recomputes a channel's (and, if paired, its partner
// channel's) fnum/block/ksv from the raw A0h/B0h register fields.
func (c *Chip) ch2xUpdateFnum(ch2x, ch2p int) {
	ch := c.channelAt(ch2x)
	fnum := int32(ch.fnumLo) | (int32(ch.fnumHi) << 8)
	block := int32(ch.block)
	ksv := (block << 1) | ((fnum >> uint(9-c.nts)) & 1)

	c.pgUpdateFnum(ch2x, fnum, block, ksv)
	if ch2p >= 0 {
		c.pgUpdateFnum(ch2p, fnum, block, ksv)
	}
}

func (c *Chip) egKeyOn(word int, mode uint16) {
	c.slotAt(word).egKey |= mode
}

func (c *Chip) egKeyOff(word int, mode uint16) {
	c.slotAt(word).egKey &^= mode
}

// ch2xKeyOn applies a kon=1 write to a channel, fanning it out to the
// paired channel's operators when 4-op pairing (newm) makes this
// channel the primary half of a 4-op voice.
func (c *Chip) ch2xKeyOn(ch2x int) {
	if c.newm {
		isPairing := c.og2xPairing[ch2x]
		isDrum := c.isDrumChannel(ch2x)
		ch2p := int(ch2xPaired[ch2x])
		isSecondary := ch2p >= 0 && ch2p < ch2x

		switch {
		case isPairing && !isSecondary:
			c.egKeyOn(int(ch2xToWord[ch2x][0]), egKeyNormal)
			c.egKeyOn(int(ch2xToWord[ch2x][1]), egKeyNormal)
			c.egKeyOn(int(ch2xToWord[ch2p][0]), egKeyNormal)
			c.egKeyOn(int(ch2xToWord[ch2p][1]), egKeyNormal)
		case !isPairing || isDrum:
			c.egKeyOn(int(ch2xToWord[ch2x][0]), egKeyNormal)
			c.egKeyOn(int(ch2xToWord[ch2x][1]), egKeyNormal)
		}
		return
	}
	c.egKeyOn(int(ch2xToWord[ch2x][0]), egKeyNormal)
	c.egKeyOn(int(ch2xToWord[ch2x][1]), egKeyNormal)
}

func (c *Chip) ch2xKeyOff(ch2x int) {
	if c.newm {
		isPairing := c.og2xPairing[ch2x]
		isDrum := c.isDrumChannel(ch2x)
		ch2p := int(ch2xPaired[ch2x])
		isSecondary := ch2p >= 0 && ch2p < ch2x

		switch {
		case isPairing && !isSecondary:
			c.egKeyOff(int(ch2xToWord[ch2x][0]), egKeyNormal)
			c.egKeyOff(int(ch2xToWord[ch2x][1]), egKeyNormal)
			c.egKeyOff(int(ch2xToWord[ch2p][0]), egKeyNormal)
			c.egKeyOff(int(ch2xToWord[ch2p][1]), egKeyNormal)
		case !isPairing || isDrum:
			c.egKeyOff(int(ch2xToWord[ch2x][0]), egKeyNormal)
			c.egKeyOff(int(ch2xToWord[ch2x][1]), egKeyNormal)
		}
		return
	}
	c.egKeyOff(int(ch2xToWord[ch2x][0]), egKeyNormal)
	c.egKeyOff(int(ch2xToWord[ch2x][1]), egKeyNormal)
}

// rewireSlot applies one connection descriptor to a slot's
// feedback/modulation/output wiring and recomputes its per-output
// channel gates from the owning channel's current enable bits.
func (c *Chip) rewireSlot(word int, conn connDescriptor) {
	s := c.slotAt(word)
	s.wgFbmodGate = conn.wgFbmodGate
	s.wgPrmodGate = conn.wgPrmodGate
	s.ogOutGate = conn.ogOutGate

	ch := c.channelAt(int(wordToCh2x[word]))
	c.refreshOutGates(s, ch)
}

// rewireCh2x applies the connection topology for a single 2-op
// channel, or (when it is 4-op paired) the 4-op topology for the
// whole pair, always addressing the pair by its primary half.
func (c *Chip) rewireCh2x(ch2x int) {
	if c.newm && c.og2xPairing[ch2x] {
		ch2p := int(ch2xPaired[ch2x])
		if ch2p < ch2x {
			ch2x, ch2p = ch2p, ch2x
		}
		cntX := c.channelAt(ch2x).cnt
		cntP := c.channelAt(ch2p).cnt
		conn := connCh4xTable[(cntX<<1)|cntP]
		c.rewireSlot(int(ch2xToWord[ch2x][0]), conn[0])
		c.rewireSlot(int(ch2xToWord[ch2x][1]), conn[1])
		c.rewireSlot(int(ch2xToWord[ch2p][0]), conn[2])
		c.rewireSlot(int(ch2xToWord[ch2p][1]), conn[3])
		return
	}

	cnt := c.channelAt(ch2x).cnt
	conn := connCh2xTable[cnt]
	c.rewireSlot(int(ch2xToWord[ch2x][0]), conn[0])
	c.rewireSlot(int(ch2xToWord[ch2x][1]), conn[1])
}

// rewireConn reacts to a write of the CONN register (0x104), the
// bitmap selecting which of the six channel pairs are merged into 4-op
// voices, rewiring only the pairs whose bit actually flipped.
func (c *Chip) rewireConn(prevConn uint8) {
	diff := prevConn ^ c.conn
	for ch4x := 0; ch4x < channelNumMax/2; ch4x++ {
		if diff&(1<<uint(ch4x)) == 0 {
			continue
		}
		ch2x := int(ch4xToPair[ch4x][0])
		ch2p := int(ch4xToPair[ch4x][1])

		if c.conn&(1<<uint(ch4x)) != 0 {
			c.og2xPairing[ch2x] = true
			c.og2xPairing[ch2p] = true

			cntX := c.channelAt(ch2x).cnt
			cntP := c.channelAt(ch2p).cnt
			conn := connCh4xTable[(cntX<<1)|cntP]
			c.rewireSlot(int(ch2xToWord[ch2x][0]), conn[0])
			c.rewireSlot(int(ch2xToWord[ch2x][1]), conn[1])
			c.rewireSlot(int(ch2xToWord[ch2p][0]), conn[2])
			c.rewireSlot(int(ch2xToWord[ch2p][1]), conn[3])
		} else {
			c.og2xPairing[ch2x] = false
			c.og2xPairing[ch2p] = false

			cntX := c.channelAt(ch2x).cnt
			connX := connCh2xTable[cntX]
			c.rewireSlot(int(ch2xToWord[ch2x][0]), connX[0])
			c.rewireSlot(int(ch2xToWord[ch2x][1]), connX[1])

			cntP := c.channelAt(ch2p).cnt
			connP := connCh2xTable[cntP]
			c.rewireSlot(int(ch2xToWord[ch2p][0]), connP[0])
			c.rewireSlot(int(ch2xToWord[ch2p][1]), connP[1])
		}
	}
}

// rewireRhythm reacts to a write of register BDh, switching channels
// 6/7/8 between their normal connection topology and the fixed
// percussion wiring, and updating the drum key bits of whichever
// individual rhythm voices changed (or all five, the first tick
// rhythm mode is enabled or disabled).
func (c *Chip) rewireRhythm(prevRyt, prevHH, prevTC, prevTOM, prevSD, prevBD bool) {
	forceUpdate := false

	switch {
	case c.ryt && !prevRyt:
		ch6Conn := connRytTable[c.channelAt(6).cnt]
		c.rewireSlot(int(ch2xToWord[6][0]), ch6Conn[0])
		c.rewireSlot(int(ch2xToWord[6][1]), ch6Conn[1])

		ch7Conn := connRytTable[2]
		c.rewireSlot(int(ch2xToWord[7][0]), ch7Conn[0])
		c.rewireSlot(int(ch2xToWord[7][1]), ch7Conn[1])

		ch8Conn := connRytTable[3]
		c.rewireSlot(int(ch2xToWord[8][0]), ch8Conn[0])
		c.rewireSlot(int(ch2xToWord[8][1]), ch8Conn[1])

		forceUpdate = true

	case !c.ryt && prevRyt:
		for _, ch2x := range [3]int{6, 7, 8} {
			cnt := c.channelAt(ch2x).cnt
			conn := connCh2xTable[cnt]
			c.rewireSlot(int(ch2xToWord[ch2x][0]), conn[0])
			c.rewireSlot(int(ch2xToWord[ch2x][1]), conn[1])
		}
		// Force all rhythm keys off: the reference treats this as a
		// transition against an all-zero BDh register.
		prevHH, prevTC, prevTOM, prevSD, prevBD = c.hh, c.tc, c.tom, c.sd, c.bd
		c.hh, c.tc, c.tom, c.sd, c.bd = false, false, false, false, false
		forceUpdate = true
	}

	if c.hh != prevHH || forceUpdate {
		wordHH := int(ch2xToWord[7][0])
		if c.hh {
			c.egKeyOn(wordHH, egKeyDrum)
		} else {
			c.egKeyOff(wordHH, egKeyDrum)
		}
	}
	if c.tc != prevTC || forceUpdate {
		wordTC := int(ch2xToWord[8][1])
		if c.tc {
			c.egKeyOn(wordTC, egKeyDrum)
		} else {
			c.egKeyOff(wordTC, egKeyDrum)
		}
	}
	if c.tom != prevTOM || forceUpdate {
		wordTOM := int(ch2xToWord[8][0])
		if c.tom {
			c.egKeyOn(wordTOM, egKeyDrum)
		} else {
			c.egKeyOff(wordTOM, egKeyDrum)
		}
	}
	if c.sd != prevSD || forceUpdate {
		wordSD := int(ch2xToWord[7][1])
		if c.sd {
			c.egKeyOn(wordSD, egKeyDrum)
		} else {
			c.egKeyOff(wordSD, egKeyDrum)
		}
	}
	if c.bd != prevBD || forceUpdate {
		wordBD0 := int(ch2xToWord[6][0])
		wordBD1 := int(ch2xToWord[6][1])
		if c.bd {
			c.egKeyOn(wordBD0, egKeyDrum)
			c.egKeyOn(wordBD1, egKeyDrum)
		} else {
			c.egKeyOff(wordBD0, egKeyDrum)
			c.egKeyOff(wordBD1, egKeyDrum)
		}
	}
}
