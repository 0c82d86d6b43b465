package opl3

import (
	"unsafe"

	"opl3dx/internal/debug"
)

// Chip is a complete four-operator FM synthesis engine: 36 operators
// wired into up to 18 two-operator (or 6 four-operator) channels, plus
// the noise generator, rhythm mixer, timers and register queue that
// drive them one sample at a time via Tick.
type Chip struct {
	words [slotNumMax]Slot
	ch2x  [channelNumMax]Channel2x

	// Global register-derived state.
	nts  uint8
	csm  bool
	newm bool
	stereoExt bool
	conn uint8 // 6-bit CONN bitmap (register 0x104)

	ryt, bd, sd, tom, hh, tc bool
	dam, dvb                 bool

	og2xPairing [channelNumMax]bool

	wgMod int32

	egStatev    int32
	egAdd       int32
	egIncstep   uint16
	pgVibShs    int32
	pgVibSign   int32

	ogAccA, ogAccB, ogAccC, ogAccD int32
	ogOutA, ogOutB, ogOutC, ogOutD int16
	ogDelB, ogDelD                 int16

	egTimer uint64
	tmTimer uint64
	ngNoise uint32

	egState       uint8
	rmHHBit2, rmHHBit3, rmHHBit7, rmHHBit8 int32
	rmTCBit3, rmTCBit5                     int32
	egTremolopos  uint8
	egTremoloshift uint8
	egVibshift     uint8
	pgVibpos       uint8

	rq RegQueue

	// Raw bookkeeping for registers with no DSP effect in this port.
	testReg   uint8
	timer1    uint8
	timer2    uint8
	timerCtrl uint8
	regD0     [channelNumMax]uint8

	log *debug.Logger
}

// NewChip constructs a chip with its logger wired in (may be nil).
func NewChip(log *debug.Logger) *Chip {
	c := &Chip{log: log}
	c.Init()
	return c
}

// Init resets the chip to power-on state, mirroring the reference
// implementation's startup values: envelopes parked at maximum
// attenuation and released, phase generators armed to reset, and every
// channel wired to the default (non-4-op, FM) connection topology.
func (c *Chip) Init() {
	*c = Chip{log: c.log}

	for i := range c.words {
		s := &c.words[i]
		s.egRout = 0x01FF
		s.egOut = 0x01FF
		s.egGen = egGenRelease
		s.pgNotReset = true
		s.wgFbShr = 16 // fb = 0: feedback off
		s.pgMultX2 = int32(pgMultX2Table[0])
		wave := waveTable[0]
		s.wgPhaseShl = wave.phaseShl
		s.wgPhaseZero = wave.phaseZero
		s.wgPhaseNeg = wave.phaseNeg
		s.wgPhaseFlip = wave.phaseFlip
		s.wgPhaseMask = wave.phaseMask
		s.wgSineGate = wave.sineGate
	}

	// The reference only seeds og_ch_gate_a/b at reset; og_ch_gate_c/d
	// start cleared and are set solely by a later write to register
	// 0xC0 (channels A/B route to both speakers by default, C/D don't).
	for ch2x := range c.ch2x {
		cg := &c.ch2x[ch2x]
		cg.ogChGateA = true
		cg.ogChGateB = true
	}

	for ch2x := 0; ch2x < channelNumMax; ch2x++ {
		c.rewireCh2x(ch2x)
	}

	c.egStatev = 1
	c.egTimer = egTimerHibit
	c.egState = 1
	c.egTremoloshift = 4
	c.egVibshift = 1

	c.ngNoise = 1
}

// Size returns the byte footprint of a Chip instance, mirroring the
// reference's size() query (there to let a caller embedding the chip
// in a fixed memory arena size that arena correctly).
func Size() uintptr {
	return unsafe.Sizeof(Chip{})
}

// slotAt returns the operator state occupying the given word position
// (0-63) in the chip's internal processing order.
func (c *Chip) slotAt(word int) *Slot { return &c.words[word] }

// channelAt returns the 2-operator channel state for the given
// channel index (0-31).
func (c *Chip) channelAt(ch2x int) *Channel2x { return &c.ch2x[ch2x] }

// isDrumChannel reports whether ch2x is one of the three rhythm-mode
// channels (BD/HH+SD/TT+TC) while rhythm mode is active. The reference
// tracks this as a persistent bitmask (og_ch2x_drum) updated alongside
// pairing; deriving it on demand from the channel index and the live
// rhythm-enable flag is equivalent and needs no extra state to keep in
// sync.
func (c *Chip) isDrumChannel(ch2x int) bool {
	return c.ryt && (ch2x == 6 || ch2x == 7 || ch2x == 8)
}
