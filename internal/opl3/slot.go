package opl3

// Slot holds the full per-operator pipeline state: the phase, envelope
// and wave generator registers and derived values for one of the
// chip's 64 word-addressable operator slots (36 of which are wired to
// real channels; the rest are reserved, and receive only the writes
// whose register offset names no real operator).
type Slot struct {
	// Raw register fields (0x20/0x30, 0x40/0x50, 0x60/0x70, 0x80/0x90, 0xE0/0xF0).
	mult, ksr, egt, vib, am uint8
	tl, ksl                 uint8
	ar, dr, sl, rr          uint8
	ws                      uint8

	// Phase generator.
	pgPhase    uint32
	pgPhaseOut uint16
	pgMultX2   int32
	pgDeltaFreq int32
	pgVib     int32 // -1 mask when vibrato enabled for this operator, else 0
	pgNotReset bool

	// Envelope generator.
	egRout      int32
	egOut       int32
	egGen       int32 // egGenAttack..egGenRelease
	egKey       uint16
	egKs        int32
	egKslSh     int32
	egTlX4      int32
	egSl        int32
	egAm        int32 // -1 mask when tremolo enabled for this operator, else 0
	egTremoloAm int32
	// egRates holds {ar, dr, sr, rr} selected directly by egGen. The
	// reference packs these into one 16-bit nibble field and selects
	// the active rate with a variable shift so every lane-group can
	// share one shift instruction; a scalar port has no such need, so
	// the four rates are kept as separate fields indexed by state.
	egRates [4]uint8

	// Wave generator.
	wgOut, wgProut int32
	wgPhaseShl     uint8
	wgPhaseZero    uint16
	wgPhaseFlip    uint16
	wgPhaseMask    uint16
	wgPhaseNeg     uint16
	wgSineGate     bool
	wgFbShr        uint8
	wgFbmodGate    bool
	wgPrmodGate    bool

	// Output mixer wiring, set by connection rewiring.
	ogOutGate                                     bool
	ogOutChGateA, ogOutChGateB, ogOutChGateC, ogOutChGateD bool
	ogProut                                        int32 // this slot's own previous-tick wave output
}
