package opl3

// Channel2x holds the state shared by the two operators of one
// 2-operator channel: cached pitch, the key-scale value derived from
// it, and the per-channel output-enable gates set by register 0xC0.
type Channel2x struct {
	pgFnum  uint16
	pgBlock uint8
	egKsv   int32

	ogChGateA, ogChGateB, ogChGateC, ogChGateD bool

	// Cached raw register state, needed to recompute derived values
	// (key scaling, connection wiring) on related writes.
	fnumLo uint8
	fnumHi uint8
	block  uint8
	kon    bool
	cnt    uint8
	fb     uint8
	cha, chb, chc, chd bool
}
