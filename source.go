// Package opl3dx glues a streamed register command source to the
// internal/opl3 chip core. It holds only the shared Command/Source
// contract; the chip itself and its drivers live in internal/.
package opl3dx

// Command is one decoded step from a register command stream: either a
// register write (Address/Value) or a delay of one or more ticks
// before the next write, signalled by Delaying.
//
// Delaying mirrors the tri-state the original format readers return:
// 0 means Address/Value is a write to apply now, 1 means the caller
// should tick the chip and call Tick again without writing anything,
// and 2 marks end-of-stream.
type Command struct {
	Address  uint16
	Value    uint8
	Delaying uint8
}

// Source is a stream of register commands paced to the OPL3's native
// tick rate. internal/imf and internal/regdump both implement it, so
// cmd/opl3play can drive either file format (or a patch-authored
// script) through the same playback loop.
type Source interface {
	// Tick advances the source's internal clock divider by one chip
	// tick and returns the command due, if any. done reports whether
	// the stream has been exhausted (Command.Delaying == 2).
	Tick() (cmd Command, done bool)
}
