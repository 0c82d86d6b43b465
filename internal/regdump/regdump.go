// Package regdump reads "regdump" streams: a headerless sequence of
// raw OPL3 register writes with inline delay markers, the simplest of
// the two command-stream formats this module supports.
package regdump

import "opl3dx"

// event is one raw 3-byte regdump record.
type event struct {
	addressHi uint8
	addressLo uint8
	value     uint8
}

const eventSize = 3

// Reader streams register Commands out of a regdump byte slice. Unlike
// imf.Reader it runs at the chip's own tick rate with no divider: every
// Tick call either applies one write or counts down one delay tick.
type Reader struct {
	events []event
	index  uint32
	delay  uint32
}

// NewReader loads data as a regdump stream.
func NewReader(data []byte) *Reader {
	length := uint32(len(data)) / eventSize
	events := make([]event, length)
	for i := uint32(0); i < length; i++ {
		off := i * eventSize
		events[i] = event{
			addressHi: data[off],
			addressLo: data[off+1],
			value:     data[off+2],
		}
	}
	return &Reader{events: events}
}

// Restart rewinds the reader to its first event without reloading the
// underlying byte slice, matching regdump_restart.
func (r *Reader) Restart() {
	r.index = 0
	r.delay = 0
}

// Tick advances the reader by one chip tick, applying the next pending
// write once any in-flight delay has counted down. A record whose
// address_hi has its high bit set is not a write at all: the
// remaining 23 bits across all three bytes encode a delay count to
// load instead (address_hi&0x7F)<<16 | address_lo<<8 | value),
// matching regdump_opl_tick.
func (r *Reader) Tick() (opl3dx.Command, bool) {
	cmd := opl3dx.Command{Delaying: 1}

	if r.delay != 0 {
		r.delay--
	}
	if r.delay != 0 {
		return cmd, false
	}

	if r.index >= uint32(len(r.events)) {
		cmd.Delaying = 2
		return cmd, true
	}

	ev := r.events[r.index]
	r.index++

	if ev.addressHi&0x80 != 0 {
		delay := uint32(ev.addressHi&0x7F)<<16 | uint32(ev.addressLo)<<8 | uint32(ev.value)
		r.delay = delay
		if delay > 0 {
			cmd.Delaying = 1
		} else {
			cmd.Delaying = 0
		}
		return cmd, false
	}

	cmd.Address = uint16(ev.addressHi)<<8 | uint16(ev.addressLo)
	cmd.Value = ev.value
	cmd.Delaying = 0
	return cmd, false
}
