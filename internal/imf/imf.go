// Package imf reads id Music Format streams, the 4-byte-event register
// dump format used by Duke Nukem II, Wolfenstein 3D-engine titles,
// Commander Keen and other id Software-adjacent DOS games of the era.
package imf

import "opl3dx"

// Rate is one of the playback rates IMF files were authored against.
// The value doubles as the rate in Hz.
type Rate uint32

// Named rates, after the imf_rate_std enum: most Apogee/id titles settled
// on one of these three depending on the driver they licensed.
const (
	RateDukeNukemII Rate = 280

	RateBioMenace              Rate = 560
	RateCommanderKeen          Rate = 560
	RateCosmosCosmicAdventures Rate = 560
	RateMonsterBash            Rate = 560
	RateMajorStryker           Rate = 560

	RateBlakeStone         Rate = 700
	RateOperationBodyCount Rate = 700
	RateWolfenstein3D      Rate = 700
	RateCorridor7          Rate = 700
)

// event is one raw 4-byte IMF record.
type event struct {
	addressLo uint8
	value     uint8
	delayLo   uint8
	delayHi   uint8
}

const eventSize = 4

// GuessType reports whether data looks like a Type-1 IMF file (one
// carrying a 2-byte little-endian length header) as opposed to a
// headerless Type-0 stream. It sums alternating little-endian words
// over the first 42 samples past the first word and compares the two
// running sums; Type-1 streams keep their first word, declaring a byte
// length that is a multiple of the 4-byte event size, below the sum of
// the words that follow, while headerless streams do not exhibit that
// skew. This is a heuristic, not a format marker - ported faithfully
// from imf_guess_type rather than re-derived, since the original offers
// no rationale for the specific sample count or comparison.
func GuessType(data []byte) bool {
	if len(data) < 2 {
		return false
	}

	word := uint16(data[0]) | uint16(data[1])<<8
	pos := 2
	if word == 0 || word&3 != 0 {
		return false
	}

	var sum1, sum2 uint32
	for i := 42; i > 0 && len(data)-pos >= 4; i-- {
		w1 := uint16(data[pos]) | uint16(data[pos+1])<<8
		pos += 2
		sum1 += uint32(w1)

		w2 := uint16(data[pos]) | uint16(data[pos+1])<<8
		pos += 2
		sum2 += uint32(w2)
	}
	return sum1 > sum2
}

// Reader streams register Commands out of an IMF file at the chip's
// native tick rate, down-converting from the file's own declared
// playback rate via an integer clock divider.
type Reader struct {
	events []event

	division uint32
	divider  uint32
	delay    uint16
	index    uint32
	addressHi uint8
}

// NewReader loads data as an IMF stream paced against oplRate (the
// chip's native tick rate, ordinarily 49716), downsampling from imfRate
// (the file's own declared playback rate - see the Rate constants).
// hasHeader selects Type-1 (2-byte length-prefixed) parsing; pass the
// result of GuessType when the caller doesn't already know the type.
func NewReader(data []byte, imfRate, oplRate uint32, hasHeader bool) *Reader {
	r := &Reader{
		division: oplRate / imfRate,
	}
	r.load(data, hasHeader)
	return r
}

func (r *Reader) load(data []byte, hasHeader bool) {
	if hasHeader {
		lengthByHeader := uint32(uint16(data[0]) | uint16(data[1])<<8)
		lengthByHeader /= eventSize
		lengthBySize := uint32(len(data)-2) / eventSize
		length := lengthByHeader
		if length > lengthBySize {
			length = lengthBySize
		}
		r.events = decodeEvents(data[2:], length)
	} else {
		length := uint32(len(data)) / eventSize
		r.events = decodeEvents(data, length)
	}
}

func decodeEvents(data []byte, length uint32) []event {
	events := make([]event, length)
	for i := uint32(0); i < length; i++ {
		off := i * eventSize
		events[i] = event{
			addressLo: data[off],
			value:     data[off+1],
			delayLo:   data[off+2],
			delayHi:   data[off+3],
		}
	}
	return events
}

// Tick advances the reader's clock divider by one chip tick. Most
// calls return a delaying (Delaying 1), zero-valued Command: the divider
// only empties, and the next event is decoded, once every division
// ticks. A decoded event comes back with Delaying 0 and its write; its
// delay field then holds off the event after it.
// Register 0x05 is never forwarded to the caller; instead its low bit
// latches the high address byte OPL3 uses to reach its second register
// bank, applied to every subsequent event until the next 0x05 write.
func (r *Reader) Tick() (opl3dx.Command, bool) {
	cmd := opl3dx.Command{Delaying: 1}

	if r.divider != 0 {
		r.divider--
	}
	if r.divider != 0 {
		return cmd, false
	}
	r.divider = r.division

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

	delay := uint16(ev.delayLo) | uint16(ev.delayHi)<<8
	r.delay = delay

	// A 0x05 event only latches the high address byte; it never
	// surfaces as a Command write (Address/Value stay zero), matching
	// imf_opl_tick exactly.
	if ev.addressLo == 0x05 {
		r.addressHi = ev.value & 0x01
		return cmd, false
	}

	cmd.Address = uint16(r.addressHi)<<8 | uint16(ev.addressLo)
	cmd.Value = ev.value
	cmd.Delaying = 0
	return cmd, false
}
