// Package wavout writes a chip's tick output as a standard RIFF/WAVE
// file. Neither the reference emulator nor any example in this tree's
// dependency graph needs this — main.cpp there only ever writes raw
// PCM or drives a live device — but a renderer that produces a file a
// user can actually double-click is a natural thing to supplement a
// synchronous chip core with. Built on encoding/binary and io alone;
// see DESIGN.md for why no third-party WAV library was wired in
// instead.
package wavout

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Writer streams 16-bit PCM frames into a WAVE file: New writes the
// standard 44-byte header, each frame is written as it arrives, and
// Close fills in the header's size fields.
type Writer struct {
	w             io.WriteSeeker
	sampleRate    uint32
	channels      uint16
	dataBytes     uint32
	headerWritten bool
}

// New creates a Writer that will emit a sampleRate-Hz, channels-channel,
// 16-bit PCM WAVE file to w. w must support Seek so the header's
// length fields can be patched in on Close once the data size is known.
func New(w io.WriteSeeker, sampleRate uint32, channels uint16) (*Writer, error) {
	if channels == 0 {
		return nil, fmt.Errorf("wavout: channels must be > 0")
	}
	wr := &Writer{w: w, sampleRate: sampleRate, channels: channels}
	if err := wr.writeHeader(); err != nil {
		return nil, err
	}
	return wr, nil
}

const headerSize = 44

func (wr *Writer) writeHeader() error {
	blockAlign := wr.channels * 2
	byteRate := wr.sampleRate * uint32(blockAlign)

	hdr := make([]byte, headerSize)
	copy(hdr[0:4], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:8], 0) // patched on Close
	copy(hdr[8:12], "WAVE")
	copy(hdr[12:16], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(hdr[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(hdr[22:24], wr.channels)
	binary.LittleEndian.PutUint32(hdr[24:28], wr.sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:32], byteRate)
	binary.LittleEndian.PutUint16(hdr[32:34], blockAlign)
	binary.LittleEndian.PutUint16(hdr[34:36], 16) // bits per sample
	copy(hdr[36:40], "data")
	binary.LittleEndian.PutUint32(hdr[40:44], 0) // patched on Close

	_, err := wr.w.Write(hdr)
	wr.headerWritten = err == nil
	return err
}

// WriteFrame writes one multi-channel sample frame (one int16 per
// channel, in channel order).
func (wr *Writer) WriteFrame(samples ...int16) error {
	if len(samples) != int(wr.channels) {
		return fmt.Errorf("wavout: frame has %d samples, writer configured for %d channels", len(samples), wr.channels)
	}
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	if _, err := wr.w.Write(buf); err != nil {
		return fmt.Errorf("wavout: write frame: %w", err)
	}
	wr.dataBytes += uint32(len(buf))
	return nil
}

// WriteQuad writes a four-channel (A/B/C/D) OPL3 output frame,
// convenience for callers driving a 4-channel WAVE file directly from
// opl3.Chip.Output.
func (wr *Writer) WriteQuad(a, b, c, d int16) error {
	return wr.WriteFrame(a, b, c, d)
}

// WriteStereo writes a two-channel (L/R) frame, convenience for
// callers downmixing via opl3.Chip.OutputStereo.
func (wr *Writer) WriteStereo(left, right int16) error {
	return wr.WriteFrame(left, right)
}

// Close patches the RIFF and data chunk sizes now that the final byte
// count is known, and is a no-op on the underlying writer otherwise
// (the caller owns closing the file handle itself).
func (wr *Writer) Close() error {
	if !wr.headerWritten {
		return nil
	}
	riffSize := uint32(headerSize-8) + wr.dataBytes

	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], riffSize)
	if _, err := wr.w.Seek(4, io.SeekStart); err != nil {
		return fmt.Errorf("wavout: seek riff size: %w", err)
	}
	if _, err := wr.w.Write(buf[:]); err != nil {
		return fmt.Errorf("wavout: write riff size: %w", err)
	}

	binary.LittleEndian.PutUint32(buf[:], wr.dataBytes)
	if _, err := wr.w.Seek(40, io.SeekStart); err != nil {
		return fmt.Errorf("wavout: seek data size: %w", err)
	}
	if _, err := wr.w.Write(buf[:]); err != nil {
		return fmt.Errorf("wavout: write data size: %w", err)
	}

	_, err := wr.w.Seek(0, io.SeekEnd)
	return err
}
