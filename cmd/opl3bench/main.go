// Command opl3bench measures the core's Tick throughput: how many
// simulated samples per second the chip can advance on this machine,
// and the resulting real-time factor against the chip's native
// 49716 Hz rate. Out of scope per spec.md §1 ("the benchmark harness")
// as a core component, but named there as a desired external tool.
package main

import (
	"fmt"
	"os"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"opl3dx/internal/opl3"
)

func main() {
	ticks := pflag.Int64("ticks", 5_000_000, "number of Tick calls to benchmark")
	voices := pflag.Int("voices", 18, "number of 2-op channels to key on (0-18)")
	rhythm := pflag.Bool("rhythm", false, "enable rhythm mode during the benchmark")
	pflag.Parse()

	log := charmlog.New(os.Stderr)

	if *voices < 0 || *voices > 18 {
		log.Fatalf("opl3bench: --voices must be 0-18, got %d", *voices)
	}

	chip := setupChip(*voices, *rhythm)

	start := time.Now()
	for i := int64(0); i < *ticks; i++ {
		chip.Tick()
	}
	elapsed := time.Since(start)

	report(*ticks, elapsed)
}

// opOffset is the classic OPL2/OPL3 per-channel operator register
// offset table within a 256-register bank: channel n's two operators
// live at opOffset[n] and opOffset[n]+3.
var opOffset = [9]uint16{0x00, 0x01, 0x02, 0x08, 0x09, 0x0A, 0x10, 0x11, 0x12}

// setupChip keys on a block of voices at slightly different pitches
// within one octave (block 3) so the envelope generators spend real time in attack/decay/sustain
// rather than sitting idle in Release, the state Tick does the least
// work in.
func setupChip(voices int, rhythm bool) *opl3.Chip {
	chip := opl3.NewChip(nil)
	chip.Write(0x105, 0x01) // OPL3 mode

	for ch := 0; ch < voices; ch++ {
		bank := uint16(ch/9) * 0x100
		inBank := ch % 9
		op0 := bank + opOffset[inBank]
		op1 := op0 + 3

		for _, op := range [2]uint16{op0, op1} {
			chip.Write(0x20+op, 0x21)
			chip.Write(0x40+op, 0x10)
			chip.Write(0x60+op, 0xF0)
			chip.Write(0x80+op, 0x77)
			chip.Write(0xE0+op, 0x00)
		}

		chAddr := bank + 0xC0 + uint16(inBank)
		chip.Write(chAddr, 0x31)

		fnum := uint16(0x200 + ch*4)
		block := uint8(3)
		chip.Write(bank+0xA0+uint16(inBank), uint8(fnum&0xFF))
		chip.Write(bank+0xB0+uint16(inBank), uint8(fnum>>8)|(block<<2)|0x20)
	}

	if rhythm {
		chip.Write(0xBD, 0x3F)
	}

	return chip
}

func report(ticks int64, elapsed time.Duration) {
	const nativeRate = 49716.0

	ticksPerSec := float64(ticks) / elapsed.Seconds()
	simulatedSeconds := float64(ticks) / nativeRate
	realTimeFactor := simulatedSeconds / elapsed.Seconds()

	fmt.Printf("ticks:             %d\n", ticks)
	fmt.Printf("elapsed:           %s\n", elapsed)
	fmt.Printf("ticks/sec:         %.0f\n", ticksPerSec)
	fmt.Printf("simulated audio:   %.2fs\n", simulatedSeconds)
	fmt.Printf("real-time factor:  %.1fx\n", realTimeFactor)
}
