// Package patch loads TOML-described instrument banks and applies them
// to a chip as register writes. The original reference never sees
// anything but raw register streams; this gives a user a way to author
// FM voices by name instead of by hex dump.
package patch

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"opl3dx/internal/opl3"
)

// Operator holds one operator's worth of instrument parameters, field
// names matching the register bitfields they end up in.
type Operator struct {
	Multiple      uint8 `toml:"multiple"`
	KSR           bool  `toml:"ksr"`
	SustainingEG  bool  `toml:"sustaining_eg"`
	Vibrato       bool  `toml:"vibrato"`
	Tremolo       bool  `toml:"tremolo"`
	TotalLevel    uint8 `toml:"total_level"`
	KeyScaleLevel uint8 `toml:"key_scale_level"`
	AttackRate    uint8 `toml:"attack_rate"`
	DecayRate     uint8 `toml:"decay_rate"`
	SustainLevel  uint8 `toml:"sustain_level"`
	ReleaseRate   uint8 `toml:"release_rate"`
	Waveform      uint8 `toml:"waveform"`
}

// Note optionally carries the pitch an instrument should be struck at,
// letting a TOML document describe a standalone "song" of patch + note
// events with no binary IMF/regdump file at all.
type Note struct {
	FNum  uint16 `toml:"fnum"`
	Block uint8  `toml:"block"`
}

// Instrument is one named FM voice: a feedback/connection byte plus
// two operator blocks (four for a 4-op voice), modeled after the
// classic OPL2/OPL3 instrument-bank idea.
type Instrument struct {
	Feedback   uint8       `toml:"feedback"`
	Connection uint8       `toml:"connection"` // 0 = FM (serial), 1 = additive
	FourOp     bool        `toml:"four_op"`
	StereoLeft  bool       `toml:"stereo_left"`
	StereoRight bool       `toml:"stereo_right"`
	Operators  []Operator  `toml:"operators"`
	Note       *Note       `toml:"note"`
}

// Bank is a named collection of instruments, decoded from a TOML
// document via BurntSushi/toml.
type Bank struct {
	Instrument map[string]Instrument `toml:"instrument"`
}

// Load decodes a TOML patch bank from data.
func Load(data []byte) (*Bank, error) {
	var bank Bank
	if err := toml.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("patch: decode bank: %w", err)
	}
	return &bank, nil
}

// LoadFile decodes a TOML patch bank from a file on disk.
func LoadFile(path string) (*Bank, error) {
	var bank Bank
	if _, err := toml.DecodeFile(path, &bank); err != nil {
		return nil, fmt.Errorf("patch: decode bank %s: %w", path, err)
	}
	return &bank, nil
}

// opOffset is the classic OPL2/OPL3 per-channel operator register
// offset table: channel ch's two operators live at opOffset[ch] and
// opOffset[ch]+3 within a 256-register bank.
var opOffset = [9]uint16{0x00, 0x01, 0x02, 0x08, 0x09, 0x0A, 0x10, 0x11, 0x12}

// channelAddrs returns the channel's 0xC0 register address and its two
// (or, for a 4-op voice, four) operator register offsets, both with the
// bank included, for a chip-wide channel index 0-17 (9 per bank).
func channelAddrs(channel int, fourOp bool) (chAddr uint16, opAddrs []uint16, err error) {
	if channel < 0 || channel >= 18 {
		return 0, nil, fmt.Errorf("patch: channel %d out of range [0,18)", channel)
	}
	bank := uint16(channel/9) * 0x100
	inBank := channel % 9
	base := opOffset[inBank]

	opAddrs = []uint16{bank + base, bank + base + 3}
	if fourOp {
		if inBank+3 >= 9 {
			return 0, nil, fmt.Errorf("patch: channel %d has no 4-op partner in its bank", channel)
		}
		partnerBase := opOffset[inBank+3]
		opAddrs = append(opAddrs, bank+partnerBase, bank+partnerBase+3)
	}

	chAddr = bank + 0xC0 + uint16(inBank)
	return chAddr, opAddrs, nil
}

// Apply emits the register writes that voice chip's given channel as
// the named instrument: per-operator 0x20/0x40/0x60/0x80/0xE0 writes,
// then the channel's 0xC0 feedback/connection/stereo byte, and
// finally (if the instrument carries one) the 0xA0/0xB0 fnum/block
// pair with key-on set.
func (b *Bank) Apply(chip *opl3.Chip, channel int, name string) error {
	inst, ok := b.Instrument[name]
	if !ok {
		return fmt.Errorf("patch: no instrument named %q", name)
	}

	chAddr, opAddrs, err := channelAddrs(channel, inst.FourOp)
	if err != nil {
		return err
	}
	if len(inst.Operators) != len(opAddrs) {
		return fmt.Errorf("patch: instrument %q has %d operators, channel needs %d", name, len(inst.Operators), len(opAddrs))
	}

	for i, op := range inst.Operators {
		addr := opAddrs[i]
		chip.Write(0x20+addr, encode20h(op))
		chip.Write(0x40+addr, encode40h(op))
		chip.Write(0x60+addr, encode60h(op))
		chip.Write(0x80+addr, encode80h(op))
		chip.Write(0xE0+addr, op.Waveform&0x07)
	}

	chip.Write(chAddr, encodeC0h(inst))

	if inst.Note != nil {
		chip.Write(chAddr-0x20, uint8(inst.Note.FNum&0xFF))
		fnumHi := uint8((inst.Note.FNum >> 8) & 0x03)
		block := inst.Note.Block & 0x07
		chip.Write(chAddr-0x10, fnumHi|(block<<2)|0x20)
	}

	return nil
}

func encode20h(op Operator) uint8 {
	v := op.Multiple & 0x0F
	if op.KSR {
		v |= 0x10
	}
	if op.SustainingEG {
		v |= 0x20
	}
	if op.Vibrato {
		v |= 0x40
	}
	if op.Tremolo {
		v |= 0x80
	}
	return v
}

func encode40h(op Operator) uint8 {
	return (op.TotalLevel & 0x3F) | ((op.KeyScaleLevel & 0x03) << 6)
}

func encode60h(op Operator) uint8 {
	return (op.DecayRate & 0x0F) | ((op.AttackRate & 0x0F) << 4)
}

func encode80h(op Operator) uint8 {
	return (op.ReleaseRate & 0x0F) | ((op.SustainLevel & 0x0F) << 4)
}

func encodeC0h(inst Instrument) uint8 {
	v := inst.Connection&0x01
	v |= (inst.Feedback & 0x07) << 1
	if inst.StereoLeft {
		v |= 0x10
	}
	if inst.StereoRight {
		v |= 0x20
	}
	return v
}
