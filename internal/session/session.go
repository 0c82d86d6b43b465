// Package session decodes the small YAML document that describes one
// playback session: sample rate, which patch bank and instrument to
// voice a stream through, where output goes, and whether rhythm mode
// starts enabled. cmd/opl3play accepts this as an alternative to plain
// command-line flags: when a session is given, its values replace the
// flags entirely.
package session

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Routing holds a channel's left/right output enables as read from the
// session document. It is decoded only; nothing in this module writes
// it to the chip.
type Routing struct {
	Left  bool `yaml:"left"`
	Right bool `yaml:"right"`
}

// Config is the full decoded session document.
type Config struct {
	SampleRate uint32 `yaml:"sample_rate"`

	Input  string `yaml:"input"`
	Format string `yaml:"format"` // "imf", "regdump", or "" (auto-detect)

	PatchBank   string `yaml:"patch_bank"`
	Instrument  string `yaml:"instrument"`
	Channel     int    `yaml:"channel"`

	Output string `yaml:"output"` // WAV path, or "" for live playback

	Rhythm bool `yaml:"rhythm"`

	Routing map[int]Routing `yaml:"routing"`
}

// defaultSampleRate is the chip's native tick rate; a session document
// that omits sample_rate gets this rather than zero.
const defaultSampleRate = 49716

// Load decodes a session document from data.
func Load(data []byte) (*Config, error) {
	cfg := &Config{SampleRate: defaultSampleRate}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("session: decode config: %w", err)
	}
	if cfg.SampleRate == 0 {
		cfg.SampleRate = defaultSampleRate
	}
	return cfg, nil
}

// LoadFile reads and decodes a session document from a file on disk.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("session: read %s: %w", path, err)
	}
	return Load(data)
}
