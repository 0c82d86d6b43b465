// Command opl3play drives an IMF or regdump register-command stream
// (optionally revoiced through a TOML patch bank) through the OPL3
// core and either plays it live over SDL2 or renders it to a WAV file.
package main

import (
	"fmt"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"opl3dx"
	"opl3dx/internal/clock"
	"opl3dx/internal/debug"
	"opl3dx/internal/imf"
	"opl3dx/internal/opl3"
	"opl3dx/internal/patch"
	"opl3dx/internal/playback"
	"opl3dx/internal/regdump"
	"opl3dx/internal/session"
	"opl3dx/internal/wavout"
)

func main() {
	var (
		sessionPath = pflag.String("session", "", "YAML session document (overrides other flags when set)")
		inputPath   = pflag.StringP("input", "i", "", "IMF or regdump register-stream file")
		format      = pflag.String("format", "", "imf|regdump (default: auto-detect)")
		patchPath   = pflag.String("patch", "", "TOML instrument patch bank")
		instrument  = pflag.String("instrument", "", "instrument name to voice channel with, from --patch")
		channel     = pflag.Int("channel", 0, "channel index (0-17) to voice --instrument on")
		outputPath  = pflag.StringP("output", "o", "", "WAV output path (omit for live SDL2 playback)")
		sampleRate  = pflag.Uint32("sample-rate", 49716, "output sample rate in Hz")
		rhythm      = pflag.Bool("rhythm", false, "enable rhythm mode before playback")
		logLevel    = pflag.String("log-level", "info", "debug,info,warn,error")
		logComps    = pflag.StringArray("log-component", nil, "enable a debug.Component (repeatable): PG,EG,WG,NG,RM,OG,TM,RW,RQ")
	)
	pflag.Parse()

	cliLog := charmlog.New(os.Stderr)
	cliLog.SetLevel(parseCharmLevel(*logLevel))

	cfg, err := resolveConfig(*sessionPath, *inputPath, *format, *patchPath, *instrument, *channel, *outputPath, *sampleRate, *rhythm)
	if err != nil {
		cliLog.Fatal(err)
	}

	if err := run(cfg, cliLog, *logComps); err != nil {
		cliLog.Fatal(err)
	}
}

// config is the resolved set of playback parameters, whichever of
// --session or the individual flags produced them.
type config struct {
	sampleRate uint32
	input      string
	format     string
	patchPath  string
	instrument string
	channel    int
	output     string
	rhythm     bool
}

func resolveConfig(sessionPath, input, format, patchPath, instrument string, channel int, output string, sampleRate uint32, rhythm bool) (config, error) {
	if sessionPath != "" {
		cfg, err := session.LoadFile(sessionPath)
		if err != nil {
			return config{}, err
		}
		return config{
			sampleRate: cfg.SampleRate,
			input:      cfg.Input,
			format:     cfg.Format,
			patchPath:  cfg.PatchBank,
			instrument: cfg.Instrument,
			channel:    cfg.Channel,
			output:     cfg.Output,
			rhythm:     cfg.Rhythm,
		}, nil
	}

	if input == "" {
		return config{}, fmt.Errorf("opl3play: --input or --session is required")
	}
	return config{
		sampleRate: sampleRate,
		input:      input,
		format:     format,
		patchPath:  patchPath,
		instrument: instrument,
		channel:    channel,
		output:     output,
		rhythm:     rhythm,
	}, nil
}

func parseCharmLevel(s string) charmlog.Level {
	switch s {
	case "debug":
		return charmlog.DebugLevel
	case "warn":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.InfoLevel
	}
}

func parseComponent(s string) (debug.Component, bool) {
	switch s {
	case "PG":
		return debug.ComponentPG, true
	case "EG":
		return debug.ComponentEG, true
	case "WG":
		return debug.ComponentWG, true
	case "NG":
		return debug.ComponentNG, true
	case "RM":
		return debug.ComponentRM, true
	case "OG":
		return debug.ComponentOG, true
	case "TM":
		return debug.ComponentTM, true
	case "RW":
		return debug.ComponentRW, true
	case "RQ":
		return debug.ComponentRQ, true
	default:
		return "", false
	}
}

func buildSource(data []byte, format string, sampleRate uint32) (opl3dx.Source, error) {
	switch format {
	case "imf":
		hasHeader := imf.GuessType(data)
		return imf.NewReader(data, uint32(imf.RateCommanderKeen), sampleRate, hasHeader), nil
	case "regdump":
		return regdump.NewReader(data), nil
	case "":
		if imf.GuessType(data) {
			return imf.NewReader(data, uint32(imf.RateCommanderKeen), sampleRate, true), nil
		}
		return regdump.NewReader(data), nil
	default:
		return nil, fmt.Errorf("opl3play: unknown --format %q", format)
	}
}

func run(cfg config, cliLog *charmlog.Logger, logComps []string) error {
	data, err := os.ReadFile(cfg.input)
	if err != nil {
		return fmt.Errorf("opl3play: read input: %w", err)
	}

	src, err := buildSource(data, cfg.format, cfg.sampleRate)
	if err != nil {
		return err
	}

	var chipLog *debug.Logger
	if len(logComps) > 0 {
		chipLog = debug.NewLogger(10000)
		for _, c := range logComps {
			if comp, ok := parseComponent(c); ok {
				chipLog.SetComponentEnabled(comp, true)
			} else {
				cliLog.Warnf("unknown log component %q", c)
			}
		}
	}

	chip := opl3.NewChip(chipLog)
	if cfg.rhythm {
		chip.Write(0x105, 0x01) // OPL3 mode
		chip.Write(0xBD, 0x20)
	}

	if cfg.patchPath != "" && cfg.instrument != "" {
		bank, err := patch.LoadFile(cfg.patchPath)
		if err != nil {
			return err
		}
		if err := bank.Apply(chip, cfg.channel, cfg.instrument); err != nil {
			return err
		}
		cliLog.Infof("voiced channel %d as %q from %s", cfg.channel, cfg.instrument, cfg.patchPath)
	}

	if cfg.output != "" {
		return renderToFile(chip, src, cfg)
	}
	return playLive(chip, src, cfg, cliLog)
}

func renderToFile(chip *opl3.Chip, src opl3dx.Source, cfg config) error {
	f, err := os.Create(cfg.output)
	if err != nil {
		return fmt.Errorf("opl3play: create output: %w", err)
	}
	defer f.Close()

	w, err := wavout.New(f, cfg.sampleRate, 2)
	if err != nil {
		return err
	}

	for {
		cmd, done := src.Tick()
		if cmd.Delaying == 0 {
			chip.Write(cmd.Address, cmd.Value)
		}
		chip.Tick()
		left, right := chip.OutputStereo()
		if err := w.WriteStereo(left, right); err != nil {
			return err
		}
		if done {
			break
		}
	}
	return w.Close()
}

func playLive(chip *opl3.Chip, src opl3dx.Source, cfg config, cliLog *charmlog.Logger) error {
	player, err := playback.Open(cfg.sampleRate)
	if err != nil {
		return err
	}
	defer player.Close()

	sc := clock.NewSampleClock(cfg.sampleRate)
	sc.Start()

	for {
		cmd, done := src.Tick()
		if cmd.Delaying == 0 {
			chip.Write(cmd.Address, cmd.Value)
		}
		chip.Tick()
		left, right := chip.OutputStereo()
		if err := player.QueueStereo(left, right); err != nil {
			cliLog.Error(err)
		}
		sc.Advance(1)
		if done {
			break
		}
		sc.SleepUntilDue()
	}
	return nil
}
