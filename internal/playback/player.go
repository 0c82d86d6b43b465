// Package playback drives an opl3.Chip's tick output to a live SDL2
// audio device, in the style of the donor UI's SDL2 audio-queue loop
// (internal/ui.UI.Run's "queue samples, cap the backlog, skip a frame
// rather than block" pattern) but headless: no window, no texture, no
// input handling, just audio-out.
package playback

import (
	"fmt"

	"github.com/veandco/go-sdl2/sdl"
)

// Player owns an open SDL2 audio device streaming int16 stereo PCM.
type Player struct {
	dev        sdl.AudioDeviceID
	sampleRate uint32
}

// maxQueuedFrames caps how far playback is allowed to run ahead of the
// device, mirroring the donor's "limit to ~2 frames worth" backlog cap
// so a slow consumer doesn't let the queue grow without bound.
const maxQueuedFrames = 4096

// Open initializes SDL2 audio and opens the default output device at
// sampleRate, 16-bit signed stereo.
func Open(sampleRate uint32) (*Player, error) {
	if err := sdl.Init(sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("playback: sdl init: %w", err)
	}

	spec := sdl.AudioSpec{
		Freq:     int32(sampleRate),
		Format:   sdl.AUDIO_S16SYS,
		Channels: 2,
		Samples:  1024,
	}
	dev, err := sdl.OpenAudioDevice("", false, &spec, nil, 0)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("playback: open audio device: %w", err)
	}
	sdl.PauseAudioDevice(dev, false)

	return &Player{dev: dev, sampleRate: sampleRate}, nil
}

// QueueStereo appends one interleaved L/R int16 sample to the audio
// device's queue, dropping it instead of blocking if the device is
// already holding more than maxQueuedFrames frames of backlog.
func (p *Player) QueueStereo(left, right int16) error {
	queued := sdl.GetQueuedAudioSize(p.dev)
	if queued > maxQueuedFrames*4 {
		return nil
	}

	buf := []byte{
		byte(left), byte(left >> 8),
		byte(right), byte(right >> 8),
	}
	if err := sdl.QueueAudio(p.dev, buf); err != nil {
		return fmt.Errorf("playback: queue audio: %w", err)
	}
	return nil
}

// Backlog returns the number of queued-but-unplayed frames.
func (p *Player) Backlog() uint32 {
	return sdl.GetQueuedAudioSize(p.dev) / 4
}

// Close stops and releases the audio device.
func (p *Player) Close() {
	sdl.CloseAudioDevice(p.dev)
	sdl.Quit()
}
