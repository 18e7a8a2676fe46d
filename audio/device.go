package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"github.com/NSBrianWard/IMFPlayer/log"
)

// Device is the system audio output.
type Device struct {
	ctx  *oto.Context
	rate int

	mu     sync.Mutex // only for setup/control operations
	player *oto.Player
}

// Open opens the audio output at the given sample rate. latency is the
// requested device buffer duration, 0 lets the driver choose.
//
// Only one device may be opened per process.
func Open(rate int, latency time.Duration) (*Device, error) {
	op := &oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: NumChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   latency,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	log.ModAudio.InfoZ("device opened").
		Int("rate", rate).
		Duration("latency", latency).
		End()

	return &Device{ctx: ctx, rate: rate}, nil
}

// Rate returns the device sample rate.
func (d *Device) Rate() int { return d.rate }

// Play starts pulling samples from src. The device reads src from its own
// goroutine until Close is called.
func (d *Device) Play(src Source) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player != nil {
		return errors.New("audio: device already playing")
	}
	d.player = d.ctx.NewPlayer(NewStream(src))
	d.player.Play()
	return d.ctx.Err()
}

// Close stops playback. Once Close returns, src is no longer read. Close is
// idempotent.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.player == nil {
		return nil
	}
	err := d.player.Close()
	d.player = nil
	log.ModAudio.InfoZ("device closed").End()
	return err
}
