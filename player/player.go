package player

import (
	"errors"
	"fmt"
	"sync"

	"github.com/NSBrianWard/IMFPlayer/audio"
	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/log"
)

// ErrStopped is returned when starting a player that has been stopped.
var ErrStopped = errors.New("player stopped")

// Output is an audio sink pulling samples from a source, from its own
// goroutine, until closed.
type Output interface {
	Play(src audio.Source) error
	Close() error
}

// A Player plays a song in a loop on an audio output.
type Player struct {
	cfg Config

	synth  Synth
	seq    *Sequencer
	bridge *Bridge

	mu       sync.Mutex
	out      Output
	stopped  bool
	stopOnce sync.Once
	stopErr  error
}

// New creates a player for song. The player takes ownership of synth, which
// must run at cfg.Playback.MixerRate, and closes it when stopped.
func New(song *imf.Song, cfg Config, synth Synth) *Player {
	cfg.Check()

	seq := NewSequencer(song.Events)
	spt := SamplesPerTick(cfg.Playback.MixerRate, cfg.Playback.ClockRate)

	log.ModPlayer.InfoZ("new player").
		Int("events", len(song.Events)).
		Int("clock_rate", cfg.Playback.ClockRate).
		Int("mixer_rate", cfg.Playback.MixerRate).
		Int("samples_per_tick", spt).
		End()

	return &Player{
		cfg:    cfg,
		synth:  synth,
		seq:    seq,
		bridge: NewBridge(seq, synth, spt),
	}
}

// Start attaches the player to out. The output then drives playback until
// Stop is called.
func (p *Player) Start(out Output) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return ErrStopped
	}
	if p.out != nil {
		return errors.New("player already started")
	}

	var src audio.Source = p.bridge
	if rate := p.cfg.OutputRate(); rate != p.cfg.Playback.MixerRate {
		src = audio.NewResampler(p.bridge, p.cfg.Playback.MixerRate, rate)
	}

	if err := out.Play(src); err != nil {
		return fmt.Errorf("failed to start playback: %w", err)
	}
	p.out = out
	log.ModPlayer.InfoZ("playback started").End()
	return nil
}

// Stop stops playback and releases the synthesizer. It returns once the
// output stopped rendering. Stopping is irreversible, further calls return
// the result of the first one.
func (p *Player) Stop() error {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		defer p.mu.Unlock()

		p.stopped = true
		var err error
		if p.out != nil {
			err = p.out.Close()
		}
		p.stopErr = errors.Join(err, p.synth.Close())

		log.ModPlayer.InfoZ("playback stopped").
			Uint("ticks", uint(p.bridge.Ticks())).
			Int("loops", p.seq.Loops()).
			End()
	})
	return p.stopErr
}
