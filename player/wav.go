package player

import (
	"errors"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/log"
)

// RenderOptions controls offline rendering. Rendering stops after Seconds
// if set, otherwise after the song has looped Loops times.
type RenderOptions struct {
	ClockRate int
	MixerRate int
	Seconds   float64
	Loops     int
}

const renderChunk = 4096

// RenderWAV renders song into a 16-bit stereo PCM WAV file written to w.
// The synthesizer must run at opts.MixerRate, RenderWAV closes it before
// returning. It returns the number of frames written.
func RenderWAV(w io.WriteSeeker, song *imf.Song, synth Synth, opts RenderOptions) (frames int, err error) {
	defer func() {
		err = errors.Join(err, synth.Close())
	}()

	if opts.ClockRate <= 0 || opts.MixerRate <= 0 {
		return 0, fmt.Errorf("invalid rates: clock %d Hz, mixer %d Hz", opts.ClockRate, opts.MixerRate)
	}

	loops := opts.Loops
	maxFrames := -1
	if opts.Seconds > 0 {
		maxFrames = int(opts.Seconds * float64(opts.MixerRate))
	} else if loops <= 0 {
		loops = 1
	}

	seq := NewSequencer(song.Events)
	bridge := NewBridge(seq, synth, SamplesPerTick(opts.MixerRate, opts.ClockRate))

	enc := wav.NewEncoder(w, opts.MixerRate, 16, 2, 1)
	fbuf := make([]float32, renderChunk*2)
	ibuf := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: 2,
			SampleRate:  opts.MixerRate,
		},
		Data:           make([]int, renderChunk*2),
		SourceBitDepth: 16,
	}

	done := func() bool {
		if maxFrames >= 0 {
			return frames >= maxFrames
		}
		return seq.Loops() >= loops
	}

	for !done() {
		n := renderChunk
		if maxFrames >= 0 {
			n = min(n, maxFrames-frames)
		}

		bridge.Render(fbuf[:n*2])
		ibuf.Data = ibuf.Data[:n*2]
		for i, s := range fbuf[:n*2] {
			ibuf.Data[i] = int(s * 32767)
		}
		if err := enc.Write(ibuf); err != nil {
			return frames, fmt.Errorf("wav write: %w", err)
		}
		frames += n
	}

	if err := enc.Close(); err != nil {
		return frames, fmt.Errorf("wav close: %w", err)
	}

	log.ModPlayer.InfoZ("rendered wav").
		Int("frames", frames).
		Int("loops", seq.Loops()).
		Int("rate", opts.MixerRate).
		End()
	return frames, nil
}
