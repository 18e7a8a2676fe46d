// Package player plays decoded IMF songs. It keeps the event clock, ticking
// the song sequencer, in lock step with the sample clock of the synthesizer.
package player

import "github.com/NSBrianWard/IMFPlayer/log"

// Synth is an FM synthesizer driven by register writes.
type Synth interface {
	// WriteReg writes val into register reg.
	WriteReg(reg, val uint8)
	// Generate fills out with mono samples reflecting all the writes issued
	// before the call. Samples are roughly in the signed 16-bit range.
	Generate(out []int32)
	// Close releases the synthesizer.
	Close() error
}

// Ticker advances an event sequence by one tick per call.
type Ticker interface {
	AdvanceTick(emit func(reg, val uint8))
}

// SamplesPerTick returns the number of output samples between 2 ticks.
func SamplesPerTick(sampleRate, tickRate int) int {
	if tickRate <= 0 {
		return 1
	}
	return max(1, sampleRate/tickRate)
}

// A Bridge renders synthesizer output, advancing the ticker every
// samplesPerTick samples. Tick boundaries are sample accurate whatever the
// size of the render requests.
//
// Render is meant to run in the audio callback: once its scratch buffer has
// grown to the largest run requested, it doesn't allocate.
type Bridge struct {
	ticker Ticker
	synth  Synth
	emit   func(reg, val uint8)

	samplesPerTick int
	remaining      int // samples left before the next tick

	scratch []int32 // mono synth output
	ticks   uint64
}

// NewBridge returns a bridge between ticker and synth.
func NewBridge(ticker Ticker, synth Synth, samplesPerTick int) *Bridge {
	if samplesPerTick <= 0 {
		panic("player: samplesPerTick must be positive")
	}
	// emit is bound once, ticking must not allocate a method value.
	return &Bridge{
		ticker:         ticker,
		synth:          synth,
		emit:           synth.WriteReg,
		samplesPerTick: samplesPerTick,
		remaining:      samplesPerTick,
	}
}

// Render fills out, an interleaved stereo buffer, with normalized samples.
func (b *Bridge) Render(out []float32) {
	frames := len(out) / 2

	for produced := 0; produced < frames; {
		run := min(frames-produced, b.remaining)
		if run > cap(b.scratch) {
			b.scratch = make([]int32, run)
			log.ModPlayer.DebugZ("scratch buffer grown").Int("size", run).End()
		}
		raw := b.scratch[:run]
		b.synth.Generate(raw)

		dst := out[produced*2 : (produced+run)*2]
		for i, s := range raw {
			f := normalize(s)
			dst[i*2] = f
			dst[i*2+1] = f
		}

		produced += run
		b.remaining -= run
		if b.remaining == 0 {
			b.ticker.AdvanceTick(b.emit)
			b.ticks++
			b.remaining = b.samplesPerTick
		}
	}
}

// normalize clamps s to the signed 16-bit range and scales it to [-1, 1].
func normalize(s int32) float32 {
	s = min(max(s, -32768), 32767)
	return float32(s) / 32768.0
}

// Remaining returns the number of samples left to render before the next tick.
func (b *Bridge) Remaining() int { return b.remaining }

// Ticks returns the number of ticks advanced so far.
func (b *Bridge) Ticks() uint64 { return b.ticks }
