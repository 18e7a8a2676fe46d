package player

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
)

func renderTestWAV(t *testing.T, opts RenderOptions) (*wav.Decoder, int, *testSynth) {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	synth := &testSynth{}
	frames, err := RenderWAV(f, testSong(), synth, opts)
	if err != nil {
		t.Fatalf("RenderWAV: %v", err)
	}

	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		t.Fatalf("invalid wav file")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer: %v", err)
	}
	if got := len(buf.Data); got != frames*2 {
		t.Errorf("wav holds %d samples, want %d", got, frames*2)
	}
	return dec, frames, synth
}

func TestRenderWAVSeconds(t *testing.T) {
	dec, frames, synth := renderTestWAV(t, RenderOptions{
		ClockRate: 560,
		MixerRate: 8000,
		Seconds:   1.5,
	})

	if frames != 12000 {
		t.Errorf("frames = %d, want 12000", frames)
	}
	if dec.NumChans != 2 || dec.BitDepth != 16 || dec.SampleRate != 8000 {
		t.Errorf("format = %d chans %d bits %d Hz, want 2 chans 16 bits 8000 Hz",
			dec.NumChans, dec.BitDepth, dec.SampleRate)
	}
	if synth.closed != 1 {
		t.Errorf("synth closed %d times, want 1", synth.closed)
	}
}

func TestRenderWAVLoops(t *testing.T) {
	// 3 events, delays 0, 10, 10: one loop every 11 ticks of 14 samples.
	_, frames, _ := renderTestWAV(t, RenderOptions{
		ClockRate: 560,
		MixerRate: 8000,
		Loops:     2,
	})

	minFrames := 2 * 11 * 14
	if frames < minFrames || frames >= minFrames+renderChunk {
		t.Errorf("frames = %d, want in [%d, %d)", frames, minFrames, minFrames+renderChunk)
	}
}

func TestRenderWAVInvalidRates(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	synth := &testSynth{}
	if _, err := RenderWAV(f, testSong(), synth, RenderOptions{ClockRate: 0, MixerRate: 8000}); err == nil {
		t.Errorf("RenderWAV with a null clock rate should fail")
	}
	if synth.closed != 1 {
		t.Errorf("synth closed %d times, want 1", synth.closed)
	}
}
