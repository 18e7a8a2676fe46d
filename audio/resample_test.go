package audio

import (
	"math"
	"testing"
)

// sineSource renders a mono sine duplicated on both channels.
type sineSource struct {
	freq, rate float64
	n          int
}

func (s *sineSource) Render(out []float32) {
	for i := 0; i < len(out); i += 2 {
		v := float32(0.5 * math.Sin(2*math.Pi*s.freq*float64(s.n)/s.rate))
		out[i] = v
		out[i+1] = v
		s.n++
	}
}

func risingCrossings(buf []float32) int {
	n := 0
	for i := 2; i < len(buf); i += 2 {
		if buf[i-2] < 0 && buf[i] >= 0 {
			n++
		}
	}
	return n
}

func TestResamplerFrequency(t *testing.T) {
	const (
		srcRate = 49716
		dstRate = 44100
		freq    = 441.0
	)

	src := &sineSource{freq: freq, rate: srcRate}
	r := NewResampler(src, srcRate, dstRate)

	// Odd sized requests, spanning several blip frames.
	out := make([]float32, dstRate*2)
	for off := 0; off < len(out); {
		n := min(2*777, len(out)-off)
		r.Render(out[off : off+n])
		off += n
	}

	if c := risingCrossings(out); c < 435 || c > 447 {
		t.Errorf("got %d rising zero crossings in 1s, want ~441", c)
	}

	for i := 0; i < len(out); i += 2 {
		if out[i] != out[i+1] {
			t.Fatalf("frame %d: left %f != right %f", i/2, out[i], out[i+1])
		}
	}

	// Source samples were consumed at the source rate.
	if src.n < srcRate-2048 || src.n > srcRate+2048 {
		t.Errorf("source rendered %d frames, want ~%d", src.n, srcRate)
	}
}

func TestResamplerNoAlloc(t *testing.T) {
	r := NewResampler(&sineSource{freq: 440, rate: 49716}, 49716, 48000)
	out := make([]float32, 2*1024)
	r.Render(out)

	allocs := testing.AllocsPerRun(100, func() {
		r.Render(out)
	})
	if allocs != 0 {
		t.Errorf("Render allocates %v times per run, want 0", allocs)
	}
}
