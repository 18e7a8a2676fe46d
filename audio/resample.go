package audio

import (
	"math"

	"github.com/arl/blip"

	"github.com/NSBrianWard/IMFPlayer/log"
)

// resampleChunk is the maximum number of output frames produced per blip
// time frame.
const resampleChunk = 1024

// A Resampler converts the output of a Source from one sample rate to
// another, with band-limited synthesis. Since sources are mono duplicated on
// both channels, only the left channel is resampled.
type Resampler struct {
	src  Source
	blip *blip.Buffer

	in   []float32 // source frames
	out  []int16
	prev int32
}

// NewResampler returns a Source rendering src, running at srcRate, at dstRate.
func NewResampler(src Source, srcRate, dstRate int) *Resampler {
	buf := blip.NewBuffer(resampleChunk * 2)
	buf.SetRates(float64(srcRate), float64(dstRate))

	log.ModAudio.InfoZ("resampling").
		Int("from", srcRate).
		Int("to", dstRate).
		Float("ratio", float64(srcRate)/float64(dstRate)).
		End()

	// Source frames needed for a whole chunk, plus rounding slack.
	maxClocks := int(math.Ceil(resampleChunk*float64(srcRate)/float64(dstRate))) + 2

	return &Resampler{
		src:  src,
		blip: buf,
		in:   make([]float32, maxClocks*NumChannels),
		out:  make([]int16, resampleChunk),
	}
}

func (r *Resampler) Render(out []float32) {
	frames := len(out) / NumChannels

	for done := 0; done < frames; {
		n := min(frames-done, resampleChunk)
		if avail := r.blip.SamplesAvailable(); avail < n {
			r.fill(r.blip.ClocksNeeded(n - avail))
		}

		got := r.blip.ReadSamples(r.out, n, blip.Mono)
		if got == 0 {
			clear(out[done*NumChannels:])
			return
		}
		for i, s := range r.out[:got] {
			f := float32(s) / 32768
			out[(done+i)*2] = f
			out[(done+i)*2+1] = f
		}
		done += got
	}
}

// fill renders clocks source frames into the blip buffer.
func (r *Resampler) fill(clocks int) {
	n := clocks * NumChannels
	if n > cap(r.in) {
		r.in = make([]float32, n)
	}
	in := r.in[:n]
	r.src.Render(in)

	for i := range clocks {
		s := int32(in[i*2] * 32767)
		if delta := s - r.prev; delta != 0 {
			r.blip.AddDelta(uint64(i), delta)
			r.prev = s
		}
	}
	r.blip.EndFrame(clocks)
}
