// Package audio streams rendered samples to the sound card.
package audio

import (
	"encoding/binary"
	"math"
)

const (
	NumChannels   = 2
	bytesPerFrame = NumChannels * 4 // float32 samples
)

// A Source renders interleaved stereo samples in [-1, 1].
type Source interface {
	Render(out []float32)
}

// Stream adapts a Source into an io.Reader of little-endian float32 samples.
type Stream struct {
	src Source
	buf []float32
}

func NewStream(src Source) *Stream {
	return &Stream{src: src}
}

// Read renders as many whole frames as fit in p.
func (s *Stream) Read(p []byte) (int, error) {
	frames := len(p) / bytesPerFrame
	if frames == 0 {
		return 0, nil
	}

	n := frames * NumChannels
	if n > cap(s.buf) {
		s.buf = make([]float32, n)
	}
	buf := s.buf[:n]
	s.src.Render(buf)

	for i, f := range buf {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(f))
	}
	return frames * bytesPerFrame, nil
}
