package imf

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/NSBrianWard/IMFPlayer/log"
)

// A Song is a decoded IMF file.
type Song struct {
	Variant Variant
	Events  []Event

	// Size is the file size, in bytes.
	Size int
	// Declared is the payload size read from the header, 0 for type-0 files.
	Declared int
}

// Open loads a song from file.
func Open(path string) (*Song, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	song := new(Song)
	if _, err := song.ReadFrom(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return song, nil
}

// ReadFrom implements io.ReaderFrom interface
func (s *Song) ReadFrom(r io.Reader) (int64, error) {
	buf, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}

	variant, payload, err := split(buf)
	if err != nil {
		return int64(len(buf)), err
	}
	events, err := decodePayload(payload)
	if err != nil {
		return int64(len(buf)), err
	}

	s.Variant = variant
	s.Events = events
	s.Size = len(buf)
	s.Declared = int(binary.LittleEndian.Uint16(buf))

	if s.Truncated() {
		log.ModIMF.WarnZ("declared size past end of file, song truncated").
			Int("declared", s.Declared).
			Int("size", s.Size).
			End()
	}
	log.ModIMF.DebugZ("song loaded").
		Stringer("variant", s.Variant).
		Int("events", len(s.Events)).
		End()
	return int64(len(buf)), nil
}

// LoopTicks returns the length of one pass through the song, in ticks. The
// delay of the last event is never waited for: playback loops back to the
// first event one tick after the last one is due.
func (s *Song) LoopTicks() uint64 {
	if len(s.Events) == 0 {
		return 0
	}
	var total uint64
	for _, ev := range s.Events[:len(s.Events)-1] {
		total += uint64(ev.Delay)
	}
	return total + 1
}

// Duration returns the length of one pass through the song when played at
// clockRate ticks per second.
func (s *Song) Duration(clockRate int) time.Duration {
	if clockRate <= 0 {
		return 0
	}
	return time.Duration(s.LoopTicks()) * time.Second / time.Duration(clockRate)
}

// Truncated reports whether the header declares more payload bytes than the
// file holds.
func (s *Song) Truncated() bool {
	return s.Variant == TypeDeclaredSize && headerSize+s.Declared > s.Size
}
