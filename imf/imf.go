// Package imf decodes music files in the id Music Format (IMF), a stream of
// timestamped OPL2 register writes used by id Software and Apogee games.
//
// Two header variants exist. Type-0 files start with a zero word and the whole
// file, that word included, is the command stream. Type-1 files start with the
// byte length of the command stream that follows.
package imf

import (
	"encoding/binary"
	"errors"

	"github.com/NSBrianWard/IMFPlayer/log"
)

var (
	// ErrTooSmall is returned when the input is too short to hold a header
	// and a command.
	ErrTooSmall = errors.New("file too small to be IMF")

	// ErrEmptyPayload is returned when the payload holds no complete command.
	ErrEmptyPayload = errors.New("no IMF events found")
)

const (
	headerSize = 2
	recordSize = 4
	minSize    = 4
)

// Event is a single register write followed by a delay, in ticks, before the
// next event of the stream.
type Event struct {
	Reg   uint8
	Value uint8
	Delay uint16
}

//go:generate go tool stringer -type=Variant -trimprefix=Type

// Variant identifies the header flavour of an IMF file.
type Variant uint8

const (
	TypeWholeFile    Variant = iota // leading word is zero, whole file is payload
	TypeDeclaredSize                // leading word is the payload length
)

// Decode decodes an IMF command stream into an ordered event sequence.
func Decode(buf []byte) ([]Event, error) {
	_, payload, err := split(buf)
	if err != nil {
		return nil, err
	}
	return decodePayload(payload)
}

// split returns the header variant and the payload bytes of buf.
//
// A declared size running past the end of buf is clamped to it.
func split(buf []byte) (Variant, []byte, error) {
	if len(buf) < minSize {
		return 0, nil, ErrTooSmall
	}

	declared := int(binary.LittleEndian.Uint16(buf))
	if declared == 0 {
		return TypeWholeFile, buf, nil
	}

	end := min(headerSize+declared, len(buf))
	return TypeDeclaredSize, buf[headerSize:end], nil
}

func decodePayload(payload []byte) ([]Event, error) {
	n := len(payload) / recordSize
	if n == 0 {
		return nil, ErrEmptyPayload
	}
	if rest := payload[n*recordSize:]; len(rest) != 0 {
		log.ModIMF.DebugZ("trailing partial record dropped").Blob("bytes", rest).End()
	}

	events := make([]Event, n)
	for i := range events {
		rec := payload[i*recordSize : (i+1)*recordSize]
		events[i] = Event{
			Reg:   rec[0],
			Value: rec[1],
			Delay: binary.LittleEndian.Uint16(rec[2:]),
		}
	}
	return events, nil
}
