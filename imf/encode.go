package imf

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Encode encodes events into a type-1 IMF file, that is with a header
// declaring the payload size.
func Encode(events []Event) ([]byte, error) {
	size := len(events) * recordSize
	if size == 0 {
		return nil, ErrEmptyPayload
	}
	if size > math.MaxUint16 {
		return nil, fmt.Errorf("too many events for a type-1 header: %d", len(events))
	}

	buf := make([]byte, headerSize+size)
	binary.LittleEndian.PutUint16(buf, uint16(size))
	for i, ev := range events {
		rec := buf[headerSize+i*recordSize:]
		rec[0] = ev.Reg
		rec[1] = ev.Value
		binary.LittleEndian.PutUint16(rec[2:], ev.Delay)
	}
	return buf, nil
}
