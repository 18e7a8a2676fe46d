package player

import (
	"github.com/NSBrianWard/IMFPlayer/imf"
	"github.com/NSBrianWard/IMFPlayer/log"
)

// A Sequencer walks an IMF event list one tick at a time. The song loops
// forever: once the last event has been emitted, playback restarts from the
// first one at tick 0.
type Sequencer struct {
	events []imf.Event

	cursor  int    // next event to emit
	tick    uint32 // current tick, wraps around
	nextDue uint32 // tick at which events[cursor] is due
	loops   int
}

// SequencerState is a snapshot of the sequencer playback cursor.
type SequencerState struct {
	Cursor  int
	Tick    uint32
	NextDue uint32
}

// NewSequencer returns a sequencer over events, which must not be empty.
func NewSequencer(events []imf.Event) *Sequencer {
	if len(events) == 0 {
		panic("player: sequencer needs at least one event")
	}
	return &Sequencer{events: events}
}

// AdvanceTick advances the sequencer by one tick, calling emit, in order, for
// each event that becomes due during this tick.
func (s *Sequencer) AdvanceTick(emit func(reg, val uint8)) {
	// nextDue is at most 65535 ticks ahead, compare as a signed distance so
	// that due events survive the tick counter wrapping around.
	for int32(s.tick-s.nextDue) >= 0 {
		ev := s.events[s.cursor]
		emit(ev.Reg, ev.Value)

		// The delay counts from the current tick, so that a run of zero
		// delay events all fire during this call.
		s.nextDue = s.tick + uint32(ev.Delay)

		s.cursor++
		if s.cursor >= len(s.events) {
			log.ModSeq.DebugZ("song looped").
				Int("loops", s.loops+1).
				Uint32("tick", s.tick).
				End()
			s.cursor = 0
			s.tick = 0
			s.nextDue = 0
			s.loops++
			break
		}
	}

	s.tick++
}

// Reset rewinds the sequencer to the first event.
func (s *Sequencer) Reset() {
	s.cursor = 0
	s.tick = 0
	s.nextDue = 0
	s.loops = 0
}

// Loops returns how many times the song wrapped around to its first event.
func (s *Sequencer) Loops() int { return s.loops }

func (s *Sequencer) State() SequencerState {
	return SequencerState{
		Cursor:  s.cursor,
		Tick:    s.tick,
		NextDue: s.nextDue,
	}
}
