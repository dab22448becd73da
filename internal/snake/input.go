package snake

import "sync"

// EventKind identifies what an input Event asks the engine to do.
type EventKind int

const (
	EventDirection EventKind = iota
	EventPause
	EventResume
	EventTogglePause
)

// Event is one discrete command from the input source.
type Event struct {
	Kind EventKind
	Dir  Direction // Only for EventDirection
}

// Turn returns a direction event.
func Turn(d Direction) Event {
	return Event{Kind: EventDirection, Dir: d}
}

// InputSlot is a single-slot buffer between the input source and the tick
// loop. A Put overwrites an event that has not been taken yet.
type InputSlot struct {
	mu      sync.Mutex
	pending Event
	full    bool
}

// Put stores ev, replacing any unread event.
func (s *InputSlot) Put(ev Event) {
	s.mu.Lock()
	s.pending = ev
	s.full = true
	s.mu.Unlock()
}

// Take returns the pending event and empties the slot.
func (s *InputSlot) Take() (Event, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.full {
		return Event{}, false
	}
	s.full = false
	return s.pending, true
}
