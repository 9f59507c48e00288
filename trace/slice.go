package trace

import "github.com/justapithecus/spoor/types"

// Tier identifies which pool tier a slice was borrowed from, so it can
// be returned to the correct tier on retirement (spec.md §4.3).
type Tier uint8

// Tier values.
const (
	TierReserved Tier = iota
	TierDynamic
)

// Slice is a fixed-capacity buffer of events, owned by a pool and loaned
// to exactly one thread at a time (spec.md §3's "Buffer slice").
type Slice struct {
	events   []types.Event
	capacity int
	tier     Tier

	// reservedIndex is the order in which NewPool pre-allocated this
	// reserved-tier slice; unused for dynamic-tier slices.
	reservedIndex int
}

func newSlice(capacity int, tier Tier) *Slice {
	return &Slice{
		events:   make([]types.Event, 0, capacity),
		capacity: capacity,
		tier:     tier,
	}
}

// Full reports whether the slice holds its full capacity of events.
func (s *Slice) Full() bool {
	return len(s.events) >= s.capacity
}

// Len returns the number of events currently held.
func (s *Slice) Len() int {
	return len(s.events)
}

// Append adds an event, reporting false if the slice was already full.
func (s *Slice) Append(e types.Event) bool {
	if s.Full() {
		return false
	}
	s.events = append(s.events, e)
	return true
}

// Events returns the slice's events in insertion order. The returned
// slice aliases internal storage and must not be retained past Reset.
func (s *Slice) Events() []types.Event {
	return s.events
}

// Reset empties the slice for reuse, preserving its allocated capacity.
func (s *Slice) Reset() {
	s.events = s.events[:0]
}
