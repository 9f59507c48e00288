package trace

import (
	"time"

	"github.com/justapithecus/spoor/types"
)

// retiredSlice is a slice that has filled, tagged with the time it was
// retired so the retention ring can evict by age.
type retiredSlice struct {
	slice   *Slice
	retired time.Time
}

// bufferMetrics is the subset of metrics.Collector ThreadBuffer needs.
type bufferMetrics interface {
	metricsSink
	IncEventDropped()
	IncSliceRetired()
}

type noopBufferMetrics struct{ noopMetrics }

func (noopBufferMetrics) IncEventDropped() {}
func (noopBufferMetrics) IncSliceRetired() {}

// ThreadBuffer is one thread's append target: a current slice plus,
// when a retention window is configured, a ring of recently retired
// slices kept in memory instead of flushed (spec.md §4.3's "Per-thread
// buffer" and "Retention window").
type ThreadBuffer struct {
	pool            *Pool
	flushSlice      func(*Slice)
	retentionWindow time.Duration
	ringCapacity    int
	metrics         bufferMetrics

	current      *Slice
	reservedHeld bool
	ring         []retiredSlice
}

// NewThreadBuffer constructs a per-thread buffer drawing from pool,
// handing filled slices to flushSlice (unless retentionWindow > 0, in
// which case they are retained in a capacity-bounded ring instead),
// and recording outcomes on metrics.
func NewThreadBuffer(pool *Pool, flushSlice func(*Slice), retentionWindow time.Duration, ringCapacity int, metrics bufferMetrics) *ThreadBuffer {
	if metrics == nil {
		metrics = noopBufferMetrics{}
	}
	return &ThreadBuffer{
		pool:            pool,
		flushSlice:      flushSlice,
		retentionWindow: retentionWindow,
		ringCapacity:    ringCapacity,
		metrics:         metrics,
	}
}

// Append adds an event to the buffer's current slice, retiring and
// replacing it as needed (spec.md §4.3's "Per-thread buffer" algorithm).
// It never blocks: the reserved/dynamic borrow is itself bounded, and a
// failed borrow results in a dropped event rather than a wait.
func (b *ThreadBuffer) Append(e types.Event) {
	if b.current == nil || b.current.Full() {
		if b.current != nil {
			b.retire(b.current)
			b.current = nil
		}
		if !b.borrow() {
			if !b.recycleFromRing() {
				b.metrics.IncEventDropped()
				return
			}
		}
	}
	b.current.Append(e)
}

// borrow attempts to acquire a fresh current slice from the pool,
// preferring the reserved tier per spec.md §4.3 step 1.
func (b *ThreadBuffer) borrow() bool {
	s, ok := b.pool.Borrow(b.reservedHeld)
	if !ok {
		return false
	}
	if s.tier == TierReserved {
		b.reservedHeld = true
	}
	b.current = s
	return true
}

// retire hands off a filled slice: to the flush engine when there is no
// retention window, or into the retention ring otherwise.
func (b *ThreadBuffer) retire(s *Slice) {
	b.metrics.IncSliceRetired()
	if b.retentionWindow <= 0 {
		b.flushSlice(s)
		return
	}
	b.ring = append(b.ring, retiredSlice{slice: s, retired: time.Now()})
	b.evictExpired()
}

// evictExpired recycles ring entries older than the retention window
// back to their origin pool without flushing them (spec.md §4.3
// "Retention window").
func (b *ThreadBuffer) evictExpired() {
	cutoff := time.Now().Add(-b.retentionWindow)
	kept := b.ring[:0]
	for _, rs := range b.ring {
		if rs.retired.Before(cutoff) {
			b.returnToOrigin(rs.slice)
			continue
		}
		kept = append(kept, rs)
	}
	b.ring = kept
	for len(b.ring) > b.ringCapacity {
		oldest := b.ring[0]
		b.ring = b.ring[1:]
		b.returnToOrigin(oldest.slice)
	}
}

func (b *ThreadBuffer) returnToOrigin(s *Slice) {
	if s.tier == TierReserved {
		b.reservedHeld = false
	}
	b.pool.Return(s)
}

// recycleFromRing reuses the oldest retained slice as the new current
// slice when the pool has no fresh slice to offer, so a live retention
// window can keep accepting events under borrow pressure.
func (b *ThreadBuffer) recycleFromRing() bool {
	if len(b.ring) == 0 {
		return false
	}
	oldest := b.ring[0]
	b.ring = b.ring[1:]
	oldest.slice.Reset()
	b.current = oldest.slice
	return true
}

// Drain retires the current slice (if any) and flushes every ring
// entry, used by Deinitialize when flush_all_events is set.
func (b *ThreadBuffer) Drain() {
	if b.current != nil {
		b.flushSlice(b.current)
		b.current = nil
	}
	for _, rs := range b.ring {
		b.flushSlice(rs.slice)
	}
	b.ring = nil
}

// Discard drops the current slice and ring without flushing, returning
// their slices to origin, used by Deinitialize when flush_all_events is
// false.
func (b *ThreadBuffer) Discard() {
	if b.current != nil {
		b.returnToOrigin(b.current)
		b.current = nil
	}
	for _, rs := range b.ring {
		b.returnToOrigin(rs.slice)
	}
	b.ring = nil
}
