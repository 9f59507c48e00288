package trace

import (
	"sync/atomic"
)

// freeNode is one node of the reserved tier's lock-free free-list: a
// Treiber stack of pre-allocated slices (spec.md §5 "reserved pool's
// free list is shared across threads; modified only via CAS").
type freeNode struct {
	slice *Slice
	next  atomic.Pointer[freeNode]
}

// Pool is the two-tier slice supply described in spec.md §3's "Slice
// pool": a reserved tier with a bounded, pre-allocated free-list, and a
// dynamic tier with a CAS-bounded live-slice counter and lazy
// allocation.
type Pool struct {
	reservedHead atomic.Pointer[freeNode]

	dynamicCapacity   int64
	dynamicLive       atomic.Int64
	dynamicSliceSize  int
	dynamicCasAttempts int

	metrics metricsSink
}

// metricsSink is the subset of metrics.Collector the pool needs,
// modeled as a capability interface so the pool package has no import
// cycle with metrics and is trivially testable without a collector.
type metricsSink interface {
	IncReservedBorrow(success bool)
	IncDynamicBorrow(success bool)
}

type noopMetrics struct{}

func (noopMetrics) IncReservedBorrow(bool) {}
func (noopMetrics) IncDynamicBorrow(bool)  {}

// NewPool builds a Pool, pre-allocating reservedCapacity slices of
// reservedSliceSize events for the reserved tier and configuring the
// dynamic tier per dynamicCapacity (0 = unbounded), dynamicSliceSize,
// and the bounded CAS-attempt budget for dynamic borrows.
func NewPool(reservedCapacity, reservedSliceSize, dynamicCapacity, dynamicSliceSize, dynamicCasAttempts int, metrics metricsSink) *Pool {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	p := &Pool{
		dynamicCapacity:    int64(dynamicCapacity),
		dynamicSliceSize:   dynamicSliceSize,
		dynamicCasAttempts: dynamicCasAttempts,
		metrics:            metrics,
	}
	for i := 0; i < reservedCapacity; i++ {
		s := newSlice(reservedSliceSize, TierReserved)
		s.reservedIndex = i
		node := &freeNode{slice: s}
		p.pushReserved(node)
	}
	return p
}

func (p *Pool) pushReserved(node *freeNode) {
	for {
		old := p.reservedHead.Load()
		node.next.Store(old)
		if p.reservedHead.CompareAndSwap(old, node) {
			return
		}
	}
}

func (p *Pool) popReserved() *freeNode {
	for {
		old := p.reservedHead.Load()
		if old == nil {
			return nil
		}
		next := old.next.Load()
		if p.reservedHead.CompareAndSwap(old, next) {
			return old
		}
	}
}

// BorrowReserved claims a slice from the reserved tier's free-list.
// Callers must only call this when their per-thread reserved-borrowed
// flag is false (spec.md §4.3 step 1); the pool itself does not track
// which thread holds which reserved slice.
func (p *Pool) BorrowReserved() (*Slice, bool) {
	node := p.popReserved()
	if node == nil {
		p.metrics.IncReservedBorrow(false)
		return nil, false
	}
	p.metrics.IncReservedBorrow(true)
	return node.slice, true
}

// ReturnReserved hands a drained reserved-tier slice back to the
// free-list (spec.md §4.3 "Returning").
func (p *Pool) ReturnReserved(s *Slice) {
	s.Reset()
	p.pushReserved(&freeNode{slice: s})
}

// BorrowDynamic attempts to grow the dynamic tier's live-slice count by
// one, bounded by dynamicCasAttempts CAS retries and dynamicCapacity (0
// means unbounded), allocating a fresh slice on success (spec.md §4.3
// step 2).
func (p *Pool) BorrowDynamic() (*Slice, bool) {
	for attempt := 0; attempt < p.dynamicCasAttempts; attempt++ {
		cur := p.dynamicLive.Load()
		if p.dynamicCapacity > 0 && cur >= p.dynamicCapacity {
			p.metrics.IncDynamicBorrow(false)
			return nil, false
		}
		if p.dynamicLive.CompareAndSwap(cur, cur+1) {
			p.metrics.IncDynamicBorrow(true)
			return newSlice(p.dynamicSliceSize, TierDynamic), true
		}
	}
	p.metrics.IncDynamicBorrow(false)
	return nil, false
}

// ReturnDynamic deallocates a dynamic-tier slice and decrements the
// live-slice counter (spec.md §4.3 "Returning").
func (p *Pool) ReturnDynamic(s *Slice) {
	_ = s
	p.dynamicLive.Add(-1)
}

// Return hands a drained slice back to whichever tier it was borrowed
// from.
func (p *Pool) Return(s *Slice) {
	switch s.tier {
	case TierReserved:
		p.ReturnReserved(s)
	case TierDynamic:
		p.ReturnDynamic(s)
	}
}

// Borrow tries the reserved tier first when reservedHeld is false, then
// falls back to the dynamic tier, mirroring spec.md §4.3's borrow order.
func (p *Pool) Borrow(reservedHeld bool) (*Slice, bool) {
	if !reservedHeld {
		if s, ok := p.BorrowReserved(); ok {
			return s, true
		}
	}
	return p.BorrowDynamic()
}
