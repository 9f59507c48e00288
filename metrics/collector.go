// Package metrics provides per-session metrics collection for the
// spoor runtime.
//
// The Collector accumulates counters during a single runtime session.
// It is a leaf package with no internal dependencies.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all tracked metrics.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Lifecycle
	Initializations int64
	Deinitializations int64
	Enables           int64
	Disables          int64

	// Event path
	EventsLogged   int64
	EventsDropped  int64
	SlicesRetired  int64

	// Slice pool borrowing
	ReservedBorrowSuccess int64
	ReservedBorrowFailure int64
	DynamicBorrowSuccess  int64
	DynamicBorrowFailure  int64

	// Flush engine
	FlushSuccess int64
	FlushFailure int64
	FlushRetries int64

	// Archiver (best-effort, independent of flush retry accounting)
	ArchiveSuccess int64
	ArchiveFailure int64

	// Dimensions (informational, set at construction)
	SessionID     uint64
	TraceFilePath string
}

// Collector accumulates metrics during a single runtime session.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe,
// so a *Collector obtained from an uninitialized runtime façade is always
// safe to call into.
type Collector struct {
	mu sync.Mutex

	initializations   int64
	deinitializations int64
	enables           int64
	disables          int64

	eventsLogged  int64
	eventsDropped int64
	slicesRetired int64

	reservedBorrowSuccess int64
	reservedBorrowFailure int64
	dynamicBorrowSuccess  int64
	dynamicBorrowFailure  int64

	flushSuccess int64
	flushFailure int64
	flushRetries int64

	archiveSuccess int64
	archiveFailure int64

	sessionID     uint64
	traceFilePath string
}

// NewCollector creates a Collector tagged with the session's identity.
func NewCollector(sessionID uint64, traceFilePath string) *Collector {
	return &Collector{sessionID: sessionID, traceFilePath: traceFilePath}
}

// --- Lifecycle ---

// IncInitialize records an Initialize transition. The runtime façade does
// not call it for an Initialize that is an idempotent no-op.
func (c *Collector) IncInitialize() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.initializations++
	c.mu.Unlock()
}

// IncDeinitialize records a Deinitialize transition.
func (c *Collector) IncDeinitialize() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.deinitializations++
	c.mu.Unlock()
}

// IncEnable records an Enable transition.
func (c *Collector) IncEnable() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.enables++
	c.mu.Unlock()
}

// IncDisable records a Disable transition.
func (c *Collector) IncDisable() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.disables++
	c.mu.Unlock()
}

// --- Event path ---

// IncEventLogged records one Event handed to a per-thread buffer while
// the runtime is Enabled. An Event the buffer then drops is counted here
// and by IncEventDropped.
func (c *Collector) IncEventLogged() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsLogged++
	c.mu.Unlock()
}

// IncEventDropped records one Event dropped because borrowing failed and
// retention was zero (spec.md §8 Property 10).
func (c *Collector) IncEventDropped() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.eventsDropped++
	c.mu.Unlock()
}

// IncSliceRetired records a buffer slice retiring (enqueued for flush, or
// recycled by the retention window).
func (c *Collector) IncSliceRetired() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.slicesRetired++
	c.mu.Unlock()
}

// --- Slice pool borrowing ---

// IncReservedBorrow records the outcome of a reserved-tier borrow attempt.
func (c *Collector) IncReservedBorrow(success bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if success {
		c.reservedBorrowSuccess++
	} else {
		c.reservedBorrowFailure++
	}
	c.mu.Unlock()
}

// IncDynamicBorrow records the outcome of a dynamic-tier borrow attempt.
func (c *Collector) IncDynamicBorrow(success bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if success {
		c.dynamicBorrowSuccess++
	} else {
		c.dynamicBorrowFailure++
	}
	c.mu.Unlock()
}

// --- Flush engine ---

// IncFlushSuccess records a successfully-written trace file.
func (c *Collector) IncFlushSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.flushSuccess++
	c.mu.Unlock()
}

// IncFlushFailure records a slice dropped after exhausting its write retries.
func (c *Collector) IncFlushFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.flushFailure++
	c.mu.Unlock()
}

// IncFlushRetry records one retried write attempt (not the final outcome).
func (c *Collector) IncFlushRetry() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.flushRetries++
	c.mu.Unlock()
}

// --- Archiver ---

// IncArchiveSuccess records a trace file successfully mirrored to the archiver.
func (c *Collector) IncArchiveSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.archiveSuccess++
	c.mu.Unlock()
}

// IncArchiveFailure records an archiver upload or delete failure.
func (c *Collector) IncArchiveFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.archiveFailure++
	c.mu.Unlock()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Initializations:   c.initializations,
		Deinitializations: c.deinitializations,
		Enables:           c.enables,
		Disables:          c.disables,

		EventsLogged:  c.eventsLogged,
		EventsDropped: c.eventsDropped,
		SlicesRetired: c.slicesRetired,

		ReservedBorrowSuccess: c.reservedBorrowSuccess,
		ReservedBorrowFailure: c.reservedBorrowFailure,
		DynamicBorrowSuccess:  c.dynamicBorrowSuccess,
		DynamicBorrowFailure:  c.dynamicBorrowFailure,

		FlushSuccess: c.flushSuccess,
		FlushFailure: c.flushFailure,
		FlushRetries: c.flushRetries,

		ArchiveSuccess: c.archiveSuccess,
		ArchiveFailure: c.archiveFailure,

		SessionID:     c.sessionID,
		TraceFilePath: c.traceFilePath,
	}
}
