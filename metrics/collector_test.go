package metrics

import (
	"sync"
	"testing"
)

func TestCollector_LifecycleCounters(t *testing.T) {
	c := NewCollector(7, "/tmp/traces")
	c.IncInitialize()
	c.IncInitialize()
	c.IncEnable()
	c.IncDisable()
	c.IncDeinitialize()

	snap := c.Snapshot()
	if snap.Initializations != 2 {
		t.Errorf("Initializations = %d, want 2", snap.Initializations)
	}
	if snap.Enables != 1 || snap.Disables != 1 || snap.Deinitializations != 1 {
		t.Errorf("unexpected lifecycle counts: %+v", snap)
	}
	if snap.SessionID != 7 || snap.TraceFilePath != "/tmp/traces" {
		t.Errorf("dimensions not preserved: %+v", snap)
	}
}

func TestCollector_EventPathCounters(t *testing.T) {
	c := NewCollector(1, "")
	c.IncEventLogged()
	c.IncEventLogged()
	c.IncEventDropped()
	c.IncSliceRetired()

	snap := c.Snapshot()
	if snap.EventsLogged != 2 {
		t.Errorf("EventsLogged = %d, want 2", snap.EventsLogged)
	}
	if snap.EventsDropped != 1 {
		t.Errorf("EventsDropped = %d, want 1", snap.EventsDropped)
	}
	if snap.SlicesRetired != 1 {
		t.Errorf("SlicesRetired = %d, want 1", snap.SlicesRetired)
	}
}

func TestCollector_BorrowCounters(t *testing.T) {
	c := NewCollector(1, "")
	c.IncReservedBorrow(true)
	c.IncReservedBorrow(false)
	c.IncDynamicBorrow(true)
	c.IncDynamicBorrow(true)
	c.IncDynamicBorrow(false)

	snap := c.Snapshot()
	if snap.ReservedBorrowSuccess != 1 || snap.ReservedBorrowFailure != 1 {
		t.Errorf("unexpected reserved borrow counts: %+v", snap)
	}
	if snap.DynamicBorrowSuccess != 2 || snap.DynamicBorrowFailure != 1 {
		t.Errorf("unexpected dynamic borrow counts: %+v", snap)
	}
}

func TestCollector_FlushAndArchiveCounters(t *testing.T) {
	c := NewCollector(1, "")
	c.IncFlushRetry()
	c.IncFlushRetry()
	c.IncFlushSuccess()
	c.IncFlushFailure()
	c.IncArchiveSuccess()
	c.IncArchiveFailure()

	snap := c.Snapshot()
	if snap.FlushRetries != 2 {
		t.Errorf("FlushRetries = %d, want 2", snap.FlushRetries)
	}
	if snap.FlushSuccess != 1 || snap.FlushFailure != 1 {
		t.Errorf("unexpected flush outcome counts: %+v", snap)
	}
	if snap.ArchiveSuccess != 1 || snap.ArchiveFailure != 1 {
		t.Errorf("unexpected archive outcome counts: %+v", snap)
	}
}

func TestCollector_SnapshotImmutability(t *testing.T) {
	c := NewCollector(1, "")
	c.IncEventLogged()

	s1 := c.Snapshot()
	c.IncEventLogged()
	c.IncEventLogged()

	if s1.EventsLogged != 1 {
		t.Errorf("s1.EventsLogged = %d, want 1 (snapshot should be frozen)", s1.EventsLogged)
	}

	s2 := c.Snapshot()
	if s2.EventsLogged != 3 {
		t.Errorf("s2.EventsLogged = %d, want 3", s2.EventsLogged)
	}
}

func TestCollector_NilReceiverIsSafe(t *testing.T) {
	var c *Collector
	c.IncInitialize()
	c.IncDeinitialize()
	c.IncEnable()
	c.IncDisable()
	c.IncEventLogged()
	c.IncEventDropped()
	c.IncSliceRetired()
	c.IncReservedBorrow(true)
	c.IncDynamicBorrow(false)
	c.IncFlushSuccess()
	c.IncFlushFailure()
	c.IncFlushRetry()
	c.IncArchiveSuccess()
	c.IncArchiveFailure()

	if snap := c.Snapshot(); snap != (Snapshot{}) {
		t.Errorf("nil Collector should snapshot to zero value, got %+v", snap)
	}
}

func TestCollector_ZeroValueSnapshot(t *testing.T) {
	c := NewCollector(1, "")
	snap := c.Snapshot()
	if snap != (Snapshot{SessionID: 1}) {
		t.Errorf("fresh collector should have all-zero counters, got %+v", snap)
	}
}

func TestCollector_ConcurrentAccess(t *testing.T) {
	c := NewCollector(1, "")
	const goroutines = 10
	const iterations = 1000

	var wg sync.WaitGroup
	wg.Add(goroutines)

	for range goroutines {
		go func() {
			defer wg.Done()
			for range iterations {
				c.IncEventLogged()
				c.IncReservedBorrow(true)
				c.IncFlushSuccess()
			}
		}()
	}

	wg.Wait()

	snap := c.Snapshot()
	want := int64(goroutines * iterations)

	if snap.EventsLogged != want {
		t.Errorf("EventsLogged = %d, want %d", snap.EventsLogged, want)
	}
	if snap.ReservedBorrowSuccess != want {
		t.Errorf("ReservedBorrowSuccess = %d, want %d", snap.ReservedBorrowSuccess, want)
	}
	if snap.FlushSuccess != want {
		t.Errorf("FlushSuccess = %d, want %d", snap.FlushSuccess, want)
	}
}
