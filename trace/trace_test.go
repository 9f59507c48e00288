package trace

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/justapithecus/spoor/types"
)

func TestHeader_RoundTrip(t *testing.T) {
	h := Header{
		Compression:          StrategySnappy,
		Version:              Version,
		SessionID:            0x11,
		ProcessID:            0x22,
		ThreadID:             0x33,
		SystemClockTimestamp: 0x44,
		SteadyClockTimestamp: 0x55,
		EventCount:           3,
	}
	buf := h.Encode()
	got, err := DecodeHeader(buf)
	if err != nil {
		t.Fatalf("DecodeHeader failed: %v", err)
	}
	if got.SessionID != h.SessionID || got.ProcessID != h.ProcessID || got.ThreadID != h.ThreadID {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, h)
	}
	if got.SystemClockTimestamp != h.SystemClockTimestamp || got.SteadyClockTimestamp != h.SteadyClockTimestamp {
		t.Errorf("timestamp round trip mismatch: got %+v, want %+v", got, h)
	}
	if got.EventCount != h.EventCount || got.Compression != h.Compression {
		t.Errorf("count/compression round trip mismatch: got %+v, want %+v", got, h)
	}
}

func TestDecodeHeader_MismatchedMagicNumber(t *testing.T) {
	var buf [HeaderSize]byte
	copy(buf[:], "NOTSPOOR")
	_, err := DecodeHeader(buf)
	re, ok := err.(*ReadError)
	if !ok || re.Kind != MismatchedMagicNumber {
		t.Fatalf("expected MismatchedMagicNumber, got %v", err)
	}
}

func TestDecodeHeader_UnknownVersion(t *testing.T) {
	h := Header{Version: 99}
	buf := h.Encode()
	_, err := DecodeHeader(buf)
	re, ok := err.(*ReadError)
	if !ok || re.Kind != UnknownVersion {
		t.Fatalf("expected UnknownVersion, got %v", err)
	}
}

func TestWriteRead_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.spoor_trace")

	events := []types.Event{
		{SteadyClockTimestamp: 1, Payload1: 10, Type: types.EventTypeFunctionEntry, Payload2: 0},
		{SteadyClockTimestamp: 2, Payload1: 10, Type: types.EventTypeFunctionExit, Payload2: 0},
	}
	h := Header{SessionID: 1, ProcessID: 2, ThreadID: 3}

	if err := Write(path, h, events, NoneCompressor{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tf, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(tf.Events) != len(events) {
		t.Fatalf("got %d events, want %d", len(tf.Events), len(events))
	}
	for i, e := range events {
		if tf.Events[i] != e {
			t.Errorf("event %d: got %+v, want %+v", i, tf.Events[i], e)
		}
	}
}

func TestWriteRead_SnappyRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "snappy.spoor_trace")

	events := make([]types.Event, 10000)
	for i := range events {
		events[i] = types.Event{
			SteadyClockTimestamp: int64(i),
			Payload1:             uint64(i),
			Type:                 types.EventTypeFunctionEntry,
			Payload2:             uint32(i),
		}
	}
	h := Header{SessionID: 1, ProcessID: 2, ThreadID: 3}
	if err := Write(path, h, events, SnappyCompressor{}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	tf, err := Read(path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(tf.Events) != len(events) {
		t.Fatalf("got %d events, want %d", len(tf.Events), len(events))
	}
	for i := range events {
		if tf.Events[i] != events[i] {
			t.Fatalf("event %d mismatch: got %+v, want %+v", i, tf.Events[i], events[i])
		}
	}
}

func TestPool_ReservedBorrowIsExclusive(t *testing.T) {
	pool := NewPool(2, 4, 0, 4, 16, nil)

	s1, ok := pool.BorrowReserved()
	if !ok {
		t.Fatal("expected first reserved borrow to succeed")
	}
	s2, ok := pool.BorrowReserved()
	if !ok {
		t.Fatal("expected second reserved borrow to succeed")
	}
	if s1 == s2 {
		t.Fatal("two borrows returned the same slice")
	}
	if _, ok := pool.BorrowReserved(); ok {
		t.Fatal("expected third reserved borrow to fail: pool exhausted")
	}

	pool.ReturnReserved(s1)
	if _, ok := pool.BorrowReserved(); !ok {
		t.Fatal("expected borrow to succeed after return")
	}
}

func TestPool_DynamicBorrowRespectsCapacity(t *testing.T) {
	pool := NewPool(0, 4, 1, 4, 16, nil)

	if _, ok := pool.BorrowDynamic(); !ok {
		t.Fatal("expected first dynamic borrow to succeed")
	}
	if _, ok := pool.BorrowDynamic(); ok {
		t.Fatal("expected second dynamic borrow to fail: capacity exhausted")
	}
}

func TestThreadBuffer_DropsEventWhenBorrowFailsAndRetentionZero(t *testing.T) {
	pool := NewPool(0, 2, 0, 2, 0, nil)
	flushed := make([]*Slice, 0)
	dropped := &countingMetrics{}
	buf := NewThreadBuffer(pool, func(s *Slice) { flushed = append(flushed, s) }, 0, 4, dropped)

	buf.Append(types.Event{Type: types.EventTypeFunctionEntry})
	if dropped.drops != 1 {
		t.Fatalf("expected exactly one drop after the first append, got %d", dropped.drops)
	}

	// Pool has no reserved slices and a zero CAS-attempt budget for the
	// dynamic tier, so even the first append's slice borrow already failed.
	if buf.current != nil {
		t.Fatal("expected no current slice: pool has zero capacity")
	}
	if dropped.drops == 0 {
		t.Fatal("expected dropped-event counter to increase")
	}
}

type countingMetrics struct {
	noopBufferMetrics
	drops int
}

func (c *countingMetrics) IncEventDropped() { c.drops++ }

func TestEngine_RetireWritesFile(t *testing.T) {
	dir := t.TempDir()
	pool := NewPool(1, 4, 0, 4, 16, nil)
	engine := NewEngine(dir, 1, 2, 3, NoneCompressor{}, pool, nil, nil, nil)
	defer engine.Stop()

	s, ok := pool.BorrowReserved()
	if !ok {
		t.Fatal("expected borrow to succeed")
	}
	s.Append(types.Event{SteadyClockTimestamp: 1, Type: types.EventTypeFunctionEntry})

	done := make(chan struct{})
	engine.Retire(s)
	engine.FlushTraceEvents(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("flush marker callback never ran")
	}

	files, err := FlushedTraceFiles(dir)
	if err != nil {
		t.Fatalf("FlushedTraceFiles failed: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("expected 1 flushed file, got %d", len(files))
	}
}
