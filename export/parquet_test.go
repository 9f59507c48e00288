package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"

	"github.com/justapithecus/spoor/trace"
	"github.com/justapithecus/spoor/types"
)

func TestWriteParquet_RowCountMatchesEventCount(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "trace.spoor_trace")
	parquetPath := filepath.Join(dir, "trace.parquet")

	events := []types.Event{
		{SteadyClockTimestamp: 1, Type: types.EventTypeFunctionEntry, Payload1: 7},
		{SteadyClockTimestamp: 2, Type: types.EventTypeFunctionExit, Payload1: 7},
	}
	h := trace.Header{SessionID: 10, ProcessID: 20, ThreadID: 30}
	if err := trace.Write(tracePath, h, events, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write trace file: %v", err)
	}

	if err := WriteParquet(tracePath, parquetPath); err != nil {
		t.Fatalf("WriteParquet: %v", err)
	}

	pf, err := parquet.OpenFile(mustOpen(t, parquetPath), mustSize(t, parquetPath))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got := pf.NumRows(); got != int64(len(events)) {
		t.Fatalf("got %d rows, want %d", got, len(events))
	}
	if pf.Schema().Name() == "" {
		t.Error("expected a named schema")
	}
}

func TestWriteParquetMerged_CombinesRowsFromAllFiles(t *testing.T) {
	dir := t.TempDir()
	parquetPath := filepath.Join(dir, "merged.parquet")

	tracePathA := filepath.Join(dir, "a.spoor_trace")
	tracePathB := filepath.Join(dir, "b.spoor_trace")
	eventsA := []types.Event{{SteadyClockTimestamp: 1, Type: types.EventTypeFunctionEntry}}
	eventsB := []types.Event{
		{SteadyClockTimestamp: 2, Type: types.EventTypeFunctionExit},
		{SteadyClockTimestamp: 3, Type: types.EventTypeFunctionEntry},
	}
	if err := trace.Write(tracePathA, trace.Header{SessionID: 1}, eventsA, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write trace file A: %v", err)
	}
	if err := trace.Write(tracePathB, trace.Header{SessionID: 2}, eventsB, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write trace file B: %v", err)
	}

	if err := WriteParquetMerged([]string{tracePathA, tracePathB}, parquetPath); err != nil {
		t.Fatalf("WriteParquetMerged: %v", err)
	}

	pf, err := parquet.OpenFile(mustOpen(t, parquetPath), mustSize(t, parquetPath))
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	if got, want := pf.NumRows(), int64(len(eventsA)+len(eventsB)); got != want {
		t.Fatalf("got %d rows, want %d", got, want)
	}
}

func mustOpen(t *testing.T, path string) *os.File {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open %q: %v", path, err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func mustSize(t *testing.T, path string) int64 {
	t.Helper()
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %q: %v", path, err)
	}
	return fi.Size()
}
