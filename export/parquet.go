// Package export projects decoded trace files into a columnar Parquet
// file for post-hoc analysis tooling, an external collaborator per
// spec.md §1.
package export

import (
	"fmt"
	"os"

	"github.com/parquet-go/parquet-go"

	"github.com/justapithecus/spoor/trace"
)

// eventRow is one Event's Parquet projection. Field order matches
// column order in the written file.
type eventRow struct {
	SessionID            uint64 `parquet:"session_id"`
	ProcessID            uint64 `parquet:"process_id"`
	ThreadID             uint64 `parquet:"thread_id"`
	SteadyClockTimestamp int64  `parquet:"steady_clock_timestamp"`
	Type                 uint32 `parquet:"type"`
	Payload1             uint64 `parquet:"payload_1"`
	Payload2             uint32 `parquet:"payload_2"`
}

// WriteParquet reads the trace file at traceFilePath and writes a
// Parquet file to parquetFilePath with one row per Event.
func WriteParquet(traceFilePath, parquetFilePath string) error {
	return WriteParquetMerged([]string{traceFilePath}, parquetFilePath)
}

// WriteParquetMerged reads every trace file in traceFilePaths and writes
// their events as rows of a single Parquet file, in argument order.
func WriteParquetMerged(traceFilePaths []string, parquetFilePath string) error {
	out, err := os.Create(parquetFilePath)
	if err != nil {
		return fmt.Errorf("export: create %q: %w", parquetFilePath, err)
	}
	defer out.Close()

	w := parquet.NewGenericWriter[eventRow](out)
	for _, path := range traceFilePaths {
		tf, err := trace.Read(path)
		if err != nil {
			return fmt.Errorf("export: read trace file %q: %w", path, err)
		}
		for _, e := range tf.Events {
			row := eventRow{
				SessionID:            tf.Header.SessionID,
				ProcessID:            tf.Header.ProcessID,
				ThreadID:             tf.Header.ThreadID,
				SteadyClockTimestamp: e.SteadyClockTimestamp,
				Type:                 uint32(e.Type),
				Payload1:             e.Payload1,
				Payload2:             e.Payload2,
			}
			if _, err := w.Write([]eventRow{row}); err != nil {
				return fmt.Errorf("export: write row: %w", err)
			}
		}
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("export: close parquet writer: %w", err)
	}
	return nil
}
