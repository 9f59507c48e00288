package trace

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/justapithecus/spoor/log"
	"github.com/justapithecus/spoor/types"
)

// Archiver mirrors a flushed trace file to a remote object store. It is
// invoked fire-and-forget after a successful local write; its failures
// are logged, never retried against the flush engine's attempt budget.
type Archiver interface {
	Upload(ctx context.Context, path string) error
}

// flushMetrics is the subset of metrics.Collector the flush engine
// needs.
type flushMetrics interface {
	IncFlushSuccess()
	IncFlushFailure()
	IncFlushRetry()
	IncEventDropped()
	IncArchiveSuccess()
	IncArchiveFailure()
}

type noopFlushMetrics struct{}

func (noopFlushMetrics) IncFlushSuccess()   {}
func (noopFlushMetrics) IncFlushFailure()   {}
func (noopFlushMetrics) IncFlushRetry()     {}
func (noopFlushMetrics) IncEventDropped()   {}
func (noopFlushMetrics) IncArchiveSuccess() {}
func (noopFlushMetrics) IncArchiveFailure() {}

type marker struct {
	callback func()
}

// job is one item of the flush queue: either a retired slice or a
// marker requesting a callback once prior work has drained.
type job struct {
	slice   *Slice
	marker  *marker
}

// Engine is spoor's single background flush worker: it drains retired
// slices from a multi-producer queue, compresses and writes each to a
// trace file, and returns the slice to its origin pool (spec.md §4.4).
type Engine struct {
	queue chan job

	traceFilePath string
	sessionID     uint64
	processID     uint64
	maxAttempts   int
	compressor    Compressor
	pool          *Pool
	metrics       flushMetrics
	archiver      Archiver
	logger        *log.Logger

	done chan struct{}
}

// NewEngine starts the background drain loop. Callers must call Stop
// when finished to release the worker goroutine. archiver and logger
// may be nil; a nil archiver disables remote mirroring entirely.
func NewEngine(traceFilePath string, sessionID, processID uint64, maxAttempts int, compressor Compressor, pool *Pool, metrics flushMetrics, archiver Archiver, logger *log.Logger) *Engine {
	if metrics == nil {
		metrics = noopFlushMetrics{}
	}
	e := &Engine{
		queue:         make(chan job, 1024),
		traceFilePath: traceFilePath,
		sessionID:     sessionID,
		processID:     processID,
		maxAttempts:   maxAttempts,
		compressor:    compressor,
		pool:          pool,
		metrics:       metrics,
		archiver:      archiver,
		logger:        logger,
		done:          make(chan struct{}),
	}
	go e.run()
	return e
}

func (e *Engine) run() {
	defer close(e.done)
	for j := range e.queue {
		if j.marker != nil {
			j.marker.callback()
			continue
		}
		e.flushOne(j.slice)
	}
}

func (e *Engine) flushOne(s *Slice) {
	defer e.pool.Return(s)

	events := append([]types.Event(nil), s.Events()...)
	steadyNs := time.Now().UnixNano()
	threadID := uint64(goroutineID())
	name := FileName(e.sessionID, e.processID, threadID, steadyNs)
	path := filepath.Join(e.traceFilePath, name)

	h := Header{
		SessionID:            e.sessionID,
		ProcessID:            e.processID,
		ThreadID:             threadID,
		SystemClockTimestamp: time.Now().UnixNano(),
		SteadyClockTimestamp: steadyNs,
	}

	var err error
	for attempt := 0; attempt < e.maxAttempts; attempt++ {
		if attempt > 0 {
			e.metrics.IncFlushRetry()
		}
		if err = Write(path, h, events, e.compressor); err == nil {
			e.metrics.IncFlushSuccess()
			e.archive(path)
			return
		}
	}
	e.metrics.IncFlushFailure()
}

// archive mirrors path to the remote store, if one is configured.
// Best-effort: failures are logged and never affect the flush engine's
// own retry accounting or drain loop.
func (e *Engine) archive(path string) {
	if e.archiver == nil {
		return
	}
	if err := e.archiver.Upload(context.Background(), path); err != nil {
		e.metrics.IncArchiveFailure()
		if e.logger != nil {
			e.logger.Warn("archive upload failed", map[string]any{"path": path, "error": err.Error()})
		}
		return
	}
	e.metrics.IncArchiveSuccess()
}

// Retire enqueues a filled slice for the worker to compress and write.
// The caller must not touch s again.
func (e *Engine) Retire(s *Slice) {
	e.queue <- job{slice: s}
}

// FlushTraceEvents enqueues a marker; callback runs on the worker after
// every slice enqueued before this call has been processed (spec.md
// §4.4's auxiliary operations).
func (e *Engine) FlushTraceEvents(callback func()) {
	e.queue <- job{marker: &marker{callback: callback}}
}

// Stop closes the queue and waits for the worker to drain it.
func (e *Engine) Stop() {
	close(e.queue)
	<-e.done
}

var traceFileNamePattern = regexp.MustCompile(`^\d+-\d+-\d+-\d+\.spoor_trace$`)

// FlushedTraceFiles lists trace files in dir matching the canonical
// naming pattern.
func FlushedTraceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("trace: list %q: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !traceFileNamePattern.MatchString(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	return files, nil
}

// DeleteFlushedTraceFilesOlderThan deletes trace files in dir whose
// modification time precedes olderThan, returning the count and total
// bytes deleted (spec.md §4.4).
func DeleteFlushedTraceFilesOlderThan(dir string, olderThan time.Time) (types.DeletedFilesInfo, error) {
	files, err := FlushedTraceFiles(dir)
	if err != nil {
		return types.DeletedFilesInfo{}, err
	}

	var info types.DeletedFilesInfo
	for _, path := range files {
		fi, err := os.Stat(path)
		if err != nil {
			continue
		}
		if fi.ModTime().After(olderThan) {
			continue
		}
		size := fi.Size()
		if err := os.Remove(path); err != nil {
			continue
		}
		info.DeletedFiles++
		info.DeletedBytes += size
	}
	return info, nil
}
