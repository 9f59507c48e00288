package runtime

import (
	"context"
	"encoding/binary"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/justapithecus/spoor/archive"
	"github.com/justapithecus/spoor/cli/config"
	"github.com/justapithecus/spoor/log"
	"github.com/justapithecus/spoor/metrics"
	"github.com/justapithecus/spoor/trace"
	"github.com/justapithecus/spoor/types"
)

// Facade is spoor's process-wide runtime singleton: the foreign-callable
// surface (spec.md §6) that injected probes call into. It has no
// context parameter because probe call sites have none; all state is
// process-wide by design (spec.md §9).
type Facade struct {
	cfg       config.Config
	lifecycle lifecycle

	pool        *trace.Pool
	engine      *trace.Engine
	threadLocal trace.ThreadLocal
	metrics     *metrics.Collector
	logger      *log.Logger

	processID uint64
	start     time.Time

	stub bool
}

// New builds a Facade from a resolved configuration. It does not start
// the flush engine; call Initialize to do that.
func New(cfg config.Config) *Facade {
	return &Facade{
		cfg:       cfg,
		processID: uint64(os.Getpid()),
	}
}

// NewStub builds a Facade backed entirely by no-ops, for the no-op
// build variant (spec.md §6's StubImplementation).
func NewStub(cfg config.Config) *Facade {
	f := New(cfg)
	f.stub = true
	return f
}

// StubImplementation reports whether this Facade is the no-op variant.
func (f *Facade) StubImplementation() bool {
	return f.stub
}

// GetConfig returns the resolved configuration this Facade was built
// from.
func (f *Facade) GetConfig() config.Config {
	return f.cfg
}

// Initialize transitions Uninitialized -> Initialized(Disabled),
// starting the flush engine and slice pools. Idempotent (spec.md §4.5).
func (f *Facade) Initialize() {
	if f.stub || f.lifecycle.initialized() {
		f.lifecycle.initialize()
		return
	}

	if f.cfg.SessionID == 0 {
		f.cfg.SessionID = generateSessionID()
	}
	f.metrics = metrics.NewCollector(f.cfg.SessionID, f.cfg.TraceFilePath)
	f.pool = trace.NewPool(
		f.cfg.ReservedEventPoolCapacity, f.cfg.MaxReservedEventBufferSliceCapacity,
		f.cfg.DynamicEventPoolCapacity, f.cfg.MaxDynamicEventBufferSliceCapacity,
		f.cfg.DynamicEventSliceBorrowCasAttempts,
		f.metrics,
	)

	compressor, err := trace.CompressorForStrategy(compressionStrategy(f.cfg.Compression))
	if err != nil {
		compressor = trace.NoneCompressor{}
	}

	f.logger = log.NewLogger(log.SessionContext{SessionID: f.cfg.SessionID, TraceFilePath: f.cfg.TraceFilePath})
	f.engine = trace.NewEngine(
		f.cfg.TraceFilePath, f.cfg.SessionID, f.processID, f.cfg.MaxFlushBufferToFileAttempts,
		compressor, f.pool, f.metrics, f.buildArchiver(), f.logger,
	)

	f.start = time.Now()
	f.lifecycle.initialize()
	f.metrics.IncInitialize()
}

// generateSessionID derives a uint64 session identifier from a random
// UUID, used when config.Config.SessionID is left at its zero value
// (spec.md §3/§4: "Zero means the runtime façade generates one").
func generateSessionID() uint64 {
	id := uuid.New()
	return binary.BigEndian.Uint64(id[:8])
}

func compressionStrategy(c config.CompressionStrategy) trace.Strategy {
	if c == config.CompressionSnappy {
		return trace.StrategySnappy
	}
	return trace.StrategyNone
}

// buildArchiver constructs the optional S3 archiver from config. An
// empty Bucket, or a failure to load AWS credentials, yields a
// NoopArchiver: archiving is best-effort and never blocks Initialize.
func (f *Facade) buildArchiver() trace.Archiver {
	if f.cfg.Archive.Bucket == "" {
		return archive.NoopArchiver{}
	}
	a, err := archive.NewS3Archiver(context.Background(), archive.S3Config{
		Bucket:       f.cfg.Archive.Bucket,
		Prefix:       f.cfg.Archive.Prefix,
		Region:       f.cfg.Archive.Region,
		Endpoint:     f.cfg.Archive.Endpoint,
		UsePathStyle: f.cfg.Archive.UsePathStyle,
	})
	if err != nil {
		if f.logger != nil {
			f.logger.Warn("archive disabled: failed to construct S3 archiver", map[string]any{"error": err.Error()})
		}
		return archive.NoopArchiver{}
	}
	return a
}

// Initialized reports whether Initialize has run (and Deinitialize has
// not since).
func (f *Facade) Initialized() bool {
	return f.lifecycle.initialized()
}

// Enable transitions Initialized(Disabled) -> Initialized(Enabled).
// Idempotent; a no-op if not yet Initialized.
func (f *Facade) Enable() {
	f.lifecycle.enable()
	if f.metrics != nil {
		f.metrics.IncEnable()
	}
}

// Enabled reports whether events logged now would be recorded.
func (f *Facade) Enabled() bool {
	return f.lifecycle.enabled()
}

// Disable transitions Initialized(Enabled) -> Initialized(Disabled).
// Idempotent.
func (f *Facade) Disable() {
	f.lifecycle.disable()
	if f.metrics != nil {
		f.metrics.IncDisable()
	}
}

// Deinitialize transitions any state back to Uninitialized, draining
// per FlushAllEvents (spec.md §4.5, §5's cancellation rules).
func (f *Facade) Deinitialize() {
	if f.stub || !f.lifecycle.initialized() {
		f.lifecycle.deinitialize()
		return
	}

	f.threadLocal.Range(func(_ uint64, b *trace.ThreadBuffer) bool {
		if f.cfg.FlushAllEvents {
			b.Drain()
		} else {
			b.Discard()
		}
		return true
	})

	if f.cfg.FlushAllEvents {
		done := make(chan struct{})
		f.engine.FlushTraceEvents(func() { close(done) })
		<-done
	}
	f.engine.Stop()

	f.metrics.IncDeinitialize()
	f.lifecycle.deinitialize()
}

func (f *Facade) steadyNs() int64 {
	return time.Since(f.start).Nanoseconds()
}

func (f *Facade) threadBuffer() *trace.ThreadBuffer {
	return f.threadLocal.Get(func() *trace.ThreadBuffer {
		return trace.NewThreadBuffer(f.pool, f.engine.Retire, f.cfg.RetentionWindow(), f.cfg.ThreadEventBufferCapacity, f.metrics)
	})
}

// LogEventAt records an event with an explicit steady-clock timestamp.
// Returns immediately without recording if the runtime is not Enabled
// (spec.md §4.3's hot path contract).
func (f *Facade) LogEventAt(eventType types.EventType, steadyNs int64, p1 uint64, p2 uint32) {
	if f.stub || !f.lifecycle.enabled() {
		return
	}
	f.threadBuffer().Append(types.Event{
		SteadyClockTimestamp: steadyNs,
		Payload1:             p1,
		Type:                 eventType,
		Payload2:             p2,
	})
	if f.metrics != nil {
		f.metrics.IncEventLogged()
	}
}

// LogEvent records an event, sampling the steady clock exactly once.
func (f *Facade) LogEvent(eventType types.EventType, p1 uint64, p2 uint32) {
	if f.stub || !f.lifecycle.enabled() {
		return
	}
	f.LogEventAt(eventType, f.steadyNs(), p1, p2)
}

// LogFunctionEntry records a function-entry probe for id.
func (f *Facade) LogFunctionEntry(id types.FunctionId) {
	f.LogEvent(types.EventTypeFunctionEntry, uint64(id), 0)
}

// LogFunctionExit records a function-exit probe for id.
func (f *Facade) LogFunctionExit(id types.FunctionId) {
	f.LogEvent(types.EventTypeFunctionExit, uint64(id), 0)
}

// FlushTraceEvents enqueues a marker; callback runs once all events
// enqueued before this call have been written (spec.md §4.4).
func (f *Facade) FlushTraceEvents(callback func()) {
	if f.stub || f.engine == nil {
		callback()
		return
	}
	f.engine.FlushTraceEvents(callback)
}

// ClearTraceEvents discards in-memory events without writing them.
func (f *Facade) ClearTraceEvents() {
	if f.stub {
		return
	}
	f.threadLocal.Range(func(_ uint64, b *trace.ThreadBuffer) bool {
		b.Discard()
		return true
	})
}

// FlushedTraceFiles lists trace files in TraceFilePath.
func (f *Facade) FlushedTraceFiles() ([]string, error) {
	return trace.FlushedTraceFiles(f.cfg.TraceFilePath)
}

// DeleteFlushedTraceFilesOlderThan deletes trace files older than
// olderThan from TraceFilePath.
func (f *Facade) DeleteFlushedTraceFilesOlderThan(olderThan time.Time) (types.DeletedFilesInfo, error) {
	return trace.DeleteFlushedTraceFilesOlderThan(f.cfg.TraceFilePath, olderThan)
}
