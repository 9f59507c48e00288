// Package config resolves spoor's configuration record from a config
// file layered over Default(). ${VAR} references inside the file are
// expanded from the environment before decoding; there is no separate
// environment-variable layer that overrides file values. CLI flags are
// applied by the caller (cli/cmd's resolveConfig, which overrides only
// the trace file path). The CORE never reads a config file itself; it
// receives an already-resolved Config value.
package config

import (
	"fmt"
	"time"
)

// CompressionStrategy names a trace file body compression scheme.
type CompressionStrategy string

// Compression strategy values.
const (
	CompressionNone   CompressionStrategy = "none"
	CompressionSnappy CompressionStrategy = "snappy"
)

// Config is spoor's fully-resolved configuration record (spec.md §3/§4),
// field-for-field grounded on original_source's spoor::runtime::Config.
// All values are optional in the config file and fall back to Default's
// values. Environment variables only enter through ${VAR} expansion in
// the file; of the CLI flags, only --trace-file-path overrides a file
// value.
type Config struct {
	// TraceFilePath is the directory flushed trace files are written to
	// and enumerated from.
	TraceFilePath string `yaml:"trace_file_path"`
	// FilterFilePath is the rule file the IR rewriter's filter evaluator
	// loads. Empty means the default filter set (spec.md §4.1) only.
	FilterFilePath string `yaml:"filter_file_path"`
	// SessionID identifies one run of the instrumented process. Zero
	// means the runtime façade generates one at Initialize.
	SessionID uint64 `yaml:"session_id"`

	// ThreadEventBufferCapacity bounds the number of slices a per-thread
	// buffer retains before the oldest is recycled under the retention
	// window (spec.md §4.3).
	ThreadEventBufferCapacity int `yaml:"thread_event_buffer_capacity"`
	// MaxReservedEventBufferSliceCapacity and
	// MaxDynamicEventBufferSliceCapacity are the fixed event count per
	// slice (N in spec.md §3's "Buffer slice") for each pool tier.
	MaxReservedEventBufferSliceCapacity int `yaml:"max_reserved_event_buffer_slice_capacity"`
	MaxDynamicEventBufferSliceCapacity  int `yaml:"max_dynamic_event_buffer_slice_capacity"`
	// ReservedEventPoolCapacity is the reserved tier's pre-allocated
	// slice count; a thread is guaranteed one slice from this tier.
	ReservedEventPoolCapacity int `yaml:"reserved_event_pool_capacity"`
	// DynamicEventPoolCapacity bounds the dynamic tier's live-slice
	// count; zero means unbounded.
	DynamicEventPoolCapacity int `yaml:"dynamic_event_pool_capacity"`
	// DynamicEventSliceBorrowCasAttempts bounds the CAS loop attempting
	// to borrow a dynamic-tier slice (spec.md §4.3).
	DynamicEventSliceBorrowCasAttempts int `yaml:"dynamic_event_slice_borrow_cas_attempts"`
	// EventBufferRetentionDurationNanoseconds is the retention window
	// (spec.md §4.3); zero disables retention (slices retire to flush
	// as soon as they fill).
	EventBufferRetentionDurationNanoseconds int64 `yaml:"event_buffer_retention_duration_nanoseconds"`

	// MaxFlushBufferToFileAttempts bounds the flush engine's per-slice
	// write retry count (spec.md §4.4) before the slice is dropped.
	MaxFlushBufferToFileAttempts int `yaml:"max_flush_buffer_to_file_attempts"`
	// FlushAllEvents, when true, makes Deinitialize wait for the flush
	// queue to drain; when false, Deinitialize discards un-retired
	// in-memory events (spec.md §4.4).
	FlushAllEvents bool `yaml:"flush_all_events"`
	// Compression selects the flush engine's body compression strategy.
	Compression CompressionStrategy `yaml:"compression"`

	// InitializeRuntimeAtMain requests that the IR rewriter inject
	// Initialize() (and, if EnableRuntimeAtMain, Enable()) at the
	// entry of `main` (spec.md §4.2 step 5).
	InitializeRuntimeAtMain bool `yaml:"initialize_runtime_at_main"`
	// EnableRuntimeAtMain additionally requests Enable() at `main`'s
	// entry. Ignored unless InitializeRuntimeAtMain is also set.
	EnableRuntimeAtMain bool `yaml:"enable_runtime_at_main"`

	// Archive optionally mirrors flushed trace files to S3. Empty Bucket
	// disables archiving.
	Archive ArchiveConfig `yaml:"archive"`
}

// ArchiveConfig configures the optional S3 trace file archiver.
type ArchiveConfig struct {
	Bucket       string `yaml:"bucket"`
	Prefix       string `yaml:"prefix"`
	Region       string `yaml:"region"`
	Endpoint     string `yaml:"endpoint"`
	UsePathStyle bool   `yaml:"use_path_style"`
}

// Default returns the configuration used when no file, environment
// variable, or flag supplies a value.
func Default() Config {
	return Config{
		TraceFilePath:                           ".",
		ThreadEventBufferCapacity:                4,
		MaxReservedEventBufferSliceCapacity:       2000,
		MaxDynamicEventBufferSliceCapacity:        2000,
		ReservedEventPoolCapacity:                 64,
		DynamicEventPoolCapacity:                  0,
		DynamicEventSliceBorrowCasAttempts:        16,
		EventBufferRetentionDurationNanoseconds:   0,
		MaxFlushBufferToFileAttempts:              5,
		Compression:                               CompressionNone,
		InitializeRuntimeAtMain:                    false,
		EnableRuntimeAtMain:                        false,
	}
}

// RetentionWindow returns EventBufferRetentionDurationNanoseconds as a
// time.Duration for use by the trace runtime.
func (c Config) RetentionWindow() time.Duration {
	return time.Duration(c.EventBufferRetentionDurationNanoseconds)
}

// Validate reports a malformed configuration: a recognized but
// semantically invalid combination of values. Unknown keys are
// rejected earlier, by the YAML decoder's KnownFields(true).
func (c Config) Validate() error {
	switch c.Compression {
	case CompressionNone, CompressionSnappy:
	default:
		return fmt.Errorf("config: unknown compression strategy %q", c.Compression)
	}
	if c.MaxReservedEventBufferSliceCapacity <= 0 {
		return fmt.Errorf("config: max_reserved_event_buffer_slice_capacity must be positive, got %d", c.MaxReservedEventBufferSliceCapacity)
	}
	if c.MaxDynamicEventBufferSliceCapacity <= 0 {
		return fmt.Errorf("config: max_dynamic_event_buffer_slice_capacity must be positive, got %d", c.MaxDynamicEventBufferSliceCapacity)
	}
	if c.ReservedEventPoolCapacity < 0 {
		return fmt.Errorf("config: reserved_event_pool_capacity must not be negative, got %d", c.ReservedEventPoolCapacity)
	}
	if c.DynamicEventPoolCapacity < 0 {
		return fmt.Errorf("config: dynamic_event_pool_capacity must not be negative, got %d", c.DynamicEventPoolCapacity)
	}
	if c.DynamicEventSliceBorrowCasAttempts <= 0 {
		return fmt.Errorf("config: dynamic_event_slice_borrow_cas_attempts must be positive, got %d", c.DynamicEventSliceBorrowCasAttempts)
	}
	if c.ThreadEventBufferCapacity <= 0 {
		return fmt.Errorf("config: thread_event_buffer_capacity must be positive, got %d", c.ThreadEventBufferCapacity)
	}
	if c.MaxFlushBufferToFileAttempts <= 0 {
		return fmt.Errorf("config: max_flush_buffer_to_file_attempts must be positive, got %d", c.MaxFlushBufferToFileAttempts)
	}
	if c.EnableRuntimeAtMain && !c.InitializeRuntimeAtMain {
		return fmt.Errorf("config: enable_runtime_at_main requires initialize_runtime_at_main")
	}
	return nil
}
