package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_FullConfig(t *testing.T) {
	yaml := `trace_file_path: /var/spoor/traces
filter_file_path: /etc/spoor/filters.yaml
session_id: 42

thread_event_buffer_capacity: 8
max_reserved_event_buffer_slice_capacity: 4096
max_dynamic_event_buffer_slice_capacity: 4096
reserved_event_pool_capacity: 128
dynamic_event_pool_capacity: 256
dynamic_event_slice_borrow_cas_attempts: 32
event_buffer_retention_duration_nanoseconds: 1000000000

max_flush_buffer_to_file_attempts: 3
flush_all_events: true
compression: snappy

initialize_runtime_at_main: true
enable_runtime_at_main: true

archive:
  bucket: my-traces
  prefix: prod/
  region: us-east-1
`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	assertEqual(t, "trace_file_path", cfg.TraceFilePath, "/var/spoor/traces")
	assertEqual(t, "filter_file_path", cfg.FilterFilePath, "/etc/spoor/filters.yaml")
	if cfg.SessionID != 42 {
		t.Errorf("expected session_id=42, got %d", cfg.SessionID)
	}
	if cfg.ThreadEventBufferCapacity != 8 {
		t.Errorf("expected thread_event_buffer_capacity=8, got %d", cfg.ThreadEventBufferCapacity)
	}
	if cfg.MaxReservedEventBufferSliceCapacity != 4096 {
		t.Errorf("expected max_reserved_event_buffer_slice_capacity=4096, got %d", cfg.MaxReservedEventBufferSliceCapacity)
	}
	if cfg.ReservedEventPoolCapacity != 128 {
		t.Errorf("expected reserved_event_pool_capacity=128, got %d", cfg.ReservedEventPoolCapacity)
	}
	if cfg.DynamicEventPoolCapacity != 256 {
		t.Errorf("expected dynamic_event_pool_capacity=256, got %d", cfg.DynamicEventPoolCapacity)
	}
	if cfg.DynamicEventSliceBorrowCasAttempts != 32 {
		t.Errorf("expected dynamic_event_slice_borrow_cas_attempts=32, got %d", cfg.DynamicEventSliceBorrowCasAttempts)
	}
	if cfg.EventBufferRetentionDurationNanoseconds != 1_000_000_000 {
		t.Errorf("expected retention=1s in ns, got %d", cfg.EventBufferRetentionDurationNanoseconds)
	}
	if cfg.MaxFlushBufferToFileAttempts != 3 {
		t.Errorf("expected max_flush_buffer_to_file_attempts=3, got %d", cfg.MaxFlushBufferToFileAttempts)
	}
	if !cfg.FlushAllEvents {
		t.Error("expected flush_all_events=true")
	}
	if cfg.Compression != CompressionSnappy {
		t.Errorf("expected compression=snappy, got %q", cfg.Compression)
	}
	if !cfg.InitializeRuntimeAtMain || !cfg.EnableRuntimeAtMain {
		t.Error("expected both runtime-at-main flags true")
	}
	assertEqual(t, "archive.bucket", cfg.Archive.Bucket, "my-traces")
	assertEqual(t, "archive.prefix", cfg.Archive.Prefix, "prod/")
}

func TestLoad_EmptyConfigYieldsDefaults(t *testing.T) {
	path := writeTemp(t, "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := Default()
	if cfg != want {
		t.Errorf("empty config file should yield Default(); got %+v, want %+v", cfg, want)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/spoor.yaml")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeTemp(t, "{{invalid yaml")
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("TEST_TRACE_PATH", "/expanded/path")

	yaml := `trace_file_path: ${TEST_TRACE_PATH}`
	path := writeTemp(t, yaml)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	assertEqual(t, "trace_file_path", cfg.TraceFilePath, "/expanded/path")
}

func TestLoad_UnknownKeyRejected(t *testing.T) {
	yaml := `trace_file_path: /tmp
bogus_key: should_fail
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key, got nil")
	}
	if !strings.Contains(err.Error(), "bogus_key") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestLoad_UnknownNestedKeyRejected(t *testing.T) {
	yaml := `archive:
  bucket: my-bucket
  unknown_field: bad
`
	path := writeTemp(t, yaml)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown nested key, got nil")
	}
	if !strings.Contains(err.Error(), "unknown_field") {
		t.Errorf("error should mention the unknown key, got: %v", err)
	}
}

func TestConfig_ValidateRejectsUnknownCompression(t *testing.T) {
	cfg := Default()
	cfg.Compression = "lz4"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown compression strategy")
	}
}

func TestConfig_ValidateRejectsEnableWithoutInitialize(t *testing.T) {
	cfg := Default()
	cfg.EnableRuntimeAtMain = true
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error: enable_runtime_at_main requires initialize_runtime_at_main")
	}
}

func TestConfig_ValidateAcceptsDefaults(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() should validate, got: %v", err)
	}
}

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "spoor.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func assertEqual(t *testing.T, field, got, want string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %q, want %q", field, got, want)
	}
}
