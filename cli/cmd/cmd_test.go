package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/urfave/cli/v2"

	"github.com/justapithecus/spoor/ir"
	"github.com/justapithecus/spoor/trace"
	"github.com/justapithecus/spoor/types"
)

func newTestApp(commands ...*cli.Command) *cli.App {
	return &cli.App{
		Name:     "spoor",
		Commands: commands,
		Writer:   &bytes.Buffer{},
	}
}

func TestReadOnlyFlags_IncludesTUI(t *testing.T) {
	hasTUI := false
	for _, f := range ReadOnlyFlags() {
		if f.Names()[0] == "tui" {
			hasTUI = true
		}
	}
	if !hasTUI {
		t.Error("ReadOnlyFlags should include --tui flag")
	}
}

func TestListAction_EmptyDirectory(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(ListCommand())

	if err := app.Run([]string{"spoor", "list", "--trace-file-path", dir, "--format", "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestListAction_FindsFlushedTraceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, trace.FileName(1, 2, 3, 4))
	if err := trace.Write(path, trace.Header{SessionID: 1, ProcessID: 2, ThreadID: 3}, nil, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	app := newTestApp(ListCommand())
	if err := app.Run([]string{"spoor", "list", "--trace-file-path", dir, "--format", "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDeleteAction_RequiresOlderThan(t *testing.T) {
	app := newTestApp(DeleteCommand())
	err := app.Run([]string{"spoor", "delete", "--trace-file-path", t.TempDir()})
	if err == nil {
		t.Fatal("expected error for missing --older-than")
	}
}

func TestDeleteAction_AcceptsEpochSeconds(t *testing.T) {
	dir := t.TempDir()
	app := newTestApp(DeleteCommand())
	err := app.Run([]string{"spoor", "delete",
		"--trace-file-path", dir,
		"--older-than", "9999999999",
		"--format", "json",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInspectAction_MissingArg(t *testing.T) {
	app := newTestApp(InspectCommand())
	err := app.Run([]string{"spoor", "inspect"})
	if err == nil {
		t.Fatal("expected error for missing <trace-file>")
	}
}

func TestInspectAction_RendersDecodedTraceFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "t.spoor_trace")
	events := []types.Event{{SteadyClockTimestamp: 1, Type: types.EventTypeFunctionEntry}}
	if err := trace.Write(path, trace.Header{SessionID: 1}, events, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write: %v", err)
	}

	app := newTestApp(InspectCommand())
	if err := app.Run([]string{"spoor", "inspect", path, "--format", "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSymbolsAction_RendersDecodedSymbolFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "s.spoor_symbols")
	symbols := ir.NewSymbols()
	symbols.Add(1, types.FunctionInfo{LinkageName: "foo"})
	if err := ir.WriteSymbols(path, symbols); err != nil {
		t.Fatalf("WriteSymbols: %v", err)
	}

	app := newTestApp(SymbolsCommand())
	if err := app.Run([]string{"spoor", "symbols", path, "--format", "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExportAction_RequiresAtLeastOneTraceFile(t *testing.T) {
	app := newTestApp(ExportCommand())
	err := app.Run([]string{"spoor", "export", "--out", filepath.Join(t.TempDir(), "out.parquet")})
	if err == nil {
		t.Fatal("expected error for missing trace file arguments")
	}
}

func TestExportAction_WritesParquetFile(t *testing.T) {
	dir := t.TempDir()
	tracePath := filepath.Join(dir, "t.spoor_trace")
	events := []types.Event{{SteadyClockTimestamp: 1, Type: types.EventTypeFunctionEntry}}
	if err := trace.Write(tracePath, trace.Header{SessionID: 1}, events, trace.NoneCompressor{}); err != nil {
		t.Fatalf("Write: %v", err)
	}
	out := filepath.Join(dir, "out.parquet")

	app := newTestApp(ExportCommand())
	if err := app.Run([]string{"spoor", "export", tracePath, "--out", out}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestInstrumentAction_RequiresModuleArg(t *testing.T) {
	app := newTestApp(InstrumentCommand())
	err := app.Run([]string{"spoor", "instrument", "--symbols-out", filepath.Join(t.TempDir(), "out.spoor_symbols")})
	if err == nil {
		t.Fatal("expected error for missing <ir-module-path>")
	}
}

func TestInstrumentAction_FailsWithoutRegisteredModuleLoader(t *testing.T) {
	app := newTestApp(InstrumentCommand())
	err := app.Run([]string{"spoor", "instrument", "some/module/path",
		"--symbols-out", filepath.Join(t.TempDir(), "out.spoor_symbols"),
	})
	if err == nil {
		t.Fatal("expected error: no module loader registered")
	}
}

func TestVersionAction_Renders(t *testing.T) {
	app := newTestApp(VersionCommand("abc123"))
	if err := app.Run([]string{"spoor", "version", "--format", "json"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFlushAndClearActions_RoundTripAgainstEmptyDirectory(t *testing.T) {
	dir := t.TempDir()

	flushApp := newTestApp(FlushCommand())
	if err := flushApp.Run([]string{"spoor", "flush", "--trace-file-path", dir}); err != nil {
		t.Fatalf("flush: unexpected error: %v", err)
	}

	clearApp := newTestApp(ClearCommand())
	if err := clearApp.Run([]string{"spoor", "clear", "--trace-file-path", dir}); err != nil {
		t.Fatalf("clear: unexpected error: %v", err)
	}
}
