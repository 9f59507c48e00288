package ir

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/justapithecus/spoor/types"
)

// lengthPrefixSize is the symbol file's record length prefix width,
// used to frame each length-delimited msgpack record.
const lengthPrefixSize = 4

// wireFunctionInfo is FunctionInfo's msgpack wire shape: CreatedAt is
// carried as epoch nanoseconds (spec.md §3's "created_at: nanoseconds
// since epoch"), not as a language-specific time value.
type wireFunctionInfo struct {
	ModuleID           string `msgpack:"module_id"`
	LinkageName        string `msgpack:"linkage_name"`
	DemangledName      string `msgpack:"demangled_name"`
	FileName           string `msgpack:"file_name"`
	Directory          string `msgpack:"directory"`
	Line               int32  `msgpack:"line"`
	Instrumented       bool   `msgpack:"instrumented"`
	IrInstructionCount int32  `msgpack:"ir_instruction_count"`
	CreatedAtUnixNano  int64  `msgpack:"created_at"`
}

type wireRecord struct {
	FunctionID uint64             `msgpack:"function_id"`
	Infos      []wireFunctionInfo `msgpack:"infos"`
}

// WriteSymbols serializes symbols to path as a sequence of
// length-prefixed msgpack records, one per FunctionId (spec.md §6's
// "length-delimited serialization ... schema independent of the source
// language's reflection").
func WriteSymbols(path string, symbols Symbols) error {
	f, err := os.Create(path)
	if err != nil {
		return &PassError{Kind: "symbols_file_open", Err: err}
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for id, infos := range symbols {
		wireInfos := make([]wireFunctionInfo, len(infos))
		for i, info := range infos {
			wireInfos[i] = wireFunctionInfo{
				ModuleID:           info.ModuleID,
				LinkageName:        info.LinkageName,
				DemangledName:      info.DemangledName,
				FileName:           info.FileName,
				Directory:          info.Directory,
				Line:               info.Line,
				Instrumented:       info.Instrumented,
				IrInstructionCount: info.IrInstructionCount,
				CreatedAtUnixNano:  info.CreatedAt.UnixNano(),
			}
		}
		payload, err := msgpack.Marshal(wireRecord{FunctionID: uint64(id), Infos: wireInfos})
		if err != nil {
			return &PassError{Kind: "symbols_file_encode", Err: err}
		}
		var prefix [lengthPrefixSize]byte
		binary.BigEndian.PutUint32(prefix[:], uint32(len(payload)))
		if _, err := w.Write(prefix[:]); err != nil {
			return &PassError{Kind: "symbols_file_write", Err: err}
		}
		if _, err := w.Write(payload); err != nil {
			return &PassError{Kind: "symbols_file_write", Err: err}
		}
	}
	if err := w.Flush(); err != nil {
		return &PassError{Kind: "symbols_file_write", Err: err}
	}
	return nil
}

// ReadSymbols decodes a symbol file written by WriteSymbols, accepting
// multiple FunctionInfo per id (spec.md §6).
func ReadSymbols(path string) (Symbols, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &PassError{Kind: "symbols_file_open", Err: err}
	}
	defer f.Close()

	symbols := NewSymbols()
	r := bufio.NewReader(f)
	for {
		var prefix [lengthPrefixSize]byte
		if _, err := io.ReadFull(r, prefix[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, &PassError{Kind: "symbols_file_read", Err: err}
		}
		size := binary.BigEndian.Uint32(prefix[:])
		payload := make([]byte, size)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, &PassError{Kind: "symbols_file_read", Err: fmt.Errorf("truncated record: %w", err)}
		}

		var rec wireRecord
		if err := msgpack.Unmarshal(payload, &rec); err != nil {
			return nil, &PassError{Kind: "symbols_file_decode", Err: err}
		}
		id := types.FunctionId(rec.FunctionID)
		for _, wi := range rec.Infos {
			symbols.Add(id, types.FunctionInfo{
				ModuleID:           wi.ModuleID,
				LinkageName:        wi.LinkageName,
				DemangledName:      wi.DemangledName,
				FileName:           wi.FileName,
				Directory:          wi.Directory,
				Line:               wi.Line,
				Instrumented:       wi.Instrumented,
				IrInstructionCount: wi.IrInstructionCount,
				CreatedAt:          timeFromUnixNano(wi.CreatedAtUnixNano),
			})
		}
	}
	return symbols, nil
}

func timeFromUnixNano(ns int64) time.Time {
	return time.Unix(0, ns).UTC()
}
