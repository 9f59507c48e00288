package trace

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"

	"github.com/justapithecus/spoor/types"
)

// encodeEvents packs events into their on-disk byte-exact form, each
// types.EventSize bytes, in the host's native byte order — mirrored by
// Header.Encode's endianness tagging.
func encodeEvents(events []types.Event) []byte {
	buf := make([]byte, len(events)*types.EventSize)
	for i, e := range events {
		off := i * types.EventSize
		binary.NativeEndian.PutUint64(buf[off:], uint64(e.SteadyClockTimestamp))
		binary.NativeEndian.PutUint64(buf[off+8:], e.Payload1)
		binary.NativeEndian.PutUint32(buf[off+16:], uint32(e.Type))
		binary.NativeEndian.PutUint32(buf[off+20:], e.Payload2)
	}
	return buf
}

// Write encodes a header+body trace file to path: the header (with
// EventCount and Compression taken from the arguments, not h), followed
// by the compressed, byte-exact event region.
func Write(path string, h Header, events []types.Event, compressor Compressor) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("trace: create trace directory: %w", err)
	}

	h.Compression = compressor.Strategy()
	h.Version = Version
	h.EventCount = uint32(len(events))

	body, err := compressor.Compress(encodeEvents(events))
	if err != nil {
		return fmt.Errorf("trace: compress: %w", err)
	}

	header := h.Encode()

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("trace: open %q: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Write(header[:]); err != nil {
		return fmt.Errorf("trace: write header: %w", err)
	}
	if _, err := f.Write(body); err != nil {
		return fmt.Errorf("trace: write body: %w", err)
	}
	return f.Sync()
}
