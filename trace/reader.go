package trace

import (
	"encoding/binary"
	"io"
	"math/bits"
	"os"

	"github.com/justapithecus/spoor/types"
)

// Read opens and fully decodes a trace file, validating its header and
// tolerating a writer of the opposite endianness (spec.md §4.6, §8
// Properties 6 and 8).
func Read(path string) (TraceFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return TraceFile{}, &ReadError{Kind: FailedToOpenFile, Path: path, Err: err}
	}
	defer f.Close()

	var raw [HeaderSize]byte
	if _, err := io.ReadFull(f, raw[:]); err != nil {
		return TraceFile{}, &ReadError{Kind: MalformedFile, Path: path, Err: err}
	}

	h, err := DecodeHeader(raw)
	if err != nil {
		if re, ok := err.(*ReadError); ok {
			re.Path = path
			return TraceFile{}, re
		}
		return TraceFile{}, &ReadError{Kind: MalformedFile, Path: path, Err: err}
	}

	body, err := io.ReadAll(f)
	if err != nil {
		return TraceFile{}, &ReadError{Kind: MalformedFile, Path: path, Err: err}
	}

	compressor, err := CompressorForStrategy(h.Compression)
	if err != nil {
		return TraceFile{}, &ReadError{Kind: MalformedFile, Path: path, Err: err}
	}

	wantSize := int(h.EventCount) * types.EventSize
	decoded, err := compressor.Uncompress(body, wantSize)
	if err != nil {
		return TraceFile{}, &ReadError{Kind: UncompressError, Path: path, Err: err}
	}

	events, err := decodeEvents(decoded, int(h.EventCount), h.Endianness)
	if err != nil {
		return TraceFile{}, &ReadError{Kind: MalformedFile, Path: path, Err: err}
	}

	return TraceFile{Header: h, Events: events}, nil
}

// decodeEvents parses count fixed-width events out of buf, byte-swapping
// each field if writerEndianness differs from this host's order.
func decodeEvents(buf []byte, count int, writerEndianness Endianness) ([]types.Event, error) {
	if len(buf) != count*types.EventSize {
		return nil, &ReadError{Kind: MalformedFile}
	}
	swap := writerEndianness != hostEndianness()

	events := make([]types.Event, count)
	for i := range events {
		off := i * types.EventSize
		ts := binary.NativeEndian.Uint64(buf[off:])
		p1 := binary.NativeEndian.Uint64(buf[off+8:])
		typ := binary.NativeEndian.Uint32(buf[off+16:])
		p2 := binary.NativeEndian.Uint32(buf[off+20:])
		if swap {
			ts = bits.ReverseBytes64(ts)
			p1 = bits.ReverseBytes64(p1)
			typ = bits.ReverseBytes32(typ)
			p2 = bits.ReverseBytes32(p2)
		}
		events[i] = types.Event{
			SteadyClockTimestamp: int64(ts),
			Payload1:             p1,
			Type:                 types.EventType(typ),
			Payload2:             p2,
		}
	}
	return events, nil
}
