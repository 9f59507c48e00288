package trace

import (
	"encoding/binary"
	"math/bits"
)

// MagicNumber is the trace file's fixed 8-byte ASCII identifier.
const MagicNumber = "SPOOR_TR"

// Version is the current trace file header version (spec.md §3).
const Version uint32 = 1

// HeaderSize is the packed on-disk header size in bytes, including
// trailing padding, per spec.md §3's "Trace file" layout.
const HeaderSize = 80

const (
	headerMagicOffset      = 0
	headerEndiannessOffset = 8
	headerCompressOffset   = 9
	headerVersionOffset    = 10
	headerSessionOffset    = 14
	headerProcessOffset    = 22
	headerThreadOffset     = 30
	headerSystemNsOffset   = 38
	headerSteadyNsOffset   = 46
	headerEventCountOffset = 54
)

// Endianness tags the byte order a header (and its event region) was
// written in, per spec.md §3.
type Endianness uint8

// Endianness values.
const (
	EndiannessLittle Endianness = 0
	EndiannessBig    Endianness = 1
)

// hostEndianness reports the current process's native byte order as
// an Endianness tag.
func hostEndianness() Endianness {
	probe := [2]byte{0x01, 0x00}
	if binary.NativeEndian.Uint16(probe[:]) == 1 {
		return EndiannessLittle
	}
	return EndiannessBig
}

// Header is the trace file's fixed 80-byte header, packed bit-exact
// (spec.md §3). Multi-byte fields are written in the host's native
// byte order; Endianness records which order that was so a reader on
// a differently-ordered machine can byte-swap on load.
type Header struct {
	Endianness           Endianness
	Compression          Strategy
	Version              uint32
	SessionID            uint64
	ProcessID            uint64
	ThreadID             uint64
	SystemClockTimestamp int64
	SteadyClockTimestamp int64
	EventCount           uint32
}

// Encode writes h into a HeaderSize-byte buffer in the host's native
// byte order.
func (h Header) Encode() [HeaderSize]byte {
	var buf [HeaderSize]byte
	copy(buf[headerMagicOffset:], MagicNumber)
	buf[headerEndiannessOffset] = byte(hostEndianness())
	buf[headerCompressOffset] = byte(h.Compression)
	binary.NativeEndian.PutUint32(buf[headerVersionOffset:], h.Version)
	binary.NativeEndian.PutUint64(buf[headerSessionOffset:], h.SessionID)
	binary.NativeEndian.PutUint64(buf[headerProcessOffset:], h.ProcessID)
	binary.NativeEndian.PutUint64(buf[headerThreadOffset:], h.ThreadID)
	binary.NativeEndian.PutUint64(buf[headerSystemNsOffset:], uint64(h.SystemClockTimestamp))
	binary.NativeEndian.PutUint64(buf[headerSteadyNsOffset:], uint64(h.SteadyClockTimestamp))
	binary.NativeEndian.PutUint32(buf[headerEventCountOffset:], h.EventCount)
	return buf
}

// DecodeHeader parses a HeaderSize-byte buffer. Multi-byte fields are
// first interpreted in the reader's own native byte order (mirroring a
// same-layout in-memory reinterpretation of the bytes), then
// byte-swapped if the embedded Endianness tag differs from the
// reader's host order — tolerating a writer of the opposite
// endianness (spec.md §4.6, §8 Property 8).
func DecodeHeader(buf [HeaderSize]byte) (Header, error) {
	if string(buf[headerMagicOffset:headerMagicOffset+len(MagicNumber)]) != MagicNumber {
		return Header{}, &ReadError{Kind: MismatchedMagicNumber}
	}

	writerEndianness := Endianness(buf[headerEndiannessOffset])
	swap := writerEndianness != hostEndianness()

	version := binary.NativeEndian.Uint32(buf[headerVersionOffset:])
	sessionID := binary.NativeEndian.Uint64(buf[headerSessionOffset:])
	processID := binary.NativeEndian.Uint64(buf[headerProcessOffset:])
	threadID := binary.NativeEndian.Uint64(buf[headerThreadOffset:])
	systemNs := binary.NativeEndian.Uint64(buf[headerSystemNsOffset:])
	steadyNs := binary.NativeEndian.Uint64(buf[headerSteadyNsOffset:])
	eventCount := binary.NativeEndian.Uint32(buf[headerEventCountOffset:])

	if swap {
		version = bits.ReverseBytes32(version)
		sessionID = bits.ReverseBytes64(sessionID)
		processID = bits.ReverseBytes64(processID)
		threadID = bits.ReverseBytes64(threadID)
		systemNs = bits.ReverseBytes64(systemNs)
		steadyNs = bits.ReverseBytes64(steadyNs)
		eventCount = bits.ReverseBytes32(eventCount)
	}

	if version != Version {
		return Header{}, &ReadError{Kind: UnknownVersion}
	}

	return Header{
		Endianness:           writerEndianness,
		Compression:          Strategy(buf[headerCompressOffset]),
		Version:              version,
		SessionID:            sessionID,
		ProcessID:            processID,
		ThreadID:             threadID,
		SystemClockTimestamp: int64(systemNs),
		SteadyClockTimestamp: int64(steadyNs),
		EventCount:           eventCount,
	}, nil
}
