// Package trace implements spoor's runtime trace engine: event buffer
// slices, tiered slice pools, per-thread buffers, the flush engine, and
// the versioned binary trace file format (spec.md §3, §4.3–§4.4, §4.6).
package trace

import (
	"fmt"

	"github.com/klauspost/compress/s2"
)

// Strategy names a trace file body compression scheme, grounded on
// original_source's util::compression::Strategy enum.
type Strategy uint8

// Strategy values. The on-disk byte is this value, unchanged.
const (
	StrategyNone   Strategy = 0
	StrategySnappy Strategy = 1
)

func (s Strategy) String() string {
	switch s {
	case StrategyNone:
		return "none"
	case StrategySnappy:
		return "snappy"
	default:
		return fmt.Sprintf("strategy(%d)", uint8(s))
	}
}

// Compressor compresses and uncompresses a trace file's event region.
// Multiple variants exist (none, snappy); model each as a capability
// interface rather than an inheritance hierarchy.
type Compressor interface {
	Strategy() Strategy
	Compress(uncompressed []byte) ([]byte, error)
	Uncompress(compressed []byte, uncompressedSize int) ([]byte, error)
}

// CompressorForStrategy returns the Compressor implementing strategy,
// mirroring original_source's CompressorFactory.
func CompressorForStrategy(strategy Strategy) (Compressor, error) {
	switch strategy {
	case StrategyNone:
		return NoneCompressor{}, nil
	case StrategySnappy:
		return SnappyCompressor{}, nil
	default:
		return nil, fmt.Errorf("trace: unknown compression strategy %d", uint8(strategy))
	}
}

// NoneCompressor is a pass-through Compressor, mirroring
// original_source's util::compression::NoneCompressor.
type NoneCompressor struct{}

// Strategy reports StrategyNone.
func (NoneCompressor) Strategy() Strategy { return StrategyNone }

// Compress returns the input unchanged.
func (NoneCompressor) Compress(uncompressed []byte) ([]byte, error) {
	return uncompressed, nil
}

// Uncompress returns the input unchanged, validating its size matches
// the expected uncompressed size.
func (NoneCompressor) Uncompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	if len(compressed) != uncompressedSize {
		return nil, fmt.Errorf("trace: none-compressed body is %d bytes, want %d", len(compressed), uncompressedSize)
	}
	return compressed, nil
}

// SnappyCompressor compresses the event region with Snappy-compatible
// blocks via klauspost/compress/s2, mirroring original_source's
// util::compression::SnappyCompressor.
type SnappyCompressor struct{}

// Strategy reports StrategySnappy.
func (SnappyCompressor) Strategy() Strategy { return StrategySnappy }

// Compress encodes uncompressed into a Snappy-compatible block.
func (SnappyCompressor) Compress(uncompressed []byte) ([]byte, error) {
	return s2.EncodeSnappy(nil, uncompressed), nil
}

// Uncompress decodes a Snappy-compatible block and validates its
// decoded length matches the expected uncompressed size.
func (SnappyCompressor) Uncompress(compressed []byte, uncompressedSize int) ([]byte, error) {
	decoded, err := s2.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("trace: uncompress: %w", err)
	}
	if len(decoded) != uncompressedSize {
		return nil, fmt.Errorf("trace: uncompressed body is %d bytes, want %d", len(decoded), uncompressedSize)
	}
	return decoded, nil
}
