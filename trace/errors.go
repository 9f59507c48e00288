package trace

import "fmt"

// ReadErrorKind classifies a trace file read failure (spec.md §7).
type ReadErrorKind int

const (
	// FailedToOpenFile indicates the trace file could not be opened.
	FailedToOpenFile ReadErrorKind = iota
	// MismatchedMagicNumber indicates the header's magic number did not
	// match MagicNumber.
	MismatchedMagicNumber
	// UnknownVersion indicates the header's version field does not match
	// the reader's supported Version.
	UnknownVersion
	// UncompressError indicates the compressed body failed to decompress
	// or decompressed to an unexpected length.
	UncompressError
	// MalformedFile indicates the file is truncated or otherwise
	// structurally invalid.
	MalformedFile
)

func (k ReadErrorKind) String() string {
	switch k {
	case FailedToOpenFile:
		return "failed_to_open_file"
	case MismatchedMagicNumber:
		return "mismatched_magic_number"
	case UnknownVersion:
		return "unknown_version"
	case UncompressError:
		return "uncompress_error"
	case MalformedFile:
		return "malformed_file"
	default:
		return fmt.Sprintf("read_error_kind(%d)", int(k))
	}
}

// ReadError is a typed trace file read failure: a classified Kind plus
// the path and underlying cause.
type ReadError struct {
	Kind ReadErrorKind
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	if e.Path != "" {
		if e.Err != nil {
			return fmt.Sprintf("trace: %s: %s: %v", e.Kind, e.Path, e.Err)
		}
		return fmt.Sprintf("trace: %s: %s", e.Kind, e.Path)
	}
	if e.Err != nil {
		return fmt.Sprintf("trace: %s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("trace: %s", e.Kind)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
