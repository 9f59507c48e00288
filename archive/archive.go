// Package archive mirrors flushed trace files to a remote object store.
// It is a best-effort collaborator of the flush engine: an archive
// failure never blocks or drops a trace file write (spec.md §9's
// "archiver and exporter are best-effort collaborators").
package archive

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for archive failure classification, grounded on the
// teacher's storage error sentinels. Callers use errors.Is.
var (
	ErrAccessDenied = errors.New("archive: access denied")
	ErrNotFound     = errors.New("archive: not found")
	ErrThrottled    = errors.New("archive: rate limited")
)

// Error wraps an underlying archive failure with a sentinel
// classification and the path involved, preserving the original error
// in the chain for errors.As.
type Error struct {
	Kind error
	Op   string
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v: %v", e.Op, e.Path, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool { return errors.Is(e.Kind, target) }

// Archiver mirrors local trace files to a remote store and enforces a
// retention policy over them.
type Archiver interface {
	// Upload copies the file at path to the remote store.
	Upload(ctx context.Context, path string) error
	// DeleteOlderThan removes remote objects whose local counterpart
	// would have been retired before threshold, reporting how many
	// objects and bytes were removed.
	DeleteOlderThan(ctx context.Context, thresholdUnixNano int64) (DeletedCount, error)
}

// DeletedCount mirrors types.DeletedFilesInfo for the archive's remote
// deletions, which are counted independently of local file deletions.
type DeletedCount struct {
	DeletedFiles int32
	DeletedBytes int64
}

// NoopArchiver discards every Upload and reports no deletions. Used
// when Config.Archive.Bucket is empty.
type NoopArchiver struct{}

func (NoopArchiver) Upload(context.Context, string) error { return nil }

func (NoopArchiver) DeleteOlderThan(context.Context, int64) (DeletedCount, error) {
	return DeletedCount{}, nil
}

var _ Archiver = NoopArchiver{}
