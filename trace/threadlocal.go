package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync"
)

// goroutineID returns the calling goroutine's numeric id, Go's
// stand-in for the OS thread-local identity the original runtime keys
// per-thread buffers on. Parsed from the first line of runtime.Stack's
// output ("goroutine 123 [running]: ..."), which is the only portable
// way to obtain it without cgo or assembly.
func goroutineID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	const prefix = "goroutine "
	if !bytes.HasPrefix(buf, []byte(prefix)) {
		return 0
	}
	rest := buf[len(prefix):]
	end := bytes.IndexByte(rest, ' ')
	if end < 0 {
		return 0
	}
	id, err := strconv.ParseUint(string(rest[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

// ThreadLocal maps goroutine ids to per-thread buffers, standing in for
// the OS-thread-local storage the original runtime uses to find the
// calling thread's buffer without an explicit handle (spec.md §4.3,
// §9's "process-wide state" note).
type ThreadLocal struct {
	buffers sync.Map // uint64 goroutine id -> *ThreadBuffer
}

// Get returns the calling goroutine's buffer, creating one via new if
// this is the goroutine's first call.
func (t *ThreadLocal) Get(new func() *ThreadBuffer) *ThreadBuffer {
	id := goroutineID()
	if v, ok := t.buffers.Load(id); ok {
		return v.(*ThreadBuffer)
	}
	buf := new()
	actual, _ := t.buffers.LoadOrStore(id, buf)
	return actual.(*ThreadBuffer)
}

// Delete removes the calling goroutine's buffer, for use when a thread
// exits or on Deinitialize.
func (t *ThreadLocal) Delete() {
	t.buffers.Delete(goroutineID())
}

// Range iterates live per-thread buffers, for Deinitialize's drain.
func (t *ThreadLocal) Range(f func(id uint64, b *ThreadBuffer) bool) {
	t.buffers.Range(func(k, v any) bool {
		return f(k.(uint64), v.(*ThreadBuffer))
	})
}
