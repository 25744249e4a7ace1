package handle

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync/atomic"
)

var live atomic.Int64

// Live returns the number of Owners currently holding a pointer.
func Live() int64 {
	return live.Load()
}

// InvariantError is the panic value for violated foreign-library contracts.
type InvariantError struct {
	Op      string
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in %s: %s", e.Op, e.Message)
}

// Violation panics with an *InvariantError for op.
func Violation(op, format string, args ...any) {
	panic(&InvariantError{Op: op, Message: fmt.Sprintf(format, args...)})
}

// Owner holds exclusive ownership of a foreign pointer of type *T.
type Owner[T any] struct {
	kind    string
	ptr     *T
	release func(*T)
}

// New takes ownership of ptr. release is called exactly once, by Release or
// by the leak finalizer.
func New[T any](kind string, ptr *T, release func(*T)) *Owner[T] {
	if ptr == nil {
		Violation(kind, "foreign constructor returned null")
	}
	o := &Owner[T]{kind: kind, ptr: ptr, release: release}
	live.Add(1)
	runtime.SetFinalizer(o, finalize[T])
	return o
}

func finalize[T any](o *Owner[T]) {
	if o.ptr == nil {
		return
	}
	slog.Warn("native handle leaked, releasing from finalizer", "kind", o.kind)
	o.Release()
}

// Kind returns the resource label given to New.
func (o *Owner[T]) Kind() string {
	return o.kind
}

// Valid reports whether the Owner still holds its pointer.
func (o *Owner[T]) Valid() bool {
	return o != nil && o.ptr != nil
}

// Get returns the owned pointer. It panics if the Owner no longer holds one.
func (o *Owner[T]) Get() *T {
	if !o.Valid() {
		kind := "handle"
		if o != nil {
			kind = o.kind
		}
		Violation(kind, "use after release")
	}
	return o.ptr
}

// Take transfers the pointer to the caller without releasing it. The Owner is
// left empty and its finalizer is cleared.
func (o *Owner[T]) Take() *T {
	p := o.Get()
	o.ptr = nil
	live.Add(-1)
	runtime.SetFinalizer(o, nil)
	return p
}

// Release frees the foreign resource. Calling Release on an empty Owner does
// nothing.
func (o *Owner[T]) Release() {
	if !o.Valid() {
		return
	}
	p := o.ptr
	o.ptr = nil
	live.Add(-1)
	runtime.SetFinalizer(o, nil)
	o.release(p)
}
