// Package handle implements single-owner wrappers around foreign (cgo)
// resources.
//
// Every native object used by this module (Leptonica images, boxes and box
// arrays, Tesseract sessions) is held by exactly one Owner. The Owner is the
// only place where the native release function is invoked, and it invokes it
// at most once.
//
// # Lifecycle
//
//   - New wraps a freshly acquired pointer. A nil pointer is a broken library
//     contract and panics with *InvariantError.
//   - Get returns the pointer for a foreign call. Calling Get after the Owner
//     has been released or transferred panics; continuing would be a
//     use-after-free.
//   - Take transfers the pointer out without releasing it. This is how
//     consuming state transitions hand a resource to a new Owner whose
//     teardown differs from the old one.
//   - Release runs the release function once. Later calls are no-ops.
//
// # Leaks
//
// An Owner that becomes unreachable while still holding a pointer is released
// by a finalizer and a warning is logged through slog.Default. The finalizer
// is a backstop; callers are expected to Close what they open.
//
// # Fatal Violations
//
// Conditions that the foreign libraries document as impossible (a null
// result where a non-null one is guaranteed) are reported through Violation,
// which panics with *InvariantError. These are not returned as errors because
// no safe continuation exists.
//
// # Thread Safety
//
// Owners are not safe for concurrent use. The live-handle counter used by
// Live is atomic so tests can observe it.
package handle
