// Package leptonica wraps the Leptonica image library through cgo.
//
// Three native types are exposed, each held by a single-owner handle from
// package handle:
//
//   - Pix: a decoded raster image (Leptonica PIX).
//   - Box: an immutable rectangle (Leptonica BOX).
//   - Boxa: a read-only, ordered collection of rectangles (Leptonica BOXA).
//
// # Ownership
//
// Every constructor returns a value the caller owns and must Close. Close is
// safe to call more than once. Clones (Pix.Clone, Box.Clone, and every Box
// read out of a Boxa) are reference-counted shares made by Leptonica itself:
// they point at the same native data but have independent lifetimes, so
// closing one never invalidates another.
//
// # Iterating a Boxa
//
// Boxa supports two traversals, both yielding exactly Len() clones in
// ascending index order:
//
//	for i, box := range boxes.All() { // borrowing: boxes stays usable
//	    defer box.Close()
//	    ...
//	}
//
//	for box := range boxes.Drain() { // consuming: boxes is empty afterward
//	    ...
//	    box.Close()
//	}
//
// Drain takes ownership of the collection as soon as it is called and
// releases it when the loop finishes or breaks early.
//
// # Errors
//
// Recoverable failures are returned as errors wrapping ErrResourceUnavailable,
// ErrWriteFailed, ErrGeometryInvalid or ErrIndexOutOfRange. A null result
// from a Leptonica call that is documented never to return null panics with
// *handle.InvariantError.
//
// # Thread Safety
//
// None of the types are safe for concurrent use. Distinct values may be used
// from different goroutines.
package leptonica
