package leptonica

import "errors"

var (
	// ErrResourceUnavailable is returned when an image cannot be read or decoded.
	ErrResourceUnavailable = errors.New("leptonica: image unavailable")

	// ErrWriteFailed is returned when Leptonica fails to encode or persist an image.
	ErrWriteFailed = errors.New("leptonica: write failed")

	// ErrGeometryInvalid is returned for degenerate rectangles and clip regions
	// that do not overlap the image.
	ErrGeometryInvalid = errors.New("leptonica: invalid geometry")

	// ErrIndexOutOfRange is returned by Boxa.Get for indices outside [0, Len).
	ErrIndexOutOfRange = errors.New("leptonica: index out of range")
)
