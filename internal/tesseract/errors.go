package tesseract

import (
	"errors"
	"fmt"
)

var (
	// ErrConsumed is returned by methods called on a state value that has
	// already transitioned or been closed.
	ErrConsumed = errors.New("tesseract: session state already consumed")

	// ErrInvalidText is returned when the engine produces bytes that are not
	// valid UTF-8.
	ErrInvalidText = errors.New("tesseract: recognized text is not valid UTF-8")
)

// InitError reports a failed TessBaseAPIInit3 call, typically missing or
// incompatible language data.
type InitError struct {
	Code     int
	Datapath string
	Language string
}

func (e *InitError) Error() string {
	lang := e.Language
	if lang == "" {
		lang = "default"
	}
	if e.Datapath != "" {
		return fmt.Sprintf("tesseract: init failed for language %q in %s (code %d)", lang, e.Datapath, e.Code)
	}
	return fmt.Sprintf("tesseract: init failed for language %q (code %d)", lang, e.Code)
}

// RecognizeError reports a nonzero status from TessBaseAPIRecognize.
type RecognizeError struct {
	Code int
}

func (e *RecognizeError) Error() string {
	return fmt.Sprintf("tesseract: recognition failed (code %d)", e.Code)
}
