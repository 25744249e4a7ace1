// Package tesseract wraps the Tesseract OCR C API as a typestate machine.
//
// A Tesseract session passes through four states, each a distinct Go type.
// Only the operations legal in a state exist as methods on its type, so
// binding an image before initialization or reading text before recognition
// does not compile:
//
//	New()                 -> *Uninitialized
//	Uninitialized.Init    -> *Initialized   (or *InitError)
//	Initialized.SetImage  -> *ImageSet
//	ImageSet.Recognize    -> *Recognized    (or *RecognizeError)
//
// Each transition consumes its receiver. The old value is left empty: its
// methods return ErrConsumed and its Close does nothing, so the session is
// torn down exactly once, by whichever state value currently owns it.
//
// # Teardown
//
// Closing an Uninitialized session only deletes it. Closing any later state
// ends the session and then deletes it, because ending a session that was
// never started is invalid. Init hands the native pointer to a new owner with
// the longer teardown; Init failure releases the session through the short
// one.
//
// # Images
//
// SetImage does not take the caller's image. It takes a reference-counted
// clone (leptonica.Pix.Clone) that lives exactly as long as the session uses
// it, so the caller may close its own Pix at any time.
//
// # Results
//
// Text, confidence and layout are only reachable from *Recognized. Recognized
// can go back to *ImageSet with a new rectangle (Restrict) and any bound
// state can go back to *Initialized (Clear), which lets pools reuse loaded
// language data across images.
//
// # Concurrency
//
// A session holds unsynchronized native state. Never share one between
// goroutines; run one session per worker instead. Recognize blocks until the
// engine returns and cannot be cancelled.
package tesseract
