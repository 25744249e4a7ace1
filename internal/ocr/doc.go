// Package ocr provides high-level Optical Character Recognition on top of the
// tesseract and leptonica bindings.
//
// Where the tesseract package exposes each engine state, this package runs
// the whole sequence (initialize, bind, restrict, recognize, read, clear) and
// returns plain result structs ready for JSON.
//
// # Prerequisites
//
// Tesseract and Leptonica must be installed with their development headers:
//   - Ubuntu/Debian: apt-get install libtesseract-dev libleptonica-dev
//   - macOS: brew install tesseract leptonica
//
// Language data files are required for each language:
//   - Ubuntu/Debian: apt-get install tesseract-ocr-eng (for English)
//   - Other languages: tesseract-ocr-<lang> packages
//   - Or point Options.Datapath at a directory of .traineddata files
//
// # Functions
//
//   - ExtractText: full-image OCR of a file, text plus word bounding boxes
//   - ExtractTextFromRegion: OCR restricted to a rectangle of a loaded image
//   - DetectTextRegions: where text is, at block, paragraph, line, word or
//     symbol level
//   - LayoutBoxes: raw layout rectangles as a leptonica.Boxa
//   - GetOCRInfo: library versions and whether the configured language loads
//
// Each of these creates and closes its own engine. For repeated work use a
// Pool, which keeps initialized engines and lends one per job, and
// ExtractBatch to fan a list of files out over it.
//
// # Confidence
//
// Region confidences are reported as 0.0 to 1.0. OCRResult.MeanConfidence
// keeps Tesseract's 0 to 100 scale and is -1 when nothing was recognized.
//
// # Error Handling
//
// Functions return errors for:
//   - Missing or undecodable image files (leptonica.ErrResourceUnavailable)
//   - Language data that cannot be loaded (*tesseract.InitError)
//   - Recognition failures (*tesseract.RecognizeError)
//   - Text that is not valid UTF-8 (tesseract.ErrInvalidText)
package ocr
