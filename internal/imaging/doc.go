// Package imaging connects Go images to Leptonica images and prepares them
// for OCR.
//
// The package covers four concerns:
//   - Conversion between image.Image and *leptonica.Pix (FromImage, ToImage),
//     and loading of formats Leptonica cannot read itself (ReadPix).
//   - Preprocessing before recognition: inversion of light-on-dark images,
//     grayscale, contrast, upscaling of small images and binarization.
//   - PixCache, a concurrent cache of decoded images that hands out
//     reference-counted clones.
//   - Clipping to rectangles or named quadrants and base64 PNG encoding for
//     JSON transport.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Rectangles are image.Rectangle values:
// Min is inclusive and Max is exclusive.
//
// # Ownership
//
// Every *leptonica.Pix returned by this package is owned by the caller and
// must be closed. Functions that take a *leptonica.Pix never close it.
//
// # Thread Safety
//
// PixCache is safe for concurrent use. The conversion and preprocessing
// functions are stateless. A single *leptonica.Pix must not be read and
// closed concurrently.
package imaging
