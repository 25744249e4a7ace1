package ocr

import (
	"image"
	"math"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// BoundsFromRect converts an image.Rectangle.
func BoundsFromRect(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Rect converts b back to an image.Rectangle.
func (b Bounds) Rect() image.Rectangle {
	return image.Rect(b.X1, b.Y1, b.X2, b.Y2)
}

// TextRegion represents a word or text block with its location and OCR confidence.
type TextRegion struct {
	// Text is the recognized text content.
	Text string `json:"text"`

	// Confidence is the OCR confidence score (0.0 to 1.0).
	// Higher values indicate more certain recognition.
	Confidence float64 `json:"confidence"`

	// Bounds is the bounding box around this text in the image.
	Bounds Bounds `json:"bounds"`
}

// OCRResult contains the complete results of text extraction from an image.
type OCRResult struct {
	// FullText is all recognized text as a single string with original spacing/newlines.
	FullText string `json:"full_text"`

	// MeanConfidence is Tesseract's mean word confidence (0 to 100), or -1
	// when no words were recognized.
	MeanConfidence int `json:"mean_confidence"`

	// Regions contains individual words with their bounding boxes and confidence scores.
	Regions []TextRegion `json:"regions"`
}

// ExtractText performs OCR on an entire image file and returns recognized text.
//
// A fresh engine is created for the call and closed before returning; use a
// Pool to amortize engine initialization across many images.
//
// Parameters:
//   - imagePath: Path to the image file. Any format Leptonica reads (PNG,
//     JPEG, TIFF, BMP, PNM, GIF, WebP, JP2) is accepted.
//   - opts: Engine and preprocessing options. The zero value recognizes
//     English with the installed language data.
//
// Returns:
//   - *OCRResult: FullText, the mean confidence and word-level regions.
//   - error: Non-nil if the image cannot be loaded, the language data cannot
//     be initialized, or recognition fails.
//
// # Word-Level Results
//
// Regions are taken from Tesseract's result iterator at RIL_WORD level.
// Empty words are filtered out. Bounds are in the coordinates of the image
// file even when preprocessing rescales the image internally.
func ExtractText(imagePath string, opts Options) (*OCRResult, error) {
	pix, err := imaging.ReadPix(imagePath)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	return ExtractTextFromRegion(pix, image.Rectangle{}, opts)
}

// ExtractTextFromRegion performs OCR on a rectangular region of an image.
//
// The engine is restricted to the region with SetRectangle, so no copy of
// the image is made. An empty region means the whole image. Bounds in the
// result are relative to the full image, not to the region.
//
// The caller keeps ownership of pix.
func ExtractTextFromRegion(pix *leptonica.Pix, region image.Rectangle, opts Options) (*OCRResult, error) {
	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}

	var result *OCRResult
	engine, err = recognize(engine, pix, region, opts, func(done *tesseract.Recognized, scale float64) error {
		var err error
		result, err = readResult(done, scale)
		return err
	})
	if err != nil {
		return nil, err
	}
	engine.Close()
	return result, nil
}

func readResult(done *tesseract.Recognized, scale float64) (*OCRResult, error) {
	text, err := done.Text()
	if err != nil {
		return nil, err
	}
	mean, err := done.MeanConfidence()
	if err != nil {
		return nil, err
	}
	words, err := done.Components(tesseract.LevelWord)
	if err != nil {
		return nil, err
	}

	regions := make([]TextRegion, 0, len(words))
	for _, w := range words {
		regions = append(regions, TextRegion{
			Text:       w.Text,
			Confidence: w.Confidence / 100.0,
			Bounds:     BoundsFromRect(unscale(w.Box, scale)),
		})
	}

	return &OCRResult{
		FullText:       text,
		MeanConfidence: mean,
		Regions:        regions,
	}, nil
}

// DetectTextRegionsResult contains text region locations without the actual text content.
type DetectTextRegionsResult struct {
	// Regions is the list of detected text regions with bounding boxes.
	Regions []TextRegionBox `json:"regions"`

	// Count is the number of text regions detected.
	Count int `json:"count"`

	// Level is the layout granularity of the regions, e.g. "block".
	Level string `json:"level"`
}

// TextRegionBox represents a detected text region's location without its content.
type TextRegionBox struct {
	// Bounds is the bounding box around the text region.
	Bounds Bounds `json:"bounds"`

	// Confidence is Tesseract's confidence score for this region (0.0 to 1.0).
	Confidence float64 `json:"confidence"`
}

// DetectTextRegions finds where text sits in an image file at the given
// layout level, typically tesseract.LevelBlock for paragraph-like blocks or
// tesseract.LevelTextLine for lines.
//
// Regions with confidence below minConfidence (0.0 to 1.0) are dropped.
func DetectTextRegions(imagePath string, level tesseract.Level, minConfidence float64, opts Options) (*DetectTextRegionsResult, error) {
	pix, err := imaging.ReadPix(imagePath)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}

	var result *DetectTextRegionsResult
	engine, err = recognize(engine, pix, image.Rectangle{}, opts, func(done *tesseract.Recognized, scale float64) error {
		var err error
		result, err = readRegions(done, level, minConfidence, scale)
		return err
	})
	if err != nil {
		return nil, err
	}
	engine.Close()
	return result, nil
}

func readRegions(done *tesseract.Recognized, level tesseract.Level, minConfidence, scale float64) (*DetectTextRegionsResult, error) {
	comps, err := done.Components(level)
	if err != nil {
		return nil, err
	}

	regions := make([]TextRegionBox, 0, len(comps))
	for _, c := range comps {
		confidence := c.Confidence / 100.0
		if confidence < minConfidence {
			continue
		}
		regions = append(regions, TextRegionBox{
			Bounds:     BoundsFromRect(unscale(c.Box, scale)),
			Confidence: confidence,
		})
	}

	return &DetectTextRegionsResult{
		Regions: regions,
		Count:   len(regions),
		Level:   tesseract.LevelName(level),
	}, nil
}

// LayoutBoxes returns the bounding boxes Tesseract's layout analysis finds at
// level, in reading order, as a collection owned by the caller. Non-text
// components are included unless textOnly is set.
func LayoutBoxes(pix *leptonica.Pix, level tesseract.Level, textOnly bool, opts Options) (*leptonica.Boxa, error) {
	// Coordinates must match pix exactly, so preprocessing is not applied.
	opts.Prepare = nil

	engine, err := NewEngine(opts)
	if err != nil {
		return nil, err
	}

	var boxes *leptonica.Boxa
	engine, err = recognize(engine, pix, image.Rectangle{}, opts, func(done *tesseract.Recognized, _ float64) error {
		var err error
		boxes, err = done.ComponentImages(level, textOnly)
		return err
	})
	if err != nil {
		return nil, err
	}
	engine.Close()
	return boxes, nil
}

// ExtractHOCR recognizes pix and returns Tesseract's hOCR markup for it as
// page number page. Like LayoutBoxes it skips preprocessing so the bbox
// attributes refer to pix.
func ExtractHOCR(pix *leptonica.Pix, page int, opts Options) (string, error) {
	opts.Prepare = nil

	engine, err := NewEngine(opts)
	if err != nil {
		return "", err
	}

	var hocr string
	engine, err = recognize(engine, pix, image.Rectangle{}, opts, func(done *tesseract.Recognized, _ float64) error {
		var err error
		hocr, err = done.HOCR(page)
		return err
	})
	if err != nil {
		return "", err
	}
	engine.Close()
	return hocr, nil
}

func unscale(r image.Rectangle, scale float64) image.Rectangle {
	if scale == 1 {
		return r
	}
	return image.Rect(
		int(math.Floor(float64(r.Min.X)*scale)),
		int(math.Floor(float64(r.Min.Y)*scale)),
		int(math.Ceil(float64(r.Max.X)*scale)),
		int(math.Ceil(float64(r.Max.Y)*scale)),
	)
}
