package tesseract

/*
#include <stdlib.h>
#include <leptonica/allheaders.h>
#include <tesseract/capi.h>

static BOXA* leptess_component_images(TessBaseAPI* api, int level, int text_only) {
	return TessBaseAPIGetComponentImages(api, (TessPageIteratorLevel)level, (BOOL)(text_only != 0), NULL, NULL);
}

static BOXA* leptess_regions(TessBaseAPI* api) {
	return TessBaseAPIGetRegions(api, NULL);
}

static int leptess_iter_next(TessResultIterator* it, int level) {
	return TessResultIteratorNext(it, (TessPageIteratorLevel)level) ? 1 : 0;
}

static char* leptess_iter_text(TessResultIterator* it, int level) {
	return TessResultIteratorGetUTF8Text(it, (TessPageIteratorLevel)level);
}

static float leptess_iter_conf(TessResultIterator* it, int level) {
	return TessResultIteratorConfidence(it, (TessPageIteratorLevel)level);
}

static int leptess_iter_box(TessResultIterator* it, int level, int* left, int* top, int* right, int* bottom) {
	const TessPageIterator* pi = TessResultIteratorGetPageIteratorConst(it);
	return TessPageIteratorBoundingBox(pi, (TessPageIteratorLevel)level, left, top, right, bottom) ? 1 : 0;
}
*/
import "C"

import (
	"fmt"
	"image"
	"runtime"
	"strings"
	"unicode/utf8"
	"unsafe"

	"github.com/ironsheep/leptess/internal/handle"
	"github.com/ironsheep/leptess/internal/leptonica"
)

// Recognized is a session whose image has been recognized. Results are only
// reachable from this state.
type Recognized struct {
	session
}

// Component is one layout element reported by the result iterator.
type Component struct {
	Text       string
	Confidence float64
	Box        image.Rectangle
}

// Text returns the recognized text of the image or restricted rectangle.
func (r *Recognized) Text() (string, error) {
	if !r.valid() {
		return "", ErrConsumed
	}
	ctext := C.TessBaseAPIGetUTF8Text(r.api())
	runtime.KeepAlive(r.own)
	if ctext == nil {
		handle.Violation("TessBaseAPIGetUTF8Text", "returned null after recognition")
	}
	defer C.TessDeleteText(ctext)

	text := C.GoString(ctext)
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}
	return text, nil
}

// WordConfidences returns the confidence, 0 to 100, of every recognized word
// in reading order.
func (r *Recognized) WordConfidences() ([]int, error) {
	if !r.valid() {
		return nil, ErrConsumed
	}
	arr := C.TessBaseAPIAllWordConfidences(r.api())
	runtime.KeepAlive(r.own)
	if arr == nil {
		return nil, nil
	}
	defer C.TessDeleteIntArray(arr)

	var confs []int
	for i := 0; ; i++ {
		v := *(*C.int)(unsafe.Add(unsafe.Pointer(arr), uintptr(i)*C.sizeof_int))
		if v < 0 {
			break
		}
		confs = append(confs, int(v))
	}
	return confs, nil
}

// MeanConfidence returns the mean word confidence, 0 to 100, or NoConfidence
// when no words were recognized.
func (r *Recognized) MeanConfidence() (int, error) {
	confs, err := r.WordConfidences()
	if err != nil {
		return NoConfidence, err
	}
	if len(confs) == 0 {
		return NoConfidence, nil
	}
	conf := C.TessBaseAPIMeanTextConf(r.api())
	runtime.KeepAlive(r.own)
	return int(conf), nil
}

// ComponentImages returns the bounding boxes of the layout elements at level
// in reading order. With textOnly set, non-text elements are left out.
func (r *Recognized) ComponentImages(level Level, textOnly bool) (*leptonica.Boxa, error) {
	if !r.valid() {
		return nil, ErrConsumed
	}
	if !validLevel(level) {
		return nil, fmt.Errorf("tesseract: invalid level %d", level)
	}
	only := C.int(0)
	if textOnly {
		only = 1
	}
	boxa := C.leptess_component_images(r.api(), C.int(level), only)
	runtime.KeepAlive(r.own)
	if boxa == nil {
		handle.Violation("TessBaseAPIGetComponentImages", "returned null for level %s", LevelName(level))
	}
	return leptonica.WrapBoxa(unsafe.Pointer(boxa)), nil
}

func (r *Recognized) Blocks(textOnly bool) (*leptonica.Boxa, error) {
	return r.ComponentImages(LevelBlock, textOnly)
}

func (r *Recognized) Paragraphs(textOnly bool) (*leptonica.Boxa, error) {
	return r.ComponentImages(LevelPara, textOnly)
}

func (r *Recognized) TextLines(textOnly bool) (*leptonica.Boxa, error) {
	return r.ComponentImages(LevelTextLine, textOnly)
}

func (r *Recognized) Words(textOnly bool) (*leptonica.Boxa, error) {
	return r.ComponentImages(LevelWord, textOnly)
}

func (r *Recognized) Symbols(textOnly bool) (*leptonica.Boxa, error) {
	return r.ComponentImages(LevelSymbol, textOnly)
}

// Regions returns the page layout regions. The boolean is false when the
// engine found no regions, in which case the Boxa is nil.
func (r *Recognized) Regions() (*leptonica.Boxa, bool, error) {
	if !r.valid() {
		return nil, false, ErrConsumed
	}
	boxa := C.leptess_regions(r.api())
	runtime.KeepAlive(r.own)
	if boxa == nil {
		return nil, false, nil
	}
	return leptonica.WrapBoxa(unsafe.Pointer(boxa)), true, nil
}

// Components walks the result iterator at level and returns each non-empty
// element with its text, confidence and bounding box.
func (r *Recognized) Components(level Level) ([]Component, error) {
	if !r.valid() {
		return nil, ErrConsumed
	}
	if !validLevel(level) {
		return nil, fmt.Errorf("tesseract: invalid level %d", level)
	}
	defer runtime.KeepAlive(r.own)

	it := C.TessBaseAPIGetIterator(r.api())
	if it == nil {
		return nil, nil
	}
	defer C.TessResultIteratorDelete(it)

	var out []Component
	lvl := C.int(level)
	for {
		if ctext := C.leptess_iter_text(it, lvl); ctext != nil {
			text := strings.TrimSpace(C.GoString(ctext))
			C.TessDeleteText(ctext)
			if !utf8.ValidString(text) {
				return nil, ErrInvalidText
			}

			var left, top, right, bottom C.int
			if text != "" && C.leptess_iter_box(it, lvl, &left, &top, &right, &bottom) != 0 {
				out = append(out, Component{
					Text:       text,
					Confidence: float64(C.leptess_iter_conf(it, lvl)),
					Box:        image.Rect(int(left), int(top), int(right), int(bottom)),
				})
			}
		}
		if C.leptess_iter_next(it, lvl) == 0 {
			break
		}
	}
	return out, nil
}

// HOCR returns the result as an hOCR HTML fragment. page is the zero-based
// page number written into the markup.
func (r *Recognized) HOCR(page int) (string, error) {
	if !r.valid() {
		return "", ErrConsumed
	}
	ctext := C.TessBaseAPIGetHOCRText(r.api(), C.int(page))
	runtime.KeepAlive(r.own)
	if ctext == nil {
		handle.Violation("TessBaseAPIGetHOCRText", "returned null after recognition")
	}
	defer C.TessDeleteText(ctext)

	text := C.GoString(ctext)
	if !utf8.ValidString(text) {
		return "", ErrInvalidText
	}
	return text, nil
}

// Restrict returns to the bound state with recognition limited to box,
// consuming r. The image stays bound.
func (r *Recognized) Restrict(box *leptonica.Box) (*ImageSet, error) {
	if !r.valid() {
		return nil, ErrConsumed
	}
	next := &ImageSet{session: r.move()}
	if err := next.SetRectangle(box); err != nil {
		next.Close()
		return nil, err
	}
	return next, nil
}

// Clear unbinds the image and returns the session to the initialized state.
func (r *Recognized) Clear() (*Initialized, error) {
	if !r.valid() {
		return nil, ErrConsumed
	}
	return r.clear(), nil
}
