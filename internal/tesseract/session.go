package tesseract

/*
#include <stdlib.h>
#include <leptonica/allheaders.h>
#include <tesseract/capi.h>

static int leptess_set_variable(TessBaseAPI* api, const char* name, const char* value) {
	return TessBaseAPISetVariable(api, name, value) ? 1 : 0;
}

static void leptess_set_psm(TessBaseAPI* api, int mode) {
	TessBaseAPISetPageSegMode(api, (TessPageSegMode)mode);
}
*/
import "C"

import (
	"fmt"
	"runtime"
	"unsafe"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/leptess/internal/handle"
	"github.com/ironsheep/leptess/internal/leptonica"
)

// session is the state shared by every initialized stage. Transitions move
// it between state values; the previous value is left empty.
type session struct {
	own      *handle.Owner[C.TessBaseAPI]
	image    *leptonica.Pix
	datapath string
	language string
}

func (s *session) valid() bool {
	return s != nil && s.own.Valid()
}

func (s *session) api() *C.TessBaseAPI {
	return s.own.Get()
}

func (s *session) move() session {
	moved := *s
	s.own = nil
	s.image = nil
	return moved
}

// Close ends and deletes the session, then drops its image reference.
func (s *session) Close() {
	if s == nil {
		return
	}
	s.own.Release()
	s.image.Close()
	s.image = nil
}

// Datapath returns the traineddata directory given to Init.
func (s *session) Datapath() string {
	return s.datapath
}

// Language returns the language requested at Init, empty for the default.
func (s *session) Language() string {
	return s.language
}

// Languages returns the languages Tesseract actually loaded, e.g. "eng".
func (s *session) Languages() (string, error) {
	if !s.valid() {
		return "", ErrConsumed
	}
	langs := C.GoString(C.TessBaseAPIGetInitLanguagesAsString(s.api()))
	runtime.KeepAlive(s.own)
	return langs, nil
}

// SetVariable sets a Tesseract parameter such as "tessedit_char_whitelist".
func (s *session) SetVariable(name, value string) error {
	if !s.valid() {
		return ErrConsumed
	}
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cvalue := C.CString(value)
	defer C.free(unsafe.Pointer(cvalue))

	ok := C.leptess_set_variable(s.api(), cname, cvalue)
	runtime.KeepAlive(s.own)
	if ok == 0 {
		return fmt.Errorf("tesseract: cannot set variable %q", name)
	}
	return nil
}

func (s *session) setPageSegMode(mode PageSegMode) error {
	if !s.valid() {
		return ErrConsumed
	}
	if mode < gosseract.PSM_OSD_ONLY || mode >= gosseract.PSM_COUNT {
		return fmt.Errorf("tesseract: invalid page segmentation mode %d", mode)
	}
	C.leptess_set_psm(s.api(), C.int(mode))
	runtime.KeepAlive(s.own)
	return nil
}

func (s *session) clear() *Initialized {
	C.TessBaseAPIClear(s.api())
	runtime.KeepAlive(s.own)
	next := &Initialized{session: s.move()}
	next.image.Close()
	next.image = nil
	return next
}

// Initialized is a session with language data loaded and no image bound.
type Initialized struct {
	session
}

// SetPageSegMode selects how the page layout is analysed.
func (s *Initialized) SetPageSegMode(mode PageSegMode) error {
	return s.setPageSegMode(mode)
}

// SetImage binds pix and returns the bound session, consuming s. The session
// keeps its own reference-counted clone of pix, released when the session
// is cleared or closed.
func (s *Initialized) SetImage(pix *leptonica.Pix) (*ImageSet, error) {
	if !s.valid() {
		return nil, ErrConsumed
	}
	keep := pix.Clone()
	C.TessBaseAPISetImage2(s.api(), (*C.struct_Pix)(keep.Raw()))
	runtime.KeepAlive(keep)

	next := &ImageSet{session: s.move()}
	next.image = keep
	return next, nil
}

// ImageSet is a session with an image bound, ready to recognize.
type ImageSet struct {
	session
}

// SetRectangle restricts recognition to box. A later call replaces the
// previous restriction.
func (s *ImageSet) SetRectangle(box *leptonica.Box) error {
	if !s.valid() {
		return ErrConsumed
	}
	x, y, w, h := box.Geometry()
	C.TessBaseAPISetRectangle(s.api(), C.int(x), C.int(y), C.int(w), C.int(h))
	runtime.KeepAlive(s.own)
	return nil
}

// SetSourceResolution overrides the resolution recorded in the image, in
// pixels per inch.
func (s *ImageSet) SetSourceResolution(ppi int) error {
	if !s.valid() {
		return ErrConsumed
	}
	if ppi <= 0 {
		return fmt.Errorf("tesseract: invalid resolution %d", ppi)
	}
	C.TessBaseAPISetSourceResolution(s.api(), C.int(ppi))
	runtime.KeepAlive(s.own)
	return nil
}

// SetPageSegMode selects how the page layout is analysed.
func (s *ImageSet) SetPageSegMode(mode PageSegMode) error {
	return s.setPageSegMode(mode)
}

// Recognize runs layout analysis and recognition over the image or the
// restricted rectangle. On success s is consumed. On failure s stays bound
// and may be retried, cleared or closed.
func (s *ImageSet) Recognize() (*Recognized, error) {
	if !s.valid() {
		return nil, ErrConsumed
	}
	status := C.TessBaseAPIRecognize(s.api(), nil)
	runtime.KeepAlive(s.own)
	runtime.KeepAlive(s.image)
	if status != 0 {
		return nil, &RecognizeError{Code: int(status)}
	}
	return &Recognized{session: s.move()}, nil
}

// Clear unbinds the image and returns the session to the initialized state.
func (s *ImageSet) Clear() (*Initialized, error) {
	if !s.valid() {
		return nil, ErrConsumed
	}
	return s.clear(), nil
}
