package tesseract

/*
#cgo LDFLAGS: -llept -ltesseract
#include <stdlib.h>
#include <leptonica/allheaders.h>
#include <tesseract/capi.h>
*/
import "C"

import (
	"unsafe"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/leptess/internal/handle"
)

// Level selects the layout granularity of component queries. The values are
// Tesseract's PageIteratorLevel, shared with gosseract.
type Level = gosseract.PageIteratorLevel

const (
	LevelBlock    = gosseract.RIL_BLOCK
	LevelPara     = gosseract.RIL_PARA
	LevelTextLine = gosseract.RIL_TEXTLINE
	LevelWord     = gosseract.RIL_WORD
	LevelSymbol   = gosseract.RIL_SYMBOL
)

// PageSegMode is Tesseract's page segmentation mode, shared with gosseract.
type PageSegMode = gosseract.PageSegMode

// NoConfidence is returned by MeanConfidence when no words were recognized.
const NoConfidence = -1

var levelNames = map[Level]string{
	LevelBlock:    "block",
	LevelPara:     "paragraph",
	LevelTextLine: "textline",
	LevelWord:     "word",
	LevelSymbol:   "symbol",
}

// LevelName returns a lowercase name for level.
func LevelName(level Level) string {
	if n, ok := levelNames[level]; ok {
		return n
	}
	return "unknown"
}

// ParseLevel maps "block", "paragraph"/"para", "textline"/"line", "word" or
// "symbol" to a Level.
func ParseLevel(name string) (Level, bool) {
	switch name {
	case "block":
		return LevelBlock, true
	case "paragraph", "para":
		return LevelPara, true
	case "textline", "line":
		return LevelTextLine, true
	case "word":
		return LevelWord, true
	case "symbol", "char":
		return LevelSymbol, true
	}
	return LevelBlock, false
}

func validLevel(level Level) bool {
	return level >= LevelBlock && level <= LevelSymbol
}

// Version returns the version of the linked Tesseract library.
func Version() string {
	return C.GoString(C.TessVersion())
}

func deleteAPI(api *C.TessBaseAPI) {
	C.TessBaseAPIDelete(api)
}

func endAndDeleteAPI(api *C.TessBaseAPI) {
	C.TessBaseAPIEnd(api)
	C.TessBaseAPIDelete(api)
}

// Uninitialized is a created session with no language data loaded.
type Uninitialized struct {
	own *handle.Owner[C.TessBaseAPI]
}

// New creates a session. It must be initialized with Init or closed.
func New() *Uninitialized {
	api := C.TessBaseAPICreate()
	if api == nil {
		handle.Violation("TessBaseAPICreate", "returned null")
	}
	return &Uninitialized{own: handle.New("tess-uninitialized", api, deleteAPI)}
}

// InitOption configures Init.
type InitOption func(*initConfig)

type initConfig struct {
	datapath string
	language string
}

// WithDatapath points Tesseract at a directory of traineddata files. Empty
// means the installed default (TESSDATA_PREFIX or the build-time path).
func WithDatapath(path string) InitOption {
	return func(c *initConfig) { c.datapath = path }
}

// WithLanguage selects the language model, e.g. "eng" or "eng+deu". Empty
// means Tesseract's default.
func WithLanguage(lang string) InitOption {
	return func(c *initConfig) { c.language = lang }
}

// Init loads language data and returns the initialized session. The receiver
// is consumed whether or not Init succeeds; on failure the session has
// already been deleted.
func (u *Uninitialized) Init(opts ...InitOption) (*Initialized, error) {
	if u == nil || !u.own.Valid() {
		return nil, ErrConsumed
	}

	var cfg initConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	var cdata, clang *C.char
	if cfg.datapath != "" {
		cdata = C.CString(cfg.datapath)
		defer C.free(unsafe.Pointer(cdata))
	}
	if cfg.language != "" {
		clang = C.CString(cfg.language)
		defer C.free(unsafe.Pointer(clang))
	}

	status := C.TessBaseAPIInit3(u.own.Get(), cdata, clang)
	if status != 0 {
		u.own.Release()
		return nil, &InitError{Code: int(status), Datapath: cfg.datapath, Language: cfg.language}
	}

	api := u.own.Take()
	return &Initialized{session: session{
		own:      handle.New("tess-session", api, endAndDeleteAPI),
		datapath: cfg.datapath,
		language: cfg.language,
	}}, nil
}

// Close deletes a session that was never initialized.
func (u *Uninitialized) Close() {
	if u == nil {
		return
	}
	u.own.Release()
}
