package ocr

import (
	"fmt"
	"image"

	"github.com/ironsheep/leptess/internal/imaging"
	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// DefaultLanguage is used when Options.Language is empty.
const DefaultLanguage = "eng"

// Options configures how engines are created and how images are recognized.
type Options struct {
	// Datapath is the traineddata directory. Empty means the installed
	// default.
	Datapath string

	// Language is a Tesseract language code such as "eng" or "eng+deu".
	Language string

	// PageSegMode overrides Tesseract's layout analysis. Zero (OSD only,
	// never useful for text) is treated as unset.
	PageSegMode tesseract.PageSegMode

	// DPI is passed to the engine as the source resolution when the image
	// records none. Zero leaves Tesseract to guess.
	DPI int

	// Variables are Tesseract parameters applied after Init.
	Variables map[string]string

	// Prepare, when non-nil, preprocesses every image before recognition.
	Prepare *imaging.PrepareOptions
}

func (o Options) language() string {
	if o.Language == "" {
		return DefaultLanguage
	}
	return o.Language
}

// NewEngine creates and initializes a Tesseract session configured by opts.
// The caller owns the session and must Close it.
func NewEngine(opts Options) (*tesseract.Initialized, error) {
	engine, err := tesseract.New().Init(
		tesseract.WithDatapath(opts.Datapath),
		tesseract.WithLanguage(opts.language()),
	)
	if err != nil {
		return nil, err
	}

	for name, value := range opts.Variables {
		if err := engine.SetVariable(name, value); err != nil {
			engine.Close()
			return nil, err
		}
	}
	if opts.PageSegMode != 0 {
		if err := engine.SetPageSegMode(opts.PageSegMode); err != nil {
			engine.Close()
			return nil, err
		}
	}
	return engine, nil
}

// recognize binds pix to engine, restricts it to region when region is not
// empty, recognizes and hands the result to read. read receives the factor
// that maps engine coordinates back to pix coordinates. On success recognize
// returns the engine cleared for reuse. On failure the engine has been
// closed and nil is returned with the error.
func recognize(engine *tesseract.Initialized, pix *leptonica.Pix, region image.Rectangle, opts Options,
	read func(done *tesseract.Recognized, scale float64) error) (*tesseract.Initialized, error) {

	scale := 1.0
	if opts.Prepare != nil {
		prepared, err := imaging.PreparePix(pix, *opts.Prepare)
		if err != nil {
			engine.Close()
			return nil, fmt.Errorf("failed to prepare image: %w", err)
		}
		defer prepared.Close()

		// Preprocessing may rescale; map the region into the new raster.
		if prepared.Height() != pix.Height() {
			f := float64(prepared.Height()) / float64(pix.Height())
			region = scaleRect(region, f)
			scale = 1 / f
		}
		pix = prepared
	}

	bound, err := engine.SetImage(pix)
	if err != nil {
		engine.Close()
		return nil, err
	}

	if !region.Empty() {
		box, err := leptonica.NewBoxFromRect(region)
		if err != nil {
			bound.Close()
			return nil, err
		}
		err = bound.SetRectangle(box)
		box.Close()
		if err != nil {
			bound.Close()
			return nil, err
		}
	}

	if xres, _ := pix.Resolution(); xres == 0 && opts.DPI > 0 {
		if err := bound.SetSourceResolution(opts.DPI); err != nil {
			bound.Close()
			return nil, err
		}
	}

	done, err := bound.Recognize()
	if err != nil {
		bound.Close()
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	if err := read(done, scale); err != nil {
		done.Close()
		return nil, err
	}

	next, err := done.Clear()
	if err != nil {
		done.Close()
		return nil, err
	}
	return next, nil
}

func scaleRect(r image.Rectangle, f float64) image.Rectangle {
	return image.Rect(
		int(float64(r.Min.X)*f),
		int(float64(r.Min.Y)*f),
		int(float64(r.Max.X)*f+0.5),
		int(float64(r.Max.Y)*f+0.5),
	)
}
