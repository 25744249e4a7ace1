package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/leptess/internal/leptonica"
)

// PrepareOptions controls the cleanup applied to an image before OCR.
type PrepareOptions struct {
	// Grayscale drops color information.
	Grayscale bool `json:"grayscale"`

	// Contrast adjusts contrast in percent, -100 to 100. Zero leaves it.
	Contrast float64 `json:"contrast"`

	// MinHeight upscales images shorter than this many pixels, keeping the
	// aspect ratio. Tesseract does poorly on glyphs under about 20px tall.
	MinHeight int `json:"min_height"`

	// Threshold binarizes the image at this gray level, 1 to 255. Zero
	// skips binarization.
	Threshold uint8 `json:"threshold"`

	// AutoInvert turns light-on-dark images into dark-on-light.
	AutoInvert bool `json:"auto_invert"`
}

// DefaultPrepareOptions returns the settings used by the OCR tools when the
// caller asks for preprocessing without details.
func DefaultPrepareOptions() PrepareOptions {
	return PrepareOptions{
		Grayscale:  true,
		Contrast:   20,
		MinHeight:  300,
		AutoInvert: true,
	}
}

// Prepare applies opts to img and returns a new image. img is not modified.
func Prepare(img image.Image, opts PrepareOptions) image.Image {
	out := img

	if opts.AutoInvert && NeedsInversion(out) {
		out = imaging.Invert(out)
	}
	if opts.Grayscale {
		out = imaging.Grayscale(out)
	}
	if opts.Contrast != 0 {
		out = imaging.AdjustContrast(out, opts.Contrast)
	}
	if h := out.Bounds().Dy(); opts.MinHeight > 0 && h > 0 && h < opts.MinHeight {
		out = imaging.Resize(out, 0, opts.MinHeight, imaging.Lanczos)
	}
	if opts.Threshold > 0 {
		out = segment.Threshold(out, opts.Threshold)
	}
	return out
}

// PreparePix runs Prepare over a Leptonica image and returns a new one. The
// caller keeps ownership of pix.
func PreparePix(pix *leptonica.Pix, opts PrepareOptions) (*leptonica.Pix, error) {
	img, err := ToImage(pix)
	if err != nil {
		return nil, err
	}
	return FromImage(Prepare(img, opts))
}

// inversionSamples bounds the pixels inspected by NeedsInversion.
const inversionSamples = 4096

// NeedsInversion reports whether img looks like light text on a dark
// background, judged by a mean CIE L* lightness below one half.
func NeedsInversion(img image.Image) bool {
	b := img.Bounds()
	if b.Empty() {
		return false
	}

	step := 1
	for (b.Dx()/step)*(b.Dy()/step) > inversionSamples {
		step++
	}

	var sum float64
	var n int
	for y := b.Min.Y; y < b.Max.Y; y += step {
		for x := b.Min.X; x < b.Max.X; x += step {
			c, ok := colorful.MakeColor(img.At(x, y))
			if !ok {
				// Fully transparent pixels carry no color.
				continue
			}
			l, _, _ := c.Lab()
			sum += l
			n++
		}
	}
	if n == 0 {
		return false
	}
	return sum/float64(n) < 0.5
}
