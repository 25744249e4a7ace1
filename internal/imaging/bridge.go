package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // Register WebP format decoder

	"github.com/ironsheep/leptess/internal/leptonica"
)

// ReadPix decodes the image file at path into a Leptonica image. Leptonica
// reads the file directly when it can; otherwise the file is decoded with
// the Go decoders (including WebP) and converted. A file neither can decode
// yields an error wrapping leptonica.ErrResourceUnavailable.
func ReadPix(path string) (*leptonica.Pix, error) {
	pix, err := leptonica.Read(path)
	if err == nil {
		return pix, nil
	}

	img, goErr := imaging.Open(path, imaging.AutoOrientation(true))
	if goErr != nil {
		return nil, err
	}
	return FromImage(img)
}

// FromImage converts a Go image into a Leptonica image. The pixels travel
// through a lossless PNG encoding, so the result is independent of img.
func FromImage(img image.Image) (*leptonica.Pix, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: empty image", leptonica.ErrResourceUnavailable)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return leptonica.ReadMem(buf.Bytes())
}

// ToImage converts a Leptonica image into a Go image.
func ToImage(pix *leptonica.Pix) (image.Image, error) {
	data, err := pix.EncodeMem(leptonica.FormatPNG)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}
