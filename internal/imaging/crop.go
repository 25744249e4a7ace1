package imaging

import (
	"encoding/base64"
	"fmt"
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/leptess/internal/leptonica"
)

// CropResult contains the clipped image data
type CropResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// Clip cuts rect out of pix and returns the sub-image as a new Leptonica
// image. The rectangle must lie inside the image.
func Clip(pix *leptonica.Pix, rect image.Rectangle) (*leptonica.Pix, error) {
	bounds := pix.Bounds()
	if !rect.In(bounds) {
		return nil, fmt.Errorf("%w: clip region %v outside image bounds %v",
			leptonica.ErrGeometryInvalid, rect, bounds)
	}

	box, err := leptonica.NewBoxFromRect(rect)
	if err != nil {
		return nil, err
	}
	defer box.Close()

	return pix.Clip(box)
}

// Crop clips rect out of pix, optionally rescales it, and returns it as a
// base64 PNG.
func Crop(pix *leptonica.Pix, rect image.Rectangle, scale float64) (*CropResult, error) {
	clipped, err := Clip(pix, rect)
	if err != nil {
		return nil, err
	}
	defer clipped.Close()

	if scale == 1.0 || scale <= 0 {
		return EncodeBase64(clipped)
	}

	img, err := ToImage(clipped)
	if err != nil {
		return nil, err
	}
	newWidth := int(float64(img.Bounds().Dx()) * scale)
	newHeight := int(float64(img.Bounds().Dy()) * scale)
	if newWidth < 1 || newHeight < 1 {
		return nil, fmt.Errorf("scale %.3f collapses %v to nothing", scale, rect)
	}

	scaled, err := FromImage(imaging.Resize(img, newWidth, newHeight, imaging.Lanczos))
	if err != nil {
		return nil, err
	}
	defer scaled.Close()
	return EncodeBase64(scaled)
}

// EncodeBase64 encodes pix as PNG for transport in JSON.
func EncodeBase64(pix *leptonica.Pix) (*CropResult, error) {
	data, err := pix.EncodeMem(leptonica.FormatPNG)
	if err != nil {
		return nil, fmt.Errorf("failed to encode clipped image: %w", err)
	}
	return &CropResult{
		Width:       pix.Width(),
		Height:      pix.Height(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// QuadrantRect returns the rectangle of a named region of a w x h image:
// top-left, top-right, bottom-left, bottom-right, top-half, bottom-half,
// left-half, right-half or center (the middle 50%).
func QuadrantRect(w, h int, region string) (image.Rectangle, error) {
	midX := w / 2
	midY := h / 2

	var x1, y1, x2, y2 int

	switch region {
	case "top-left":
		x1, y1, x2, y2 = 0, 0, midX, midY
	case "top-right":
		x1, y1, x2, y2 = midX, 0, w, midY
	case "bottom-left":
		x1, y1, x2, y2 = 0, midY, midX, h
	case "bottom-right":
		x1, y1, x2, y2 = midX, midY, w, h
	case "top-half":
		x1, y1, x2, y2 = 0, 0, w, midY
	case "bottom-half":
		x1, y1, x2, y2 = 0, midY, w, h
	case "left-half":
		x1, y1, x2, y2 = 0, 0, midX, h
	case "right-half":
		x1, y1, x2, y2 = midX, 0, w, h
	case "center":
		qW := w / 4
		qH := h / 4
		x1, y1, x2, y2 = qW, qH, w-qW, h-qH
	default:
		return image.Rectangle{}, fmt.Errorf("unknown region: %s", region)
	}

	return image.Rect(x1, y1, x2, y2), nil
}
