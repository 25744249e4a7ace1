package leptonica

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Format is a Leptonica output encoding. The numeric values match the
// IFF_* constants of the library and must not be reordered.
type Format int

const (
	FormatUnknown      Format = iota // IFF_UNKNOWN
	FormatBMP                        // IFF_BMP
	FormatJPEG                       // IFF_JFIF_JPEG
	FormatPNG                        // IFF_PNG
	FormatTIFF                       // IFF_TIFF
	FormatTIFFPackbits               // IFF_TIFF_PACKBITS
	FormatTIFFRLE                    // IFF_TIFF_RLE
	FormatTIFFG3                     // IFF_TIFF_G3
	FormatTIFFG4                     // IFF_TIFF_G4
	FormatTIFFLZW                    // IFF_TIFF_LZW
	FormatTIFFZIP                    // IFF_TIFF_ZIP
	FormatPNM                        // IFF_PNM
	FormatPS                         // IFF_PS
	FormatGIF                        // IFF_GIF
	FormatJP2                        // IFF_JP2
	FormatWebP                       // IFF_WEBP
	FormatLPDF                       // IFF_LPDF
	FormatTIFFJPEG                   // IFF_TIFF_JPEG
	FormatDefault                    // IFF_DEFAULT: chosen from the image depth
	FormatSPIX                       // IFF_SPIX: Leptonica's serialized PIX
)

var formatNames = [...]string{
	FormatUnknown:      "unknown",
	FormatBMP:          "bmp",
	FormatJPEG:         "jpeg",
	FormatPNG:          "png",
	FormatTIFF:         "tiff",
	FormatTIFFPackbits: "tiff-packbits",
	FormatTIFFRLE:      "tiff-rle",
	FormatTIFFG3:       "tiff-g3",
	FormatTIFFG4:       "tiff-g4",
	FormatTIFFLZW:      "tiff-lzw",
	FormatTIFFZIP:      "tiff-zip",
	FormatPNM:          "pnm",
	FormatPS:           "ps",
	FormatGIF:          "gif",
	FormatJP2:          "jp2",
	FormatWebP:         "webp",
	FormatLPDF:         "lpdf",
	FormatTIFFJPEG:     "tiff-jpeg",
	FormatDefault:      "default",
	FormatSPIX:         "spix",
}

var formatAliases = map[string]Format{
	"jpg":        FormatJPEG,
	"jfif":       FormatJPEG,
	"tif":        FormatTIFF,
	"pbm":        FormatPNM,
	"pgm":        FormatPNM,
	"ppm":        FormatPNM,
	"postscript": FormatPS,
	"jpeg2000":   FormatJP2,
	"j2k":        FormatJP2,
	"pdf":        FormatLPDF,
}

// Formats returns all supported encodings in numeric order.
func Formats() []Format {
	out := make([]Format, len(formatNames))
	for i := range formatNames {
		out[i] = Format(i)
	}
	return out
}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// Valid reports whether f is one of the 20 known encodings.
func (f Format) Valid() bool {
	return f >= FormatUnknown && f <= FormatSPIX
}

// ParseFormat maps a name such as "png", "tiff-g4" or "jpg" to a Format.
func ParseFormat(name string) (Format, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range formatNames {
		if n == key {
			return Format(i), nil
		}
	}
	if f, ok := formatAliases[key]; ok {
		return f, nil
	}
	return FormatUnknown, fmt.Errorf("unknown image format: %q", name)
}

// FormatFromPath picks a Format from a file extension. Paths without a
// recognized extension map to FormatDefault.
func FormatFromPath(path string) Format {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return FormatDefault
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return FormatDefault
	}
	return f
}
