package ocr

import (
	"slices"

	"github.com/otiai10/gosseract/v2"

	"github.com/ironsheep/leptess/internal/leptonica"
	"github.com/ironsheep/leptess/internal/tesseract"
)

// OCRInfo contains information about the OCR subsystem.
type OCRInfo struct {
	Available        bool   `json:"available"`
	Version          string `json:"version,omitempty"`
	LeptonicaVersion string `json:"leptonica_version,omitempty"`
	Languages        string `json:"languages,omitempty"`
	Error            string `json:"error,omitempty"`
	Backend          string `json:"backend"`
	TessdataPath     string `json:"tessdata_path,omitempty"`

	// InstalledLanguages lists the traineddata files in the library's
	// default tessdata directory.
	InstalledLanguages []string `json:"installed_languages,omitempty"`
}

const backend = "libtesseract (cgo)"

// GetOCRInfo reports whether an engine can be initialized with opts and which
// libraries and languages are in use.
func GetOCRInfo(opts Options) OCRInfo {
	info := OCRInfo{
		Version:          tesseract.Version(),
		LeptonicaVersion: leptonica.Version(),
		Backend:          backend,
		TessdataPath:     opts.Datapath,
	}
	if opts.Datapath == "" {
		if langs, err := gosseract.GetAvailableLanguages(); err == nil {
			slices.Sort(langs)
			info.InstalledLanguages = langs
		}
	}

	engine, err := NewEngine(opts)
	if err != nil {
		info.Error = err.Error()
		return info
	}
	defer engine.Close()

	langs, err := engine.Languages()
	if err != nil {
		info.Error = err.Error()
		return info
	}
	info.Available = true
	info.Languages = langs
	return info
}
