package leptonica

import "testing"

func TestFormat_NumericValues(t *testing.T) {
	tests := []struct {
		format Format
		want   int
	}{
		{FormatUnknown, 0},
		{FormatBMP, 1},
		{FormatJPEG, 2},
		{FormatPNG, 3},
		{FormatTIFF, 4},
		{FormatTIFFG4, 8},
		{FormatTIFFZIP, 10},
		{FormatPNM, 11},
		{FormatGIF, 13},
		{FormatWebP, 15},
		{FormatTIFFJPEG, 17},
		{FormatDefault, 18},
		{FormatSPIX, 19},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			if int(tt.format) != tt.want {
				t.Errorf("got %d, want %d", int(tt.format), tt.want)
			}
		})
	}

	if n := len(Formats()); n != 20 {
		t.Errorf("Formats(): got %d entries, want 20", n)
	}
}

func TestFormats_OrderAndValidity(t *testing.T) {
	for i, f := range Formats() {
		if int(f) != i {
			t.Errorf("Formats()[%d] = %d", i, int(f))
		}
		if !f.Valid() {
			t.Errorf("%v should be valid", f)
		}
	}

	for _, f := range []Format{-1, 20, 99} {
		if f.Valid() {
			t.Errorf("Format(%d) should be invalid", int(f))
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		name    string
		want    Format
		wantErr bool
	}{
		{"png", FormatPNG, false},
		{"PNG", FormatPNG, false},
		{" jpeg ", FormatJPEG, false},
		{"jpg", FormatJPEG, false},
		{"tif", FormatTIFF, false},
		{"tiff-g4", FormatTIFFG4, false},
		{"webp", FormatWebP, false},
		{"pdf", FormatLPDF, false},
		{"spix", FormatSPIX, false},
		{"default", FormatDefault, false},
		{"heic", FormatUnknown, true},
		{"", FormatUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFormat(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormat_RoundTripsNames(t *testing.T) {
	for _, f := range Formats() {
		got, err := ParseFormat(f.String())
		if err != nil {
			t.Fatalf("ParseFormat(%q): %v", f.String(), err)
		}
		if got != f {
			t.Errorf("ParseFormat(%q) = %v, want %v", f.String(), got, f)
		}
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"/tmp/out.png", FormatPNG},
		{"scan.TIF", FormatTIFF},
		{"photo.jpg", FormatJPEG},
		{"noext", FormatDefault},
		{"weird.xyz", FormatDefault},
	}

	for _, tt := range tests {
		if got := FormatFromPath(tt.path); got != tt.want {
			t.Errorf("FormatFromPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestFormat_StringOutOfRange(t *testing.T) {
	if got := Format(42).String(); got != "Format(42)" {
		t.Errorf("got %q", got)
	}
}
