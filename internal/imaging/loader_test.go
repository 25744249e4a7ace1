package imaging

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/leptess/internal/handle"
	"github.com/ironsheep/leptess/internal/leptonica"
)

func init() {
	leptonica.SetQuiet(true)
}

// createTestImage writes a solid width x height PNG into a temp dir and
// returns its path.
func createTestImage(t *testing.T, width, height int, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return savePNG(t, img, "test-image.png")
}

// quadrantImage builds an image with red top-left, green top-right, blue
// bottom-left and white bottom-right quarters.
func quadrantImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue
			} else {
				c = color.RGBA{255, 255, 255, 255} // White
			}
			img.Set(x, y, c)
		}
	}
	return img
}

func savePNG(t *testing.T, img image.Image, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

func TestNewPixCache(t *testing.T) {
	cache := NewPixCache()
	if cache == nil {
		t.Fatal("NewPixCache returned nil")
	}
	if cache.Len() != 0 {
		t.Errorf("new cache should be empty, has %d", cache.Len())
	}
}

func TestPixCache_Load(t *testing.T) {
	path := createTestImage(t, 100, 50, color.RGBA{255, 0, 0, 255})

	cache := NewPixCache()
	defer cache.Clear()

	pix, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer pix.Close()

	if pix.Width() != 100 || pix.Height() != 50 {
		t.Errorf("dimensions: got %dx%d, want 100x50", pix.Width(), pix.Height())
	}

	again, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	defer again.Close()

	if cache.Len() != 1 {
		t.Errorf("cache should hold one entry, has %d", cache.Len())
	}
	if again.Raw() != pix.Raw() {
		t.Error("second Load should share the cached image")
	}
}

func TestPixCache_Load_NonExistent(t *testing.T) {
	cache := NewPixCache()
	_, err := cache.Load("/nonexistent/path/image.png")
	if !leptonica.IsUnavailable(err) {
		t.Errorf("expected an unavailable-resource error, got %v", err)
	}
	if cache.Len() != 0 {
		t.Error("failed loads must not be cached")
	}
}

func TestPixCache_Load_InvalidImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.png")
	if err := os.WriteFile(path, []byte("not an image"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cache := NewPixCache()
	if _, err := cache.Load(path); err == nil {
		t.Error("expected error for invalid image file")
	}
}

func TestPixCache_EvictKeepsClonesAlive(t *testing.T) {
	base := handle.Live()
	path := createTestImage(t, 20, 20, color.White)

	cache := NewPixCache()
	pix, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	cache.Evict(path)
	if cache.Len() != 0 {
		t.Errorf("Evict should remove the entry, %d left", cache.Len())
	}
	if pix.Closed() || pix.Width() != 20 {
		t.Error("clone should outlive eviction")
	}
	pix.Close()

	cache.Evict("/never/loaded.png")

	if handle.Live() != base {
		t.Errorf("live handles: got %d, want %d", handle.Live(), base)
	}
}

func TestPixCache_Clear(t *testing.T) {
	base := handle.Live()
	cache := NewPixCache()

	for i := 0; i < 3; i++ {
		path := createTestImage(t, 10+i, 10, color.Black)
		pix, err := cache.Load(path)
		if err != nil {
			t.Fatalf("Load failed: %v", err)
		}
		pix.Close()
	}
	if cache.Len() != 3 {
		t.Fatalf("cache should hold 3 entries, has %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Clear left %d entries", cache.Len())
	}
	if handle.Live() != base {
		t.Errorf("live handles: got %d, want %d", handle.Live(), base)
	}
}

func TestPixCache_ConcurrentAccess(t *testing.T) {
	path := createTestImage(t, 50, 50, color.RGBA{0, 0, 255, 255})

	cache := NewPixCache()
	defer cache.Clear()

	var wg sync.WaitGroup
	errs := make(chan error, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pix, err := cache.Load(path)
			if err != nil {
				errs <- err
				return
			}
			pix.Close()
		}()
	}

	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("concurrent Load failed: %v", err)
	}
	if cache.Len() != 1 {
		t.Errorf("cache should hold one entry, has %d", cache.Len())
	}
}

func TestLoadImageInfo(t *testing.T) {
	path := createTestImage(t, 200, 150, color.RGBA{255, 255, 255, 255})

	cache := NewPixCache()
	defer cache.Clear()

	info, err := LoadImageInfo(cache, path)
	if err != nil {
		t.Fatalf("LoadImageInfo failed: %v", err)
	}

	if info.Width != 200 || info.Height != 150 {
		t.Errorf("dimensions: got %dx%d, want 200x150", info.Width, info.Height)
	}
	if info.Format != "png" {
		t.Errorf("Format: got %s, want png", info.Format)
	}
	if info.Depth == 0 {
		t.Error("Depth should be non-zero")
	}
	if info.FileSizeBytes <= 0 {
		t.Error("FileSizeBytes should be positive")
	}
}

func TestLoadImageInfo_FormatDetection(t *testing.T) {
	img := quadrantImage(16, 16)
	src, err := FromImage(img)
	if err != nil {
		t.Fatalf("FromImage: %v", err)
	}
	defer src.Close()

	tests := []struct {
		name   string
		format leptonica.Format
		want   string
	}{
		{"scan.bmp", leptonica.FormatBMP, "bmp"},
		{"scan.tif", leptonica.FormatTIFF, "tiff"},
		{"scan.pnm", leptonica.FormatPNM, "pnm"},
		{"scan.data", leptonica.FormatPNG, "unknown"},
	}

	cache := NewPixCache()
	defer cache.Clear()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), tt.name)
			if err := src.Write(path, tt.format); err != nil {
				t.Fatalf("Write: %v", err)
			}
			info, err := LoadImageInfo(cache, path)
			if err != nil {
				t.Fatalf("LoadImageInfo: %v", err)
			}
			if info.Format != tt.want {
				t.Errorf("Format: got %s, want %s", info.Format, tt.want)
			}
		})
	}
}

func TestLoadImageInfo_NonExistent(t *testing.T) {
	cache := NewPixCache()
	if _, err := LoadImageInfo(cache, "/nonexistent/image.png"); err == nil {
		t.Error("expected error for non-existent file")
	}
}
