package imaging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ironsheep/leptess/internal/leptonica"
)

// PixCache provides thread-safe caching of decoded images to avoid redundant
// disk reads and decodes.
//
// The cache owns one Leptonica reference per entry. Load never hands that
// reference out; it returns a clone that the caller must Close. Evicting or
// clearing an entry closes the cache's reference, and the pixel data is freed
// once every outstanding clone is closed as well.
//
// # Example Usage
//
//	cache := imaging.NewPixCache()
//	defer cache.Clear()
//	pix, err := cache.Load("/path/to/scan.tif")
//	if err != nil {
//	    return err
//	}
//	defer pix.Close()
type PixCache struct {
	mu     sync.RWMutex
	images map[string]*leptonica.Pix
}

// NewPixCache creates an empty cache, ready for concurrent use.
func NewPixCache() *PixCache {
	return &PixCache{
		images: make(map[string]*leptonica.Pix),
	}
}

// Load returns a clone of the cached image for path, decoding and caching it
// first if needed. Formats Leptonica cannot read (WebP without libwebp, GIF
// without giflib) are decoded in Go and converted.
//
// The image is cached under the exact path string provided. Different paths
// to the same file (relative vs absolute) are separate entries.
func (c *PixCache) Load(path string) (*leptonica.Pix, error) {
	c.mu.RLock()
	if pix, ok := c.images[path]; ok {
		clone := pix.Clone()
		c.mu.RUnlock()
		return clone, nil
	}
	c.mu.RUnlock()

	pix, err := ReadPix(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.images[path]; ok {
		// Another goroutine won the race.
		pix.Close()
		return existing.Clone(), nil
	}
	c.images[path] = pix
	return pix.Clone(), nil
}

// Len returns the number of cached images.
func (c *PixCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// Clear closes and removes every cached image.
func (c *PixCache) Clear() {
	c.mu.Lock()
	for _, pix := range c.images {
		pix.Close()
	}
	c.images = make(map[string]*leptonica.Pix)
	c.mu.Unlock()
}

// Evict closes and removes the image cached for path. Unknown paths are
// ignored.
func (c *PixCache) Evict(path string) {
	c.mu.Lock()
	if pix, ok := c.images[path]; ok {
		pix.Close()
		delete(c.images, path)
	}
	c.mu.Unlock()
}

// ImageInfo contains metadata about a loaded image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Depth is the Leptonica pixel depth in bits: 1, 2, 4, 8, 16 or 32.
	Depth int `json:"depth"`

	// Format is the encoding inferred from the file extension, e.g. "png"
	// or "tiff-g4". Unrecognized extensions report "unknown".
	Format string `json:"format"`

	// XRes and YRes are the recorded resolution in pixels per inch, 0 when
	// the file carries none.
	XRes int `json:"x_res"`
	YRes int `json:"y_res"`

	// FileSizeBytes is the size of the image file on disk in bytes.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through cache and reports its metadata.
func LoadImageInfo(cache *PixCache, path string) (*ImageInfo, error) {
	pix, err := cache.Load(path)
	if err != nil {
		return nil, err
	}
	defer pix.Close()

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	format := "unknown"
	if ext := strings.TrimPrefix(filepath.Ext(path), "."); ext != "" {
		if f, err := leptonica.ParseFormat(ext); err == nil {
			format = f.String()
		}
	}

	xres, yres := pix.Resolution()
	return &ImageInfo{
		Width:         pix.Width(),
		Height:        pix.Height(),
		Depth:         pix.Depth(),
		Format:        format,
		XRes:          xres,
		YRes:          yres,
		FileSizeBytes: stat.Size(),
	}, nil
}
