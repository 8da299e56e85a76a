package codec

import (
	"fmt"
	"os"
	"sync"

	"github.com/ironsheep/raster-tools/internal/raster"
)

// Cache keeps decoded images keyed by file path so repeated requests for the
// same file skip disk I/O and decoding.
//
// Load hands out clones, so callers may mutate what they receive without
// affecting the cached copy or each other.
//
// Cache is safe for concurrent use by multiple goroutines.
//
// # Memory Management
//
// Cached images remain in memory until Evict or Clear is called. Long-running
// processes handling many files should evict what they no longer need.
type Cache struct {
	mu     sync.RWMutex
	images map[string]cacheEntry
}

type cacheEntry struct {
	img    *raster.Image
	format Format
}

// NewCache creates an empty cache.
func NewCache() *Cache {
	return &Cache{
		images: make(map[string]cacheEntry),
	}
}

// Load returns a private copy of the image at path, decoding it on first use.
//
// Returns:
//   - *raster.Image: a clone owned by the caller.
//   - Format: the format detected from the file content.
//   - error: non-nil if the file cannot be read or decoded.
//
// The path string is the cache key; different spellings of the same file are
// cached separately.
func (c *Cache) Load(path string) (*raster.Image, Format, error) {
	c.mu.RLock()
	e, ok := c.images[path]
	c.mu.RUnlock()
	if ok {
		return e.img.Clone(), e.format, nil
	}

	img, f, err := ReadFile(path)
	if err != nil {
		return nil, f, err
	}

	c.mu.Lock()
	c.images[path] = cacheEntry{img: img, format: f}
	c.mu.Unlock()

	return img.Clone(), f, nil
}

// Clear removes all images from the cache.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.images = make(map[string]cacheEntry)
	c.mu.Unlock()
}

// Evict removes the image cached for path, if any. The next Load re-reads
// the file.
func (c *Cache) Evict(path string) {
	c.mu.Lock()
	delete(c.images, path)
	c.mu.Unlock()
}

// Len returns the number of cached images.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.images)
}

// ImageInfo contains metadata about an image file.
type ImageInfo struct {
	// Width is the image width in pixels.
	Width int `json:"width"`

	// Height is the image height in pixels.
	Height int `json:"height"`

	// Format is detected from the file content, not its extension.
	Format Format `json:"format"`

	// HasAlpha reports whether any pixel is less than fully opaque.
	HasAlpha bool `json:"has_alpha"`

	// MeanLuminance is the average luminance over all pixels, 0-1.
	MeanLuminance float64 `json:"mean_luminance"`

	// FileSizeBytes is the size of the file on disk.
	FileSizeBytes int64 `json:"file_size_bytes"`
}

// LoadImageInfo loads an image through the cache and describes it.
func LoadImageInfo(cache *Cache, path string) (*ImageInfo, error) {
	img, f, err := cache.Load(path)
	if err != nil {
		return nil, err
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}

	hasAlpha := false
	for _, p := range img.Pixels() {
		if p.A < 1 {
			hasAlpha = true
			break
		}
	}

	return &ImageInfo{
		Width:         img.Width(),
		Height:        img.Height(),
		Format:        f,
		HasAlpha:      hasAlpha,
		MeanLuminance: img.MeanLuminance(),
		FileSizeBytes: stat.Size(),
	}, nil
}
