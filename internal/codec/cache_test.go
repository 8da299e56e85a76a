package codec

import (
	"math"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ironsheep/raster-tools/internal/raster"
)

func writeTestImage(t *testing.T, name string, img *raster.Image) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if _, err := WriteFile(path, img, FormatUnknown, nil); err != nil {
		t.Fatalf("WriteFile(%s): %v", name, err)
	}
	return path
}

func TestCache_LoadReturnsClones(t *testing.T) {
	path := writeTestImage(t, "gray.png", raster.NewFilled(3, 2, raster.Gray(0.4)))
	cache := NewCache()

	first, f, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if f != FormatPNG {
		t.Errorf("format: got %v, want png", f)
	}
	if cache.Len() != 1 {
		t.Errorf("Len: got %d, want 1", cache.Len())
	}

	first.SetPixel(0, 0, raster.RGBA(1, 0, 0, 1))

	second, _, err := cache.Load(path)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if first.Pixel(0, 0) == second.Pixel(0, 0) {
		t.Error("mutating a loaded image reached the cache")
	}
	if cache.Len() != 1 {
		t.Errorf("Len after reload: got %d, want 1", cache.Len())
	}
}

func TestCache_EvictAndClear(t *testing.T) {
	a := writeTestImage(t, "a.ppm", raster.NewFilled(1, 1, raster.Gray(1)))
	b := writeTestImage(t, "b.ppm", raster.NewFilled(1, 1, raster.Gray(0)))
	cache := NewCache()

	for _, p := range []string{a, b} {
		if _, _, err := cache.Load(p); err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
	}
	if cache.Len() != 2 {
		t.Fatalf("Len: got %d, want 2", cache.Len())
	}

	cache.Evict(a)
	if cache.Len() != 1 {
		t.Errorf("Len after Evict: got %d, want 1", cache.Len())
	}
	cache.Evict("/not/cached")
	if cache.Len() != 1 {
		t.Errorf("Len after evicting unknown path: got %d, want 1", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len after Clear: got %d, want 0", cache.Len())
	}
}

func TestCache_LoadError(t *testing.T) {
	cache := NewCache()
	if _, _, err := cache.Load(filepath.Join(t.TempDir(), "missing.bmp")); err == nil {
		t.Error("loading a missing file should fail")
	}
	if cache.Len() != 0 {
		t.Errorf("failed loads should not be cached, Len = %d", cache.Len())
	}
}

func TestCache_ConcurrentLoad(t *testing.T) {
	path := writeTestImage(t, "shared.txt", raster.NewFilled(4, 4, raster.Gray(0.25)))
	cache := NewCache()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, _, err := cache.Load(path)
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			img.Brighten(2)
		}()
	}
	wg.Wait()

	img, _, err := cache.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := img.Pixel(3, 3); got != raster.Gray(0.25) {
		t.Errorf("cached pixel changed: got %v", got)
	}
}

func TestLoadImageInfo(t *testing.T) {
	img := raster.NewFilled(5, 3, raster.Gray(1))
	img.SetPixel(2, 1, raster.RGBA(1, 1, 1, 0.5))
	path := writeTestImage(t, "info.png", img)

	info, err := LoadImageInfo(NewCache(), path)
	if err != nil {
		t.Fatalf("LoadImageInfo: %v", err)
	}
	if info.Width != 5 || info.Height != 3 {
		t.Errorf("size: got %dx%d, want 5x3", info.Width, info.Height)
	}
	if info.Format != FormatPNG {
		t.Errorf("format: got %v, want png", info.Format)
	}
	if !info.HasAlpha {
		t.Error("HasAlpha should be true")
	}
	if math.Abs(info.MeanLuminance-1) > 1e-9 {
		t.Errorf("MeanLuminance: got %v, want 1", info.MeanLuminance)
	}
	if info.FileSizeBytes <= 0 {
		t.Errorf("FileSizeBytes: got %d", info.FileSizeBytes)
	}

	opaque := writeTestImage(t, "opaque.ppm", raster.NewFilled(2, 2, raster.Gray(0)))
	info, err = LoadImageInfo(NewCache(), opaque)
	if err != nil {
		t.Fatalf("LoadImageInfo: %v", err)
	}
	if info.HasAlpha {
		t.Error("HasAlpha should be false for an opaque ppm")
	}
	if info.Format != FormatPPM {
		t.Errorf("format: got %v, want ppm", info.Format)
	}
	if info.MeanLuminance != 0 {
		t.Errorf("MeanLuminance: got %v, want 0", info.MeanLuminance)
	}
}
