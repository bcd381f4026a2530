package imaging

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG format decoder (covers RJPG containers)
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/anthonynsimon/bild/effect"
	_ "golang.org/x/image/tiff" // Register TIFF format decoder

	apperrors "github.com/bridgesight/thermascan/internal/errors"
)

// ThermalFrame is a decoded thermal image: a per-pixel temperature surrogate
// grid plus the raw metadata blob captured from the source file.
//
// The grid is row-major with Pix[y*Width+x] holding the value at (x, y).
// Frames are treated as immutable after Load returns.
type ThermalFrame struct {
	Width  int
	Height int

	// Pix holds the temperature surrogate per pixel. For Gray16 sources this
	// is the raw 16-bit value (0-65535); for 8-bit grayscale the pixel value
	// (0-255); for color sources the luminance (0-255).
	Pix []float64

	// Metadata is the raw EXIF APP1 payload from the source JPEG, or nil
	// when the source carried none (or was not a JPEG container). It is an
	// opaque byte blob, re-attached on export without reinterpretation.
	Metadata []byte

	// MetadataUncaptured is true when the source container can carry
	// metadata that the loader does not extract (TIFF IFD tags). Export
	// must report such frames as metadata-unpreserved rather than claim a
	// clean carry.
	MetadataUncaptured bool
}

// At returns the temperature surrogate at (x, y).
func (f *ThermalFrame) At(x, y int) float64 {
	return f.Pix[y*f.Width+x]
}

// supportedExtensions maps recognized input extensions (lower case) to true.
var supportedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".rjpg": true,
	".tif":  true,
	".tiff": true,
}

// SupportedFile reports whether the path has a recognized thermal image
// extension (RJPG, JPEG, or TIFF; case-insensitive).
func SupportedFile(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Load decodes a thermal image file into a ThermalFrame.
//
// Supported containers are RJPG, JPEG, and TIFF. If the file decodes to a
// 16-bit grayscale image (the common radiometric export), the raw 16-bit
// values become the temperature grid. 8-bit grayscale is used directly, and
// color content falls back to its luminance as a temperature proxy.
//
// For JPEG containers the EXIF APP1 payload (camera tags, GPS IFD) is
// captured byte-for-byte into Metadata for later re-attachment. TIFF
// containers can carry EXIF/GPS tags in their IFD that the loader does not
// extract; such frames are flagged MetadataUncaptured so the export never
// reports their metadata as preserved.
//
// All failures (unreadable file, unsupported extension, decode error,
// degenerate dimensions) are reported as load-kind errors.
func Load(path string) (*ThermalFrame, error) {
	if !SupportedFile(path) {
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apperrors.NewLoadError("failed to read file", err)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperrors.NewLoadError("failed to decode image", err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	if width <= 0 || height <= 0 {
		return nil, apperrors.NewLoadError(
			fmt.Sprintf("image decoded to degenerate dimensions %dx%d", width, height), nil)
	}

	frame := &ThermalFrame{
		Width:              width,
		Height:             height,
		Pix:                make([]float64, width*height),
		Metadata:           ExtractJPEGExif(data),
		MetadataUncaptured: format == "tiff",
	}

	switch src := img.(type) {
	case *image.Gray16:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				frame.Pix[y*width+x] = float64(src.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	case *image.Gray:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				frame.Pix[y*width+x] = float64(src.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
			}
		}
	default:
		// Color input: no radiometric channel, use luminance as the proxy.
		gray := effect.Grayscale(img)
		gb := gray.Bounds()
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				frame.Pix[y*width+x] = float64(gray.RGBAAt(gb.Min.X+x, gb.Min.Y+y).R)
			}
		}
	}

	return frame, nil
}

// FrameCache provides thread-safe caching of loaded thermal frames.
//
// The interactive preview runner re-executes the pipeline on every parameter
// change; caching the decoded frame means only the mask-space stages re-run,
// not the disk read and decode. Frames are immutable, so sharing the cached
// instance across runs is safe.
type FrameCache struct {
	mu     sync.RWMutex
	frames map[string]*ThermalFrame
}

// NewFrameCache creates an empty frame cache ready for concurrent use.
func NewFrameCache() *FrameCache {
	return &FrameCache{frames: make(map[string]*ThermalFrame)}
}

// Load retrieves a frame from the cache or loads it from disk if not cached.
// Load failures are not cached; a retry re-reads the file.
func (c *FrameCache) Load(path string) (*ThermalFrame, error) {
	c.mu.RLock()
	if f, ok := c.frames[path]; ok {
		c.mu.RUnlock()
		return f, nil
	}
	c.mu.RUnlock()

	f, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.frames[path] = f
	c.mu.Unlock()

	return f, nil
}

// Evict removes a specific frame from the cache by its path.
func (c *FrameCache) Evict(path string) {
	c.mu.Lock()
	delete(c.frames, path)
	c.mu.Unlock()
}

// Clear removes all cached frames, freeing the associated memory.
func (c *FrameCache) Clear() {
	c.mu.Lock()
	c.frames = make(map[string]*ThermalFrame)
	c.mu.Unlock()
}
