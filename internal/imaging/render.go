package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/bridgesight/thermascan/internal/detection"
)

// highlightBlend is the fixed blend factor for hotspot pixels: the overlay
// color is 60% highlight red, 40% base rendering.
const highlightBlend = 0.6

// highlightColor is the fixed hotspot highlight (pure red).
var highlightColor = color.NRGBA{R: 255, A: 255}

// paletteAnchor pins a color to a position on the normalized scale.
type paletteAnchor struct {
	pos   float64
	color colorful.Color
}

// paletteAnchors define the blue-to-red false-color ramp: cold pixels render
// dark blue through azure and cyan, warm pixels yellow to red.
var paletteAnchors = []paletteAnchor{
	{0.00, colorful.Color{R: 0, G: 0, B: 0.25}},
	{0.25, colorful.Color{R: 0, G: 0.5, B: 1}},
	{0.50, colorful.Color{R: 0, G: 1, B: 1}},
	{0.75, colorful.Color{R: 1, G: 1, B: 0}},
	{1.00, colorful.Color{R: 1, G: 0, B: 0}},
}

// falseColorPalette is the 256-entry ramp, built once at startup by linear
// RGB blending between the anchors.
var falseColorPalette = buildPalette()

func buildPalette() [256]color.NRGBA {
	var palette [256]color.NRGBA
	for i := range palette {
		t := float64(i) / 255
		for j := 0; j < len(paletteAnchors)-1; j++ {
			lo, hi := paletteAnchors[j], paletteAnchors[j+1]
			if t < lo.pos || t > hi.pos {
				continue
			}
			local := 0.0
			if hi.pos > lo.pos {
				local = (t - lo.pos) / (hi.pos - lo.pos)
			}
			r, g, b := lo.color.BlendRgb(hi.color, local).RGB255()
			palette[i] = color.NRGBA{R: r, G: g, B: b, A: 255}
			break
		}
	}
	return palette
}

// RenderOverlay builds the annotated output image: the normalized grid
// rendered through the false-color palette, with every pixel of a surviving
// cluster blended toward the highlight red.
//
// Rendering is a pure function of the normalized grid and the cluster list;
// it never consults raw temperatures. The output dimensions equal the frame
// dimensions exactly.
func RenderOverlay(normalized []float64, width, height int, clusters []detection.Cluster) (*image.NRGBA, error) {
	if len(normalized) != width*height {
		return nil, fmt.Errorf("normalized grid length %d does not match %dx%d",
			len(normalized), width, height)
	}

	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, falseColorPalette[paletteIndex(normalized[y*width+x])])
		}
	}

	for _, c := range clusters {
		for _, p := range c.Pixels {
			if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
				return nil, fmt.Errorf("cluster %d pixel (%d, %d) outside %dx%d frame",
					c.ID, p.X, p.Y, width, height)
			}
			base := img.NRGBAAt(p.X, p.Y)
			img.SetNRGBA(p.X, p.Y, blendHighlight(base))
		}
	}

	return img, nil
}

// paletteIndex clamps and rounds a normalized value to a palette entry.
func paletteIndex(v float64) int {
	i := int(math.Round(v))
	if i < 0 {
		return 0
	}
	if i > 255 {
		return 255
	}
	return i
}

// blendHighlight mixes the base color toward the highlight red with the
// fixed blend factor, rounding once per channel.
func blendHighlight(base color.NRGBA) color.NRGBA {
	mix := func(b, h uint8) uint8 {
		return uint8(math.Round(float64(b)*(1-highlightBlend) + float64(h)*highlightBlend))
	}
	return color.NRGBA{
		R: mix(base.R, highlightColor.R),
		G: mix(base.G, highlightColor.G),
		B: mix(base.B, highlightColor.B),
		A: 255,
	}
}
