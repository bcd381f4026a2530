package imaging

import (
	"fmt"
	"math"
)

// NormalizedMax is the upper bound of the normalized intensity scale.
const NormalizedMax = 255.0

// Normalize maps the frame's temperature surrogate grid linearly onto
// [0, 255]:
//
//	normalized = (v - min) / (max - min) * 255
//
// The curve is fixed and monotonic: hotter input never maps below colder
// input. A flat frame (zero variance) normalizes to all zeros rather than
// dividing by zero.
//
// Non-finite values in the grid are rejected; decoded image data can never
// contain them, so their presence means a corrupted frame.
func Normalize(frame *ThermalFrame) ([]float64, error) {
	if len(frame.Pix) != frame.Width*frame.Height {
		return nil, fmt.Errorf("frame grid length %d does not match %dx%d",
			len(frame.Pix), frame.Width, frame.Height)
	}

	minV := math.Inf(1)
	maxV := math.Inf(-1)
	for _, v := range frame.Pix {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("frame contains non-finite temperature value")
		}
		if v < minV {
			minV = v
		}
		if v > maxV {
			maxV = v
		}
	}

	out := make([]float64, len(frame.Pix))
	span := maxV - minV
	if span == 0 {
		return out, nil
	}

	for i, v := range frame.Pix {
		out[i] = (v - minV) / span * NormalizedMax
	}
	return out, nil
}
