package detection

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ThresholdResult describes a computed percentile cut.
type ThresholdResult struct {
	// Cutoff is the intensity value at the requested percentile.
	Cutoff float64 `json:"cutoff"`

	// Percentile is the requested percentile (0-100).
	Percentile float64 `json:"percentile"`

	// SetPixels is the number of pixels at or above the cutoff.
	SetPixels int `json:"set_pixels"`
}

// Threshold computes the p-th percentile of the intensity grid and returns a
// binary mask marking every pixel whose intensity is greater than or equal to
// the cutoff.
//
// Parameters:
//   - grid: Row-major normalized intensity values, len = width*height.
//   - width, height: Grid dimensions.
//   - percentile: Percentile in [0, 100]. 97 marks roughly the hottest 3%.
//
// The percentile is computed with linear interpolation between order
// statistics (gonum's stat.Quantile with stat.LinInterp over the sorted
// pixel values). The interpolation rule is fixed so identical input and
// percentile always produce a bit-identical cutoff and mask.
//
// A pixel is set iff its value is >= the cutoff AND above the grid minimum.
// The second condition keeps largely uniform frames sane: when most of the
// frame shares one cold background value, the interpolated cutoff lands on
// that value and a bare >= comparison would mark the entire frame as hot.
// Pixels at the global minimum are never hotspots; a flat (zero variance)
// frame therefore yields an empty mask rather than a full one.
//
// Raising the percentile can never increase the number of set pixels: a
// higher percentile yields an equal or higher cutoff, and the minimum
// exclusion does not depend on the percentile.
func Threshold(grid []float64, width, height int, percentile float64) (*Mask, *ThresholdResult, error) {
	if width <= 0 || height <= 0 {
		return nil, nil, fmt.Errorf("degenerate grid dimensions %dx%d", width, height)
	}
	if len(grid) != width*height {
		return nil, nil, fmt.Errorf("grid length %d does not match %dx%d", len(grid), width, height)
	}
	if percentile < 0 || percentile > 100 {
		return nil, nil, fmt.Errorf("percentile %.2f out of range [0, 100]", percentile)
	}

	sorted := make([]float64, len(grid))
	copy(sorted, grid)
	sort.Float64s(sorted)

	cutoff := stat.Quantile(percentile/100, stat.LinInterp, sorted, nil)
	minimum := sorted[0]

	mask := NewMask(width, height)
	set := 0
	for i, v := range grid {
		if v >= cutoff && v > minimum {
			mask.Bits[i] = 1
			set++
		}
	}

	return mask, &ThresholdResult{
		Cutoff:     cutoff,
		Percentile: percentile,
		SetPixels:  set,
	}, nil
}
