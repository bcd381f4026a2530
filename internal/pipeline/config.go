package pipeline

import (
	"fmt"

	apperrors "github.com/bridgesight/thermascan/internal/errors"
)

// Config holds the parameters controlling the thermal pipeline. It is an
// immutable value: construct one, validate it, pass it by value. There is no
// process-wide mutable configuration.
type Config struct {
	// Percentile is the hotspot cut: pixels at or above this percentile of
	// the normalized intensity distribution become mask candidates. Range
	// [0, 100].
	Percentile float64 `json:"percentile"`

	// MinClusterSize is the minimum surviving cluster area in pixels.
	MinClusterSize int `json:"min_cluster_size"`

	// OpeningIterations is the number of morphological noise-removal passes.
	OpeningIterations int `json:"opening_iterations"`

	// ClosingIterations is the number of morphological hole-filling passes.
	ClosingIterations int `json:"closing_iterations"`

	// KernelSize is the side length of the square structuring element.
	// Must be an odd integer >= 1.
	KernelSize int `json:"kernel_size"`
}

// DefaultConfig returns the standard scan parameters.
func DefaultConfig() Config {
	return Config{
		Percentile:        97,
		MinClusterSize:    45,
		OpeningIterations: 1,
		ClosingIterations: 1,
		KernelSize:        3,
	}
}

// Validate checks every field against its allowed range. It returns a
// config-kind error naming the first offending field. Validation runs once,
// before any file is processed; a batch never starts with a bad Config.
func (c Config) Validate() error {
	if c.Percentile < 0 || c.Percentile > 100 {
		return apperrors.NewConfigError(
			fmt.Sprintf("percentile %.2f out of range [0, 100]", c.Percentile))
	}
	if c.MinClusterSize < 1 {
		return apperrors.NewConfigError(
			fmt.Sprintf("min cluster size %d must be >= 1", c.MinClusterSize))
	}
	if c.OpeningIterations < 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("opening iterations %d must be >= 0", c.OpeningIterations))
	}
	if c.ClosingIterations < 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("closing iterations %d must be >= 0", c.ClosingIterations))
	}
	if c.KernelSize < 1 || c.KernelSize%2 == 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("kernel size %d must be an odd integer >= 1", c.KernelSize))
	}
	return nil
}

// Clamped returns a copy with every field forced into the practical ranges
// used by interactive front ends: percentile [50, 100], cluster size
// [1, 10000], iterations [0, 5], kernel size [3, 9] forced odd. Sliders
// clamp; batch drivers validate and refuse instead.
func (c Config) Clamped() Config {
	c.Percentile = clampFloat(c.Percentile, 50, 100)
	c.MinClusterSize = clampInt(c.MinClusterSize, 1, 10000)
	c.OpeningIterations = clampInt(c.OpeningIterations, 0, 5)
	c.ClosingIterations = clampInt(c.ClosingIterations, 0, 5)
	c.KernelSize = clampInt(c.KernelSize, 3, 9)/2*2 + 1
	return c
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
