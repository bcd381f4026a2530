package detection

import "fmt"

// Erode returns the binary erosion of the mask by a square structuring
// element of side kernelSize. A pixel survives only if every position the
// kernel covers is set; positions outside the grid count as background, so
// regions touching the border lose their outer rim.
func Erode(mask *Mask, kernelSize int) *Mask {
	radius := kernelSize / 2
	out := NewMask(mask.Width, mask.Height)

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			if mask.Bits[y*mask.Width+x] == 0 {
				continue
			}
			keep := true
			for dy := -radius; dy <= radius && keep; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if mask.At(x+dx, y+dy) == 0 {
						keep = false
						break
					}
				}
			}
			if keep {
				out.Bits[y*mask.Width+x] = 1
			}
		}
	}
	return out
}

// Dilate returns the binary dilation of the mask by a square structuring
// element of side kernelSize. A pixel is set if any position the kernel
// covers is set in the input.
func Dilate(mask *Mask, kernelSize int) *Mask {
	radius := kernelSize / 2
	out := NewMask(mask.Width, mask.Height)

	for y := 0; y < mask.Height; y++ {
		for x := 0; x < mask.Width; x++ {
			hit := false
			for dy := -radius; dy <= radius && !hit; dy++ {
				for dx := -radius; dx <= radius; dx++ {
					if mask.At(x+dx, y+dy) != 0 {
						hit = true
						break
					}
				}
			}
			if hit {
				out.Bits[y*mask.Width+x] = 1
			}
		}
	}
	return out
}

// Open applies iterations erosions followed by the same number of dilations.
// Opening removes isolated noise pixels smaller than the kernel.
func Open(mask *Mask, kernelSize, iterations int) *Mask {
	result := mask
	for i := 0; i < iterations; i++ {
		result = Erode(result, kernelSize)
	}
	for i := 0; i < iterations; i++ {
		result = Dilate(result, kernelSize)
	}
	return result
}

// Close applies iterations dilations followed by the same number of
// erosions. Closing fills small holes inside larger regions.
func Close(mask *Mask, kernelSize, iterations int) *Mask {
	result := mask
	for i := 0; i < iterations; i++ {
		result = Dilate(result, kernelSize)
	}
	for i := 0; i < iterations; i++ {
		result = Erode(result, kernelSize)
	}
	return result
}

// Denoise runs the fixed morphological cleanup sequence: all opening
// iterations first, then all closing iterations. With both iteration counts
// at zero it is the identity and returns the input mask unchanged.
func Denoise(mask *Mask, kernelSize, openingIterations, closingIterations int) (*Mask, error) {
	if err := mask.validate(); err != nil {
		return nil, err
	}
	if kernelSize < 1 || kernelSize%2 == 0 {
		return nil, fmt.Errorf("kernel size %d must be an odd integer >= 1", kernelSize)
	}
	if openingIterations == 0 && closingIterations == 0 {
		return mask, nil
	}

	result := mask
	if openingIterations > 0 {
		result = Open(result, kernelSize, openingIterations)
	}
	if closingIterations > 0 {
		result = Close(result, kernelSize, closingIterations)
	}
	return result, nil
}
