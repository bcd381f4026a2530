package detection

import "fmt"

// Mask is a binary grid aligned with a thermal frame. A value of 1 marks a
// candidate hotspot pixel.
type Mask struct {
	Width  int
	Height int
	Bits   []uint8 // row-major, len = Width*Height, values 0 or 1
}

// NewMask creates an all-zero mask with the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Bits:   make([]uint8, width*height),
	}
}

// At returns the mask value at (x, y). Coordinates outside the grid read as
// background (0), matching the morphology border rule.
func (m *Mask) At(x, y int) uint8 {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return 0
	}
	return m.Bits[y*m.Width+x]
}

// Set sets the mask value at (x, y). Out-of-range coordinates are ignored.
func (m *Mask) Set(x, y int, v uint8) {
	if x < 0 || x >= m.Width || y < 0 || y >= m.Height {
		return
	}
	m.Bits[y*m.Width+x] = v
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the mask.
func (m *Mask) Clone() *Mask {
	c := &Mask{Width: m.Width, Height: m.Height, Bits: make([]uint8, len(m.Bits))}
	copy(c.Bits, m.Bits)
	return c
}

// Equal reports whether two masks have identical dimensions and bits.
func (m *Mask) Equal(other *Mask) bool {
	if m.Width != other.Width || m.Height != other.Height {
		return false
	}
	for i, b := range m.Bits {
		if b != other.Bits[i] {
			return false
		}
	}
	return true
}

func (m *Mask) validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("mask has degenerate dimensions %dx%d", m.Width, m.Height)
	}
	if len(m.Bits) != m.Width*m.Height {
		return fmt.Errorf("mask bits length %d does not match %dx%d", len(m.Bits), m.Width, m.Height)
	}
	return nil
}
