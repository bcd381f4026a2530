package imaging

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/bridgesight/thermascan/internal/detection"
)

func TestRenderOverlay_Dimensions(t *testing.T) {
	normalized := make([]float64, 40*30)

	img, err := RenderOverlay(normalized, 40, 30, nil)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}
	if img.Bounds().Dx() != 40 || img.Bounds().Dy() != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", img.Bounds().Dx(), img.Bounds().Dy())
	}
}

func TestRenderOverlay_PaletteEndpoints(t *testing.T) {
	// One cold pixel, one hot pixel.
	normalized := []float64{0, 255}

	img, err := RenderOverlay(normalized, 2, 1, nil)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	cold := img.NRGBAAt(0, 0)
	if cold.R != 0 || cold.G != 0 || cold.B == 0 {
		t.Errorf("cold pixel should be dark blue, got %+v", cold)
	}

	hot := img.NRGBAAt(1, 0)
	if hot.R != 255 || hot.G != 0 || hot.B != 0 {
		t.Errorf("hot pixel should be pure red, got %+v", hot)
	}
}

func TestRenderOverlay_HighlightsClusterPixels(t *testing.T) {
	normalized := make([]float64, 10*10)

	clusters := []detection.Cluster{{
		ID:     1,
		Area:   2,
		Bounds: detection.Bounds{X1: 3, Y1: 4, X2: 4, Y2: 4},
		Pixels: []detection.Point{{X: 3, Y: 4}, {X: 4, Y: 4}},
	}}

	img, err := RenderOverlay(normalized, 10, 10, clusters)
	if err != nil {
		t.Fatalf("RenderOverlay failed: %v", err)
	}

	plain := img.NRGBAAt(0, 0)
	marked := img.NRGBAAt(3, 4)

	if marked == plain {
		t.Error("cluster pixel rendered identically to background")
	}
	if marked.R <= plain.R {
		t.Errorf("cluster pixel not pushed toward red: base R=%d, marked R=%d", plain.R, marked.R)
	}

	// Non-cluster pixels keep the base rendering.
	if img.NRGBAAt(5, 5) != plain {
		t.Error("non-cluster pixel deviates from base rendering")
	}
}

func TestRenderOverlay_Deterministic(t *testing.T) {
	normalized := make([]float64, 20*20)
	for i := range normalized {
		normalized[i] = float64(i % 256)
	}
	clusters := []detection.Cluster{{
		ID:     1,
		Area:   1,
		Bounds: detection.Bounds{X1: 7, Y1: 7, X2: 7, Y2: 7},
		Pixels: []detection.Point{{X: 7, Y: 7}},
	}}

	encode := func() []byte {
		img, err := RenderOverlay(normalized, 20, 20, clusters)
		if err != nil {
			t.Fatalf("RenderOverlay failed: %v", err)
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			t.Fatalf("png encode failed: %v", err)
		}
		return buf.Bytes()
	}

	if !bytes.Equal(encode(), encode()) {
		t.Error("two renders of identical input produced different bytes")
	}
}

func TestRenderOverlay_RejectsOutOfBoundsCluster(t *testing.T) {
	normalized := make([]float64, 5*5)
	clusters := []detection.Cluster{{
		ID:     1,
		Area:   1,
		Pixels: []detection.Point{{X: 9, Y: 9}},
	}}

	if _, err := RenderOverlay(normalized, 5, 5, clusters); err == nil {
		t.Error("expected error for cluster pixel outside the frame")
	}
}

func TestRenderOverlay_RejectsMismatchedGrid(t *testing.T) {
	if _, err := RenderOverlay(make([]float64, 10), 5, 5, nil); err == nil {
		t.Error("expected error for grid length mismatch")
	}
}
