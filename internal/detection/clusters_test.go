package detection

import "testing"

func TestLabel_EmptyMask(t *testing.T) {
	clusters := Label(NewMask(20, 20))
	if clusters == nil {
		t.Fatal("expected empty slice, got nil")
	}
	if len(clusters) != 0 {
		t.Errorf("got %d clusters, want 0", len(clusters))
	}
}

func TestLabel_SingleBlock(t *testing.T) {
	mask := maskFromRows(
		"000000",
		"011100",
		"011100",
		"011100",
		"000000",
	)

	clusters := Label(mask)
	if len(clusters) != 1 {
		t.Fatalf("got %d clusters, want 1", len(clusters))
	}

	c := clusters[0]
	if c.ID != 1 {
		t.Errorf("ID: got %d, want 1", c.ID)
	}
	if c.Area != 9 {
		t.Errorf("Area: got %d, want 9", c.Area)
	}
	if len(c.Pixels) != c.Area {
		t.Errorf("Area %d does not equal pixel count %d", c.Area, len(c.Pixels))
	}
	want := Bounds{X1: 1, Y1: 1, X2: 3, Y2: 3}
	if c.Bounds != want {
		t.Errorf("Bounds: got %+v, want %+v", c.Bounds, want)
	}
}

func TestLabel_DiagonalIsConnected(t *testing.T) {
	// 8-connectivity joins diagonal neighbors into one cluster.
	mask := maskFromRows(
		"100",
		"010",
		"001",
	)

	clusters := Label(mask)
	if len(clusters) != 1 {
		t.Errorf("diagonal chain: got %d clusters, want 1", len(clusters))
	}
}

func TestLabel_SeparateComponents(t *testing.T) {
	mask := maskFromRows(
		"1100011",
		"1100011",
		"0000000",
		"0011000",
	)

	clusters := Label(mask)
	if len(clusters) != 3 {
		t.Fatalf("got %d clusters, want 3", len(clusters))
	}

	// Discovery order is raster scan: top-left block, top-right block,
	// bottom block.
	if clusters[0].Bounds.X1 != 0 || clusters[0].Bounds.Y1 != 0 {
		t.Errorf("first cluster should start at origin, got %+v", clusters[0].Bounds)
	}
	if clusters[1].Bounds.X1 != 5 {
		t.Errorf("second cluster should be the top-right block, got %+v", clusters[1].Bounds)
	}
	if clusters[2].Bounds.Y1 != 3 {
		t.Errorf("third cluster should be the bottom block, got %+v", clusters[2].Bounds)
	}

	for i, c := range clusters {
		if c.ID != i+1 {
			t.Errorf("cluster %d: ID %d, want %d", i, c.ID, i+1)
		}
	}
}

func TestLabel_Deterministic(t *testing.T) {
	mask := maskFromRows(
		"1010101",
		"0110010",
		"1001101",
		"0111010",
	)

	a := Label(mask)
	b := Label(mask)

	if len(a) != len(b) {
		t.Fatalf("cluster counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Area != b[i].Area || a[i].Bounds != b[i].Bounds {
			t.Errorf("cluster %d differs between runs", i)
		}
		for j := range a[i].Pixels {
			if a[i].Pixels[j] != b[i].Pixels[j] {
				t.Fatalf("cluster %d pixel %d differs between runs", i, j)
			}
		}
	}
}

func TestFilterClusters(t *testing.T) {
	mask := maskFromRows(
		"110000",
		"110000",
		"000000",
		"001100",
	)

	clusters := Label(mask)

	tests := []struct {
		name      string
		minSize   int
		wantCount int
	}{
		{"keep all", 1, 2},
		{"drop small", 3, 1},
		{"drop all", 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterClusters(clusters, tt.minSize)
			if len(got) != tt.wantCount {
				t.Fatalf("got %d clusters, want %d", len(got), tt.wantCount)
			}
			for i, c := range got {
				if c.Area < tt.minSize {
					t.Errorf("surviving cluster has area %d < min %d", c.Area, tt.minSize)
				}
				if c.ID != i+1 {
					t.Errorf("survivor %d not renumbered: ID %d", i, c.ID)
				}
			}
		})
	}
}

func TestClusterMask_SubsetOfSource(t *testing.T) {
	mask := maskFromRows(
		"1100010",
		"1100010",
		"0000000",
		"0111110",
	)

	clusters := FilterClusters(Label(mask), 4)
	rebuilt := ClusterMask(clusters, mask.Width, mask.Height)

	total := 0
	for i := range rebuilt.Bits {
		if rebuilt.Bits[i] == 1 {
			total++
			if mask.Bits[i] != 1 {
				t.Fatalf("rebuilt mask sets pixel %d absent from source", i)
			}
		}
	}

	wantTotal := 0
	for _, c := range clusters {
		wantTotal += c.Area
	}
	if total != wantTotal {
		t.Errorf("rebuilt mask has %d pixels, cluster areas sum to %d", total, wantTotal)
	}
}
