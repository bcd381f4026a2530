package detection

// Point represents a 2D coordinate in pixel space.
type Point struct {
	X int `json:"x"` // Horizontal position (0 = leftmost)
	Y int `json:"y"` // Vertical position (0 = topmost)
}

// Bounds represents a rectangular bounding box in pixel coordinates.
// Both corners are inclusive.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

// Cluster is a maximal 8-connected component of set mask pixels, a candidate
// delamination region.
type Cluster struct {
	// ID numbers clusters from 1 in discovery order.
	ID int `json:"id"`

	// Area is the number of pixels in the cluster. It always equals
	// len(Pixels).
	Area int `json:"area"`

	// Bounds is the inclusive bounding box of the cluster.
	Bounds Bounds `json:"bounds"`

	// Pixels lists every member pixel. Pixels are unique and appear in the
	// order the flood fill visited them, starting from the first pixel in
	// raster scan order.
	Pixels []Point `json:"-"`
}

// 8-neighbor offsets in fixed order for deterministic traversal.
var neighborOffsets = [8]Point{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Label finds all 8-connected components of set pixels in the mask.
//
// The mask is scanned top-to-bottom, left-to-right; each unvisited set pixel
// seeds a breadth-first flood fill over its 8-neighborhood. Because the scan
// order and neighbor order are fixed, the returned slice is deterministic:
// clusters are ordered by their first-discovered pixel and IDs are assigned
// sequentially from 1.
//
// An empty mask yields an empty (non-nil) slice.
func Label(mask *Mask) []Cluster {
	w, h := mask.Width, mask.Height
	visited := make([]bool, w*h)
	clusters := make([]Cluster, 0)

	queue := make([]Point, 0, 256)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask.Bits[idx] == 0 || visited[idx] {
				continue
			}

			queue = queue[:0]
			queue = append(queue, Point{x, y})
			visited[idx] = true

			c := Cluster{
				ID:     len(clusters) + 1,
				Bounds: Bounds{X1: x, Y1: y, X2: x, Y2: y},
			}

			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				c.Pixels = append(c.Pixels, p)

				if p.X < c.Bounds.X1 {
					c.Bounds.X1 = p.X
				}
				if p.X > c.Bounds.X2 {
					c.Bounds.X2 = p.X
				}
				if p.Y < c.Bounds.Y1 {
					c.Bounds.Y1 = p.Y
				}
				if p.Y > c.Bounds.Y2 {
					c.Bounds.Y2 = p.Y
				}

				for _, d := range neighborOffsets {
					nx, ny := p.X+d.X, p.Y+d.Y
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					ni := ny*w + nx
					if mask.Bits[ni] != 0 && !visited[ni] {
						visited[ni] = true
						queue = append(queue, Point{nx, ny})
					}
				}
			}

			c.Area = len(c.Pixels)
			clusters = append(clusters, c)
		}
	}

	return clusters
}

// FilterClusters drops clusters with area below minSize and renumbers the
// survivors from 1, preserving discovery order.
func FilterClusters(clusters []Cluster, minSize int) []Cluster {
	surviving := make([]Cluster, 0, len(clusters))
	for _, c := range clusters {
		if c.Area >= minSize {
			c.ID = len(surviving) + 1
			surviving = append(surviving, c)
		}
	}
	return surviving
}

// ClusterMask rebuilds a mask containing exactly the pixels of the given
// clusters. The result of filtering is the final hotspot mask; downstream
// consumers that need mask form instead of cluster form use this.
func ClusterMask(clusters []Cluster, width, height int) *Mask {
	mask := NewMask(width, height)
	for _, c := range clusters {
		for _, p := range c.Pixels {
			mask.Set(p.X, p.Y, 1)
		}
	}
	return mask
}
