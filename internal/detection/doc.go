// Package detection provides the mask-space algorithms of the thermal
// pipeline: percentile thresholding, binary morphology, and connected
// component (cluster) analysis.
//
// All algorithms here are deterministic: the same grid and parameters always
// produce bit-identical masks and identically ordered cluster lists. No
// randomness, no map iteration order, no floating point reductions whose
// order depends on scheduling.
//
// # Data Flow
//
// The normalized intensity grid enters through Threshold, which produces a
// binary Mask. The mask is denoised by the morphology operators (opening
// removes isolated noise pixels, closing fills small holes), then Label
// groups the surviving pixels into 8-connected clusters and FilterClusters
// discards those below the configured minimum area.
//
// # Coordinate System
//
// All coordinates use the standard image convention:
//   - Origin (0, 0) at top-left corner
//   - X increases rightward
//   - Y increases downward
//
// Bounding boxes use inclusive minimum and maximum coordinates.
//
// # Border Handling
//
// Morphological operators treat pixels outside the grid as background (0).
// There is no wraparound: erosion eats into regions touching the border,
// dilation never conjures pixels from the far side.
package detection
