// Package imaging provides the raster-side stages of the thermal pipeline:
// frame loading, intensity normalization, false-color overlay rendering, and
// metadata-preserving export.
//
// # Thermal Frames
//
// A ThermalFrame holds a row-major float64 grid of per-pixel temperature
// surrogates plus the raw EXIF payload captured from the source file. For
// 16-bit grayscale sources (the usual radiometric export) the full 16-bit
// values become the grid; color sources fall back to 8-bit luminance.
// Frames are immutable once loaded: every downstream stage reads the grid,
// none writes it.
//
// # Metadata Handling
//
// EXIF data (including the GPS IFD) is captured byte-for-byte from the JPEG
// APP1 segment and re-attached to exported JPEGs by splicing the identical
// bytes back in after the SOI marker. The payload is never parsed or
// re-serialized, so GPS coordinates and camera tags survive the round trip
// bit-exact.
//
// # Determinism
//
// Normalization and rendering are pure functions of their inputs. The
// normalization curve is fixed (linear min-max to [0, 255]) and the palette
// is built once from fixed anchor colors, so identical frames always render
// to identical pixels.
package imaging
