package imaging

import (
	"bytes"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	apperrors "github.com/bridgesight/thermascan/internal/errors"
)

// WriteResult reports what Write did with the metadata blob.
type WriteResult struct {
	// Path is the destination the image was written to.
	Path string `json:"path"`

	// MetadataAttached is true when the source metadata blob was re-attached
	// to the output byte-for-byte.
	MetadataAttached bool `json:"metadata_attached"`

	// MetadataDegraded is true when the source carried metadata but the
	// output could not carry it (non-JPEG destination or splice failure).
	// The pixel data is still written in that case.
	MetadataDegraded bool `json:"metadata_degraded"`
}

// OutputName derives the output filename for a source file: same stem, with
// the extension normalized (.rjpg and .jpeg become .jpg, .tiff becomes
// .tif). The derivation is deterministic so re-running a batch overwrites
// the same outputs.
func OutputName(sourcePath string) string {
	base := filepath.Base(sourcePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	switch strings.ToLower(filepath.Ext(base)) {
	case ".tif", ".tiff":
		return stem + ".tif"
	default:
		return stem + ".jpg"
	}
}

// Write encodes the overlay image to destPath, re-attaching the given
// metadata blob when the destination is a JPEG.
//
// Metadata re-attachment failure is not fatal: the pixel data is written
// anyway and the result reports the degraded export, per the best-effort
// output policy. Write failures and unsupported output extensions are
// export-kind errors.
func Write(img image.Image, destPath string, metadata []byte) (*WriteResult, error) {
	result := &WriteResult{Path: destPath}

	switch strings.ToLower(filepath.Ext(destPath)) {
	case ".jpg", ".jpeg":
		var buf bytes.Buffer
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
			return nil, apperrors.NewExportError("failed to encode JPEG", err)
		}

		data := buf.Bytes()
		if len(metadata) > 0 {
			spliced, err := SpliceJPEGExif(data, metadata)
			if err != nil {
				result.MetadataDegraded = true
			} else {
				data = spliced
				result.MetadataAttached = true
			}
		}

		if err := os.WriteFile(destPath, data, 0o644); err != nil {
			return nil, apperrors.NewExportError("failed to write output file", err)
		}

	case ".tif", ".tiff", ".png":
		// No byte-level metadata carrier for these containers; pixels only.
		if len(metadata) > 0 {
			result.MetadataDegraded = true
		}
		if err := imaging.Save(img, destPath); err != nil {
			return nil, apperrors.NewExportError("failed to write output file", err)
		}

	default:
		return nil, apperrors.NewExportError(
			fmt.Sprintf("unsupported output extension %q", filepath.Ext(destPath)), nil)
	}

	return result, nil
}
