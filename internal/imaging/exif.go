package imaging

import (
	"encoding/binary"
	"fmt"
)

// JPEG marker bytes relevant to EXIF handling.
const (
	markerPrefix = 0xFF
	markerSOI    = 0xD8 // start of image
	markerAPP1   = 0xE1 // EXIF lives here
	markerSOS    = 0xDA // start of scan; no metadata past this point
)

// exifHeader prefixes the APP1 payload of an EXIF segment.
var exifHeader = []byte("Exif\x00\x00")

// ExtractJPEGExif returns the raw payload of the first EXIF APP1 segment in
// a JPEG byte stream, or nil when the data is not a JPEG or carries no EXIF.
//
// The payload (including the "Exif\x00\x00" header and the complete TIFF/IFD
// structure with any GPS tags) is copied byte-for-byte and never parsed, so
// it can be re-attached later with bit-exact fidelity.
func ExtractJPEGExif(data []byte) []byte {
	if len(data) < 4 || data[0] != markerPrefix || data[1] != markerSOI {
		return nil
	}

	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != markerPrefix {
			return nil
		}
		marker := data[pos+1]
		if marker == markerSOS {
			return nil
		}
		// Standalone markers (D0-D9) have no length field.
		if marker >= 0xD0 && marker <= 0xD9 {
			pos += 2
			continue
		}

		segLen := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		if segLen < 2 || pos+2+segLen > len(data) {
			return nil
		}

		payload := data[pos+4 : pos+2+segLen]
		if marker == markerAPP1 && len(payload) >= len(exifHeader) &&
			string(payload[:len(exifHeader)]) == string(exifHeader) {
			blob := make([]byte, len(payload))
			copy(blob, payload)
			return blob
		}

		pos += 2 + segLen
	}
	return nil
}

// SpliceJPEGExif inserts an EXIF APP1 segment carrying the given payload
// into a JPEG byte stream, directly after the SOI marker.
//
// The payload must be the raw APP1 payload as returned by ExtractJPEGExif.
// The bytes are spliced unmodified; round-tripping a payload through
// ExtractJPEGExif and SpliceJPEGExif reproduces it exactly.
func SpliceJPEGExif(jpegData, payload []byte) ([]byte, error) {
	if len(jpegData) < 2 || jpegData[0] != markerPrefix || jpegData[1] != markerSOI {
		return nil, fmt.Errorf("not a JPEG stream")
	}
	// Segment length field counts itself (2 bytes) plus the payload.
	if len(payload)+2 > 0xFFFF {
		return nil, fmt.Errorf("EXIF payload too large for an APP1 segment: %d bytes", len(payload))
	}

	out := make([]byte, 0, len(jpegData)+len(payload)+4)
	out = append(out, jpegData[:2]...)
	out = append(out, markerPrefix, markerAPP1)
	out = binary.BigEndian.AppendUint16(out, uint16(len(payload)+2))
	out = append(out, payload...)
	out = append(out, jpegData[2:]...)
	return out, nil
}
