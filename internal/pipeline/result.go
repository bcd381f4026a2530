package pipeline

import (
	"image"

	"github.com/bridgesight/thermascan/internal/detection"
	apperrors "github.com/bridgesight/thermascan/internal/errors"
)

// Result is the terminal artifact of one file's pipeline run. It is created
// once and never mutated.
type Result struct {
	// SourcePath is the input file.
	SourcePath string `json:"source_path"`

	// OutputPath is where the overlay was written. Empty for preview runs,
	// which render without exporting.
	OutputPath string `json:"output_path,omitempty"`

	// Overlay is the rendered annotated image.
	Overlay *image.NRGBA `json:"-"`

	// Clusters are the surviving hotspot clusters in deterministic
	// discovery order. Together they partition the final mask's set pixels.
	Clusters []detection.Cluster `json:"clusters"`

	// ThresholdCutoff is the normalized intensity at the configured
	// percentile, kept for reporting.
	ThresholdCutoff float64 `json:"threshold_cutoff"`

	// MetadataPreserved is true when the source metadata blob (if any) was
	// carried to the output byte-for-byte. A JPEG source without metadata
	// counts as preserved: there was nothing to lose. TIFF sources never
	// count as preserved, since their IFD tags are not captured.
	MetadataPreserved bool `json:"metadata_preserved"`

	// MetadataDegraded is true when the source carried (or may carry)
	// metadata that the export could not re-attach. The pixel data was
	// still written.
	MetadataDegraded bool `json:"metadata_degraded"`
}

// Outcome is the tagged per-file result collected by the batch orchestrator:
// either a Result or a failure with its kind. Errors never cross the batch
// boundary as panics or aborts.
type Outcome struct {
	SourcePath string          `json:"source_path"`
	Result     *Result         `json:"result,omitempty"`
	ErrKind    apperrors.Kind  `json:"error_kind,omitempty"`
	Err        error           `json:"-"`
}

// Succeeded reports whether the file made it through all stages.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}

// Summary aggregates a batch for user-facing reporting.
type Summary struct {
	Total              int `json:"total"`
	Succeeded          int `json:"succeeded"`
	Failed             int `json:"failed"`
	LoadFailures       int `json:"load_failures"`
	ProcessingFailures int `json:"processing_failures"`
	ExportFailures     int `json:"export_failures"`
	MetadataDegraded   int `json:"metadata_degraded"`
}

// Summarize tallies a slice of outcomes.
func Summarize(outcomes []Outcome) *Summary {
	s := &Summary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Succeeded() {
			s.Succeeded++
			if o.Result.MetadataDegraded {
				s.MetadataDegraded++
			}
			continue
		}
		s.Failed++
		switch o.ErrKind {
		case apperrors.KindLoad:
			s.LoadFailures++
		case apperrors.KindExport:
			s.ExportFailures++
		default:
			s.ProcessingFailures++
		}
	}
	return s
}
