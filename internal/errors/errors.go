package errors

import "fmt"

// Kind categorizes pipeline failures so the batch orchestrator can
// aggregate them without inspecting error strings.
type Kind string

const (
	// KindConfig marks an invalid pipeline configuration. Validation happens once,
	// before any file is touched, and aborts the whole batch.
	KindConfig Kind = "config"

	// KindLoad marks an unreadable, unsupported, or corrupt input file.
	KindLoad Kind = "load"

	// KindProcessing marks an internal invariant violation between pipeline
	// stages. It indicates a pipeline bug, not bad input, and is logged
	// distinctly from the user-facing kinds.
	KindProcessing Kind = "processing"

	// KindExport marks a write or metadata re-attachment failure.
	KindExport Kind = "export"
)

// ScanError is a structured pipeline error carrying its failure kind.
type ScanError struct {
	Kind    Kind
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ScanError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *ScanError) Unwrap() error {
	return e.Cause
}

// NewConfigError creates a configuration validation error.
func NewConfigError(message string) *ScanError {
	return &ScanError{Kind: KindConfig, Message: message}
}

// NewLoadError creates an input decoding error.
func NewLoadError(message string, cause error) *ScanError {
	return &ScanError{Kind: KindLoad, Message: message, Cause: cause}
}

// NewProcessingError creates an internal pipeline fault.
func NewProcessingError(message string, cause error) *ScanError {
	return &ScanError{Kind: KindProcessing, Message: message, Cause: cause}
}

// NewExportError creates an output write error.
func NewExportError(message string, cause error) *ScanError {
	return &ScanError{Kind: KindExport, Message: message, Cause: cause}
}

// KindOf extracts the failure kind from an error chain. Errors that are not
// ScanErrors are reported as KindProcessing: anything untagged that escapes a
// pipeline stage is by definition an internal fault.
func KindOf(err error) Kind {
	for err != nil {
		if se, ok := err.(*ScanError); ok {
			return se.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindProcessing
		}
		err = u.Unwrap()
	}
	return KindProcessing
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
