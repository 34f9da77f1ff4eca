package upload

import (
	"fmt"
	"strings"

	"media-manager/core/asset"
)

// ValidationError rejects a batch before any upload starts.
type ValidationError struct {
	// File is the offending file name, empty for batch-level violations.
	File   string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.File == "" {
		return e.Reason
	}
	return fmt.Sprintf("file %s %s", e.File, e.Reason)
}

// Failure is one item that could not be uploaded.
type Failure struct {
	Index int
	Name  string
	Err   error
}

// BatchError reports a batch in which at least one upload failed. Uploaded lists the
// blobs that did reach the store and must be compensated by the caller.
type BatchError struct {
	Uploaded []asset.Reference
	Failures []Failure
}

func (e *BatchError) Error() string {
	reasons := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		reasons[i] = fmt.Sprintf("%s: %v", f.Name, f.Err)
	}
	total := len(e.Failures) + len(e.Uploaded)
	return fmt.Sprintf("upload batch failed: %d of %d items failed: %s", len(e.Failures), total, strings.Join(reasons, "; "))
}

// Unwrap exposes the per-item causes to errors.Is and errors.As.
func (e *BatchError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f.Err
	}
	return errs
}
