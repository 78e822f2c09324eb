// Package pipeline runs the ordered stage sequence over the persisted document.
package pipeline

import (
	"context"
	"fmt"

	"video-maker-pipeline/types"
)

// Stage is one step of the pipeline. The driver loads the document, asks the
// stage whether it can and needs to run, hands it an owned copy, and saves
// the copy only when Run succeeds.
type Stage interface {
	// Name identifies the stage in logs, errors and the document's stage map.
	Name() string

	// Ready returns a ValidationError when a required input field is absent.
	Ready(doc *types.Document) error

	// Done reports whether the stage's own outputs are already populated.
	Done(doc *types.Document) bool

	// Run performs the work and mutates doc.
	Run(ctx context.Context, doc *types.Document) error
}

// StageError attributes a failure to the stage that produced it.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }
