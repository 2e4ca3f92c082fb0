package export

import (
	"context"
	"sync/atomic"

	"github.com/jonathan/resume-builder/internal/rendering"
)

// Trigger serializes exports for one session. A second Fire while an export
// is running is refused instead of queued.
type Trigger struct {
	exporter Exporter
	busy     atomic.Bool

	// OnSuccess and OnFailure are invoked after the busy flag is cleared.
	OnSuccess func(*Result)
	OnFailure func(error)
}

// NewTrigger creates a trigger around an exporter.
func NewTrigger(exporter Exporter) *Trigger {
	return &Trigger{exporter: exporter}
}

// Busy reports whether an export is in flight.
func (t *Trigger) Busy() bool {
	return t.busy.Load()
}

// Fire runs one export, or returns ErrExportInProgress if one is already running.
func (t *Trigger) Fire(ctx context.Context, doc *rendering.Document) (*Result, error) {
	if !t.busy.CompareAndSwap(false, true) {
		return nil, ErrExportInProgress
	}

	res, err := t.run(ctx, doc)

	if err != nil {
		if t.OnFailure != nil {
			t.OnFailure(err)
		}
		return nil, err
	}
	if t.OnSuccess != nil {
		t.OnSuccess(res)
	}
	return res, nil
}

func (t *Trigger) run(ctx context.Context, doc *rendering.Document) (*Result, error) {
	defer t.busy.Store(false)
	return t.exporter.Export(ctx, doc)
}
