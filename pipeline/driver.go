package pipeline

import (
	"context"

	"go.uber.org/zap"

	"video-maker-pipeline/logging"
	"video-maker-pipeline/state"
	"video-maker-pipeline/types"
)

// Driver runs stages strictly one after another. Each stage boundary is a
// load/save through the store, which is the only resumability mechanism.
type Driver struct {
	store  state.Store
	logger *zap.Logger
	force  bool
}

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the driver's logger.
func WithLogger(l *zap.Logger) Option {
	return func(d *Driver) { d.logger = l }
}

// WithForce makes the driver re-run stages whose outputs are already present.
func WithForce(force bool) Option {
	return func(d *Driver) { d.force = force }
}

// NewDriver creates a Driver over store.
func NewDriver(store state.Store, opts ...Option) *Driver {
	d := &Driver{store: store}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = logging.OrNop(d.logger).Named("pipeline")
	return d
}

// Run executes stages in order and stops at the first failure, leaving the
// store at the last successful save. It returns the last document it saw;
// callers must treat it as read-only.
func (d *Driver) Run(ctx context.Context, stages ...Stage) (*types.Document, error) {
	var last *types.Document

	for i, stage := range stages {
		name := stage.Name()
		log := d.logger.With(zap.String("stage", name), zap.Int("step", i+1), zap.Int("of", len(stages)))

		doc, err := d.store.Load(ctx)
		if err != nil {
			return last, &StageError{Stage: name, Err: err}
		}
		last = doc

		if !d.force && stage.Done(doc) {
			log.Info("outputs already present, skipping")
			continue
		}
		if err := stage.Ready(doc); err != nil {
			d.recordFailure(ctx, doc, name, err)
			return last, &StageError{Stage: name, Err: err}
		}

		log.Info("stage starting")
		work := doc.Clone()
		work.SetStage(name, types.StageRunning, nil)

		if err := stage.Run(ctx, work); err != nil {
			log.Error("stage failed", zap.Error(err))
			d.recordFailure(ctx, doc, name, err)
			return last, &StageError{Stage: name, Err: err}
		}

		work.SetStage(name, types.StageCompleted, nil)
		if err := d.store.Save(ctx, work); err != nil {
			return last, &StageError{Stage: name, Err: err}
		}
		last = work
		log.Info("stage complete")
	}

	return last, nil
}

// recordFailure persists the failed status on top of the snapshot the stage
// started from, never the stage's partial work.
func (d *Driver) recordFailure(ctx context.Context, doc *types.Document, name string, cause error) {
	snapshot := doc.Clone()
	snapshot.SetStage(name, types.StageFailed, cause)
	if err := d.store.Save(ctx, snapshot); err != nil {
		d.logger.Warn("could not record stage failure", zap.String("stage", name), zap.Error(err))
	}
}
