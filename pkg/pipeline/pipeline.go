// Package pipeline runs one drawing request end to end: validate the
// view selection, plan the layout, generate the drawing on the host and
// export it.
package pipeline

import (
	"errors"

	"github.com/chazu/drafter/pkg/diag"
	"github.com/chazu/drafter/pkg/drawing"
	"github.com/chazu/drafter/pkg/export"
	"github.com/chazu/drafter/pkg/layout"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/selection"
)

// Stage names the step a run stopped at.
type Stage string

const (
	StageValidate Stage = "validate"
	StageGenerate Stage = "generate"
	StageExport   Stage = "export"
	StageDone     Stage = "done"
)

// Config carries everything a run needs besides its inputs.
type Config struct {
	// OutputPath is the file the drawing is written to.
	OutputPath string
	// Host is the CAD host the drawing is created on.
	Host drawing.Host
	// Sink receives diagnostic events. Nil discards them.
	Sink diag.Sink
	// Scale is the view scale; non-positive selects the default.
	Scale float64
}

// Result reports the outcome of a run.
type Result struct {
	Success bool
	Path    string
	Stage   Stage
	Views   int
	Err     error
}

// Run executes the pipeline once. It never panics on bad input; every
// failure is recorded to the sink and returned with the stage it
// happened in.
func Run(sel selection.Vector, m *model.Handle, cfg Config) Result {
	sink := cfg.Sink
	if sink == nil {
		sink = diag.Discard
	}
	fail := func(stage Stage, err error) Result {
		diag.Recordf(sink, "%s failed: %v", stage, err)
		return Result{Path: cfg.OutputPath, Stage: stage, Err: err}
	}

	valid, err := selection.Validate(sel)
	if err != nil {
		return fail(StageValidate, err)
	}
	if cfg.Host == nil {
		return fail(StageGenerate, errors.New("pipeline: no CAD host configured"))
	}

	plan := layout.New(cfg.Scale).Plan(valid)
	diag.Recordf(sink, "selected %d views %v of %v", len(plan), plan.Kinds(), m)

	artifact, err := drawing.New(cfg.Host, sink).Generate(m, plan)
	if err != nil {
		return fail(StageGenerate, err)
	}

	res := export.New(sink).Export(artifact, cfg.OutputPath)
	if !res.Success {
		if rerr := artifact.Release(); rerr != nil {
			diag.Recordf(sink, "close drawing after failed export: %v", rerr)
		}
		return fail(StageExport, res.Err)
	}
	return Result{Success: true, Path: res.Path, Stage: StageDone, Views: len(plan)}
}
