package main

import (
	"fmt"
	"log"

	"github.com/chazu/drafter/pkg/config"
	"github.com/chazu/drafter/pkg/diag"
	"github.com/chazu/drafter/pkg/engine"
	"github.com/chazu/drafter/pkg/host"
	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/kernel/manifold"
	"github.com/chazu/drafter/pkg/kernel/sdfx"
	"github.com/chazu/drafter/pkg/pipeline"
	"github.com/chazu/drafter/pkg/selection"
)

// App is the binding a host integration layer calls. It owns the script
// engine, the CAD host session and the diagnostic log.
type App struct {
	cfg     config.Config
	engine  *engine.Engine
	session *host.Session
	sink    diag.Sink
}

// EvalErrorData is a JSON-serializable script error.
type EvalErrorData struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ExportResult is returned to the caller of ExportViews.
type ExportResult struct {
	Success bool            `json:"success"`
	Path    string          `json:"path"`
	Stage   string          `json:"stage,omitempty"`
	Views   int             `json:"views"`
	Message string          `json:"message,omitempty"`
	Errors  []EvalErrorData `json:"errors"`
}

// NewApp creates an App on the configured kernel, logging to cfg.LogPath.
func NewApp(cfg config.Config) (*App, error) {
	k, err := kernelFor(cfg.Kernel)
	if err != nil {
		return nil, err
	}
	return newApp(k, cfg, diag.NewFileSink(cfg.LogPath)), nil
}

func kernelFor(name string) (kernel.Kernel, error) {
	switch name {
	case "", config.KernelSdfx:
		return sdfx.New(), nil
	case config.KernelManifold:
		return manifold.New()
	}
	return nil, fmt.Errorf("unknown kernel %q", name)
}

func newApp(k kernel.Kernel, cfg config.Config, sink diag.Sink) *App {
	return &App{
		cfg:     cfg,
		engine:  engine.New(k),
		session: host.NewSession(k, host.WithMeshCells(cfg.MeshCells)),
		sink:    sink,
	}
}

// ExportViews loads the model script at modelPath and writes a drawing
// with the selected views to the configured output path. selection holds
// one flag per view in top, bottom, front, back, left, right order.
func (a *App) ExportViews(modelPath string, sel []bool) ExportResult {
	result := ExportResult{Path: a.cfg.OutputPath, Errors: []EvalErrorData{}}

	m, evalErrs, err := a.engine.LoadFile(modelPath)
	if err != nil {
		log.Printf("ExportViews: load %s: %v", modelPath, err)
		diag.Recordf(a.sink, "load %s: %v", modelPath, err)
		result.Stage = "load"
		result.Message = err.Error()
		return result
	}
	if len(evalErrs) > 0 {
		for _, e := range evalErrs {
			diag.Recordf(a.sink, "%s: %v", modelPath, e)
			result.Errors = append(result.Errors, EvalErrorData{Line: e.Line, Message: e.Message})
		}
		result.Stage = "load"
		result.Message = evalErrs[0].Error()
		return result
	}

	res := pipeline.Run(selection.Vector(sel), m, pipeline.Config{
		OutputPath: a.cfg.OutputPath,
		Host:       a.session,
		Sink:       a.sink,
		Scale:      a.cfg.Scale,
	})
	result.Success = res.Success
	result.Stage = string(res.Stage)
	result.Views = res.Views
	if res.Err != nil {
		log.Printf("ExportViews: %s: %v", res.Stage, res.Err)
		result.Message = res.Err.Error()
	}
	return result
}
