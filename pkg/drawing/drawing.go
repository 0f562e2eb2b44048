// Package drawing turns a part model and a layout plan into a drawing
// document on the CAD host.
package drawing

import (
	"fmt"

	"github.com/chazu/drafter/pkg/diag"
	"github.com/chazu/drafter/pkg/host"
	"github.com/chazu/drafter/pkg/layout"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/views"
)

// Host is the part of the CAD host the generator drives.
type Host interface {
	NewDrawing(name string) (*host.Drawing, error)
	AddBaseView(d *host.Drawing, m *model.Handle, at views.Point, orientation views.Kind, scale float64, style views.Style) (*host.View, error)
	Close(d *host.Drawing) error
}

var _ Host = (*host.Session)(nil)

// UnsupportedDocumentTypeError is returned when the active document is
// not a part. Missing is set when there is no active document at all.
type UnsupportedDocumentTypeError struct {
	Kind    model.DocumentKind
	Missing bool
}

func (e *UnsupportedDocumentTypeError) Error() string {
	if e.Missing {
		return "drawing: no active document"
	}
	return fmt.Sprintf("drawing: not a part document (got %v)", e.Kind)
}

// ViewInsertionError is returned when the host rejects a view.
type ViewInsertionError struct {
	Kind views.Kind
	Err  error
}

func (e *ViewInsertionError) Error() string {
	return fmt.Sprintf("drawing: insert %v view: %v", e.Kind, e.Err)
}

func (e *ViewInsertionError) Unwrap() error { return e.Err }

// Artifact is a generated drawing still open on the host. The holder
// releases it once it has been persisted.
type Artifact struct {
	host     Host
	drawing  *host.Drawing
	released bool
}

// Drawing returns the host document.
func (a *Artifact) Drawing() *host.Drawing { return a.drawing }

// Sheet returns the drawing's single sheet.
func (a *Artifact) Sheet() *host.Sheet { return a.drawing.Sheet }

// ViewCount returns the number of placed views.
func (a *Artifact) ViewCount() int { return len(a.drawing.Sheet.Views) }

// Released reports whether Release has been called.
func (a *Artifact) Released() bool { return a.released }

// Release closes the document on the host. Releasing twice is a no-op.
func (a *Artifact) Release() error {
	if a.released {
		return nil
	}
	a.released = true
	return a.host.Close(a.drawing)
}

// Generator builds drawings on a host.
type Generator struct {
	host Host
	sink diag.Sink
}

// New returns a generator driving h. A nil sink discards events.
func New(h Host, sink diag.Sink) *Generator {
	if sink == nil {
		sink = diag.Discard
	}
	return &Generator{host: h, sink: sink}
}

// Generate creates one drawing with one base view of m per plan entry,
// in plan order. On failure no document is left open on the host.
func (g *Generator) Generate(m *model.Handle, plan layout.Plan) (*Artifact, error) {
	if m == nil {
		return nil, &UnsupportedDocumentTypeError{Missing: true}
	}
	if !m.IsPart() {
		return nil, &UnsupportedDocumentTypeError{Kind: m.Kind}
	}

	d, err := g.host.NewDrawing(m.Name)
	if err != nil {
		return nil, fmt.Errorf("drawing: create document: %w", err)
	}
	diag.Recordf(g.sink, "drawing %s created for %v", d.ID, m)

	for _, e := range plan {
		if _, err := g.host.AddBaseView(d, m, e.Position, e.Orientation, e.Scale, e.Style); err != nil {
			if cerr := g.host.Close(d); cerr != nil {
				diag.Recordf(g.sink, "drawing %s: close after failed insertion: %v", d.ID, cerr)
			}
			return nil, &ViewInsertionError{Kind: e.Kind, Err: err}
		}
		diag.Recordf(g.sink, "drawing %s: placed %v view at (%g, %g) scale %g", d.ID, e.Kind, e.Position.X, e.Position.Y, e.Scale)
	}
	return &Artifact{host: g.host, drawing: d}, nil
}
