// Package host is an in-process CAD host. It plays the role the desktop
// CAD application plays for an add-in: it owns the open drawing documents
// and computes base views of part models on their sheets.
package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/project"
	"github.com/chazu/drafter/pkg/views"
)

// Default sheet size: A3 landscape in centimetres.
const (
	DefaultSheetWidth  = 42.0
	DefaultSheetHeight = 29.7
)

var (
	// ErrUnknownDocument is returned for a drawing this session does not
	// have open.
	ErrUnknownDocument = errors.New("host: drawing is not open in this session")

	// ErrUnsupportedStyle is returned for a view style the host cannot render.
	ErrUnsupportedStyle = errors.New("host: unsupported view style")
)

// Line is a straight line on the sheet, in sheet units.
type Line struct {
	A, B views.Point
}

// View is a base view placed on a sheet.
type View struct {
	Orientation views.Kind
	Position    views.Point
	Scale       float64
	Style       views.Style
	Visible     []Line
	Hidden      []Line
}

// Sheet is the single page of a drawing.
type Sheet struct {
	Width, Height float64
	Views         []*View
}

// Drawing is an open drawing document.
type Drawing struct {
	ID    uuid.UUID
	Name  string
	Sheet *Sheet
}

// Session owns the open drawings and, per drawing, a mesh cache for the
// models it references. A drawing's meshes are dropped when it is closed.
type Session struct {
	kernel kernel.Kernel
	cells  int
	width  float64
	height float64

	mu     sync.Mutex
	docs   map[uuid.UUID]*Drawing
	meshes map[uuid.UUID]map[*model.Handle]*kernel.Mesh
}

// Option configures a Session.
type Option func(*Session)

// WithMeshCells sets the tessellation resolution used for projections.
func WithMeshCells(n int) Option {
	return func(s *Session) { s.cells = n }
}

// WithSheetSize sets the sheet size of new drawings.
func WithSheetSize(width, height float64) Option {
	return func(s *Session) {
		if width > 0 && height > 0 {
			s.width, s.height = width, height
		}
	}
}

// NewSession returns a session that tessellates models with k.
func NewSession(k kernel.Kernel, opts ...Option) *Session {
	s := &Session{
		kernel: k,
		width:  DefaultSheetWidth,
		height: DefaultSheetHeight,
		docs:   make(map[uuid.UUID]*Drawing),
		meshes: make(map[uuid.UUID]map[*model.Handle]*kernel.Mesh),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewDrawing opens a new drawing document with one empty sheet.
func (s *Session) NewDrawing(name string) (*Drawing, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("host: allocate drawing id: %w", err)
	}
	d := &Drawing{
		ID:    id,
		Name:  name,
		Sheet: &Sheet{Width: s.width, Height: s.height},
	}

	s.mu.Lock()
	s.docs[id] = d
	s.mu.Unlock()
	return d, nil
}

// AddBaseView projects m in the given orientation and places the result
// on the drawing's sheet, centered on at and scaled by scale.
func (s *Session) AddBaseView(d *Drawing, m *model.Handle, at views.Point, orientation views.Kind, scale float64, style views.Style) (*View, error) {
	if !s.isOpen(d) {
		return nil, ErrUnknownDocument
	}
	if m == nil || m.Solid == nil {
		return nil, errors.New("host: model has no geometry")
	}
	if !(scale > 0) {
		return nil, fmt.Errorf("host: scale must be positive, got %g", scale)
	}
	if style != views.HiddenLine {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedStyle, style)
	}

	mesh, err := s.mesh(d, m)
	if err != nil {
		return nil, err
	}
	proj, err := project.Project(mesh, orientation)
	if err != nil {
		return nil, fmt.Errorf("host: %v view of %s: %w", orientation, m, err)
	}

	c := proj.Center()
	place := func(segs []project.Segment) []Line {
		lines := make([]Line, len(segs))
		for i, seg := range segs {
			lines[i] = Line{
				A: views.Point{X: at.X + (seg.A.X-c.X)*scale, Y: at.Y + (seg.A.Y-c.Y)*scale},
				B: views.Point{X: at.X + (seg.B.X-c.X)*scale, Y: at.Y + (seg.B.Y-c.Y)*scale},
			}
		}
		return lines
	}
	v := &View{
		Orientation: orientation,
		Position:    at,
		Scale:       scale,
		Style:       style,
		Visible:     place(proj.Visible),
		Hidden:      place(proj.Hidden),
	}

	s.mu.Lock()
	d.Sheet.Views = append(d.Sheet.Views, v)
	s.mu.Unlock()
	return v, nil
}

// Close closes a drawing without saving it.
func (s *Session) Close(d *Drawing) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d == nil || s.docs[d.ID] != d {
		return ErrUnknownDocument
	}
	delete(s.docs, d.ID)
	delete(s.meshes, d.ID)
	return nil
}

// Documents returns the number of open drawings.
func (s *Session) Documents() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.docs)
}

func (s *Session) isOpen(d *Drawing) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return d != nil && s.docs[d.ID] == d
}

// CachedMeshes returns the number of meshes held for open drawings.
func (s *Session) CachedMeshes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, byModel := range s.meshes {
		n += len(byModel)
	}
	return n
}

// mesh tessellates m once per drawing.
func (s *Session) mesh(d *Drawing, m *model.Handle) (*kernel.Mesh, error) {
	s.mu.Lock()
	cached, ok := s.meshes[d.ID][m]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	mesh, err := s.kernel.Mesh(m.Solid, s.cells)
	if err != nil {
		return nil, fmt.Errorf("host: tessellate %s: %w", m, err)
	}

	s.mu.Lock()
	// The drawing may have been closed while tessellating.
	if s.docs[d.ID] == d {
		if s.meshes[d.ID] == nil {
			s.meshes[d.ID] = make(map[*model.Handle]*kernel.Mesh)
		}
		s.meshes[d.ID][m] = mesh
	}
	s.mu.Unlock()
	return mesh, nil
}
