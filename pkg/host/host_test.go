package host

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/drafter/internal/meshtest"
	"github.com/chazu/drafter/pkg/kernel/sdfx"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/views"
)

func cubePart(h float64) *model.Handle {
	return model.NewPart("cube", &meshtest.Solid{Mesh: meshtest.Cube(0, 0, 0, h)})
}

func TestNewDrawingRegistersDocument(t *testing.T) {
	s := NewSession(&meshtest.Kernel{})
	d, err := s.NewDrawing("cube drawing")
	require.NoError(t, err)

	assert.Equal(t, "cube drawing", d.Name)
	assert.NotEqual(t, [16]byte{}, [16]byte(d.ID))
	require.NotNil(t, d.Sheet)
	assert.Equal(t, DefaultSheetWidth, d.Sheet.Width)
	assert.Equal(t, DefaultSheetHeight, d.Sheet.Height)
	assert.Empty(t, d.Sheet.Views)
	assert.Equal(t, 1, s.Documents())

	require.NoError(t, s.Close(d))
	assert.Equal(t, 0, s.Documents())
	assert.ErrorIs(t, s.Close(d), ErrUnknownDocument)
}

func TestAddBaseViewPlacesAndScales(t *testing.T) {
	s := NewSession(&meshtest.Kernel{})
	d, err := s.NewDrawing("d")
	require.NoError(t, err)

	// A 4x4x4 cube at scale 0.5 draws as a 2x2 square centered on (25, 4).
	v, err := s.AddBaseView(d, cubePart(2), views.Point{X: 25, Y: 4}, views.Front, 0.5, views.HiddenLine)
	require.NoError(t, err)

	assert.Equal(t, views.Front, v.Orientation)
	assert.Equal(t, 0.5, v.Scale)
	assert.Len(t, v.Visible, 4)
	assert.Empty(t, v.Hidden)
	for _, l := range v.Visible {
		for _, p := range []views.Point{l.A, l.B} {
			assert.InDelta(t, 1, math.Abs(p.X-25), 1e-9)
			assert.InDelta(t, 1, math.Abs(p.Y-4), 1e-9)
		}
	}
	require.Len(t, d.Sheet.Views, 1)
	assert.Same(t, v, d.Sheet.Views[0])
}

func TestAddBaseViewCachesMesh(t *testing.T) {
	k := &meshtest.Kernel{}
	s := NewSession(k)
	d, err := s.NewDrawing("d")
	require.NoError(t, err)

	part := cubePart(1)
	for _, kind := range views.Kinds {
		_, err := s.AddBaseView(d, part, views.PlacementFor(kind).Position, kind, 0.5, views.HiddenLine)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, k.MeshCalls)
	assert.Len(t, d.Sheet.Views, views.Count)
	assert.Equal(t, 1, s.CachedMeshes())
}

func TestCloseDropsCachedMeshes(t *testing.T) {
	k := &meshtest.Kernel{}
	s := NewSession(k)
	at := views.PlacementFor(views.Front).Position

	for i := 0; i < 5; i++ {
		d, err := s.NewDrawing("d")
		require.NoError(t, err)
		_, err = s.AddBaseView(d, cubePart(1), at, views.Front, 0.5, views.HiddenLine)
		require.NoError(t, err)
		assert.Equal(t, 1, s.CachedMeshes())
		require.NoError(t, s.Close(d))
		assert.Equal(t, 0, s.CachedMeshes())
	}
	assert.Equal(t, 5, k.MeshCalls)
}

func TestMeshCacheIsPerDrawing(t *testing.T) {
	k := &meshtest.Kernel{}
	s := NewSession(k)
	part := cubePart(1)
	at := views.PlacementFor(views.Top).Position

	a, err := s.NewDrawing("a")
	require.NoError(t, err)
	b, err := s.NewDrawing("b")
	require.NoError(t, err)
	for _, d := range []*Drawing{a, b} {
		_, err := s.AddBaseView(d, part, at, views.Top, 0.5, views.HiddenLine)
		require.NoError(t, err)
	}
	assert.Equal(t, 2, s.CachedMeshes())

	require.NoError(t, s.Close(a))
	assert.Equal(t, 1, s.CachedMeshes())
	_, err = s.AddBaseView(b, part, at, views.Front, 0.5, views.HiddenLine)
	require.NoError(t, err)
	assert.Equal(t, 2, k.MeshCalls)
}

func TestAddBaseViewRejects(t *testing.T) {
	s := NewSession(&meshtest.Kernel{})
	d, err := s.NewDrawing("d")
	require.NoError(t, err)
	at := views.Point{X: 5, Y: 4}

	_, err = s.AddBaseView(d, nil, at, views.Top, 0.5, views.HiddenLine)
	assert.Error(t, err)

	_, err = s.AddBaseView(d, cubePart(1), at, views.Top, 0, views.HiddenLine)
	assert.Error(t, err)

	_, err = s.AddBaseView(d, cubePart(1), at, views.Top, 0.5, views.Style(3))
	assert.ErrorIs(t, err, ErrUnsupportedStyle)

	_, err = s.AddBaseView(d, cubePart(1), at, views.Kind(11), 0.5, views.HiddenLine)
	assert.Error(t, err)

	broken := model.NewPart("broken", &meshtest.Solid{})
	_, err = s.AddBaseView(d, broken, at, views.Top, 0.5, views.HiddenLine)
	assert.Error(t, err)

	assert.Empty(t, d.Sheet.Views)

	other := &Drawing{Sheet: &Sheet{}}
	_, err = s.AddBaseView(other, cubePart(1), at, views.Top, 0.5, views.HiddenLine)
	assert.True(t, errors.Is(err, ErrUnknownDocument))
}

func TestSheetSizeOption(t *testing.T) {
	s := NewSession(&meshtest.Kernel{}, WithSheetSize(59.4, 42), WithMeshCells(16))
	d, err := s.NewDrawing("a2")
	require.NoError(t, err)
	assert.Equal(t, 59.4, d.Sheet.Width)
	assert.Equal(t, 42.0, d.Sheet.Height)
	assert.Equal(t, 16, s.cells)

	ignored := NewSession(&meshtest.Kernel{}, WithSheetSize(-1, 10))
	assert.Equal(t, DefaultSheetWidth, ignored.width)
}

func TestSdfxBoxFrontView(t *testing.T) {
	k := sdfx.New()
	box, err := k.Box(8, 4, 2)
	require.NoError(t, err)

	s := NewSession(k, WithMeshCells(24))
	d, err := s.NewDrawing("box")
	require.NoError(t, err)

	v, err := s.AddBaseView(d, model.NewPart("box", box), views.Point{X: 25, Y: 4}, views.Front, 0.5, views.HiddenLine)
	require.NoError(t, err)
	require.NotEmpty(t, v.Visible)

	// The outline spans roughly 8x2 model units, 4x1 on the sheet.
	minX, maxX := math.Inf(1), math.Inf(-1)
	for _, l := range v.Visible {
		minX = math.Min(minX, math.Min(l.A.X, l.B.X))
		maxX = math.Max(maxX, math.Max(l.A.X, l.B.X))
	}
	assert.InDelta(t, 4, maxX-minX, 0.5)
	assert.InDelta(t, 25, (minX+maxX)/2, 0.25)
}
