package export

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chazu/drafter/internal/meshtest"
	"github.com/chazu/drafter/pkg/diag"
	"github.com/chazu/drafter/pkg/drawing"
	"github.com/chazu/drafter/pkg/host"
	"github.com/chazu/drafter/pkg/layout"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/selection"
	"github.com/chazu/drafter/pkg/views"
)

// boxWithPocket is a cube with a smaller cube behind it so the front view
// has hidden edges.
func boxWithPocket() *model.Handle {
	m := meshtest.Cube(0, 0, 0, 2)
	meshtest.AddCube(m, 0, 6, 0, 1)
	return model.NewPart("block", &meshtest.Solid{Mesh: m})
}

func generate(t *testing.T, s *host.Session, kinds ...views.Kind) *drawing.Artifact {
	t.Helper()
	vec, err := selection.FromKinds(kinds...)
	require.NoError(t, err)
	v, err := selection.Validate(vec)
	require.NoError(t, err)
	a, err := drawing.New(s, nil).Generate(boxWithPocket(), layout.Default().Plan(v))
	require.NoError(t, err)
	return a
}

func tempFiles(t *testing.T, dir string) []string {
	t.Helper()
	ents, err := os.ReadDir(dir)
	require.NoError(t, err)
	var tmp []string
	for _, e := range ents {
		if strings.HasPrefix(e.Name(), ".drafter-") {
			tmp = append(tmp, e.Name())
		}
	}
	return tmp
}

func TestExportDXF(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	a := generate(t, s, views.Top, views.Front)
	path := filepath.Join(t.TempDir(), "out.dxf")
	rec := &diag.Recorder{}

	res := New(rec).Export(a, path)
	require.True(t, res.Success, "%v", res.Err)
	assert.Equal(t, path, res.Path)
	assert.NoError(t, res.Err)
	assert.True(t, a.Released())
	assert.Equal(t, 0, s.Documents())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	for _, want := range []string{"SECTION", "ENTITIES", LayerSheet, LayerVisible, LayerHidden, "LINE", "EOF"} {
		assert.Contains(t, text, want)
	}
	assert.Empty(t, tempFiles(t, filepath.Dir(path)))
	assert.Contains(t, rec.Messages()[len(rec.Messages())-1], "exported 2 views")
}

func TestExportSVG(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	a := generate(t, s, views.Front)
	path := filepath.Join(t.TempDir(), "nested", "dir", "out.svg")

	res := New(nil).Export(a, path)
	require.True(t, res.Success, "%v", res.Err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "<svg")
	assert.Contains(t, text, `id="front"`)
	assert.Contains(t, text, "stroke-dasharray")
	assert.Equal(t, 8, strings.Count(text, "<line"), "4 visible and 4 hidden edges")
}

func TestExportOverwriteIsIdempotent(t *testing.T) {
	for _, name := range []string{"out.dxf", "out.svg"} {
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, name)
			require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

			s := host.NewSession(&meshtest.Kernel{})
			w := New(nil)
			res := w.Export(generate(t, s, views.Top, views.Right), path)
			require.True(t, res.Success, "%v", res.Err)
			first, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.NotEqual(t, "old contents", string(first))

			res = w.Export(generate(t, s, views.Top, views.Right), path)
			require.True(t, res.Success, "%v", res.Err)
			second, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, first, second)
			assert.Empty(t, tempFiles(t, dir))
		})
	}
}

func TestExportZeroViews(t *testing.T) {
	for _, name := range []string{"empty.dxf", "empty.svg"} {
		t.Run(name, func(t *testing.T) {
			s := host.NewSession(&meshtest.Kernel{})
			a := generate(t, s)
			require.Equal(t, 0, a.ViewCount())

			path := filepath.Join(t.TempDir(), name)
			res := New(nil).Export(a, path)
			require.True(t, res.Success, "%v", res.Err)
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Positive(t, info.Size())
		})
	}
}

func TestExportUnsupportedFormat(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	a := generate(t, s, views.Top)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.dwg")

	res := New(nil).Export(a, path)
	assert.False(t, res.Success)
	assert.ErrorIs(t, res.Err, ErrUnsupportedFormat)

	var e *Error
	require.True(t, errors.As(res.Err, &e))
	assert.Equal(t, path, e.Path)

	assert.False(t, a.Released(), "artifact stays open after a failed export")
	assert.Equal(t, 1, s.Documents())
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, tempFiles(t, dir))
}

func TestExportFailureLeavesTargetUnchanged(t *testing.T) {
	dir := t.TempDir()
	// The target is a directory, so the final rename fails.
	path := filepath.Join(dir, "taken.svg")
	require.NoError(t, os.Mkdir(path, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(path, "keep"), []byte("x"), 0o644))

	s := host.NewSession(&meshtest.Kernel{})
	a := generate(t, s, views.Top)
	res := New(nil).Export(a, path)
	require.False(t, res.Success)
	assert.False(t, a.Released())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Empty(t, tempFiles(t, dir))
}

func TestExportRejectsReleasedOrMissingArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.dxf")
	w := New(nil)

	res := w.Export(nil, path)
	assert.False(t, res.Success)
	assert.Error(t, res.Err)

	s := host.NewSession(&meshtest.Kernel{})
	a := generate(t, s, views.Top)
	require.NoError(t, a.Release())
	res = w.Export(a, path)
	assert.False(t, res.Success)
	_, err := os.Stat(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}
