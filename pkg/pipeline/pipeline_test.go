package pipeline

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
	"github.com/chazu/drafter/pkg/export"
	"github.com/chazu/drafter/pkg/host"
	"github.com/chazu/drafter/pkg/model"
	"github.com/chazu/drafter/pkg/selection"
)

func cube() *model.Handle {
	return model.NewPart("cube", &meshtest.Solid{Mesh: meshtest.Cube(0, 0, 0, 1)})
}

func TestRunTopAndFront(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	rec := &diag.Recorder{}
	out := filepath.Join(t.TempDir(), "output.dxf")

	res := Run(selection.Vector{true, false, true, false, false, false}, cube(), Config{
		OutputPath: out,
		Host:       s,
		Sink:       rec,
	})
	require.True(t, res.Success, "%v", res.Err)
	assert.Equal(t, StageDone, res.Stage)
	assert.Equal(t, out, res.Path)
	assert.Equal(t, 2, res.Views)
	assert.FileExists(t, out)
	assert.Equal(t, 0, s.Documents())
	assert.NotEmpty(t, rec.Messages())
}

func TestRunAllFalseExportsEmptySheet(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	out := filepath.Join(t.TempDir(), "output.svg")

	res := Run(make(selection.Vector, 6), cube(), Config{OutputPath: out, Host: s})
	require.True(t, res.Success, "%v", res.Err)
	assert.Equal(t, 0, res.Views)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Zero(t, strings.Count(string(data), "<line"))
}

func TestRunArityError(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	rec := &diag.Recorder{}
	out := filepath.Join(t.TempDir(), "output.dxf")

	res := Run(selection.Vector{true, true, true, true, true}, cube(), Config{OutputPath: out, Host: s, Sink: rec})
	assert.False(t, res.Success)
	assert.Equal(t, StageValidate, res.Stage)

	var ae *selection.ArityError
	require.True(t, errors.As(res.Err, &ae))
	assert.Equal(t, 5, ae.Got)
	assert.NoFileExists(t, out)
	assert.Equal(t, 0, s.Documents())
	require.Len(t, rec.Messages(), 1)
	assert.Contains(t, rec.Messages()[0], "validate failed")
}

func TestRunNonPartDocument(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	out := filepath.Join(t.TempDir(), "output.dxf")
	asm := model.NewAssembly("frame", nil, "rail", "post")

	res := Run(selection.Vector{true, false, false, false, false, false}, asm, Config{OutputPath: out, Host: s})
	assert.Equal(t, StageGenerate, res.Stage)
	var ut *drawing.UnsupportedDocumentTypeError
	assert.True(t, errors.As(res.Err, &ut))
	assert.NoFileExists(t, out)
	assert.Equal(t, 0, s.Documents())
}

func TestRunExportFailureClosesDrawing(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	out := filepath.Join(t.TempDir(), "output.pdf")

	res := Run(selection.Vector{false, false, true, false, false, false}, cube(), Config{OutputPath: out, Host: s})
	assert.False(t, res.Success)
	assert.Equal(t, StageExport, res.Stage)
	assert.ErrorIs(t, res.Err, export.ErrUnsupportedFormat)
	assert.Equal(t, 0, s.Documents())
}

func TestRunWithoutHost(t *testing.T) {
	res := Run(make(selection.Vector, 6), cube(), Config{OutputPath: "x.dxf"})
	assert.False(t, res.Success)
	assert.Equal(t, StageGenerate, res.Stage)
}

func TestRunScale(t *testing.T) {
	s := host.NewSession(&meshtest.Kernel{})
	out := filepath.Join(t.TempDir(), "output.svg")
	rec := &diag.Recorder{}

	res := Run(selection.Vector{true, false, false, false, false, false}, cube(), Config{OutputPath: out, Host: s, Sink: rec, Scale: 2})
	require.True(t, res.Success, "%v", res.Err)
	found := false
	for _, m := range rec.Messages() {
		if strings.Contains(m, "scale 2") {
			found = true
		}
	}
	assert.True(t, found, "%v", rec.Messages())
}
