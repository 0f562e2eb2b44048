package export

import (
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"

	"github.com/chazu/drafter/pkg/host"
)

// DXF layer names.
const (
	LayerSheet   = "SHEET"
	LayerVisible = "VISIBLE"
	LayerHidden  = "HIDDEN"
)

// writeDXF saves the sheet as a DXF drawing: the sheet border, then every
// view's visible edges on one layer and hidden edges on a dashed layer.
func writeDXF(s *host.Sheet, path string) error {
	d := dxf.NewDrawing()
	// HIDDEN is one of the linetypes every new drawing defines.
	hidden, err := d.LineType("HIDDEN")
	if err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerSheet, color.White, dxf.DefaultLineType, true); err != nil {
		return err
	}
	if err := rect(d, 0, 0, s.Width, s.Height); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerVisible, dxf.DefaultColor, dxf.DefaultLineType, false); err != nil {
		return err
	}
	if _, err := d.AddLayer(LayerHidden, color.Cyan, hidden, false); err != nil {
		return err
	}

	for _, v := range s.Views {
		if err := d.ChangeLayer(LayerVisible); err != nil {
			return err
		}
		for _, l := range v.Visible {
			if _, err := d.Line(l.A.X, l.A.Y, 0, l.B.X, l.B.Y, 0); err != nil {
				return err
			}
		}
		if len(v.Hidden) == 0 {
			continue
		}
		if err := d.ChangeLayer(LayerHidden); err != nil {
			return err
		}
		for _, l := range v.Hidden {
			if _, err := d.Line(l.A.X, l.A.Y, 0, l.B.X, l.B.Y, 0); err != nil {
				return err
			}
		}
	}
	return d.SaveAs(path)
}

func rect(d *drawing.Drawing, x0, y0, x1, y1 float64) error {
	corners := [][2]float64{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}
	for i, a := range corners {
		b := corners[(i+1)%len(corners)]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return err
		}
	}
	return nil
}
