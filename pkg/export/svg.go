package export

import (
	"bufio"
	"math"
	"os"

	svg "github.com/ajstarks/svgo"

	"github.com/chazu/drafter/pkg/host"
	"github.com/chazu/drafter/pkg/views"
)

// svgUnits is the number of SVG user units per sheet unit. Sheet units
// are centimetres and the document is sized in millimetres, so one user
// unit is a hundredth of a millimetre.
const svgUnits = 1000

const (
	sheetStyle   = "fill:none;stroke:black;stroke-width:50"
	visibleStyle = "fill:none;stroke:black;stroke-width:35;stroke-linecap:round"
	hiddenStyle  = "fill:none;stroke:black;stroke-width:25;stroke-dasharray:300,150"
)

// writeSVG saves the sheet as an SVG document with the sheet origin at
// the bottom left corner.
func writeSVG(s *host.Sheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)

	w, h := units(s.Width), units(s.Height)
	canvas := svg.New(bw)
	canvas.StartviewUnit(int(math.Round(s.Width*10)), int(math.Round(s.Height*10)), "mm", 0, 0, w, h)
	canvas.Rect(0, 0, w, h, sheetStyle)

	line := func(l host.Line) {
		a, b := toSVG(l.A, h), toSVG(l.B, h)
		canvas.Line(a[0], a[1], b[0], b[1])
	}
	for _, v := range s.Views {
		canvas.Gid(v.Orientation.String())
		canvas.Gstyle(visibleStyle)
		for _, l := range v.Visible {
			line(l)
		}
		canvas.Gend()
		if len(v.Hidden) > 0 {
			canvas.Gstyle(hiddenStyle)
			for _, l := range v.Hidden {
				line(l)
			}
			canvas.Gend()
		}
		canvas.Gend()
	}
	canvas.End()

	if err := bw.Flush(); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

func units(v float64) int {
	return int(math.Round(v * svgUnits))
}

// toSVG flips y so that sheet y grows upward.
func toSVG(p views.Point, height int) [2]int {
	return [2]int{units(p.X), height - units(p.Y)}
}
