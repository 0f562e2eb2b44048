package engine

import (
	"math"
	"testing"

	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/kernel/sdfx"
)

func TestPreprocessSource(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{"keyword", `(sphere :radius 5)`, `(sphere "__kw_radius" 5)`},
		{"several keywords", `(cylinder :height 10 :radius 3)`, `(cylinder "__kw_height" 10 "__kw_radius" 3)`},
		{"keyword inside string", `"a :b c"`, `"a :b c"`},
		{"escaped quote", `"say \":x\"" :y`, `"say \":x\"" "__kw_y"`},
		{"assignment kept", `(def x := 10)`, `(def x := 10)`},
		{"kebab identifier", `(def plate-width 40)`, `(def plate_width 40)`},
		{"minus kept", `(- 10 5)`, `(- 10 5)`},
		{"negative number kept", `(vec3 -5 0 0)`, `(vec3 -5 0 0)`},
		{"double semicolon comment", ";; note :kw\n(box 1 1 1)", "// note :kw\n(box 1 1 1)"},
		{"single semicolon comment", `; note`, `// note`},
		{"hyphen in keyword", `:head-dia`, `"__kw_head-dia"`},
		{"backtick string", "`raw ; text`", "`raw ; text`"},
		{"unterminated string", `"open`, `"open`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := preprocessSource(tt.input); got != tt.expect {
				t.Errorf("preprocessSource(%q) = %q, want %q", tt.input, got, tt.expect)
			}
		})
	}
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBuiltinsWithSdfx(t *testing.T) {
	eng := New(sdfx.New())

	tests := []struct {
		name string
		src  string
		want [3]float64
	}{
		{"box positional", `(defpart "p" (box 40 20 10))`, [3]float64{40, 20, 10}},
		{"box keywords", `(defpart "p" (box :z 10 :x 40 :y 20))`, [3]float64{40, 20, 10}},
		{"sphere", `(defpart "p" (sphere :radius 5))`, [3]float64{10, 10, 10}},
		{"cylinder", `(defpart "p" (cylinder 30 4))`, [3]float64{8, 8, 30}},
		{"union", `(defpart "p" (union (box 10 10 10) (translate (box 10 10 10) :x 20)))`, [3]float64{30, 10, 10}},
		{"difference keeps outer bounds", `(defpart "p" (difference (box 10 10 10) (sphere 3)))`, [3]float64{10, 10, 10}},
		{"rotate", `(defpart "p" (rotate (box 40 20 10) (vec3 0 0 90)))`, [3]float64{20, 40, 10}},
		{"kebab variable", "(def plate-size 12)\n(defpart \"p\" (box plate-size plate-size 2))", [3]float64{12, 12, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, evalErrs, err := eng.Load(tt.src)
			if err != nil || len(evalErrs) > 0 {
				t.Fatalf("Load: err=%v evalErrs=%v", err, evalErrs)
			}
			got := kernel.Extent(h.Solid)
			for i := range got {
				if !near(got[i], tt.want[i]) {
					t.Errorf("extent = %v, want %v", got, tt.want)
					break
				}
			}
		})
	}
}

func TestAssemblyPlacesParts(t *testing.T) {
	src := `
(defpart "rail" (box 100 4 4))
(defpart "post" (box 4 4 60))
(assembly "frame"
  (part "rail")
  (place (part "post") :at (vec3 48 0 32)))
`
	h, evalErrs, err := New(sdfx.New()).Load(src)
	if err != nil || len(evalErrs) > 0 {
		t.Fatalf("Load: err=%v evalErrs=%v", err, evalErrs)
	}
	min, max := h.Solid.BoundingBox()
	if !near(min[0], -50) || !near(max[0], 50) || !near(min[2], -2) || !near(max[2], 62) {
		t.Errorf("bounds = %v..%v", min, max)
	}
}
