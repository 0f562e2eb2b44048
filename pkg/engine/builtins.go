package engine

import (
	"fmt"
	"strings"

	zygo "github.com/glycerine/zygomys/zygo"

	"github.com/chazu/drafter/pkg/kernel"
	"github.com/chazu/drafter/pkg/model"
)

// scene collects what a script declares during one evaluation.
type scene struct {
	kernel kernel.Kernel
	parts  map[string]kernel.Solid
	active *model.Handle
}

func newScene(k kernel.Kernel) *scene {
	return &scene{kernel: k, parts: make(map[string]kernel.Solid)}
}

// sexpSolid carries a kernel solid between builtins.
type sexpSolid struct {
	solid kernel.Solid
	desc  string
}

func (s *sexpSolid) SexpString(ps *zygo.PrintState) string { return s.desc }
func (s *sexpSolid) Type() *zygo.RegisteredType            { return nil }

// sexpPart is a declared part, or a placed copy of one inside an assembly.
type sexpPart struct {
	name  string
	solid kernel.Solid
}

func (p *sexpPart) SexpString(ps *zygo.PrintState) string { return fmt.Sprintf("(part %q)", p.name) }
func (p *sexpPart) Type() *zygo.RegisteredType            { return nil }

type sexpVec3 struct {
	v [3]float64
}

func (v *sexpVec3) SexpString(ps *zygo.PrintState) string {
	return fmt.Sprintf("(vec3 %g %g %g)", v.v[0], v.v[1], v.v[2])
}
func (v *sexpVec3) Type() *zygo.RegisteredType { return nil }

// kwArgs splits an argument list into keyword and positional arguments.
type kwArgs struct {
	kw         map[string]zygo.Sexp
	positional []zygo.Sexp
}

func parseArgs(args []zygo.Sexp) kwArgs {
	res := kwArgs{kw: make(map[string]zygo.Sexp)}
	for i := 0; i < len(args); i++ {
		if name, ok := isKW(args[i]); ok {
			if i+1 < len(args) {
				res.kw[name] = args[i+1]
				i++
			} else {
				res.kw[name] = zygo.SexpNull
			}
			continue
		}
		res.positional = append(res.positional, args[i])
	}
	return res
}

func isKW(s zygo.Sexp) (string, bool) {
	str, ok := s.(*zygo.SexpStr)
	if !ok || !strings.HasPrefix(str.S, kwPrefix) {
		return "", false
	}
	return str.S[len(kwPrefix):], true
}

func describe(s zygo.Sexp) string {
	if s == nil {
		return "nil"
	}
	return s.SexpString(nil)
}

func toFloat64(s zygo.Sexp) (float64, error) {
	switch v := s.(type) {
	case *zygo.SexpInt:
		return float64(v.Val), nil
	case *zygo.SexpFloat:
		return v.Val, nil
	}
	return 0, fmt.Errorf("expected number, got %s", describe(s))
}

func toString(s zygo.Sexp) (string, error) {
	if str, ok := s.(*zygo.SexpStr); ok && !strings.HasPrefix(str.S, kwPrefix) {
		return str.S, nil
	}
	return "", fmt.Errorf("expected string, got %s", describe(s))
}

func toSolid(s zygo.Sexp) (kernel.Solid, error) {
	switch v := s.(type) {
	case *sexpSolid:
		return v.solid, nil
	case *sexpPart:
		return v.solid, nil
	}
	return nil, fmt.Errorf("expected solid, got %s", describe(s))
}

func toVec3(s zygo.Sexp) ([3]float64, error) {
	if v, ok := s.(*sexpVec3); ok {
		return v.v, nil
	}
	return [3]float64{}, fmt.Errorf("expected vec3, got %s", describe(s))
}

// numbers reads named numeric arguments, each given by keyword or else by
// position in the order of names.
func numbers(fn string, args []zygo.Sexp, names ...string) ([]float64, error) {
	pa := parseArgs(args)
	out := make([]float64, len(names))
	for i, n := range names {
		v, ok := pa.kw[n]
		if !ok {
			if i >= len(pa.positional) {
				return nil, fmt.Errorf("%s: missing %s", fn, n)
			}
			v = pa.positional[i]
		}
		f, err := toFloat64(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", fn, n, err)
		}
		out[i] = f
	}
	return out, nil
}

// vectorArg reads a vec3 given as the second positional argument, or as
// :x :y :z keywords defaulting to zero.
func vectorArg(fn string, pa kwArgs) ([3]float64, error) {
	if len(pa.positional) >= 2 {
		v, err := toVec3(pa.positional[1])
		if err != nil {
			return v, fmt.Errorf("%s: %w", fn, err)
		}
		return v, nil
	}
	var v [3]float64
	for i, n := range []string{"x", "y", "z"} {
		s, ok := pa.kw[n]
		if !ok {
			continue
		}
		f, err := toFloat64(s)
		if err != nil {
			return v, fmt.Errorf("%s: %s: %w", fn, n, err)
		}
		v[i] = f
	}
	return v, nil
}

type builtin = func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error)

// registerBuiltins installs the modeling builtins into env. They build
// solids with the scene's kernel and record declared documents on it.
// Source must go through preprocessSource first so keywords are marked.
func registerBuiltins(env *zygo.Zlisp, sc *scene) {
	k := sc.kernel

	// (box 40 20 10) or (box :x 40 :y 20 :z 10)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("box", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Box(d[0], d[1], d[2])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("(box %g %g %g)", d[0], d[1], d[2])}, nil
	})

	// (cylinder :height 10 :radius 3)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("cylinder", args, "height", "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Cylinder(d[0], d[1])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("(cylinder %g %g)", d[0], d[1])}, nil
	})

	// (sphere :radius 5)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		d, err := numbers("sphere", args, "radius")
		if err != nil {
			return zygo.SexpNull, err
		}
		s, err := k.Sphere(d[0])
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpSolid{solid: s, desc: fmt.Sprintf("(sphere %g)", d[0])}, nil
	})

	// (union a b ...), (difference a b ...), (intersection a b ...)
	boolean := func(op string, combine func(a, b kernel.Solid) kernel.Solid) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			if len(args) < 2 {
				return zygo.SexpNull, fmt.Errorf("%s requires at least two solids, got %d", op, len(args))
			}
			acc, err := toSolid(args[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: operand 1: %w", op, err)
			}
			for i, a := range args[1:] {
				s, err := toSolid(a)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("%s: operand %d: %w", op, i+2, err)
				}
				acc = combine(acc, s)
			}
			return &sexpSolid{solid: acc, desc: fmt.Sprintf("(%s ...)", op)}, nil
		}
	}
	env.AddFunction("union", boolean("union", k.Union))
	env.AddFunction("difference", boolean("difference", k.Difference))
	env.AddFunction("intersection", boolean("intersection", k.Intersection))

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		d, err := numbers("vec3", args, "x", "y", "z")
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpVec3{v: [3]float64{d[0], d[1], d[2]}}, nil
	})

	// (translate s (vec3 10 0 0)) or (translate s :x 10)
	// (rotate s (vec3 0 0 90)) or (rotate s :z 90), in degrees
	transform := func(op string, apply func(s kernel.Solid, x, y, z float64) kernel.Solid) builtin {
		return func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
			pa := parseArgs(args)
			if len(pa.positional) < 1 {
				return zygo.SexpNull, fmt.Errorf("%s requires a solid as first argument", op)
			}
			s, err := toSolid(pa.positional[0])
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("%s: %w", op, err)
			}
			v, err := vectorArg(op, pa)
			if err != nil {
				return zygo.SexpNull, err
			}
			return &sexpSolid{
				solid: apply(s, v[0], v[1], v[2]),
				desc:  fmt.Sprintf("(%s %s %g %g %g)", op, describe(pa.positional[0]), v[0], v[1], v[2]),
			}, nil
		}
	}
	env.AddFunction("translate", transform("translate", k.Translate))
	env.AddFunction("rotate", transform("rotate", k.Rotate))

	// (defpart "bracket" solid)
	env.AddFunction("defpart", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("defpart requires a name and a solid")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart: name: %w", err)
		}
		if _, dup := sc.parts[partName]; dup {
			return zygo.SexpNull, fmt.Errorf("defpart: part %q already declared", partName)
		}
		s, err := toSolid(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("defpart %q: %w", partName, err)
		}
		sc.parts[partName] = s
		sc.active = model.NewPart(partName, s)
		return &sexpPart{name: partName, solid: s}, nil
	})

	// (part "bracket")
	env.AddFunction("part", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("part requires a name argument")
		}
		partName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("part: name: %w", err)
		}
		s, ok := sc.parts[partName]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("part: no part named %q", partName)
		}
		return &sexpPart{name: partName, solid: s}, nil
	})

	// (place (part "leg") :at (vec3 0 0 19) :rotate (vec3 0 0 90))
	env.AddFunction("place", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if len(pa.positional) != 1 {
			return zygo.SexpNull, fmt.Errorf("place requires a part reference as first argument")
		}
		p, ok := pa.positional[0].(*sexpPart)
		if !ok {
			return zygo.SexpNull, fmt.Errorf("place: expected part reference, got %s", describe(pa.positional[0]))
		}
		s := p.solid
		if v, ok := pa.kw["rotate"]; ok {
			r, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: rotate: %w", err)
			}
			s = k.Rotate(s, r[0], r[1], r[2])
		}
		if v, ok := pa.kw["at"]; ok {
			at, err := toVec3(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("place: at: %w", err)
			}
			s = k.Translate(s, at[0], at[1], at[2])
		}
		return &sexpPart{name: p.name, solid: s}, nil
	})

	// (assembly "frame" (part "rail") (place (part "post") :at (vec3 0 0 10)))
	env.AddFunction("assembly", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) < 2 {
			return zygo.SexpNull, fmt.Errorf("assembly requires a name and at least one part")
		}
		asmName, err := toString(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("assembly: name: %w", err)
		}
		var (
			solid kernel.Solid
			names []string
		)
		for i, a := range args[1:] {
			p, ok := a.(*sexpPart)
			if !ok {
				return zygo.SexpNull, fmt.Errorf("assembly: member %d: expected part reference, got %s", i+1, describe(a))
			}
			names = append(names, p.name)
			if solid == nil {
				solid = p.solid
			} else {
				solid = k.Union(solid, p.solid)
			}
		}
		sc.active = model.NewAssembly(asmName, solid, names...)
		return &sexpSolid{solid: solid, desc: fmt.Sprintf("(assembly %q)", asmName)}, nil
	})
}
