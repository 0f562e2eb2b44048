// Package views defines the six standard orthographic view kinds and the
// fixed sheet placement of each. The placement table is static: the view
// set and the sheet size are both known in advance, so positions are a
// fixed grid rather than a computed layout.
package views

import (
	"fmt"
	"strings"
)

// Kind enumerates the orthographic view directions.
// The declaration order is the canonical enumeration order used by
// selection vectors and layout plans.
type Kind int

const (
	Top Kind = iota
	Bottom
	Front
	Back
	Left
	Right
)

// Count is the number of view kinds.
const Count = 6

// Kinds lists every view kind in enumeration order.
var Kinds = [Count]Kind{Top, Bottom, Front, Back, Left, Right}

func (k Kind) String() string {
	switch k {
	case Top:
		return "top"
	case Bottom:
		return "bottom"
	case Front:
		return "front"
	case Back:
		return "back"
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Valid reports whether k is one of the six view kinds.
func (k Kind) Valid() bool {
	return k >= Top && k <= Right
}

// ParseKind converts a name such as "front" or "Front View" to a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	name = strings.TrimSuffix(name, " view")
	for _, k := range Kinds {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown view %q, expected top/bottom/front/back/left/right", s)
}

// Style is the rendering style of a placed view.
type Style int

const (
	// HiddenLine draws occluded edges distinctly from visible edges.
	HiddenLine Style = iota
)

func (s Style) String() string {
	if s == HiddenLine {
		return "hidden-line"
	}
	return "unknown"
}

// Point is a position on the sheet, in sheet units.
type Point struct {
	X, Y float64
}

// Placement describes where and how one view kind is laid on the sheet.
type Placement struct {
	Kind        Kind
	Position    Point
	Orientation Kind
	Style       Style
}

// DefaultScale is the model-to-sheet scale shared by every placed view.
const DefaultScale = 0.5

var catalog = [Count]Placement{
	Top:    {Kind: Top, Position: Point{5.0, 4.0}, Orientation: Top, Style: HiddenLine},
	Bottom: {Kind: Bottom, Position: Point{15.0, 4.0}, Orientation: Bottom, Style: HiddenLine},
	Front:  {Kind: Front, Position: Point{25.0, 4.0}, Orientation: Front, Style: HiddenLine},
	Back:   {Kind: Back, Position: Point{5.0, 14.0}, Orientation: Back, Style: HiddenLine},
	Left:   {Kind: Left, Position: Point{15.0, 14.0}, Orientation: Left, Style: HiddenLine},
	Right:  {Kind: Right, Position: Point{25.0, 14.0}, Orientation: Right, Style: HiddenLine},
}

// PlacementFor returns the fixed placement of k.
// It panics if k is not one of the six view kinds.
func PlacementFor(k Kind) Placement {
	if !k.Valid() {
		panic(fmt.Sprintf("views: no placement for %v", k))
	}
	return catalog[k]
}

// Catalog returns all placements in enumeration order.
func Catalog() []Placement {
	out := make([]Placement, Count)
	copy(out, catalog[:])
	return out
}
