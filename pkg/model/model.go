// Package model defines the handle to an active CAD document as the
// drawing pipeline sees it. The document kind is carried explicitly so it
// can be checked once, at the drawing boundary.
package model

import (
	"fmt"

	"github.com/chazu/drafter/pkg/kernel"
)

// DocumentKind tags the type of a CAD document.
type DocumentKind int

const (
	Part DocumentKind = iota
	Assembly
	Drawing
)

func (k DocumentKind) String() string {
	switch k {
	case Part:
		return "part"
	case Assembly:
		return "assembly"
	case Drawing:
		return "drawing"
	default:
		return fmt.Sprintf("document(%d)", int(k))
	}
}

// Handle refers to one CAD document and its evaluated geometry.
// For assemblies Solid is the union of the member parts and Parts lists
// their names in declaration order.
type Handle struct {
	Name  string
	Kind  DocumentKind
	Solid kernel.Solid
	Parts []string
}

// NewPart returns a part handle.
func NewPart(name string, s kernel.Solid) *Handle {
	return &Handle{Name: name, Kind: Part, Solid: s}
}

// NewAssembly returns an assembly handle over the named parts.
func NewAssembly(name string, s kernel.Solid, parts ...string) *Handle {
	return &Handle{Name: name, Kind: Assembly, Solid: s, Parts: parts}
}

// IsPart reports whether h is a part document.
func (h *Handle) IsPart() bool {
	return h != nil && h.Kind == Part
}

func (h *Handle) String() string {
	if h == nil {
		return "<no document>"
	}
	return fmt.Sprintf("%s %q", h.Kind, h.Name)
}
