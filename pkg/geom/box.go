package geom

import (
	"fmt"

	"github.com/deadsy/sdfx/sdf"
)

// Box3D is an axis-aligned box given by its minimum and maximum corners.
type Box3D struct {
	Min Vector3D `json:"min"`
	Max Vector3D `json:"max"`
}

// NewBox returns the box with the given origin (minimum corner) and size.
func NewBox(origin Vector3D, size Dimensions3D) Box3D {
	return Box3D{Min: origin, Max: origin.Add(size.Vector())}
}

// BoxFromMinMax returns the box spanning a and b. The corners may be given
// in any order.
func BoxFromMinMax(a, b Vector3D) Box3D {
	return Box3D{Min: a.Min(b), Max: a.Max(b)}
}

// Origin returns the minimum corner.
func (b Box3D) Origin() Vector3D {
	return b.Min
}

// Size returns the extent of the box along each axis.
func (b Box3D) Size() Dimensions3D {
	s := b.Max.Sub(b.Min)
	return Dimensions3D{Width: s.X, Height: s.Y, Depth: s.Z}
}

// Center returns the midpoint of the box.
func (b Box3D) Center() Vector3D {
	return b.Min.Add(b.Max).Scale(0.5)
}

// IsDegenerate reports whether the box has zero extent on every axis.
func (b Box3D) IsDegenerate() bool {
	return b.Min == b.Max
}

// Translate returns the box moved by offset.
func (b Box3D) Translate(offset Vector3D) Box3D {
	return Box3D{Min: b.Min.Add(offset), Max: b.Max.Add(offset)}
}

// Union returns the smallest box enclosing both b and o. A degenerate box
// never enlarges the union with a non-degenerate one.
func (b Box3D) Union(o Box3D) Box3D {
	switch {
	case o.IsDegenerate() && !b.IsDegenerate():
		return b
	case b.IsDegenerate() && !o.IsDegenerate():
		return o
	}
	u := b.sdf().Extend(o.sdf())
	return Box3D{Min: fromSDF(u.Min), Max: fromSDF(u.Max)}
}

// Contains reports whether o lies inside b, allowing tol on every face.
func (b Box3D) Contains(o Box3D, tol float64) bool {
	return o.Min.X >= b.Min.X-tol && o.Min.Y >= b.Min.Y-tol && o.Min.Z >= b.Min.Z-tol &&
		o.Max.X <= b.Max.X+tol && o.Max.Y <= b.Max.Y+tol && o.Max.Z <= b.Max.Z+tol
}

// Equals reports whether both corners agree within tol.
func (b Box3D) Equals(o Box3D, tol float64) bool {
	return b.Min.Equals(o.Min, tol) && b.Max.Equals(o.Max, tol)
}

func (b Box3D) String() string {
	return fmt.Sprintf("[%s .. %s]", b.Min, b.Max)
}

func (b Box3D) sdf() sdf.Box3 {
	return sdf.Box3{Min: b.Min.sdf(), Max: b.Max.sdf()}
}

// UnionAll folds Union over boxes. It returns the zero box when boxes is
// empty.
func UnionAll(boxes ...Box3D) Box3D {
	var acc Box3D
	for i, b := range boxes {
		if i == 0 {
			acc = b
			continue
		}
		acc = acc.Union(b)
	}
	return acc
}
