// Package geom provides the axis-aligned vector and box arithmetic used by
// the cabinet engine. All values are in inches.
package geom

import (
	"fmt"
	"math"

	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vector3D is a point or offset in 3D space.
type Vector3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// V returns the vector (x, y, z).
func V(x, y, z float64) Vector3D {
	return Vector3D{X: x, Y: y, Z: z}
}

// Add returns a + b.
func (a Vector3D) Add(b Vector3D) Vector3D {
	return Vector3D{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns a - b.
func (a Vector3D) Sub(b Vector3D) Vector3D {
	return Vector3D{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Scale returns a scaled by k.
func (a Vector3D) Scale(k float64) Vector3D {
	return Vector3D{a.X * k, a.Y * k, a.Z * k}
}

// Min returns the component-wise minimum of a and b.
func (a Vector3D) Min(b Vector3D) Vector3D {
	return Vector3D{math.Min(a.X, b.X), math.Min(a.Y, b.Y), math.Min(a.Z, b.Z)}
}

// Max returns the component-wise maximum of a and b.
func (a Vector3D) Max(b Vector3D) Vector3D {
	return Vector3D{math.Max(a.X, b.X), math.Max(a.Y, b.Y), math.Max(a.Z, b.Z)}
}

// IsZero reports whether all components are exactly zero.
func (a Vector3D) IsZero() bool {
	return a.X == 0 && a.Y == 0 && a.Z == 0
}

// Equals reports whether a and b agree on every axis within tol.
func (a Vector3D) Equals(b Vector3D, tol float64) bool {
	return math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol &&
		math.Abs(a.Z-b.Z) <= tol
}

func (a Vector3D) String() string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", a.X, a.Y, a.Z)
}

func (a Vector3D) sdf() v3.Vec {
	return v3.Vec{X: a.X, Y: a.Y, Z: a.Z}
}

func fromSDF(v v3.Vec) Vector3D {
	return Vector3D{X: v.X, Y: v.Y, Z: v.Z}
}

// ---------------------------------------------------------------------------
// Dimensions and positions
// ---------------------------------------------------------------------------

// Dimensions3D is an extent along the width (x), height (y) and depth (z)
// axes. A valid Dimensions3D has no negative component.
type Dimensions3D struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Dims returns the dimensions (w, h, d).
func Dims(w, h, d float64) Dimensions3D {
	return Dimensions3D{Width: w, Height: h, Depth: d}
}

// Vector returns the dimensions as an (x, y, z) vector.
func (d Dimensions3D) Vector() Vector3D {
	return Vector3D{d.Width, d.Height, d.Depth}
}

// Valid reports whether every component is finite and non-negative.
func (d Dimensions3D) Valid() bool {
	for _, c := range [...]float64{d.Width, d.Height, d.Depth} {
		if c < 0 || math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// HasGeometry reports whether at least one component is strictly positive.
func (d Dimensions3D) HasGeometry() bool {
	return d.Width > 0 || d.Height > 0 || d.Depth > 0
}

func (d Dimensions3D) String() string {
	return fmt.Sprintf("%.3f x %.3f x %.3f", d.Width, d.Height, d.Depth)
}

// Position3D is a location relative to the immediate parent's local
// origin. It is never a world coordinate.
type Position3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Pos returns the position (x, y, z).
func Pos(x, y, z float64) Position3D {
	return Position3D{X: x, Y: y, Z: z}
}

// Vector returns the position as an offset vector.
func (p Position3D) Vector() Vector3D {
	return Vector3D{p.X, p.Y, p.Z}
}

func (p Position3D) String() string {
	return p.Vector().String()
}

// NonNegative reports whether the position lies in the positive octant.
func (p Position3D) NonNegative() bool {
	return p.X >= 0 && p.Y >= 0 && p.Z >= 0
}
