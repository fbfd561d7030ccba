// Package kernel defines the geometry kernel the preview mesher runs on.
// Cabinet parts are axis-aligned boxes, so a kernel only needs to make a
// box, move it and tessellate it.
package kernel

// Solid is an opaque handle to a geometry kernel solid.
// Implementations wrap their internal representation.
type Solid interface {
	// BoundingBox returns the axis-aligned bounding box.
	BoundingBox() (min, max [3]float64)
}

// Kernel is the abstract geometry kernel interface.
type Kernel interface {
	// Box returns a w x h x d box with its minimum corner at the origin.
	Box(w, h, d float64) Solid

	// Translate moves a solid by (x, y, z).
	Translate(s Solid, x, y, z float64) Solid

	// ToMesh tessellates a solid.
	ToMesh(s Solid) (*Mesh, error)
}
