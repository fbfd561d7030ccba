// Package tessellate walks a scene and produces triangle meshes using a
// geometry kernel. One mesh is produced per part.
package tessellate

import (
	"fmt"

	"github.com/chazu/carcass/pkg/geom"
	"github.com/chazu/carcass/pkg/kernel"
	"github.com/chazu/carcass/pkg/scene"
)

// transformStack accumulates node offsets during scene traversal.
type transformStack struct {
	translations []geom.Vector3D
}

func newTransformStack() *transformStack {
	return &transformStack{}
}

func (ts *transformStack) push(v geom.Vector3D) {
	ts.translations = append(ts.translations, v)
}

func (ts *transformStack) pop() {
	if len(ts.translations) > 0 {
		ts.translations = ts.translations[:len(ts.translations)-1]
	}
}

// accumulated returns the sum of all translations on the stack.
func (ts *transformStack) accumulated() geom.Vector3D {
	var sum geom.Vector3D
	for _, t := range ts.translations {
		sum = sum.Add(t)
	}
	return sum
}

// Tessellate walks the scene and produces one triangle mesh per part using
// the provided geometry kernel, in pre-order. Parts that are flat along
// any axis have no volume and are skipped. The scene is never mutated.
func Tessellate(s *scene.Scene, k kernel.Kernel) ([]*kernel.Mesh, error) {
	if s == nil {
		return nil, nil
	}
	meshes, err := walkNode(s, k, s.Root(), newTransformStack())
	if err != nil {
		return nil, fmt.Errorf("tessellate: %w", err)
	}
	return meshes, nil
}

// walkNode pushes the node's offset, meshes it if it is a part, then
// recurses into its children.
func walkNode(s *scene.Scene, k kernel.Kernel, id scene.NodeID, ts *transformStack) ([]*kernel.Mesh, error) {
	n, ok := s.Node(id)
	if !ok {
		return nil, fmt.Errorf("node %d does not exist", id)
	}

	ts.push(n.Position.Vector())
	defer ts.pop()

	children := n.Children()
	if len(children) == 0 && !n.IsRoot() {
		if !solid(n.Size) {
			return nil, nil
		}
		mesh, err := meshPart(k, n, ts.accumulated())
		if err != nil {
			return nil, err
		}
		return []*kernel.Mesh{mesh}, nil
	}

	var meshes []*kernel.Mesh
	for _, c := range children {
		collected, err := walkNode(s, k, c, ts)
		if err != nil {
			return nil, err
		}
		meshes = append(meshes, collected...)
	}
	return meshes, nil
}

// meshPart boxes a part node and moves it to its world position.
func meshPart(k kernel.Kernel, n scene.Node, at geom.Vector3D) (*kernel.Mesh, error) {
	sol := k.Box(n.Size.Width, n.Size.Height, n.Size.Depth)
	if !at.IsZero() {
		sol = k.Translate(sol, at.X, at.Y, at.Z)
	}

	mesh, err := k.ToMesh(sol)
	if err != nil {
		return nil, fmt.Errorf("ToMesh failed for part %q: %w", n.Name, err)
	}
	mesh.PartName = n.Name
	mesh.Kind = n.Kind
	mesh.Color = n.Style.Fill
	return mesh, nil
}

func solid(d geom.Dimensions3D) bool {
	return d.Width > 0 && d.Height > 0 && d.Depth > 0
}
