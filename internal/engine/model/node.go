package model

import (
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Transform is a translation/rotation/scale triple.
type Transform struct {
	Translation math.Vec3
	Rotation    math.Quat
	Scale       math.Vec3
}

// IdentityTransform returns a transform that leaves points unchanged.
func IdentityTransform() Transform {
	return Transform{Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
}

// At returns an identity transform translated to p.
func At(p math.Vec3) Transform {
	t := IdentityTransform()
	t.Translation = p
	return t
}

// Matrix returns T * R * S.
func (t Transform) Matrix() math.Mat4 {
	return math.Compose(t.Translation, t.Rotation, t.Scale)
}

// Node is a scene-graph node. A node with a nil Mesh is a pure group.
type Node struct {
	Name      string
	Transform Transform
	Mesh      *Mesh
	Material  Material
	Hidden    bool
	Children  []*Node
}

// NewGroup creates an empty group node.
func NewGroup(name string) *Node {
	return &Node{Name: name, Transform: IdentityTransform()}
}

// NewMeshNode creates a leaf node drawing mesh with material at transform.
func NewMeshNode(name string, mesh *Mesh, mat Material, t Transform) *Node {
	return &Node{Name: name, Transform: t, Mesh: mesh, Material: mat}
}

// Add appends children and returns n for chaining.
func (n *Node) Add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// Clone deep-copies the node tree. Transforms and materials are owned by the
// copy; mesh geometry is shared.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return &c
}

// Walk visits every node depth-first, parent before children.
func (n *Node) Walk(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// WalkWorld visits every node with its world matrix. Returning false skips the subtree.
func (n *Node) WalkWorld(parent math.Mat4, fn func(node *Node, world math.Mat4) bool) {
	if n == nil {
		return
	}
	world := parent.Mul(n.Transform.Matrix())
	if !fn(n, world) {
		return
	}
	for _, child := range n.Children {
		child.WalkWorld(world, fn)
	}
}

// Find returns the first node with the given name, depth-first.
func (n *Node) Find(name string) *Node {
	if n == nil || name == "" {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, child := range n.Children {
		if found := child.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindWorld returns the named node and its world matrix under parent.
func (n *Node) FindWorld(parent math.Mat4, name string) (*Node, math.Mat4, bool) {
	var (
		found *Node
		at    math.Mat4
	)
	n.WalkWorld(parent, func(node *Node, world math.Mat4) bool {
		if found != nil {
			return false
		}
		if node.Name == name {
			found, at = node, world
			return false
		}
		return true
	})
	return found, at, found != nil
}

// Detach removes child from n's subtree. It reports whether child was found.
func (n *Node) Detach(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
		if c.Detach(child) {
			return true
		}
	}
	return false
}

// Bounds returns the box enclosing every visible mesh under parent.
func (n *Node) Bounds(parent math.Mat4) Bounds {
	return n.SubtreeBounds(parent.Mul(n.Transform.Matrix()))
}

// SubtreeBounds returns the box enclosing every visible mesh of n, given n's
// own world matrix.
func (n *Node) SubtreeBounds(world math.Mat4) Bounds {
	b := EmptyBounds()
	if n == nil || n.Hidden {
		return b
	}
	if n.Mesh != nil {
		b = b.Union(n.Mesh.Bounds.Transform(world))
	}
	for _, child := range n.Children {
		b = b.Union(child.SubtreeBounds(world.Mul(child.Transform.Matrix())))
	}
	return b
}

// Collect emits a DrawItem for every visible mesh under parent.
func (n *Node) Collect(parent math.Mat4, emit func(DrawItem)) {
	n.WalkWorld(parent, func(node *Node, world math.Mat4) bool {
		if node.Hidden {
			return false
		}
		if node.Mesh != nil {
			emit(DrawItem{Mesh: node.Mesh, World: world, Material: node.Material})
		}
		return true
	})
}
