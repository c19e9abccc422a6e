// Package model provides the viewer's scene-graph nodes, meshes and materials.
package model

import (
	gomath "math"

	"github.com/Faultbox/fridgeview/pkg/math"
)

// Vertex is a mesh vertex with position and normal.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
}

// Mesh holds immutable geometry ready for GPU upload.
// Meshes are shared between clones; only nodes are copied.
type Mesh struct {
	Name     string
	Vertices []Vertex
	Indices  []uint32
	Bounds   Bounds
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// EmptyBounds returns an inverted box that any Extend call will replace.
func EmptyBounds() Bounds {
	return Bounds{
		Min: [3]float32{gomath.MaxFloat32, gomath.MaxFloat32, gomath.MaxFloat32},
		Max: [3]float32{-gomath.MaxFloat32, -gomath.MaxFloat32, -gomath.MaxFloat32},
	}
}

// Valid reports whether the box contains at least one point.
func (b Bounds) Valid() bool {
	return b.Min[0] <= b.Max[0] && b.Min[1] <= b.Max[1] && b.Min[2] <= b.Max[2]
}

// Extend grows the box to include p.
func (b Bounds) Extend(p [3]float32) Bounds {
	for i := 0; i < 3; i++ {
		b.Min[i] = min(b.Min[i], p[i])
		b.Max[i] = max(b.Max[i], p[i])
	}
	return b
}

// Union returns the box containing both b and other.
func (b Bounds) Union(other Bounds) Bounds {
	if !other.Valid() {
		return b
	}
	return b.Extend(other.Min).Extend(other.Max)
}

// Size returns the extent along each axis.
func (b Bounds) Size() math.Vec3 {
	if !b.Valid() {
		return math.Vec3{}
	}
	return math.Vec3{X: b.Max[0] - b.Min[0], Y: b.Max[1] - b.Min[1], Z: b.Max[2] - b.Min[2]}
}

// Center returns the box midpoint.
func (b Bounds) Center() math.Vec3 {
	return math.Vec3{X: (b.Min[0] + b.Max[0]) / 2, Y: (b.Min[1] + b.Max[1]) / 2, Z: (b.Min[2] + b.Max[2]) / 2}
}

// Transform returns the axis-aligned box enclosing b after applying m.
func (b Bounds) Transform(m math.Mat4) Bounds {
	if !b.Valid() {
		return b
	}
	out := EmptyBounds()
	for i := 0; i < 8; i++ {
		corner := math.Vec3{X: b.Min[0], Y: b.Min[1], Z: b.Min[2]}
		if i&1 != 0 {
			corner.X = b.Max[0]
		}
		if i&2 != 0 {
			corner.Y = b.Max[1]
		}
		if i&4 != 0 {
			corner.Z = b.Max[2]
		}
		out = out.Extend(m.TransformPoint(corner).Array())
	}
	return out
}

// Material holds the shading inputs of a mesh node.
// Emissive and EmissiveIntensity form the emphasis channel used for highlighting.
type Material struct {
	BaseColor         [4]float32
	Emissive          [3]float32
	EmissiveIntensity float32
	Roughness         float32
	Metalness         float32
	// BackFace renders only inner faces (interior liners).
	BackFace bool
}

// DrawItem is one mesh instance ready for the renderer.
type DrawItem struct {
	Mesh     *Mesh
	World    math.Mat4
	Material Material
}
