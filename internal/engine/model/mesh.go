package model

import (
	gomath "math"
)

// NewMesh builds a mesh and computes its bounds.
func NewMesh(name string, vertices []Vertex, indices []uint32) *Mesh {
	b := EmptyBounds()
	for _, v := range vertices {
		b = b.Extend(v.Position)
	}
	return &Mesh{Name: name, Vertices: vertices, Indices: indices, Bounds: b}
}

// Box creates an axis-aligned box centered on the origin.
func Box(width, height, depth float32) *Mesh {
	hx, hy, hz := width/2, height/2, depth/2

	// One quad per face: normal, then four corners counter-clockwise seen from outside.
	faces := []struct {
		n       [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, hz}, {hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, -hz}, {-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}, {-hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz}}},
	}

	vertices := make([]Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for _, c := range f.corners {
			vertices = append(vertices, Vertex{Position: c, Normal: f.n})
		}
		indices = append(indices, base, base+1, base+2, base, base+2, base+3)
	}
	return NewMesh("box", vertices, indices)
}

// Sphere creates a UV sphere centered on the origin.
func Sphere(radius float32, segments, rings int) *Mesh {
	segments = max(segments, 3)
	rings = max(rings, 2)

	vertices := make([]Vertex, 0, (segments+1)*(rings+1))
	for r := 0; r <= rings; r++ {
		phi := gomath.Pi * float64(r) / float64(rings)
		sinPhi, cosPhi := gomath.Sincos(phi)
		for s := 0; s <= segments; s++ {
			theta := 2 * gomath.Pi * float64(s) / float64(segments)
			sinTheta, cosTheta := gomath.Sincos(theta)
			n := [3]float32{float32(sinPhi * cosTheta), float32(cosPhi), float32(sinPhi * sinTheta)}
			vertices = append(vertices, Vertex{
				Position: [3]float32{n[0] * radius, n[1] * radius, n[2] * radius},
				Normal:   n,
			})
		}
	}

	stride := uint32(segments + 1)
	indices := make([]uint32, 0, segments*rings*6)
	for r := uint32(0); r < uint32(rings); r++ {
		for s := uint32(0); s < uint32(segments); s++ {
			a := r*stride + s
			b := a + stride
			indices = append(indices, a, a+1, b, b, a+1, b+1)
		}
	}
	return NewMesh("sphere", vertices, indices)
}

// Cylinder creates a capped cylinder along Y centered on the origin.
// A zero top radius produces a cone.
func Cylinder(radiusTop, radiusBottom, height float32, segments int) *Mesh {
	segments = max(segments, 3)
	hy := height / 2

	var vertices []Vertex
	var indices []uint32

	// Side normals tilt by the radius difference so cones shade correctly.
	slope := (radiusBottom - radiusTop) / height
	for s := 0; s <= segments; s++ {
		theta := 2 * gomath.Pi * float64(s) / float64(segments)
		sin, cos := gomath.Sincos(theta)
		x, z := float32(cos), float32(sin)
		n := normalize3([3]float32{x, slope, z})
		vertices = append(vertices,
			Vertex{Position: [3]float32{x * radiusTop, hy, z * radiusTop}, Normal: n},
			Vertex{Position: [3]float32{x * radiusBottom, -hy, z * radiusBottom}, Normal: n},
		)
	}
	for s := uint32(0); s < uint32(segments); s++ {
		top, bottom := s*2, s*2+1
		nextTop, nextBottom := top+2, bottom+2
		indices = append(indices, top, nextTop, bottom, bottom, nextTop, nextBottom)
	}

	addCap := func(y, radius, ny float32) {
		if radius <= 0 {
			return
		}
		center := uint32(len(vertices))
		vertices = append(vertices, Vertex{Position: [3]float32{0, y, 0}, Normal: [3]float32{0, ny, 0}})
		for s := 0; s <= segments; s++ {
			theta := 2 * gomath.Pi * float64(s) / float64(segments)
			sin, cos := gomath.Sincos(theta)
			vertices = append(vertices, Vertex{
				Position: [3]float32{float32(cos) * radius, y, float32(sin) * radius},
				Normal:   [3]float32{0, ny, 0},
			})
		}
		for s := uint32(0); s < uint32(segments); s++ {
			if ny > 0 {
				indices = append(indices, center, center+s+2, center+s+1)
			} else {
				indices = append(indices, center, center+s+1, center+s+2)
			}
		}
	}
	addCap(hy, radiusTop, 1)
	addCap(-hy, radiusBottom, -1)

	return NewMesh("cylinder", vertices, indices)
}

// Cone creates a cone along Y with its tip up.
func Cone(radius, height float32, segments int) *Mesh {
	m := Cylinder(0, radius, height, segments)
	m.Name = "cone"
	return m
}

func normalize3(v [3]float32) [3]float32 {
	l := float32(gomath.Sqrt(float64(v[0]*v[0] + v[1]*v[1] + v[2]*v[2])))
	if l < 1e-6 {
		return [3]float32{0, 1, 0}
	}
	return [3]float32{v[0] / l, v[1] / l, v[2] / l}
}
