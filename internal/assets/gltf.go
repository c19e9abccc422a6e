package assets

import (
	"bytes"
	"errors"
	"fmt"
	gomath "math"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// ErrEmptyModel is returned when a model decodes but contains no geometry.
var ErrEmptyModel = errors.New("model has no geometry")

// DecodeGLTF decodes a GLB or self-contained glTF document into a node tree.
// External buffer URIs are not supported.
func DecodeGLTF(data []byte) (*model.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding gltf: %w", err)
	}

	d := &gltfDecoder{doc: doc, meshes: make(map[int][]*model.Node)}
	root := model.NewGroup("")

	var roots []int
	switch {
	case len(doc.Scenes) > 0:
		scene := 0
		if doc.Scene != nil {
			scene = int(*doc.Scene)
		}
		if scene >= len(doc.Scenes) {
			return nil, fmt.Errorf("decoding gltf: scene %d out of range", scene)
		}
		for _, n := range doc.Scenes[scene].Nodes {
			roots = append(roots, int(n))
		}
	default:
		roots = topLevelNodes(doc.Nodes)
	}

	for _, i := range roots {
		n, err := d.node(i, 0)
		if err != nil {
			return nil, err
		}
		root.Add(n)
	}

	if d.primitives == 0 {
		return nil, ErrEmptyModel
	}
	return root, nil
}

// topLevelNodes returns the nodes that no other node lists as a child.
func topLevelNodes(nodes []*gltf.Node) []int {
	child := make(map[int]bool)
	for _, n := range nodes {
		if n == nil {
			continue
		}
		for _, c := range n.Children {
			child[int(c)] = true
		}
	}
	var roots []int
	for i := range nodes {
		if !child[i] {
			roots = append(roots, i)
		}
	}
	return roots
}

// maxNodeDepth guards against cyclic node references.
const maxNodeDepth = 64

type gltfDecoder struct {
	doc        *gltf.Document
	meshes     map[int][]*model.Node
	primitives int
}

func (d *gltfDecoder) node(i, depth int) (*model.Node, error) {
	if i < 0 || i >= len(d.doc.Nodes) {
		return nil, fmt.Errorf("decoding gltf: node %d out of range", i)
	}
	if depth > maxNodeDepth {
		return nil, fmt.Errorf("decoding gltf: node hierarchy deeper than %d", maxNodeDepth)
	}
	src := d.doc.Nodes[i]
	if src == nil {
		return nil, fmt.Errorf("decoding gltf: node %d is null", i)
	}

	out := model.NewGroup(src.Name)
	out.Transform = nodeTransform(src)

	if src.Mesh != nil {
		prims, err := d.mesh(int(*src.Mesh))
		if err != nil {
			return nil, err
		}
		// Each instance owns its primitive nodes; geometry stays shared.
		for _, p := range prims {
			out.Add(p.Clone())
		}
	}

	for _, c := range src.Children {
		child, err := d.node(int(c), depth+1)
		if err != nil {
			return nil, err
		}
		out.Add(child)
	}
	return out, nil
}

func (d *gltfDecoder) mesh(i int) ([]*model.Node, error) {
	if prims, ok := d.meshes[i]; ok {
		return prims, nil
	}
	if i < 0 || i >= len(d.doc.Meshes) {
		return nil, fmt.Errorf("decoding gltf: mesh %d out of range", i)
	}
	src := d.doc.Meshes[i]

	var prims []*model.Node
	for pi, p := range src.Primitives {
		if p.Mode != gltf.PrimitiveTriangles {
			continue
		}
		mesh, err := d.primitive(p, fmt.Sprintf("%s#%d", src.Name, pi))
		if err != nil {
			return nil, fmt.Errorf("decoding mesh %q: %w", src.Name, err)
		}
		mat := defaultMaterial()
		if p.Material != nil {
			mat = d.material(int(*p.Material))
		}
		prims = append(prims, model.NewMeshNode(mesh.Name, mesh, mat, model.IdentityTransform()))
		d.primitives++
	}
	d.meshes[i] = prims
	return prims, nil
}

func (d *gltfDecoder) primitive(p *gltf.Primitive, name string) (*model.Mesh, error) {
	posIdx, ok := p.Attributes[gltf.POSITION]
	if !ok {
		return nil, errors.New("primitive has no POSITION")
	}
	acc, err := d.accessor(posIdx)
	if err != nil {
		return nil, err
	}
	positions, err := modeler.ReadPosition(d.doc, acc, nil)
	if err != nil {
		return nil, fmt.Errorf("reading positions: %w", err)
	}

	var normals [][3]float32
	if nIdx, ok := p.Attributes[gltf.NORMAL]; ok {
		if acc, err = d.accessor(nIdx); err != nil {
			return nil, err
		}
		normals, err = modeler.ReadNormal(d.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading normals: %w", err)
		}
	}

	var indices []uint32
	if p.Indices != nil {
		if acc, err = d.accessor(*p.Indices); err != nil {
			return nil, err
		}
		indices, err = modeler.ReadIndices(d.doc, acc, nil)
		if err != nil {
			return nil, fmt.Errorf("reading indices: %w", err)
		}
	} else {
		indices = make([]uint32, len(positions))
		for i := range indices {
			indices[i] = uint32(i)
		}
	}
	for _, idx := range indices {
		if int(idx) >= len(positions) {
			return nil, fmt.Errorf("index %d out of range (%d vertices)", idx, len(positions))
		}
	}

	vertices := make([]model.Vertex, len(positions))
	for i, pos := range positions {
		vertices[i].Position = pos
		if i < len(normals) {
			vertices[i].Normal = normals[i]
		}
	}
	if len(normals) != len(positions) {
		flatNormals(vertices, indices)
	}
	return model.NewMesh(name, vertices, indices), nil
}

func (d *gltfDecoder) accessor(i int) (*gltf.Accessor, error) {
	if i < 0 || i >= len(d.doc.Accessors) || d.doc.Accessors[i] == nil {
		return nil, fmt.Errorf("decoding gltf: accessor %d out of range", i)
	}
	return d.doc.Accessors[i], nil
}

func (d *gltfDecoder) material(i int) model.Material {
	mat := defaultMaterial()
	if i < 0 || i >= len(d.doc.Materials) {
		return mat
	}
	src := d.doc.Materials[i]
	if pbr := src.PBRMetallicRoughness; pbr != nil {
		c := pbr.BaseColorFactorOrDefault()
		mat.BaseColor = [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])}
		mat.Metalness = float32(pbr.MetallicFactorOrDefault())
		mat.Roughness = float32(pbr.RoughnessFactorOrDefault())
	}
	e := src.EmissiveFactor
	mat.Emissive = [3]float32{float32(e[0]), float32(e[1]), float32(e[2])}
	if e != [3]float64{} {
		mat.EmissiveIntensity = 1
	}
	return mat
}

func defaultMaterial() model.Material {
	return model.Material{BaseColor: [4]float32{1, 1, 1, 1}, Roughness: 1}
}

// nodeTransform converts a node's TRS or matrix into a Transform.
func nodeTransform(n *gltf.Node) model.Transform {
	m := n.MatrixOrDefault()
	if m != identity16 {
		return decompose(m)
	}
	t := n.TranslationOrDefault()
	r := n.RotationOrDefault()
	s := n.ScaleOrDefault()
	return model.Transform{
		Translation: math.V3(float32(t[0]), float32(t[1]), float32(t[2])),
		Rotation:    math.Quat{X: float32(r[0]), Y: float32(r[1]), Z: float32(r[2]), W: float32(r[3])}.Normalize(),
		Scale:       math.V3(float32(s[0]), float32(s[1]), float32(s[2])),
	}
}

var identity16 = [16]float64{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

// decompose splits a column-major affine matrix without shear into TRS.
func decompose(m [16]float64) model.Transform {
	col := func(c int) [3]float64 { return [3]float64{m[c*4], m[c*4+1], m[c*4+2]} }
	length := func(v [3]float64) float64 { return gomath.Sqrt(v[0]*v[0] + v[1]*v[1] + v[2]*v[2]) }

	cx, cy, cz := col(0), col(1), col(2)
	sx, sy, sz := length(cx), length(cy), length(cz)
	if sx == 0 || sy == 0 || sz == 0 {
		t := model.IdentityTransform()
		t.Scale = math.Vec3{}
		return t
	}
	r := [3][3]float64{
		{cx[0] / sx, cy[0] / sy, cz[0] / sz},
		{cx[1] / sx, cy[1] / sy, cz[1] / sz},
		{cx[2] / sx, cy[2] / sy, cz[2] / sz},
	}

	var q [4]float64
	trace := r[0][0] + r[1][1] + r[2][2]
	switch {
	case trace > 0:
		s := 0.5 / gomath.Sqrt(trace+1)
		q = [4]float64{(r[2][1] - r[1][2]) * s, (r[0][2] - r[2][0]) * s, (r[1][0] - r[0][1]) * s, 0.25 / s}
	case r[0][0] > r[1][1] && r[0][0] > r[2][2]:
		s := 2 * gomath.Sqrt(1+r[0][0]-r[1][1]-r[2][2])
		q = [4]float64{0.25 * s, (r[0][1] + r[1][0]) / s, (r[0][2] + r[2][0]) / s, (r[2][1] - r[1][2]) / s}
	case r[1][1] > r[2][2]:
		s := 2 * gomath.Sqrt(1+r[1][1]-r[0][0]-r[2][2])
		q = [4]float64{(r[0][1] + r[1][0]) / s, 0.25 * s, (r[1][2] + r[2][1]) / s, (r[0][2] - r[2][0]) / s}
	default:
		s := 2 * gomath.Sqrt(1+r[2][2]-r[0][0]-r[1][1])
		q = [4]float64{(r[0][2] + r[2][0]) / s, (r[1][2] + r[2][1]) / s, 0.25 * s, (r[1][0] - r[0][1]) / s}
	}

	return model.Transform{
		Translation: math.V3(float32(m[12]), float32(m[13]), float32(m[14])),
		Rotation:    math.Quat{X: float32(q[0]), Y: float32(q[1]), Z: float32(q[2]), W: float32(q[3])}.Normalize(),
		Scale:       math.V3(float32(sx), float32(sy), float32(sz)),
	}
}

// flatNormals assigns each vertex the normal of the last triangle using it.
func flatNormals(vertices []model.Vertex, indices []uint32) {
	for i := 0; i+2 < len(indices); i += 3 {
		a := math.V3(vertices[indices[i]].Position[0], vertices[indices[i]].Position[1], vertices[indices[i]].Position[2])
		b := math.V3(vertices[indices[i+1]].Position[0], vertices[indices[i+1]].Position[1], vertices[indices[i+1]].Position[2])
		c := math.V3(vertices[indices[i+2]].Position[0], vertices[indices[i+2]].Position[1], vertices[indices[i+2]].Position[2])
		n := b.Sub(a).Cross(c.Sub(a)).Normalize().Array()
		for k := 0; k < 3; k++ {
			vertices[indices[i+k]].Normal = n
		}
	}
}
