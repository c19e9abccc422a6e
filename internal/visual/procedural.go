package visual

import (
	gomath "math"

	"github.com/Faultbox/fridgeview/internal/assets"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Procedural builds the primitive stand-in for key. Every key has its own
// composition; KeyUnresolved and unknown keys get a single neutral box.
func Procedural(key assets.Key) *model.Node {
	switch key {
	case assets.KeyApple:
		return apple()
	case assets.KeyFish:
		return fish()
	case assets.KeyMilk:
		return milk()
	case assets.KeyEgg:
		return egg()
	default:
		return neutral()
	}
}

// rgb converts 0xRRGGBB to an opaque color.
func rgb(hex uint32) [4]float32 {
	return [4]float32{
		float32(hex>>16&0xff) / 255,
		float32(hex>>8&0xff) / 255,
		float32(hex&0xff) / 255,
		1,
	}
}

func surface(hex uint32, roughness, metalness float32) model.Material {
	return model.Material{BaseColor: rgb(hex), Roughness: roughness, Metalness: metalness}
}

func place(x, y, z float32) model.Transform {
	return model.At(math.V3(x, y, z))
}

func placeRotated(x, y, z, rx, ry, rz float32) model.Transform {
	t := place(x, y, z)
	t.Rotation = math.QuatFromEuler(rx, ry, rz)
	return t
}

func apple() *model.Node {
	return model.NewGroup("apple").Add(
		model.NewMeshNode("body", model.Sphere(0.11, 22, 22), surface(0xE64545, 0.55, 0.05), place(0, 0.085, 0)),
		model.NewMeshNode("stem", model.Cylinder(0.012, 0.016, 0.06, 10), surface(0x7A4A2A, 0.8, 0), placeRotated(0.02, 0.2, 0, 0.3, 0.2, 0)),
		model.NewMeshNode("leaf", model.Sphere(0.05, 14, 14), surface(0x3CCF6E, 0.8, 0), placeRotated(-0.04, 0.19, 0, 0.2, 0.2, -0.8)),
	)
}

func fish() *model.Node {
	body := surface(0x8BA3B8, 0.45, 0.05)
	fin := surface(0x7A8EA1, 0.65, 0.02)

	head := place(0.1, 0.08, 0)
	head.Scale = math.V3(1.25, 0.75, 0.75)

	group := model.NewGroup("fish")
	group.Transform.Rotation = math.QuatFromEuler(0, gomath.Pi/2, 0)
	return group.Add(
		model.NewMeshNode("body", model.Sphere(0.11, 22, 18), body, place(0, 0.08, 0)),
		model.NewMeshNode("head", model.Sphere(0.09, 22, 18), body, head),
		model.NewMeshNode("tail", model.Cone(0.085, 0.14, 4), fin, place(-0.14, 0.08, 0)),
		model.NewMeshNode("dorsal", model.Cone(0.05, 0.1, 4), surface(0x7A8EA1, 0.7, 0.02), placeRotated(0.02, 0.17, 0, 0.2, 0, 0.2)),
		model.NewMeshNode("eye", model.Sphere(0.012, 10, 10), surface(0x0B0D10, 0.6, 0), place(0.16, 0.1, 0.06)),
	)
}

func milk() *model.Node {
	return model.NewGroup("milk").Add(
		model.NewMeshNode("carton", model.Box(0.12, 0.18, 0.08), surface(0x6DA8FF, 0.5, 0), place(0, 0.09, 0)),
		model.NewMeshNode("top", model.Cone(0.06, 0.06, 4), surface(0xFFFFFF, 0.5, 0), place(0, 0.2, 0)),
	)
}

func egg() *model.Node {
	shell := surface(0xFFF6E8, 0.6, 0)
	return model.NewGroup("egg").Add(
		model.NewMeshNode("tray", model.Box(0.16, 0.06, 0.1), surface(0xFFE6B3, 0.8, 0), place(0, 0.06, 0)),
		model.NewMeshNode("left", model.Sphere(0.03, 16, 16), shell, place(-0.04, 0.12, 0)),
		model.NewMeshNode("right", model.Sphere(0.03, 16, 16), shell, place(0.04, 0.12, 0)),
	)
}

func neutral() *model.Node {
	return model.NewGroup("unresolved").Add(
		model.NewMeshNode("box", model.Box(0.14, 0.18, 0.1), surface(0xFF6B6B, 0.55, 0), place(0, 0.09, 0)),
	)
}
