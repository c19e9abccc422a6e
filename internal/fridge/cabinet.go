package fridge

import (
	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/engine/lighting"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/pkg/math"
)

// Interior light settings.
const (
	lightOnIntensity = 1.25
	lightRate        = 10
	lightEpsilon     = 1e-3
)

// defaultLight is the interior light, off until the fridge door opens.
func defaultLight() lighting.PointLight {
	return lighting.PointLight{
		Position: math.V3(0.35, 0.88, 0.12),
		Color:    [3]float32{1, 242.0 / 255, 204.0 / 255}, // #FFF2CC
		Range:    1.8,
	}
}

func color(hex uint32, roughness, metalness float32) model.Material {
	return model.Material{
		BaseColor: [4]float32{
			float32(hex>>16&0xff) / 255,
			float32(hex>>8&0xff) / 255,
			float32(hex&0xff) / 255,
			1,
		},
		Roughness: roughness,
		Metalness: metalness,
	}
}

func at(x, y, z float32) model.Transform {
	return model.At(math.V3(x, y, z))
}

// buildCabinet assembles the built-in two-compartment fridge.
func buildCabinet(cfg config.ArticulationConfig) (*model.Node, []*Part) {
	shell := color(0xE9EAED, 0.55, 0.05)
	liner := color(0xF6F6F8, 0.85, 0)
	liner.BackFace = true

	body := model.NewGroup("Body").Add(
		model.NewMeshNode("BackPanel", model.Box(1.25, 2.35, 0.06), shell, at(0, 0, -0.53)),
		model.NewMeshNode("SideLeft", model.Box(0.06, 2.35, 1.12), shell, at(-0.595, 0, 0)),
		model.NewMeshNode("SideRight", model.Box(0.06, 2.35, 1.12), shell, at(0.595, 0, 0)),
		model.NewMeshNode("Top", model.Box(1.25, 0.06, 1.12), shell, at(0, 1.145, 0)),
		model.NewMeshNode("Bottom", model.Box(1.25, 0.06, 1.12), shell, at(0, -1.145, 0)),
		model.NewMeshNode("Liner", model.Box(1.12, 2.22, 0.98), liner, at(0, 0.02, -0.02)),
		model.NewMeshNode("Divider", model.Box(1.06, 0.04, 0.92), color(0xC9CDD6, 0.85, 0), at(0, -0.43, -0.05)),
		model.NewMeshNode("ShelfLow", model.Box(1.06, 0.03, 0.92), color(0xD2D5DB, 0.85, 0), at(0, -0.33, -0.05)),
		model.NewMeshNode("ShelfMid", model.Box(1.06, 0.03, 0.92), color(0xD2D5DB, 0.85, 0), at(0, 0.02, -0.05)),
		model.NewMeshNode("ShelfTop", model.Box(1.06, 0.03, 0.92), color(0xD2D5DB, 0.85, 0), at(0, 0.42, -0.05)),
	)

	fridgeDoor, fridgePanel := door("FridgeDoor", 0.34, 1.55, 0.55)
	freezerDoor, freezerPanel := door("FreezerDoor", -0.89, 0.75, 0.24)
	upper, upperFront := drawer("DrawerUpper", -0.06)
	lower, lowerFront := drawer("DrawerLower", -0.28)
	drawers := model.NewGroup("Drawers").Add(upper, lower)
	drawers.Transform = at(0, -0.86, 0)

	root := model.NewGroup("Fridge").Add(body, fridgeDoor, freezerDoor, drawers)

	fp := newPart(FridgeDoor, Hinge, fridgeDoor, cfg.DoorOpenAngle, cfg.DoorRate)
	fp.hits = []*model.Node{fridgePanel}
	zp := newPart(FreezerDoor, Hinge, freezerDoor, cfg.DoorOpenAngle, cfg.DoorRate)
	zp.hits = []*model.Node{freezerPanel}
	zp.Dependents = []string{DrawerUpper, DrawerLower}
	up := newPart(DrawerUpper, Slide, upper, cfg.DrawerTravel, cfg.DrawerRate)
	up.hits = []*model.Node{upperFront}
	up.Parent = FreezerDoor
	lp := newPart(DrawerLower, Slide, lower, cfg.DrawerTravel, cfg.DrawerRate)
	lp.hits = []*model.Node{lowerFront}
	lp.Parent = FreezerDoor

	return root, []*Part{fp, zp, up, lp}
}

// door builds a hinge group pivoting on the right edge with its panel and
// handle extending left.
func door(name string, y, height, handleHeight float32) (group, panel *model.Node) {
	group = model.NewGroup(name)
	group.Transform = at(0.63, y, 0.56)
	panel = model.NewMeshNode(name+"Panel", model.Box(1.25, height, 0.08), color(0xFFFFFF, 0.35, 0.05), at(-0.63, 0, 0))
	handle := model.NewMeshNode(name+"Handle", model.Box(0.05, handleHeight, 0.05), color(0xC7CBD3, 0.25, 0.55), at(-1.12, 0.02, 0.12))
	group.Add(panel, handle)
	return group, panel
}

func drawer(name string, y float32) (group, front *model.Node) {
	group = model.NewGroup(name)
	group.Transform = at(0, y, 0)
	bin := model.NewMeshNode(name+"Bin", model.Box(1.02, 0.26, 0.72), color(0xF0F1F4, 0.85, 0), at(0, 0.07, -0.22))
	front = model.NewMeshNode(name+"Front", model.Box(1.02, 0.26, 0.05), color(0xE2E4EA, 0.7, 0), at(0, 0.07, 0.22))
	group.Add(bin, front)
	return group, front
}
