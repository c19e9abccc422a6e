package viewer

import (
	"reflect"
	"testing"

	"github.com/Faultbox/fridgeview/internal/engine/gesture"
	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/pkg/math"
)

type events struct {
	selected  []string
	changes   []string
	toggles   []string
	toggledTo []bool
}

func newShell(t *testing.T) (*Shell, *events) {
	t.Helper()
	s := New(DefaultOptions())
	s.Resize(800, 600)
	s.SetObjects([]fridge.SceneObject{
		{ID: "apple", DisplayName: "苹果", AnchorNodeName: "Food_apple"},
		{ID: "milk", DisplayName: "牛奶", AnchorNodeName: "Food_milk"},
		{ID: "egg", DisplayName: "鸡蛋", AnchorNodeName: "Food_egg"},
	})

	ev := &events{}
	s.OnObjectSelected = func(id string) { ev.selected = append(ev.selected, id) }
	s.OnSelectionChange = func(id string) { ev.changes = append(ev.changes, id) }
	s.OnArticulationToggled = func(id string, open bool) {
		ev.toggles = append(ev.toggles, id)
		ev.toggledTo = append(ev.toggledTo, open)
	}
	return s, ev
}

func tap(s *Shell, x, y float32) {
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerDown, ID: 1, X: x, Y: y})
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerUp, ID: 1, X: x, Y: y})
}

func settle(s *Shell) {
	for i := 0; i < 200; i++ {
		s.Advance(0.016)
	}
}

func objectCenter(t *testing.T, s *Shell, id string) math.Vec3 {
	t.Helper()
	b, ok := s.Container().ObjectBounds(id)
	if !ok {
		t.Fatalf("no bounds for %s", id)
	}
	return b.Center()
}

func TestTapFlow(t *testing.T) {
	s, ev := newShell(t)

	// The closed fridge door fills the middle of the view.
	tap(s, 400, 300)
	if !reflect.DeepEqual(ev.toggles, []string{fridge.FridgeDoor}) || !ev.toggledTo[0] {
		t.Fatalf("toggles = %v %v, want fridge door opened", ev.toggles, ev.toggledTo)
	}
	if len(ev.selected) != 0 {
		t.Fatal("door tap selected an object")
	}

	settle(s)

	x, y, ok := s.ScreenPosition(objectCenter(t, s, "apple"))
	if !ok {
		t.Fatal("apple is behind the camera")
	}
	tap(s, x, y)
	if s.Selected() != "apple" {
		t.Fatalf("selected = %q, want apple", s.Selected())
	}
	if d := s.Frame().Detail; d == nil || d.Title() != "苹果" {
		t.Errorf("detail = %+v, want apple sheet", d)
	}

	// Tapping the selected object again deselects it.
	tap(s, x, y)
	if s.Selected() != "" {
		t.Errorf("selected = %q, want none", s.Selected())
	}

	s.SetSelected("milk")
	tap(s, 1, 1)
	if s.Selected() != "" {
		t.Error("background tap should deselect")
	}

	if want := []string{"apple", "apple"}; !reflect.DeepEqual(ev.selected, want) {
		t.Errorf("OnObjectSelected = %v, want %v", ev.selected, want)
	}
	if want := []string{"apple", "", "milk", ""}; !reflect.DeepEqual(ev.changes, want) {
		t.Errorf("OnSelectionChange = %v, want %v", ev.changes, want)
	}
}

func TestPanRotatesWithoutTapping(t *testing.T) {
	s, ev := newShell(t)

	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerDown, ID: 1, X: 400, Y: 300})
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerMove, ID: 1, X: 450, Y: 302})
	s.Advance(0.016)
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerMove, ID: 1, X: 500, Y: 302})
	s.Advance(0.016)
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerUp, ID: 1, X: 500, Y: 302})

	if got, want := s.Rig().Angle(), float32(-100*0.008); math.Abs(got-want) > 1e-5 {
		t.Errorf("yaw = %v, want %v", got, want)
	}
	if len(ev.toggles) != 0 || len(ev.selected) != 0 {
		t.Error("pan leaked into a tap")
	}
	if s.Rig().UserDriven() {
		t.Error("rig still user driven after release")
	}
	if s.Rig().Velocity() >= 0 {
		t.Errorf("release velocity = %v, want negative spin", s.Rig().Velocity())
	}
}

func TestPinchAndWheelZoom(t *testing.T) {
	s, _ := newShell(t)

	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerDown, ID: 1, X: 300, Y: 300})
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerDown, ID: 2, X: 500, Y: 300})
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerMove, ID: 2, X: 700, Y: 300})
	if got := s.Rig().Radius(); got != 2 {
		t.Errorf("radius = %v, want clamp at 2 after spreading to 2x", got)
	}
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerUp, ID: 1, X: 300, Y: 300})
	s.HandlePointer(gesture.PointerEvent{Kind: gesture.PointerUp, ID: 2, X: 700, Y: 300})

	s.HandleWheel(-1)
	if got, want := s.Rig().Radius(), float32(2)/0.9; math.Abs(got-want) > 1e-5 {
		t.Errorf("radius = %v, want %v", got, want)
	}
}

func TestScenarioCThroughShell(t *testing.T) {
	s, ev := newShell(t)
	s.SetVisibleSet([]string{"milk", "egg"})

	if s.SetSelected("apple") {
		t.Error("hidden apple selected")
	}
	if len(ev.changes) != 0 {
		t.Errorf("rejected selection fired %v", ev.changes)
	}

	s.SetVisibleSet([]string{"milk", "egg", "apple"})
	if !s.SetSelected("apple") {
		t.Error("visible apple rejected")
	}
	if !reflect.DeepEqual(ev.changes, []string{"apple"}) {
		t.Errorf("changes = %v", ev.changes)
	}

	s.SetVisibleSet([]string{"milk"})
	if s.Selected() != "" || ev.changes[len(ev.changes)-1] != "" {
		t.Error("hiding the selection should clear it and notify")
	}
}

func TestRemovedSelectionNotifies(t *testing.T) {
	s, ev := newShell(t)
	s.SetSelected("egg")
	s.SetObjects([]fridge.SceneObject{{ID: "apple", DisplayName: "苹果"}})

	if want := []string{"egg", ""}; !reflect.DeepEqual(ev.changes, want) {
		t.Errorf("changes = %v, want %v", ev.changes, want)
	}
	if s.Detail() != nil {
		t.Error("detail sheet outlived its object")
	}
}

func TestCloseDetail(t *testing.T) {
	s, _ := newShell(t)
	s.SetSelected("milk")
	if s.Detail() == nil {
		t.Fatal("selection should open the detail sheet")
	}
	s.CloseDetail()
	if s.Detail() != nil || s.Selected() != "" {
		t.Error("CloseDetail should clear the selection")
	}
}

func TestToggleArticulationRejected(t *testing.T) {
	s, ev := newShell(t)
	if s.ToggleArticulation(fridge.DrawerUpper) {
		t.Error("drawer opened behind closed freezer")
	}
	if s.ToggleArticulation("nope") {
		t.Error("unknown part toggled")
	}
	if len(ev.toggles) != 0 {
		t.Errorf("rejected toggles fired %v", ev.toggles)
	}

	if !s.ToggleArticulation(fridge.FreezerDoor) || !s.ToggleArticulation(fridge.DrawerUpper) {
		t.Fatal("freezer then drawer should open")
	}
	if want := []string{fridge.FreezerDoor, fridge.DrawerUpper}; !reflect.DeepEqual(ev.toggles, want) {
		t.Errorf("toggles = %v, want %v", ev.toggles, want)
	}
}

func TestFrame(t *testing.T) {
	s, _ := newShell(t)
	f := s.Frame()

	if f.Width != 800 || f.Height != 600 {
		t.Errorf("frame size = %dx%d", f.Width, f.Height)
	}
	if len(f.Items) == 0 {
		t.Error("frame has no draw items")
	}
	if f.Light.Intensity != 0 {
		t.Error("interior light on with the door closed")
	}
	if f.Detail != nil {
		t.Error("detail sheet without selection")
	}
	if f.Eye != s.Rig().Position() {
		t.Error("frame eye differs from rig position")
	}
}

func TestResizeClampsToOnePixel(t *testing.T) {
	s, _ := newShell(t)
	s.Resize(0, -5)
	f := s.Frame()
	if f.Width != 1 || f.Height != 1 {
		t.Errorf("size = %dx%d, want 1x1", f.Width, f.Height)
	}
}

func TestSessionsHaveDistinctIDs(t *testing.T) {
	a := New(DefaultOptions())
	b := New(DefaultOptions())
	if a.ID() == b.ID() {
		t.Error("session IDs collide")
	}
	a.Close()
	if len(a.Container().Objects()) != 0 {
		t.Error("Close should release objects")
	}
}

func TestDetailSheet(t *testing.T) {
	var empty *DetailSheet
	if empty.Title() != EmptyMessage || empty.Fields() != nil {
		t.Error("nil sheet should show the empty state")
	}
	if NewDetailSheet(nil) != nil {
		t.Error("nil object should give a nil sheet")
	}

	sheet := NewDetailSheet(&fridge.SceneObject{
		ID:          "42",
		DisplayName: "酸奶",
		Category:    "乳制品",
		ExpiryDate:  "2026-10-20",
	})
	want := []Field{
		{Label: "ID", Value: "42"},
		{Label: "Category", Value: "乳制品"},
		{Label: "Expires", Value: "2026-10-20"},
	}
	if !reflect.DeepEqual(sheet.Fields(), want) {
		t.Errorf("fields = %+v, want %+v", sheet.Fields(), want)
	}
	if sheet.Title() != "酸奶" {
		t.Errorf("title = %q", sheet.Title())
	}

	unnamed := NewDetailSheet(&fridge.SceneObject{ID: "x1"})
	if unnamed.Title() != "x1" {
		t.Errorf("unnamed title = %q, want the ID", unnamed.Title())
	}
}
