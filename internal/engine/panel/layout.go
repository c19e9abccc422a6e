package panel

import (
	"github.com/Faultbox/fridgeview/internal/viewer"
)

// Layout constants, in logical pixels.
const (
	SheetMaxWidth = 520
	SheetMargin   = 16
	SheetPadding  = 20
	ButtonHeight  = 40
	HandleWidth   = 40
	HandleHeight  = 4
	PillPadding   = 12

	CloseLabel = "Close"

	fieldSpacing = 1.5
	labelGap     = 16
)

// Measurer reports text metrics for layout.
type Measurer interface {
	Measure(s string) int
	Ascent() int
	LineHeight() int
}

// Rect is an axis-aligned rectangle with a top-left origin.
type Rect struct {
	X, Y, W, H float32
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Quad is a solid-color rectangle.
type Quad struct {
	Rect  Rect
	Color Color
}

// Text is a string whose pen starts at (X, Baseline).
type Text struct {
	X, Baseline float32
	Value       string
	Color       Color
}

// Panel is the laid-out detail surface, ready to draw.
type Panel struct {
	Sheet Rect
	Close Rect // empty when there is nothing to close
	Quads []Quad
	Texts []Text
}

// Hit reports whether (x, y) falls on the panel's sheet.
func (p Panel) Hit(x, y float32) bool {
	return !p.Sheet.Empty() && p.Sheet.Contains(x, y)
}

// HitClose reports whether (x, y) falls on the close button.
func (p Panel) HitClose(x, y float32) bool {
	return !p.Close.Empty() && p.Close.Contains(x, y)
}

// Layout arranges the detail surface for a width x height viewport. A nil
// sheet produces the empty-state pill, which has no close button.
func Layout(sheet *viewer.DetailSheet, width, height int, m Measurer) Panel {
	if sheet == nil {
		return layoutEmpty(width, height, m)
	}

	w, h := float32(width), float32(height)
	lh := float32(m.LineHeight())
	ascent := float32(m.Ascent())

	sheetW := min(w-2*SheetMargin, SheetMaxWidth)
	if sheetW < 0 {
		sheetW = w
	}
	fields := sheet.Fields()
	rowH := lh * fieldSpacing

	contentH := HandleHeight + SheetPadding/2 + // grab handle
		lh*1.5 + // title
		1 + SheetPadding/2 + // divider
		float32(len(fields))*rowH +
		SheetPadding/2 + ButtonHeight
	sheetH := SheetPadding*2 + contentH

	x := (w - sheetW) / 2
	y := max(h-sheetH, 0)

	p := Panel{Sheet: Rect{X: x, Y: y, W: sheetW, H: sheetH}}
	p.Quads = append(p.Quads, Quad{Rect: p.Sheet, Color: ColorSheet})

	cy := y + SheetPadding/2
	p.Quads = append(p.Quads, Quad{
		Rect:  Rect{X: x + (sheetW-HandleWidth)/2, Y: cy, W: HandleWidth, H: HandleHeight},
		Color: ColorDivider,
	})
	cy += HandleHeight + SheetPadding

	inner := x + SheetPadding
	innerW := sheetW - 2*SheetPadding
	p.Texts = append(p.Texts, Text{X: inner, Baseline: cy + ascent, Value: sheet.Title(), Color: ColorTitle})
	cy += lh * 1.5

	p.Quads = append(p.Quads, Quad{Rect: Rect{X: inner, Y: cy, W: innerW, H: 1}, Color: ColorDivider})
	cy += 1 + SheetPadding/2

	labelW := 0
	for _, f := range fields {
		labelW = max(labelW, m.Measure(f.Label))
	}
	valueX := inner + float32(labelW) + labelGap
	for _, f := range fields {
		base := cy + (rowH-lh)/2 + ascent
		p.Texts = append(p.Texts,
			Text{X: inner, Baseline: base, Value: f.Label, Color: ColorTextDim},
			Text{X: valueX, Baseline: base, Value: f.Value, Color: ColorText},
		)
		cy += rowH
	}
	cy += SheetPadding / 2

	p.Close = Rect{X: inner, Y: cy, W: innerW, H: ButtonHeight}
	p.Quads = append(p.Quads, Quad{Rect: p.Close, Color: ColorAccent})
	labelX := inner + (innerW-float32(m.Measure(CloseLabel)))/2
	p.Texts = append(p.Texts, Text{
		X:        labelX,
		Baseline: cy + (ButtonHeight-lh)/2 + ascent,
		Value:    CloseLabel,
		Color:    ColorSheet,
	})
	return p
}

func layoutEmpty(width, height int, m Measurer) Panel {
	lh := float32(m.LineHeight())
	tw := float32(m.Measure(viewer.EmptyMessage))
	pillW := tw + 2*PillPadding
	pillH := lh + PillPadding
	pill := Rect{
		X: (float32(width) - pillW) / 2,
		Y: float32(height) - SheetMargin - pillH,
		W: pillW,
		H: pillH,
	}
	return Panel{
		Quads: []Quad{{Rect: pill, Color: ColorPill}},
		Texts: []Text{{
			X:        pill.X + PillPadding,
			Baseline: pill.Y + PillPadding/2 + float32(m.Ascent()),
			Value:    viewer.EmptyMessage,
			Color:    ColorPillText,
		}},
	}
}
