package panel

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	// AtlasSize is the edge length of the square glyph atlas.
	AtlasSize = 1024

	glyphPadding = 1
	fallbackRune = '?'
)

// Glyph is a rasterized rune inside the atlas.
type Glyph struct {
	Rect    image.Rectangle // atlas pixels
	Offset  image.Point     // from the pen position on the baseline to Rect's top-left
	Advance int
}

// Atlas rasterizes glyphs on demand into a single alpha image.
type Atlas struct {
	face   font.Face
	img    *image.Alpha
	glyphs map[rune]Glyph
	cursor image.Point
	rowH   int
	dirty  bool

	ascent     int
	lineHeight int
}

// NewAtlas creates an empty atlas for face.
func NewAtlas(face font.Face) *Atlas {
	m := face.Metrics()
	a := &Atlas{
		face:       face,
		img:        image.NewAlpha(image.Rect(0, 0, AtlasSize, AtlasSize)),
		glyphs:     make(map[rune]Glyph),
		cursor:     image.Pt(glyphPadding, glyphPadding),
		ascent:     m.Ascent.Ceil(),
		lineHeight: m.Height.Ceil(),
	}
	if a.lineHeight <= 0 {
		a.lineHeight = a.ascent + m.Descent.Ceil()
	}
	return a
}

// Image returns the atlas bitmap.
func (a *Atlas) Image() *image.Alpha { return a.img }

// Ascent returns the distance from the top of a line to its baseline.
func (a *Atlas) Ascent() int { return a.ascent }

// LineHeight returns the recommended line spacing.
func (a *Atlas) LineHeight() int { return a.lineHeight }

// Dirty reports whether glyphs were added since the last ClearDirty.
func (a *Atlas) Dirty() bool { return a.dirty }

// ClearDirty marks the atlas as uploaded.
func (a *Atlas) ClearDirty() { a.dirty = false }

// Glyph returns the glyph for r, rasterizing it on first use. Runes the face
// cannot render use '?'; false means neither could be placed.
func (a *Atlas) Glyph(r rune) (Glyph, bool) {
	if g, ok := a.glyphs[r]; ok {
		return g, true
	}
	if g, ok := a.add(r); ok {
		return g, true
	}
	if r == fallbackRune {
		return Glyph{}, false
	}
	g, ok := a.Glyph(fallbackRune)
	if ok {
		a.glyphs[r] = g
	}
	return g, ok
}

func (a *Atlas) add(r rune) (Glyph, bool) {
	dr, mask, maskp, advance, ok := a.face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return Glyph{}, false
	}

	w, h := dr.Dx(), dr.Dy()
	if a.cursor.X+w+glyphPadding > AtlasSize {
		a.cursor.X = glyphPadding
		a.cursor.Y += a.rowH + glyphPadding
		a.rowH = 0
	}
	if a.cursor.Y+h+glyphPadding > AtlasSize {
		return Glyph{}, false
	}

	target := image.Rectangle{Min: a.cursor, Max: a.cursor.Add(image.Pt(w, h))}
	if w > 0 && h > 0 {
		draw.DrawMask(a.img, target, image.Opaque, image.Point{}, mask, maskp, draw.Src)
		a.dirty = true
	}

	g := Glyph{Rect: target, Offset: dr.Min, Advance: advance.Round()}
	a.glyphs[r] = g
	a.cursor.X += w + glyphPadding
	a.rowH = max(a.rowH, h)
	return g, true
}

// Measure returns the advance width of s in pixels.
func (a *Atlas) Measure(s string) int {
	width := 0
	for _, r := range s {
		if g, ok := a.Glyph(r); ok {
			width += g.Advance
		}
	}
	return width
}
