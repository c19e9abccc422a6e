// Package overlay draws the detail surface on top of the 3D scene.
package overlay

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/font"

	"github.com/Faultbox/fridgeview/internal/engine/panel"
	"github.com/Faultbox/fridgeview/internal/engine/shader"
	"github.com/Faultbox/fridgeview/internal/viewer"
	"github.com/Faultbox/fridgeview/pkg/math"
)

const (
	solidStride = 6 // x, y, r, g, b, a
	textStride  = 8 // x, y, u, v, r, g, b, a
)

// Overlay renders laid-out panels with OpenGL. Coordinates are logical
// window pixels; the GL viewport is set by the caller.
type Overlay struct {
	width, height int

	solid *shader.Program
	text  *shader.Program

	solidVAO, solidVBO uint32
	textVAO, textVBO   uint32
	texture            uint32

	atlas *panel.Atlas

	solidVertices []float32
	textVertices  []float32
}

// New creates an overlay using face for text.
// Must be called after the OpenGL context is created.
func New(face font.Face, width, height int) (*Overlay, error) {
	o := &Overlay{
		width:         width,
		height:        height,
		atlas:         panel.NewAtlas(face),
		solidVertices: make([]float32, 0, 1024),
		textVertices:  make([]float32, 0, 4096),
	}

	var err error
	if o.solid, err = shader.Compile(solidVertexShader, solidFragmentShader); err != nil {
		return nil, fmt.Errorf("create solid shader: %w", err)
	}
	if o.text, err = shader.Compile(textVertexShader, textFragmentShader); err != nil {
		o.solid.Delete()
		return nil, fmt.Errorf("create text shader: %w", err)
	}

	o.solidVAO, o.solidVBO = newBuffers(solidStride, []int32{2, 4})
	o.textVAO, o.textVBO = newBuffers(textStride, []int32{2, 2, 4})

	gl.GenTextures(1, &o.texture)
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.R8, panel.AtlasSize, panel.AtlasSize, 0,
		gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&o.atlas.Image().Pix[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return o, nil
}

// newBuffers creates a VAO/VBO pair with consecutive float attributes.
func newBuffers(stride int32, sizes []int32) (vao, vbo uint32) {
	gl.GenVertexArrays(1, &vao)
	gl.GenBuffers(1, &vbo)
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)

	offset := 0
	for i, size := range sizes {
		gl.VertexAttribPointerWithOffset(uint32(i), size, gl.FLOAT, false, stride*4, uintptr(offset*4))
		gl.EnableVertexAttribArray(uint32(i))
		offset += int(size)
	}

	gl.BindVertexArray(0)
	return vao, vbo
}

// Resize updates the logical screen size.
func (o *Overlay) Resize(width, height int) {
	o.width, o.height = width, height
}

// Layout arranges the detail surface for the current screen size.
func (o *Overlay) Layout(sheet *viewer.DetailSheet) panel.Panel {
	return panel.Layout(sheet, o.width, o.height, o.atlas)
}

// Draw renders a panel over whatever is in the framebuffer.
func (o *Overlay) Draw(p panel.Panel) {
	o.solidVertices = o.solidVertices[:0]
	o.textVertices = o.textVertices[:0]

	for _, q := range p.Quads {
		o.addQuad(q.Rect, q.Color)
	}
	for _, t := range p.Texts {
		o.addText(t)
	}
	if o.atlas.Dirty() {
		o.upload()
	}

	var prevBlend, prevDepth, prevCull int32
	gl.GetIntegerv(gl.BLEND, &prevBlend)
	gl.GetIntegerv(gl.DEPTH_TEST, &prevDepth)
	gl.GetIntegerv(gl.CULL_FACE, &prevCull)

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	proj := math.Ortho(0, float32(o.width), float32(o.height), 0, -1, 1)

	if len(o.solidVertices) > 0 {
		o.solid.Use()
		gl.UniformMatrix4fv(o.solid.Uniform("uProjection"), 1, false, proj.Ptr())
		streamDraw(o.solidVAO, o.solidVBO, o.solidVertices, solidStride)
	}

	if len(o.textVertices) > 0 {
		o.text.Use()
		gl.UniformMatrix4fv(o.text.Uniform("uProjection"), 1, false, proj.Ptr())
		gl.Uniform1i(o.text.Uniform("uAtlas"), 0)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, o.texture)
		streamDraw(o.textVAO, o.textVBO, o.textVertices, textStride)
	}

	gl.BindVertexArray(0)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.UseProgram(0)

	if prevBlend == gl.FALSE {
		gl.Disable(gl.BLEND)
	}
	if prevDepth == gl.TRUE {
		gl.Enable(gl.DEPTH_TEST)
	}
	if prevCull == gl.TRUE {
		gl.Enable(gl.CULL_FACE)
	}
}

func streamDraw(vao, vbo uint32, vertices []float32, stride int) {
	gl.BindVertexArray(vao)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(vertices)/stride))
}

func (o *Overlay) upload() {
	img := o.atlas.Image()
	gl.BindTexture(gl.TEXTURE_2D, o.texture)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, panel.AtlasSize, panel.AtlasSize,
		gl.RED, gl.UNSIGNED_BYTE, unsafe.Pointer(&img.Pix[0]))
	gl.BindTexture(gl.TEXTURE_2D, 0)
	o.atlas.ClearDirty()
}

func (o *Overlay) addQuad(r panel.Rect, c panel.Color) {
	x0, y0, x1, y1 := r.X, r.Y, r.X+r.W, r.Y+r.H
	o.solidVertices = append(o.solidVertices,
		x0, y0, c.R, c.G, c.B, c.A,
		x1, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x0, y0, c.R, c.G, c.B, c.A,
		x1, y1, c.R, c.G, c.B, c.A,
		x0, y1, c.R, c.G, c.B, c.A,
	)
}

func (o *Overlay) addText(t panel.Text) {
	const inv = 1.0 / panel.AtlasSize
	c := t.Color
	pen := t.X
	for _, r := range t.Value {
		g, ok := o.atlas.Glyph(r)
		if !ok {
			continue
		}
		if !g.Rect.Empty() {
			x0 := pen + float32(g.Offset.X)
			y0 := t.Baseline + float32(g.Offset.Y)
			x1 := x0 + float32(g.Rect.Dx())
			y1 := y0 + float32(g.Rect.Dy())
			u0, v0 := float32(g.Rect.Min.X)*inv, float32(g.Rect.Min.Y)*inv
			u1, v1 := float32(g.Rect.Max.X)*inv, float32(g.Rect.Max.Y)*inv
			o.textVertices = append(o.textVertices,
				x0, y0, u0, v0, c.R, c.G, c.B, c.A,
				x1, y0, u1, v0, c.R, c.G, c.B, c.A,
				x1, y1, u1, v1, c.R, c.G, c.B, c.A,
				x0, y0, u0, v0, c.R, c.G, c.B, c.A,
				x1, y1, u1, v1, c.R, c.G, c.B, c.A,
				x0, y1, u0, v1, c.R, c.G, c.B, c.A,
			)
		}
		pen += float32(g.Advance)
	}
}

// Close releases GPU resources.
func (o *Overlay) Close() {
	if o.solidVAO != 0 {
		gl.DeleteVertexArrays(1, &o.solidVAO)
		gl.DeleteBuffers(1, &o.solidVBO)
	}
	if o.textVAO != 0 {
		gl.DeleteVertexArrays(1, &o.textVAO)
		gl.DeleteBuffers(1, &o.textVBO)
	}
	if o.texture != 0 {
		gl.DeleteTextures(1, &o.texture)
	}
	o.solid.Delete()
	o.text.Delete()
}

const solidVertexShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec4 aColor;

uniform mat4 uProjection;

out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vColor = aColor;
}
`

const solidFragmentShader = `
#version 410 core
in vec4 vColor;
out vec4 FragColor;

void main() {
    FragColor = vColor;
}
`

const textVertexShader = `
#version 410 core
layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;
layout (location = 2) in vec4 aColor;

uniform mat4 uProjection;

out vec2 vUV;
out vec4 vColor;

void main() {
    gl_Position = uProjection * vec4(aPos, 0.0, 1.0);
    vUV = aUV;
    vColor = aColor;
}
`

const textFragmentShader = `
#version 410 core
in vec2 vUV;
in vec4 vColor;
out vec4 FragColor;

uniform sampler2D uAtlas;

void main() {
    FragColor = vec4(vColor.rgb, vColor.a * texture(uAtlas, vUV).r);
}
`
