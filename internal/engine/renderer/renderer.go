// Package renderer draws viewer frames with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/engine/lighting"
	"github.com/Faultbox/fridgeview/internal/engine/model"
	"github.com/Faultbox/fridgeview/internal/engine/shader"
	"github.com/Faultbox/fridgeview/internal/logger"
	"github.com/Faultbox/fridgeview/internal/viewer"
)

// meshTTL is how many frames an unused mesh stays on the GPU.
const meshTTL = 600

type gpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	lastUsed      uint64
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	width, height int
	program       *shader.Program
	env           lighting.Environment
	meshes        map[*model.Mesh]*gpuMesh
	frame         uint64
}

// New creates a new renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(width, height int) (*Renderer, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	program, err := shader.Compile(sceneVertexShader, sceneFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create scene shader: %w", err)
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LESS)
	gl.Enable(gl.MULTISAMPLE)
	r := &Renderer{program: program, meshes: make(map[*model.Mesh]*gpuMesh)}
	r.SetEnvironment(lighting.DefaultEnvironment())
	r.Resize(width, height)
	return r, nil
}

// Close cleans up renderer resources.
func (r *Renderer) Close() {
	logger.Info("closing renderer", zap.Int("meshes", len(r.meshes)))
	for mesh := range r.meshes {
		r.release(mesh)
	}
	if r.program != nil {
		r.program.Delete()
	}
}

// SetEnvironment replaces the shared scene lighting.
func (r *Renderer) SetEnvironment(env lighting.Environment) {
	r.env = env
	c := env.ClearColor
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

// Resize sets the viewport in framebuffer pixels.
func (r *Renderer) Resize(width, height int) {
	r.width, r.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized", zap.Int("width", width), zap.Int("height", height))
}

// Draw clears the screen and draws every item of the frame.
func (r *Renderer) Draw(f viewer.Frame) {
	r.frame++
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.program
	p.Use()
	gl.UniformMatrix4fv(p.Uniform("uView"), 1, false, f.View.Ptr())
	gl.UniformMatrix4fv(p.Uniform("uProjection"), 1, false, f.Projection.Ptr())
	gl.Uniform3f(p.Uniform("uEye"), f.Eye.X, f.Eye.Y, f.Eye.Z)
	env := &r.env
	sun := env.Sun.Direction
	gl.Uniform3fv(p.Uniform("uAmbient"), 1, &env.Ambient[0])
	gl.Uniform3f(p.Uniform("uSunDirection"), sun.X, sun.Y, sun.Z)
	gl.Uniform3fv(p.Uniform("uSunColor"), 1, &env.Sun.Color[0])

	l := f.Light
	gl.Uniform3f(p.Uniform("uLightPosition"), l.Position.X, l.Position.Y, l.Position.Z)
	gl.Uniform3fv(p.Uniform("uLightColor"), 1, &l.Color[0])
	gl.Uniform1f(p.Uniform("uLightRange"), l.Range)
	gl.Uniform1f(p.Uniform("uLightIntensity"), l.Intensity)

	for _, item := range f.Items {
		r.drawItem(item)
	}

	gl.Disable(gl.CULL_FACE)
	gl.BindVertexArray(0)
	gl.UseProgram(0)
	r.sweep()
}

// ReadPixels returns the current framebuffer as RGBA, bottom row first.
func (r *Renderer) ReadPixels() ([]byte, int, int) {
	pixels := make([]byte, r.width*r.height*4)
	if len(pixels) == 0 {
		return nil, 0, 0
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(r.width), int32(r.height), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, r.width, r.height
}

func (r *Renderer) drawItem(item model.DrawItem) {
	m := r.upload(item.Mesh)
	if m == nil {
		return
	}
	p := r.program
	mat := item.Material

	// Liners show their inside faces only.
	if mat.BackFace {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.FRONT)
	} else {
		gl.Disable(gl.CULL_FACE)
	}

	gl.UniformMatrix4fv(p.Uniform("uModel"), 1, false, item.World.Ptr())
	gl.Uniform4fv(p.Uniform("uBaseColor"), 1, &mat.BaseColor[0])
	gl.Uniform3fv(p.Uniform("uEmissive"), 1, &mat.Emissive[0])
	gl.Uniform1f(p.Uniform("uEmissiveIntensity"), mat.EmissiveIntensity)
	gl.Uniform1f(p.Uniform("uRoughness"), mat.Roughness)
	gl.Uniform1f(p.Uniform("uMetalness"), mat.Metalness)

	gl.BindVertexArray(m.vao)
	gl.DrawElements(gl.TRIANGLES, m.count, gl.UNSIGNED_INT, nil)
}

// upload returns the GPU copy of mesh, creating it on first use.
func (r *Renderer) upload(mesh *model.Mesh) *gpuMesh {
	if mesh == nil || len(mesh.Vertices) == 0 || len(mesh.Indices) == 0 {
		return nil
	}
	if m, ok := r.meshes[mesh]; ok {
		m.lastUsed = r.frame
		return m
	}

	m := &gpuMesh{count: int32(len(mesh.Indices)), lastUsed: r.frame}
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	stride := int32(unsafe.Sizeof(model.Vertex{}))
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(mesh.Vertices)*int(stride), unsafe.Pointer(&mesh.Vertices[0]), gl.STATIC_DRAW)

	// Position attribute (location = 0)
	gl.VertexAttribPointerWithOffset(0, 3, gl.FLOAT, false, stride, 0)
	gl.EnableVertexAttribArray(0)
	// Normal attribute (location = 1)
	gl.VertexAttribPointerWithOffset(1, 3, gl.FLOAT, false, stride, 3*4)
	gl.EnableVertexAttribArray(1)

	gl.GenBuffers(1, &m.ebo)
	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
	gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(mesh.Indices)*4, unsafe.Pointer(&mesh.Indices[0]), gl.STATIC_DRAW)

	gl.BindVertexArray(0)
	r.meshes[mesh] = m
	logger.Debug("mesh uploaded", zap.String("mesh", mesh.Name), zap.Int("vertices", len(mesh.Vertices)))
	return m
}

// sweep frees meshes no frame has drawn for meshTTL frames.
func (r *Renderer) sweep() {
	if r.frame%60 != 0 {
		return
	}
	for mesh, m := range r.meshes {
		if r.frame-m.lastUsed > meshTTL {
			r.release(mesh)
		}
	}
}

func (r *Renderer) release(mesh *model.Mesh) {
	m := r.meshes[mesh]
	gl.DeleteVertexArrays(1, &m.vao)
	gl.DeleteBuffers(1, &m.vbo)
	gl.DeleteBuffers(1, &m.ebo)
	delete(r.meshes, mesh)
}

const sceneVertexShader = `
	#version 410 core

	layout (location = 0) in vec3 aPos;
	layout (location = 1) in vec3 aNormal;

	uniform mat4 uModel;
	uniform mat4 uView;
	uniform mat4 uProjection;

	out vec3 vWorldPos;
	out vec3 vNormal;

	void main() {
		vec4 world = uModel * vec4(aPos, 1.0);
		vWorldPos = world.xyz;
		vNormal = mat3(transpose(inverse(uModel))) * aNormal;
		gl_Position = uProjection * uView * world;
	}
`

const sceneFragmentShader = `
	#version 410 core

	in vec3 vWorldPos;
	in vec3 vNormal;

	uniform vec4 uBaseColor;
	uniform vec3 uEmissive;
	uniform float uEmissiveIntensity;
	uniform float uRoughness;
	uniform float uMetalness;

	uniform vec3 uEye;
	uniform vec3 uAmbient;
	uniform vec3 uSunDirection;
	uniform vec3 uSunColor;

	uniform vec3 uLightPosition;
	uniform vec3 uLightColor;
	uniform float uLightRange;
	uniform float uLightIntensity;

	out vec4 FragColor;

	vec3 shade(vec3 n, vec3 v, vec3 l, vec3 radiance, vec3 albedo) {
		float diffuse = max(dot(n, l), 0.0);
		vec3 h = normalize(l + v);
		float shininess = mix(96.0, 4.0, clamp(uRoughness, 0.0, 1.0));
		float spec = pow(max(dot(n, h), 0.0), shininess) * (1.0 - 0.7 * uRoughness);
		vec3 specColor = mix(vec3(0.04), albedo, uMetalness);
		return radiance * (albedo * diffuse * (1.0 - uMetalness) + specColor * spec);
	}

	void main() {
		vec3 n = normalize(vNormal);
		if (!gl_FrontFacing) {
			n = -n;
		}
		vec3 v = normalize(uEye - vWorldPos);
		vec3 albedo = uBaseColor.rgb;

		vec3 color = uAmbient * albedo * 0.6;
		color += shade(n, v, normalize(uSunDirection), uSunColor, albedo);

		if (uLightIntensity > 0.0 && uLightRange > 0.0) {
			vec3 toLight = uLightPosition - vWorldPos;
			float d = length(toLight);
			float falloff = clamp(1.0 - d / uLightRange, 0.0, 1.0);
			color += shade(n, v, toLight / max(d, 1e-4), uLightColor * uLightIntensity * falloff * falloff, albedo);
		}

		color += uEmissive * uEmissiveIntensity;
		color = pow(clamp(color, 0.0, 1.0), vec3(1.0 / 2.2));
		FragColor = vec4(color, uBaseColor.a);
	}
`
