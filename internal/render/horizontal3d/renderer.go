// Package horizontal3d draws textures lying flat above the ground.
package horizontal3d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/horizontal3d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

const (
	uProjection = "projection"
	uView       = "view"
	uModel      = "model"
	uSize       = "size"
	uColor      = "color"
	uTexture    = "tex"
	aPosition   = "Position"
	aTexCoord   = "TexCoord"
)

// Renderer draws HorizontalTexture3D commands over its own centered quad.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program
	quad    *geometry.StaticBuffer

	locProjection gpu.UniformLocation
	locView       gpu.UniformLocation
	locModel      gpu.UniformLocation
	locSize       gpu.UniformLocation
	locColor      gpu.UniformLocation
	locTexture    gpu.UniformLocation
	locPosition   uint32
	locTexCoord   uint32
}

// New compiles the program and uploads the centered quad.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Horizontal3DVertexShader, shaders.Horizontal3DFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection, uView, uModel, uSize, uColor, uTexture},
		Attributes: []string{aPosition, aTexCoord},
	})
	if err != nil {
		return nil, fmt.Errorf("horizontal3d shader: %w", err)
	}

	quad, err := geometry.NewCenteredSpriteQuad(dev)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("horizontal3d quad: %w", err)
	}

	log.Debug("horizontal3d renderer created", zap.Uint32("program", uint32(program.ID())))

	return &Renderer{
		dev:           dev,
		program:       program,
		quad:          quad,
		locProjection: program.Uniform(uProjection),
		locView:       program.Uniform(uView),
		locModel:      program.Uniform(uModel),
		locSize:       program.Uniform(uSize),
		locColor:      program.Uniform(uColor),
		locTexture:    program.Uniform(uTexture),
		locPosition:   program.Attrib(aPosition),
		locTexCoord:   program.Attrib(aTexCoord),
	}, nil
}

// Render draws one quad per command, in order, with the command's
// texture bound to unit 0. Leaves the program, the quad and the last
// texture bound; both attribute arrays are disabled again.
func (r *Renderer) Render(projection, view math.Mat4, commands []command.HorizontalTexture3D) {
	if len(commands) == 0 {
		return
	}

	r.program.Use()
	r.quad.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 2, r.quad.Stride, 0)
	r.dev.VertexAttribPointer(r.locTexCoord, 2, r.quad.Stride, 2)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.UniformMatrix4(r.locView, view)
	r.dev.Uniform1i(r.locTexture, 0)

	for _, c := range commands {
		r.dev.BindTexture(0, c.Texture)
		r.dev.UniformMatrix4(r.locModel, c.Model)
		r.dev.Uniform2f(r.locSize, c.Width, c.Height)
		r.dev.Uniform4f(r.locColor, c.Color)
		r.dev.DrawArrays(gpu.TriangleStrip, 0, 4)
	}
	r.dev.DisableVertexAttribArray(r.locTexCoord)
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// Destroy releases the program and the quad.
func (r *Renderer) Destroy() {
	if r.quad != nil {
		r.quad.Delete()
		r.quad = nil
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
