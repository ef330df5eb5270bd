// Package texture2d draws textured quads in screen space: icons, cursors
// and other UI sprites.
package texture2d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/texture2d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

const (
	uProjection = "projection"
	uModel      = "model"
	uSize       = "size"
	uOffset     = "offset"
	uColor      = "color"
	uTexture    = "tex"
	aPosition   = "Position"
	aTexCoord   = "TexCoord"
)

// textureUnit is the unit the sampler reads from.
const textureUnit = 0

// Renderer draws Texture2D commands over the shared sprite quad.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program

	locProjection gpu.UniformLocation
	locModel      gpu.UniformLocation
	locSize       gpu.UniformLocation
	locOffset     gpu.UniformLocation
	locColor      gpu.UniformLocation
	locTexture    gpu.UniformLocation
	locPosition   uint32
	locTexCoord   uint32
}

// New compiles the texture program.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Texture2DVertexShader, shaders.Texture2DFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection, uModel, uSize, uOffset, uColor, uTexture},
		Attributes: []string{aPosition, aTexCoord},
	})
	if err != nil {
		return nil, fmt.Errorf("texture2d shader: %w", err)
	}

	log.Debug("texture2d renderer created", zap.Uint32("program", uint32(program.ID())))

	return &Renderer{
		dev:           dev,
		program:       program,
		locProjection: program.Uniform(uProjection),
		locModel:      program.Uniform(uModel),
		locSize:       program.Uniform(uSize),
		locOffset:     program.Uniform(uOffset),
		locColor:      program.Uniform(uColor),
		locTexture:    program.Uniform(uTexture),
		locPosition:   program.Attrib(aPosition),
		locTexCoord:   program.Attrib(aTexCoord),
	}, nil
}

// Render draws one quad per command, in order. The quad is the 0..1
// sprite quad; it is scaled to TextureWidth*Scale by TextureHeight*Scale
// and shifted by the command offset before the model transform
// (translate then rotate, like rectangles).
//
// Leaves the program bound, quad bound to the array target and the last
// command's texture bound to unit 0. Both attribute arrays are disabled
// again, so later paths never read the quad past its 4 vertices.
func (r *Renderer) Render(projection math.Mat4, commands []command.Texture2D, quad *geometry.StaticBuffer) {
	if len(commands) == 0 {
		return
	}

	r.program.Use()
	quad.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 2, quad.Stride, 0)
	r.dev.VertexAttribPointer(r.locTexCoord, 2, quad.Stride, 2)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.Uniform1i(r.locTexture, textureUnit)

	for _, c := range commands {
		r.dev.BindTexture(textureUnit, c.Texture)
		r.dev.UniformMatrix4(r.locModel, math.Model2D(c.ScreenX, c.ScreenY, float32(c.Layer), c.RotationRad))
		r.dev.Uniform2f(r.locSize, c.TextureWidth*c.Scale, c.TextureHeight*c.Scale)
		r.dev.Uniform2f(r.locOffset, c.OffsetX, c.OffsetY)
		r.dev.Uniform4f(r.locColor, c.Color)
		r.dev.DrawArrays(gpu.TriangleStrip, 0, 4)
	}
	r.dev.DisableVertexAttribArray(r.locTexCoord)
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// Destroy releases the program.
func (r *Renderer) Destroy() {
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
