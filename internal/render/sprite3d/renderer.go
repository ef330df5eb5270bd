// Package sprite3d draws camera-facing sprites and floating numbers in
// world space.
package sprite3d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/sprite3d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Digit size in world units at Size 1.
const (
	DigitWidth   = 0.3
	DigitHeight  = 0.5
	DigitAdvance = 0.36
)

const (
	uProjection = "projection"
	uView       = "view"
	uModel      = "model"
	uSize       = "size"
	uOffset     = "offset"
	uUVRect     = "uv_rect"
	uColor      = "color"
	uTexture    = "tex"
	aPosition   = "Position"
	aTexCoord   = "TexCoord"
)

var fullUV = [4]float32{0, 0, 1, 1}

// Renderer draws Sprite3D and Number3D commands as billboards.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program
	quad    *geometry.StaticBuffer
	digits  gpu.Texture

	locProjection gpu.UniformLocation
	locView       gpu.UniformLocation
	locModel      gpu.UniformLocation
	locSize       gpu.UniformLocation
	locOffset     gpu.UniformLocation
	locUVRect     gpu.UniformLocation
	locColor      gpu.UniformLocation
	locTexture    gpu.UniformLocation
	locPosition   uint32
	locTexCoord   uint32
}

// New compiles the billboard program, uploads the centered quad and
// rasterizes the digit atlas.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Sprite3DVertexShader, shaders.Sprite3DFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection, uView, uModel, uSize, uOffset, uUVRect, uColor, uTexture},
		Attributes: []string{aPosition, aTexCoord},
	})
	if err != nil {
		return nil, fmt.Errorf("sprite3d shader: %w", err)
	}

	quad, err := geometry.NewCenteredSpriteQuad(dev)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("sprite3d quad: %w", err)
	}

	digits, err := dev.UploadTexture(atlasW, atlasH, digitAtlas())
	if err != nil {
		quad.Delete()
		program.Delete()
		return nil, fmt.Errorf("sprite3d digit atlas: %w", err)
	}

	log.Debug("sprite3d renderer created", zap.Uint32("program", uint32(program.ID())))

	return &Renderer{
		dev:           dev,
		program:       program,
		quad:          quad,
		digits:        digits,
		locProjection: program.Uniform(uProjection),
		locView:       program.Uniform(uView),
		locModel:      program.Uniform(uModel),
		locSize:       program.Uniform(uSize),
		locOffset:     program.Uniform(uOffset),
		locUVRect:     program.Uniform(uUVRect),
		locColor:      program.Uniform(uColor),
		locTexture:    program.Uniform(uTexture),
		locPosition:   program.Attrib(aPosition),
		locTexCoord:   program.Attrib(aTexCoord),
	}, nil
}

// end disables the arrays begin enabled.
func (r *Renderer) end() {
	r.dev.DisableVertexAttribArray(r.locTexCoord)
	r.dev.DisableVertexAttribArray(r.locPosition)
}

func (r *Renderer) begin(projection, view math.Mat4) {
	r.program.Use()
	r.quad.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 2, r.quad.Stride, 0)
	r.dev.VertexAttribPointer(r.locTexCoord, 2, r.quad.Stride, 2)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.UniformMatrix4(r.locView, view)
	r.dev.Uniform1i(r.locTexture, 0)
}

// RenderSprites draws one billboard per command. Leaves the program, the
// centered quad and the last sprite's texture bound, with the attribute
// arrays disabled.
func (r *Renderer) RenderSprites(projection, view math.Mat4, sprites []command.Sprite3D) {
	if len(sprites) == 0 {
		return
	}
	r.begin(projection, view)
	r.dev.Uniform4f(r.locUVRect, fullUV)

	for _, s := range sprites {
		r.dev.BindTexture(0, s.Texture)
		r.dev.UniformMatrix4(r.locModel, s.Model)
		r.dev.Uniform2f(r.locSize, s.TextureWidth, s.TextureHeight)
		r.dev.Uniform2f(r.locOffset, s.Offset[0], s.Offset[1])
		r.dev.Uniform4f(r.locColor, s.Color)
		r.dev.DrawArrays(gpu.TriangleStrip, 0, 4)
	}
	r.end()
}

// RenderNumbers draws each number as a row of digit billboards centered
// on its position, one draw per digit. Leaves the program, the centered
// quad and the digit atlas bound, with the attribute arrays disabled.
func (r *Renderer) RenderNumbers(projection, view math.Mat4, numbers []command.Number3D) {
	if len(numbers) == 0 {
		return
	}
	r.begin(projection, view)
	r.dev.BindTexture(0, r.digits)

	for _, n := range numbers {
		digits := Digits(n.Value, n.DigitCount)
		advance := DigitAdvance * n.Size
		left := -advance * float32(len(digits)-1) / 2

		r.dev.UniformMatrix4(r.locModel, n.Model)
		r.dev.Uniform2f(r.locSize, DigitWidth*n.Size, DigitHeight*n.Size)
		r.dev.Uniform4f(r.locColor, n.Color)
		for i, d := range digits {
			r.dev.Uniform2f(r.locOffset, n.Offset[0]+left+advance*float32(i), n.Offset[1])
			r.dev.Uniform4f(r.locUVRect, glyphUV(d))
			r.dev.DrawArrays(gpu.TriangleStrip, 0, 4)
		}
	}
	r.end()
}

// Destroy releases the program, the quad and the digit atlas.
func (r *Renderer) Destroy() {
	if r.digits != 0 {
		r.dev.DeleteTexture(r.digits)
		r.digits = 0
	}
	if r.quad != nil {
		r.quad.Delete()
		r.quad = nil
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
