// Package trimesh3d draws wireframe circles and rectangles lying on the
// ground plane: target markers, skill areas and cell highlights.
package trimesh3d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/trimesh3d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// CircleSegments is the number of points of the unit circle outline.
const CircleSegments = 32

const (
	uProjection = "projection"
	uView       = "view"
	uModel      = "model"
	uScale      = "scale"
	uColor      = "color"
	aPosition   = "Position"
)

// unitRectangle is a 1x1 square centered on the origin on the XZ plane.
var unitRectangle = []float32{
	-0.5, 0, -0.5,
	+0.5, 0, -0.5,
	+0.5, 0, +0.5,
	-0.5, 0, +0.5,
}

// Renderer draws Circle3D and Rectangle3D commands as line loops.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program

	locProjection gpu.UniformLocation
	locView       gpu.UniformLocation
	locModel      gpu.UniformLocation
	locScale      gpu.UniformLocation
	locColor      gpu.UniformLocation
	locPosition   uint32

	circle    *geometry.StaticBuffer
	rectangle *geometry.StaticBuffer
}

// New compiles the wireframe program and uploads the unit outlines.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Trimesh3DVertexShader, shaders.Trimesh3DFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection, uView, uModel, uScale, uColor},
		Attributes: []string{aPosition},
	})
	if err != nil {
		return nil, fmt.Errorf("trimesh3d shader: %w", err)
	}

	circle, err := geometry.NewStaticBuffer(dev, geometry.CirclePoints(0.5, CircleSegments), 3)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("trimesh3d circle: %w", err)
	}

	rectangle, err := geometry.NewStaticBuffer(dev, unitRectangle, 3)
	if err != nil {
		circle.Delete()
		program.Delete()
		return nil, fmt.Errorf("trimesh3d rectangle: %w", err)
	}

	log.Debug("trimesh3d renderer created", zap.Uint32("program", uint32(program.ID())))

	return &Renderer{
		dev:           dev,
		program:       program,
		locProjection: program.Uniform(uProjection),
		locView:       program.Uniform(uView),
		locModel:      program.Uniform(uModel),
		locScale:      program.Uniform(uScale),
		locColor:      program.Uniform(uColor),
		locPosition:   program.Attrib(aPosition),
		circle:        circle,
		rectangle:     rectangle,
	}, nil
}

// begin binds the program, the outline buffer and the camera matrices.
// Both draw paths disable the position array when done.
func (r *Renderer) begin(projection, view math.Mat4, buf *geometry.StaticBuffer) {
	r.program.Use()
	buf.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 3, buf.Stride, 0)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.UniformMatrix4(r.locView, view)
}

// RenderCircles draws one outline per command. The diameter is
// 2*Radius*Size. Leaves the program and the circle buffer bound.
func (r *Renderer) RenderCircles(projection, view math.Mat4, commands []command.Circle3D) {
	if len(commands) == 0 {
		return
	}
	r.begin(projection, view, r.circle)

	for _, c := range commands {
		d := c.Radius * 2 * c.Size
		r.dev.UniformMatrix4(r.locModel, c.Model)
		r.dev.Uniform3f(r.locScale, d, 1, d)
		r.dev.Uniform4f(r.locColor, c.Color)
		r.dev.DrawArrays(gpu.LineLoop, 0, r.circle.VertexCount)
	}
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// RenderRectangles draws one outline per command, Width along X and
// Height along Z before the model rotation. Leaves the program and the
// rectangle buffer bound.
func (r *Renderer) RenderRectangles(projection, view math.Mat4, commands []command.Rectangle3D) {
	if len(commands) == 0 {
		return
	}
	r.begin(projection, view, r.rectangle)

	for _, c := range commands {
		r.dev.UniformMatrix4(r.locModel, c.Model)
		r.dev.Uniform3f(r.locScale, c.Width*c.Size, 1, c.Height*c.Size)
		r.dev.Uniform4f(r.locColor, c.Color)
		r.dev.DrawArrays(gpu.LineLoop, 0, r.rectangle.VertexCount)
	}
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// Destroy releases the program and buffers.
func (r *Renderer) Destroy() {
	for _, b := range []*geometry.StaticBuffer{r.circle, r.rectangle} {
		if b != nil {
			b.Delete()
		}
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
