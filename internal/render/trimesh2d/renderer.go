// Package trimesh2d draws flat-colored 2D primitives: rectangles and
// partial circles used by progress and cooldown indicators.
package trimesh2d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/trimesh2d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Shader parameter names.
const (
	uProjection = "projection"
	uModel      = "model"
	uSize       = "size"
	uColor      = "color"
	aPosition   = "Position"
)

var layout = shader.Layout{
	Uniforms:   []string{uProjection, uModel, uSize, uColor},
	Attributes: []string{aPosition},
}

// Renderer owns the trimesh2d program and the arc buffer table.
type Renderer struct {
	dev     gpu.Device
	log     *zap.Logger
	program *shader.Program

	// Uniform locations
	locProjection gpu.UniformLocation
	locModel      gpu.UniformLocation
	locSize       gpu.UniformLocation
	locColor      gpu.UniformLocation
	locPosition   uint32

	arcs *geometry.ArcTable
}

// New compiles the program and builds the arc buffers. Every GPU object
// created before a failure is released.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Trimesh2DVertexShader, shaders.Trimesh2DFragmentShader, layout)
	if err != nil {
		return nil, fmt.Errorf("trimesh2d shader: %w", err)
	}

	arcs, err := geometry.BuildArcBuffers(dev)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("trimesh2d arcs: %w", err)
	}

	r := &Renderer{
		dev:           dev,
		log:           log,
		program:       program,
		locProjection: program.Uniform(uProjection),
		locModel:      program.Uniform(uModel),
		locSize:       program.Uniform(uSize),
		locColor:      program.Uniform(uColor),
		locPosition:   program.Attrib(aPosition),
		arcs:          arcs,
	}

	log.Debug("trimesh2d renderer created",
		zap.Uint32("program", uint32(program.ID())),
		zap.Int("arc_buffers", len(arcs)),
	)
	return r, nil
}

// RenderRectangles draws one filled rectangle per command, in order, as a
// 4-vertex triangle strip over quad (the 0..1 sprite quad).
//
// On return the trimesh2d program is bound and quad is bound to the
// array target. The position array is disabled again. An empty list
// touches no GPU state.
func (r *Renderer) RenderRectangles(projection math.Mat4, commands []command.Rectangle2D, quad *geometry.StaticBuffer) {
	if len(commands) == 0 {
		return
	}

	r.program.Use()
	quad.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 2, quad.Stride, 0)
	r.dev.UniformMatrix4(r.locProjection, projection)

	for _, c := range commands {
		model := math.Model2D(c.ScreenX, c.ScreenY, float32(c.Layer), c.RotationRad)
		r.dev.UniformMatrix4(r.locModel, model)
		r.dev.Uniform2f(r.locSize, c.Width, c.Height)
		r.dev.Uniform4f(r.locColor, c.Color)
		r.dev.DrawArrays(gpu.TriangleStrip, 0, 4)
	}
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// RenderPartialCircles draws one line-strip arc per command, in order.
// Command k uses the arc buffer of percentage ArcIndex+1 and requests
// ArcIndex+1 vertices; index 0 is a single point and rasterizes nothing.
// The baked radius is used as is (size is (1, 1)) and no rotation applies.
//
// On return the trimesh2d program is bound and the last command's arc
// buffer is bound to the array target. The position array is disabled
// again. An empty list touches no GPU state.
// Panics on an arc index outside [0, 99].
func (r *Renderer) RenderPartialCircles(projection math.Mat4, commands []command.PartialCircle2D) {
	if len(commands) == 0 {
		return
	}

	r.program.Use()
	r.dev.UniformMatrix4(r.locProjection, projection)

	for _, c := range commands {
		arc := r.arcs.Get(c.ArcIndex)

		r.dev.UniformMatrix4(r.locModel, math.Translation2D(c.ScreenX, c.ScreenY, float32(c.Layer)))
		r.dev.Uniform2f(r.locSize, 1, 1)
		r.dev.Uniform4f(r.locColor, c.Color)

		arc.Bind()
		r.dev.VertexAttribPointer(r.locPosition, 2, arc.Stride, 0)
		r.dev.DrawArrays(gpu.LineStrip, 0, int32(c.ArcIndex+1))
	}
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// Destroy releases the program and the arc buffers.
func (r *Renderer) Destroy() {
	if r.arcs != nil {
		r.arcs.Delete()
		r.arcs = nil
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
