// Package point2d draws screen-space points, all of a frame's points in a
// single draw call.
package point2d

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/point2d/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

const (
	uProjection = "projection"
	aPosition   = "Position"
	aColor      = "Color"
)

// Stride is the number of floats per point: x, y, depth, r, g, b, a.
const Stride = 7

// Renderer packs Point2D commands into a dynamic buffer.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program
	buf     *geometry.DynamicBuffer
	scratch []float32

	locProjection gpu.UniformLocation
	locPosition   uint32
	locColor      uint32
}

// New compiles the point program and creates the vertex buffer.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.Point2DVertexShader, shaders.Point2DFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection},
		Attributes: []string{aPosition, aColor},
	})
	if err != nil {
		return nil, fmt.Errorf("point2d shader: %w", err)
	}

	buf, err := geometry.NewDynamicBuffer(dev, Stride)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("point2d buffer: %w", err)
	}

	log.Debug("point2d renderer created", zap.Uint32("program", uint32(program.ID())))

	return &Renderer{
		dev:           dev,
		program:       program,
		buf:           buf,
		locProjection: program.Uniform(uProjection),
		locPosition:   program.Attrib(aPosition),
		locColor:      program.Attrib(aColor),
	}, nil
}

// Pack appends the vertex data of points to dst.
func Pack(dst []float32, points []command.Point2D) []float32 {
	for _, p := range points {
		dst = append(dst, p.ScreenX, p.ScreenY, p.Layer.Depth(),
			p.Color[0], p.Color[1], p.Color[2], p.Color[3])
	}
	return dst
}

// Render uploads every point and draws them with one call. Leaves the
// program and the point buffer bound; both attribute arrays are disabled
// again. An empty list touches no GPU state.
func (r *Renderer) Render(projection math.Mat4, points []command.Point2D) {
	if len(points) == 0 {
		return
	}

	r.scratch = Pack(r.scratch[:0], points)

	r.program.Use()
	n := r.buf.Upload(r.scratch)
	r.dev.VertexAttribPointer(r.locPosition, 3, Stride, 0)
	r.dev.VertexAttribPointer(r.locColor, 4, Stride, 3)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.DrawArrays(gpu.Points, 0, n)
	r.dev.DisableVertexAttribArray(r.locColor)
	r.dev.DisableVertexAttribArray(r.locPosition)
}

// Destroy releases the program and the buffer.
func (r *Renderer) Destroy() {
	if r.buf != nil {
		r.buf.Delete()
		r.buf = nil
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
