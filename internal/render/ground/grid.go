// Package ground draws the placeholder map ground: a line grid on the
// XZ plane that fades out towards its edge.
package ground

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/shader"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/ground/shaders"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Default grid: 41x41 lines one world unit apart.
const (
	DefaultHalfCells = 20
	DefaultCellSize  = 1.0
)

// DefaultColor is a dim grey-blue.
var DefaultColor = command.Color{0.35, 0.4, 0.5, 0.8}

const (
	uProjection = "projection"
	uView       = "view"
	uExtent     = "extent"
	uColor      = "color"
	aPosition   = "Position"
)

// GridLines returns line-list vertices (xyz) of a square grid centered
// on the origin with 2*half cells per side.
func GridLines(half int, cell float32) []float32 {
	if half < 1 {
		panic(fmt.Sprintf("ground: grid needs at least one cell per side, got %d", half))
	}
	edge := float32(half) * cell
	out := make([]float32, 0, (2*half+1)*4*3)
	for i := -half; i <= half; i++ {
		p := float32(i) * cell
		out = append(out,
			p, 0, -edge, p, 0, edge,
			-edge, 0, p, edge, 0, p,
		)
	}
	return out
}

// Renderer draws the grid for a Ground command.
type Renderer struct {
	dev     gpu.Device
	program *shader.Program
	grid    *geometry.StaticBuffer
	extent  float32
	Color   command.Color

	locProjection gpu.UniformLocation
	locView       gpu.UniformLocation
	locExtent     gpu.UniformLocation
	locColor      gpu.UniformLocation
	locPosition   uint32
}

// New builds the grid program and uploads a default-sized grid.
func New(dev gpu.Device, log *zap.Logger) (*Renderer, error) {
	program, err := shader.New(dev, shaders.GroundVertexShader, shaders.GroundFragmentShader, shader.Layout{
		Uniforms:   []string{uProjection, uView, uExtent, uColor},
		Attributes: []string{aPosition},
	})
	if err != nil {
		return nil, fmt.Errorf("ground shader: %w", err)
	}

	grid, err := geometry.NewStaticBuffer(dev, GridLines(DefaultHalfCells, DefaultCellSize), 3)
	if err != nil {
		program.Delete()
		return nil, fmt.Errorf("ground grid: %w", err)
	}

	log.Debug("ground renderer created", zap.Int32("vertices", grid.VertexCount))

	return &Renderer{
		dev:           dev,
		program:       program,
		grid:          grid,
		extent:        DefaultHalfCells * DefaultCellSize,
		Color:         DefaultColor,
		locProjection: program.Uniform(uProjection),
		locView:       program.Uniform(uView),
		locExtent:     program.Uniform(uExtent),
		locColor:      program.Uniform(uColor),
		locPosition:   program.Attrib(aPosition),
	}, nil
}

// RenderGround draws the grid with the command's view matrix. Leaves the
// ground program and the grid buffer bound; the position array is
// disabled again.
func (r *Renderer) RenderGround(projection math.Mat4, g command.Ground) {
	r.program.Use()
	r.grid.Bind()
	r.dev.VertexAttribPointer(r.locPosition, 3, r.grid.Stride, 0)
	r.dev.UniformMatrix4(r.locProjection, projection)
	r.dev.UniformMatrix4(r.locView, g.View)
	r.dev.Uniform1f(r.locExtent, r.extent)
	r.dev.Uniform4f(r.locColor, r.Color)
	r.dev.DrawArrays(gpu.Lines, 0, r.grid.VertexCount)
	r.dev.DisableVertexAttribArray(r.locPosition)
}

func (r *Renderer) Destroy() {
	if r.grid != nil {
		r.grid.Delete()
		r.grid = nil
	}
	if r.program != nil {
		r.program.Delete()
		r.program = nil
	}
}
