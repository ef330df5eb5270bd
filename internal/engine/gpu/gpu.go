// Package gpu defines the graphics device handle shared by every renderer.
//
// A Device is created once by the windowing layer, after the GL context
// exists, and passed into each renderer at construction. Renderers must
// not assume anything about binding state left over from a previous draw
// path: siblings run interleaved within one frame.
package gpu

import (
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Object handles. Zero is never a valid object.
type (
	Shader  uint32
	Program uint32
	Buffer  uint32
	Texture uint32
)

// UniformLocation identifies a uniform inside a linked program.
// Negative values mean the uniform does not exist or is inactive.
type UniformLocation int32

// ShaderStage selects the pipeline stage a shader object is compiled for.
type ShaderStage int

const (
	VertexStage ShaderStage = iota
	FragmentStage
)

func (s ShaderStage) String() string {
	switch s {
	case VertexStage:
		return "vertex"
	case FragmentStage:
		return "fragment"
	default:
		return "unknown"
	}
}

// Topology is the primitive type of a draw call.
type Topology int

const (
	Triangles Topology = iota
	TriangleStrip
	LineStrip
	LineLoop
	Lines
	Points
)

func (t Topology) String() string {
	switch t {
	case Triangles:
		return "triangles"
	case TriangleStrip:
		return "triangle_strip"
	case LineStrip:
		return "line_strip"
	case LineLoop:
		return "line_loop"
	case Lines:
		return "lines"
	case Points:
		return "points"
	default:
		return "unknown"
	}
}

// BufferUsage is the upload hint passed with buffer data.
type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
	StreamDraw
)

// Device is the subset of the graphics API the renderers use.
//
// Creation calls return an error when the driver hands back no object;
// everything else is fire-and-forget.
type Device interface {
	CreateShader(stage ShaderStage) (Shader, error)
	// CompileShader uploads source and compiles it. On failure ok is false
	// and log holds the driver's info log.
	CompileShader(s Shader, source string) (ok bool, log string)
	DeleteShader(s Shader)

	CreateProgram() (Program, error)
	AttachShader(p Program, s Shader)
	DetachShader(p Program, s Shader)
	LinkProgram(p Program) (ok bool, log string)
	DeleteProgram(p Program)
	UseProgram(p Program)

	// UniformLocation returns -1 for unknown names.
	UniformLocation(p Program, name string) UniformLocation
	// AttribLocation returns -1 for unknown names.
	AttribLocation(p Program, name string) int32

	CreateBuffer() (Buffer, error)
	// BufferData binds b to the array target and uploads data.
	BufferData(b Buffer, data []float32, usage BufferUsage)
	BindArrayBuffer(b Buffer)
	DeleteBuffer(b Buffer)
	// VertexAttribPointer enables attribute loc and points it at the
	// buffer bound to the array target. stride and offset count floats.
	VertexAttribPointer(loc uint32, components, stride, offset int32)
	// DisableVertexAttribArray turns attribute loc off again. Every draw
	// path disables the arrays it enabled before returning.
	DisableVertexAttribArray(loc uint32)

	UniformMatrix4(loc UniformLocation, m math.Mat4)
	Uniform1f(loc UniformLocation, v float32)
	Uniform1i(loc UniformLocation, v int32)
	Uniform2f(loc UniformLocation, x, y float32)
	Uniform3f(loc UniformLocation, x, y, z float32)
	Uniform4f(loc UniformLocation, v [4]float32)

	// UploadTexture creates a 2D texture from tightly packed RGBA rows.
	UploadTexture(width, height int, rgba []byte) (Texture, error)
	DeleteTexture(t Texture)
	// BindTexture activates texture unit and binds t as a 2D texture.
	BindTexture(unit uint32, t Texture)

	DrawArrays(mode Topology, first, count int32)
}
