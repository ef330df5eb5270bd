// Package glgpu implements gpu.Device on top of OpenGL 4.1 core.
package glgpu

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// ErrNoObject is returned when the driver fails to allocate an object.
var ErrNoObject = errors.New("driver returned no object")

// Config holds the default pipeline state applied by New.
type Config struct {
	DepthTest  bool
	Blend      bool
	ClearColor [4]float32
}

// Device issues gpu.Device calls against the current GL context.
// It owns one vertex array object that stays bound for its lifetime, so
// attribute pointers behave like the default VAO of older contexts.
type Device struct {
	log *zap.Logger
	vao uint32
}

var _ gpu.Device = (*Device)(nil)

// New loads the GL function pointers and applies cfg.
// IMPORTANT: Must be called AFTER the OpenGL context is created!
func New(cfg Config, log *zap.Logger) (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
		zap.String("glsl", gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION))),
	)

	d := &Device{log: log}
	gl.GenVertexArrays(1, &d.vao)
	if d.vao == 0 {
		return nil, fmt.Errorf("vertex array: %w", ErrNoObject)
	}
	gl.BindVertexArray(d.vao)

	if cfg.DepthTest {
		gl.Enable(gl.DEPTH_TEST)
		gl.DepthFunc(gl.LEQUAL)
	}
	if cfg.Blend {
		gl.Enable(gl.BLEND)
		gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	}
	d.SetClearColor(cfg.ClearColor)

	return d, nil
}

// SetClearColor sets the color Clear fills the color buffer with.
func (d *Device) SetClearColor(c [4]float32) {
	gl.ClearColor(c[0], c[1], c[2], c[3])
}

// Close releases the device's vertex array.
func (d *Device) Close() {
	if d.vao != 0 {
		gl.BindVertexArray(0)
		gl.DeleteVertexArrays(1, &d.vao)
		d.vao = 0
	}
}

// Clear clears the color and depth buffers.
func (d *Device) Clear() {
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

// Viewport sets the viewport to the full drawable size.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
	d.log.Debug("viewport resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

func (d *Device) CreateShader(stage gpu.ShaderStage) (gpu.Shader, error) {
	var t uint32
	switch stage {
	case gpu.VertexStage:
		t = gl.VERTEX_SHADER
	case gpu.FragmentStage:
		t = gl.FRAGMENT_SHADER
	default:
		return 0, fmt.Errorf("unsupported shader stage %d", stage)
	}
	s := gl.CreateShader(t)
	if s == 0 {
		return 0, fmt.Errorf("%s shader: %w", stage, ErrNoObject)
	}
	return gpu.Shader(s), nil
}

func (d *Device) CompileShader(s gpu.Shader, source string) (bool, string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(s), 1, csource, nil)
	free()
	gl.CompileShader(uint32(s))

	var status int32
	gl.GetShaderiv(uint32(s), gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(uint32(s), gl.INFO_LOG_LENGTH, &logLen)
		return false, infoLog(logLen, func(n int32, buf *uint8) {
			gl.GetShaderInfoLog(uint32(s), n, nil, buf)
		})
	}
	return true, ""
}

func (d *Device) DeleteShader(s gpu.Shader) {
	gl.DeleteShader(uint32(s))
}

func (d *Device) CreateProgram() (gpu.Program, error) {
	p := gl.CreateProgram()
	if p == 0 {
		return 0, fmt.Errorf("program: %w", ErrNoObject)
	}
	return gpu.Program(p), nil
}

func (d *Device) AttachShader(p gpu.Program, s gpu.Shader) {
	gl.AttachShader(uint32(p), uint32(s))
}

func (d *Device) DetachShader(p gpu.Program, s gpu.Shader) {
	gl.DetachShader(uint32(p), uint32(s))
}

func (d *Device) LinkProgram(p gpu.Program) (bool, string) {
	gl.LinkProgram(uint32(p))

	var status int32
	gl.GetProgramiv(uint32(p), gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(uint32(p), gl.INFO_LOG_LENGTH, &logLen)
		return false, infoLog(logLen, func(n int32, buf *uint8) {
			gl.GetProgramInfoLog(uint32(p), n, nil, buf)
		})
	}
	return true, ""
}

func (d *Device) DeleteProgram(p gpu.Program) {
	gl.DeleteProgram(uint32(p))
}

func (d *Device) UseProgram(p gpu.Program) {
	gl.UseProgram(uint32(p))
}

func (d *Device) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	return gpu.UniformLocation(gl.GetUniformLocation(uint32(p), gl.Str(name+"\x00")))
}

func (d *Device) AttribLocation(p gpu.Program, name string) int32 {
	return gl.GetAttribLocation(uint32(p), gl.Str(name+"\x00"))
}

func (d *Device) CreateBuffer() (gpu.Buffer, error) {
	var b uint32
	gl.GenBuffers(1, &b)
	if b == 0 {
		return 0, fmt.Errorf("buffer: %w", ErrNoObject)
	}
	return gpu.Buffer(b), nil
}

func (d *Device) BufferData(b gpu.Buffer, data []float32, usage gpu.BufferUsage) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
	var ptr unsafe.Pointer
	if len(data) > 0 {
		ptr = unsafe.Pointer(&data[0])
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*4, ptr, glUsage(usage))
}

func (d *Device) BindArrayBuffer(b gpu.Buffer) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b))
}

func (d *Device) DeleteBuffer(b gpu.Buffer) {
	id := uint32(b)
	gl.DeleteBuffers(1, &id)
}

func (d *Device) VertexAttribPointer(loc uint32, components, stride, offset int32) {
	gl.VertexAttribPointerWithOffset(loc, components, gl.FLOAT, false, stride*4, uintptr(offset*4))
	gl.EnableVertexAttribArray(loc)
}

func (d *Device) DisableVertexAttribArray(loc uint32) {
	gl.DisableVertexAttribArray(loc)
}

func (d *Device) UniformMatrix4(loc gpu.UniformLocation, m math.Mat4) {
	gl.UniformMatrix4fv(int32(loc), 1, false, m.Ptr())
}

func (d *Device) Uniform1f(loc gpu.UniformLocation, v float32) {
	gl.Uniform1f(int32(loc), v)
}

func (d *Device) Uniform1i(loc gpu.UniformLocation, v int32) {
	gl.Uniform1i(int32(loc), v)
}

func (d *Device) Uniform2f(loc gpu.UniformLocation, x, y float32) {
	gl.Uniform2f(int32(loc), x, y)
}

func (d *Device) Uniform3f(loc gpu.UniformLocation, x, y, z float32) {
	gl.Uniform3f(int32(loc), x, y, z)
}

func (d *Device) Uniform4f(loc gpu.UniformLocation, v [4]float32) {
	gl.Uniform4f(int32(loc), v[0], v[1], v[2], v[3])
}

func (d *Device) BindTexture(unit uint32, t gpu.Texture) {
	gl.ActiveTexture(gl.TEXTURE0 + unit)
	gl.BindTexture(gl.TEXTURE_2D, uint32(t))
}

func (d *Device) DrawArrays(mode gpu.Topology, first, count int32) {
	gl.DrawArrays(glTopology(mode), first, count)
}

func glUsage(u gpu.BufferUsage) uint32 {
	switch u {
	case gpu.DynamicDraw:
		return gl.DYNAMIC_DRAW
	case gpu.StreamDraw:
		return gl.STREAM_DRAW
	default:
		return gl.STATIC_DRAW
	}
}

func glTopology(t gpu.Topology) uint32 {
	switch t {
	case gpu.TriangleStrip:
		return gl.TRIANGLE_STRIP
	case gpu.LineStrip:
		return gl.LINE_STRIP
	case gpu.LineLoop:
		return gl.LINE_LOOP
	case gpu.Lines:
		return gl.LINES
	case gpu.Points:
		return gl.POINTS
	default:
		return gl.TRIANGLES
	}
}

// infoLog reads a driver info log of logLen bytes (including the NUL).
func infoLog(logLen int32, read func(n int32, buf *uint8)) string {
	if logLen <= 0 {
		return ""
	}
	log := make([]byte, logLen)
	read(logLen, &log[0])
	return string(log[:logLen-1])
}

// UploadTexture creates an RGBA8 texture with nearest filtering.
// Texture loading belongs to the asset layer; this exists for generated
// images such as the client's fallback texture.
func (d *Device) UploadTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d: got %d bytes, want %d", width, height, len(rgba), width*height*4)
	}
	var t uint32
	gl.GenTextures(1, &t)
	if t == 0 {
		return 0, fmt.Errorf("texture: %w", ErrNoObject)
	}
	gl.BindTexture(gl.TEXTURE_2D, t)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)
	return gpu.Texture(t), nil
}

// DeleteTexture releases a texture created by UploadTexture.
func (d *Device) DeleteTexture(t gpu.Texture) {
	id := uint32(t)
	gl.DeleteTextures(1, &id)
}

// ReadPixels reads the back buffer as RGBA, bottom row first.
func (d *Device) ReadPixels(width, height int) []byte {
	pixels := make([]byte, width*height*4)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(width), int32(height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	return pixels
}
