// Package gputest provides a gpu.Device that records calls instead of
// talking to a driver, for tests that run without a GL context.
package gputest

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// ErrExhausted is returned by CreateBuffer once MaxBuffers is reached.
var ErrExhausted = errors.New("gputest: buffer limit reached")

// Call is one recorded device call.
type Call struct {
	Op   string
	Args []any
}

// Attrib is an enabled vertex attribute array and the buffer it reads.
type Attrib struct {
	Buffer     gpu.Buffer
	Components int32
	Stride     int32
	Offset     int32
}

// Draw is a DrawArrays call together with the binding state it saw.
type Draw struct {
	Program gpu.Program
	Buffer  gpu.Buffer
	Texture gpu.Texture
	Mode    gpu.Topology
	First   int32
	Count   int32
	// Attribs are the attribute arrays enabled at draw time, by location.
	Attribs map[uint32]Attrib

	uniforms map[string]any
}

// Has reports whether uniform name had been set when the draw was issued.
func (d Draw) Has(name string) bool {
	_, ok := d.uniforms[name]
	return ok
}

func (d Draw) Mat4(name string) math.Mat4 {
	v, _ := d.uniforms[name].(math.Mat4)
	return v
}

func (d Draw) Vec2(name string) [2]float32 {
	v, _ := d.uniforms[name].([2]float32)
	return v
}

func (d Draw) Vec3(name string) [3]float32 {
	v, _ := d.uniforms[name].([3]float32)
	return v
}

func (d Draw) Vec4(name string) [4]float32 {
	v, _ := d.uniforms[name].([4]float32)
	return v
}

func (d Draw) Float(name string) float32 {
	v, _ := d.uniforms[name].(float32)
	return v
}

func (d Draw) Int(name string) int32 {
	v, _ := d.uniforms[name].(int32)
	return v
}

type program struct {
	uniforms map[string]gpu.UniformLocation
	names    map[gpu.UniformLocation]string
	values   map[string]any
	attribs  map[string]int32
}

// Recorder implements gpu.Device in memory.
// Failure injection fields may be set before the code under test runs.
type Recorder struct {
	// CompileErrors makes compiling a shader of the given stage fail
	// with the mapped info log.
	CompileErrors map[gpu.ShaderStage]string
	// LinkError, when set, makes every link fail with this log.
	LinkError string
	// Hidden names resolve to -1, as inactive uniforms do.
	Hidden map[string]bool
	// MaxBuffers caps the number of buffers CreateBuffer hands out.
	// Zero means no limit.
	MaxBuffers int

	Calls []Call
	Draws []Draw

	next         uint32
	stages       map[gpu.Shader]gpu.ShaderStage
	programs     map[gpu.Program]*program
	buffers      map[gpu.Buffer][]float32
	textures     map[gpu.Texture][2]int
	createdBufs  int
	current      gpu.Program
	arrayBuffer  gpu.Buffer
	boundTexture gpu.Texture
	enabled      map[uint32]Attrib
}

var _ gpu.Device = (*Recorder)(nil)

// New returns an empty recorder.
func New() *Recorder {
	return &Recorder{
		CompileErrors: make(map[gpu.ShaderStage]string),
		Hidden:        make(map[string]bool),
		stages:        make(map[gpu.Shader]gpu.ShaderStage),
		programs:      make(map[gpu.Program]*program),
		buffers:       make(map[gpu.Buffer][]float32),
		textures:      make(map[gpu.Texture][2]int),
		enabled:       make(map[uint32]Attrib),
	}
}

// Reset forgets recorded calls and draws but keeps live objects.
func (r *Recorder) Reset() {
	r.Calls = nil
	r.Draws = nil
}

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// LiveShaders returns the number of shader objects not yet deleted.
func (r *Recorder) LiveShaders() int { return len(r.stages) }

// LivePrograms returns the number of programs not yet deleted.
func (r *Recorder) LivePrograms() int { return len(r.programs) }

// LiveBuffers returns the number of buffers not yet deleted.
func (r *Recorder) LiveBuffers() int { return len(r.buffers) }

// LiveTextures returns the number of textures not yet deleted.
func (r *Recorder) LiveTextures() int { return len(r.textures) }

// TextureSize returns the size a texture was uploaded with.
func (r *Recorder) TextureSize(t gpu.Texture) (int, int) {
	s := r.textures[t]
	return s[0], s[1]
}

// Data returns the last upload to b.
func (r *Recorder) Data(b gpu.Buffer) []float32 {
	return r.buffers[b]
}

// CurrentProgram returns the program bound by the last UseProgram.
func (r *Recorder) CurrentProgram() gpu.Program { return r.current }

// EnabledAttribs returns the locations of the attribute arrays currently
// enabled.
func (r *Recorder) EnabledAttribs() []uint32 {
	locs := make([]uint32, 0, len(r.enabled))
	for loc := range r.enabled {
		locs = append(locs, loc)
	}
	slices.Sort(locs)
	return locs
}

// ArrayBuffer returns the buffer bound to the array target.
func (r *Recorder) ArrayBuffer() gpu.Buffer { return r.arrayBuffer }

func (r *Recorder) record(op string, args ...any) {
	r.Calls = append(r.Calls, Call{Op: op, Args: args})
}

func (r *Recorder) id() uint32 {
	r.next++
	return r.next
}

func (r *Recorder) CreateShader(stage gpu.ShaderStage) (gpu.Shader, error) {
	s := gpu.Shader(r.id())
	r.stages[s] = stage
	r.record("CreateShader", stage)
	return s, nil
}

func (r *Recorder) CompileShader(s gpu.Shader, source string) (bool, string) {
	r.record("CompileShader", s)
	stage, ok := r.stages[s]
	if !ok {
		return false, fmt.Sprintf("shader %d does not exist", s)
	}
	if log, fail := r.CompileErrors[stage]; fail {
		return false, log
	}
	return true, ""
}

func (r *Recorder) DeleteShader(s gpu.Shader) {
	r.record("DeleteShader", s)
	delete(r.stages, s)
}

func (r *Recorder) CreateProgram() (gpu.Program, error) {
	p := gpu.Program(r.id())
	r.programs[p] = &program{
		uniforms: make(map[string]gpu.UniformLocation),
		names:    make(map[gpu.UniformLocation]string),
		values:   make(map[string]any),
		attribs:  make(map[string]int32),
	}
	r.record("CreateProgram")
	return p, nil
}

func (r *Recorder) AttachShader(p gpu.Program, s gpu.Shader) {
	r.record("AttachShader", p, s)
}

func (r *Recorder) DetachShader(p gpu.Program, s gpu.Shader) {
	r.record("DetachShader", p, s)
}

func (r *Recorder) LinkProgram(p gpu.Program) (bool, string) {
	r.record("LinkProgram", p)
	if r.LinkError != "" {
		return false, r.LinkError
	}
	return true, ""
}

func (r *Recorder) DeleteProgram(p gpu.Program) {
	r.record("DeleteProgram", p)
	delete(r.programs, p)
	if r.current == p {
		r.current = 0
	}
}

func (r *Recorder) UseProgram(p gpu.Program) {
	r.record("UseProgram", p)
	r.current = p
}

func (r *Recorder) UniformLocation(p gpu.Program, name string) gpu.UniformLocation {
	prog, ok := r.programs[p]
	if !ok || r.Hidden[name] {
		return -1
	}
	if loc, ok := prog.uniforms[name]; ok {
		return loc
	}
	loc := gpu.UniformLocation(len(prog.uniforms))
	prog.uniforms[name] = loc
	prog.names[loc] = name
	return loc
}

func (r *Recorder) AttribLocation(p gpu.Program, name string) int32 {
	prog, ok := r.programs[p]
	if !ok || r.Hidden[name] {
		return -1
	}
	if loc, ok := prog.attribs[name]; ok {
		return loc
	}
	loc := int32(len(prog.attribs))
	prog.attribs[name] = loc
	return loc
}

func (r *Recorder) CreateBuffer() (gpu.Buffer, error) {
	if r.MaxBuffers > 0 && r.createdBufs >= r.MaxBuffers {
		return 0, ErrExhausted
	}
	r.createdBufs++
	b := gpu.Buffer(r.id())
	r.buffers[b] = nil
	r.record("CreateBuffer")
	return b, nil
}

func (r *Recorder) BufferData(b gpu.Buffer, data []float32, usage gpu.BufferUsage) {
	r.record("BufferData", b, len(data), usage)
	r.arrayBuffer = b
	if _, ok := r.buffers[b]; ok {
		r.buffers[b] = append([]float32(nil), data...)
	}
}

func (r *Recorder) BindArrayBuffer(b gpu.Buffer) {
	r.record("BindArrayBuffer", b)
	r.arrayBuffer = b
}

func (r *Recorder) DeleteBuffer(b gpu.Buffer) {
	r.record("DeleteBuffer", b)
	delete(r.buffers, b)
	if r.arrayBuffer == b {
		r.arrayBuffer = 0
	}
}

func (r *Recorder) VertexAttribPointer(loc uint32, components, stride, offset int32) {
	r.record("VertexAttribPointer", loc, components, stride, offset)
	r.enabled[loc] = Attrib{Buffer: r.arrayBuffer, Components: components, Stride: stride, Offset: offset}
}

func (r *Recorder) DisableVertexAttribArray(loc uint32) {
	r.record("DisableVertexAttribArray", loc)
	delete(r.enabled, loc)
}

func (r *Recorder) setUniform(op string, loc gpu.UniformLocation, v any) {
	r.record(op, loc, v)
	prog, ok := r.programs[r.current]
	if !ok || loc < 0 {
		return
	}
	if name, ok := prog.names[loc]; ok {
		prog.values[name] = v
	}
}

func (r *Recorder) UniformMatrix4(loc gpu.UniformLocation, m math.Mat4) {
	r.setUniform("UniformMatrix4", loc, m)
}

func (r *Recorder) Uniform1f(loc gpu.UniformLocation, v float32) {
	r.setUniform("Uniform1f", loc, v)
}

func (r *Recorder) Uniform1i(loc gpu.UniformLocation, v int32) {
	r.setUniform("Uniform1i", loc, v)
}

func (r *Recorder) Uniform2f(loc gpu.UniformLocation, x, y float32) {
	r.setUniform("Uniform2f", loc, [2]float32{x, y})
}

func (r *Recorder) Uniform3f(loc gpu.UniformLocation, x, y, z float32) {
	r.setUniform("Uniform3f", loc, [3]float32{x, y, z})
}

func (r *Recorder) Uniform4f(loc gpu.UniformLocation, v [4]float32) {
	r.setUniform("Uniform4f", loc, v)
}

func (r *Recorder) UploadTexture(width, height int, rgba []byte) (gpu.Texture, error) {
	if len(rgba) != width*height*4 {
		return 0, fmt.Errorf("texture %dx%d: got %d bytes", width, height, len(rgba))
	}
	t := gpu.Texture(r.id())
	r.textures[t] = [2]int{width, height}
	r.record("UploadTexture", t, width, height)
	return t, nil
}

func (r *Recorder) DeleteTexture(t gpu.Texture) {
	r.record("DeleteTexture", t)
	delete(r.textures, t)
	if r.boundTexture == t {
		r.boundTexture = 0
	}
}

func (r *Recorder) BindTexture(unit uint32, t gpu.Texture) {
	r.record("BindTexture", unit, t)
	r.boundTexture = t
}

func (r *Recorder) DrawArrays(mode gpu.Topology, first, count int32) {
	r.record("DrawArrays", mode, first, count)

	d := Draw{
		Program:  r.current,
		Buffer:   r.arrayBuffer,
		Texture:  r.boundTexture,
		Mode:     mode,
		First:    first,
		Count:    count,
		Attribs:  maps.Clone(r.enabled),
		uniforms: make(map[string]any),
	}
	if prog, ok := r.programs[r.current]; ok {
		for k, v := range prog.values {
			d.uniforms[k] = v
		}
	}
	r.Draws = append(r.Draws, d)
}
