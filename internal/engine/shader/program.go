package shader

import (
	"fmt"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
)

// Layout lists the names a program must expose.
type Layout struct {
	Uniforms   []string
	Attributes []string
}

// Program is a linked program with its uniform and attribute locations
// resolved once at construction.
type Program struct {
	dev gpu.Device
	id  gpu.Program

	uniforms map[string]gpu.UniformLocation
	attribs  map[string]uint32
}

// New compiles and links the sources, then resolves every name in layout.
// A name that does not resolve is a construction failure: the program is
// deleted and a *MissingNameError returned.
func New(dev gpu.Device, vertexSrc, fragmentSrc string, layout Layout) (*Program, error) {
	id, err := CompileProgram(dev, vertexSrc, fragmentSrc)
	if err != nil {
		return nil, err
	}

	p := &Program{
		dev:      dev,
		id:       id,
		uniforms: make(map[string]gpu.UniformLocation, len(layout.Uniforms)),
		attribs:  make(map[string]uint32, len(layout.Attributes)),
	}

	for _, name := range layout.Uniforms {
		loc := dev.UniformLocation(id, name)
		if loc < 0 {
			dev.DeleteProgram(id)
			return nil, &MissingNameError{Kind: Uniform, Name: name}
		}
		p.uniforms[name] = loc
	}
	for _, name := range layout.Attributes {
		loc := dev.AttribLocation(id, name)
		if loc < 0 {
			dev.DeleteProgram(id)
			return nil, &MissingNameError{Kind: Attribute, Name: name}
		}
		p.attribs[name] = uint32(loc)
	}

	return p, nil
}

// ID returns the device handle of the program.
func (p *Program) ID() gpu.Program {
	return p.id
}

// Use binds the program.
func (p *Program) Use() {
	p.dev.UseProgram(p.id)
}

// Uniform returns the location of a uniform declared in the layout.
// Panics for undeclared names: that is a programming error, not a
// driver condition.
func (p *Program) Uniform(name string) gpu.UniformLocation {
	loc, ok := p.uniforms[name]
	if !ok {
		panic(fmt.Sprintf("uniform %q not declared for program %d", name, p.id))
	}
	return loc
}

// Attrib returns the location of an attribute declared in the layout.
func (p *Program) Attrib(name string) uint32 {
	loc, ok := p.attribs[name]
	if !ok {
		panic(fmt.Sprintf("attribute %q not declared for program %d", name, p.id))
	}
	return loc
}

// Delete releases the program. The Program must not be used afterwards.
func (p *Program) Delete() {
	if p.id != 0 {
		p.dev.DeleteProgram(p.id)
		p.id = 0
	}
}
