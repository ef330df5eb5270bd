// Package shader provides shader compilation and program parameter lookup.
package shader

import (
	"errors"
	"fmt"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
)

// Stage names the step of program construction that failed.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
	StageLink
)

func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	case StageLink:
		return "link"
	default:
		return "unknown"
	}
}

// CompileError is returned when a stage fails to compile or the program
// fails to link. Log carries the driver's info log.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	if e.Stage == StageLink {
		return fmt.Sprintf("link: %s", e.Log)
	}
	return fmt.Sprintf("%s shader: %s", e.Stage, e.Log)
}

// NameKind tells uniforms and attributes apart in MissingNameError.
type NameKind int

const (
	Uniform NameKind = iota
	Attribute
)

func (k NameKind) String() string {
	if k == Attribute {
		return "attribute"
	}
	return "uniform"
}

// MissingNameError is returned when a declared uniform or attribute does
// not resolve in the linked program.
type MissingNameError struct {
	Kind NameKind
	Name string
}

func (e *MissingNameError) Error() string {
	return fmt.Sprintf("%s %q not found in program", e.Kind, e.Name)
}

// IsLinkError reports whether err is a link failure.
func IsLinkError(err error) bool {
	var ce *CompileError
	return errors.As(err, &ce) && ce.Stage == StageLink
}

// CompileProgram compiles vertex and fragment shaders and links them into a program.
// Every object created along the way is deleted before an error is returned.
func CompileProgram(dev gpu.Device, vertexSrc, fragmentSrc string) (gpu.Program, error) {
	vertShader, err := compileShader(dev, vertexSrc, gpu.VertexStage, StageVertex)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(vertShader)

	fragShader, err := compileShader(dev, fragmentSrc, gpu.FragmentStage, StageFragment)
	if err != nil {
		return 0, err
	}
	defer dev.DeleteShader(fragShader)

	program, err := dev.CreateProgram()
	if err != nil {
		return 0, fmt.Errorf("create program: %w", err)
	}
	dev.AttachShader(program, vertShader)
	dev.AttachShader(program, fragShader)

	if ok, log := dev.LinkProgram(program); !ok {
		dev.DeleteProgram(program)
		return 0, &CompileError{Stage: StageLink, Log: log}
	}

	// The linked program keeps the binaries; the stage objects can go.
	dev.DetachShader(program, vertShader)
	dev.DetachShader(program, fragShader)
	return program, nil
}

// compileShader compiles a single shader of the given stage.
func compileShader(dev gpu.Device, source string, stage gpu.ShaderStage, name Stage) (gpu.Shader, error) {
	s, err := dev.CreateShader(stage)
	if err != nil {
		return 0, fmt.Errorf("create %s shader: %w", name, err)
	}
	if ok, log := dev.CompileShader(s, source); !ok {
		dev.DeleteShader(s)
		return 0, &CompileError{Stage: name, Log: log}
	}
	return s, nil
}
