package shader

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/gpu/gputest"
)

var testLayout = Layout{
	Uniforms:   []string{"projection", "model", "size", "color"},
	Attributes: []string{"Position"},
}

func TestNewResolvesLayout(t *testing.T) {
	dev := gputest.New()

	p, err := New(dev, "vs", "fs", testLayout)
	require.NoError(t, err)

	assert.NotZero(t, p.ID())
	assert.Equal(t, 1, dev.LivePrograms())
	assert.Equal(t, 0, dev.LiveShaders(), "stage objects should be released once linked")

	seen := map[gpu.UniformLocation]bool{}
	for _, name := range testLayout.Uniforms {
		loc := p.Uniform(name)
		assert.GreaterOrEqual(t, int32(loc), int32(0), name)
		assert.False(t, seen[loc], "duplicate location for %s", name)
		seen[loc] = true
	}
	assert.Equal(t, uint32(0), p.Attrib("Position"))

	p.Use()
	assert.Equal(t, p.ID(), dev.CurrentProgram())

	p.Delete()
	assert.Equal(t, 0, dev.LivePrograms())
}

func TestCompileErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gputest.Recorder)
		stage Stage
		log   string
	}{
		{
			name:  "vertex",
			setup: func(r *gputest.Recorder) { r.CompileErrors[gpu.VertexStage] = "0:3: syntax error" },
			stage: StageVertex,
			log:   "0:3: syntax error",
		},
		{
			name:  "fragment",
			setup: func(r *gputest.Recorder) { r.CompileErrors[gpu.FragmentStage] = "undeclared identifier" },
			stage: StageFragment,
			log:   "undeclared identifier",
		},
		{
			name:  "link",
			setup: func(r *gputest.Recorder) { r.LinkError = "varying mismatch" },
			stage: StageLink,
			log:   "varying mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dev := gputest.New()
			tt.setup(dev)

			p, err := New(dev, "vs", "fs", testLayout)
			require.Error(t, err)
			assert.Nil(t, p)

			var ce *CompileError
			require.True(t, errors.As(err, &ce))
			assert.Equal(t, tt.stage, ce.Stage)
			assert.Equal(t, tt.log, ce.Log)
			assert.Equal(t, tt.stage == StageLink, IsLinkError(err))

			assert.Equal(t, 0, dev.LiveShaders(), "no shader object may leak")
			assert.Equal(t, 0, dev.LivePrograms(), "no program may leak")
		})
	}
}

func TestFragmentFailureReleasesVertexStage(t *testing.T) {
	dev := gputest.New()
	dev.CompileErrors[gpu.FragmentStage] = "bad"

	_, err := CompileProgram(dev, "vs", "fs")
	require.Error(t, err)
	assert.Equal(t, 2, dev.Count("DeleteShader"))
	assert.Equal(t, 0, dev.Count("CreateProgram"), "no program is created after a stage fails")
}

func TestMissingNames(t *testing.T) {
	tests := []struct {
		hidden string
		kind   NameKind
	}{
		{"size", Uniform},
		{"Position", Attribute},
	}

	for _, tt := range tests {
		t.Run(tt.hidden, func(t *testing.T) {
			dev := gputest.New()
			dev.Hidden[tt.hidden] = true

			_, err := New(dev, "vs", "fs", testLayout)

			var missing *MissingNameError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, tt.kind, missing.Kind)
			assert.Equal(t, tt.hidden, missing.Name)
			assert.Equal(t, 0, dev.LivePrograms())
			assert.Equal(t, 0, dev.LiveShaders())
		})
	}
}

func TestUndeclaredUniformPanics(t *testing.T) {
	dev := gputest.New()
	p, err := New(dev, "vs", "fs", testLayout)
	require.NoError(t, err)

	assert.Panics(t, func() { p.Uniform("view") })
	assert.Panics(t, func() { p.Attrib("Normal") })
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "vertex shader: oops", (&CompileError{Stage: StageVertex, Log: "oops"}).Error())
	assert.Equal(t, "link: oops", (&CompileError{Stage: StageLink, Log: "oops"}).Error())
	assert.Equal(t, `uniform "color" not found in program`, (&MissingNameError{Kind: Uniform, Name: "color"}).Error())
}
