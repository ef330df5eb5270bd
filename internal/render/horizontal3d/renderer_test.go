package horizontal3d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/pkg/math"
)

func TestRender(t *testing.T) {
	dev := gputest.New()
	r, err := New(dev, zap.NewNop())
	require.NoError(t, err)
	dev.Reset()

	q := command.NewQueue()
	q.Prepare3D().Pos2D(4, 5).Color(command.Green).AddHorizontalTexture(7, 2, 3)
	q.Prepare3D().Rotation(1).AddHorizontalTexture(8, 1, 1)

	view := math.Translate(0, 0, -10)
	r.Render(math.Identity(), view, q.HorizontalTextures3D())

	require.Len(t, dev.Draws, 2)
	first := dev.Draws[0]
	assert.Equal(t, gpu.TriangleStrip, first.Mode)
	assert.Equal(t, int32(4), first.Count)
	assert.Equal(t, gpu.Texture(7), first.Texture)
	assert.Equal(t, r.quad.ID(), first.Buffer)
	assert.Equal(t, [2]float32{2, 3}, first.Vec2(uSize))
	assert.Equal(t, [4]float32(command.Green), first.Vec4(uColor))
	assert.Equal(t, view, first.Mat4(uView))
	assert.Equal(t, [3]float32{4, command.HorizontalTextureHeight, 5}, first.Mat4(uModel).Translation())
	assert.Len(t, first.Attribs, 2)

	assert.Equal(t, gpu.Texture(8), dev.Draws[1].Texture)
	assert.Equal(t, 2, dev.Count("BindTexture"))
	assert.Equal(t, 1, dev.Count("UseProgram"))
	assert.Empty(t, dev.EnabledAttribs())
}

func TestRenderEmpty(t *testing.T) {
	dev := gputest.New()
	r, err := New(dev, zap.NewNop())
	require.NoError(t, err)
	dev.Reset()

	r.Render(math.Identity(), math.Identity(), nil)
	assert.Empty(t, dev.Calls)
}

func TestNewMissingSampler(t *testing.T) {
	dev := gputest.New()
	dev.Hidden[uTexture] = true

	_, err := New(dev, zap.NewNop())
	require.Error(t, err)
	assert.Zero(t, dev.LivePrograms())
	assert.Zero(t, dev.LiveBuffers())
}

func TestNewReleasesProgramWhenBufferFails(t *testing.T) {
	dev := gputest.New()
	dev.MaxBuffers = 1
	_, err := dev.CreateBuffer()
	require.NoError(t, err)

	_, err = New(dev, zap.NewNop())
	require.ErrorIs(t, err, gputest.ErrExhausted)
	assert.Zero(t, dev.LivePrograms())
	assert.Zero(t, dev.LiveShaders())
}

func TestDestroy(t *testing.T) {
	dev := gputest.New()
	r, err := New(dev, zap.NewNop())
	require.NoError(t, err)

	r.Destroy()
	assert.Zero(t, dev.LiveBuffers())
	assert.Zero(t, dev.LivePrograms())
}
