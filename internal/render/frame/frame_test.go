package frame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/gpu/gputest"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/ground"
	"github.com/Faultbox/midgard-render/internal/render/sprite3d"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// trace records sibling calls along with how many device draws preceded them.
type trace struct {
	dev   *gputest.Recorder
	calls []string
	at    []int
}

func (t *trace) add(name string) {
	t.calls = append(t.calls, name)
	t.at = append(t.at, len(t.dev.Draws))
}

type fakeGround struct{ *trace }

func (f fakeGround) RenderGround(math.Mat4, command.Ground) { f.add(PassGround) }

type fakeSprites struct{ *trace }

func (f fakeSprites) RenderSprites(_, _ math.Mat4, s []command.Sprite3D) {
	for range s {
		f.add(PassSprite3D)
	}
}

func (f fakeSprites) RenderNumbers(_, _ math.Mat4, n []command.Number3D) {
	for range n {
		f.add(PassNumber3D)
	}
}

type fakeModels struct {
	*trace
	got []ModelInstance
}

func (f *fakeModels) RenderModel(_, _ math.Mat4, inst ModelInstance, _ bool) {
	f.add(PassModel3D)
	f.got = append(f.got, inst)
}

type table map[int]ModelInstance

func (t table) Instance(i int) (ModelInstance, bool) {
	inst, ok := t[i]
	return inst, ok
}

// builtInOrder is the default order without any sibling pass.
var builtInOrder = []string{
	PassHorizontalTexture3D, PassCircle3D, PassRectangle3D,
	PassPartialCircle2D, PassPoint2D, PassTexture2D, PassRectangle2D,
}

func newFrame(t *testing.T, siblings Siblings, opts Options) (*Renderer, *gputest.Recorder) {
	t.Helper()
	dev := gputest.New()
	r, err := New(dev, zap.NewNop(), siblings, opts)
	require.NoError(t, err)
	dev.Reset()
	return r, dev
}

func TestClearThenRenderDrawsNothing(t *testing.T) {
	r, dev := newFrame(t, Siblings{}, Options{})
	p := r.Producer()

	p.Prepare2D().Size2(10, 10).AddRectangle(0)
	p.Prepare2D().AddPartialCircle(0, 42)
	p.Prepare3D().AddCircle(1)
	p.Prepare2D().AddTexture(3, 8, 8, false, 0)
	p.Prepare2D().AddPoint(0)
	p.Prepare3D().AddHorizontalTexture(4, 1, 1)

	r.Clear()
	r.Render()

	assert.Empty(t, dev.Draws)
	assert.Empty(t, dev.Calls, "empty passes must not bind anything")
}

func TestRenderIssuesOneDrawPerCommandInOrder(t *testing.T) {
	r, dev := newFrame(t, Siblings{}, Options{})
	p := r.Producer()

	const n = 7
	for i := 0; i < n; i++ {
		p.Prepare2D().ScreenPos(float32(i), 0).AddPartialCircle(0, i)
	}
	r.Render()

	require.Len(t, dev.Draws, n)
	for i, d := range dev.Draws {
		assert.Equal(t, gpu.LineStrip, d.Mode)
		assert.Equal(t, int32(i+1), d.Count)
		assert.InDelta(t, float32(i), d.Mat4("model").Translation()[0], 1e-6)
	}
}

func TestRenderDoesNotClear(t *testing.T) {
	r, dev := newFrame(t, Siblings{}, Options{})
	r.Producer().Prepare2D().AddRectangle(0)

	r.Render()
	r.Render()
	assert.Len(t, dev.Draws, 2, "commands stay queued until Clear")

	dev.Reset()
	r.Clear()
	r.Render()
	assert.Empty(t, dev.Draws)
}

func TestPassOrderAcrossKinds(t *testing.T) {
	tr := &trace{}
	models := &fakeModels{trace: tr}
	r, dev := newFrame(t, Siblings{
		Ground:  fakeGround{tr},
		Sprites: fakeSprites{tr},
		Models:  models,
		Table:   table{3: {ModelIndex: 9, Matrix: math.Translate(1, 2, 3)}},
	}, Options{})
	tr.dev = dev
	p := r.Producer()

	// Pushed in reverse of the draw order.
	p.Prepare2D().Size(4).AddRectangle(0)
	p.Prepare2D().AddTexture(11, 8, 8, false, 0)
	p.Prepare2D().AddPoint(0)
	p.Prepare2D().AddPartialCircle(0, 5)
	p.Prepare3D().AddRectangle(1, 1)
	p.Prepare3D().AddCircle(1)
	p.PushModel3D(command.Model3D{InstanceIndex: 3})
	p.PushModel3D(command.Model3D{InstanceIndex: 4})
	p.Prepare3D().AddHorizontalTexture(13, 1, 1)
	p.Prepare3D().AddNumber(123, 3)
	p.Prepare3D().AddSprite(12, 16, 16, false)
	p.SetGround(command.Ground{View: math.Identity()})

	r.Render()

	assert.Equal(t, []string{PassGround, PassSprite3D, PassNumber3D, PassModel3D}, tr.calls)
	assert.Equal(t, []int{0, 0, 0, 1}, tr.at, "models run after the flat textures")
	assert.Equal(t, []ModelInstance{{ModelIndex: 9, Matrix: math.Translate(1, 2, 3)}}, models.got,
		"unknown instances are skipped")

	require.Len(t, dev.Draws, 7)
	assert.Equal(t, gpu.Texture(13), dev.Draws[0].Texture, "horizontal_texture3d")
	assert.Equal(t, gpu.LineLoop, dev.Draws[1].Mode)
	assert.Equal(t, int32(32), dev.Draws[1].Count, "circle3d")
	assert.Equal(t, gpu.LineLoop, dev.Draws[2].Mode)
	assert.Equal(t, int32(4), dev.Draws[2].Count, "rectangle3d")
	assert.Equal(t, gpu.LineStrip, dev.Draws[3].Mode, "partial_circle2d")
	assert.Equal(t, gpu.Points, dev.Draws[4].Mode, "point2d")
	assert.Equal(t, gpu.Texture(11), dev.Draws[5].Texture, "texture2d")
	assert.Equal(t, gpu.TriangleStrip, dev.Draws[6].Mode, "rectangle2d")
	assert.Equal(t, [2]float32{4, 4}, dev.Draws[6].Vec2("size"))
}

func TestNilSiblingsDropPasses(t *testing.T) {
	r, _ := newFrame(t, Siblings{}, Options{})

	assert.Equal(t, builtInOrder, r.Order())

	// Queued commands for a missing sibling are ignored.
	r.Producer().SetGround(command.Ground{})
	r.Producer().PushModel3D(command.Model3D{})
	assert.NotPanics(t, r.Render)
}

func TestCustomOrder(t *testing.T) {
	r, dev := newFrame(t, Siblings{}, Options{
		Order: []string{PassRectangle2D, PassPartialCircle2D, PassGround},
	})
	assert.Equal(t, []string{
		PassRectangle2D, PassPartialCircle2D,
		PassHorizontalTexture3D, PassCircle3D, PassRectangle3D, PassPoint2D, PassTexture2D,
	}, r.Order(), "omitted passes follow in default order")

	p := r.Producer()
	p.Prepare2D().AddPartialCircle(0, 0)
	p.Prepare2D().AddRectangle(0)
	p.Prepare3D().AddCircle(1)
	r.Render()

	require.Len(t, dev.Draws, 3)
	assert.Equal(t, gpu.TriangleStrip, dev.Draws[0].Mode)
	assert.Equal(t, gpu.LineStrip, dev.Draws[1].Mode)
	assert.Equal(t, gpu.LineLoop, dev.Draws[2].Mode)
}

func TestPartialOrderDrawsEveryKind(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	dev := gputest.New()
	r, err := New(dev, zap.New(core), Siblings{}, Options{Order: []string{PassTexture2D}})
	require.NoError(t, err)
	dev.Reset()

	assert.Equal(t, PassTexture2D, r.Order()[0])
	assert.Len(t, r.Order(), len(builtInOrder))
	assert.Equal(t, 1, logs.FilterMessage("render order is partial, appending the missing passes").Len())

	p := r.Producer()
	p.Prepare2D().AddRectangle(0)
	p.Prepare2D().AddPartialCircle(0, 10)
	r.Render()

	require.Len(t, dev.Draws, 2)
	assert.Equal(t, gpu.LineStrip, dev.Draws[0].Mode)
	assert.Equal(t, gpu.TriangleStrip, dev.Draws[1].Mode)
}

func TestSetOrderRejects(t *testing.T) {
	r, _ := newFrame(t, Siblings{}, Options{})

	err := r.SetOrder([]string{PassRectangle2D, "bloom"})
	assert.ErrorIs(t, err, ErrUnknownPass)

	err = r.SetOrder([]string{PassRectangle2D, PassRectangle2D})
	assert.Error(t, err)

	assert.Equal(t, builtInOrder, r.Order(), "a rejected order leaves the table unchanged")
}

func TestNewRejectsModelsWithoutTable(t *testing.T) {
	_, err := New(gputest.New(), zap.NewNop(), Siblings{Models: &fakeModels{}}, Options{})
	assert.Error(t, err)
}

func TestNewFailureReleasesEverything(t *testing.T) {
	dev := gputest.New()
	dev.LinkError = "boom"

	_, err := New(dev, zap.NewNop(), Siblings{}, Options{})
	require.Error(t, err)
	assert.Zero(t, dev.LiveBuffers())
	assert.Zero(t, dev.LivePrograms())
	assert.Zero(t, dev.LiveShaders())
}

func TestStats(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dev := gputest.New()
	r, err := New(dev, zap.New(core), Siblings{}, Options{StatsInterval: 2})
	require.NoError(t, err)

	p := r.Producer()
	p.Prepare2D().AddRectangle(0)
	p.Prepare2D().AddRectangle(1)
	p.Prepare2D().AddPartialCircle(0, 1)

	r.Render()
	assert.Zero(t, logs.FilterMessage("frame stats").Len())
	r.Render()
	assert.Equal(t, 1, logs.FilterMessage("frame stats").Len())
	assert.Equal(t, uint64(2), r.Frames())

	byName := make(map[string]PassStats)
	for _, s := range r.Stats() {
		byName[s.Name] = s
	}
	assert.Equal(t, 2, byName[PassRectangle2D].Commands)
	assert.Equal(t, 1, byName[PassPartialCircle2D].Commands)
	assert.Equal(t, 0, byName[PassCircle3D].Commands)
	assert.Zero(t, byName[PassCircle3D].Elapsed)

	r.SetStatsInterval(0)
	r.Render()
	r.Render()
	assert.Equal(t, 1, logs.FilterMessage("frame stats").Len(), "interval 0 turns the log off")
}

func TestWithBuiltInSiblings(t *testing.T) {
	dev := gputest.New()
	g, err := ground.New(dev, zap.NewNop())
	require.NoError(t, err)
	s, err := sprite3d.New(dev, zap.NewNop())
	require.NoError(t, err)

	r, err := New(dev, zap.NewNop(), Siblings{Ground: g, Sprites: s}, Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{PassGround, PassSprite3D, PassNumber3D}, r.Order()[:3])
	dev.Reset()

	p := r.Producer()
	p.SetGround(command.Ground{View: math.Identity()})
	p.Prepare3D().AddSprite(9, 35, 35, false)
	p.Prepare3D().AddNumber(42, 0)
	p.Prepare2D().AddRectangle(0)
	r.Render()

	require.Len(t, dev.Draws, 1+1+2+1)
	assert.Equal(t, gpu.Lines, dev.Draws[0].Mode)
	assert.Equal(t, gpu.Texture(9), dev.Draws[1].Texture)
	assert.Equal(t, dev.Draws[2].Texture, dev.Draws[3].Texture, "both digits come from the atlas")
	assert.Equal(t, gpu.TriangleStrip, dev.Draws[4].Mode)
}

// soleArray asserts that d read from location 0 only, with stride floats
// per vertex.
func soleArray(t *testing.T, d gputest.Draw, stride int32) {
	t.Helper()
	require.Len(t, d.Attribs, 1, "%s draw", d.Mode)
	a, ok := d.Attribs[0]
	require.True(t, ok)
	assert.Equal(t, stride, a.Stride)
	assert.Equal(t, d.Buffer, a.Buffer)
}

func TestArcAfterTextureReadsPositionOnly(t *testing.T) {
	r, dev := newFrame(t, Siblings{}, Options{
		Order: []string{PassTexture2D, PassPartialCircle2D},
	})

	p := r.Producer()
	p.Prepare2D().AddTexture(5, 8, 8, false, 0)
	p.Prepare2D().AddPartialCircle(0, 99)
	r.Render()

	require.Len(t, dev.Draws, 2)
	assert.Len(t, dev.Draws[0].Attribs, 2, "textures read position and texcoord")
	arc := dev.Draws[1]
	require.Equal(t, gpu.LineStrip, arc.Mode)
	assert.Equal(t, int32(100), arc.Count)
	soleArray(t, arc, 2)
	assert.Empty(t, dev.EnabledAttribs())
}

func TestArraysDisabledAcrossPasses(t *testing.T) {
	dev := gputest.New()
	g, err := ground.New(dev, zap.NewNop())
	require.NoError(t, err)
	s, err := sprite3d.New(dev, zap.NewNop())
	require.NoError(t, err)
	r, err := New(dev, zap.NewNop(), Siblings{Ground: g, Sprites: s}, Options{})
	require.NoError(t, err)
	dev.Reset()

	p := r.Producer()
	p.Prepare2D().AddTexture(5, 8, 8, false, 0)
	p.Prepare3D().AddSprite(9, 35, 35, false)
	p.Prepare3D().AddHorizontalTexture(6, 1, 1)
	p.Prepare3D().AddCircle(1)
	r.Render()
	p.Prepare2D().AddPartialCircle(0, 99)
	r.Render()

	var circle, arc *gputest.Draw
	for i := range dev.Draws {
		switch dev.Draws[i].Mode {
		case gpu.LineLoop:
			circle = &dev.Draws[i]
		case gpu.LineStrip:
			arc = &dev.Draws[i]
		}
	}
	require.NotNil(t, circle)
	require.NotNil(t, arc)
	soleArray(t, *circle, 3)
	soleArray(t, *arc, 2)
	assert.Empty(t, dev.EnabledAttribs())
}

func TestDestroy(t *testing.T) {
	dev := gputest.New()
	r, err := New(dev, zap.NewNop(), Siblings{}, Options{})
	require.NoError(t, err)

	r.Destroy()
	assert.Zero(t, dev.LiveBuffers())
	assert.Zero(t, dev.LivePrograms())
}
