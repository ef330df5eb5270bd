package command

import (
	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Builder2D collects the properties shared by 2D commands and pushes
// commands built from them. Obtain one with Queue.Prepare2D:
//
//	q.Prepare2D().Color(command.Red).ScreenPos(10, 20).Size2(32, 32).AddRectangle(2)
type Builder2D struct {
	q        *Queue
	color    Color
	x, y     float32
	w, h     float32
	rotation float32
}

// Prepare2D starts a 2D command with white color, unit size and no rotation.
func (q *Queue) Prepare2D() *Builder2D {
	return &Builder2D{q: q, color: White, w: 1, h: 1}
}

func (b *Builder2D) Color(c Color) *Builder2D {
	b.color = c
	return b
}

func (b *Builder2D) ScreenPos(x, y float32) *Builder2D {
	b.x, b.y = x, y
	return b
}

func (b *Builder2D) Size(s float32) *Builder2D {
	b.w, b.h = s, s
	return b
}

func (b *Builder2D) Size2(w, h float32) *Builder2D {
	b.w, b.h = w, h
	return b
}

func (b *Builder2D) Rotation(rad float32) *Builder2D {
	b.rotation = rad
	return b
}

// AddRectangle pushes a Rectangle2D.
func (b *Builder2D) AddRectangle(layer Layer) {
	b.q.PushRectangle2D(Rectangle2D{
		ScreenX:     b.x,
		ScreenY:     b.y,
		Layer:       layer,
		RotationRad: b.rotation,
		Width:       b.w,
		Height:      b.h,
		Color:       b.color,
	})
}

// AddPartialCircle pushes a PartialCircle2D. Size and rotation do not
// apply to arcs.
func (b *Builder2D) AddPartialCircle(layer Layer, arcIndex int) {
	b.q.PushPartialCircle2D(PartialCircle2D{
		ScreenX:  b.x,
		ScreenY:  b.y,
		Layer:    layer,
		ArcIndex: arcIndex,
		Color:    b.color,
	})
}

// AddPoint pushes a Point2D. Size and rotation do not apply to points.
func (b *Builder2D) AddPoint(layer Layer) {
	b.q.PushPoint2D(Point2D{
		ScreenX: b.x,
		ScreenY: b.y,
		Layer:   layer,
		Color:   b.color,
	})
}

// AddTexture pushes a Texture2D scaled by the builder's horizontal size.
// flip mirrors the texture horizontally.
func (b *Builder2D) AddTexture(tex gpu.Texture, width, height int, flip bool, layer Layer) {
	w := float32(width)
	if flip {
		w = -w
	}
	b.q.PushTexture2D(Texture2D{
		ScreenX:       b.x,
		ScreenY:       b.y,
		Layer:         layer,
		RotationRad:   b.rotation,
		Texture:       tex,
		TextureWidth:  w,
		TextureHeight: float32(height),
		Scale:         b.w,
		Color:         b.color,
	})
}

// OnePixelIn3D converts sprite pixels to world units.
const OnePixelIn3D = 1.0 / 35.0

// Builder3D collects the properties shared by 3D commands.
type Builder3D struct {
	q        *Queue
	color    Color
	pos      math.Vec3
	offset   [2]float32
	size     float32
	rotation float32
}

// Prepare3D starts a 3D command with white color at the origin.
func (q *Queue) Prepare3D() *Builder3D {
	return &Builder3D{q: q, color: White, size: 1}
}

func (b *Builder3D) Color(c Color) *Builder3D {
	b.color = c
	return b
}

func (b *Builder3D) Alpha(a float32) *Builder3D {
	b.color[3] = a
	return b
}

func (b *Builder3D) Pos(p math.Vec3) *Builder3D {
	b.pos = p
	return b
}

// Pos2D places the command on the ground plane at (x, z).
func (b *Builder3D) Pos2D(x, z float32) *Builder3D {
	b.pos.X, b.pos.Z = x, z
	return b
}

func (b *Builder3D) Y(y float32) *Builder3D {
	b.pos.Y = y
	return b
}

// Offset shifts sprites and numbers on screen, in sprite pixels.
func (b *Builder3D) Offset(x, y float32) *Builder3D {
	b.offset = [2]float32{x, y}
	return b
}

func (b *Builder3D) Scale(s float32) *Builder3D {
	b.size = s
	return b
}

// Rotation sets the rotation around the world Y axis.
func (b *Builder3D) Rotation(rad float32) *Builder3D {
	b.rotation = rad
	return b
}

func (b *Builder3D) props() Props3D {
	model := math.Translate(b.pos.X, b.pos.Y, b.pos.Z)
	if b.rotation != 0 {
		model.RotateAroundY(b.rotation)
	}
	return Props3D{
		Pos:    b.pos,
		Offset: [2]float32{b.offset[0] * OnePixelIn3D, b.offset[1] * OnePixelIn3D},
		Size:   b.size,
		Color:  b.color,
		Model:  model,
	}
}

// AddCircle pushes a Circle3D of the given radius.
func (b *Builder3D) AddCircle(radius float32) {
	b.q.PushCircle3D(Circle3D{Props3D: b.props(), Radius: radius})
}

// AddRectangle pushes a Rectangle3D.
func (b *Builder3D) AddRectangle(width, height float32) {
	b.q.PushRectangle3D(Rectangle3D{Props3D: b.props(), Width: width, Height: height})
}

// AddSprite pushes a Sprite3D sized from the texture's pixel dimensions.
func (b *Builder3D) AddSprite(tex gpu.Texture, width, height int, flip bool) {
	w := float32(width)
	if flip {
		w = -w
	}
	b.q.PushSprite3D(Sprite3D{
		Props3D:       b.props(),
		Texture:       tex,
		TextureWidth:  w * OnePixelIn3D * b.size,
		TextureHeight: float32(height) * OnePixelIn3D * b.size,
	})
}

// HorizontalTextureHeight is the Y at which flat textures are drawn,
// just above the ground so they do not fight with it for depth.
const HorizontalTextureHeight = 0.2

// AddHorizontalTexture pushes a HorizontalTexture3D of width by height
// world units, scaled by the builder's scale. The Y position is replaced
// by HorizontalTextureHeight.
func (b *Builder3D) AddHorizontalTexture(tex gpu.Texture, width, height float32) {
	pos := b.pos
	b.pos.Y = HorizontalTextureHeight
	props := b.props()
	b.pos = pos
	b.q.PushHorizontalTexture3D(HorizontalTexture3D{
		Props3D: props,
		Texture: tex,
		Width:   width * b.size,
		Height:  height * b.size,
	})
}

// AddNumber pushes a Number3D.
func (b *Builder3D) AddNumber(value uint32, digits uint8) {
	b.q.PushNumber3D(Number3D{Props3D: b.props(), Value: value, DigitCount: digits})
}
