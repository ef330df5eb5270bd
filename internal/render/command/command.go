// Package command defines the render commands game logic issues during a
// frame and the per-kind queue that accumulates them.
//
// A command describes what to draw and where, never how. Commands are
// plain values: once pushed they are not modified.
package command

import (
	"fmt"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Color is an RGBA color with components nominally in [0, 1].
// Values are passed to the GPU as given; nothing clamps them.
type Color [4]float32

// Common colors.
var (
	White = Color{1, 1, 1, 1}
	Black = Color{0, 0, 0, 1}
	Red   = Color{1, 0, 0, 1}
	Green = Color{0, 1, 0, 1}
	Blue  = Color{0, 0, 1, 1}
)

// RGBA creates a color from 8-bit RGBA values (0-255).
func RGBA(r, g, b, a uint8) Color {
	return Color{
		float32(r) / 255.0,
		float32(g) / 255.0,
		float32(b) / 255.0,
		float32(a) / 255.0,
	}
}

// WithAlpha returns a copy of the color with a different alpha value.
func (c Color) WithAlpha(a float32) Color {
	c[3] = a
	return c
}

// Layer biases the depth of a 2D primitive inside its batch. Higher
// layers are drawn in front. It is a plain scalar, not an enumeration.
type Layer float32

// Depth returns the Z offset of the layer.
func (l Layer) Depth() float32 {
	return math.LayerDepth(float32(l))
}

// Rectangle2D is a filled, optionally rotated screen-space rectangle.
// (ScreenX, ScreenY) is the corner the rectangle rotates around.
type Rectangle2D struct {
	ScreenX     float32
	ScreenY     float32
	Layer       Layer
	RotationRad float32
	Width       float32
	Height      float32
	Color       Color
}

// PartialCircle2D is an arc of fixed radius centered on (ScreenX, ScreenY).
// ArcIndex selects how much of the circle is drawn: index k covers
// (k+1)/100 of the circumference. It must be in [0, 99].
type PartialCircle2D struct {
	ScreenX  float32
	ScreenY  float32
	Layer    Layer
	ArcIndex int
	Color    Color
}

// Validate reports an out-of-range arc index.
func (c PartialCircle2D) Validate() error {
	if c.ArcIndex < 0 || c.ArcIndex >= geometry.ArcSegments {
		return fmt.Errorf("arc index %d out of range [0, %d]", c.ArcIndex, geometry.ArcSegments-1)
	}
	return nil
}

// ArcIndexFor converts a completed fraction (0 to 1) to the arc index
// that draws it, clamping out-of-range fractions.
func ArcIndexFor(fraction float32) int {
	idx := int(fraction*geometry.ArcSegments) - 1
	if idx < 0 {
		return 0
	}
	if idx >= geometry.ArcSegments {
		return geometry.ArcSegments - 1
	}
	return idx
}

// Point2D is a single screen-space point.
type Point2D struct {
	ScreenX float32
	ScreenY float32
	Layer   Layer
	Color   Color
}

// Texture2D is a textured screen-space quad.
type Texture2D struct {
	ScreenX     float32
	ScreenY     float32
	Layer       Layer
	RotationRad float32
	Texture     gpu.Texture
	// Width and height of the texture in pixels. A negative width
	// mirrors the image horizontally.
	TextureWidth  float32
	TextureHeight float32
	OffsetX       float32
	OffsetY       float32
	Scale         float32
	Color         Color
}

// Props3D are the properties every 3D command carries.
type Props3D struct {
	Pos    math.Vec3
	Offset [2]float32
	Size   float32
	Color  Color
	Model  math.Mat4
}

// Sprite3D is a camera-facing textured sprite in world space.
type Sprite3D struct {
	Props3D
	Texture       gpu.Texture
	TextureWidth  float32
	TextureHeight float32
}

// HorizontalTexture3D is a textured quad lying flat above the ground,
// rotated around the Y axis: cast areas, ground markers.
type HorizontalTexture3D struct {
	Props3D
	Texture gpu.Texture
	// Width and Height are world units.
	Width  float32
	Height float32
}

// Number3D is a floating number (damage, heal) in world space.
type Number3D struct {
	Props3D
	Value      uint32
	DigitCount uint8
}

// Circle3D is a wireframe circle lying on the ground plane.
type Circle3D struct {
	Props3D
	Radius float32
}

// Rectangle3D is a wireframe rectangle lying on the ground plane,
// rotated around the Y axis.
type Rectangle3D struct {
	Props3D
	Width  float32
	Height float32
}

// Model3D draws one placed model. InstanceIndex points into the model
// instance table owned by the map.
type Model3D struct {
	InstanceIndex int
	Transparent   bool
}

// Ground asks for the map ground to be drawn. At most one per frame.
type Ground struct {
	View math.Mat4
}
