// Package camera provides the orbit camera the demo client views the
// ground plane through.
package camera

import (
	gomath "math"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-render/pkg/math"
)

// Orbit circles a target point on spherical coordinates.
type Orbit struct {
	Target math.Vec3

	Distance float32
	Pitch    float32 // radians above the ground plane
	Yaw      float32 // radians around the Y axis

	MinDistance float32
	MaxDistance float32

	FovY float32 // radians
	Near float32
	Far  float32

	ZoomSensitivity float32
}

// NewOrbit returns a camera looking down at the origin from about 37 degrees.
func NewOrbit() *Orbit {
	return &Orbit{
		Distance:        50,
		Pitch:           0.65,
		MinDistance:     10,
		MaxDistance:     300,
		FovY:            math32.Pi / 4,
		Near:            0.1,
		Far:             1000,
		ZoomSensitivity: 0.1,
	}
}

// Position returns the eye position in world space.
func (c *Orbit) Position() math.Vec3 {
	horiz := c.Distance * math32.Cos(c.Pitch)
	return math.Vec3{
		X: c.Target.X + horiz*math32.Sin(c.Yaw),
		Y: c.Target.Y + c.Distance*math32.Sin(c.Pitch),
		Z: c.Target.Z + horiz*math32.Cos(c.Yaw),
	}
}

// View returns the view matrix.
func (c *Orbit) View() math.Mat4 {
	return math.LookAt(c.Position(), c.Target, math.Vec3{Y: 1})
}

// Projection returns the perspective projection for a viewport of the
// given size.
func (c *Orbit) Projection(width, height int) math.Mat4 {
	if height <= 0 {
		height = 1
	}
	return math.Perspective(c.FovY, float32(width)/float32(height), c.Near, c.Far)
}

// Rotate turns the camera around the target.
func (c *Orbit) Rotate(yaw float32) {
	y := gomath.Mod(float64(c.Yaw+yaw), 2*gomath.Pi)
	if y < 0 {
		y += 2 * gomath.Pi
	}
	c.Yaw = float32(y)
}

// Zoom moves the camera along its view ray; positive delta moves closer.
func (c *Orbit) Zoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	c.Distance = min(max(c.Distance, c.MinDistance), c.MaxDistance)
}
