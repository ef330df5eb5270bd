// Package picking turns screen positions into world-space rays.
package picking

import (
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Ray is a half-line in world space. Direction is normalized.
type Ray struct {
	Origin    math.Vec3
	Direction math.Vec3
}

// ScreenToRay unprojects a pixel position (origin top-left) through the
// camera. ok is false when projection*view cannot be inverted.
func ScreenToRay(screenX, screenY float32, width, height int, projection, view math.Mat4) (Ray, bool) {
	inv, ok := projection.Mul(view).Inverse()
	if !ok || width <= 0 || height <= 0 {
		return Ray{}, false
	}

	ndcX := 2*screenX/float32(width) - 1
	ndcY := 1 - 2*screenY/float32(height)

	near := inv.TransformPoint([3]float32{ndcX, ndcY, -1})
	far := inv.TransformPoint([3]float32{ndcX, ndcY, 1})

	origin := math.Vec3{X: near[0], Y: near[1], Z: near[2]}
	dir := math.Vec3{X: far[0], Y: far[1], Z: far[2]}.Sub(origin).Normalize()
	return Ray{Origin: origin, Direction: dir}, true
}

// IntersectPlaneY returns the point where the ray meets the horizontal
// plane at height y. Rays parallel to the plane or pointing away miss.
func (r Ray) IntersectPlaneY(y float32) (math.Vec3, bool) {
	if r.Direction.Y > -1e-3 && r.Direction.Y < 1e-3 {
		return math.Vec3{}, false
	}
	t := (y - r.Origin.Y) / r.Direction.Y
	if t < 0 {
		return math.Vec3{}, false
	}
	return r.Origin.Add(r.Direction.Scale(t)), true
}
