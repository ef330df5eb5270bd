package camera

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/midgard-render/pkg/math"
)

func TestOrbitPosition(t *testing.T) {
	c := NewOrbit()
	c.Pitch = 0
	c.Yaw = 0
	c.Distance = 10
	c.Target = math.Vec3{X: 1, Y: 2, Z: 3}

	pos := c.Position()
	want := math.Vec3{X: 1, Y: 2, Z: 13}
	if pos.Distance(want) > 1e-4 {
		t.Errorf("expected %v, got %v", want, pos)
	}
}

func TestOrbitDistanceKept(t *testing.T) {
	c := NewOrbit()
	for _, yaw := range []float32{0, 0.5, 2, 4} {
		c.Yaw = yaw
		if d := c.Position().Distance(c.Target); gomath.Abs(float64(d-c.Distance)) > 1e-3 {
			t.Errorf("yaw %v: expected distance %v, got %v", yaw, c.Distance, d)
		}
	}
}

func TestOrbitViewLooksAtTarget(t *testing.T) {
	c := NewOrbit()
	c.Target = math.Vec3{X: 5, Z: -5}

	// The target sits on the view axis, in front of the eye.
	p := c.View().TransformPoint([3]float32{c.Target.X, c.Target.Y, c.Target.Z})
	if gomath.Abs(float64(p[0])) > 1e-3 || gomath.Abs(float64(p[1])) > 1e-3 {
		t.Errorf("target should be centered, got %v", p)
	}
	if gomath.Abs(float64(-p[2]-c.Distance)) > 1e-3 {
		t.Errorf("expected target at depth %v, got %v", c.Distance, -p[2])
	}
}

func TestZoomClamps(t *testing.T) {
	c := NewOrbit()
	for i := 0; i < 100; i++ {
		c.Zoom(1)
	}
	if c.Distance != c.MinDistance {
		t.Errorf("expected distance clamped to %v, got %v", c.MinDistance, c.Distance)
	}
	for i := 0; i < 100; i++ {
		c.Zoom(-1)
	}
	if c.Distance != c.MaxDistance {
		t.Errorf("expected distance clamped to %v, got %v", c.MaxDistance, c.Distance)
	}
}

func TestRotateWraps(t *testing.T) {
	c := NewOrbit()
	for _, step := range []float32{7, -20} {
		c.Rotate(step)
		if c.Yaw < 0 || c.Yaw >= 2*gomath.Pi {
			t.Errorf("yaw should wrap into [0, 2π), got %v after %v", c.Yaw, step)
		}
	}
}

func TestProjectionZeroHeight(t *testing.T) {
	m := NewOrbit().Projection(800, 0)
	for i, v := range m {
		if gomath.IsInf(float64(v), 0) || gomath.IsNaN(float64(v)) {
			t.Fatalf("element %d is not finite: %v", i, v)
		}
	}
}
