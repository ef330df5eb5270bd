package math

import (
	"math"
	"testing"
)

func TestModel2DWithoutRotationIsPureTranslation(t *testing.T) {
	got := Model2D(10, 20, 0, 0)
	want := Translate(10, 20, 0)
	if got != want {
		t.Errorf("Model2D(10, 20, 0, 0) = %v, want %v", got, want)
	}
}

func TestModel2DLayerDepth(t *testing.T) {
	m := Model2D(10, 20, 2, 0)
	tr := m.Translation()
	if tr[0] != 10 || tr[1] != 20 || abs(tr[2]-0.02) > 1e-6 {
		t.Errorf("translation = %v, want (10, 20, 0.02)", tr)
	}
}

func TestModel2DRotatesAroundOwnOrigin(t *testing.T) {
	m := Model2D(100, 50, 0, float32(math.Pi/2))

	// The local origin stays on the translated position
	origin := m.TransformPoint([3]float32{0, 0, 0})
	if abs(origin[0]-100) > 0.001 || abs(origin[1]-50) > 0.001 {
		t.Errorf("origin = %v, want (100, 50, 0)", origin)
	}

	// A local +X offset is rotated onto +Y before being translated
	p := m.TransformPoint([3]float32{10, 0, 0})
	if abs(p[0]-100) > 0.001 || abs(p[1]-60) > 0.001 {
		t.Errorf("rotated point = %v, want (100, 60, 0)", p)
	}
}

func TestRotateThenTranslateDiffers(t *testing.T) {
	angle := float32(math.Pi / 2)
	translateFirst := Model2D(100, 0, 0, angle)
	rotateFirst := RotateZ(angle).Mul(Translate(100, 0, 0))

	a := translateFirst.TransformPoint([3]float32{0, 0, 0})
	b := rotateFirst.TransformPoint([3]float32{0, 0, 0})
	if abs(a[0]-b[0]) < 1 && abs(a[1]-b[1]) < 1 {
		t.Errorf("composition order should matter: both give %v", a)
	}
}

func TestSetTranslationKeepsRotation(t *testing.T) {
	m := RotateZ(0.5)
	before := m
	m.SetTranslation(1, 2, 3)

	for i := 0; i < 12; i++ {
		if m[i] != before[i] {
			t.Errorf("element %d changed: got %f, want %f", i, m[i], before[i])
		}
	}
	if m.Translation() != [3]float32{1, 2, 3} {
		t.Errorf("translation = %v, want (1, 2, 3)", m.Translation())
	}
}
