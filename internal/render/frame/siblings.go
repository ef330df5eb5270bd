package frame

import (
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// GroundRenderer draws the map ground.
type GroundRenderer interface {
	RenderGround(projection math.Mat4, ground command.Ground)
}

// SpriteRenderer draws camera-facing sprites and floating numbers.
type SpriteRenderer interface {
	RenderSprites(projection, view math.Mat4, sprites []command.Sprite3D)
	RenderNumbers(projection, view math.Mat4, numbers []command.Number3D)
}

// ModelInstance is one placed model of the current map.
type ModelInstance struct {
	ModelIndex int
	Matrix     math.Mat4
}

// ModelTable resolves the instance index carried by a Model3D command.
type ModelTable interface {
	Instance(index int) (ModelInstance, bool)
}

// ModelRenderer draws one model instance.
type ModelRenderer interface {
	RenderModel(projection, view math.Mat4, instance ModelInstance, transparent bool)
}

// Siblings are the optional renderers owned outside this package.
// A nil field drops the passes it serves.
type Siblings struct {
	Ground  GroundRenderer
	Sprites SpriteRenderer
	Models  ModelRenderer
	// Table is required when Models is set.
	Table ModelTable
}
