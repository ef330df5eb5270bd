package command

// initialCapacity is the starting capacity of each per-kind list.
const initialCapacity = 128

// Producer is the append-only view of a Queue handed to game logic.
// Producers cannot read back what was queued.
type Producer interface {
	PushRectangle2D(c Rectangle2D)
	PushPartialCircle2D(c PartialCircle2D)
	PushTexture2D(c Texture2D)
	PushPoint2D(c Point2D)
	PushSprite3D(c Sprite3D)
	PushNumber3D(c Number3D)
	PushCircle3D(c Circle3D)
	PushRectangle3D(c Rectangle3D)
	PushHorizontalTexture3D(c HorizontalTexture3D)
	PushModel3D(c Model3D)
	SetGround(g Ground)

	Prepare2D() *Builder2D
	Prepare3D() *Builder3D
}

// Queue holds one ordered list per command kind. Insertion order is the
// draw order inside a kind; the order across kinds is decided by the
// frame renderer.
//
// A Queue is not safe for concurrent use. The game loop accumulates,
// flushes and clears it strictly in sequence.
type Queue struct {
	rectangles2D     []Rectangle2D
	partialCircles2D []PartialCircle2D
	textures2D       []Texture2D
	points2D         []Point2D
	sprites3D        []Sprite3D
	numbers3D        []Number3D
	circles3D        []Circle3D
	rectangles3D     []Rectangle3D
	horizontals3D    []HorizontalTexture3D
	models3D         []Model3D
	ground           *Ground
}

var _ Producer = (*Queue)(nil)

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		rectangles2D:     make([]Rectangle2D, 0, initialCapacity),
		partialCircles2D: make([]PartialCircle2D, 0, initialCapacity),
		textures2D:       make([]Texture2D, 0, initialCapacity),
		points2D:         make([]Point2D, 0, initialCapacity),
		sprites3D:        make([]Sprite3D, 0, initialCapacity),
		numbers3D:        make([]Number3D, 0, initialCapacity),
		circles3D:        make([]Circle3D, 0, initialCapacity),
		rectangles3D:     make([]Rectangle3D, 0, initialCapacity),
		horizontals3D:    make([]HorizontalTexture3D, 0, initialCapacity),
		models3D:         make([]Model3D, 0, initialCapacity),
	}
}

// Clear empties every list, keeping the allocated capacity.
// It must run once between a flush and the next frame's accumulation,
// otherwise two frames' commands merge.
func (q *Queue) Clear() {
	q.rectangles2D = q.rectangles2D[:0]
	q.partialCircles2D = q.partialCircles2D[:0]
	q.textures2D = q.textures2D[:0]
	q.points2D = q.points2D[:0]
	q.sprites3D = q.sprites3D[:0]
	q.numbers3D = q.numbers3D[:0]
	q.circles3D = q.circles3D[:0]
	q.rectangles3D = q.rectangles3D[:0]
	q.horizontals3D = q.horizontals3D[:0]
	q.models3D = q.models3D[:0]
	q.ground = nil
}

// Len returns the total number of queued commands.
func (q *Queue) Len() int {
	n := len(q.rectangles2D) + len(q.partialCircles2D) + len(q.textures2D) +
		len(q.points2D) + len(q.sprites3D) + len(q.numbers3D) + len(q.circles3D) +
		len(q.rectangles3D) + len(q.horizontals3D) + len(q.models3D)
	if q.ground != nil {
		n++
	}
	return n
}

// PushRectangle2D queues a filled screen-space rectangle.
func (q *Queue) PushRectangle2D(c Rectangle2D) { q.rectangles2D = append(q.rectangles2D, c) }

// PushPartialCircle2D queues an arc. An out-of-range arc index panics
// here, at the producer, rather than during the flush.
func (q *Queue) PushPartialCircle2D(c PartialCircle2D) {
	if err := c.Validate(); err != nil {
		panic(err)
	}
	q.partialCircles2D = append(q.partialCircles2D, c)
}

// PushTexture2D queues a textured screen-space quad.
func (q *Queue) PushTexture2D(c Texture2D) { q.textures2D = append(q.textures2D, c) }

// PushPoint2D queues a screen-space point.
func (q *Queue) PushPoint2D(c Point2D) { q.points2D = append(q.points2D, c) }

// PushSprite3D queues a billboarded sprite.
func (q *Queue) PushSprite3D(c Sprite3D) { q.sprites3D = append(q.sprites3D, c) }

// PushNumber3D queues a floating number.
func (q *Queue) PushNumber3D(c Number3D) { q.numbers3D = append(q.numbers3D, c) }

// PushCircle3D queues a wireframe ground circle.
func (q *Queue) PushCircle3D(c Circle3D) { q.circles3D = append(q.circles3D, c) }

// PushRectangle3D queues a wireframe ground rectangle.
func (q *Queue) PushRectangle3D(c Rectangle3D) { q.rectangles3D = append(q.rectangles3D, c) }

// PushHorizontalTexture3D queues a texture lying flat above the ground.
func (q *Queue) PushHorizontalTexture3D(c HorizontalTexture3D) {
	q.horizontals3D = append(q.horizontals3D, c)
}

// PushModel3D queues one model instance.
func (q *Queue) PushModel3D(c Model3D) { q.models3D = append(q.models3D, c) }

// SetGround requests the ground for this frame, replacing any earlier request.
func (q *Queue) SetGround(g Ground) { q.ground = &g }

// Read access for the frame renderer. The returned slices alias the
// queue and are only valid until the next Clear.

// Rectangles2D returns the queued screen-space rectangles.
func (q *Queue) Rectangles2D() []Rectangle2D { return q.rectangles2D }

// PartialCircles2D returns the queued arcs.
func (q *Queue) PartialCircles2D() []PartialCircle2D { return q.partialCircles2D }

// Textures2D returns the queued screen-space textures.
func (q *Queue) Textures2D() []Texture2D { return q.textures2D }

// Points2D returns the queued screen-space points.
func (q *Queue) Points2D() []Point2D { return q.points2D }

// Sprites3D returns the queued billboards.
func (q *Queue) Sprites3D() []Sprite3D { return q.sprites3D }

// Numbers3D returns the queued floating numbers.
func (q *Queue) Numbers3D() []Number3D { return q.numbers3D }

// Circles3D returns the queued ground circles.
func (q *Queue) Circles3D() []Circle3D { return q.circles3D }

// Rectangles3D returns the queued ground rectangles.
func (q *Queue) Rectangles3D() []Rectangle3D { return q.rectangles3D }

// HorizontalTextures3D returns the queued flat textures.
func (q *Queue) HorizontalTextures3D() []HorizontalTexture3D { return q.horizontals3D }

// Models3D returns the queued model instances.
func (q *Queue) Models3D() []Model3D { return q.models3D }

// Ground returns the ground request of this frame, if any.
func (q *Queue) Ground() (Ground, bool) {
	if q.ground == nil {
		return Ground{}, false
	}
	return *q.ground, true
}
