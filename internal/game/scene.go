package game

import (
	"time"

	"github.com/chewxy/math32"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Hotbar layout, in screen pixels.
const (
	SlotCount   = 5
	slotSize    = 32
	slotSpacing = 8
	hotbarInset = 24
)

// hitLifetime is how long a floating number stays visible.
const hitLifetime = time.Second

// trailLength is the number of past cursor positions drawn as points.
const trailLength = 16

// hit is a floating number spawned by a skill.
type hit struct {
	value uint32
	age   time.Duration
}

// Skill is one hotbar slot with a cooldown.
type Skill struct {
	Cooldown  time.Duration
	remaining time.Duration
}

// Progress returns the recovered fraction of the cooldown, 1 when ready.
func (s Skill) Progress() float32 {
	if s.Cooldown <= 0 || s.remaining <= 0 {
		return 1
	}
	return 1 - float32(s.remaining)/float32(s.Cooldown)
}

// Ready reports whether the skill can be used.
func (s Skill) Ready() bool { return s.remaining <= 0 }

// Scene is the demo content: a hotbar with cooldown arcs, a few spinning
// rectangles, a cursor with a point trail, a ground decal and ground
// markers. It only produces commands.
type Scene struct {
	Skills [SlotCount]Skill
	Paused bool

	icon    gpu.Texture
	elapsed time.Duration
	width   int
	height  int
	cursorX float32
	cursorY float32
	trail   [][2]float32
	hits    []hit
	marker  *math.Vec3
}

// NewScene creates the demo scene. icon is drawn in every hotbar slot.
func NewScene(icon gpu.Texture, width, height int) *Scene {
	s := &Scene{icon: icon, width: width, height: height}
	for i := range s.Skills {
		s.Skills[i].Cooldown = time.Duration(i+1) * 1500 * time.Millisecond
	}
	return s
}

// Resize updates the screen size the hotbar is anchored to.
func (s *Scene) Resize(width, height int) {
	s.width, s.height = width, height
}

// MoveCursor places the cursor marker and records the previous position
// in the trail, oldest first.
func (s *Scene) MoveCursor(x, y int) {
	if len(s.trail) == trailLength {
		copy(s.trail, s.trail[1:])
		s.trail = s.trail[:trailLength-1]
	}
	s.trail = append(s.trail, [2]float32{s.cursorX, s.cursorY})
	s.cursorX, s.cursorY = float32(x), float32(y)
}

// PlaceMarker marks a ground cell picked with the mouse.
func (s *Scene) PlaceMarker(p math.Vec3) {
	s.marker = &p
}

// Use triggers slot i if it is ready.
func (s *Scene) Use(i int) bool {
	if i < 0 || i >= SlotCount || !s.Skills[i].Ready() {
		return false
	}
	s.Skills[i].remaining = s.Skills[i].Cooldown
	s.hits = append(s.hits, hit{value: uint32(i+1) * 111})
	return true
}

// Update advances cooldowns and animations.
func (s *Scene) Update(dt time.Duration) {
	if s.Paused {
		return
	}
	s.elapsed += dt
	for i := range s.Skills {
		if s.Skills[i].remaining > 0 {
			s.Skills[i].remaining = max(s.Skills[i].remaining-dt, 0)
		}
	}

	live := s.hits[:0]
	for _, h := range s.hits {
		h.age += dt
		if h.age < hitLifetime {
			live = append(live, h)
		}
	}
	s.hits = live
}

// SlotPos returns the top-left corner of hotbar slot i.
func (s *Scene) SlotPos(i int) (float32, float32) {
	total := SlotCount*slotSize + (SlotCount-1)*slotSpacing
	x := (s.width-total)/2 + i*(slotSize+slotSpacing)
	y := s.height - hotbarInset - slotSize
	return float32(x), float32(y)
}

// Produce queues this frame's commands.
func (s *Scene) Produce(p command.Producer) {
	t := float32(s.elapsed.Seconds())

	s.produceGround(p, t)
	s.produceHotbar(p)

	// Spinning squares around the screen center.
	cx, cy := float32(s.width)/2, float32(s.height)/2
	for i := 0; i < 4; i++ {
		angle := t + float32(i)*math32.Pi/2
		x := cx + 120*math32.Cos(angle)
		y := cy + 120*math32.Sin(angle)
		p.Prepare2D().
			Color(command.Color{0.2 + 0.2*float32(i), 0.6, 1 - 0.2*float32(i), 0.9}).
			ScreenPos(x, y).
			Size(24).
			Rotation(t * 2).
			AddRectangle(1)
	}

	for i, pos := range s.trail {
		alpha := float32(i+1) / float32(len(s.trail)+1)
		p.Prepare2D().Color(command.White.WithAlpha(alpha)).ScreenPos(pos[0], pos[1]).AddPoint(4)
	}
	p.Prepare2D().Color(command.White).ScreenPos(s.cursorX, s.cursorY).Size(6).AddRectangle(5)
}

func (s *Scene) produceHotbar(p command.Producer) {
	for i, skill := range s.Skills {
		x, y := s.SlotPos(i)

		p.Prepare2D().Color(command.RGBA(20, 20, 30, 220)).ScreenPos(x-2, y-2).Size(slotSize + 4).AddRectangle(0)

		tint := command.White
		if !skill.Ready() {
			tint = command.Color{0.4, 0.4, 0.4, 1}
		}
		p.Prepare2D().Color(tint).ScreenPos(x, y).AddTexture(s.icon, slotSize, slotSize, false, 1)

		if !skill.Ready() {
			arc := command.ArcIndexFor(skill.Progress())
			p.Prepare2D().Color(command.Color{1, 0.8, 0.2, 1}).
				ScreenPos(x+slotSize/2, y+slotSize/2).
				AddPartialCircle(2, arc)
		}
	}
}

func (s *Scene) produceGround(p command.Producer, t float32) {
	pulse := 1 + 0.25*math32.Sin(t*3)
	p.Prepare3D().Color(command.Green).Pos2D(0, 0).AddCircle(4 * pulse)
	p.Prepare3D().Color(command.Red).Pos2D(8, -4).Rotation(t).AddRectangle(3, 3)
	p.Prepare3D().Color(command.Blue.WithAlpha(0.6)).Pos(math.Vec3{X: -8, Y: 0.1, Z: 4}).AddCircle(2)
	p.Prepare3D().Color(command.White.WithAlpha(0.8)).Pos2D(0, 0).Rotation(-t).AddHorizontalTexture(s.icon, 3, 3)

	if m := s.marker; m != nil {
		p.Prepare3D().Color(command.White).Pos(math.Vec3{X: m.X, Y: 0.02, Z: m.Z}).AddRectangle(1, 1)
		p.Prepare3D().Color(command.Color{1, 0.9, 0.3, 1}).Pos(math.Vec3{X: m.X, Y: 0.02, Z: m.Z}).AddCircle(0.7)
	}

	bob := 0.2 * math32.Sin(t*2)
	p.Prepare3D().Pos(math.Vec3{Y: 1.5 + bob}).AddSprite(s.icon, slotSize, slotSize, false)

	for _, h := range s.hits {
		f := float32(h.age) / float32(hitLifetime)
		p.Prepare3D().
			Color(command.Color{1, 0.9, 0.3, 1}).
			Alpha(1-f).
			Pos(math.Vec3{Y: 2.5 + 1.5*f}).
			Scale(2).
			AddNumber(h.value, 0)
	}
}
