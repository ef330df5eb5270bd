// Package frame ties the command queue to the renderers: game logic fills
// the queue during a frame, Render flushes every batch in a fixed pass
// order and Clear resets the queue for the next frame.
package frame

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/geometry"
	"github.com/Faultbox/midgard-render/internal/render/horizontal3d"
	"github.com/Faultbox/midgard-render/internal/render/point2d"
	"github.com/Faultbox/midgard-render/internal/render/texture2d"
	"github.com/Faultbox/midgard-render/internal/render/trimesh2d"
	"github.com/Faultbox/midgard-render/internal/render/trimesh3d"
	"github.com/Faultbox/midgard-render/pkg/math"
)

// Pass names.
const (
	PassGround              = "ground"
	PassSprite3D            = "sprite3d"
	PassNumber3D            = "number3d"
	PassHorizontalTexture3D = "horizontal_texture3d"
	PassModel3D             = "model3d"
	PassCircle3D            = "circle3d"
	PassRectangle3D         = "rectangle3d"
	PassPartialCircle2D     = "partial_circle2d"
	PassPoint2D             = "point2d"
	PassTexture2D           = "texture2d"
	PassRectangle2D         = "rectangle2d"
)

// DefaultOrder is the pass order used when none is configured. 3D batches
// come first, then the 2D overlay with rectangles on top.
var DefaultOrder = []string{
	PassGround,
	PassSprite3D,
	PassNumber3D,
	PassHorizontalTexture3D,
	PassModel3D,
	PassCircle3D,
	PassRectangle3D,
	PassPartialCircle2D,
	PassPoint2D,
	PassTexture2D,
	PassRectangle2D,
}

// ErrUnknownPass is returned by SetOrder for a name no pass answers to.
var ErrUnknownPass = errors.New("unknown render pass")

// Pass is one entry of the pass table: a queue length function and the
// draw call that flushes it.
type Pass struct {
	Name string
	Len  func() int
	Draw func()
}

// PassStats is what one pass did during the last frame.
type PassStats struct {
	Name     string
	Commands int
	Elapsed  time.Duration
}

// Options configures a Renderer.
type Options struct {
	// Order overrides DefaultOrder. Every name must be a known pass;
	// passes left out run after the listed ones, in default order.
	Order []string
	// StatsInterval logs pass stats at debug level every N frames.
	// Zero disables the log.
	StatsInterval int
}

// Renderer owns the command queue and the built-in renderers.
// It is not safe for concurrent use.
type Renderer struct {
	log   *zap.Logger
	queue *command.Queue

	quad     *geometry.StaticBuffer
	shapes   *trimesh2d.Renderer
	wire     *trimesh3d.Renderer
	textures *texture2d.Renderer
	points   *point2d.Renderer
	flat     *horizontal3d.Renderer
	siblings Siblings

	screen     math.Mat4
	projection math.Mat4
	view       math.Mat4

	available     map[string]Pass
	passes        []Pass
	stats         []PassStats
	frames        uint64
	statsInterval int
}

// New creates the built-in renderers and the pass table. On failure every
// GPU object created so far is released.
func New(dev gpu.Device, log *zap.Logger, siblings Siblings, opts Options) (*Renderer, error) {
	if siblings.Models != nil && siblings.Table == nil {
		return nil, errors.New("model renderer set without a model table")
	}

	r := &Renderer{
		log:           log.Named("frame"),
		queue:         command.NewQueue(),
		siblings:      siblings,
		screen:        math.Identity(),
		projection:    math.Identity(),
		view:          math.Identity(),
		statsInterval: opts.StatsInterval,
	}

	var err error
	if r.quad, err = geometry.NewSpriteQuad(dev); err != nil {
		return nil, fmt.Errorf("creating sprite quad: %w", err)
	}
	if r.shapes, err = trimesh2d.New(dev, log); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating shape renderer: %w", err)
	}
	if r.wire, err = trimesh3d.New(dev, log); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating wireframe renderer: %w", err)
	}
	if r.textures, err = texture2d.New(dev, log); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating texture renderer: %w", err)
	}
	if r.points, err = point2d.New(dev, log); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating point renderer: %w", err)
	}
	if r.flat, err = horizontal3d.New(dev, log); err != nil {
		r.Destroy()
		return nil, fmt.Errorf("creating horizontal texture renderer: %w", err)
	}

	r.available = r.passTable()

	order := opts.Order
	if len(order) == 0 {
		order = DefaultOrder
	}
	if err := r.SetOrder(order); err != nil {
		r.Destroy()
		return nil, err
	}

	return r, nil
}

// passTable returns every pass whose renderer is present.
func (r *Renderer) passTable() map[string]Pass {
	q := r.queue
	passes := []Pass{
		{PassHorizontalTexture3D, func() int { return len(q.HorizontalTextures3D()) }, func() {
			r.flat.Render(r.projection, r.view, q.HorizontalTextures3D())
		}},
		{PassCircle3D, func() int { return len(q.Circles3D()) }, func() {
			r.wire.RenderCircles(r.projection, r.view, q.Circles3D())
		}},
		{PassRectangle3D, func() int { return len(q.Rectangles3D()) }, func() {
			r.wire.RenderRectangles(r.projection, r.view, q.Rectangles3D())
		}},
		{PassPoint2D, func() int { return len(q.Points2D()) }, func() {
			r.points.Render(r.screen, q.Points2D())
		}},
		{PassTexture2D, func() int { return len(q.Textures2D()) }, func() {
			r.textures.Render(r.screen, q.Textures2D(), r.quad)
		}},
		{PassRectangle2D, func() int { return len(q.Rectangles2D()) }, func() {
			r.shapes.RenderRectangles(r.screen, q.Rectangles2D(), r.quad)
		}},
		{PassPartialCircle2D, func() int { return len(q.PartialCircles2D()) }, func() {
			r.shapes.RenderPartialCircles(r.screen, q.PartialCircles2D())
		}},
	}

	if g := r.siblings.Ground; g != nil {
		passes = append(passes, Pass{PassGround,
			func() int {
				if _, ok := q.Ground(); ok {
					return 1
				}
				return 0
			},
			func() {
				ground, _ := q.Ground()
				g.RenderGround(r.projection, ground)
			},
		})
	} else {
		r.log.Info("no ground renderer, ground pass disabled")
	}

	if s := r.siblings.Sprites; s != nil {
		passes = append(passes,
			Pass{PassSprite3D, func() int { return len(q.Sprites3D()) }, func() {
				s.RenderSprites(r.projection, r.view, q.Sprites3D())
			}},
			Pass{PassNumber3D, func() int { return len(q.Numbers3D()) }, func() {
				s.RenderNumbers(r.projection, r.view, q.Numbers3D())
			}},
		)
	} else {
		r.log.Info("no sprite renderer, sprite and number passes disabled")
	}

	if m := r.siblings.Models; m != nil {
		passes = append(passes, Pass{PassModel3D, func() int { return len(q.Models3D()) }, r.drawModels})
	} else {
		r.log.Info("no model renderer, model pass disabled")
	}

	table := make(map[string]Pass, len(passes))
	for _, p := range passes {
		table[p.Name] = p
	}
	return table
}

func (r *Renderer) drawModels() {
	for _, c := range r.queue.Models3D() {
		inst, ok := r.siblings.Table.Instance(c.InstanceIndex)
		if !ok {
			continue
		}
		r.siblings.Models.RenderModel(r.projection, r.view, inst, c.Transparent)
	}
}

// SetOrder replaces the pass order. Known passes missing from names are
// appended in default order, so every queued kind is still drawn. Names
// of passes whose sibling renderer is absent are accepted and skipped.
func (r *Renderer) SetOrder(names []string) error {
	known := make(map[string]bool, len(DefaultOrder))
	for _, n := range DefaultOrder {
		known[n] = true
	}

	seen := make(map[string]bool, len(DefaultOrder))
	for _, name := range names {
		if !known[name] {
			return fmt.Errorf("%w: %q", ErrUnknownPass, name)
		}
		if seen[name] {
			return fmt.Errorf("render pass %q listed twice", name)
		}
		seen[name] = true
	}

	full := append([]string(nil), names...)
	var appended []string
	for _, name := range DefaultOrder {
		if !seen[name] {
			full = append(full, name)
			appended = append(appended, name)
		}
	}
	if len(appended) > 0 && len(names) > 0 {
		r.log.Info("render order is partial, appending the missing passes",
			zap.Strings("appended", appended))
	}

	passes := make([]Pass, 0, len(full))
	for _, name := range full {
		if p, ok := r.available[name]; ok {
			passes = append(passes, p)
		}
	}

	r.passes = passes
	r.stats = make([]PassStats, len(passes))
	for i, p := range passes {
		r.stats[i].Name = p.Name
	}
	return nil
}

// SetStatsInterval changes how often pass stats are logged. Zero disables
// the log.
func (r *Renderer) SetStatsInterval(n int) {
	r.statsInterval = max(n, 0)
}

// Order returns the names of the active passes in draw order.
func (r *Renderer) Order() []string {
	names := make([]string, len(r.passes))
	for i, p := range r.passes {
		names[i] = p.Name
	}
	return names
}

// Producer returns the append-only view of the queue for game logic.
func (r *Renderer) Producer() command.Producer {
	return r.queue
}

// SetScreenSize sets the pixel projection used by the 2D passes.
func (r *Renderer) SetScreenSize(width, height int) {
	r.screen = math.ScreenOrtho(width, height)
}

// SetCamera sets the matrices used by the 3D passes.
func (r *Renderer) SetCamera(projection, view math.Mat4) {
	r.projection = projection
	r.view = view
}

// Render flushes every queued batch in pass order. Empty passes are
// skipped without touching GPU state. The queue is left untouched; call
// Clear before producing the next frame.
func (r *Renderer) Render() {
	for i, p := range r.passes {
		n := p.Len()
		r.stats[i].Commands = n
		r.stats[i].Elapsed = 0
		if n == 0 {
			continue
		}
		start := time.Now()
		p.Draw()
		r.stats[i].Elapsed = time.Since(start)
	}

	r.frames++
	if r.statsInterval > 0 && r.frames%uint64(r.statsInterval) == 0 {
		r.logStats()
	}
}

func (r *Renderer) logStats() {
	fields := make([]zap.Field, 0, len(r.stats)+1)
	fields = append(fields, zap.Uint64("frame", r.frames))
	for _, s := range r.stats {
		if s.Commands == 0 {
			continue
		}
		fields = append(fields, zap.String(s.Name, fmt.Sprintf("%d in %s", s.Commands, s.Elapsed)))
	}
	r.log.Debug("frame stats", fields...)
}

// Clear empties the queue.
func (r *Renderer) Clear() {
	r.queue.Clear()
}

// Stats returns the per-pass stats of the last Render, in pass order.
func (r *Renderer) Stats() []PassStats {
	return append([]PassStats(nil), r.stats...)
}

// Frames returns the number of frames rendered so far.
func (r *Renderer) Frames() uint64 {
	return r.frames
}

// Destroy releases the built-in renderers. Siblings are owned by the caller.
func (r *Renderer) Destroy() {
	if r.flat != nil {
		r.flat.Destroy()
		r.flat = nil
	}
	if r.points != nil {
		r.points.Destroy()
		r.points = nil
	}
	if r.textures != nil {
		r.textures.Destroy()
		r.textures = nil
	}
	if r.wire != nil {
		r.wire.Destroy()
		r.wire = nil
	}
	if r.shapes != nil {
		r.shapes.Destroy()
		r.shapes = nil
	}
	if r.quad != nil {
		r.quad.Delete()
		r.quad = nil
	}
}
