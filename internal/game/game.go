// Package game runs the demo client: it owns the window and GPU device
// and drives the accumulate, flush and clear cycle once per frame.
package game

import (
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-render/internal/config"
	"github.com/Faultbox/midgard-render/internal/engine/camera"
	"github.com/Faultbox/midgard-render/internal/engine/debug"
	"github.com/Faultbox/midgard-render/internal/engine/gpu"
	"github.com/Faultbox/midgard-render/internal/engine/gpu/glgpu"
	"github.com/Faultbox/midgard-render/internal/engine/input"
	"github.com/Faultbox/midgard-render/internal/engine/picking"
	"github.com/Faultbox/midgard-render/internal/engine/texture"
	"github.com/Faultbox/midgard-render/internal/engine/window"
	"github.com/Faultbox/midgard-render/internal/render/command"
	"github.com/Faultbox/midgard-render/internal/render/frame"
	"github.com/Faultbox/midgard-render/internal/render/ground"
	"github.com/Faultbox/midgard-render/internal/render/sprite3d"
	"github.com/Faultbox/midgard-render/pkg/math"
)

const (
	// iconSize is the edge of the generated hotbar icon, in texels.
	iconSize = 16
	// orbitSpeed is the idle camera rotation, in radians per second.
	orbitSpeed = 0.2
)

// Game is the demo client instance.
type Game struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window  *window.Window
	device  *glgpu.Device
	frame   *frame.Renderer
	ground  *ground.Renderer
	sprites *sprite3d.Renderer
	input   *input.Input
	camera  *camera.Orbit
	scene   *Scene
	icon    gpu.Texture
	shots   *debug.Screenshots
	watch   *config.Watcher

	projection math.Mat4
}

// New creates the window, the GL device and the frame renderer.
func New(cfg *config.Config, log *zap.Logger) (*Game, error) {
	g := &Game{cfg: cfg, log: log.Named("game")}

	var err error
	g.window, err = window.New(window.Config{
		Title:      "Midgard Render",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, log.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("creating window: %w", err)
	}

	// The device needs the GL context the window just made current.
	g.device, err = glgpu.New(glgpu.Config{
		DepthTest:  cfg.Render.DepthTest,
		Blend:      true,
		ClearColor: cfg.Render.ClearColor,
	}, log.Named("gpu"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("creating device: %w", err)
	}

	// Siblings are owned here; the frame renderer only calls them.
	g.ground, err = ground.New(g.device, log.Named("ground"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("creating ground renderer: %w", err)
	}
	g.sprites, err = sprite3d.New(g.device, log.Named("sprite3d"))
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("creating sprite renderer: %w", err)
	}

	g.frame, err = frame.New(g.device, log, frame.Siblings{
		Ground:  g.ground,
		Sprites: g.sprites,
	}, frame.Options{
		Order:         cfg.Render.PassOrder,
		StatsInterval: cfg.Render.StatsInterval,
	})
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("creating frame renderer: %w", err)
	}

	g.icon, err = g.loadIcon(cfg.Demo.Icon)
	if err != nil {
		g.Close()
		return nil, fmt.Errorf("uploading icon: %w", err)
	}

	g.input = input.New()
	g.camera = camera.NewOrbit()
	g.shots = debug.NewScreenshots(cfg.Demo.ScreenshotDir, "midgard")
	w, h := g.window.Size()
	g.scene = NewScene(g.icon, w, h)
	g.resize()

	if cfg.Path != "" {
		if g.watch, err = config.Watch(cfg.Path, log.Named("config")); err != nil {
			g.log.Warn("config hot reload disabled", zap.Error(err))
		}
	}

	g.log.Info("demo initialized", zap.Strings("passes", g.frame.Order()))
	return g, nil
}

// Run runs the frame loop until the window is closed.
func (g *Game) Run() error {
	g.running = true

	var frameBudget time.Duration
	if g.cfg.Graphics.FPSLimit > 0 {
		frameBudget = time.Second / time.Duration(g.cfg.Graphics.FPSLimit)
	}

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := lastTime

	g.log.Info("starting frame loop")

	for g.running {
		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		if g.input.Update() {
			g.running = false
			break
		}
		g.handleEvents()
		g.pollConfig()

		g.scene.Update(dt)
		if !g.scene.Paused {
			g.camera.Rotate(orbitSpeed * float32(dt.Seconds()))
		}
		view := g.camera.View()
		g.frame.SetCamera(g.projection, view)

		// Accumulate, flush, clear.
		p := g.frame.Producer()
		p.SetGround(command.Ground{View: view})
		g.scene.Produce(p)
		g.device.Clear()
		g.frame.Render()
		g.frame.Clear()

		if g.input.IsKeyPressed(sdl.SCANCODE_F12) {
			g.screenshot()
		}

		g.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			g.log.Debug("fps", zap.Int("count", frameCount), zap.Duration("dt", dt))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if frameBudget > 0 {
			if spent := time.Since(now); spent < frameBudget {
				time.Sleep(frameBudget - spent)
			}
		}
	}

	return nil
}

func (g *Game) handleEvents() {
	for _, e := range g.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			g.resize()
		case input.EventMouseWheel:
			g.camera.Zoom(float32(e.Wheel))
		case input.EventMouseMove:
			g.scene.MoveCursor(e.MouseX, e.MouseY)
		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				g.pick(e.MouseX, e.MouseY)
			}
		case input.EventKeyDown:
			switch {
			case e.Key == sdl.SCANCODE_SPACE:
				g.scene.Paused = !g.scene.Paused
			case e.Key >= sdl.SCANCODE_1 && e.Key < sdl.SCANCODE_1+SlotCount:
				slot := int(e.Key - sdl.SCANCODE_1)
				if g.scene.Use(slot) {
					g.log.Debug("skill used", zap.Int("slot", slot))
				}
			case e.Key == sdl.SCANCODE_F9:
				g.saveConfig()
			}
		}
	}
}

// pollConfig applies a reloaded render section, if one is pending.
// Window and logging settings only take effect on restart.
func (g *Game) pollConfig() {
	if g.watch == nil {
		return
	}
	select {
	case cfg := <-g.watch.Changes():
		g.device.SetClearColor(cfg.Render.ClearColor)
		g.frame.SetStatsInterval(cfg.Render.StatsInterval)
		order := cfg.Render.PassOrder
		if len(order) == 0 {
			order = frame.DefaultOrder
		}
		if err := g.frame.SetOrder(order); err != nil {
			g.log.Warn("pass order rejected", zap.Error(err))
		}
		g.cfg.Render = cfg.Render
		g.log.Info("render settings applied", zap.Strings("passes", g.frame.Order()))
	default:
	}
}

// pick places the ground marker under the given pixel.
func (g *Game) pick(x, y int) {
	w, h := g.window.Size()
	ray, ok := picking.ScreenToRay(float32(x), float32(y), w, h, g.projection, g.camera.View())
	if !ok {
		return
	}
	if p, ok := ray.IntersectPlaneY(0); ok {
		g.scene.PlaceMarker(p)
		g.log.Debug("ground picked", zap.Float32("x", p.X), zap.Float32("z", p.Z))
	}
}

// saveConfig writes the running settings, including any reloaded render
// section, back to disk.
func (g *Game) saveConfig() {
	if err := g.cfg.Save(); err != nil {
		g.log.Warn("saving config failed", zap.Error(err))
		return
	}
	g.log.Info("config saved", zap.String("path", g.cfg.Path))
}

func (g *Game) screenshot() {
	w, h := g.window.DrawableSize()
	path, err := g.shots.Save(g.device.ReadPixels(w, h), w, h)
	if err != nil {
		g.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	g.log.Info("screenshot saved", zap.String("path", path))
}

// resize applies the current window size to the viewport and projections.
func (g *Game) resize() {
	w, h := g.window.Size()
	dw, dh := g.window.DrawableSize()
	g.device.Viewport(dw, dh)
	g.frame.SetScreenSize(w, h)
	g.scene.Resize(w, h)

	g.projection = g.camera.Projection(w, h)
}

// Close releases everything New created, in reverse order.
func (g *Game) Close() {
	g.log.Info("closing demo")

	if g.watch != nil {
		if err := g.watch.Close(); err != nil {
			g.log.Warn("closing config watcher", zap.Error(err))
		}
	}

	if g.icon != 0 {
		g.device.DeleteTexture(g.icon)
	}
	if g.frame != nil {
		g.frame.Destroy()
	}
	if g.sprites != nil {
		g.sprites.Destroy()
	}
	if g.ground != nil {
		g.ground.Destroy()
	}
	if g.device != nil {
		g.device.Close()
	}
	if g.window != nil {
		g.window.Close()
	}
}

// loadIcon uploads the hotbar icon, falling back to a generated pattern
// when no file is configured.
func (g *Game) loadIcon(path string) (gpu.Texture, error) {
	if path == "" {
		return g.device.UploadTexture(iconSize, iconSize, checkerboard(iconSize))
	}
	img, err := texture.Load(path)
	if err != nil {
		return 0, err
	}
	g.log.Info("icon loaded", zap.String("path", path), zap.Int("width", img.Width), zap.Int("height", img.Height))
	return g.device.UploadTexture(img.Width, img.Height, img.Pix)
}

// checkerboard returns an RGBA checker pattern of size x size texels.
func checkerboard(size int) []byte {
	pix := make([]byte, 0, size*size*4)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/4+y/4)%2 == 0 {
				pix = append(pix, 230, 190, 90, 255)
			} else {
				pix = append(pix, 120, 60, 30, 255)
			}
		}
	}
	return pix
}
