package main

import (
	"fmt"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/glbkit/internal/config"
	"github.com/Faultbox/glbkit/internal/engine/camera"
	"github.com/Faultbox/glbkit/internal/engine/debug"
	"github.com/Faultbox/glbkit/internal/engine/input"
	"github.com/Faultbox/glbkit/internal/engine/renderer"
	"github.com/Faultbox/glbkit/internal/engine/shader"
	"github.com/Faultbox/glbkit/internal/engine/texture"
	"github.com/Faultbox/glbkit/internal/engine/window"
	"github.com/Faultbox/glbkit/internal/models"
)

const fps = 60

type viewer struct {
	cfg      *config.Config
	win      *window.Window
	rend     *renderer.Renderer
	program  *shader.Program
	cache    *models.Cache
	textures *texture.Loader
	input    *input.Input
	camera   *camera.OrbitCamera
	shots    *debug.Screenshots
	log      *zap.Logger

	models  []*models.Model
	spin    float32
	ready   bool
	started time.Time
}

func newViewer(cfg *config.Config, win *window.Window, rend *renderer.Renderer, program *shader.Program,
	cache *models.Cache, textures *texture.Loader, log *zap.Logger) *viewer {
	return &viewer{
		cfg:      cfg,
		win:      win,
		rend:     rend,
		program:  program,
		cache:    cache,
		textures: textures,
		input:    input.New(),
		camera: camera.NewOrbitCamera(camera.Settings{
			FOV:         cfg.Viewer.FOV,
			Distance:    cfg.Viewer.Distance,
			MinDistance: cfg.Viewer.MinDistance,
			MaxDistance: cfg.Viewer.MaxDistance,
			FPS:         fps,
			Frequency:   cfg.Viewer.SpringFreq,
			Damping:     cfg.Viewer.SpringDamp,
		}),
		shots: debug.NewScreenshots(cfg.Viewer.ScreenshotDir, windowTitle),
		log:   log.Named("viewer"),
	}
}

// load starts every model and frames the row they are laid out in.
func (v *viewer) load(ids []string) {
	v.started = time.Now()
	for _, id := range ids {
		v.models = append(v.models, v.cache.Load(id))
	}

	half := float32(len(ids)-1) * v.cfg.Viewer.Spacing / 2
	v.camera.Frame(mgl32.Vec3{-half - 0.5, -0.5, -0.5}, mgl32.Vec3{half + 0.5, 0.5, 0.5})
}

func (v *viewer) loop() {
	frameTime := time.Duration(0)
	if v.cfg.Graphics.FPSLimit > 0 {
		frameTime = time.Second / time.Duration(v.cfg.Graphics.FPSLimit)
	}

	for {
		start := time.Now()

		if quit := v.input.Update(); quit || v.input.IsKeyPressed(sdl.SCANCODE_ESCAPE) {
			return
		}
		v.handleInput()

		v.cache.Update()
		v.textures.Update()
		v.checkReady()

		v.camera.Update()
		v.draw()
		if v.input.IsKeyPressed(sdl.SCANCODE_F12) {
			v.screenshot()
		}
		v.win.SwapBuffers()

		if frameTime > 0 {
			if elapsed := time.Since(start); elapsed < frameTime {
				sdl.Delay(uint32((frameTime - elapsed) / time.Millisecond))
			}
		}
	}
}

func (v *viewer) handleInput() {
	for _, e := range v.input.Events() {
		if e.Type == input.EventWindowResize {
			w, h := v.win.DrawableSize()
			v.rend.Resize(w, h)
		}
	}

	if dx, dy := v.input.Drag(sdl.BUTTON_LEFT); dx != 0 || dy != 0 {
		v.camera.HandleDrag(float32(dx), float32(dy))
	}
	if wheel := v.input.Wheel(); wheel != 0 {
		v.camera.HandleZoom(float32(wheel))
	}
	if v.input.IsKeyPressed(sdl.SCANCODE_SPACE) {
		v.spin = 0
	}
}

// checkReady logs once when every requested model has finished loading.
func (v *viewer) checkReady() {
	pending := v.cache.PendingLoads()
	if v.cfg.Viewer.ShowPending {
		title := windowTitle
		if pending > 0 {
			title = fmt.Sprintf("%s (loading %d)", windowTitle, pending)
		}
		v.win.SetTitle(title)
	}

	if v.ready || pending > 0 {
		return
	}
	v.ready = true

	failed := 0
	for _, m := range v.models {
		if m.State() == models.StateFailed {
			failed++
		}
	}
	v.log.Info("scene ready",
		zap.Int("models", len(v.models)),
		zap.Int("failed", failed),
		zap.Duration("elapsed", time.Since(v.started)),
	)
}

func (v *viewer) screenshot() {
	w, h := v.win.DrawableSize()
	path, err := v.shots.Capture(w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("path", path))
}

func (v *viewer) draw() {
	v.rend.Begin()

	v.program.SetViewProj(v.camera.ViewProj(v.rend.Aspect()))
	v.spin += 0.01

	half := float32(len(v.models)-1) * v.cfg.Viewer.Spacing / 2
	for i, m := range v.models {
		x := float32(i)*v.cfg.Viewer.Spacing - half
		transform := mgl32.Translate3D(x, 0, 0).Mul4(mgl32.HomogRotate3DY(v.spin))
		m.Draw(transform)
	}

	v.rend.End()
}
