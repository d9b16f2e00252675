// Package viewer runs the interactive scene viewer: window, input, shadow
// and main passes, frame pacing and debug captures.
package viewer

import (
	"fmt"
	"image"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/penumbra/internal/config"
	"github.com/Faultbox/penumbra/internal/engine/camera"
	"github.com/Faultbox/penumbra/internal/engine/debug"
	"github.com/Faultbox/penumbra/internal/engine/framebuffer"
	"github.com/Faultbox/penumbra/internal/engine/geometry"
	"github.com/Faultbox/penumbra/internal/engine/input"
	"github.com/Faultbox/penumbra/internal/engine/renderer"
	"github.com/Faultbox/penumbra/internal/engine/shadow"
	"github.com/Faultbox/penumbra/internal/engine/texture"
	"github.com/Faultbox/penumbra/internal/engine/window"
	"github.com/Faultbox/penumbra/internal/logger"
	"github.com/Faultbox/penumbra/internal/scene"
	"github.com/Faultbox/penumbra/pkg/formats"
)

// Viewer owns every GPU resource and the main loop.
type Viewer struct {
	cfg     *config.Config
	log     *zap.Logger
	running bool

	window  *window.Window
	input   *input.Input
	scene   *scene.Scene
	camera  *camera.Controller
	shadows *shadow.Pipeline
	pass    *renderer.Pass

	capture     *framebuffer.Framebuffer
	screenshots *debug.ScreenshotCapture
	dumped      bool
}

// New opens the window, loads the scene and builds both render passes.
// When cfg names no scene, pick is asked for one.
func New(cfg *config.Config, pick Picker) (*Viewer, error) {
	v := &Viewer{
		cfg:         cfg,
		log:         logger.Named("viewer"),
		screenshots: debug.NewScreenshotCapture(cfg.Scene.ScreenshotDir, "penumbra"),
	}

	path, err := resolveScenePath(cfg.Scene.Path, pick)
	if err != nil {
		return nil, err
	}

	v.window, err = window.New(window.Config{
		Title:      "penumbra - " + filepath.Base(path),
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	if err := renderer.Init(); err != nil {
		v.Close()
		return nil, err
	}

	width, height := v.window.DrawableSize()
	sw, sh := cfg.ShadowSize(width, height)
	params := scene.ShadowParams{
		Width:  sw,
		Height: sh,
		FovY:   cfg.Shadow.LightFov,
		Near:   cfg.Shadow.Near,
		Far:    cfg.Shadow.Far,
	}

	v.scene, err = scene.Load(path, params)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to load scene: %w", err)
	}
	if err := v.scene.Upload(newGeometry, newSampler); err != nil {
		v.Close()
		return nil, err
	}
	v.log.Info("scene loaded",
		zap.String("path", path),
		zap.Int("meshes", len(v.scene.Meshes)),
		zap.Int("textures", len(v.scene.Textures)),
		zap.Int("models", len(v.scene.Models)),
		zap.Int("lights", len(v.scene.Lights)),
		zap.Int("triangles", v.scene.Triangles()),
	)

	v.shadows, err = shadow.NewPipeline(shadow.Config{
		Width:     sw,
		Height:    sh,
		Layers:    len(v.scene.Lights),
		CullFront: cfg.Shadow.CullFront,
	})
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create shadow pipeline: %w", err)
	}

	v.pass, err = renderer.New(renderer.Config{
		Width:      width,
		Height:     height,
		ShadowBias: cfg.Shadow.Bias,
	})
	if err != nil {
		v.Close()
		return nil, err
	}
	v.pass.Resize(width, height)

	v.input = input.New()
	v.camera = camera.NewController(&v.scene.Camera, camera.Settings{
		ScrollStep:     cfg.Scene.ScrollStep,
		DragDivisor:    cfg.Scene.DragDivisor,
		MaxDragRadians: cfg.Scene.MaxDragRadians,
	})
	return v, nil
}

func newGeometry(vertices []formats.Vertex) (scene.Geometry, error) {
	b, err := geometry.New(vertices)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func newSampler(img *image.RGBA) (scene.Sampler, error) {
	t, err := texture.New(img)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// Run drives the loop until the window closes or Escape is pressed.
func (v *Viewer) Run() error {
	v.running = true
	budget := frameBudget(v.cfg.Graphics.FPSLimit)

	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting render loop", zap.Duration("frame_budget", budget))

	for v.running {
		start := time.Now()

		if v.input.Update() {
			v.running = false
			break
		}
		for _, e := range v.input.Events() {
			v.handle(e)
		}

		if err := v.frame(); err != nil {
			return err
		}
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			v.log.Debug("fps", zap.Int("count", frameCount))
			frameCount = 0
			fpsTimer = time.Now()
		}

		if d := sleepFor(budget, time.Since(start)); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

func (v *Viewer) handle(e input.Event) {
	switch e.Type {
	case input.EventWindowResize:
		width, height := v.window.DrawableSize()
		v.pass.Resize(width, height)
	case input.EventMouseDown:
		if e.Button == input.ButtonLeft {
			v.camera.Press()
		}
	case input.EventMouseUp:
		if e.Button == input.ButtonLeft {
			v.camera.Release()
		}
	case input.EventMouseMove:
		v.camera.Move(float32(e.MouseX), float32(e.MouseY))
	case input.EventMouseWheel:
		v.camera.Zoom(e.WheelY)
	case input.EventKeyDown:
		switch e.Key {
		case input.KeyQuit:
			v.running = false
		case input.KeyDumpShadow:
			v.dumpShadows()
		case input.KeyScreenshot:
			v.screenshot()
		}
	}
}

// frame renders the depth layers if they are stale, then draws the lit
// scene. Camera moves do not touch the lights, so the layers are rendered
// once unless something calls Invalidate.
func (v *Viewer) frame() error {
	if v.shadows.Stale() {
		if err := v.shadows.Render(v.scene.Lights, shadow.Casters(v.scene)); err != nil {
			return fmt.Errorf("shadow pass: %w", err)
		}
		if v.cfg.Shadow.DumpOnce && !v.dumped {
			v.dumped = true
			v.dumpShadows()
		}
	}
	v.pass.Draw(v.scene, v.shadows)
	return nil
}

func (v *Viewer) dumpShadows() {
	c := v.shadows.Config()
	paths, err := debug.DumpDepthLayers(v.shadows, len(v.scene.Lights), c.Width, c.Height, v.cfg.Shadow.DumpDir, v.cfg.Shadow.Stretch)
	if err != nil {
		v.log.Error("shadow dump failed", zap.Error(err))
		return
	}
	v.log.Info("shadow layers written", zap.Strings("files", paths))
}

func (v *Viewer) screenshot() {
	width, height := v.pass.Size()
	if v.capture == nil {
		fb, err := framebuffer.New(width, height)
		if err != nil {
			v.log.Error("screenshot framebuffer", zap.Error(err))
			return
		}
		v.capture = fb
	}
	v.capture.Resize(width, height)
	w, h := v.capture.Size()

	pixels := v.capture.Capture(func() {
		v.pass.Draw(v.scene, v.shadows)
	})
	path, err := v.screenshots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Error("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", path))
}

// Close releases resources in reverse creation order. It is safe to call
// on a partially built viewer.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.capture != nil {
		v.capture.Destroy()
		v.capture = nil
	}
	if v.pass != nil {
		v.pass.Destroy()
		v.pass = nil
	}
	if v.shadows != nil {
		v.shadows.Destroy()
		v.shadows = nil
	}
	if v.scene != nil {
		v.scene.Release()
	}
	if v.window != nil {
		v.window.Close()
		v.window = nil
	}
}
