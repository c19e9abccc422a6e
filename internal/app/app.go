// Package app runs the desktop frame loop around a viewer session.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/fridgeview/internal/config"
	"github.com/Faultbox/fridgeview/internal/engine/debug"
	"github.com/Faultbox/fridgeview/internal/engine/input"
	"github.com/Faultbox/fridgeview/internal/engine/overlay"
	"github.com/Faultbox/fridgeview/internal/engine/panel"
	"github.com/Faultbox/fridgeview/internal/engine/renderer"
	"github.com/Faultbox/fridgeview/internal/engine/window"
	"github.com/Faultbox/fridgeview/internal/fridge"
	"github.com/Faultbox/fridgeview/internal/inventory"
	"github.com/Faultbox/fridgeview/internal/logger"
	"github.com/Faultbox/fridgeview/internal/telemetry"
	"github.com/Faultbox/fridgeview/internal/viewer"
)

// maxFrameTime caps dt so a stalled frame does not fling the camera.
const maxFrameTime = 0.1

// App is the desktop host.
type App struct {
	cfg     *config.Config
	running bool

	window   *window.Window
	renderer *renderer.Renderer
	overlay  *overlay.Overlay
	input    *input.Input

	shell   *viewer.Shell
	capture panel.Capture
	panel   panel.Panel
	filter  inventory.Filter

	telemetry   *telemetry.Server
	frames      uint64
	screenshots *debug.Screenshots
	capturing   bool
}

// New creates the window and GL resources for shell.
func New(cfg *config.Config, shell *viewer.Shell) (*App, error) {
	logger.Info("initializing viewer host",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)

	a := &App{cfg: cfg, shell: shell, filter: inventory.FilterFromConfig(cfg.Scene.Filter)}

	// Window first: it creates the OpenGL context.
	var err error
	a.window, err = window.New(cfg.Window)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	dw, dh := a.window.DrawableSize()
	a.renderer, err = renderer.New(dw, dh)
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	w, h := a.window.Size()
	face := panel.OpenFace(cfg.Window.Font, float64(cfg.Window.FontSize))
	a.overlay, err = overlay.New(face, w, h)
	if err != nil {
		a.renderer.Close()
		a.window.Close()
		return nil, fmt.Errorf("failed to create overlay: %w", err)
	}

	a.input = input.New()
	a.screenshots = debug.NewScreenshots(cfg.Window.ScreenshotDir, "fridgeview")
	a.shell.Resize(w, h)

	logger.Info("viewer host initialized", zap.String("session", shell.ID().String()))
	return a, nil
}

// SetTelemetry publishes session status to srv once per second.
func (a *App) SetTelemetry(srv *telemetry.Server) {
	a.telemetry = srv
}

// Run drives the frame loop until the window closes, Esc is pressed or ctx
// is cancelled.
func (a *App) Run(ctx context.Context) error {
	a.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	logger.Info("starting frame loop")

	for a.running {
		if ctx.Err() != nil {
			logger.Info("frame loop cancelled", zap.Error(context.Cause(ctx)))
			break
		}

		now := time.Now()
		dt := min(now.Sub(lastTime).Seconds(), maxFrameTime)
		lastTime = now

		w, h := a.window.Size()
		if a.input.Update(w, h) {
			a.running = false
			break
		}
		for _, event := range a.input.Events() {
			a.handle(event)
		}

		a.shell.Advance(float32(dt))

		frame := a.shell.Frame()
		a.panel = a.overlay.Layout(frame.Detail)
		a.renderer.Draw(frame)
		a.overlay.Draw(a.panel)
		if a.capturing {
			a.capturing = false
			a.screenshot()
		}

		a.window.SwapBuffers()

		frameCount++
		a.frames++
		if time.Since(fpsTimer) >= time.Second {
			a.publish()
			logger.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("items", len(frame.Items)),
				zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

func (a *App) handle(event input.Event) {
	switch event.Type {
	case input.EventWindowResize:
		a.resize()
	case input.EventFocusLost:
		a.shell.Gestures().Reset()
		a.capture.Reset()
	case input.EventPointer:
		toScene, closed := a.capture.Route(a.panel, event.Pointer)
		if closed {
			a.shell.CloseDetail()
		}
		if toScene {
			a.shell.HandlePointer(event.Pointer)
		}
	case input.EventWheel:
		a.shell.HandleWheel(event.Wheel)
	case input.EventKeyDown:
		a.key(event.Key)
	}
}

func (a *App) key(code sdl.Scancode) {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		a.running = false
	case sdl.SCANCODE_SPACE:
		a.shell.ToggleArticulation(fridge.FridgeDoor)
	case sdl.SCANCODE_F:
		a.shell.ToggleArticulation(fridge.FreezerDoor)
	case sdl.SCANCODE_R:
		a.reloadInventory()
	case sdl.SCANCODE_C:
		a.filter.Category = inventory.NextCategory(inventory.Categories(a.shell.Container().Objects()), a.filter.Category)
		a.applyFilter()
	case sdl.SCANCODE_E:
		a.filter.SortByExpiry = !a.filter.SortByExpiry
		a.applyFilter()
	case sdl.SCANCODE_A:
		a.filter = inventory.Filter{SortByExpiry: a.filter.SortByExpiry}
		a.applyFilter()
	case sdl.SCANCODE_P:
		a.capturing = true
	}
}

func (a *App) screenshot() {
	pixels, w, h := a.renderer.ReadPixels()
	path, err := a.screenshots.Save(pixels, w, h)
	if err != nil {
		logger.Warn("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// resize applies the window size to the shell and overlay, which work in
// screen coordinates, and the drawable size to the renderer.
func (a *App) resize() {
	w, h := a.window.Size()
	dw, dh := a.window.DrawableSize()
	a.shell.Resize(w, h)
	a.overlay.Resize(w, h)
	a.renderer.Resize(dw, dh)
}

// visibleIDs returns the currently visible object IDs.
func (a *App) visibleIDs() []string {
	c := a.shell.Container()
	var visible []string
	for _, o := range c.Objects() {
		if c.IsVisible(o.ID) {
			visible = append(visible, o.ID)
		}
	}
	return visible
}

// applyFilter replaces the visible set with the objects matching the filter.
func (a *App) applyFilter() {
	visible := a.filter.Apply(a.shell.Container().Objects(), a.visibleIDs())
	a.shell.SetVisibleSet(visible)
	logger.Info("filter applied",
		zap.String("query", a.filter.Query),
		zap.String("category", a.filter.Category),
		zap.Bool("by_expiry", a.filter.SortByExpiry),
		zap.Int("visible", len(visible)))
}

// reloadInventory re-reads the inventory file, keeping the visible set
// where the objects still exist.
func (a *App) reloadInventory() {
	path := a.cfg.Scene.InventoryFile
	if path == "" {
		logger.Debug("no inventory file to reload")
		return
	}
	objs, err := inventory.Load(path, a.cfg.Scene.MaxObjects)
	if err != nil {
		logger.Warn("inventory reload failed", zap.String("path", path), zap.Error(err))
		return
	}

	visible := a.visibleIDs()
	a.shell.SetObjects(objs)
	a.shell.SetVisibleSet(inventory.Reconcile(visible, objs))
	logger.Info("inventory reloaded", zap.String("path", path), zap.Int("objects", len(objs)))
}

func (a *App) publish() {
	if a.telemetry == nil {
		return
	}
	a.telemetry.Publish(telemetry.Status{
		Objects:  len(a.shell.Container().Objects()),
		Selected: a.shell.Selected(),
		Frames:   a.frames,
	})
}

// Close releases GPU and window resources. The shell belongs to the caller.
func (a *App) Close() {
	logger.Info("closing viewer host")

	if a.overlay != nil {
		a.overlay.Close()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}
