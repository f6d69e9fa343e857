// Package app runs the frame loop: pull a frame from the feed, draw the
// scene over it, present, then redraw labels on the display.
package app

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/rook-computer/overlay/internal/buttons"
	"github.com/rook-computer/overlay/internal/feed"
	"github.com/rook-computer/overlay/internal/gfx"
	"github.com/rook-computer/overlay/internal/render"
	"github.com/rook-computer/overlay/internal/state"
)

const (
	DefaultFPS               = 30
	DefaultMaxRenderFailures = 3
	DefaultMaxRecoveries     = 5
)

// FrameSink receives copies of the staging content, e.g. for a preview.
type FrameSink interface {
	PublishFrame(img *image.RGBA)
}

type App struct {
	Store    *state.Store
	Renderer *render.Renderer
	Handle   gfx.Handle
	Feed     feed.Source
	Buttons  buttons.Buttons
	Sink     FrameSink
	Logger   Logger

	Width, Height int
	FPS           int
	// MaxRenderFailures consecutive Render errors trigger device recreation.
	MaxRenderFailures int
	// MaxRecoveries consecutive failed recreations stop the app.
	MaxRecoveries int
	// PublishEvery sends every Nth frame to Sink; 0 means once per second.
	PublishEvery int
	// HUD draws a status line every frame.
	HUD bool
	// MaxFrames stops the app after this many presented frames; 0 runs
	// until cancelled.
	MaxFrames int64

	failures   int
	recoveries int
	frames     int64

	exitOnce atomic.Bool
	exitCh   chan error
	resetCh  chan struct{}
}

func New(store *state.Store, renderer *render.Renderer, handle gfx.Handle, source feed.Source, buttonDriver buttons.Buttons) *App {
	return &App{
		Store:             store,
		Renderer:          renderer,
		Handle:            handle,
		Feed:              source,
		Buttons:           buttonDriver,
		Logger:            NoopLogger{},
		Width:             render.CanvasWidth,
		Height:            render.CanvasHeight,
		FPS:               DefaultFPS,
		MaxRenderFailures: DefaultMaxRenderFailures,
		MaxRecoveries:     DefaultMaxRecoveries,
		exitCh:            make(chan error, 1),
		resetCh:           make(chan struct{}, 1),
	}
}

// Exit requests the app to stop running. Only the first call counts.
func (app *App) Exit(err error) {
	if app.exitCh == nil {
		return
	}
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

// Reset asks the loop to recreate the graphics device before the next frame.
func (app *App) Reset() {
	select {
	case app.resetCh <- struct{}{}:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	if app.exitCh == nil {
		app.exitCh = make(chan error, 1)
	}
	if app.resetCh == nil {
		app.resetCh = make(chan struct{}, 1)
	}
	if app.Logger == nil {
		app.Logger = NoopLogger{}
	}
	app.exitOnce.Store(false)
	app.Store.SetPhase(state.BOOTING)

	if err := app.Renderer.Init(app.Handle, app.Width, app.Height); err != nil {
		app.Logger.Errorf("app", "renderer init error: %v", err)
		app.fail(err)
		return err
	}
	defer func() {
		if err := app.Renderer.Close(); err != nil {
			app.Logger.Errorf("app", "renderer close error: %v", err)
		}
	}()
	w, h := app.Renderer.Size()
	app.Logger.Infof("app", "renderer ready, surface=%dx%d texture=%d", w, h, app.Renderer.TextureDim())

	loopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if app.Buttons != nil {
		if err := app.Buttons.Start(loopCtx); err != nil {
			app.Logger.Errorf("buttons", "start error: %v", err)
		} else {
			defer app.Buttons.Stop()
			go app.watchButtons(loopCtx)
		}
	}

	app.Store.SetPhase(state.RUNNING)
	fps := app.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	lastLog := time.Now()

	for {
		select {
		case <-ctx.Done():
			app.Store.SetPhase(state.STOPPED)
			return ctx.Err()
		case err := <-app.exitCh:
			if err != nil {
				app.fail(err)
			} else {
				app.Store.SetPhase(state.STOPPED)
			}
			return err
		case <-app.resetCh:
			app.Logger.Infof("app", "device reset requested")
			if err := app.recover(errors.New("reset requested")); err != nil {
				app.Exit(err)
			}
		case <-ticker.C:
			if err := app.Step(); err != nil {
				app.Exit(err)
			}
			if time.Since(lastLog) > 10*time.Second {
				snap := app.Store.Snapshot()
				app.Logger.Infof("app", "heartbeat, phase=%s frames=%d failures=%d reinits=%d",
					snap.Phase, snap.Stats.Frames, snap.Stats.Failures, snap.Stats.Reinits)
				lastLog = time.Now()
			}
		}
	}
}

func (app *App) watchButtons(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-app.Buttons.Events():
			app.Logger.Infof("buttons", "event %s", ev)
			switch ev {
			case buttons.Exit, buttons.Shutdown:
				app.Exit(nil)
			case buttons.Reset:
				app.Reset()
			case buttons.ClearScene:
				app.Store.ClearScene()
			}
		}
	}
}

// Step produces one frame. Render failures are counted and handled by
// recreating the device; only an unrecoverable device is returned as an
// error.
func (app *App) Step() error {
	if app.MaxFrames > 0 && app.frames >= app.MaxFrames {
		return nil
	}
	if !app.Renderer.Ready() {
		return app.recover(errors.New("renderer not ready"))
	}
	img, err := app.Feed.Next()
	if err != nil {
		return fmt.Errorf("feed: %w", err)
	}
	if err := app.Renderer.SetImg(img); err != nil {
		return fmt.Errorf("set image: %w", err)
	}
	snap := app.Store.Snapshot()
	if err := RenderScene(app.Renderer, snap.Scene); err != nil {
		app.Logger.Errorf("app", "scene: %v", err)
	}

	if err := app.Renderer.Render(); err != nil {
		app.failures++
		app.Logger.Errorf("app", "render failed (%d/%d): %v", app.failures, app.maxRenderFailures(), err)
		app.Store.UpdateStats(func(s *state.Stats) {
			s.Failures++
			s.LastError = err.Error()
		})
		if app.failures >= app.maxRenderFailures() {
			return app.recover(err)
		}
		return nil
	}
	app.failures = 0
	app.frames++

	if err := DrawLabels(app.Renderer, snap.Scene.Labels); err != nil {
		app.Logger.Errorf("app", "labels: %v", err)
	}
	if app.HUD {
		line := fmt.Sprintf("frame %d  reinits %d", app.frames, snap.Stats.Reinits)
		if err := DrawHUD(app.Renderer, line, render.Foreground); err != nil {
			app.Logger.Errorf("app", "hud: %v", err)
		}
	}
	if surface, err := app.Renderer.Surface(); err == nil {
		if f, ok := surface.(gfx.Flusher); ok {
			if err := f.Flush(); err != nil {
				app.Logger.Errorf("app", "flush: %v", err)
			}
		}
	}
	app.Store.UpdateStats(func(s *state.Stats) { s.Frames++ })
	app.publish()
	if app.MaxFrames > 0 && app.frames >= app.MaxFrames {
		app.Logger.Infof("app", "frame limit %d reached", app.MaxFrames)
		app.Exit(nil)
	}
	return nil
}

func (app *App) publish() {
	if app.Sink == nil {
		return
	}
	every := app.PublishEvery
	if every <= 0 {
		every = max(app.FPS, 1)
	}
	if (app.frames-1)%int64(every) != 0 {
		return
	}
	img, err := app.Renderer.Snapshot()
	if err != nil {
		app.Logger.Errorf("app", "snapshot: %v", err)
		return
	}
	app.Sink.PublishFrame(img)
}

// recover closes the renderer and initializes it again on the same handle.
// It returns an error once MaxRecoveries attempts in a row have failed.
func (app *App) recover(cause error) error {
	app.Store.SetPhase(state.RECOVERING)
	app.Logger.Infof("app", "recreating device: %v", cause)
	if err := app.Renderer.Close(); err != nil {
		app.Logger.Errorf("app", "close before recreate: %v", err)
	}
	app.failures = 0
	if err := app.Renderer.Init(app.Handle, app.Width, app.Height); err != nil {
		app.recoveries++
		app.Logger.Errorf("app", "recreate failed (%d/%d): %v", app.recoveries, app.maxRecoveries(), err)
		app.Store.UpdateStats(func(s *state.Stats) { s.LastError = err.Error() })
		if app.recoveries >= app.maxRecoveries() {
			return fmt.Errorf("device not recoverable: %w", err)
		}
		return nil
	}
	app.recoveries = 0
	app.Store.UpdateStats(func(s *state.Stats) { s.Reinits++ })
	app.Store.SetPhase(state.RUNNING)
	app.Logger.Infof("app", "device recreated")
	return nil
}

func (app *App) fail(err error) {
	app.Store.SetPhase(state.ERROR)
	app.Store.UpdateStats(func(s *state.Stats) { s.LastError = err.Error() })
}

func (app *App) maxRenderFailures() int {
	if app.MaxRenderFailures <= 0 {
		return DefaultMaxRenderFailures
	}
	return app.MaxRenderFailures
}

func (app *App) maxRecoveries() int {
	if app.MaxRecoveries <= 0 {
		return DefaultMaxRecoveries
	}
	return app.MaxRecoveries
}
