// Command simulator runs the overlay loop against the headless memory
// backend with the preview server and fault-injection endpoints enabled.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rook-computer/overlay/internal/app"
	"github.com/rook-computer/overlay/internal/buttons"
	"github.com/rook-computer/overlay/internal/feed"
	"github.com/rook-computer/overlay/internal/gfx/memdev"
	"github.com/rook-computer/overlay/internal/render"
	"github.com/rook-computer/overlay/internal/state"
	"github.com/rook-computer/overlay/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv(":8080")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	listenAddr := flag.String("listen", defaults.ListenAddr, "http listen address; also configurable via "+web.EnvListenAddr)
	devMode := flag.Bool("dev", defaults.DevMode, "enable dev mode; also configurable via "+web.EnvDevMode)
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, the built-in preview page is served")
	scenario := flag.String("scenario", "demo", "starting scene: "+strings.Join(app.PresetNames(), " | "))
	width := flag.Int("width", render.CanvasWidth, "surface width")
	height := flag.Int("height", render.CanvasHeight, "surface height")
	fps := flag.Int("fps", 10, "frames per second")
	verbose := flag.Bool("v", false, "log to stderr")
	flag.Parse()

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logger app.Logger = app.NoopLogger{}
	if *verbose {
		logger = app.NewFileLogger(os.Stderr)
	}

	surface := memdev.NewSurface(*width, *height)
	store := state.NewStore()
	control := NewSimControl(surface, store, *scenario)
	if err := control.ApplyScenario(*scenario); err != nil {
		fmt.Println("scenario init error:", err)
		os.Exit(2)
	}

	renderer := render.New()
	renderer.Logger = logger
	preview := web.NewPreview()

	a := app.New(store, renderer, surface, feed.NewPattern(*width, *height), buttons.NewNoopButtons())
	a.Logger = logger
	a.Width, a.Height = *width, *height
	a.FPS = *fps
	a.HUD = true
	a.Sink = preview

	deps := web.APIV1Deps{Store: store, Preview: preview, MaxExtent: 4 * max(*width, *height)}
	server := web.NewHTTPServer(*listenAddr, deps)
	server.StaticDir = *staticDir
	server.DevMode = *devMode
	server.Logger = logger
	mux := web.NewDefaultMux(server.StaticDir, web.APIV1Config{Deps: deps, DevMode: *devMode})
	registerSimEndpoints(mux, control)
	server.Handler = mux

	if err := server.Start(processCtx); err != nil {
		fmt.Println("server start error:", err)
		os.Exit(1)
	}
	defer server.Stop()

	fmt.Println("Overlay simulator listening on", server.ListenAddr())
	fmt.Println("Scenario:", control.Scenario())
	fmt.Println("API: http://" + displayAddr(server.ListenAddr()) + "/api/v1/")

	if err := a.Start(processCtx); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Println("simulator stopped:", err)
		os.Exit(1)
	}
}

func displayAddr(addr string) string {
	// Best-effort for display; don't attempt full URL parsing here.
	if strings.HasPrefix(addr, "[::]:") {
		return "127.0.0.1" + strings.TrimPrefix(addr, "[::]")
	}
	if strings.HasPrefix(addr, ":") {
		return "127.0.0.1" + addr
	}
	return addr
}
