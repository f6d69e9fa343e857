package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/gdamore/tcell/v2"
	"github.com/rook-computer/overlay/internal/app"
	"github.com/rook-computer/overlay/internal/buttons"
	"github.com/rook-computer/overlay/internal/feed"
	"github.com/rook-computer/overlay/internal/gfx"
	"github.com/rook-computer/overlay/internal/gfx/fbdev"
	"github.com/rook-computer/overlay/internal/gfx/memdev"
	"github.com/rook-computer/overlay/internal/gfx/termdev"
	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/render"
	"github.com/rook-computer/overlay/internal/state"
	"github.com/rook-computer/overlay/internal/system"
	"github.com/rook-computer/overlay/internal/text"
	"github.com/rook-computer/overlay/internal/web"
)

func main() {
	defaults, err := web.DefaultServerConfigFromEnv("")
	if err != nil {
		fmt.Println("server config error:", err)
		os.Exit(2)
	}

	var cli CLI
	kong.Parse(&cli,
		kong.Name("overlay"),
		kong.Description("Draws annotations over a frame feed and presents them on a framebuffer, a terminal or in memory."),
		kong.Vars{
			"listen": defaults.ListenAddr,
			"dev":    strconv.FormatBool(defaults.DevMode),
			"scenes": strings.Join(app.PresetNames(), ","),
		},
	)

	// Best-effort: keep panics diagnosable even when the console is left in
	// graphics mode.
	if cli.StdioLog != "" {
		if err := system.RedirectStdIO(cli.StdioLog); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	logger, closeLog := openLogger(&cli)
	defer closeLog()

	if err := run(&cli, logger); err != nil {
		logger.Errorf("main", "%v", err)
		fmt.Fprintln(os.Stderr, "overlay:", err)
		closeLog()
		os.Exit(1)
	}
}

func openLogger(cli *CLI) (app.Logger, func()) {
	path := cli.LogFile
	if path == "" && cli.Debug {
		path = "./overlay-debug.log"
	}
	if path == "" {
		return app.NoopLogger{}, func() {}
	}

	var w io.Writer = os.Stderr
	closeFn := func() {}
	if path != "-" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			fmt.Println("log open error:", err)
			return app.NoopLogger{}, func() {}
		}
		w = f
		closeFn = func() { _ = f.Close() }
	}
	level := slog.LevelInfo
	if cli.Debug {
		level = slog.LevelDebug
	}
	switch cli.LogFormat {
	case "text", "json":
		return app.NewSlogLogger(w, cli.LogFormat, level), closeFn
	}
	return app.NewFileLogger(w), closeFn
}

func run(cli *CLI, logger app.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := openFeed(cli)
	if err != nil {
		return err
	}

	store := state.NewStore()
	scene, err := app.Preset(cli.Scene, cli.Width, cli.Height)
	if err != nil {
		return err
	}
	store.SetScene(scene)
	for _, l := range cli.labels {
		store.AddLabel(l)
	}

	renderer := render.New()
	renderer.Logger = logger
	renderer.Text = text.Options{Size: cli.FontSize, DPI: render.FontDPI, Engine: cli.TextEngine}
	if cli.Font != "" {
		if renderer.Text.TTF, err = os.ReadFile(cli.Font); err != nil {
			return err
		}
	}

	var (
		handle gfx.Handle
		btns   buttons.Buttons = buttons.NewNoopButtons()
		mem    *memdev.Surface
	)
	switch cli.Backend {
	case "mem":
		mem = memdev.NewSurface(cli.Width, cli.Height)
		handle = mem
	case "fb":
		handle = fbdev.Handle{Path: cli.FBDevice, GraphicsMode: cli.GraphicsMode}
		if cli.Keyboard {
			btns = buttons.NewKeyButtons(logger)
		}
	case "term":
		screen, err := tcell.NewScreen()
		if err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		if err := screen.Init(); err != nil {
			return fmt.Errorf("terminal: %w", err)
		}
		defer screen.Fini()
		handle = termdev.Handle{Screen: screen}
		btns = buttons.NewTermButtons(screen)
	default:
		return fmt.Errorf("unknown backend %q", cli.Backend)
	}

	a := app.New(store, renderer, handle, source, btns)
	a.Logger = logger
	a.Width, a.Height = cli.Width, cli.Height
	a.FPS = cli.FPS
	a.MaxFrames = cli.Frames
	a.MaxRenderFailures = cli.MaxRenderFailures
	a.HUD = cli.HUD

	var server web.Server = &web.NoopServer{}
	if cli.Listen != "" {
		preview := web.NewPreview()
		a.Sink = preview
		httpServer := web.NewHTTPServer(cli.Listen, web.APIV1Deps{Store: store, Preview: preview, MaxExtent: 4 * max(cli.Width, cli.Height)})
		httpServer.StaticDir = cli.StaticDir
		httpServer.DevMode = cli.Dev
		httpServer.Logger = logger
		server = httpServer
	}
	if err := server.Start(ctx); err != nil {
		return err
	}
	defer server.Stop()

	logger.Infof("main", "starting: backend=%s surface=%dx%d feed=%s", cli.Backend, cli.Width, cli.Height, cli.Feed)
	err = a.Start(ctx)
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		return err
	}
	if mem != nil && cli.Out != "" {
		return writePNG(cli.Out, mem.Image)
	}
	return nil
}

func openFeed(cli *CLI) (feed.Source, error) {
	switch cli.Feed {
	case "still":
		return feed.OpenStill(cli.Image, cli.Width, cli.Height, palette.Host(cli.background))
	case "marker":
		return feed.NewMarker(cli.Marker, cli.Width, cli.Height)
	}
	return feed.NewPattern(cli.Width, cli.Height), nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
