package main

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/state"
)

type CLI struct {
	Backend      string `help:"Display backend: mem (headless), fb (Linux framebuffer) or term (terminal)." enum:"mem,fb,term" default:"term" env:"OVERLAY_BACKEND"`
	FBDevice     string `help:"Framebuffer device node." default:"/dev/fb0" env:"OVERLAY_FB" group:"fb"`
	GraphicsMode bool   `help:"Switch the console to KD_GRAPHICS while drawing." default:"true" negatable:"" group:"fb"`
	Keyboard     bool   `help:"Read Esc/Q/F4 (exit) and R/F5 (reset) from /dev/input." group:"fb"`

	Width  int   `help:"Logical surface width." default:"640"`
	Height int   `help:"Logical surface height." default:"480"`
	FPS    int   `help:"Frames per second." default:"30"`
	Frames int64 `help:"Stop after this many frames; 0 runs until interrupted."`

	Feed       string `help:"Frame source." enum:"pattern,still,marker" default:"pattern"`
	Image      string `help:"Picture for the still feed (png, jpeg, gif, bmp, tiff, webp)." type:"existingfile"`
	Marker     string `help:"Payload of the marker feed QR code." default:"overlay"`
	Background string `help:"Letterbox color for the still feed." default:"black"`

	Font       string   `help:"TrueType/OpenType font for labels; Go Regular when empty." type:"existingfile" group:"text"`
	FontSize   float64  `help:"Label size in points." default:"16" group:"text"`
	TextEngine string   `help:"Label rasterizer." enum:"opentype,freetype,basic" default:"opentype" group:"text"`
	Label      []string `help:"Label as x,y,text. Repeatable." sep:"none" group:"text"`
	HUD        bool     `help:"Draw a frame counter in the bottom-left corner." group:"text"`

	Scene             string `help:"Starting scene: ${enum}." enum:"${scenes}" default:"empty"`
	MaxRenderFailures int    `help:"Consecutive present failures before the device is recreated." default:"3"`
	Out               string `help:"Write the last displayed frame to this PNG on exit (mem backend)." type:"path"`

	Listen    string `help:"Preview server address; empty disables it." default:"${listen}"`
	Dev       bool   `help:"Allow cross-origin API calls." default:"${dev}"`
	StaticDir string `help:"Serve this directory at / instead of the built-in preview page." type:"existingdir"`

	Debug     bool   `help:"Log to ./overlay-debug.log."`
	LogFile   string `help:"Log to this file; '-' is stderr." type:"path"`
	LogFormat string `help:"Log line format." enum:"plain,text,json" default:"plain"`
	StdioLog  string `help:"Redirect stdout and stderr (including panics) to this file." env:"OVERLAY_STDIO_LOG" type:"path"`

	background palette.Color `kong:"-"`
	labels     []state.Label `kong:"-"`
}

func (c *CLI) Validate(kctx *kong.Context) error {
	switch {
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("invalid surface size %dx%d", c.Width, c.Height)
	case c.FPS <= 0:
		return fmt.Errorf("invalid fps %d", c.FPS)
	case c.FontSize <= 0:
		return fmt.Errorf("invalid font size %g", c.FontSize)
	case c.Feed == "still" && c.Image == "":
		return fmt.Errorf("the still feed needs --image")
	case c.Out != "" && c.Backend != "mem":
		return fmt.Errorf("--out only works with the mem backend")
	}

	var err error
	if c.background, err = palette.Parse(c.Background); err != nil {
		return err
	}
	c.labels = c.labels[:0]
	for _, raw := range c.Label {
		l, err := parseLabel(raw)
		if err != nil {
			return err
		}
		c.labels = append(c.labels, l)
	}
	return nil
}

// parseLabel reads "x,y,text". The text may itself contain commas.
func parseLabel(raw string) (state.Label, error) {
	parts := strings.SplitN(raw, ",", 3)
	if len(parts) != 3 || parts[2] == "" {
		return state.Label{}, fmt.Errorf("label %q: want x,y,text", raw)
	}
	x, errX := strconv.Atoi(strings.TrimSpace(parts[0]))
	y, errY := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errX != nil || errY != nil {
		return state.Label{}, fmt.Errorf("label %q: bad position", raw)
	}
	return state.Label{Text: parts[2], At: image.Pt(x, y), Color: palette.White}, nil
}
