package main

import (
	"image"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/rook-computer/overlay/internal/app"
	"github.com/rook-computer/overlay/internal/palette"
)

func parseCLI(t *testing.T, args ...string) (*CLI, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("overlay"),
		kong.Exit(func(int) { t.Fatal("parser exited") }),
		kong.Vars{"listen": "", "dev": "false", "scenes": "crosshair,demo,empty"},
	)
	if err != nil {
		t.Fatal(err)
	}
	_, err = parser.Parse(args)
	return &cli, err
}

func TestCLIDefaults(t *testing.T) {
	cli, err := parseCLI(t)
	if err != nil {
		t.Fatal(err)
	}
	if cli.Backend != "term" || cli.Width != 640 || cli.Height != 480 || cli.FPS != 30 {
		t.Errorf("defaults = %s %dx%d@%d", cli.Backend, cli.Width, cli.Height, cli.FPS)
	}
	if !cli.GraphicsMode {
		t.Error("graphics mode should default on")
	}
	if cli.background != palette.Black {
		t.Errorf("background = %v, want black", cli.background)
	}
	if _, err := app.Preset(cli.Scene, cli.Width, cli.Height); err != nil {
		t.Errorf("default scene: %v", err)
	}
}

func TestCLILabels(t *testing.T) {
	cli, err := parseCLI(t, "--backend=mem", "--label=10,20,hello, world", "--label", "0,0,x", "--background=dark-blue")
	if err != nil {
		t.Fatal(err)
	}
	if len(cli.labels) != 2 {
		t.Fatalf("labels = %d, want 2", len(cli.labels))
	}
	if got := cli.labels[0]; got.Text != "hello, world" || got.At != image.Pt(10, 20) {
		t.Errorf("label 0 = %+v", got)
	}
}

func TestCLIValidate(t *testing.T) {
	bad := [][]string{
		{"--width=0"},
		{"--fps=-1"},
		{"--feed=still"},
		{"--out=x.png"},
		{"--background=mauve"},
		{"--label=1,2"},
		{"--label=a,2,x"},
		{"--scene=nope"},
	}
	for _, args := range bad {
		if _, err := parseCLI(t, args...); err == nil {
			t.Errorf("%v accepted", args)
		}
	}
}
