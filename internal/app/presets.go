package app

import (
	"fmt"
	"image"
	"sort"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/raster"
	"github.com/rook-computer/overlay/internal/state"
)

var presets = map[string]func(w, h int) state.Scene{
	"empty":     func(int, int) state.Scene { return state.Scene{} },
	"demo":      demoScene,
	"crosshair": crosshairScene,
}

// Preset returns a named starting scene sized for a w x h surface.
func Preset(name string, w, h int) (state.Scene, error) {
	fn, ok := presets[name]
	if !ok {
		return state.Scene{}, fmt.Errorf("unknown scene preset %q", name)
	}
	return fn(w, h), nil
}

func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// demoScene places one annotation of every kind around the centre.
func demoScene(w, h int) state.Scene {
	cx, cy := w/2, h/2
	u := max(min(w, h)/10, 4)
	return state.Scene{
		Shapes: []state.Shape{
			{Kind: state.ShapeRect, From: image.Pt(u, u), W: 3 * u, H: 2 * u, Color: palette.Green, Thickness: 2},
			{Kind: state.ShapeRect, From: image.Pt(w-3*u, u), W: 2 * u, H: u, Color: palette.DarkBlue, Fill: true},
			{Kind: state.ShapeCircle, From: image.Pt(cx, cy), Size: 2 * u, Color: palette.Yellow, Thickness: 3},
			{Kind: state.ShapeCircle, From: image.Pt(cx, cy), Size: u / 3, Color: palette.Red, Fill: true},
			{Kind: state.ShapeCross, From: image.Pt(cx, cy), Size: 5 * u, Color: palette.White, Thickness: 1},
			{Kind: state.ShapeLine, From: image.Pt(0, h-u), To: image.Pt(w-1, h-2*u), Color: palette.Cyan, Thickness: 2, Style: raster.Dash},
			{Kind: state.ShapeArrow, From: image.Pt(u, h-3*u), To: image.Pt(cx-2*u, cy), Size: u, W: u / 2, Color: palette.Orange, Thickness: 2},
			{Kind: state.ShapePoint, From: image.Pt(w-1, h-1), Color: palette.Purple},
		},
		Labels: []state.Label{
			{Text: "target", At: image.Pt(cx+2*u, cy-2*u), Color: palette.LightRed},
		},
	}
}

func crosshairScene(w, h int) state.Scene {
	cx, cy := w/2, h/2
	return state.Scene{
		Shapes: []state.Shape{
			{Kind: state.ShapeLine, From: image.Pt(0, cy), To: image.Pt(w-1, cy), Color: palette.LightGreen, Thickness: 1, Style: raster.Dot},
			{Kind: state.ShapeLine, From: image.Pt(cx, 0), To: image.Pt(cx, h-1), Color: palette.LightGreen, Thickness: 1, Style: raster.Dot},
			{Kind: state.ShapeCircle, From: image.Pt(cx, cy), Size: min(w, h) / 8, Color: palette.LightGreen, Thickness: 1},
		},
	}
}
