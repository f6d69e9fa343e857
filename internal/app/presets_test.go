package app

import (
	"image"
	"testing"

	"github.com/rook-computer/overlay/internal/state"
)

func TestPresets(t *testing.T) {
	for _, name := range PresetNames() {
		sc, err := Preset(name, 64, 48)
		if err != nil {
			t.Fatalf("Preset(%q): %v", name, err)
		}
		r := image.Rect(0, 0, 64, 48)
		for i, s := range sc.Shapes {
			if !s.From.In(r) {
				t.Errorf("%s shape %d (%s) anchored off-surface at %v", name, i, s.Kind, s.From)
			}
		}
	}
	demo, _ := Preset("demo", 64, 48)
	seen := map[state.ShapeKind]bool{}
	for _, s := range demo.Shapes {
		seen[s.Kind] = true
	}
	for k := state.ShapePoint; k <= state.ShapeArrow; k++ {
		if !seen[k] {
			t.Errorf("demo scene has no %s", k)
		}
	}
	if _, err := Preset("nope", 64, 48); err == nil {
		t.Error("unknown preset accepted")
	}
}
