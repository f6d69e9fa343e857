package layout

import (
	"image"
	"testing"
)

func TestPlacement(t *testing.T) {
	canvas := image.Rect(0, 0, 100, 50)
	tests := []struct {
		name string
		got  image.Rectangle
		want image.Rectangle
	}{
		{"inset", Inset(canvas, 5), image.Rect(5, 5, 95, 45)},
		{"inset collapses", Inset(canvas, 40), image.Rect(40, 10, 60, 40)},
		{"top-left", AnchorTopLeft(canvas, 10, 200), image.Rect(0, 0, 10, 50)},
		{"bottom-left", AnchorBottomLeft(canvas, 10, 20), image.Rect(0, 30, 10, 50)},
		{"center", Center(canvas, 20, 10), image.Rect(40, 20, 60, 30)},
		{"square", FitSquare(canvas), image.Rect(25, 0, 75, 50)},
		{"fit wide", Fit(canvas, image.Pt(4, 1)), image.Rect(0, 12, 100, 37)},
		{"fit tall", Fit(canvas, image.Pt(1, 1)), image.Rect(25, 0, 75, 50)},
		{"fit empty", Fit(canvas, image.Pt(0, 3)), image.Rect(0, 0, 0, 0)},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestNormalize(t *testing.T) {
	r := image.Rectangle{Min: image.Pt(10, 8), Max: image.Pt(2, 3)}
	if got, want := Normalize(r), image.Rect(2, 3, 10, 8); got != want {
		t.Errorf("got %v, want %v", got, want)
	}
}
