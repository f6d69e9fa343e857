package feed

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
)

func TestStillLetterbox(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	s, err := DecodeStill(&buf, 8, 8, color.Black)
	if err != nil {
		t.Fatal(err)
	}
	if s.Format != "png" {
		t.Errorf("format = %q, want png", s.Format)
	}
	frame, _ := s.Next()
	img := frame.(*image.RGBA)
	if img.Bounds() != image.Rect(0, 0, 8, 8) {
		t.Fatalf("bounds = %v", img.Bounds())
	}
	if got := img.RGBAAt(4, 0); got != (color.RGBA{A: 0xFF}) {
		t.Errorf("bar pixel = %v, want black", got)
	}
	if got := img.RGBAAt(4, 4); got != (color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}) {
		t.Errorf("picture pixel = %v, want white", got)
	}
}

func TestStillScales(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 2, 2))
	for i := range src.Pix {
		src.Pix[i] = 0xFF
	}
	var buf bytes.Buffer
	png.Encode(&buf, src)
	s, err := DecodeStill(&buf, 10, 10, color.Black)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := s.Next()
	if got := frame.(*image.RGBA).RGBAAt(5, 5); got.R < 0xF0 || got.A != 0xFF {
		t.Errorf("scaled pixel = %v, want near white", got)
	}
}

func TestOpenStillBMP(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 3, 3))
	for i := 3; i < len(src.Pix); i += 4 {
		src.Pix[i] = 0xFF
	}
	src.Set(1, 1, color.RGBA{R: 0xFF, A: 0xFF})
	path := filepath.Join(t.TempDir(), "frame.bmp")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := bmp.Encode(f, src); err != nil {
		t.Fatal(err)
	}
	f.Close()

	s, err := OpenStill(path, 3, 3, color.Black)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := s.Next()
	if got := frame.(*image.RGBA).RGBAAt(1, 1); got != (color.RGBA{R: 0xFF, A: 0xFF}) {
		t.Errorf("centre = %v, want red", got)
	}

	if _, err := OpenStill(filepath.Join(t.TempDir(), "none.png"), 3, 3, color.Black); err == nil {
		t.Error("missing file accepted")
	}
	if _, err := DecodeStill(bytes.NewReader([]byte("garbage")), 3, 3, color.Black); err == nil {
		t.Error("garbage decoded")
	}
}

func TestPatternMoves(t *testing.T) {
	p := NewPattern(6, 4)
	a, _ := p.Next()
	first := a.(*image.Gray).GrayAt(2, 1).Y
	b, _ := p.Next()
	second := b.(*image.Gray).GrayAt(2, 1).Y
	if first != 3 || second != 7 {
		t.Errorf("ramp values = %d, %d, want 3, 7", first, second)
	}
}

func TestMarker(t *testing.T) {
	m, err := NewMarker("overlay", 200, 120)
	if err != nil {
		t.Fatal(err)
	}
	frame, _ := m.Next()
	img := frame.(*image.Gray)
	if img.GrayAt(0, 0).Y != 0x80 {
		t.Errorf("border = %d, want gray", img.GrayAt(0, 0).Y)
	}
	var dark int
	for _, v := range img.Pix {
		if v == 0 {
			dark++
		}
	}
	if dark == 0 {
		t.Error("no QR modules drawn")
	}
	if _, err := NewMarker("", 10, 10); err == nil {
		t.Error("empty payload accepted")
	}
}
