package feed

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/rook-computer/overlay/internal/render/layout"
	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Still repeats one decoded picture.
type Still struct {
	img    *image.RGBA
	Format string
}

// OpenStill decodes the file at path. See DecodeStill.
func OpenStill(path string, width, height int, background color.Color) (*Still, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	s, err := DecodeStill(f, width, height, background)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// DecodeStill decodes r and letterboxes it onto a width x height frame
// filled with background, keeping the aspect ratio.
func DecodeStill(r io.Reader, width, height int, background color.Color) (*Still, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	frame := image.Rect(0, 0, width, height)
	dst := image.NewRGBA(frame)
	draw.Draw(dst, frame, image.NewUniform(background), image.Point{}, draw.Src)
	sb := src.Bounds()
	target := layout.Fit(frame, sb.Size())
	if target.Size() == sb.Size() {
		draw.Draw(dst, target, src, sb.Min, draw.Over)
	} else {
		draw.CatmullRom.Scale(dst, target, src, sb, draw.Over, nil)
	}
	return &Still{img: dst, Format: format}, nil
}

func (s *Still) Next() (image.Image, error) { return s.img, nil }
