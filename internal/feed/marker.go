package feed

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/rook-computer/overlay/internal/render/layout"
	"github.com/skip2/go-qrcode"
)

const markerMargin = 16

// Marker shows a QR code of a payload centred on a gray frame, for lining
// up a camera with the display.
type Marker struct {
	img *image.Gray
}

func NewMarker(payload string, width, height int) (*Marker, error) {
	if payload == "" {
		return nil, fmt.Errorf("marker: empty payload")
	}
	code, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("marker: %w", err)
	}
	frame := image.Rect(0, 0, width, height)
	img := image.NewGray(frame)
	draw.Draw(img, frame, image.NewUniform(color.Gray{Y: 0x80}), image.Point{}, draw.Src)

	square := layout.FitSquare(layout.Inset(frame, markerMargin))
	if square.Empty() {
		return nil, fmt.Errorf("marker: %dx%d frame too small", width, height)
	}
	qr := code.Image(square.Dx())
	dst := layout.Center(frame, qr.Bounds().Dx(), qr.Bounds().Dy())
	draw.Draw(img, dst, qr, qr.Bounds().Min, draw.Src)
	return &Marker{img: img}, nil
}

func (m *Marker) Next() (image.Image, error) { return m.img, nil }
