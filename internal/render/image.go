package render

import (
	"fmt"
	"image"

	"github.com/rook-computer/overlay/internal/gfx"
	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/pixbuf"
)

// SetImg copies img into staging. Gray images are replicated into the
// color channels with opaque alpha; RGBA and NRGBA bytes are copied as
// stored; anything else is converted pixel by pixel.
func (r *Renderer) SetImg(img image.Image) error {
	if r.state != ready {
		return ErrNotReady
	}
	b := img.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("image %dx%d, surface %dx%d: %w", b.Dx(), b.Dy(), r.width, r.height, ErrSizeMismatch)
	}
	reg, err := r.staging.Lock(image.Rect(0, 0, r.width, r.height), gfx.LockDiscard)
	if err != nil {
		return fmt.Errorf("lock staging: %w", err)
	}
	defer r.staging.Unlock()

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < r.height; y++ {
			in := src.Pix[src.PixOffset(b.Min.X, b.Min.Y+y):]
			out := reg.Row(y)
			for x := 0; x < r.width; x++ {
				v := in[x]
				out[4*x+0] = v
				out[4*x+1] = v
				out[4*x+2] = v
				out[4*x+3] = 0xFF
			}
		}
	case *image.RGBA:
		copyRGBARows(reg, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
	case *image.NRGBA:
		copyRGBARows(reg, src.Pix[src.PixOffset(b.Min.X, b.Min.Y):], src.Stride)
	default:
		for y := 0; y < r.height; y++ {
			for x := 0; x < r.width; x++ {
				reg.SetUnchecked(x, y, palette.Pack(img.At(b.Min.X+x, b.Min.Y+y)))
			}
		}
	}
	return nil
}

// copyRGBARows swizzles R,G,B,A rows into the region's B,G,R,A layout.
func copyRGBARows(reg *pixbuf.Region, pix []byte, stride int) {
	for y := 0; y < reg.Height(); y++ {
		in := pix[y*stride:]
		out := reg.Row(y)
		for i := 0; i < len(out); i += 4 {
			out[i+0] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i+0]
			out[i+3] = in[i+3]
		}
	}
}

// GetImage copies the logical rectangle of staging into dst, which must be
// exactly the surface size. Row padding is not copied.
func (r *Renderer) GetImage(dst *image.RGBA) error {
	if r.state != ready {
		return ErrNotReady
	}
	b := dst.Bounds()
	if b.Dx() != r.width || b.Dy() != r.height {
		return fmt.Errorf("image %dx%d, surface %dx%d: %w", b.Dx(), b.Dy(), r.width, r.height, ErrSizeMismatch)
	}
	reg, err := r.staging.Lock(image.Rect(0, 0, r.width, r.height), gfx.LockReadOnly)
	if err != nil {
		return fmt.Errorf("lock staging: %w", err)
	}
	defer r.staging.Unlock()

	for y := 0; y < r.height; y++ {
		in := reg.Row(y)
		out := dst.Pix[dst.PixOffset(b.Min.X, b.Min.Y+y):]
		for i := 0; i < len(in); i += 4 {
			out[i+0] = in[i+2]
			out[i+1] = in[i+1]
			out[i+2] = in[i+0]
			out[i+3] = in[i+3]
		}
	}
	return nil
}

// Snapshot returns a new image holding the staging content.
func (r *Renderer) Snapshot() (*image.RGBA, error) {
	if r.state != ready {
		return nil, ErrNotReady
	}
	img := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	if err := r.GetImage(img); err != nil {
		return nil, err
	}
	return img, nil
}
