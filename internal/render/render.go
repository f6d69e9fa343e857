// Package render owns the staging/presentable texture pair. Primitives and
// image data are written to the CPU-side staging texture; Render copies it
// to the presentable texture and draws that onto the display surface.
//
// A Renderer is not safe for concurrent use.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/rook-computer/overlay/internal/gfx"
	"github.com/rook-computer/overlay/internal/text"
)

var (
	ErrInvalidSize        = errors.New("invalid surface size")
	ErrAlreadyInitialized = errors.New("renderer already initialized")
	ErrSizeMismatch       = errors.New("image size does not match surface")
	ErrNotReady           = errors.New("renderer not initialized")
)

type lifecycle int

const (
	uninitialized lifecycle = iota
	ready
	tornDown
)

// Renderer draws annotation frames through a gfx backend.
type Renderer struct {
	// Text configures the label face loaded by Init.
	Text text.Options
	// Logger is handed to the backend on Init.
	Logger gfx.Logger

	state   lifecycle
	width   int
	height  int
	dev     gfx.Device
	staging *gfx.Texture
	present *gfx.Texture
	sprite  gfx.Sprite
	font    *text.Overlay
}

// New returns an uninitialized renderer using the package text defaults.
func New() *Renderer {
	return &Renderer{Text: DefaultTextOptions()}
}

// Init binds the renderer to h with a logical surface of width x height.
// On failure everything created so far is released and the renderer stays
// uninitialized. A closed renderer may be initialized again.
func (r *Renderer) Init(h gfx.Handle, width, height int) (err error) {
	if r.state == ready {
		return ErrAlreadyInitialized
	}
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%dx%d: %w", width, height, ErrInvalidSize)
	}
	defer func() {
		if err != nil {
			r.teardown()
			r.state = uninitialized
		}
	}()

	if r.dev, err = h.Open(r.Logger); err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	dim := gfx.TextureDimFor(max(width, height))
	if r.staging, err = r.dev.CreateTexture(dim, gfx.UsageStaging); err != nil {
		return fmt.Errorf("create staging texture: %w", err)
	}
	if r.present, err = r.dev.CreateTexture(dim, gfx.UsagePresentable); err != nil {
		return fmt.Errorf("create presentable texture: %w", err)
	}
	if r.sprite, err = r.dev.NewSprite(); err != nil {
		return fmt.Errorf("create sprite: %w", err)
	}
	if r.font, err = text.New(r.Text); err != nil {
		return fmt.Errorf("load font: %w", err)
	}
	r.width, r.height = width, height
	r.state = ready
	return nil
}

// Ready reports whether Init succeeded and Close has not been called since.
func (r *Renderer) Ready() bool { return r.state == ready }

// Size returns the logical surface size fixed by Init.
func (r *Renderer) Size() (width, height int) { return r.width, r.height }

// TextureDim returns the side of both square textures, or 0 before Init.
func (r *Renderer) TextureDim() int {
	if r.staging == nil {
		return 0
	}
	return r.staging.Dim()
}

// Surface is the display surface of the current device.
func (r *Renderer) Surface() (image.Image, error) {
	if r.state != ready {
		return nil, ErrNotReady
	}
	return r.dev.Surface(), nil
}

// Render transfers staging to the presentable texture and presents the
// logical rectangle. Errors are returned as is; a lost device needs Close
// and Init.
func (r *Renderer) Render() error {
	if r.state != ready {
		return ErrNotReady
	}
	if err := r.dev.UpdateTexture(r.staging, r.present); err != nil {
		return fmt.Errorf("update texture: %w", err)
	}
	if err := r.sprite.Draw(r.present, image.Rect(0, 0, r.width, r.height)); err != nil {
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// Close releases the presentable texture, the staging texture, the sprite,
// the device and the font face, in that order. It is safe to call more
// than once.
func (r *Renderer) Close() error {
	if r.state != ready {
		return nil
	}
	err := r.teardown()
	r.state = tornDown
	return err
}

func (r *Renderer) teardown() error {
	var errs []error
	r.present.Release()
	r.present = nil
	r.staging.Release()
	r.staging = nil
	if r.sprite != nil {
		if err := r.sprite.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release sprite: %w", err))
		}
		r.sprite = nil
	}
	if r.dev != nil {
		if err := r.dev.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release device: %w", err))
		}
		r.dev = nil
	}
	if err := r.font.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close font: %w", err))
	}
	r.font = nil
	r.width, r.height = 0, 0
	return errors.Join(errs...)
}
