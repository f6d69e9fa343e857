// Package gfx is the contract between the renderer and a graphics backend:
// a device bound to a display surface, square textures with a locked-region
// API, and a sprite that maps a presentable texture onto the surface.
//
// Backends live in sub-packages (memdev, fbdev, termdev).
package gfx

import (
	"errors"
	"image"
	"image/draw"
)

var (
	ErrDeviceLost       = errors.New("graphics device lost")
	ErrLocked           = errors.New("texture already locked")
	ErrNotLocked        = errors.New("texture not locked")
	ErrReleased         = errors.New("resource released")
	ErrUsage            = errors.New("operation not allowed for texture usage")
	ErrEmptyRect        = errors.New("lock rectangle outside texture")
	ErrInvalidDimension = errors.New("invalid texture dimension")
)

// Logger is the component-tagged logger used across the repo.
type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

type nopLogger struct{}

func (nopLogger) Infof(string, string, ...interface{})  {}
func (nopLogger) Errorf(string, string, ...interface{}) {}

// OrNop returns l, or a logger that drops everything when l is nil.
func OrNop(l Logger) Logger {
	if l == nil {
		return nopLogger{}
	}
	return l
}

// Handle identifies a display surface created and owned by the caller.
// Open binds a new device to it; releasing the device never destroys the
// surface itself.
type Handle interface {
	Open(logger Logger) (Device, error)
}

type Device interface {
	CreateTexture(dim int, usage Usage) (*Texture, error)
	// UpdateTexture transfers staging content into a presentable texture.
	UpdateTexture(src, dst *Texture) error
	NewSprite() (Sprite, error)
	// Surface is the currently displayed image. Anything drawn on it
	// directly is replaced by the next Sprite.Draw.
	Surface() draw.Image
	Release() error
}

type Sprite interface {
	// Draw maps src of the presentable texture onto the whole surface and
	// presents the result. On a surface that implements Flusher the result
	// shows on the next Flush.
	Draw(tex *Texture, src image.Rectangle) error
	Release() error
}

// Flusher is implemented by surfaces that buffer direct drawing until
// flushed (terminal cells, for example).
type Flusher interface {
	Flush() error
}
