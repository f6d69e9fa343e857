//go:build !linux

package fbdev

import (
	"errors"

	"github.com/rook-computer/overlay/internal/gfx"
)

const DefaultPath = "/dev/fb0"

type Handle struct {
	Path         string
	GraphicsMode bool
	PitchAlign   int
}

func (h Handle) Open(logger gfx.Logger) (gfx.Device, error) {
	return nil, errors.New("fbdev: framebuffer devices are only available on linux")
}
