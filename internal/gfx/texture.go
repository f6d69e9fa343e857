package gfx

import (
	"fmt"
	"image"

	"github.com/rook-computer/overlay/internal/pixbuf"
)

// Usage says which side of the pipeline a texture lives on.
type Usage int

const (
	// UsageStaging textures are CPU-writable and may be locked.
	UsageStaging Usage = iota
	// UsagePresentable textures are only filled by Device.UpdateTexture
	// and read by a Sprite.
	UsagePresentable
)

func (u Usage) String() string {
	if u == UsagePresentable {
		return "presentable"
	}
	return "staging"
}

type LockFlags int

const (
	LockReadOnly LockFlags = 1 << iota
	// LockDiscard promises the caller overwrites the whole locked rectangle.
	LockDiscard
)

const bytesPerPixel = 4

// DefaultPitchAlign is the row alignment used when a backend asks for 0.
const DefaultPitchAlign = 256

// Texture is a square dim x dim block of packed pixels with rows pitch bytes
// apart. At most one lock may be outstanding.
type Texture struct {
	dim      int
	pitch    int
	usage    Usage
	pix      []byte
	locked   bool
	released bool
}

// NewTexture allocates a cleared texture. Rows are rounded up to a multiple
// of pitchAlign bytes (DefaultPitchAlign when pitchAlign <= 0).
func NewTexture(dim int, usage Usage, pitchAlign int) (*Texture, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("texture dimension %d: %w", dim, ErrInvalidDimension)
	}
	if pitchAlign <= 0 {
		pitchAlign = DefaultPitchAlign
	}
	pitch := (dim*bytesPerPixel + pitchAlign - 1) / pitchAlign * pitchAlign
	return &Texture{
		dim:   dim,
		pitch: pitch,
		usage: usage,
		pix:   make([]byte, pitch*dim),
	}, nil
}

func (t *Texture) Dim() int       { return t.dim }
func (t *Texture) Pitch() int     { return t.pitch }
func (t *Texture) Usage() Usage   { return t.usage }
func (t *Texture) Locked() bool   { return t.locked }
func (t *Texture) Released() bool { return t.released }

// Bounds is the full texture rectangle.
func (t *Texture) Bounds() image.Rectangle { return image.Rect(0, 0, t.dim, t.dim) }

// Lock maps rect of a staging texture. An empty rect locks the whole
// texture; otherwise rect is clipped to the texture and must not end up
// empty. The returned region is valid until Unlock. flags are hints; this
// implementation maps the memory directly either way.
func (t *Texture) Lock(rect image.Rectangle, flags LockFlags) (*pixbuf.Region, error) {
	switch {
	case t.released:
		return nil, ErrReleased
	case t.usage != UsageStaging:
		return nil, fmt.Errorf("lock %s texture: %w", t.usage, ErrUsage)
	case t.locked:
		return nil, ErrLocked
	}
	if rect.Empty() {
		rect = t.Bounds()
	} else {
		rect = rect.Intersect(t.Bounds())
		if rect.Empty() {
			return nil, fmt.Errorf("lock %v: %w", rect, ErrEmptyRect)
		}
	}
	t.locked = true
	off := rect.Min.Y*t.pitch + rect.Min.X*bytesPerPixel
	return pixbuf.New(t.pix[off:], t.pitch, rect.Dx(), rect.Dy(), rect.Min), nil
}

func (t *Texture) Unlock() error {
	if !t.locked {
		return ErrNotLocked
	}
	t.locked = false
	return nil
}

// Release frees the pixel memory. Calling it twice is harmless.
func (t *Texture) Release() {
	if t == nil {
		return
	}
	t.released = true
	t.locked = false
	t.pix = nil
}

// row returns the dim*4 bytes of row y, for backends.
func (t *Texture) row(y int) []byte {
	off := y * t.pitch
	return t.pix[off : off+t.dim*bytesPerPixel]
}

// CopyTexture transfers a staging texture into a presentable one of the
// same dimension. Backends without a dedicated upload path use it for
// Device.UpdateTexture.
func CopyTexture(src, dst *Texture) error {
	switch {
	case src == nil || dst == nil:
		return fmt.Errorf("copy texture: %w", ErrReleased)
	case src.released || dst.released:
		return ErrReleased
	case src.usage != UsageStaging || dst.usage != UsagePresentable:
		return fmt.Errorf("copy %s -> %s: %w", src.usage, dst.usage, ErrUsage)
	case src.locked || dst.locked:
		return ErrLocked
	case src.dim != dst.dim:
		return fmt.Errorf("copy %d -> %d: %w", src.dim, dst.dim, ErrInvalidDimension)
	}
	for y := 0; y < src.dim; y++ {
		copy(dst.row(y), src.row(y))
	}
	return nil
}

// TextureDimFor returns the smallest power of two >= n. Non-positive n is
// not a valid size and yields 1.
func TextureDimFor(n int) int {
	dim := 1
	for dim < n {
		dim <<= 1
	}
	return dim
}
