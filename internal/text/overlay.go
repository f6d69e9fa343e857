// Package text draws annotation labels with an x/image font face.
package text

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
)

// Engines accepted by Options.Engine.
const (
	EngineOpenType = "opentype"
	EngineFreeType = "freetype"
	EngineBasic    = "basic"
)

var ErrClosed = errors.New("text overlay closed")

type Options struct {
	// TTF is the font file; nil selects Go Regular.
	TTF    []byte
	Size   float64
	DPI    float64
	Engine string
}

// Overlay owns one font face.
type Overlay struct {
	face   font.Face
	engine string
}

// New builds the face. A font that fails to parse falls back to the
// built-in 7x13 bitmap face and the parse error is returned alongside.
func New(opts Options) (*Overlay, error) {
	if opts.Size <= 0 {
		opts.Size = 16
	}
	if opts.DPI <= 0 {
		opts.DPI = 72
	}
	data := opts.TTF
	if data == nil {
		data = goregular.TTF
	}

	switch opts.Engine {
	case EngineBasic:
		return &Overlay{face: basicfont.Face7x13, engine: EngineBasic}, nil
	case EngineFreeType:
		tt, err := truetype.Parse(data)
		if err != nil {
			return fallback(fmt.Errorf("truetype parse: %w", err))
		}
		face := truetype.NewFace(tt, &truetype.Options{Size: opts.Size, DPI: opts.DPI, Hinting: font.HintingFull})
		return &Overlay{face: face, engine: EngineFreeType}, nil
	case "", EngineOpenType:
		fnt, err := opentype.Parse(data)
		if err != nil {
			return fallback(fmt.Errorf("opentype parse: %w", err))
		}
		face, err := opentype.NewFace(fnt, &opentype.FaceOptions{Size: opts.Size, DPI: opts.DPI, Hinting: font.HintingFull})
		if err != nil {
			return fallback(fmt.Errorf("opentype face: %w", err))
		}
		return &Overlay{face: face, engine: EngineOpenType}, nil
	}
	return nil, fmt.Errorf("unknown text engine %q", opts.Engine)
}

func fallback(err error) (*Overlay, error) {
	return &Overlay{face: basicfont.Face7x13, engine: EngineBasic}, err
}

// Engine reports which face implementation is in use.
func (o *Overlay) Engine() string { return o.engine }

// Ascent is the distance from the top of a line to its baseline.
func (o *Overlay) Ascent() int {
	if o.face == nil {
		return 0
	}
	return o.face.Metrics().Ascent.Ceil()
}

// Draw renders s with its top-left corner at pt.
func (o *Overlay) Draw(dst draw.Image, pt image.Point, s string, c color.RGBA) error {
	if o.face == nil {
		return ErrClosed
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: o.face,
		Dot:  fixed.P(pt.X, pt.Y+o.Ascent()),
	}
	d.DrawString(s)
	return nil
}

// Measure returns the advance width and line height of s.
func (o *Overlay) Measure(s string) image.Point {
	if o.face == nil {
		return image.Point{}
	}
	m := o.face.Metrics()
	w := font.MeasureString(o.face, s).Ceil()
	return image.Pt(w, (m.Ascent + m.Descent).Ceil())
}

// Close releases the face. Calling it twice is harmless.
func (o *Overlay) Close() error {
	if o == nil || o.face == nil {
		return nil
	}
	err := o.face.Close()
	o.face = nil
	return err
}
