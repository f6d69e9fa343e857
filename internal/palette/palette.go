// Package palette maps the fixed set of annotation colors to the packed
// A8R8G8B8 form written into texture memory and to the color.RGBA form used
// by the text facility.
package palette

import (
	"fmt"
	"image/color"
	"strings"
)

type Color int

const (
	Black Color = iota
	White
	Gray
	LightGray
	DarkGray
	LightRed
	Red
	DarkRed
	LightGreen
	Green
	DarkGreen
	LightBlue
	Blue
	DarkBlue
	Yellow
	Cyan
	Orange
	Purple

	// None bounds the enumeration. It is not a drawable color.
	None
)

// Packed is one pixel in A8R8G8B8 layout. In memory it is stored
// little-endian, so the bytes read B, G, R, A.
type Packed uint32

var names = [None]string{
	Black:      "black",
	White:      "white",
	Gray:       "gray",
	LightGray:  "lightgray",
	DarkGray:   "darkgray",
	LightRed:   "lightred",
	Red:        "red",
	DarkRed:    "darkred",
	LightGreen: "lightgreen",
	Green:      "green",
	DarkGreen:  "darkgreen",
	LightBlue:  "lightblue",
	Blue:       "blue",
	DarkBlue:   "darkblue",
	Yellow:     "yellow",
	Cyan:       "cyan",
	Orange:     "orange",
	Purple:     "purple",
}

var host = [None]color.RGBA{
	Black:      {R: 0x00, G: 0x00, B: 0x00, A: 0xFF},
	White:      {R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF},
	Gray:       {R: 0x80, G: 0x80, B: 0x80, A: 0xFF},
	LightGray:  {R: 0xC0, G: 0xC0, B: 0xC0, A: 0xFF},
	DarkGray:   {R: 0x40, G: 0x40, B: 0x40, A: 0xFF},
	LightRed:   {R: 0xFF, G: 0x8C, B: 0x8C, A: 0xFF},
	Red:        {R: 0xFF, G: 0x00, B: 0x00, A: 0xFF},
	DarkRed:    {R: 0x80, G: 0x00, B: 0x00, A: 0xFF},
	LightGreen: {R: 0x8C, G: 0xFF, B: 0x8C, A: 0xFF},
	Green:      {R: 0x00, G: 0xFF, B: 0x00, A: 0xFF},
	DarkGreen:  {R: 0x00, G: 0x80, B: 0x00, A: 0xFF},
	LightBlue:  {R: 0x8C, G: 0x8C, B: 0xFF, A: 0xFF},
	Blue:       {R: 0x00, G: 0x00, B: 0xFF, A: 0xFF},
	DarkBlue:   {R: 0x00, G: 0x00, B: 0x80, A: 0xFF},
	Yellow:     {R: 0xFF, G: 0xFF, B: 0x00, A: 0xFF},
	Cyan:       {R: 0x00, G: 0xFF, B: 0xFF, A: 0xFF},
	Orange:     {R: 0xFF, G: 0xA5, B: 0x00, A: 0xFF},
	Purple:     {R: 0x80, G: 0x00, B: 0x80, A: 0xFF},
}

// packed is derived from host once so both tables always agree.
var packed = func() (out [None]Packed) {
	for i, c := range host {
		out[i] = Pack(c)
	}
	return out
}()

// PackedFor returns the texture-memory form of c.
// c must be below None.
func PackedFor(c Color) Packed { return packed[c] }

// Host returns the form handed to the text facility.
// c must be below None.
func Host(c Color) color.RGBA { return host[c] }

// Pack converts any color to A8R8G8B8. Channels keep the alpha-premultiplied
// values image.RGBA stores, so Pack and RGBA are exact inverses.
func Pack(c color.Color) Packed {
	n := color.RGBAModel.Convert(c).(color.RGBA)
	return Packed(uint32(n.A)<<24 | uint32(n.R)<<16 | uint32(n.G)<<8 | uint32(n.B))
}

// RGBA unpacks p.
func (p Packed) RGBA() color.RGBA {
	return color.RGBA{R: uint8(p >> 16), G: uint8(p >> 8), B: uint8(p), A: uint8(p >> 24)}
}

func (c Color) String() string {
	if c < 0 || c >= None {
		return fmt.Sprintf("Color(%d)", int(c))
	}
	return names[c]
}

// Parse looks a color up by name, ignoring case, dashes and underscores.
func Parse(name string) (Color, error) {
	key := strings.ToLower(strings.NewReplacer("-", "", "_", "", " ", "").Replace(name))
	for i, n := range names {
		if n == key {
			return Color(i), nil
		}
	}
	return None, fmt.Errorf("unknown color %q", name)
}

// Names lists every drawable color in enumeration order.
func Names() []string {
	out := make([]string, len(names))
	copy(out, names[:])
	return out
}
