package feed

import "image"

// Pattern is a diagonal gray ramp that shifts by Step levels per frame.
type Pattern struct {
	Step  int
	img   *image.Gray
	frame int
}

func NewPattern(width, height int) *Pattern {
	return &Pattern{Step: 4, img: image.NewGray(image.Rect(0, 0, width, height))}
}

func (p *Pattern) Next() (image.Image, error) {
	b := p.img.Bounds()
	shift := p.frame * p.Step
	for y := 0; y < b.Dy(); y++ {
		row := p.img.Pix[y*p.img.Stride:]
		for x := 0; x < b.Dx(); x++ {
			row[x] = byte(x + y + shift)
		}
	}
	p.frame++
	return p.img, nil
}
