// Package raster draws the annotation primitives into a locked pixbuf.Region.
//
// Coordinates are image-space; each call subtracts the region origin, so the
// caller may lock any sub-rectangle that covers the primitive. Pixels outside
// the locked rectangle are dropped.
package raster

import (
	"image"
	"math"
	"math/big"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/pixbuf"
)

// LineStyle follows the pen styles of the host windowing system.
type LineStyle int

const (
	Solid LineStyle = iota
	Dash
	Dot
	DashDot
	DashDotDot
)

// On/off run lengths in pixels, starting with "on".
var stylePatterns = [...][]int{
	Solid:      nil,
	Dash:       {18, 6},
	Dot:        {3, 3},
	DashDot:    {9, 6, 3, 6},
	DashDotDot: {9, 3, 3, 3, 3, 3},
}

func (s LineStyle) String() string {
	switch s {
	case Solid:
		return "solid"
	case Dash:
		return "dash"
	case Dot:
		return "dot"
	case DashDot:
		return "dashdot"
	case DashDotDot:
		return "dashdotdot"
	}
	return "unknown"
}

// ParseLineStyle is the inverse of LineStyle.String.
func ParseLineStyle(name string) (LineStyle, bool) {
	for s := Solid; s <= DashDotDot; s++ {
		if s.String() == name {
			return s, true
		}
	}
	return Solid, false
}

// mask expands the run lengths into one entry per step. nil means solid.
func (s LineStyle) mask() []bool {
	if s < 0 || int(s) >= len(stylePatterns) {
		return nil
	}
	runs := stylePatterns[s]
	if runs == nil {
		return nil
	}
	var out []bool
	for i, n := range runs {
		for j := 0; j < n; j++ {
			out = append(out, i%2 == 0)
		}
	}
	return out
}

// widening returns the minor-axis offsets covered by a stroke of thickness t.
func widening(t int) (lo, hi int) {
	if t < 1 {
		t = 1
	}
	return -(t - 1) / 2, t / 2
}

// exactLimit bounds the image coordinates Line steps exactly. Beyond it the
// segment is first cut down to the neighbourhood of the region.
const exactLimit = 1 << 60

// Line draws p1-p2 (both ends included) in image coordinates.
//
// The centre line is clipped to the region before stepping, so a thin line
// writes with SetUnchecked. A stroke thicker than one pixel covers
// thickness pixels across the minor axis, offsets -(t-1)/2 .. t/2, and those
// pixels go through the checked Set.
func Line(r *pixbuf.Region, p1, p2 image.Point, c palette.Packed, thickness int, style LineStyle) {
	if r.Width() == 0 || r.Height() == 0 {
		return
	}
	phase := 0
	if outside(p1, exactLimit) || outside(p2, exactLimit) {
		var ok bool
		var skipped float64
		p1, p2, skipped, ok = preclip(p1, p2, padded(r.Bounds(), p1, p2, thickness))
		if !ok {
			return
		}
		if n := len(style.mask()); n > 0 {
			phase = int(math.Mod(skipped, float64(n)))
		}
	}
	line(r, p1, p2, c, thickness, style, phase)
}

func line(r *pixbuf.Region, p1, p2 image.Point, c palette.Packed, thickness int, style LineStyle, phase int) {
	o := r.Origin()
	x0, y0 := p1.X-o.X, p1.Y-o.Y
	x1, y1 := p2.X-o.X, p2.Y-o.Y

	// a is the major axis, m the minor one.
	a0, m0, a1, m1 := x0, y0, x1, y1
	aMax, mMax := r.MaxX(), r.MaxY()
	xMajor := abs(x1-x0) >= abs(y1-y0)
	if !xMajor {
		a0, m0, a1, m1 = y0, x0, y1, x1
		aMax, mMax = mMax, aMax
	}
	dMaj, dMin := abs(a1-a0), abs(m1-m0)
	sa, sm := sign(a1-a0), sign(m1-m0)

	lo, hi := widening(thickness)

	// Steps k in [0, dMaj] whose major coordinate is inside the region.
	kLo, kHi := 0, dMaj
	if sa >= 0 {
		kLo, kHi = max(kLo, -a0), min(kHi, aMax-a0)
	} else {
		kLo, kHi = max(kLo, a0-aMax), min(kHi, a0)
	}
	if kLo > kHi {
		return
	}

	// Minor coordinate at step k is m0 + sm*q(k) with
	// q(k) = (2*k*dMin + dMaj) / (2*dMaj), Bresenham's rounding.
	// Limit q so that some widened pixel can land inside the region.
	mLo, mHi := -hi, mMax-lo
	var qLo, qHi int
	if sm >= 0 {
		qLo, qHi = mLo-m0, mHi-m0
	} else {
		qLo, qHi = m0-mHi, m0-mLo
	}
	if dMin == 0 {
		if qLo > 0 || qHi < 0 {
			return
		}
	} else {
		twoMaj, twoMin := 2*dMaj, 2*dMin
		// q(k) >= qLo  <=>  k >= ceil((twoMaj*qLo - dMaj) / twoMin)
		kLo = max(kLo, mulAddCeilDiv(twoMaj, qLo, -dMaj, twoMin))
		// q(k) <= qHi  <=>  k < ceil((twoMaj*(qHi+1) - dMaj) / twoMin)
		kHi = min(kHi, mulAddCeilDiv(twoMaj, qHi+1, -dMaj, twoMin)-1)
		if kLo > kHi {
			return
		}
	}

	var q, rem, twoMaj, step int
	if dMin != 0 {
		twoMaj = 2 * dMaj
		q, rem = mulAddDivMod(2*kLo, dMin, dMaj, twoMaj)
		step = 2 * dMin
	}

	mask := style.mask()
	thin := lo == 0 && hi == 0
	for k := kLo; k <= kHi; k++ {
		if mask == nil || mask[(k+phase)%len(mask)] {
			a, m := a0+sa*k, m0+sm*q
			switch {
			case thin && xMajor:
				r.SetUnchecked(a, m, c)
			case thin:
				r.SetUnchecked(m, a, c)
			case xMajor:
				for off := max(lo, -m); off <= min(hi, mMax-m); off++ {
					r.Set(a, m+off, c)
				}
			default:
				for off := max(lo, -m); off <= min(hi, mMax-m); off++ {
					r.Set(m+off, a, c)
				}
			}
		}
		if step != 0 {
			rem += step
			if rem >= twoMaj {
				rem -= twoMaj
				q++
			}
		}
	}
}

func outside(p image.Point, limit int) bool {
	return p.X < -limit || p.X > limit || p.Y < -limit || p.Y > limit
}

// padded grows the region's image-space bounds by the stroke, one region
// size, and the float64 error of cutting a segment as long as p1-p2, so the
// cut leaves every visible pixel in place.
func padded(b image.Rectangle, p1, p2 image.Point, thickness int) image.Rectangle {
	_, hi := widening(min(thickness, exactLimit))
	span := math.Max(math.Abs(float64(p2.X)-float64(p1.X)), math.Abs(float64(p2.Y)-float64(p1.Y)))
	pad := hi + b.Dx() + b.Dy() + 2 + int(span/(1<<40))
	return b.Inset(-pad)
}

// preclip cuts p1-p2 to box (Liang-Barsky in float64). skipped is the
// number of major-axis steps removed from the start, for the dash phase.
func preclip(p1, p2 image.Point, box image.Rectangle) (q1, q2 image.Point, skipped float64, ok bool) {
	x0, y0 := float64(p1.X), float64(p1.Y)
	dx, dy := float64(p2.X)-x0, float64(p2.Y)-y0
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, x0 - float64(box.Min.X)},
		{dx, float64(box.Max.X-1) - x0},
		{-dy, y0 - float64(box.Min.Y)},
		{dy, float64(box.Max.Y-1) - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return q1, q2, 0, false
			}
			continue
		}
		t := q / p
		if p < 0 {
			t0 = math.Max(t0, t)
		} else {
			t1 = math.Min(t1, t)
		}
	}
	if t0 > t1 {
		return q1, q2, 0, false
	}
	q1 = image.Pt(int(math.Round(x0+t0*dx)), int(math.Round(y0+t0*dy)))
	q2 = image.Pt(int(math.Round(x0+t1*dx)), int(math.Round(y0+t1*dy)))
	skipped = math.Round(t0 * math.Max(math.Abs(dx), math.Abs(dy)))
	return q1, q2, skipped, true
}

// LineBounds is the image-space rectangle a Line call can touch.
func LineBounds(p1, p2 image.Point, thickness int) image.Rectangle {
	_, hi := widening(thickness)
	return image.Rect(min(p1.X, p2.X)-hi, min(p1.Y, p2.Y)-hi, max(p1.X, p2.X)+hi+1, max(p1.Y, p2.Y)+hi+1)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

// mulAddCeilDiv returns ceil((a*b + c) / d) for d > 0, saturated to the
// int range. The product is taken without overflow.
func mulAddCeilDiv(a, b, c, d int) int {
	n := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(b)))
	n.Add(n, big.NewInt(int64(c)))
	dd := big.NewInt(int64(d))
	q, m := new(big.Int).DivMod(n, dd, new(big.Int))
	if m.Sign() != 0 {
		q.Add(q, big.NewInt(1))
	}
	switch {
	case !q.IsInt64() && q.Sign() > 0:
		return math.MaxInt
	case !q.IsInt64():
		return math.MinInt
	}
	return int(q.Int64())
}

// mulAddDivMod returns the floor quotient and remainder of (a*b + c) / d
// for a non-negative numerator and d > 0. The quotient must fit an int.
func mulAddDivMod(a, b, c, d int) (q, rem int) {
	n := new(big.Int).Mul(big.NewInt(int64(a)), big.NewInt(int64(b)))
	n.Add(n, big.NewInt(int64(c)))
	qq, mm := new(big.Int).DivMod(n, big.NewInt(int64(d)), new(big.Int))
	return int(qq.Int64()), int(mm.Int64())
}
