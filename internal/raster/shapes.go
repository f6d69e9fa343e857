package raster

import (
	"image"
	"math"
	"math/big"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/pixbuf"
)

// Point sets a single pixel.
func Point(r *pixbuf.Region, p image.Point, c palette.Packed) {
	o := r.Origin()
	r.Set(p.X-o.X, p.Y-o.Y, c)
}

// Clear fills the whole region.
func Clear(r *pixbuf.Region, c palette.Packed) {
	for y := 0; y <= r.MaxY(); y++ {
		for x := 0; x <= r.MaxX(); x++ {
			r.SetUnchecked(x, y, c)
		}
	}
}

// hspan fills region-local row y from x0 to x1 inclusive, clipped.
func hspan(r *pixbuf.Region, x0, x1, y int, c palette.Packed) {
	if y < 0 || y > r.MaxY() {
		return
	}
	x0, x1 = max(x0, 0), min(x1, r.MaxX())
	for x := x0; x <= x1; x++ {
		r.SetUnchecked(x, y, c)
	}
}

// vspan fills region-local column x from y0 to y1 inclusive, clipped.
func vspan(r *pixbuf.Region, x, y0, y1 int, c palette.Packed) {
	if x < 0 || x > r.MaxX() {
		return
	}
	y0, y1 = max(y0, 0), min(y1, r.MaxY())
	for y := y0; y <= y1; y++ {
		r.SetUnchecked(x, y, c)
	}
}

// Rect draws the w x h box whose top-left pixel is topLeft. Filled boxes
// cover [x, x+w) x [y, y+h). Outlines of thickness t are t rings growing
// inward from the box edge. Only rows inside the region are visited.
func Rect(r *pixbuf.Region, topLeft image.Point, w, h int, c palette.Packed, fill bool, thickness int) {
	if w <= 0 || h <= 0 {
		return
	}
	o := r.Origin()
	x, y := topLeft.X-o.X, topLeft.Y-o.Y
	x1, y1 := x+w-1, y+h-1
	rowLo, rowHi := max(y, 0), min(y1, r.MaxY())
	if fill {
		for row := rowLo; row <= rowHi; row++ {
			hspan(r, x, x1, row, c)
		}
		return
	}
	// Rings past the middle of the box do not exist.
	t := min(max(thickness, 1), (w+1)/2, (h+1)/2)
	for row := rowLo; row <= rowHi; row++ {
		if min(row-y, y1-row) < t {
			hspan(r, x, x1, row, c)
			continue
		}
		hspan(r, x, x+t-1, row, c)
		hspan(r, x1-t+1, x1, row, c)
	}
}

// RectBounds is the image-space rectangle a Rect call can touch.
func RectBounds(topLeft image.Point, w, h int) image.Rectangle {
	if w <= 0 || h <= 0 {
		return image.Rectangle{}
	}
	return image.Rect(topLeft.X, topLeft.Y, topLeft.X+w, topLeft.Y+h)
}

// CircleOffsets returns the (dx, dy) offsets the midpoint algorithm
// generates for one octant (0 <= dx <= dy) of a circle of the given radius.
func CircleOffsets(radius int) []image.Point {
	var out []image.Point
	midpoint(radius, func(dx, dy int) { out = append(out, image.Pt(dx, dy)) })
	return out
}

// midpoint walks the octant from (0, radius) toward the diagonal.
func midpoint(radius int, visit func(dx, dy int)) {
	if radius < 0 {
		return
	}
	x, y := 0, radius
	d := 1 - radius
	for x <= y {
		visit(x, y)
		if d < 0 {
			d += 2*x + 3
		} else {
			d += 2*(x-y) + 5
			y--
		}
		x++
	}
}

// Circle draws a circle centred on centre. Every offset from the octant walk
// is reflected into the eight octants; filled circles also draw the
// horizontal spans between reflections. All writes are checked, so circles
// hanging off the region are clipped. Thickness t draws t concentric rings.
//
// Only the parts of the walk that can reach the region are stepped, so the
// cost follows the region size rather than the radius.
func Circle(r *pixbuf.Region, centre image.Point, radius int, c palette.Packed, fill bool, thickness int) {
	if radius < 0 {
		return
	}
	// The walk's decision steps stay inside int up to this radius.
	radius = min(radius, exactLimit)
	o := r.Origin()
	cx, cy := centre.X-o.X, centre.Y-o.Y
	if fill {
		fillCircle(r, cx, cy, radius, c)
		return
	}
	if thickness < 1 {
		thickness = 1
	}
	// Ring pixels lie within one pixel of the true circle.
	near, far := regionDistance(r, cx, cy)
	inner := max(radius-thickness+1, 0)
	if fl := math.Floor(near) - 2; fl > float64(inner) {
		if fl > float64(radius) {
			return
		}
		inner = int(fl)
	}
	outer := radius
	if cf := math.Ceil(far) + 2; cf < float64(outer) {
		outer = int(cf)
	}
	for rad := outer; rad >= inner; rad-- {
		ringOutline(r, cx, cy, rad, c)
	}
}

func ringOutline(r *pixbuf.Region, cx, cy, rad int, c palette.Packed) {
	if rad == 0 {
		r.Set(cx, cy, c)
		return
	}
	o := newOctant(rad)
	// Octant column x lands on region columns cx±x and region rows cy±x.
	spans := [][2]int{
		{-cx, r.MaxX() - cx}, {cx - r.MaxX(), cx},
		{-cy, r.MaxY() - cy}, {cy - r.MaxY(), cy},
	}
	for _, sp := range spans {
		o.walk(max(sp[0], 0), min(sp[1], o.xEnd), func(dx, dy int) { plot8(r, cx, cy, dx, dy, c) })
	}
}

// plot8 reflects one octant offset into all eight octants.
func plot8(r *pixbuf.Region, cx, cy, dx, dy int, c palette.Packed) {
	r.Set(cx+dx, cy+dy, c)
	r.Set(cx-dx, cy+dy, c)
	r.Set(cx+dx, cy-dy, c)
	r.Set(cx-dx, cy-dy, c)
	r.Set(cx+dy, cy+dx, c)
	r.Set(cx-dy, cy+dx, c)
	r.Set(cx+dy, cy-dx, c)
	r.Set(cx-dy, cy-dx, c)
}

func fillCircle(r *pixbuf.Region, cx, cy, radius int, c palette.Packed) {
	if radius == 0 {
		r.Set(cx, cy, c)
		return
	}
	o := newOctant(radius)
	rows := [][2]int{{-cy, r.MaxY() - cy}, {cy - r.MaxY(), cy}}
	// Rows cy±dx carry spans of half-width dy.
	for _, sp := range rows {
		o.walk(max(sp[0], 0), min(sp[1], o.xEnd), func(dx, dy int) {
			hspan(r, cx-dy, cx+dy, cy+dx, c)
			hspan(r, cx-dy, cx+dy, cy-dx, c)
		})
	}
	// Rows cy±dy carry the widest dx the walk reaches at that dy.
	yEnd := o.y(o.xEnd)
	for _, sp := range rows {
		for dy := max(sp[0], yEnd); dy <= min(sp[1], radius); dy++ {
			dx := o.halfWidth(dy)
			hspan(r, cx-dx, cx+dx, cy+dy, c)
			hspan(r, cx-dx, cx+dx, cy-dy, c)
		}
	}
}

// regionDistance returns the distance from (cx, cy) to the nearest and the
// farthest pixel of the region.
func regionDistance(r *pixbuf.Region, cx, cy int) (near, far float64) {
	fx, fy := float64(cx), float64(cy)
	mx, my := float64(r.MaxX()), float64(r.MaxY())
	nx := math.Max(0, math.Max(-fx, fx-mx))
	ny := math.Max(0, math.Max(-fy, fy-my))
	ax := math.Max(math.Abs(fx), math.Abs(fx-mx))
	ay := math.Max(math.Abs(fy), math.Abs(fy-my))
	return math.Hypot(nx, ny), math.Hypot(ax, ay)
}

// CircleBounds is the image-space rectangle a Circle call can touch.
func CircleBounds(centre image.Point, radius int) image.Rectangle {
	if radius < 0 {
		return image.Rectangle{}
	}
	return image.Rect(centre.X-radius, centre.Y-radius, centre.X+radius+1, centre.Y+radius+1)
}

// Cross draws a horizontal and a vertical stroke of length size through centre.
func Cross(r *pixbuf.Region, centre image.Point, size int, c palette.Packed, thickness int) {
	half := size / 2
	Line(r, image.Pt(centre.X-half, centre.Y), image.Pt(centre.X+half, centre.Y), c, thickness, Solid)
	Line(r, image.Pt(centre.X, centre.Y-half), image.Pt(centre.X, centre.Y+half), c, thickness, Solid)
}

// CrossBounds is the image-space rectangle a Cross call can touch.
func CrossBounds(centre image.Point, size, thickness int) image.Rectangle {
	half := size / 2
	return LineBounds(image.Pt(centre.X-half, centre.Y-half), image.Pt(centre.X+half, centre.Y+half), thickness)
}

// arrowHead returns the two barb ends of an arrow from -> to. ok is false
// for a zero-length shaft, which has no direction.
func arrowHead(from, to image.Point, headLen, headHalfWidth int) (left, right image.Point, ok bool) {
	a := float64(to.X - from.X)
	b := float64(to.Y - from.Y)
	lg := math.Hypot(a, b)
	if lg == 0 {
		return image.Point{}, image.Point{}, false
	}
	ux, uy := a/lg, b/lg
	bx := float64(to.X) - float64(headLen)*ux
	by := float64(to.Y) - float64(headLen)*uy
	w := float64(headHalfWidth)
	left = image.Pt(int(math.Round(bx-w*uy)), int(math.Round(by+w*ux)))
	right = image.Pt(int(math.Round(bx+w*uy)), int(math.Round(by-w*ux)))
	return left, right, true
}

// Arrow draws the shaft from -> to and two barbs starting at to. headLen
// is measured back along the shaft, headHalfWidth across it.
func Arrow(r *pixbuf.Region, from, to image.Point, c palette.Packed, headLen, headHalfWidth, thickness int) {
	left, right, ok := arrowHead(from, to, headLen, headHalfWidth)
	if !ok {
		return
	}
	Line(r, to, left, c, thickness, Solid)
	Line(r, to, right, c, thickness, Solid)
	Line(r, from, to, c, thickness, Solid)
}

// ArrowBounds is the image-space rectangle an Arrow call can touch.
func ArrowBounds(from, to image.Point, headLen, headHalfWidth, thickness int) image.Rectangle {
	left, right, ok := arrowHead(from, to, headLen, headHalfWidth)
	if !ok {
		return image.Rectangle{}
	}
	return LineBounds(from, to, thickness).
		Union(LineBounds(to, left, thickness)).
		Union(LineBounds(to, right, thickness))
}

// octant evaluates the midpoint walk of one radius in closed form, so the
// walk can start at any column. For radius > 0 the walk holds, at column x,
// the largest y with y*(y-1) < r*r - x*x, and its decision variable is
// (x+1)^2 + y*(y-1) - r*r. It ends at xEnd, the last x with x <= y.
type octant struct {
	rr   *big.Int
	xEnd int
}

func newOctant(radius int) octant {
	o := octant{rr: new(big.Int).Mul(big.NewInt(int64(radius)), big.NewInt(int64(radius)))}
	// Largest x with 2x^2 - x < r^2.
	inOctant := func(x int) bool {
		bx := big.NewInt(int64(x))
		v := new(big.Int).Mul(bx, bx)
		v.Lsh(v, 1).Sub(v, bx)
		return v.Cmp(o.rr) < 0
	}
	half := new(big.Int).Rsh(o.rr, 1)
	x := int(new(big.Int).Sqrt(half).Int64())
	for inOctant(x + 1) {
		x++
	}
	for x > 0 && !inOctant(x) {
		x--
	}
	o.xEnd = x
	return o
}

// y returns the walk's y at column x.
func (o octant) y(x int) int {
	bx := big.NewInt(int64(x))
	k := new(big.Int).Mul(bx, bx)
	k.Sub(o.rr, k)
	// y*(y-1) <= k-1  <=>  (2y-1)^2 <= 4k-3
	k.Lsh(k, 2).Sub(k, big.NewInt(3))
	if k.Sign() < 0 {
		return -1
	}
	k.Sqrt(k).Add(k, big.NewInt(1)).Rsh(k, 1)
	return int(k.Int64())
}

func (o octant) decision(x, y int) int {
	bx, by := big.NewInt(int64(x+1)), big.NewInt(int64(y))
	d := new(big.Int).Mul(bx, bx)
	d.Add(d, new(big.Int).Mul(by, big.NewInt(int64(y-1))))
	d.Sub(d, o.rr)
	return int(d.Int64())
}

// halfWidth is the largest column the walk reaches while at row dy.
func (o octant) halfWidth(dy int) int {
	by := big.NewInt(int64(dy))
	k := new(big.Int).Mul(by, by)
	k.Sub(o.rr, k).Add(k, by).Sub(k, big.NewInt(1))
	if k.Sign() < 0 {
		return -1
	}
	return min(int(new(big.Int).Sqrt(k).Int64()), o.xEnd)
}

// walk runs the midpoint steps for columns x0..x1.
func (o octant) walk(x0, x1 int, visit func(dx, dy int)) {
	if x0 > x1 {
		return
	}
	x, y := x0, o.y(x0)
	d := o.decision(x, y)
	for x <= y && x <= x1 {
		visit(x, y)
		if d < 0 {
			d += 2*x + 3
		} else {
			d += 2*(x-y) + 5
			y--
		}
		x++
	}
}
