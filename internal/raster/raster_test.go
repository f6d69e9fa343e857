package raster

import (
	"bytes"
	"image"
	"testing"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/pixbuf"
)

var (
	red   = palette.PackedFor(palette.Red)
	blue  = palette.PackedFor(palette.Blue)
	black = palette.PackedFor(palette.Black)
)

// newRegion allocates a w x h region with a padded pitch, cleared to black.
func newRegion(w, h int, origin image.Point) (*pixbuf.Region, []byte) {
	pitch := (w*4 + 63) &^ 63
	pix := make([]byte, pitch*h)
	r := pixbuf.New(pix, pitch, w, h, origin)
	Clear(r, black)
	return r, pix
}

// painted lists the image-space points holding c.
func painted(r *pixbuf.Region, c palette.Packed) map[image.Point]bool {
	out := make(map[image.Point]bool)
	o := r.Origin()
	for y := 0; y <= r.MaxY(); y++ {
		for x := 0; x <= r.MaxX(); x++ {
			if p, _ := r.At(x, y); p == c {
				out[image.Pt(x+o.X, y+o.Y)] = true
			}
		}
	}
	return out
}

func TestClearFillsRegion(t *testing.T) {
	r, _ := newRegion(13, 7, image.Point{})
	Clear(r, red)
	if got := len(painted(r, red)); got != 13*7 {
		t.Errorf("Clear painted %d pixels, want %d", got, 13*7)
	}
}

func TestFilledRectScenario(t *testing.T) {
	r, _ := newRegion(64, 48, image.Point{})
	Rect(r, image.Pt(10, 10), 20, 10, red, true, 1)

	if p, _ := r.At(15, 15); p != red {
		t.Errorf("interior (15,15) = %#08x, want %#08x", p, red)
	}
	if p, _ := r.At(5, 5); p != black {
		t.Errorf("exterior (5,5) = %#08x, want unchanged", p)
	}
	if got := len(painted(r, red)); got != 200 {
		t.Errorf("filled rect painted %d pixels, want 200", got)
	}
	if p, _ := r.At(30, 15); p != black {
		t.Error("fill spilled past x+w")
	}
}

func TestRectOutline(t *testing.T) {
	r, _ := newRegion(32, 32, image.Point{})
	Rect(r, image.Pt(2, 3), 10, 6, red, false, 1)
	got := painted(r, red)
	// Perimeter of a 10x6 box.
	if len(got) != 2*10+2*4 {
		t.Errorf("outline painted %d pixels, want 28", len(got))
	}
	for _, p := range []image.Point{{2, 3}, {11, 3}, {2, 8}, {11, 8}} {
		if !got[p] {
			t.Errorf("corner %v not painted", p)
		}
	}
	if got[image.Pt(5, 5)] {
		t.Error("outline painted the interior")
	}
}

func TestRectThickOutlineStaysInside(t *testing.T) {
	r, _ := newRegion(32, 32, image.Point{})
	Rect(r, image.Pt(4, 4), 8, 8, red, false, 3)
	for p := range painted(r, red) {
		if !p.In(image.Rect(4, 4, 12, 12)) {
			t.Errorf("pixel %v outside the box", p)
		}
	}
	if p, _ := r.At(6, 6); p != red {
		t.Error("third ring missing")
	}
	if p, _ := r.At(7, 7); p != black {
		t.Error("thick outline filled the centre")
	}
}

func TestCircleSymmetry(t *testing.T) {
	for _, radius := range []int{0, 1, 2, 5, 13, 40} {
		for _, fill := range []bool{false, true} {
			r, _ := newRegion(128, 128, image.Point{})
			c := image.Pt(64, 64)
			Circle(r, c, radius, red, fill, 1)
			got := painted(r, red)
			for _, d := range CircleOffsets(radius) {
				for _, m := range []image.Point{
					{d.X, d.Y}, {-d.X, d.Y}, {d.X, -d.Y}, {-d.X, -d.Y},
					{d.Y, d.X}, {-d.Y, d.X}, {d.Y, -d.X}, {-d.Y, -d.X},
				} {
					if !got[c.Add(m)] {
						t.Errorf("r=%d fill=%v: reflection %v of %v missing", radius, fill, m, d)
					}
				}
			}
			for p := range got {
				q := p.Sub(c)
				if !got[c.Add(image.Pt(-q.X, q.Y))] || !got[c.Add(image.Pt(q.Y, q.X))] {
					t.Errorf("r=%d fill=%v: point set not symmetric at %v", radius, fill, q)
				}
			}
		}
	}
}

func TestCircleOffsetsOctant(t *testing.T) {
	offs := CircleOffsets(10)
	if offs[0] != image.Pt(0, 10) {
		t.Errorf("first offset = %v, want (0,10)", offs[0])
	}
	for _, d := range offs {
		if d.X > d.Y {
			t.Errorf("offset %v left the octant", d)
		}
		if r2 := d.X*d.X + d.Y*d.Y; r2 < 81 || r2 > 121 {
			t.Errorf("offset %v too far from radius 10", d)
		}
	}
}

func TestCircleClippedOffRegion(t *testing.T) {
	r, pix := newRegion(20, 20, image.Point{})
	before := append([]byte(nil), pix...)
	Circle(r, image.Pt(-50, -50), 10, red, true, 1)
	if !bytes.Equal(pix, before) {
		t.Error("circle fully outside the region wrote pixels")
	}
	Circle(r, image.Pt(0, 0), 8, red, true, 1)
	if p, _ := r.At(3, 3); p != red {
		t.Error("visible quadrant of a clipped circle missing")
	}
}

func TestLineEndpointsAndSlopes(t *testing.T) {
	tests := []struct {
		p1, p2 image.Point
		n      int
	}{
		{image.Pt(1, 1), image.Pt(20, 1), 20},
		{image.Pt(20, 1), image.Pt(1, 1), 20},
		{image.Pt(3, 2), image.Pt(3, 25), 24},
		{image.Pt(0, 0), image.Pt(29, 29), 30},
		{image.Pt(29, 0), image.Pt(0, 29), 30},
		{image.Pt(2, 5), image.Pt(27, 14), 26},
		{image.Pt(27, 14), image.Pt(2, 5), 26},
		{image.Pt(4, 28), image.Pt(9, 1), 28},
		{image.Pt(7, 7), image.Pt(7, 7), 1},
	}
	for _, tt := range tests {
		r, _ := newRegion(32, 32, image.Point{})
		Line(r, tt.p1, tt.p2, red, 1, Solid)
		got := painted(r, red)
		if len(got) != tt.n {
			t.Errorf("Line(%v,%v) painted %d pixels, want %d", tt.p1, tt.p2, len(got), tt.n)
		}
		if !got[tt.p1] || !got[tt.p2] {
			t.Errorf("Line(%v,%v) missed an endpoint", tt.p1, tt.p2)
		}
	}
}

// The clipped walk must land on exactly the pixels the unclipped walk does.
func TestLineClippingMatchesFullWalk(t *testing.T) {
	segs := [][2]image.Point{
		{{-40, -7}, {90, 51}},
		{{75, -20}, {-13, 60}},
		{{-5, 30}, {100, 30}},
		{{12, -100}, {19, 100}},
		{{-1000, -997}, {1000, 1003}},
	}
	for _, s := range segs {
		big, _ := newRegion(2200, 2200, image.Pt(-1100, -1100))
		Line(big, s[0], s[1], red, 1, Dash)
		want := map[image.Point]bool{}
		for p := range painted(big, red) {
			if p.In(image.Rect(10, 10, 50, 40)) {
				want[p] = true
			}
		}

		small, _ := newRegion(40, 30, image.Pt(10, 10))
		Line(small, s[0], s[1], red, 1, Dash)
		got := painted(small, red)
		if len(got) != len(want) {
			t.Errorf("segment %v: clipped walk painted %d pixels, full walk %d", s, len(got), len(want))
			continue
		}
		for p := range want {
			if !got[p] {
				t.Errorf("segment %v: pixel %v missing after clipping", s, p)
			}
		}
	}
}

func TestLineOutsideRegion(t *testing.T) {
	r, pix := newRegion(16, 16, image.Point{})
	before := append([]byte(nil), pix...)
	Line(r, image.Pt(-10, -3), image.Pt(40, -3), red, 1, Solid)
	Line(r, image.Pt(-10, 20), image.Pt(-2, 50), red, 5, Solid)
	if !bytes.Equal(pix, before) {
		t.Error("lines outside the region wrote pixels")
	}
}

func TestLineThickness(t *testing.T) {
	r, _ := newRegion(40, 40, image.Point{})
	Line(r, image.Pt(5, 20), image.Pt(30, 20), red, 3, Solid)
	got := painted(r, red)
	if len(got) != 26*3 {
		t.Errorf("thick line painted %d pixels, want %d", len(got), 26*3)
	}
	for _, y := range []int{19, 20, 21} {
		if !got[image.Pt(10, y)] {
			t.Errorf("row %d not covered", y)
		}
	}

	r2, _ := newRegion(40, 40, image.Point{})
	Line(r2, image.Pt(20, 5), image.Pt(20, 30), red, 2, Solid)
	got = painted(r2, red)
	if !got[image.Pt(20, 10)] || !got[image.Pt(21, 10)] || got[image.Pt(19, 10)] {
		t.Error("even thickness should widen by offsets 0..1")
	}
}

// A thick line whose centre runs just outside the region still shows its edge.
func TestThickLineEdgeVisible(t *testing.T) {
	r, _ := newRegion(20, 20, image.Point{})
	Line(r, image.Pt(0, -1), image.Pt(19, -1), red, 3, Solid)
	if got := len(painted(r, red)); got != 20 {
		t.Errorf("painted %d pixels of row 0, want 20", got)
	}
}

func TestLineStyles(t *testing.T) {
	count := func(style LineStyle) int {
		r, _ := newRegion(100, 4, image.Point{})
		Line(r, image.Pt(0, 1), image.Pt(95, 1), red, 1, style)
		return len(painted(r, red))
	}
	tests := []struct {
		style LineStyle
		want  int
	}{
		{Solid, 96},
		{Dash, 4 * 18},
		{Dot, 16 * 3},
		{DashDot, 4 * 12},
		{DashDotDot, 4 * 15},
	}
	for _, tt := range tests {
		if got := count(tt.style); got != tt.want {
			t.Errorf("%v: painted %d pixels, want %d", tt.style, got, tt.want)
		}
	}
}

func TestParseLineStyle(t *testing.T) {
	for s := Solid; s <= DashDotDot; s++ {
		got, ok := ParseLineStyle(s.String())
		if !ok || got != s {
			t.Errorf("ParseLineStyle(%q) = %v, %v", s.String(), got, ok)
		}
	}
	if _, ok := ParseLineStyle("wavy"); ok {
		t.Error("ParseLineStyle accepted an unknown style")
	}
}

func TestCross(t *testing.T) {
	r, _ := newRegion(32, 32, image.Point{})
	Cross(r, image.Pt(10, 10), 8, red, 1)
	got := painted(r, red)
	if len(got) != 9+9-1 {
		t.Errorf("cross painted %d pixels, want 17", len(got))
	}
	for _, p := range []image.Point{{6, 10}, {14, 10}, {10, 6}, {10, 14}} {
		if !got[p] {
			t.Errorf("arm end %v missing", p)
		}
	}
	if b := CrossBounds(image.Pt(10, 10), 8, 1); b != image.Rect(6, 6, 15, 15) {
		t.Errorf("CrossBounds = %v", b)
	}
}

func TestArrow(t *testing.T) {
	r, _ := newRegion(64, 64, image.Point{})
	from, to := image.Pt(5, 30), image.Pt(50, 30)
	Arrow(r, from, to, blue, 10, 5, 1)
	got := painted(r, blue)
	if !got[from] || !got[to] {
		t.Error("shaft endpoints missing")
	}
	if !got[image.Pt(40, 35)] || !got[image.Pt(40, 25)] {
		t.Error("barb ends missing")
	}
	b := ArrowBounds(from, to, 10, 5, 1)
	for p := range got {
		if !p.In(b) {
			t.Errorf("pixel %v outside ArrowBounds %v", p, b)
		}
	}

	r2, pix := newRegion(16, 16, image.Point{})
	before := append([]byte(nil), pix...)
	Arrow(r2, image.Pt(4, 4), image.Pt(4, 4), blue, 3, 3, 1)
	if !bytes.Equal(pix, before) {
		t.Error("zero-length arrow drew pixels")
	}
	if !ArrowBounds(image.Pt(4, 4), image.Pt(4, 4), 3, 3, 1).Empty() {
		t.Error("zero-length arrow has non-empty bounds")
	}
}

func TestPrimitivesInsideBounds(t *testing.T) {
	r, _ := newRegion(200, 200, image.Pt(-100, -100))
	Line(r, image.Pt(-30, 12), image.Pt(44, -9), red, 4, Solid)
	b := LineBounds(image.Pt(-30, 12), image.Pt(44, -9), 4)
	for p := range painted(r, red) {
		if !p.In(b) {
			t.Errorf("line pixel %v outside LineBounds %v", p, b)
		}
	}

	r, _ = newRegion(200, 200, image.Pt(-100, -100))
	Circle(r, image.Pt(3, -4), 17, red, true, 1)
	b = CircleBounds(image.Pt(3, -4), 17)
	for p := range painted(r, red) {
		if !p.In(b) {
			t.Errorf("circle pixel %v outside CircleBounds %v", p, b)
		}
	}
}

func TestPointClipped(t *testing.T) {
	r, _ := newRegion(8, 8, image.Pt(100, 100))
	Point(r, image.Pt(103, 104), red)
	Point(r, image.Pt(3, 4), red)
	got := painted(r, red)
	if len(got) != 1 || !got[image.Pt(103, 104)] {
		t.Errorf("painted = %v, want only (103,104)", got)
	}
}

func TestLineHugeEndpoints(t *testing.T) {
	for _, big := range []int{1 << 20, 1 << 31, 1 << 40, 1 << 62} {
		r, _ := newRegion(64, 64, image.Point{})
		Line(r, image.Pt(-big, -big), image.Pt(big, big), red, 1, Solid)
		got := painted(r, red)
		for i := 0; i < 64; i++ {
			if !got[image.Pt(i, i)] {
				t.Errorf("big=%d: diagonal pixel (%d,%d) not set", big, i, i)
				break
			}
		}
		if len(got) != 64 {
			t.Errorf("big=%d: painted %d pixels, want 64", big, len(got))
		}
	}
}

func TestLineHugeDashKeepsPhase(t *testing.T) {
	r, _ := newRegion(64, 8, image.Point{})
	Line(r, image.Pt(-1<<40, 3), image.Pt(1<<40, 3), red, 1, Dash)
	got := painted(r, red)
	// x=0 is step 1<<40 of the walk; 1<<40 % 24 == 16.
	for x := 0; x < 64; x++ {
		want := (16+x)%24 < 18
		if got[image.Pt(x, 3)] != want {
			t.Errorf("pixel (%d,3) painted = %v, want %v", x, got[image.Pt(x, 3)], want)
		}
	}
}

func TestHugeStrokeStaysInRegion(t *testing.T) {
	for _, thick := range []int{1 << 28, 1 << 62} {
		r, _ := newRegion(64, 64, image.Point{})
		Line(r, image.Pt(10, 10), image.Pt(12, 10), red, thick, Solid)
		got := painted(r, red)
		if len(got) != 3*64 {
			t.Errorf("thickness %d: painted %d pixels, want %d", thick, len(got), 3*64)
		}
		for p := range got {
			if p.X < 10 || p.X > 12 {
				t.Errorf("thickness %d: painted (%d,%d) outside the stroke columns", thick, p.X, p.Y)
				break
			}
		}

		// Steep strokes widen along x.
		r, _ = newRegion(64, 64, image.Point{})
		Line(r, image.Pt(5, -1<<40), image.Pt(5, 1<<40), red, thick, Solid)
		if got := len(painted(r, red)); got != 64*64 {
			t.Errorf("thickness %d: vertical stroke painted %d pixels, want %d", thick, got, 64*64)
		}
	}
}

func TestHugeCircles(t *testing.T) {
	const radius = 1 << 28
	r, _ := newRegion(64, 64, image.Point{})
	Circle(r, image.Pt(32, 32+radius), radius, red, false, 1)
	got := painted(r, red)
	if !got[image.Pt(32, 32)] {
		t.Error("top of the arc (32,32) not painted")
	}
	for p := range got {
		if p.Y < 31 || p.Y > 33 {
			t.Errorf("arc pixel %v far from the tangent row", p)
			break
		}
	}

	r, _ = newRegion(64, 64, image.Point{})
	Circle(r, image.Pt(32, 40+radius), radius, red, true, 1)
	if p, _ := r.At(32, 63); p != red {
		t.Error("filled interior (32,63) not painted")
	}
	if p, _ := r.At(32, 20); p != black {
		t.Error("(32,20) above the disc painted")
	}

	// A ring as thick as its radius reduces to the rings that reach the
	// region: radii 1..64 around a centre inside it.
	r, _ = newRegion(64, 64, image.Point{})
	Circle(r, image.Pt(32, 32), radius, red, false, radius)
	want, _ := newRegion(64, 64, image.Point{})
	for rad := 1; rad <= 64; rad++ {
		for _, off := range CircleOffsets(rad) {
			plot8(want, 32, 32, off.X, off.Y, red)
		}
	}
	got, exp := painted(r, red), painted(want, red)
	if len(got) != len(exp) {
		t.Errorf("thick ring painted %d pixels, want %d", len(got), len(exp))
	}
	for p := range exp {
		if !got[p] {
			t.Errorf("thick ring misses %v", p)
			break
		}
	}
}

func TestOctantMatchesWalk(t *testing.T) {
	for radius := 1; radius <= 300; radius++ {
		want := CircleOffsets(radius)
		o := newOctant(radius)
		var got []image.Point
		o.walk(0, o.xEnd, func(dx, dy int) { got = append(got, image.Pt(dx, dy)) })
		if len(got) != len(want) {
			t.Fatalf("radius %d: closed form gives %d offsets, walk %d", radius, len(got), len(want))
		}
		widest := map[int]int{}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("radius %d: offset %d = %v, want %v", radius, i, got[i], want[i])
			}
			widest[want[i].Y] = want[i].X
		}
		for dy, dx := range widest {
			if hw := o.halfWidth(dy); hw != dx {
				t.Fatalf("radius %d: halfWidth(%d) = %d, want %d", radius, dy, hw, dx)
			}
		}
		// Resuming mid-octant matches the tail of the full walk.
		mid := o.xEnd / 2
		var tail []image.Point
		o.walk(mid, o.xEnd, func(dx, dy int) { tail = append(tail, image.Pt(dx, dy)) })
		if len(tail) != len(want)-mid || tail[0] != want[mid] {
			t.Fatalf("radius %d: walk from %d diverges", radius, mid)
		}
	}
}

func TestHugeRects(t *testing.T) {
	const big = 1 << 40
	r, _ := newRegion(64, 64, image.Point{})
	Rect(r, image.Pt(-big, -big), 2*big, 2*big, red, true, 1)
	if got := len(painted(r, red)); got != 64*64 {
		t.Errorf("huge fill painted %d pixels, want %d", got, 64*64)
	}

	r, _ = newRegion(64, 64, image.Point{})
	Rect(r, image.Pt(-big, -big), 2*big, 2*big, red, false, 1)
	if got := len(painted(r, red)); got != 0 {
		t.Errorf("huge thin outline painted %d pixels, want 0", got)
	}

	r, _ = newRegion(64, 64, image.Point{})
	Rect(r, image.Pt(-big, -big), 2*big, 2*big, red, false, big)
	if got := len(painted(r, red)); got != 64*64 {
		t.Errorf("huge thick outline painted %d pixels, want %d", got, 64*64)
	}
}
