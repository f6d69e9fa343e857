package palette

import (
	"image/color"
	"testing"
)

func TestLookupsStable(t *testing.T) {
	for c := Color(0); c < None; c++ {
		p1, h1 := PackedFor(c), Host(c)
		p2, h2 := PackedFor(c), Host(c)
		if p1 != p2 {
			t.Errorf("PackedFor(%v) changed between calls: %#08x then %#08x", c, p1, p2)
		}
		if h1 != h2 {
			t.Errorf("Host(%v) changed between calls: %v then %v", c, h1, h2)
		}
	}
}

func TestTablesAgree(t *testing.T) {
	for c := Color(0); c < None; c++ {
		if got, want := PackedFor(c).RGBA(), Host(c); got != want {
			t.Errorf("%v: packed unpacks to %v, host color is %v", c, got, want)
		}
		if Host(c).A != 0xFF {
			t.Errorf("%v: alpha = %#x, want opaque", c, Host(c).A)
		}
	}
}

func TestPackedLayout(t *testing.T) {
	tests := []struct {
		c    Color
		want Packed
	}{
		{Black, 0xFF000000},
		{White, 0xFFFFFFFF},
		{Red, 0xFFFF0000},
		{Green, 0xFF00FF00},
		{Blue, 0xFF0000FF},
		{Yellow, 0xFFFFFF00},
	}
	for _, tt := range tests {
		if got := PackedFor(tt.c); got != tt.want {
			t.Errorf("PackedFor(%v) = %#08x, want %#08x", tt.c, got, tt.want)
		}
	}
}

func TestPackRoundTrip(t *testing.T) {
	in := color.RGBA{R: 10, G: 20, B: 30, A: 40}
	if got := Pack(in).RGBA(); got != in {
		t.Errorf("Pack(%v).RGBA() = %v", in, got)
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want Color
		ok   bool
	}{
		{"red", Red, true},
		{"Light-Blue", LightBlue, true},
		{"dark_green", DarkGreen, true},
		{"PURPLE", Purple, true},
		{"magenta", None, false},
		{"", None, false},
	}
	for _, tt := range tests {
		got, err := Parse(tt.name)
		if (err == nil) != tt.ok {
			t.Errorf("Parse(%q) error = %v, want ok=%v", tt.name, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestStringNames(t *testing.T) {
	if got := Orange.String(); got != "orange" {
		t.Errorf("Orange.String() = %q", got)
	}
	if got := None.String(); got != "Color(18)" {
		t.Errorf("None.String() = %q", got)
	}
	if n := len(Names()); n != int(None) {
		t.Errorf("len(Names()) = %d, want %d", n, None)
	}
}
