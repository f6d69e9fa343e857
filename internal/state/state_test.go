package state

import (
	"image"
	"sync"
	"testing"

	"github.com/rook-computer/overlay/internal/palette"
)

func TestSnapshotIsolated(t *testing.T) {
	s := NewStore()
	if got := s.Snapshot().Phase; got != BOOTING {
		t.Errorf("initial phase = %v, want booting", got)
	}
	s.AddShape(Shape{Kind: ShapeCross, From: image.Pt(1, 2), Size: 5, Color: palette.Red})
	snap := s.Snapshot()
	snap.Scene.Shapes[0].Size = 99
	if got := s.Snapshot().Scene.Shapes[0].Size; got != 5 {
		t.Errorf("store changed through snapshot: size = %d", got)
	}

	s.AddLabel(Label{Text: "hi"})
	s.ClearScene()
	snap = s.Snapshot()
	if len(snap.Scene.Shapes) != 0 || len(snap.Scene.Labels) != 0 {
		t.Errorf("scene after clear = %+v", snap.Scene)
	}
}

func TestConcurrentUpdates(t *testing.T) {
	s := NewStore()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.UpdateStats(func(st *Stats) { st.Frames++ })
				s.AddLabel(Label{Text: "x"})
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()
	snap := s.Snapshot()
	if snap.Stats.Frames != 800 || len(snap.Scene.Labels) != 800 {
		t.Errorf("frames = %d, labels = %d, want 800 each", snap.Stats.Frames, len(snap.Scene.Labels))
	}
}

func TestNames(t *testing.T) {
	for k := ShapePoint; k <= ShapeArrow; k++ {
		got, ok := ParseShapeKind(k.String())
		if !ok || got != k {
			t.Errorf("ParseShapeKind(%q) = %v, %v", k.String(), got, ok)
		}
	}
	if _, ok := ParseShapeKind("polygon"); ok {
		t.Error("polygon accepted")
	}
	if RECOVERING.String() != "recovering" || Phase(42).String() != "unknown" {
		t.Error("phase names")
	}
}
