package state

import (
	"image"
	"sync"

	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/raster"
)

type Phase int

const (
	BOOTING Phase = iota
	RUNNING
	RECOVERING
	STOPPED
	ERROR
)

func (p Phase) String() string {
	switch p {
	case BOOTING:
		return "booting"
	case RUNNING:
		return "running"
	case RECOVERING:
		return "recovering"
	case STOPPED:
		return "stopped"
	case ERROR:
		return "error"
	}
	return "unknown"
}

type ShapeKind int

const (
	ShapePoint ShapeKind = iota
	ShapeLine
	ShapeRect
	ShapeCircle
	ShapeCross
	ShapeArrow
)

var shapeKindNames = [...]string{
	ShapePoint:  "point",
	ShapeLine:   "line",
	ShapeRect:   "rect",
	ShapeCircle: "circle",
	ShapeCross:  "cross",
	ShapeArrow:  "arrow",
}

func (k ShapeKind) String() string {
	if k < 0 || int(k) >= len(shapeKindNames) {
		return "unknown"
	}
	return shapeKindNames[k]
}

// ParseShapeKind is the inverse of ShapeKind.String.
func ParseShapeKind(name string) (ShapeKind, bool) {
	for i, n := range shapeKindNames {
		if n == name {
			return ShapeKind(i), true
		}
	}
	return 0, false
}

// Shape is one annotation primitive.
//
// From/To are the two points of lines and arrows. Rectangles use From as
// the top-left pixel and W/H as their size; circles and crosses use From
// as the centre and Size as radius or stroke length. Arrow heads take
// Size as head length and W as head half-width.
type Shape struct {
	Kind      ShapeKind
	From      image.Point
	To        image.Point
	W, H      int
	Size      int
	Color     palette.Color
	Fill      bool
	Thickness int
	Style     raster.LineStyle
}

// Label is text redrawn onto the display every frame.
type Label struct {
	Text  string
	At    image.Point
	Color palette.Color
}

type Scene struct {
	Shapes []Shape
	Labels []Label
}

type Stats struct {
	Frames   int64
	Failures int64
	Reinits  int64
	// LastError is the most recent render or recovery error.
	LastError string
}

type State struct {
	Phase Phase
	Scene Scene
	Stats Stats
}

type Store struct {
	mu    sync.RWMutex
	state State
}

func NewStore() *Store {
	return &Store{state: State{Phase: BOOTING}}
}

// Snapshot returns a copy that shares nothing with the store.
func (store *Store) Snapshot() State {
	store.mu.RLock()
	defer store.mu.RUnlock()
	s := store.state
	s.Scene.Shapes = append([]Shape(nil), s.Scene.Shapes...)
	s.Scene.Labels = append([]Label(nil), s.Scene.Labels...)
	return s
}

func (store *Store) SetPhase(phase Phase) {
	store.mu.Lock()
	store.state.Phase = phase
	store.mu.Unlock()
}

func (store *Store) SetScene(scene Scene) {
	store.mu.Lock()
	store.state.Scene = Scene{
		Shapes: append([]Shape(nil), scene.Shapes...),
		Labels: append([]Label(nil), scene.Labels...),
	}
	store.mu.Unlock()
}

func (store *Store) AddShape(shape Shape) {
	store.mu.Lock()
	store.state.Scene.Shapes = append(store.state.Scene.Shapes, shape)
	store.mu.Unlock()
}

func (store *Store) AddLabel(label Label) {
	store.mu.Lock()
	store.state.Scene.Labels = append(store.state.Scene.Labels, label)
	store.mu.Unlock()
}

// ClearScene drops every shape and label.
func (store *Store) ClearScene() {
	store.mu.Lock()
	store.state.Scene = Scene{}
	store.mu.Unlock()
}

// UpdateStats applies fn to the stats under the store lock.
func (store *Store) UpdateStats(fn func(*Stats)) {
	store.mu.Lock()
	fn(&store.state.Stats)
	store.mu.Unlock()
}
