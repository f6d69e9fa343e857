package render

import (
	"github.com/rook-computer/overlay/internal/palette"
	"github.com/rook-computer/overlay/internal/text"
)

// Global render defaults.
var (
	// Logical canvas size used when the caller does not pick one.
	CanvasWidth  = 640
	CanvasHeight = 480

	// Label text.
	FontSize   = 16.0
	FontDPI    = 72.0
	FontEngine = text.EngineOpenType

	// Foreground is the label color, Background the clear color.
	Foreground = palette.Yellow
	Background = palette.Black
)

// DefaultTextOptions returns the text settings built from the globals above.
func DefaultTextOptions() text.Options {
	return text.Options{Size: FontSize, DPI: FontDPI, Engine: FontEngine}
}
