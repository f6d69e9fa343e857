package buttons

import (
	"context"

	"github.com/gdamore/tcell/v2"
)

// TermButtons reads key events from a tcell screen: q, Esc and Ctrl-C
// exit, r resets the device and c clears the scene. A change of terminal
// size also resets the device, so the surface follows the new cell grid.
type TermButtons struct {
	Screen tcell.Screen
	*emitter

	cols, rows int
}

func NewTermButtons(screen tcell.Screen) *TermButtons {
	b := &TermButtons{Screen: screen, emitter: newEmitter()}
	b.cols, b.rows = screen.Size()
	return b
}

func (b *TermButtons) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.stop()
	}()
	go b.loop()
	return nil
}

func (b *TermButtons) loop() {
	for {
		ev := b.Screen.PollEvent()
		if ev == nil {
			return
		}
		select {
		case <-b.done:
			return
		default:
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if e, ok := keyEvent(ev); ok {
				b.emit(e)
			}
		case *tcell.EventResize:
			b.Screen.Sync()
			if e, ok := b.resizeEvent(ev); ok {
				b.emit(e)
			}
		}
	}
}

func keyEvent(ev *tcell.EventKey) (Event, bool) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return Exit, true
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return Exit, true
		case 'r', 'R':
			return Reset, true
		case 'c', 'C':
			return ClearScene, true
		}
	}
	return "", false
}

// resizeEvent reports Reset when the grid differs from the last one seen.
// tcell posts a resize right after Init, which matches the opening size.
func (b *TermButtons) resizeEvent(ev *tcell.EventResize) (Event, bool) {
	cols, rows := ev.Size()
	if cols == b.cols && rows == b.rows {
		return "", false
	}
	b.cols, b.rows = cols, rows
	return Reset, true
}

func (b *TermButtons) Stop() error {
	b.stop()
	return nil
}

func (b *TermButtons) Events() <-chan Event { return b.ch }
