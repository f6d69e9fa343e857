package buttons

import (
	"context"

	"github.com/rook-computer/overlay/internal/system"
)

type logger interface {
	Infof(string, string, ...interface{})
	Errorf(string, string, ...interface{})
}

// KeyButtons listens to raw keyboards on the console: Esc, Q and F4 exit,
// R and F5 reset the device.
type KeyButtons struct {
	Logger logger
	*emitter
	cancel context.CancelFunc
}

func NewKeyButtons(l logger) *KeyButtons {
	return &KeyButtons{Logger: l, emitter: newEmitter()}
}

func (b *KeyButtons) Start(ctx context.Context) error {
	ctx, b.cancel = context.WithCancel(ctx)
	exit := func() { b.emit(Exit) }
	reset := func() { b.emit(Reset) }
	system.WatchKeys(ctx, b.Logger, map[uint16]func(){
		system.KeyEsc: exit,
		system.KeyQ:   exit,
		system.KeyF4:  exit,
		system.KeyR:   reset,
		system.KeyF5:  reset,
	})
	return nil
}

func (b *KeyButtons) Stop() error {
	if b.cancel != nil {
		b.cancel()
	}
	b.stop()
	return nil
}

func (b *KeyButtons) Events() <-chan Event { return b.ch }
