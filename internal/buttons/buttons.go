// Package buttons turns operator input into app events.
package buttons

import (
	"context"
	"sync"
)

type Event string

const (
	Shutdown Event = "shutdown"
	// Reset asks the app to recreate the graphics device.
	Reset Event = "reset"
	Exit  Event = "exit"
	// ClearScene drops every annotation.
	ClearScene Event = "clear"
)

type Buttons interface {
	Start(ctx context.Context) error
	Stop() error
	Events() <-chan Event
}

type NoopButtons struct{ ch chan Event }

func NewNoopButtons() *NoopButtons { return &NoopButtons{ch: make(chan Event)} }

func (n *NoopButtons) Start(ctx context.Context) error { return nil }
func (n *NoopButtons) Stop() error                     { return nil }
func (n *NoopButtons) Events() <-chan Event            { return n.ch }

// emitter is the shared event channel of the real drivers.
type emitter struct {
	ch       chan Event
	stopOnce sync.Once
	done     chan struct{}
}

func newEmitter() *emitter {
	return &emitter{ch: make(chan Event, 8), done: make(chan struct{})}
}

// emit drops the event when nobody keeps up or the driver is stopped.
func (e *emitter) emit(ev Event) {
	select {
	case <-e.done:
	case e.ch <- ev:
	default:
	}
}

func (e *emitter) stop() {
	e.stopOnce.Do(func() { close(e.done) })
}
