package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// dispatchMsg carries work to run on the update loop.
type dispatchMsg struct {
	fn func()
}

// Dispatcher queues work from other goroutines onto the bubbletea update
// loop, which owns the playback controller.
type Dispatcher struct {
	ctx context.Context
	ch  chan func()
}

// NewDispatcher creates a dispatcher. Dispatch stops blocking once ctx is
// done.
func NewDispatcher(ctx context.Context) *Dispatcher {
	return &Dispatcher{ctx: ctx, ch: make(chan func(), 64)}
}

// Dispatch queues fn. It must not be called from the update loop itself
// when the queue may be full.
func (d *Dispatcher) Dispatch(fn func()) {
	select {
	case d.ch <- fn:
	case <-d.ctx.Done():
	}
}

// Wait returns a command delivering the next queued function.
func (d *Dispatcher) Wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case fn := <-d.ch:
			return dispatchMsg{fn: fn}
		case <-d.ctx.Done():
			return nil
		}
	}
}
