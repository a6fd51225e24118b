package reactive

import (
	"context"

	"github.com/AnatoleLucet/reactive/internal"
)

type task struct {
	fn   func()
	done chan struct{}
}

// Loop drives an engine from a single goroutine. Tasks posted from any
// goroutine run one at a time, each as a batch, so queued jobs are flushed
// after every task.
type Loop struct {
	engine *Engine
	tasks  chan task
}

func NewLoop(engine *Engine, buffer int) *Loop {
	return &Loop{
		engine: engine,
		tasks:  make(chan task, buffer),
	}
}

// Post enqueues fn without waiting for it to run.
func (l *Loop) Post(ctx context.Context, fn func()) error {
	select {
	case l.tasks <- task{fn: fn}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Do enqueues fn and waits until it ran.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	t := task{fn: fn, done: make(chan struct{})}

	select {
	case l.tasks <- t:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-t.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes tasks until ctx is done. The engine is bound to the calling
// goroutine for the duration.
func (l *Loop) Run(ctx context.Context) error {
	restore := internal.BindRuntime(l.engine.rt)
	defer restore()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-l.tasks:
			l.run(t)
		}
	}
}

func (l *Loop) run(t task) {
	if t.done != nil {
		defer close(t.done)
	}

	l.engine.rt.NewBatch(t.fn)
}
