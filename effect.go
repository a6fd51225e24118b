package reactive

import "github.com/AnatoleLucet/reactive/internal"

type Effect struct {
	effect *internal.Effect
	job    *internal.Job
}

type effectConfig struct {
	lazy      bool
	queued    bool
	scheduler func(*Effect)
	onStop    func()
}

type EffectOption func(*effectConfig)

// Lazy skips the initial run; call Run to start tracking.
func Lazy() EffectOption {
	return func(c *effectConfig) { c.lazy = true }
}

// Queued defers re-runs to the job queue, so several writes within one batch
// re-run the effect once.
func Queued() EffectOption {
	return func(c *effectConfig) { c.queued = true }
}

// WithScheduler replaces the synchronous re-run: fn is called instead and
// decides when to call Run.
func WithScheduler(fn func(*Effect)) EffectOption {
	return func(c *effectConfig) { c.scheduler = fn }
}

// OnStop registers a function to be called once when the effect is stopped.
func OnStop(fn func()) EffectOption {
	return func(c *effectConfig) { c.onStop = fn }
}

// NewEffect creates a reactive effect that runs the given function
// whenever its dependencies change.
func NewEffect(fn func(), opts ...EffectOption) *Effect {
	cfg := &effectConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	e := &Effect{}

	// the first run may already reach the scheduler, so e.effect is set before it
	options := internal.EffectOptions{
		Lazy:   true,
		OnStop: cfg.onStop,
	}

	switch {
	case cfg.scheduler != nil:
		options.Scheduler = func(*internal.Effect) { cfg.scheduler(e) }
	case cfg.queued:
		r := internal.GetRuntime()
		e.job = internal.NewJob("effect", func() {
			if e.effect.Active() {
				e.effect.Run()
			}
		})
		options.Scheduler = func(*internal.Effect) { r.QueueJob(e.job) }
	}

	e.effect = internal.GetRuntime().NewEffect(func() any {
		fn()
		return nil
	}, options)

	if !cfg.lazy {
		e.effect.Run()
	}

	return e
}

// Run the effect now, re-collecting its dependencies.
func (e *Effect) Run() { e.effect.Run() }

// Stop the effect. It no longer re-runs on changes.
func (e *Effect) Stop() { e.effect.Stop() }

func (e *Effect) Active() bool { return e.effect.Active() }

type OnInvalidate func(cleanup func())

type watchConfig struct {
	opts internal.WatchOptions
}

type WatchOption func(*watchConfig)

// Immediate calls the callback once at setup with a zero old value.
func Immediate() WatchOption {
	return func(c *watchConfig) { c.opts.Immediate = true }
}

// FlushPost defers the callback to the end of the current flush.
func FlushPost() WatchOption {
	return func(c *watchConfig) { c.opts.Flush = internal.FlushPost }
}

// FlushSync calls the callback inside the triggering write. This is the default.
func FlushSync() WatchOption {
	return func(c *watchConfig) { c.opts.Flush = internal.FlushSync }
}

// Deep calls the callback on every change of the source's dependencies,
// even when it returns the same value.
func Deep() WatchOption {
	return func(c *watchConfig) { c.opts.Deep = true }
}

func watchOptions(opts []WatchOption) internal.WatchOptions {
	cfg := &watchConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg.opts
}

// Watch calls cb with the new and previous value each time source returns a
// different value. onInvalidate registers a cleanup that runs before the next
// call or when the watcher stops.
func Watch[T any](source func() T, cb func(value, oldValue T, onInvalidate OnInvalidate), opts ...WatchOption) (stop func()) {
	return internal.GetRuntime().Watch(
		func() any { return source() },
		func(value, oldValue any, onInvalidate func(func())) {
			cb(as[T](value), as[T](oldValue), onInvalidate)
		},
		watchOptions(opts),
	)
}

// WatchTarget calls cb on any change to target or to any target nested in it.
func WatchTarget[T Target](target T, cb func(value, oldValue T, onInvalidate OnInvalidate), opts ...WatchOption) (stop func()) {
	return internal.GetRuntime().WatchTarget(
		target,
		func(value, oldValue any, onInvalidate func(func())) {
			cb(as[T](value), as[T](oldValue), onInvalidate)
		},
		watchOptions(opts),
	)
}
