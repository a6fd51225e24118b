package internal

type FlushMode int

const (
	// FlushSync runs the callback inside the triggering write.
	FlushSync FlushMode = iota
	// FlushPost defers the callback to the post-flush lane of the job queue.
	FlushPost
)

type WatchOptions struct {
	Immediate bool
	Flush     FlushMode

	// Deep makes every change notify the callback, even when the source
	// returns the same value. Set for target sources.
	Deep bool
}

type WatchCallback func(value, oldValue any, onInvalidate func(cleanup func()))

// Watch runs cb whenever the value returned by source changes. The returned
// function stops the watcher and runs a pending invalidation cleanup.
func (r *Runtime) Watch(source func() any, cb WatchCallback, opts WatchOptions) (stop func()) {
	var (
		effect      *Effect
		oldValue    any
		cleanup     func()
		initialized bool
	)

	onInvalidate := func(fn func()) {
		cleanup = fn
	}

	invalidate := func() {
		if cleanup != nil {
			fn := cleanup
			cleanup = nil
			fn()
		}
	}

	job := NewJob("watch", func() {
		if !effect.Active() {
			return
		}

		value := effect.Run()
		if initialized && !opts.Deep && !hasChanged(oldValue, value) {
			return
		}

		invalidate()
		cb(value, oldValue, onInvalidate)
		oldValue = value
		initialized = true
	})

	effect = r.NewEffect(source, EffectOptions{
		Lazy: true,
		Scheduler: func(*Effect) {
			if opts.Flush == FlushPost {
				r.QueuePostFlush(job)
				return
			}
			job.Run()
		},
		OnStop: invalidate,
	})

	if opts.Immediate {
		job.Run()
	} else {
		oldValue = effect.Run()
		initialized = true
	}

	return effect.Stop
}

// WatchTarget watches every nested key of t. The callback receives t itself,
// so value and oldValue are the same wrapper.
func (r *Runtime) WatchTarget(t Target, cb WatchCallback, opts WatchOptions) (stop func()) {
	if !IsProxy(t) {
		t = r.Reactive(t)
	}

	opts.Deep = true

	return r.Watch(func() any {
		traverse(t, make(map[any]struct{}))
		return t
	}, cb, opts)
}

// traverse reads every key of every target reachable from v, so the active
// effect depends on all of them.
func traverse(v any, seen map[any]struct{}) {
	if ref, ok := v.(RefLike); ok {
		traverse(ref.RefValue(), seen)
		return
	}

	t, ok := v.(Target)
	if !ok || isNilTarget(t) {
		return
	}

	if h, _ := handleOf(ToRaw(t)); h != nil {
		if _, ok := seen[h]; ok {
			return
		}
		seen[h] = struct{}{}
	}

	switch x := t.(type) {
	case Array:
		for i := 0; i < x.Len(); i++ {
			traverse(x.At(i), seen)
		}
	case Set:
		x.ForEach(func(value any) {
			traverse(value, seen)
		})
	case Map:
		x.ForEach(func(value, _ any) {
			traverse(value, seen)
		})
	default:
		for _, key := range t.Keys() {
			value, _ := t.Get(key)
			traverse(value, seen)
		}
	}
}
