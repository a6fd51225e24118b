package internal

import "slices"

type EffectOptions struct {
	// Lazy skips the initial run.
	Lazy bool

	// Scheduler replaces the synchronous re-run when a dependency changes.
	Scheduler func(*Effect)

	// OnStop runs once when the effect is stopped.
	OnStop func()
}

// Effect is a re-runnable computation that records the (target, key) pairs it
// reads and re-runs, or is scheduled, when one of them is written.
type Effect struct {
	ownership

	rt *Runtime

	fn   func() any
	opts EffectOptions

	deps   []*dep
	active bool
}

func (r *Runtime) NewEffect(fn func() any, opts EffectOptions) *Effect {
	e := &Effect{
		rt:     r,
		fn:     fn,
		opts:   opts,
		active: true,
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		e.parent = parent
		parent.adopt(e)
	}

	if !opts.Lazy {
		e.Run()
	}

	return e
}

// Run stops what the previous run created, clears the effect's dependencies
// and runs it with fresh tracking. A stopped effect still runs, but untracked.
func (e *Effect) Run() (result any) {
	if !e.active {
		return e.fn()
	}

	e.dispose()
	e.cleanup()
	e.rt.metrics.EffectRuns.Inc()

	defer e.recover()

	// jobs queued by the run drain once it returns, never inside it
	e.rt.NewBatch(func() {
		e.rt.tracker.RunWithEffect(e, func() {
			result = e.fn()
		})
	})

	return result
}

// recover forwards a panic to the error handlers of an enclosing scope, or
// lets it propagate when there are none.
func (e *Effect) recover() {
	if r := recover(); r != nil {
		if !e.catch(r) {
			panic(r)
		}
	}
}

// Stop detaches the effect from every dependency. It is idempotent.
func (e *Effect) Stop() {
	if !e.active {
		return
	}

	e.active = false
	e.dispose()
	e.cleanup()
	e.detach(e)

	if e.opts.OnStop != nil {
		e.opts.OnStop()
	}
}

func (e *Effect) Active() bool {
	return e.active
}

func (e *Effect) cleanup() {
	for _, d := range e.deps {
		d.remove(e)
	}
	e.deps = e.deps[:0]
}

func (e *Effect) schedule() {
	// stopped by an effect notified earlier in the same trigger
	if !e.active {
		return
	}

	if e.opts.Scheduler != nil {
		e.opts.Scheduler(e)
		return
	}

	e.Run()
}

// track records a dependency of the active effect on (kd, key).
func (r *Runtime) track(kd *keyDeps, key any) {
	if kd == nil || !r.tracker.ShouldTrack() {
		return
	}

	e := r.tracker.ActiveEffect()
	d := kd.getOrCreate(key)
	if d.add(e) {
		e.deps = append(e.deps, d)
		r.metrics.Tracks.Inc()
	}
}

// trigger notifies the effects depending on a mutation of (kd, key).
// newValue is only consulted for writes to an Array length.
func (r *Runtime) trigger(kd *keyDeps, key any, op Op, newValue any) {
	if kd == nil {
		return
	}

	r.metrics.Triggers.Inc()

	active := r.tracker.ActiveEffect()

	var effects []*Effect
	add := func(d *dep) {
		if d == nil {
			return
		}
		for _, e := range d.effects {
			if e != active && !slices.Contains(effects, e) {
				effects = append(effects, e)
			}
		}
	}

	if op == OpClear {
		for _, k := range kd.keys {
			add(kd.get(k))
		}
	} else {
		add(kd.get(key))
	}

	if kd.kind == kindArray && key == LengthKey {
		if n, ok := index(newValue); ok {
			for _, k := range kd.keys {
				if i, ok := k.(int); ok && i >= n {
					add(kd.get(k))
				}
			}
		}
	}

	if op == OpAdd && kd.kind == kindArray {
		add(kd.get(LengthKey))
	}

	if op == OpAdd || op == OpDelete || (op == OpSet && kd.kind == kindMap) {
		add(kd.get(IterateKey))
	}

	if (op == OpAdd || op == OpDelete) && kd.kind.isCollection() {
		add(kd.get(MapKeyIterateKey))
	}

	if len(effects) == 0 {
		return
	}

	// a write outside a batch is its own phase: jobs it queues drain after it
	r.NewBatch(func() {
		for _, e := range effects {
			e.schedule()
		}
	})
}
