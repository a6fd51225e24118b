package internal

// Computed is a lazily evaluated, cached derivation. Its getter runs in a
// lazy effect whose scheduler only marks the cache dirty and notifies
// readers, so the getter never runs until the value is read again.
type Computed struct {
	rt *Runtime

	effect *Effect
	value  any
	dirty  bool

	// readers of this computed
	deps *keyDeps
}

func (r *Runtime) NewComputed(getter func() any) *Computed {
	c := &Computed{
		rt:    r,
		dirty: true,
		deps:  newKeyDeps(kindRecord),
	}

	c.effect = r.NewEffect(getter, EffectOptions{
		Lazy: true,
		Scheduler: func(*Effect) {
			if c.dirty {
				return
			}

			c.dirty = true
			r.trigger(c.deps, ValueKey, OpSet, nil)
		},
	})

	return c
}

func (c *Computed) Value() any {
	if c.dirty {
		c.value = c.effect.Run()
		c.dirty = false
	}

	c.rt.track(c.deps, ValueKey)

	return c.value
}

// Stop detaches the getter from its dependencies. The cached value is kept.
func (c *Computed) Stop() {
	c.effect.Stop()
}

// RefValue makes a computed usable wherever a ref is expected.
func (c *Computed) RefValue() any { return c.Value() }

// SetRefValue reports a violation: computed values are read-only.
func (c *Computed) SetRefValue(any) {
	c.rt.readonlyViolation("set", ValueKey)
}
