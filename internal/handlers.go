package internal

// base is shared by every wrapper kind. It delegates to target, tracks reads
// against deps and triggers writes through the runtime.
type base struct {
	rt *Runtime

	target Target
	deps   *keyDeps

	shallow  bool
	readonly bool

	// the outer wrapper handed out for this base
	self Target
}

// wrapper is implemented by every wrapper kind.
type wrapper interface {
	Target

	Raw() Target
	proxyBase() *base
}

func (b *base) Raw() Target { return b.target }

func (b *base) proxyBase() *base { return b }

func (b *base) track(key any) {
	if !b.readonly {
		b.rt.track(b.deps, key)
	}
}

// wrapValue wraps a nested target on the way out: readonly wrappers hand out
// readonly views, reactive wrappers reactive ones, shallow wrappers nothing.
func (b *base) wrapValue(v any) any {
	if b.shallow {
		return v
	}

	t, ok := v.(Target)
	if !ok || t == nil {
		return v
	}

	if b.readonly {
		return b.rt.Readonly(t)
	}
	return b.rt.Reactive(t)
}

func (b *base) get(key any) (any, bool) {
	b.track(key)

	v, ok := b.target.Get(key)
	if !ok {
		return nil, false
	}

	return b.wrapValue(v), true
}

func (b *base) has(key any) bool {
	b.track(key)
	return b.target.Has(key)
}

func (b *base) keys() []any {
	b.track(IterateKey)
	return b.target.Keys()
}

func (b *base) set(key, value any) {
	if b.readonly {
		b.rt.readonlyViolation("set", key)
		return
	}

	old, had := b.target.Get(key)
	value = ToRaw(value)
	b.target.Set(key, value)

	switch {
	case !had:
		b.rt.trigger(b.deps, key, OpAdd, value)
	case hasChanged(old, value):
		b.rt.trigger(b.deps, key, OpSet, value)
	}
}

func (b *base) delete(key any) bool {
	if b.readonly {
		b.rt.readonlyViolation("delete", key)
		return true
	}

	had := b.target.Has(key)
	ok := b.target.Delete(key)
	if ok && had {
		b.rt.trigger(b.deps, key, OpDelete, nil)
	}

	return ok
}

// objectProxy wraps a record.
type objectProxy struct {
	*base
}

func (p *objectProxy) Get(key any) (any, bool) { return p.get(key) }
func (p *objectProxy) Set(key, value any)      { p.set(key, value) }
func (p *objectProxy) Has(key any) bool        { return p.has(key) }
func (p *objectProxy) Keys() []any             { return p.keys() }
func (p *objectProxy) Delete(key any) bool     { return p.delete(key) }
