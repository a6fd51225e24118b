package internal

import "iter"

// mapProxy wraps a Map. Keys are unwrapped before reaching the target, and
// both keys and values are wrapped on the way out.
type mapProxy struct {
	*base
	m Map
}

func (p *mapProxy) Get(key any) (any, bool) {
	key = ToRaw(key)
	p.track(key)

	v, ok := p.m.Get(key)
	if !ok {
		return nil, false
	}
	return p.wrapValue(v), true
}

func (p *mapProxy) Has(key any) bool {
	key = ToRaw(key)
	p.track(key)
	return p.m.Has(key)
}

func (p *mapProxy) Set(key, value any) {
	key = ToRaw(key)
	if p.readonly {
		p.rt.readonlyViolation("set", key)
		return
	}

	had := p.m.Has(key)
	old, _ := p.m.Get(key)
	value = ToRaw(value)
	p.m.Set(key, value)

	switch {
	case !had:
		p.rt.trigger(p.deps, key, OpAdd, value)
	case hasChanged(old, value):
		p.rt.trigger(p.deps, key, OpSet, value)
	}
}

func (p *mapProxy) Delete(key any) bool {
	key = ToRaw(key)
	if p.readonly {
		p.rt.readonlyViolation("delete", key)
		return true
	}

	had := p.m.Has(key)
	ok := p.m.Delete(key)
	if had {
		p.rt.trigger(p.deps, key, OpDelete, nil)
	}
	return ok
}

func (p *mapProxy) Keys() []any {
	p.track(MapKeyIterateKey)

	keys := p.m.Keys()
	for i, k := range keys {
		keys[i] = p.wrapValue(k)
	}
	return keys
}

func (p *mapProxy) Len() int {
	p.track(IterateKey)
	return p.m.Len()
}

func (p *mapProxy) Clear() {
	if p.readonly {
		p.rt.readonlyViolation("clear", nil)
		return
	}

	had := p.m.Len() > 0
	p.m.Clear()
	if had {
		p.rt.trigger(p.deps, nil, OpClear, nil)
	}
}

func (p *mapProxy) ForEach(fn func(value, key any)) {
	p.track(IterateKey)
	p.m.ForEach(func(value, key any) {
		fn(p.wrapValue(value), p.wrapValue(key))
	})
}

func (p *mapProxy) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		p.track(IterateKey)
		for k, v := range p.m.Entries() {
			if !yield(p.wrapValue(k), p.wrapValue(v)) {
				return
			}
		}
	}
}

func (p *mapProxy) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		p.track(IterateKey)
		for v := range p.m.Values() {
			if !yield(p.wrapValue(v)) {
				return
			}
		}
	}
}

// setProxy wraps a Set. Members are unwrapped on the way in.
type setProxy struct {
	*base
	s Set
}

func (p *setProxy) Get(key any) (any, bool) {
	key = ToRaw(key)
	p.track(key)

	if !p.s.Has(key) {
		return nil, false
	}
	return p.wrapValue(key), true
}

func (p *setProxy) Has(key any) bool {
	key = ToRaw(key)
	p.track(key)
	return p.s.Has(key)
}

func (p *setProxy) Set(key, _ any) {
	p.Add(key)
}

func (p *setProxy) Add(value any) {
	value = ToRaw(value)
	if p.readonly {
		p.rt.readonlyViolation("add", value)
		return
	}

	if p.s.Has(value) {
		return
	}

	p.s.Add(value)
	p.rt.trigger(p.deps, value, OpAdd, value)
}

func (p *setProxy) Delete(key any) bool {
	key = ToRaw(key)
	if p.readonly {
		p.rt.readonlyViolation("delete", key)
		return true
	}

	had := p.s.Has(key)
	ok := p.s.Delete(key)
	if had {
		p.rt.trigger(p.deps, key, OpDelete, nil)
	}
	return ok
}

func (p *setProxy) Keys() []any {
	p.track(IterateKey)

	values := p.s.Keys()
	for i, v := range values {
		values[i] = p.wrapValue(v)
	}
	return values
}

func (p *setProxy) Len() int {
	p.track(IterateKey)
	return p.s.Len()
}

func (p *setProxy) Clear() {
	if p.readonly {
		p.rt.readonlyViolation("clear", nil)
		return
	}

	had := p.s.Len() > 0
	p.s.Clear()
	if had {
		p.rt.trigger(p.deps, nil, OpClear, nil)
	}
}

func (p *setProxy) ForEach(fn func(value any)) {
	p.track(IterateKey)
	p.s.ForEach(func(value any) {
		fn(p.wrapValue(value))
	})
}

func (p *setProxy) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		p.track(IterateKey)
		for v := range p.s.Values() {
			if !yield(p.wrapValue(v)) {
				return
			}
		}
	}
}
