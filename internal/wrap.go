package internal

import "reflect"

func (r *Runtime) Reactive(t Target) Target {
	return r.wrap(t, false, false)
}

func (r *Runtime) ShallowReactive(t Target) Target {
	return r.wrap(t, true, false)
}

func (r *Runtime) Readonly(t Target) Target {
	return r.wrap(t, false, true)
}

func (r *Runtime) ShallowReadonly(t Target) Target {
	return r.wrap(t, true, true)
}

// MarkRaw excludes t from wrapping: every wrap entry point returns it as is.
func (r *Runtime) MarkRaw(t Target) Target {
	r.store.markRaw(t)
	return t
}

func isNilTarget(t Target) bool {
	if t == nil {
		return true
	}

	rv := reflect.ValueOf(t)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// wrap returns the cached wrapper of t for the requested variant, creating it
// on first use.
//
// An existing wrapper is returned unchanged when a mutable wrapper is asked
// for, and when a readonly one is asked for and it already is readonly. A
// readonly view of a mutable wrapper decorates that wrapper, so reads
// through the view still track.
func (r *Runtime) wrap(t Target, shallow, readonly bool) Target {
	if isNilTarget(t) {
		return t
	}

	if w, ok := t.(wrapper); ok {
		b := w.proxyBase()
		if !readonly || b.readonly {
			return t
		}
	}

	if r.store.isMarkedRaw(t) {
		return t
	}

	v := variantOf(shallow, readonly)
	if b := r.store.cachedProxy(v, t); b != nil {
		return b.self
	}

	b := &base{
		rt:       r,
		target:   t,
		deps:     r.store.depsFor(t),
		shallow:  shallow,
		readonly: readonly,
	}

	switch x := t.(type) {
	case Array:
		b.self = &arrayProxy{base: b, arr: x}
	case Set:
		b.self = &setProxy{base: b, s: x}
	case Map:
		b.self = &mapProxy{base: b, m: x}
	default:
		b.self = &objectProxy{base: b}
	}

	r.store.cacheProxy(v, t, b)

	return b.self
}

// ToRaw strips every wrapper layer from v.
func ToRaw(v any) any {
	for {
		w, ok := v.(wrapper)
		if !ok {
			return v
		}
		v = w.Raw()
	}
}

// RawTarget is ToRaw for targets.
func RawTarget(t Target) Target {
	raw, _ := ToRaw(t).(Target)
	return raw
}

func IsProxy(v any) bool {
	_, ok := v.(wrapper)
	return ok
}

// IsReactive reports whether v is a mutable wrapper, or a readonly view
// of one.
func IsReactive(v any) bool {
	w, ok := v.(wrapper)
	if !ok {
		return false
	}

	b := w.proxyBase()
	if b.readonly {
		return IsReactive(b.target)
	}
	return true
}

func IsReadonly(v any) bool {
	w, ok := v.(wrapper)
	return ok && w.proxyBase().readonly
}

func IsShallow(v any) bool {
	w, ok := v.(wrapper)
	return ok && w.proxyBase().shallow
}
