package internal

// RefLike is a single observable value cell.
type RefLike interface {
	RefValue() any
	SetRefValue(value any)
}

// Ref reads and writes through a pair of accessors. A standalone ref boxes
// its value in a reactive record; a property ref forwards to a key of an
// existing target.
type Ref struct {
	get func() any
	set func(any)
}

func (r *Runtime) NewRef(value any) *Ref {
	box := r.Reactive(NewObject(map[string]any{ValueKey: value}))

	return &Ref{
		get: func() any {
			v, _ := box.Get(ValueKey)
			return v
		},
		set: func(v any) {
			box.Set(ValueKey, v)
		},
	}
}

// ToRef returns a ref bound to key of obj. Reads and writes go through obj,
// so they track and trigger whenever obj does.
func ToRef(obj Target, key any) *Ref {
	return &Ref{
		get: func() any {
			v, _ := obj.Get(key)
			return v
		},
		set: func(v any) {
			obj.Set(key, v)
		},
	}
}

// ToRefs returns a plain record holding one property ref per key of obj.
func ToRefs(obj Target) Object {
	refs := NewObject(nil)
	for _, key := range obj.Keys() {
		refs.Set(key, ToRef(obj, key))
	}
	return refs
}

func (r *Ref) RefValue() any { return r.get() }

func (r *Ref) SetRefValue(value any) { r.set(value) }

func IsRef(v any) bool {
	_, ok := v.(RefLike)
	return ok
}

// Unref returns the value of a ref, or v itself.
func Unref(v any) any {
	if ref, ok := v.(RefLike); ok {
		return ref.RefValue()
	}
	return v
}

// refsProxy reads ref-valued keys as their values and writes through them.
type refsProxy struct {
	target Target
}

// ProxyRefs decorates obj so ref-valued keys read and write as plain values.
func ProxyRefs(obj Target) Object {
	if p, ok := obj.(*refsProxy); ok {
		return p
	}
	return &refsProxy{target: obj}
}

func (p *refsProxy) Get(key any) (any, bool) {
	v, ok := p.target.Get(key)
	return Unref(v), ok
}

func (p *refsProxy) Set(key, value any) {
	if old, ok := p.target.Get(key); ok {
		if ref, isRef := old.(RefLike); isRef && !IsRef(value) {
			ref.SetRefValue(value)
			return
		}
	}
	p.target.Set(key, value)
}

func (p *refsProxy) Has(key any) bool    { return p.target.Has(key) }
func (p *refsProxy) Keys() []any         { return p.target.Keys() }
func (p *refsProxy) Delete(key any) bool { return p.target.Delete(key) }
