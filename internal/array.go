package internal

import "iter"

// arrayProxy wraps an Array. Index keys are normalized to int, and the
// mutating helpers run untracked so reading the length while pushing never
// subscribes the caller to it.
type arrayProxy struct {
	*base
	arr Array
}

func arrayKey(key any) any {
	if i, ok := index(key); ok {
		return i
	}
	return key
}

func (p *arrayProxy) Get(key any) (any, bool) { return p.get(arrayKey(key)) }
func (p *arrayProxy) Has(key any) bool        { return p.has(arrayKey(key)) }
func (p *arrayProxy) Delete(key any) bool     { return p.delete(arrayKey(key)) }

func (p *arrayProxy) Keys() []any {
	p.track(LengthKey)
	return p.arr.Keys()
}

func (p *arrayProxy) Set(key, value any) {
	key = arrayKey(key)

	if key == LengthKey {
		n, ok := index(value)
		if !ok {
			return
		}
		p.SetLen(n)
		return
	}

	i, ok := key.(int)
	if !ok {
		p.set(key, value)
		return
	}

	if p.readonly {
		p.rt.readonlyViolation("set", i)
		return
	}

	// sequences have no negative slots
	if i < 0 {
		return
	}

	old, _ := p.arr.Get(i)
	added := i >= p.arr.Len()
	value = ToRaw(value)
	p.arr.Set(i, value)

	switch {
	case added:
		p.rt.trigger(p.deps, i, OpAdd, value)
	case hasChanged(old, value):
		p.rt.trigger(p.deps, i, OpSet, value)
	}
}

func (p *arrayProxy) Len() int {
	p.track(LengthKey)
	return p.arr.Len()
}

// SetLen truncates or extends the sequence. Truncation notifies readers of
// the removed indices as well as readers of the length.
func (p *arrayProxy) SetLen(n int) {
	if p.readonly {
		p.rt.readonlyViolation("set", LengthKey)
		return
	}

	n = max(n, 0)
	if n == p.arr.Len() {
		return
	}

	p.arr.SetLen(n)
	p.rt.trigger(p.deps, LengthKey, OpSet, n)
}

func (p *arrayProxy) At(i int) any {
	v, _ := p.get(i)
	return v
}

func (p *arrayProxy) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < p.Len(); i++ {
			if !yield(i, p.At(i)) {
				return
			}
		}
	}
}

// Values yields the elements as All does, without indices.
func (p *arrayProxy) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range p.All() {
			if !yield(v) {
				return
			}
		}
	}
}

// The search methods compare against wrapped elements first, then retry on
// the raw sequence so both a wrapper and its raw target are found.

func (p *arrayProxy) Includes(value any) bool {
	for i := 0; i < p.Len(); i++ {
		if sameValueZero(p.At(i), value) {
			return true
		}
	}
	return p.arr.Includes(ToRaw(value))
}

func (p *arrayProxy) IndexOf(value any) int {
	for i := 0; i < p.Len(); i++ {
		if strictEquals(p.At(i), value) {
			return i
		}
	}
	return p.arr.IndexOf(ToRaw(value))
}

func (p *arrayProxy) LastIndexOf(value any) int {
	for i := p.Len() - 1; i >= 0; i-- {
		if strictEquals(p.At(i), value) {
			return i
		}
	}
	return p.arr.LastIndexOf(ToRaw(value))
}

// mutate runs fn untracked, or reports a violation on a readonly wrapper.
func (p *arrayProxy) mutate(op string, fn func()) bool {
	if p.readonly {
		p.rt.readonlyViolation(op, nil)
		return false
	}

	p.rt.tracker.RunUntracked(fn)
	return true
}

func (p *arrayProxy) Push(values ...any) int {
	n := p.arr.Len()

	p.mutate("push", func() {
		for i, v := range values {
			p.Set(n+i, v)
		}
		n += len(values)
	})

	return n
}

func (p *arrayProxy) Pop() any {
	var last any

	p.mutate("pop", func() {
		n := p.Len()
		if n == 0 {
			return
		}

		last = p.At(n - 1)
		p.SetLen(n - 1)
	})

	return last
}

func (p *arrayProxy) Shift() any {
	var first any

	p.mutate("shift", func() {
		n := p.Len()
		if n == 0 {
			return
		}

		first = p.At(0)
		for k := 1; k < n; k++ {
			v, _ := p.arr.Get(k)
			p.Set(k-1, v)
		}
		p.SetLen(n - 1)
	})

	return first
}

func (p *arrayProxy) Unshift(values ...any) int {
	n := p.arr.Len()

	p.mutate("unshift", func() {
		m := len(values)
		if m == 0 {
			return
		}

		for k := n - 1; k >= 0; k-- {
			v, _ := p.arr.Get(k)
			p.Set(k+m, v)
		}
		for j, v := range values {
			p.Set(j, v)
		}
		n += m
	})

	return n
}

func (p *arrayProxy) Splice(start, deleteCount int, items ...any) []any {
	var removed []any

	p.mutate("splice", func() {
		n := p.Len()
		start, deleteCount = spliceBounds(n, start, deleteCount)

		removed = make([]any, deleteCount)
		for i := range removed {
			removed[i] = p.At(start + i)
		}

		m := len(items)
		switch {
		case m < deleteCount:
			for k := start; k < n-deleteCount; k++ {
				v, _ := p.arr.Get(k + deleteCount)
				p.Set(k+m, v)
			}
		case m > deleteCount:
			for k := n - deleteCount; k > start; k-- {
				v, _ := p.arr.Get(k + deleteCount - 1)
				p.Set(k+m-1, v)
			}
		}

		for i, item := range items {
			p.Set(start+i, item)
		}
		p.SetLen(n - deleteCount + m)
	})

	return removed
}
