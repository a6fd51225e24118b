package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapProxy(t *testing.T) {
	t.Run("adding a key notifies readers of that key", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		m := r.Reactive(NewMap()).(Map)
		r.NewEffect(func() any {
			v, ok := m.Get("k")
			log = append(log, fmt.Sprintf("%v %v", v, ok))
			return nil
		}, EffectOptions{})

		m.Set("k", 1)
		m.Set("k", 1)
		m.Delete("k")

		assert.Equal(t, []string{"<nil> false", "1 true", "<nil> false"}, log)
	})

	t.Run("value changes notify iteration but not key listing", func(t *testing.T) {
		r := newTestRuntime(t)
		sizes, keys := 0, 0

		m := r.Reactive(NewMap()).(Map)
		m.Set("a", 1)

		r.NewEffect(func() any {
			sizes++
			m.Len()
			return nil
		}, EffectOptions{})
		r.NewEffect(func() any {
			keys++
			m.Keys()
			return nil
		}, EffectOptions{})

		m.Set("a", 2)
		assert.Equal(t, 2, sizes)
		assert.Equal(t, 1, keys)

		m.Set("b", 1)
		assert.Equal(t, 3, sizes)
		assert.Equal(t, 2, keys)
	})

	t.Run("wrapped keys are unwrapped", func(t *testing.T) {
		r := newTestRuntime(t)

		key := NewObject(nil)
		m := r.Reactive(NewMap()).(Map)

		m.Set(r.Reactive(key), "v")

		raw := RawTarget(m).(Map)
		v, ok := raw.Get(key)
		assert.True(t, ok)
		assert.Equal(t, "v", v)
	})

	t.Run("nested values are wrapped", func(t *testing.T) {
		r := newTestRuntime(t)

		m := r.Reactive(NewMap()).(Map)
		m.Set("nested", NewObject(nil))

		v, _ := m.Get("nested")
		assert.True(t, IsReactive(v))

		for _, value := range m.Entries() {
			assert.True(t, IsReactive(value))
		}
	})
}

func TestSetProxy(t *testing.T) {
	t.Run("add and delete notify membership and size", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		s := r.Reactive(NewSet()).(Set)
		r.NewEffect(func() any {
			log = append(log, fmt.Sprintf("has=%v len=%d", s.Has("x"), s.Len()))
			return nil
		}, EffectOptions{})

		s.Add("x")
		s.Add("x")
		s.Delete("x")
		s.Delete("x")

		assert.Equal(t, []string{"has=false len=0", "has=true len=1", "has=false len=0"}, log)
	})

	t.Run("clear", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []int{}

		s := r.Reactive(NewSet(1, 2)).(Set)
		r.NewEffect(func() any {
			n := 0
			s.ForEach(func(any) { n++ })
			log = append(log, n)
			return nil
		}, EffectOptions{})

		s.Clear()
		s.Clear()

		assert.Equal(t, []int{2, 0}, log)
	})

	t.Run("readonly sets", func(t *testing.T) {
		r := newTestRuntime(t)

		s := r.Readonly(NewSet(1)).(Set)
		s.Add(2)
		s.Clear()

		assert.Equal(t, 1, s.Len())
	})
}
