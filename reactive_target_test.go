package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

type profile struct {
	Object
}

func TestReactive(t *testing.T) {
	t.Run("identity", func(t *testing.T) {
		raw := NewObject(map[string]any{"a": 1})

		obs := Reactive(raw)
		assert.Same(t, obs, Reactive(raw))
		assert.Same(t, obs, Reactive(obs))
		assert.Same(t, raw, ToRaw(obs))

		assert.True(t, IsReactive(obs))
		assert.True(t, IsProxy(obs))
		assert.False(t, IsReactive(raw))
	})

	t.Run("nested targets are wrapped on read", func(t *testing.T) {
		log := []string{}

		state := Reactive(NewObject(map[string]any{
			"user": NewObject(map[string]any{"name": "ada"}),
		}))

		NewEffect(func() {
			user, _ := state.Get("user")
			name, _ := user.(Object).Get("name")
			log = append(log, name.(string))
		})

		user, _ := state.Get("user")
		assert.True(t, IsReactive(user))
		user.(Object).Set("name", "grace")

		assert.Equal(t, []string{"ada", "grace"}, log)
	})

	t.Run("writes store raw targets", func(t *testing.T) {
		raw := NewObject(nil)
		nested := NewObject(nil)

		Reactive(raw).Set("nested", Reactive(nested))

		v, _ := raw.Get("nested")
		assert.Same(t, nested, v)
	})

	t.Run("shallow", func(t *testing.T) {
		runs := 0

		state := ShallowReactive(NewObject(map[string]any{
			"nested": NewObject(map[string]any{"a": 1}),
		}))

		nested, _ := state.Get("nested")
		assert.False(t, IsReactive(nested))
		assert.True(t, IsShallow(state))

		NewEffect(func() {
			runs++
			n, _ := state.Get("nested")
			n.(Object).Get("a")
		})

		nested.(Object).Set("a", 2)
		state.Set("nested", NewObject(nil))

		assert.Equal(t, 2, runs)
	})

	t.Run("readonly is deep and does not track", func(t *testing.T) {
		runs := 0

		raw := NewObject(map[string]any{"nested": NewObject(map[string]any{"a": 1})})
		ro := Readonly(raw)

		nested, _ := ro.Get("nested")
		assert.True(t, IsReadonly(nested))

		NewEffect(func() {
			runs++
			ro.Get("nested")
		})

		Reactive(raw).Set("nested", nil)
		nested.(Object).Set("a", 2)

		assert.Equal(t, 1, runs)
		assert.True(t, ro.Has("nested"))
	})

	t.Run("readonly view of a reactive target tracks through it", func(t *testing.T) {
		log := []string{}

		state := Reactive(NewObject(map[string]any{"a": 1}))
		view := Readonly(state)

		NewEffect(func() {
			v, _ := view.Get("a")
			log = append(log, fmt.Sprint(v))
		})

		state.Set("a", 2)
		view.Set("a", 3)

		assert.Equal(t, []string{"1", "2"}, log)
		assert.True(t, IsReactive(view))
	})

	t.Run("shallow readonly", func(t *testing.T) {
		ro := ShallowReadonly(NewObject(map[string]any{"nested": NewObject(nil)}))

		nested, _ := ro.Get("nested")
		assert.False(t, IsProxy(nested))

		nested.(Object).Set("a", 1)
		ro.Set("b", 1)
		assert.False(t, ro.Has("b"))
	})

	t.Run("mark raw", func(t *testing.T) {
		skipped := MarkRaw(NewObject(nil))
		state := Reactive(NewObject(map[string]any{"skipped": skipped}))

		v, _ := state.Get("skipped")
		assert.False(t, IsProxy(v))
		assert.False(t, IsProxy(Reactive(skipped)))
	})

	t.Run("concrete types cannot hold a wrapper", func(t *testing.T) {
		c := &profile{NewObject(nil)}
		assert.Same(t, c, Reactive(c))
	})
}

func TestArray(t *testing.T) {
	t.Run("effects pushing to the same array do not loop", func(t *testing.T) {
		list := Reactive(NewArray())

		NewEffect(func() { list.Push(1) })
		NewEffect(func() { list.Push(2) })

		assert.Equal(t, 2, list.Len())
	})

	t.Run("length readers see pushes and pops", func(t *testing.T) {
		log := []int{}

		list := Reactive(NewArray())
		NewEffect(func() { log = append(log, list.Len()) })

		list.Push("a", "b")
		list.Pop()
		list.Shift()

		assert.Equal(t, []int{0, 1, 2, 1, 0}, log)
	})

	t.Run("iteration", func(t *testing.T) {
		log := []string{}

		list := Reactive(NewArray(1, 2))
		NewEffect(func() {
			sum := 0
			for _, v := range list.All() {
				sum += v.(int)
			}
			log = append(log, fmt.Sprint(sum))
		})

		list.Set(0, 10)
		list.Splice(1, 1)

		assert.Equal(t, []string{"3", "12", "10"}, log)
	})
}

func TestCollections(t *testing.T) {
	t.Run("map", func(t *testing.T) {
		log := []string{}

		m := Reactive(NewMap())
		NewEffect(func() {
			v, ok := m.Get("k")
			log = append(log, fmt.Sprintf("%v %v size=%d", v, ok, m.Len()))
		})

		m.Set("k", 1)
		m.Set("other", 2)
		m.Delete("k")

		assert.Equal(t, []string{
			"<nil> false size=0",
			"1 true size=1",
			"1 true size=2",
			"<nil> false size=1",
		}, log)
	})

	t.Run("set", func(t *testing.T) {
		log := []int{}

		s := Reactive(NewSet())
		NewEffect(func() { log = append(log, s.Len()) })

		s.Add("a")
		s.Add("a")
		s.Add("b")
		s.Clear()

		assert.Equal(t, []int{0, 1, 2, 0}, log)
	})

	t.Run("readonly collections", func(t *testing.T) {
		m := Readonly(NewMap())
		m.Set("k", 1)
		assert.False(t, m.Has("k"))

		s := Readonly(NewSet())
		s.Add(1)
		assert.Equal(t, 0, s.Len())
	})
}
