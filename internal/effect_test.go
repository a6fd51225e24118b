package internal

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrigger(t *testing.T) {
	t.Run("notifies each effect once, in subscription order", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))

		for _, name := range []string{"first", "second"} {
			r.NewEffect(func() any {
				obj.Get("a")
				obj.Get("a")
				log = append(log, name)
				return nil
			}, EffectOptions{})
		}

		obj.Set("a", 2)

		assert.Equal(t, []string{"first", "second", "first", "second"}, log)
	})

	t.Run("skips unchanged writes", func(t *testing.T) {
		r := newTestRuntime(t)
		runs := 0

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))
		r.NewEffect(func() any {
			runs++
			v, _ := obj.Get("a")
			return v
		}, EffectOptions{})

		obj.Set("a", 1)
		assert.Equal(t, 1, runs)
	})

	t.Run("key additions notify iteration", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))
		r.NewEffect(func() any {
			log = append(log, fmt.Sprint(obj.Keys()))
			return nil
		}, EffectOptions{})

		obj.Set("b", 2)
		obj.Set("b", 3)
		obj.Delete("a")

		assert.Equal(t, []string{"[a]", "[a b]", "[b]"}, log)
	})

	t.Run("clear notifies every key", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		m := r.Reactive(NewMap()).(Map)
		m.Set("a", 1)

		r.NewEffect(func() any {
			v, ok := m.Get("a")
			log = append(log, fmt.Sprintf("%v %v", v, ok))
			return nil
		}, EffectOptions{})

		m.Clear()

		assert.Equal(t, []string{"1 true", "<nil> false"}, log)
	})

	t.Run("the running effect does not re-trigger itself", func(t *testing.T) {
		r := newTestRuntime(t)
		runs := 0

		obj := r.Reactive(NewObject(map[string]any{"n": 0}))
		r.NewEffect(func() any {
			runs++
			v, _ := obj.Get("n")
			obj.Set("n", v.(int)+1)
			return nil
		}, EffectOptions{})

		v, _ := obj.Get("n")
		assert.Equal(t, 1, v)
		assert.Equal(t, 1, runs)
	})

	t.Run("scheduler replaces the re-run", func(t *testing.T) {
		r := newTestRuntime(t)
		scheduled := 0

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))
		runs := 0
		e := r.NewEffect(func() any {
			runs++
			obj.Get("a")
			return nil
		}, EffectOptions{Scheduler: func(*Effect) { scheduled++ }})

		obj.Set("a", 2)
		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, scheduled)

		e.Run()
		assert.Equal(t, 2, runs)
	})
}

func TestEffectDependencies(t *testing.T) {
	t.Run("only the last run's reads are dependencies", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		obj := r.Reactive(NewObject(map[string]any{"ok": true, "text": "hello"}))
		r.NewEffect(func() any {
			if ok, _ := obj.Get("ok"); ok.(bool) {
				text, _ := obj.Get("text")
				log = append(log, text.(string))
			} else {
				log = append(log, "off")
			}
			return nil
		}, EffectOptions{})

		obj.Set("ok", false)
		obj.Set("text", "ignored")

		assert.Equal(t, []string{"hello", "off"}, log)
	})

	t.Run("stop detaches and calls OnStop once", func(t *testing.T) {
		r := newTestRuntime(t)
		runs, stops := 0, 0

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))
		e := r.NewEffect(func() any {
			runs++
			obj.Get("a")
			return nil
		}, EffectOptions{OnStop: func() { stops++ }})

		e.Stop()
		e.Stop()
		obj.Set("a", 2)

		assert.Equal(t, 1, runs)
		assert.Equal(t, 1, stops)
		assert.False(t, e.Active())

		// a stopped effect still runs on demand, untracked
		e.Run()
		assert.Equal(t, 2, runs)
	})

	t.Run("untracked reads", func(t *testing.T) {
		r := newTestRuntime(t)
		runs := 0

		obj := r.Reactive(NewObject(map[string]any{"a": 1}))
		r.NewEffect(func() any {
			runs++
			r.Untrack(func() { obj.Get("a") })
			return nil
		}, EffectOptions{})

		obj.Set("a", 2)
		assert.Equal(t, 1, runs)
	})

	t.Run("nested effects are stopped when the parent re-runs", func(t *testing.T) {
		r := newTestRuntime(t)
		log := []string{}

		parent := r.Reactive(NewObject(map[string]any{"p": 0}))
		child := r.Reactive(NewObject(map[string]any{"c": 0}))

		r.NewEffect(func() any {
			parent.Get("p")
			log = append(log, "parent")

			r.NewEffect(func() any {
				child.Get("c")
				log = append(log, "child")

				r.OnCleanup(func() { log = append(log, "child cleanup") })
				return nil
			}, EffectOptions{})
			return nil
		}, EffectOptions{})

		parent.Set("p", 1)
		child.Set("c", 1)

		assert.Equal(t, []string{
			"parent",
			"child",
			"child cleanup",
			"parent",
			"child",
			"child cleanup",
			"child",
		}, log)
	})
}
