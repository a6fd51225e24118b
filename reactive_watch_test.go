package reactive

import (
	"context"
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatch(t *testing.T) {
	t.Run("calls back with new and old values", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		Watch(count.Value, func(value, oldValue int, _ OnInvalidate) {
			log = append(log, fmt.Sprintf("%d -> %d", oldValue, value))
		})

		count.Set(1)
		count.Set(1)
		count.Set(2)

		assert.Equal(t, []string{"0 -> 1", "1 -> 2"}, log)
	})

	t.Run("immediate", func(t *testing.T) {
		log := []string{}

		count := NewRef(3)
		Watch(count.Value, func(value, oldValue int, _ OnInvalidate) {
			log = append(log, fmt.Sprintf("%d -> %d", oldValue, value))
		}, Immediate())

		count.Set(4)

		assert.Equal(t, []string{"0 -> 3", "3 -> 4"}, log)
	})

	t.Run("stop", func(t *testing.T) {
		calls := 0

		count := NewRef(0)
		stop := Watch(count.Value, func(int, int, OnInvalidate) { calls++ })

		count.Set(1)
		stop()
		count.Set(2)

		assert.Equal(t, 1, calls)
	})

	t.Run("invalidation cleanup", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		stop := Watch(count.Value, func(value, _ int, onInvalidate OnInvalidate) {
			log = append(log, fmt.Sprintf("call %d", value))
			onInvalidate(func() {
				log = append(log, fmt.Sprintf("invalidate %d", value))
			})
		})

		count.Set(1)
		count.Set(2)
		stop()
		stop()

		assert.Equal(t, []string{
			"call 1",
			"invalidate 1",
			"call 2",
			"invalidate 2",
		}, log)
	})

	t.Run("invalidation discards stale async results", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		loop := NewLoop(NewEngine(), 8)
		go func() { _ = loop.Run(ctx) }()

		results := []string{}
		release := map[int]chan struct{}{
			1: make(chan struct{}),
			2: make(chan struct{}),
		}
		finished := make(chan struct{}, len(release))

		var query *Ref[int]
		require.NoError(t, loop.Do(ctx, func() {
			query = NewRef(0)
			Watch(query.Value, func(value, _ int, onInvalidate OnInvalidate) {
				expired := false
				onInvalidate(func() { expired = true })

				go func() {
					<-release[value]
					_ = loop.Post(ctx, func() {
						if !expired {
							results = append(results, fmt.Sprintf("result %d", value))
						}
						finished <- struct{}{}
					})
				}()
			})
		}))

		require.NoError(t, loop.Do(ctx, func() { query.Set(1) }))
		require.NoError(t, loop.Do(ctx, func() { query.Set(2) }))

		// the first request resolves last
		close(release[2])
		<-finished
		close(release[1])
		<-finished

		var got []string
		require.NoError(t, loop.Do(ctx, func() { got = slices.Clone(results) }))

		assert.Equal(t, []string{"result 2"}, got)
	})

	t.Run("post flush waits for the batch", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		Watch(count.Value, func(value, oldValue int, _ OnInvalidate) {
			log = append(log, fmt.Sprintf("%d -> %d", oldValue, value))
		}, FlushPost())

		NewBatch(func() {
			count.Set(1)
			count.Set(2)
			log = append(log, "batched")
		})

		assert.Equal(t, []string{"batched", "0 -> 2"}, log)
	})

	t.Run("post callbacks run after queued effects", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		Watch(count.Value, func(value, _ int, _ OnInvalidate) {
			log = append(log, fmt.Sprintf("watch %d", value))
		}, FlushPost())
		NewEffect(func() {
			log = append(log, fmt.Sprintf("effect %d", count.Value()))
		}, Queued())

		NewBatch(func() { count.Set(1) })

		assert.Equal(t, []string{"effect 0", "effect 1", "watch 1"}, log)
	})

	t.Run("deep source", func(t *testing.T) {
		calls := 0

		state := Reactive(NewObject(map[string]any{
			"user": NewObject(map[string]any{"name": "ada"}),
			"tags": NewArray("a"),
		}))

		WatchTarget(state, func(value, oldValue Object, _ OnInvalidate) {
			calls++
			assert.Same(t, state, value)
			assert.Same(t, value, oldValue)
		})

		user, _ := state.Get("user")
		user.(Object).Set("name", "grace")

		tags, _ := state.Get("tags")
		tags.(Array).Push("b")

		state.Set("extra", true)

		assert.Equal(t, 3, calls)
	})

	t.Run("deep watch with a getter", func(t *testing.T) {
		calls := 0

		list := Reactive(NewArray())
		Watch(func() Array { list.Len(); return list }, func(Array, Array, OnInvalidate) {
			calls++
		}, Deep())

		list.Push(1)
		assert.Equal(t, 1, calls)
	})

	t.Run("handles cycles", func(t *testing.T) {
		calls := 0

		a := NewObject(nil)
		b := NewObject(map[string]any{"a": a})
		a.Set("b", b)

		state := Reactive(a)
		WatchTarget(state, func(Object, Object, OnInvalidate) { calls++ })

		nested, _ := state.Get("b")
		nested.(Object).Set("x", 1)

		assert.Equal(t, 1, calls)
	})
}
