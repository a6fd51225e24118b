package reactive

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputed(t *testing.T) {
	t.Run("derives value from a target", func(t *testing.T) {
		log := []string{}

		state := Reactive(NewObject(map[string]any{"count": 1}))
		double := NewComputed(func() int {
			v, _ := state.Get("count")
			return v.(int) * 2
		})

		NewEffect(func() {
			log = append(log, fmt.Sprintf("double %d", double.Value()))
		})

		state.Set("count", 2)
		state.Set("count", 3)

		assert.Equal(t, []string{
			"double 2",
			"double 4",
			"double 6",
		}, log)
	})

	t.Run("is lazy and cached", func(t *testing.T) {
		runs := 0

		count := NewRef(1)
		double := NewComputed(func() int {
			runs++
			return count.Value() * 2
		})
		assert.Equal(t, 0, runs)

		assert.Equal(t, 2, double.Value())
		assert.Equal(t, 2, double.Value())
		assert.Equal(t, 1, runs)

		count.Set(2)
		count.Set(3)
		assert.Equal(t, 1, runs)

		assert.Equal(t, 6, double.Value())
		assert.Equal(t, 2, runs)
	})

	t.Run("chains", func(t *testing.T) {
		count := NewRef(1)
		double := NewComputed(func() int { return count.Value() * 2 })
		plusTwo := NewComputed(func() int { return double.Value() + 2 })

		assert.Equal(t, 4, plusTwo.Value())

		count.Set(10)
		assert.Equal(t, 22, plusTwo.Value())
	})

	t.Run("notifies readers once per invalidation", func(t *testing.T) {
		runs := 0

		state := Reactive(NewObject(map[string]any{"a": 1, "b": 1}))
		sum := NewComputed(func() int {
			a, _ := state.Get("a")
			b, _ := state.Get("b")
			return a.(int) + b.(int)
		})

		NewEffect(func() {
			runs++
			sum.Value()
		}, Queued())

		NewBatch(func() {
			state.Set("a", 2)
			state.Set("b", 2)
		})

		assert.Equal(t, 2, runs)
		assert.Equal(t, 4, sum.Value())
	})

	t.Run("stop keeps the last value", func(t *testing.T) {
		count := NewRef(1)
		double := NewComputed(func() int { return count.Value() * 2 })

		assert.Equal(t, 2, double.Value())

		double.Stop()
		count.Set(5)

		assert.Equal(t, 2, double.Value())
	})

	t.Run("is a read-only ref", func(t *testing.T) {
		var reported []error
		e := NewEngine(WithDiagnostics(func(err error) { reported = append(reported, err) }))
		e.Run(func() {
			double := NewComputed(func() int { return 2 })

			assert.True(t, IsRef(double))
			assert.Equal(t, 2, Unref(double))

			double.SetRefValue(3)
			assert.Equal(t, 2, double.Value())
		})

		assert.Len(t, reported, 1)
	})

	t.Run("disposes nested effects on recompute", func(t *testing.T) {
		log := []string{}

		count := NewRef(0)
		c := NewComputed(func() int {
			v := count.Value()

			NewEffect(func() {
				log = append(log, fmt.Sprintf("nested %d", v))
				OnCleanup(func() { log = append(log, fmt.Sprintf("cleanup %d", v)) })
			})

			return v
		})

		c.Value()
		count.Set(1)
		c.Value()

		assert.Equal(t, []string{"nested 0", "cleanup 0", "nested 1"}, log)
	})
}
