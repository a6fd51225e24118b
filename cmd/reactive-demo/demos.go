package main

import (
	"fmt"
	"io"

	"github.com/AnatoleLucet/reactive"
	"github.com/spf13/cobra"
)

func demoCmd(flags *globalFlags, use, short string, scenario func(w io.Writer)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd.Context(), flags)
			if err != nil {
				return err
			}

			return s.run(cmd.Context(), func() { scenario(cmd.OutOrStdout()) })
		},
	}
}

func effectCmd(flags *globalFlags) *cobra.Command {
	return demoCmd(flags, "effect", "Re-run an effect when the record it reads changes", effectDemo)
}

func computedCmd(flags *globalFlags) *cobra.Command {
	return demoCmd(flags, "computed", "Derive a cached value from a ref", computedDemo)
}

func watchCmd(flags *globalFlags) *cobra.Command {
	return demoCmd(flags, "watch", "Watch a getter and a whole record", watchDemo)
}

func arrayCmd(flags *globalFlags) *cobra.Command {
	return demoCmd(flags, "array", "Observe an array and a map", arrayDemo)
}

func effectDemo(w io.Writer) {
	user := reactive.Reactive(reactive.NewObject(map[string]any{"name": "ada", "visits": 0}))

	reactive.NewEffect(func() {
		name, _ := user.Get("name")
		visits, _ := user.Get("visits")
		fmt.Fprintf(w, "%v has %v visits\n", name, visits)

		reactive.OnCleanup(func() { fmt.Fprintln(w, "  (cleanup)") })
	}, reactive.Queued())

	reactive.Flush()

	user.Set("visits", 1)
	user.Set("visits", 2)
	reactive.Flush()

	reactive.NewBatch(func() {
		user.Set("name", "grace")
		user.Set("visits", 0)
	})
}

func computedDemo(w io.Writer) {
	count := reactive.NewRef(1)
	double := reactive.NewComputed(func() int {
		fmt.Fprintln(w, "  computing double")
		return count.Value() * 2
	})

	fmt.Fprintf(w, "double = %d\n", double.Value())
	fmt.Fprintf(w, "double = %d (cached)\n", double.Value())

	count.Set(5)
	fmt.Fprintf(w, "double = %d\n", double.Value())
}

func watchDemo(w io.Writer) {
	count := reactive.NewRef(0)
	stop := reactive.Watch(count.Value, func(value, oldValue int, onInvalidate reactive.OnInvalidate) {
		fmt.Fprintf(w, "count %d -> %d\n", oldValue, value)
		onInvalidate(func() { fmt.Fprintf(w, "  invalidate %d\n", value) })
	})

	count.Set(1)
	count.Set(2)
	stop()

	settings := reactive.Reactive(reactive.NewObject(map[string]any{
		"theme": reactive.NewObject(map[string]any{"dark": false}),
	}))
	reactive.WatchTarget(settings, func(reactive.Object, reactive.Object, reactive.OnInvalidate) {
		fmt.Fprintln(w, "settings changed")
	}, reactive.FlushPost())

	theme, _ := settings.Get("theme")
	theme.(reactive.Object).Set("dark", true)
}

func arrayDemo(w io.Writer) {
	todos := reactive.Reactive(reactive.NewArray())
	reactive.NewEffect(func() {
		fmt.Fprintf(w, "%d todos\n", todos.Len())
	})

	todos.Push("write", "test")
	todos.Shift()

	index := reactive.Reactive(reactive.NewMap())
	reactive.NewEffect(func() {
		fmt.Fprintf(w, "index has %d entries\n", index.Len())
	})

	reactive.NewBatch(func() {
		for i, v := range todos.All() {
			index.Set(v, i)
		}
	})
}
