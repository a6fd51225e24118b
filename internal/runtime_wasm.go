//go:build wasm

package internal

import "sync"

var mu sync.Mutex
var globalRuntime *Runtime

func GetRuntime() *Runtime {
	mu.Lock()
	defer mu.Unlock()

	if globalRuntime == nil {
		globalRuntime = NewRuntime(DefaultOptions())
	}

	return globalRuntime
}

func BindRuntime(r *Runtime) (restore func()) {
	mu.Lock()
	defer mu.Unlock()

	prev := globalRuntime
	globalRuntime = r

	return func() {
		mu.Lock()
		defer mu.Unlock()

		globalRuntime = prev
	}
}

func ReleaseRuntime() {
	mu.Lock()
	defer mu.Unlock()

	globalRuntime = nil
}
