//go:build !wasm

package internal

import (
	"sync"

	"github.com/petermattis/goid"
)

var runtimes sync.Map

// GetRuntime returns the runtime bound to the calling goroutine, creating a
// default one on first use. Entries are not dropped when a goroutine exits:
// short-lived goroutines should call ReleaseRuntime when done, or bind an
// explicit runtime with BindRuntime.
func GetRuntime() *Runtime {
	gid := getGID()

	if r, ok := runtimes.Load(gid); ok {
		return r.(*Runtime)
	}

	r := NewRuntime(DefaultOptions())
	runtimes.Store(gid, r)
	return r
}

// BindRuntime makes r the calling goroutine's runtime until restore is called.
func BindRuntime(r *Runtime) (restore func()) {
	gid := getGID()

	prev, had := runtimes.Load(gid)
	runtimes.Store(gid, r)

	return func() {
		if had {
			runtimes.Store(gid, prev)
		} else {
			runtimes.Delete(gid)
		}
	}
}

// ReleaseRuntime drops the calling goroutine's runtime.
func ReleaseRuntime() {
	runtimes.Delete(getGID())
}

func getGID() int64 {
	return goid.Get()
}
