//go:build !wasm

package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReleaseRuntime(t *testing.T) {
	var gid int64
	done := make(chan struct{})

	go func() {
		defer close(done)

		gid = getGID()
		GetRuntime()
		ReleaseRuntime()
	}()
	<-done

	_, ok := runtimes.Load(gid)
	assert.False(t, ok)
}
