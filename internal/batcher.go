package internal

// Batcher groups writes into one synchronous phase. Jobs queued while a batch
// is open wait for the outermost batch to close.
type Batcher struct {
	depth int

	// called when the outermost batch closes normally
	flush func()
}

func NewBatcher(flush func()) *Batcher {
	return &Batcher{flush: flush}
}

func (b *Batcher) IsBatching() bool {
	return b.depth > 0
}

// Batch runs fn one level deeper. A panic escaping the outermost batch skips
// the flush and leaves the queue for the next one.
func (b *Batcher) Batch(fn func()) {
	b.depth++

	completed := false
	defer func() {
		b.depth--
		if b.depth == 0 && completed && b.flush != nil {
			b.flush()
		}
	}()

	fn()
	completed = true
}

// NewBatch runs fn as one synchronous phase: jobs queued inside it are
// flushed once the outermost batch returns.
func (r *Runtime) NewBatch(fn func()) {
	r.batcher.Batch(fn)
}
