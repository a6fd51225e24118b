package internal

type stopper interface {
	Stop()
}

// owner collects what is created while it runs. Scopes and effects are both
// owners: an effect stops what it owns before each re-run.
type owner interface {
	adopt(child stopper)
	release(child stopper)
	catch(r any) bool
	OnCleanup(fn func())
}

type ownership struct {
	parent owner

	// effects and scopes created while running, in creation order
	owned []stopper

	// cleanup functions to be called when the owner is disposed
	cleanups []func()
}

func (o *ownership) adopt(child stopper) {
	o.owned = append(o.owned, child)
}

func (o *ownership) release(child stopper) {
	for i, c := range o.owned {
		if c == child {
			o.owned = append(o.owned[:i], o.owned[i+1:]...)
			return
		}
	}
}

func (o *ownership) OnCleanup(fn func()) {
	o.cleanups = append(o.cleanups, fn)
}

// dispose stops owned children, most recent first, then runs the cleanups in
// registration order.
func (o *ownership) dispose() {
	owned := o.owned
	o.owned = nil

	for i := len(owned) - 1; i >= 0; i-- {
		owned[i].Stop()
	}

	cleanups := o.cleanups
	o.cleanups = nil

	for _, fn := range cleanups {
		fn()
	}
}

// catch hands a recovered panic to the nearest ancestor with error handlers.
func (o *ownership) catch(r any) bool {
	if o.parent == nil {
		return false
	}
	return o.parent.catch(r)
}

func (o *ownership) detach(self stopper) {
	if o.parent != nil {
		o.parent.release(self)
		o.parent = nil
	}
}
