package internal

// Scope collects the effects, child scopes and cleanups created while it runs
// so they can be stopped together.
type Scope struct {
	ownership

	rt *Runtime

	// panic error handlers
	catchers []func(any)

	active bool
}

func (r *Runtime) NewScope() *Scope {
	s := &Scope{
		rt:     r,
		active: true,
	}

	if parent := r.tracker.CurrentOwner(); parent != nil {
		s.parent = parent
		parent.adopt(s)
	}

	return s
}

func (s *Scope) Run(fn func()) {
	if !s.active {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			if !s.catch(r) {
				panic(r)
			}
		}
	}()

	s.rt.tracker.RunWithOwner(s, fn)
}

func (s *Scope) catch(r any) bool {
	if len(s.catchers) == 0 {
		return s.ownership.catch(r)
	}

	for _, catcher := range s.catchers {
		catcher(r)
	}
	return true
}

// Stop stops owned effects and child scopes, most recent first, then runs
// the cleanups. It is idempotent.
func (s *Scope) Stop() {
	if !s.active {
		return
	}
	s.active = false

	s.dispose()
	s.detach(s)
}

func (s *Scope) Active() bool {
	return s.active
}

func (s *Scope) OnError(fn func(any)) {
	s.catchers = append(s.catchers, fn)
}
