package internal

type Tracker struct {
	tracking bool

	currentOwner owner     // for lifecycle/cleanup tracking
	effects      []*Effect // for reactive dependency tracking, innermost last
}

func NewTracker() *Tracker {
	return &Tracker{
		tracking: true,
	}
}

func (t *Tracker) RunWithOwner(o owner, fn func()) {
	prev := t.currentOwner
	t.currentOwner = o
	defer func() { t.currentOwner = prev }()

	fn()
}

// RunWithEffect runs fn with e as the active effect and owner. Tracking is
// re-enabled for the duration so an effect started from an untracked section
// still collects its own dependencies.
func (t *Tracker) RunWithEffect(e *Effect, fn func()) {
	prevOwner := t.currentOwner
	prevTracking := t.tracking

	t.effects = append(t.effects, e)
	t.currentOwner = e
	t.tracking = true

	defer func() {
		t.effects[len(t.effects)-1] = nil
		t.effects = t.effects[:len(t.effects)-1]
		t.currentOwner = prevOwner
		t.tracking = prevTracking
	}()

	fn()
}

func (t *Tracker) RunUntracked(fn func()) {
	prev := t.tracking
	t.tracking = false
	defer func() { t.tracking = prev }()

	fn()
}

func (t *Tracker) ActiveEffect() *Effect {
	if len(t.effects) == 0 {
		return nil
	}
	return t.effects[len(t.effects)-1]
}

func (t *Tracker) CurrentOwner() owner {
	return t.currentOwner
}

func (t *Tracker) ShouldTrack() bool {
	return t.tracking && len(t.effects) > 0
}
