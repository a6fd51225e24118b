package internal

import (
	"reflect"
	"runtime"
	"slices"
	"sync"
	"weak"

	"github.com/AnatoleLucet/reactive/internal/logger"
	"github.com/AnatoleLucet/reactive/internal/metrics"
)

// Reserved keys. They are unexported pointer-shaped values so no user key can
// collide with them.
type reservedKey struct{ name string }

func (k *reservedKey) String() string { return k.name }

var (
	// IterateKey stands for "the set of keys / entries" of a target.
	IterateKey any = &reservedKey{"iterate"}
	// MapKeyIterateKey stands for "the set of keys" of an associative collection.
	MapKeyIterateKey any = &reservedKey{"map-key-iterate"}
)

const (
	// LengthKey addresses the length of an Array.
	LengthKey = "length"
	// ValueKey is the key refs and computed values are tracked under.
	ValueKey = "value"
)

// Op is the kind of mutation a trigger reports.
type Op int

const (
	OpSet Op = iota
	OpAdd
	OpDelete
	OpClear
)

func (o Op) String() string {
	switch o {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpDelete:
		return "delete"
	case OpClear:
		return "clear"
	}
	return "unknown"
}

// dep is the ordered set of effects depending on one (target, key) pair.
type dep struct {
	// keeps the owning entry alive while an effect still depends on it
	owner *keyDeps

	effects []*Effect
}

func (d *dep) add(e *Effect) bool {
	if slices.Contains(d.effects, e) {
		return false
	}

	d.effects = append(d.effects, e)
	return true
}

func (d *dep) remove(e *Effect) {
	if i := slices.Index(d.effects, e); i >= 0 {
		d.effects = slices.Delete(d.effects, i, i+1)
	}
}

// keyDeps maps the keys of one target to their deps, in first-tracked order.
type keyDeps struct {
	kind targetKind

	keys []any
	deps map[any]*dep
}

func newKeyDeps(kind targetKind) *keyDeps {
	return &keyDeps{
		kind: kind,
		deps: make(map[any]*dep),
	}
}

func (k *keyDeps) get(key any) *dep {
	return k.deps[key]
}

func (k *keyDeps) getOrCreate(key any) *dep {
	if d, ok := k.deps[key]; ok {
		return d
	}

	d := &dep{owner: k}
	k.deps[key] = d
	k.keys = append(k.keys, key)
	return d
}

type variant int

const (
	variantReactive variant = iota
	variantShallowReactive
	variantReadonly
	variantShallowReadonly

	variantCount
)

func variantOf(shallow, readonly bool) variant {
	switch {
	case shallow && readonly:
		return variantShallowReadonly
	case readonly:
		return variantReadonly
	case shallow:
		return variantShallowReactive
	}
	return variantReactive
}

// store indexes dependency entries and wrapper caches by target identity.
//
// Targets are held through weak handles and each entry is removed by a
// cleanup once its target is unreachable. Entries themselves are only weakly
// referenced here: wrappers of the target and effects depending on it keep
// them alive.
//
// Cleanups run on a runtime goroutine, hence the mutex. Everything else in
// the engine runs on the goroutine owning the Runtime.
type store struct {
	mu sync.Mutex

	entries    map[any]weak.Pointer[keyDeps]
	proxies    [variantCount]map[any]weak.Pointer[base]
	rawMarks   map[any]struct{}
	registered map[any]struct{}

	log     logger.Logger
	metrics *metrics.Collector
}

func newStore(log logger.Logger, m *metrics.Collector) *store {
	s := &store{
		entries:    make(map[any]weak.Pointer[keyDeps]),
		rawMarks:   make(map[any]struct{}),
		registered: make(map[any]struct{}),
		log:        log,
		metrics:    m,
	}
	for i := range s.proxies {
		s.proxies[i] = make(map[any]weak.Pointer[base])
	}
	return s
}

// handleOf returns the identity handle of v. Pointer-shaped values get a weak
// handle plus the pointer to watch; other comparable values are their own
// (strong) handle. Uncomparable non-pointer values have no identity.
func handleOf(v any) (any, *byte) {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		p := (*byte)(rv.UnsafePointer())
		return weak.Make(p), p
	}

	if rv.Type().Comparable() {
		return v, nil
	}
	return nil, nil
}

// register arranges for the entries of h to be dropped once p is collected.
// Callers hold s.mu.
func (s *store) register(h any, p *byte) {
	if p == nil {
		return
	}
	if _, ok := s.registered[h]; ok {
		return
	}

	s.registered[h] = struct{}{}
	runtime.AddCleanup(p, s.forget, h)
}

func (s *store) forget(h any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[h]; ok {
		delete(s.entries, h)
		s.metrics.StoreTargets.Dec()
	}
	for i := range s.proxies {
		delete(s.proxies[i], h)
	}
	delete(s.rawMarks, h)
	delete(s.registered, h)

	s.log.Debugf("store: released entries of a collected target")
}

// depsFor returns the dependency entry of t, creating it on first use.
func (s *store) depsFor(t Target) *keyDeps {
	h, p := handleOf(t)
	if h == nil {
		s.log.Debugf("store: target %T has no stable identity, dependencies are private to this wrapper", t)
		return newKeyDeps(kindOf(t))
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	wp, ok := s.entries[h]
	if ok {
		if kd := wp.Value(); kd != nil {
			return kd
		}
	} else {
		s.metrics.StoreTargets.Inc()
	}

	kd := newKeyDeps(kindOf(t))
	s.entries[h] = weak.Make(kd)
	s.register(h, p)

	return kd
}

// lookup returns the live entry of t without creating one.
func (s *store) lookup(t Target) *keyDeps {
	h, _ := handleOf(t)
	if h == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if wp, ok := s.entries[h]; ok {
		return wp.Value()
	}
	return nil
}

func (s *store) cachedProxy(v variant, t Target) *base {
	h, _ := handleOf(t)
	if h == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if wp, ok := s.proxies[v][h]; ok {
		return wp.Value()
	}
	return nil
}

func (s *store) cacheProxy(v variant, t Target, b *base) {
	h, p := handleOf(t)
	if h == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.proxies[v][h] = weak.Make(b)
	s.register(h, p)
}

func (s *store) markRaw(t Target) {
	h, p := handleOf(t)
	if h == nil {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rawMarks[h] = struct{}{}
	s.register(h, p)
}

func (s *store) isMarkedRaw(t Target) bool {
	h, _ := handleOf(t)
	if h == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.rawMarks[h]
	return ok
}

// size returns the number of targets with a dependency entry.
func (s *store) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.entries)
}
