package reactive

import (
	"github.com/AnatoleLucet/reactive/internal"
)

type (
	// Target is anything the engine can wrap: a record, an Array, a Map or a Set.
	Target = internal.Target
	Object = internal.Object
	Array  = internal.Array
	Map    = internal.Map
	Set    = internal.Set

	// RefLike is implemented by refs and computed values.
	RefLike = internal.RefLike
)

// IterateKey and MapKeyIterateKey are the reserved keys iteration is tracked under.
var (
	IterateKey       = internal.IterateKey
	MapKeyIterateKey = internal.MapKeyIterateKey
)

const LengthKey = internal.LengthKey

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}

	if t, ok := v.(T); ok {
		return t
	}

	// wrapped values only satisfy interface types
	return internal.ToRaw(v).(T)
}

// NewObject creates a plain record from fields. Wrap it with Reactive to observe it.
func NewObject(fields map[string]any) Object { return internal.NewObject(fields) }

// NewArray creates a plain ordered sequence.
func NewArray(items ...any) Array { return internal.NewArray(items...) }

// NewMap creates a plain associative collection. Keys must be comparable.
func NewMap() Map { return internal.NewMap() }

// NewSet creates a plain distinct-value collection. Values must be comparable.
func NewSet(values ...any) Set { return internal.NewSet(values...) }

func cast[T Target](target T, wrapped Target) T {
	if w, ok := wrapped.(T); ok {
		return w
	}

	internal.GetRuntime().Logger().Warnf("cannot wrap %T: declare it with an interface type such as Object or Array", target)
	return target
}

// Reactive returns the deep observable wrapper of target. Nested targets read
// through it are wrapped too. The same target always yields the same wrapper.
//
// T should be an interface type (Object, Array, Map, Set or your own
// interface embedding Target); a concrete type cannot hold the wrapper and
// target is returned unwrapped.
func Reactive[T Target](target T) T {
	return cast(target, internal.GetRuntime().Reactive(target))
}

// ShallowReactive is Reactive without wrapping nested targets.
func ShallowReactive[T Target](target T) T {
	return cast(target, internal.GetRuntime().ShallowReactive(target))
}

// Readonly returns a deep read-only view of target. Writes through it are
// ignored and reported.
func Readonly[T Target](target T) T {
	return cast(target, internal.GetRuntime().Readonly(target))
}

// ShallowReadonly is Readonly without wrapping nested targets.
func ShallowReadonly[T Target](target T) T {
	return cast(target, internal.GetRuntime().ShallowReadonly(target))
}

// MarkRaw excludes target from wrapping.
func MarkRaw[T Target](target T) T {
	internal.GetRuntime().MarkRaw(target)
	return target
}

// ToRaw returns the target behind every wrapper layer of v, or v itself.
func ToRaw[T any](v T) T {
	return as[T](internal.ToRaw(v))
}

func IsReactive(v any) bool { return internal.IsReactive(v) }
func IsReadonly(v any) bool { return internal.IsReadonly(v) }
func IsShallow(v any) bool  { return internal.IsShallow(v) }
func IsProxy(v any) bool    { return internal.IsProxy(v) }

type Ref[T any] struct {
	ref *internal.Ref
}

// NewRef creates an observable cell. Targets stored in it are read back wrapped.
func NewRef[T any](initial T) *Ref[T] {
	return &Ref[T]{
		internal.GetRuntime().NewRef(initial),
	}
}

// ToRef returns a ref bound to key of obj.
func ToRef[T any](obj Target, key any) *Ref[T] {
	return &Ref[T]{internal.ToRef(obj, key)}
}

// ToRefs returns a plain record holding a ref for every key of obj.
func ToRefs(obj Target) Object {
	refs := internal.ToRefs(obj)
	for _, key := range refs.Keys() {
		ref, _ := refs.Get(key)
		refs.Set(key, &Ref[any]{ref.(*internal.Ref)})
	}
	return refs
}

// ProxyRefs reads ref-valued keys of obj as their values and writes through them.
func ProxyRefs(obj Target) Object {
	return internal.ProxyRefs(obj)
}

// Value reads the ref, tracking the dependency if within an effect.
func (r *Ref[T]) Value() T {
	return as[T](r.ref.RefValue())
}

// Set writes the ref, triggering dependents when the value changed.
func (r *Ref[T]) Set(v T) {
	r.ref.SetRefValue(v)
}

func (r *Ref[T]) RefValue() any { return r.ref.RefValue() }

func (r *Ref[T]) SetRefValue(v any) { r.ref.SetRefValue(v) }

func IsRef(v any) bool { return internal.IsRef(v) }

// Unref returns the value of a ref, or v itself.
func Unref(v any) any { return internal.Unref(v) }

type Computed[T any] struct {
	computed *internal.Computed
}

// NewComputed creates a cached derivation. The getter runs on first read and
// again on the first read after one of its dependencies changed.
func NewComputed[T any](getter func() T) *Computed[T] {
	return &Computed[T]{
		internal.GetRuntime().NewComputed(func() any {
			return getter()
		}),
	}
}

// Value returns the cached value, recomputing it if stale.
func (c *Computed[T]) Value() T {
	return as[T](c.computed.Value())
}

// Stop detaches the computed from its dependencies.
func (c *Computed[T]) Stop() { c.computed.Stop() }

func (c *Computed[T]) RefValue() any { return c.computed.RefValue() }

func (c *Computed[T]) SetRefValue(v any) { c.computed.SetRefValue(v) }

// NewBatch runs fn as one synchronous phase. Queued jobs run once the
// outermost batch returns.
func NewBatch(fn func()) {
	internal.GetRuntime().NewBatch(fn)
}

// Flush runs every queued job now.
func Flush() {
	internal.GetRuntime().Flush()
}

// Untrack runs the given function without tracking any reactive dependencies.
func Untrack[T any](fn func() T) T {
	var result T
	internal.GetRuntime().Untrack(func() { result = fn() })
	return result
}

// OnCleanup registers a function to be called before the current effect
// re-runs or when the current effect or scope is stopped.
func OnCleanup(fn func()) {
	internal.GetRuntime().OnCleanup(fn)
}

type Job = internal.Job

// NewJob creates a unit of deferred work. Queueing the same job twice before
// it runs schedules it once.
func NewJob(name string, fn func()) *Job {
	return internal.NewJob(name, fn)
}

// QueueJob schedules job for the next flush: at the end of the current batch,
// or right away when no batch is open.
func QueueJob(job *Job) {
	internal.GetRuntime().QueueJob(job)
}

// QueuePostFlush schedules job to run after every ordinary job of the flush.
func QueuePostFlush(job *Job) {
	internal.GetRuntime().QueuePostFlush(job)
}

type Scope struct {
	scope *internal.Scope
}

// NewScope creates a scope. Effects, computed values, watchers and scopes
// created while it runs are stopped with it.
func NewScope() *Scope {
	return &Scope{
		internal.GetRuntime().NewScope(),
	}
}

// Run a function within this scope.
func (s *Scope) Run(fn func()) { s.scope.Run(fn) }

// Stop this scope and everything created within it.
func (s *Scope) Stop() { s.scope.Stop() }

// Add a function to be called once when the scope is stopped.
func (s *Scope) OnCleanup(fn func()) { s.scope.OnCleanup(fn) }

// Add a function to be called when a panic occurs within Run.
// If no error listener is registered, the panic will propagate as usual.
func (s *Scope) OnError(fn func(any)) { s.scope.OnError(fn) }

func (s *Scope) Active() bool { return s.scope.Active() }
