package internal

import (
	"iter"
	"slices"
	"sort"
)

// Target is the capability set the engine intercepts. Wrappers implement the
// same interface by delegating to an inner Target while tracking reads and
// triggering on writes.
type Target interface {
	Get(key any) (any, bool)
	Set(key, value any)
	Has(key any) bool
	Keys() []any
	Delete(key any) bool
}

// Object is a record: string-keyed fields enumerated in insertion order.
type Object interface {
	Target
}

// Array is an ordered sequence. Index keys are ints; LengthKey addresses the length.
type Array interface {
	Target

	Len() int
	SetLen(n int)
	At(i int) any

	Push(values ...any) int
	Pop() any
	Shift() any
	Unshift(values ...any) int
	Splice(start, deleteCount int, items ...any) []any

	Includes(value any) bool
	IndexOf(value any) int
	LastIndexOf(value any) int

	All() iter.Seq2[int, any]
}

// Map is an associative collection with comparable keys, iterated in insertion order.
type Map interface {
	Target

	Len() int
	Clear()
	ForEach(fn func(value, key any))
	Entries() iter.Seq2[any, any]
	Values() iter.Seq[any]
}

// Set is a distinct-value collection, iterated in insertion order.
type Set interface {
	Target

	Add(value any)
	Len() int
	Clear()
	ForEach(fn func(value any))
	Values() iter.Seq[any]
}

type targetKind int

const (
	kindRecord targetKind = iota
	kindArray
	kindMap
	kindSet
)

func (k targetKind) isCollection() bool {
	return k == kindMap || k == kindSet
}

func kindOf(t Target) targetKind {
	switch t.(type) {
	case Array:
		return kindArray
	case Set:
		return kindSet
	case Map:
		return kindMap
	default:
		return kindRecord
	}
}

// index normalizes integer keys so dependencies on "the same index" share a key.
func index(key any) (int, bool) {
	switch i := key.(type) {
	case int:
		return i, true
	case int8:
		return int(i), true
	case int16:
		return int(i), true
	case int32:
		return int(i), true
	case int64:
		return int(i), true
	case uint:
		return int(i), true
	case uint8:
		return int(i), true
	case uint16:
		return int(i), true
	case uint32:
		return int(i), true
	case uint64:
		return int(i), true
	}
	return 0, false
}

type object struct {
	keys   []any
	values map[any]any
}

// NewObject creates a plain record. Initial fields are ordered by key.
func NewObject(fields map[string]any) Object {
	o := &object{values: make(map[any]any, len(fields))}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		o.Set(name, fields[name])
	}

	return o
}

func (o *object) Get(key any) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *object) Set(key, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

func (o *object) Has(key any) bool {
	_, ok := o.values[key]
	return ok
}

func (o *object) Keys() []any {
	return slices.Clone(o.keys)
}

func (o *object) Delete(key any) bool {
	if _, ok := o.values[key]; !ok {
		return false
	}

	delete(o.values, key)
	if i := slices.Index(o.keys, key); i >= 0 {
		o.keys = slices.Delete(o.keys, i, i+1)
	}

	return true
}

type array struct {
	items []any
}

// NewArray creates a plain ordered sequence.
func NewArray(items ...any) Array {
	return &array{items: slices.Clone(items)}
}

func (a *array) Get(key any) (any, bool) {
	if key == LengthKey {
		return len(a.items), true
	}

	i, ok := index(key)
	if !ok || i < 0 || i >= len(a.items) {
		return nil, false
	}

	return a.items[i], true
}

func (a *array) Set(key, value any) {
	if key == LengthKey {
		if n, ok := index(value); ok {
			a.SetLen(n)
		}
		return
	}

	i, ok := index(key)
	if !ok || i < 0 {
		return
	}
	if i >= len(a.items) {
		a.SetLen(i + 1)
	}

	a.items[i] = value
}

func (a *array) Has(key any) bool {
	if key == LengthKey {
		return true
	}

	i, ok := index(key)
	return ok && i >= 0 && i < len(a.items)
}

func (a *array) Keys() []any {
	keys := make([]any, len(a.items))
	for i := range a.items {
		keys[i] = i
	}
	return keys
}

// Delete clears the slot without shifting, leaving a hole like a sparse sequence.
func (a *array) Delete(key any) bool {
	i, ok := index(key)
	if !ok || i < 0 || i >= len(a.items) {
		return false
	}

	a.items[i] = nil
	return true
}

func (a *array) Len() int { return len(a.items) }

func (a *array) SetLen(n int) {
	if n < 0 {
		n = 0
	}

	switch {
	case n < len(a.items):
		clear(a.items[n:])
		a.items = a.items[:n]
	case n > len(a.items):
		a.items = append(a.items, make([]any, n-len(a.items))...)
	}
}

func (a *array) At(i int) any {
	v, _ := a.Get(i)
	return v
}

func (a *array) Push(values ...any) int {
	a.items = append(a.items, values...)
	return len(a.items)
}

func (a *array) Pop() any {
	if len(a.items) == 0 {
		return nil
	}

	last := a.items[len(a.items)-1]
	a.SetLen(len(a.items) - 1)
	return last
}

func (a *array) Shift() any {
	if len(a.items) == 0 {
		return nil
	}

	first := a.items[0]
	a.items = slices.Delete(a.items, 0, 1)
	return first
}

func (a *array) Unshift(values ...any) int {
	a.items = slices.Insert(a.items, 0, values...)
	return len(a.items)
}

func (a *array) Splice(start, deleteCount int, items ...any) []any {
	start, deleteCount = spliceBounds(len(a.items), start, deleteCount)

	removed := slices.Clone(a.items[start : start+deleteCount])
	a.items = slices.Replace(a.items, start, start+deleteCount, items...)

	return removed
}

func (a *array) Includes(value any) bool {
	return slices.ContainsFunc(a.items, func(v any) bool { return sameValueZero(v, value) })
}

func (a *array) IndexOf(value any) int {
	return slices.IndexFunc(a.items, func(v any) bool { return strictEquals(v, value) })
}

func (a *array) LastIndexOf(value any) int {
	for i := len(a.items) - 1; i >= 0; i-- {
		if strictEquals(a.items[i], value) {
			return i
		}
	}
	return -1
}

func (a *array) All() iter.Seq2[int, any] {
	return func(yield func(int, any) bool) {
		for i := 0; i < len(a.items); i++ {
			if !yield(i, a.items[i]) {
				return
			}
		}
	}
}

// spliceBounds clamps a splice window the way sequence splicing does:
// negative starts count from the end, counts never run past the end.
func spliceBounds(n, start, deleteCount int) (int, int) {
	switch {
	case start < 0:
		start = max(n+start, 0)
	case start > n:
		start = n
	}

	deleteCount = min(max(deleteCount, 0), n-start)

	return start, deleteCount
}

type orderedMap struct {
	keys   []any
	values map[any]any
}

// NewMap creates a plain associative collection.
func NewMap() Map {
	return &orderedMap{values: make(map[any]any)}
}

func (m *orderedMap) Get(key any) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *orderedMap) Set(key, value any) {
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *orderedMap) Has(key any) bool {
	_, ok := m.values[key]
	return ok
}

func (m *orderedMap) Keys() []any {
	return slices.Clone(m.keys)
}

func (m *orderedMap) Delete(key any) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)
	if i := slices.Index(m.keys, key); i >= 0 {
		m.keys = slices.Delete(m.keys, i, i+1)
	}

	return true
}

func (m *orderedMap) Len() int { return len(m.keys) }

func (m *orderedMap) Clear() {
	m.keys = nil
	clear(m.values)
}

// ForEach visits a snapshot of the keys, skipping entries deleted by fn.
func (m *orderedMap) ForEach(fn func(value, key any)) {
	for _, k := range slices.Clone(m.keys) {
		if v, ok := m.values[k]; ok {
			fn(v, k)
		}
	}
}

func (m *orderedMap) Entries() iter.Seq2[any, any] {
	return func(yield func(any, any) bool) {
		for _, k := range slices.Clone(m.keys) {
			v, ok := m.values[k]
			if !ok {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

func (m *orderedMap) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range m.Entries() {
			if !yield(v) {
				return
			}
		}
	}
}

type orderedSet struct {
	items   []any
	members map[any]struct{}
}

// NewSet creates a plain distinct-value collection.
func NewSet(values ...any) Set {
	s := &orderedSet{members: make(map[any]struct{}, len(values))}
	for _, v := range values {
		s.Add(v)
	}
	return s
}

// Get reports membership: the value itself when present.
func (s *orderedSet) Get(key any) (any, bool) {
	if _, ok := s.members[key]; ok {
		return key, true
	}
	return nil, false
}

// Set adds key; the value is ignored.
func (s *orderedSet) Set(key, _ any) { s.Add(key) }

func (s *orderedSet) Has(key any) bool {
	_, ok := s.members[key]
	return ok
}

func (s *orderedSet) Keys() []any {
	return slices.Clone(s.items)
}

func (s *orderedSet) Delete(key any) bool {
	if _, ok := s.members[key]; !ok {
		return false
	}

	delete(s.members, key)
	if i := slices.Index(s.items, key); i >= 0 {
		s.items = slices.Delete(s.items, i, i+1)
	}

	return true
}

func (s *orderedSet) Add(value any) {
	if _, ok := s.members[value]; ok {
		return
	}

	s.members[value] = struct{}{}
	s.items = append(s.items, value)
}

func (s *orderedSet) Len() int { return len(s.items) }

func (s *orderedSet) Clear() {
	s.items = nil
	clear(s.members)
}

func (s *orderedSet) ForEach(fn func(value any)) {
	for _, v := range slices.Clone(s.items) {
		if _, ok := s.members[v]; ok {
			fn(v)
		}
	}
}

func (s *orderedSet) Values() iter.Seq[any] {
	return func(yield func(any) bool) {
		for _, v := range slices.Clone(s.items) {
			if _, ok := s.members[v]; !ok {
				continue
			}
			if !yield(v) {
				return
			}
		}
	}
}
