package internal

import (
	"math"
	"reflect"
)

func isNaN(v any) bool {
	switch f := v.(type) {
	case float64:
		return math.IsNaN(f)
	case float32:
		return math.IsNaN(float64(f))
	}
	return false
}

// strictEquals compares by type and value. Slices compare by backing array
// and length, maps by identity; other uncomparable values are never equal.
func strictEquals(a, b any) (equal bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	if !ta.Comparable() {
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		switch ta.Kind() {
		case reflect.Slice:
			return va.Len() == vb.Len() && va.UnsafePointer() == vb.UnsafePointer()
		case reflect.Map:
			return va.UnsafePointer() == vb.UnsafePointer()
		}
		return false
	}

	// interface-typed fields can still hold uncomparable values
	defer func() {
		if recover() != nil {
			equal = false
		}
	}()

	return a == b
}

// sameValueZero is strictEquals with NaN equal to itself.
func sameValueZero(a, b any) bool {
	if isNaN(a) && isNaN(b) {
		return true
	}
	return strictEquals(a, b)
}

// hasChanged reports whether a write replaces old with a different value.
func hasChanged(old, value any) bool {
	return !sameValueZero(old, value)
}
