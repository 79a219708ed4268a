package models

import (
	"bytes"
	"encoding/json"
)

// Field is a single entry of a patch.
//
// A Field is either absent (the zero value, leave the stored column alone) or present. A present Field
// with no value clears an optional column.
type Field[T any] struct {
	present bool
	value   *T
}

// Set returns a present [Field] holding v.
func Set[T any](v T) Field[T] {
	return Field[T]{present: true, value: &v}
}

// Clear returns a present [Field] without a value.
func Clear[T any]() Field[T] {
	return Field[T]{present: true}
}

// SetPtr returns a present [Field] holding *v, or a cleared one when v is nil.
func SetPtr[T any](v *T) Field[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

// Present reports whether the field takes part in the patch.
func (f Field[T]) Present() bool { return f.present }

// Ptr returns the patched value, nil when absent or cleared.
func (f Field[T]) Ptr() *T { return f.value }

// Value returns the patched value and whether one is set.
func (f Field[T]) Value() (T, bool) {
	if f.value == nil {
		var zero T
		return zero, false
	}
	return *f.value, true
}

// UnmarshalJSON marks the field present; a JSON null clears it.
func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.value = nil
		return nil
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	f.value = &v
	return nil
}

// MarshalJSON writes the value, or null when absent or cleared.
func (f Field[T]) MarshalJSON() ([]byte, error) {
	if f.value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.value)
}
