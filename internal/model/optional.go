package model

import (
	"bytes"
	"encoding/json"
)

// Optional carries a field of a partial update. The zero value means the
// field was absent from the request body; Null reports an explicit null.
type Optional[T any] struct {
	Set  bool
	Null bool
	Val  T
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Val: v}
}

func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		var zero T
		o.Val = zero
		return nil
	}

	o.Null = false
	return json.Unmarshal(data, &o.Val)
}

// Value returns the carried value when the field was sent with a non-null value.
func (o Optional[T]) Value() (T, bool) {
	if !o.Set || o.Null {
		var zero T
		return zero, false
	}
	return o.Val, true
}

// Ptr returns nil for an explicit null and a pointer to the value otherwise.
// The second result is false when the field was absent.
func (o Optional[T]) Ptr() (*T, bool) {
	if !o.Set {
		return nil, false
	}
	if o.Null {
		return nil, true
	}
	v := o.Val
	return &v, true
}
