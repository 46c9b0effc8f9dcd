// Package optional distinguishes a JSON key that was sent from one that was left out.
package optional

import (
	"bytes"
	"encoding/json"
)

// Optional records whether its key appeared in the decoded payload and whether it was null.
// The zero value means "absent".
type Optional[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// Of returns a present, non-null Optional.
func Of[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Set: true}
}

// Null returns a present Optional holding JSON null.
func Null[T any]() Optional[T] {
	return Optional[T]{Set: true, Null: true}
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		var zero T
		o.Value = zero
		o.Null = true
		return nil
	}
	o.Null = false
	return json.Unmarshal(data, &o.Value)
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Present reports whether the key was sent with a non-null value.
func (o Optional[T]) Present() bool {
	return o.Set && !o.Null
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Present()
}
