package models

import (
	"bytes"
	"encoding/json"
)

// Nullable is a patch slot that tells apart an absent JSON key (Set=false),
// an explicit null (Set=true, Null=true) and a value.
type Nullable[T any] struct {
	Set   bool
	Null  bool
	Value T
}

// Some returns a slot holding v
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Set: true, Value: v}
}

// Null returns a slot holding an explicit null
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}

// Ptr returns nil for null, otherwise a pointer to a copy of the value
func (n Nullable[T]) Ptr() *T {
	if !n.Set || n.Null {
		return nil
	}
	v := n.Value
	return &v
}

// UnmarshalJSON is only invoked for keys present in the document
func (n *Nullable[T]) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		n.Null = true
		var zero T
		n.Value = zero
		return nil
	}
	n.Null = false
	return json.Unmarshal(data, &n.Value)
}
