package domain

import (
	"bytes"
	"encoding/json"
)

// Opt is a presence-carrying value for sparse payloads. A field absent from
// the JSON document stays unset; an explicit null is recorded as Null.
type Opt[T any] struct {
	Value T
	Set   bool
	Null  bool
}

func Some[T any](v T) Opt[T] { return Opt[T]{Value: v, Set: true} }

func (o *Opt[T]) UnmarshalJSON(b []byte) error {
	o.Set = true
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(b, &o.Value)
}

func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
