package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Optional distinguishes the three states a JSON patch field can carry:
// absent (keep the stored value), explicit null (clear it), or a value.
// The zero Optional is the absent state.
type Optional[T any] struct {
	Set   bool `json:"-"` // field was present in the body
	Valid bool `json:"-"` // value is non-null
	Value T    `json:"-"`
}

// SomeOptional returns a present, non-null Optional wrapping v.
func SomeOptional[T any](v T) Optional[T] {
	return Optional[T]{Set: true, Valid: true, Value: v}
}

// NullOptional returns a present Optional carrying an explicit null.
func NullOptional[T any]() Optional[T] {
	return Optional[T]{Set: true}
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the field
// is present in the body, which is what makes absence observable.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		var zero T
		o.Valid = false
		o.Value = zero
		return nil
	}
	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}
	o.Valid = true
	return nil
}

// Ptr returns the value as a nullable pointer: nil for absent or null.
func (o Optional[T]) Ptr() *T {
	if !o.Set || !o.Valid {
		return nil
	}
	v := o.Value
	return &v
}

// StringList is a []string stored as a JSON column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src interface{}) error {
	if src == nil {
		*l = StringList{}
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	}
	return fmt.Errorf("models: cannot scan %T into StringList", src)
}
