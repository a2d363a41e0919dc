// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Record is implemented by every schema record in this package.
type Record interface {
	Validate() error
}

// Decode parses a JSON object into a record and validates it. Parsing is
// lenient: fields not recognized by the schema are ignored so that newer
// producers can add fields without breaking older consumers. Wrong JSON
// types and enum violations are reported as *ValidationError.
func Decode[T Record](data []byte) (T, error) {
	var v, zero T
	if err := json.Unmarshal(data, &v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			field := typeErr.Field
			if field == "" {
				field = "(root)"
			}
			return zero, &ValidationError{
				Record: typeErr.Struct,
				Fields: []FieldError{{
					Field:   field,
					Message: fmt.Sprintf("expected %s, got JSON %s", typeErr.Type, typeErr.Value),
				}},
			}
		}
		return zero, fmt.Errorf("parsing JSON: %w", err)
	}
	if err := v.Validate(); err != nil {
		return zero, err
	}
	return v, nil
}

// Encode validates a record and serializes it to JSON. Absent optional
// fields are omitted, never emitted as null.
func Encode(r Record) ([]byte, error) {
	if err := r.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("marshaling %T: %w", r, err)
	}
	return data, nil
}
