// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
)

// FieldError describes one field that failed validation.
type FieldError struct {
	// Field is the JSON name of the offending field.
	Field string

	// Message explains the violation.
	Message string
}

// ValidationError reports every field of a record that violated a
// required-ness, type, or enum constraint. It is the single error kind
// produced by the schema layer; callers check for it with errors.As.
type ValidationError struct {
	// Record names the record type being validated (e.g. "SearchQuery").
	Record string

	// Fields lists all offending fields, in declaration order.
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	b.WriteString(e.Record)
	b.WriteString(": ")
	for i, f := range e.Fields {
		if i > 0 {
			b.WriteString("; ")
		}
		fmt.Fprintf(&b, "%s: %s", f.Field, f.Message)
	}
	return b.String()
}

// fieldErrs accumulates field violations during a Validate call.
type fieldErrs []FieldError

func (fe *fieldErrs) add(field, format string, args ...any) {
	*fe = append(*fe, FieldError{Field: field, Message: fmt.Sprintf(format, args...)})
}

// err returns a *ValidationError for record, or nil when no fields failed.
func (fe fieldErrs) err(record string) error {
	if len(fe) == 0 {
		return nil
	}
	return &ValidationError{Record: record, Fields: fe}
}
