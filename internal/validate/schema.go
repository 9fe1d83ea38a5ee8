package validate

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// SchemaValidator checks values against a compiled JSON Schema. It is
// immutable after construction and safe for concurrent use.
type SchemaValidator struct {
	resolved *jsonschema.Resolved
}

// NewSchemaValidator compiles raw JSON Schema bytes into a validator.
func NewSchemaValidator(raw []byte) (*SchemaValidator, error) {
	var schema jsonschema.Schema
	if err := schema.UnmarshalJSON(raw); err != nil {
		return nil, fmt.Errorf("parsing schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}
	return &SchemaValidator{resolved: resolved}, nil
}

// ForType derives a validator from a Go struct type, using the library's
// reflection-based schema inference.
func ForType[T any]() (*SchemaValidator, error) {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		return nil, fmt.Errorf("deriving schema: %w", err)
	}
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return nil, fmt.Errorf("resolving schema: %w", err)
	}
	return &SchemaValidator{resolved: resolved}, nil
}

// Validate implements Validator.
func (v *SchemaValidator) Validate(value any) Result {
	if err := v.resolved.Validate(value); err != nil {
		return Invalid(err.Error())
	}
	return Valid(value)
}
