package schema

// Schema is a map of field names to their expected types.
// Example: {"name": String(), "scores": Slice(Int())}
type Schema map[string]Type

// Validate checks that every schema field is present in data and valid.
// Returns an error with all validation failures found.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}

	var errs []error
	for fieldName, fieldType := range schema {
		value, exists := data[fieldName]
		if !exists {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: "required",
			})
			continue
		}

		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{
				Key:    fieldName,
				Reason: err.Error(),
				Value:  value,
			})
		}
	}

	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// ValidateValue checks a single value against a type and reports failures
// under key.
func ValidateValue(key string, t Type, value any) error {
	if err := t.Validate(value); err != nil {
		return &ValidationError{Key: key, Reason: err.Error(), Value: value, Err: err}
	}
	return nil
}
