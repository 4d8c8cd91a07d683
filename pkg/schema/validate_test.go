package schema

import (
	"errors"
	"testing"
)

func TestValidate_Success(t *testing.T) {
	schema := Schema{
		"name":   String(),
		"type":   String(),
		"scores": Slice(Int()),
	}

	data := map[string]any{
		"name":   "scores",
		"type":   "[int]",
		"scores": []any{1, 2},
	}

	if err := Validate(schema, data); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidate_Failures(t *testing.T) {
	schema := Schema{
		"name": String(),
		"type": String(),
	}

	err := Validate(schema, map[string]any{"type": 3})
	if err == nil {
		t.Fatal("Validate() should fail")
	}

	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("Validate() = %d errors, want 2: %v", len(errs), err)
	}

	reasons := map[string]string{}
	for _, e := range errs {
		var v *ValidationError
		if !errors.As(e, &v) {
			t.Fatalf("error should be *ValidationError, got %T", e)
		}
		reasons[v.Key] = v.Reason
	}
	if reasons["name"] != "required" {
		t.Errorf("name reason = %q", reasons["name"])
	}
	if reasons["type"] == "" {
		t.Error("type should report a type mismatch")
	}
}

func TestValidate_EmptySchema(t *testing.T) {
	if err := Validate(nil, map[string]any{"x": 1}); err != nil {
		t.Errorf("Validate(nil) = %v", err)
	}
}

func TestValidateValue(t *testing.T) {
	err := ValidateValue("value", Slice(Int()), []any{"x"})
	var v *ValidationError
	if !errors.As(err, &v) || v.Key != "value" {
		t.Fatalf("ValidateValue() = %v", err)
	}
	if ValidateValue("value", Int(), 1) != nil {
		t.Error("ValidateValue(1) should pass")
	}
}

func TestAggregateError_Message(t *testing.T) {
	single := &AggregateError{Errors: []error{&ValidationError{Key: "a", Reason: "required"}}}
	if single.Error() != `field "a": required` {
		t.Errorf("Error() = %q", single.Error())
	}

	multi := &AggregateError{Errors: []error{
		&ValidationError{Key: "a", Reason: "required"},
		&ValidationError{Key: "b", Reason: "bad", Value: 1},
	}}
	want := "2 validation errors:\n  1. field \"a\": required\n  2. field \"b\": bad (got int)\n"
	if multi.Error() != want {
		t.Errorf("Error() = %q, want %q", multi.Error(), want)
	}
}

func TestValidateValue_ElementIndex(t *testing.T) {
	err := ValidateValue("value", Slice(Int()), []any{1, 2, "three"})
	var elem *ElementError
	if !errors.As(err, &elem) || elem.Index != 2 {
		t.Fatalf("ValidateValue() = %v, want element 2 failure", err)
	}

	aggr := &AggregateError{Errors: []error{err}}
	if !errors.As(aggr, &elem) {
		t.Error("AggregateError should expose wrapped element errors")
	}
}
