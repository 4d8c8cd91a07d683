package schema

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
)

// Type describes an element type that can be named in sample files.
// Implementations validate loosely decoded values (YAML, JSON) and convert
// them to the matching Go type.
type Type interface {
	// Name returns the textual form accepted by ParseType (e.g., "int", "[string]").
	Name() string
	// GoType returns the Go type values are converted to.
	GoType() reflect.Type
	// Validate checks if a value can be converted to this type.
	Validate(value any) error
	// Convert validates value and returns it as GoType.
	Convert(value any) (any, error)
}

// --- Built-in Type Implementations ---

// StringType accepts string values.
type StringType struct{}

func (t *StringType) Name() string         { return "string" }
func (t *StringType) GoType() reflect.Type { return reflect.TypeFor[string]() }

func (t *StringType) Validate(value any) error {
	_, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

func (t *StringType) Convert(value any) (any, error) {
	return value, t.Validate(value)
}

// IntType accepts integer values, including whole floats from JSON decoding.
type IntType struct{}

func (t *IntType) Name() string         { return "int" }
func (t *IntType) GoType() reflect.Type { return reflect.TypeFor[int]() }

func (t *IntType) Validate(value any) error {
	_, err := t.Convert(value)
	return err
}

func (t *IntType) Convert(value any) (any, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint64:
		return int(v), nil
	case float64:
		if v == float64(int64(v)) {
			return int(v), nil
		}
		return nil, fmt.Errorf("expected int, got float (not a whole number)")
	default:
		return nil, fmt.Errorf("expected int, got %T", value)
	}
}

// FloatType accepts any numeric value.
type FloatType struct{}

func (t *FloatType) Name() string         { return "float" }
func (t *FloatType) GoType() reflect.Type { return reflect.TypeFor[float64]() }

func (t *FloatType) Validate(value any) error {
	_, err := t.Convert(value)
	return err
}

func (t *FloatType) Convert(value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return nil, fmt.Errorf("expected float, got %T", value)
	}
}

// BoolType accepts boolean values.
type BoolType struct{}

func (t *BoolType) Name() string         { return "bool" }
func (t *BoolType) GoType() reflect.Type { return reflect.TypeFor[bool]() }

func (t *BoolType) Validate(value any) error {
	_, ok := value.(bool)
	if !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

func (t *BoolType) Convert(value any) (any, error) {
	return value, t.Validate(value)
}

// SliceType accepts slices of a specific element type.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) GoType() reflect.Type { return reflect.SliceOf(t.elemType.GoType()) }

// Elem returns the element type.
func (t *SliceType) Elem() Type { return t.elemType }

func (t *SliceType) Validate(value any) error {
	_, err := t.Convert(value)
	return err
}

// Convert builds a typed slice. Elements converted to nil keep their zero value.
func (t *SliceType) Convert(value any) (any, error) {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("expected slice, got %T", value)
	}

	out := reflect.MakeSlice(t.GoType(), rv.Len(), rv.Len())
	for i := 0; i < rv.Len(); i++ {
		elem, err := t.elemType.Convert(rv.Index(i).Interface())
		if err != nil {
			return nil, &ElementError{Index: i, Err: err}
		}
		if elem != nil {
			out.Index(i).Set(reflect.ValueOf(elem))
		}
	}
	return out.Interface(), nil
}

// SeqType accepts slices and converts them to single-pass sequences.
type SeqType struct {
	elemType Type
}

func (t *SeqType) Name() string {
	return fmt.Sprintf("seq[%s]", t.elemType.Name())
}

// GoType returns func(func(E) bool).
func (t *SeqType) GoType() reflect.Type {
	yield := reflect.FuncOf([]reflect.Type{t.elemType.GoType()}, []reflect.Type{reflect.TypeFor[bool]()}, false)
	return reflect.FuncOf([]reflect.Type{yield}, nil, false)
}

func (t *SeqType) Elem() Type { return t.elemType }

func (t *SeqType) Validate(value any) error {
	_, err := Slice(t.elemType).Convert(value)
	return err
}

// Convert returns a sequence over the converted elements.
func (t *SeqType) Convert(value any) (any, error) {
	list, err := Slice(t.elemType).Convert(value)
	if err != nil {
		return nil, err
	}
	items := reflect.ValueOf(list)
	seq := reflect.MakeFunc(t.GoType(), func(args []reflect.Value) []reflect.Value {
		yield := args[0]
		for i := 0; i < items.Len(); i++ {
			if !yield.Call([]reflect.Value{items.Index(i)})[0].Bool() {
				break
			}
		}
		return nil
	})
	return seq.Interface(), nil
}

// CustomType applies a user-defined validation function to values of goType.
type CustomType struct {
	name     string
	goType   reflect.Type
	validate func(any) error
}

func (t *CustomType) Name() string         { return t.name }
func (t *CustomType) GoType() reflect.Type { return t.goType }

func (t *CustomType) Validate(value any) error {
	return t.validate(value)
}

func (t *CustomType) Convert(value any) (any, error) {
	return value, t.validate(value)
}

// --- Factory Functions ---

// String creates a string type.
func String() Type { return &StringType{} }

// Int creates an integer type.
func Int() Type { return &IntType{} }

// Float creates a float type.
func Float() Type { return &FloatType{} }

// Bool creates a boolean type.
func Bool() Type { return &BoolType{} }

// Slice creates a slice type for elements of the given type.
func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

// Seq creates a sequence type for elements of the given type.
func Seq(elemType Type) Type {
	return &SeqType{elemType: elemType}
}

// Custom creates a type with a user-defined validation function.
func Custom(name string, goType reflect.Type, validate func(any) error) Type {
	return &CustomType{name: name, goType: goType, validate: validate}
}

// Descriptor returns the domain descriptor for t, with the element type as
// generic argument 0 for containers.
func Descriptor(t Type) domain.TypeDescriptor {
	switch c := t.(type) {
	case *SliceType:
		return domain.ContainerOf(c.GoType(), Descriptor(c.elemType))
	case *SeqType:
		return domain.ContainerOf(c.GoType(), Descriptor(c.elemType))
	default:
		return domain.TypeOf(t.GoType())
	}
}

// IsContainer reports whether t yields child elements.
func IsContainer(t Type) bool {
	switch t.(type) {
	case *SliceType, *SeqType:
		return true
	}
	return false
}

// ParseType converts a type name to a Type.
// Supports "string", "int", "float", "bool", "[T]" for slices and "seq[T]"
// for sequences, nested arbitrarily (e.g., "[[int]]").
func ParseType(typeStr string) (Type, error) {
	typeStr = strings.TrimSpace(typeStr)

	if inner, ok := strings.CutPrefix(typeStr, "seq["); ok && strings.HasSuffix(inner, "]") {
		elemType, err := ParseType(inner[:len(inner)-1])
		if err != nil {
			return nil, err
		}
		return Seq(elemType), nil
	}

	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

// ParseTypeMap converts a map of field names to type strings into a Schema.
// Example: {"name": "string", "scores": "[int]"}
func ParseTypeMap(typeMap map[string]string) (Schema, error) {
	result := make(Schema)
	for key, typeStr := range typeMap {
		t, err := ParseType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", key, err)
		}
		result[key] = t
	}
	return result, nil
}
