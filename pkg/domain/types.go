package domain

import (
	"reflect"
	"strings"
)

// TypeDescriptor carries a declared type plus its ordered generic arguments.
// For containers, argument 0 is the element type.
type TypeDescriptor struct {
	Root     reflect.Type
	Generics []TypeDescriptor
}

// TypeOf builds a descriptor, inferring generic arguments from the Go type:
// slices, arrays, channels and pointers get their element, maps get key and
// value, and iter.Seq-shaped functions get their yielded type.
func TypeOf(t reflect.Type) TypeDescriptor {
	return typeOf(t, map[reflect.Type]bool{})
}

// TypeFor is TypeOf for a static type.
func TypeFor[T any]() TypeDescriptor {
	return TypeOf(reflect.TypeFor[T]())
}

// ContainerOf builds a descriptor with an explicit element type, for roots
// whose element type cannot be inferred (cursors, iterables, []any).
func ContainerOf(root reflect.Type, elem TypeDescriptor) TypeDescriptor {
	return TypeDescriptor{Root: root, Generics: []TypeDescriptor{elem}}
}

func typeOf(t reflect.Type, visiting map[reflect.Type]bool) TypeDescriptor {
	d := TypeDescriptor{Root: t}
	if t == nil || visiting[t] {
		// Recursive types stop here; the element is rebuilt on demand by Generic.
		return d
	}
	visiting[t] = true
	defer delete(visiting, t)

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Chan, reflect.Pointer:
		d.Generics = []TypeDescriptor{typeOf(t.Elem(), visiting)}
	case reflect.Map:
		d.Generics = []TypeDescriptor{typeOf(t.Key(), visiting), typeOf(t.Elem(), visiting)}
	case reflect.Func:
		if elem, ok := SeqElem(t); ok {
			d.Generics = []TypeDescriptor{typeOf(elem, visiting)}
		}
	}
	return d
}

// SeqElem reports the yielded type of a func(yield func(T) bool).
func SeqElem(t reflect.Type) (reflect.Type, bool) {
	if t == nil || t.Kind() != reflect.Func || t.NumIn() != 1 || t.NumOut() != 0 {
		return nil, false
	}
	yield := t.In(0)
	if yield.Kind() != reflect.Func || yield.NumIn() != 1 || yield.NumOut() != 1 {
		return nil, false
	}
	if yield.Out(0).Kind() != reflect.Bool {
		return nil, false
	}
	return yield.In(0), true
}

// Generic returns the i-th generic argument, or the zero descriptor.
func (t TypeDescriptor) Generic(i int) TypeDescriptor {
	if i >= 0 && i < len(t.Generics) {
		return t.Generics[i]
	}
	// Generics are not recorded below a recursive cycle; recover them from the root.
	if t.Root != nil && len(t.Generics) == 0 {
		if full := TypeOf(t.Root); i >= 0 && i < len(full.Generics) {
			return full.Generics[i]
		}
	}
	return TypeDescriptor{}
}

// Element is Generic(0).
func (t TypeDescriptor) Element() TypeDescriptor {
	return t.Generic(0)
}

// IsZero reports whether the descriptor carries no type.
func (t TypeDescriptor) IsZero() bool {
	return t.Root == nil
}

func (t TypeDescriptor) String() string {
	if t.Root == nil {
		return "<nil>"
	}
	if len(t.Generics) == 0 || isBuiltinComposite(t.Root) {
		return t.Root.String()
	}
	args := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		args[i] = g.String()
	}
	return t.Root.String() + "[" + strings.Join(args, ", ") + "]"
}

// isBuiltinComposite reports types whose reflect name already spells out their arguments.
func isBuiltinComposite(t reflect.Type) bool {
	if name := t.Name(); name != "" {
		return strings.Contains(name, "[")
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Chan, reflect.Pointer, reflect.Map, reflect.Func:
		return true
	}
	return false
}
