package annotation

import (
	"reflect"
	"slices"

	"github.com/aretw0/arbor/pkg/domain"
)

// Source pairs a resolved generator and the type it was resolved for with the
// markers observed on that property. It is immutable after construction.
type Source struct {
	typ         domain.TypeDescriptor
	generator   domain.Generator
	annotations []any
}

// New creates a Source. The annotation list is copied.
func New(typ domain.TypeDescriptor, generator domain.Generator, annotations ...any) *Source {
	return &Source{
		typ:         typ,
		generator:   generator,
		annotations: slices.Clone(annotations),
	}
}

// Type returns the originating type.
func (s *Source) Type() domain.TypeDescriptor { return s.typ }

// Generator returns the resolved generator.
func (s *Source) Generator() domain.Generator { return s.generator }

// Annotations returns a copy of the observed markers, in observation order.
func (s *Source) Annotations() []any { return slices.Clone(s.annotations) }

// FindAnnotation returns the first marker whose dynamic type is exactly kind.
// Markers of types that merely implement or embed kind do not match.
func (s *Source) FindAnnotation(kind reflect.Type) (any, bool) {
	for _, a := range s.annotations {
		if reflect.TypeOf(a) == kind {
			return a, true
		}
	}
	return nil, false
}

// Find is the typed form of FindAnnotation.
func Find[A any](s *Source) (A, bool) {
	a, ok := s.FindAnnotation(reflect.TypeFor[A]())
	if !ok {
		var zero A
		return zero, false
	}
	return a.(A), true
}
