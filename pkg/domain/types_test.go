package domain_test

import (
	"iter"
	"reflect"
	"testing"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/stretchr/testify/assert"
)

type nested []nested

func TestTypeOf_Generics(t *testing.T) {
	tests := []struct {
		name string
		desc domain.TypeDescriptor
		elem reflect.Type
		str  string
	}{
		{"slice", domain.TypeFor[[]string](), reflect.TypeFor[string](), "[]string"},
		{"array", domain.TypeFor[[3]int](), reflect.TypeFor[int](), "[3]int"},
		{"chan", domain.TypeFor[<-chan bool](), reflect.TypeFor[bool](), "<-chan bool"},
		{"seq", domain.TypeFor[iter.Seq[int]](), reflect.TypeFor[int](), "iter.Seq[int]"},
		{"map", domain.TypeFor[map[string]float64](), reflect.TypeFor[string](), "map[string]float64"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.elem, tt.desc.Element().Root)
			assert.Equal(t, tt.str, tt.desc.String())
		})
	}
}

func TestTypeOf_Recursive(t *testing.T) {
	d := domain.TypeFor[nested]()
	elem := d.Element()
	assert.Equal(t, reflect.TypeFor[nested](), elem.Root)
	assert.Empty(t, elem.Generics, "cycle is cut at the first repeat")

	// Generic recovers the cut arguments from the root.
	assert.Equal(t, reflect.TypeFor[nested](), elem.Element().Root)
	assert.Equal(t, reflect.TypeFor[nested](), elem.Element().Element().Root)
}

func TestContainerOf(t *testing.T) {
	d := domain.ContainerOf(reflect.TypeFor[any](), domain.TypeFor[int]())
	assert.Equal(t, reflect.TypeFor[int](), d.Element().Root)
	assert.True(t, domain.TypeDescriptor{}.IsZero())
	assert.Equal(t, "<nil>", domain.TypeDescriptor{}.String())
}

func TestSeqElem(t *testing.T) {
	elem, ok := domain.SeqElem(reflect.TypeFor[func(func(string) bool)]())
	assert.True(t, ok)
	assert.Equal(t, reflect.TypeFor[string](), elem)

	_, ok = domain.SeqElem(reflect.TypeFor[func(int) bool]())
	assert.False(t, ok)
}
