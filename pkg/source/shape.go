package source

import (
	"reflect"

	"github.com/aretw0/arbor/pkg/domain"
)

// Cursor is a stateful, forward-only iteration handle.
type Cursor interface {
	HasNext() bool
	Next() any
}

// BidiCursor is a cursor that can also step backward. Its position is
// observable by other readers, so normalization must restore it.
type BidiCursor interface {
	Cursor
	HasPrevious() bool
	Previous() any
	// NextIndex is the index of the element Next would return.
	NextIndex() int
}

// Iterable produces a fresh cursor on every call.
type Iterable interface {
	Iterator() Cursor
}

// Shape classifies a source value.
type Shape int

const (
	ShapeUnsupported Shape = iota
	// ShapeCollection is a slice or array.
	ShapeCollection
	// ShapeSequence is an iter.Seq-shaped function or a receive channel.
	ShapeSequence
	// ShapeIterable implements Iterable.
	ShapeIterable
	// ShapeBidiCursor implements BidiCursor.
	ShapeBidiCursor
	// ShapeCursor implements only Cursor.
	ShapeCursor
)

func (s Shape) String() string {
	switch s {
	case ShapeCollection:
		return "collection"
	case ShapeSequence:
		return "sequence"
	case ShapeIterable:
		return "iterable"
	case ShapeBidiCursor:
		return "bidi_cursor"
	case ShapeCursor:
		return "cursor"
	default:
		return "unsupported"
	}
}

var (
	cursorType     = reflect.TypeFor[Cursor]()
	bidiCursorType = reflect.TypeFor[BidiCursor]()
	iterableType   = reflect.TypeFor[Iterable]()
)

// Classify reports the shape of v. Collections win over the cursor
// interfaces, matching the order in which ToIterator tries them. Nil
// pointers, maps and channels are unsupported; a nil slice is an empty
// collection.
func Classify(v any) Shape {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() {
		return ShapeUnsupported
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return ShapeCollection
	case reflect.Chan:
		if rv.Type().ChanDir()&reflect.RecvDir != 0 && !rv.IsNil() {
			return ShapeSequence
		}
		return ShapeUnsupported
	case reflect.Func:
		if _, ok := domain.SeqElem(rv.Type()); ok && !rv.IsNil() {
			return ShapeSequence
		}
		return ShapeUnsupported
	case reflect.Pointer, reflect.Map, reflect.Interface:
		if rv.IsNil() {
			return ShapeUnsupported
		}
	}

	switch v.(type) {
	case Iterable:
		return ShapeIterable
	case BidiCursor:
		return ShapeBidiCursor
	case Cursor:
		return ShapeCursor
	}
	return ShapeUnsupported
}

// IsContainerType reports whether values of t are container-shaped.
// The tree engine uses it to route nodes to an expander.
func IsContainerType(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Slice, reflect.Array:
		return true
	case reflect.Chan:
		return t.ChanDir()&reflect.RecvDir != 0
	case reflect.Func:
		_, ok := domain.SeqElem(t)
		return ok
	}
	return t.Implements(iterableType) || t.Implements(cursorType) || t.Implements(bidiCursorType)
}
