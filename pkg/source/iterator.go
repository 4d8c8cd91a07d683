package source

import (
	"fmt"
	"iter"
	"reflect"

	"github.com/aretw0/arbor/pkg/domain"
)

// Iterator yields source elements in forward order.
// Stop must be called once the caller is done, to release pulled sequences.
type Iterator interface {
	Next() (any, bool)
	Stop()
}

// ToIterator normalizes a materialized source value into an Iterator.
//
// Collections, iterables and sequences are iterated natively; sequences and
// channels are consumed. Bidirectional cursors are read into a buffer and
// their position is restored before returning. Forward-only cursors are
// consumed and cannot be reused by the caller afterwards.
func ToIterator(v any) (Iterator, error) {
	switch Classify(v) {
	case ShapeCollection:
		return &indexIterator{list: reflect.ValueOf(v)}, nil
	case ShapeSequence:
		next, stop := iter.Pull(reflect.ValueOf(v).Seq())
		return &pullIterator{next: next, stop: stop}, nil
	case ShapeIterable:
		return &cursorIterator{cursor: v.(Iterable).Iterator()}, nil
	case ShapeBidiCursor:
		return &bufferIterator{items: ReadAll(v.(BidiCursor))}, nil
	case ShapeCursor:
		return &cursorIterator{cursor: v.(Cursor)}, nil
	default:
		return nil, fmt.Errorf("%w: %T", domain.ErrUnsupportedContainerSource, v)
	}
}

// ReadAll copies every element of c, from its true start, into a new slice
// and leaves c at the position it had on entry.
func ReadAll(c BidiCursor) []any {
	offset := 0
	for c.HasPrevious() {
		c.Previous()
		offset++
	}

	var items []any
	for c.HasNext() {
		items = append(items, c.Next())
	}

	for back := c.NextIndex() - offset; back > 0; back-- {
		c.Previous()
	}
	return items
}

type indexIterator struct {
	list reflect.Value
	pos  int
}

func (it *indexIterator) Next() (any, bool) {
	if it.pos >= it.list.Len() {
		return nil, false
	}
	v := it.list.Index(it.pos).Interface()
	it.pos++
	return v, true
}

func (it *indexIterator) Stop() {}

type pullIterator struct {
	next func() (reflect.Value, bool)
	stop func()
}

func (it *pullIterator) Next() (any, bool) {
	v, ok := it.next()
	if !ok {
		return nil, false
	}
	return v.Interface(), true
}

func (it *pullIterator) Stop() { it.stop() }

type cursorIterator struct {
	cursor Cursor
}

func (it *cursorIterator) Next() (any, bool) {
	if !it.cursor.HasNext() {
		return nil, false
	}
	return it.cursor.Next(), true
}

func (it *cursorIterator) Stop() {}

type bufferIterator struct {
	items []any
	pos   int
}

func (it *bufferIterator) Next() (any, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

func (it *bufferIterator) Stop() {}
