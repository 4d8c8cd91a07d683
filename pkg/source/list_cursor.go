package source

// ListCursor is a bidirectional cursor over a fixed list of elements.
// The zero position is before the first element.
type ListCursor struct {
	items []any
	pos   int
}

// NewListCursor creates a cursor positioned at the start of items.
func NewListCursor(items ...any) *ListCursor {
	return &ListCursor{items: items}
}

// NewListCursorAt creates a cursor whose next element is items[pos].
// pos is clamped to [0, len(items)].
func NewListCursorAt(pos int, items ...any) *ListCursor {
	pos = max(0, min(pos, len(items)))
	return &ListCursor{items: items, pos: pos}
}

// CursorOf is a typed convenience over NewListCursor.
func CursorOf[T any](items []T) *ListCursor {
	boxed := make([]any, len(items))
	for i, v := range items {
		boxed[i] = v
	}
	return NewListCursor(boxed...)
}

func (c *ListCursor) HasNext() bool { return c.pos < len(c.items) }

// Next returns the next element and advances. It panics when exhausted.
func (c *ListCursor) Next() any {
	if !c.HasNext() {
		panic("source: ListCursor.Next past the end")
	}
	v := c.items[c.pos]
	c.pos++
	return v
}

func (c *ListCursor) HasPrevious() bool { return c.pos > 0 }

// Previous steps back and returns the element stepped over. It panics at the start.
func (c *ListCursor) Previous() any {
	if !c.HasPrevious() {
		panic("source: ListCursor.Previous before the start")
	}
	c.pos--
	return c.items[c.pos]
}

func (c *ListCursor) NextIndex() int { return c.pos }

// Len returns the number of elements.
func (c *ListCursor) Len() int { return len(c.items) }
