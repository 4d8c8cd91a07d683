package domain

// LazyKind discriminates the three states of a LazyValue.
type LazyKind int

const (
	// LazyUnset means no source was given; the container is synthesized.
	LazyUnset LazyKind = iota
	// LazyEmpty is an explicit "zero elements, do not synthesize" marker.
	LazyEmpty
	// LazyPresent wraps a concrete source value.
	LazyPresent
)

func (k LazyKind) String() string {
	switch k {
	case LazyEmpty:
		return "empty"
	case LazyPresent:
		return "present"
	default:
		return "unset"
	}
}

// LazyValue is a deferred, optional source value.
// A nil *LazyValue behaves as Unset.
type LazyValue struct {
	kind     LazyKind
	supplier func() any
	value    any
	resolved bool
}

// Unset returns a holder with no source.
func Unset() *LazyValue { return nil }

// Empty returns the explicit empty marker.
func Empty() *LazyValue {
	return &LazyValue{kind: LazyEmpty}
}

// Just wraps an already materialized value.
func Just(v any) *LazyValue {
	return &LazyValue{kind: LazyPresent, value: v, resolved: true}
}

// Deferred wraps a supplier that runs on first Get only.
func Deferred(fn func() any) *LazyValue {
	return &LazyValue{kind: LazyPresent, supplier: fn}
}

// Kind returns the holder state without materializing anything.
func (l *LazyValue) Kind() LazyKind {
	if l == nil {
		return LazyUnset
	}
	return l.kind
}

// Get materializes the value on first access and returns the memo afterwards.
// It returns nil for Unset and Empty holders.
func (l *LazyValue) Get() any {
	if l == nil || l.kind != LazyPresent {
		return nil
	}
	if !l.resolved {
		l.value = l.supplier()
		l.supplier = nil
		l.resolved = true
	}
	return l.value
}

// Resolved reports whether Get would return without running a supplier.
func (l *LazyValue) Resolved() bool {
	return l == nil || l.kind != LazyPresent || l.resolved
}
