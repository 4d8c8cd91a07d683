package sample

import (
	"errors"
	"fmt"
	"math"
	"reflect"

	"github.com/aretw0/arbor/pkg/annotation"
	"github.com/aretw0/arbor/pkg/expander"
	"github.com/aretw0/arbor/pkg/schema"
)

// DefaultMaxNodes is the node budget used when Limits leaves MaxNodes unset.
const DefaultMaxNodes = 10_000

// ErrTooLarge is wrapped when an entry may expand past its node budget.
var ErrTooLarge = errors.New("sample entry exceeds node budget")

// Limits bounds the trees that entries from untrusted callers may request.
type Limits struct {
	// MaxNodes caps the worst-case node count of one entry.
	MaxNodes int
	// DefaultMax is the upper bound of the range attached to containers that
	// arrive without a constraint.
	DefaultMax int
}

// DefaultLimits matches an engine built with the stock size range.
func DefaultLimits() Limits {
	return Limits{MaxNodes: DefaultMaxNodes, DefaultMax: expander.DefaultMaxSize}
}

// Check fails with ErrTooLarge when e could expand into more than MaxNodes
// nodes.
func (l Limits) Check(e *Entry) error {
	budget := l.MaxNodes
	if budget <= 0 {
		budget = DefaultMaxNodes
	}
	n, err := e.Bound(l.DefaultMax)
	if err != nil {
		return err
	}
	if n > budget {
		return fmt.Errorf("%w %q: up to %d nodes, limit %d", ErrTooLarge, e.Name, n, budget)
	}
	return nil
}

// Bound returns the worst-case node count of the tree built from e, root
// included. Every nesting level multiplies the count by its widest container:
// the declared or tagged maximum at the root, otherwise defaultMax or the
// longest sample list at that depth.
func (e *Entry) Bound(defaultMax int) (int, error) {
	typ, err := schema.ParseType(e.Type)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
	}
	if e.Empty {
		return 1, nil
	}

	levels := 0
	for t := typ; schema.IsContainer(t); t = elemOf(t) {
		levels++
	}

	root, sized := 0, false
	if e.Size != nil {
		root, sized = e.Size.Max, true
	}
	if e.Tags != "" {
		markers, err := annotation.ParseTag(e.Tags)
		if err != nil {
			return 0, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
		}
		for _, m := range markers {
			if s, ok := m.(annotation.Size); ok {
				root, sized = max(root, s.Max), true
			}
		}
	}
	widths := valueWidths(e.Value, 0, nil)
	if len(widths) > 0 {
		root = max(root, widths[0])
	}
	if !sized && e.Value == nil {
		root = defaultMax
	}

	total, width := 1, 1
	for depth := range levels {
		w := root
		if depth > 0 {
			w = defaultMax
			if depth < len(widths) {
				w = max(w, widths[depth])
			}
		}
		width = mulSat(width, w)
		total = addSat(total, width)
	}
	return total, nil
}

// valueWidths records the longest list found at each depth of v.
func valueWidths(v any, depth int, widths []int) []int {
	rv := reflect.ValueOf(v)
	if !rv.IsValid() || (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) {
		return widths
	}
	if len(widths) <= depth {
		widths = append(widths, 0)
	}
	widths[depth] = max(widths[depth], rv.Len())
	for i := range rv.Len() {
		widths = valueWidths(rv.Index(i).Interface(), depth+1, widths)
	}
	return widths
}

func mulSat(a, b int) int {
	if a != 0 && b > math.MaxInt/a {
		return math.MaxInt
	}
	return a * b
}

func addSat(a, b int) int {
	if b > math.MaxInt-a {
		return math.MaxInt
	}
	return a + b
}
