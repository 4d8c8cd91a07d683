package expander

import (
	"io"
	"log/slog"
	"math"
	"math/rand/v2"
	"reflect"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/source"
)

// Default container size range used when a synthesized container arrives
// without a constraint.
const (
	DefaultMinSize = 0
	DefaultMaxSize = 3
)

// Expander turns one container node into its ordered list of child nodes.
// Implementations may mutate the node's own size constraint and generator
// slot, but must not recurse into or retain the children.
type Expander interface {
	Expand(node *domain.Node) ([]*domain.Node, error)
}

// PropertyNameResolver is the auxiliary argument of the legacy entry point.
type PropertyNameResolver interface {
	ResolveName(path string) string
}

// Default is the stock container expander. It holds no per-node state and can
// be shared by independent trees; callers must not expand the same node from
// two goroutines at once.
type Default struct {
	decider domain.SizeDecider
	minSize int
	maxSize int
	logger  *slog.Logger
	hooks   domain.LifecycleHooks
}

// Option defines a functional option for configuring the Default expander.
type Option func(*Default)

// WithSizeDecider sets how undecided constraints pick a count.
func WithSizeDecider(d domain.SizeDecider) Option {
	return func(e *Default) {
		e.decider = d
	}
}

// WithDefaultSize sets the range attached to synthesized containers that
// arrive without a constraint.
func WithDefaultSize(min, max int) Option {
	return func(e *Default) {
		e.minSize = min
		e.maxSize = max
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Default) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Default) {
		e.hooks = hooks
	}
}

// New creates the default expander.
func New(opts ...Option) *Default {
	e := &Default{
		minSize: DefaultMinSize,
		maxSize: DefaultMaxSize,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.decider == nil {
		e.decider = domain.NewRandomDecider(rand.Uint64())
	}
	if e.logger == nil {
		e.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	return e
}

// Expand implements Expander.
//
// An explicitly empty source, or a deferred source that materializes to nil,
// finalizes the node with the null generator and yields no children. A present source is replayed up to the constraint's
// upper bound; without a constraint the node is committed to exactly the
// number of replayed elements. Otherwise the remainder up to the decided count
// is filled with non-nullable placeholders.
func (e *Default) Expand(node *domain.Node) ([]*domain.Node, error) {
	elemType := node.Type.Element()
	children := []*domain.Node{}
	next := 0

	kind := node.Value().Kind()
	var value any
	if kind == domain.LazyPresent {
		value = node.Value().Get()
		if value == nil {
			kind = domain.LazyEmpty
		}
	}

	switch kind {
	case domain.LazyEmpty:
		node.AssignGenerator(domain.Null())
		e.logger.Debug("empty container source", "path", node.Path)
		e.emit(domain.EventEmpty, node, 0, 0, 0, nil)
		return children, nil

	case domain.LazyPresent:
		if source.Classify(value) == source.ShapeUnsupported {
			err := &domain.UnsupportedSourceError{Path: node.Path, Value: value}
			e.emit(domain.EventExpandError, node, 0, 0, 0, err)
			return nil, err
		}
		it, err := source.ToIterator(value)
		if err != nil {
			e.emit(domain.EventExpandError, node, 0, 0, 0, err)
			return nil, err
		}
		defer it.Stop()

		constraint := node.SizeConstraint()
		limit := math.MaxInt
		if constraint != nil {
			limit = constraint.Max()
		}

		for next < limit {
			v, ok := it.Next()
			if !ok {
				break
			}
			children = append(children, domain.NewNode(node.Path, elemType,
				domain.WithValue(elementValue(v)),
				domain.WithIndex(next),
			))
			next++
		}

		if constraint == nil {
			node.AttachSizeConstraint(domain.ExactSize(next))
			e.logger.Debug("container sized from source", "path", node.Path, "size", next)
			e.emit(domain.EventExpand, node, next, 0, next, nil)
			return children, nil
		}
	}

	size := e.decide(node)
	for i := next; i < size; i++ {
		children = append(children, domain.NewNode(node.Path, elemType,
			domain.WithIndex(i),
			domain.WithNullable(false),
			domain.WithNullInject(0),
		))
	}

	e.logger.Debug("container expanded",
		"path", node.Path,
		"from_source", next,
		"synthesized", len(children)-next,
		"size", size,
	)
	e.emit(domain.EventExpand, node, next, len(children)-next, size, nil)
	return children, nil
}

// ExpandWithResolver forwards to Expand; the resolver is ignored.
//
// Deprecated: use Expand.
func (e *Default) ExpandWithResolver(node *domain.Node, _ PropertyNameResolver) ([]*domain.Node, error) {
	return e.Expand(node)
}

// decide resolves the node's element count, attaching the default range first
// when the node arrived without a constraint.
func (e *Default) decide(node *domain.Node) int {
	constraint := node.SizeConstraint()
	if constraint == nil {
		constraint = domain.MustSizeConstraint(e.minSize, e.maxSize)
		node.AttachSizeConstraint(constraint)
	}
	if n, ok := constraint.Decided(); ok {
		return n
	}
	n := constraint.Decide(e.decider)
	e.emit(domain.EventSizeDecided, node, 0, 0, n, nil)
	return n
}

// elementValue maps a nil element, typed or not, to the explicit empty marker.
func elementValue(v any) *domain.LazyValue {
	if isNil(v) {
		return domain.Empty()
	}
	return domain.Just(v)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Chan, reflect.Func, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func (e *Default) emit(typ domain.EventType, node *domain.Node, fromSource, synthesized, size int, err error) {
	e.hooks.Emit(&domain.ExpansionEvent{
		EventBase: domain.EventBase{
			Timestamp: time.Now(),
			Type:      typ,
		},
		Path:        node.Path,
		NodeType:    node.Type.String(),
		FromSource:  fromSource,
		Synthesized: synthesized,
		Size:        size,
		Error:       err,
	})
}
