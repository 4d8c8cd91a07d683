package arbor

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"reflect"

	"github.com/aretw0/arbor/internal/runtime"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/expander"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
	"golang.org/x/sync/errgroup"
)

// Engine is the high-level entry point for the Arbor library.
// It wires the default expander, per-type strategies and the tree builder,
// and optionally persists snapshots of built trees.
type Engine struct {
	registry    *expander.Registry
	builder     *runtime.Builder
	store       ports.SnapshotStore
	decider     domain.SizeDecider
	seed        uint64
	seeded      bool
	minSize     int
	maxSize     int
	maxDepth    int
	strategies  map[reflect.Type]expander.Expander
	concurrency int
	hooks       domain.LifecycleHooks
	logger      *slog.Logger
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithSizeDecider sets how undecided size constraints pick a count.
// It takes precedence over WithSeed.
func WithSizeDecider(d domain.SizeDecider) Option {
	return func(e *Engine) {
		e.decider = d
	}
}

// WithSeed makes size decisions reproducible.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithDefaultSize sets the range used for synthesized containers that have
// no size constraint.
func WithDefaultSize(min, max int) Option {
	return func(e *Engine) {
		e.minSize = min
		e.maxSize = max
	}
}

// WithMaxDepth bounds container nesting.
func WithMaxDepth(depth int) Option {
	return func(e *Engine) {
		e.maxDepth = depth
	}
}

// WithExpander routes nodes whose declared root type is t to a custom strategy.
func WithExpander(t reflect.Type, x expander.Expander) Option {
	return func(e *Engine) {
		e.strategies[t] = x
	}
}

// WithStore enables Save and Load.
func WithStore(store ports.SnapshotStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithConcurrency bounds how many trees BuildAll builds at once (default: unbounded).
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		e.concurrency = n
	}
}

// New initializes a new Arbor Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{
		minSize:    expander.DefaultMinSize,
		maxSize:    expander.DefaultMaxSize,
		strategies: make(map[reflect.Type]expander.Expander),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if _, err := domain.NewSizeConstraint(eng.minSize, eng.maxSize); err != nil {
		return nil, fmt.Errorf("invalid default size: %w", err)
	}

	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	if eng.decider == nil {
		seed := eng.seed
		if !eng.seeded {
			seed = rand.Uint64()
		}
		eng.decider = domain.NewRandomDecider(seed)
		eng.logger = eng.logger.With("seed", seed)
	}

	fallback := expander.New(
		expander.WithSizeDecider(eng.decider),
		expander.WithDefaultSize(eng.minSize, eng.maxSize),
		expander.WithLogger(eng.logger),
		expander.WithLifecycleHooks(eng.hooks),
	)
	eng.registry = expander.NewRegistry(fallback)
	for t, x := range eng.strategies {
		eng.registry.Register(t, x)
	}

	eng.builder = runtime.NewBuilder(eng.registry,
		runtime.WithLogger(eng.logger),
		runtime.WithMaxDepth(eng.maxDepth),
	)

	return eng, nil
}

// Expand expands a single container node without recursing.
func (e *Engine) Expand(node *domain.Node) ([]*domain.Node, error) {
	return e.registry.Expand(node)
}

// Build expands root and every container below it.
func (e *Engine) Build(ctx context.Context, root *domain.Node) (*tree.Tree, error) {
	return e.builder.Build(ctx, root)
}

// BuildAll builds independent trees concurrently. Roots must not share nodes.
// The first error cancels the remaining builds.
func (e *Engine) BuildAll(ctx context.Context, roots []*domain.Node) ([]*tree.Tree, error) {
	trees := make([]*tree.Tree, len(roots))

	g, ctx := errgroup.WithContext(ctx)
	if e.concurrency > 0 {
		g.SetLimit(e.concurrency)
	}
	for i, root := range roots {
		g.Go(func() error {
			t, err := e.builder.Build(ctx, root)
			if err != nil {
				return err
			}
			trees[i] = t
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

// Save snapshots t into the configured store and returns the snapshot.
func (e *Engine) Save(ctx context.Context, t *tree.Tree) (*tree.Snapshot, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	snap := t.Snapshot()
	if err := e.store.Save(ctx, snap); err != nil {
		return nil, err
	}
	e.logger.Info("snapshot saved", "snapshot_id", snap.ID, "nodes", len(snap.Nodes))
	return snap, nil
}

// Load reads a snapshot from the configured store.
func (e *Engine) Load(ctx context.Context, id string) (*tree.Snapshot, error) {
	if e.store == nil {
		return nil, ErrNoStore
	}
	return e.store.Load(ctx, id)
}

// Store returns the configured snapshot store, or nil.
func (e *Engine) Store() ports.SnapshotStore {
	return e.store
}

var _ ports.TreeBuilder = (*Engine)(nil)
