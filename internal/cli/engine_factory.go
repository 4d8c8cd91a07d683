package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/aretw0/arbor/pkg/adapters/bolt"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/sample"
)

// Runtime bundles an engine with the infrastructure configured around it.
type Runtime struct {
	Engine  *arbor.Engine
	Store   ports.SnapshotStore
	Metrics *observability.Metrics
	Logger  *slog.Logger
	// Limits bounds the trees requested over HTTP and MCP.
	Limits sample.Limits

	closeStore func() error
}

// Close releases the snapshot store.
func (r *Runtime) Close() error {
	if r.closeStore == nil {
		return nil
	}
	return r.closeStore()
}

// NewRuntime wires logger, hooks, metrics and store from cfg.
// Logs are written to logOut so stdout stays free for tree output.
func NewRuntime(ctx context.Context, cfg *config.Config, logOut io.Writer) (*Runtime, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.NewWithWriter(logOut, level, cfg.LogFormat)

	store, closeStore, err := openStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	store, err = secureStore(store, cfg.Store)
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, err
	}

	metrics := observability.NewMetrics()
	engine, err := createEngine(cfg, logger, store, metrics)
	if err != nil {
		if closeStore != nil {
			_ = closeStore()
		}
		return nil, err
	}

	return &Runtime{
		Engine:     engine,
		Store:      store,
		Metrics:    metrics,
		Logger:     logger,
		Limits:     sample.Limits{MaxNodes: cfg.MaxNodes, DefaultMax: cfg.DefaultSize.Max},
		closeStore: closeStore,
	}, nil
}

// createEngine initializes an Arbor engine with standard CLI conventions.
func createEngine(cfg *config.Config, logger *slog.Logger, store ports.SnapshotStore, metrics *observability.Metrics) (*arbor.Engine, error) {
	engineOpts := []arbor.Option{
		arbor.WithLogger(logger),
		arbor.WithLifecycleHooks(domain.ChainHooks(
			observability.LoggingHooks(logger),
			metrics.Hooks(),
		)),
		arbor.WithDefaultSize(cfg.DefaultSize.Min, cfg.DefaultSize.Max),
		arbor.WithMaxDepth(cfg.MaxDepth),
		arbor.WithStore(store),
	}
	if cfg.Seed != nil {
		engineOpts = append(engineOpts, arbor.WithSeed(*cfg.Seed))
	}

	engine, err := arbor.New(engineOpts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	return engine, nil
}

// secureStore layers value redaction and at-rest encryption over store.
func secureStore(store ports.SnapshotStore, cfg config.Store) (ports.SnapshotStore, error) {
	var mws []middleware.Middleware
	if len(cfg.Redact) > 0 {
		mws = append(mws, middleware.NewRedactMiddleware(cfg.Redact))
	}
	key, err := cfg.Key()
	if err != nil {
		return nil, err
	}
	if key != nil {
		mws = append(mws, middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}))
	}
	return middleware.Wrap(store, mws...), nil
}

// openStore selects the snapshot backend. The returned closer may be nil.
func openStore(ctx context.Context, cfg config.Store, logger *slog.Logger) (ports.SnapshotStore, func() error, error) {
	switch cfg.Backend {
	case config.BackendMemory, "":
		return memory.NewStore(), nil, nil

	case config.BackendRedis:
		store := redis.New(cfg.Redis.Addr,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, nil, fmt.Errorf("redis store unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("Using redis snapshot store", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return store, store.Close, nil

	case config.BackendBolt:
		store, err := bolt.Open(cfg.Bolt.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open bolt store: %w", err)
		}
		logger.Debug("Using bolt snapshot store", "path", cfg.Bolt.Path)
		return store, store.Close, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
