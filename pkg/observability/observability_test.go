package observability_test

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	m := observability.NewMetrics()
	eng, err := arbor.New(
		arbor.WithSizeDecider(domain.FixedDecider(2)),
		arbor.WithLifecycleHooks(m.Hooks()),
	)
	require.NoError(t, err)

	ctx := context.Background()
	_, err = eng.Build(ctx, domain.NewNode("xs", domain.TypeFor[[]int](), domain.WithSource([]int{1}), domain.WithSize(domain.ExactSize(3))))
	require.NoError(t, err)
	_, err = eng.Build(ctx, domain.NewNode("ys", domain.TypeFor[[]int](), domain.WithEmptySource()))
	require.NoError(t, err)
	_, err = eng.Build(ctx, domain.NewNode("zs", domain.TypeFor[[]int](), domain.WithSource("bad")))
	require.Error(t, err)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `arbor_expansions_total{outcome="expanded"} 1`)
	assert.Contains(t, text, `arbor_expansions_total{outcome="empty"} 1`)
	assert.Contains(t, text, `arbor_expansions_total{outcome="error"} 1`)
	assert.Contains(t, text, `arbor_children_total{origin="source"} 1`)
	assert.Contains(t, text, `arbor_children_total{origin="synthesized"} 2`)
	assert.Contains(t, text, `arbor_decided_size_count 1`)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	hooks := domain.ChainHooks(observability.LoggingHooks(logger), observability.NewMetrics().Hooks())
	hooks.Emit(&domain.ExpansionEvent{
		EventBase:  domain.EventBase{Type: domain.EventExpand},
		Path:       "scores",
		FromSource: 2,
	})

	assert.Contains(t, buf.String(), "container_expanded")
	assert.Contains(t, buf.String(), "path=scores")
	assert.Contains(t, buf.String(), "from_source=2")
}
