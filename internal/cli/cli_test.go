package cli

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/arbor/internal/config"
	"github.com/aretw0/arbor/pkg/adapters/bolt"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/adapters/redis"
	"github.com/aretw0/arbor/pkg/persistence/middleware"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `
containers:
  - name: scores
    type: "[int]"
    value: [10, 20]
  - name: tags
    type: "[string]"
    size: {min: 2, max: 2}
`

func seeded(seed uint64) *config.Config {
	cfg := config.Default()
	cfg.Seed = &seed
	return cfg
}

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0644))
	return path
}

func TestNewRuntime_Backends(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		rt, err := NewRuntime(ctx, config.Default(), io.Discard)
		require.NoError(t, err)
		defer rt.Close()
		assert.IsType(t, &memory.Store{}, rt.Store)
	})

	t.Run("bolt", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = config.BackendBolt
		cfg.Store.Bolt.Path = filepath.Join(t.TempDir(), "arbor.db")

		rt, err := NewRuntime(ctx, cfg, io.Discard)
		require.NoError(t, err)
		assert.IsType(t, &bolt.Store{}, rt.Store)
		require.NoError(t, rt.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := config.Default()
		cfg.Store.Backend = config.BackendRedis
		cfg.Store.Redis.Addr = mr.Addr()

		rt, err := NewRuntime(ctx, cfg, io.Discard)
		require.NoError(t, err)
		assert.IsType(t, &redis.Store{}, rt.Store)
		require.NoError(t, rt.Close())
	})

	t.Run("redis unreachable", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		cfg := config.Default()
		cfg.Store.Backend = config.BackendRedis
		cfg.Store.Redis.Addr = addr
		_, err := NewRuntime(ctx, cfg, io.Discard)
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		cfg := config.Default()
		cfg.Store.Backend = "s3"
		_, err := NewRuntime(ctx, cfg, io.Discard)
		assert.ErrorContains(t, err, "unknown store backend")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := config.Default()
		cfg.LogLevel = "loud"
		_, err := NewRuntime(ctx, cfg, io.Discard)
		assert.Error(t, err)
	})
}

func TestRunExpand_JSON(t *testing.T) {
	ctx := context.Background()
	rt, err := NewRuntime(ctx, seeded(7), io.Discard)
	require.NoError(t, err)
	defer rt.Close()

	var out bytes.Buffer
	snaps, err := RunExpand(ctx, rt, ExpandOptions{
		File:   writeSample(t),
		Format: FormatJSON,
		Save:   true,
		Out:    &out,
	})
	require.NoError(t, err)
	require.Len(t, snaps, 2)

	var decoded []tree.Snapshot
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Len(t, decoded[0].Nodes, 3)
	assert.Len(t, decoded[1].Nodes, 3)

	ids, err := rt.Store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, 2)
}

func TestRunExpand_Formats(t *testing.T) {
	ctx := context.Background()
	rt, err := NewRuntime(ctx, seeded(7), io.Discard)
	require.NoError(t, err)
	defer rt.Close()
	path := writeSample(t)

	var treeOut, mermaid bytes.Buffer
	_, err = RunExpand(ctx, rt, ExpandOptions{File: path, Format: FormatTree, Out: &treeOut})
	require.NoError(t, err)
	assert.Contains(t, treeOut.String(), "- **scores** `")
	assert.Contains(t, treeOut.String(), "**scores[1]**")

	_, err = RunExpand(ctx, rt, ExpandOptions{File: path, Format: FormatMermaid, Out: &mermaid})
	require.NoError(t, err)
	assert.Contains(t, mermaid.String(), "graph TD")
	assert.Contains(t, mermaid.String(), "scores_0 --> scores_1")

	_, err = RunExpand(ctx, rt, ExpandOptions{File: path, Format: "xml", Out: io.Discard})
	assert.ErrorContains(t, err, "unknown format")

	ids, err := rt.Store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestNewHTTPHandler(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Default(), io.Discard)
	require.NoError(t, err)
	defer rt.Close()

	srv := httptest.NewServer(NewHTTPHandler(rt))
	defer srv.Close()

	for _, path := range []string{"/health", "/info", "/metrics", "/snapshots"} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestNewHTTPHandler_NodeBudget(t *testing.T) {
	cfg := config.Default()
	cfg.MaxNodes = 20
	rt, err := NewRuntime(context.Background(), cfg, io.Discard)
	require.NoError(t, err)
	defer rt.Close()
	assert.Equal(t, 20, rt.Limits.MaxNodes)
	assert.Equal(t, cfg.DefaultSize.Max, rt.Limits.DefaultMax)

	srv := httptest.NewServer(NewHTTPHandler(rt))
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/expand", "application/json",
		strings.NewReader(`{"container": {"name": "cube", "type": "[[[int]]]"}}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRunServe_Shutdown(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Default(), io.Discard)
	require.NoError(t, err)
	defer rt.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, RunServe(ctx, rt, "127.0.0.1:0", io.Discard))
}

func TestRunMCP_UnknownTransport(t *testing.T) {
	rt, err := NewRuntime(context.Background(), config.Default(), io.Discard)
	require.NoError(t, err)
	defer rt.Close()

	assert.Error(t, RunMCP(context.Background(), rt, "carrier-pigeon", 0))
}

func TestNewRuntime_SecureStore(t *testing.T) {
	ctx := context.Background()
	cfg := seeded(1)
	cfg.Store.EncryptionKey = base64.StdEncoding.EncodeToString(make([]byte, 32))
	cfg.Store.Redact = []string{"^scores$"}

	rt, err := NewRuntime(ctx, cfg, io.Discard)
	require.NoError(t, err)
	defer rt.Close()

	snaps, err := RunExpand(ctx, rt, ExpandOptions{File: writeSample(t), Format: FormatJSON, Save: true, Out: io.Discard})
	require.NoError(t, err)

	loaded, err := rt.Store.Load(ctx, snaps[0].ID)
	require.NoError(t, err)
	require.Len(t, loaded.Nodes, 3)
	assert.Equal(t, middleware.Mask, loaded.Nodes[1].Value)
	assert.Empty(t, loaded.Sealed)

	cfg.Store.EncryptionKey = "short"
	_, err = NewRuntime(ctx, cfg, io.Discard)
	assert.Error(t, err)
}
