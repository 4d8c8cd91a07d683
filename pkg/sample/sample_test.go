package sample_test

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/sample"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/aretw0/arbor/pkg/source"
	"github.com/aretw0/arbor/pkg/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const doc = `
containers:
  - name: scores
    type: "[int]"
    value: [10, 20, 30]
    size: {min: 0, max: 2}
  - name: tags
    type: "[string]"
    empty: true
  - name: history
    type: "[int]"
    shape: cursor
    position: 1
    value: [1, 2, 3]
  - name: letters
    type: "seq[string]"
    value: [a, b]
    tags: "size=3,notnull"
  - name: grid
    type: "[[int]]"
`

func TestParse_YAML(t *testing.T) {
	file, err := sample.Parse([]byte(doc), "yaml")
	require.NoError(t, err)
	require.Len(t, file.Entries, 5)

	nodes, err := file.Nodes()
	require.NoError(t, err)

	scores := nodes[0]
	assert.Equal(t, reflect.TypeFor[[]int](), scores.Type.Root)
	assert.Equal(t, []int{10, 20, 30}, scores.Value().Get())
	assert.Equal(t, 2, scores.SizeConstraint().Max())

	assert.Equal(t, domain.LazyEmpty, nodes[1].Value().Kind())

	cursor, ok := nodes[2].Value().Get().(*source.ListCursor)
	require.True(t, ok)
	assert.Equal(t, 1, cursor.NextIndex())
	assert.Equal(t, reflect.TypeFor[int](), nodes[2].Type.Element().Root)

	letters := nodes[3]
	assert.Equal(t, reflect.TypeFor[string](), letters.Type.Element().Root)
	assert.Equal(t, 3, letters.SizeConstraint().Min())
	assert.False(t, letters.Nullable)

	assert.Equal(t, domain.LazyUnset, nodes[4].Value().Kind())
}

func TestParse_BuildsWithEngine(t *testing.T) {
	file, err := sample.Parse([]byte(doc), "yaml")
	require.NoError(t, err)
	nodes, err := file.Nodes()
	require.NoError(t, err)

	eng, err := arbor.New(arbor.WithSizeDecider(domain.FixedDecider(1)))
	require.NoError(t, err)
	trees, err := eng.BuildAll(context.Background(), nodes)
	require.NoError(t, err)

	assert.Equal(t, 3, trees[0].Len(), "scores truncated to 2")
	assert.Equal(t, 1, trees[1].Len(), "tags empty")
	assert.Equal(t, 4, trees[2].Len(), "history read in full")
	assert.Equal(t, 1, nodes[2].Value().Get().(*source.ListCursor).NextIndex(), "cursor position kept")

	letters := trees[3]
	kids := letters.Children(tree.Handle(0))
	require.Len(t, kids, 3)
	assert.Equal(t, "a", letters.Node(kids[0]).Value().Get())
	assert.Equal(t, domain.LazyUnset, letters.Node(kids[2]).Value().Kind())
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.json")
	content := `{"containers": [{"name": "ids", "type": "[int]", "value": [1, 2], "deferred": true}]}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	file, err := sample.Load(path)
	require.NoError(t, err)
	nodes, err := file.Nodes()
	require.NoError(t, err)

	v := nodes[0].Value()
	assert.False(t, v.Resolved())
	assert.Equal(t, []int{1, 2}, v.Get())
}

func TestDecodeEntry_Errors(t *testing.T) {
	tests := []struct {
		name string
		raw  map[string]any
	}{
		{"missing name", map[string]any{"type": "[int]"}},
		{"wrong type", map[string]any{"name": "x", "type": 3}},
		{"unknown key", map[string]any{"name": "x", "type": "[int]", "colour": "red"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sample.DecodeEntry(tt.raw)
			assert.ErrorIs(t, err, sample.ErrInvalidEntry)
		})
	}
}

func TestEntry_NodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		entry sample.Entry
	}{
		{"unknown type", sample.Entry{Name: "x", Type: "[uuid]"}},
		{"scalar type", sample.Entry{Name: "x", Type: "int"}},
		{"empty with value", sample.Entry{Name: "x", Type: "[int]", Empty: true, Value: []any{1}}},
		{"bad element", sample.Entry{Name: "x", Type: "[int]", Value: []any{"one"}}},
		{"bad size", sample.Entry{Name: "x", Type: "[int]", Size: &sample.Size{Min: 3, Max: 1}}},
		{"bad tags", sample.Entry{Name: "x", Type: "[int]", Tags: "size=a"}},
		{"bad shape", sample.Entry{Name: "x", Type: "[int]", Value: []any{1}, Shape: "ring"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.entry.Node()
			assert.ErrorIs(t, err, sample.ErrInvalidEntry)
		})
	}
}

func TestEntry_NodeReportsBadElement(t *testing.T) {
	entry := sample.Entry{Name: "x", Type: "[int]", Value: []any{1, 2, "three"}, Shape: sample.ShapeCursor}
	_, err := entry.Node()
	require.ErrorIs(t, err, sample.ErrInvalidEntry)

	var field *schema.ValidationError
	require.ErrorAs(t, err, &field)
	assert.Equal(t, "value", field.Key)

	var elem *schema.ElementError
	require.ErrorAs(t, err, &elem)
	assert.Equal(t, 2, elem.Index)
}
