package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/arbor/pkg/ports"
	"github.com/aretw0/arbor/pkg/tree"
)

// Mask replaces redacted values.
const Mask = "***"

type redactMiddleware struct {
	next     ports.SnapshotStore
	patterns []*regexp.Regexp
}

// NewRedactMiddleware creates a middleware that masks recorded values of
// nodes whose path matches any of the patterns. The caller's snapshot is
// left untouched.
func NewRedactMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.SnapshotStore) ports.SnapshotStore {
		return &redactMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactMiddleware) Save(ctx context.Context, snap *tree.Snapshot) error {
	masked := snap.Clone()
	for i, rec := range masked.Nodes {
		if rec.Value != nil && m.matches(rec.Path) {
			masked.Nodes[i].Value = Mask
		}
	}
	return m.next.Save(ctx, masked)
}

func (m *redactMiddleware) matches(path string) bool {
	for _, p := range m.patterns {
		if p.MatchString(path) {
			return true
		}
	}
	return false
}

func (m *redactMiddleware) Load(ctx context.Context, id string) (*tree.Snapshot, error) {
	return m.next.Load(ctx, id)
}

func (m *redactMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}
