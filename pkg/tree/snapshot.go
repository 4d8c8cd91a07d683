package tree

import (
	"reflect"
	"time"

	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/source"
	"github.com/google/uuid"
)

// Snapshot is the serializable form of a built tree.
type Snapshot struct {
	ID        string       `json:"id"`
	CreatedAt time.Time    `json:"created_at"`
	Nodes     []NodeRecord `json:"nodes"`
	// Sealed carries the encrypted snapshot body when Nodes are withheld.
	Sealed string `json:"sealed,omitempty"`
}

// NodeRecord is one node of a Snapshot. Parent is -1 for roots.
type NodeRecord struct {
	Handle     int         `json:"handle"`
	Parent     int         `json:"parent"`
	Path       string      `json:"path"`
	Index      *int        `json:"index,omitempty"`
	Type       string      `json:"type"`
	Source     string      `json:"source"`
	Nullable   bool        `json:"nullable"`
	NullInject float64     `json:"null_inject"`
	Size       *SizeRecord `json:"size,omitempty"`
	Finalized  bool        `json:"finalized"`
	Value      any         `json:"value,omitempty"`
}

// SizeRecord mirrors a size constraint. Decided is nil until a count is committed.
type SizeRecord struct {
	Min     int  `json:"min"`
	Max     int  `json:"max"`
	Decided *int `json:"decided,omitempty"`
}

// Snapshot records the tree under a fresh ID.
//
// Values are recorded for childless nodes only, and only when they are
// already materialized scalars or collections; deferred suppliers are never
// run and single-pass sources are never consumed.
func (t *Tree) Snapshot() *Snapshot {
	snap := &Snapshot{
		ID:        uuid.New().String(),
		CreatedAt: time.Now().UTC(),
		Nodes:     make([]NodeRecord, 0, len(t.entries)),
	}

	for i, e := range t.entries {
		n := e.node
		rec := NodeRecord{
			Handle:     i,
			Parent:     int(e.parent),
			Path:       n.Path,
			Type:       n.Type.String(),
			Source:     n.Value().Kind().String(),
			Nullable:   n.Nullable,
			NullInject: n.NullInject,
			Finalized:  n.Finalized(),
		}
		if idx, ok := n.Index(); ok {
			rec.Index = &idx
		}
		if c := n.SizeConstraint(); c != nil {
			rec.Size = &SizeRecord{Min: c.Min(), Max: c.Max()}
			if d, ok := c.Decided(); ok {
				rec.Size.Decided = &d
			}
		}
		if len(e.children) == 0 {
			rec.Value = recordable(n.Value())
		}
		snap.Nodes = append(snap.Nodes, rec)
	}
	return snap
}

func recordable(v *domain.LazyValue) any {
	if v.Kind() != domain.LazyPresent || !v.Resolved() {
		return nil
	}
	val := v.Get()
	switch reflect.ValueOf(val).Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil
	}
	switch source.Classify(val) {
	case source.ShapeUnsupported, source.ShapeCollection:
		return val
	}
	return nil
}

// Clone returns a deep copy, except for recorded values which are shared.
func (s *Snapshot) Clone() *Snapshot {
	out := *s
	out.Nodes = make([]NodeRecord, len(s.Nodes))
	for i, rec := range s.Nodes {
		if rec.Index != nil {
			idx := *rec.Index
			rec.Index = &idx
		}
		if rec.Size != nil {
			size := *rec.Size
			if size.Decided != nil {
				d := *size.Decided
				size.Decided = &d
			}
			rec.Size = &size
		}
		out.Nodes[i] = rec
	}
	return &out
}
