package sample

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/aretw0/arbor/pkg/annotation"
	"github.com/aretw0/arbor/pkg/domain"
	"github.com/aretw0/arbor/pkg/schema"
	"github.com/aretw0/arbor/pkg/source"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Shapes an entry's value can be presented as.
const (
	ShapeList   = "list"
	ShapeCursor = "cursor"
)

// ErrInvalidEntry is wrapped by every entry validation failure.
var ErrInvalidEntry = errors.New("invalid sample entry")

// entrySchema lists the fields every entry must carry.
var entrySchema = schema.Schema{
	"name": schema.String(),
	"type": schema.String(),
}

// Size is an inclusive element-count range.
type Size struct {
	Min int `mapstructure:"min" json:"min"`
	Max int `mapstructure:"max" json:"max"`
}

// Entry describes one root container node.
type Entry struct {
	Name string `mapstructure:"name" json:"name"`
	// Type is a schema type name such as "[int]" or "seq[string]".
	Type string `mapstructure:"type" json:"type"`
	// Value is the sample source. Absent means synthesize everything.
	Value any `mapstructure:"value" json:"value,omitempty"`
	// Empty marks the container as explicitly empty.
	Empty bool  `mapstructure:"empty" json:"empty,omitempty"`
	Size  *Size `mapstructure:"size" json:"size,omitempty"`
	// Shape presents a list value as a plain slice or as a bidirectional cursor.
	Shape string `mapstructure:"shape" json:"shape,omitempty"`
	// Position is the cursor's starting index when Shape is "cursor".
	Position int `mapstructure:"position" json:"position,omitempty"`
	// Deferred hands the converted value to the node through a supplier that
	// runs on first expansion.
	Deferred bool `mapstructure:"deferred" json:"deferred,omitempty"`
	// Tags holds annotation markers, e.g. "size=1..3,notnull".
	Tags string `mapstructure:"tags" json:"tags,omitempty"`
}

// File is a parsed sample file.
type File struct {
	Entries []*Entry
}

// Load reads a sample file (YAML or JSON, by extension).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sample file: %w", err)
	}
	format := "yaml"
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		format = "json"
	}
	return Parse(data, format)
}

// Parse decodes a sample document with a top-level "containers" list.
func Parse(data []byte, format string) (*File, error) {
	var doc struct {
		Containers []map[string]any `yaml:"containers" json:"containers"`
	}
	var err error
	if format == "json" {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse sample: %w", err)
	}

	file := &File{}
	for i, raw := range doc.Containers {
		e, err := DecodeEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("container %d: %w", i, err)
		}
		file.Entries = append(file.Entries, e)
	}
	return file, nil
}

// DecodeEntry validates and decodes one loosely typed entry, as produced by
// YAML, JSON or tool arguments.
func DecodeEntry(raw map[string]any) (*Entry, error) {
	if err := schema.Validate(entrySchema, raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}

	var e Entry
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &e,
		WeaklyTypedInput: true,
		ErrorUnused:      true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEntry, err)
	}
	return &e, nil
}

// Nodes builds one root node per entry.
func (f *File) Nodes() ([]*domain.Node, error) {
	nodes := make([]*domain.Node, 0, len(f.Entries))
	for _, e := range f.Entries {
		n, err := e.Node()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Node builds the root node described by the entry.
func (e *Entry) Node() (*domain.Node, error) {
	typ, err := schema.ParseType(e.Type)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
	}
	if !schema.IsContainer(typ) {
		return nil, fmt.Errorf("%w %q: type %s is not a container", ErrInvalidEntry, e.Name, typ.Name())
	}
	if e.Empty && e.Value != nil {
		return nil, fmt.Errorf("%w %q: empty and value are exclusive", ErrInvalidEntry, e.Name)
	}

	desc := schema.Descriptor(typ)
	var opts []domain.NodeOption

	if e.Tags != "" {
		markers, err := annotation.ParseTag(e.Tags)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
		}
		tagged, err := annotation.New(desc, nil, markers...).NodeOptions()
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
		}
		opts = append(opts, tagged...)
	}

	if e.Size != nil {
		c, err := domain.NewSizeConstraint(e.Size.Min, e.Size.Max)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
		}
		opts = append(opts, domain.WithSize(c))
	}

	switch {
	case e.Empty:
		opts = append(opts, domain.WithEmptySource())
	case e.Value != nil:
		src, srcDesc, err := e.source(typ, desc)
		if err != nil {
			return nil, fmt.Errorf("%w %q: %w", ErrInvalidEntry, e.Name, err)
		}
		desc = srcDesc
		if e.Deferred {
			opts = append(opts, domain.WithDeferredSource(func() any { return src }))
		} else {
			opts = append(opts, domain.WithSource(src))
		}
	}

	return domain.NewNode(e.Name, desc, opts...), nil
}

// source converts the entry value into the shape requested.
func (e *Entry) source(typ schema.Type, desc domain.TypeDescriptor) (any, domain.TypeDescriptor, error) {
	if err := schema.ValidateValue("value", typ, e.Value); err != nil {
		return nil, desc, err
	}
	switch e.Shape {
	case "", ShapeList:
		src, err := typ.Convert(e.Value)
		return src, desc, err
	case ShapeCursor:
		list, err := schema.Slice(elemOf(typ)).Convert(e.Value)
		if err != nil {
			return nil, desc, err
		}
		rv := reflect.ValueOf(list)
		items := make([]any, rv.Len())
		for i := range items {
			items[i] = rv.Index(i).Interface()
		}
		cursor := source.NewListCursorAt(e.Position, items...)
		return cursor, domain.ContainerOf(reflect.TypeOf(cursor), desc.Element()), nil
	default:
		return nil, desc, fmt.Errorf("unknown shape %q", e.Shape)
	}
}

func elemOf(t schema.Type) schema.Type {
	switch c := t.(type) {
	case *schema.SliceType:
		return c.Elem()
	case *schema.SeqType:
		return c.Elem()
	}
	return t
}
