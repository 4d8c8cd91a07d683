// Package schema names the element types that can appear in sample files.
//
// Types are written as "string", "int", "float", "bool", "[T]" for slices and
// "seq[T]" for single-pass sequences. Each Type validates loosely decoded
// values and converts them to its Go type, so a YAML list of numbers becomes a
// []int source ready for expansion:
//
//	typ, err := schema.ParseType("[int]")
//	if err != nil {
//	    return err
//	}
//	src, err := typ.Convert([]any{10, 20, 30})
//	node := domain.NewNode("scores", schema.Descriptor(typ), domain.WithSource(src))
//
// Schema maps field names to types and validates whole records:
//
//	err := schema.Validate(schema.Schema{"name": schema.String()}, record)
package schema
