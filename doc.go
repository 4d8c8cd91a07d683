/*
Package arbor builds generation trees for fixture and test-data generation.

A generation tree mirrors the structure of a value under test: every property
or container element is a node. Container nodes (slices, arrays, sequences,
channels and cursors) are expanded into ordered element nodes, either by
replaying a sample source value, by synthesizing placeholders to be filled
later, or both.

# Expansion

Each container node carries an optional lazy source and an optional size
constraint:

  - an explicitly empty source yields no children and finalizes the node with
    a generator that always produces nil;
  - a present source is replayed in order, truncated at the constraint's upper
    bound, and a node without a constraint is committed to exactly the replayed
    length;
  - the rest of the decided count is filled with non-nullable placeholders.

Bidirectional cursors are read without moving their observable position.
Forward-only cursors and single-pass sequences are consumed.

# Usage

	eng, err := arbor.New(arbor.WithSeed(42))
	if err != nil {
		log.Fatal(err)
	}

	root := domain.NewNode("scores", domain.TypeFor[[]int](),
		domain.WithSource([]int{10, 20}),
		domain.WithSize(domain.MustSizeConstraint(3, 3)),
	)

	t, err := eng.Build(context.Background(), root)
	if err != nil {
		log.Fatal(err)
	}
	// t holds the root plus three elements: 10, 20 and one placeholder.

Custom strategies are registered per declared type with WithExpander, and
built trees can be persisted with WithStore and Save.
*/
package arbor
