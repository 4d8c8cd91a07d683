/*
Package sample reads container samples from YAML or JSON files and turns them
into root nodes.

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
	    tags: "notnull"

Entries without a value are synthesized; "tags" accepts annotation markers
such as "size=1..3,nullinject=0.1".
*/
package sample
