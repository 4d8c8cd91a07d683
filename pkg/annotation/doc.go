// Package annotation stores the structural markers observed on a property and
// answers exact-kind lookups over them.
package annotation
