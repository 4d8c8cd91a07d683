package domain

import "math/rand/v2"

// Generator produces the terminal value of a finalized node.
type Generator interface {
	Generate(r *rand.Rand) any
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(r *rand.Rand) any

func (f GeneratorFunc) Generate(r *rand.Rand) any { return f(r) }

// Constant always yields v.
func Constant(v any) Generator {
	return GeneratorFunc(func(*rand.Rand) any { return v })
}

// Null always yields the absent value.
func Null() Generator {
	return Constant(nil)
}
