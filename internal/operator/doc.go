// Package operator holds the transformation operators the convertor searches over.
//
// An operator Spec names a transformation, declares a typed parameter schema and
// provides a pure Apply function from (parameters, region) to a new region.
// Specs live in a Registry, which validates parameter values against the schema
// when an operator is instantiated.
//
// # Parameter Types
//
// Schemas use a closed set of tagged types checked with type switches:
//   - Int, Float, String scalars
//   - Tuple(elems...) fixed-arity tuples of scalars, e.g. a color (int,int,int)
//
// An Int value is accepted where a Float is declared; the reverse is rejected.
//
// # Candidate Parameters
//
// Search cannot enumerate continuous parameter spaces, so every operator is
// explored over a finite candidate set supplied by a CandidateSource. The
// default discretization covers a small translate grid, a handful of scale
// factors and a three color palette; presets loaded from disk can extend it.
package operator
