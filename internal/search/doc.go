// Package search finds the cheapest sequence of operator applications that
// turns one region into another.
//
// The Convertor runs a best-first search over region states. Each transition
// instantiates a registered operator with one candidate parameter set, applies
// it and prices it with the cost evaluator. The frontier is ordered by
// accumulated cost plus a geometric heuristic; the search is bounded by a step
// budget and a coordinate limit.
package search
