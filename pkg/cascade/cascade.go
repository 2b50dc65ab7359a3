// Package cascade runs ordered lookup strategies and keeps the first one that
// finds something.
package cascade

import "github.com/PuerkitoBio/goquery"

// Strategy is one named way of locating nodes under a scope.
type Strategy[T any] struct {
	Name   string
	Locate func(scope T) *goquery.Selection
}

// Result is the winning selection and the name of the strategy that produced
// it. Name is empty when every strategy missed.
type Result struct {
	Name string
	Sel  *goquery.Selection
}

// Found reports whether any strategy matched.
func (r Result) Found() bool {
	return r.Sel != nil && r.Sel.Length() > 0
}

// First runs strategies in order and returns the first non-empty result. A
// miss is not an error: the caller receives an empty Result.
func First[T any](scope T, strategies []Strategy[T]) Result {
	for _, s := range strategies {
		sel := s.Locate(scope)
		if sel != nil && sel.Length() > 0 {
			return Result{Name: s.Name, Sel: sel}
		}
	}
	return Result{}
}
