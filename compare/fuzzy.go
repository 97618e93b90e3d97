// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package compare

import "github.com/grailbio/differannotate/interval"

// overlapping calls fn on the candidates in sorted slice qs that could
// overlap x, in order, until fn returns true.
func overlapping(x interval.Feature, qs []interval.Feature, fn func(i int) bool) {
	for i, q := range qs {
		if q.Start >= x.End {
			return
		}
		if q.End <= x.Start {
			continue
		}
		if fn(i) {
			return
		}
	}
}

// FuzzyIntersect returns the elements of P that are also in Q, either exactly
// or through a reciprocal overlap of at least p percent.  Inexact pairs
// contribute P's coordinates, and each element of Q pairs with at most one
// element of P.  Elements are visited in Feature.Less order.
//
// p must have been validated with interval.CheckThreshold.
func FuzzyIntersect(P, Q interval.Set, p float64) interval.Set {
	r := P.Intersect(Q)
	qs := Q.Difference(P).Sorted()
	claimed := make([]bool, len(qs))
	for _, x := range P.Difference(Q).Sorted() {
		overlapping(x, qs, func(i int) bool {
			if claimed[i] || !interval.Reciprocal(x, qs[i], p) {
				return false
			}
			claimed[i] = true
			r.Add(x)
			return true
		})
	}
	return r
}

// FuzzyMutate rewrites target in terms of basis.  Elements of target that are
// in basis are kept.  Each other element is replaced by the first unclaimed
// element of basis that reciprocally overlaps it by at least p percent, or
// kept as is when there is none.  Elements are visited in Feature.Less order.
//
// p must have been validated with interval.CheckThreshold.
func FuzzyMutate(basis, target interval.Set, p float64) interval.Set {
	r := basis.Intersect(target)
	bs := basis.Difference(target).Sorted()
	claimed := make([]bool, len(bs))
	for _, x := range target.Difference(basis).Sorted() {
		found := false
		overlapping(x, bs, func(i int) bool {
			if claimed[i] || !interval.Reciprocal(x, bs[i], p) {
				return false
			}
			claimed[i] = true
			r.Add(bs[i])
			found = true
			return true
		})
		if !found {
			r.Add(x)
		}
	}
	return r
}
