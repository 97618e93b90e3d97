// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package compare

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/differannotate/interval"
)

// Index is the read-only view of one chromosome of one source that the
// partitioners need.  *interval.Index implements it.
type Index interface {
	// Filter returns matching features ordered by start, then insertion.
	Filter(flt interval.Filter) []interval.Feature
	// Search returns matching features overlapping [start, end) in the same
	// order as Filter.
	Search(start, end uint32, flt interval.Filter) []interval.Feature
	// Set returns the distinct matching features.  The caller owns the result.
	Set(flt interval.Filter) interval.Set
}

// Partition2 splits the features of two sources into three disjoint regions.
// Matched features are stored with the coordinates of A.
type Partition2 struct {
	OnlyA   interval.Set
	OnlyB   interval.Set
	Matched interval.Set
}

// Counts2 holds the region sizes of a Partition2.
type Counts2 struct {
	OnlyA, OnlyB, Matched int
}

// Counts returns the region sizes.
func (p Partition2) Counts() Counts2 {
	return Counts2{OnlyA: len(p.OnlyA), OnlyB: len(p.OnlyB), Matched: len(p.Matched)}
}

// Pairwise partitions the features of a and b that pass flt.  Features of a
// are visited in index order; each takes the first feature of b, in index
// order, that is still unmatched and reciprocally overlaps it by at least p
// percent.  Matching is greedy and never revisited.
//
// p is validated with interval.CheckThreshold, and flt with Filter.Validate.
func Pairwise(a, b Index, flt interval.Filter, p float64) (Partition2, error) {
	p, err := interval.CheckThreshold(p)
	if err != nil {
		return Partition2{}, err
	}
	if err := flt.Validate(); err != nil {
		return Partition2{}, err
	}
	return pairwise(a, b, flt, p), nil
}

// pairwise is Pairwise with a validated threshold.
func pairwise(a, b Index, flt interval.Filter, p float64) Partition2 {
	part := Partition2{
		OnlyA:   a.Set(flt),
		OnlyB:   b.Set(flt),
		Matched: interval.Set{},
	}
	for _, fa := range a.Filter(flt) {
		if !part.OnlyA.Has(fa) {
			// Duplicate of a feature that already matched.
			continue
		}
		for _, fb := range b.Search(fa.Start, fa.End, flt) {
			if !part.OnlyB.Has(fb) || !interval.Reciprocal(fa, fb, p) {
				continue
			}
			part.OnlyA.Remove(fa)
			part.OnlyB.Remove(fb)
			part.Matched.Add(fa)
			break
		}
	}
	if log.At(log.Debug) {
		log.Debug.Printf("compare.Pairwise %v p=%v: %+v", flt, p, part.Counts())
	}
	return part
}
