// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package compare

import (
	"github.com/grailbio/base/log"
	"github.com/grailbio/differannotate/interval"
)

// Partition3 splits the features of three sources into the seven regions of
// a three-set Venn diagram.  Features present in A are stored with A's
// coordinates, and features shared by B and C alone with B's.
type Partition3 struct {
	OnlyA interval.Set
	OnlyB interval.Set
	AB    interval.Set
	OnlyC interval.Set
	AC    interval.Set
	BC    interval.Set
	ABC   interval.Set
}

// Counts returns the region sizes in the order A only, B only, A&B, C only,
// A&C, B&C, A&B&C.
func (p Partition3) Counts() [7]int {
	return [7]int{
		len(p.OnlyA), len(p.OnlyB), len(p.AB),
		len(p.OnlyC), len(p.AC), len(p.BC), len(p.ABC),
	}
}

// Triwise partitions the features of a, b and c that pass flt.  It runs the
// three pairwise partitions AB, AC and BC, then reconciles them, using fuzzy
// set operations wherever the coordinates of one pair must be compared with
// those of another.
//
// Reciprocal overlap is not transitive.  A feature of a that is linked by any
// two of the AB, AC and BC matches goes to ABC, even if the third pair does not
// match.  When features of a and b both match one feature of c but not each
// other, the first is counted in AC and the second in BC.
//
// p is validated with interval.CheckThreshold, and flt with Filter.Validate.
func Triwise(a, b, c Index, flt interval.Filter, p float64) (Partition3, error) {
	p, err := interval.CheckThreshold(p)
	if err != nil {
		return Partition3{}, err
	}
	if err := flt.Validate(); err != nil {
		return Partition3{}, err
	}
	ab := pairwise(a, b, flt, p)
	ac := pairwise(a, c, flt, p)
	bc := pairwise(b, c, flt, p)

	// Matches between B and C, expressed in A's coordinates where A also has
	// the feature.
	bcInA := FuzzyMutate(a.Set(flt), bc.Matched, p)

	abc := FuzzyIntersect(FuzzyIntersect(ab.Matched, ac.Matched, p), bc.Matched, p)
	abc = abc.Union(ab.Matched.Intersect(ac.Matched))
	abc = abc.Union(ab.Matched.Intersect(bcInA))
	abc = abc.Union(ac.Matched.Intersect(bcInA))

	part := Partition3{
		OnlyA: ab.OnlyA.Intersect(ac.OnlyA),
		OnlyB: FuzzyIntersect(ab.OnlyB, bc.OnlyA, p),
		AB:    ab.Matched.Difference(ac.Matched.Union(bcInA).Union(abc)),
		OnlyC: FuzzyIntersect(ac.OnlyB, bc.OnlyB, p),
		AC:    ac.Matched.Difference(ab.Matched.Union(bcInA).Union(abc)),
		BC:    bcInA.Difference(ab.Matched.Union(ac.Matched).Union(abc)),
		ABC:   abc,
	}
	if log.At(log.Debug) {
		log.Debug.Printf("compare.Triwise %v p=%v: %v", flt, p, part.Counts())
	}
	return part, nil
}
