// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package compare

import "math"

// Confusion holds per-source base-level confusion counts against the control
// (row 0 of a Presence).  Index i of each slice refers to source i; the control
// is scored against itself.
type Confusion struct {
	TP, FP, TN, FN []int
}

// BaseConfusion scores every row of p against row 0.
func BaseConfusion(p *Presence) Confusion {
	n := p.NumRows()
	c := Confusion{
		TP: make([]int, n),
		FP: make([]int, n),
		TN: make([]int, n),
		FN: make([]int, n),
	}
	if n == 0 {
		return c
	}
	ctrl := p.Row(0)
	for r := 0; r < n; r++ {
		row := p.Row(r)
		tp, fp, fn := 0, 0, 0
		for i, w := range row {
			tp += popcount(ctrl[i] & w)
			fp += popcount(w &^ ctrl[i])
			fn += popcount(ctrl[i] &^ w)
		}
		c.TP[r], c.FP[r], c.FN[r] = tp, fp, fn
		c.TN[r] = p.Len() - tp - fp - fn
	}
	return c
}

// ratio returns num/(num+other), or NaN when both are zero.
func ratio(num, other int) float64 {
	if num+other == 0 {
		return math.NaN()
	}
	return float64(num) / float64(num+other)
}

// Sensitivity returns TP/(TP+FN) per source.
func (c Confusion) Sensitivity() []float64 {
	r := make([]float64, len(c.TP))
	for i := range r {
		r[i] = ratio(c.TP[i], c.FN[i])
	}
	return r
}

// Specificity returns TN/(TN+FP) per source.
func (c Confusion) Specificity() []float64 {
	r := make([]float64, len(c.TP))
	for i := range r {
		r[i] = ratio(c.TN[i], c.FP[i])
	}
	return r
}

// Precision returns TP/(TP+FP) per source.
func (c Confusion) Precision() []float64 {
	r := make([]float64, len(c.TP))
	for i := range r {
		r[i] = ratio(c.TP[i], c.FP[i])
	}
	return r
}

// Region is the interval-level analogue of Confusion for one treatment.
// There are no true negatives at interval resolution.
type Region struct {
	TP, FP, FN  int
	Sensitivity float64
	Precision   float64
}

// RegionStats scores a pairwise partition of control (A) and treatment (B).
func RegionStats(c Counts2) Region {
	return Region{
		TP:          c.Matched,
		FP:          c.OnlyB,
		FN:          c.OnlyA,
		Sensitivity: ratio(c.Matched, c.OnlyA),
		Precision:   ratio(c.Matched, c.OnlyB),
	}
}
