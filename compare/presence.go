// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package compare

import (
	"math/bits"

	"github.com/grailbio/base/bitset"
	"github.com/grailbio/base/log"
)

// Presence is a dense bit matrix with one row per annotation source and one
// column per base of a chromosome.  Bit (r, i) is set when source r has a
// matching feature covering base i.
type Presence struct {
	// bits stores the raw bits.  Row r is bits[r*rowWidth:(r+1)*rowWidth].
	bits []uintptr
	// rowWidth is the number of words per row.
	rowWidth int
	nRow     int
	length   int
}

// NewPresence creates an all-clear matrix.
func NewPresence(nRow, length int) *Presence {
	if nRow < 0 || length < 0 {
		log.Panicf("compare.NewPresence: bad shape %dx%d", nRow, length)
	}
	rowWidth := (length + bitset.BitsPerWord - 1) / bitset.BitsPerWord
	return &Presence{
		bits:     make([]uintptr, nRow*rowWidth),
		rowWidth: rowWidth,
		nRow:     nRow,
		length:   length,
	}
}

// NumRows returns the number of sources.
func (p *Presence) NumRows() int { return p.nRow }

// Len returns the number of bases per row.
func (p *Presence) Len() int { return p.length }

// Row returns the words backing row r.  Bits past Len() are always clear.
func (p *Presence) Row(r int) []uintptr {
	base := r * p.rowWidth
	return p.bits[base : base+p.rowWidth]
}

// Test checks bit (r, pos).
func (p *Presence) Test(r, pos int) bool {
	return bitset.Test(p.Row(r), pos)
}

// SetRange sets bits [start, end) of row r.  The range is clipped to
// [0, Len()).
func (p *Presence) SetRange(r, start, end int) {
	if start < 0 {
		start = 0
	}
	if end > p.length {
		end = p.length
	}
	if start >= end {
		return
	}
	row := p.Row(r)
	startWord, endWord := start/bitset.BitsPerWord, (end-1)/bitset.BitsPerWord
	startMask := ^uintptr(0) << uint(start%bitset.BitsPerWord)
	endMask := ^uintptr(0) >> uint(bitset.BitsPerWord-1-(end-1)%bitset.BitsPerWord)
	if startWord == endWord {
		row[startWord] |= startMask & endMask
		return
	}
	row[startWord] |= startMask
	for i := startWord + 1; i < endWord; i++ {
		row[i] = ^uintptr(0)
	}
	row[endWord] |= endMask
}

func popcount(w uintptr) int { return bits.OnesCount64(uint64(w)) }

// Count returns the number of set bits in row r.
func (p *Presence) Count(r int) int {
	n := 0
	for _, w := range p.Row(r) {
		n += popcount(w)
	}
	return n
}

// Venn2 returns the number of bases covered by only row 0, only row 1, and
// both, in that order.  REQUIRES: NumRows() >= 2.
func (p *Presence) Venn2() [3]int {
	var v [3]int
	a, b := p.Row(0), p.Row(1)
	for i := range a {
		v[0] += popcount(a[i] &^ b[i])
		v[1] += popcount(b[i] &^ a[i])
		v[2] += popcount(a[i] & b[i])
	}
	return v
}

// Venn3 returns per-base region sizes for rows 0-2, in the same order as
// Partition3.Counts: A only, B only, A&B, C only, A&C, B&C, A&B&C.
// REQUIRES: NumRows() >= 3.
func (p *Presence) Venn3() [7]int {
	var v [7]int
	a, b, c := p.Row(0), p.Row(1), p.Row(2)
	for i := range a {
		// Region index bit 0 is A, bit 1 is B, bit 2 is C, so region k sits at
		// v[k-1].
		v[0] += popcount(a[i] &^ b[i] &^ c[i])
		v[1] += popcount(b[i] &^ a[i] &^ c[i])
		v[2] += popcount(a[i] & b[i] &^ c[i])
		v[3] += popcount(c[i] &^ a[i] &^ b[i])
		v[4] += popcount(a[i] & c[i] &^ b[i])
		v[5] += popcount(b[i] & c[i] &^ a[i])
		v[6] += popcount(a[i] & b[i] & c[i])
	}
	return v
}
