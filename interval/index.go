package interval

import (
	"sort"
	"sync"

	biointerval "github.com/biogo/store/interval"
	"github.com/grailbio/base/log"
)

// node adapts a Feature to biogo's IntInterface.  id is the insertion sequence
// number; it breaks ties between features with the same start, so that
// duplicate records are all retained.
type node struct {
	f  Feature
	id uintptr
}

// Overlap implements biointerval.IntOverlapper, using half-open coordinates.
func (n node) Overlap(r biointerval.IntRange) bool {
	return int(n.f.End) > r.Start && int(n.f.Start) < r.End
}

// ID implements biointerval.IntInterface.
func (n node) ID() uintptr { return n.id }

// Range implements biointerval.IntInterface.
func (n node) Range() biointerval.IntRange {
	return biointerval.IntRange{Start: int(n.f.Start), End: int(n.f.End)}
}

type query struct{ start, end int }

func (q query) Overlap(r biointerval.IntRange) bool {
	return q.end > r.Start && q.start < r.End
}

// Builder collects the features of one chromosome.  It is the only mutable
// stage of an index; call Build once loading is finished.
type Builder struct {
	features []Feature
	min, max uint32
}

// Insert adds f.  REQUIRES: f.Start < f.End.
func (b *Builder) Insert(f Feature) {
	if len(b.features) == 0 {
		b.min, b.max = f.Start, f.End
	} else {
		if f.Start < b.min {
			b.min = f.Start
		}
		if f.End > b.max {
			b.max = f.End
		}
	}
	b.features = append(b.features, f)
}

// Len returns the number of features inserted so far.
func (b *Builder) Len() int { return len(b.features) }

// Build creates an Index over the inserted features.  The Builder must not be
// used afterwards.
func (b *Builder) Build() *Index {
	idx := &Index{
		min:  b.min,
		max:  b.max,
		sets: map[Filter]Set{},
	}
	for i, f := range b.features {
		if err := idx.tree.Insert(node{f: f, id: uintptr(i)}, true); err != nil {
			// Features are validated by the caller, so an inverted range here is a
			// programming error.
			log.Panicf("interval.Build: feature %v: %v", f, err)
		}
	}
	idx.tree.AdjustRanges()

	// The tree orders by (start, insertion id); keep a flat copy in the same
	// order for full scans.
	idx.features = b.features
	sort.SliceStable(idx.features, func(i, j int) bool {
		return idx.features[i].Start < idx.features[j].Start
	})
	b.features = nil
	return idx
}

// Index is an immutable interval tree over the features of one chromosome of
// one annotation source.  Queries are thread-safe.
type Index struct {
	tree     biointerval.IntTree
	features []Feature
	min, max uint32

	mu   sync.Mutex
	sets map[Filter]Set // memoized Set() results, never mutated once stored.
}

// Len returns the number of features, including duplicates.
func (x *Index) Len() int { return len(x.features) }

// Min returns the smallest feature start, or 0 if the index is empty.
func (x *Index) Min() uint32 { return x.min }

// Max returns the largest feature end, or 0 if the index is empty.
func (x *Index) Max() uint32 { return x.max }

// Search returns the features overlapping [start, end) that pass flt, ordered
// by start.
func (x *Index) Search(start, end uint32, flt Filter) []Feature {
	var r []Feature
	x.tree.DoMatching(func(e biointerval.IntInterface) bool {
		if f := e.(node).f; flt.Match(f) {
			r = append(r, f)
		}
		return false
	}, query{int(start), int(end)})
	return r
}

// Filter returns the features that pass flt, ordered by start.
func (x *Index) Filter(flt Filter) []Feature {
	var r []Feature
	for _, f := range x.features {
		if flt.Match(f) {
			r = append(r, f)
		}
	}
	return r
}

// Set returns the distinct features that pass flt.  The result is a copy and
// may be modified by the caller.
func (x *Index) Set(flt Filter) Set {
	x.mu.Lock()
	s, ok := x.sets[flt]
	if !ok {
		s = NewSet(x.Filter(flt)...)
		x.sets[flt] = s
	}
	x.mu.Unlock()
	return s.Clone()
}
