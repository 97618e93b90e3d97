package annotation

import (
	"context"
	"fmt"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/differannotate/compare"
	"github.com/grailbio/differannotate/composition"
	"github.com/grailbio/differannotate/encoding/fasta"
	"github.com/grailbio/differannotate/interval"
)

// Presence builds the base-level presence matrix of chrom for features whose
// column equals id.  Row i belongs to source i.  If stranded, forward-strand
// features go to fwd and reverse-strand features to rev; otherwise all go to
// fwd and rev is nil.  Features are clipped to MaxCoordinate(chrom).  It fails
// with errors.Precondition if any source lacks chrom.
func (s *Store) Presence(chrom string, column interval.Column, id int, stranded bool) (fwd, rev *compare.Presence, err error) {
	flt := interval.Filter{Column: column, ID: id}
	if err := flt.Validate(); err != nil {
		return nil, nil, err
	}
	idxs := make([]*interval.Index, len(s.sources))
	for i, src := range s.sources {
		if idxs[i], err = s.Index(src.name, chrom); err != nil {
			return nil, nil, err
		}
	}
	length, err := s.MaxCoordinate(chrom)
	if err != nil {
		return nil, nil, err
	}
	start := time.Now()
	fwd = compare.NewPresence(len(s.sources), length)
	if stranded {
		rev = compare.NewPresence(len(s.sources), length)
	}
	for i, idx := range idxs {
		for _, f := range idx.Filter(flt) {
			if stranded && f.Strand == interval.Reverse {
				rev.SetRange(i, int(f.Start), int(f.End))
			} else {
				fwd.SetRange(i, int(f.Start), int(f.End))
			}
		}
	}
	log.Debug.Printf("annotation.Presence %s %v=%d stranded=%v: %v", chrom, column, id, stranded, time.Since(start))
	return fwd, rev, nil
}

// Pairwise partitions the features of sources a and b on chrom that pass flt.
// See compare.Pairwise.
func (s *Store) Pairwise(chrom, a, b string, flt interval.Filter, p float64) (compare.Partition2, error) {
	ia, err := s.Index(a, chrom)
	if err != nil {
		return compare.Partition2{}, err
	}
	ib, err := s.Index(b, chrom)
	if err != nil {
		return compare.Partition2{}, err
	}
	return compare.Pairwise(ia, ib, flt, p)
}

// Triwise partitions the features of sources a, b and c on chrom that pass
// flt.  See compare.Triwise.
func (s *Store) Triwise(chrom, a, b, c string, flt interval.Filter, p float64) (compare.Partition3, error) {
	var idx [3]*interval.Index
	for i, name := range []string{a, b, c} {
		var err error
		if idx[i], err = s.Index(name, chrom); err != nil {
			return compare.Partition3{}, err
		}
	}
	return compare.Triwise(idx[0], idx[1], idx[2], flt, p)
}

// Lengths returns the lengths of the distinct features of the named source on
// chrom that pass flt, in Feature.Less order.
func (s *Store) Lengths(chrom, name string, flt interval.Filter) ([]int, error) {
	if err := flt.Validate(); err != nil {
		return nil, err
	}
	idx, err := s.Index(name, chrom)
	if err != nil {
		return nil, err
	}
	fs := idx.Set(flt).Sorted()
	lens := make([]int, len(fs))
	for i, f := range fs {
		lens[i] = f.Len()
	}
	return lens, nil
}

// Sequence returns the reference bases of chrom in [start, end).  It
// requires HasReference().
func (s *Store) Sequence(chrom string, start, end int) (string, error) {
	if s.ref == nil {
		return "", errNoReference
	}
	return s.ref.Get(chrom, int64(start), int64(end))
}

// Composition returns the base composition of each distinct feature of the
// named source on chrom that passes flt, in Feature.Less order.  Features are
// clipped to the reference; those entirely past its end get zero fractions.
// It returns nil, nil when the Store has no reference.
func (s *Store) Composition(ctx context.Context, chrom, name string, flt interval.Filter) ([]composition.Fractions, error) {
	if err := flt.Validate(); err != nil {
		return nil, err
	}
	idx, err := s.Index(name, chrom)
	if err != nil {
		return nil, err
	}
	if s.ref == nil {
		return nil, nil
	}
	refLen, ok := s.refLens[chrom]
	if !ok {
		return nil, errors.E(errors.NotExist, fmt.Sprintf("annotation: chromosome %q not in reference %s", chrom, s.opts.ReferencePath))
	}
	fs := idx.Set(flt).Sorted()
	var (
		tasks []composition.Task
		slots []int
	)
	for i, f := range fs {
		end := int64(f.End)
		if end > int64(refLen) {
			end = int64(refLen)
		}
		if int64(f.Start) >= end {
			continue
		}
		tasks = append(tasks, composition.Task{Seq: chrom, Start: int64(f.Start), End: end})
		slots = append(slots, i)
	}
	path, index := s.opts.ReferencePath, s.refIndex
	open := func(ctx context.Context) (composition.Source, error) {
		f, err := fasta.OpenIndexed(ctx, path, index)
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	fr, err := composition.Compute(ctx, open, tasks, s.opts.Parallelism)
	if err != nil {
		return nil, err
	}
	result := make([]composition.Fractions, len(fs))
	for i, slot := range slots {
		result[slot] = fr[i]
	}
	return result, nil
}
