// Copyright 2018 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Package composition computes the nucleotide composition of reference
// regions in parallel.
package composition

import (
	"context"
	"runtime"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
)

// Fractions holds the fraction of each base in a region.  Fractions are
// relative to the full region length, so they sum to less than 1 when the
// region contains N or other symbols.  Lowercase (soft-masked) bases count.
type Fractions struct {
	A, T, G, C float64
}

// Count computes the Fractions of seq.  An empty seq yields all zeros.
func Count(seq string) Fractions {
	var a, t, g, c int
	for i := 0; i < len(seq); i++ {
		switch seq[i] {
		case 'A', 'a':
			a++
		case 'T', 't':
			t++
		case 'G', 'g':
			g++
		case 'C', 'c':
			c++
		}
	}
	if len(seq) == 0 {
		return Fractions{}
	}
	n := float64(len(seq))
	return Fractions{A: float64(a) / n, T: float64(t) / n, G: float64(g) / n, C: float64(c) / n}
}

// Task names one region, in 0-based half-open coordinates.
type Task struct {
	Seq        string
	Start, End int64
}

// Source fetches reference bases.  *fasta.File implements it.
type Source interface {
	Get(seqName string, start, end int64) (string, error)
	Close(ctx context.Context) error
}

// Opener creates a Source.  Compute calls it once per worker, so that no
// reference handle is shared between goroutines.
type Opener func(ctx context.Context) (Source, error)

// Compute returns the composition of each task's region, in task order.
// parallelism <= 0 means runtime.NumCPU().
func Compute(ctx context.Context, open Opener, tasks []Task, parallelism int) ([]Fractions, error) {
	if parallelism <= 0 {
		parallelism = runtime.NumCPU()
	}
	if parallelism > len(tasks) {
		parallelism = len(tasks)
	}
	if parallelism == 0 {
		return nil, nil
	}
	result := make([]Fractions, len(tasks))
	nTask := len(tasks)
	err := traverse.Each(parallelism, func(jobIdx int) (err error) {
		src, err := open(ctx)
		if err != nil {
			return err
		}
		defer func() {
			if e := src.Close(ctx); e != nil && err == nil {
				err = e
			}
		}()
		startIdx := (jobIdx * nTask) / parallelism
		endIdx := ((jobIdx + 1) * nTask) / parallelism
		for i := startIdx; i < endIdx; i++ {
			t := tasks[i]
			seq, err := src.Get(t.Seq, t.Start, t.End)
			if err != nil {
				return errors.E(err, "composition")
			}
			result[i] = Count(seq)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug.Printf("composition.Compute: %d regions, %d workers", nTask, parallelism)
	return result, nil
}
