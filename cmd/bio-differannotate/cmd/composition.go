package cmd

import (
	"context"
	"fmt"
	"math"

	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/differannotate/annotation"
	"github.com/grailbio/differannotate/interval"
)

func runComposition(ctx context.Context, c *config) (err error) {
	if c.reference == "" {
		return fmt.Errorf("composition requires -reference")
	}
	s, err := loadStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if e := s.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	if !s.HasReference() {
		return fmt.Errorf("reference %s has no index, run 'bio-differannotate index %s' first", c.reference, c.reference)
	}
	w, closeOut, err := createOutput(ctx, c.out)
	if err != nil {
		return err
	}
	err = writeComposition(ctx, s, c.temd, tsv.NewWriter(w))
	if e := closeOut(); e != nil && err == nil {
		err = e
	}
	return err
}

// writeComposition writes one row per (chromosome, feature class, source)
// with the number of distinct features, their mean length and their mean base
// fractions.  Means of an empty class are NaN.
func writeComposition(ctx context.Context, s *annotation.Store, temd bool, w *tsv.Writer) error {
	w.WriteString("#CHROM\tFEATURE\tSOURCE\tN\tMEANLEN\tA\tT\tG\tC")
	if err := w.EndLine(); err != nil {
		return err
	}
	for _, chrom := range s.ChromosomeIntersection() {
		for _, key := range featureKeys(s, temd) {
			flt := interval.Filter{Column: key.column, ID: key.id}
			for _, name := range s.Names() {
				lens, err := s.Lengths(chrom, name, flt)
				if err != nil {
					return err
				}
				fr, err := s.Composition(ctx, chrom, name, flt)
				if err != nil {
					return err
				}
				var sumLen, a, t, g, c float64
				for i, l := range lens {
					sumLen += float64(l)
					a += fr[i].A
					t += fr[i].T
					g += fr[i].G
					c += fr[i].C
				}
				n := float64(len(lens))
				if n == 0 {
					n = math.NaN()
				}
				w.WriteString(chrom)
				w.WriteString(key.String())
				w.WriteString(name)
				w.WriteInt64(int64(len(lens)))
				for _, v := range []float64{sumLen, a, t, g, c} {
					w.WriteFloat64(v/n, 'f', 4)
				}
				if err := w.EndLine(); err != nil {
					return err
				}
			}
		}
		log.Printf("composition: %s done", chrom)
	}
	return w.Flush()
}
