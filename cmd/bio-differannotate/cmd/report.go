package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/tsv"
	"github.com/grailbio/differannotate/annotation"
	"github.com/grailbio/differannotate/compare"
	"github.com/grailbio/differannotate/interval"
)

// featureKey names one feature class: a type, or with -temd, a
// transposable-element order or superfamily.
type featureKey struct {
	column interval.Column
	id     int
	label  string
}

func (k featureKey) String() string { return k.column.String() + ":" + k.label }

// featureKeys lists the classes to report, in id order.  The unclassified
// order and superfamily are skipped.
func featureKeys(s *annotation.Store, temd bool) []featureKey {
	var keys []featureKey
	for id, label := range s.Types().Labels() {
		keys = append(keys, featureKey{interval.TypeColumn, id, label})
	}
	if !temd {
		return keys
	}
	for id, label := range s.Orders().Labels() {
		if id > 0 {
			keys = append(keys, featureKey{interval.OrderColumn, id, label})
		}
	}
	for id, label := range s.Superfamilies().Labels() {
		if id > 0 {
			keys = append(keys, featureKey{interval.SuperfamilyColumn, id, label})
		}
	}
	return keys
}

// strandMode selects which strands are compared.
type strandMode struct {
	name     string
	stranded bool
	strand   interval.Strand
}

var strandModes = []strandMode{
	{"+/-", false, interval.Forward},
	{"+", true, interval.Forward},
	{"-", true, interval.Reverse},
}

func (m strandMode) filter(k featureKey) interval.Filter {
	flt := interval.Filter{Column: k.column, ID: k.id}
	if m.stranded {
		flt = flt.WithStrand(m.strand)
	}
	return flt
}

func loadStore(ctx context.Context, c *config) (*annotation.Store, error) {
	paths, names, err := c.treatments()
	if err != nil {
		return nil, err
	}
	s, err := annotation.NewStore(ctx, c.control, c.cname, c.opts())
	if err != nil {
		return nil, err
	}
	for i, path := range paths {
		if err := s.AddSource(ctx, path, names[i]); err != nil {
			_ = s.Close(ctx)
			return nil, err
		}
	}
	return s, nil
}

// createOutput opens path for writing, or stdout if path is empty.  The
// returned function closes the output.
func createOutput(ctx context.Context, path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	out, err := file.Create(ctx, path)
	if err != nil {
		return nil, nil, errors.E(err, "create "+path)
	}
	return out.Writer(ctx), func() error { return out.Close(ctx) }, nil
}

func runBases(ctx context.Context, c *config) (err error) {
	s, err := loadStore(ctx, c)
	if err != nil {
		return err
	}
	defer func() {
		if e := s.Close(ctx); e != nil && err == nil {
			err = e
		}
	}()
	w, closeOut, err := createOutput(ctx, c.out)
	if err != nil {
		return err
	}
	err = writeBases(s, c.temd, tsv.NewWriter(w))
	if e := closeOut(); e != nil && err == nil {
		err = e
	}
	return err
}

// writeBases writes one row per (chromosome, feature class, strand mode,
// treatment) with base-level confusion statistics.
func writeBases(s *annotation.Store, temd bool, w *tsv.Writer) error {
	names := s.Names()
	w.WriteString("#CHROM\tFEATURE\tSTRAND\tSOURCE\tTP\tFP\tTN\tFN\tSENS\tSPEC\tPREC")
	if err := w.EndLine(); err != nil {
		return err
	}
	for _, chrom := range s.ChromosomeIntersection() {
		for _, key := range featureKeys(s, temd) {
			both, _, err := s.Presence(chrom, key.column, key.id, false)
			if err != nil {
				return err
			}
			fwd, rev, err := s.Presence(chrom, key.column, key.id, true)
			if err != nil {
				return err
			}
			for _, m := range []struct {
				name string
				p    *compare.Presence
			}{{strandModes[0].name, both}, {strandModes[1].name, fwd}, {strandModes[2].name, rev}} {
				conf := compare.BaseConfusion(m.p)
				sens, spec, prec := conf.Sensitivity(), conf.Specificity(), conf.Precision()
				for i := 1; i < len(names); i++ {
					w.WriteString(chrom)
					w.WriteString(key.String())
					w.WriteString(m.name)
					w.WriteString(names[i])
					w.WriteInt64(int64(conf.TP[i]))
					w.WriteInt64(int64(conf.FP[i]))
					w.WriteInt64(int64(conf.TN[i]))
					w.WriteInt64(int64(conf.FN[i]))
					w.WriteFloat64(sens[i], 'f', 4)
					w.WriteFloat64(spec[i], 'f', 4)
					w.WriteFloat64(prec[i], 'f', 4)
					if err := w.EndLine(); err != nil {
						return err
					}
				}
			}
		}
		log.Printf("bases: %s done", chrom)
	}
	return w.Flush()
}

func runIntervals(ctx context.Context, c *config) (err error) {
	if _, err = interval.CheckThreshold(c.p); err != nil {
		return err
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
	var vennW *tsv.Writer
	if c.venn != "" {
		if n := len(s.Names()); n != 2 && n != 3 {
			return fmt.Errorf("-venn requires one or two treatments, but got %d", n-1)
		}
		w, closeVenn, err := createOutput(ctx, c.venn)
		if err != nil {
			return err
		}
		defer func() {
			if e := closeVenn(); e != nil && err == nil {
				err = e
			}
		}()
		vennW = tsv.NewWriter(w)
	}
	w, closeOut, err := createOutput(ctx, c.out)
	if err != nil {
		return err
	}
	err = writeIntervals(s, c.temd, c.p, tsv.NewWriter(w), vennW)
	if e := closeOut(); e != nil && err == nil {
		err = e
	}
	return err
}

// writeIntervals writes one row per (chromosome, feature class, strand mode,
// treatment) with interval-level statistics to w.  If venn is non-nil, it
// also writes the Venn region counts of all sources.
func writeIntervals(s *annotation.Store, temd bool, p float64, w, venn *tsv.Writer) error {
	names := s.Names()
	w.WriteString("#CHROM\tFEATURE\tSTRAND\tSOURCE\tTP\tFP\tFN\tSENS\tPREC")
	if err := w.EndLine(); err != nil {
		return err
	}
	if venn != nil {
		if len(names) == 2 {
			venn.WriteString("#CHROM\tFEATURE\tSTRAND\tAb\taB\tAB")
		} else {
			venn.WriteString("#CHROM\tFEATURE\tSTRAND\tAbc\taBc\tABc\tabC\tAbC\taBC\tABC")
		}
		if err := venn.EndLine(); err != nil {
			return err
		}
	}
	for _, chrom := range s.ChromosomeIntersection() {
		for _, key := range featureKeys(s, temd) {
			for _, m := range strandModes {
				flt := m.filter(key)
				var (
					counts []int
					first  compare.Counts2
				)
				for i := 1; i < len(names); i++ {
					part, err := s.Pairwise(chrom, names[0], names[i], flt, p)
					if err != nil {
						return err
					}
					c := part.Counts()
					if i == 1 {
						first = c
					}
					r := compare.RegionStats(c)
					w.WriteString(chrom)
					w.WriteString(key.String())
					w.WriteString(m.name)
					w.WriteString(names[i])
					w.WriteInt64(int64(r.TP))
					w.WriteInt64(int64(r.FP))
					w.WriteInt64(int64(r.FN))
					w.WriteFloat64(r.Sensitivity, 'f', 4)
					w.WriteFloat64(r.Precision, 'f', 4)
					if err := w.EndLine(); err != nil {
						return err
					}
				}
				if venn == nil {
					continue
				}
				if len(names) == 2 {
					counts = []int{first.OnlyA, first.OnlyB, first.Matched}
				} else {
					part, err := s.Triwise(chrom, names[0], names[1], names[2], flt, p)
					if err != nil {
						return err
					}
					c := part.Counts()
					counts = c[:]
				}
				venn.WriteString(chrom)
				venn.WriteString(key.String())
				venn.WriteString(m.name)
				for _, n := range counts {
					venn.WriteInt64(int64(n))
				}
				if err := venn.EndLine(); err != nil {
					return err
				}
			}
		}
		log.Printf("intervals: %s done", chrom)
	}
	if venn != nil {
		if err := venn.Flush(); err != nil {
			return err
		}
	}
	return w.Flush()
}
