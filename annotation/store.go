// Package annotation loads GFF3 annotations from a control and any number of
// treatment sources into per-chromosome interval indexes, and answers the
// comparison queries the command line reports are built from.
//
// Usage:
//
//	s, err := annotation.NewStore(ctx, "tair10.gff3", "control", annotation.DefaultOpts)
//	err = s.AddSource(ctx, "maker.gff3", "maker")
//	part, err := s.Pairwise("Chr1", "control", "maker", flt, 90)
//
// A Store is built once and then only read.  After the last AddSource, all
// query methods are safe for concurrent use.
package annotation

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/log"
	"github.com/grailbio/differannotate/encoding/fasta"
	"github.com/grailbio/differannotate/interval"
)

// source is one loaded annotation file.
type source struct {
	name   string
	path   string
	chroms map[string]*interval.Index
}

// Store holds the indexed features of every source, keyed by source name and
// chromosome.  Source 0 is the control: its feature types form the
// vocabulary, and features of other types in later sources are dropped.
type Store struct {
	opts         Opts
	teTypes      map[string]bool
	excludeTypes map[string]bool

	types         *IDTable
	orders        *IDTable
	superfamilies *IDTable

	sources []*source
	byName  map[string]*source

	// Reference state.  ref is nil when no usable reference was given.
	ref      *fasta.File
	refIndex []fasta.Entry
	refLens  map[string]int
}

// NewStore creates a Store and loads the control annotation from path.
func NewStore(ctx context.Context, path, name string, opts Opts) (*Store, error) {
	s := &Store{
		opts:          opts,
		teTypes:       stringSet(opts.TETypes),
		excludeTypes:  stringSet(opts.ExcludeTypes),
		types:         NewIDTable(),
		orders:        NewIDTable(),
		superfamilies: NewIDTable(),
		byName:        map[string]*source{},
	}
	// Id 0 of the classification tables is reserved for "unclassified".
	s.orders.GetOrAssign("")
	s.superfamilies.GetOrAssign("")

	if opts.ReferencePath != "" {
		if err := s.openReference(ctx, opts.ReferencePath); err != nil {
			return nil, err
		}
	}
	if err := s.load(ctx, path, name, true); err != nil {
		_ = s.Close(ctx)
		return nil, err
	}
	return s, nil
}

func stringSet(vals []string) map[string]bool {
	m := make(map[string]bool, len(vals))
	for _, v := range vals {
		m[v] = true
	}
	return m
}

// openReference opens a FASTA file if its index exists.  A missing index is
// not an error; the Store just works without a reference.
func (s *Store) openReference(ctx context.Context, path string) error {
	indexPath := path + fasta.IndexSuffix
	if _, err := file.Stat(ctx, indexPath); err != nil {
		if errors.Is(errors.NotExist, err) || os.IsNotExist(err) {
			log.Printf("annotation: %s not found, ignoring reference %s", indexPath, path)
			return nil
		}
		return errors.E(err, "annotation: stat "+indexPath)
	}
	index, err := fasta.ReadIndexPath(ctx, indexPath)
	if err != nil {
		return err
	}
	if s.ref, err = fasta.OpenIndexed(ctx, path, index); err != nil {
		return err
	}
	s.refIndex = index
	s.refLens = fasta.Lengths(index)
	log.Printf("annotation: reference %s: %d sequences", path, len(index))
	return nil
}

// AddSource loads a treatment annotation.  name must be unique in the Store.
func (s *Store) AddSource(ctx context.Context, path, name string) error {
	return s.load(ctx, path, name, false)
}

// Close releases the reference.
func (s *Store) Close(ctx context.Context) error {
	if s.ref == nil {
		return nil
	}
	err := s.ref.Close(ctx)
	s.ref = nil
	return err
}

// Names returns the source names in load order.  The control is first.
func (s *Store) Names() []string {
	names := make([]string, len(s.sources))
	for i, src := range s.sources {
		names[i] = src.name
	}
	return names
}

// Types returns the feature-type table.  The caller must not modify it.
func (s *Store) Types() *IDTable { return s.types }

// Orders returns the transposable-element order table.  Id 0 is the empty
// label.  The caller must not modify it.
func (s *Store) Orders() *IDTable { return s.orders }

// Superfamilies returns the transposable-element superfamily table.  Id 0 is
// the empty label.  The caller must not modify it.
func (s *Store) Superfamilies() *IDTable { return s.superfamilies }

// HasReference reports whether a reference sequence is available.
func (s *Store) HasReference() bool { return s.ref != nil }

// Index returns the index of chromosome chrom of the named source.  It fails
// with errors.Precondition if either is unknown.
func (s *Store) Index(name, chrom string) (*interval.Index, error) {
	src, ok := s.byName[name]
	if !ok {
		return nil, errors.E(errors.Precondition, fmt.Sprintf("annotation: source %q not loaded", name))
	}
	idx, ok := src.chroms[chrom]
	if !ok {
		return nil, errors.E(errors.Precondition, fmt.Sprintf("annotation: chromosome %q not in source %q", chrom, name))
	}
	return idx, nil
}

// ChromosomeIntersection returns the chromosomes present in every source,
// sorted.
func (s *Store) ChromosomeIntersection() []string {
	if len(s.sources) == 0 {
		return nil
	}
	var chroms []string
	for chrom := range s.sources[0].chroms {
		shared := true
		for _, src := range s.sources[1:] {
			if _, ok := src.chroms[chrom]; !ok {
				shared = false
				break
			}
		}
		if shared {
			chroms = append(chroms, chrom)
		}
	}
	sort.Strings(chroms)
	return chroms
}

// MaxCoordinate returns the length of chrom.  This is the reference length if
// the reference has chrom, otherwise the largest feature end of any source.
// It fails with errors.NotExist if nothing is known about chrom.
func (s *Store) MaxCoordinate(chrom string) (int, error) {
	if n, ok := s.refLens[chrom]; ok {
		return n, nil
	}
	max, found := 0, false
	for _, src := range s.sources {
		if idx, ok := src.chroms[chrom]; ok {
			found = true
			if int(idx.Max()) > max {
				max = int(idx.Max())
			}
		}
	}
	if !found {
		return 0, errors.E(errors.NotExist, fmt.Sprintf("annotation: chromosome %q not found", chrom))
	}
	return max, nil
}

var errNoReference = errors.E(errors.Precondition, "annotation: no reference loaded")
