package annotation

import (
	"context"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/log"
	"github.com/grailbio/differannotate/encoding/gff3"
	"github.com/grailbio/differannotate/interval"
)

// load reads one GFF3 file into a new source.  Loading is all-or-nothing: on
// error the Store is left as it was, except that labels seen before the bad
// record stay interned.
func (s *Store) load(ctx context.Context, path, name string, isControl bool) (err error) {
	if _, ok := s.byName[name]; ok {
		return errors.E(errors.Invalid, fmt.Sprintf("annotation: duplicate source name %q", name))
	}
	start := time.Now()
	in, err := gff3.Open(ctx, path)
	if err != nil {
		return err
	}
	defer func() {
		if e := in.Close(ctx); e != nil && err == nil {
			err = errors.E(e, "annotation: close "+path)
		}
	}()

	var (
		builders = map[string]*interval.Builder{}
		rec      gff3.Record
		nFeature int
		nSkipped int
	)
	for {
		if err := in.Read(&rec); err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		if s.excludeTypes[rec.Type] {
			nSkipped++
			continue
		}
		var typeID int
		if isControl {
			typeID = s.types.GetOrAssign(rec.Type)
		} else {
			var ok bool
			if typeID, ok = s.types.ID(rec.Type); !ok {
				nSkipped++
				continue
			}
		}
		strand, err := interval.ParseStrand(rec.Strand)
		if err != nil {
			return errors.E(errors.Invalid, fmt.Sprintf("annotation: %s record %d", path, in.NumRecords()), err)
		}
		if int64(rec.End) > math.MaxUint32 {
			return errors.E(errors.Invalid, fmt.Sprintf("annotation: %s record %d: end %d out of range", path, in.NumRecords(), rec.End))
		}
		f := interval.Feature{
			Start:  uint32(rec.Start - 1),
			End:    uint32(rec.End),
			Strand: strand,
			Type:   typeID,
		}
		if s.teTypes[rec.Type] {
			f.Order = s.orders.GetOrAssign(rec.Order())
			f.Superfamily = s.superfamilies.GetOrAssign(rec.Superfamily())
		}
		b, ok := builders[rec.Seqid]
		if !ok {
			b = &interval.Builder{}
			builders[rec.Seqid] = b
		}
		b.Insert(f)
		nFeature++
	}

	src := &source{name: name, path: path, chroms: make(map[string]*interval.Index, len(builders))}
	for chrom, b := range builders {
		src.chroms[chrom] = b.Build()
	}
	s.sources = append(s.sources, src)
	s.byName[name] = src
	log.Printf("annotation: loaded %s as %q: %d features on %d chromosomes, %d records skipped (%v)",
		path, name, nFeature, len(src.chroms), nSkipped, time.Since(start))
	return nil
}
