// Package gff3 reads the tab-separated feature records of GFF3 annotation
// files.  See https://github.com/The-Sequence-Ontology/Specifications/blob/master/gff3.md.
//
// Only the flat record stream is exposed.  Lines starting with '#' and blank
// lines are skipped, and the parent/child hierarchy encoded in the attributes
// is not interpreted.
package gff3

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/tsv"
	"github.com/klauspost/compress/gzip"
)

// NumColumns is the number of columns in each GFF3 record.
const NumColumns = 9

// Record is one GFF3 line.
type Record struct {
	Seqid  string
	Source string
	// Type is the feature type, case-folded to lower case.
	Type string
	// Start and End are 1-based and inclusive, as in the file.
	Start, End int
	Score      string
	Strand     string
	Phase      string
	Attributes string
}

// row is the raw layout of a record, as parsed by tsv.Reader.
type row struct {
	Seqid      string
	Source     string
	Type       string
	Start      string
	End        string
	Score      string
	Strand     string
	Phase      string
	Attributes string
}

// Reader reads GFF3 records sequentially.
type Reader struct {
	r    *tsv.Reader
	name string
	n    int
}

// NewReader creates a Reader.  name is used only in error messages.
func NewReader(in io.Reader, name string) *Reader {
	r := tsv.NewReader(in)
	r.Comment = '#'
	r.LazyQuotes = true
	r.FieldsPerRecord = NumColumns
	return &Reader{r: r, name: name}
}

// NumRecords returns the number of records read so far.
func (r *Reader) NumRecords() int { return r.n }

// Read fills rec with the next record.  It returns io.EOF at the end of the
// input.  A malformed record yields an errors.Invalid error naming the input
// and the record.
func (r *Reader) Read(rec *Record) error {
	var raw row
	if err := r.r.Read(&raw); err != nil {
		if err == io.EOF {
			return err
		}
		return errors.E(errors.Invalid, fmt.Sprintf("gff3 %s: record %d", r.name, r.n+1), err)
	}
	r.n++
	start, err := strconv.Atoi(raw.Start)
	if err != nil {
		return r.invalid("bad start %q", raw.Start)
	}
	end, err := strconv.Atoi(raw.End)
	if err != nil {
		return r.invalid("bad end %q", raw.End)
	}
	if start < 1 {
		return r.invalid("start %d < 1", start)
	}
	if end < start {
		return r.invalid("end %d < start %d", end, start)
	}
	*rec = Record{
		Seqid:      raw.Seqid,
		Source:     raw.Source,
		Type:       strings.ToLower(raw.Type),
		Start:      start,
		End:        end,
		Score:      raw.Score,
		Strand:     raw.Strand,
		Phase:      raw.Phase,
		Attributes: raw.Attributes,
	}
	return nil
}

func (r *Reader) invalid(format string, args ...interface{}) error {
	return errors.E(errors.Invalid, fmt.Sprintf("gff3 %s: record %d: %s", r.name, r.n, fmt.Sprintf(format, args...)))
}

func attrPattern(key string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)(?:^|;)\s*` + regexp.QuoteMeta(key) + `=([^;/]+)`)
}

var (
	orderRE       = attrPattern("order")
	superfamilyRE = attrPattern("superfamily")
)

func attribute(re *regexp.Regexp, attributes string) string {
	m := re.FindStringSubmatch(attributes)
	if m == nil {
		return ""
	}
	return m[1]
}

// Attribute extracts the value of key from a GFF3 attribute column.  Keys are
// matched case-insensitively and must start an attribute.  The value ends at
// the next ';' or '/'.  It returns "" if the key is absent.
func Attribute(attributes, key string) string {
	return attribute(attrPattern(key), attributes)
}

// Order returns the transposable-element order named in attributes, or "".
func (rec *Record) Order() string { return attribute(orderRE, rec.Attributes) }

// Superfamily returns the transposable-element superfamily named in
// attributes, or "".
func (rec *Record) Superfamily() string { return attribute(superfamilyRE, rec.Attributes) }

// File is a Reader over a GFF3 file.
type File struct {
	*Reader
	in file.File
	gz io.Closer
}

// Open opens a GFF3 file for reading.  Gzip-compressed files are recognized
// by their extension.
func Open(ctx context.Context, path string) (*File, error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, fmt.Sprintf("gff3.Open %s", path))
	}
	f := &File{in: in}
	var r io.Reader = in.Reader(ctx)
	if fileio.DetermineType(path) == fileio.Gzip {
		gz, err := gzip.NewReader(r)
		if err != nil {
			_ = in.Close(ctx)
			return nil, errors.E(errors.Invalid, err, fmt.Sprintf("gff3.Open %s", path))
		}
		f.gz, r = gz, gz
	}
	f.Reader = NewReader(r, path)
	return f, nil
}

// Close closes the file.
func (f *File) Close(ctx context.Context) error {
	e := errors.Once{}
	if f.gz != nil {
		e.Set(f.gz.Close())
	}
	e.Set(f.in.Close(ctx))
	return e.Err()
}
