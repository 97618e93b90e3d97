// Package fasta provides random access to reference sequences stored in
// indexed FASTA files.  See http://www.htslib.org/doc/faidx.html.  Briefly,
// FASTA files consist of a number of named sequences that may be interrupted
// by newlines.  For example:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Sequence names are the stretch of characters after '>' up to the first
// space; '>chr1 A viral sequence' names 'chr1'.
//
// Random access requires the samtools-style index (<fasta>.fai), which
// GenerateIndex can produce.
package fasta

import (
	"context"
	"io"
	"sync"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	pkgerrors "github.com/pkg/errors"
)

// IndexSuffix is appended to a FASTA path to find its index.
const IndexSuffix = ".fai"

// Reader fetches subsequences from an indexed FASTA stream.  It is
// thread-safe, but concurrent Gets serialize on a single seek position; give
// each worker its own Reader for parallel access.
type Reader struct {
	entries  map[string]Entry
	seqNames []string
	in       io.ReadSeeker

	mu     sync.Mutex
	bufOff int64
	buf    []byte // caches file contents starting at bufOff.
	seq    []byte // scratch for stripping line breaks.
}

// NewReader creates a Reader over in using the given index entries.
func NewReader(in io.ReadSeeker, index []Entry) *Reader {
	r := &Reader{entries: make(map[string]Entry, len(index)), in: in}
	for _, e := range index {
		r.entries[e.Name] = e
		r.seqNames = append(r.seqNames, e.Name)
	}
	return r
}

// SeqNames returns the sequence names, in file order.
func (r *Reader) SeqNames() []string { return r.seqNames }

// Len returns the length of the named sequence.
func (r *Reader) Len(seqName string) (int64, error) {
	e, ok := r.entries[seqName]
	if !ok {
		return 0, pkgerrors.Errorf("sequence not found in index: %s", seqName)
	}
	return e.Length, nil
}

// Get returns the bases of seqName in the 0-based half-open range
// [start, end).  Case is preserved.
func (r *Reader) Get(seqName string, start, end int64) (string, error) {
	if start < 0 || end <= start {
		return "", pkgerrors.Errorf("invalid range [%d,%d)", start, end)
	}
	e, ok := r.entries[seqName]
	if !ok {
		return "", pkgerrors.Errorf("sequence not found in index: %s", seqName)
	}
	if end > e.Length {
		return "", pkgerrors.Errorf("end %d is past end of sequence %s: %d", end, seqName, e.Length)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	// Byte offset of start, skipping the line terminators before it.
	termLen := e.LineWidth - e.LineBases
	off := e.Offset + start + termLen*(start/e.LineBases)
	// The last base sits at the same relative position for end-1.
	last := e.Offset + (end - 1) + termLen*((end-1)/e.LineBases)
	raw, err := r.read(off, int(last-off+1))
	if err != nil {
		return "", pkgerrors.Wrapf(err, "fasta read %s:%d-%d", seqName, start, end)
	}

	n := int(end - start)
	if cap(r.seq) < n {
		r.seq = make([]byte, n)
	}
	r.seq = r.seq[:0]
	col := start % e.LineBases
	for i := 0; i < len(raw) && len(r.seq) < n; {
		// Copy the rest of the current line, then step over its terminator.
		take := int(e.LineBases - col)
		if rem := len(raw) - i; take > rem {
			take = rem
		}
		r.seq = append(r.seq, raw[i:i+take]...)
		i += take + int(termLen)
		col = 0
	}
	if len(r.seq) != n {
		return "", pkgerrors.Errorf("fasta %s:%d-%d: got %d bases, want %d (bad index?)", seqName, start, end, len(r.seq), n)
	}
	return string(r.seq), nil
}

// read returns the n bytes at off.  REQUIRES: r.mu is held.
func (r *Reader) read(off int64, n int) ([]byte, error) {
	limit := off + int64(n)
	if off >= r.bufOff && limit <= r.bufOff+int64(len(r.buf)) {
		return r.buf[off-r.bufOff : limit-r.bufOff], nil
	}
	if _, err := r.in.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	size := 8192
	if size < n {
		size = n
	}
	if cap(r.buf) < size {
		r.buf = make([]byte, size)
	}
	r.buf = r.buf[:size]
	nRead, err := io.ReadFull(r.in, r.buf)
	if nRead < n {
		if err == nil || err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		r.buf = r.buf[:0]
		return nil, pkgerrors.Wrap(err, "unexpected end of file (bad index? file doesn't end in newline?)")
	}
	r.bufOff = off
	r.buf = r.buf[:nRead]
	return r.buf[:n], nil
}

// File is a Reader over a FASTA file and its index.
type File struct {
	*Reader
	in file.File
}

// Open opens fastaPath for random access.  The index is read from
// fastaPath+IndexSuffix, which must exist.
func Open(ctx context.Context, fastaPath string) (*File, error) {
	index, err := ReadIndexPath(ctx, fastaPath+IndexSuffix)
	if err != nil {
		return nil, err
	}
	return OpenIndexed(ctx, fastaPath, index)
}

// OpenIndexed opens fastaPath for random access using an index that was
// already read, e.g. by ReadIndexPath.
func OpenIndexed(ctx context.Context, fastaPath string, index []Entry) (*File, error) {
	in, err := file.Open(ctx, fastaPath)
	if err != nil {
		return nil, errors.E(err, "fasta.Open "+fastaPath)
	}
	return &File{Reader: NewReader(in.Reader(ctx), index), in: in}, nil
}

// Close closes the underlying file.
func (f *File) Close(ctx context.Context) error {
	return f.in.Close(ctx)
}
