package fasta

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/grailbio/base/errors"
	"github.com/grailbio/base/file"
	"github.com/grailbio/base/tsv"
)

// Entry is one line of a FASTA index: "<sequence name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>", e.g. "chr3\t12345\t9000\t80\t81".
type Entry struct {
	Name      string
	Length    int64
	Offset    int64
	LineBases int64
	LineWidth int64
}

// ReadIndex parses a FASTA index.  Entries are returned in file order.
func ReadIndex(in io.Reader) ([]Entry, error) {
	r := tsv.NewReader(in)
	r.FieldsPerRecord = 5
	var entries []Entry
	for {
		var e Entry
		if err := r.Read(&e); err != nil {
			if err == io.EOF {
				break
			}
			return nil, errors.E(errors.Invalid, fmt.Sprintf("fasta index entry %d", len(entries)+1), err)
		}
		if e.Length < 0 || e.LineBases <= 0 || e.LineWidth < e.LineBases {
			return nil, errors.E(errors.Invalid, fmt.Sprintf("fasta index: bad entry %+v", e))
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadIndexPath reads the FASTA index at path.
func ReadIndexPath(ctx context.Context, path string) (entries []Entry, err error) {
	in, err := file.Open(ctx, path)
	if err != nil {
		return nil, errors.E(err, "fasta.ReadIndexPath "+path)
	}
	defer file.CloseAndReport(ctx, in, &err)
	if entries, err = ReadIndex(in.Reader(ctx)); err != nil {
		err = errors.E(err, path)
	}
	return
}

// Lengths maps each sequence name to its length.
func Lengths(entries []Entry) map[string]int {
	m := make(map[string]int, len(entries))
	for _, e := range entries {
		m[e.Name] = int(e.Length)
	}
	return m
}

// GenerateIndex generates an index (*.fai) from FASTA.  Every line of a
// sequence except the last must have the same length.
//
// The index format is defined by "samtool faidx"
// (http://www.htslib.org/doc/faidx.html).
func GenerateIndex(out io.Writer, in io.Reader) (err error) {
	var (
		w       = tsv.NewWriter(out)
		r       = bufio.NewReader(in)
		cur     Entry
		inSeq   bool
		cumByte int64
		eof     bool
		nSeq    int
	)
	setErr := func(e error) {
		if e != nil && err == nil {
			err = e
		}
	}
	flush := func() {
		if !inSeq {
			return
		}
		if cur.Name == "" {
			setErr(errors.E(errors.Invalid, "malformed FASTA file: empty sequence name"))
		}
		w.WriteString(cur.Name)
		w.WriteInt64(cur.Length)
		w.WriteInt64(cur.Offset)
		w.WriteInt64(cur.LineBases)
		w.WriteInt64(cur.LineWidth)
		setErr(w.EndLine())
		nSeq++
	}
	for !eof && err == nil {
		fullLine, e := r.ReadBytes('\n')
		if e == io.EOF {
			eof = true
		} else if e != nil {
			setErr(e)
		}
		cumByte += int64(len(fullLine))
		line := bytes.TrimRight(fullLine, "\r\n")
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			flush()
			cur = Entry{Name: strings.Split(string(line[1:]), " ")[0], Offset: cumByte}
			inSeq = true
			continue
		}
		if !inSeq {
			setErr(errors.E(errors.Invalid, "malformed FASTA file: sequence data before header"))
			break
		}
		if cur.LineWidth == 0 {
			cur.LineWidth = int64(len(fullLine))
			cur.LineBases = int64(len(line))
		}
		cur.Length += int64(len(line))
	}
	flush()
	setErr(w.Flush())
	if err == nil && nSeq == 0 {
		err = errors.E(errors.Invalid, "empty FASTA file")
	}
	return
}
